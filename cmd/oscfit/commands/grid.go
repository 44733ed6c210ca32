package commands

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/oscfit/oscfit/pkg/binning"
	"github.com/oscfit/oscfit/pkg/config"
	"github.com/oscfit/oscfit/pkg/telemetry"
)

func newGridCommand() *cobra.Command {
	var axisName string

	cmd := &cobra.Command{
		Use:   "grid <settings-file>",
		Short: "Print the oversampled evaluation grid of an axis",
		Long: `Print the oversampled evaluation grid of a binning axis.

Each coarse bin is subdivided into its oversampling factor of equal-width
sub-bins. Bin centers are geometric means on logarithmically spaced axes
(the energy axis) and arithmetic means otherwise.`,
		Example: `  # Oversampled energy grid
  oscfit grid --axis energy template_settings.json

  # Cosine-zenith grid as JSON
  oscfit grid --axis coszen --json template_settings.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			log := telemetry.FromContext(cmd.Context()).NewComponentLogger("grid").WithSettings(args[0])
			loader := config.NewLoader(log.Zerolog())
			settings, err := loader.LoadFile(args[0])
			if err != nil {
				return err
			}

			var axis binning.Axis
			switch axisName {
			case "energy":
				axis = settings.EnergyAxis
			case "coszen":
				axis = settings.CosZenAxis
			default:
				return fmt.Errorf("invalid axis %q (must be 'energy' or 'coszen')", axisName)
			}

			grid := binning.Build(axis)
			log.Debugf("built %s grid: %d coarse bins x %d", axis.Name(), axis.NBins(), axis.Oversample())

			if jsonOutput {
				out := struct {
					Axis        string    `json:"axis"`
					CoarseBins  int       `json:"coarse_bins"`
					Oversample  int       `json:"oversample"`
					Logarithmic bool      `json:"logarithmic"`
					Edges       []float64 `json:"edges"`
					Centers     []float64 `json:"centers"`
				}{
					Axis:        axis.Name(),
					CoarseBins:  axis.NBins(),
					Oversample:  axis.Oversample(),
					Logarithmic: binning.IsLogarithmic(axis.Edges()),
					Edges:       grid.Edges(),
					Centers:     grid.Centers(),
				}
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(out)
			}

			fmt.Printf("axis %s: %d coarse bins x %d = %d fine bins\n",
				axis.Name(), axis.NBins(), axis.Oversample(), grid.NBins())
			fmt.Println("edges:")
			for _, e := range grid.Edges() {
				fmt.Printf("  %.6g\n", e)
			}
			fmt.Println("centers:")
			for _, c := range grid.Centers() {
				fmt.Printf("  %.6g\n", c)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&axisName, "axis", "energy", "axis to print (energy, coszen)")

	return cmd
}
