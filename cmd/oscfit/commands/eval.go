package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/oscfit/oscfit/pkg/config"
	"github.com/oscfit/oscfit/pkg/exprs"
	"github.com/oscfit/oscfit/pkg/telemetry"
)

func newEvalCommand() *cobra.Command {
	var expr string

	cmd := &cobra.Command{
		Use:   "eval [settings-file <param> <key>] <x>...",
		Short: "Evaluate a parameterization curve",
		Long: `Evaluate a parameterization curve at one or more points.

With --expr the expression is compiled directly and the arguments are the
points to evaluate it at. Otherwise the first three arguments name a
settings file, a curve-map parameter and a curve key (for example
"numu_cc.trck"), followed by the points.

Expressions use the single variable E (energy in GeV) or cz (cosine of the
zenith angle) and the functions abs, exp and log10.`,
		Example: `  # Track-channel PID fraction for numu CC at 5 and 10 GeV
  oscfit eval template_settings.json particle_ID numu_cc.trck 5 10

  # Ad-hoc curve
  oscfit eval --expr "0.903*abs(cz)**0.420+0.363" -- -1 -0.5 0`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			log := telemetry.FromContext(cmd.Context()).NewComponentLogger("eval")

			var evalAt func(float64) (float64, error)

			if expr != "" {
				compiled, err := exprs.Compile(expr)
				if err != nil {
					return err
				}
				evalAt = compiled.Eval
			} else {
				if len(args) < 4 {
					return fmt.Errorf("need <settings-file> <param> <key> and at least one point")
				}
				log = log.WithSettings(args[0])
				loader := config.NewLoader(log.Zerolog())
				settings, err := loader.LoadFile(args[0])
				if err != nil {
					return err
				}
				param, key := args[1], args[2]
				set := settings.Params
				evalAt = func(x float64) (float64, error) {
					return set.ResolveExpression(param, key, x)
				}
				args = args[3:]
				log.WithParam(param).Debugf("evaluating curve %q at %d points", key, len(args))
			}

			type point struct {
				X float64 `json:"x"`
				Y float64 `json:"y"`
			}
			points := make([]point, 0, len(args))
			for _, arg := range args {
				x, err := strconv.ParseFloat(arg, 64)
				if err != nil {
					return fmt.Errorf("invalid point %q: %w", arg, err)
				}
				y, err := evalAt(x)
				if err != nil {
					return err
				}
				points = append(points, point{X: x, Y: y})
			}

			if jsonOutput {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(points)
			}
			for _, p := range points {
				fmt.Printf("%g\t%.6g\n", p.X, p.Y)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&expr, "expr", "", "evaluate this expression instead of a settings curve")

	return cmd
}
