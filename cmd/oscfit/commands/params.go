package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/oscfit/oscfit/pkg/config"
	"github.com/oscfit/oscfit/pkg/params"
	"github.com/oscfit/oscfit/pkg/telemetry"
)

func newParamsCommand() *cobra.Command {
	var (
		freeOnly  bool
		hierarchy string
	)

	cmd := &cobra.Command{
		Use:   "params <settings-file>",
		Short: "List the parameters of a settings document",
		Long: `List the parameters of a settings document in declaration order.

With --hierarchy, the set is first collapsed to one mass-ordering
hypothesis: of each _nh/_ih parameter pair only the selected variant
survives, under the bare name.`,
		Example: `  # All parameters
  oscfit params template_settings.json

  # Only the fit dimensions under normal ordering
  oscfit params --free --hierarchy normal template_settings.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			log := telemetry.FromContext(cmd.Context()).NewComponentLogger("params").WithSettings(args[0])
			loader := config.NewLoader(log.Zerolog())
			settings, err := loader.LoadFile(args[0])
			if err != nil {
				return err
			}

			set := settings.Params
			switch hierarchy {
			case "":
			case "normal":
				set = set.SelectHierarchy(true)
			case "inverted":
				set = set.SelectHierarchy(false)
			default:
				return fmt.Errorf("invalid hierarchy %q (must be 'normal' or 'inverted')", hierarchy)
			}

			if jsonOutput {
				return printParamsJSON(set, freeOnly)
			}
			return printParamsTable(set, freeOnly)
		},
	}

	cmd.Flags().BoolVar(&freeOnly, "free", false, "list only free parameters")
	cmd.Flags().StringVar(&hierarchy, "hierarchy", "", "collapse to one mass ordering (normal, inverted)")

	return cmd
}

func printParamsTable(set *params.Set, freeOnly bool) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tKIND\tVALUE\tFIXED\tRANGE\tSCALE\tPRIOR")

	for _, name := range set.Names() {
		p, err := set.Get(name)
		if err != nil {
			return err
		}
		if freeOnly && p.Fixed() {
			continue
		}

		rangeCol := "-"
		if r, ok := p.Range(); ok {
			rangeCol = fmt.Sprintf("[%g, %g]", r[0], r[1])
		}
		priorCol := "-"
		if sigma, ok := p.Prior(); ok {
			priorCol = fmt.Sprintf("%g", sigma)
		}

		fmt.Fprintf(w, "%s\t%s\t%s\t%t\t%s\t%g\t%s\n",
			p.Name(), p.Kind(), renderValue(p), p.Fixed(), rangeCol, p.Scale(), priorCol)
	}

	return w.Flush()
}

func printParamsJSON(set *params.Set, freeOnly bool) error {
	type entry struct {
		Name  string      `json:"name"`
		Kind  params.Kind `json:"kind"`
		Value string      `json:"value"`
		Fixed bool        `json:"fixed"`
		Range *[2]float64 `json:"range,omitempty"`
		Scale float64     `json:"scale"`
		Prior *float64    `json:"prior,omitempty"`
	}

	entries := []entry{}
	for _, name := range set.Names() {
		p, err := set.Get(name)
		if err != nil {
			return err
		}
		if freeOnly && p.Fixed() {
			continue
		}

		e := entry{
			Name:  p.Name(),
			Kind:  p.Kind(),
			Value: renderValue(p),
			Fixed: p.Fixed(),
			Scale: p.Scale(),
		}
		if r, ok := p.Range(); ok {
			e.Range = &r
		}
		if sigma, ok := p.Prior(); ok {
			e.Prior = &sigma
		}
		entries = append(entries, e)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(entries)
}

// renderValue gives a one-cell rendering of a parameter value.
func renderValue(p *params.Parameter) string {
	switch p.Kind() {
	case params.KindScalar:
		v, _ := p.Current()
		return fmt.Sprintf("%g", v)
	case params.KindPath:
		path, _ := p.Value().AsPath()
		return path
	case params.KindPathMap:
		m, _ := p.Value().AsPathMap()
		return fmt.Sprintf("%d paths", len(m))
	case params.KindCurveMap:
		keys, _ := p.Value().CurveKeys()
		return fmt.Sprintf("%d curves (%s)", len(keys), strings.Join(keys, ", "))
	default:
		return "?"
	}
}
