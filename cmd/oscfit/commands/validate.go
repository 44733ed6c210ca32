package commands

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/oscfit/oscfit/pkg/config"
	"github.com/oscfit/oscfit/pkg/telemetry"
)

func newValidateCommand() *cobra.Command {
	var watch bool

	cmd := &cobra.Command{
		Use:   "validate <settings-file>",
		Short: "Validate a template settings document",
		Long: `Validate a template settings document.

Validation collects every finding in one pass instead of stopping at the
first, so a broken document is fixed in one round trip. Findings at error
severity fail the command; advisory findings (for example a nominal value
outside its own range) are reported as warnings.`,
		Example: `  # Validate a settings file
  oscfit validate template_settings.json

  # Re-validate on every save
  oscfit validate --watch template_settings.json

  # Machine-readable findings
  oscfit validate --json template_settings.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			log := telemetry.FromContext(cmd.Context()).NewComponentLogger("validate").WithSettings(args[0])
			loader := config.NewLoader(log.Zerolog())

			settings, err := loader.LoadFile(args[0])
			reportValidation(args[0], settings, err)

			if !watch {
				if err != nil {
					return fmt.Errorf("validation failed")
				}
				return nil
			}

			if werr := loader.Watch(cmd.Context(), args[0], func(settings *config.Settings, err error) {
				switch {
				case err != nil:
					log.WithError(err).Error("Settings rejected on reload")
				case len(settings.Warnings) > 0:
					log.Warnf("Settings reloaded with %d advisory findings", len(settings.Warnings))
				default:
					log.Info("Settings reloaded")
				}
				reportValidation(args[0], settings, err)
			}); werr != nil {
				return werr
			}
			<-cmd.Context().Done()
			return nil
		},
	}

	cmd.Flags().BoolVar(&watch, "watch", false, "re-validate whenever the file changes")

	return cmd
}

// reportValidation prints one validation outcome in the selected format.
func reportValidation(path string, settings *config.Settings, err error) {
	if jsonOutput {
		reportValidationJSON(path, settings, err)
		return
	}

	if err != nil {
		var verr *config.Error
		if errors.As(err, &verr) {
			for _, v := range verr.Violations {
				fmt.Fprintln(os.Stderr, v.String())
			}
			fmt.Fprintf(os.Stderr, "%s: invalid (%d violations)\n", path, len(verr.Violations))
		} else {
			fmt.Fprintf(os.Stderr, "%s: %v\n", path, err)
		}
		return
	}

	for _, w := range settings.Warnings {
		fmt.Fprintln(os.Stderr, w.String())
	}
	fmt.Printf("%s: valid (%d params, %d free, %d warnings)\n",
		path, settings.Params.Len(), len(settings.Params.Free()), len(settings.Warnings))
}

func reportValidationJSON(path string, settings *config.Settings, err error) {
	type report struct {
		Source     string                   `json:"source"`
		Valid      bool                     `json:"valid"`
		Violations []config.ValidationError `json:"violations,omitempty"`
		Warnings   []config.ValidationError `json:"warnings,omitempty"`
		Error      string                   `json:"error,omitempty"`
	}

	r := report{Source: path, Valid: err == nil}
	var verr *config.Error
	switch {
	case errors.As(err, &verr):
		r.Violations = verr.Violations
	case err != nil:
		r.Error = err.Error()
	default:
		r.Warnings = settings.Warnings
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(r)
}
