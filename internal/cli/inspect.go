package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	perrors "github.com/artisanexperiences/populate/internal/errors"
	"github.com/artisanexperiences/populate/internal/params"
	"github.com/artisanexperiences/populate/internal/render"
	"github.com/artisanexperiences/populate/internal/ui"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "List the placeholders a template needs and whether they resolve",
	Long: `Inspect reads a template and a parameters file and shows, for every
placeholder the template references, whether the parameters file provides a
value. Nothing is written. The command fails when any placeholder is missing.`,
	Args: noArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		templateFile := mustGetString(cmd, "template-file")
		if templateFile == "" {
			return usageErrorf(`required flag "template-file" not set`)
		}

		rc, err := newRunContext(cmd)
		if err != nil {
			return err
		}

		names, err := render.TemplatePlaceholders(nil, templateFile)
		if err != nil {
			return err
		}

		paramsFile := rc.String(cmd, "parameters-file", rc.Config.ParametersFile)
		set, err := params.Load(nil, paramsFile)
		if err != nil {
			return err
		}

		rows := make([]ui.PlaceholderStatus, len(names))
		var missing []string
		for i, name := range names {
			value, ok := set.Lookup(name)
			rows[i] = ui.PlaceholderStatus{Name: name, Resolved: ok, Value: value}
			if !ok {
				missing = append(missing, name)
			}
		}

		if len(names) == 0 {
			ui.PrintInfo(fmt.Sprintf("%s has no placeholders", ui.Code(templateFile)))
		} else {
			fmt.Fprint(cmd.OutOrStdout(), ui.RenderPlaceholderTable(rows))
		}

		if unused := unusedParameters(set, names); len(unused) > 0 && !rc.Quiet {
			ui.PrintWarning(fmt.Sprintf("Parameters not used by the template: %s", perrors.QuoteNames(unused)))
		}

		if len(missing) > 0 {
			return perrors.Validation("inspect", templateFile, missing,
				fmt.Sprintf("value for parameter %s in the template is missing", perrors.QuoteNames(missing)))
		}
		if !rc.Quiet {
			ui.PrintSuccess(fmt.Sprintf("All %d placeholder(s) resolve from %s", len(names), ui.Code(paramsFile)))
		}
		return nil
	},
}

// unusedParameters lists the names in set that no placeholder refers to.
func unusedParameters(set params.Set, placeholders []string) []string {
	used := make(map[string]bool, len(placeholders))
	for _, name := range placeholders {
		used[name] = true
	}

	var unused []string
	for _, name := range set.Names() {
		if !used[name] {
			unused = append(unused, name)
		}
	}
	return unused
}

func init() {
	rootCmd.AddCommand(inspectCmd)

	inspectCmd.Flags().String("template-file", "", "Template to inspect (.yaml or .json)")
	inspectCmd.Flags().String("parameters-file", params.DefaultFile, "JSON or YAML file of parameter values")
}
