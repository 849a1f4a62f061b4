package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/artisanexperiences/populate/internal/params"
	"github.com/artisanexperiences/populate/internal/render"
	"github.com/artisanexperiences/populate/internal/ui"
)

var rootCmd = &cobra.Command{
	Use:   "populate",
	Short: "Fill deployment templates with parameter values",
	Long: `Populate replaces <name> placeholders in a deployment template with values
from a parameters file.

A .yaml template is rendered to a standalone file (an ACI deployment, for
example). A .json template holds launch profiles that are merged into the
project's Properties/launchSettings.json, one profile at a time.`,
	Example: `  populate --template-file aci.template.yaml --output-file aci_deployment.yaml
  populate --template-file launchSettings.template.json --profile Dev`,
	Args:          noArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runPopulate,
}

func runPopulate(cmd *cobra.Command, args []string) error {
	templateFile := mustGetString(cmd, "template-file")
	if templateFile == "" {
		return usageErrorf(`required flag "template-file" not set`)
	}

	rc, err := newRunContext(cmd)
	if err != nil {
		return err
	}

	opts := render.Options{
		TemplateFile:   templateFile,
		ParametersFile: rc.String(cmd, "parameters-file", rc.Config.ParametersFile),
		OutputFile:     rc.String(cmd, "output-file", rc.Config.OutputFile),
		Profile:        mustGetString(cmd, "profile"),
		Force:          rc.Bool(cmd, "force", rc.Config.Force),
		DryRun:         rc.DryRun,
		Prompter:       ui.OverwritePrompter{Enabled: ui.ShouldPrompt(rc.NoInteractive)},
		Logger:         rc.Logger,
		Out:            cmd.OutOrStdout(),
	}

	if render.DetectMode(templateFile) == render.ModeLaunchSettings {
		opts.LaunchSettings, err = rc.LaunchSettingsPath(cmd)
		if err != nil {
			return err
		}
	}

	rc.Logger.Debug("rendering template", "template", opts.TemplateFile, "parameters", opts.ParametersFile)

	result, err := render.Dispatch(opts)
	if err != nil {
		return err
	}

	report(rc, result)
	return nil
}

func report(rc *RunContext, result *render.Result) {
	if rc.Quiet || result.Unsupported || rc.DryRun {
		return
	}

	if rc.Verbose && len(result.Substitutions) > 0 {
		fmt.Fprint(ui.Output, ui.RenderSubstitutionTable(result.Substitutions))
	}

	switch {
	case result.Written && result.Mode == render.ModeLaunchSettings:
		profiles := "no profiles"
		if len(result.Profiles) > 0 {
			profiles = "profiles: " + strings.Join(result.Profiles, ", ")
		}
		ui.PrintSuccess(fmt.Sprintf("Updated %s (%s)", ui.Code(result.OutputFile), profiles))
	case result.Written:
		ui.PrintSuccess(fmt.Sprintf("Wrote %s", ui.Code(result.OutputFile)))
	case result.Skipped:
		ui.PrintInfo("Not overwriting existing file. Exiting...")
	}
}

// Execute runs the root command. Aborted prompts are not errors.
func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		if ui.IsAbort(err) {
			return nil
		}
		printError(err)
		return err
	}
	return nil
}

func init() {
	rootCmd.PersistentFlags().Bool("dry-run", false, "Print the rendered output instead of writing it")
	rootCmd.PersistentFlags().Bool("verbose", false, "Enable verbose output")
	rootCmd.PersistentFlags().Bool("quiet", false, "Suppress all output except errors")
	rootCmd.PersistentFlags().Bool("no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().Bool("no-interactive", false, "Disable interactive prompts")
	rootCmd.PersistentFlags().String("config", "", "Config file (default: ./populate.yaml, then the global config)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn, error")

	rootCmd.Flags().String("template-file", "", "Template to render (.yaml or .json)")
	rootCmd.Flags().String("parameters-file", params.DefaultFile, "JSON or YAML file of parameter values")
	rootCmd.Flags().String("output-file", "", fmt.Sprintf("Output for YAML templates (default %q)", render.DefaultYAMLOutput))
	rootCmd.Flags().String("profile", "", "Only merge this launch profile (JSON templates)")
	rootCmd.Flags().String("project-dir", "", "Project root holding Properties/launchSettings.json (default: parent of the executable's directory)")
	rootCmd.Flags().String("launch-settings", "", "Launch settings file to update (overrides --project-dir)")
	rootCmd.Flags().Bool("force", false, "Overwrite an existing output file without asking")

	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return usageError{err}
	})
}

// noArgs rejects positional arguments, including unknown subcommands, as
// usage errors.
func noArgs(cmd *cobra.Command, args []string) error {
	if err := cobra.NoArgs(cmd, args); err != nil {
		return usageError{err}
	}
	return nil
}

func mustGetString(cmd *cobra.Command, name string) string {
	value, err := cmd.Flags().GetString(name)
	if err != nil {
		panic(fmt.Sprintf("programming error: flag %q not defined: %v", name, err))
	}
	return value
}

func mustGetBool(cmd *cobra.Command, name string) bool {
	value, err := cmd.Flags().GetBool(name)
	if err != nil {
		panic(fmt.Sprintf("programming error: flag %q not defined: %v", name, err))
	}
	return value
}
