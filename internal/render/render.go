// Package render turns templates into output files: a YAML template into a
// standalone file, a launch-settings template into profiles merged into an
// existing launchSettings.json.
package render

import (
	"io"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/artisanexperiences/populate/internal/fs"
	"github.com/artisanexperiences/populate/internal/logging"
	"github.com/artisanexperiences/populate/internal/params"
	"github.com/artisanexperiences/populate/internal/substitute"
)

// DefaultYAMLOutput is the output file used when a YAML template is
// rendered without an explicit output path. The spelling matches the file
// name existing deployment scripts look for.
const DefaultYAMLOutput = "aci_feployment.yaml"

// Mode identifies which driver handled a template.
type Mode string

const (
	ModeNone           Mode = ""
	ModeYAML           Mode = "yaml"
	ModeLaunchSettings Mode = "launch-settings"
)

// Prompter asks the user before an existing file is replaced.
type Prompter interface {
	ConfirmOverwrite(path string) (bool, error)
}

// Options configures a render run. Zero values select the defaults.
type Options struct {
	TemplateFile   string
	ParametersFile string

	// OutputFile is the YAML destination.
	OutputFile string

	// Profile restricts a launch-settings merge to one profile.
	Profile string
	// LaunchSettings is the launch-settings destination.
	LaunchSettings string

	Force  bool
	DryRun bool

	FS       fs.FS
	Prompter Prompter
	Logger   *log.Logger
	// Out receives rendered content on dry runs.
	Out io.Writer
}

// Result describes what a run did.
type Result struct {
	Mode        Mode
	OutputFile  string
	Written     bool
	Skipped     bool
	Unsupported bool
	// Profiles lists the launch profiles merged, in template order.
	Profiles      []string
	Substitutions []substitute.Substitution
}

func (o *Options) withDefaults() {
	if o.FS == nil {
		o.FS = fs.Default
	}
	if o.Logger == nil {
		o.Logger = logging.Discard()
	}
	if o.Out == nil {
		o.Out = io.Discard
	}
	if o.ParametersFile == "" {
		o.ParametersFile = params.DefaultFile
	}
}

// DetectMode picks the driver for a template by its file name suffix.
func DetectMode(templateFile string) Mode {
	switch {
	case strings.HasSuffix(templateFile, ".yaml"):
		return ModeYAML
	case strings.HasSuffix(templateFile, ".json"):
		return ModeLaunchSettings
	default:
		return ModeNone
	}
}

// Dispatch runs the driver matching the template's suffix. Other suffixes
// are not an error: nothing is read or written and the result is marked
// Unsupported.
func Dispatch(opts Options) (*Result, error) {
	opts.withDefaults()

	switch DetectMode(opts.TemplateFile) {
	case ModeYAML:
		return RenderYAML(opts)
	case ModeLaunchSettings:
		return MergeLaunchProfiles(opts)
	default:
		opts.Logger.Debug("unsupported template type, nothing to do", "template", opts.TemplateFile, "ext", filepath.Ext(opts.TemplateFile))
		return &Result{Skipped: true, Unsupported: true}, nil
	}
}

// DefaultLaunchSettingsPath is where a project keeps its launch settings.
func DefaultLaunchSettingsPath(projectDir string) string {
	return filepath.Join(projectDir, "Properties", "launchSettings.json")
}
