package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/artisanexperiences/populate/internal/config"
	"github.com/artisanexperiences/populate/internal/logging"
	"github.com/artisanexperiences/populate/internal/render"
	"github.com/artisanexperiences/populate/internal/ui"
)

// RunContext carries what every command needs: merged configuration, the
// logger and the global flags.
type RunContext struct {
	CWD    string
	Config *config.Config
	Logger *log.Logger

	DryRun        bool
	Verbose       bool
	Quiet         bool
	NoInteractive bool
}

func newRunContext(cmd *cobra.Command) (*RunContext, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("getting current directory: %w", err)
	}

	cfg, err := config.Load(mustGetString(cmd, "config"), cwd)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	rc := &RunContext{
		CWD:           cwd,
		Config:        cfg,
		DryRun:        mustGetBool(cmd, "dry-run"),
		Verbose:       mustGetBool(cmd, "verbose"),
		Quiet:         mustGetBool(cmd, "quiet"),
		NoInteractive: mustGetBool(cmd, "no-interactive"),
	}

	ui.Plain = mustGetBool(cmd, "no-color") || os.Getenv("NO_COLOR") != ""

	rc.Logger = logging.New(logging.Options{
		Level:   rc.String(cmd, "log-level", cfg.LogLevel),
		Verbose: rc.Verbose,
		Quiet:   rc.Quiet,
		Out:     cmd.ErrOrStderr(),
	})
	if cfg.Source != "" {
		rc.Logger.Debug("loaded config", "path", cfg.Source)
	}

	return rc, nil
}

// String returns the flag value when it was set on the command line, else
// the configured value, else the flag default.
func (rc *RunContext) String(cmd *cobra.Command, flag, configured string) string {
	if cmd.Flags().Changed(flag) || configured == "" {
		return mustGetString(cmd, flag)
	}
	return configured
}

// Bool is String for boolean flags.
func (rc *RunContext) Bool(cmd *cobra.Command, flag string, configured bool) bool {
	if cmd.Flags().Changed(flag) {
		return mustGetBool(cmd, flag)
	}
	return configured || mustGetBool(cmd, flag)
}

// LaunchSettingsPath resolves the launch settings file: an explicit path,
// else Properties/launchSettings.json under the project directory.
func (rc *RunContext) LaunchSettingsPath(cmd *cobra.Command) (string, error) {
	if path := rc.String(cmd, "launch-settings", rc.Config.LaunchSettings); path != "" {
		return path, nil
	}

	projectDir := rc.String(cmd, "project-dir", rc.Config.ProjectDir)
	if projectDir == "" {
		dir, err := defaultProjectDir()
		if err != nil {
			return "", err
		}
		rc.Logger.Info("no project dir given, using the executable's parent directory", "project_dir", dir)
		projectDir = dir
	}
	return render.DefaultLaunchSettingsPath(projectDir), nil
}

// defaultProjectDir is the parent of the directory holding the executable,
// the layout where the tool ships in a Deployment folder inside the project.
func defaultProjectDir() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("locating executable: %w", err)
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	return filepath.Dir(filepath.Dir(exe)), nil
}
