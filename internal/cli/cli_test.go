package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/artisanexperiences/populate/internal/config"
	perrors "github.com/artisanexperiences/populate/internal/errors"
	"github.com/artisanexperiences/populate/internal/ui"
)

type runOutput struct {
	stdout string
	stderr string
	ui     string
}

// run executes the root command with args from a clean flag state.
func run(t *testing.T, args ...string) (runOutput, error) {
	t.Helper()

	resetFlags(rootCmd)
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("CI", "true")

	var stdout, stderr, uiOut, uiErr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(args)

	prevOut, prevErr, prevPlain := ui.Output, ui.ErrOutput, ui.Plain
	ui.Output, ui.ErrOutput = &uiOut, &uiErr
	t.Cleanup(func() {
		ui.Output, ui.ErrOutput, ui.Plain = prevOut, prevErr, prevPlain
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})

	err := Execute()
	return runOutput{
		stdout: stdout.String(),
		stderr: stderr.String() + uiErr.String(),
		ui:     uiOut.String(),
	}, err
}

func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

type deployDir struct {
	root     string
	params   string
	yamlTmpl string
	jsonTmpl string
}

func newDeployDir(t *testing.T) deployDir {
	t.Helper()
	root := t.TempDir()
	d := deployDir{
		root:     root,
		params:   filepath.Join(root, "Deployment", "deployment-params.json"),
		yamlTmpl: filepath.Join(root, "Deployment", "aci.template.yaml"),
		jsonTmpl: filepath.Join(root, "Deployment", "launchSettings.template.json"),
	}
	writeFile(t, d.params, `{"REGION": "eastus", "HOST": "localhost"}`)
	writeFile(t, d.yamlTmpl, "location: <REGION>\n")
	writeFile(t, d.jsonTmpl, `{"profiles": {"Dev": {"environmentVariables": {"URL": "<HOST>/api"}}}}`)
	return d
}

func TestRootYAML(t *testing.T) {
	t.Run("renders to the output file", func(t *testing.T) {
		d := newDeployDir(t)
		out := filepath.Join(d.root, "aci_deployment.yaml")

		res, err := run(t, "--template-file", d.yamlTmpl, "--parameters-file", d.params, "--output-file", out, "--no-interactive", "--no-color")
		require.NoError(t, err)

		assert.Equal(t, "location: eastus\n", readFile(t, out))
		assert.Contains(t, res.ui, "Wrote "+out)
	})

	t.Run("existing output is kept without a terminal", func(t *testing.T) {
		d := newDeployDir(t)
		out := filepath.Join(d.root, "aci_deployment.yaml")
		writeFile(t, out, "old")

		res, err := run(t, "--template-file", d.yamlTmpl, "--parameters-file", d.params, "--output-file", out, "--no-interactive")
		require.NoError(t, err)

		assert.Equal(t, "old", readFile(t, out))
		assert.Contains(t, res.ui, "Not overwriting existing file. Exiting...")
	})

	t.Run("force overwrites", func(t *testing.T) {
		d := newDeployDir(t)
		out := filepath.Join(d.root, "aci_deployment.yaml")
		writeFile(t, out, "old")

		_, err := run(t, "--template-file", d.yamlTmpl, "--parameters-file", d.params, "--output-file", out, "--force")
		require.NoError(t, err)
		assert.Equal(t, "location: eastus\n", readFile(t, out))
	})

	t.Run("dry run prints instead of writing", func(t *testing.T) {
		d := newDeployDir(t)
		out := filepath.Join(d.root, "aci_deployment.yaml")

		res, err := run(t, "--template-file", d.yamlTmpl, "--parameters-file", d.params, "--output-file", out, "--dry-run")
		require.NoError(t, err)

		assert.Equal(t, "location: eastus\n", res.stdout)
		_, statErr := os.Stat(out)
		assert.True(t, errors.Is(statErr, os.ErrNotExist))
	})

	t.Run("verbose prints the substitution table", func(t *testing.T) {
		d := newDeployDir(t)
		out := filepath.Join(d.root, "aci_deployment.yaml")

		res, err := run(t, "--template-file", d.yamlTmpl, "--parameters-file", d.params, "--output-file", out, "--verbose")
		require.NoError(t, err)

		assert.Contains(t, res.ui, "PLACEHOLDER")
		assert.Contains(t, res.ui, "REGION")
		assert.Contains(t, res.stderr, "replacing parameter")
	})

	t.Run("missing placeholder exits with validation status", func(t *testing.T) {
		d := newDeployDir(t)
		writeFile(t, d.yamlTmpl, "location: <REGION>\nsku: <SKU>\n")
		out := filepath.Join(d.root, "aci_deployment.yaml")

		res, err := run(t, "--template-file", d.yamlTmpl, "--parameters-file", d.params, "--output-file", out, "--no-color")
		require.Error(t, err)

		assert.Equal(t, config.ExitValidationError, ExitCode(err))
		assert.Contains(t, res.stderr, "value for parameter 'SKU' in the template is missing")
		_, statErr := os.Stat(out)
		assert.True(t, errors.Is(statErr, os.ErrNotExist))
	})

	t.Run("missing parameters file exits with io status", func(t *testing.T) {
		d := newDeployDir(t)

		_, err := run(t, "--template-file", d.yamlTmpl, "--parameters-file", filepath.Join(d.root, "nope.json"))
		assert.Equal(t, config.ExitIOError, ExitCode(err))
	})

	t.Run("malformed parameters file exits with parse status", func(t *testing.T) {
		d := newDeployDir(t)
		writeFile(t, d.params, `{"REGION": `)

		_, err := run(t, "--template-file", d.yamlTmpl, "--parameters-file", d.params)
		assert.Equal(t, config.ExitParseError, ExitCode(err))
	})
}

func TestRootLaunchSettings(t *testing.T) {
	t.Run("merges into an explicit launch settings file", func(t *testing.T) {
		d := newDeployDir(t)
		settings := filepath.Join(d.root, "Properties", "launchSettings.json")

		res, err := run(t, "--template-file", d.jsonTmpl, "--parameters-file", d.params, "--launch-settings", settings, "--no-color")
		require.NoError(t, err)

		var doc map[string]any
		require.NoError(t, json.Unmarshal([]byte(readFile(t, settings)), &doc))
		assert.Equal(t, map[string]any{
			"profiles": map[string]any{
				"Dev": map[string]any{"environmentVariables": map[string]any{"URL": "localhost/api"}},
			},
		}, doc)
		assert.Contains(t, res.ui, "profiles: Dev")
	})

	t.Run("project dir selects Properties/launchSettings.json", func(t *testing.T) {
		d := newDeployDir(t)

		_, err := run(t, "--template-file", d.jsonTmpl, "--parameters-file", d.params, "--project-dir", d.root, "--profile", "Dev")
		require.NoError(t, err)

		assert.Contains(t, readFile(t, filepath.Join(d.root, "Properties", "launchSettings.json")), `"URL": "localhost/api"`)
	})

	t.Run("default project dir is logged", func(t *testing.T) {
		d := newDeployDir(t)

		res, err := run(t, "--template-file", d.jsonTmpl, "--parameters-file", d.params, "--log-level", "info", "--dry-run")
		require.NoError(t, err)

		expected, err := defaultProjectDir()
		require.NoError(t, err)
		assert.Contains(t, res.stderr, "using the executable's parent directory")
		assert.Contains(t, res.stderr, expected)
	})

	t.Run("config file supplies defaults", func(t *testing.T) {
		d := newDeployDir(t)
		t.Chdir(d.root)
		writeFile(t, filepath.Join(d.root, "populate.yaml"), "parameters_file: Deployment/deployment-params.json\nproject_dir: "+d.root+"\n")

		_, err := run(t, "--template-file", d.jsonTmpl)
		require.NoError(t, err)

		assert.FileExists(t, filepath.Join(d.root, "Properties", "launchSettings.json"))
	})
}

func TestRootUnsupportedTemplate(t *testing.T) {
	d := newDeployDir(t)
	tmpl := filepath.Join(d.root, "notes.txt")
	writeFile(t, tmpl, "<REGION>")

	res, err := run(t, "--template-file", tmpl, "--parameters-file", d.params)
	require.NoError(t, err)

	assert.Empty(t, res.ui)
	assert.Empty(t, res.stdout)
	entries, err := os.ReadDir(d.root)
	require.NoError(t, err)
	assert.Len(t, entries, 2, "only Deployment and notes.txt should exist")
}

func TestRootUsage(t *testing.T) {
	t.Run("template file is required", func(t *testing.T) {
		res, err := run(t)
		require.Error(t, err)

		assert.Equal(t, config.ExitInvalidArguments, ExitCode(err))
		assert.Contains(t, res.stderr, "template-file")
		assert.Contains(t, res.stderr, "populate --help")
	})

	t.Run("unknown flags are usage errors", func(t *testing.T) {
		_, err := run(t, "--template", "x.yaml")
		assert.Equal(t, config.ExitInvalidArguments, ExitCode(err))
	})

	t.Run("positional arguments are usage errors", func(t *testing.T) {
		tests := [][]string{
			{"--template-file", "x.yaml", "stray"},
			{"render"},
			{"version", "extra"},
			{"inspect", "extra"},
		}
		for _, args := range tests {
			t.Run(strings.Join(args, " "), func(t *testing.T) {
				res, err := run(t, args...)
				require.Error(t, err)
				assert.Equal(t, config.ExitInvalidArguments, ExitCode(err))
				assert.Contains(t, res.stderr, "populate --help")
			})
		}
	})
}

func TestInspect(t *testing.T) {
	t.Run("all placeholders resolve", func(t *testing.T) {
		d := newDeployDir(t)

		res, err := run(t, "inspect", "--template-file", d.yamlTmpl, "--parameters-file", d.params, "--no-color")
		require.NoError(t, err)

		assert.Contains(t, res.stdout, "REGION")
		assert.Contains(t, res.stdout, "resolved")
		assert.Contains(t, res.ui, "All 1 placeholder(s) resolve")
		assert.Contains(t, res.ui, "Parameters not used by the template: 'HOST'")
	})

	t.Run("missing placeholders fail", func(t *testing.T) {
		d := newDeployDir(t)
		writeFile(t, d.jsonTmpl, `{"profiles": {"Dev": {"environmentVariables": {"URL": "<HOST>/<PATH>"}}}}`)

		res, err := run(t, "inspect", "--template-file", d.jsonTmpl, "--parameters-file", d.params)
		require.Error(t, err)

		assert.Equal(t, config.ExitValidationError, ExitCode(err))
		assert.Equal(t, []string{"PATH"}, perrors.NamesOf(err))
		assert.Contains(t, res.stdout, "missing")
	})

	t.Run("template without placeholders", func(t *testing.T) {
		d := newDeployDir(t)
		writeFile(t, d.yamlTmpl, "location: westus\n")

		res, err := run(t, "inspect", "--template-file", d.yamlTmpl, "--parameters-file", d.params, "--no-color")
		require.NoError(t, err)
		assert.Contains(t, res.ui, "has no placeholders")
	})
}

func TestVersion(t *testing.T) {
	res, err := run(t, "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(res.stdout, "populate version dev"))
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{"nil", nil, config.ExitSuccess},
		{"usage", usageErrorf("bad"), config.ExitInvalidArguments},
		{"validation", perrors.Validation("op", "", nil, "x"), config.ExitValidationError},
		{"parse", perrors.Parse("op", "", errors.New("x")), config.ExitParseError},
		{"io", perrors.IO("op", "", errors.New("x")), config.ExitIOError},
		{"other", errors.New("x"), config.ExitGeneralError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ExitCode(tt.err))
		})
	}
}

func TestDefaultProjectDir(t *testing.T) {
	dir, err := defaultProjectDir()
	require.NoError(t, err)

	exe, err := os.Executable()
	require.NoError(t, err)
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	assert.Equal(t, filepath.Dir(filepath.Dir(exe)), dir)
}
