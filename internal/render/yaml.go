package render

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	perrors "github.com/artisanexperiences/populate/internal/errors"
	"github.com/artisanexperiences/populate/internal/fs"
	"github.com/artisanexperiences/populate/internal/params"
	"github.com/artisanexperiences/populate/internal/substitute"
)

// RenderYAML substitutes parameters into a YAML template read as plain text
// and writes the result verbatim to OutputFile.
//
// An existing output file is only replaced when Force is set or the
// Prompter confirms. A declined prompt is not an error: the result is
// Skipped and nothing is written.
func RenderYAML(opts Options) (*Result, error) {
	opts.withDefaults()
	if opts.OutputFile == "" {
		opts.OutputFile = DefaultYAMLOutput
	}

	result := &Result{Mode: ModeYAML, OutputFile: opts.OutputFile}

	set, err := params.Load(opts.FS, opts.ParametersFile)
	if err != nil {
		return nil, err
	}

	tmpl, err := opts.FS.ReadFile(opts.TemplateFile)
	if err != nil {
		return nil, readError("read template", err)
	}

	rendered, err := substitute.Apply(string(tmpl), set,
		substitute.WithLogger(opts.Logger),
		substitute.WithSource(opts.TemplateFile),
		substitute.WithObserver(func(s substitute.Substitution) {
			result.Substitutions = append(result.Substitutions, s)
		}),
	)
	if err != nil {
		return nil, err
	}

	if err := checkYAML(rendered); err != nil {
		opts.Logger.Warn("rendered template is not valid YAML", "template", opts.TemplateFile, "err", err)
	}

	if opts.DryRun {
		if _, err := io.WriteString(opts.Out, rendered); err != nil {
			return nil, perrors.IO("write dry-run output", "", err)
		}
		result.Skipped = true
		return result, nil
	}

	exists, err := fs.Exists(opts.FS, opts.OutputFile)
	if err != nil {
		return nil, perrors.IO("stat output", "", err)
	}
	if exists && !opts.Force {
		confirmed, err := confirmOverwrite(opts.Prompter, opts.OutputFile)
		if err != nil {
			return nil, fmt.Errorf("prompting for overwrite: %w", err)
		}
		if !confirmed {
			opts.Logger.Info("not overwriting existing file", "path", opts.OutputFile)
			result.Skipped = true
			return result, nil
		}
	}

	if dir := filepath.Dir(opts.OutputFile); dir != "." {
		if err := opts.FS.MkdirAll(dir, 0755); err != nil {
			return nil, perrors.IO("create output directory", dir, err)
		}
	}

	if err := fs.WriteFileAtomic(opts.FS, opts.OutputFile, []byte(rendered), 0644); err != nil {
		return nil, perrors.IO("write output", opts.OutputFile, err)
	}

	opts.Logger.Debug("wrote rendered template", "path", opts.OutputFile, "bytes", len(rendered))
	result.Written = true
	return result, nil
}

func confirmOverwrite(p Prompter, path string) (bool, error) {
	if p == nil {
		return false, nil
	}
	return p.ConfirmOverwrite(path)
}

// checkYAML parses every document in text.
func checkYAML(text string) error {
	dec := yaml.NewDecoder(strings.NewReader(text))
	for {
		var node yaml.Node
		err := dec.Decode(&node)
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
	}
}

func readError(op string, err error) error {
	if errors.Is(err, os.ErrNotExist) {
		return perrors.IO(op+": file not found", "", err)
	}
	return perrors.IO(op, "", err)
}
