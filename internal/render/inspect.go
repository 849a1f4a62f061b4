package render

import (
	"fmt"

	perrors "github.com/artisanexperiences/populate/internal/errors"
	"github.com/artisanexperiences/populate/internal/fs"
	"github.com/artisanexperiences/populate/internal/substitute"
)

// TemplatePlaceholders lists the placeholders a template would need, in the
// order the matching driver meets them. For launch-settings templates only
// string environment variables are scanned, in document order.
func TemplatePlaceholders(fsys fs.FS, templateFile string) ([]string, error) {
	if fsys == nil {
		fsys = fs.Default
	}

	mode := DetectMode(templateFile)
	if mode == ModeNone {
		return nil, fmt.Errorf("unsupported template type: %s", templateFile)
	}

	data, err := fsys.ReadFile(templateFile)
	if err != nil {
		return nil, readError("read template", err)
	}

	if mode == ModeYAML {
		return substitute.Placeholders(string(data)), nil
	}

	tmpl, err := ParseLaunchSettings(data, false)
	if err != nil {
		return nil, perrors.Parse("parse template", templateFile, err)
	}

	seen := make(map[string]bool)
	var names []string
	for _, p := range tmpl.Profiles() {
		for _, v := range stringEnv(p.Raw) {
			for _, name := range substitute.Placeholders(v.value) {
				if !seen[name] {
					seen[name] = true
					names = append(names, name)
				}
			}
		}
	}
	return names, nil
}
