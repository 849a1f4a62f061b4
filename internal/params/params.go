// Package params loads the flat name to value mapping that placeholders are
// resolved against.
package params

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	perrors "github.com/artisanexperiences/populate/internal/errors"
	"github.com/artisanexperiences/populate/internal/fs"
	"github.com/artisanexperiences/populate/internal/jsonc"
	"github.com/artisanexperiences/populate/internal/schemas"
)

// DefaultFile is used when no parameters file is given.
const DefaultFile = "deployment-params.json"

var schemaName = schemas.Parameters

// Set maps parameter names to non-empty values. It is read-only once loaded.
type Set map[string]string

// Lookup returns the value for name.
func (s Set) Lookup(name string) (string, bool) {
	v, ok := s[name]
	return v, ok
}

// Names returns the parameter names, sorted.
func (s Set) Names() []string {
	names := make([]string, 0, len(s))
	for n := range s {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Load reads a parameters file. JSON (comments allowed) is the default
// format; .yaml and .yml files are read as YAML.
func Load(fsys fs.FS, path string) (Set, error) {
	if fsys == nil {
		fsys = fs.Default
	}

	data, err := fsys.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, perrors.IO("parameters file not found", "", err)
		}
		return nil, perrors.IO("read parameters file", "", err)
	}

	raw, err := decode(path, data)
	if err != nil {
		return nil, perrors.Parse("parse parameters", path, err)
	}

	return FromMap(path, raw)
}

// FromMap validates an already-decoded mapping. source labels errors.
func FromMap(source string, raw map[string]any) (Set, error) {
	var empty, nonString []string
	for name, v := range raw {
		switch val := v.(type) {
		case nil:
			empty = append(empty, name)
		case string:
			if val == "" {
				empty = append(empty, name)
			}
		default:
			nonString = append(nonString, name)
		}
	}

	if len(empty) > 0 {
		sort.Strings(empty)
		return nil, perrors.Validation("load parameters", source, empty,
			fmt.Sprintf("value for parameter %s is missing", perrors.QuoteNames(empty)))
	}

	if len(nonString) > 0 {
		sort.Strings(nonString)
		return nil, perrors.Validation("load parameters", source, nonString,
			fmt.Sprintf("value for parameter %s must be a string", perrors.QuoteNames(nonString)))
	}

	if err := schemas.Validate(schemaName, raw); err != nil {
		return nil, fmt.Errorf("validating parameters %s: %w", source, err)
	}

	set := make(Set, len(raw))
	for name, v := range raw {
		set[name] = v.(string)
	}
	return set, nil
}

func decode(path string, data []byte) (map[string]any, error) {
	var doc any

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, err
		}
	default:
		if err := jsonc.Decode(data, &doc); err != nil {
			return nil, err
		}
	}

	raw, ok := doc.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("expected an object of name/value pairs, got %T", doc)
	}
	return raw, nil
}
