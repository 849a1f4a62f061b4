package render

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
	"github.com/tidwall/sjson"

	perrors "github.com/artisanexperiences/populate/internal/errors"
	"github.com/artisanexperiences/populate/internal/fs"
	"github.com/artisanexperiences/populate/internal/jsonc"
	"github.com/artisanexperiences/populate/internal/params"
	"github.com/artisanexperiences/populate/internal/schemas"
	"github.com/artisanexperiences/populate/internal/substitute"
)

const (
	profilesKey = "profiles"
	envVarsKey  = "environmentVariables"
)

// LaunchSettings is a launchSettings.json document held as comment-free
// JSON, so edits keep the file's key order.
type LaunchSettings struct {
	raw []byte
}

// Profile is one launch profile and its JSON record.
type Profile struct {
	Name string
	Raw  []byte
}

// ParseLaunchSettings decodes and validates a launch-settings document.
// A document without profiles is given an empty mapping when allowMissing
// is set.
func ParseLaunchSettings(data []byte, allowMissing bool) (*LaunchSettings, error) {
	clean := jsonc.Clean(data)

	var doc map[string]any
	if err := jsonc.Decode(clean, &doc); err != nil {
		return nil, err
	}
	if doc == nil {
		doc = map[string]any{}
		clean = []byte("{}")
	}
	if _, ok := doc[profilesKey]; !ok && allowMissing {
		doc[profilesKey] = map[string]any{}
		withProfiles, err := sjson.SetRawBytes(clean, profilesKey, []byte("{}"))
		if err != nil {
			return nil, fmt.Errorf("adding profiles: %w", err)
		}
		clean = withProfiles
	}
	if err := schemas.Validate(schemas.LaunchSettings, doc); err != nil {
		return nil, fmt.Errorf("invalid launch settings: %w", err)
	}

	return &LaunchSettings{raw: clean}, nil
}

func emptyLaunchSettings() *LaunchSettings {
	return &LaunchSettings{raw: []byte(`{"profiles":{}}`)}
}

// Profiles returns the profiles in document order.
func (ls *LaunchSettings) Profiles() []Profile {
	var out []Profile
	gjson.Get(string(ls.raw), profilesKey).ForEach(func(key, value gjson.Result) bool {
		out = append(out, Profile{Name: key.String(), Raw: []byte(value.Raw)})
		return true
	})
	return out
}

// ProfileNames returns the profile names in document order.
func (ls *LaunchSettings) ProfileNames() []string {
	profiles := ls.Profiles()
	names := make([]string, len(profiles))
	for i, p := range profiles {
		names[i] = p.Name
	}
	return names
}

// SetProfile replaces the named profile where it sits, or appends it.
func (ls *LaunchSettings) SetProfile(name string, record []byte) error {
	raw, err := sjson.SetRawBytes(ls.raw, profilesKey+"."+pathKey(name), record)
	if err != nil {
		return fmt.Errorf("setting profile %s: %w", name, err)
	}
	ls.raw = raw
	return nil
}

// Marshal renders the document with two-space indentation and a trailing
// newline. Arrays are always expanded.
func (ls *LaunchSettings) Marshal() []byte {
	out := pretty.PrettyOptions(ls.raw, &pretty.Options{Width: -1, Indent: "  "})
	return append(bytes.TrimRight(out, "\n"), '\n')
}

// pathKey escapes key for use as a single sjson path component.
func pathKey(key string) string {
	var b strings.Builder
	for _, r := range key {
		switch r {
		case '.', '*', '?', '\\', '|', '#', '@', ':', '!':
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// MergeLaunchProfiles substitutes parameters into the string environment
// variables of each template profile and stores the profiles in the launch
// settings file. A same-named profile is replaced whole where it sits; new
// profiles are appended in template order. Profiles not in the template,
// and the order of every key, are left as they were.
func MergeLaunchProfiles(opts Options) (*Result, error) {
	opts.withDefaults()
	if opts.LaunchSettings == "" {
		return nil, fmt.Errorf("launch settings path is required")
	}

	result := &Result{Mode: ModeLaunchSettings, OutputFile: opts.LaunchSettings}

	set, err := params.Load(opts.FS, opts.ParametersFile)
	if err != nil {
		return nil, err
	}

	data, err := opts.FS.ReadFile(opts.TemplateFile)
	if err != nil {
		return nil, readError("read template", err)
	}
	tmpl, err := ParseLaunchSettings(data, false)
	if err != nil {
		return nil, perrors.Parse("parse template", opts.TemplateFile, err)
	}

	observe := substitute.WithObserver(func(s substitute.Substitution) {
		result.Substitutions = append(result.Substitutions, s)
	})

	var merged []Profile
	for _, p := range tmpl.Profiles() {
		if opts.Profile != "" && opts.Profile != p.Name {
			continue
		}

		record, err := substituteEnv(p, set, opts, observe)
		if err != nil {
			return nil, err
		}
		merged = append(merged, Profile{Name: p.Name, Raw: record})
	}

	if opts.Profile != "" && len(merged) == 0 {
		opts.Logger.Warn("profile not found in template", "profile", opts.Profile, "template", opts.TemplateFile)
	}

	existing, err := loadOrInitLaunchSettings(opts)
	if err != nil {
		return nil, err
	}

	for _, p := range merged {
		if err := existing.SetProfile(p.Name, p.Raw); err != nil {
			return nil, err
		}
		result.Profiles = append(result.Profiles, p.Name)
	}

	out := existing.Marshal()

	if opts.DryRun {
		if _, err := opts.Out.Write(out); err != nil {
			return nil, perrors.IO("write dry-run output", "", err)
		}
		result.Skipped = true
		return result, nil
	}

	if err := fs.WriteFileAtomic(opts.FS, opts.LaunchSettings, out, 0644); err != nil {
		return nil, perrors.IO("write launch settings", opts.LaunchSettings, err)
	}

	opts.Logger.Debug("wrote launch settings", "path", opts.LaunchSettings, "profiles", result.Profiles)
	result.Written = true
	return result, nil
}

type envVar struct {
	key   string
	value string
}

// stringEnv returns the string-valued environment variables of a profile
// record in document order.
func stringEnv(record []byte) []envVar {
	var vars []envVar
	env := gjson.Get(string(record), envVarsKey)
	if !env.IsObject() {
		return nil
	}
	env.ForEach(func(key, value gjson.Result) bool {
		if value.Type == gjson.String {
			vars = append(vars, envVar{key: key.String(), value: value.String()})
		}
		return true
	})
	return vars
}

// substituteEnv returns the profile record with its string environment
// variables substituted. Values of other JSON kinds are left alone.
func substituteEnv(p Profile, set params.Set, opts Options, observe substitute.Option) ([]byte, error) {
	record := p.Raw
	for _, v := range stringEnv(record) {
		opts.Logger.Debug("replacing parameters", "profile", p.Name, "setting", v.key)
		replaced, err := substitute.Apply(v.value, set,
			substitute.WithLogger(opts.Logger),
			substitute.WithSource(p.Name+"/"+v.key),
			observe,
		)
		if err != nil {
			return nil, err
		}
		if replaced == v.value {
			continue
		}

		quoted, err := jsonc.Quote(replaced)
		if err != nil {
			return nil, fmt.Errorf("encoding %s/%s: %w", p.Name, v.key, err)
		}
		record, err = sjson.SetRawBytes(record, envVarsKey+"."+pathKey(v.key), quoted)
		if err != nil {
			return nil, fmt.Errorf("setting %s/%s: %w", p.Name, v.key, err)
		}
	}
	return record, nil
}

// loadOrInitLaunchSettings reads the destination document, creating it with
// an empty profiles mapping when it does not exist. Dry runs never create it.
func loadOrInitLaunchSettings(opts Options) (*LaunchSettings, error) {
	path := opts.LaunchSettings

	exists, err := fs.Exists(opts.FS, path)
	if err != nil {
		return nil, perrors.IO("stat launch settings", "", err)
	}

	if !exists {
		empty := emptyLaunchSettings()
		if opts.DryRun {
			return empty, nil
		}

		if err := opts.FS.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, perrors.IO("create launch settings directory", filepath.Dir(path), err)
		}
		if err := opts.FS.WriteFile(path, empty.Marshal(), 0644); err != nil {
			return nil, perrors.IO("create launch settings", path, err)
		}
		opts.Logger.Info("created launch settings", "path", path)
	}

	data, err := opts.FS.ReadFile(path)
	if err != nil {
		return nil, readError("read launch settings", err)
	}
	ls, err := ParseLaunchSettings(data, true)
	if err != nil {
		return nil, perrors.Parse("parse launch settings", path, err)
	}
	return ls, nil
}
