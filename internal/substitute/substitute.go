// Package substitute resolves <name> placeholders in text against a set of
// parameter values.
//
// Resolution is all or nothing: every placeholder in the text must have a
// value before any replacement happens. Values are inserted literally and
// are not scanned for further placeholders.
package substitute

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/charmbracelet/log"

	perrors "github.com/artisanexperiences/populate/internal/errors"
)

// placeholderPattern matches <name> where name is at least one character
// with no angle brackets or line breaks.
var placeholderPattern = regexp.MustCompile(`<([^<>\r\n]+?)>`)

// Values resolves parameter names. params.Set implements it.
type Values interface {
	Lookup(name string) (string, bool)
}

// Substitution records one resolved placeholder.
type Substitution struct {
	Name  string
	Value string
	Count int
}

type options struct {
	logger   *log.Logger
	observer func(Substitution)
	source   string
}

// Option configures Apply.
type Option func(*options)

// WithLogger logs each substitution at debug level.
func WithLogger(l *log.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithObserver is called once per distinct placeholder, in first-occurrence
// order, after validation has passed.
func WithObserver(fn func(Substitution)) Option {
	return func(o *options) { o.observer = fn }
}

// WithSource labels errors and log lines, e.g. with a file path or a
// profile/variable pair.
func WithSource(source string) Option {
	return func(o *options) { o.source = source }
}

// Placeholders returns the distinct placeholder names in text in the order
// they first appear.
func Placeholders(text string) []string {
	matches := placeholderPattern.FindAllStringSubmatch(text, -1)
	if len(matches) == 0 {
		return nil
	}

	seen := make(map[string]bool, len(matches))
	names := make([]string, 0, len(matches))
	for _, m := range matches {
		if !seen[m[1]] {
			seen[m[1]] = true
			names = append(names, m[1])
		}
	}
	return names
}

// Check returns the placeholders in text that values cannot resolve, in
// first-occurrence order.
func Check(text string, values Values) []string {
	var missing []string
	for _, name := range Placeholders(text) {
		if _, ok := values.Lookup(name); !ok {
			missing = append(missing, name)
		}
	}
	return missing
}

// Apply replaces every placeholder in text with its value. If any
// placeholder is unresolved it returns a validation error naming all of
// them and no text.
func Apply(text string, values Values, opts ...Option) (string, error) {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}

	names := Placeholders(text)
	if len(names) == 0 {
		return text, nil
	}

	if missing := Check(text, values); len(missing) > 0 {
		return "", perrors.Validation("substitute", o.source, missing,
			fmt.Sprintf("value for parameter %s in the template is missing", perrors.QuoteNames(missing)))
	}

	pairs := make([]string, 0, len(names)*2)
	for _, name := range names {
		value, _ := values.Lookup(name)
		token := "<" + name + ">"
		pairs = append(pairs, token, value)

		sub := Substitution{Name: name, Value: value, Count: strings.Count(text, token)}
		if o.logger != nil {
			o.logger.Debug("replacing parameter", "name", sub.Name, "value", sub.Value, "count", sub.Count, "source", o.source)
		}
		if o.observer != nil {
			o.observer(sub)
		}
	}

	// One pass over the text, so inserted values are never rescanned.
	return strings.NewReplacer(pairs...).Replace(text), nil
}
