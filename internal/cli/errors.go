package cli

import (
	"errors"
	"fmt"

	"github.com/artisanexperiences/populate/internal/config"
	perrors "github.com/artisanexperiences/populate/internal/errors"
	"github.com/artisanexperiences/populate/internal/ui"
)

// usageError marks bad command-line input.
type usageError struct {
	err error
}

func (e usageError) Error() string { return e.err.Error() }
func (e usageError) Unwrap() error { return e.err }

func usageErrorf(format string, args ...any) error {
	return usageError{fmt.Errorf(format, args...)}
}

// ExitCode maps an error returned by Execute to a process exit status.
func ExitCode(err error) int {
	if err == nil {
		return config.ExitSuccess
	}

	var ue usageError
	if errors.As(err, &ue) {
		return config.ExitInvalidArguments
	}

	switch perrors.KindOf(err) {
	case perrors.KindValidation:
		return config.ExitValidationError
	case perrors.KindParse:
		return config.ExitParseError
	case perrors.KindIO:
		return config.ExitIOError
	default:
		return config.ExitGeneralError
	}
}

func printError(err error) {
	ui.PrintErrorWithHint(err.Error(), hintFor(err))
}

func hintFor(err error) string {
	var ue usageError
	if errors.As(err, &ue) {
		return "Run 'populate --help' for usage."
	}

	switch perrors.KindOf(err) {
	case perrors.KindValidation:
		if names := perrors.NamesOf(err); len(names) > 0 {
			return fmt.Sprintf("Give %s a non-empty value in the parameters file.", perrors.QuoteNames(names))
		}
		return "Check the parameters file."
	case perrors.KindParse:
		return "Check the file is valid JSON (comments are allowed) or YAML."
	case perrors.KindIO:
		return "Check the path exists and is readable."
	}
	return ""
}
