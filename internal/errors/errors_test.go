package errors

import (
	"errors"
	"fmt"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorIs(t *testing.T) {
	t.Run("validation matches its sentinel only", func(t *testing.T) {
		err := Validation("substitute", "", []string{"HOST"}, "missing value")

		assert.True(t, errors.Is(err, ErrValidation))
		assert.False(t, errors.Is(err, ErrParse))
		assert.False(t, errors.Is(err, ErrIO))
	})

	t.Run("wrapped errors keep their kind", func(t *testing.T) {
		err := fmt.Errorf("rendering: %w", IO("read template", "a.yaml", os.ErrNotExist))

		assert.True(t, errors.Is(err, ErrIO))
		assert.True(t, errors.Is(err, os.ErrNotExist))
		assert.Equal(t, KindIO, KindOf(err))
	})

	t.Run("plain errors have no kind", func(t *testing.T) {
		assert.Equal(t, Kind(""), KindOf(errors.New("boom")))
		assert.Nil(t, NamesOf(errors.New("boom")))
	})
}

func TestErrorMessage(t *testing.T) {
	err := Parse("parse parameters", "params.json", errors.New("unexpected end of JSON input"))
	assert.Equal(t, "parse parameters params.json: unexpected end of JSON input", err.Error())

	var nilErr *Error
	assert.Equal(t, "<nil>", nilErr.Error())
}

func TestNamesOf(t *testing.T) {
	err := fmt.Errorf("loading: %w", Validation("load parameters", "p.json", []string{"A", "B"}, "empty"))
	assert.Equal(t, []string{"A", "B"}, NamesOf(err))
}

func TestQuoteNames(t *testing.T) {
	assert.Equal(t, "'A', 'B'", QuoteNames([]string{"A", "B"}))
	assert.Equal(t, "", QuoteNames(nil))
}
