// Package jsonc decodes JSON that may carry comments, as Visual Studio
// writes launchSettings.json.
package jsonc

import (
	"bytes"
	"encoding/json"
	"fmt"

	jsonc "github.com/muhammadmuzzammil1998/jsonc"
)

// Clean strips comments and insignificant whitespace from JSONC input.
func Clean(data []byte) []byte {
	return jsonc.ToJSON(data)
}

// Decode parses JSONC into dest. Numbers decode as json.Number so they are
// written back exactly as read.
func Decode(data []byte, dest any) error {
	dec := json.NewDecoder(bytes.NewReader(Clean(data)))
	dec.UseNumber()
	if err := dec.Decode(dest); err != nil {
		return err
	}
	if dec.More() {
		return fmt.Errorf("unexpected content after top-level value")
	}
	return nil
}

// Quote encodes s as a JSON string without HTML escaping.
func Quote(s string) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}
