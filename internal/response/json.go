// Package response renders extraction outcomes as the JSON document written
// to stdout.
package response

import (
	"encoding/json"
	"io"

	"github.com/spherical/ocr-extractor/internal/domain"
)

// Success is the payload for a completed extraction
type Success struct {
	Success bool   `json:"success"`
	Text    string `json:"text"`
	Pages   int    `json:"pages"`
}

// Failure is the payload for any error
type Failure struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// WriteSuccess encodes result to w
func WriteSuccess(w io.Writer, result *domain.Result) error {
	return encode(w, Success{Success: true, Text: result.Text, Pages: result.Pages})
}

// WriteError encodes err to w using domain.Describe
func WriteError(w io.Writer, err error) error {
	return encode(w, Failure{Success: false, Error: domain.Describe(err)})
}

func encode(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}
