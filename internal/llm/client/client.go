package llmclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
)

var ErrInvalidJSON = errors.New("llm: invalid JSON from model")

// LLMClient is a text-generation backend that answers with a JSON document.
type LLMClient interface {
	Name() string
	Close() error
	CountTokens(text string) int
	GenerateJSON(ctx context.Context, prompt string, input any) (json.RawMessage, error)
}

// PermanentError indicates an error that will not resolve with retries.
type PermanentError struct {
	Err error
}

func (e *PermanentError) Error() string { return e.Err.Error() }
func (e *PermanentError) Unwrap() error { return e.Err }

func NewPermanentError(err error) error {
	return &PermanentError{Err: err}
}

// IsPermanent reports whether err (or anything it wraps) is a PermanentError.
func IsPermanent(err error) bool {
	var pErr *PermanentError
	return errors.As(err, &pErr)
}

// FullPrompt appends the JSON-encoded input to prompt. A nil input leaves the
// prompt unchanged.
func FullPrompt(prompt string, input any) string {
	if input == nil {
		return prompt
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(input); err != nil {
		return prompt
	}
	return prompt + "\n\n[INPUT JSON]\n" + string(bytes.TrimRight(buf.Bytes(), "\n"))
}

// validJSON rejects model output that does not parse as JSON.
func validJSON(txt string) (json.RawMessage, error) {
	raw := json.RawMessage(bytes.TrimSpace([]byte(txt)))
	if len(raw) == 0 || !json.Valid(raw) {
		return nil, ErrInvalidJSON
	}
	return raw, nil
}
