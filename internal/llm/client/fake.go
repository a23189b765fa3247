package llmclient

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"
)

// FakeClient answers deterministically without any network call. It is used
// for dry runs and tests.
type FakeClient struct{}

func NewFakeClient() *FakeClient { return &FakeClient{} }

func (f *FakeClient) Name() string                { return "fake" }
func (f *FakeClient) Close() error                { return nil }
func (f *FakeClient) CountTokens(text string) int { return CountTokens(text) }

// GenerateJSON returns {"summary": ...} built from the "path" field of input
// and the first line of its "content" or "children" field.
func (f *FakeClient) GenerateJSON(ctx context.Context, prompt string, input any) (json.RawMessage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var fields map[string]any
	if b, err := json.Marshal(input); err == nil {
		_ = json.Unmarshal(b, &fields)
	}
	subject := str(fields["path"])
	if subject == "" {
		subject = "input"
	}
	body := str(fields["content"])
	if body == "" {
		body = str(fields["children"])
	}
	line := strings.TrimSpace(strings.SplitN(strings.TrimSpace(body), "\n", 2)[0])
	if utf8.RuneCountInString(line) > 80 {
		line = string([]rune(line)[:80])
	}
	summary := fmt.Sprintf("Summary of %s.", subject)
	if line != "" {
		summary = fmt.Sprintf("Summary of %s: %s", subject, line)
	}
	return json.Marshal(map[string]string{"summary": summary})
}

func str(v any) string {
	s, _ := v.(string)
	return s
}
