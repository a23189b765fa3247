package llmtool

import (
	"strings"
	"testing"
)

func TestRender_Sections(t *testing.T) {
	spec := StructuredPromptSpec{
		Purpose:      "Summarize one file.",
		Background:   "Part of a directory summary.",
		OutputFormat: "JSON only.",
		Language:     "English",
		OutputFields: []PromptField{
			{Name: "summary", Type: "string", Required: true, Description: "Short summary."},
			{Name: "tags", Type: "[]string"},
		},
		Constraints: []string{"No markdown.", "  "},
		Rules:       []string{"Be concise."},
		Assumptions: []string{"If unsure, say so."},
		Examples: []PromptExample{
			{InputJSON: `{"path":"x"}`, OutputJSON: `{"summary":"ok"}`},
		},
	}

	out, err := Render(spec)
	if err != nil {
		t.Fatalf("render error: %v", err)
	}
	for _, sec := range []string{
		"[PURPOSE]", "[BACKGROUND]", "[OUTPUT]", "[CONSTRAINTS]", "[RULES]",
		"[ASSUMPTIONS]", "[OUTPUT_FORMAT]", "[LANGUAGE]", "[EXAMPLES]",
	} {
		if !strings.Contains(out, sec) {
			t.Fatalf("expected section %s in prompt", sec)
		}
	}
	if !strings.Contains(out, "- summary (string, required): Short summary.") {
		t.Fatalf("field line missing:\n%s", out)
	}
	if !strings.Contains(out, "- tags ([]string, optional)") {
		t.Fatalf("optional field line missing:\n%s", out)
	}
	if strings.Contains(out, "[INPUT]") {
		t.Fatalf("input must not be rendered into the prompt")
	}
}

func TestRender_SkipsEmptySections(t *testing.T) {
	out, err := Render(StructuredPromptSpec{
		Purpose:      "x",
		OutputFields: []PromptField{{Name: "summary", Type: "string", Required: true}},
	})
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(out, "[RULES]") || strings.Contains(out, "[EXAMPLES]") {
		t.Fatalf("unexpected empty section:\n%s", out)
	}
}

func TestRender_RequiresPurposeAndFields(t *testing.T) {
	_, err := Render(StructuredPromptSpec{OutputFields: []PromptField{{Name: "summary"}}})
	if err == nil || !strings.Contains(err.Error(), "purpose") {
		t.Fatalf("expected purpose error, got %v", err)
	}
	_, err = Render(StructuredPromptSpec{Purpose: "x"})
	if err == nil || !strings.Contains(err.Error(), "output fields") {
		t.Fatalf("expected output fields error, got %v", err)
	}
}

func TestApplyPresets_PrependsAndDedupes(t *testing.T) {
	own := "Mention the entry point."
	spec := ApplyPresets(StructuredPromptSpec{
		Constraints: []string{"Reply with one JSON object and nothing else.", "own"},
		Rules:       []string{own},
	}, PresetJSONObject(), PresetGrounded(), PresetPartialInput(), PresetGrounded())

	if spec.Constraints[0] != "Reply with one JSON object and nothing else." {
		t.Fatalf("preset constraints must come first: %v", spec.Constraints)
	}
	if got := spec.Constraints[len(spec.Constraints)-1]; got != "own" {
		t.Fatalf("own constraint must be last, got %q", got)
	}
	if len(spec.Constraints) != 4 {
		t.Fatalf("expected 4 distinct constraints, got %v", spec.Constraints)
	}
	if len(spec.Rules) != 4 || spec.Rules[3] != own {
		t.Fatalf("expected 3 preset rules then own, got %v", spec.Rules)
	}
}
