package llmtool

// Preset is a reusable block of constraints and rules shared by the
// summarization prompts.
type Preset struct {
	Constraints []string
	Rules       []string
}

// ApplyPresets puts the preset lines ahead of the prompt's own, dropping
// lines already present so stacked presets never repeat an instruction.
func ApplyPresets(spec StructuredPromptSpec, presets ...Preset) StructuredPromptSpec {
	if len(presets) == 0 {
		return spec
	}
	var cons, rules []string
	for _, p := range presets {
		cons = append(cons, p.Constraints...)
		rules = append(rules, p.Rules...)
	}
	spec.Constraints = dedupe(append(cons, spec.Constraints...))
	spec.Rules = dedupe(append(rules, spec.Rules...))
	return spec
}

func dedupe(lines []string) []string {
	seen := make(map[string]bool, len(lines))
	out := lines[:0]
	for _, l := range lines {
		if seen[l] {
			continue
		}
		seen[l] = true
		out = append(out, l)
	}
	return out
}

// PresetJSONObject asks for a single bare JSON object.
func PresetJSONObject() Preset {
	return Preset{
		Constraints: []string{
			"Reply with one JSON object and nothing else.",
			"Use only the keys listed under OUTPUT.",
		},
	}
}

// PresetGrounded keeps summaries to what the input actually shows.
func PresetGrounded() Preset {
	return Preset{
		Constraints: []string{
			"Describe only what the excerpt or the child summaries show; never invent file contents, names or behavior.",
		},
		Rules: []string{
			"Refer to files and folders by the names given in the input.",
		},
	}
}

// PresetPartialInput covers excerpts and child lists that were cut short.
func PresetPartialInput() Preset {
	return Preset{
		Rules: []string{
			`Input ending in "... (truncated" is incomplete; summarize the visible part and do not guess the rest.`,
			`Treat "[summary unavailable: ...]" children as unknown rather than as empty.`,
		},
	}
}
