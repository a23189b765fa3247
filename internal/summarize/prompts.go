package summarize

import "dirsight/internal/llmtool"

var summaryField = []llmtool.PromptField{
	{Name: "summary", Type: "string", Required: true, Description: "Plain text, no markdown."},
}

var filePrompt = llmtool.MustRender(llmtool.ApplyPresets(llmtool.StructuredPromptSpec{
	Purpose:      "Describe what one file in a directory tree does.",
	Background:   "The input holds the file's path relative to the tree root and an excerpt of its content, or a short descriptor for non-text files.",
	OutputFields: summaryField,
	Rules: []string{
		"Write 2-3 sentences about the file's function and role.",
		"For descriptors, describe what the asset likely is from its name and format.",
	},
	OutputFormat: `{"summary": "..."}`,
	Language:     "English",
}, llmtool.PresetJSONObject(), llmtool.PresetGrounded(), llmtool.PresetPartialInput()))

var dirPrompt = llmtool.MustRender(llmtool.ApplyPresets(llmtool.StructuredPromptSpec{
	Purpose:      "Summarize one directory from the summaries of its immediate children.",
	Background:   `The input holds the directory path relative to the tree root and one line per child in the form "- [FILE|FOLDER] name: summary".`,
	OutputFields: summaryField,
	Rules: []string{
		"Write 150-200 characters.",
		"Cover the directory's purpose, the kinds of content it holds and how the children relate.",
	},
	OutputFormat: `{"summary": "..."}`,
	Language:     "English",
}, llmtool.PresetJSONObject(), llmtool.PresetGrounded(), llmtool.PresetPartialInput()))

var overviewPrompt = llmtool.MustRender(llmtool.ApplyPresets(llmtool.StructuredPromptSpec{
	Purpose:      "Write an overview of a whole directory tree.",
	Background:   "The input holds the stored root summary and one line per top-level entry. No file content is available.",
	OutputFields: summaryField,
	Rules: []string{
		"Write one short paragraph (3-5 sentences).",
		"Explain what the tree is for and how its top-level parts fit together.",
	},
	OutputFormat: `{"summary": "..."}`,
	Language:     "English",
}, llmtool.PresetJSONObject(), llmtool.PresetGrounded()))
