package questions

import "github.com/abhisek/learnassist/internal/llm"

// QuestionSchema defines the JSON schema for generated study questions.
var QuestionSchema = &llm.Schema{
	Name:        "study-question",
	Description: "A single open-ended study question about a document",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"question": map[string]any{
				"type":        "string",
				"description": "The question shown to the learner, answerable in one or two sentences",
			},
			"topic": map[string]any{
				"type":        "string",
				"description": "The part of the document the question is about, in a few words",
			},
		},
		"required":             []any{"question", "topic"},
		"additionalProperties": false,
	},
}

// SummarySchema defines the JSON schema for document summaries.
var SummarySchema = &llm.Schema{
	Name:        "document-summary",
	Description: "A short overview of a study document",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"summary": map[string]any{
				"type":        "string",
				"description": "Three to five sentences covering the main points of the document",
			},
		},
		"required":             []any{"summary"},
		"additionalProperties": false,
	},
}
