package grading

import "github.com/abhisek/learnassist/internal/llm"

// VerdictSchema defines the JSON schema for LLM grading responses.
var VerdictSchema = &llm.Schema{
	Name:        "answer-verdict",
	Description: "Whether a learner's answer is correct, with feedback",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"correct": map[string]any{
				"type":        "boolean",
				"description": "True when the answer is substantially correct",
			},
			"feedback": map[string]any{
				"type":        "string",
				"description": "One to three sentences addressed to the learner; explain the right answer when wrong",
			},
		},
		"required":             []any{"correct", "feedback"},
		"additionalProperties": false,
	},
}
