package llm

import (
	"context"
	"slices"
)

type contextKey string

const purposeKey contextKey = "llm_purpose"

// Purposes used by this module's LLM callers.
const (
	PurposeQuestion = "question-gen"
	PurposeGrading  = "grading"
	PurposeSummary  = "summary"
	PurposeChat     = "chat"

	// PurposeUnknown is reported for calls made without WithPurpose.
	PurposeUnknown = "unknown"
)

// Purposes lists the purpose labels callers in this module attach.
func Purposes() []string {
	return []string{PurposeQuestion, PurposeGrading, PurposeSummary, PurposeChat}
}

// IsPurpose reports whether p is one of Purposes.
func IsPurpose(p string) bool {
	return slices.Contains(Purposes(), p)
}

// WithPurpose attaches a purpose label to the context for event logging.
func WithPurpose(ctx context.Context, purpose string) context.Context {
	return context.WithValue(ctx, purposeKey, purpose)
}

// PurposeFrom extracts the purpose label from the context.
func PurposeFrom(ctx context.Context) string {
	if v, ok := ctx.Value(purposeKey).(string); ok {
		return v
	}
	return PurposeUnknown
}
