package llm

// ModelCost holds per-million-token pricing for a model, in USD.
type ModelCost struct {
	InputPerMTok  float64
	OutputPerMTok float64
}

// Cost calculates the total USD cost for the given token counts.
func (c ModelCost) Cost(inputTokens, outputTokens int) float64 {
	return float64(inputTokens)*c.InputPerMTok/1_000_000 +
		float64(outputTokens)*c.OutputPerMTok/1_000_000
}

// LookupCost returns the pricing for a model ID, or nil if unknown.
func LookupCost(modelID string) *ModelCost {
	if c, ok := modelCosts[modelID]; ok {
		return &c
	}
	return nil
}

// EstimateCost returns the USD cost of a request, and false when the model
// has no pricing entry.
func EstimateCost(modelID string, usage Usage) (float64, bool) {
	c := LookupCost(modelID)
	if c == nil {
		return 0, false
	}
	return c.Cost(usage.InputTokens, usage.OutputTokens), true
}

// modelCosts covers the models reachable through the friendly names in
// the provider tables. Dated OpenAI snapshots resolve to their base entry.
var modelCosts = map[string]ModelCost{
	// Anthropic
	"claude-haiku-4-5-20251001": {1, 5},
	"claude-sonnet-4-20250514":  {3, 15},

	// OpenAI
	"gpt-3.5-turbo":      {0.5, 1.5},
	"gpt-3.5-turbo-0125": {0.5, 1.5},
	"gpt-4o":             {2.5, 10},
	"gpt-4o-mini":        {0.15, 0.6},

	// Google
	"gemini-2.0-flash": {0.1, 0.4},
	"gemini-2.0-pro":   {1.25, 10},

	// OpenRouter
	"openai/gpt-4o-mini": {0.15, 0.6},
}
