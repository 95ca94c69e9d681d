package questions

import (
	"fmt"
	"strings"
)

const questionSystemPrompt = `You are a study assistant that quizzes a learner on a document they uploaded.

Rules:
- Ask exactly one open-ended question about the document.
- The question must be answerable from the document alone in one or two sentences.
- Prefer questions that check understanding over recall of exact wording.
- Do not repeat any question from the "already asked" list.`

const summarySystemPrompt = `You summarise study documents for a learner.

Rules:
- Write three to five plain sentences.
- Cover the main topics and conclusions; skip references and boilerplate.`

// buildQuestionMessage constructs the user message for question generation.
func buildQuestionMessage(doc, summary string, prior []string, maxPrior int) string {
	var b strings.Builder

	if doc != "" {
		fmt.Fprintf(&b, "Document: %s\n", doc)
	}
	b.WriteString("Summary:\n")
	if summary == "" {
		b.WriteString("(no summary available; ask a general study question)\n")
	} else {
		b.WriteString(strings.TrimSpace(summary))
		b.WriteString("\n")
	}

	b.WriteString("\nAlready asked in this session:\n")
	b.WriteString(buildDedup(prior, maxPrior))
	return b.String()
}

// buildDedup formats prior questions for the prompt, keeping the most
// recent max. Returns "None" if there are no prior questions.
func buildDedup(prior []string, max int) string {
	if len(prior) == 0 {
		return "None"
	}
	if max > 0 && len(prior) > max {
		prior = prior[len(prior)-max:]
	}

	var b strings.Builder
	for i, q := range prior {
		fmt.Fprintf(&b, "%d. %s\n", i+1, q)
	}
	return strings.TrimRight(b.String(), "\n")
}
