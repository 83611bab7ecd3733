package pipeline

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mindloop-ai/mindloop/core"
)

// Prompt templates are deterministic: same inputs, same prompt. The
// completion collaborator's output is the only nondeterministic element.

func enrichmentPrompt(content string, related []core.SearchResult) string {
	var sb strings.Builder
	sb.WriteString("Analyze the following message and respond with a JSON object ")
	sb.WriteString(`of the shape {"summary":string,"topics":[string],"sentiment":string,"entities":[string],"intent":string}.`)
	sb.WriteString("\n\nMessage:\n")
	sb.WriteString(content)
	if len(related) > 0 {
		sb.WriteString("\n\nRelated prior memories:\n")
		for _, r := range related {
			fmt.Fprintf(&sb, "- %s\n", r.Content)
		}
	}
	return sb.String()
}

func strictEnrichmentPrompt(content string) string {
	var sb strings.Builder
	sb.WriteString("Return ONLY a JSON object, no prose, no code fences, exactly these keys: ")
	sb.WriteString(`{"summary":string,"topics":[string],"sentiment":"positive"|"neutral"|"negative","entities":[string],"intent":string}.`)
	sb.WriteString("\n\nMessage:\n")
	sb.WriteString(content)
	return sb.String()
}

func intentPrompt(content string) string {
	var sb strings.Builder
	sb.WriteString("Extract the intents from the following message. Respond with a JSON array ")
	sb.WriteString(`of objects of the shape {"kind":string,"confidence":number,"action":string,"parameters":object}. `)
	sb.WriteString("Confidence is between 0 and 1. Omit action when no immediate action applies.")
	sb.WriteString("\n\nMessage:\n")
	sb.WriteString(content)
	return sb.String()
}

func actionPrompt(intent core.Intent, content string, available []core.ActionDescriptor) string {
	var sb strings.Builder
	sb.WriteString("Given the message and the classified intent, select at most one of the available actions ")
	sb.WriteString(`and respond with a JSON object of the shape {"action":string,"confidence":number,"parameters":object,"reasoning":string}. `)
	sb.WriteString("Use an action name exactly as listed. Confidence is between 0 and 1.\n")

	fmt.Fprintf(&sb, "\nIntent: %s (confidence %.2f)\nMessage:\n%s\n\nAvailable actions:\n", intent.Kind, intent.Confidence, content)
	for _, d := range available {
		schema, _ := json.Marshal(d.Schema())
		fmt.Fprintf(&sb, "- %s: %s (parameters: %s)\n", d.Kind, d.Description, schema)
		for _, ex := range d.Examples {
			fmt.Fprintf(&sb, "  example: %s\n", ex)
		}
	}
	return sb.String()
}
