package consciousness

import (
	"fmt"
	"strings"

	"github.com/mindloop-ai/mindloop/core"
)

func thoughtPrompt(memories []core.Memory) string {
	var sb strings.Builder
	sb.WriteString("Reflect on the recent conversations below and produce one original thought worth sharing. ")
	sb.WriteString(`Respond with a JSON object of the shape {"thought":string,"confidence":number,"context":string}. `)
	sb.WriteString("Confidence is between 0 and 1; use it honestly, a low score means the thought is not worth surfacing.\n")

	if len(memories) == 0 {
		sb.WriteString("\nThere are no recent conversations. Think about something you find genuinely interesting.\n")
		return sb.String()
	}

	sb.WriteString("\nRecent conversations, newest first:\n")
	for _, m := range memories {
		fmt.Fprintf(&sb, "- [%s] %s\n", m.Timestamp.Format("2006-01-02 15:04"), m.Content)
	}
	return sb.String()
}
