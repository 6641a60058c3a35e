package llm

import (
	"fmt"
	"strings"
)

// systemPrompt frames the model as an operator looking at both clients of a
// dual-node deployment at once: most sync problems only make sense when the
// execution and consensus logs are read together.
const systemPrompt = "You are an Ethereum node troubleshooting expert analyzing logs from a dual-node setup."

// buildUserMessage assembles the triage request from both log excerpts and
// an optional operator question.
func buildUserMessage(erigonLogs, prysmLogs, question string) string {
	var b strings.Builder

	b.WriteString("Please analyze these Ethereum node logs.\n\n")
	fmt.Fprintf(&b, "### Erigon Logs (Execution Layer)\n```\n%s\n```\n\n", erigonLogs)
	fmt.Fprintf(&b, "### Prysm Logs (Consensus Layer)\n```\n%s\n```\n", prysmLogs)

	if question != "" {
		fmt.Fprintf(&b, "\n### Specific Question\n%s\n", question)
	}

	return b.String()
}
