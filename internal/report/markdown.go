package report

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// RenderMarkdown renders the report as a Markdown string.
func RenderMarkdown(r *Report) string {
	var sb strings.Builder

	sb.WriteString("# Run Report\n\n")
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", r.GeneratedAt.Format(time.RFC3339)))
	sb.WriteString(fmt.Sprintf("Network: %s | Sender: %s\n\n", r.Network, r.Sender))

	sb.WriteString("## Operations\n\n")
	sb.WriteString("| Metric | Value |\n")
	sb.WriteString("|--------|-------|\n")
	sb.WriteString(fmt.Sprintf("| Total | %d |\n", r.Operations.Total))
	for _, k := range sortedKeys(r.Operations.ByOutcome) {
		sb.WriteString(fmt.Sprintf("| Outcome %s | %d |\n", k, r.Operations.ByOutcome[k]))
	}
	sb.WriteString(fmt.Sprintf("| Fees Paid (micro) | %d |\n", r.Operations.TotalFeeMicro))
	sb.WriteString(fmt.Sprintf("| Confirmed Amount (micro) | %d |\n", r.Operations.ConfirmedMicro))
	sb.WriteString("\n")

	sb.WriteString("## Probes\n\n")
	sb.WriteString(fmt.Sprintf("Total attempts: %d\n\n", r.Probes.Total))
	if len(r.Probes.ByClass) > 0 {
		sb.WriteString("| Class | Count |\n")
		sb.WriteString("|-------|-------|\n")
		for _, k := range sortedKeys(r.Probes.ByClass) {
			sb.WriteString(fmt.Sprintf("| %s | %d |\n", k, r.Probes.ByClass[k]))
		}
		sb.WriteString("\n")
	}

	if len(r.Probes.Progressed) > 0 {
		sb.WriteString("### Attempts Past the Entry Guard\n\n")
		sb.WriteString("| App | Arg Set | Class | Failed PC | TxID |\n")
		sb.WriteString("|-----|---------|-------|-----------|------|\n")
		for _, row := range r.Probes.Progressed {
			sb.WriteString(fmt.Sprintf("| %d | %s | %s | %d | %s |\n",
				row.AppID, row.ArgSetName, row.Class, row.FailedPC, row.TxID))
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
