package intelligence

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/chronicle/internal/domain"
	"github.com/alexanderramin/chronicle/internal/engine"
)

// semanticSystemPrompt instructs the generator to link unmatched worklog
// entries to known evidence and tickets.
const semanticSystemPrompt = `You are a worklog reconciliation assistant.
You receive time-tracking entries that could not be matched to any commit or ticket by identifier,
plus a catalog of all known commits and tickets.

For each entry, decide whether any catalog item plausibly corresponds to the logged work.
Output ONLY a JSON array, one element per entry you can match, each with these fields:
- entry_index: the numeric index of the entry (copy it exactly from the input)
- evidence_id: the id of the matching commit, omit if none
- ticket_id: the key of the matching ticket, omit if none
- confidence: "high", "medium" or "low"

RULES:
1. Only reference ids and keys that appear in the catalog. Never invent ids.
2. Skip entries you cannot match; do not output placeholder elements for them.
3. Prefer evidence whose date is close to the entry's date.
4. Use strict JSON numeric literals (e.g. 0.5, never .5). No markdown, no commentary.`

// decomposeSystemPrompt instructs the generator to break aggregated work into
// sub-tasks whose hours sum to the group total.
const decomposeSystemPrompt = `You are a worklog reconciliation assistant.
You receive a cluster of related time-tracking entries, the evidence (commits and tickets) behind
them, the total logged hours, and optionally advisory hour targets per evidence unit.

Break the cluster's work into concrete sub-tasks. Output ONLY a JSON array where each element has:
- description: a specific, past-tense description of the sub-task
- hours: fractional hours spent on it
- ticket_id: the ticket key this sub-task belongs to, omit if unknown
- confidence: "high", "medium" or "low"

RULES:
1. The hours across all sub-tasks MUST sum exactly to the stated total.
2. Order sub-tasks chronologically where the evidence suggests an order.
3. The advisory targets are hints, not constraints; deviate when evidence says otherwise.
4. Never invent ticket keys that are not in the evidence.
5. Output ONLY the JSON array, no markdown fences, no commentary.`

// enrichSystemPrompt instructs the generator to rewrite draft descriptions
// into audit-ready ones.
const enrichSystemPrompt = `You are a worklog reconciliation assistant.
You receive a batch of work items, each with a key, a draft description, logged hours, ticket
identifiers, and supporting evidence (commit messages and ticket summaries).

Rewrite each draft into a clear, specific, past-tense worklog description grounded in the evidence.
Output ONLY a JSON array with one element per work item:
- key: the work item key, copied exactly from the input
- description: the rewritten description (one sentence, no trailing period needed)
- confidence: "high", "medium" or "low"
- notes: optional caveats, e.g. when evidence was thin or dates diverged

RULES:
1. Every element MUST copy the key verbatim. Never merge or split items.
2. Do not change, mention, or reallocate hours; hours are fixed upstream.
3. Ground every description in the supplied evidence; do not invent work.
4. Output ONLY the JSON array, no markdown, no commentary.`

// patternsSystemPrompt instructs the generator to discover shorthand ticket
// prefixes used in descriptions.
const patternsSystemPrompt = `You are a worklog reconciliation assistant.
You receive worklog entry descriptions and the canonical ticket prefixes used by this team's
tracker. Writers sometimes use shorthand prefixes (e.g. "dash-12" for "SD-12").

Identify shorthand prefixes and map them to canonical ones. Output ONLY a JSON object mapping each
canonical prefix to an array of observed shorthand prefixes, e.g. {"SD": ["DASH", "SDASH"]}.
Only include canonical prefixes from the provided list. If there is nothing to map, output {}.`

// renderEntryLine renders one entry for prompt context.
func renderEntryLine(e domain.TimeEntry) string {
	return fmt.Sprintf("[%d] %s | %.2fh | %q", e.Index, e.Date(), e.Hours, e.Description)
}

// renderEvidenceCatalog renders the full evidence set compactly, commits and
// tickets in separate sections so the generator can reference them by id.
func renderEvidenceCatalog(evidence []domain.EvidenceRecord) string {
	var commits, tickets []string
	for _, ev := range evidence {
		switch ev.Kind {
		case domain.EvidenceCommit:
			commits = append(commits, fmt.Sprintf("- id=%s date=%s lines=%d msg=%q",
				ev.ID, ev.Timestamp.Format("2006-01-02"), ev.LinesChanged, truncate(ev.Text, 120)))
		case domain.EvidenceTicket:
			tickets = append(tickets, fmt.Sprintf("- key=%s date=%s points=%.1f summary=%q",
				ev.ID, ev.Timestamp.Format("2006-01-02"), ev.StoryPoints, truncate(ev.Text, 120)))
		}
	}

	var b strings.Builder
	b.WriteString("COMMITS:\n")
	if len(commits) == 0 {
		b.WriteString("(none)\n")
	} else {
		b.WriteString(strings.Join(commits, "\n"))
		b.WriteString("\n")
	}
	b.WriteString("TICKETS:\n")
	if len(tickets) == 0 {
		b.WriteString("(none)\n")
	} else {
		b.WriteString(strings.Join(tickets, "\n"))
		b.WriteString("\n")
	}
	return b.String()
}

func buildSemanticPrompt(unmatched []domain.MatchResult, evidence []domain.EvidenceRecord) string {
	var b strings.Builder
	b.WriteString("UNMATCHED ENTRIES:\n")
	for _, r := range unmatched {
		b.WriteString(renderEntryLine(r.Entry))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(renderEvidenceCatalog(evidence))
	return b.String()
}

func buildDecomposePrompt(group domain.AggregationGroup, targets []engine.AdvisoryTarget) string {
	var b strings.Builder
	fmt.Fprintf(&b, "TOTAL HOURS: %.4f\n\nENTRIES:\n", group.TotalHours)
	for _, m := range group.Members {
		b.WriteString(renderEntryLine(m.Entry))
		b.WriteString("\n")
	}
	b.WriteString("\nEVIDENCE:\n")
	b.WriteString(renderEvidenceCatalog(group.DistinctEvidence()))
	if len(targets) > 0 {
		b.WriteString("\nADVISORY HOUR TARGETS (hints only):\n")
		for _, t := range targets {
			fmt.Fprintf(&b, "- %s %s: %.2fh\n", t.Evidence.Kind, t.Evidence.ID, t.Hours)
		}
	}
	return b.String()
}

func buildEnrichPrompt(batch domain.Batch) string {
	var b strings.Builder
	fmt.Fprintf(&b, "BATCH KEY: %s\n\nWORK ITEMS:\n", batch.Key)
	for _, it := range batch.Items {
		fmt.Fprintf(&b, "key=%s date=%s hours=%.2f ids=%s draft=%q\n",
			it.Key, it.EntryDate, it.Hours, strings.Join(it.Identifiers, ","), it.Description)
		if it.Aggregated {
			fmt.Fprintf(&b, "  (aggregated across days; original entry: %q)\n", it.EntryDescription)
		}
		for _, ev := range it.Evidence {
			fmt.Fprintf(&b, "  evidence %s %s: %q\n", ev.Kind, ev.ID, truncate(ev.Text, 100))
		}
	}
	return b.String()
}

func buildPatternsPrompt(descriptions, knownPrefixes []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "CANONICAL PREFIXES: %s\n\nDESCRIPTIONS:\n", strings.Join(knownPrefixes, ", "))
	for _, d := range descriptions {
		fmt.Fprintf(&b, "- %q\n", truncate(d, 160))
	}
	return b.String()
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "…"
}
