// Package chat extracts pending-return report events from a raw chat
// transcript export.
//
// A transcript is one logical message per line, optionally prefixed with
// the export header "[time, date] Sender: ". Extraction is best-effort:
// lines that do not qualify or carry no contract number are dropped
// silently, never reported as errors. Transcripts are chronological, so
// when the same contract is reported more than once only the last report
// survives.
package chat

import (
	"regexp"
	"strings"

	"github.com/fieldops/recon430/internal/config"
	"github.com/fieldops/recon430/internal/names"
)

// UnidentifiedReporter is the sentinel identity for bare lines that carry
// no "[...] Sender:" export prefix.
const UnidentifiedReporter = "remetente nao identificado"

// Event is one qualifying self-report extracted from the transcript.
type Event struct {
	// Contract is the 6-8 digit contract number, as written.
	Contract string

	// Reporter is the sender name from the export prefix, untrimmed of
	// tags (normalization happens at comparison time).
	Reporter string

	// RawLine is the full transcript line, kept for diagnostics.
	RawLine string
}

// exportPrefix captures the "[time, date] Sender: message" export format.
var exportPrefix = regexp.MustCompile(`^\[[^\]]+\]\s*([^:]+):\s*(.*)$`)

// contractToken is the first 6-8 digit whole token.
var contractToken = regexp.MustCompile(`\b(\d{6,8})\b`)

// Extract parses a transcript into deduplicated report events.
//
// A line qualifies when its message body mentions the target code as a
// whole token, or one of the alias phrases, AND mentions none of the
// conflict codes. A line carrying both the target code and a conflict
// code is ambiguous and is dropped entirely.
//
// The result preserves transcript order; for duplicated contracts the
// position and reporter of the LAST occurrence win.
func Extract(transcript string, rules config.Rules) []Event {
	var events []Event

	for _, line := range strings.Split(transcript, "\n") {
		line = strings.TrimSpace(strings.TrimSuffix(line, "\r"))
		if line == "" {
			continue
		}

		reporter := UnidentifiedReporter
		body := line
		if m := exportPrefix.FindStringSubmatch(line); m != nil {
			reporter = strings.TrimSpace(m[1])
			body = m[2]
		}

		if !mentionsTarget(body, rules) || mentionsConflict(body, rules) {
			continue
		}

		// Fall back to the whole line when the body split ate the number.
		contract := contractToken.FindString(body)
		if contract == "" {
			contract = contractToken.FindString(line)
		}
		if contract == "" {
			continue
		}

		events = append(events, Event{Contract: contract, Reporter: reporter, RawLine: line})
	}

	return dedupLastWins(events)
}

// mentionsTarget reports whether the body carries the target code as a
// whole token or any alias phrase. Alias matching is accent- and
// case-insensitive; single-word aliases must match a whole token.
func mentionsTarget(body string, rules config.Rules) bool {
	if hasToken(body, rules.TargetCode) {
		return true
	}

	folded := names.Fold(body)
	for _, alias := range rules.Aliases {
		alias = names.Fold(alias)
		if alias == "" {
			continue
		}
		if strings.Contains(alias, " ") {
			if strings.Contains(folded, alias) {
				return true
			}
		} else if hasToken(folded, alias) {
			return true
		}
	}
	return false
}

func mentionsConflict(body string, rules config.Rules) bool {
	for _, code := range rules.ConflictCodes {
		if hasToken(body, code) {
			return true
		}
	}
	return false
}

// hasToken reports a whole-token occurrence of tok in s, where token
// boundaries are any non-alphanumeric runes.
func hasToken(s, tok string) bool {
	if tok == "" {
		return false
	}
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return !('0' <= r && r <= '9' || 'a' <= r && r <= 'z' || 'A' <= r && r <= 'Z')
	})
	for _, f := range fields {
		if strings.EqualFold(f, tok) {
			return true
		}
	}
	return false
}

// dedupLastWins keeps only the final report per contract, positioned at
// its final occurrence.
func dedupLastWins(events []Event) []Event {
	last := make(map[string]int, len(events))
	for i, ev := range events {
		last[ev.Contract] = i
	}

	deduped := make([]Event, 0, len(last))
	for i, ev := range events {
		if last[ev.Contract] == i {
			deduped = append(deduped, ev)
		}
	}
	return deduped
}
