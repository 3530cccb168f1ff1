package recon

import (
	"fmt"
	"strings"
)

// Report placeholders. These strings are part of the copy-paste surface
// consumed by controllers; changing them changes every golden file.
const (
	noSerialPlaceholder = "SEM SERIAL"
	emptyBucketLine     = "nenhum encontrado"
)

// Render produces the deterministic text report: a summary header, then
// the Divergent, Missing and Ok sections in fixed order. Empty buckets
// render an explicit placeholder line so that consumers can rely on
// every section being present.
func Render(res *Result) string {
	var b strings.Builder

	fmt.Fprintf(&b, "COMPARATIVO DEVOLUCAO PENDENTE (430)\n")
	fmt.Fprintf(&b, "Eventos no chat: %d\n", res.Summary.TotalChatEvents)
	fmt.Fprintf(&b, "Linhas oficiais no dia: %d\n", res.Summary.TotalOfficialRows)
	fmt.Fprintf(&b, "Contratos oficiais distintos: %d\n", res.Summary.DistinctContractsOfficial)
	fmt.Fprintf(&b, "Ok: %d | Divergentes: %d | Nao encontrados: %d\n",
		res.Summary.OkCount, res.Summary.DivergentCount, res.Summary.MissingCount)

	b.WriteString("\nDIVERGENCIAS\n")
	if len(res.Divergent) == 0 {
		b.WriteString(emptyBucketLine + "\n")
	}
	for _, o := range res.Divergent {
		serials := noSerialPlaceholder
		if len(o.Serials) > 0 {
			serials = strings.Join(o.Serials, ", ")
		}
		fmt.Fprintf(&b, "%s | %s | %s\n", o.Contract, o.Reporter, serials)
	}

	b.WriteString("\nNAO ENCONTRADOS\n")
	if len(res.Missing) == 0 {
		b.WriteString(emptyBucketLine + "\n")
	}
	for _, o := range res.Missing {
		fmt.Fprintf(&b, "%s - %s\n", o.Contract, o.Reporter)
	}

	b.WriteString("\nOK\n")
	if len(res.Ok) == 0 {
		b.WriteString(emptyBucketLine + "\n")
	}
	for _, o := range res.Ok {
		fmt.Fprintf(&b, "%s - %s\n", o.Contract, o.Reporter)
	}

	return b.String()
}

// SplitForDelivery chops a rendered report into chunks no longer than
// maxLen, splitting only on line boundaries. The chat transport caps
// message size, and a report over a busy day can exceed it. Lines
// longer than maxLen are emitted as their own oversized chunk rather
// than truncated.
func SplitForDelivery(report string, maxLen int) []string {
	if maxLen <= 0 || len(report) <= maxLen {
		return []string{report}
	}

	var chunks []string
	var current string
	for _, line := range strings.Split(strings.TrimRight(report, "\n"), "\n") {
		candidate := line
		if current != "" {
			candidate = current + "\n" + line
		}
		if len(candidate) > maxLen && current != "" {
			chunks = append(chunks, current)
			current = line
			continue
		}
		current = candidate
	}
	if current != "" {
		chunks = append(chunks, current)
	}
	return chunks
}
