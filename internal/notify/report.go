package notify

import (
	"strings"

	"linktrack/internal/domain"
)

// ReportFields selects which per-event lines RenderReport emits.
// The abbreviated "general" shape is a rendering option, not a separate
// code path - both dispatch variants share the same pipeline.
type ReportFields int

const (
	// FieldsFull renders every funnel field for each event.
	FieldsFull ReportFields = iota
	// FieldsGeneral renders only the status and the resolved name.
	FieldsGeneral
)

// NoDataReport is returned for an empty event sequence. A deliberate
// policy rather than an error: "notify me" is still meaningful when the
// subject has no funnel history, and the message is delivered anyway.
const NoDataReport = "no data"

// RenderReport turns a sequence of funnel events into one human-readable
// notification body. Pure function: no I/O, no mutation.
//
// Field order within each block is part of the external contract - the
// humans reading the delivered message rely on it being stable - so
// lines are emitted in a fixed order, events in input order.
func RenderReport(events []*domain.FunnelEvent, displayName string, fields ReportFields) string {
	if len(events) == 0 {
		return NoDataReport
	}

	var b strings.Builder
	for _, e := range events {
		b.WriteString("❗ Status: ")
		b.WriteString(string(e.Status))
		b.WriteString("\n")

		if fields == FieldsFull {
			b.WriteString("\U0001F6E5 Platform: ")
			b.WriteString(e.Platform)
			b.WriteString("\n")
			b.WriteString("▪ Wallet: ")
			b.WriteString(e.Wallet)
			b.WriteString("\n")
			b.WriteString("▪ Address: ")
			b.WriteString(e.Address)
			b.WriteString("\n")
			b.WriteString("❓ Balance: ")
			b.WriteString(e.Balance)
			b.WriteString("\n")
			b.WriteString("\U0001F30F IP: ")
			b.WriteString(e.IP)
			b.WriteString("\n")
			b.WriteString("\U0001F3F3 Country: ")
			b.WriteString(e.Country)
			b.WriteString("\n")
		}

		b.WriteString("\U0001F477 Worker: @")
		b.WriteString(displayName)
		b.WriteString("\n\n\n")
	}

	return b.String()
}
