package domain

import "fmt"

// Sequence number prefixes.
const (
	QuoteNumberPrefix   = "QT"
	InvoiceNumberPrefix = "INV"
)

// NumberPrefix returns the sequence number prefix for a document type.
func NumberPrefix(docType DocType) string {
	if docType == DocTypeInvoice {
		return InvoiceNumberPrefix
	}
	return QuoteNumberPrefix
}

// FormatNumber renders a sequence number as PREFIX-YYYY-NNNN, e.g.
// QT-2026-0042. Sequences past 9999 widen naturally rather than wrap.
func FormatNumber(docType DocType, year int, seq int64) string {
	return fmt.Sprintf("%s-%d-%04d", NumberPrefix(docType), year, seq)
}
