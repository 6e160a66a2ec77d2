package models

import (
	"fmt"
	"time"
)

// Prefixes for human-readable numbers assigned at insert time.
const (
	PrefixContract    = "CTR"
	PrefixInvoice     = "INV"
	PrefixTask        = "TSK"
	PrefixEvent       = "EVT"
	PrefixTransaction = "TRX"
)

// HumanNumber derives the prefix + 14-digit timestamp identifier carried by
// contracts, invoices, maintenance requests and calendar events.
func HumanNumber(prefix string, t time.Time) string {
	return fmt.Sprintf("%s%s", prefix, t.UTC().Format("20060102150405"))
}

// Numbered is implemented by models carrying a human-readable number. The
// repository primitive calls EnsureNumber before the INSERT so the number is
// written in the same statement as the row.
type Numbered interface {
	EnsureNumber(now time.Time)
}
