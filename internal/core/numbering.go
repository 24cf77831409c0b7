package core

import (
	"fmt"
	"math/rand"
	"time"
)

// Document number prefixes. The visible contract is PREFIX-YYYYMMDD-NNN where
// NNN is a zero-padded pseudo-random suffix. Uniqueness is enforced by the
// database constraint on the number column; callers regenerate on conflict.
const (
	InvoicePrefix   = "INV"
	QuotationPrefix = "QUO"
)

// numberAttempts bounds how often a generated number is retried after a
// unique-constraint conflict before the operation fails.
const numberAttempts = 5

// NewDocumentNumber builds a document number for the given day, e.g.
// INV-20260829-042.
func NewDocumentNumber(prefix string, day time.Time) string {
	return fmt.Sprintf("%s-%s-%03d", prefix, day.Format("20060102"), rand.Intn(1000))
}
