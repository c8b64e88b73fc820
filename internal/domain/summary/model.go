package summary

import (
	"github.com/shopspring/decimal"

	"subtrack/internal/domain/obligation"
)

// Overview is the spend picture for one obligation kind: the total the user
// pays for active records (shared items count half) against the configured
// goal. A positive delta means under budget.
type Overview struct {
	Kind  obligation.Kind
	Total decimal.Decimal
	Goal  decimal.Decimal
	Delta decimal.Decimal
}
