package domain

// CreditLineInfo is a read-only view of a participant's credit line,
// provided by the loan subsystem.
type CreditLineInfo struct {
	AvailableCredit       int64
	RecommendedCreditLine int64
	MaxCreditLine         int64
	CollateralBreakdown   map[string]int64 // symbol → collateral credit value
}

// CreditLine is the boundary to the credit/loan subsystem. The engine only
// reads availability and pairs every ReserveMargin with a ReleaseMargin.
type CreditLine interface {
	Info() CreditLineInfo
	ReserveMargin(amount int64) error
	ReleaseMargin(amount int64)
}

// CreditRegistry resolves the credit line backing a given account.
type CreditRegistry interface {
	LineFor(ownerID string) CreditLine
}
