// Package margin implements the billing-margin and commission calculation
// engine. All functions are pure; callers decide how results are persisted.
package margin

import (
	"timebill/internal/core/types"

	"github.com/shopspring/decimal"
)

// RateCard is the calculation view of a consultant's active contract.
// It is a value object detached from storage so the calculator stays pure.
type RateCard struct {
	// ClientRate is the hourly rate billed to the client.
	ClientRate types.Money

	// PayRate is the consultant's base hourly pay rate.
	// Canonical field for the expense formula (historically also called
	// "other rate"; the alias is resolved at the DTO boundary).
	PayRate types.Money

	// W2Rate is the hourly employment cost for W2 consultants.
	// W2Rate > 0 is the sole discriminator for the W2 cost branch.
	W2Rate types.Money

	// PtaxPercent is the payroll tax percentage applied to the W2 rate.
	PtaxPercent types.Money

	// C2CRate is the hourly cost for C2C/other classified consultants.
	C2CRate types.Money

	// Commission rates are flat per-hour multipliers. The stored
	// percentage/fixed rate-type is deliberately not consulted here.
	AccountManagerCommission types.Money
	BizDevCommission         types.Money
	RecruiterCommission      types.Money
}

// Margins holds the four money outputs of a computation.
type Margins struct {
	GrossMargin     types.Money
	Expense         types.Money
	InternalExpense types.Money
	NetMargin       types.Money
}

// Compute converts worked hours and a rate card into margins.
//
//	grossMargin     = hours * clientRate
//	expense         = hours*payRate + hours*w2Rate + (w2Rate*ptax)/100   (W2)
//	                = hours*payRate + hours*c2cRate                      (C2C/other)
//	internalExpense = hours * (amCommission + bdCommission + recruiterCommission)
//	netMargin       = grossMargin - expense - internalExpense
func Compute(totalHours types.Hours, rc RateCard) Margins {
	gross := totalHours.Mul(rc.ClientRate)

	expense := totalHours.Mul(rc.PayRate)
	if rc.W2Rate.GreaterThan(decimal.Zero) {
		ptax := rc.W2Rate.Mul(rc.PtaxPercent).Div(decimal.NewFromInt(100))
		expense = expense.Add(totalHours.Mul(rc.W2Rate)).Add(ptax)
	} else {
		expense = expense.Add(totalHours.Mul(rc.C2CRate))
	}

	internal := totalHours.Mul(rc.AccountManagerCommission).
		Add(totalHours.Mul(rc.BizDevCommission)).
		Add(totalHours.Mul(rc.RecruiterCommission))

	return Margins{
		GrossMargin:     gross,
		Expense:         expense,
		InternalExpense: internal,
		NetMargin:       gross.Sub(expense).Sub(internal),
	}
}

// Rounded returns a copy rounded to 2 decimal places for reporting.
func (m Margins) Rounded() Margins {
	return Margins{
		GrossMargin:     types.Round2(m.GrossMargin),
		Expense:         types.Round2(m.Expense),
		InternalExpense: types.Round2(m.InternalExpense),
		NetMargin:       types.Round2(m.NetMargin),
	}
}

// Add accumulates another computation into m (used by reporting folds).
func (m Margins) Add(other Margins) Margins {
	return Margins{
		GrossMargin:     m.GrossMargin.Add(other.GrossMargin),
		Expense:         m.Expense.Add(other.Expense),
		InternalExpense: m.InternalExpense.Add(other.InternalExpense),
		NetMargin:       m.NetMargin.Add(other.NetMargin),
	}
}
