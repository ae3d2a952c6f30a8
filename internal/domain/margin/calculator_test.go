package margin

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"timebill/internal/core/types"
)

func d(s string) decimal.Decimal {
	return types.MustMoney(s)
}

func TestCompute_W2Branch(t *testing.T) {
	// w2Rate=50, ptax=10, payRate=5, hours=10
	// expense = 10*5 + 10*50 + (50*10)/100 = 555
	rc := RateCard{
		ClientRate:  d("100"),
		PayRate:     d("5"),
		W2Rate:      d("50"),
		PtaxPercent: d("10"),
		C2CRate:     d("40"), // must be ignored on the W2 branch
	}

	m := Compute(d("10"), rc)

	assert.True(t, m.GrossMargin.Equal(d("1000")), "gross: %s", m.GrossMargin)
	assert.True(t, m.Expense.Equal(d("555")), "expense: %s", m.Expense)
	assert.True(t, m.InternalExpense.IsZero())
	assert.True(t, m.NetMargin.Equal(d("445")), "net: %s", m.NetMargin)
}

func TestCompute_C2CBranch(t *testing.T) {
	// w2Rate=0, c2c=40, payRate=5, hours=10 -> expense = 50 + 400 = 450
	rc := RateCard{
		ClientRate:  d("100"),
		PayRate:     d("5"),
		W2Rate:      d("0"),
		PtaxPercent: d("10"), // irrelevant without a W2 rate
		C2CRate:     d("40"),
	}

	m := Compute(d("10"), rc)

	assert.True(t, m.Expense.Equal(d("450")), "expense: %s", m.Expense)
	assert.True(t, m.NetMargin.Equal(d("550")), "net: %s", m.NetMargin)
}

func TestCompute_MarginIdentity(t *testing.T) {
	cases := []struct {
		name  string
		hours string
		rc    RateCard
	}{
		{
			name:  "w2 with commissions",
			hours: "37.5",
			rc: RateCard{
				ClientRate:               d("120.50"),
				PayRate:                  d("61.25"),
				W2Rate:                   d("18"),
				PtaxPercent:              d("7.65"),
				AccountManagerCommission: d("1.50"),
				BizDevCommission:         d("0.75"),
				RecruiterCommission:      d("2"),
			},
		},
		{
			name:  "c2c no commissions",
			hours: "160",
			rc: RateCard{
				ClientRate: d("95"),
				PayRate:    d("0"),
				C2CRate:    d("70"),
			},
		},
		{
			name:  "zero hours",
			hours: "0",
			rc:    RateCard{ClientRate: d("100"), PayRate: d("50")},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			m := Compute(d(tc.hours), tc.rc)
			want := m.GrossMargin.Sub(m.Expense).Sub(m.InternalExpense)
			require.True(t, m.NetMargin.Equal(want),
				"net %s != gross-expense-internal %s", m.NetMargin, want)
		})
	}
}

func TestCompute_CommissionsAreFlatMultipliers(t *testing.T) {
	// Commission rate-type (percentage vs fixed) is stored but never consulted:
	// the calculation always multiplies commission * hours.
	rc := RateCard{
		ClientRate:               d("100"),
		C2CRate:                  d("50"),
		AccountManagerCommission: d("3"),
		BizDevCommission:         d("2"),
		RecruiterCommission:      d("1"),
	}

	m := Compute(d("40"), rc)

	assert.True(t, m.InternalExpense.Equal(d("240")), "internal: %s", m.InternalExpense)
}

func TestCompute_ScenarioFortyHourWeek(t *testing.T) {
	// 5 entries x 8h, clientRate=100, payRate=0, w2=0, c2c=50, no commissions.
	rc := RateCard{
		ClientRate: d("100"),
		PayRate:    d("0"),
		W2Rate:     d("0"),
		C2CRate:    d("50"),
	}

	m := Compute(d("40"), rc)

	assert.True(t, m.GrossMargin.Equal(d("4000")))
	assert.True(t, m.Expense.Equal(d("2000")))
	assert.True(t, m.InternalExpense.IsZero())
	assert.True(t, m.NetMargin.Equal(d("2000")))
}

func TestRounded(t *testing.T) {
	m := Margins{
		GrossMargin:     d("100.005"),
		Expense:         d("33.333"),
		InternalExpense: d("0.115"),
		NetMargin:       d("66.557"),
	}

	r := m.Rounded()

	assert.Equal(t, "100.01", r.GrossMargin.StringFixed(2))
	assert.Equal(t, "33.33", r.Expense.StringFixed(2))
	assert.Equal(t, "0.12", r.InternalExpense.StringFixed(2))
	assert.Equal(t, "66.56", r.NetMargin.StringFixed(2))
}

func TestAdd(t *testing.T) {
	a := Compute(d("10"), RateCard{ClientRate: d("100"), C2CRate: d("50")})
	b := Compute(d("20"), RateCard{ClientRate: d("80"), C2CRate: d("40")})

	sum := a.Add(b)

	assert.True(t, sum.GrossMargin.Equal(d("2600")))
	assert.True(t, sum.Expense.Equal(d("1300")))
	assert.True(t, sum.NetMargin.Equal(d("1300")))
}
