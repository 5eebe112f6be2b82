// Package depreciation estimates the straight-line book value of an asset
// over its category's useful life.
//
// Age is measured in whole calendar months: a month counts once the same
// day-of-month has been reached again, so Jan 31 -> Feb 28 is zero months and
// Jan 15 -> Mar 15 is two. All amounts are rounded to cents only when the
// View is built.
package depreciation

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// View is the computed valuation of an asset at a point in time.
type View struct {
	MonthlyDepreciation     decimal.Decimal `json:"monthly_depreciation" swaggertype:"string"`
	AccumulatedDepreciation decimal.Decimal `json:"accumulated_depreciation" swaggertype:"string"`
	CurrentValue            decimal.Decimal `json:"current_value" swaggertype:"string"`
	AgeMonths               int             `json:"age_months"`
	UsefulLifeMonths        int             `json:"useful_life_months"`
}

// Compute returns the valuation of an asset at now. ok is false when the
// inputs are insufficient: missing cost or purchase date, or a missing or
// non-positive useful life. That outcome is expected, not an error.
func Compute(purchaseCost *decimal.Decimal, purchaseDate *time.Time, usefulLifeMonths *int, now time.Time) (View, bool) {
	if purchaseCost == nil || purchaseDate == nil || usefulLifeMonths == nil || *usefulLifeMonths <= 0 {
		return View{}, false
	}

	cost := *purchaseCost
	life := *usefulLifeMonths
	lifeDec := decimal.NewFromInt(int64(life))
	monthly := cost.Div(lifeDec)

	purchased := calendarDate(*purchaseDate, now.Location())
	today := startOfDay(now, now.Location())

	if !purchased.Before(today) {
		return newView(monthly, decimal.Zero, cost, 0, life), true
	}

	age := WholeMonthsBetween(purchased, today)
	if age > life {
		age = life
	}

	// cost*age/life keeps full precision; equal to monthly*age.
	accumulated := cost.Mul(decimal.NewFromInt(int64(age))).Div(lifeDec)
	if accumulated.GreaterThan(cost) {
		accumulated = cost
	}
	current := cost.Sub(accumulated)
	if current.IsNegative() {
		current = decimal.Zero
	}

	return newView(monthly, accumulated, current, age, life), true
}

func newView(monthly, accumulated, current decimal.Decimal, age, life int) View {
	return View{
		MonthlyDepreciation:     monthly.Round(2),
		AccumulatedDepreciation: accumulated.Round(2),
		CurrentValue:            current.Round(2),
		AgeMonths:               age,
		UsefulLifeMonths:        life,
	}
}

// WholeMonthsBetween counts the complete calendar months from start to end.
// It returns 0 when end is not after start.
func WholeMonthsBetween(start, end time.Time) int {
	if !end.After(start) {
		return 0
	}
	end = end.In(start.Location())

	sy, sm, sd := start.Date()
	ey, em, ed := end.Date()

	months := (ey-sy)*12 + int(em-sm)
	if ed < sd || (ed == sd && timeOfDay(end) < timeOfDay(start)) {
		months--
	}
	if months < 0 {
		return 0
	}
	return months
}

// AgeLabel renders the age of an asset as "New", "7m", "2y" or "2y 3m".
// It returns an empty string when purchaseDate is nil.
func AgeLabel(purchaseDate *time.Time, now time.Time) string {
	if purchaseDate == nil {
		return ""
	}
	total := WholeMonthsBetween(calendarDate(*purchaseDate, now.Location()), startOfDay(now, now.Location()))
	years, months := total/12, total%12

	switch {
	case years == 0 && months == 0:
		return "New"
	case years == 0:
		return fmt.Sprintf("%dm", months)
	case months == 0:
		return fmt.Sprintf("%dy", years)
	default:
		return fmt.Sprintf("%dy %dm", years, months)
	}
}

// calendarDate keeps the date as written in t's own zone and places it at
// midnight in loc. DATE columns arrive as UTC midnight and must not shift a
// day when now is behind UTC.
func calendarDate(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

func startOfDay(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

func timeOfDay(t time.Time) time.Duration {
	return t.Sub(startOfDay(t, t.Location()))
}
