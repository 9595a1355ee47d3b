// Package widget implements the transition countdown widget: pure date
// arithmetic over the term calendar, plus an incumbency gate restricting who
// may read the countdown.
package widget

import "time"

// Calculator performs the countdown arithmetic. It holds no state beyond
// the configured lead window and is safe for concurrent use.
type Calculator struct {
	leadDays int
}

// NewCalculator creates a Calculator with the given visibility lead window
// in days.
func NewCalculator(leadDays int) *Calculator {
	return &Calculator{leadDays: leadDays}
}

// LeadDays returns the configured visibility window.
func (c *Calculator) LeadDays() int {
	return c.leadDays
}

// DaysRemaining returns the non-negative whole-day count from now until
// next, rounding partial days up so "tomorrow at any time" is 1 day away.
func (c *Calculator) DaysRemaining(now, next time.Time) int {
	d := next.Sub(now)
	if d <= 0 {
		return 0
	}
	days := int(d / (24 * time.Hour))
	if d%(24*time.Hour) != 0 {
		days++
	}
	return days
}

// IsVisible reports whether the countdown should be shown: true once the
// next transition is at most leadDays away.
func (c *Calculator) IsVisible(now, next time.Time) bool {
	return c.DaysRemaining(now, next) <= c.leadDays
}
