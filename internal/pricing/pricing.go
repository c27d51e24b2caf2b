// Package pricing computes the cost of a finished parking session from tariff
// data. It is pure: no state, no clock, no I/O.
package pricing

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// GracePeriod is the free window at the start of every session.
const GracePeriod = 180 * time.Second

// ErrInvalidInterval reports an end time before the start time.
var ErrInvalidInterval = errors.New("pricing: end before start")

// Price returns the cost of parking from start to end.
//
// Sessions shorter than the grace period are free. A session whose end falls
// on a later calendar date than its start is billed in day units: the day
// tariff times the calendar-date difference plus one, so crossing midnight by
// a single second already costs two day units. Same-day sessions are billed
// per started hour against the hourly tariff, capped at the day tariff.
//
// Calendar dates are evaluated in UTC.
func Price(start, end time.Time, hourlyTariff, dayTariff decimal.Decimal) (decimal.Decimal, error) {
	if end.Before(start) {
		return decimal.Zero, ErrInvalidInterval
	}

	elapsed := end.Sub(start)
	if elapsed < GracePeriod {
		return decimal.Zero, nil
	}

	startDate := dateOf(start)
	endDate := dateOf(end)
	if endDate.After(startDate) {
		span := int64(endDate.Sub(startDate) / (24 * time.Hour))
		return dayTariff.Mul(decimal.NewFromInt(span + 1)), nil
	}

	seconds := int64(elapsed / time.Second)
	hours := (seconds + 3599) / 3600
	cost := hourlyTariff.Mul(decimal.NewFromInt(hours))
	if cost.GreaterThan(dayTariff) {
		return dayTariff, nil
	}
	return cost, nil
}

func dateOf(t time.Time) time.Time {
	year, month, day := t.UTC().Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
