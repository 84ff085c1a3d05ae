package utils

import (
	"fmt"
	"math"
	"strings"
	"time"

	"toolrental-backend/internal/domain"
)

// timestampLayouts are tried in order by ParseTimestamp.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseTimestamp parses an RFC 3339 timestamp, a date-time without zone or a
// bare yyyy-mm-dd date. Values without a zone are taken as UTC.
func ParseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty timestamp")
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid timestamp %q, expected yyyy-mm-dd or yyyy-mm-ddThh:mm:ss", s)
}

// CalendarDate drops the time of day, keeping the date as seen in UTC.
func CalendarDate(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

const secondsPerDay = 24 * 60 * 60

// BillableDays counts whole UTC calendar days between pickup and return.
// A same-day or sub-day booking is billed as one day.
func BillableDays(start, end time.Time) int64 {
	days := (CalendarDate(end).Unix() - CalendarDate(start).Unix()) / secondsPerDay
	if days < 1 {
		return 1
	}
	return days
}

// RentalCost is billable days x daily price x quantity. Totals that do not
// fit the stored amount are rejected.
func RentalCost(start, end time.Time, dailyPrice int32, quantity int) (int32, error) {
	perUnit, err := checkedAmount(BillableDays(start, end), int64(dailyPrice))
	if err != nil {
		return 0, err
	}
	return checkedAmount(int64(perUnit), int64(quantity))
}

// SummarizeCharges computes the rental fee and deposit total of a booking
// from its lines, each line priced at its model's current daily rate.
func SummarizeCharges(start, end time.Time, lines []domain.RentalLineDetail) (rentalCost, deposits int32, err error) {
	var daily, deposit int64
	for _, l := range lines {
		daily += int64(l.DailyPrice)
		deposit += int64(l.Deposit)
	}
	if rentalCost, err = checkedAmount(BillableDays(start, end), daily); err != nil {
		return 0, 0, err
	}
	if deposits, err = checkedAmount(deposit, 1); err != nil {
		return 0, 0, err
	}
	if _, err = checkedAmount(int64(rentalCost)+int64(deposits), 1); err != nil {
		return 0, 0, err
	}
	return rentalCost, deposits, nil
}

// checkedAmount multiplies two non-negative factors, failing when the
// product does not fit in an int32.
func checkedAmount(a, b int64) (int32, error) {
	if a < 0 || b < 0 {
		return 0, domain.Validationf("amounts cannot be negative")
	}
	if b != 0 && a > math.MaxInt32/b {
		return 0, domain.Validationf("rental cost exceeds the supported maximum of %d", math.MaxInt32)
	}
	return int32(a * b), nil
}
