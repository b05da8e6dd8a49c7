package thaiid

import (
	"fmt"
	"strconv"
	"time"
)

// BuddhistEraOffset is the difference between Buddhist Era and Gregorian years.
const BuddhistEraOffset = 543

// Date is a card date as stored: an 8 digit YYYYMMDD string whose year is in
// the Buddhist Era. Values are kept as read, no calendar conversion and no
// range check; cards valid for life carry an expiry of 99999999.
type Date struct {
	Year  int
	Month int
	Day   int
}

// ParseDate reads the year from s[0:4], the month from s[4:6] and the day from s[6:8].
func ParseDate(s string) (Date, error) {
	if len(s) < 8 {
		return Date{}, fmt.Errorf("%w: date %q shorter than 8 digits", ErrDecoding, s)
	}
	for i := 0; i < 8; i++ {
		if s[i] < '0' || s[i] > '9' {
			return Date{}, fmt.Errorf("%w: date %q is not numeric", ErrDecoding, s)
		}
	}

	// s[:8] is all digits, so Atoi cannot fail.
	year, _ := strconv.Atoi(s[0:4])
	month, _ := strconv.Atoi(s[4:6])
	day, _ := strconv.Atoi(s[6:8])
	return Date{Year: year, Month: month, Day: day}, nil
}

// IsZero reports whether the date was never set.
func (d Date) IsZero() bool {
	return d == Date{}
}

// Valid reports whether month and day name a real calendar day.
func (d Date) Valid() bool {
	if d.Month < 1 || d.Month > 12 || d.Day < 1 {
		return false
	}
	// leap years follow the Gregorian year
	t := time.Date(d.Year-BuddhistEraOffset, time.Month(d.Month), d.Day, 0, 0, 0, 0, time.UTC)
	return t.Day() == d.Day
}

// Gregorian converts the Buddhist Era date to a Gregorian time.Time at UTC midnight.
// It fails for dates that are not Valid.
func (d Date) Gregorian() (time.Time, error) {
	if !d.Valid() {
		return time.Time{}, fmt.Errorf("not a calendar date: %s", d)
	}
	return time.Date(d.Year-BuddhistEraOffset, time.Month(d.Month), d.Day, 0, 0, 0, 0, time.UTC), nil
}

// String formats the date as YYYY-MM-DD with the year as read.
func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
}

// MarshalText implements encoding.TextMarshaler.
func (d Date) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}
