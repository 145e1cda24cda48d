package streak

import (
	"fmt"
	"strings"
	"time"
)

const DateFormat = "2006-01-02"

// DayKey is a calendar day with no time-of-day or zone attached.
// Two DayKeys are equal when they name the same day, so the type can be
// used directly as a map key.
type DayKey struct {
	Year  int
	Month time.Month
	Day   int
}

// DayOf returns the calendar day t falls on in loc. A nil loc means UTC.
func DayOf(t time.Time, loc *time.Location) DayKey {
	if loc == nil {
		loc = time.UTC
	}
	y, m, d := t.In(loc).Date()
	return DayKey{Year: y, Month: m, Day: d}
}

// NewDayKey normalizes overflowing values the same way time.Date does,
// so NewDayKey(2024, 1, 32) is 2024-02-01.
func NewDayKey(year int, month time.Month, day int) DayKey {
	return fromAnchor(time.Date(year, month, day, 0, 0, 0, 0, time.UTC))
}

var dateLayouts = []struct {
	layout string
	zoned  bool
}{
	{time.RFC3339, true},
	{"2006-01-02T15:04:05", false},
	{"2006-01-02 15:04:05", false},
	{DateFormat, false},
}

// ParseDay resolves a raw date value to the calendar day it denotes in loc.
// Values carrying an offset are converted into loc first; values without one
// are read as wall-clock time in loc.
func ParseDay(raw string, loc *time.Location) (DayKey, error) {
	if loc == nil {
		loc = time.UTC
	}
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return DayKey{}, fmt.Errorf("empty date")
	}

	for _, l := range dateLayouts {
		if l.zoned {
			if t, err := time.Parse(l.layout, raw); err == nil {
				return DayOf(t, loc), nil
			}
			continue
		}
		if t, err := time.ParseInLocation(l.layout, raw, loc); err == nil {
			return DayOf(t, loc), nil
		}
	}

	return DayKey{}, fmt.Errorf("unrecognized date %q", raw)
}

// anchor is the day at midnight UTC. All arithmetic goes through it, which
// keeps day math free of DST transitions.
func (k DayKey) anchor() time.Time {
	return time.Date(k.Year, k.Month, k.Day, 0, 0, 0, 0, time.UTC)
}

func fromAnchor(t time.Time) DayKey {
	y, m, d := t.Date()
	return DayKey{Year: y, Month: m, Day: d}
}

// In returns midnight of the day in loc.
func (k DayKey) In(loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	return time.Date(k.Year, k.Month, k.Day, 0, 0, 0, 0, loc)
}

func (k DayKey) AddDays(n int) DayKey {
	return fromAnchor(k.anchor().AddDate(0, 0, n))
}

func (k DayKey) Weekday() time.Weekday {
	return k.anchor().Weekday()
}

// DaysInMonth is the length of the month k belongs to.
func (k DayKey) DaysInMonth() int {
	return time.Date(k.Year, k.Month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// DaysInYear is 366 for leap years and 365 otherwise.
func (k DayKey) DaysInYear() int {
	return time.Date(k.Year, time.December, 31, 0, 0, 0, 0, time.UTC).YearDay()
}

// ordinal counts days since the Unix epoch.
func (k DayKey) ordinal() int64 {
	return k.anchor().Unix() / 86400
}

// DaysUntil is the signed number of days from k to other.
func (k DayKey) DaysUntil(other DayKey) int {
	return int(other.ordinal() - k.ordinal())
}

func (k DayKey) Compare(other DayKey) int {
	switch {
	case k.Year != other.Year:
		return cmpInt(k.Year, other.Year)
	case k.Month != other.Month:
		return cmpInt(int(k.Month), int(other.Month))
	default:
		return cmpInt(k.Day, other.Day)
	}
}

func (k DayKey) Before(other DayKey) bool { return k.Compare(other) < 0 }
func (k DayKey) After(other DayKey) bool  { return k.Compare(other) > 0 }

func (k DayKey) SameMonth(other DayKey) bool {
	return k.Year == other.Year && k.Month == other.Month
}

func (k DayKey) IsZero() bool {
	return k == DayKey{}
}

func (k DayKey) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", k.Year, int(k.Month), k.Day)
}

func (k DayKey) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *DayKey) UnmarshalText(b []byte) error {
	t, err := time.Parse(DateFormat, string(b))
	if err != nil {
		return fmt.Errorf("invalid day %q: %w", string(b), err)
	}
	*k = fromAnchor(t)
	return nil
}

func cmpInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
