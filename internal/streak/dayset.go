package streak

import (
	"slices"
	"time"
)

// LogEntry is a journal record as seen by the analytics engine. Only the
// date contributes to streaks; Mood, Activities and SleepQuality are carried
// through for the calendar and mood correlations.
type LogEntry struct {
	Date time.Time
	// RawDate is consulted when Date is zero, e.g. for values decoded from
	// a client payload that were never parsed.
	RawDate      string
	Mood         string
	Activities   []string
	SleepQuality int
}

// Day resolves the entry's calendar day in loc. ok is false when the entry
// has no usable date.
func (e LogEntry) Day(loc *time.Location) (DayKey, bool) {
	if !e.Date.IsZero() {
		return DayOf(e.Date, loc), true
	}
	k, err := ParseDay(e.RawDate, loc)
	if err != nil {
		return DayKey{}, false
	}
	return k, true
}

// DaySet is the sorted, deduplicated set of days that have at least one log.
// It is immutable once built. A nil *DaySet is the empty set.
type DaySet struct {
	days  []DayKey
	index map[DayKey]struct{}
}

// NewDaySet collapses entries to distinct days. Entries whose date cannot be
// resolved are skipped.
func NewDaySet(entries []LogEntry, loc *time.Location) *DaySet {
	index := make(map[DayKey]struct{}, len(entries))
	for _, e := range entries {
		if k, ok := e.Day(loc); ok {
			index[k] = struct{}{}
		}
	}
	return fromIndex(index)
}

// DaySetOf builds a set straight from day keys.
func DaySetOf(days ...DayKey) *DaySet {
	index := make(map[DayKey]struct{}, len(days))
	for _, d := range days {
		index[d] = struct{}{}
	}
	return fromIndex(index)
}

func fromIndex(index map[DayKey]struct{}) *DaySet {
	days := make([]DayKey, 0, len(index))
	for k := range index {
		days = append(days, k)
	}
	slices.SortFunc(days, DayKey.Compare)
	return &DaySet{days: days, index: index}
}

func (s *DaySet) sorted() []DayKey {
	if s == nil {
		return nil
	}
	return s.days
}

func (s *DaySet) Contains(day DayKey) bool {
	if s == nil {
		return false
	}
	_, ok := s.index[day]
	return ok
}

func (s *DaySet) Len() int {
	return len(s.sorted())
}

// Days returns a copy of the set in ascending order.
func (s *DaySet) Days() []DayKey {
	return slices.Clone(s.sorted())
}

// CountBetween counts logged days in the inclusive range [from, to].
func (s *DaySet) CountBetween(from, to DayKey) int {
	if to.Before(from) {
		return 0
	}
	days := s.sorted()
	lo, _ := slices.BinarySearchFunc(days, from, DayKey.Compare)
	hi, found := slices.BinarySearchFunc(days, to, DayKey.Compare)
	if found {
		hi++
	}
	return hi - lo
}
