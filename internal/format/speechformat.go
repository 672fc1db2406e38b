package format

import "sort"

// CountDirection is the display counting direction for a speech.  It is
// purely semantic: stored time always counts up from zero.
type CountDirection int

const (
	// CountUser lets the user choose the direction.
	CountUser CountDirection = iota
	// CountUp counts up from zero.
	CountUp
	// CountDown counts down to zero.
	CountDown
)

func (d CountDirection) String() string {
	switch d {
	case CountUp:
		return "up"
	case CountDown:
		return "down"
	default:
		return "user"
	}
}

// SpeechFormat is a compiled, validated timing template for a single
// speech: a fixed length, an ordered set of bells, a set of named
// periods, and a designated first period.
type SpeechFormat struct {
	ref         string
	length      int64
	countDir    CountDirection
	bells       []*BellInfo
	periods     map[string]*PeriodInfo
	firstPeriod *PeriodInfo
}

// NewSpeechFormat builds an empty speech format with the given
// reference and length in seconds.
func NewSpeechFormat(ref string, length int64) *SpeechFormat {
	return &SpeechFormat{
		ref:         ref,
		length:      length,
		periods:     make(map[string]*PeriodInfo),
		firstPeriod: newEmptyPeriodInfo(),
	}
}

// Ref returns the format's reference string.
func (sf *SpeechFormat) Ref() string { return sf.ref }

// Length returns the speech length in seconds.
func (sf *SpeechFormat) Length() int64 { return sf.length }

// CountDirection returns the display counting direction.
func (sf *SpeechFormat) CountDirection() CountDirection { return sf.countDir }

// SetCountDirection sets the display counting direction.
func (sf *SpeechFormat) SetCountDirection(d CountDirection) { sf.countDir = d }

// AddBell inserts a bell, keeping the bell list ordered by time.
func (sf *SpeechFormat) AddBell(bi *BellInfo) {
	sf.bells = append(sf.bells, bi)
	sort.SliceStable(sf.bells, func(i, j int) bool {
		return sf.bells[i].Time() < sf.bells[j].Time()
	})
}

// AddPeriod registers a period under the given reference.  Returns
// false if the reference is already taken.
func (sf *SpeechFormat) AddPeriod(ref string, pi *PeriodInfo) bool {
	if _, exists := sf.periods[ref]; exists {
		return false
	}
	sf.periods[ref] = pi
	return true
}

// Period looks up a period by reference.
func (sf *SpeechFormat) Period(ref string) (*PeriodInfo, bool) {
	pi, ok := sf.periods[ref]
	return pi, ok
}

// SetFirstPeriod designates the period displayed at time zero.
func (sf *SpeechFormat) SetFirstPeriod(pi *PeriodInfo) { sf.firstPeriod = pi }

// FirstPeriodInfo returns the period displayed at time zero.
func (sf *SpeechFormat) FirstPeriodInfo() *PeriodInfo { return sf.firstPeriod }

// Bells returns the format's bells ordered by time.
func (sf *SpeechFormat) Bells() []*BellInfo { return sf.bells }

// BellAtTime returns the bell scheduled at exactly the given time, or
// nil if there is none.
func (sf *SpeechFormat) BellAtTime(seconds int64) *BellInfo {
	for _, bi := range sf.bells {
		if bi.Time() == seconds {
			return bi
		}
	}
	return nil
}

// FirstBellFromTime returns the earliest bell at or after the given
// time, or nil if no scheduled bell remains.
func (sf *SpeechFormat) FirstBellFromTime(seconds int64) *BellInfo {
	for _, bi := range sf.bells {
		if bi.Time() >= seconds {
			return bi
		}
	}
	return nil
}

// PeriodInfoForTime computes the period that would be displayed at the
// given time: the first period with every bell-driven period change up
// to and including that time applied.  The result is a detached copy.
func (sf *SpeechFormat) PeriodInfoForTime(seconds int64) *PeriodInfo {
	period := sf.firstPeriod.Copy()
	for _, bi := range sf.bells {
		if bi.Time() > seconds {
			break
		}
		period.Update(bi.NextPeriodInfo())
	}
	return period
}
