// Package format holds the compiled debate-format object model and the
// validating builder that produces it.  A DebateFormat is built once,
// then treated as read-only by the timing engine; the single exception
// is PeriodInfo.Update, which the engine uses to evolve its own copy of
// the currently displayed period.
package format

import "debatekeeper/internal/store"

// ColorStay marks a background colour as "no change"/unset.
const ColorStay int64 = -1

const (
	bundleSuffixDesc    = ".d"
	bundleSuffixBgColor = ".bgc"
)

// PeriodInfo is a named display state: a human-readable description and
// a background colour, either of which may be unset ("stay" semantics,
// meaning no visible change when this period takes effect).
type PeriodInfo struct {
	description     string
	backgroundColor int64
}

// NewPeriodInfo builds a PeriodInfo.  An empty description or a
// bgcolor of ColorStay means "leave unchanged".
func NewPeriodInfo(description string, bgcolor int64) *PeriodInfo {
	return &PeriodInfo{description: description, backgroundColor: bgcolor}
}

func newEmptyPeriodInfo() *PeriodInfo {
	return &PeriodInfo{backgroundColor: ColorStay}
}

// Description returns the human-readable description, or "" if unset.
func (p *PeriodInfo) Description() string { return p.description }

// BackgroundColor returns the ARGB colour value, or ColorStay if unset.
func (p *PeriodInfo) BackgroundColor() int64 { return p.backgroundColor }

// Update adopts the other period's set fields in place, preserving this
// object's identity for any observer holding a reference to it.  Unset
// fields on other leave the current values untouched.
func (p *PeriodInfo) Update(other *PeriodInfo) {
	if other == nil {
		return
	}
	if other.description != "" {
		p.description = other.description
	}
	if other.backgroundColor != ColorStay {
		p.backgroundColor = other.backgroundColor
	}
}

// Copy returns a detached copy.  The timing engine displays a copy so
// that bell-driven updates never mutate the compiled format's periods.
func (p *PeriodInfo) Copy() *PeriodInfo {
	return &PeriodInfo{description: p.description, backgroundColor: p.backgroundColor}
}

// SaveState writes this period's fields to the bundle under the key.
func (p *PeriodInfo) SaveState(key string, b store.Bundle) {
	b.PutString(key+bundleSuffixDesc, p.description)
	b.PutInt64(key+bundleSuffixBgColor, p.backgroundColor)
}

// RestoreState reads this period's fields from the bundle.  Absent
// fields leave the current values in place.
func (p *PeriodInfo) RestoreState(key string, b store.Bundle) {
	p.description = b.String(key+bundleSuffixDesc, p.description)
	p.backgroundColor = b.Int64(key+bundleSuffixBgColor, p.backgroundColor)
}
