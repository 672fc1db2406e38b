package format

// Bell sound selectors.  SoundDefault means "whatever the alert layer
// considers the default bell"; SoundSilent suppresses sound entirely.
const (
	SoundDefault int64 = -1
	SoundSilent  int64 = 0
)

// BellSoundInfo describes how a bell should sound: which sound to play
// and how many times to play it.
type BellSoundInfo struct {
	Sound       int64
	TimesToPlay int
}

// BellInfo is a scheduled acoustic event at a given offset in seconds
// from the start of its owning resource or speech format.
type BellInfo struct {
	time        int64
	sound       BellSoundInfo
	nextPeriod  *PeriodInfo
	pauseOnBell bool
}

// NewBellInfo builds a bell at the given offset that rings timesToPlay
// times with the default sound.
func NewBellInfo(seconds int64, timesToPlay int) *BellInfo {
	return &BellInfo{
		time:  seconds,
		sound: BellSoundInfo{Sound: SoundDefault, TimesToPlay: timesToPlay},
	}
}

// Time returns the bell's offset in seconds.
func (b *BellInfo) Time() int64 { return b.time }

// SoundInfo returns the bell's sound selector and repeat count.
func (b *BellInfo) SoundInfo() BellSoundInfo { return b.sound }

// SetSound overrides the sound selector (SoundSilent for no sound).
func (b *BellInfo) SetSound(sound int64) { b.sound.Sound = sound }

// PauseOnBell reports whether the timer should pause when this bell
// fires.
func (b *BellInfo) PauseOnBell() bool { return b.pauseOnBell }

// SetPauseOnBell sets the pause-on-bell flag.
func (b *BellInfo) SetPauseOnBell(pause bool) { b.pauseOnBell = pause }

// NextPeriodInfo returns the period that becomes active once this bell
// fires, or nil for "stay".
func (b *BellInfo) NextPeriodInfo() *PeriodInfo { return b.nextPeriod }

// SetNextPeriodInfo sets the period that becomes active on this bell.
func (b *BellInfo) SetNextPeriodInfo(pi *PeriodInfo) { b.nextPeriod = pi }

// setTime rewrites the bell's offset.  Used by the builder to resolve
// at-finish bells once the owning speech format's length is known.
func (b *BellInfo) setTime(seconds int64) { b.time = seconds }
