// Package timer implements the speech timing engine.  Exactly one
// SpeechTimer should exist per active debate; it is reloaded, not
// recreated, when switching speeches.  The timer keeps elapsed time at
// one-second resolution, sets off scheduled bells, computes overtime
// bells analytically, and reports period information when asked.
package timer

import (
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"debatekeeper/internal/alerts"
	"debatekeeper/internal/format"
	"debatekeeper/internal/store"
)

// ErrTimerRunning is returned by Load while the timer is running.
// Loading mid-run is a caller contract violation, not a data error.
var ErrTimerRunning = errors.New("cannot load a speech while the timer is running")

// NoBellTime is the sentinel returned by NextBellTime when no bell
// remains.
const NoBellTime int64 = -1

// DefaultTickInterval is the real-time cadence of the timer.
const DefaultTickInterval = time.Second

const (
	bundleSuffixTime       = ".t"
	bundleSuffixState      = ".s"
	bundleSuffixPeriodInfo = ".cpi"
)

// State is the timer's run state.
type State int

const (
	NotStarted State = iota
	Running
	StoppedByUser
	StoppedByBell
)

// String returns the state's persisted name.
func (s State) String() string {
	switch s {
	case Running:
		return "RUNNING"
	case StoppedByUser:
		return "STOPPED_BY_USER"
	case StoppedByBell:
		return "STOPPED_BY_BELL"
	default:
		return "NOT_STARTED"
	}
}

func parseState(s string) (State, bool) {
	switch s {
	case "NOT_STARTED":
		return NotStarted, true
	case "RUNNING":
		return Running, true
	case "STOPPED_BY_USER":
		return StoppedByUser, true
	case "STOPPED_BY_BELL":
		return StoppedByBell, true
	}
	return NotStarted, false
}

// Snapshot is a point-in-time view of the timer for display layers.
type Snapshot struct {
	State             State
	CurrentTime       int64
	SpeechLength      int64
	CountDirection    format.CountDirection
	PeriodDescription string
	PeriodColor       int64
	NextBellTime      int64
}

// SpeechTimer drives one speech's clock.  Start/Stop/Reset/Load are
// expected from a single control goroutine; the tick goroutine is the
// only other mutator and is cancelled synchronously.
type SpeechTimer struct {
	alerter  alerts.Alerter
	log      *zap.Logger
	interval time.Duration

	mu                 sync.Mutex
	speechFormat       *format.SpeechFormat
	currentPeriod      *format.PeriodInfo
	state              State
	currentTime        int64
	firstOvertimeBell  int64
	overtimeBellPeriod int64
	stopCh             chan struct{}
	doneCh             chan struct{}
}

// NewSpeechTimer builds a stopped timer with no speech loaded and the
// default overtime bells (first at 30 seconds past length, then every
// 20 seconds).
func NewSpeechTimer(alerter alerts.Alerter, log *zap.Logger) *SpeechTimer {
	if log == nil {
		log = zap.NewNop()
	}
	return &SpeechTimer{
		alerter:            alerter,
		log:                log,
		interval:           DefaultTickInterval,
		firstOvertimeBell:  30,
		overtimeBellPeriod: 20,
	}
}

// SetTickInterval overrides the tick cadence.  Only meaningful before
// Start; tests use it to run the clock fast.
func (t *SpeechTimer) SetTickInterval(d time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.interval = d
}

// SetOvertimeBells configures the overtime bell schedule: the first
// bell fires firstBell seconds after the speech length (0 disables
// overtime), then one every period seconds (0 leaves at most one).
func (t *SpeechTimer) SetOvertimeBells(firstBell, period int64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.firstOvertimeBell = firstBell
	t.overtimeBellPeriod = period
}

// Load loads a speech format at the given elapsed time.  It fails with
// ErrTimerRunning while the timer is running, leaving state untouched.
// At time zero the displayed period is the format's first period and
// the state is NotStarted; at any later time the period is resolved
// for that time and the state is StoppedByUser.
func (t *SpeechTimer) Load(sf *format.SpeechFormat, seconds int64) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.state == Running {
		return ErrTimerRunning
	}

	t.speechFormat = sf
	t.currentTime = seconds
	if seconds == 0 {
		t.currentPeriod = sf.FirstPeriodInfo().Copy()
		t.state = NotStarted
	} else {
		t.currentPeriod = sf.PeriodInfoForTime(seconds)
		t.state = StoppedByUser
	}
	return nil
}

// Start begins the periodic tick.  It is a no-op if no speech format is
// loaded or the timer is already running.
func (t *SpeechTimer) Start() {
	t.mu.Lock()
	if t.speechFormat == nil || t.state == Running {
		t.mu.Unlock()
		return
	}
	stopCh := make(chan struct{})
	doneCh := make(chan struct{})
	t.stopCh = stopCh
	t.doneCh = doneCh
	t.state = Running
	period := t.currentPeriod
	t.mu.Unlock()

	go t.run(stopCh, doneCh)
	t.alerter.BecomeActive(period)
}

// Stop cancels the tick, moves to StoppedByUser, and tells the alerter
// no timer is active.  No tick fires after Stop returns.
func (t *SpeechTimer) Stop() {
	t.cancelTick()
	t.mu.Lock()
	t.state = StoppedByUser
	t.mu.Unlock()
	t.alerter.BecomeInactive()
}

// Reset stops the timer if necessary and rewinds to the start of the
// loaded speech.
func (t *SpeechTimer) Reset() {
	t.Stop()
	t.mu.Lock()
	t.currentTime = 0
	if t.speechFormat != nil {
		t.currentPeriod = t.speechFormat.FirstPeriodInfo().Copy()
	}
	t.state = NotStarted
	t.mu.Unlock()
}

// State returns the timer's run state.
func (t *SpeechTimer) State() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// CurrentTime returns elapsed time in seconds, always counting up.
func (t *SpeechTimer) CurrentTime() int64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.currentTime
}

// CurrentPeriodInfo returns the period currently appropriate for
// display.  The timer owns this object and updates it in place on
// bells.
func (t *SpeechTimer) CurrentPeriodInfo() *format.PeriodInfo {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.currentPeriod
}

// SpeechFormat returns the loaded speech format, or nil.
func (t *SpeechTimer) SpeechFormat() *format.SpeechFormat {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.speechFormat
}

// Snapshot returns a consistent view of the timer for display.
func (t *SpeechTimer) Snapshot() Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()
	snap := Snapshot{
		State:        t.state,
		CurrentTime:  t.currentTime,
		NextBellTime: t.nextBellTimeLocked(),
	}
	if t.speechFormat != nil {
		snap.SpeechLength = t.speechFormat.Length()
		snap.CountDirection = t.speechFormat.CountDirection()
	}
	if t.currentPeriod != nil {
		snap.PeriodDescription = t.currentPeriod.Description()
		snap.PeriodColor = t.currentPeriod.BackgroundColor()
	}
	return snap
}

// NextBellTime returns the elapsed time at which a bell next sounds, or
// NoBellTime if none remains.  Scheduled bells take precedence; past
// the last scheduled bell the overtime schedule is computed
// analytically.
func (t *SpeechTimer) NextBellTime() int64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.nextBellTimeLocked()
}

func (t *SpeechTimer) nextBellTimeLocked() int64 {
	if t.speechFormat == nil {
		return NoBellTime
	}
	if nextBell := t.speechFormat.FirstBellFromTime(t.currentTime); nextBell != nil {
		return nextBell.Time()
	}

	if t.firstOvertimeBell == 0 {
		return NoBellTime
	}

	speechLength := t.speechFormat.Length()
	overtimeAmount := t.currentTime - speechLength

	if overtimeAmount < t.firstOvertimeBell {
		return speechLength + t.firstOvertimeBell
	}

	if t.overtimeBellPeriod == 0 {
		return NoBellTime
	}

	overtimeBellTime := t.firstOvertimeBell + t.overtimeBellPeriod
	for overtimeAmount > overtimeBellTime {
		overtimeBellTime += t.overtimeBellPeriod
	}
	return speechLength + overtimeBellTime
}

// SaveState writes elapsed time, state, and the displayed period to the
// bundle, namespaced under the key.
func (t *SpeechTimer) SaveState(key string, b store.Bundle) {
	t.mu.Lock()
	defer t.mu.Unlock()
	b.PutInt64(key+bundleSuffixTime, t.currentTime)
	b.PutString(key+bundleSuffixState, t.state.String())
	if t.currentPeriod != nil {
		t.currentPeriod.SaveState(key+bundleSuffixPeriodInfo, b)
	}
}

// RestoreState reads elapsed time, state, and the displayed period from
// the bundle.  Load should be called before this.  An unrecognised or
// absent state name falls back to NotStarted when the restored time is
// zero, StoppedByUser otherwise.
func (t *SpeechTimer) RestoreState(key string, b store.Bundle) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.currentTime = b.Int64(key+bundleSuffixTime, 0)

	stateName := b.String(key+bundleSuffixState, "")
	if st, ok := parseState(stateName); ok {
		t.state = st
	} else if t.currentTime == 0 {
		t.state = NotStarted
	} else {
		t.state = StoppedByUser
	}

	if t.currentPeriod == nil {
		t.currentPeriod = format.NewPeriodInfo("", format.ColorStay)
	}
	t.currentPeriod.RestoreState(key+bundleSuffixPeriodInfo, b)
}

func (t *SpeechTimer) run(stopCh, doneCh chan struct{}) {
	defer close(doneCh)
	ticker := time.NewTicker(t.tickInterval())
	defer ticker.Stop()
	for {
		select {
		case <-stopCh:
			return
		case <-ticker.C:
			if !t.tick() {
				return
			}
		}
	}
}

func (t *SpeechTimer) tickInterval() time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.interval
}

// tick advances the clock by one second, fires any scheduled bell at
// the new time, and fires an overtime bell if the overtime schedule
// says so.  Returns false when a pause-on-bell bell stopped the clock.
func (t *SpeechTimer) tick() bool {
	t.mu.Lock()
	t.currentTime++
	now := t.currentTime

	bell := t.speechFormat.BellAtTime(now)
	keepRunning := true
	if bell != nil && bell.PauseOnBell() {
		// Internal pause: the timer stops but the alerter is NOT told
		// it became inactive.  Only an explicit Stop does that.
		t.state = StoppedByBell
		t.stopCh = nil
		t.doneCh = nil
		keepRunning = false
	}
	if bell != nil {
		t.currentPeriod.Update(bell.NextPeriodInfo())
	}
	period := t.currentPeriod
	overtime := t.isOvertimeBellTimeLocked(now)
	t.mu.Unlock()

	if bell != nil {
		t.log.Debug("bell", zap.Int64("time", now))
		t.alerter.Bell(bell, period)
	}
	if overtime {
		t.log.Debug("overtime bell", zap.Int64("time", now))
		t.alerter.OvertimeBell(alerts.DeskBell, alerts.OvertimeTimesToPlay)
	}
	return keepRunning
}

func (t *SpeechTimer) isOvertimeBellTime(seconds int64) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.isOvertimeBellTimeLocked(seconds)
}

func (t *SpeechTimer) isOvertimeBellTimeLocked(seconds int64) bool {
	overtimeAmount := seconds - t.speechFormat.Length()

	if overtimeAmount < t.firstOvertimeBell {
		return false
	}

	// There is no concept of overtime if the first overtime bell is zero.
	if t.firstOvertimeBell <= 0 {
		return false
	}

	if t.firstOvertimeBell == overtimeAmount {
		return true
	}

	timeSinceFirstOvertimeBell := overtimeAmount - t.firstOvertimeBell
	if t.overtimeBellPeriod > 0 && timeSinceFirstOvertimeBell%t.overtimeBellPeriod == 0 {
		return true
	}
	return false
}

// cancelTick stops the tick goroutine and waits for it to exit.  Safe
// to call when no tick is running.
func (t *SpeechTimer) cancelTick() {
	t.mu.Lock()
	stopCh, doneCh := t.stopCh, t.doneCh
	t.stopCh = nil
	t.doneCh = nil
	t.mu.Unlock()

	if stopCh == nil {
		return
	}
	close(stopCh)
	<-doneCh
}
