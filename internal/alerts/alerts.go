// Package alerts defines the contract between the timing engine and
// whatever turns bells into something the user can hear or see.  The
// engine calls these methods; implementations decide what a bell means
// on their platform.
package alerts

import (
	"go.uber.org/zap"

	"debatekeeper/internal/format"
)

// Well-known sound selectors beyond format.SoundDefault/SoundSilent.
const (
	// DeskBell is the fixed sound used for overtime bells.
	DeskBell int64 = 1
)

// OvertimeTimesToPlay is how many times an overtime bell rings.
const OvertimeTimesToPlay = 3

// Alerter receives timing events from a running speech timer.
type Alerter interface {
	// BecomeActive tells the alerter that this timer is now the active
	// one, displaying the given period.
	BecomeActive(period *format.PeriodInfo)
	// BecomeInactive tells the alerter that no timer is active.
	BecomeInactive()
	// Bell reports a scheduled bell firing, along with the period
	// displayed after any bell-driven period change.
	Bell(bell *format.BellInfo, period *format.PeriodInfo)
	// OvertimeBell reports an analytically computed overtime bell.
	OvertimeBell(sound int64, timesToPlay int)
}

// LogAlerter is the console-facing Alerter: it reports events through a
// structured logger.  Silent mode suppresses bell lines but not the
// active/inactive transitions.
type LogAlerter struct {
	log    *zap.Logger
	silent bool
}

// NewLogAlerter builds a LogAlerter on the given logger.
func NewLogAlerter(log *zap.Logger, silent bool) *LogAlerter {
	return &LogAlerter{log: log, silent: silent}
}

// SetSilentMode toggles suppression of bell output.
func (a *LogAlerter) SetSilentMode(silent bool) { a.silent = silent }

func (a *LogAlerter) BecomeActive(period *format.PeriodInfo) {
	a.log.Info("timer active", zap.String("period", period.Description()))
}

func (a *LogAlerter) BecomeInactive() {
	a.log.Info("timer inactive")
}

func (a *LogAlerter) Bell(bell *format.BellInfo, period *format.PeriodInfo) {
	if a.silent && bell.SoundInfo().Sound != format.SoundSilent {
		return
	}
	a.log.Info("bell",
		zap.Int64("time", bell.Time()),
		zap.Int("times_to_play", bell.SoundInfo().TimesToPlay),
		zap.Bool("pause", bell.PauseOnBell()),
		zap.String("period", period.Description()))
}

func (a *LogAlerter) OvertimeBell(sound int64, timesToPlay int) {
	if a.silent {
		return
	}
	a.log.Info("overtime bell",
		zap.Int64("sound", sound),
		zap.Int("times_to_play", timesToPlay))
}
