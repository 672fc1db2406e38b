package alerts

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"debatekeeper/internal/format"
)

func newObservedAlerter(silent bool) (*LogAlerter, *observer.ObservedLogs) {
	core, logs := observer.New(zap.InfoLevel)
	return NewLogAlerter(zap.New(core), silent), logs
}

func TestLogAlerter_Bell(t *testing.T) {
	a, logs := newObservedAlerter(false)

	bell := format.NewBellInfo(60, 1)
	period := format.NewPeriodInfo("Protected", format.ColorStay)
	a.Bell(bell, period)

	entries := logs.FilterMessage("bell").All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 bell entry, got %d", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["time"] != int64(60) {
		t.Errorf("expected time=60, got %v", fields["time"])
	}
	if fields["period"] != "Protected" {
		t.Errorf("expected period=Protected, got %v", fields["period"])
	}
}

func TestLogAlerter_SilentSuppressesBells(t *testing.T) {
	a, logs := newObservedAlerter(true)

	a.Bell(format.NewBellInfo(60, 1), format.NewPeriodInfo("P", format.ColorStay))
	a.OvertimeBell(DeskBell, OvertimeTimesToPlay)

	if n := logs.Len(); n != 0 {
		t.Errorf("expected no entries in silent mode, got %d", n)
	}

	a.SetSilentMode(false)
	a.OvertimeBell(DeskBell, OvertimeTimesToPlay)
	if logs.FilterMessage("overtime bell").Len() != 1 {
		t.Error("expected overtime bell entry after disabling silent mode")
	}
}

func TestLogAlerter_ActiveInactiveAlwaysLogged(t *testing.T) {
	a, logs := newObservedAlerter(true)

	a.BecomeActive(format.NewPeriodInfo("Opening", format.ColorStay))
	a.BecomeInactive()

	if logs.FilterMessage("timer active").Len() != 1 {
		t.Error("expected timer active entry")
	}
	if logs.FilterMessage("timer inactive").Len() != 1 {
		t.Error("expected timer inactive entry")
	}
}
