package format

import (
	"testing"

	"debatekeeper/internal/store"
)

func testSpeechFormat(t *testing.T) *SpeechFormat {
	t.Helper()
	sf := NewSpeechFormat("substantive", 480)
	sf.AddPeriod("initial", NewPeriodInfo("Initial", ColorStay))
	sf.AddPeriod("pois", NewPeriodInfo("POIs allowed", 0x7700ff00))
	sf.AddPeriod("warning", NewPeriodInfo("Warning bell rung", 0x77ffcc00))
	sf.SetFirstPeriod(NewPeriodInfo("Initial", ColorStay))

	first := NewBellInfo(60, 1)
	pois, _ := sf.Period("pois")
	first.SetNextPeriodInfo(pois)
	sf.AddBell(first)

	second := NewBellInfo(420, 1)
	warning, _ := sf.Period("warning")
	second.SetNextPeriodInfo(warning)
	sf.AddBell(second)

	sf.AddBell(NewBellInfo(480, 2))
	return sf
}

func TestSpeechFormat_BellQueries(t *testing.T) {
	sf := testSpeechFormat(t)

	if bi := sf.BellAtTime(60); bi == nil || bi.Time() != 60 {
		t.Errorf("expected bell at exactly 60, got %+v", bi)
	}
	if bi := sf.BellAtTime(61); bi != nil {
		t.Errorf("expected no bell at 61, got one at %d", bi.Time())
	}

	if bi := sf.FirstBellFromTime(0); bi == nil || bi.Time() != 60 {
		t.Errorf("expected first bell from 0 at 60, got %+v", bi)
	}
	if bi := sf.FirstBellFromTime(61); bi == nil || bi.Time() != 420 {
		t.Errorf("expected first bell from 61 at 420, got %+v", bi)
	}
	if bi := sf.FirstBellFromTime(481); bi != nil {
		t.Errorf("expected no bell from 481, got one at %d", bi.Time())
	}
}

func TestSpeechFormat_BellsStayOrdered(t *testing.T) {
	sf := NewSpeechFormat("x", 300)
	sf.AddBell(NewBellInfo(200, 1))
	sf.AddBell(NewBellInfo(50, 1))
	sf.AddBell(NewBellInfo(100, 1))

	bells := sf.Bells()
	for i := 1; i < len(bells); i++ {
		if bells[i-1].Time() > bells[i].Time() {
			t.Fatalf("bells out of order: %d before %d", bells[i-1].Time(), bells[i].Time())
		}
	}
}

func TestSpeechFormat_PeriodInfoForTime(t *testing.T) {
	sf := testSpeechFormat(t)

	tests := []struct {
		seconds  int64
		wantDesc string
	}{
		{0, "Initial"},
		{59, "Initial"},
		{60, "POIs allowed"},
		{419, "POIs allowed"},
		{420, "Warning bell rung"},
		{500, "Warning bell rung"},
	}
	for _, tc := range tests {
		pi := sf.PeriodInfoForTime(tc.seconds)
		if pi.Description() != tc.wantDesc {
			t.Errorf("PeriodInfoForTime(%d) = %q, want %q", tc.seconds, pi.Description(), tc.wantDesc)
		}
	}
}

func TestSpeechFormat_PeriodInfoForTimeReturnsDetachedCopy(t *testing.T) {
	sf := testSpeechFormat(t)

	pi := sf.PeriodInfoForTime(0)
	pi.Update(NewPeriodInfo("Mutated", 0x11111111))

	if sf.FirstPeriodInfo().Description() == "Mutated" {
		t.Error("mutating the returned period leaked into the compiled format")
	}
}

func TestPeriodInfo_UpdateStaySemantics(t *testing.T) {
	pi := NewPeriodInfo("Initial", 0x77ffcc00)

	// An all-unset period leaves everything unchanged.
	pi.Update(NewPeriodInfo("", ColorStay))
	if pi.Description() != "Initial" || pi.BackgroundColor() != 0x77ffcc00 {
		t.Errorf("stay update changed the period: %q %#x", pi.Description(), pi.BackgroundColor())
	}

	// Partial updates only adopt the set fields.
	pi.Update(NewPeriodInfo("Overtime", ColorStay))
	if pi.Description() != "Overtime" {
		t.Errorf("expected description Overtime, got %q", pi.Description())
	}
	if pi.BackgroundColor() != 0x77ffcc00 {
		t.Errorf("expected colour unchanged, got %#x", pi.BackgroundColor())
	}
}

func TestPeriodInfo_SaveRestoreState(t *testing.T) {
	b := store.NewMemoryBundle()
	pi := NewPeriodInfo("Warning bell rung", 0x77ffcc00)
	pi.SaveState("dm.cpi", b)

	restored := newEmptyPeriodInfo()
	restored.RestoreState("dm.cpi", b)
	if restored.Description() != "Warning bell rung" {
		t.Errorf("expected restored description, got %q", restored.Description())
	}
	if restored.BackgroundColor() != 0x77ffcc00 {
		t.Errorf("expected restored colour, got %#x", restored.BackgroundColor())
	}
}

func TestPeriodInfo_RestoreStateToleratesAbsence(t *testing.T) {
	b := store.NewMemoryBundle()
	pi := NewPeriodInfo("Initial", 0x12345678)
	pi.RestoreState("never-saved", b)

	if pi.Description() != "Initial" || pi.BackgroundColor() != 0x12345678 {
		t.Errorf("restore from empty bundle changed the period: %q %#x", pi.Description(), pi.BackgroundColor())
	}
}
