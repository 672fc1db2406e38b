package parse

import (
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"debatekeeper/internal/format"
)

func parseString(t *testing.T, doc string) (*format.DebateFormat, *Parser, error) {
	t.Helper()
	p := NewParser(nil)
	df, err := p.Parse(strings.NewReader(doc))
	return df, p, err
}

func TestParse_FullDocument(t *testing.T) {
	f, err := os.Open("testdata/australs.xml")
	require.NoError(t, err)
	defer f.Close()

	p := NewParser(nil)
	df, err := p.Parse(f)
	require.NoError(t, err)
	assert.Empty(t, p.Errors(), "a well-formed document produces no errors")

	assert.Equal(t, "Australs", df.Name())
	assert.Equal(t, 8, df.SpeechCount())
	assert.Equal(t, "1st Affirmative", df.Speech(0).Name)
	assert.Equal(t, "Affirmative Leader's Reply", df.Speech(7).Name)

	sub := df.Speech(0).Format
	assert.Equal(t, int64(480), sub.Length())
	assert.Equal(t, "Initial", sub.FirstPeriodInfo().Description())

	var times []int64
	for _, bi := range sub.Bells() {
		times = append(times, bi.Time())
	}
	if diff := cmp.Diff([]int64{60, 420, 480}, times); diff != "" {
		t.Errorf("substantive bell times mismatch (-want +got):\n%s", diff)
	}

	finish := sub.BellAtTime(480)
	require.NotNil(t, finish)
	assert.True(t, finish.PauseOnBell())
	assert.Equal(t, 2, finish.SoundInfo().TimesToPlay)
	require.NotNil(t, finish.NextPeriodInfo())
	assert.Equal(t, "Overtime", finish.NextPeriodInfo().Description())
	assert.Equal(t, int64(0x77ff0000), finish.NextPeriodInfo().BackgroundColor())

	reply := df.Speech(7).Format
	assert.Equal(t, int64(240), reply.Length())
	assert.Equal(t, format.CountDown, reply.CountDirection())
	silent := reply.BellAtTime(240)
	require.NotNil(t, silent)
	assert.Equal(t, format.SoundSilent, silent.SoundInfo().Sound)
}

func TestParse_FinishBellResolvesToSpeechLength(t *testing.T) {
	doc := `<debateformat name="Test">
	  <speechtype ref="s" length="5:00">
	    <bell time="finish"/>
	  </speechtype>
	  <speeches><speech name="Only" type="s"/></speeches>
	</debateformat>`

	df, p, err := parseString(t, doc)
	require.NoError(t, err)
	assert.Empty(t, p.Errors())

	sf := df.Speech(0).Format
	require.NotNil(t, sf.BellAtTime(300), "finish bell should land at time 300")
}

func TestParse_ResourceInsideSpeechFormatResetsContext(t *testing.T) {
	doc := `<debateformat name="Test">
	  <speechtype ref="s" length="60">
	    <resource ref="#bad"/>
	  </speechtype>
	  <resource ref="#good">
	    <period ref="p" desc="P"/>
	  </resource>
	  <speechtype ref="s2" length="120">
	    <include resource="#good"/>
	  </speechtype>
	  <speeches><speech name="Only" type="s2"/></speeches>
	</debateformat>`

	df, p, err := parseString(t, doc)
	require.NoError(t, err)

	require.NotEmpty(t, p.Errors())
	assert.Contains(t, p.Errors()[0], "#bad")

	// The sibling resource after the reset parsed against a clean
	// context, and the later speech format could include it.
	sf := df.Speech(0).Format
	_, ok := sf.Period("p")
	assert.True(t, ok, "resource after fail-forward reset should have been registered")
}

func TestParse_NoSpeechesFailsWithDocumentName(t *testing.T) {
	doc := `<debateformat name="Empty Format">
	  <speechtype ref="s" length="60"/>
	</debateformat>`

	_, _, err := parseString(t, doc)
	var nve *DebateFormatNotValidError
	require.True(t, errors.As(err, &nve), "expected DebateFormatNotValidError, got %v", err)
	assert.Equal(t, "Empty Format", nve.FormatName)
}

func TestParse_MalformedLengthSkipsSpeechFormat(t *testing.T) {
	doc := `<debateformat name="Test">
	  <speechtype ref="bad" length="abc"/>
	  <speechtype ref="good" length="90"/>
	  <speeches>
	    <speech name="A" type="good"/>
	    <speech name="B" type="bad"/>
	  </speeches>
	</debateformat>`

	df, p, err := parseString(t, doc)
	require.NoError(t, err)

	// The bad speech format and the speech referencing it were both
	// skipped; parsing continued regardless.
	assert.Equal(t, 1, df.SpeechCount())
	assert.Equal(t, "A", df.Speech(0).Name)
	assert.Len(t, p.Errors(), 2)
}

func TestParse_InvalidColorLogsAndKeepsPeriod(t *testing.T) {
	doc := `<debateformat name="Test">
	  <speechtype ref="s" length="60">
	    <period ref="p" desc="P" bgcolor="nothex"/>
	  </speechtype>
	  <speeches><speech name="Only" type="s"/></speeches>
	</debateformat>`

	df, p, err := parseString(t, doc)
	require.NoError(t, err)
	require.Len(t, p.Errors(), 1)
	assert.Contains(t, p.Errors()[0], "nothex")

	pi, ok := df.Speech(0).Format.Period("p")
	require.True(t, ok, "period with a bad colour is kept, colour unset")
	assert.Equal(t, format.ColorStay, pi.BackgroundColor())
	assert.Equal(t, "P", pi.Description())
}

func TestParse_ElementsOutsideRootIgnored(t *testing.T) {
	doc := `<speechtype ref="s" length="60"/>`

	_, p, err := parseString(t, doc)
	var nve *DebateFormatNotValidError
	require.True(t, errors.As(err, &nve))
	require.NotEmpty(t, p.Errors())
	assert.Contains(t, p.Errors()[0], "outside the root")
}

func TestParse_UnknownReferenceLogged(t *testing.T) {
	doc := `<debateformat name="Test">
	  <speechtype ref="s" length="60">
	    <bell time="30" nextperiod="never-defined"/>
	  </speechtype>
	  <speeches><speech name="Only" type="s"/></speeches>
	</debateformat>`

	df, p, err := parseString(t, doc)
	require.NoError(t, err)
	require.Len(t, p.Errors(), 1)
	assert.Contains(t, p.Errors()[0], "never-defined")
	assert.Nil(t, df.Speech(0).Format.BellAtTime(30), "bell with a bad reference is skipped")
}

func TestParse_StaySentinels(t *testing.T) {
	doc := `<debateformat name="Test">
	  <speechtype ref="s" length="60">
	    <period ref="p" desc="#stay" bgcolor="#stay"/>
	    <bell time="30" nextperiod="#stay" sound="#default" pauseonbell="false"/>
	  </speechtype>
	  <speeches><speech name="Only" type="s"/></speeches>
	</debateformat>`

	df, p, err := parseString(t, doc)
	require.NoError(t, err)
	assert.Empty(t, p.Errors())

	pi, _ := df.Speech(0).Format.Period("p")
	assert.Equal(t, "", pi.Description())
	assert.Equal(t, format.ColorStay, pi.BackgroundColor())

	bi := df.Speech(0).Format.BellAtTime(30)
	require.NotNil(t, bi)
	assert.Nil(t, bi.NextPeriodInfo())
	assert.Equal(t, format.SoundDefault, bi.SoundInfo().Sound)
	assert.False(t, bi.PauseOnBell())
}

func TestParseTimeStr(t *testing.T) {
	tests := []struct {
		in      string
		want    int64
		wantErr bool
	}{
		{"5:00", 300, false},
		{"0:45", 45, false},
		{"90", 90, false},
		{"1:5", 65, false},
		{"1:00:30", 3630, false},
		{"1:2:3:4", 0, true},
		{"abc", 0, true},
		{"1:xy", 0, true},
		{"", 0, true},
	}
	for _, tc := range tests {
		got, err := ParseTimeStr(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Errorf("ParseTimeStr(%q) expected error, got %d", tc.in, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseTimeStr(%q) failed: %v", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("ParseTimeStr(%q) = %d, want %d", tc.in, got, tc.want)
		}
	}
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		in      string
		want    int64
		wantErr bool
	}{
		{"#77ffcc00", 0x77ffcc00, false},
		{"#ffcc00", 0xffcc00, false},
		{"77ffcc00", 0, true},
		{"#xyz", 0, true},
		{"#fff", 0, true},
	}
	for _, tc := range tests {
		got, err := ParseColor(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Errorf("ParseColor(%q) expected error, got %#x", tc.in, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseColor(%q) failed: %v", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("ParseColor(%q) = %#x, want %#x", tc.in, got, tc.want)
		}
	}
}

func TestParse_CustomNames(t *testing.T) {
	names := DefaultNames()
	names.ElemRoot = "debattformat"
	names.AttrRootName = "namn"

	doc := `<debattformat namn="Svenska">
	  <speechtype ref="s" length="60"/>
	  <speeches><speech name="Enda" type="s"/></speeches>
	</debattformat>`

	p := NewParser(names)
	df, err := p.Parse(strings.NewReader(doc))
	require.NoError(t, err)
	assert.Equal(t, "Svenska", df.Name())
}
