package format

// FormatBuilder assembles a DebateFormat piece by piece, validating
// references as it goes.  Every mutating operation can fail with a
// *BuilderError naming the violated constraint; a failed call leaves
// the builder unchanged.
type FormatBuilder struct {
	name          string
	resources     map[string]*Resource
	speechFormats map[string]*SpeechFormat
	atFinishBells map[string][]*BellInfo
	speeches      []Speech
}

// NewFormatBuilder returns an empty builder.
func NewFormatBuilder() *FormatBuilder {
	return &FormatBuilder{
		resources:     make(map[string]*Resource),
		speechFormats: make(map[string]*SpeechFormat),
		atFinishBells: make(map[string][]*BellInfo),
	}
}

// SetDebateFormatName records the document's display name.
func (fb *FormatBuilder) SetDebateFormatName(name string) {
	fb.name = name
}

// DebateFormatName returns the name collected so far.
func (fb *FormatBuilder) DebateFormatName() string {
	return fb.name
}

// AddResource registers a new empty resource.
func (fb *FormatBuilder) AddResource(ref string) error {
	if _, exists := fb.resources[ref]; exists {
		return builderErrorf("a resource with reference %q already exists", ref)
	}
	fb.resources[ref] = NewResource(ref)
	return nil
}

// AddSpeechFormat registers a new empty speech format of the given
// length in seconds.
func (fb *FormatBuilder) AddSpeechFormat(ref string, length int64) error {
	if _, exists := fb.speechFormats[ref]; exists {
		return builderErrorf("a speech format with reference %q already exists", ref)
	}
	fb.speechFormats[ref] = NewSpeechFormat(ref, length)
	return nil
}

// SetCountDirection sets the display counting direction of a speech
// format.
func (fb *FormatBuilder) SetCountDirection(speechRef string, dir CountDirection) error {
	sf, err := fb.speechFormat(speechRef)
	if err != nil {
		return err
	}
	sf.SetCountDirection(dir)
	return nil
}

// SetFirstPeriod designates which period a speech format starts in.
// Callers invoke this once all of the format's periods are known (the
// parser does so when the speech-format element closes), so the
// reference is resolved immediately: a bad reference is rejected here
// and the format keeps its default first period.
func (fb *FormatBuilder) SetFirstPeriod(speechRef, periodRef string) error {
	sf, err := fb.speechFormat(speechRef)
	if err != nil {
		return err
	}
	pi, ok := sf.Period(periodRef)
	if !ok {
		return builderErrorf("first period %q in speech format %q does not exist", periodRef, speechRef)
	}
	sf.SetFirstPeriod(pi)
	return nil
}

// AddPeriodToResource registers a period on a resource.
func (fb *FormatBuilder) AddPeriodToResource(resourceRef, periodRef string, pi *PeriodInfo) error {
	res, err := fb.resource(resourceRef)
	if err != nil {
		return err
	}
	if !res.AddPeriod(periodRef, pi) {
		return builderErrorf("period %q already exists in resource %q", periodRef, resourceRef)
	}
	return nil
}

// AddPeriodToSpeechFormat registers a period on a speech format.
func (fb *FormatBuilder) AddPeriodToSpeechFormat(speechRef, periodRef string, pi *PeriodInfo) error {
	sf, err := fb.speechFormat(speechRef)
	if err != nil {
		return err
	}
	if !sf.AddPeriod(periodRef, pi) {
		return builderErrorf("period %q already exists in speech format %q", periodRef, speechRef)
	}
	return nil
}

// AddBellToResource attaches a bell to a resource.  nextPeriodRef, if
// non-empty, must name a period already registered on that resource.
func (fb *FormatBuilder) AddBellToResource(resourceRef string, bi *BellInfo, nextPeriodRef string) error {
	res, err := fb.resource(resourceRef)
	if err != nil {
		return err
	}
	if nextPeriodRef != "" {
		pi, ok := res.Period(nextPeriodRef)
		if !ok {
			return builderErrorf("period %q in resource %q does not exist", nextPeriodRef, resourceRef)
		}
		bi.SetNextPeriodInfo(pi)
	}
	res.AddBell(bi)
	return nil
}

// AddBellToSpeechFormat attaches a bell to a speech format.
// nextPeriodRef, if non-empty, must name a period already registered on
// that format (directly or via an included resource).
func (fb *FormatBuilder) AddBellToSpeechFormat(speechRef string, bi *BellInfo, nextPeriodRef string) error {
	sf, err := fb.speechFormat(speechRef)
	if err != nil {
		return err
	}
	if nextPeriodRef != "" {
		pi, ok := sf.Period(nextPeriodRef)
		if !ok {
			return builderErrorf("period %q in speech format %q does not exist", nextPeriodRef, speechRef)
		}
		bi.SetNextPeriodInfo(pi)
	}
	sf.AddBell(bi)
	return nil
}

// AddBellAtFinish attaches a bell whose time is the speech format's
// length.  The time is rewritten at Build.
func (fb *FormatBuilder) AddBellAtFinish(speechRef string, bi *BellInfo, nextPeriodRef string) error {
	sf, err := fb.speechFormat(speechRef)
	if err != nil {
		return err
	}
	if nextPeriodRef != "" {
		pi, ok := sf.Period(nextPeriodRef)
		if !ok {
			return builderErrorf("period %q in speech format %q does not exist", nextPeriodRef, speechRef)
		}
		bi.SetNextPeriodInfo(pi)
	}
	fb.atFinishBells[speechRef] = append(fb.atFinishBells[speechRef], bi)
	return nil
}

// IncludeResource copies a resource's bells and periods into a speech
// format.  Including the same resource twice adds its bells twice;
// periods whose references the format already carries are left as they
// are.  Later includes never remove earlier material.
func (fb *FormatBuilder) IncludeResource(speechRef, resourceRef string) error {
	sf, err := fb.speechFormat(speechRef)
	if err != nil {
		return err
	}
	res, err := fb.resource(resourceRef)
	if err != nil {
		return err
	}
	for ref, pi := range res.Periods() {
		sf.AddPeriod(ref, pi)
	}
	for _, bi := range res.Bells() {
		sf.AddBell(bi)
	}
	return nil
}

// AddSpeech appends a speech to the debate under the given display
// name, timed by the named speech format.
func (fb *FormatBuilder) AddSpeech(name, speechRef string) error {
	sf, err := fb.speechFormat(speechRef)
	if err != nil {
		return err
	}
	fb.speeches = append(fb.speeches, Speech{Name: name, Format: sf})
	return nil
}

// Build rewrites deferred at-finish bell times and returns the
// finished DebateFormat.  It fails with ErrNoSpeeches if no speeches
// were added.
func (fb *FormatBuilder) Build() (*DebateFormat, error) {
	for speechRef, bells := range fb.atFinishBells {
		sf := fb.speechFormats[speechRef]
		for _, bi := range bells {
			bi.setTime(sf.Length())
			sf.AddBell(bi)
		}
	}

	if len(fb.speeches) == 0 {
		return nil, ErrNoSpeeches
	}

	return &DebateFormat{name: fb.name, speeches: fb.speeches}, nil
}

func (fb *FormatBuilder) resource(ref string) (*Resource, error) {
	res, ok := fb.resources[ref]
	if !ok {
		return nil, builderErrorf("resource %q does not exist", ref)
	}
	return res, nil
}

func (fb *FormatBuilder) speechFormat(ref string) (*SpeechFormat, error) {
	sf, ok := fb.speechFormats[ref]
	if !ok {
		return nil, builderErrorf("speech format %q does not exist", ref)
	}
	return sf, nil
}
