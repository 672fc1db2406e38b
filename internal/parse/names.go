package parse

// Names is the lookup table of element names, attribute names, and
// sentinel attribute values the parser recognises.  The parser never
// hard-codes these strings: collaborators can substitute localised
// tables, as the core only needs the resolved strings.
type Names struct {
	// Document namespace.  Empty matches documents with no namespace.
	URI string

	// Element names.
	ElemRoot         string
	ElemResource     string
	ElemSpeechFormat string
	ElemBell         string
	ElemPeriod       string
	ElemInclude      string
	ElemSpeechesList string
	ElemSpeech       string

	// Attribute names.
	AttrCommonRef        string
	AttrRootName         string
	AttrLength           string
	AttrFirstPeriod      string
	AttrCountDir         string
	AttrBellTime         string
	AttrBellNumber       string
	AttrBellNextPeriod   string
	AttrBellSound        string
	AttrBellPauseOnBell  string
	AttrPeriodDesc       string
	AttrPeriodBgColor    string
	AttrIncludeResource  string
	AttrSpeechName       string
	AttrSpeechFormatType string

	// Sentinel attribute values.
	ValueStay     string
	ValueDefault  string
	ValueSilent   string
	ValueFinish   string
	ValueTrue     string
	ValueFalse    string
	ValueCountUp  string
	ValueCountDn  string
	ValueCountUsr string
}

// DefaultNames returns the standard English name table used by the
// stock format files.
func DefaultNames() *Names {
	return &Names{
		URI: "",

		ElemRoot:         "debateformat",
		ElemResource:     "resource",
		ElemSpeechFormat: "speechtype",
		ElemBell:         "bell",
		ElemPeriod:       "period",
		ElemInclude:      "include",
		ElemSpeechesList: "speeches",
		ElemSpeech:       "speech",

		AttrCommonRef:        "ref",
		AttrRootName:         "name",
		AttrLength:           "length",
		AttrFirstPeriod:      "firstperiod",
		AttrCountDir:         "countdir",
		AttrBellTime:         "time",
		AttrBellNumber:       "number",
		AttrBellNextPeriod:   "nextperiod",
		AttrBellSound:        "sound",
		AttrBellPauseOnBell:  "pauseonbell",
		AttrPeriodDesc:       "desc",
		AttrPeriodBgColor:    "bgcolor",
		AttrIncludeResource:  "resource",
		AttrSpeechName:       "name",
		AttrSpeechFormatType: "type",

		ValueStay:     "#stay",
		ValueDefault:  "#default",
		ValueSilent:   "#silent",
		ValueFinish:   "finish",
		ValueTrue:     "true",
		ValueFalse:    "false",
		ValueCountUp:  "up",
		ValueCountDn:  "down",
		ValueCountUsr: "user",
	}
}
