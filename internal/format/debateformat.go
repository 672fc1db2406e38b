package format

// Speech pairs a display name with the speech format that times it.
type Speech struct {
	Name   string
	Format *SpeechFormat
}

// DebateFormat is a named, ordered sequence of speeches.  A valid
// debate format always contains at least one speech; the builder
// refuses to produce an empty one.
type DebateFormat struct {
	name     string
	speeches []Speech
}

// Name returns the debate format's display name.
func (df *DebateFormat) Name() string { return df.name }

// SpeechCount returns the number of speeches.
func (df *DebateFormat) SpeechCount() int { return len(df.speeches) }

// Speeches returns the speeches in debate order.
func (df *DebateFormat) Speeches() []Speech { return df.speeches }

// Speech returns the speech at the given index.
func (df *DebateFormat) Speech(i int) Speech { return df.speeches[i] }
