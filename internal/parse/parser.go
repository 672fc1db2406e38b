// Package parse reads debate-format markup documents and drives the
// format compiler.  The reader is streaming and fail-forward: errors
// are accumulated into an ordered log and the offending element's
// effect is skipped, so one malformed element never takes down the
// rest of the document.
package parse

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"debatekeeper/internal/format"
	"debatekeeper/internal/logging"
)

// DebateFormatNotValidError reports a document that parsed but
// produced no speeches.  It carries the document name collected before
// the failure.
type DebateFormatNotValidError struct {
	FormatName string
}

func (e *DebateFormatNotValidError) Error() string {
	return fmt.Sprintf("debate format %q is not valid: there are no speeches in this format", e.FormatName)
}

// context identifies the second-level element currently open.
type context int

const (
	ctxNone context = iota
	ctxResource
	ctxSpeechFormat
	ctxSpeechesList
)

func (c context) String() string {
	switch c {
	case ctxResource:
		return "resource"
	case ctxSpeechFormat:
		return "speech format"
	case ctxSpeechesList:
		return "speeches list"
	default:
		return "none"
	}
}

// Parser reads one debate-format document.  Parsers are single-use:
// create a new one per document.
type Parser struct {
	names   *Names
	builder *format.FormatBuilder
	errs    []string

	// Scratch state while walking the document.  The context resets to
	// ctxNone whenever a second-level element opens illegally, so
	// sibling elements after an error parse against a clean slate.
	ctx             context
	inRoot          bool
	resourceRef     string
	speechFormatRef string
	firstPeriodRef  string
}

// NewParser builds a parser using the given name table (nil for
// DefaultNames).
func NewParser(names *Names) *Parser {
	if names == nil {
		names = DefaultNames()
	}
	return &Parser{
		names:   names,
		builder: format.NewFormatBuilder(),
	}
}

// Errors returns the accumulated error log in document order.
func (p *Parser) Errors() []string {
	return p.errs
}

// Parse consumes the document and returns the compiled DebateFormat.
// Recoverable problems are logged (see Errors) rather than returned; a
// document that yields zero speeches fails with
// *DebateFormatNotValidError.
func (p *Parser) Parse(r io.Reader) (*format.DebateFormat, error) {
	dec := xml.NewDecoder(r)
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read document: %w", err)
		}
		switch el := tok.(type) {
		case xml.StartElement:
			p.startElement(el)
		case xml.EndElement:
			p.endElement(el)
		}
	}

	df, err := p.builder.Build()
	if errors.Is(err, format.ErrNoSpeeches) {
		return nil, &DebateFormatNotValidError{FormatName: p.builder.DebateFormatName()}
	}
	if err != nil {
		return nil, err
	}
	return df, nil
}

func (p *Parser) startElement(el xml.StartElement) {
	if !p.inNamespace(el.Name) {
		p.logError("element %q in unexpected namespace %q ignored", el.Name.Local, el.Name.Space)
		return
	}
	local := el.Name.Local
	n := p.names

	if local == n.ElemRoot {
		name, ok := p.attr(el, n.AttrRootName)
		if !ok {
			p.logError("root element has no name")
			return
		}
		p.builder.SetDebateFormatName(name)
		p.inRoot = true
		return
	}

	// Everything else must be inside the root element.
	if !p.inRoot {
		p.logError("element %q outside the root element ignored", local)
		return
	}

	switch local {
	case n.ElemResource:
		p.startResource(el)
	case n.ElemSpeechFormat:
		p.startSpeechFormat(el)
	case n.ElemBell:
		p.startBell(el)
	case n.ElemPeriod:
		p.startPeriod(el)
	case n.ElemInclude:
		p.startInclude(el)
	case n.ElemSpeechesList:
		if prev := p.ctx; prev != ctxNone {
			p.resetContext()
			p.logError("speeches list inside %s ignored", prev)
			return
		}
		p.ctx = ctxSpeechesList
	case n.ElemSpeech:
		p.startSpeech(el)
	default:
		p.logError("unknown element %q ignored", local)
	}
}

func (p *Parser) endElement(el xml.EndElement) {
	if !p.inNamespace(el.Name) {
		return
	}
	n := p.names

	switch el.Name.Local {
	case n.ElemRoot:
		p.inRoot = false
	case n.ElemResource:
		p.ctx = ctxNone
		p.resourceRef = ""
	case n.ElemSpeechFormat:
		// The first period element physically appears inside the
		// speech-format element, so its reference is committed only
		// now, when every period is known.
		if p.speechFormatRef != "" && p.firstPeriodRef != "" {
			if err := p.builder.SetFirstPeriod(p.speechFormatRef, p.firstPeriodRef); err != nil {
				p.logError("%s", err)
			}
		}
		p.ctx = ctxNone
		p.speechFormatRef = ""
		p.firstPeriodRef = ""
	case n.ElemSpeechesList:
		p.ctx = ctxNone
	}
}

func (p *Parser) startResource(el xml.StartElement) {
	ref, ok := p.attr(el, p.names.AttrCommonRef)
	if !ok {
		p.logError("resource has no reference")
		return
	}
	if prev := p.ctx; prev != ctxNone {
		p.resetContext()
		p.logError("resource %q inside %s ignored", ref, prev)
		return
	}
	if err := p.builder.AddResource(ref); err != nil {
		p.logError("%s", err)
		return
	}
	// Only after success: sub-elements of a failed resource must be
	// ignored, so the scratch reference stays empty on error.
	p.ctx = ctxResource
	p.resourceRef = ref
}

func (p *Parser) startSpeechFormat(el xml.StartElement) {
	n := p.names
	ref, ok := p.attr(el, n.AttrCommonRef)
	if !ok {
		p.logError("speech format has no reference")
		return
	}
	if prev := p.ctx; prev != ctxNone {
		p.resetContext()
		p.logError("speech format %q inside %s ignored", ref, prev)
		return
	}

	lengthStr, ok := p.attr(el, n.AttrLength)
	if !ok {
		p.logError("speech format %q has no length", ref)
		return
	}
	length, err := ParseTimeStr(lengthStr)
	if err != nil {
		p.logError("speech format %q has invalid length %q", ref, lengthStr)
		return
	}

	if err := p.builder.AddSpeechFormat(ref, length); err != nil {
		p.logError("%s", err)
		return
	}
	p.ctx = ctxSpeechFormat
	p.speechFormatRef = ref

	if countdir, ok := p.attr(el, n.AttrCountDir); ok {
		var dir format.CountDirection
		known := true
		switch {
		case strings.EqualFold(countdir, n.ValueCountUp):
			dir = format.CountUp
		case strings.EqualFold(countdir, n.ValueCountDn):
			dir = format.CountDown
		case strings.EqualFold(countdir, n.ValueCountUsr):
			dir = format.CountUser
		default:
			known = false
		}
		if known {
			if err := p.builder.SetCountDirection(ref, dir); err != nil {
				p.logError("%s", err)
			}
		}
	}

	// Stash the first period for the element's close.
	p.firstPeriodRef, _ = p.attr(el, n.AttrFirstPeriod)
}

func (p *Parser) startBell(el xml.StartElement) {
	n := p.names

	timeStr, ok := p.attr(el, n.AttrBellTime)
	if !ok {
		p.logError("bell in %s has no time", p.currentScope())
		return
	}
	var seconds int64
	atFinish := false
	if strings.EqualFold(timeStr, n.ValueFinish) {
		atFinish = true // time rewritten by the builder at Build
	} else {
		var err error
		seconds, err = ParseTimeStr(timeStr)
		if err != nil {
			p.logError("bell in %s has invalid time %q", p.currentScope(), timeStr)
			return
		}
	}

	timesToPlay := 1
	if numberStr, ok := p.attr(el, n.AttrBellNumber); ok {
		num, err := strconv.Atoi(numberStr)
		if err != nil {
			p.logError("bell in %s has invalid number %q", p.currentScope(), numberStr)
		} else {
			timesToPlay = num
		}
	}

	nextPeriodRef, _ := p.attr(el, n.AttrBellNextPeriod)
	if strings.EqualFold(nextPeriodRef, n.ValueStay) {
		nextPeriodRef = ""
	}

	bi := format.NewBellInfo(seconds, timesToPlay)

	if sound, ok := p.attr(el, n.AttrBellSound); ok {
		switch {
		case strings.EqualFold(sound, n.ValueStay):
		case strings.EqualFold(sound, n.ValueDefault):
		case strings.EqualFold(sound, n.ValueSilent):
			bi.SetSound(format.SoundSilent)
		default:
			p.logError("bell in %s has invalid sound %q", p.currentScope(), sound)
		}
	}

	if pause, ok := p.attr(el, n.AttrBellPauseOnBell); ok {
		switch {
		case strings.EqualFold(pause, n.ValueTrue):
			bi.SetPauseOnBell(true)
		case strings.EqualFold(pause, n.ValueFalse):
			bi.SetPauseOnBell(false)
		default:
			p.logError("bell in %s has invalid pauseonbell %q", p.currentScope(), pause)
		}
	}

	var err error
	switch p.ctx {
	case ctxResource:
		if p.resourceRef != "" {
			err = p.builder.AddBellToResource(p.resourceRef, bi, nextPeriodRef)
		}
	case ctxSpeechFormat:
		if p.speechFormatRef != "" {
			if atFinish {
				err = p.builder.AddBellAtFinish(p.speechFormatRef, bi, nextPeriodRef)
			} else {
				err = p.builder.AddBellToSpeechFormat(p.speechFormatRef, bi, nextPeriodRef)
			}
		}
	default:
		p.logError("bell outside any resource or speech format ignored")
	}
	if err != nil {
		p.logError("%s", err)
	}
}

func (p *Parser) startPeriod(el xml.StartElement) {
	n := p.names

	ref, ok := p.attr(el, n.AttrCommonRef)
	if !ok {
		p.logError("period in %s has no reference", p.currentScope())
		return
	}

	description, _ := p.attr(el, n.AttrPeriodDesc)
	if strings.EqualFold(description, n.ValueStay) {
		description = ""
	}

	bgcolor := format.ColorStay
	if colorStr, ok := p.attr(el, n.AttrPeriodBgColor); ok && !strings.EqualFold(colorStr, n.ValueStay) {
		c, err := ParseColor(colorStr)
		if err != nil {
			p.logError("period %q has invalid color %q", ref, colorStr)
		} else {
			bgcolor = c
		}
	}

	pi := format.NewPeriodInfo(description, bgcolor)

	var err error
	switch p.ctx {
	case ctxResource:
		if p.resourceRef != "" {
			err = p.builder.AddPeriodToResource(p.resourceRef, ref, pi)
		}
	case ctxSpeechFormat:
		if p.speechFormatRef != "" {
			err = p.builder.AddPeriodToSpeechFormat(p.speechFormatRef, ref, pi)
		}
	default:
		p.logError("period %q outside any resource or speech format ignored", ref)
	}
	if err != nil {
		p.logError("%s", err)
	}
}

func (p *Parser) startInclude(el xml.StartElement) {
	resourceRef, ok := p.attr(el, p.names.AttrIncludeResource)
	if !ok {
		p.logError("include in %s has no resource", p.currentScope())
		return
	}
	if p.ctx != ctxSpeechFormat {
		p.logError("include of %q outside a speech format ignored", resourceRef)
		return
	}
	if p.speechFormatRef == "" {
		return
	}
	if err := p.builder.IncludeResource(p.speechFormatRef, resourceRef); err != nil {
		p.logError("%s", err)
	}
}

func (p *Parser) startSpeech(el xml.StartElement) {
	n := p.names

	name, ok := p.attr(el, n.AttrSpeechName)
	if !ok {
		p.logError("speech has no name")
		return
	}
	formatRef, ok := p.attr(el, n.AttrSpeechFormatType)
	if !ok {
		p.logError("speech %q has no format", name)
		return
	}
	if p.ctx != ctxSpeechesList {
		p.logError("speech %q outside the speeches list ignored", name)
		return
	}
	if err := p.builder.AddSpeech(name, formatRef); err != nil {
		p.logError("%s", err)
	}
}

// resetContext clears the second-level context and every scratch
// reference, so following sibling elements parse cleanly.
func (p *Parser) resetContext() {
	p.ctx = ctxNone
	p.resourceRef = ""
	p.speechFormatRef = ""
	p.firstPeriodRef = ""
}

func (p *Parser) currentScope() string {
	if p.resourceRef != "" {
		return fmt.Sprintf("resource %q", p.resourceRef)
	}
	if p.speechFormatRef != "" {
		return fmt.Sprintf("speech format %q", p.speechFormatRef)
	}
	return "unknown context"
}

func (p *Parser) inNamespace(name xml.Name) bool {
	return p.names.URI == "" || name.Space == p.names.URI
}

func (p *Parser) attr(el xml.StartElement, name string) (string, bool) {
	for _, a := range el.Attr {
		if a.Name.Local != name {
			continue
		}
		if a.Name.Space == "" || p.names.URI == "" || a.Name.Space == p.names.URI {
			return a.Value, true
		}
	}
	return "", false
}

func (p *Parser) logError(msg string, args ...interface{}) {
	s := fmt.Sprintf(msg, args...)
	p.errs = append(p.errs, s)
	logging.Get(logging.CategoryParse).Error("%s", s)
}

// ParseTimeStr converts "H:M:S", "M:S" or a bare "S" to total seconds.
func ParseTimeStr(s string) (int64, error) {
	parts := strings.Split(s, ":")
	if len(parts) > 3 {
		return 0, fmt.Errorf("time %q has too many components", s)
	}
	var total int64
	for _, part := range parts {
		v, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return 0, err
		}
		total = total*60 + v
	}
	return total, nil
}

// ParseColor converts a "#RRGGBB" or "#AARRGGBB" hex string to an
// integer colour value.
func ParseColor(s string) (int64, error) {
	if !strings.HasPrefix(s, "#") {
		return 0, fmt.Errorf("color %q does not start with #", s)
	}
	digits := s[1:]
	if len(digits) != 6 && len(digits) != 8 {
		return 0, fmt.Errorf("color %q has wrong length", s)
	}
	v, err := strconv.ParseUint(digits, 16, 32)
	if err != nil {
		return 0, err
	}
	return int64(v), nil
}
