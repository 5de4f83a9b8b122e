package stylefmt

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

// Mode selects the whitespace policy applied to each line.
type Mode uint8

const (
	// Standard puts whitespace around operators and braces, and before an
	// opening parenthesis when SpaceBeforeParens is set. This converts:
	//   if(x<=y&&y>=x){
	//   int x=1,y=2;
	// into:
	//   if (x <= y && y >= x) {
	//   int x = 1, y = 2;
	Standard Mode = iota

	// Concise removes whitespace around operators, punctuation and brackets.
	// This converts:
	//   x = 1 ;
	//   if (a > b) { return a ; }
	// into:
	//   x=1;
	//   if(a>b){return a;}
	Concise

	// Custom applies operator, comma and parenthesis spacing according to the
	// SpaceAroundOperators, SpaceAfterComma and SpaceBeforeParens toggles.
	// With SpaceAroundOperators off, whitespace around punctuation and
	// brackets is removed as in Concise before the other toggles apply.
	Custom
)

// ErrUnknownMode is returned by ParseMode for names it does not recognize.
var ErrUnknownMode = errors.New("unknown mode")

var modeNames = [...]string{
	Standard: "standard",
	Concise:  "concise",
	Custom:   "custom",
}

// String returns the lower-case name of the mode.
func (m Mode) String() string {
	if int(m) < len(modeNames) {
		return modeNames[m]
	}
	return fmt.Sprintf("Mode(%d)", m)
}

// ParseMode returns the mode with the given name.
func ParseMode(s string) (Mode, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for m, n := range modeNames {
		if n == name {
			return Mode(m), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownMode, s)
}

// valid reports whether m is one of the defined modes.
func (m Mode) valid() bool { return int(m) < len(modeNames) }

// Config holds the style settings for the formatter.
// A Config is only read by the formatter and may be shared between goroutines.
type Config struct {
	// Mode selects the whitespace policy. The zero value is Standard.
	// An undefined mode leaves the input unchanged.
	Mode Mode

	// SpaceAroundOperators puts one space on each side of operators in Custom
	// mode. When false, whitespace around operators, commas, semicolons,
	// parentheses and braces is removed before the other toggles apply.
	SpaceAroundOperators bool

	// SpaceAfterComma puts one space after each comma in Custom mode. When
	// false, whitespace after commas is removed.
	SpaceAfterComma bool

	// SpaceBeforeParens puts a space between a word and a following opening
	// parenthesis in Standard and Custom mode. When false, Standard leaves
	// that spot alone and Custom removes whitespace before opening
	// parentheses.
	SpaceBeforeParens bool

	// PreserveIndent and IndentWidth record the caller's indentation policy.
	// The formatter always keeps each line's existing indentation and does
	// not act on these fields.
	PreserveIndent bool
	IndentWidth    int
}

// DefaultConfig provides the default configuration for the formatter: the
// Standard mode with every Custom toggle enabled and an indent width of 4.
var DefaultConfig = &Config{
	Mode:                 Standard,
	SpaceAroundOperators: true,
	SpaceAfterComma:      true,
	SpaceBeforeParens:    true,
	PreserveIndent:       true,
	IndentWidth:          4,
}

// Format is a convenience function that formats src using the default
// configuration. This is equivalent to calling:
//
//	New(DefaultConfig).Format(src)
func Format(src string) string {
	return New(DefaultConfig).Format(src)
}

// Formatter rewrites source text according to a Config.
type Formatter struct {
	config *Config
	rules  pipeline
}

// New creates a new formatter instance with the given configuration.
// If config is nil, DefaultConfig will be used instead.
// The returned formatter can be reused for multiple Format calls and is safe
// for concurrent use.
func New(config *Config) *Formatter {
	if config == nil {
		config = DefaultConfig
	}

	f := &Formatter{config: config}

	switch config.Mode {
	case Standard:
		f.rules = insertOperatorSpacing(config)
	case Concise:
		f.rules = removeOperatorSpacing
	case Custom:
		f.rules = customRewrite(config)
	}

	return f
}

// Format rewrites every line of src and returns the result.
//
// The output has exactly as many lines as src and each line keeps its own
// line break ("\n" or "\r\n"). Blank lines, comment lines and directive
// lines are returned as they are. If the configured mode is not defined, src
// is returned unchanged.
func (f *Formatter) Format(src string) string {
	if !f.config.Mode.valid() || src == "" {
		return src
	}

	lines := strings.Split(src, "\n")
	for i, line := range lines {
		if body, ok := strings.CutSuffix(line, "\r"); ok {
			lines[i] = f.formatLine(body) + "\r"
			continue
		}
		lines[i] = f.formatLine(line)
	}

	return strings.Join(lines, "\n")
}

// formatLine rewrites a single line without its line break.
func (f *Formatter) formatLine(line string) string {
	content := strings.TrimLeftFunc(line, unicode.IsSpace)
	if content == "" {
		return line
	}

	if isCommentOrDirective(content) {
		return line
	}

	indent := line[:len(line)-len(content)]

	shielded, lits := protect(content)
	shielded = collapseSpace(f.rules.run(shielded))

	return indent + lits.restore(shielded)
}
