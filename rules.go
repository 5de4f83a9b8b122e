package stylefmt

import (
	"regexp"
	"strings"
)

// compoundOperators lists multi-character operators. Longer lexemes come
// first so that "<<=" is never read as "<<" followed by "=".
var compoundOperators = []string{
	"<<=", ">>=",
	"+=", "-=", "*=", "/=", "%=", "&=", "|=", "^=",
	"==", "!=", "<=", ">=",
	"&&", "||", "<<", ">>",
	"++", "--", "->", "::",
}

// singleOperators lists the one-character operators.
const singleOperators = "=+-*/%<>!&|^~"

// operatorChars are the characters that glue operators together. A single
// operator next to one of these is part of a larger lexeme and is not spaced.
const operatorChars = "+-*/%<>&|^~=!"

var (
	reSpaceAroundPunct   = regexp.MustCompile(`\s*([=+\-*/%<>!&|^~,;])\s*`)
	reSpaceAroundBracket = regexp.MustCompile(`\s*([(){}])\s*`)
	reCommaSpace         = regexp.MustCompile(`,\s*`)
	reCommaStrip         = regexp.MustCompile(`,\s+`)
	reSemicolonSpace     = regexp.MustCompile(`;\s*`)
	reWordParen          = regexp.MustCompile(`(\w)\(`)
	reSpaceParen         = regexp.MustCompile(`\s+\(`)
	reOpenBrace          = regexp.MustCompile(`\s*\{\s*`)
	reCloseBrace         = regexp.MustCompile(`\s*\}\s*`)
)

// pass is a single text transform applied to shielded content.
type pass struct {
	name  string
	apply func(string) string
}

// pipeline is an ordered list of passes.
type pipeline []pass

// run applies every pass in order.
func (p pipeline) run(content string) string {
	for _, ps := range p {
		content = ps.apply(content)
	}
	return content
}

var (
	compoundPass  = pass{"compound-operators", spaceCompoundOperators}
	singlePass    = pass{"single-operators", spaceSingleOperators}
	commaPass     = pass{"comma-space", func(s string) string { return reCommaSpace.ReplaceAllString(s, ", ") }}
	commaStrip    = pass{"comma-strip", func(s string) string { return reCommaStrip.ReplaceAllString(s, ",") }}
	semicolonPass = pass{"semicolon-space", func(s string) string { return reSemicolonSpace.ReplaceAllString(s, "; ") }}
	parenPass     = pass{"paren-space", func(s string) string { return reWordParen.ReplaceAllString(s, "$1 (") }}
	parenStrip    = pass{"paren-strip", func(s string) string { return reSpaceParen.ReplaceAllString(s, "(") }}
	bracePass     = pass{"brace-space", spaceBraces}
	punctStrip    = pass{"punct-strip", func(s string) string { return reSpaceAroundPunct.ReplaceAllString(s, "$1") }}
	bracketStrip  = pass{"bracket-strip", func(s string) string { return reSpaceAroundBracket.ReplaceAllString(s, "$1") }}
	collapsePass  = pass{"collapse-space", collapseSpace}
)

// insertOperatorSpacing builds the standard rule set. Compound operators are
// spaced before single operators so the single pass sees them as already
// separated. The space before "(" follows config.SpaceBeforeParens.
func insertOperatorSpacing(config *Config) pipeline {
	p := pipeline{
		compoundPass,
		singlePass,
		commaPass,
		semicolonPass,
	}
	if config.SpaceBeforeParens {
		p = append(p, parenPass)
	}
	return append(p, bracePass, collapsePass)
}

// removeOperatorSpacing is the concise rule set.
var removeOperatorSpacing = pipeline{
	punctStrip,
	bracketStrip,
}

// customRewrite builds the rule set for the independent toggles in config.
// With operator spacing off, the concise rule set runs first and the comma
// and paren steps put back the spacing they ask for.
func customRewrite(config *Config) pipeline {
	p := make(pipeline, 0, 4)

	if config.SpaceAroundOperators {
		p = append(p, compoundPass, singlePass)
	} else {
		p = append(p, removeOperatorSpacing...)
	}

	if config.SpaceAfterComma {
		p = append(p, commaPass)
	} else {
		p = append(p, commaStrip)
	}

	if config.SpaceBeforeParens {
		p = append(p, parenPass)
	} else {
		p = append(p, parenStrip)
	}

	return p
}

// spaceCompoundOperators surrounds every compound operator with one space on
// each side, matching the longest lexeme at each position.
func spaceCompoundOperators(s string) string {
	var b strings.Builder
	b.Grow(len(s) + len(s)/2)

	for i := 0; i < len(s); {
		if op := compoundAt(s, i); op != "" {
			b.WriteByte(' ')
			b.WriteString(op)
			b.WriteByte(' ')
			i += len(op)
			continue
		}
		b.WriteByte(s[i])
		i++
	}

	return b.String()
}

// compoundAt returns the compound operator starting at s[i], if any.
func compoundAt(s string, i int) string {
	for _, op := range compoundOperators {
		if strings.HasPrefix(s[i:], op) {
			return op
		}
	}
	return ""
}

// spaceSingleOperators surrounds single operators with one space on each
// side unless they touch another operator character.
func spaceSingleOperators(s string) string {
	var b strings.Builder
	b.Grow(len(s) + len(s)/2)

	for i := 0; i < len(s); i++ {
		c := s[i]
		if strings.IndexByte(singleOperators, c) < 0 ||
			(i > 0 && isOperatorChar(s[i-1])) ||
			(i+1 < len(s) && isOperatorChar(s[i+1])) {
			b.WriteByte(c)
			continue
		}
		b.WriteByte(' ')
		b.WriteByte(c)
		b.WriteByte(' ')
	}

	return b.String()
}

func isOperatorChar(c byte) bool {
	return strings.IndexByte(operatorChars, c) >= 0
}

// spaceBraces leaves exactly one space on each side of every brace.
func spaceBraces(s string) string {
	s = reOpenBrace.ReplaceAllString(s, " { ")
	return reCloseBrace.ReplaceAllString(s, " } ")
}

// collapseSpace turns whitespace runs into a single space and trims both ends.
func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
