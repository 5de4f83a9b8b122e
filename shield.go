package stylefmt

import (
	"strconv"
	"strings"
)

// placeholderMarker starts every placeholder. A NUL byte does not occur in
// source text, so a placeholder can never collide with real code.
const placeholderMarker = "\x00__STR_"

// literals maps placeholders to the literal spans they replaced.
type literals map[string]string

// protect replaces every quoted literal in content with a placeholder.
// Double-quoted spans become "\x00__STR_D<n>__" and single-quoted spans
// "\x00__STR_S<n>__", with n counting up from zero. A backslash escapes the
// byte after it. A literal without a closing quote runs to the end of content.
func protect(content string) (string, literals) {
	if strings.IndexAny(content, `"'`) < 0 {
		return content, nil
	}

	var (
		b    strings.Builder
		lits = literals{}
		n    int
	)
	b.Grow(len(content))

	for i := 0; i < len(content); {
		quote := content[i]
		if quote != '"' && quote != '\'' {
			b.WriteByte(quote)
			i++
			continue
		}

		end := literalEnd(content, i)

		kind := "D"
		if quote == '\'' {
			kind = "S"
		}
		key := placeholderMarker + kind + strconv.Itoa(n) + "__"
		n++

		lits[key] = content[i:end]
		b.WriteString(key)
		i = end
	}

	return b.String(), lits
}

// literalEnd returns the index just past the literal opening at start.
func literalEnd(content string, start int) int {
	quote := content[start]
	for i := start + 1; i < len(content); i++ {
		switch content[i] {
		case '\\':
			i++
		case quote:
			return i + 1
		}
	}
	return len(content)
}

// restore puts the original literals back in place of their placeholders.
// Placeholders that are not in the map are left as they are.
func (l literals) restore(content string) string {
	if len(l) == 0 {
		return content
	}

	var b strings.Builder
	b.Grow(len(content))

	for {
		i := strings.Index(content, placeholderMarker)
		if i < 0 {
			b.WriteString(content)
			return b.String()
		}

		b.WriteString(content[:i])
		content = content[i:]

		end := strings.Index(content[len(placeholderMarker):], "__")
		if end < 0 {
			b.WriteString(content)
			return b.String()
		}
		end += len(placeholderMarker) + len("__")

		if orig, ok := l[content[:end]]; ok {
			b.WriteString(orig)
		} else {
			b.WriteString(content[:end])
		}
		content = content[end:]
	}
}

// isCommentOrDirective reports whether content is a comment or preprocessor
// line, i.e. starts with "//", "#" or "/*" after leading whitespace.
func isCommentOrDirective(content string) bool {
	content = strings.TrimLeft(content, " \t\v\f\r")
	return strings.HasPrefix(content, "//") ||
		strings.HasPrefix(content, "#") ||
		strings.HasPrefix(content, "/*")
}
