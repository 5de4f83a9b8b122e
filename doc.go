// Package stylefmt provides a line-oriented whitespace formatter for C-like
// source code. It normalizes spacing around operators, after commas, before
// parentheses and around braces while leaving string and character literals,
// comments and preprocessor directives untouched.
//
// The formatter does not parse the input. Every line is rewritten on its own:
//   - Blank lines are kept as they are.
//   - Lines starting with "//", "#" or "/*" are kept as they are.
//   - Quoted literals are swapped for placeholders before any rule runs and
//     put back afterwards, so their contents never change.
//   - Leading indentation is kept and the rest of the line is rewritten
//     according to the selected Mode.
//
// Because lines are judged independently, the inner lines of a multi-line
// /* ... */ comment that do not start with one of the markers above are
// rewritten like code.
//
// Three modes are supported:
//   - Standard: spaces around operators, after commas and semicolons, around
//     braces and, when SpaceBeforeParens is set, before parentheses that
//     follow a word.
//   - Concise: no whitespace around operators, punctuation and brackets.
//   - Custom: operator, comma and parenthesis spacing toggled independently.
//
// Basic usage:
//
//	// Using default configuration
//	formatted := stylefmt.Format(sourceCode)
//
//	// Using custom configuration
//	config := &stylefmt.Config{
//		Mode:            stylefmt.Custom,
//		SpaceAfterComma: true,
//	}
//	formatter := stylefmt.New(config)
//	formatted := formatter.Format(sourceCode)
//
// Formatting never fails. Malformed input such as an unterminated literal or
// unbalanced braces is rewritten on a best-effort basis and the output always
// has the same number of lines as the input.
package stylefmt
