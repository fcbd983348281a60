package peek

import (
	"regexp"
	"strings"
)

// callExpression recovers the argument text of a call to name from the
// caller's source line: "peek.Log(a, b.C)" yields "Log(a, b.C)". The
// argument list ends at the matching close paren, so an enclosing call's
// parens are left out. When the line does not contain the call it is
// returned verbatim.
func callExpression(name, source string) string {
	if source == "" {
		return name + "(<no source>)"
	}
	re, err := regexp.Compile(`\b` + regexp.QuoteMeta(name) + `\(`)
	if err != nil {
		return source
	}
	loc := re.FindStringIndex(source)
	if loc == nil {
		return strings.TrimSpace(source)
	}
	args := source[loc[1]:]
	if end, ok := closingParen(args); ok {
		args = args[:end]
	}
	return name + "(" + strings.TrimSpace(args) + ")"
}

// closingParen returns the index of the paren closing an already opened
// call in s. Parens inside string and rune literals are ignored. ok is
// false when the call continues past the end of s.
func closingParen(s string) (int, bool) {
	depth := 0
	var quote byte
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case quote != 0:
			if c == '\\' && quote != '`' {
				i++
			} else if c == quote {
				quote = 0
			}
		case c == '"' || c == '\'' || c == '`':
			quote = c
		case c == '(':
			depth++
		case c == ')':
			if depth == 0 {
				return i, true
			}
			depth--
		}
	}
	return 0, false
}
