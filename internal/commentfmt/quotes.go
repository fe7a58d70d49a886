// © 2025 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

package commentfmt

import (
	"regexp"
	"strings"

	"go.astrophena.name/ccfmt/internal/brackets"
	"go.astrophena.name/ccfmt/internal/docstring"
)

// ChangeQuotes changes the quotes used to quote text in all doc comments,
// for example:
//
//	"This is ``a`` variable."  ->  "This is `a` variable."
//
// Quotes escaped with a backslash are left alone. Text outside doc comments
// is not touched.
func ChangeQuotes(text, search, replace string) (string, error) {
	re, err := regexp.Compile(
		"(" + regexp.QuoteMeta(search) + ")" +
			"([^" + classEscape(search) + "]*)" +
			"(" + regexp.QuoteMeta(search) + ")")
	if err != nil {
		return "", err
	}

	doc, err := docstring.Parse(text, docstring.DocComments())
	if err != nil {
		return "", err
	}

	for i, block := range doc.Blocks() {
		doc.Replace(i, changeQuotes(block, re, replace))
	}
	return doc.String(), nil
}

func changeQuotes(block string, re *regexp.Regexp, replace string) string {
	var sb strings.Builder
	last := 0
	for _, m := range re.FindAllStringSubmatchIndex(block, -1) {
		if brackets.Escaped(block, m[0]) {
			continue
		}
		sb.WriteString(block[last:m[0]])
		sb.WriteString(replace)
		sb.WriteString(block[m[4]:m[5]]) // quoted text
		sb.WriteString(replace)
		last = m[1]
	}
	sb.WriteString(block[last:])
	return sb.String()
}

// classEscape escapes s for use inside a character class.
func classEscape(s string) string {
	var sb strings.Builder
	for _, r := range s {
		switch r {
		case '\\', ']', '^', '-':
			sb.WriteRune('\\')
		}
		sb.WriteRune(r)
	}
	return sb.String()
}
