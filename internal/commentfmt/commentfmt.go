// © 2025 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

// Package commentfmt rewrites javadoc-style doc comments according to
// formatting conventions, leaving everything outside them untouched.
package commentfmt

import (
	"fmt"
	"math"
	"regexp"
	"strings"

	"go.astrophena.name/ccfmt/internal/docstring"
)

// doxygenKeys are the doxygen commands whose prefix is normalized.
var doxygenKeys = []string{
	"author",
	"brief",
	"copydoc",
	"copyright",
	"file",
	"param",
	"return",
	"throws",
	"tparam",
	"warning",
}

// Options configure Format.
type Options struct {
	// Style selects the comment style. The only supported style is
	// "javadoc"; empty means javadoc.
	Style string
	// Doxygen is the prefix doxygen commands are normalized to: "@" or
	// `\`. Empty leaves doxygen commands alone.
	Doxygen string
}

// A tagRule rewrites one doxygen command to the wanted prefix.
type tagRule struct {
	re   *regexp.Regexp
	repl string
}

// tagRules returns the rewrite rules normalizing doxygen commands to prefix.
func tagRules(prefix string) []tagRule {
	var rules []tagRule
	for _, sym := range []string{`\`, "@"} {
		if sym == prefix {
			continue
		}
		for _, key := range doxygenKeys {
			rules = append(rules, tagRule{
				re:   regexp.MustCompile(`^(\s*)(\*\s*)` + regexp.QuoteMeta(sym) + key + `(.*)$`),
				repl: "${1}${2}" + prefix + key + "${3}",
			})
		}
	}
	return rules
}

// Format rewrites all doc comments in text to the javadoc convention:
//
//	/**
//	 * This is a docstring.
//	 *
//	 * @param a This is a parameter.
//	 */
//
// The comment's indentation is taken from its opening line. Doxygen
// commands are normalized to o.Doxygen, if set.
func Format(text string, o Options) (string, error) {
	if o.Style != "" && o.Style != "javadoc" {
		return "", fmt.Errorf("unknown style %q", o.Style)
	}
	var rules []tagRule
	switch o.Doxygen {
	case "":
	case "@", `\`:
		rules = tagRules(o.Doxygen)
	default:
		return "", fmt.Errorf("unknown doxygen prefix %q", o.Doxygen)
	}

	doc, err := docstring.Parse(text, docstring.DocComments())
	if err != nil {
		return "", err
	}
	for i, block := range doc.Blocks() {
		doc.Replace(i, formatBlock(block, rules))
	}
	return doc.String(), nil
}

func formatBlock(block string, rules []tagRule) string {
	lines := strings.Split(block, "\n")
	if len(lines) < 2 {
		return block
	}

	indent := strings.Repeat(" ", max(0, strings.Index(lines[0], "/**")))
	lines[len(lines)-1] = indent + " */"

	for i := 1; i < len(lines)-1; i++ {
		line := lines[i]
		ind := leadingWhitespace(line)
		rest := line[len(ind):]

		switch {
		case rest == "":
			line = indent + " *"
		case !strings.HasPrefix(rest, "*") || strings.HasPrefix(rest, "**"):
			// A line without the decoration keeps its indentation
			// relative to the comment.
			line = indent + " * " + strings.Repeat(" ", max(0, len(ind)-len(indent))) + rest
		default:
			line = indent + " *" + rest[1:]
		}

		for _, r := range rules {
			line = r.re.ReplaceAllString(line, r.repl)
		}
		lines[i] = line
	}

	return strings.Join(lines, "\n")
}

// codeLineRe matches a decorated comment line whose content is indented by
// at least two spaces, i.e. code inside a doc comment.
var codeLineRe = regexp.MustCompile(`^(\s*)\*(\s\s+)(.*)$`)

// AlignCodeBlocks pads indented code inside doc comments so that its
// indentation is a multiple of tabsize. A tabsize of zero means autodetect:
// the mean indentation of the doc comments themselves, or 4 if every doc
// comment starts at the first column.
func AlignCodeBlocks(text string, tabsize int) (string, error) {
	doc, err := docstring.Parse(text, docstring.DocComments())
	if err != nil {
		return "", err
	}

	blocks := doc.Blocks()
	if tabsize <= 0 {
		tabsize = detectTabsize(blocks)
	}

	for i, block := range blocks {
		lines := strings.Split(block, "\n")
		for j := 1; j < len(lines)-1; j++ {
			m := codeLineRe.FindStringSubmatch(lines[j])
			if m == nil {
				continue
			}
			ind, space, rest := m[1], m[2], m[3]
			if ex := (len(ind) + 1 + len(space)) % tabsize; ex != 0 {
				lines[j] = ind + "*" + space + strings.Repeat(" ", tabsize-ex) + rest
			}
		}
		doc.Replace(i, strings.Join(lines, "\n"))
	}
	return doc.String(), nil
}

// detectTabsize guesses the file's tab size from the indentation of its doc
// comments.
func detectTabsize(blocks []string) int {
	var sum, n int
	for _, block := range blocks {
		if i := strings.Index(block, "/**"); i > 0 {
			sum += i
			n++
		}
	}
	if n == 0 {
		return 4
	}
	return int(math.Round(float64(sum) / float64(n)))
}

func leadingWhitespace(s string) string {
	return s[:len(s)-len(strings.TrimLeft(s, " \t"))]
}
