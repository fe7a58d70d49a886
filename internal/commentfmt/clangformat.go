// © 2025 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

package commentfmt

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"regexp"
	"strings"

	"go.astrophena.name/ccfmt/internal/docstring"
)

// A CodeFormatter reformats a source code snippet.
type CodeFormatter func(src string) (string, error)

// ClangFormat returns a CodeFormatter that pipes the snippet through the
// clang-format binary. An empty style uses clang-format's default.
func ClangFormat(ctx context.Context, style string) CodeFormatter {
	return func(src string) (string, error) {
		var args []string
		if style != "" {
			args = append(args, "--style="+style)
		}
		cmd := exec.CommandContext(ctx, "clang-format", args...)
		cmd.Stdin = strings.NewReader(src)
		var stdout, stderr bytes.Buffer
		cmd.Stdout = &stdout
		cmd.Stderr = &stderr
		if err := cmd.Run(); err != nil {
			return "", fmt.Errorf("clang-format: %v: %s", err, stderr.String())
		}
		return stdout.String(), nil
	}
}

var (
	codeStartRe = regexp.MustCompile(`^(\s*\*\s*)[@\\]code\b`)
	codeEndRe   = regexp.MustCompile(`^\s*\*\s*[@\\]endcode\b`)
	stripRe     = regexp.MustCompile(`^\s*\* ?(.*)$`)
)

// FormatCode reformats the snippets between @code and @endcode markers
// inside doc comments with f. The comment decoration of the @code line is
// reapplied to the reformatted snippet. A snippet without a closing
// @endcode is left alone.
func FormatCode(text string, f CodeFormatter) (string, error) {
	doc, err := docstring.Parse(text, docstring.DocComments())
	if err != nil {
		return "", err
	}
	for i, block := range doc.Blocks() {
		formatted, err := formatCodeBlock(block, f)
		if err != nil {
			return "", err
		}
		doc.Replace(i, formatted)
	}
	return doc.String(), nil
}

func formatCodeBlock(block string, f CodeFormatter) (string, error) {
	lines := strings.Split(block, "\n")
	var out []string

	for i := 0; i < len(lines); i++ {
		line := lines[i]
		m := codeStartRe.FindStringSubmatch(line)
		if m == nil {
			out = append(out, line)
			continue
		}
		prefix := m[1]

		end := -1
		for j := i + 1; j < len(lines); j++ {
			if codeEndRe.MatchString(lines[j]) {
				end = j
				break
			}
		}
		if end < 0 {
			out = append(out, line)
			continue
		}

		var src []string
		for _, cl := range lines[i+1 : end] {
			if sm := stripRe.FindStringSubmatch(cl); sm != nil {
				src = append(src, sm[1])
			} else {
				src = append(src, cl)
			}
		}

		formatted, err := f(strings.Join(src, "\n") + "\n")
		if err != nil {
			return "", err
		}

		out = append(out, line)
		for _, fl := range strings.Split(strings.TrimRight(formatted, "\n"), "\n") {
			out = append(out, strings.TrimRight(prefix+fl, " \t"))
		}
		out = append(out, lines[end])
		i = end
	}

	return strings.Join(out, "\n"), nil
}
