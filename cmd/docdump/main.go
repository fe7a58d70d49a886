// © 2025 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"regexp"
	"strings"
	"sync"
	"testing"

	"go.astrophena.name/ccfmt/internal/cli"
	"go.astrophena.name/ccfmt/internal/cli/restrict"
	"go.astrophena.name/ccfmt/internal/docstring"

	"github.com/landlock-lsm/go-landlock/landlock"
	"github.com/muesli/reflow/wordwrap"
	"rsc.io/markdown"
)

func main() { cli.Main(new(app)) }

type app struct {
	// flags
	lineLength int
}

var parser = sync.OnceValue(func() *markdown.Parser {
	return &markdown.Parser{
		HeadingID:          true,
		Strikethrough:      true,
		TaskList:           true,
		AutoLinkText:       true,
		AutoLinkAssumeHTTP: true,
		Table:              true,
		Emoji:              true,
		SmartDot:           true,
		SmartDash:          true,
		SmartQuote:         true,
		Footnote:           true,
	}
})

func (a *app) Flags(fs *flag.FlagSet) {
	fs.IntVar(&a.lineLength, "line-length", 120, "Line length `limit`.")
}

func (a *app) Run(ctx context.Context) error {
	env := cli.GetEnv(ctx)

	if len(env.Args) == 0 {
		return fmt.Errorf("%w: at least one file required", cli.ErrInvalidArgs)
	}

	if !testing.Testing() {
		restrict.Do(ctx, landlock.ROFiles(env.Args...))
	}

	for _, file := range env.Args {
		b, err := a.dump(file)
		if err != nil {
			return fmt.Errorf("dumping %q: %w", file, err)
		}
		env.Stdout.Write(b)
	}

	return nil
}

func (a *app) dump(file string) ([]byte, error) {
	b, err := os.ReadFile(file)
	if err != nil {
		return nil, err
	}

	doc, err := docstring.Parse(string(b), docstring.DocComments())
	if err != nil {
		return nil, err
	}

	var sb strings.Builder
	for _, block := range doc.Blocks() {
		text := undecorate(block)
		if text == "" {
			continue
		}
		for _, mb := range parser().Parse(text).Blocks {
			sb.WriteString("\n")
			sb.WriteString(wordwrap.String(markdown.Format(mb), a.lineLength))
			sb.WriteString("\n")
		}
	}

	if sb.Len() == 0 {
		return nil, nil
	}
	return []byte(strings.TrimSpace(sb.String()) + "\n"), nil
}

var decorRe = regexp.MustCompile(`^\s*\* ?`)

// undecorate strips the comment markers from a doc comment, leaving its
// text.
func undecorate(block string) string {
	lines := strings.Split(block, "\n")
	if len(lines) < 3 {
		return ""
	}
	// The first and last lines hold the comment delimiters.
	lines = lines[1 : len(lines)-1]
	for i, line := range lines {
		lines[i] = decorRe.ReplaceAllString(line, "")
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}
