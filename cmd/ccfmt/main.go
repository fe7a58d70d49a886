// © 2025 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

package main

import (
	"context"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"go.astrophena.name/ccfmt/internal/cli"
	"go.astrophena.name/ccfmt/internal/cli/restrict"
	"go.astrophena.name/ccfmt/internal/commentfmt"
	"go.astrophena.name/ccfmt/internal/util/set"
	"go.astrophena.name/ccfmt/internal/util/syncx"

	"github.com/landlock-lsm/go-landlock/landlock"
)

func main() { cli.Main(new(app)) }

type app struct {
	// flags
	rewrite    bool
	style      string
	doxygen    string
	tabsize    int
	codeBlock  bool
	formatCode bool
	quotes     quoteFlags

	// codeFormatter replaces clang-format in tests.
	codeFormatter commentfmt.CodeFormatter
}

type quotePair struct{ from, to string }

// quoteFlags collects repeated -change-quote flags.
type quoteFlags []quotePair

func (q *quoteFlags) String() string {
	var pairs []string
	for _, p := range *q {
		pairs = append(pairs, p.from+"="+p.to)
	}
	return strings.Join(pairs, ",")
}

func (q *quoteFlags) Set(s string) error {
	from, to, ok := strings.Cut(s, "=")
	if !ok || from == "" {
		return fmt.Errorf("malformed quote replacement %q, want FROM=TO", s)
	}
	*q = append(*q, quotePair{from: from, to: to})
	return nil
}

func (a *app) Flags(fs *flag.FlagSet) {
	fs.BoolVar(&a.rewrite, "w", false, "Write result to (source) file instead of stdout.")
	fs.StringVar(&a.style, "style", "javadoc", "Comment `style`. Only 'javadoc' is supported.")
	fs.StringVar(&a.doxygen, "doxygen", "@", "Normalize doxygen commands to this `prefix` ('@' or '\\'), empty to skip.")
	fs.IntVar(&a.tabsize, "tabsize", 0, "Tab `size` used by -code-block, 0 to autodetect.")
	fs.BoolVar(&a.codeBlock, "code-block", false, "Align indented code in comment blocks with the tab size.")
	fs.BoolVar(&a.formatCode, "format-code", false, "Run clang-format on @code/@endcode snippets.")
	fs.Var(&a.quotes, "change-quote", "Change quotes in comment blocks (`FROM=TO`, can be repeated).")
}

func (a *app) Run(ctx context.Context) error {
	env := cli.GetEnv(ctx)

	if len(env.Args) == 0 {
		return fmt.Errorf("%w: at least one file required", cli.ErrInvalidArgs)
	}
	if a.style != "javadoc" {
		return fmt.Errorf("%w: unknown style %q", cli.ErrInvalidArgs, a.style)
	}
	switch a.doxygen {
	case "", "@", `\`:
	default:
		return fmt.Errorf("%w: unknown doxygen prefix %q", cli.ErrInvalidArgs, a.doxygen)
	}

	// Drop privileges if not inside tests. With -format-code the
	// clang-format binary still has to be executable, so the sandbox
	// stays off.
	if !testing.Testing() && !a.formatCode {
		if a.rewrite {
			restrict.Do(ctx, landlock.RWDirs(dirsOf(env.Args)...))
		} else {
			restrict.Do(ctx, landlock.ROFiles(env.Args...))
		}
	}

	// Each file is independent, so format them concurrently and emit the
	// results in argument order.
	type result struct {
		b   []byte
		err error
	}
	results := make([]result, len(env.Args))

	lwg := syncx.NewLimitedWaitGroup(runtime.NumCPU())
	for i, file := range env.Args {
		lwg.Add(1)
		go func() {
			defer lwg.Done()
			b, err := a.format(ctx, file)
			if err != nil {
				err = fmt.Errorf("formatting %q: %w", file, err)
			}
			results[i] = result{b: b, err: err}
		}()
	}
	lwg.Wait()

	for i, file := range env.Args {
		res := results[i]
		if res.err != nil {
			return res.err
		}
		if a.rewrite {
			perm := fs.FileMode(0o644)
			if fi, err := os.Stat(file); err == nil {
				perm = fi.Mode().Perm()
			}
			if err := os.WriteFile(file, res.b, perm); err != nil {
				return err
			}
		} else {
			env.Stdout.Write(res.b)
		}
	}

	return nil
}

func (a *app) format(ctx context.Context, file string) ([]byte, error) {
	b, err := os.ReadFile(file)
	if err != nil {
		return nil, err
	}

	out, err := commentfmt.Format(string(b), commentfmt.Options{
		Style:   a.style,
		Doxygen: a.doxygen,
	})
	if err != nil {
		return nil, err
	}

	if a.codeBlock {
		if out, err = commentfmt.AlignCodeBlocks(out, a.tabsize); err != nil {
			return nil, err
		}
	}

	for _, q := range a.quotes {
		if out, err = commentfmt.ChangeQuotes(out, q.from, q.to); err != nil {
			return nil, err
		}
	}

	if a.formatCode {
		f := a.codeFormatter
		if f == nil {
			f = commentfmt.ClangFormat(ctx, "")
		}
		if out, err = commentfmt.FormatCode(out, f); err != nil {
			return nil, err
		}
	}

	return []byte(out), nil
}

func dirsOf(files []string) []string {
	dirs := set.New[string](len(files))
	for _, f := range files {
		dirs.Add(filepath.Dir(f))
	}
	return dirs.ToSortedSlice()
}
