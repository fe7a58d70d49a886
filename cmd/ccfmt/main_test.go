// © 2025 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

package main

import (
	"bytes"
	"context"
	"flag"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.astrophena.name/ccfmt/internal/cli"
	"go.astrophena.name/ccfmt/internal/cli/clitest"
	"go.astrophena.name/ccfmt/internal/testutil"
)

var update = flag.Bool("update", false, "update golden files in testdata")

func TestRun(t *testing.T) {
	clitest.Run[*app](t, func(t *testing.T) *app {
		return &app{}
	}, map[string]clitest.Case[*app]{
		"prints usage with help flag": {
			Args:    []string{"-h"},
			WantErr: flag.ErrHelp,
		},
		"version": {
			Args:    []string{"-version"},
			WantErr: cli.ErrExitVersion,
		},
		"no files passed": {
			Args:    []string{},
			WantErr: cli.ErrInvalidArgs,
		},
		"nonexistent file": {
			Args:    []string{"nonexistent.h"},
			WantErr: fs.ErrNotExist,
		},
		"unknown style": {
			Args:    []string{"-style", "kernel", "testdata/frob.h"},
			WantErr: cli.ErrInvalidArgs,
		},
		"unknown doxygen prefix": {
			Args:    []string{"-doxygen", "#", "testdata/frob.h"},
			WantErr: cli.ErrInvalidArgs,
		},
		"malformed quote replacement": {
			Args:         []string{"-change-quote", "abc", "testdata/frob.h"},
			WantInStderr: "malformed quote replacement",
		},
		"prints to standard out": {
			Args:         []string{"testdata/frob.h"},
			WantInStdout: "@param x input value",
		},
		"multiple files in argument order": {
			Args:         []string{"testdata/frob.h", "testdata/widget.h"},
			WantInStdout: "class Widget",
		},
	})
}

func TestFormat(t *testing.T) {
	testutil.RunGolden(t, "testdata/*.h", func(t *testing.T, match string) []byte {
		a := &app{
			style:   "javadoc",
			doxygen: "@",
		}
		b, err := a.format(context.Background(), match)
		if err != nil {
			t.Fatal(err)
		}
		return b
	}, *update)
}

func TestFormatPipeline(t *testing.T) {
	const src = `/**
 * Calls 'frob' like this:
 *
 *   frob(1);
 */
`
	const want = `/**
 * Calls "frob" like this:
 *
 *      frob(1);
 */
`

	file := filepath.Join(t.TempDir(), "pipeline.h")
	if err := os.WriteFile(file, []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}

	a := &app{
		style:     "javadoc",
		doxygen:   "@",
		codeBlock: true,
		tabsize:   4,
		quotes:    quoteFlags{{from: "'", to: `"`}},
	}
	got, err := a.format(context.Background(), file)
	if err != nil {
		t.Fatal(err)
	}
	testutil.AssertEqual(t, string(got), want)
}

func TestRewrite(t *testing.T) {
	src, err := os.ReadFile("testdata/frob.h")
	if err != nil {
		t.Fatal(err)
	}
	want, err := os.ReadFile("testdata/frob.golden")
	if err != nil {
		t.Fatal(err)
	}

	file := filepath.Join(t.TempDir(), "frob.h")
	if err := os.WriteFile(file, src, 0o600); err != nil {
		t.Fatal(err)
	}

	var stdout, stderr bytes.Buffer
	env := &cli.Env{
		Args:   []string{"-w", file},
		Getenv: func(string) string { return "" },
		Stdin:  strings.NewReader(""),
		Stdout: &stdout,
		Stderr: &stderr,
	}
	if err := cli.Run(cli.WithEnv(context.Background(), env), &app{}); err != nil {
		t.Fatal(err)
	}
	if stdout.Len() > 0 {
		t.Fatalf("unexpected output with -w: %q", stdout.String())
	}

	got, err := os.ReadFile(file)
	if err != nil {
		t.Fatal(err)
	}
	testutil.AssertEqual(t, got, want)

	fi, err := os.Stat(file)
	if err != nil {
		t.Fatal(err)
	}
	if perm := fi.Mode().Perm(); perm != 0o600 {
		t.Fatalf("rewrite changed file mode to %v", perm)
	}
}

func TestQuoteFlags(t *testing.T) {
	var q quoteFlags
	if err := q.Set("'=\""); err != nil {
		t.Fatal(err)
	}
	if err := q.Set("`='"); err != nil {
		t.Fatal(err)
	}
	testutil.AssertEqual(t, q.String(), "'=\",`='")

	if err := q.Set("abc"); err == nil {
		t.Fatal("want error for malformed replacement")
	}
	if err := q.Set("=x"); err == nil {
		t.Fatal("want error for empty FROM")
	}
}
