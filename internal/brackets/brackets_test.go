// © 2025 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

package brackets

import (
	"errors"
	"testing"

	"go.astrophena.name/ccfmt/internal/testutil"
)

func TestFind(t *testing.T) {
	cases := map[string]struct {
		text string
		q    Query
		want []Pair
	}{
		"empty text": {
			text: "",
			q:    Query{Opening: "(", Closing: ")", EscapeInput: true},
			want: nil,
		},
		"no delimiters": {
			text: "nothing to see here",
			q:    Query{Opening: "(", Closing: ")", EscapeInput: true},
			want: nil,
		},
		"single pair": {
			text: "a (b) c",
			q:    Query{Opening: "(", Closing: ")", EscapeInput: true},
			want: []Pair{{2, 5}},
		},
		"nested pairs": {
			text: "(a (b) c)",
			q:    Query{Opening: "(", Closing: ")", EscapeInput: true},
			want: []Pair{{0, 9}, {3, 6}},
		},
		"sequential pairs": {
			text: "(a) (b)",
			q:    Query{Opening: "(", Closing: ")", EscapeInput: true},
			want: []Pair{{0, 3}, {4, 7}},
		},
		"dangling closer is ignored": {
			text: ") (a)",
			q:    Query{Opening: "(", Closing: ")", EscapeInput: true},
			want: []Pair{{2, 5}},
		},
		"multi-character delimiters": {
			text: "int x; /** doc */ int y;",
			q:    Query{Opening: "/**", Closing: "*/", EscapeInput: true},
			want: []Pair{{7, 17}},
		},
		"plain closer ignored before doc comment": {
			text: "/* skip */\n/** keep */\n",
			q:    Query{Opening: "/**", Closing: "*/", EscapeInput: true},
			want: []Pair{{11, 22}},
		},
		"escaped delimiters are skipped": {
			text: `\(a (b) c\)`,
			q:    Query{Opening: "(", Closing: ")", EscapeInput: true, IgnoreEscaped: true},
			want: []Pair{{4, 7}},
		},
		"doubly escaped delimiter counts": {
			text: `\\(a)`,
			q:    Query{Opening: "(", Closing: ")", EscapeInput: true, IgnoreEscaped: true},
			want: []Pair{{2, 5}},
		},
		"delimiter at offset zero is never escaped": {
			text: `(a)`,
			q:    Query{Opening: "(", Closing: ")", EscapeInput: true, IgnoreEscaped: true},
			want: []Pair{{0, 3}},
		},
		"pattern delimiters": {
			text: "x /**\n doc\n*/ y",
			q:    Query{Opening: `/\*\*\s*\n`, Closing: `\*/`},
			want: []Pair{{2, 13}},
		},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			got, err := Find(tc.text, tc.q)
			if err != nil {
				t.Fatal(err)
			}
			testutil.AssertEqual(t, got, tc.want)
		})
	}
}

func TestFindDanglingCloserSameMapping(t *testing.T) {
	// An unmatched closer before any opener must not disturb the result.
	with, err := Find("*/ /** a */", Query{Opening: "/**", Closing: "*/", EscapeInput: true})
	if err != nil {
		t.Fatal(err)
	}
	without, err := Find("/** a */", Query{Opening: "/**", Closing: "*/", EscapeInput: true})
	if err != nil {
		t.Fatal(err)
	}
	if len(with) != len(without) {
		t.Fatalf("got %d pairs with dangling closer, %d without", len(with), len(without))
	}
}

func TestFindMismatch(t *testing.T) {
	cases := map[string]struct {
		text       string
		wantOffset int
	}{
		"unterminated comment":   {"/** unterminated", 0},
		"second opener dangling": {"(a) (b", 4},
		"nested opener dangling": {"(a (b)", 0},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			q := Query{Opening: "(", Closing: ")", EscapeInput: true}
			if name == "unterminated comment" {
				q = Query{Opening: "/**", Closing: "*/", EscapeInput: true}
			}
			_, err := Find(tc.text, q)
			var merr *MismatchError
			if !errors.As(err, &merr) {
				t.Fatalf("want MismatchError, got %v", err)
			}
			if merr.Offset != tc.wantOffset {
				t.Fatalf("want offset %d, got %d", tc.wantOffset, merr.Offset)
			}
		})
	}
}

func TestFindBadPattern(t *testing.T) {
	if _, err := Find("text", Query{Opening: "(", Closing: ")"}); err == nil {
		t.Fatal("want error for invalid pattern")
	}
}

func TestEscaped(t *testing.T) {
	cases := []struct {
		text string
		off  int
		want bool
	}{
		{`(`, 0, false},
		{`\(`, 1, true},
		{`\\(`, 2, false},
		{`a\(`, 2, true},
		{`ab(`, 2, false},
	}

	for _, tc := range cases {
		if got := Escaped(tc.text, tc.off); got != tc.want {
			t.Errorf("Escaped(%q, %d) = %v, want %v", tc.text, tc.off, got, tc.want)
		}
	}
}
