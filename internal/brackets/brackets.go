// © 2025 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

// Package brackets finds matching pairs of delimiters in text.
package brackets

import (
	"fmt"
	"regexp"
	"slices"
)

// A Query describes the delimiter pair to search for.
type Query struct {
	// Opening and Closing are the delimiter patterns. They are regular
	// expressions, unless EscapeInput is set.
	Opening, Closing string
	// EscapeInput treats Opening and Closing as literal text instead of
	// regular expressions.
	EscapeInput bool
	// IgnoreEscaped skips delimiter occurrences that are escaped with a
	// backslash. A doubled backslash escapes itself, not the delimiter.
	IgnoreEscaped bool
}

// A Pair is a matched delimiter pair. Start is the offset of the first
// character of the opening delimiter, End is the offset just past the last
// character of the closing one. Start is always less than End.
type Pair struct {
	Start, End int
}

// MismatchError is returned by Find when an opening delimiter has no
// corresponding closing delimiter by the end of the text.
type MismatchError struct {
	Offset int // position of the unmatched opening delimiter
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("unmatched opening delimiter at offset %d", e.Offset)
}

// event is a single delimiter occurrence: an opening or a closing one.
type event struct {
	pos   int // offset of the first character of the occurrence
	end   int // offset just past the occurrence, used for closing events
	close bool
}

// Find returns all matched delimiter pairs in text, in ascending order of
// opening offset.
//
// Occurrences are paired LIFO: a closing delimiter matches the nearest
// unmatched opening one. Dangling closing delimiters are silently ignored;
// this lets a search for "/**" skip the "*/" that terminates an ordinary
// "/*" comment. An opening delimiter that is still unmatched at the end of
// the text is fatal, and Find returns a [MismatchError].
func Find(text string, q Query) ([]Pair, error) {
	op, cl := q.Opening, q.Closing
	if q.EscapeInput {
		op = regexp.QuoteMeta(op)
		cl = regexp.QuoteMeta(cl)
	}
	ore, err := regexp.Compile(op)
	if err != nil {
		return nil, fmt.Errorf("opening pattern: %w", err)
	}
	cre, err := regexp.Compile(cl)
	if err != nil {
		return nil, fmt.Errorf("closing pattern: %w", err)
	}

	var events []event
	for _, loc := range ore.FindAllStringIndex(text, -1) {
		if q.IgnoreEscaped && Escaped(text, loc[0]) {
			continue
		}
		events = append(events, event{pos: loc[0]})
	}
	for _, loc := range cre.FindAllStringIndex(text, -1) {
		if q.IgnoreEscaped && Escaped(text, loc[0]) {
			continue
		}
		events = append(events, event{pos: loc[0], end: loc[1], close: true})
	}
	// Openings were appended first, so the stable sort keeps an opening
	// before a closing at the same offset.
	slices.SortStableFunc(events, func(a, b event) int { return a.pos - b.pos })

	var (
		pairs []Pair
		stack []int
	)
	for _, ev := range events {
		if !ev.close {
			stack = append(stack, ev.pos)
			continue
		}
		if len(stack) == 0 {
			// Dangling closer, not ours.
			continue
		}
		start := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		pairs = append(pairs, Pair{Start: start, End: ev.end})
	}
	if len(stack) > 0 {
		return nil, &MismatchError{Offset: stack[len(stack)-1]}
	}

	slices.SortFunc(pairs, func(a, b Pair) int { return a.Start - b.Start })
	return pairs, nil
}

// Escaped reports whether the character at off is escaped with exactly one
// backslash. A character at offset 0 is never escaped, and a doubled
// backslash escapes itself, so the character after it counts as unescaped.
func Escaped(text string, off int) bool {
	if off == 0 || text[off-1] != '\\' {
		return false
	}
	return off < 2 || text[off-2] != '\\'
}
