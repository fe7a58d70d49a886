// © 2025 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

// Package docstring models source text as an alternating sequence of plain
// text and doc-comment blocks.
//
// A [Document] is built once per input buffer. Its doc-comment blocks can be
// read and replaced by index, and the whole buffer is reassembled with
// [Document.String]. Text outside the blocks is preserved byte for byte:
// as long as no block was replaced, String returns the exact input.
package docstring

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"go.astrophena.name/ccfmt/internal/brackets"
)

// Delimiters describe how doc-comment blocks are delimited.
type Delimiters struct {
	// Opening and Closing are the delimiter patterns. They are regular
	// expressions, unless EscapeInput is set.
	Opening, Closing string
	// EscapeInput treats Opening and Closing as literal text.
	EscapeInput bool
	// IgnoreEscaped skips backslash-escaped delimiter occurrences.
	IgnoreEscaped bool
}

// DocComments returns the delimiters of javadoc-style doc comments: a "/**"
// that ends its line, closed by "*/". A single-line "/* ... */" comment, or
// a "/**" with trailing text, is not a doc comment.
func DocComments() Delimiters {
	return Delimiters{Opening: `/\*\*\s*\n`, Closing: `\*/`}
}

// ErrOutOfRange is returned when a block index does not exist.
var ErrOutOfRange = errors.New("block index out of range")

// A segment is a run of whole lines of the original text. Its text excludes
// the terminator of its last line, which is kept aside so that replacing a
// block cannot disturb the line structure around it.
type segment struct {
	text  string
	eol   string // "\n", or "" on the last line of the buffer
	block bool
}

// A Document is an ordered sequence of plain and doc-comment segments.
//
// Two doc-comment segments are never adjacent: an empty plain segment sits
// between blocks that touch in the source. A document with no doc comments
// is a single plain segment spanning the whole text.
//
// A Document is not safe for concurrent use.
type Document struct {
	segments []segment
	index    []int // block number -> position in segments
}

// Parse builds a Document from text.
//
// Each matched delimiter range is expanded to whole-line boundaries: a block
// runs from the line containing the opening delimiter through the line
// containing the end of the closing one. Parse fails with
// [brackets.MismatchError] if an opening delimiter is unterminated.
func Parse(text string, d Delimiters) (*Document, error) {
	pairs, err := brackets.Find(text, brackets.Query{
		Opening:       d.Opening,
		Closing:       d.Closing,
		EscapeInput:   d.EscapeInput,
		IgnoreEscaped: d.IgnoreEscaped,
	})
	if err != nil {
		return nil, err
	}

	lines := splitLines(text)
	starts := lineOffsets(lines)

	doc := new(Document)
	last := 0 // first line not yet assigned to a segment
	for _, p := range pairs {
		start := lineIndex(starts, p.Start)
		end := lineIndex(starts, p.End-1) + 1
		if end <= last {
			// Swallowed by the previous block's line expansion.
			continue
		}
		if start < last {
			start = last
		}
		// The gap before the block is a plain segment. It is empty
		// between adjacent blocks, and absent before a block that
		// starts the buffer.
		if start > last || len(doc.segments) > 0 {
			doc.add(lines[last:start], false)
		}
		doc.add(lines[start:end], true)
		last = end
	}
	if last < len(lines) || len(doc.segments) == 0 {
		doc.add(lines[last:], false)
	}
	return doc, nil
}

func (d *Document) add(lines []string, block bool) {
	text := strings.Join(lines, "")
	var eol string
	if t, ok := strings.CutSuffix(text, "\n"); ok {
		text, eol = t, "\n"
	}
	if block {
		d.index = append(d.index, len(d.segments))
	}
	d.segments = append(d.segments, segment{text: text, eol: eol, block: block})
}

// Count returns the number of doc-comment blocks.
func (d *Document) Count() int { return len(d.index) }

// Blocks returns the contents of all doc-comment blocks in document order.
// Block contents never include the terminator of their last line.
func (d *Document) Blocks() []string {
	blocks := make([]string, len(d.index))
	for i, j := range d.index {
		blocks[i] = d.segments[j].text
	}
	return blocks
}

// Block returns the contents of block i.
func (d *Document) Block(i int) (string, error) {
	if i < 0 || i >= len(d.index) {
		return "", fmt.Errorf("block %d: %w", i, ErrOutOfRange)
	}
	return d.segments[d.index[i]].text, nil
}

// Replace overwrites the contents of block i with text, verbatim. Keeping
// the delimiter syntax intact is the caller's responsibility. Replace never
// changes the number or the order of blocks, and a failed Replace leaves the
// document untouched.
func (d *Document) Replace(i int, text string) error {
	if i < 0 || i >= len(d.index) {
		return fmt.Errorf("block %d: %w", i, ErrOutOfRange)
	}
	d.segments[d.index[i]].text = text
	return nil
}

// String reassembles the document. If no block has been replaced, it
// returns the exact original text.
func (d *Document) String() string {
	var sb strings.Builder
	for _, s := range d.segments {
		sb.WriteString(s.text)
		sb.WriteString(s.eol)
	}
	return sb.String()
}

// splitLines splits text into lines, each keeping its "\n". The last line
// has none if the text does not end with one.
func splitLines(text string) []string {
	var lines []string
	for len(text) > 0 {
		i := strings.IndexByte(text, '\n')
		if i < 0 {
			lines = append(lines, text)
			break
		}
		lines = append(lines, text[:i+1])
		text = text[i+1:]
	}
	return lines
}

// lineOffsets returns the byte offset at which each line begins.
func lineOffsets(lines []string) []int {
	offsets := make([]int, len(lines))
	var off int
	for i, l := range lines {
		offsets[i] = off
		off += len(l)
	}
	return offsets
}

// lineIndex returns the index of the line containing byte offset off.
func lineIndex(starts []int, off int) int {
	return sort.Search(len(starts), func(i int) bool { return starts[i] > off }) - 1
}
