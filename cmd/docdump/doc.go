// © 2025 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

/*
Docdump extracts doc comments from C++ sources and prints them as
formatted Markdown.

# Usage

	$ docdump [flags...] <file> [files...]

Docdump collects every comment block that opens with /** from the given
files, strips the comment decoration, and prints the remaining text to
standard output, reformatted as Markdown and wrapped at -line-length
columns.
*/
package main

import (
	_ "embed"

	"go.astrophena.name/ccfmt/internal/cli"
)

//go:embed doc.go
var doc []byte

func init() { cli.SetDocComment(doc) }
