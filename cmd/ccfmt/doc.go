// © 2025 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

/*
Ccfmt formats javadoc-style doc comments in C++ sources.

# Usage

	$ ccfmt [flags...] <file> [files...]

Ccfmt rewrites every comment block that opens with /** to the javadoc
convention, normalizes doxygen command prefixes, and leaves everything
outside the comment blocks untouched. Without -w the result is printed to
standard output.

It can also align indented code inside comment blocks with the file's tab
size (-code-block), change quoting styles inside comments (-change-quote),
and run clang-format on @code/@endcode snippets (-format-code).
*/
package main

import (
	_ "embed"

	"go.astrophena.name/ccfmt/internal/cli"
)

//go:embed doc.go
var doc []byte

func init() { cli.SetDocComment(doc) }
