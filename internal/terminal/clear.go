// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package terminal provides prompts and small screen helpers.
package terminal

import (
	"fmt"
	"io"
	"os"

	"golang.org/x/term"
)

// Width returns the width of the terminal behind stdout, or 80.
func Width() int {
	if width, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && width > 0 {
		return width
	}
	return 80
}

// linesFor reports how many rows textLength characters occupy at width,
// plus the row the cursor lands on after Enter.
func linesFor(textLength, width int) int {
	if width <= 0 {
		width = 80
	}
	rows := (textLength + width - 1) / width
	if rows < 1 {
		rows = 1
	}
	return rows + 1
}

// ClearPreviousLines erases the last textLength characters of prompt and
// input written to w, including the line break the user typed.
func ClearPreviousLines(w io.Writer, textLength int) {
	n := linesFor(textLength, Width())
	for i := 0; i < n; i++ {
		fmt.Fprint(w, "\r\x1b[2K")
		if i < n-1 {
			fmt.Fprint(w, "\x1b[1A")
		}
	}
}
