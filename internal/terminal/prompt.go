// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package terminal

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// ErrEmptyInput is returned when the user enters nothing.
var ErrEmptyInput = errors.New("no input")

// Prompter reads answers from a terminal, or from any reader when input is piped.
type Prompter struct {
	in  *bufio.Reader
	out io.Writer
	fd  int
	tty bool
}

// NewPrompter prompts on stderr and reads from stdin.
func NewPrompter() *Prompter {
	fd := int(os.Stdin.Fd())
	return &Prompter{
		in:  bufio.NewReader(os.Stdin),
		out: os.Stderr,
		fd:  fd,
		tty: term.IsTerminal(fd),
	}
}

// NewPrompterFrom reads from r and never treats it as a terminal.
func NewPrompterFrom(r io.Reader, w io.Writer) *Prompter {
	return &Prompter{in: bufio.NewReader(r), out: w, fd: -1}
}

// Line asks label and returns the trimmed answer.
func (p *Prompter) Line(label string) (string, error) {
	fmt.Fprintf(p.out, "%s: ", label)
	s, err := p.in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && s != "") {
		return "", err
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return "", ErrEmptyInput
	}
	return s, nil
}

// Password asks label without echoing the answer. The prompt line is
// removed afterwards.
func (p *Prompter) Password(label string) (string, error) {
	if !p.tty {
		return p.Line(label)
	}
	prompt := label + ": "
	fmt.Fprint(p.out, prompt)
	b, err := term.ReadPassword(p.fd)
	fmt.Fprintln(p.out)
	if err != nil {
		return "", err
	}
	ClearPreviousLines(p.out, len(prompt))
	if len(b) == 0 {
		return "", ErrEmptyInput
	}
	return string(b), nil
}
