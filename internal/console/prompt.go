// Package console implements the interactive editor and viewer front-ends:
// line-based prompts, numbered menus and plain-text rendering of recipes.
package console

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Prompter reads operator answers one line at a time.
type Prompter struct {
	in  *bufio.Reader
	out io.Writer
}

// NewPrompter creates a Prompter reading from in and printing prompts to out.
func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{in: bufio.NewReader(in), out: out}
}

// Ask prints label and returns the next input line without its line ending.
// Lines may be of any length. It returns io.EOF when input is exhausted; a
// final line without a trailing newline is still returned.
func (p *Prompter) Ask(label string) (string, error) {
	fmt.Fprint(p.out, label)
	line, err := p.in.ReadString('\n')
	switch {
	case errors.Is(err, io.EOF) && line == "":
		fmt.Fprintln(p.out)
		return "", io.EOF
	case err != nil && !errors.Is(err, io.EOF):
		return "", fmt.Errorf("console: read input: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// AskLines collects lines until one equals terminator (case-insensitive,
// surrounding blanks ignored) and returns them joined by newlines.
func (p *Prompter) AskLines(terminator string) (string, error) {
	var lines []string
	for {
		line, err := p.Ask("")
		if err != nil {
			return "", err
		}
		if strings.EqualFold(strings.TrimSpace(line), terminator) {
			return strings.Join(lines, "\n"), nil
		}
		lines = append(lines, line)
	}
}

// Confirm asks a yes/no question; only "y" or "yes" count as yes.
func (p *Prompter) Confirm(label string) (bool, error) {
	answer, err := p.Ask(label + " (yes/no): ")
	if err != nil {
		return false, err
	}
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true, nil
	}
	return false, nil
}

// parseID accepts a non-empty run of ASCII digits that fits in an int64.
func parseID(s string) (int64, bool) {
	s = strings.TrimSpace(s)
	if !isDigits(s) {
		return 0, false
	}
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
