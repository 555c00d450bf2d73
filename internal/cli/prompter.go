package cli

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// terminalPrompter asks questions on out and reads answers line by line
// from in. With assumeYes every confirmation is accepted without asking.
type terminalPrompter struct {
	in        *bufio.Reader
	out       io.Writer
	assumeYes bool
}

func newTerminalPrompter(in io.Reader, out io.Writer, assumeYes bool) *terminalPrompter {
	return &terminalPrompter{in: bufio.NewReader(in), out: out, assumeYes: assumeYes}
}

// Confirm accepts "y" and "yes" in any case. Anything else, including end of
// input, declines.
func (p *terminalPrompter) Confirm(message string) bool {
	if p.assumeYes {
		return true
	}
	fmt.Fprintf(p.out, "%s [y/N]: ", message)
	answer, ok := p.readLine()
	if !ok {
		return false
	}
	switch strings.ToLower(answer) {
	case "y", "yes":
		return true
	}
	return false
}

// Prompt returns the trimmed answer. An empty answer or end of input cancels.
func (p *terminalPrompter) Prompt(message string) (string, bool) {
	fmt.Fprintf(p.out, "%s ", message)
	answer, ok := p.readLine()
	if !ok || answer == "" {
		return "", false
	}
	return answer, true
}

func (p *terminalPrompter) readLine() (string, bool) {
	line, err := p.in.ReadString('\n')
	if err != nil && line == "" {
		return "", false
	}
	return strings.TrimSpace(line), true
}
