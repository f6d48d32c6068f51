package copier

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
)

// TTYConfirmer asks yes/no questions on the terminal. Without an
// interactive terminal every question is answered no immediately, so
// prompt-policy runs degrade to skip instead of hanging.
type TTYConfirmer struct {
	in  *os.File
	out io.Writer
}

// NewTTYConfirmer creates a confirmer reading stdin, writing stderr.
func NewTTYConfirmer() *TTYConfirmer {
	return &TTYConfirmer{in: os.Stdin, out: os.Stderr}
}

// Confirm asks one question and reads a y/n answer. Only y and yes
// (any case) count as yes.
func (c *TTYConfirmer) Confirm(prompt string) bool {
	if !isatty.IsTerminal(c.in.Fd()) && !isatty.IsCygwinTerminal(c.in.Fd()) {
		return false
	}

	fmt.Fprintf(c.out, "%s [y/N] ", prompt)

	scanner := bufio.NewScanner(c.in)
	if !scanner.Scan() {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(scanner.Text())) {
	case "y", "yes":
		return true
	}
	return false
}
