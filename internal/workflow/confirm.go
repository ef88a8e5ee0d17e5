package workflow

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
)

// ConsoleConfirmer asks yes/no questions on the console. Answers are
// compared case-insensitively against "y"; anything else is a no.
type ConsoleConfirmer struct {
	In  io.Reader
	Out io.Writer
}

func (c *ConsoleConfirmer) Confirm(prompt string) (bool, error) {
	in := c.In
	if in == nil {
		in = os.Stdin
	}
	out := c.Out
	if out == nil {
		out = os.Stderr
	}

	if f, ok := in.(*os.File); ok {
		if !isatty.IsTerminal(f.Fd()) && !isatty.IsCygwinTerminal(f.Fd()) {
			return false, errors.New("stdin is not a terminal, cannot ask for confirmation")
		}
	}

	fmt.Fprint(out, prompt)
	reader := bufio.NewReader(in)
	response, err := reader.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, fmt.Errorf("failed to read user input: %w", err)
	}

	return strings.EqualFold(strings.TrimSpace(response), "y"), nil
}
