package console

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ErrInputClosed is returned once the operator's input stream is exhausted.
var ErrInputClosed = errors.New("input closed")

// Prompter reads line-oriented answers from the operator.
type Prompter struct {
	in     *bufio.Reader
	out    io.Writer
	closed bool
}

// NewPrompter wraps in and out. Prompts are written to out without a newline.
func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{in: bufio.NewReader(in), out: out}
}

// Closed reports whether input has hit EOF.
func (p *Prompter) Closed() bool { return p.closed }

// Ask prints prompt and returns the trimmed answer. A final line without a
// trailing newline is still returned; afterwards ErrInputClosed is reported.
func (p *Prompter) Ask(prompt string) (string, error) {
	if p.closed {
		return "", ErrInputClosed
	}
	fmt.Fprint(p.out, prompt)

	line, err := p.in.ReadString('\n')
	if err != nil {
		if !errors.Is(err, io.EOF) {
			return "", fmt.Errorf("read input: %w", err)
		}
		p.closed = true
		if line == "" {
			fmt.Fprintln(p.out)
			return "", ErrInputClosed
		}
	}
	return strings.TrimSpace(line), nil
}

// AskInt asks until the answer parses as an integer. An empty answer returns
// def when allowEmpty is set.
func (p *Prompter) AskInt(prompt string, def int, allowEmpty bool, invalid string) (int, error) {
	for {
		answer, err := p.Ask(prompt)
		if err != nil {
			return 0, err
		}
		if answer == "" && allowEmpty {
			return def, nil
		}
		n, convErr := strconv.Atoi(answer)
		if convErr == nil {
			return n, nil
		}
		fmt.Fprintln(p.out, invalid)
	}
}

// Choose asks until the answer is one of options.
func (p *Prompter) Choose(prompt, invalid string, options ...string) (string, error) {
	for {
		answer, err := p.Ask(prompt)
		if err != nil {
			return "", err
		}
		for _, opt := range options {
			if answer == opt {
				return answer, nil
			}
		}
		fmt.Fprintln(p.out, invalid)
	}
}
