// Package console implements the operator console over plain streams.
package console

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/ericfisherdev/testinguser/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.Console = (*Console)(nil)

// cursor is printed before every read.
const cursor = "> "

// Console reads answers line by line from in. Prompts and messages go to out,
// validation problems to errOut.
type Console struct {
	in     *bufio.Scanner
	out    io.Writer
	errOut io.Writer
}

// New creates a Console. Typically New(os.Stdin, os.Stdout, os.Stderr).
func New(in io.Reader, out, errOut io.Writer) *Console {
	return &Console{
		in:     bufio.NewScanner(in),
		out:    out,
		errOut: errOut,
	}
}

// Prompt asks for one line of input and loops until it is acceptable.
//
// When label is non-empty it is printed first, followed by the default in
// parentheses if there is one. A blank (whitespace-only) answer returns
// defaultValue without consulting validate. Any other answer is passed to
// validate untrimmed; a non-empty problem is written to the error stream and
// the question is asked again. A nil validate accepts everything.
func (c *Console) Prompt(label, defaultValue string, validate driven.Validator) (string, error) {
	question := label + ": "
	if defaultValue != "" {
		question = fmt.Sprintf("%s (%s): ", label, defaultValue)
	}

	for {
		if label != "" {
			fmt.Fprintln(c.out, question)
		}
		fmt.Fprint(c.out, cursor)

		input, err := c.readLine()
		if err != nil {
			return "", fmt.Errorf("reading answer to %q: %w", label, err)
		}

		if strings.TrimSpace(input) == "" && defaultValue != "" {
			return defaultValue, nil
		}

		if validate == nil {
			return input, nil
		}

		problem, err := validate(input)
		if err != nil {
			return "", fmt.Errorf("validating answer to %q: %w", label, err)
		}
		if problem == "" {
			return input, nil
		}
		fmt.Fprintln(c.errOut, problem)
	}
}

// readLine returns the next line without its terminator.
func (c *Console) readLine() (string, error) {
	if !c.in.Scan() {
		if err := c.in.Err(); err != nil {
			return "", err
		}
		return "", io.ErrUnexpectedEOF
	}
	return c.in.Text(), nil
}

// Printf writes a formatted message to the output stream.
func (c *Console) Printf(format string, a ...any) {
	fmt.Fprintf(c.out, format, a...)
}

// Println writes a line to the output stream.
func (c *Console) Println(a ...any) {
	fmt.Fprintln(c.out, a...)
}

// Errorln writes a line to the error stream.
func (c *Console) Errorln(a ...any) {
	fmt.Fprintln(c.errOut, a...)
}
