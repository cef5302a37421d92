package ui

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// Prompter reads answers from in and writes questions to out
type Prompter struct {
	in  *bufio.Reader
	out io.Writer
}

// NewPrompter returns a prompter on stdin/stdout
func NewPrompter() *Prompter {
	return NewPrompterWith(os.Stdin, os.Stdout)
}

// NewPrompterWith returns a prompter over arbitrary streams
func NewPrompterWith(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{in: bufio.NewReader(in), out: out}
}

func (p *Prompter) readLine() (string, error) {
	input, err := p.in.ReadString('\n')
	if err != nil && !(err == io.EOF && input != "") {
		return "", err
	}
	return strings.TrimSpace(input), nil
}

// Confirm asks a yes/no question; anything but y/yes is no
func (p *Prompter) Confirm(question string) (bool, error) {
	fmt.Fprintf(p.out, "%s (y/N): ", question)

	input, err := p.readLine()
	if err != nil {
		return false, err
	}

	input = strings.ToLower(input)
	return input == "y" || input == "yes", nil
}

// ConfirmOverwrite prompts the user to confirm replacing an existing file
func (p *Prompter) ConfirmOverwrite(path string) (bool, error) {
	fmt.Fprintf(p.out, "\n⚠  Warning: '%s' already exists.\n", path)
	return p.Confirm("Do you want to overwrite it?")
}

// Ask prints question and returns the trimmed answer
func (p *Prompter) Ask(question string) (string, error) {
	fmt.Fprintf(p.out, "%s: ", question)
	return p.readLine()
}

// Choose lists options and returns the index picked (1-based input)
func (p *Prompter) Choose(title string, options []string) (int, error) {
	if len(options) == 0 {
		return -1, fmt.Errorf("nothing to choose from")
	}

	fmt.Fprintf(p.out, "\n%s\n", title)
	for i, o := range options {
		fmt.Fprintf(p.out, "  %d. %s\n", i+1, o)
	}
	fmt.Fprintf(p.out, "\nEnter your choice (1-%d): ", len(options))

	input, err := p.readLine()
	if err != nil {
		return -1, err
	}

	var n int
	if _, err := fmt.Sscanf(input, "%d", &n); err != nil || n < 1 || n > len(options) {
		return -1, fmt.Errorf("invalid choice: %s", input)
	}
	return n - 1, nil
}
