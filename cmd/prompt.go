package main

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/chzyer/readline"
)

// prompter asks the operator a single-line question.
type prompter interface {
	Ask(question string) (string, error)
	Close() error
}

type readlinePrompter struct {
	rl *readline.Instance
}

func newReadlinePrompter(stdin io.ReadCloser, stdout io.Writer) (*readlinePrompter, error) {
	rl, err := readline.NewEx(&readline.Config{
		Stdin:           stdin,
		Stdout:          stdout,
		InterruptPrompt: "^C",
	})
	if err != nil {
		return nil, fmt.Errorf("opening prompt: %w", err)
	}
	return &readlinePrompter{rl: rl}, nil
}

func (p *readlinePrompter) Ask(question string) (string, error) {
	p.rl.SetPrompt(question)
	return p.rl.Readline()
}

func (p *readlinePrompter) Close() error {
	return p.rl.Close()
}

var errNegativeDays = errors.New("day count cannot be negative")

// parseDays reads a whole, non-negative number of days.
func parseDays(input string) (int, error) {
	days, err := strconv.Atoi(strings.TrimSpace(input))
	if err != nil {
		return 0, err
	}
	if days < 0 {
		return 0, errNegativeDays
	}
	return days, nil
}

// askDays prompts for a day count. Anything that is not a non-negative
// integer is reported on out and counts as zero. Ctrl-C aborts the run.
func askDays(p prompter, out io.Writer, question, name string) (int, error) {
	line, err := p.Ask(question)
	if errors.Is(err, readline.ErrInterrupt) {
		return 0, fmt.Errorf("%s prompt: %w", strings.ToLower(name), err)
	}
	if err != nil {
		fmt.Fprintf(out, "No input. %s counts as 0.\n", name)
		return 0, nil
	}
	days, err := parseDays(line)
	if err != nil {
		fmt.Fprintf(out, "Invalid input. %s should be a non-negative integer.\n", name)
		return 0, nil
	}
	return days, nil
}
