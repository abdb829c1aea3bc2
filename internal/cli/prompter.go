package cli

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"max.ks1230/expense-tracker/internal/entity/ledger"
	"max.ks1230/expense-tracker/internal/model/validation"
)

// ErrExit is returned by every prompt once the user typed an exit command
// or the input ended.
var ErrExit = errors.New("exit requested")

var ExitCommands = []string{"exit", "quit"}

func IsExitCommand(s string) bool {
	s = strings.TrimSpace(s)
	for _, cmd := range ExitCommands {
		if strings.EqualFold(s, cmd) {
			return true
		}
	}
	return false
}

// Prompter asks for typed values line by line and repeats the question
// until the answer is acceptable.
type Prompter struct {
	in  *bufio.Reader
	out io.Writer
}

func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{in: bufio.NewReader(in), out: out}
}

func (p *Prompter) Printf(format string, args ...any) {
	fmt.Fprintf(p.out, format, args...)
}

func (p *Prompter) Println(args ...any) {
	fmt.Fprintln(p.out, args...)
}

func exitHint() string {
	return strings.Join(ExitCommands, " / ")
}

// ask prints prompt and passes the trimmed answer to accept until it
// returns "". A non-empty result is shown to the user before asking again.
func (p *Prompter) ask(prompt string, accept func(string) string) error {
	for {
		fmt.Fprint(p.out, prompt)
		line, err := p.in.ReadString('\n')
		if err != nil && (line == "" || !errors.Is(err, io.EOF)) {
			p.Println()
			p.Printf("Input interrupted. Please try again or type %s to quit.\n", exitHint())
			return ErrExit
		}

		value := strings.TrimSpace(line)
		if IsExitCommand(value) {
			return ErrExit
		}
		msg := accept(value)
		if msg == "" {
			return nil
		}
		p.Println(msg)
	}
}

func (p *Prompter) Int(prompt string, limits validation.Limits[int]) (int, error) {
	var result int
	err := p.ask(prompt, func(s string) string {
		v, err := strconv.Atoi(s)
		if err != nil {
			return fmt.Sprintf("Invalid input. Please enter a valid number (integer) or %s to quit.", exitHint())
		}
		if limits.Bounded() && !validation.CheckNumberRange(v, limits) {
			return validation.NumberMessage(v, limits)
		}
		result = v
		return ""
	})
	return result, err
}

func (p *Prompter) Float(prompt string, limits validation.Limits[float64]) (float64, error) {
	var result float64
	err := p.ask(prompt, func(s string) string {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Sprintf("Invalid input. Please enter a valid number (float) or %s to quit.", exitHint())
		}
		if limits.Bounded() && !validation.CheckNumberRange(v, limits) {
			return validation.NumberMessage(v, limits)
		}
		result = v
		return ""
	})
	return result, err
}

func (p *Prompter) String(prompt string, limits validation.Limits[int]) (string, error) {
	var result string
	err := p.ask(prompt, func(s string) string {
		if limits.Bounded() && !validation.CheckStringLength(s, limits) {
			return validation.StringMessage(s, limits)
		}
		result = s
		return ""
	})
	return result, err
}

// Date reads a YYYY-MM-DD date.
func (p *Prompter) Date(prompt string) (ledger.Date, error) {
	return p.date(prompt, false)
}

// OptionalDate is Date where an empty answer yields the zero date.
func (p *Prompter) OptionalDate(prompt string) (ledger.Date, error) {
	return p.date(prompt, true)
}

func (p *Prompter) date(prompt string, optional bool) (ledger.Date, error) {
	var result ledger.Date
	err := p.ask(prompt, func(s string) string {
		if s == "" && optional {
			result = ledger.Date{}
			return ""
		}
		d, err := ledger.ParseDate(s)
		if err != nil {
			return fmt.Sprintf("Invalid date format. Please use YYYY-MM-DD or %s to quit.", exitHint())
		}
		result = d
		return ""
	})
	return result, err
}

// Choice lists options with 1-based numbers and returns the picked one.
func (p *Prompter) Choice(prompt string, options []string) (string, error) {
	for i, opt := range options {
		p.Printf("%d. %s\n", i+1, opt)
	}
	n, err := p.Int(prompt, validation.Between(1, len(options)))
	if err != nil {
		return "", err
	}
	return options[n-1], nil
}
