// Package shell is the interactive text menu around the weak acid solver.
// It reads numbers from a line-oriented reader and never exits on a
// calculation failure.
package shell

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"Equil/internal/calc/weakacid"

	"github.com/containerd/console"
)

const defaultWidth = 16

var (
	errNotNumber   = fmt.Errorf("%w: input must be a number", weakacid.ErrInvalidInput)
	errNotPositive = fmt.Errorf("%w: c0 and Ka must be positive", weakacid.ErrInvalidInput)
)

type Shell struct {
	in    *bufio.Scanner
	out   io.Writer
	width int
}

func New(in io.Reader, out io.Writer) *Shell {
	return &Shell{in: bufio.NewScanner(in), out: out, width: defaultWidth}
}

// SetWidth sets the length of the separator lines around results.
func (s *Shell) SetWidth(n int) {
	if n > 0 {
		s.width = n
	}
}

// Run shows the menu until the user picks 0, input ends or ctx is done.
func (s *Shell) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		fmt.Fprintln(s.out, "===== Chemical Equilibrium Calculator =====")
		fmt.Fprintln(s.out, "1) Weak acid dissociation (HA <=> H+ + A-)")
		fmt.Fprintln(s.out, "0) Exit")
		choice, ok := s.prompt("Select an option: ")
		if !ok {
			return s.in.Err()
		}

		switch strings.TrimSpace(choice) {
		case "1":
			if !s.weakAcid() {
				return s.in.Err()
			}
		case "0":
			fmt.Fprintln(s.out, "Bye.")
			return nil
		default:
			fmt.Fprintln(s.out, "Invalid option, try again.")
			fmt.Fprintln(s.out)
		}
	}
}

// weakAcid runs one calculation turn. It reports false when input ended.
func (s *Shell) weakAcid() bool {
	fmt.Fprintln(s.out, "=== Weak acid equilibrium (HA <=> H+ + A-) ===")
	line, ok := s.prompt("Initial acid concentration c0 (mol/L): ")
	if !ok {
		return false
	}
	c0, err := parseNumber(line)
	if err != nil {
		fmt.Fprintln(s.out, Message(err))
		return true
	}
	line, ok = s.prompt("Acid dissociation constant Ka: ")
	if !ok {
		return false
	}
	ka, err := parseNumber(line)
	if err != nil {
		fmt.Fprintln(s.out, Message(err))
		return true
	}

	in, err := checkPositive(c0, ka)
	if err != nil {
		fmt.Fprintln(s.out, Message(err))
		return true
	}
	res, err := weakacid.Calculate(in)
	if err != nil {
		fmt.Fprintln(s.out, "Calculation failed:", Message(err))
		return true
	}
	WriteResult(s.out, res, s.width)
	return true
}

func (s *Shell) prompt(label string) (string, bool) {
	fmt.Fprint(s.out, label)
	if !s.in.Scan() {
		fmt.Fprintln(s.out)
		return "", false
	}
	return s.in.Text(), true
}

// ParseInput turns the two typed values into a solver input.
func ParseInput(c0, ka string) (weakacid.Input, error) {
	c, err := parseNumber(c0)
	if err != nil {
		return weakacid.Input{}, err
	}
	k, err := parseNumber(ka)
	if err != nil {
		return weakacid.Input{}, err
	}
	return checkPositive(c, k)
}

func parseNumber(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, errNotNumber
	}
	return v, nil
}

func checkPositive(c0, ka float64) (weakacid.Input, error) {
	in := weakacid.Input{C0: c0, Ka: ka}
	if !(c0 > 0) || !(ka > 0) {
		return in, errNotPositive
	}
	return in, nil
}

// Message is the user-facing text for a calculation error.
func Message(err error) string {
	var se *weakacid.SolveError
	if errors.As(err, &se) {
		return se.Kind.Error()
	}
	if errors.Is(err, weakacid.ErrInvalidInput) {
		return strings.TrimPrefix(err.Error(), weakacid.ErrInvalidInput.Error()+": ")
	}
	return err.Error()
}

// WriteResult prints concentrations in scientific notation and pH to 3 decimals.
func WriteResult(w io.Writer, res weakacid.Result, width int) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, "--- Result ---")
	fmt.Fprint(w, FormatResult(res))
	fmt.Fprintln(w, strings.Repeat("-", width))
	fmt.Fprintln(w)
}

func FormatResult(res weakacid.Result) string {
	var b strings.Builder
	fmt.Fprintf(&b, "[HA]  = %.6e mol/L\n", res.HA)
	fmt.Fprintf(&b, "[A-]  = %.6e mol/L\n", res.AMinus)
	fmt.Fprintf(&b, "[H+]  = %.6e mol/L\n", res.HPlus)
	fmt.Fprintf(&b, "pH    = %.3f\n", res.PH)
	return b.String()
}

// TerminalWidth returns the column count of f, or 0 if f is not a terminal.
func TerminalWidth(f *os.File) int {
	c, err := console.ConsoleFromFile(f)
	if err != nil {
		return 0
	}
	size, err := c.Size()
	if err != nil {
		return 0
	}
	return int(size.Width)
}
