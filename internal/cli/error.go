package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/lipgloss"

	"github.com/macropower/rtool/pkg/config"
)

// errorHint is rendered below an error as "<prefix> <command> <suffix>".
type errorHint struct {
	prefix  string
	command string
	suffix  string
}

// ErrorHandler renders command errors for [fang.WithErrorHandler], followed
// by a hint for errors the user can act on.
func ErrorHandler(w io.Writer, styles fang.Styles, err error) {
	mustN(fmt.Fprintln(w, styles.ErrorHeader.String()))
	mustN(fmt.Fprintln(w, lipgloss.NewStyle().MarginLeft(2).Render(err.Error())))
	mustN(fmt.Fprintln(w))

	hint, ok := hintFor(err)
	if !ok {
		return
	}

	mustN(fmt.Fprintln(w, lipgloss.JoinHorizontal(
		lipgloss.Left,
		styles.ErrorText.UnsetWidth().Render(hint.prefix),
		styles.Program.Flag.Render(hint.command),
		styles.ErrorText.UnsetWidth().UnsetMargins().UnsetTransform().PaddingLeft(1).Render(hint.suffix),
	)))
	mustN(fmt.Fprintln(w))
}

func hintFor(err error) (errorHint, bool) {
	switch {
	case isUsageError(err):
		return errorHint{prefix: "Try", command: "--help", suffix: "for usage."}, true
	case errors.Is(err, config.ErrNotFound):
		return errorHint{prefix: "Run", command: "rtool config init", suffix: "or pass --config."}, true
	case errors.Is(err, ErrDecisionsFailed):
		return errorHint{prefix: "Run with", command: "--log-level debug", suffix: "for engine details."}, true
	}

	return errorHint{}, false
}

// XXX: cobra does not type its usage errors.
// See: https://github.com/spf13/cobra/pull/2266
func isUsageError(err error) bool {
	s := err.Error()
	for _, prefix := range []string{
		"flag needs an argument:",
		"unknown flag:",
		"unknown shorthand flag:",
		"unknown command",
		"invalid argument",
		"accepts ",
		"requires at least ",
	} {
		if strings.HasPrefix(s, prefix) {
			return true
		}
	}

	return false
}

func must(err error) {
	if err != nil {
		panic(err)
	}
}

func mustN(_ int, err error) {
	must(err)
}
