package cli

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"golang.org/x/term"
)

// TerminalConfirmer спрашивает подтверждение в терминале.
type TerminalConfirmer struct {
	In  io.Reader
	Out io.Writer

	// Interactive сообщает, можно ли задать вопрос. nil — можно всегда.
	Interactive func() bool

	Logger *slog.Logger
}

// NewTerminalConfirmer читает ответ из stdin, вопрос пишет в stderr.
func NewTerminalConfirmer(logger *slog.Logger) *TerminalConfirmer {
	return &TerminalConfirmer{
		In:  os.Stdin,
		Out: os.Stderr,
		Interactive: func() bool {
			return term.IsTerminal(int(os.Stdin.Fd()))
		},
		Logger: logger,
	}
}

// Confirm реализует invoke.Confirmer. Без терминала отвечает "нет".
func (c *TerminalConfirmer) Confirm(forced bool, resource, action string) bool {
	if forced {
		return true
	}
	if c.Interactive != nil && !c.Interactive() {
		if c.Logger != nil {
			c.Logger.Warn("confirmation required but stdin is not a terminal, pass --force to proceed",
				"action", action)
		}
		return false
	}

	fmt.Fprintf(c.Out, "Are you sure you want to perform this action?\n"+
		"Performing the operation %q on target %q.\n[y/N]: ", action, resource)

	answer, _ := bufio.NewReader(c.In).ReadString('\n')
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true
	default:
		return false
	}
}
