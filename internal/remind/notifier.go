package remind

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"

	"github.com/twiced-technology-gmbh/fivetodo/internal/task"
)

// Notifier delivers a reminder for a task.
type Notifier interface {
	Notify(ctx context.Context, t *task.Task) error
}

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("214"))
	bodyStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
)

// TerminalNotifier rings the terminal bell and prints the reminder.
type TerminalNotifier struct {
	W    io.Writer
	Bell bool
}

// Notify implements Notifier.
func (n TerminalNotifier) Notify(_ context.Context, t *task.Task) error {
	title, body := Message(t)
	if n.Bell {
		if _, err := io.WriteString(n.W, "\a"); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintln(n.W, titleStyle.Render(title)); err != nil {
		return err
	}
	if body != "" {
		if _, err := fmt.Fprintln(n.W, "  "+bodyStyle.Render(body)); err != nil {
			return err
		}
	}
	return nil
}
