package notify

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

var (
	blue  = lipgloss.Color("#1E88E5")
	red   = lipgloss.Color("#D93025")
	slate = lipgloss.Color("#667085")
)

var (
	balloonStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(blue).
			Padding(0, 1)

	balloonTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(blue)

	alertStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(red).
			Padding(0, 1)

	alertTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(red)

	closedStyle = lipgloss.NewStyle().
			Foreground(slate).
			Faint(true)
)

// TerminalNotifier draws balloons and alerts as boxes on a writer.
type TerminalNotifier struct {
	w io.Writer
}

func NewTerminalNotifier(w io.Writer) *TerminalNotifier {
	return &TerminalNotifier{w: w}
}

func (n *TerminalNotifier) Open(_ context.Context, title, body string) (Balloon, error) {
	box := balloonStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
		balloonTitleStyle.Render(title),
		body,
	))
	if _, err := fmt.Fprintln(n.w, box); err != nil {
		return nil, err
	}
	return &terminalBalloon{w: n.w}, nil
}

func (n *TerminalNotifier) Alert(title, msg string) error {
	box := alertStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
		alertTitleStyle.Render(title),
		msg,
	))
	_, err := fmt.Fprintln(n.w, box)
	return err
}

type terminalBalloon struct {
	w    io.Writer
	once sync.Once
}

func (b *terminalBalloon) Close() error {
	var err error
	b.once.Do(func() {
		_, err = fmt.Fprintln(b.w, closedStyle.Render("(通知終了)"))
	})
	return err
}
