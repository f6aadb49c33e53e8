// Package notify shows the forecast balloon and user-facing error reports.
package notify

import (
	"context"
	"fmt"
	"io"
	"runtime"
	"time"

	"wxballoon/pkg/logger"
)

// Balloon is an open notification. Close must be called exactly once.
type Balloon interface {
	Close() error
}

type Notifier interface {
	Open(ctx context.Context, title, body string) (Balloon, error)
}

type Reporter interface {
	Alert(title, msg string) error
}

// Sink is a notifier that can also report errors.
type Sink interface {
	Notifier
	Reporter
}

const (
	KindTerminal = "terminal"
	KindDesktop  = "desktop"
)

// New returns the sink named by kind. Terminal output goes to w.
func New(kind string, w io.Writer, display time.Duration) (Sink, error) {
	switch kind {
	case KindTerminal, "":
		return NewTerminalNotifier(w), nil
	case KindDesktop:
		return NewDesktopNotifier(runtime.GOOS, display, nil), nil
	default:
		return nil, fmt.Errorf("unknown notifier %q", kind)
	}
}

// Display opens a balloon, keeps it up for d or until ctx is done, and
// closes it on every path.
func Display(ctx context.Context, n Notifier, title, body string, d time.Duration, l *logger.Logger) (err error) {
	b, err := n.Open(ctx, title, body)
	if err != nil {
		err = fmt.Errorf("show notification: %w", err)
		l.Error(err, map[string]any{"title": title})
		return err
	}

	l.Info("notification shown", map[string]any{"title": title, "body": body, "duration": d.String()})

	defer func() {
		if cerr := b.Close(); cerr != nil {
			cerr = fmt.Errorf("close notification: %w", cerr)
			l.Error(cerr, map[string]any{"title": title})
			if err == nil {
				err = cerr
			}
		}
		l.Info("notification closed", map[string]any{"title": title})
	}()

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
	case <-ctx.Done():
		l.Warning("notification interrupted", map[string]any{"title": title, "reason": ctx.Err().Error()})
	}

	return nil
}
