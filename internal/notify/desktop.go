package notify

import (
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"
)

// Runner executes an external command.
type Runner func(ctx context.Context, name string, args ...string) error

func execRunner(ctx context.Context, name string, args ...string) error {
	out, err := exec.CommandContext(ctx, name, args...).CombinedOutput()
	if err != nil {
		return fmt.Errorf("%s: %w: %s", name, err, strings.TrimSpace(string(out)))
	}
	return nil
}

// DesktopNotifier posts notifications through notify-send on Linux and
// osascript on macOS.
type DesktopNotifier struct {
	goos    string
	display time.Duration
	run     Runner
}

// NewDesktopNotifier uses os/exec when run is nil.
func NewDesktopNotifier(goos string, display time.Duration, run Runner) *DesktopNotifier {
	if run == nil {
		run = execRunner
	}
	return &DesktopNotifier{goos: goos, display: display, run: run}
}

func (n *DesktopNotifier) Open(ctx context.Context, title, body string) (Balloon, error) {
	if err := n.post(ctx, title, body, false); err != nil {
		return nil, err
	}
	return desktopBalloon{}, nil
}

func (n *DesktopNotifier) Alert(title, msg string) error {
	return n.post(context.Background(), title, msg, true)
}

func (n *DesktopNotifier) post(ctx context.Context, title, body string, critical bool) error {
	switch n.goos {
	case "linux", "freebsd", "openbsd", "netbsd":
		args := []string{"--app-name=wxballoon"}
		if critical {
			args = append(args, "--urgency=critical")
		} else {
			args = append(args, "--expire-time="+strconv.FormatInt(n.display.Milliseconds(), 10))
		}
		return n.run(ctx, "notify-send", append(args, title, body)...)
	case "darwin":
		script := fmt.Sprintf("display notification %s with title %s", appleScriptString(body), appleScriptString(title))
		return n.run(ctx, "osascript", "-e", script)
	default:
		return fmt.Errorf("desktop notifications are not supported on %s", n.goos)
	}
}

func appleScriptString(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`)
	return `"` + r.Replace(s) + `"`
}

// desktopBalloon expires on the desktop's own timer.
type desktopBalloon struct{}

func (desktopBalloon) Close() error { return nil }
