package infra

import (
	"fmt"
	"os/exec"
	"runtime"

	"github.com/eliteGoblin/wellbeingd/internal/domain"
)

const notifierAppName = "Wellbeing"

// DesktopNotifier renders notifications via the OS notification mechanism
// (notify-send on Linux, osascript on macOS). The policy layer decides
// WHETHER to notify; this only delivers.
type DesktopNotifier struct{}

// NewDesktopNotifier creates a desktop notifier.
func NewDesktopNotifier() domain.Notifier {
	return &DesktopNotifier{}
}

// Notify sends a desktop notification. Missing tooling is not an error:
// notification delivery is best effort.
func (n *DesktopNotifier) Notify(title, body string, critical bool) error {
	if runtime.GOOS == "darwin" {
		script := fmt.Sprintf("display notification %q with title %q", body, title)
		return exec.Command("osascript", "-e", script).Run()
	}

	if _, err := exec.LookPath("notify-send"); err != nil {
		return nil
	}

	urgency := "normal"
	icon := "dialog-information"
	if critical {
		urgency = "critical"
		icon = "dialog-warning"
	}

	return exec.Command("notify-send",
		"--app-name="+notifierAppName,
		"--urgency="+urgency,
		"--icon="+icon,
		title, body,
	).Run()
}

// Ensure DesktopNotifier implements domain.Notifier.
var _ domain.Notifier = (*DesktopNotifier)(nil)
