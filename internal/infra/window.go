package infra

import (
	"encoding/json"
	"os/exec"
	"runtime"
	"strings"

	"github.com/eliteGoblin/wellbeingd/internal/domain"
)

// WindowQuerierImpl reports the foreground application's raw identifier by
// asking whatever display-server tooling is present. Each backend is probed
// once at construction; query failures afterwards are transient (locked
// screen, desktop focused) and reported as an empty identifier.
type WindowQuerierImpl struct {
	backend string
}

// Window query backends, in probe order.
const (
	backendHyprland = "hyprland"
	backendX11      = "x11"
	backendMacOS    = "macos"
	backendNone     = ""
)

// NewWindowQuerier detects the available window backend.
func NewWindowQuerier() domain.WindowQuerier {
	return &WindowQuerierImpl{backend: detectBackend()}
}

func detectBackend() string {
	if runtime.GOOS == "darwin" {
		return backendMacOS
	}
	if _, err := exec.LookPath("hyprctl"); err == nil {
		return backendHyprland
	}
	if _, err := exec.LookPath("xdotool"); err == nil {
		return backendX11
	}
	return backendNone
}

// ActiveWindow returns the raw class or title of the foreground app.
// Empty string with nil error means no determinable foreground app.
func (w *WindowQuerierImpl) ActiveWindow() (string, error) {
	switch w.backend {
	case backendHyprland:
		return w.activeHyprland()
	case backendX11:
		return w.activeX11()
	case backendMacOS:
		return w.activeMacOS()
	default:
		return "", nil
	}
}

type hyprlandWindow struct {
	Class string `json:"class"`
	Title string `json:"title"`
}

func (w *WindowQuerierImpl) activeHyprland() (string, error) {
	out, err := exec.Command("hyprctl", "activewindow", "-j").Output()
	if err != nil {
		return "", err
	}

	var win hyprlandWindow
	if err := json.Unmarshal(out, &win); err != nil {
		return "", err
	}

	// Prefer the window class (stable process identity) over the title.
	if win.Class != "" {
		return win.Class, nil
	}
	return win.Title, nil
}

func (w *WindowQuerierImpl) activeX11() (string, error) {
	// Window class of the focused window; falls back to the title when the
	// class is unavailable.
	out, err := exec.Command("xdotool", "getactivewindow", "getwindowclassname").Output()
	if err == nil {
		if class := strings.TrimSpace(string(out)); class != "" {
			return class, nil
		}
	}

	out, err = exec.Command("xdotool", "getactivewindow", "getwindowname").Output()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}

func (w *WindowQuerierImpl) activeMacOS() (string, error) {
	script := `tell application "System Events" to get name of first application process whose frontmost is true`
	out, err := exec.Command("osascript", "-e", script).Output()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}

// Ensure WindowQuerierImpl implements domain.WindowQuerier.
var _ domain.WindowQuerier = (*WindowQuerierImpl)(nil)
