// Package normalize maps raw window/process identifiers to canonical
// application names. The mapping is data: adding an app means adding a
// table entry, never a branch.
package normalize

import (
	"path/filepath"
	"regexp"
	"strings"
	"unicode"
)

// mapping associates a raw identifier with a canonical display name.
// exact matches the lowercased identifier verbatim (fast path); contains
// matches anywhere in the lowercased identifier (slow path, in order).
type mapping struct {
	exact    string
	contains string
	display  string
}

var mappings = []mapping{
	// Browsers
	{exact: "firefox", contains: "firefox", display: "Firefox"},
	{exact: "google-chrome", contains: "chrome", display: "Chrome"},
	{exact: "chromium", contains: "chromium", display: "Chromium"},
	{exact: "brave-browser", contains: "brave", display: "Brave"},
	{exact: "zen-alpha", contains: "zen", display: "Zen Browser"},
	{exact: "msedge", contains: "edge", display: "Microsoft Edge"},
	// Editors and IDEs
	{exact: "code", contains: "visual studio code", display: "Visual Studio Code"},
	{exact: "vscodium", display: "VSCodium"},
	{exact: "zed", display: "Zed"},
	{exact: "cursor", display: "Cursor"},
	{contains: "notepad++", display: "Notepad++"},
	{contains: "sublime_text", display: "Sublime Text"},
	// Terminals
	{contains: "alacritty", display: "Alacritty"},
	{exact: "kitty", contains: "kitty", display: "kitty"},
	{contains: "ghostty", display: "Ghostty"},
	{contains: "wezterm", display: "WezTerm"},
	{contains: "konsole", display: "Terminal"},
	{contains: "gnome-terminal", display: "Terminal"},
	{contains: "windowsterminal", display: "Windows Terminal"},
	{exact: "cmd", display: "Command Prompt"},
	{exact: "powershell", display: "PowerShell"},
	// Communication
	{exact: "discord", contains: "discord", display: "Discord"},
	{exact: "slack", display: "Slack"},
	{contains: "telegram", display: "Telegram"},
	{contains: "thunderbird", display: "Thunderbird"},
	{contains: "teams", display: "Microsoft Teams"},
	// Media
	{exact: "spotify", display: "Spotify"},
	{contains: "vlc", display: "VLC"},
	// Productivity
	{exact: "obsidian", display: "Obsidian"},
	{contains: "libreoffice", display: "LibreOffice"},
	{contains: "notion", display: "Notion"},
	// File managers
	{exact: "nautilus", display: "Files"},
	{exact: "org.gnome.nautilus", display: "Files"},
	{exact: "thunar", display: "Thunar"},
	{exact: "dolphin", display: "Dolphin"},
	// Gaming
	{exact: "steam", display: "Steam"},
	// Graphics
	{exact: "gimp", display: "GIMP"},
	{exact: "inkscape", display: "Inkscape"},
	{contains: "blender", display: "Blender"},
}

// titlePatterns handle apps recognizable only by window title, matched
// case-sensitively before the contains pass.
var titlePatterns = []mapping{
	{contains: "- Code", display: "Visual Studio Code"},
}

var exactIndex = buildExactIndex()

func buildExactIndex() map[string]string {
	idx := make(map[string]string, len(mappings))
	for _, m := range mappings {
		if m.exact != "" {
			idx[m.exact] = m.display
		}
	}
	return idx
}

// heuristic is one ordered cleanup rule applied on lookup miss.
type heuristic struct {
	name  string
	apply func(string) string
}

var versionSuffix = regexp.MustCompile(`(?i)[-_. ]v?\d+(\.\d+)*$`)

var heuristics = []heuristic{
	{"strip-path", func(s string) string {
		if strings.ContainsRune(s, '/') || strings.ContainsRune(s, '\\') {
			return filepath.Base(strings.ReplaceAll(s, "\\", "/"))
		}
		return s
	}},
	{"strip-exe", func(s string) string {
		return strings.TrimSuffix(strings.TrimSuffix(s, ".exe"), ".Exe")
	}},
	{"strip-decoration", func(s string) string {
		// Window managers decorate titles as "document - App"; the app
		// name is the last segment.
		for _, sep := range []string{" — ", " - "} {
			if i := strings.LastIndex(s, sep); i >= 0 {
				s = s[i+len(sep):]
			}
		}
		return strings.TrimSpace(s)
	}},
	{"strip-version", func(s string) string {
		out := versionSuffix.ReplaceAllString(s, "")
		if out == "" {
			return s
		}
		return out
	}},
}

// Canonical returns the canonical app name for a raw window or process
// identifier. It is deterministic, does no I/O, and always returns a name:
// unknown identifiers fall back to a cleaned, capitalized form of the input.
func Canonical(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "Unknown"
	}

	if name, ok := lookup(raw); ok {
		return name
	}

	// Lookup miss: apply cleanup rules in order, then try once more.
	cleaned := raw
	for _, h := range heuristics {
		cleaned = h.apply(cleaned)
	}
	if name, ok := lookup(cleaned); ok {
		return name
	}

	if cleaned == "" {
		cleaned = raw
	}
	return capitalizeFirst(cleaned)
}

func lookup(s string) (string, bool) {
	lower := strings.ToLower(s)

	if name, ok := exactIndex[lower]; ok {
		return name, true
	}
	for _, p := range titlePatterns {
		if strings.Contains(s, p.contains) {
			return p.display, true
		}
	}
	for _, m := range mappings {
		if m.contains != "" && strings.Contains(lower, m.contains) {
			return m.display, true
		}
	}
	return "", false
}

func capitalizeFirst(s string) string {
	r := []rune(s)
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}
