package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanonical_ExactMatches(t *testing.T) {
	assert.Equal(t, "Firefox", Canonical("firefox"))
	assert.Equal(t, "Discord", Canonical("discord"))
	assert.Equal(t, "Spotify", Canonical("spotify"))
	assert.Equal(t, "Visual Studio Code", Canonical("code"))
	assert.Equal(t, "Zed", Canonical("zed"))
}

func TestCanonical_CaseInsensitive(t *testing.T) {
	assert.Equal(t, "Firefox", Canonical("FIREFOX"))
	assert.Equal(t, "Firefox", Canonical("Firefox"))
	assert.Equal(t, "Discord", Canonical("DISCORD"))
}

func TestCanonical_ContainsPatterns(t *testing.T) {
	assert.Equal(t, "Firefox", Canonical("Mozilla Firefox"))
	assert.Equal(t, "Alacritty", Canonical("alacritty-terminal"))
	assert.Equal(t, "Telegram", Canonical("org.telegram.desktop"))
	assert.Equal(t, "Chrome", Canonical("google-chrome"))
	assert.Equal(t, "Brave", Canonical("brave-browser"))
}

func TestCanonical_EditorWindowTitle(t *testing.T) {
	assert.Equal(t, "Visual Studio Code", Canonical("main.go - wellbeingd - Code"))
}

func TestCanonical_StripPathAndExe(t *testing.T) {
	assert.Equal(t, "Firefox", Canonical("/usr/bin/firefox"))
	assert.Equal(t, "Spotify", Canonical(`C:\Program Files\Spotify\spotify.exe`))
	assert.Equal(t, "Myapp", Canonical("myapp.exe"))
}

func TestCanonical_StripVersionSuffix(t *testing.T) {
	assert.Equal(t, "Myapp", Canonical("myapp-v2.1"))
	assert.Equal(t, "Myapp", Canonical("myapp_3.0.1"))
}

func TestCanonical_StripDecoration(t *testing.T) {
	// Unknown app name sat behind a decorated title.
	assert.Equal(t, "Someviewer", Canonical("report.pdf - someviewer"))
	assert.Equal(t, "Firefox", Canonical("GitHub - Mozilla Firefox"))
}

func TestCanonical_FallbackCapitalizes(t *testing.T) {
	assert.Equal(t, "Unknownapp", Canonical("unknownapp"))
	assert.Equal(t, "MyCustomApp", Canonical("myCustomApp"))
}

func TestCanonical_TotalFunction(t *testing.T) {
	// Never empty, whatever the input.
	assert.Equal(t, "Unknown", Canonical(""))
	assert.Equal(t, "Unknown", Canonical("   "))
	assert.NotEmpty(t, Canonical("a"))
}

func TestCanonical_Deterministic(t *testing.T) {
	for i := 0; i < 3; i++ {
		assert.Equal(t, Canonical("kitty"), Canonical("kitty"))
	}
}

func TestCanonical_TerminalVariants(t *testing.T) {
	assert.Equal(t, "kitty", Canonical("kitty"))
	assert.Equal(t, "Ghostty", Canonical("ghostty"))
	assert.Equal(t, "WezTerm", Canonical("wezterm-gui"))
	assert.Equal(t, "Terminal", Canonical("gnome-terminal-server"))
}
