package prompt

import (
	"os"
	"regexp"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

var hexColor = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// ApplyColorProfile configures Lip Gloss for plain CLI output. NO_COLOR wins;
// otherwise termenv decides, which also honors CLICOLOR/CLICOLOR_FORCE.
// It reports whether colors are enabled.
func ApplyColorProfile() bool {
	if strings.TrimSpace(os.Getenv("NO_COLOR")) != "" {
		lipgloss.SetColorProfile(termenv.Ascii)
		return false
	}
	profile := termenv.EnvColorProfile()
	lipgloss.SetColorProfile(profile)
	return profile != termenv.Ascii
}

// ColorBlock renders size block glyphs in an HTML hex color such as #ffd400.
// Anything else is rendered uncolored.
func ColorBlock(color string, size int) string {
	if size <= 0 {
		size = 5
	}
	block := strings.Repeat("█", size)
	c := strings.TrimSpace(color)
	if !hexColor.MatchString(c) {
		return block
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(strings.ToLower(c))).Render(block)
}
