package display

import (
	_ "embed"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/term"
)

//go:embed banner.txt
var bannerArt string

// RenderBanner centres the banner in width columns; 0 means the terminal
// width. Terminals narrower than the art get the plain name instead.
func RenderBanner(width int) string {
	if width <= 0 {
		width = termWidth()
	}
	art := strings.TrimRight(bannerArt, "\n")
	if lipgloss.Width(art) > width {
		return BannerStyle.Render("CoffeePad") + "\n"
	}
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, BannerStyle.Render(art)) + "\n"
}

func termWidth() int {
	if w, _, err := term.GetSize(os.Stdout.Fd()); err == nil && w > 0 {
		return w
	}
	return 80
}
