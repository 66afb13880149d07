package cli

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/fatih/color"
)

const bannerDefaultWidth = 60

var bannerColor = color.New(color.FgCyan, color.Bold)

// PrintBanner renders a box-drawing banner around a title using the default width.
func PrintBanner(w io.Writer, title string) {
	PrintBannerWidth(w, title, bannerDefaultWidth)
}

// PrintBannerWidth renders a banner of the given width, growing it to fit a longer title.
func PrintBannerWidth(w io.Writer, title string, width int) {
	if width < 10 {
		width = bannerDefaultWidth
	}

	inner := width - 2
	if n := utf8.RuneCountInString(title) + 2; n > inner {
		inner = n
	}

	topBottom := strings.Repeat("═", inner)
	bannerColor.Fprintf(w, "╔%s╗\n", topBottom)
	bannerColor.Fprintf(w, "║%s║\n", padCenter(title, inner))
	bannerColor.Fprintf(w, "╚%s╝\n", topBottom)
}

func padCenter(text string, width int) string {
	n := utf8.RuneCountInString(text)
	if n >= width {
		return string([]rune(text)[:width])
	}
	padTotal := width - n
	left := padTotal / 2
	return strings.Repeat(" ", left) + text + strings.Repeat(" ", padTotal-left)
}

func truncate(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(r[:maxLen])
	}
	return string(r[:maxLen-3]) + "..."
}

var (
	okColor   = color.New(color.FgGreen)
	errColor  = color.New(color.FgRed)
	warnColor = color.New(color.FgYellow)
)

func printOK(w io.Writer, format string, args ...interface{}) {
	okColor.Fprintf(w, "✓ "+format+"\n", args...)
}

func printErr(w io.Writer, err error) {
	errColor.Fprintf(w, "✗ %v\n", err)
}

func printWarn(w io.Writer, format string, args ...interface{}) {
	warnColor.Fprintf(w, "⚠ "+format+"\n", args...)
}

func writeLine(w io.Writer, format string, args ...interface{}) {
	fmt.Fprintf(w, format+"\n", args...)
}
