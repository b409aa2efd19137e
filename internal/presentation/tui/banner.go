package tui

import (
	"fmt"
	"strings"

	"github.com/muesli/termenv"
)

// PrintBanner outputs the ASCII art banner with the running version.
func PrintBanner(version string) {
	p := termenv.ColorProfile()
	// Subtle gradient-like color scheme (indigo to rose)
	lines := []struct {
		text  string
		color string
	}{
		{"  __  __                 _             ", "#818cf8"},
		{" |  \\/  | __ _  ___  ___| |_ _ __ ___  ", "#a78bfa"},
		{" | |\\/| |/ _` |/ _ \\/ __| __| '__/ _ \\ ", "#c084fc"},
		{" | |  | | (_| |  __/\\__ \\ |_| | | (_) |", "#e879f9"},
		{" |_|  |_|\\__,_|\\___||___/\\__|_|  \\___/ ", "#f472b6"},
	}

	fmt.Println()
	for _, l := range lines {
		fmt.Println(termenv.String(l.text).Foreground(p.Color(l.color)))
	}
	if version != "" {
		v := termenv.String(" v" + strings.TrimSpace(version)).Foreground(p.Color("#fb7185")).Faint()
		fmt.Println(v)
	}
	fmt.Println()
}
