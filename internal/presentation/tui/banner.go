package tui

import (
	"fmt"

	"github.com/muesli/termenv"
)

// PrintBanner outputs an ASCII art banner for the advisor service.
func PrintBanner(version string) {
	p := termenv.ColorProfile()
	// Green gradient, matching the FutureTree palette.
	s1 := termenv.String("     _       _       _                ").Foreground(p.Color("#4ade80"))
	s2 := termenv.String("    / \\   __| |_   _(_)___  ___  _ __ ").Foreground(p.Color("#34d399"))
	s3 := termenv.String("   / _ \\ / _` \\ \\ / / / __|/ _ \\| '__|").Foreground(p.Color("#2dd4bf"))
	s4 := termenv.String("  / ___ \\ (_| |\\ V /| \\__ \\ (_) | |   ").Foreground(p.Color("#22d3ee"))
	s5 := termenv.String(" /_/   \\_\\__,_| \\_/ |_|___/\\___/|_|   ").Foreground(p.Color("#38bdf8"))

	fmt.Println()
	fmt.Println(s1)
	fmt.Println(s2)
	fmt.Println(s3)
	fmt.Println(s4)
	fmt.Println(s5)
	fmt.Printf("  FutureTree Advisor %s\n\n", version)
}
