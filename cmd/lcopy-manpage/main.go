package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra/doc"

	"github.com/arthur-debert/lcopy/cmd/lcopy"
	"github.com/arthur-debert/lcopy/internal/version"
)

func main() {
	rootCmd := lcopy.NewRootCmd()

	header := &doc.GenManHeader{
		Title:   "LCOPY",
		Section: "1",
		Source:  "lcopy " + version.Version,
		Manual:  "lcopy manual",
	}

	err := doc.GenMan(rootCmd, header, os.Stdout)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error generating man page: %v\n", err)
		os.Exit(1)
	}
}
