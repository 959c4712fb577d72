// © 2025 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

package main

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

// printBanner tells the operator where the files are served.
func printBanner(w io.Writer, cfg serverConfig, lan []string, colored bool) {
	link := color.New(color.FgCyan, color.Underline)
	if colored {
		link.EnableColor()
	} else {
		link.DisableColor()
	}

	fmt.Fprintf(w, "Serving %s at %s\n", cfg.root, link.Sprint(cfg.primaryURL()))
	if len(lan) > 0 {
		fmt.Fprintln(w, "On your network:")
		for _, ip := range lan {
			fmt.Fprintf(w, "  %s\n", link.Sprint(cfg.url(ip)))
		}
	}
	fmt.Fprintln(w, "Press Ctrl+C to stop.")
}
