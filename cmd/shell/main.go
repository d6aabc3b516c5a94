package main

import (
	"context"
	"fmt"
	"os"

	"Equil/internal/shell"
)

const maxRuleWidth = 48

func main() {
	sh := shell.New(os.Stdin, os.Stdout)
	if w := shell.TerminalWidth(os.Stdout); w > 0 {
		sh.SetWidth(min(w, maxRuleWidth))
	}
	if err := sh.Run(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "shell:", err)
		os.Exit(1)
	}
}
