package main

import (
	"fmt"
	"os"

	"github.com/PolarWolf314/kringle/cmd"
	"github.com/PolarWolf314/kringle/internal/ui"
)

func main() {
	if err := cmd.KringleCmd.Execute(); err != nil {
		if !cmd.IsReported(err) {
			fmt.Fprintln(os.Stderr, ui.Cross()+" "+err.Error())
		}
		os.Exit(1)
	}
}
