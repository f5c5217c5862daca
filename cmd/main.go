package main

import (
	"os"

	"github.com/lightningnetwork/lnd/clock"
	"github.com/pterm/pterm"
)

func main() {
	app := newApp(clock.NewDefaultClock(), os.Stdout)
	if err := app.Run(os.Args); err != nil {
		pterm.Error.Println(err)
		os.Exit(1)
	}
}
