// Entrypoint for the battery-swap station network simulator. Delegates
// flag parsing and command dispatch to cmd/root.go.

package main

import (
	"github.com/batteryswap/swapsim/cmd"
)

func main() {
	cmd.Execute()
}
