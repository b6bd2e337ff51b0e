// main is the entry point for the rusalad CLI.
package main

import (
	"github.com/rusalad/rusalad/cmd"
	"github.com/rusalad/rusalad/internal/contract"
	"github.com/rusalad/rusalad/internal/runstore"
)

func main() {
	cmd.SetStoreManager(runstore.Manager)
	defer runstore.CloseStores()

	if err := cmd.Execute(); err != nil {
		runstore.CloseStores()
		contract.LogFatal("Command failed", err)
	}
}
