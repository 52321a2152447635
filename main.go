package main

import (
	"os"

	"guild_war_stats/internal/app"
	"guild_war_stats/internal/cli"
)

func main() {
	app.SetupEnvironment()

	if err := cli.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
