package main

import (
	"os"
	"path/filepath"

	"github.com/alecthomas/kong"
	kongtoml "github.com/alecthomas/kong-toml"
	kongyaml "github.com/alecthomas/kong-yaml"

	"github.com/pleimann/ctlmap/internal/cmd"
	"github.com/pleimann/ctlmap/internal/log"
	"github.com/pleimann/ctlmap/internal/ui"
	"github.com/pleimann/ctlmap/internal/utils"
)

const Version = "0.1.0"

func main() {
	settings := utils.ConfigDir()

	var cli cmd.CLI
	ctx := kong.Parse(&cli,
		kong.Name(utils.ExecutableName()),
		kong.Description("Map game controller and MIDI surface events to X11 keystrokes and commands.\n\n"+
			ui.FormatExamples(ui.Examples())),
		kong.UsageOnError(),
		kong.Vars{"version": Version},
		// Flag defaults may be set in the settings file; flags and env override them.
		kong.Configuration(kongyaml.Loader, filepath.Join(settings, "settings.yaml"), filepath.Join(settings, "settings.yml")),
		kong.Configuration(kongtoml.Loader, filepath.Join(settings, "settings.toml")),
	)

	logger, closeFiles, err := log.SetupLogger(cli.LogLevel(), cli.Log.File)
	if err != nil {
		ui.PrintFatalError(os.Stderr, "Failed to set up logging", err.Error())
		os.Exit(2)
	}

	ctx.Bind(logger)
	err = ctx.Run()

	for _, c := range closeFiles {
		_ = c.Close()
	}
	if err != nil {
		ui.PrintFatalError(os.Stderr, ctx.Command()+" failed", err.Error())
		os.Exit(1)
	}
}
