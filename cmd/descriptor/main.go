package main

import (
	"os"

	"github.com/ark-network/descriptor/internal/config"
	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

var version = "dev"

var appConfig *config.Config

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.WithError(err).Fatal("invalid config")
	}
	appConfig = cfg
	log.SetLevel(log.Level(cfg.LogLevel))

	app := cli.NewApp()

	app.Version = version
	app.Name = "descriptor CLI"
	app.Usage = "parse, validate and derive Bitcoin output script descriptors"
	app.Commands = append(
		app.Commands,
		&checksumCommand,
		&deriveKeyCommand,
		&keyExpressionCommand,
		&scriptExpressionCommand,
	)

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
