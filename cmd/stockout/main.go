// cmd/stockout/main.go
package main

import (
	"os"

	"github.com/andresuchdata/wms-stockout/internal/config"
	"github.com/andresuchdata/wms-stockout/pkg/logger"
	"github.com/urfave/cli/v2"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		logger.Log.Fatal().Err(err).Msg("stockout command failed")
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "stockout",
		Usage: "Master data quality, snapshot dataset and 14-day stockout model",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "data-dir",
				Usage:   "Directory holding the maestro_*.xlsx workbooks",
				EnvVars: []string{"APP_DATA_DIR"},
			},
			&cli.StringFlag{
				Name:    "models-dir",
				Usage:   "Directory for model artifacts when STORAGE_BACKEND=local",
				EnvVars: []string{"APP_MODELS_DIR"},
			},
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "Log level (debug, info, warn, error)",
				EnvVars: []string{"LOG_LEVEL"},
				Value:   "info",
			},
		},
		Before: func(c *cli.Context) error {
			cfg := config.Load()
			logger.SetFormat(cfg.Log.Format)
			logger.SetLevel(c.String("log-level"))
			return nil
		},
		Commands: []*cli.Command{
			qualityCommand(),
			datasetCommand(),
			trainCommand(),
			predictCommand(),
			fetchMastersCommand(),
		},
	}
}

// loadConfig returns the shared config with the directory flags applied.
func loadConfig(c *cli.Context) *config.Config {
	cfg := *config.Load()
	if dir := c.String("data-dir"); dir != "" {
		cfg.App.DataDir = dir
	}
	if dir := c.String("models-dir"); dir != "" {
		cfg.App.ModelsDir = dir
	}
	return &cfg
}
