package main

import (
	"fmt"

	"github.com/andresuchdata/wms-stockout/internal/drive"
	"github.com/andresuchdata/wms-stockout/internal/service"
	"github.com/andresuchdata/wms-stockout/internal/storage"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"
)

const (
	sourceDrive   = "drive"
	sourceStorage = "storage"
)

func fetchMastersCommand() *cli.Command {
	return &cli.Command{
		Name:  "fetch-masters",
		Usage: "Download the maestro_*.xlsx workbooks into the data directory",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "source",
				Usage: "Where the workbooks live: drive or storage (the configured object store)",
				Value: sourceDrive,
			},
			&cli.StringFlag{
				Name:    "folder",
				Usage:   "Drive folder ID, or key prefix when --source=storage",
				EnvVars: []string{"GOOGLE_DRIVE_FOLDER_ID"},
			},
			&cli.StringFlag{
				Name:  "folder-path",
				Usage: "Drive folder path from the root (e.g. WMS/maestros), used when --folder is empty",
			},
		},
		Action: func(c *cli.Context) error {
			cfg := loadConfig(c)
			folder := c.String("folder")

			var source drive.FileSource
			switch c.String("source") {
			case sourceDrive:
				svc, err := drive.NewService(c.Context, cfg.Drive.CredentialsJSON)
				if err != nil {
					return err
				}
				if folder == "" && c.String("folder-path") != "" {
					if folder, err = svc.FindFolderByPath(c.Context, c.String("folder-path")); err != nil {
						return err
					}
				}
				source = svc
			case sourceStorage:
				store, err := storage.New(cfg.Storage, cfg.App.ModelsDir)
				if err != nil {
					return err
				}
				source = drive.NewStorageSource(store)
			default:
				return fmt.Errorf("unknown source %q (want %s or %s)", c.String("source"), sourceDrive, sourceStorage)
			}

			paths, err := drive.NewFetcher(source).FetchMasters(c.Context, drive.FetchOptions{
				FolderID:    folder,
				DownloadDir: cfg.App.DataDir,
			})
			if err != nil {
				return err
			}
			if err := service.InvalidateCaches(c.Context, cfg.Cache); err != nil {
				log.Warn().Err(err).Msg("workbooks replaced but cache invalidation failed")
			}
			for _, p := range paths {
				fmt.Fprintln(c.App.Writer, p)
			}
			return nil
		},
	}
}
