package main

import (
	"fmt"
	"path/filepath"
	"text/tabwriter"

	"github.com/andresuchdata/wms-stockout/internal/model"
	"github.com/andresuchdata/wms-stockout/internal/pipeline/snapshot"
	"github.com/andresuchdata/wms-stockout/internal/service"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"
)

func newPeriodsFlag() *cli.IntFlag {
	return &cli.IntFlag{
		Name:    "periods",
		Usage:   "Snapshots generated per service",
		EnvVars: []string{"APP_PERIODS"},
		Value:   service.DefaultPeriods,
	}
}

func withService(c *cli.Context, fn func(svc *service.StockoutService) error) error {
	svc, cleanup, err := service.Bootstrap(c.Context, loadConfig(c))
	if err != nil {
		return err
	}
	defer cleanup()
	return fn(svc)
}

func qualityCommand() *cli.Command {
	return &cli.Command{
		Name:  "quality",
		Usage: "Print the data quality report of the masters",
		Action: func(c *cli.Context) error {
			return withService(c, func(svc *service.StockoutService) error {
				report := svc.Quality(c.Context)
				out := c.App.Writer

				w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
				fmt.Fprintln(w, "MAESTRO\tREGISTROS\tIDS_UNICOS\tIDS_DUPLICADOS\tNULOS\tRUC_INVALIDOS")
				for _, s := range report.Summary {
					ruc := "-"
					if s.InvalidRUC != nil {
						ruc = fmt.Sprint(*s.InvalidRUC)
					}
					fmt.Fprintf(w, "%s\t%d\t%d\t%d\t%d\t%s\n", s.Master, s.Records, s.UniqueIDs, s.DuplicateIDs, s.TotalNulls, ruc)
				}
				if err := w.Flush(); err != nil {
					return err
				}

				for _, s := range report.Summary {
					fields := report.TopMissing[s.Master]
					if len(fields) == 0 {
						continue
					}
					fmt.Fprintf(out, "\nTop faltantes %s:\n", s.Master)
					for _, f := range fields {
						fmt.Fprintf(out, "  %-28s %6.2f%%\n", f.Field, f.PctMissing)
					}
				}
				return nil
			})
		},
	}
}

func datasetCommand() *cli.Command {
	return &cli.Command{
		Name:  "dataset",
		Usage: "Synthesize the snapshot dataset and export it as CSV",
		Flags: []cli.Flag{
			newPeriodsFlag(),
			&cli.StringFlag{
				Name:  "out",
				Usage: "CSV output path (defaults to <data-dir>/dataset_stockout14d.csv)",
			},
		},
		Action: func(c *cli.Context) error {
			return withService(c, func(svc *service.StockoutService) error {
				periods := c.Int("periods")
				rows, err := svc.Dataset(c.Context, periods)
				if err != nil {
					return err
				}

				path := c.String("out")
				if path == "" {
					path = filepath.Join(loadConfig(c).App.DataDir, "dataset_stockout14d.csv")
				}
				if err := snapshot.WriteCSVFile(path, rows); err != nil {
					return err
				}

				summary := snapshot.Summarize(rows, periods)
				log.Info().Str("path", path).Int("rows", summary.Rows).Msg("dataset exported")
				fmt.Fprintf(c.App.Writer, "Registros generados: %d (servicios: %d, positivos: %.2f%%)\n",
					summary.Rows, summary.Services, summary.PositiveRate)
				return nil
			})
		},
	}
}

func trainCommand() *cli.Command {
	return &cli.Command{
		Name:  "train",
		Usage: "Train the stockout model, or reuse the persisted one",
		Flags: []cli.Flag{
			newPeriodsFlag(),
			&cli.BoolFlag{
				Name:    "retrain",
				Usage:   "Fit a new model even when artifacts exist",
				EnvVars: []string{"APP_RETRAIN_ON_START"},
			},
		},
		Action: func(c *cli.Context) error {
			return withService(c, func(svc *service.StockoutService) error {
				res, err := svc.Train(c.Context, c.Int("periods"), c.Bool("retrain"))
				if err != nil {
					return err
				}

				out := c.App.Writer
				m := res.Metrics
				if res.Trained {
					fmt.Fprintln(out, "Modelo entrenado y guardado")
				} else {
					fmt.Fprintln(out, "Modelo existente reutilizado (use --retrain para reentrenar)")
				}
				fmt.Fprintf(out, "accuracy=%.4f roc_auc=%.4f precision=%.4f recall=%.4f f1=%.4f\n",
					m.Accuracy, m.ROCAUC, m.PrecisionPos, m.RecallPos, m.F1Pos)
				fmt.Fprintf(out, "confusion_matrix=%v train_rows=%d test_rows=%d\n", m.ConfusionMatrix, m.TrainRows, m.TestRows)
				return nil
			})
		},
	}
}

func predictCommand() *cli.Command {
	return &cli.Command{
		Name:  "predict",
		Usage: "Score one service and period, optionally with form overrides",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "servicio", Usage: "ServicioID", Required: true},
			&cli.IntFlag{Name: "periodo", Usage: "Periodo (1-based)", Required: true},
			&cli.IntFlag{Name: "stock", Usage: "StockActual override"},
			&cli.Float64Flag{Name: "demanda", Usage: "DemandaDiariaEst override"},
			&cli.IntFlag{Name: "dias-rec", Usage: "DiasHastaRecepcion override"},
			&cli.IntFlag{Name: "rec-pend", Usage: "RecepcionPendiente override"},
			&cli.IntFlag{Name: "horizonte", Usage: "Horizon in days for the message", Value: model.DefaultHorizonDays},
		},
		Action: func(c *cli.Context) error {
			return withService(c, func(svc *service.StockoutService) error {
				var (
					pred model.Prediction
					err  error
				)
				if isFormPrediction(c) {
					pred, err = svc.PredictForm(c.Context, c.String("servicio"), c.Int("periodo"), model.FormInput{
						StockActual:        c.Int("stock"),
						DemandaDiariaEst:   c.Float64("demanda"),
						DiasHastaRecepcion: c.Int("dias-rec"),
						RecepcionPendiente: c.Int("rec-pend"),
						HorizonDays:        c.Int("horizonte"),
					})
				} else {
					pred, err = svc.PredictSnapshot(c.Context, c.String("servicio"), c.Int("periodo"))
				}
				if err != nil {
					return err
				}

				fmt.Fprintf(c.App.Writer, "Probabilidad de rotura: %.1f%% (%s)\n%s\n", pred.Probability*100, pred.Risk, pred.Message)
				return nil
			})
		},
	}
}

// isFormPrediction reports whether all four form overrides were given.
func isFormPrediction(c *cli.Context) bool {
	return c.IsSet("stock") && c.IsSet("demanda") && c.IsSet("dias-rec") && c.IsSet("rec-pend")
}
