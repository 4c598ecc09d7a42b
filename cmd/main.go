// Command maratona maintains a cumulative contest/homework rating ledger:
// it ingests raw scoreboard JSON files, keeps per-competitor totals, and
// prints or exports the standings.
package main

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	"github.com/maratona/rating/internal/adapters/repository"
	"github.com/maratona/rating/internal/app"
	"github.com/maratona/rating/internal/config"
	"github.com/maratona/rating/internal/domain/model"
	"github.com/maratona/rating/internal/processor"
	"github.com/maratona/rating/pkg/logger"
)

func main() {
	// Optional .env next to the binary; absence is fine.
	_ = godotenv.Load()

	cliApp := &cli.App{
		Name:  "maratona",
		Usage: "cumulative rating ledger for contests and homeworks",
		Commands: []*cli.Command{
			newIngestCommand(),
			newStandingsCommand(),
			newExportCommand(),
			newReindexCommand(),
			newRecalcCommand(),
			newConfigCommand(),
			newStatusCommand(),
			newRemoveCommand(),
		},
	}

	if err := cliApp.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, color.RedString("error: %v", err))
		os.Exit(1)
	}
}

// boot loads process config, initializes logging, and returns a service with
// the persisted ledger already loaded.
func boot(ctx context.Context) (*app.Service, error) {
	cfg, err := config.Load(ctx)
	if err != nil {
		return nil, err
	}
	logger.Init()
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		logger.Get().Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel))
	}

	var storeOpts []repository.Option
	if cfg.PrettySave {
		storeOpts = append(storeOpts, repository.WithPretty())
	}
	var procOpts []processor.Option
	if cfg.LenientRows {
		procOpts = append(procOpts, processor.WithLenientRows())
	}

	svc := app.New(
		app.WithStore(repository.NewJSONStore(cfg.LedgerPath, storeOpts...)),
		app.WithScoringConfig(cfg.ScoringConfig()),
		app.WithProcessor(processor.New(procOpts...)),
	)
	if err := svc.Load(ctx); err != nil {
		return nil, err
	}
	return svc, nil
}

func newIngestCommand() *cli.Command {
	return &cli.Command{
		Name:  "ingest",
		Usage: "process one scoreboard JSON file",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "id", Usage: "unique event id", Required: true},
			&cli.StringFlag{Name: "file", Usage: "scoreboard JSON path", Required: true},
			&cli.StringFlag{Name: "kind", Usage: "contest or homework", Value: "contest"},
			&cli.IntFlag{Name: "duration", Usage: "event duration in minutes", Value: 300},
		},
		Action: func(c *cli.Context) error {
			svc, err := boot(c.Context)
			if err != nil {
				return err
			}
			kind, err := model.ParseKind(c.String("kind"))
			if err != nil {
				return err
			}
			report, err := svc.ProcessScoreboardFile(c.Context, c.String("id"), c.String("file"), kind, c.Int("duration"))
			if report != nil {
				for _, skip := range report.Skipped {
					fmt.Printf("  %s row %d (%s): %s\n", color.YellowString("skipped"), skip.Index, skip.Identity, skip.Reason)
				}
			}
			if err != nil {
				return err
			}
			mode := "updated"
			if report.FirstTime {
				mode = "new"
			}
			fmt.Printf("%s %s: %d participants, max on-time %d (report %s)\n",
				color.GreenString("%s event", mode), report.EventID, report.TotalParticipants, report.MaxOnTimeSolved, report.ID)
			return svc.Save(c.Context)
		},
	}
}

func newStandingsCommand() *cli.Command {
	return &cli.Command{
		Name:  "top",
		Usage: "print the standings",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "limit", Usage: "rows to show, 0 for all"},
		},
		Action: func(c *cli.Context) error {
			svc, err := boot(c.Context)
			if err != nil {
				return err
			}
			entries := svc.Standings()
			if limit := c.Int("limit"); limit > 0 && limit < len(entries) {
				entries = entries[:limit]
			}
			printStandings(entries)
			return nil
		},
	}
}

func printStandings(entries []model.Entry) {
	bold := color.New(color.Bold)
	bold.Printf("%4s  %-24s %-20s %10s %10s %10s %10s\n",
		"#", "competitor", "team", "contest", "homework", "upsolve", "total")
	for _, e := range entries {
		pos := "-"
		if e.Position > 0 {
			pos = strconv.Itoa(e.Position)
		}
		line := fmt.Sprintf("%4s  %-24s %-20s %10.2f %10.2f %10.2f %10.2f",
			pos, e.UserName, e.TeamName, e.ContestPoints, e.HomeworkPoints, e.UpsolvingPoints, e.FinalScore)
		switch {
		case e.Status == model.StatusGuest:
			color.Cyan("%s  (guest)", line)
		case !e.Eligible:
			fmt.Printf("%s  (below minimum)\n", line)
		default:
			fmt.Println(line)
		}
	}
}

func newExportCommand() *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "write the standings as CSV",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "out", Usage: "output CSV path", Value: "ranking.csv"},
		},
		Action: func(c *cli.Context) error {
			svc, err := boot(c.Context)
			if err != nil {
				return err
			}
			f, err := os.Create(c.String("out"))
			if err != nil {
				return err
			}
			defer f.Close()

			w := csv.NewWriter(f)
			if err := w.Write([]string{"position", "user", "team", "status", "contest_points", "homework_points", "upsolving_points", "final_score", "eligible"}); err != nil {
				return err
			}
			for _, e := range svc.Standings() {
				rec := []string{
					strconv.Itoa(e.Position),
					e.UserName,
					e.TeamName,
					string(e.Status),
					strconv.FormatFloat(e.ContestPoints, 'f', 2, 64),
					strconv.FormatFloat(e.HomeworkPoints, 'f', 2, 64),
					strconv.FormatFloat(e.UpsolvingPoints, 'f', 2, 64),
					strconv.FormatFloat(e.FinalScore, 'f', 2, 64),
					strconv.FormatBool(e.Eligible),
				}
				if err := w.Write(rec); err != nil {
					return err
				}
			}
			w.Flush()
			return w.Error()
		},
	}
}

func newReindexCommand() *cli.Command {
	return &cli.Command{
		Name:  "reindex",
		Usage: "reassign chronological indices from first-processed dates",
		Action: func(c *cli.Context) error {
			svc, err := boot(c.Context)
			if err != nil {
				return err
			}
			svc.ReassignOrderIndices()
			return svc.Save(c.Context)
		},
	}
}

func newRecalcCommand() *cli.Command {
	return &cli.Command{
		Name:  "recalc",
		Usage: "re-aggregate every competitor's totals",
		Action: func(c *cli.Context) error {
			svc, err := boot(c.Context)
			if err != nil {
				return err
			}
			svc.RecalculateAllScores()
			return svc.Save(c.Context)
		},
	}
}

func newConfigCommand() *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "inspect or edit scoring parameters",
		Subcommands: []*cli.Command{
			{
				Name:  "get",
				Usage: "print the ledger's scoring config",
				Action: func(c *cli.Context) error {
					svc, err := boot(c.Context)
					if err != nil {
						return err
					}
					fmt.Printf("%+v\n", svc.Config())
					return nil
				},
			},
			{
				Name:      "set",
				Usage:     "edit one parameter, e.g. config set contest_base_weight 100",
				ArgsUsage: "<name> <value>",
				Action: func(c *cli.Context) error {
					if c.NArg() != 2 {
						return fmt.Errorf("expected <name> <value>")
					}
					svc, err := boot(c.Context)
					if err != nil {
						return err
					}
					if err := svc.SetConfigValue(c.Context, c.Args().Get(0), c.Args().Get(1)); err != nil {
						return err
					}
					return svc.Save(c.Context)
				},
			},
		},
	}
}

func newStatusCommand() *cli.Command {
	return &cli.Command{
		Name:      "status",
		Usage:     "change a competitor's status (active|blacklisted|guest)",
		ArgsUsage: "<user> <status>",
		Action: func(c *cli.Context) error {
			if c.NArg() != 2 {
				return fmt.Errorf("expected <user> <status>")
			}
			svc, err := boot(c.Context)
			if err != nil {
				return err
			}
			status, err := model.ParseStatus(c.Args().Get(1))
			if err != nil {
				return err
			}
			if err := svc.SetStatus(c.Context, c.Args().Get(0), status); err != nil {
				return err
			}
			return svc.Save(c.Context)
		},
	}
}

func newRemoveCommand() *cli.Command {
	return &cli.Command{
		Name:  "remove",
		Usage: "administrative removal",
		Subcommands: []*cli.Command{
			{
				Name:      "competitor",
				ArgsUsage: "<user>",
				Action: func(c *cli.Context) error {
					if c.NArg() != 1 {
						return fmt.Errorf("expected <user>")
					}
					svc, err := boot(c.Context)
					if err != nil {
						return err
					}
					if err := svc.RemoveCompetitor(c.Context, c.Args().First()); err != nil {
						return err
					}
					return svc.Save(c.Context)
				},
			},
			{
				Name:      "event",
				ArgsUsage: "<event-id>",
				Action: func(c *cli.Context) error {
					if c.NArg() != 1 {
						return fmt.Errorf("expected <event-id>")
					}
					svc, err := boot(c.Context)
					if err != nil {
						return err
					}
					if err := svc.RemoveEvent(c.Context, c.Args().First()); err != nil {
						return err
					}
					return svc.Save(c.Context)
				},
			},
		},
	}
}
