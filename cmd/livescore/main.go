// Command livescore follows fixtures and matches from the terminal.
//
// Usage:
//
//	livescore leagues
//	livescore fixtures --league 4335 --watch
//	livescore match 2070001 --watch
//	livescore raw /lookupevent.php id=2070001
package main

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/riskibarqy/matchday/external/thesportsdb"
	"github.com/riskibarqy/matchday/internal/app"
	"github.com/riskibarqy/matchday/internal/config"
	"github.com/riskibarqy/matchday/internal/domain/fixture"
	"github.com/riskibarqy/matchday/internal/livefeed"
	"github.com/riskibarqy/matchday/internal/platform/logging"
	"github.com/riskibarqy/matchday/internal/usecase"
	"github.com/spf13/cobra"
)

type cliEnv struct {
	cfg      config.Config
	logger   *logging.Logger
	client   *thesportsdb.Client
	services *app.Services
}

func main() {
	config.LoadDotEnv(".env")

	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var verbose bool
	root := &cobra.Command{
		Use:          "livescore",
		Short:        "Football fixtures, timelines and live scores from TheSportsDB",
		SilenceUsage: true,
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log upstream requests and retries")

	run := func(fn func(ctx context.Context, env *cliEnv, out io.Writer) error) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, _ []string) error {
			return runCLI(cmd, verbose, fn)
		}
	}

	root.AddCommand(leaguesCmd(run))
	root.AddCommand(fixturesCmd(run))
	root.AddCommand(matchCmd(&verbose))
	root.AddCommand(rawCmd(&verbose))
	return root
}

type runFunc func(fn func(ctx context.Context, env *cliEnv, out io.Writer) error) func(*cobra.Command, []string) error

func leaguesCmd(run runFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "leagues",
		Short: "List the supported leagues (* marks the default)",
		Args:  cobra.NoArgs,
		RunE: run(func(ctx context.Context, env *cliEnv, out io.Writer) error {
			leagues, err := env.services.Leagues.ListLeagues(ctx)
			if err != nil {
				return err
			}
			return renderLeagues(out, leagues)
		}),
	}
}

func fixturesCmd(run runFunc) *cobra.Command {
	var leagueID string
	var watch bool
	cmd := &cobra.Command{
		Use:   "fixtures",
		Short: "Show the reconciled fixture window of a league",
		Args:  cobra.NoArgs,
		RunE: run(func(ctx context.Context, env *cliEnv, out io.Writer) error {
			selected, err := env.services.Leagues.ResolveLeague(ctx, leagueID)
			if err != nil {
				return err
			}
			if !watch {
				items, err := env.services.Fixtures.GetFixtures(ctx, selected.ID)
				if err != nil {
					return err
				}
				return renderFixtures(out, items, time.Now().UTC())
			}

			updates, unsubscribe, err := env.services.Live.SubscribeLeague(selected.ID)
			if err != nil {
				return err
			}
			defer unsubscribe()
			return watchSnapshots(ctx, env.logger, updates, func(items []fixture.Fixture) error {
				fmt.Fprintf(out, "\n== %s, updated %s ==\n", selected.Name, time.Now().Format("15:04:05"))
				return renderFixtures(out, items, time.Now().UTC())
			})
		}),
	}
	cmd.Flags().StringVar(&leagueID, "league", "", "League ID (defaults to DEFAULT_LEAGUE_ID)")
	cmd.Flags().BoolVar(&watch, "watch", false, "Keep polling and redraw on every update")
	return cmd
}

func matchCmd(verbose *bool) *cobra.Command {
	var watch bool
	cmd := &cobra.Command{
		Use:   "match <id>",
		Short: "Show a match with its timeline, lineups and stats",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			matchID := strings.TrimSpace(args[0])
			return runCLI(cmd, *verbose, func(ctx context.Context, env *cliEnv, out io.Writer) error {
				if !watch {
					return printMatch(ctx, env, out, matchID)
				}

				updates, unsubscribe, err := env.services.Live.SubscribeMatch(ctx, matchID)
				if err != nil {
					return err
				}
				defer unsubscribe()
				return watchSnapshots(ctx, env.logger, updates, func(d fixture.Details) error {
					fmt.Fprintf(out, "\n== updated %s ==\n", time.Now().Format("15:04:05"))
					return renderMatch(out, d, env.services.Matches.BuildTimeline(&d, nil), time.Now().UTC())
				})
			})
		},
	}
	cmd.Flags().BoolVar(&watch, "watch", false, "Keep polling and redraw on every update")
	return cmd
}

func rawCmd(verbose *bool) *cobra.Command {
	return &cobra.Command{
		Use:   "raw <path> [key=value...]",
		Short: "Print an upstream response body, e.g. raw /eventsnextleague.php id=4328",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query, err := parseQueryArgs(args[1:])
			if err != nil {
				return err
			}
			return runCLI(cmd, *verbose, func(ctx context.Context, env *cliEnv, out io.Writer) error {
				body, err := env.client.Do(ctx, args[0], query)
				if err != nil {
					return err
				}
				if _, err := out.Write(body); err != nil {
					return err
				}
				_, err = io.WriteString(out, "\n")
				return err
			})
		},
	}
}

func printMatch(ctx context.Context, env *cliEnv, out io.Writer, matchID string) error {
	details, found, err := env.services.Matches.GetMatch(ctx, matchID)
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("%w: match=%s", usecase.ErrNotFound, matchID)
	}
	return renderMatch(out, details, env.services.Matches.BuildTimeline(&details, nil), time.Now().UTC())
}

// watchSnapshots renders every snapshot carrying data until ctx ends or the feed closes.
func watchSnapshots[T any](
	ctx context.Context,
	logger *logging.Logger,
	updates <-chan livefeed.Snapshot[T],
	render func(T) error,
) error {
	var lastGeneration uint64
	var lastUpdate time.Time
	for {
		select {
		case <-ctx.Done():
			return nil
		case snap, ok := <-updates:
			if !ok {
				return nil
			}
			if snap.Err != nil {
				logger.WarnContext(ctx, "refresh failed", "key", snap.Key, "error", snap.Err)
			}
			if snap.NoData {
				logger.WarnContext(ctx, "nothing found upstream", "key", snap.Key)
			}
			if !snap.HasData || (snap.Generation == lastGeneration && snap.UpdatedAt.Equal(lastUpdate)) {
				continue
			}
			lastGeneration, lastUpdate = snap.Generation, snap.UpdatedAt
			if err := render(snap.Data); err != nil {
				return err
			}
		}
	}
}

func parseQueryArgs(args []string) (url.Values, error) {
	query := url.Values{}
	for _, arg := range args {
		key, value, ok := strings.Cut(arg, "=")
		if !ok || strings.TrimSpace(key) == "" {
			return nil, fmt.Errorf("invalid query argument %q, expected key=value", arg)
		}
		query.Add(strings.TrimSpace(key), value)
	}
	return query, nil
}

func runCLI(cmd *cobra.Command, verbose bool, fn func(ctx context.Context, env *cliEnv, out io.Writer) error) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	level := logging.LevelWarn
	if verbose {
		level = logging.LevelDebug
	}
	logger := logging.NewConsole(level, cmd.ErrOrStderr())
	logging.SetDefault(logger)
	defer func() { _ = logger.Sync() }()

	client, err := app.NewUpstreamClient(cfg, logger)
	if err != nil {
		return err
	}
	services, err := app.NewServices(cfg, client, logger)
	if err != nil {
		return err
	}
	defer services.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return fn(ctx, &cliEnv{cfg: cfg, logger: logger, client: client, services: services}, cmd.OutOrStdout())
}
