/* main.go
 * The entry point of the tennis league services. Runs the Discord bot, the web API, or one of the admin commands
 * Usage: go run . serve | bot [--beta] | all | seed <group> <round> | standings [group...] | rank <round>
 * Authors: Zachary Bower
 */

package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"tennis-league/api/api"
	"tennis-league/bot"
	"tennis-league/config"
	"tennis-league/ratelimit"
	"tennis-league/web"

	"github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	betaFlag := &cli.BoolFlag{Name: "beta", Usage: "run with DISCORD_BETA_TOKEN instead of DISCORD_TOKEN"}

	return &cli.App{
		Name:  "tennis-league",
		Usage: "tennis league bot, web API and admin tools",
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "run the web API",
				Action: serveAction,
			},
			{
				Name:   "bot",
				Usage:  "run the Discord bot",
				Flags:  []cli.Flag{betaFlag},
				Action: botAction,
			},
			{
				Name:   "all",
				Usage:  "run the web API and the Discord bot together",
				Flags:  []cli.Flag{betaFlag},
				Action: allAction,
			},
			{
				Name:      "seed",
				Usage:     "create the round robin fixtures of a group",
				ArgsUsage: "<group> <round>",
				Action:    seedAction,
			},
			{
				Name:      "standings",
				Usage:     "regenerate the leaderboards of the given groups, or of every group",
				ArgsUsage: "[group...]",
				Action:    standingsAction,
			},
			{
				Name:      "rank",
				Usage:     "add the group leaderboards of a round to the accumulated ranking",
				ArgsUsage: "<round>",
				Action:    rankAction,
			},
		},
	}
}

// runtime holds what every command needs once the configuration is loaded
type runtime struct {
	cfg    *config.Config
	logger *slog.Logger
	api    *api.API
}

// connect loads the configuration and opens the database
// Preconditions: MONGO_URI must be set, in the environment or in .env
// Postconditions: Returns the runtime and a function closing the database connection
func connect() (*runtime, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	logger := cfg.NewLogger(os.Stderr)

	apiPtr, err := api.NewAPI(cfg.DBName, cfg.MongoURI, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize API: %w", err)
	}

	closeFn := func() {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := apiPtr.Close(ctx); err != nil {
			logger.Error("failed to close database connection", slog.Any("error", err))
		}
	}
	return &runtime{cfg: cfg, logger: logger, api: apiPtr}, closeFn, nil
}

// signalContext is cancelled on SIGINT or SIGTERM
func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}

func (rt *runtime) newBot(beta bool) (*bot.Bot, error) {
	token, err := rt.cfg.BotToken(beta)
	if err != nil {
		return nil, err
	}
	b, err := bot.NewBot(token, rt.api, rt.logger)
	if err != nil {
		return nil, err
	}
	// commands share the web rate limit settings, per second per Discord user
	b.Limiter = ratelimit.New(rate.Limit(rt.cfg.RateLimitRPS), rt.cfg.RateLimitBurst)
	return b, nil
}

func (rt *runtime) webConfig() web.Config {
	return web.Config{
		Addr:           rt.cfg.HTTPAddr,
		API:            rt.api,
		Logger:         rt.logger,
		CORSOrigins:    rt.cfg.CORSOrigins,
		RateLimitRPS:   rt.cfg.RateLimitRPS,
		RateLimitBurst: rt.cfg.RateLimitBurst,
	}
}

func serveAction(c *cli.Context) error {
	rt, closeFn, err := connect()
	if err != nil {
		return err
	}
	defer closeFn()

	ctx, stop := signalContext(c.Context)
	defer stop()
	return web.Start(ctx, rt.webConfig())
}

func botAction(c *cli.Context) error {
	rt, closeFn, err := connect()
	if err != nil {
		return err
	}
	defer closeFn()

	b, err := rt.newBot(c.Bool("beta"))
	if err != nil {
		return err
	}

	ctx, stop := signalContext(c.Context)
	defer stop()
	return b.Run(ctx)
}

// allAction runs both services, the first one to fail stops the other
func allAction(c *cli.Context) error {
	rt, closeFn, err := connect()
	if err != nil {
		return err
	}
	defer closeFn()

	b, err := rt.newBot(c.Bool("beta"))
	if err != nil {
		return err
	}

	ctx, stop := signalContext(c.Context)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return b.Run(ctx) })
	g.Go(func() error { return web.Start(ctx, rt.webConfig()) })
	return g.Wait()
}

func seedAction(c *cli.Context) error {
	if c.NArg() != 2 {
		return fmt.Errorf("usage: seed <group> <round>")
	}
	groupID, roundID := c.Args().Get(0), c.Args().Get(1)
	if err := validateRoundArg(roundID); err != nil {
		return err
	}

	rt, closeFn, err := connect()
	if err != nil {
		return err
	}
	defer closeFn()

	matches, err := rt.api.SeedGroup(c.Context, groupID, roundID)
	if err != nil {
		return err
	}
	printMatches(c.App.Writer, groupID, matches)
	return nil
}

func standingsAction(c *cli.Context) error {
	rt, closeFn, err := connect()
	if err != nil {
		return err
	}
	defer closeFn()

	groupIDs := c.Args().Slice()
	if len(groupIDs) == 0 {
		if groupIDs, err = rt.api.GetAvailableGroups(c.Context); err != nil {
			return err
		}
	}

	var failed int
	for _, groupID := range groupIDs {
		entries, err := rt.api.GenerateStandings(c.Context, groupID)
		if err != nil {
			rt.logger.Error("failed to generate standings", slog.String("group", groupID), slog.Any("error", err))
			failed++
			continue
		}
		printStandings(c.App.Writer, groupID, entries)
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d groups failed", failed, len(groupIDs))
	}
	return nil
}

func rankAction(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("usage: rank <round>")
	}
	roundID := c.Args().First()
	if err := validateRoundArg(roundID); err != nil {
		return err
	}

	rt, closeFn, err := connect()
	if err != nil {
		return err
	}
	defer closeFn()

	entries, err := rt.api.PublishRanking(c.Context, roundID)
	if err != nil {
		return err
	}
	printRanking(c.App.Writer, roundID, entries)
	return nil
}
