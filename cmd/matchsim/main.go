package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/yellowhama/matchsim/internal/config"
	"github.com/yellowhama/matchsim/internal/league"
	"github.com/yellowhama/matchsim/internal/match/engine"
	"github.com/yellowhama/matchsim/internal/match/replay"
	"github.com/yellowhama/matchsim/internal/roster"
	"github.com/yellowhama/matchsim/internal/store"
	"github.com/yellowhama/matchsim/internal/telemetry"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	configPath = flag.String("config", "config/matchsim.yaml", "path to configuration file")
	homePath   = flag.String("home", "", "home roster YAML (built-in side when empty)")
	awayPath   = flag.String("away", "", "away roster YAML (built-in side when empty)")
	seed       = flag.Uint64("seed", 0, "match seed, overrides the configured one when non-zero")
	history    = flag.Int("history", 0, "list the N most recent stored matches and exit")
	leagueMode = flag.Bool("league", false, "play a double round-robin league between the roster files given as arguments")
	workers    = flag.Int("workers", runtime.NumCPU(), "matches simulated in parallel in league mode")
	version    = "dev" // set via ldflags during build
)

func main() {
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := initLogger(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("starting matchsim",
		zap.String("version", version),
		zap.String("config", *configPath),
	)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	var db *store.Store
	if sc, ok := cfg.StoreConfig(); ok {
		db, err = store.Open(sc, logger)
		if err != nil {
			logger.Fatal("failed to open match store", zap.Error(err))
		}
		defer db.Close()
	}

	if *history > 0 {
		if db == nil {
			logger.Fatal("match history requires storage to be enabled")
		}
		printHistory(ctx, db, *history, logger)
		return
	}

	if *leagueMode {
		runLeague(ctx, cfg, db, logger)
		return
	}

	home, err := loadTeam(*homePath, "Home XI")
	if err != nil {
		logger.Fatal("failed to load home roster", zap.Error(err))
	}
	away, err := loadTeam(*awayPath, "Away XI")
	if err != nil {
		logger.Fatal("failed to load away roster", zap.Error(err))
	}

	ec := cfg.Engine()
	if *seed != 0 {
		ec.Seed = *seed
	}

	eng, err := engine.New(ec, home, away, logger.Named("engine"))
	if err != nil {
		logger.Fatal("failed to create match engine", zap.Error(err))
	}

	if cfg.Telemetry.Enabled {
		metrics, err := telemetry.New()
		if err != nil {
			logger.Fatal("failed to create metrics", zap.Error(err))
		}
		metrics.Attach(eng)
	}

	var recorder *replay.Recorder
	if cfg.Replay.Enabled {
		recorder = replay.NewRecorder(logger.Named("replay"), cfg.Replay.Directory)
		eng.SetRecorder(recorder)
	}

	res := eng.Run()

	if recorder != nil {
		if err := recorder.Save(res.MatchID.String()); err != nil {
			logger.Error("failed to save replay", zap.Error(err))
		}
	}

	if db != nil {
		if err := db.SaveResult(ctx, res); err != nil {
			logger.Error("failed to store match result", zap.Error(err))
		}
	}

	printResult(res)
}

func loadTeam(path, fallback string) (*roster.Team, error) {
	if path == "" {
		return roster.Default(fallback, 70), nil
	}
	return roster.LoadFile(path)
}

// defaultLeagueTeams is the size of the generated league when no roster
// files are given.
const defaultLeagueTeams = 6

func runLeague(ctx context.Context, cfg *config.Config, db *store.Store, logger *zap.Logger) {
	ec := cfg.Engine()
	if *seed != 0 {
		ec.Seed = *seed
	}
	// Per-match replays are not kept in league mode.
	ec.ReplayEveryTicks = 0

	l := league.New("matchsim league", ec.Seed, true, logger.Named("league"))
	if paths := flag.Args(); len(paths) > 0 {
		for _, path := range paths {
			team, err := roster.LoadFile(path)
			if err != nil {
				logger.Fatal("failed to load roster", zap.String("path", path), zap.Error(err))
			}
			if err := l.AddTeam(team); err != nil {
				logger.Fatal("failed to enter team", zap.String("team", team.Name), zap.Error(err))
			}
		}
	} else {
		for i := 0; i < defaultLeagueTeams; i++ {
			name := fmt.Sprintf("Club %c", 'A'+i)
			if err := l.AddTeam(roster.Default(name, 55+float64(i)*6)); err != nil {
				logger.Fatal("failed to enter team", zap.String("team", name), zap.Error(err))
			}
		}
	}

	if err := l.Start(); err != nil {
		logger.Fatal("failed to start league", zap.Error(err))
	}

	var metrics *telemetry.Metrics
	if cfg.Telemetry.Enabled {
		var err error
		if metrics, err = telemetry.New(); err != nil {
			logger.Fatal("failed to create metrics", zap.Error(err))
		}
	}

	err := l.Play(ctx, ec, *workers, func(res *engine.Result) {
		if metrics != nil {
			for _, ev := range res.Events {
				metrics.ObserveEvent(ev)
			}
		}
		if db != nil {
			if err := db.SaveResult(ctx, res); err != nil {
				logger.Error("failed to store match result", zap.String("match_id", res.MatchID.String()), zap.Error(err))
			}
		}
		fmt.Printf("%-10s %d - %d %s\n", res.Home, res.HomeGoals, res.AwayGoals, res.Away)
	})
	if err != nil {
		logger.Fatal("league aborted", zap.Error(err))
	}

	printTable(l.Table())
}

func printTable(rows []league.Standing) {
	fmt.Printf("\n%-3s %-16s %3s %3s %3s %3s %4s %4s %4s %4s\n", "#", "team", "P", "W", "D", "L", "GF", "GA", "GD", "Pts")
	for i, r := range rows {
		fmt.Printf("%-3d %-16s %3d %3d %3d %3d %4d %4d %+4d %4d\n",
			i+1, r.Team, r.Played, r.Won, r.Drawn, r.Lost, r.GoalsFor, r.GoalsAgainst, r.GoalDifference(), r.Points)
	}
}

func printResult(res *engine.Result) {
	h, a := res.Stats.Home, res.Stats.Away
	hp := res.Stats.Possession()

	fmt.Printf("%s %d - %d %s\n", res.Home, res.HomeGoals, res.AwayGoals, res.Away)
	fmt.Printf("match %s  seed %d  ticks %d\n", res.MatchID, res.Seed, res.Ticks)
	fmt.Printf("%-16s %8s %8s\n", "", res.Home, res.Away)
	fmt.Printf("%-16s %7.0f%% %7.0f%%\n", "possession", hp*100, (1-hp)*100)
	fmt.Printf("%-16s %8d %8d\n", "shots", h.Shots, a.Shots)
	fmt.Printf("%-16s %8d %8d\n", "on target", h.ShotsOnTarget, a.ShotsOnTarget)
	fmt.Printf("%-16s %8.2f %8.2f\n", "xG", h.ExpectedGoals, a.ExpectedGoals)
	fmt.Printf("%-16s %8d %8d\n", "passes", h.Passes, a.Passes)
	fmt.Printf("%-16s %7.0f%% %7.0f%%\n", "pass accuracy", h.PassAccuracy()*100, a.PassAccuracy()*100)
	fmt.Printf("%-16s %8d %8d\n", "tackles won", h.TacklesWon, a.TacklesWon)
	fmt.Printf("%-16s %8d %8d\n", "corners", h.Corners, a.Corners)
	fmt.Printf("%-16s %8d %8d\n", "offsides", h.Offsides, a.Offsides)
}

func printHistory(ctx context.Context, db *store.Store, limit int, logger *zap.Logger) {
	matches, err := db.ListMatches(ctx, limit)
	if err != nil {
		logger.Fatal("failed to list matches", zap.Error(err))
	}
	for _, m := range matches {
		fmt.Printf("%s  %s %d - %d %s  (seed %d)\n",
			m.CreatedAt.Format("2006-01-02 15:04"), m.Home, m.HomeGoals, m.AwayGoals, m.Away, uint64(m.Seed))
	}
}

// initLogger builds the process logger. Unknown levels fall back to info;
// colored levels are only used on a terminal stream.
func initLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		level = zapcore.InfoLevel
	}

	output := cfg.Output
	if output == "" {
		output = "stderr"
	}
	terminal := output == "stderr" || output == "stdout"

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
		zapCfg.InitialFields = map[string]any{
			"service": "matchsim",
			"version": version,
		}
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		if terminal {
			zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		} else {
			zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
		}
	}

	zapCfg.Level = zap.NewAtomicLevelAt(level)
	zapCfg.OutputPaths = []string{output}

	return zapCfg.Build()
}
