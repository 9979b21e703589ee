package main

import (
	"context"
	"net/http"
	_ "net/http/pprof"
	"os"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"

	"goinsight/adapters/postgres"
	"goinsight/api"
	"goinsight/app"
	"goinsight/internal/config"
	"goinsight/internal/errors"
	"goinsight/internal/migration"
)

// initDatabase opens the configured database. In development mode an empty
// DATABASE_URL falls back to an in-memory SQLite database so the service
// runs without external infrastructure.
func initDatabase(cfg *config.Config, log zerolog.Logger) (*sqlx.DB, error) {
	driver, dsn := "postgres", cfg.Database.URL
	if dsn == "" {
		if !cfg.Server.IsDevelopment() {
			return nil, errors.ConfigInvalid("DATABASE_URL is required")
		}
		driver, dsn = "sqlite3", "file:goinsight?mode=memory&cache=shared"
		log.Warn().Msg("DATABASE_URL not set, using in-memory sqlite")
	}

	db, err := sqlx.Connect(driver, dsn)
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect to database")
	}

	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)

	if err := db.Ping(); err != nil {
		return nil, errors.Wrap(err, "failed to ping database")
	}

	migrator := migration.NewRunner()
	if err := migrator.Run(context.Background(), db); err != nil {
		return nil, errors.Wrap(err, "database migration failed")
	}

	if cfg.Server.IsDevelopment() {
		if err := migration.SeedDemoRecords(context.Background(), db); err != nil {
			return nil, errors.Wrap(err, "demo seed failed")
		}
	}

	return db, nil
}

func newLogger(cfg *config.Config) zerolog.Logger {
	level := zerolog.InfoLevel
	if cfg.Server.Debug {
		level = zerolog.DebugLevel
	}

	if cfg.Server.IsDevelopment() {
		writer := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}
		return zerolog.New(writer).Level(level).With().Timestamp().Logger()
	}
	return zerolog.New(os.Stderr).Level(level).With().Timestamp().Logger()
}

func main() {
	// A missing .env file is fine, system environment wins anyway.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fallback := zerolog.New(os.Stderr)
		fallback.Fatal().Err(err).Msg("failed to load configuration")
	}

	log := newLogger(cfg)

	db, err := initDatabase(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize database")
	}
	defer db.Close()

	repo := postgres.NewRecordRepository(db)
	provider := app.NewRecordProvider(repo)
	service := app.NewAnalysisService(provider, app.NewAnalysisCalculator(), app.NewResponseFormatter(), log)

	server := api.NewServer(
		cfg.Server,
		service,
		repo,
		app.NewAggregateProvider(repo),
		app.NewDescriptiveCalculator(),
		app.NewScoreCalculator(app.ScoreWeightsFromConfig(cfg.Scoring)),
		log,
	)

	if cfg.Profiling.Enabled {
		go func() {
			log.Info().Str("port", cfg.Profiling.Port).Msg("pprof server starting")
			if err := http.ListenAndServe(":"+cfg.Profiling.Port, nil); err != nil {
				log.Error().Err(err).Msg("pprof server failed")
			}
		}()
	}

	log.Info().
		Str("port", cfg.Server.Port).
		Str("environment", cfg.Server.Environment).
		Msg("goinsight server starting")
	if err := server.Start(":" + cfg.Server.Port); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
