// main.go
//
// Entry point for the codebreaker server.
// Startup order:
//   - .env (optional) and log level.
//   - SQLite handle + migrations (embedded unless MIGRATIONS_DIR is set).
//   - Opening table: PRECOMPUTE_FILE if set, else the embedded asset.
//   - HTTP server.

package main

import (
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/codebreaker/assets"
	"github.com/robalobadob/codebreaker/internal/database"
	"github.com/robalobadob/codebreaker/internal/httpserver"
	"github.com/robalobadob/codebreaker/internal/solver"
)

func main() {
	_ = godotenv.Load()
	if lvl, err := zerolog.ParseLevel(getEnv("LOG_LEVEL", "info")); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}

	db, err := database.Open(getEnv("DB_DRIVER", database.DriverCgo), getEnv("DB_PATH", "./data/app.db"))
	if err != nil {
		log.Fatal().Err(err).Msg("open db")
	}
	defer db.Close()

	var migrations fs.FS = assets.Migrations()
	if dir := os.Getenv("MIGRATIONS_DIR"); dir != "" {
		migrations = os.DirFS(dir)
	}
	if err := database.Migrate(db, migrations); err != nil {
		log.Fatal().Err(err).Msg("migrate")
	}

	opts := []solver.Option{solver.WithLogger(log.Logger)}
	if t := openingTable(os.Getenv("PRECOMPUTE_FILE")); t != nil {
		l1, l2 := t.Len()
		log.Info().Str("opener", t.Opener().String()).Int("layer1", l1).Int("layer2", l2).
			Int("skipped", t.Skipped()).Msg("opening table loaded")
		opts = append(opts, solver.WithTable(t))
	}
	engine := solver.New(opts...)

	srv := httpserver.New(httpserver.ConfigFromEnv(), engine, db)
	port := getEnv("PORT", "5175")
	log.Info().Str("port", port).Int("universe", len(engine.Universe())).Msg("starting codebreaker")
	if err := srv.Start(":" + port); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}

// openingTable loads the table at path, or the embedded one when path is empty
// or unreadable. nil means live search only.
func openingTable(path string) *solver.Table {
	if path != "" {
		t, err := solver.LoadTable(path)
		if err == nil {
			return t
		}
		log.Warn().Err(err).Str("path", path).Msg("table file not loaded, using embedded table")
	}
	t, err := solver.ParseTable(assets.OpeningTable())
	if err != nil {
		log.Warn().Err(err).Msg("embedded table not loaded, using live search")
		return nil
	}
	return t
}

func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
