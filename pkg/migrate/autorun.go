package migrate

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/angelmondragon/creatordash-billing/pkg/config"
	"github.com/angelmondragon/creatordash-billing/pkg/db"
	"github.com/angelmondragon/creatordash-billing/pkg/logger"
	"github.com/pressly/goose/v3"
)

// MaybeRunDev applies the embedded migrations on boot, but only in dev with
// CREATORDASH_AUTO_MIGRATE set. Other environments run cmd/migrate.
func MaybeRunDev(ctx context.Context, cfg *config.Config, logg *logger.Logger, client *db.Client) error {
	if cfg == nil || !cfg.App.IsDev() || !cfg.FeatureFlags.AutoMigrate {
		return nil
	}
	if client == nil {
		return fmt.Errorf("db client is required for auto-migrate")
	}

	sqlDB, err := client.DB().DB()
	if err != nil {
		return fmt.Errorf("extracting sql.DB: %w", err)
	}

	goose.SetLogger(gooseLogger{log: logg.Component("goose")})
	defer goose.SetLogger(goose.NopLogger())

	if err := Run(ctx, sqlDB, EmbeddedDir, "up"); err != nil {
		return fmt.Errorf("auto-migrate: %w", err)
	}
	logg.Info(logg.WithField(ctx, "dir", EmbeddedDir), "migrate.auto.done")
	return nil
}

// gooseLogger keeps goose's per-migration lines in the structured log.
type gooseLogger struct {
	log zerolog.Logger
}

func (g gooseLogger) Printf(format string, v ...interface{}) {
	g.log.Info().Msg(strings.TrimSpace(fmt.Sprintf(format, v...)))
}

func (g gooseLogger) Fatalf(format string, v ...interface{}) {
	g.log.Fatal().Msgf(format, v...)
}
