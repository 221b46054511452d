package bootstrap

import (
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/trendscope/analyzer/internal/config"
	"github.com/trendscope/analyzer/internal/database"
	"github.com/trendscope/analyzer/internal/logger"
)

// DatabaseComponents holds the database connection and repositories.
type DatabaseComponents struct {
	DB        *sqlx.DB
	RulesRepo *database.RulesRepository
	RunsRepo  *database.RunsRepository
}

// SetupDatabase creates the database connection and repositories.
func SetupDatabase(cfg *config.Config, log logger.Logger) (*DatabaseComponents, error) {
	log.Info("Connecting to PostgreSQL database",
		logger.String("host", cfg.Database.Host),
		logger.Int("port", cfg.Database.Port),
		logger.String("database", cfg.Database.Database),
	)

	db, err := database.NewPostgresConnection(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	log.Info("Database connected successfully")

	return &DatabaseComponents{
		DB:        db,
		RulesRepo: database.NewRulesRepository(db),
		RunsRepo:  database.NewRunsRepository(db),
	}, nil
}
