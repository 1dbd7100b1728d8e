package migrations

import (
	"github.com/go-gormigrate/gormigrate/v2"
	"gorm.io/gorm"
)

// createAnalyticsTables creates the search analytics log. Every executed
// search appends one row; trending, suggestions and the summary endpoint
// aggregate over it.
func createAnalyticsTables() *gormigrate.Migration {
	return &gormigrate.Migration{
		ID: "002_create_analytics_tables",
		Migrate: func(tx *gorm.DB) error {
			if err := tx.Exec(`
				CREATE TABLE IF NOT EXISTS search_analytics (
					id BIGSERIAL PRIMARY KEY,
					query VARCHAR(255) NOT NULL,
					results_count INT NOT NULL DEFAULT 0,
					zero_results BOOLEAN NOT NULL DEFAULT FALSE,
					user_id BIGINT,
					session_id VARCHAR(128),
					ip_address VARCHAR(45),
					user_agent VARCHAR(512),
					search_time_ms DOUBLE PRECISION NOT NULL DEFAULT 0,
					created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
				)
			`).Error; err != nil {
				return err
			}

			if err := tx.Exec(`
				CREATE INDEX IF NOT EXISTS idx_search_analytics_query
				ON search_analytics (query)
			`).Error; err != nil {
				return err
			}

			return tx.Exec(`
				CREATE INDEX IF NOT EXISTS idx_search_analytics_created
				ON search_analytics (created_at)
			`).Error
		},
		Rollback: func(tx *gorm.DB) error {
			return tx.Exec("DROP TABLE IF EXISTS search_analytics").Error
		},
	}
}
