package migrations

import (
	"github.com/go-gormigrate/gormigrate/v2"
	"gorm.io/gorm"
)

// createContentTables creates the synced content tables the source
// adapters scan: articles, page-builder pages, categories, custom fields
// and their values, plus the parsed-page cache.
//
// Substring matching is intentional here. The adapters run ILIKE scans,
// so the indexes cover the filter columns (state, access, language,
// category) rather than the text itself.
func createContentTables() *gormigrate.Migration {
	return &gormigrate.Migration{
		ID: "001_create_content_tables",
		Migrate: func(tx *gorm.DB) error {
			if err := tx.Exec(`
				CREATE TABLE IF NOT EXISTS articles (
					id BIGINT PRIMARY KEY,
					title VARCHAR(500) NOT NULL,
					alias VARCHAR(500) NOT NULL DEFAULT '',
					intro_text TEXT,
					full_text TEXT,
					meta_keywords TEXT,
					meta_description TEXT,
					state INT NOT NULL DEFAULT 0,
					access_level BIGINT NOT NULL DEFAULT 1,
					language VARCHAR(10) NOT NULL DEFAULT '*',
					category_id BIGINT NOT NULL DEFAULT 0,
					tags TEXT[],
					created TIMESTAMPTZ NOT NULL,
					modified TIMESTAMPTZ NOT NULL,
					synced_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
				)
			`).Error; err != nil {
				return err
			}

			if err := tx.Exec(`
				CREATE INDEX IF NOT EXISTS idx_articles_filter
				ON articles (state, access_level, language, category_id)
			`).Error; err != nil {
				return err
			}

			if err := tx.Exec(`
				CREATE TABLE IF NOT EXISTS pages (
					id BIGINT PRIMARY KEY,
					title VARCHAR(500) NOT NULL,
					layout TEXT,
					state INT NOT NULL DEFAULT 0,
					access_level BIGINT NOT NULL DEFAULT 1,
					language VARCHAR(10) NOT NULL DEFAULT '*',
					created TIMESTAMPTZ NOT NULL,
					modified TIMESTAMPTZ NOT NULL,
					synced_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
				)
			`).Error; err != nil {
				return err
			}

			if err := tx.Exec(`
				CREATE TABLE IF NOT EXISTS categories (
					id BIGINT PRIMARY KEY,
					title VARCHAR(255) NOT NULL,
					alias VARCHAR(255) NOT NULL DEFAULT '',
					language VARCHAR(10) NOT NULL DEFAULT '*'
				)
			`).Error; err != nil {
				return err
			}

			if err := tx.Exec(`
				CREATE TABLE IF NOT EXISTS fields (
					id BIGINT PRIMARY KEY,
					name VARCHAR(255) NOT NULL,
					title VARCHAR(255) NOT NULL,
					type VARCHAR(50) NOT NULL,
					state INT NOT NULL DEFAULT 0
				)
			`).Error; err != nil {
				return err
			}

			if err := tx.Exec(`
				CREATE TABLE IF NOT EXISTS field_values (
					field_id BIGINT NOT NULL,
					article_id BIGINT NOT NULL,
					value TEXT,
					PRIMARY KEY (field_id, article_id)
				)
			`).Error; err != nil {
				return err
			}

			if err := tx.Exec(`
				CREATE INDEX IF NOT EXISTS idx_field_values_article
				ON field_values (article_id)
			`).Error; err != nil {
				return err
			}

			return tx.Exec(`
				CREATE TABLE IF NOT EXISTS parsed_pages (
					page_id BIGINT PRIMARY KEY,
					content_hash VARCHAR(32) NOT NULL,
					parsed_content TEXT,
					parsed_at TIMESTAMPTZ NOT NULL
				)
			`).Error
		},
		Rollback: func(tx *gorm.DB) error {
			for _, table := range []string{
				"parsed_pages", "field_values", "fields",
				"categories", "pages", "articles",
			} {
				if err := tx.Exec("DROP TABLE IF EXISTS " + table).Error; err != nil {
					return err
				}
			}
			return nil
		},
	}
}
