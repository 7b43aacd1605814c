package db

import (
	"fmt"
	"log"

	"gorm.io/gorm"

	"evote/internal/config"
	"evote/internal/model"
)

// Models lists every table managed by the relational backends, children first.
var Models = []interface{}{
	&model.Participation{},
	&model.Candidate{},
	&model.Election{},
	&model.Voter{},
}

// Open connects to the relational database selected by cfg.DBDriver.
func Open(cfg *config.Config) (*gorm.DB, error) {
	switch cfg.DBDriver {
	case config.DriverMySQL:
		return NewMySQL(cfg.MySQLDSN)
	case config.DriverPostgres:
		return NewPostgres(cfg.PostgresDSN)
	case config.DriverSQLite:
		return NewSQLite(cfg.SQLitePath)
	default:
		return nil, fmt.Errorf("unsupported relational driver %q", cfg.DBDriver)
	}
}

// Migrate creates or updates the schema. With reset set, existing tables are
// dropped first.
func Migrate(db *gorm.DB, reset bool) error {
	if reset {
		log.Println("RESET_DB=true detected, dropping all tables...")
		for _, table := range Models {
			if err := db.Migrator().DropTable(table); err != nil {
				log.Printf("Warning: Failed to drop table (may not exist): %v", err)
			}
		}
		log.Println("Tables dropped")
	}

	// Parents first so foreign keys resolve.
	for i := len(Models) - 1; i >= 0; i-- {
		if err := db.AutoMigrate(Models[i]); err != nil {
			return fmt.Errorf("auto-migrate: %w", err)
		}
	}
	return nil
}
