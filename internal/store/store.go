package store

import (
	"context"
	"log"

	"evote/internal/config"
	"evote/internal/db"
	"evote/internal/repository"
)

// Store bundles the repositories of the backend selected by DB_DRIVER.
type Store struct {
	Voters    repository.VoterRepository
	Elections repository.ElectionRepository
	close     func()
}

// Open connects to the configured backend and prepares its schema (gorm) or
// indexes (MongoDB). RESET_DB drops existing data first.
func Open(ctx context.Context, cfg *config.Config) (*Store, error) {
	if cfg.UsesMongo() {
		mdb, err := db.NewMongo(ctx, cfg.MongoURI, cfg.MongoDatabase)
		if err != nil {
			return nil, err
		}
		if cfg.ResetDB {
			log.Println("RESET_DB=true detected, dropping database...")
			if err := mdb.Drop(ctx); err != nil {
				log.Printf("Warning: Failed to drop database: %v", err)
			}
		}
		if err := repository.EnsureMongoIndexes(ctx, mdb); err != nil {
			return nil, err
		}
		return &Store{
			Voters:    repository.NewMongoVoterRepository(mdb),
			Elections: repository.NewMongoElectionRepository(mdb),
			close:     func() { _ = mdb.Client().Disconnect(context.Background()) },
		}, nil
	}

	gormDB, err := db.Open(cfg)
	if err != nil {
		return nil, err
	}
	if err := db.Migrate(gormDB, cfg.ResetDB); err != nil {
		return nil, err
	}
	return &Store{
		Voters:    repository.NewVoterRepository(gormDB),
		Elections: repository.NewElectionRepository(gormDB),
		close: func() {
			if sqlDB, err := gormDB.DB(); err == nil {
				_ = sqlDB.Close()
			}
		},
	}, nil
}

// Close releases the underlying connections.
func (s *Store) Close() {
	if s.close != nil {
		s.close()
	}
}
