package repository

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"

	"evote/internal/db"
)

// backend builds fresh repositories over an empty store.
type backend struct {
	name      string
	voters    func(t *testing.T) VoterRepository
	elections func(t *testing.T) ElectionRepository
}

func newSQLiteDB(t *testing.T) *gorm.DB {
	t.Helper()
	gdb, err := db.NewSQLite(":memory:")
	require.NoError(t, err)
	require.NoError(t, db.Migrate(gdb, false))
	t.Cleanup(func() {
		if sqlDB, err := gdb.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return gdb
}

// backends returns SQLite always and MongoDB when MONGO_TEST_URI is set.
func backends(t *testing.T) []backend {
	t.Helper()
	list := []backend{{
		name:      "sqlite",
		voters:    func(t *testing.T) VoterRepository { return NewVoterRepository(newSQLiteDB(t)) },
		elections: func(t *testing.T) ElectionRepository { return NewElectionRepository(newSQLiteDB(t)) },
	}}

	uri := os.Getenv("MONGO_TEST_URI")
	if uri == "" {
		return list
	}
	newMongo := func(t *testing.T) *mongo.Database {
		t.Helper()
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		name := "evote_test_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
		mdb, err := db.NewMongo(ctx, uri, name)
		require.NoError(t, err)
		require.NoError(t, EnsureMongoIndexes(ctx, mdb))
		t.Cleanup(func() {
			_ = mdb.Drop(context.Background())
			_ = mdb.Client().Disconnect(context.Background())
		})
		return mdb
	}
	return append(list, backend{
		name:      "mongo",
		voters:    func(t *testing.T) VoterRepository { return NewMongoVoterRepository(newMongo(t)) },
		elections: func(t *testing.T) ElectionRepository { return NewMongoElectionRepository(newMongo(t)) },
	})
}
