package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"evote/internal/config"
	"evote/internal/model"
)

func TestOpen_SQLite(t *testing.T) {
	cfg := &config.Config{
		DBDriver:   config.DriverSQLite,
		SQLitePath: filepath.Join(t.TempDir(), "evote.db"),
	}
	ctx := context.Background()

	s, err := Open(ctx, cfg)
	require.NoError(t, err)
	election := &model.Election{Name: "Board Vote"}
	require.NoError(t, s.Elections.Create(ctx, election))
	s.Close()

	s, err = Open(ctx, cfg)
	require.NoError(t, err)
	got, err := s.Elections.FindByID(ctx, election.ID)
	require.NoError(t, err, "data survives reopening")
	assert.Equal(t, "Board Vote", got.Name)
	s.Close()

	cfg.ResetDB = true
	s, err = Open(ctx, cfg)
	require.NoError(t, err)
	defer s.Close()
	all, err := s.Elections.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, all, "reset drops existing tables")
}

func TestOpen_UnsupportedDriver(t *testing.T) {
	_, err := Open(context.Background(), &config.Config{DBDriver: "oracle"})
	assert.Error(t, err)
}
