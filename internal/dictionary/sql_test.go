package dictionary

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spherical-ai/spherical/libs/move-estimator/internal/config"
)

func TestSQLSource_SQLiteRoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "items.db")

	db, err := OpenDB(DialectSQLite, path)
	require.NoError(t, err)
	defer db.Close()

	src, err := NewSQLSource(db, DialectSQLite, "")
	require.NoError(t, err)

	want := MustNew([]Entry{{"sofa 3 seater", 120}, {"double bed", 60}, {"armchair", 35}})

	var done []int
	require.NoError(t, src.Replace(ctx, want, func(n int) { done = append(done, n) }))
	assert.Equal(t, []int{1, 2, 3}, done)

	got, err := src.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, want.Entries(), got.Entries())
	assert.Equal(t, want.Fingerprint(), got.Fingerprint())

	// Replacing again overwrites rather than appends.
	smaller := MustNew([]Entry{{"desk", 40}})
	require.NoError(t, src.Replace(ctx, smaller, nil))
	got, err = src.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, got.Len())

	// The same file is reachable through Open.
	viaOpen, err := Open(ctx, config.DictionaryConfig{Source: "sqlite", Path: path, Table: "dictionary_entries"})
	require.NoError(t, err)
	assert.Equal(t, smaller.Fingerprint(), viaOpen.Fingerprint())
}

func TestNewSQLSource_Validation(t *testing.T) {
	_, err := NewSQLSource(nil, DialectSQLite, "items; DROP TABLE x")
	assert.Error(t, err)

	_, err = NewSQLSource(nil, Dialect("mysql"), "items")
	assert.Error(t, err)

	src, err := NewSQLSource(nil, DialectPostgres, "items")
	require.NoError(t, err)
	assert.Equal(t, "$2", src.placeholder(2))
}

func TestSQLSource_LoadMissingTable(t *testing.T) {
	db, err := OpenDB(DialectSQLite, filepath.Join(t.TempDir(), "empty.db"))
	require.NoError(t, err)
	defer db.Close()

	src, err := NewSQLSource(db, DialectSQLite, "nothing_here")
	require.NoError(t, err)

	_, err = src.Load(context.Background())
	assert.Error(t, err)
}
