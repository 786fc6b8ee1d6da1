package main

import (
	"bytes"
	"context"
	"testing"

	"flashdeck/internal/config"
	"flashdeck/internal/database"
	"flashdeck/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve(t *testing.T) {
	_, _, err := resolve(nil)
	assert.ErrorIs(t, err, errUsage)

	_, _, err = resolve([]string{"sideways"})
	assert.ErrorIs(t, err, errUsage)
	assert.ErrorContains(t, err, `unknown command "sideways"`)

	_, _, err = resolve([]string{"down"})
	assert.ErrorContains(t, err, "down needs <version>")

	cmd, rest, err := resolve([]string{" DOWN ", "1"})
	require.NoError(t, err)
	assert.Equal(t, "down", cmd.name)
	assert.Equal(t, []string{"1"}, rest)
}

func TestPrintUsage_ListsEveryCommand(t *testing.T) {
	var out bytes.Buffer
	printUsage(&out)
	for _, cmd := range subcommands {
		assert.Contains(t, out.String(), cmd.name)
		assert.Contains(t, out.String(), cmd.summary)
	}
}

func newSQLiteMigrator(t *testing.T) (*migrator, *bytes.Buffer) {
	out := &bytes.Buffer{}
	return &migrator{
		db:  testutil.NewSQLiteDB(t),
		cfg: &config.Config{DBDriver: "sqlite", Env: "test"},
		out: out,
	}, out
}

func TestMigrator_SQLiteUsesModels(t *testing.T) {
	m, out := newSQLiteMigrator(t)
	ctx := context.Background()

	require.NoError(t, m.auto(ctx, nil))
	assert.Empty(t, m.cfg.DBSchemaMode, "auto must not change the loaded config")

	require.NoError(t, m.status(ctx, nil))
	assert.Contains(t, out.String(), "driver          sqlite")
	assert.Contains(t, out.String(), "sql migrations  false")
	assert.Contains(t, out.String(), "pending         none")

	assert.NoError(t, m.check(ctx, nil))
}

func TestMigrator_DownRejectsBadVersion(t *testing.T) {
	m, _ := newSQLiteMigrator(t)
	assert.ErrorContains(t, m.down(context.Background(), []string{"abc"}), `invalid version "abc"`)
	assert.ErrorContains(t, m.down(context.Background(), []string{"0"}), `invalid version "0"`)
}

func TestWriteStatus(t *testing.T) {
	var out bytes.Buffer
	writeStatus(&out, &database.SchemaStatus{
		Mode:            database.SchemaModeSQL,
		Driver:          "postgres",
		Environment:     "production",
		WillRunSQL:      true,
		AppliedVersions: []int{1},
		PendingMigrations: []database.Migration{
			{Version: 2, Name: "deck_indexes"},
		},
	})
	assert.Contains(t, out.String(), "applied         000001")
	assert.Contains(t, out.String(), "pending         000002_deck_indexes")
}
