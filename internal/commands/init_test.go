package commands

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tallybook-dev/tallybook/internal/config"
	"github.com/tallybook-dev/tallybook/internal/match"
)

func TestRunInit_CreatesWorkspace(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, runInit(context.Background(), dir, "Checking", "USD"))

	_, err := os.Stat(filepath.Join(dir, config.FileName))
	require.NoError(t, err, "config file should exist")
	_, err = os.Stat(filepath.Join(dir, "logs"))
	require.NoError(t, err, "logs directory should exist")

	ws, err := openWorkspace(dir)
	require.NoError(t, err)
	defer ws.Close()

	acct, err := ws.store.AccountByName(context.Background(), "Checking")
	require.NoError(t, err)
	assert.Equal(t, "USD", acct.Currency)

	// Seeded categories are available for imports out of the box.
	cat, err := ws.store.CategoryByName(context.Background(), ws.cfg.Import.DefaultCategory)
	require.NoError(t, err)
	assert.NotEmpty(t, cat.ID)
}

func TestOpenWorkspace_NotInitialized(t *testing.T) {
	_, err := openWorkspace(t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "tallybook init")
}

func TestAcceptSet(t *testing.T) {
	wanted, err := acceptSet([]string{"new", "suggestion"})
	require.NoError(t, err)
	assert.True(t, wanted[match.ClassNew])
	assert.True(t, wanted[match.ClassSuggestion])
	assert.False(t, wanted[match.ClassExact])

	_, err = acceptSet([]string{"everything"})
	require.Error(t, err)
}
