package main

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskboard/configs"
	"taskboard/internal/apperrors"
)

func TestOpenStoreMemory(t *testing.T) {
	st, err := openStore(context.Background(), configs.Config{StoreDriver: configs.StoreDriverMemory})
	require.NoError(t, err)
	defer st.close()

	_, err = st.users.FindByEmail(context.Background(), "nobody@example.com")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	tasks, err := st.tasks.ListByOwner(context.Background(), "someone")
	require.NoError(t, err)
	assert.Empty(t, tasks)
}

func TestOpenStoreUnknownDriver(t *testing.T) {
	_, err := openStore(context.Background(), configs.Config{StoreDriver: "sqlite"})
	assert.EqualError(t, err, `unknown STORE_DRIVER "sqlite"`)
}

// run must hand startup failures back to main instead of exiting, so the
// loggers get flushed before the process dies.
func TestRunReturnsStartupError(t *testing.T) {
	err := run(configs.Config{StoreDriver: "sqlite", Port: "0"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "store initialization failed")
}
