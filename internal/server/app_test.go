package server

import (
	"context"
	"testing"

	"github.com/dmitrijs2005/caregiver/internal/server/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocumentStoreOptions_Postgres(t *testing.T) {
	cfg := &config.Config{}
	cfg.LoadDefaults()

	opts, err := documentStoreOptions(context.Background(), cfg)
	require.NoError(t, err)
	assert.Empty(t, opts)
}

func TestDocumentStoreOptions_S3(t *testing.T) {
	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.DocumentBackend = config.DocumentsS3

	opts, err := documentStoreOptions(context.Background(), cfg)
	require.NoError(t, err)
	assert.Len(t, opts, 1)
}

func TestNewApp_UnreachableDatabase(t *testing.T) {
	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.DatabaseDSN = "postgres://nobody@127.0.0.1:1/none?connect_timeout=1"

	_, err := NewApp(context.Background(), cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "db init error")
}
