package backup

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/khoahotran/portfolio-pilot/adapters/media_storage"
	"github.com/khoahotran/portfolio-pilot/adapters/persistence"
	"github.com/khoahotran/portfolio-pilot/internal/application/gateway"
	"github.com/khoahotran/portfolio-pilot/internal/domain/portfolio"
	"github.com/khoahotran/portfolio-pilot/internal/domain/profile"
	"github.com/khoahotran/portfolio-pilot/pkg/apperror"
	"github.com/khoahotran/portfolio-pilot/pkg/logger"
)

func TestExport(t *testing.T) {
	ctx := context.Background()
	blobs := media_storage.NewMemoryBlobStore("")
	gw := gateway.New(persistence.NewMemoryDocumentStore(), blobs, logger.NewNop())

	require.NoError(t, gw.UpsertDocument(ctx, profile.Path("u1"), profile.Default("a@b.com").Data()))
	_, err := gw.CreateDocument(ctx, portfolio.CollectionPath("u1", portfolio.CategoryProject),
		portfolio.Item{Title: "Pilot", Description: "d"}.Fields())
	require.NoError(t, err)

	uc := NewExportUseCase(gw, logger.NewNop())
	uc.now = func() time.Time { return time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC) }

	out, err := uc.Execute(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "profiles/u1/backups/export-2025-01-02_03-04-05.json", out.Path)
	assert.Equal(t, 1, out.Items)
	assert.Equal(t, blobs.URL(out.Path), out.URL)

	var snap Snapshot
	require.NoError(t, json.Unmarshal(blobs.Content(out.Path), &snap))
	assert.Equal(t, "u1", snap.OwnerID)
	assert.Equal(t, profile.DefaultName, snap.Profile.Name)
	require.Len(t, snap.Projects, 1)
	assert.Equal(t, "Pilot", snap.Projects[0].Title)
	assert.NotNil(t, snap.Certificates)
	assert.Empty(t, snap.Certificates)
}

func TestExport_UnknownOwner(t *testing.T) {
	blobs := media_storage.NewMemoryBlobStore("")
	gw := gateway.New(persistence.NewMemoryDocumentStore(), blobs, logger.NewNop())

	_, err := NewExportUseCase(gw, logger.NewNop()).Execute(context.Background(), "ghost")
	assert.ErrorIs(t, err, apperror.ErrNotFound)
	assert.Zero(t, blobs.Writes())
}
