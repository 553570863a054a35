package portfolio

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/khoahotran/portfolio-pilot/adapters/media_storage"
	"github.com/khoahotran/portfolio-pilot/adapters/persistence"
	"github.com/khoahotran/portfolio-pilot/internal/application/gateway"
	"github.com/khoahotran/portfolio-pilot/internal/application/service"
	"github.com/khoahotran/portfolio-pilot/internal/domain/document"
	"github.com/khoahotran/portfolio-pilot/internal/domain/portfolio"
	"github.com/khoahotran/portfolio-pilot/pkg/apperror"
	"github.com/khoahotran/portfolio-pilot/pkg/logger"
)

var errStore = errors.New("store down")

// failingStore fails the named operations and delegates the rest.
type failingStore struct {
	service.DocumentStore
	fail map[string]bool
}

func (s *failingStore) Create(ctx context.Context, c document.Path, data map[string]any) (string, error) {
	if s.fail["create"] {
		return "", errStore
	}
	return s.DocumentStore.Create(ctx, c, data)
}

func (s *failingStore) List(ctx context.Context, c document.Path) ([]*document.Document, error) {
	if s.fail["list:"+c.ID()] {
		return nil, errStore
	}
	return s.DocumentStore.List(ctx, c)
}

type failingBlobs struct {
	*media_storage.MemoryBlobStore
}

func (failingBlobs) Delete(context.Context, string) error { return errStore }

type fixture struct {
	docs  *persistence.MemoryDocumentStore
	blobs *media_storage.MemoryBlobStore
	gw    *gateway.Gateway
	save  *SaveItemUseCase
	del   *DeleteItemUseCase
	list  *ListItemsUseCase
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		docs:  persistence.NewMemoryDocumentStore(),
		blobs: media_storage.NewMemoryBlobStore("https://files.test"),
	}
	f.gw = gateway.New(f.docs, f.blobs, logger.NewNop())
	f.save = NewSaveItemUseCase(f.gw, service.NoopPublisher{}, logger.NewNop())
	f.save.now = func() time.Time { return time.UnixMilli(1700000000123) }
	f.del = NewDeleteItemUseCase(f.gw, service.NoopPublisher{}, logger.NewNop())
	f.list = NewListItemsUseCase(f.gw)
	return f
}

func TestSaveItem_CreateAppendsOneDocument(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	out, err := f.save.Execute(ctx, SaveItemInput{
		OwnerID:  "u1",
		Category: portfolio.CategoryProject,
		Item:     portfolio.Item{Title: "X", Description: "Y"},
	})
	require.NoError(t, err)
	assert.True(t, out.Created)
	assert.NotEmpty(t, out.Item.ID)

	items, err := f.list.Execute(ctx, "u1", portfolio.CategoryProject)
	require.NoError(t, err)
	require.Len(t, items, 1)

	doc, err := f.gw.GetDocument(ctx, portfolio.ItemPath("u1", portfolio.CategoryProject, out.Item.ID))
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"title": "X", "description": "Y"}, doc.Data)
}

func TestSaveItem_UpdateKeepsCount(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	created, err := f.save.Execute(ctx, SaveItemInput{
		OwnerID: "u1", Category: portfolio.CategoryAchievement,
		Item: portfolio.Item{Title: "A", Description: "B", URL: "https://a.test"},
	})
	require.NoError(t, err)

	updated, err := f.save.Execute(ctx, SaveItemInput{
		OwnerID: "u1", Category: portfolio.CategoryAchievement,
		Item: portfolio.Item{ID: created.Item.ID, Title: "A2", Description: "B2"},
	})
	require.NoError(t, err)
	assert.False(t, updated.Created)

	items, err := f.list.Execute(ctx, "u1", portfolio.CategoryAchievement)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "A2", items[0].Title)
	assert.Empty(t, items[0].URL, "overwrite drops fields absent from the draft")
}

func TestSaveItem_UpdateOfMissingItemWritesNothing(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.save.Execute(ctx, SaveItemInput{
		OwnerID: "u1", Category: portfolio.CategoryProject,
		Item: portfolio.Item{ID: "ghost", Title: "X", Description: "Y"},
		File: &File{Name: "a.png", Content: []byte("png")},
	})
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	items, err := f.list.Execute(ctx, "u1", portfolio.CategoryProject)
	require.NoError(t, err)
	assert.Empty(t, items)
	assert.Zero(t, f.docs.Writes())
	assert.Zero(t, f.blobs.Writes(), "nothing is uploaded for an item that does not exist")
}

func TestSaveItem_UploadsFile(t *testing.T) {
	f := newFixture(t)

	out, err := f.save.Execute(context.Background(), SaveItemInput{
		OwnerID: "u1", Category: portfolio.CategoryCertificate,
		Item: portfolio.Item{Title: "Cert", Description: "D"},
		File: &File{Name: "scan.pdf", Content: []byte("%PDF")},
	})
	require.NoError(t, err)
	assert.Equal(t, "profiles/u1/certificates/1700000000123-scan.pdf", out.Item.FilePath)
	assert.Equal(t, "https://files.test/profiles/u1/certificates/1700000000123-scan.pdf", out.Item.FileURL)
	assert.True(t, f.blobs.Has(out.Item.FilePath))
}

func TestSaveItem_EmptyFileMatchesNoFile(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	withEmpty, err := f.save.Execute(ctx, SaveItemInput{
		OwnerID: "u1", Category: portfolio.CategoryProject,
		Item: portfolio.Item{Title: "X", Description: "Y"},
		File: &File{Name: "empty.txt"},
	})
	require.NoError(t, err)
	assert.True(t, withEmpty.UploadSkipped)
	assert.Zero(t, f.blobs.Writes())

	without, err := f.save.Execute(ctx, SaveItemInput{
		OwnerID: "u1", Category: portfolio.CategoryProject,
		Item: portfolio.Item{Title: "X", Description: "Y"},
	})
	require.NoError(t, err)
	assert.False(t, without.UploadSkipped)

	a, err := f.gw.GetDocument(ctx, portfolio.ItemPath("u1", portfolio.CategoryProject, withEmpty.Item.ID))
	require.NoError(t, err)
	b, err := f.gw.GetDocument(ctx, portfolio.ItemPath("u1", portfolio.CategoryProject, without.Item.ID))
	require.NoError(t, err)
	assert.Equal(t, b.Data, a.Data)
}

func TestSaveItem_InvalidDraftWritesNothing(t *testing.T) {
	f := newFixture(t)

	_, err := f.save.Execute(context.Background(), SaveItemInput{
		OwnerID: "u1", Category: portfolio.CategoryProject,
		Item: portfolio.Item{Description: "no title"},
		File: &File{Name: "a.png", Content: []byte("x")},
	})
	assert.True(t, errors.Is(err, apperror.ErrInvalidInput))
	assert.Zero(t, f.docs.Writes())
	assert.Zero(t, f.blobs.Writes())

	_, err = f.save.Execute(context.Background(), SaveItemInput{OwnerID: "u1", Category: "talk", Item: portfolio.Item{Title: "t", Description: "d"}})
	assert.True(t, errors.Is(err, portfolio.ErrInvalidCategory))
}

func TestSaveItem_WriteFailureLeavesUploadedBlob(t *testing.T) {
	docs := persistence.NewMemoryDocumentStore()
	blobs := media_storage.NewMemoryBlobStore("")
	gw := gateway.New(&failingStore{DocumentStore: docs, fail: map[string]bool{"create": true}}, blobs, nil)
	save := NewSaveItemUseCase(gw, service.NoopPublisher{}, logger.NewNop())

	_, err := save.Execute(context.Background(), SaveItemInput{
		OwnerID: "u1", Category: portfolio.CategoryProject,
		Item: portfolio.Item{Title: "X", Description: "Y"},
		File: &File{Name: "a.png", Content: []byte("x")},
	})
	assert.ErrorIs(t, err, errStore)
	assert.Equal(t, 1, blobs.Writes(), "upload precedes the failed write and is not compensated")
}

func TestDeleteItem_RemovesDocumentAndBlob(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	saved, err := f.save.Execute(ctx, SaveItemInput{
		OwnerID: "u1", Category: portfolio.CategoryProject,
		Item: portfolio.Item{Title: "X", Description: "Y"},
		File: &File{Name: "a.png", Content: []byte("png")},
	})
	require.NoError(t, err)

	out, err := f.del.Execute(ctx, DeleteItemInput{
		OwnerID: "u1", Category: portfolio.CategoryProject,
		ItemID: saved.Item.ID, FilePath: saved.Item.FilePath,
	})
	require.NoError(t, err)
	assert.True(t, out.BlobDeleted)
	assert.False(t, f.blobs.Has(saved.Item.FilePath))

	items, err := f.list.Execute(ctx, "u1", portfolio.CategoryProject)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestDeleteItem_BlobFailureIsBestEffort(t *testing.T) {
	docs := persistence.NewMemoryDocumentStore()
	gw := gateway.New(docs, failingBlobs{media_storage.NewMemoryBlobStore("")}, nil)
	del := NewDeleteItemUseCase(gw, service.NoopPublisher{}, logger.NewNop())

	out, err := del.Execute(context.Background(), DeleteItemInput{
		OwnerID: "u1", Category: portfolio.CategoryProject,
		ItemID: "p1", FilePath: "profiles/u1/projects/123-a.png",
	})
	require.NoError(t, err)
	assert.False(t, out.BlobDeleted)
}

func TestDeleteItem_IgnoresForeignBlobPath(t *testing.T) {
	f := newFixture(t)
	_, err := f.gw.UploadBlob(context.Background(), "profiles/u2/projects/1-b.png", []byte("b"))
	require.NoError(t, err)

	out, err := f.del.Execute(context.Background(), DeleteItemInput{
		OwnerID: "u1", Category: portfolio.CategoryProject,
		ItemID: "p1", FilePath: "profiles/u2/projects/1-b.png",
	})
	require.NoError(t, err)
	assert.False(t, out.BlobDeleted)
	assert.True(t, f.blobs.Has("profiles/u2/projects/1-b.png"))
}

func TestListItems_All(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	_, err := f.save.Execute(ctx, SaveItemInput{OwnerID: "u1", Category: portfolio.CategoryCertificate, Item: portfolio.Item{Title: "C", Description: "D"}})
	require.NoError(t, err)

	all, err := f.list.All(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, all, 3)
	assert.Empty(t, all[portfolio.CategoryProject])
	assert.Len(t, all[portfolio.CategoryCertificate], 1)

	failing := NewListItemsUseCase(gateway.New(&failingStore{DocumentStore: f.docs, fail: map[string]bool{"list:achievements": true}}, f.blobs, nil))
	_, err = failing.All(ctx, "u1")
	assert.ErrorIs(t, err, errStore)
}
