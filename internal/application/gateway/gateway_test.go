package gateway_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/khoahotran/portfolio-pilot/adapters/media_storage"
	"github.com/khoahotran/portfolio-pilot/adapters/persistence"
	"github.com/khoahotran/portfolio-pilot/internal/application/gateway"
	"github.com/khoahotran/portfolio-pilot/internal/domain/document"
	"github.com/khoahotran/portfolio-pilot/pkg/apperror"
)

func newGateway() (*gateway.Gateway, *persistence.MemoryDocumentStore, *media_storage.MemoryBlobStore) {
	docs := persistence.NewMemoryDocumentStore()
	blobs := media_storage.NewMemoryBlobStore("https://files.test")
	return gateway.New(docs, blobs, nil), docs, blobs
}

func TestGateway_UpsertMergeAndReplace(t *testing.T) {
	ctx := context.Background()
	gw, _, _ := newGateway()
	path := document.Path{"profiles", "u1"}

	require.NoError(t, gw.UpsertDocument(ctx, path, map[string]any{"name": "A", "bio": "B", "email": "a@b.com"}))
	require.NoError(t, gw.UpsertDocument(ctx, path, map[string]any{"name": "C"}, gateway.WithMerge()))

	doc, err := gw.GetDocument(ctx, path)
	require.NoError(t, err)
	assert.Equal(t, "C", doc.String("name"))
	assert.Equal(t, "B", doc.String("bio"))

	require.NoError(t, gw.UpsertDocument(ctx, path, map[string]any{"name": "D"}))
	doc, err = gw.GetDocument(ctx, path)
	require.NoError(t, err)
	assert.Equal(t, "D", doc.String("name"))
	assert.Empty(t, doc.String("bio"))
}

func TestGateway_CreateListDelete(t *testing.T) {
	ctx := context.Background()
	gw, _, _ := newGateway()
	coll := document.Path{"profiles", "u1", "projects"}

	id, err := gw.CreateDocument(ctx, coll, map[string]any{"title": "X"})
	require.NoError(t, err)
	require.NotEmpty(t, id)

	docs, err := gw.ListDocuments(ctx, coll)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, id, docs[0].ID)

	require.NoError(t, gw.DeleteDocument(ctx, coll.Child(id)))
	docs, err = gw.ListDocuments(ctx, coll)
	require.NoError(t, err)
	assert.Empty(t, docs)

	_, err = gw.GetDocument(ctx, coll.Child(id))
	assert.True(t, errors.Is(err, apperror.ErrNotFound))
}

func TestGateway_RejectsWrongPathShape(t *testing.T) {
	ctx := context.Background()
	gw, docs, _ := newGateway()

	_, err := gw.GetDocument(ctx, document.Path{"profiles"})
	assert.True(t, errors.Is(err, apperror.ErrInvalidInput))
	assert.True(t, errors.Is(err, document.ErrNotDocument))

	_, err = gw.ListDocuments(ctx, document.Path{"profiles", "u1"})
	assert.True(t, errors.Is(err, document.ErrNotCollection))

	_, err = gw.CreateDocument(ctx, document.Path{"profiles", "", "projects"}, nil)
	assert.True(t, errors.Is(err, document.ErrEmptySegment))

	assert.Zero(t, docs.Writes())
}

func TestGateway_Blobs(t *testing.T) {
	ctx := context.Background()
	gw, _, blobs := newGateway()

	url, err := gw.UploadBlob(ctx, "profiles/u1/projects/1-a.png", []byte("png"))
	require.NoError(t, err)
	assert.Equal(t, "https://files.test/profiles/u1/projects/1-a.png", url)
	assert.True(t, blobs.Has("profiles/u1/projects/1-a.png"))

	require.NoError(t, gw.DeleteBlob(ctx, "profiles/u1/projects/1-a.png"))
	assert.False(t, blobs.Has("profiles/u1/projects/1-a.png"))

	_, err = gw.UploadBlob(ctx, "", []byte("x"))
	assert.True(t, errors.Is(err, apperror.ErrInvalidInput))
}
