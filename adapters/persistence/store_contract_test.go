package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/khoahotran/portfolio-pilot/internal/application/service"
	"github.com/khoahotran/portfolio-pilot/internal/domain/document"
	"github.com/khoahotran/portfolio-pilot/internal/domain/identity"
	"github.com/khoahotran/portfolio-pilot/pkg/apperror"
)

// documentStoreContract is the behavior every DocumentStore backend shares.
// Each run works under a fresh owner so backends can be reused across runs.
func documentStoreContract(t *testing.T, store service.DocumentStore) {
	ctx := context.Background()
	owner := uuid.NewString()
	profilePath := document.Path{"profiles", owner}
	projects := profilePath.Child("projects")

	t.Run("get missing", func(t *testing.T) {
		_, err := store.Get(ctx, profilePath)
		assert.ErrorIs(t, err, apperror.ErrNotFound)
	})

	t.Run("set replaces and merge keeps other fields", func(t *testing.T) {
		require.NoError(t, store.Set(ctx, profilePath, map[string]any{"name": "New User", "bio": "b", "email": "a@b.com"}, false))

		require.NoError(t, store.Set(ctx, profilePath, map[string]any{"name": "Ada", "bio": "Engineer"}, true))
		doc, err := store.Get(ctx, profilePath)
		require.NoError(t, err)
		assert.Equal(t, owner, doc.ID)
		assert.Equal(t, map[string]any{"name": "Ada", "bio": "Engineer", "email": "a@b.com"}, doc.Data)

		require.NoError(t, store.Set(ctx, profilePath, map[string]any{"name": "Only"}, false))
		doc, err = store.Get(ctx, profilePath)
		require.NoError(t, err)
		assert.Equal(t, map[string]any{"name": "Only"}, doc.Data)
	})

	t.Run("merge creates a missing document", func(t *testing.T) {
		p := document.Path{"profiles", uuid.NewString()}
		require.NoError(t, store.Set(ctx, p, map[string]any{"name": "x"}, true))
		doc, err := store.Get(ctx, p)
		require.NoError(t, err)
		assert.Equal(t, "x", doc.String("name"))
	})

	t.Run("create list delete", func(t *testing.T) {
		docs, err := store.List(ctx, projects)
		require.NoError(t, err)
		assert.Empty(t, docs)

		id1, err := store.Create(ctx, projects, map[string]any{"title": "one"})
		require.NoError(t, err)
		id2, err := store.Create(ctx, projects, map[string]any{"title": "two"})
		require.NoError(t, err)
		assert.NotEqual(t, id1, id2)

		docs, err = store.List(ctx, projects)
		require.NoError(t, err)
		titles := make(map[string]string, len(docs))
		for _, d := range docs {
			titles[d.ID] = d.String("title")
			assert.Equal(t, projects.Child(d.ID), d.Path)
		}
		assert.Equal(t, map[string]string{id1: "one", id2: "two"}, titles)

		// Sibling collections stay separate.
		other, err := store.List(ctx, profilePath.Child("achievements"))
		require.NoError(t, err)
		assert.Empty(t, other)

		require.NoError(t, store.Delete(ctx, projects.Child(id1)))
		require.NoError(t, store.Delete(ctx, projects.Child(id1)), "deleting twice is fine")
		_, err = store.Get(ctx, projects.Child(id1))
		assert.ErrorIs(t, err, apperror.ErrNotFound)

		docs, err = store.List(ctx, projects)
		require.NoError(t, err)
		require.Len(t, docs, 1)
		assert.Equal(t, id2, docs[0].ID)
	})
}

func userRepoContract(t *testing.T, repo identity.Repository) {
	ctx := context.Background()
	email := uuid.NewString() + "@example.com"
	account := &identity.Account{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: "hash-1",
		CreatedAt:    time.Now().UTC().Truncate(time.Millisecond),
	}

	require.NoError(t, repo.Create(ctx, account))

	dup := *account
	dup.ID = uuid.NewString()
	assert.ErrorIs(t, repo.Create(ctx, &dup), apperror.ErrConflict)

	byEmail, err := repo.FindByEmail(ctx, email)
	require.NoError(t, err)
	assert.Equal(t, account.ID, byEmail.ID)
	assert.Equal(t, "hash-1", byEmail.PasswordHash)

	require.NoError(t, repo.UpdatePasswordHash(ctx, account.ID, "hash-2"))
	byID, err := repo.FindByID(ctx, account.ID)
	require.NoError(t, err)
	assert.Equal(t, email, byID.Email)
	assert.Equal(t, "hash-2", byID.PasswordHash)

	_, err = repo.FindByEmail(ctx, "nobody-"+email)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
	_, err = repo.FindByID(ctx, uuid.NewString())
	assert.ErrorIs(t, err, apperror.ErrNotFound)
	assert.ErrorIs(t, repo.UpdatePasswordHash(ctx, uuid.NewString(), "x"), apperror.ErrNotFound)
}

func sessionStoreContract(t *testing.T, store service.SessionStore) {
	ctx := context.Background()
	device := uuid.NewString()

	token, err := store.Load(ctx, device)
	require.NoError(t, err)
	assert.Empty(t, token)

	require.NoError(t, store.Save(ctx, device, "tok-1", time.Hour))
	token, err = store.Load(ctx, device)
	require.NoError(t, err)
	assert.Equal(t, "tok-1", token)

	require.NoError(t, store.Clear(ctx, device))
	token, err = store.Load(ctx, device)
	require.NoError(t, err)
	assert.Empty(t, token)
}

func TestMemoryStores(t *testing.T) {
	t.Run("documents", func(t *testing.T) { documentStoreContract(t, NewMemoryDocumentStore()) })
	t.Run("users", func(t *testing.T) { userRepoContract(t, NewMemoryUserRepo()) })
	t.Run("sessions", func(t *testing.T) { sessionStoreContract(t, NewMemorySessionStore()) })
}
