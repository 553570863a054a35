package document

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePath(t *testing.T) {
	p, err := ParsePath("/profiles/u1/projects/p1/")
	require.NoError(t, err)
	assert.Equal(t, Path{"profiles", "u1", "projects", "p1"}, p)
	assert.True(t, p.IsDocument())
	assert.Equal(t, "p1", p.ID())
	assert.Equal(t, "profiles/u1/projects", p.Parent().String())

	_, err = ParsePath("profiles//projects")
	assert.ErrorIs(t, err, ErrEmptySegment)
}

func TestPath_Shape(t *testing.T) {
	coll := Path{"profiles", "u1", "projects"}
	assert.True(t, coll.IsCollection())
	assert.NoError(t, coll.RequireCollection())
	assert.ErrorIs(t, coll.RequireDocument(), ErrNotDocument)

	doc := coll.Child("p1")
	assert.NoError(t, doc.RequireDocument())
	assert.ErrorIs(t, doc.RequireCollection(), ErrNotCollection)
	assert.Len(t, coll, 3, "Child must not alias the receiver")
}

func TestDocument_String(t *testing.T) {
	d := &Document{Data: map[string]any{"title": "X", "n": 3}}
	assert.Equal(t, "X", d.String("title"))
	assert.Equal(t, "", d.String("n"))
	assert.Equal(t, "", d.String("missing"))

	var nilDoc *Document
	assert.Equal(t, "", nilDoc.String("title"))
}
