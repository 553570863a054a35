package profile

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/khoahotran/portfolio-pilot/internal/domain/document"
)

func TestDefault(t *testing.T) {
	p := Default("a@b.com")
	assert.Equal(t, map[string]any{"name": "New User", "bio": "A short bio about yourself.", "email": "a@b.com"}, p.Data())
	assert.Equal(t, "profiles/u1", Path("u1").String())
}

func TestApplyAndFromDocument(t *testing.T) {
	p := Default("a@b.com").Apply(Fields{Name: "Ada", Bio: "Engineer"})
	assert.Equal(t, Profile{Name: "Ada", Bio: "Engineer", Email: "a@b.com"}, p)

	assert.Equal(t, p, FromDocument(&document.Document{Data: p.Data()}))
	assert.Equal(t, Profile{}, FromDocument(&document.Document{}))
}
