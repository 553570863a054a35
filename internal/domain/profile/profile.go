package profile

import (
	"github.com/khoahotran/portfolio-pilot/internal/domain/document"
)

const (
	DefaultName = "New User"
	DefaultBio  = "A short bio about yourself."

	CollectionProfiles = "profiles"
)

type Profile struct {
	Name  string `json:"name"`
	Bio   string `json:"bio"`
	Email string `json:"email"`
}

// Fields is the owner-editable subset written with a merge.
type Fields struct {
	Name string `json:"name" validate:"max=120"`
	Bio  string `json:"bio" validate:"max=2000"`
}

// Default is the profile created at sign-up.
func Default(email string) Profile {
	return Profile{Name: DefaultName, Bio: DefaultBio, Email: email}
}

func Path(ownerID string) document.Path {
	return document.Path{CollectionProfiles, ownerID}
}

func (p Profile) Data() map[string]any {
	return map[string]any{
		"name":  p.Name,
		"bio":   p.Bio,
		"email": p.Email,
	}
}

func (f Fields) Data() map[string]any {
	return map[string]any{
		"name": f.Name,
		"bio":  f.Bio,
	}
}

// Apply returns p with the editable fields replaced.
func (p Profile) Apply(f Fields) Profile {
	p.Name = f.Name
	p.Bio = f.Bio
	return p
}

func FromDocument(d *document.Document) Profile {
	return Profile{
		Name:  d.String("name"),
		Bio:   d.String("bio"),
		Email: d.String("email"),
	}
}
