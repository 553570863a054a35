package portfolio

import (
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/khoahotran/portfolio-pilot/internal/domain/document"
	"github.com/khoahotran/portfolio-pilot/internal/domain/profile"
)

// Category partitions portfolio items. Each category is its own collection under the profile.
type Category string

const (
	CategoryProject     Category = "project"
	CategoryAchievement Category = "achievement"
	CategoryCertificate Category = "certificate"
)

var ErrInvalidCategory = errors.New("invalid portfolio category")

// Categories lists every category in display order.
func Categories() []Category {
	return []Category{CategoryProject, CategoryAchievement, CategoryCertificate}
}

func ParseCategory(s string) (Category, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, c := range Categories() {
		if s == string(c) || s == c.Collection() {
			return c, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidCategory, s)
}

func (c Category) Valid() bool {
	switch c {
	case CategoryProject, CategoryAchievement, CategoryCertificate:
		return true
	}
	return false
}

// Collection is the plural collection name, e.g. "projects".
func (c Category) Collection() string {
	return string(c) + "s"
}

// Title is the capitalized plural used as a section heading.
func (c Category) Title() string {
	name := c.Collection()
	return strings.ToUpper(name[:1]) + name[1:]
}

func CollectionPath(ownerID string, c Category) document.Path {
	return profile.Path(ownerID).Child(c.Collection())
}

func ItemPath(ownerID string, c Category, itemID string) document.Path {
	return CollectionPath(ownerID, c).Child(itemID)
}

// BlobPath derives the storage path for an uploaded file:
// profiles/{ownerId}/{category}s/{unixMillis}-{filename}.
func BlobPath(ownerID string, c Category, at time.Time, filename string) string {
	name := path.Base(strings.ReplaceAll(filename, "\\", "/"))
	if name == "." || name == "/" {
		name = "file"
	}
	return fmt.Sprintf("%s/%s/%s/%d-%s", profile.CollectionProfiles, ownerID, c.Collection(), at.UnixMilli(), name)
}
