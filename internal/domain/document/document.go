package document

import (
	"errors"
	"strings"
)

var (
	ErrEmptySegment  = errors.New("path segment must not be empty")
	ErrNotDocument   = errors.New("path does not address a document")
	ErrNotCollection = errors.New("path does not address a collection")
)

// Path addresses a collection (odd number of segments) or a document (even number)
// in the hierarchical store, e.g. profiles/{ownerId}/projects/{itemId}.
type Path []string

func ParsePath(s string) (Path, error) {
	parts := strings.Split(strings.Trim(s, "/"), "/")
	p := Path(parts)
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

func (p Path) Validate() error {
	if len(p) == 0 {
		return ErrEmptySegment
	}
	for _, seg := range p {
		if seg == "" || strings.Contains(seg, "/") {
			return ErrEmptySegment
		}
	}
	return nil
}

func (p Path) String() string {
	return strings.Join(p, "/")
}

func (p Path) IsDocument() bool {
	return len(p) > 0 && len(p)%2 == 0
}

func (p Path) IsCollection() bool {
	return len(p)%2 == 1
}

// ID is the last segment of a document path.
func (p Path) ID() string {
	if len(p) == 0 {
		return ""
	}
	return p[len(p)-1]
}

// Parent returns the collection holding a document, or the document holding a collection.
func (p Path) Parent() Path {
	if len(p) <= 1 {
		return nil
	}
	return append(Path(nil), p[:len(p)-1]...)
}

// Child appends one segment without aliasing the receiver.
func (p Path) Child(segment string) Path {
	out := make(Path, 0, len(p)+1)
	out = append(out, p...)
	return append(out, segment)
}

func (p Path) RequireDocument() error {
	if err := p.Validate(); err != nil {
		return err
	}
	if !p.IsDocument() {
		return ErrNotDocument
	}
	return nil
}

func (p Path) RequireCollection() error {
	if err := p.Validate(); err != nil {
		return err
	}
	if !p.IsCollection() {
		return ErrNotCollection
	}
	return nil
}

type Document struct {
	ID   string
	Path Path
	Data map[string]any
}

// String reads a string field, tolerating missing or non-string values.
func (d *Document) String(field string) string {
	if d == nil || d.Data == nil {
		return ""
	}
	s, _ := d.Data[field].(string)
	return s
}
