package portfolio

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/khoahotran/portfolio-pilot/internal/domain/document"
)

const dateLayout = "2006-01-02"

var (
	ErrPartialFile = errors.New("fileUrl and filePath must be set together")

	validate = validator.New(validator.WithRequiredStructEnabled())
)

// Item is a project, achievement or certificate. The category is not a field:
// it is the collection the item lives in.
type Item struct {
	ID          string `json:"id,omitempty"`
	Title       string `json:"title" validate:"required,max=200"`
	Description string `json:"description" validate:"required,max=5000"`
	URL         string `json:"url,omitempty" validate:"omitempty,url"`
	Date        string `json:"date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	FileURL     string `json:"fileUrl,omitempty"`
	FilePath    string `json:"filePath,omitempty"`
}

func (it Item) Validate() error {
	if err := validate.Struct(it); err != nil {
		return fmt.Errorf("invalid item: %w", err)
	}
	if (it.FileURL == "") != (it.FilePath == "") {
		return ErrPartialFile
	}
	return nil
}

func (it Item) HasFile() bool {
	return it.FilePath != ""
}

// Fields is the stored document body. The id is never stored and empty optional
// fields are left out.
func (it Item) Fields() map[string]any {
	data := map[string]any{
		"title":       it.Title,
		"description": it.Description,
	}
	if it.URL != "" {
		data["url"] = it.URL
	}
	if it.Date != "" {
		data["date"] = it.Date
	}
	if it.FileURL != "" && it.FilePath != "" {
		data["fileUrl"] = it.FileURL
		data["filePath"] = it.FilePath
	}
	return data
}

func ItemFromDocument(d *document.Document) Item {
	return Item{
		ID:          d.ID,
		Title:       d.String("title"),
		Description: d.String("description"),
		URL:         d.String("url"),
		Date:        d.String("date"),
		FileURL:     d.String("fileUrl"),
		FilePath:    d.String("filePath"),
	}
}

func ItemsFromDocuments(docs []*document.Document) []Item {
	items := make([]Item, 0, len(docs))
	for _, d := range docs {
		items = append(items, ItemFromDocument(d))
	}
	return items
}

// DisplayDate renders the date as "January 2006", or "" when unset or unparsable.
func (it Item) DisplayDate() string {
	if it.Date == "" {
		return ""
	}
	t, err := time.Parse(dateLayout, it.Date)
	if err != nil {
		return ""
	}
	return t.Format("January 2006")
}
