package http

import (
	"github.com/khoahotran/portfolio-pilot/internal/application/usecase/dashboard"
	portfolioUC "github.com/khoahotran/portfolio-pilot/internal/application/usecase/portfolio"
	"github.com/khoahotran/portfolio-pilot/internal/domain/portfolio"
	"github.com/khoahotran/portfolio-pilot/internal/domain/profile"
)

// Auth DTOs
type credentialsRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type AuthResponse struct {
	AccessToken string `json:"access_token"`
	UserID      string `json:"user_id"`
	Email       string `json:"email"`
}

// Profile DTOs
type UpdateProfileRequest struct {
	Name string `json:"name"`
	Bio  string `json:"bio"`
}

func (r UpdateProfileRequest) ToFields() profile.Fields {
	return profile.Fields{Name: r.Name, Bio: r.Bio}
}

// Item DTOs
type ItemRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`
	Date        string `json:"date"`
	FileURL     string `json:"fileUrl"`
	FilePath    string `json:"filePath"`
}

func (r ItemRequest) ToDomain(id string) portfolio.Item {
	return portfolio.Item{
		ID:          id,
		Title:       r.Title,
		Description: r.Description,
		URL:         r.URL,
		Date:        r.Date,
		FileURL:     r.FileURL,
		FilePath:    r.FilePath,
	}
}

type ItemDTO struct {
	portfolio.Item
	DisplayDate string `json:"display_date,omitempty"`
}

func ToItemDTOs(items []portfolio.Item) []ItemDTO {
	out := make([]ItemDTO, len(items))
	for i, it := range items {
		out[i] = ItemDTO{Item: it, DisplayDate: it.DisplayDate()}
	}
	return out
}

type SaveItemResponse struct {
	Item    ItemDTO  `json:"item"`
	Message string   `json:"message"`
	Notices []string `json:"notices,omitempty"`
}

// Dashboard DTOs
type SectionDTO struct {
	Category portfolio.Category `json:"category"`
	Title    string             `json:"title"`
	Items    []ItemDTO          `json:"items"`
	Empty    bool               `json:"empty"`
}

type DashboardDTO struct {
	Profile   profile.Profile `json:"profile"`
	Sections  []SectionDTO    `json:"sections"`
	PublicURL string          `json:"public_url"`
}

func ToDashboardDTO(p profile.Profile, items portfolioUC.Collections, publicURL string) DashboardDTO {
	dto := DashboardDTO{Profile: p, PublicURL: publicURL}
	for _, c := range portfolio.Categories() {
		dto.Sections = append(dto.Sections, SectionDTO{
			Category: c,
			Title:    c.Title(),
			Items:    ToItemDTOs(items[c]),
			Empty:    len(items[c]) == 0,
		})
	}
	return dto
}

type MessageResponse struct {
	Message string `json:"message"`
}

var emptyFileNotice = dashboard.MsgUploadSkipped
