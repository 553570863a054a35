package publicprofile

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/khoahotran/portfolio-pilot/internal/application/gateway"
	portfoliouc "github.com/khoahotran/portfolio-pilot/internal/application/usecase/portfolio"
	profileuc "github.com/khoahotran/portfolio-pilot/internal/application/usecase/profile"
	"github.com/khoahotran/portfolio-pilot/internal/domain/portfolio"
	"github.com/khoahotran/portfolio-pilot/internal/domain/profile"
	"github.com/khoahotran/portfolio-pilot/pkg/apperror"
	"github.com/khoahotran/portfolio-pilot/pkg/logger"
)

type Status string

const (
	StatusLoading  Status = "loading"
	StatusNotFound Status = "not_found"
	StatusError    Status = "error"
	StatusLoaded   Status = "loaded"
)

const (
	MsgNotFound   = "Profile not found."
	MsgLoadFailed = "Failed to load profile."
)

type Section struct {
	Category portfolio.Category `json:"category"`
	Title    string             `json:"title"`
	Items    []portfolio.Item   `json:"items"`
}

type View struct {
	TargetUserID string           `json:"target_user_id"`
	Status       Status           `json:"status"`
	Message      string           `json:"message,omitempty"`
	Profile      *profile.Profile `json:"profile,omitempty"`
	// Sections holds only non-empty categories, in display order.
	Sections []Section `json:"sections,omitempty"`
}

// Reader loads someone's published profile once. It only ever reads.
type Reader struct {
	target     string
	getProfile *profileuc.GetProfileUseCase
	listItems  *portfoliouc.ListItemsUseCase
	logger     logger.Logger

	mu   sync.RWMutex
	once sync.Once
	view View
}

func NewReader(gw gateway.Reader, targetUserID string, log logger.Logger) *Reader {
	if log == nil {
		log = logger.NewNop()
	}
	return &Reader{
		target:     targetUserID,
		getProfile: profileuc.NewGetProfileUseCase(gw),
		listItems:  portfoliouc.NewListItemsUseCase(gw),
		logger:     log.With(zap.String("target_user_id", targetUserID)),
		view:       View{TargetUserID: targetUserID, Status: StatusLoading},
	}
}

// Load fetches the profile, then the three collections. Later calls return the
// first result without fetching again.
func (r *Reader) Load(ctx context.Context) View {
	r.once.Do(func() {
		v := r.fetch(ctx)
		r.mu.Lock()
		r.view = v
		r.mu.Unlock()
	})
	return r.View()
}

func (r *Reader) View() View {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.view
}

func (r *Reader) fetch(ctx context.Context) View {
	v := View{TargetUserID: r.target}

	p, err := r.getProfile.Execute(ctx, r.target)
	switch {
	case errors.Is(err, apperror.ErrNotFound):
		v.Status, v.Message = StatusNotFound, MsgNotFound
		return v
	case err != nil:
		r.logger.Error("Failed to load public profile", err)
		v.Status, v.Message = StatusError, MsgLoadFailed
		return v
	}

	items, err := r.listItems.All(ctx, r.target)
	if err != nil {
		r.logger.Error("Failed to load public items", err)
		v.Status, v.Message = StatusError, MsgLoadFailed
		return v
	}

	v.Status = StatusLoaded
	v.Profile = p
	for _, c := range portfolio.Categories() {
		if len(items[c]) == 0 {
			continue
		}
		v.Sections = append(v.Sections, Section{Category: c, Title: c.Title(), Items: items[c]})
	}
	return v
}
