package dashboard

import (
	"context"
	"errors"
	"slices"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/khoahotran/portfolio-pilot/internal/application/gateway"
	"github.com/khoahotran/portfolio-pilot/internal/application/notify"
	"github.com/khoahotran/portfolio-pilot/internal/application/router"
	"github.com/khoahotran/portfolio-pilot/internal/application/service"
	"github.com/khoahotran/portfolio-pilot/internal/application/state"
	"github.com/khoahotran/portfolio-pilot/internal/application/usecase/backup"
	portfoliouc "github.com/khoahotran/portfolio-pilot/internal/application/usecase/portfolio"
	profileuc "github.com/khoahotran/portfolio-pilot/internal/application/usecase/profile"
	"github.com/khoahotran/portfolio-pilot/internal/domain/identity"
	"github.com/khoahotran/portfolio-pilot/internal/domain/portfolio"
	"github.com/khoahotran/portfolio-pilot/internal/domain/profile"
	"github.com/khoahotran/portfolio-pilot/pkg/apperror"
	"github.com/khoahotran/portfolio-pilot/pkg/logger"
)

const (
	MsgOffline          = "No internet connection."
	MsgUploadSkipped    = "Empty file detected. File upload skipped."
	MsgItemAdded        = "Item added successfully!"
	MsgItemUpdated      = "Item updated successfully!"
	MsgSaveFailed       = "Failed to save item. Check logs for details."
	MsgItemDeleted      = "Item deleted."
	MsgDeleteFailed     = "Failed to delete item."
	MsgProfileUpdated   = "Profile updated!"
	MsgProfileFailed    = "Failed to update profile."
	MsgLoadFailed       = "Failed to load dashboard."
	MsgURLCopied        = "URL copied!"
	MsgExported         = "Portfolio exported."
	MsgExportFailed     = "Failed to export portfolio."
	PromptConfirmDelete = "Are you sure you want to delete this item?"
)

// ErrOffline is returned by mutations attempted without connectivity.
var ErrOffline = apperror.NewUnavailable("no network connectivity", nil)

type Phase string

const (
	PhaseLoading Phase = "loading"
	PhaseReady   Phase = "ready"
)

// Editor is the item edit surface. Item.ID is empty when adding.
type Editor struct {
	Open     bool
	Category portfolio.Category
	Item     portfolio.Item
}

type Section struct {
	Category portfolio.Category
	Items    []portfolio.Item
	// Empty sections are still listed so clients can show a placeholder.
	Empty bool
}

type Snapshot struct {
	Phase    Phase
	Owner    identity.Identity
	Profile  profile.Profile
	Sections []Section
	Editor   Editor
}

type Deps struct {
	Gateway       gateway.Remote
	Notifier      notify.Notifier
	Connectivity  service.Connectivity
	Clipboard     service.Clipboard
	Events        service.EventPublisher
	Logger        logger.Logger
	PublicBaseURL string
	// Confirm asks the user a yes/no question. A nil Confirm declines.
	Confirm func(prompt string) bool
}

// Controller is the owner's dashboard for one mount. Mutations are expected one
// at a time; reads of the snapshot are safe from any goroutine.
type Controller struct {
	owner identity.Identity
	deps  Deps
	phase *state.Value[Phase]

	getProfile    *profileuc.GetProfileUseCase
	updateProfile *profileuc.UpdateProfileUseCase
	listItems     *portfoliouc.ListItemsUseCase
	saveItem      *portfoliouc.SaveItemUseCase
	deleteItem    *portfoliouc.DeleteItemUseCase
	export        *backup.ExportUseCase

	mu      sync.RWMutex
	profile profile.Profile
	items   portfoliouc.Collections
	editor  Editor
}

func New(owner identity.Identity, deps Deps) *Controller {
	if deps.Logger == nil {
		deps.Logger = logger.NewNop()
	}
	if deps.Events == nil {
		deps.Events = service.NoopPublisher{}
	}
	if deps.Connectivity == nil {
		deps.Connectivity = service.AlwaysOnline{}
	}
	deps.Logger = deps.Logger.With(zap.String("owner_id", owner.ID))

	return &Controller{
		owner:         owner,
		deps:          deps,
		phase:         state.NewValue(PhaseLoading),
		getProfile:    profileuc.NewGetProfileUseCase(deps.Gateway),
		updateProfile: profileuc.NewUpdateProfileUseCase(deps.Gateway, deps.Events),
		listItems:     portfoliouc.NewListItemsUseCase(deps.Gateway),
		saveItem:      portfoliouc.NewSaveItemUseCase(deps.Gateway, deps.Events, deps.Logger),
		deleteItem:    portfoliouc.NewDeleteItemUseCase(deps.Gateway, deps.Events, deps.Logger),
		export:        backup.NewExportUseCase(deps.Gateway, deps.Logger),
		profile:       profile.Profile{Email: owner.Email},
		items:         emptyCollections(),
	}
}

// Load fetches the profile and the three collections concurrently. On failure
// it notifies and still ends Ready with whatever was shown before.
func (c *Controller) Load(ctx context.Context) error {
	c.phase.Set(PhaseLoading)
	defer c.phase.Set(PhaseReady)

	var (
		p     *profile.Profile
		items portfoliouc.Collections
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		got, err := c.getProfile.Execute(gctx, c.owner.ID)
		if errors.Is(err, apperror.ErrNotFound) {
			return nil
		}
		p = got
		return err
	})
	g.Go(func() error {
		var err error
		items, err = c.listItems.All(gctx, c.owner.ID)
		return err
	})
	if err := g.Wait(); err != nil {
		c.deps.Logger.Error("Failed to load dashboard", err)
		c.deps.Notifier.Notify(MsgLoadFailed, notify.SeverityError)
		return err
	}

	c.mu.Lock()
	if p != nil {
		c.profile = *p
	}
	c.items = items
	c.mu.Unlock()
	return nil
}

func (c *Controller) SaveProfile(ctx context.Context, fields profile.Fields) error {
	if err := c.requireOnline(ctx); err != nil {
		return err
	}

	c.mu.Lock()
	c.profile = c.profile.Apply(fields)
	c.mu.Unlock()

	err := c.updateProfile.Execute(ctx, profileuc.UpdateProfileInput{OwnerID: c.owner.ID, Fields: fields})
	if err != nil {
		c.deps.Logger.Error("Failed to update profile", err)
		c.deps.Notifier.Notify(MsgProfileFailed, notify.SeverityError)
		return err
	}
	c.deps.Notifier.Notify(MsgProfileUpdated, notify.SeveritySuccess)
	return nil
}

func (c *Controller) OpenEditor(category portfolio.Category, item *portfolio.Item) {
	e := Editor{Open: true, Category: category}
	if item != nil {
		e.Item = *item
	}
	c.mu.Lock()
	c.editor = e
	c.mu.Unlock()
}

func (c *Controller) CloseEditor() {
	c.mu.Lock()
	c.editor = Editor{}
	c.mu.Unlock()
}

func (c *Controller) Editor() Editor {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.editor
}

// SaveItem uploads the optional file, writes the item, then re-syncs all three
// collections and closes the editor. On failure the editor stays open.
func (c *Controller) SaveItem(ctx context.Context, category portfolio.Category, item portfolio.Item, file *portfoliouc.File) error {
	if err := c.requireOnline(ctx); err != nil {
		return err
	}

	out, err := c.saveItem.Execute(ctx, portfoliouc.SaveItemInput{
		OwnerID:  c.owner.ID,
		Category: category,
		Item:     item,
		File:     file,
	})
	if err != nil {
		c.deps.Notifier.Notify(MsgSaveFailed, notify.SeverityError)
		return err
	}
	if out.UploadSkipped {
		c.deps.Notifier.Notify(MsgUploadSkipped, notify.SeverityInfo)
	}
	if out.Created {
		c.deps.Notifier.Notify(MsgItemAdded, notify.SeveritySuccess)
	} else {
		c.deps.Notifier.Notify(MsgItemUpdated, notify.SeveritySuccess)
	}

	c.refetchItems(ctx)
	c.CloseEditor()
	return nil
}

func (c *Controller) refetchItems(ctx context.Context) {
	c.phase.Set(PhaseLoading)
	defer c.phase.Set(PhaseReady)

	items, err := c.listItems.All(ctx, c.owner.ID)
	if err != nil {
		c.deps.Logger.Error("Failed to refresh items", err)
		c.deps.Notifier.Notify(MsgLoadFailed, notify.SeverityError)
		return
	}
	c.mu.Lock()
	c.items = items
	c.mu.Unlock()
}

// DeleteItem asks for confirmation first; a declined prompt is not an error.
// The item is removed locally without a refetch.
func (c *Controller) DeleteItem(ctx context.Context, category portfolio.Category, item portfolio.Item) error {
	if c.deps.Confirm == nil || !c.deps.Confirm(PromptConfirmDelete) {
		return nil
	}
	if err := c.requireOnline(ctx); err != nil {
		return err
	}

	_, err := c.deleteItem.Execute(ctx, portfoliouc.DeleteItemInput{
		OwnerID:  c.owner.ID,
		Category: category,
		ItemID:   item.ID,
		FilePath: item.FilePath,
	})
	if err != nil {
		c.deps.Notifier.Notify(MsgDeleteFailed, notify.SeverityError)
		return err
	}
	c.deps.Notifier.Notify(MsgItemDeleted, notify.SeverityInfo)

	c.mu.Lock()
	c.items[category] = slices.DeleteFunc(slices.Clone(c.items[category]), func(it portfolio.Item) bool {
		return it.ID == item.ID
	})
	c.mu.Unlock()
	return nil
}

func (c *Controller) PublicURL() string {
	return c.deps.PublicBaseURL + router.Fragment(c.owner.ID)
}

// CopyPublicLink writes the public URL to the clipboard. Clipboard failures are only logged.
func (c *Controller) CopyPublicLink() string {
	url := c.PublicURL()
	if c.deps.Clipboard != nil {
		if err := c.deps.Clipboard.WriteText(url); err != nil {
			c.deps.Logger.Debug("Clipboard write failed", zap.Error(err))
		}
	}
	c.deps.Notifier.Notify(MsgURLCopied, notify.SeverityInfo)
	return url
}

// Export uploads a JSON snapshot of the stored portfolio and returns its URL.
func (c *Controller) Export(ctx context.Context) (*backup.ExportOutput, error) {
	if err := c.requireOnline(ctx); err != nil {
		return nil, err
	}
	out, err := c.export.Execute(ctx, c.owner.ID)
	if err != nil {
		c.deps.Notifier.Notify(MsgExportFailed, notify.SeverityError)
		return nil, err
	}
	c.deps.Notifier.Notify(MsgExported, notify.SeveritySuccess)
	return out, nil
}

func (c *Controller) Phase() Phase {
	return c.phase.Get()
}

// SubscribePhase reports every Loading/Ready transition.
func (c *Controller) SubscribePhase(fn func(Phase)) (unsubscribe func()) {
	return c.phase.Subscribe(fn)
}

func (c *Controller) Items(category portfolio.Category) []portfolio.Item {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.items[category])
}

// Find looks an item up in local state.
func (c *Controller) Find(category portfolio.Category, itemID string) (portfolio.Item, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	i := slices.IndexFunc(c.items[category], func(it portfolio.Item) bool { return it.ID == itemID })
	if i < 0 {
		return portfolio.Item{}, false
	}
	return c.items[category][i], true
}

func (c *Controller) Snapshot() Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()

	sections := make([]Section, 0, len(portfolio.Categories()))
	for _, cat := range portfolio.Categories() {
		items := slices.Clone(c.items[cat])
		sections = append(sections, Section{Category: cat, Items: items, Empty: len(items) == 0})
	}
	return Snapshot{
		Phase:    c.phase.Get(),
		Owner:    c.owner,
		Profile:  c.profile,
		Sections: sections,
		Editor:   c.editor,
	}
}

func (c *Controller) requireOnline(ctx context.Context) error {
	if c.deps.Connectivity.Online(ctx) {
		return nil
	}
	c.deps.Notifier.Notify(MsgOffline, notify.SeverityError)
	return ErrOffline
}

func emptyCollections() portfoliouc.Collections {
	out := make(portfoliouc.Collections, len(portfolio.Categories()))
	for _, c := range portfolio.Categories() {
		out[c] = []portfolio.Item{}
	}
	return out
}
