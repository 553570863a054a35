package portfolio

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/khoahotran/portfolio-pilot/internal/application/gateway"
	"github.com/khoahotran/portfolio-pilot/internal/domain/portfolio"
)

// Collections holds the items of every category, keyed by category.
type Collections map[portfolio.Category][]portfolio.Item

type ListItemsUseCase struct {
	gw gateway.Reader
}

func NewListItemsUseCase(gw gateway.Reader) *ListItemsUseCase {
	return &ListItemsUseCase{gw: gw}
}

func (uc *ListItemsUseCase) Execute(ctx context.Context, ownerID string, category portfolio.Category) ([]portfolio.Item, error) {
	docs, err := uc.gw.ListDocuments(ctx, portfolio.CollectionPath(ownerID, category))
	if err != nil {
		return nil, fmt.Errorf("list %s failed: %w", category.Collection(), err)
	}
	return portfolio.ItemsFromDocuments(docs), nil
}

// All fetches the three collections concurrently. Any failure fails the whole call.
func (uc *ListItemsUseCase) All(ctx context.Context, ownerID string) (Collections, error) {
	categories := portfolio.Categories()
	results := make([][]portfolio.Item, len(categories))

	g, gctx := errgroup.WithContext(ctx)
	for i, c := range categories {
		g.Go(func() error {
			items, err := uc.Execute(gctx, ownerID, c)
			if err != nil {
				return err
			}
			results[i] = items
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make(Collections, len(categories))
	for i, c := range categories {
		out[c] = results[i]
	}
	return out, nil
}

type GetItemUseCase struct {
	gw gateway.Reader
}

func NewGetItemUseCase(gw gateway.Reader) *GetItemUseCase {
	return &GetItemUseCase{gw: gw}
}

func (uc *GetItemUseCase) Execute(ctx context.Context, ownerID string, category portfolio.Category, itemID string) (*portfolio.Item, error) {
	doc, err := uc.gw.GetDocument(ctx, portfolio.ItemPath(ownerID, category, itemID))
	if err != nil {
		return nil, fmt.Errorf("get %s failed: %w", category, err)
	}
	item := portfolio.ItemFromDocument(doc)
	return &item, nil
}
