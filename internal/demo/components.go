// Package demo is a small document harbor served through hxhydrate: a
// search result list whose rows are placeholders, a viewer reloaded by
// trigger and an item update form bound to a save action.
package demo

import (
	"context"
	"fmt"
	"strings"

	"github.com/a-h/templ"
	"github.com/pthm/hxhydrate"
)

// Routes served by Register.
const (
	Prefix           = "/harbor/"
	SearchResultPath = Prefix + "search_result"
	ItemSummaryPath  = Prefix + "item_summary"
	ViewerPath       = Prefix + "viewer"
	ItemUpdatePath   = Prefix + "item_update"
	SavePath         = Prefix + "item_update/save"
)

// Element ids and form group used by the markup.
const (
	ViewerID        = "viewer"
	ItemUpdateGroup = "item_update"
	SaveButtonID    = "item_update_button"
)

const dateLayout = "02 Jan 2006 15:04"

// Register adds the harbor fragments and the save action to reg.
func Register(reg *hxhydrate.Registry, store *Store) {
	reg.Fragment(SearchResultPath, func(ctx context.Context, p hxhydrate.Payload) (templ.Component, error) {
		query := p.String("q")
		return SearchResult(query, store.Search(query)), nil
	})
	reg.Fragment(ItemSummaryPath, func(ctx context.Context, p hxhydrate.Payload) (templ.Component, error) {
		item, err := lookup(store, p.String("id"))
		if err != nil {
			return nil, err
		}
		return ItemSummary(item), nil
	})
	reg.Fragment(ViewerPath, func(ctx context.Context, p hxhydrate.Payload) (templ.Component, error) {
		id := p.String("id")
		if id == "" {
			return EmptyViewer(), nil
		}
		item, err := lookup(store, id)
		if err != nil {
			return nil, err
		}
		return Viewer(item), nil
	})
	reg.Fragment(ItemUpdatePath, func(ctx context.Context, p hxhydrate.Payload) (templ.Component, error) {
		item, err := lookup(store, p.String("id"))
		if err != nil {
			return nil, err
		}
		return ItemUpdateForm(item), nil
	})
	reg.Action(SavePath, func(ctx context.Context, fields map[string]string) error {
		return store.Update(fields["item_id"], fields["name"], ItemStatus(fields["status"]))
	})
}

func lookup(store *Store, id string) (Item, error) {
	if id == "" {
		return Item{}, fmt.Errorf("%w: missing item id", hxhydrate.ErrBadRequest)
	}
	item, ok := store.Get(id)
	if !ok {
		return Item{}, fmt.Errorf("item %q: %w", id, hxhydrate.ErrNotFound)
	}
	return item, nil
}

func statusLabel(st ItemStatus) string {
	if st == "" {
		return ""
	}
	return strings.ToUpper(string(st[:1])) + string(st[1:])
}
