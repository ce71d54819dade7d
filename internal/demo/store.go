package demo

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/pthm/hxhydrate"
)

// ItemStatus is the publication state of an item.
type ItemStatus string

const (
	StatusDraft     ItemStatus = "draft"
	StatusPublished ItemStatus = "published"
	StatusArchived  ItemStatus = "archived"
)

// Statuses lists the valid item statuses in display order.
var Statuses = []ItemStatus{StatusDraft, StatusPublished, StatusArchived}

// Property is a tag/value pair attached to an item.
type Property struct {
	Tag   string
	Value string
}

// Item is a document known to the harbor.
type Item struct {
	ID           string
	Name         string
	FileRef      string
	Status       ItemStatus
	Properties   []Property
	Created      time.Time
	LastModified time.Time
}

// Store is an in-memory item store.
type Store struct {
	mu     sync.RWMutex
	items  map[string]*Item
	nextID int
	now    func() time.Time
}

// NewStore creates a store with sample data.
func NewStore() *Store {
	s := &Store{
		items:  make(map[string]*Item),
		nextID: 1,
		now:    time.Now,
	}

	seed := time.Date(2024, time.April, 29, 9, 30, 0, 0, time.UTC)
	s.add(seed, "Invoice 2024-117", "f-4be1", []Property{{"customer", "Acme"}, {"amount", "1250.00"}})
	s.add(seed.Add(26*time.Hour), "Delivery note 88", "f-9c02", []Property{{"carrier", "Northwind"}})
	s.add(seed.Add(50*time.Hour), "Contract renewal", "", []Property{{"customer", "Globex"}, {"term", "24 months"}})
	s.add(seed.Add(75*time.Hour), "Invoice 2024-118", "f-77d0", []Property{{"customer", "Initech"}, {"amount", "310.40"}})

	return s
}

// Add creates a new draft item and returns its ID.
func (s *Store) Add(name, fileRef string, props []Property) string {
	return s.add(s.now(), name, fileRef, props)
}

func (s *Store) add(created time.Time, name, fileRef string, props []Property) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := strconv.Itoa(s.nextID)
	s.nextID++

	s.items[id] = &Item{
		ID:           id,
		Name:         name,
		FileRef:      fileRef,
		Status:       StatusDraft,
		Properties:   props,
		Created:      created,
		LastModified: created,
	}
	return id
}

// Get returns a copy of the item with the given ID.
func (s *Store) Get(id string) (Item, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	item, ok := s.items[id]
	if !ok {
		return Item{}, false
	}
	return item.clone(), true
}

// Search returns the items whose name contains query, ignoring case,
// ordered by creation time. An empty query matches everything.
func (s *Store) Search(query string) []Item {
	s.mu.RLock()
	defer s.mu.RUnlock()

	q := strings.ToLower(strings.TrimSpace(query))
	var out []Item
	for _, item := range s.items {
		if q == "" || strings.Contains(strings.ToLower(item.Name), q) {
			out = append(out, item.clone())
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Created.Equal(out[j].Created) {
			return out[i].ID < out[j].ID
		}
		return out[i].Created.Before(out[j].Created)
	})
	return out
}

// Update renames an item and sets its status.
func (s *Store) Update(id, name string, status ItemStatus) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("%w: item name is required", hxhydrate.ErrBadRequest)
	}
	if !status.valid() {
		return fmt.Errorf("%w: unknown status %q", hxhydrate.ErrBadRequest, status)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	item, ok := s.items[id]
	if !ok {
		return fmt.Errorf("item %q: %w", id, hxhydrate.ErrNotFound)
	}
	item.Name = name
	item.Status = status
	item.LastModified = s.now()
	return nil
}

func (it *Item) clone() Item {
	c := *it
	c.Properties = append([]Property(nil), it.Properties...)
	return c
}

func (st ItemStatus) valid() bool {
	for _, s := range Statuses {
		if st == s {
			return true
		}
	}
	return false
}
