package library

import (
	"sync"

	"github.com/EgehanKilicarslan/noted/backend-go/internal/dto"
)

// List keys, one per library query
const (
	ListUserBooks      = "user-books"
	ListFavoriteBooks  = "favorite-books"
	ListSuggestedBooks = "suggested-books"
)

type entries struct {
	order []string
	byID  map[string]dto.Book
}

func (e entries) clone() entries {
	c := entries{
		order: append([]string(nil), e.order...),
		byID:  make(map[string]dto.Book, len(e.byID)),
	}
	for id, book := range e.byID {
		c.byID[id] = book
	}
	return c
}

// Snapshot is a point-in-time copy of one cached list
type Snapshot struct {
	list    string
	present bool
	entries entries
}

// Cache keeps every list as a map of book id to record plus display order
type Cache struct {
	mu    sync.RWMutex
	lists map[string]entries
}

// NewCache creates an empty cache
func NewCache() *Cache {
	return &Cache{lists: make(map[string]entries)}
}

// Set replaces a list. A repeated id keeps its first position and the
// last record.
func (c *Cache) Set(list string, books []dto.Book) {
	e := entries{
		order: make([]string, 0, len(books)),
		byID:  make(map[string]dto.Book, len(books)),
	}
	for _, book := range books {
		if _, ok := e.byID[book.ID]; !ok {
			e.order = append(e.order, book.ID)
		}
		e.byID[book.ID] = book
	}

	c.mu.Lock()
	c.lists[list] = e
	c.mu.Unlock()
}

// Get returns a list in display order. The boolean is false when the
// list was never loaded.
func (c *Cache) Get(list string) ([]dto.Book, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.lists[list]
	if !ok {
		return nil, false
	}
	books := make([]dto.Book, 0, len(e.order))
	for _, id := range e.order {
		books = append(books, e.byID[id])
	}
	return books, true
}

// Lookup returns one cached record
func (c *Cache) Lookup(list, id string) (dto.Book, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	book, ok := c.lists[list].byID[id]
	return book, ok
}

// Snapshot copies a list so it can be restored later
func (c *Cache) Snapshot(list string) Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.lists[list]
	if !ok {
		return Snapshot{list: list}
	}
	return Snapshot{list: list, present: true, entries: e.clone()}
}

// Restore puts a snapshot back, dropping the list if it did not exist
func (c *Cache) Restore(s Snapshot) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !s.present {
		delete(c.lists, s.list)
		return
	}
	c.lists[s.list] = s.entries.clone()
}

// Update applies fn to a copy of the record and stores the result.
// It reports false when the record is not cached.
func (c *Cache) Update(list, id string, fn func(book *dto.Book)) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.lists[list]
	if !ok {
		return false
	}
	book, ok := e.byID[id]
	if !ok {
		return false
	}
	if book.UserProgress != nil {
		progress := *book.UserProgress
		book.UserProgress = &progress
	}
	fn(&book)
	e.byID[id] = book
	return true
}

// Remove drops a record from a list
func (c *Cache) Remove(list, id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.lists[list]
	if !ok {
		return false
	}
	if _, ok := e.byID[id]; !ok {
		return false
	}
	delete(e.byID, id)
	for i, existing := range e.order {
		if existing == id {
			e.order = append(e.order[:i:i], e.order[i+1:]...)
			break
		}
	}
	c.lists[list] = e
	return true
}
