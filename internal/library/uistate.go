package library

import (
	"encoding/json"

	"github.com/EgehanKilicarslan/noted/backend-go/internal/dto"
)

// View is the library layout
type View string

const (
	ViewGrid View = "grid"
	ViewList View = "list"
)

// UIState holds the presentation choices of one library page. The owner
// decides where it is persisted.
type UIState struct {
	View       View    `json:"view"`
	Filters    Filters `json:"filters"`
	SearchTerm string  `json:"searchTerm"`
}

// DefaultUIState is a grid showing every book with no search term
func DefaultUIState() UIState {
	return UIState{
		View:    ViewGrid,
		Filters: DefaultFilters(),
	}
}

// ParseUIState restores a persisted state. Missing fields keep their
// defaults and an unknown view falls back to grid.
func ParseUIState(data []byte) (UIState, error) {
	state := DefaultUIState()
	if len(data) == 0 {
		return state, nil
	}
	if err := json.Unmarshal(data, &state); err != nil {
		return DefaultUIState(), err
	}
	if state.View != ViewGrid && state.View != ViewList {
		state.View = ViewGrid
	}
	return state, nil
}

// Visible applies the search term and filters to books
func (s UIState) Visible(books []dto.Book) []dto.Book {
	return Filter(books, s.SearchTerm, s.Filters)
}
