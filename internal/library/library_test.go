package library_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/EgehanKilicarslan/noted/backend-go/internal/database/models"
	"github.com/EgehanKilicarslan/noted/backend-go/internal/dto"
	"github.com/EgehanKilicarslan/noted/backend-go/internal/library"
	"github.com/EgehanKilicarslan/noted/backend-go/internal/testutil"
)

type mockActions struct {
	mock.Mock
}

func (m *mockActions) ListBooks(ctx context.Context, list string) ([]dto.Book, error) {
	args := m.Called(ctx, list)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]dto.Book), args.Error(1)
}

func (m *mockActions) UpdateFavorite(ctx context.Context, bookID string, isFavorite bool) (*dto.UpdateResult, error) {
	args := m.Called(ctx, bookID, isFavorite)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.UpdateResult), args.Error(1)
}

func (m *mockActions) DeleteBook(ctx context.Context, bookID string) (*dto.UpdateResult, error) {
	args := m.Called(ctx, bookID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.UpdateResult), args.Error(1)
}

type recordingNotifier struct {
	messages []string
}

func (n *recordingNotifier) Notify(message string) {
	n.messages = append(n.messages, message)
}

func setupLibrary(t *testing.T) (*library.Library, *mockActions, *recordingNotifier) {
	actions := new(mockActions)
	notifier := &recordingNotifier{}
	lib := library.New(actions, notifier, testutil.TestLogger())

	actions.On("ListBooks", mock.Anything, library.ListUserBooks).Return([]dto.Book{
		book("gatsby", "The Great Gatsby", "Fitzgerald", models.ReadingStatusReading),
		book("hobbit", "The Hobbit", "Tolkien", models.ReadingStatusFinished),
	}, nil)

	_, err := lib.Load(context.Background(), library.ListUserBooks)
	require.NoError(t, err)
	return lib, actions, notifier
}

func TestLibrary_LoadError(t *testing.T) {
	actions := new(mockActions)
	lib := library.New(actions, nil, testutil.TestLogger())
	actions.On("ListBooks", mock.Anything, library.ListFavoriteBooks).Return(nil, errors.New("offline"))

	_, err := lib.Load(context.Background(), library.ListFavoriteBooks)
	assert.Error(t, err)
	assert.Empty(t, lib.Books(library.ListFavoriteBooks))
}

func TestLibrary_ToggleFavoriteSuccess(t *testing.T) {
	lib, actions, notifier := setupLibrary(t)
	server := &dto.UserProgress{ID: "ub-1", BookID: "gatsby", Status: models.ReadingStatusReading, IsFavorite: true, ProgressPage: 45}
	actions.On("UpdateFavorite", mock.Anything, "gatsby", true).
		Return(&dto.UpdateResult{Success: true, Message: "ok", Data: server}, nil)

	ok := lib.ToggleFavorite(context.Background(), library.ListUserBooks, "gatsby", true)

	assert.True(t, ok)
	assert.Empty(t, notifier.messages)
	cached, found := lib.Cache().Lookup(library.ListUserBooks, "gatsby")
	require.True(t, found)
	assert.Equal(t, *server, *cached.UserProgress)
}

func TestLibrary_ToggleFavoriteRollsBack(t *testing.T) {
	tests := []struct {
		name   string
		result *dto.UpdateResult
		err    error
	}{
		{"transport error", nil, errors.New("connection refused")},
		{"action failure", &dto.UpdateResult{Success: false, Message: "Book not found in your library."}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lib, actions, notifier := setupLibrary(t)
			before := lib.Books(library.ListUserBooks)
			actions.On("UpdateFavorite", mock.Anything, "gatsby", true).Return(tt.result, tt.err)

			ok := lib.ToggleFavorite(context.Background(), library.ListUserBooks, "gatsby", true)

			assert.False(t, ok)
			assert.Equal(t, before, lib.Books(library.ListUserBooks))
			assert.Equal(t, []string{library.FavoriteFailedMessage}, notifier.messages)
		})
	}
}

func TestLibrary_DoubleToggleRestoresFavorite(t *testing.T) {
	lib, actions, _ := setupLibrary(t)
	actions.On("UpdateFavorite", mock.Anything, "hobbit", true).Return(&dto.UpdateResult{Success: true}, nil)
	actions.On("UpdateFavorite", mock.Anything, "hobbit", false).Return(&dto.UpdateResult{Success: true}, nil)

	require.True(t, lib.ToggleFavorite(context.Background(), library.ListUserBooks, "hobbit", true))
	cached, _ := lib.Cache().Lookup(library.ListUserBooks, "hobbit")
	assert.True(t, cached.UserProgress.IsFavorite)

	require.True(t, lib.ToggleFavorite(context.Background(), library.ListUserBooks, "hobbit", false))
	cached, _ = lib.Cache().Lookup(library.ListUserBooks, "hobbit")
	assert.False(t, cached.UserProgress.IsFavorite)
	assert.Equal(t, models.ReadingStatusFinished, cached.UserProgress.Status)
}

func TestLibrary_DeleteSuccess(t *testing.T) {
	lib, actions, notifier := setupLibrary(t)
	actions.On("DeleteBook", mock.Anything, "gatsby").Return(&dto.UpdateResult{Success: true}, nil)

	ok := lib.Delete(context.Background(), library.ListUserBooks, "gatsby")

	assert.True(t, ok)
	assert.Empty(t, notifier.messages)
	assert.Equal(t, []string{"hobbit"}, ids(lib.Books(library.ListUserBooks)))
}

func TestLibrary_DeleteRollsBack(t *testing.T) {
	lib, actions, notifier := setupLibrary(t)
	actions.On("DeleteBook", mock.Anything, "gatsby").
		Return(&dto.UpdateResult{Success: false, Message: "Failed to delete book"}, nil)

	ok := lib.Delete(context.Background(), library.ListUserBooks, "gatsby")

	assert.False(t, ok)
	assert.Equal(t, []string{"gatsby", "hobbit"}, ids(lib.Books(library.ListUserBooks)))
	assert.Equal(t, []string{library.DeleteFailedMessage}, notifier.messages)
}

func TestLibrary_OptimisticPatchVisibleDuringCall(t *testing.T) {
	lib, actions, _ := setupLibrary(t)
	var seen []string
	actions.On("DeleteBook", mock.Anything, "hobbit").
		Run(func(mock.Arguments) { seen = ids(lib.Books(library.ListUserBooks)) }).
		Return(&dto.UpdateResult{Success: true}, nil)

	lib.Delete(context.Background(), library.ListUserBooks, "hobbit")

	assert.Equal(t, []string{"gatsby"}, seen)
}
