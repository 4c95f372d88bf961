package menu

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"golden-palette/internal/logger"
	"golden-palette/internal/models"
)

func testLogger() *logger.Logger {
	return logger.NewWithWriter("test", io.Discard)
}

type failingStore struct {
	*MemoryStore
	err error
}

func (s failingStore) SaveMeal(context.Context, models.MealDetails) (*models.MenuItem, error) {
	return nil, s.err
}

func (s failingStore) ListItems(context.Context) ([]models.MenuItem, error) {
	return nil, s.err
}

type recordingDispatcher struct {
	events []Event
	err    error
}

func (d *recordingDispatcher) Dispatch(_ context.Context, event Event) error {
	d.events = append(d.events, event)
	return d.err
}

func TestSubmitMealStoresAndDispatches(t *testing.T) {
	store := NewMemoryStore()
	dispatcher := &recordingDispatcher{}
	editor := NewEditor(store, dispatcher, testLogger())

	details := models.MealDetails{Category: models.MainMenu, Name: "Risotto", Price: decimal.NewFromInt(150)}
	saved, err := editor.SubmitMeal(context.Background(), details, "req")
	require.NoError(t, err)
	assert.Equal(t, "Risotto", saved.Name)

	require.Len(t, dispatcher.events, 1)
	msg, ok := dispatcher.events[0].(*models.MealSubmittedMessage)
	require.True(t, ok)
	assert.Equal(t, saved.ID, msg.ItemID)
	assert.Equal(t, models.MainMenu, msg.Category)
}

func TestSubmitMealPassesDetailsThrough(t *testing.T) {
	store := NewMemoryStore()
	editor := NewEditor(store, nil, testLogger())

	saved, err := editor.SubmitMeal(context.Background(), models.MealDetails{Category: models.Starters}, "req")
	require.NoError(t, err)
	assert.Empty(t, saved.Name)
	assert.True(t, saved.Price.IsZero())
}

func TestSubmitMealDispatchFailureStillReturnsItem(t *testing.T) {
	store := NewMemoryStore()
	editor := NewEditor(store, &recordingDispatcher{err: errors.New("broker down")}, testLogger())

	saved, err := editor.SubmitMeal(context.Background(), models.MealDetails{Category: models.Desserts, Name: "Tart"}, "req")
	require.NoError(t, err)
	assert.NotNil(t, saved)

	n, _ := store.Count(context.Background())
	assert.Equal(t, 1, n)
}

func TestSubmitMealStoreFailure(t *testing.T) {
	dispatcher := &recordingDispatcher{}
	editor := NewEditor(failingStore{MemoryStore: NewMemoryStore(), err: errors.New("disk full")}, dispatcher, testLogger())

	_, err := editor.SubmitMeal(context.Background(), models.MealDetails{Category: models.Desserts}, "req")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
	assert.Empty(t, dispatcher.events)
}

func TestOverview(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	_, err := SeedDefaultMenu(ctx, store)
	require.NoError(t, err)

	overview, err := NewEditor(store, nil, testLogger()).Overview(ctx)
	require.NoError(t, err)
	assert.Equal(t, 9, overview.TotalItems)
	assert.Len(t, overview.Items, 9)

	_, err = NewEditor(failingStore{MemoryStore: store, err: errors.New("x")}, nil, testLogger()).Overview(ctx)
	assert.Error(t, err)
}

type fakeLibrary struct {
	granted bool
	ref     string
	ok      bool
	err     error
}

func (l fakeLibrary) RequestPermission(context.Context) (bool, error) { return l.granted, nil }

func (l fakeLibrary) Select(context.Context) (string, bool, error) { return l.ref, l.ok, l.err }

func TestAttachImage(t *testing.T) {
	tests := []struct {
		name      string
		lib       fakeLibrary
		want      AttachOutcome
		wantImage string
		wantErr   bool
	}{
		{"granted and picked", fakeLibrary{granted: true, ref: "new.jpg", ok: true}, Attached, "new.jpg", false},
		{"permission denied", fakeLibrary{granted: false, ref: "new.jpg", ok: true}, PermissionDenied, "old.jpg", false},
		{"picker cancelled", fakeLibrary{granted: true}, Cancelled, "old.jpg", false},
		{"picker failed", fakeLibrary{granted: true, err: errors.New("io")}, Cancelled, "old.jpg", true},
	}

	editor := NewEditor(NewMemoryStore(), nil, testLogger())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			details := models.MealDetails{Image: "old.jpg"}
			got, err := editor.AttachImage(context.Background(), tt.lib, &details, "req")
			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantImage, details.Image)
		})
	}
}

func TestAttachOutcomeString(t *testing.T) {
	assert.Equal(t, "attached", Attached.String())
	assert.Equal(t, "permission_denied", PermissionDenied.String())
	assert.Equal(t, "cancelled", Cancelled.String())
	assert.Equal(t, "unknown", AttachOutcome(42).String())
}

func TestDirectoryLibrary(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "cake.png"), []byte("png"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("txt"), 0o644))
	ctx := context.Background()

	granted, err := DirectoryLibrary{Dir: filepath.Join(dir, "missing")}.RequestPermission(ctx)
	require.NoError(t, err)
	assert.False(t, granted)

	lib := DirectoryLibrary{Dir: dir, Choice: "cake.png"}
	granted, err = lib.RequestPermission(ctx)
	require.NoError(t, err)
	assert.True(t, granted)

	ref, ok, err := lib.Select(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, filepath.Join(dir, "cake.png"), ref)

	_, ok, err = DirectoryLibrary{Dir: dir}.Select(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	_, _, err = DirectoryLibrary{Dir: dir, Choice: "notes.txt"}.Select(ctx)
	assert.ErrorIs(t, err, ErrImageNotFound)

	_, _, err = DirectoryLibrary{Dir: dir, Choice: "pie.jpg"}.Select(ctx)
	assert.ErrorIs(t, err, ErrImageNotFound)
}
