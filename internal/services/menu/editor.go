package menu

import (
	"context"

	"github.com/pkg/errors"

	"golden-palette/internal/logger"
	"golden-palette/internal/models"
)

type Event = interface{ Type() string }

type EventDispatcher interface {
	Dispatch(ctx context.Context, event Event) error
}

// DispatcherFunc adapts a function to EventDispatcher
type DispatcherFunc func(ctx context.Context, event Event) error

func (f DispatcherFunc) Dispatch(ctx context.Context, event Event) error {
	return f(ctx, event)
}

// AttachOutcome is the result of the image attach step
type AttachOutcome int

const (
	Attached AttachOutcome = iota
	PermissionDenied
	Cancelled
)

func (o AttachOutcome) String() string {
	switch o {
	case Attached:
		return "attached"
	case PermissionDenied:
		return "permission_denied"
	case Cancelled:
		return "cancelled"
	}
	return "unknown"
}

// Editor is the chef-side menu screen. Submissions are passed to the store
// as they are; the editor itself checks nothing.
type Editor struct {
	store      Store
	dispatcher EventDispatcher
	logger     *logger.Logger
}

// NewEditor creates an editor; dispatcher may be nil
func NewEditor(store Store, dispatcher EventDispatcher, log *logger.Logger) *Editor {
	return &Editor{
		store:      store,
		dispatcher: dispatcher,
		logger:     log,
	}
}

// SubmitMeal forwards details to the store and announces the new item.
// A failed announcement is logged, the stored item is still returned.
func (e *Editor) SubmitMeal(ctx context.Context, details models.MealDetails, requestID string) (*models.MenuItem, error) {
	item, err := e.store.SaveMeal(ctx, details)
	if err != nil {
		return nil, errors.Wrap(err, "save meal")
	}

	e.logger.Info("meal_submitted", "Meal added to menu", requestID, map[string]interface{}{
		"item_id":  item.ID,
		"name":     item.Name,
		"category": item.Category,
		"price":    item.Price.String(),
	})

	if e.dispatcher != nil {
		if err := e.dispatcher.Dispatch(ctx, models.NewMealSubmittedMessage(*item)); err != nil {
			e.logger.Error("meal_event_failed", "Failed to dispatch meal submitted event", requestID, err, map[string]interface{}{
				"item_id": item.ID,
			})
		}
	}

	return item, nil
}

// Overview lists the current menu with its item count
func (e *Editor) Overview(ctx context.Context) (*models.MenuOverview, error) {
	items, err := e.store.ListItems(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "list menu items")
	}
	return &models.MenuOverview{
		TotalItems: len(items),
		Items:      items,
	}, nil
}

// AttachImage asks the media library for access and then for a pick. On
// denial or cancellation details keep their previous image.
func (e *Editor) AttachImage(ctx context.Context, lib MediaLibrary, details *models.MealDetails, requestID string) (AttachOutcome, error) {
	granted, err := lib.RequestPermission(ctx)
	if err != nil {
		return PermissionDenied, errors.Wrap(err, "request media library permission")
	}
	if !granted {
		e.logger.Warn("media_permission_denied", PermissionDeniedMessage, requestID, nil)
		return PermissionDenied, nil
	}

	ref, ok, err := lib.Select(ctx)
	if err != nil {
		return Cancelled, errors.Wrap(err, "select image")
	}
	if !ok {
		e.logger.Debug("media_selection_cancelled", "Image selection cancelled", requestID, nil)
		return Cancelled, nil
	}

	details.Image = ref
	return Attached, nil
}
