package menu

import (
	"context"
	"encoding/json"

	"github.com/pkg/errors"

	"golden-palette/internal/logger"
	"golden-palette/internal/models"
)

// RefreshHandler returns a message handler that reloads catalog from store
// whenever a meal submitted message arrives.
func RefreshHandler(catalog *Catalog, store ItemLister, log *logger.Logger) func(ctx context.Context, body []byte) error {
	return func(ctx context.Context, body []byte) error {
		requestID := logger.GenerateRequestID()

		var msg models.MealSubmittedMessage
		if err := json.Unmarshal(body, &msg); err != nil {
			return errors.Wrap(err, "parse meal submitted message")
		}

		if err := catalog.Reload(ctx, store); err != nil {
			return errors.Wrap(err, "reload catalog")
		}

		log.Info("catalog_refreshed", "Catalog refreshed after menu update", requestID, map[string]interface{}{
			"item_id": msg.ItemID,
			"name":    msg.Name,
			"items":   len(catalog.Items()),
		})
		return nil
	}
}

// LocalRefresher is an EventDispatcher that reloads catalog in-process, for
// when the chef and ordering surfaces share one store.
func LocalRefresher(catalog *Catalog, store ItemLister, log *logger.Logger) EventDispatcher {
	return DispatcherFunc(func(ctx context.Context, event Event) error {
		if event.Type() != (models.MealSubmittedMessage{}).Type() {
			return nil
		}
		if err := catalog.Reload(ctx, store); err != nil {
			return errors.Wrap(err, "reload catalog")
		}
		log.Debug("catalog_refreshed", "Catalog refreshed in process", "", map[string]interface{}{
			"items": len(catalog.Items()),
		})
		return nil
	})
}

// FanOut dispatches every event to each non-nil dispatcher in order. All
// dispatchers are tried; the first error is returned.
func FanOut(dispatchers ...EventDispatcher) EventDispatcher {
	var live []EventDispatcher
	for _, d := range dispatchers {
		if d != nil {
			live = append(live, d)
		}
	}
	return DispatcherFunc(func(ctx context.Context, event Event) error {
		var first error
		for _, d := range live {
			if err := d.Dispatch(ctx, event); err != nil && first == nil {
				first = err
			}
		}
		return first
	})
}
