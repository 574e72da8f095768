// Package listeners reacts to domain events: it counts them, pushes order
// changes to the venue's live feed and forwards everything to Kafka.
package listeners

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/shashiranjanraj/canteen/app/events"
	"github.com/shashiranjanraj/canteen/pkg/event"
	"github.com/shashiranjanraj/canteen/pkg/logger"
	"github.com/shashiranjanraj/canteen/pkg/metrics"
	"github.com/shashiranjanraj/canteen/pkg/queue"
	"github.com/shashiranjanraj/canteen/pkg/ws"
)

// Register subscribes every listener. hub may be nil when no live feed is
// served, e.g. in a queue:work process.
func Register(hub *ws.Hub) {
	queue.Register(publishEventJob, func() queue.Job { return &PublishEventJob{} })

	event.Listen(events.OrderPlaced, func(context.Context, interface{}) { metrics.OrdersPlaced.Inc() })
	event.Listen(events.OrderFulfilled, func(context.Context, interface{}) { metrics.OrdersFulfilled.Inc() })
	event.Listen(events.RatingRecorded, countRating)

	if hub != nil {
		event.Listen(events.OrderPlaced, broadcast(hub))
		event.Listen(events.OrderFulfilled, broadcast(hub))
	}

	for _, name := range []string{events.OrderPlaced, events.OrderFulfilled, events.RatingRecorded} {
		event.Listen(name, forward(name))
	}
}

func countRating(_ context.Context, payload interface{}) {
	if r, ok := payload.(events.Rating); ok {
		metrics.RatingsRecorded.WithLabelValues(r.Target).Inc()
	}
}

// broadcast sends order events to the sellers watching the order's venue.
func broadcast(hub *ws.Hub) event.Handler {
	return func(ctx context.Context, payload interface{}) {
		o, ok := payload.(events.Order)
		if !ok {
			return
		}
		data, err := json.Marshal(o)
		if err != nil {
			logger.WithCtx(ctx).Error("listeners: encode order event", "error", err)
			return
		}
		n := hub.Publish(ws.VenueTopic(o.VenueID), data)
		logger.WithCtx(ctx).Debug("listeners: order pushed", "event", o.Event, "venue_id", o.VenueID, "clients", n)
	}
}

// forward queues the event for Kafka. Without a publisher it does nothing.
func forward(name string) event.Handler {
	return func(ctx context.Context, payload interface{}) {
		if currentPublisher() == nil {
			return
		}
		body, err := json.Marshal(payload)
		if err != nil {
			logger.WithCtx(ctx).Error("listeners: encode event", "event", name, "error", err)
			return
		}
		job := &PublishEventJob{Event: name, Key: keyOf(payload), Body: body}
		if err := queue.Dispatch(ctx, job); err != nil {
			logger.WithCtx(ctx).Error("listeners: dispatch publish job", "event", name, "error", err)
		}
	}
}

// keyOf partitions messages so events about one order or target stay ordered.
func keyOf(payload interface{}) string {
	switch p := payload.(type) {
	case events.Order:
		return fmt.Sprintf("order:%d", p.OrderID)
	case events.Rating:
		return fmt.Sprintf("%s:%d", p.Target, p.TargetID)
	}
	return ""
}
