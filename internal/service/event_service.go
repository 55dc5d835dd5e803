package service

import (
	"context"
	"encoding/json"
	"time"

	"grid-portal-be/internal/pkg/logger"
	"grid-portal-be/pkg/events"
	pkgNats "grid-portal-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

const EventTopic = "portal-events"

type IEventService interface {
	// Emit hands the event to the dispatcher. Fire and forget: the
	// mutation that produced the event has already succeeded and is
	// never rolled back because notification plumbing hiccuped.
	Emit(ctx context.Context, ev events.PortalEvent)
}

type eventService struct {
	pubSub  *gochannel.GoChannel
	natsPub *pkgNats.Publisher
	logger  logger.ILogger
}

func NewEventService(pubSub *gochannel.GoChannel, natsPub *pkgNats.Publisher, log logger.ILogger) IEventService {
	return &eventService{
		pubSub:  pubSub,
		natsPub: natsPub,
		logger:  log,
	}
}

func (s *eventService) Emit(ctx context.Context, ev events.PortalEvent) {
	if ev.OccurredAt.IsZero() {
		ev.OccurredAt = time.Now()
	}

	payload, err := json.Marshal(ev)
	if err != nil {
		s.logger.Error("EventService", "failed to marshal event", map[string]interface{}{
			"kind":  ev.Kind,
			"error": err.Error(),
		})
		return
	}

	msg := message.NewMessage(watermill.NewUUID(), payload)
	if err := s.pubSub.Publish(EventTopic, msg); err != nil {
		s.logger.Error("EventService", "failed to publish event", map[string]interface{}{
			"kind":  ev.Kind,
			"error": err.Error(),
		})
	}

	// Best effort mirror to NATS for external consumers.
	if s.natsPub != nil {
		if err := s.natsPub.Publish(ctx, ev); err != nil {
			s.logger.Warn("EventService", "failed to mirror event to NATS", map[string]interface{}{
				"kind":  ev.Kind,
				"error": err.Error(),
			})
		}
	}
}
