package service

import (
	"context"
	"encoding/json"
	"strings"

	"grid-portal-be/internal/model"
	"grid-portal-be/internal/pkg/logger"
	"grid-portal-be/internal/pkg/mailer"
	"grid-portal-be/internal/repository/unitofwork"
	"grid-portal-be/pkg/events"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// ActivityDelivery pushes dispatched notifications to live portal
// sessions. Implemented by the websocket hub.
type ActivityDelivery interface {
	Broadcast(notification model.Notification)
}

// INotifierService consumes portal events and turns each into a history
// row, an email to the notification recipients and a live activity push.
// Every failure in here is logged and swallowed: notification plumbing
// never breaks the operation that produced the event.
type INotifierService interface {
	Start(ctx context.Context) error
}

type notifierService struct {
	pubSub     *gochannel.GoChannel
	uowFactory unitofwork.RepositoryFactory
	email      mailer.IEmailService
	delivery   ActivityDelivery
	logger     logger.ILogger
}

func NewNotifierService(
	pubSub *gochannel.GoChannel,
	uowFactory unitofwork.RepositoryFactory,
	email mailer.IEmailService,
	delivery ActivityDelivery,
	log logger.ILogger,
) INotifierService {
	return &notifierService{
		pubSub:     pubSub,
		uowFactory: uowFactory,
		email:      email,
		delivery:   delivery,
		logger:     log,
	}
}

func (s *notifierService) Start(ctx context.Context) error {
	messages, err := s.pubSub.Subscribe(ctx, EventTopic)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			s.processMessage(ctx, msg)
		}
	}()

	s.logger.Info("NotifierService", "dispatcher started", nil)
	return nil
}

// renderSubject fills the stored subject template. Supported
// placeholders: {client}, {position}, {file}.
func renderSubject(template string, ev events.PortalEvent) string {
	r := strings.NewReplacer(
		"{client}", ev.Client,
		"{position}", ev.Position,
		"{file}", ev.Filename,
	)
	return r.Replace(template)
}

func (s *notifierService) processMessage(ctx context.Context, msg *message.Message) {
	// Always ack: a poisoned or half-processed message must not wedge
	// the dispatcher, the event mirror on NATS is the durable record.
	defer msg.Ack()

	var ev events.PortalEvent
	if err := json.Unmarshal(msg.Payload, &ev); err != nil {
		s.logger.Error("NotifierService", "failed to unmarshal event", map[string]interface{}{
			"error": err.Error(),
		})
		return
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)

	cfg, err := uow.NotificationTypeRepository().FindByCode(ctx, ev.Kind)
	if err != nil {
		s.logger.Warn("NotifierService", "type lookup failed", map[string]interface{}{
			"kind":  ev.Kind,
			"error": err.Error(),
		})
		return
	}
	if cfg == nil || !cfg.IsActive {
		s.logger.Debug("NotifierService", "kind inactive, skipping", map[string]interface{}{"kind": ev.Kind})
		return
	}

	payload, _ := json.Marshal(ev.Payload())
	record := model.Notification{
		ID:           uuid.New(),
		Kind:         ev.Kind,
		ClientName:   ev.Client,
		PositionName: ev.Position,
		Filename:     ev.Filename,
		Content:      ev.Content,
		ActorName:    ev.Actor.Name,
		ActorEmail:   ev.Actor.Email,
		Payload:      datatypes.JSON(payload),
		CreatedAt:    ev.OccurredAt,
	}
	if err := uow.NotificationRepository().Create(ctx, &record); err != nil {
		s.logger.Error("NotifierService", "failed to record notification", map[string]interface{}{
			"kind":  ev.Kind,
			"error": err.Error(),
		})
	}

	subject := renderSubject(cfg.SubjectTemplate, ev)
	if err := s.email.SendEventMail(subject, ev); err != nil {
		s.logger.Error("NotifierService", "failed to send email", map[string]interface{}{
			"kind":  ev.Kind,
			"error": err.Error(),
		})
	}

	if s.delivery != nil {
		s.delivery.Broadcast(record)
	}
}
