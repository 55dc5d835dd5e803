package service

import (
	"context"

	"grid-portal-be/internal/dto"
	"grid-portal-be/internal/entity"
	"grid-portal-be/internal/repository/specification"
	"grid-portal-be/internal/repository/unitofwork"
	"grid-portal-be/pkg/apperr"
)

type INotificationService interface {
	History(ctx context.Context, p entity.Principal, clientName string, limit int) ([]dto.NotificationResponse, error)
	Types(ctx context.Context, p entity.Principal) ([]dto.NotificationTypeResponse, error)
	UpdateType(ctx context.Context, p entity.Principal, req dto.UpdateNotificationTypeRequest) error
}

type notificationService struct {
	uowFactory unitofwork.RepositoryFactory
}

func NewNotificationService(uowFactory unitofwork.RepositoryFactory) INotificationService {
	return &notificationService{uowFactory: uowFactory}
}

// History lists dispatched notifications, newest first. Admins may read
// any client's feed or, with an empty clientName, everything.
func (s *notificationService) History(ctx context.Context, p entity.Principal, clientName string, limit int) ([]dto.NotificationResponse, error) {
	if clientName == "" {
		if !p.IsAdmin() {
			return nil, apperr.Forbidden("admin only", nil)
		}
	} else if !p.CanAccessClient(clientName) {
		return nil, apperr.Forbidden("no access to this client", nil)
	}

	if limit <= 0 || limit > 200 {
		limit = 50
	}

	specs := []specification.Specification{specification.NewestFirst{}}
	if clientName != "" {
		specs = append(specs, specification.ByClient{ClientName: clientName})
	}
	specs = append(specs, specification.Pagination{Limit: limit})

	uow := s.uowFactory.NewUnitOfWork(ctx)
	records, err := uow.NotificationRepository().FindAll(ctx, specs...)
	if err != nil {
		return nil, apperr.Wrap(err, "could not list notifications")
	}

	out := make([]dto.NotificationResponse, 0, len(records))
	for _, n := range records {
		out = append(out, dto.NotificationResponse{
			Id:           n.ID,
			Kind:         n.Kind,
			ClientName:   n.ClientName,
			PositionName: n.PositionName,
			Filename:     n.Filename,
			Content:      n.Content,
			ActorName:    n.ActorName,
			ActorEmail:   n.ActorEmail,
			CreatedAt:    n.CreatedAt,
		})
	}
	return out, nil
}

func (s *notificationService) Types(ctx context.Context, p entity.Principal) ([]dto.NotificationTypeResponse, error) {
	if !p.IsAdmin() {
		return nil, apperr.Forbidden("admin only", nil)
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	types, err := uow.NotificationTypeRepository().FindAll(ctx)
	if err != nil {
		return nil, apperr.Wrap(err, "could not list notification types")
	}

	out := make([]dto.NotificationTypeResponse, 0, len(types))
	for _, t := range types {
		out = append(out, dto.NotificationTypeResponse{
			Code:            t.Code,
			SubjectTemplate: t.SubjectTemplate,
			IsActive:        t.IsActive,
		})
	}
	return out, nil
}

func (s *notificationService) UpdateType(ctx context.Context, p entity.Principal, req dto.UpdateNotificationTypeRequest) error {
	if !p.IsAdmin() {
		return apperr.Forbidden("admin only", nil)
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	t, err := uow.NotificationTypeRepository().FindByCode(ctx, req.Code)
	if err != nil {
		return apperr.Wrap(err, "could not load notification type")
	}
	if t == nil {
		return apperr.NotFound("notification type not found", nil)
	}
	if err := uow.NotificationTypeRepository().SetActive(ctx, req.Code, req.IsActive); err != nil {
		return apperr.Wrap(err, "could not update notification type")
	}
	return nil
}
