package service

import (
	"context"
	"time"

	"grid-portal-be/internal/dto"
	"grid-portal-be/internal/entity"
	"grid-portal-be/internal/pkg/logger"
	"grid-portal-be/internal/repository/specification"
	"grid-portal-be/internal/repository/unitofwork"
	"grid-portal-be/pkg/apperr"
	"grid-portal-be/pkg/blob"
	"grid-portal-be/pkg/events"
)

type IPositionService interface {
	List(ctx context.Context, p entity.Principal, clientName string) ([]dto.PositionResponse, error)
	Save(ctx context.Context, p entity.Principal, req dto.SavePositionRequest) (*dto.PositionResponse, error)
	Delete(ctx context.Context, p entity.Principal, clientName, name string) error
}

type positionService struct {
	uowFactory unitofwork.RepositoryFactory
	blobs      blob.Store
	eventSvc   IEventService
	logger     logger.ILogger
}

func NewPositionService(
	uowFactory unitofwork.RepositoryFactory,
	blobs blob.Store,
	eventSvc IEventService,
	log logger.ILogger,
) IPositionService {
	return &positionService{
		uowFactory: uowFactory,
		blobs:      blobs,
		eventSvc:   eventSvc,
		logger:     log,
	}
}

func (s *positionService) List(ctx context.Context, p entity.Principal, clientName string) ([]dto.PositionResponse, error) {
	if !p.CanAccessClient(clientName) {
		return nil, apperr.Forbidden("no access to this client", nil)
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	positions, err := uow.PositionRepository().FindAll(ctx,
		specification.ByClient{ClientName: clientName},
		specification.OrderBy{Field: "name"},
	)
	if err != nil {
		return nil, apperr.Wrap(err, "could not list positions")
	}

	out := make([]dto.PositionResponse, 0, len(positions))
	for _, pos := range positions {
		n, err := uow.FileRepository().Count(ctx, specification.ByPosition{
			ClientName:   clientName,
			PositionName: pos.Name,
		})
		if err != nil {
			return nil, apperr.Wrap(err, "could not count files")
		}
		out = append(out, toPositionResponse(pos, n))
	}
	return out, nil
}

func toPositionResponse(pos *entity.Position, files int64) dto.PositionResponse {
	return dto.PositionResponse{
		ClientName: pos.ClientName,
		Name:       pos.Name,
		Details: dto.PositionDetailsFields{
			Salary:     pos.Details.Salary,
			Location:   pos.Details.Location,
			Experience: pos.Details.Experience,
			Benefits:   pos.Details.Benefits,
			Notes:      pos.Details.Notes,
		},
		FileCount: files,
		CreatedAt: pos.CreatedAt,
		UpdatedAt: pos.UpdatedAt,
	}
}

// Save creates or updates a position. Details merge field by field: only
// the fields present in the request overwrite what is stored, so a
// partial edit never wipes the rest of the document.
func (s *positionService) Save(ctx context.Context, p entity.Principal, req dto.SavePositionRequest) (*dto.PositionResponse, error) {
	if !p.CanAccessClient(req.ClientName) {
		return nil, apperr.Forbidden("no access to this client", nil)
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	client, err := uow.ClientRepository().FindOne(ctx, specification.ByName{Name: req.ClientName})
	if err != nil {
		return nil, apperr.Wrap(err, "could not load client")
	}
	if client == nil {
		return nil, apperr.NotFound("client not found", nil)
	}

	name := blob.SanitizeName(req.Name)
	existing, err := uow.PositionRepository().FindOne(ctx,
		specification.ByClient{ClientName: req.ClientName},
		specification.ByName{Name: name},
	)
	if err != nil {
		return nil, apperr.Wrap(err, "could not load position")
	}

	pos := existing
	created := pos == nil
	if created {
		pos = &entity.Position{
			ClientName: req.ClientName,
			Name:       name,
			CreatedAt:  time.Now(),
		}
	}
	mergeDetails(&pos.Details, req.Details)

	if err := uow.PositionRepository().Save(ctx, pos); err != nil {
		return nil, apperr.Wrap(err, "could not save position")
	}

	if created {
		s.eventSvc.Emit(ctx, events.PortalEvent{
			Kind:     events.KindNewPosition,
			Client:   req.ClientName,
			Position: name,
			Details: map[string]string{
				"salary":     pos.Details.Salary,
				"location":   pos.Details.Location,
				"experience": pos.Details.Experience,
				"benefits":   pos.Details.Benefits,
				"notes":      pos.Details.Notes,
			},
			Actor: events.Actor{Name: p.Name, Email: p.Email},
		})
	}

	res := toPositionResponse(pos, 0)
	return &res, nil
}

func mergeDetails(dst *entity.PositionDetails, src dto.PositionDetailsPayload) {
	if src.Salary != nil {
		dst.Salary = *src.Salary
	}
	if src.Location != nil {
		dst.Location = *src.Location
	}
	if src.Experience != nil {
		dst.Experience = *src.Experience
	}
	if src.Benefits != nil {
		dst.Benefits = *src.Benefits
	}
	if src.Notes != nil {
		dst.Notes = *src.Notes
	}
}

// Delete removes the position with its file records and notes, then the
// stored blobs.
func (s *positionService) Delete(ctx context.Context, p entity.Principal, clientName, name string) error {
	if !p.IsAdmin() {
		return apperr.Forbidden("admin only", nil)
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	pos, err := uow.PositionRepository().FindOne(ctx,
		specification.ByClient{ClientName: clientName},
		specification.ByName{Name: name},
	)
	if err != nil {
		return apperr.Wrap(err, "could not load position")
	}
	if pos == nil {
		return apperr.NotFound("position not found", nil)
	}

	if err := uow.Begin(ctx); err != nil {
		return apperr.Wrap(err, "could not start transaction")
	}

	byPos := specification.ByPosition{ClientName: clientName, PositionName: name}

	notes, err := uow.NoteRepository().FindAll(ctx, byPos)
	if err == nil {
		for _, n := range notes {
			if err = uow.NoteRepository().Delete(ctx, n.Id); err != nil {
				break
			}
		}
	}
	if err == nil {
		var files []*entity.CandidateFile
		files, err = uow.FileRepository().FindAll(ctx, byPos)
		if err == nil {
			for _, f := range files {
				if err = uow.FileRepository().Delete(ctx, f.ClientName, f.PositionName, f.Filename); err != nil {
					break
				}
			}
		}
	}
	if err == nil {
		err = uow.PositionRepository().Delete(ctx, clientName, name)
	}
	if err != nil {
		_ = uow.Rollback()
		return apperr.Wrap(err, "could not delete position")
	}
	if err := uow.Commit(); err != nil {
		return apperr.Wrap(err, "could not delete position")
	}

	keys, err := s.blobs.List(ctx, blob.FilePrefix(clientName, name))
	if err == nil {
		for _, key := range keys {
			_ = s.blobs.Delete(ctx, key)
		}
	}

	s.logger.Info("PositionService", "position deleted", map[string]interface{}{
		"client":   clientName,
		"position": name,
	})
	return nil
}
