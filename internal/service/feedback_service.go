package service

import (
	"context"
	"strings"
	"time"

	"grid-portal-be/internal/dto"
	"grid-portal-be/internal/entity"
	"grid-portal-be/internal/pkg/keylock"
	"grid-portal-be/internal/pkg/logger"
	"grid-portal-be/internal/repository/specification"
	"grid-portal-be/internal/repository/unitofwork"
	"grid-portal-be/pkg/apperr"
	"grid-portal-be/pkg/events"

	"github.com/google/uuid"
)

type IFeedbackService interface {
	Feedback(ctx context.Context, p entity.Principal, clientName, positionName, filename string) (*dto.FileFeedbackResponse, error)
	SetDecision(ctx context.Context, p entity.Principal, req dto.SetDecisionRequest) (*dto.SetDecisionResponse, error)
	AddNote(ctx context.Context, p entity.Principal, req dto.AddNoteRequest) (*dto.NoteResponse, error)
	DeleteNote(ctx context.Context, p entity.Principal, clientName, positionName, filename string, createdAt time.Time) error
}

type feedbackService struct {
	uowFactory unitofwork.RepositoryFactory
	locks      *keylock.Table
	eventSvc   IEventService
	logger     logger.ILogger
}

func NewFeedbackService(
	uowFactory unitofwork.RepositoryFactory,
	locks *keylock.Table,
	eventSvc IEventService,
	log logger.ILogger,
) IFeedbackService {
	return &feedbackService{
		uowFactory: uowFactory,
		locks:      locks,
		eventSvc:   eventSvc,
		logger:     log,
	}
}

func fileLockKey(clientName, positionName, filename string) string {
	return clientName + "\x00" + positionName + "\x00" + filename
}

func (s *feedbackService) Feedback(ctx context.Context, p entity.Principal, clientName, positionName, filename string) (*dto.FileFeedbackResponse, error) {
	if !p.CanAccessClient(clientName) {
		return nil, apperr.Forbidden("no access to this client", nil)
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	byFile := specification.ByFile{ClientName: clientName, PositionName: positionName, Filename: filename}

	file, err := uow.FileRepository().FindOne(ctx, byFile)
	if err != nil {
		return nil, apperr.Wrap(err, "could not load file")
	}
	if file == nil {
		return nil, apperr.NotFound("file not found", nil)
	}

	notes, err := uow.NoteRepository().FindAll(ctx, byFile, specification.NewestFirst{})
	if err != nil {
		return nil, apperr.Wrap(err, "could not load notes")
	}

	res := &dto.FileFeedbackResponse{
		Decision: file.Decision,
		Notes:    make([]dto.NoteResponse, 0, len(notes)),
	}
	for _, n := range notes {
		res.Notes = append(res.Notes, toNoteResponse(n))
	}
	return res, nil
}

func toNoteResponse(n *entity.Note) dto.NoteResponse {
	return dto.NoteResponse{
		Id:          n.Id,
		Text:        n.Text,
		AuthorEmail: n.AuthorEmail,
		AuthorName:  n.AuthorName,
		CreatedAt:   n.CreatedAt,
	}
}

// SetDecision applies the toggle under the per-file lock: requesting the
// decision a file already has un-picks it back to neutral, anything else
// simply takes effect. Serializing the read-modify-write is what makes
// two concurrent toggles land as two transitions in some total order
// instead of a lost update.
func (s *feedbackService) SetDecision(ctx context.Context, p entity.Principal, req dto.SetDecisionRequest) (*dto.SetDecisionResponse, error) {
	if !p.CanAccessClient(req.ClientName) {
		return nil, apperr.Forbidden("no access to this client", nil)
	}
	if !entity.ValidDecision(req.Decision) {
		return nil, apperr.InvalidArgument("unrecognized decision value", nil)
	}

	release := s.locks.Lock(fileLockKey(req.ClientName, req.PositionName, req.Filename))
	defer release()

	uow := s.uowFactory.NewUnitOfWork(ctx)
	byFile := specification.ByFile{
		ClientName:   req.ClientName,
		PositionName: req.PositionName,
		Filename:     req.Filename,
	}

	file, err := uow.FileRepository().FindOne(ctx, byFile)
	if err != nil {
		return nil, apperr.Wrap(err, "could not load file")
	}
	if file == nil {
		return nil, apperr.NotFound("file not found", nil)
	}

	next := entity.NextDecision(file.Decision, req.Decision)
	if err := uow.FileRepository().UpdateDecision(ctx, req.ClientName, req.PositionName, req.Filename, next); err != nil {
		return nil, apperr.Wrap(err, "could not save decision")
	}

	s.eventSvc.Emit(ctx, events.PortalEvent{
		Kind:     events.KindStatus,
		Client:   req.ClientName,
		Position: req.PositionName,
		Filename: req.Filename,
		Content:  next,
		Actor:    events.Actor{Name: p.Name, Email: p.Email},
	})

	return &dto.SetDecisionResponse{Decision: next}, nil
}

// AddNote inserts at the head of the thread. The creation instant is the
// note's deletion key, so when two notes land within the store's
// resolution the later one is bumped a microsecond past the newest stored
// note to keep the key unique.
func (s *feedbackService) AddNote(ctx context.Context, p entity.Principal, req dto.AddNoteRequest) (*dto.NoteResponse, error) {
	if !p.CanAccessClient(req.ClientName) {
		return nil, apperr.Forbidden("no access to this client", nil)
	}
	if strings.TrimSpace(req.Text) == "" {
		return nil, apperr.InvalidArgument("note text must not be empty", nil)
	}

	release := s.locks.Lock(fileLockKey(req.ClientName, req.PositionName, req.Filename))
	defer release()

	uow := s.uowFactory.NewUnitOfWork(ctx)
	byFile := specification.ByFile{
		ClientName:   req.ClientName,
		PositionName: req.PositionName,
		Filename:     req.Filename,
	}

	file, err := uow.FileRepository().FindOne(ctx, byFile)
	if err != nil {
		return nil, apperr.Wrap(err, "could not load file")
	}
	if file == nil {
		return nil, apperr.NotFound("file not found", nil)
	}

	// timestamptz stores microseconds, so the identity works at that
	// resolution; anything finer would collapse on write.
	createdAt := time.Now().Truncate(time.Microsecond)
	newest, err := uow.NoteRepository().FindOne(ctx, byFile, specification.NewestFirst{})
	if err != nil {
		return nil, apperr.Wrap(err, "could not load notes")
	}
	if newest != nil && !createdAt.After(newest.CreatedAt) {
		createdAt = newest.CreatedAt.Add(time.Microsecond)
	}

	note := &entity.Note{
		Id:           uuid.New(),
		ClientName:   req.ClientName,
		PositionName: req.PositionName,
		Filename:     req.Filename,
		Text:         strings.TrimSpace(req.Text),
		AuthorEmail:  p.Email,
		AuthorName:   p.Name,
		CreatedAt:    createdAt,
	}
	if err := uow.NoteRepository().Create(ctx, note); err != nil {
		return nil, apperr.Wrap(err, "could not save note")
	}

	s.eventSvc.Emit(ctx, events.PortalEvent{
		Kind:     events.KindNote,
		Client:   req.ClientName,
		Position: req.PositionName,
		Filename: req.Filename,
		Content:  note.Text,
		Actor:    events.Actor{Name: p.Name, Email: p.Email},
	})

	res := toNoteResponse(note)
	return &res, nil
}

// DeleteNote removes the note whose creation instant matches createdAt.
// A timestamp that matches nothing is a successful no-op.
func (s *feedbackService) DeleteNote(ctx context.Context, p entity.Principal, clientName, positionName, filename string, createdAt time.Time) error {
	if !p.CanAccessClient(clientName) {
		return apperr.Forbidden("no access to this client", nil)
	}

	release := s.locks.Lock(fileLockKey(clientName, positionName, filename))
	defer release()

	uow := s.uowFactory.NewUnitOfWork(ctx)
	note, err := uow.NoteRepository().FindOne(ctx,
		specification.ByFile{ClientName: clientName, PositionName: positionName, Filename: filename},
		specification.Filter("created_at", createdAt),
	)
	if err != nil {
		return apperr.Wrap(err, "could not load note")
	}
	if note == nil {
		return nil
	}

	if !note.CanDelete(p) {
		return apperr.Forbidden("only the author or an admin may delete this note", nil)
	}

	if err := uow.NoteRepository().Delete(ctx, note.Id); err != nil {
		return apperr.Wrap(err, "could not delete note")
	}
	return nil
}
