package service

import (
	"context"
	"fmt"

	"grid-portal-be/internal/entity"
	"grid-portal-be/internal/pkg/keylock"
	"grid-portal-be/internal/pkg/logger"
	"grid-portal-be/internal/repository/specification"
	"grid-portal-be/internal/repository/unitofwork"
	"grid-portal-be/pkg/apperr"
	"grid-portal-be/pkg/blob"

	"github.com/google/uuid"
)

// IRenameService migrates every resource owned by a client or position
// identity to a new identity key. Structured records and blobs share no
// transaction, so the migration is an ordered sequence of idempotent
// copy-then-delete steps. A mid-way failure reports which step broke and
// leaves a partially migrated namespace that a retry converges on.
type IRenameService interface {
	RenameClient(ctx context.Context, p entity.Principal, oldName, newName string) error
	RenamePosition(ctx context.Context, p entity.Principal, clientName, oldName, newName string) error
}

type renameService struct {
	uowFactory unitofwork.RepositoryFactory
	blobs      blob.Store
	locks      *keylock.Table
	logger     logger.ILogger
}

func NewRenameService(
	uowFactory unitofwork.RepositoryFactory,
	blobs blob.Store,
	locks *keylock.Table,
	log logger.ILogger,
) IRenameService {
	return &renameService{
		uowFactory: uowFactory,
		blobs:      blobs,
		locks:      locks,
		logger:     log,
	}
}

func clientLockKey(name string) string {
	return "client\x00" + name
}

func positionLockKey(clientName, name string) string {
	return "position\x00" + clientName + "\x00" + name
}

// stepError tags a failure with the migration step it happened in so the
// caller and the log both know how far the migration got.
func stepError(step string, err error) error {
	return apperr.Wrap(err, fmt.Sprintf("rename failed at step %q", step))
}

func (s *renameService) RenameClient(ctx context.Context, p entity.Principal, oldName, newName string) error {
	if !p.IsAdmin() {
		return apperr.Forbidden("admin only", nil)
	}
	newName = blob.SanitizeName(newName)
	if newName == oldName {
		return nil
	}

	// Both identities stay locked for the whole migration. A concurrent
	// rename touching either one gets Conflict instead of operating on a
	// half-migrated namespace.
	releaseOld, ok := s.locks.TryLock(clientLockKey(oldName))
	if !ok {
		return apperr.Conflict("client is being migrated", nil)
	}
	defer releaseOld()
	releaseNew, ok := s.locks.TryLock(clientLockKey(newName))
	if !ok {
		return apperr.Conflict("client is being migrated", nil)
	}
	defer releaseNew()

	uow := s.uowFactory.NewUnitOfWork(ctx)

	oldClient, err := uow.ClientRepository().FindOne(ctx, specification.ByName{Name: oldName})
	if err != nil {
		return stepError("precondition", err)
	}
	if oldClient == nil {
		return apperr.NotFound("client not found", nil)
	}
	existing, err := uow.ClientRepository().FindOne(ctx, specification.ByName{Name: newName})
	if err != nil {
		return stepError("precondition", err)
	}
	if existing != nil {
		return apperr.Conflict("a client with the new name already exists", nil)
	}

	// Step: client record. The logo reference is rewritten to the new
	// key, matching where the blob will be copied below.
	newClient := &entity.Client{Name: newName, CreatedAt: oldClient.CreatedAt}
	if oldClient.LogoKey != nil {
		key := blob.LogoKey(newName)
		newClient.LogoKey = &key
	}
	if err := uow.ClientRepository().Create(ctx, newClient); err != nil {
		return stepError("client record", err)
	}

	byClient := specification.ByClient{ClientName: oldName}

	// Step: users.
	users, err := uow.ClientUserRepository().FindAll(ctx, byClient)
	if err != nil {
		return stepError("users", err)
	}
	for _, u := range users {
		moved := *u
		moved.ClientName = newName
		if err := uow.ClientUserRepository().Create(ctx, &moved); err != nil {
			return stepError("users", err)
		}
		if err := uow.ClientUserRepository().Delete(ctx, oldName, u.Email); err != nil {
			return stepError("users", err)
		}
	}

	// Step: positions.
	positions, err := uow.PositionRepository().FindAll(ctx, byClient)
	if err != nil {
		return stepError("positions", err)
	}
	for _, pos := range positions {
		moved := *pos
		moved.ClientName = newName
		if err := uow.PositionRepository().Save(ctx, &moved); err != nil {
			return stepError("positions", err)
		}
		if err := uow.PositionRepository().Delete(ctx, oldName, pos.Name); err != nil {
			return stepError("positions", err)
		}
	}

	// Step: file records.
	files, err := uow.FileRepository().FindAll(ctx, byClient)
	if err != nil {
		return stepError("file records", err)
	}
	for _, f := range files {
		moved := *f
		moved.ClientName = newName
		if err := uow.FileRepository().Upsert(ctx, &moved); err != nil {
			return stepError("file records", err)
		}
		// Upsert refreshes uploaded_at but not decision; restore both
		// explicitly so the migrated record is byte-equal.
		if err := uow.FileRepository().UpdateDecision(ctx, newName, f.PositionName, f.Filename, f.Decision); err != nil {
			return stepError("file records", err)
		}
		if err := uow.FileRepository().Delete(ctx, oldName, f.PositionName, f.Filename); err != nil {
			return stepError("file records", err)
		}
	}

	// Step: notes.
	notes, err := uow.NoteRepository().FindAll(ctx, byClient)
	if err != nil {
		return stepError("notes", err)
	}
	for _, n := range notes {
		moved := *n
		moved.Id = uuid.New()
		moved.ClientName = newName
		if err := uow.NoteRepository().Create(ctx, &moved); err != nil {
			return stepError("notes", err)
		}
		if err := uow.NoteRepository().Delete(ctx, n.Id); err != nil {
			return stepError("notes", err)
		}
	}

	// Step: old client record goes only after every sub-collection moved.
	if err := uow.ClientRepository().Delete(ctx, oldName); err != nil {
		return stepError("old client record", err)
	}

	// Step: blobs. Copy first, delete after; a delete of something
	// already gone is not an error.
	if err := s.moveBlobs(ctx, blob.ClientFilePrefix(oldName), blob.ClientFilePrefix(newName)); err != nil {
		return stepError("blobs", err)
	}
	if oldClient.LogoKey != nil {
		if err := s.moveBlob(ctx, blob.LogoKey(oldName), blob.LogoKey(newName)); err != nil {
			return stepError("logo blob", err)
		}
	}

	s.logger.Info("RenameService", "client renamed", map[string]interface{}{
		"from": oldName,
		"to":   newName,
	})
	return nil
}

func (s *renameService) RenamePosition(ctx context.Context, p entity.Principal, clientName, oldName, newName string) error {
	if !p.IsAdmin() {
		return apperr.Forbidden("admin only", nil)
	}
	newName = blob.SanitizeName(newName)
	if newName == oldName {
		return nil
	}

	releaseOld, ok := s.locks.TryLock(positionLockKey(clientName, oldName))
	if !ok {
		return apperr.Conflict("position is being migrated", nil)
	}
	defer releaseOld()
	releaseNew, ok := s.locks.TryLock(positionLockKey(clientName, newName))
	if !ok {
		return apperr.Conflict("position is being migrated", nil)
	}
	defer releaseNew()

	uow := s.uowFactory.NewUnitOfWork(ctx)

	oldPos, err := uow.PositionRepository().FindOne(ctx,
		specification.ByClient{ClientName: clientName},
		specification.ByName{Name: oldName},
	)
	if err != nil {
		return stepError("precondition", err)
	}
	if oldPos == nil {
		return apperr.NotFound("position not found", nil)
	}
	existing, err := uow.PositionRepository().FindOne(ctx,
		specification.ByClient{ClientName: clientName},
		specification.ByName{Name: newName},
	)
	if err != nil {
		return stepError("precondition", err)
	}
	if existing != nil {
		return apperr.Conflict("a position with the new name already exists", nil)
	}

	moved := *oldPos
	moved.Name = newName
	if err := uow.PositionRepository().Save(ctx, &moved); err != nil {
		return stepError("position record", err)
	}

	byPos := specification.ByPosition{ClientName: clientName, PositionName: oldName}

	files, err := uow.FileRepository().FindAll(ctx, byPos)
	if err != nil {
		return stepError("file records", err)
	}
	for _, f := range files {
		movedFile := *f
		movedFile.PositionName = newName
		if err := uow.FileRepository().Upsert(ctx, &movedFile); err != nil {
			return stepError("file records", err)
		}
		if err := uow.FileRepository().UpdateDecision(ctx, clientName, newName, f.Filename, f.Decision); err != nil {
			return stepError("file records", err)
		}
		if err := uow.FileRepository().Delete(ctx, clientName, oldName, f.Filename); err != nil {
			return stepError("file records", err)
		}
	}

	notes, err := uow.NoteRepository().FindAll(ctx, byPos)
	if err != nil {
		return stepError("notes", err)
	}
	for _, n := range notes {
		movedNote := *n
		movedNote.Id = uuid.New()
		movedNote.PositionName = newName
		if err := uow.NoteRepository().Create(ctx, &movedNote); err != nil {
			return stepError("notes", err)
		}
		if err := uow.NoteRepository().Delete(ctx, n.Id); err != nil {
			return stepError("notes", err)
		}
	}

	if err := uow.PositionRepository().Delete(ctx, clientName, oldName); err != nil {
		return stepError("old position record", err)
	}

	if err := s.moveBlobs(ctx, blob.FilePrefix(clientName, oldName), blob.FilePrefix(clientName, newName)); err != nil {
		return stepError("blobs", err)
	}

	s.logger.Info("RenameService", "position renamed", map[string]interface{}{
		"client": clientName,
		"from":   oldName,
		"to":     newName,
	})
	return nil
}

func (s *renameService) moveBlobs(ctx context.Context, oldPrefix, newPrefix string) error {
	keys, err := s.blobs.List(ctx, oldPrefix)
	if err != nil {
		return err
	}
	for _, key := range keys {
		dst := newPrefix + key[len(oldPrefix):]
		if err := s.moveBlob(ctx, key, dst); err != nil {
			return err
		}
	}
	return nil
}

func (s *renameService) moveBlob(ctx context.Context, src, dst string) error {
	exists, err := s.blobs.Exists(ctx, src)
	if err != nil {
		return err
	}
	if !exists {
		return nil
	}
	if err := s.blobs.Copy(ctx, src, dst); err != nil {
		return err
	}
	return s.blobs.Delete(ctx, src)
}
