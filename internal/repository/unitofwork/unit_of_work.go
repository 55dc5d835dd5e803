package unitofwork

import (
	"context"

	"grid-portal-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	ClientRepository() contract.ClientRepository
	ClientUserRepository() contract.ClientUserRepository
	PositionRepository() contract.PositionRepository
	FileRepository() contract.FileRepository
	NoteRepository() contract.NoteRepository
	NotificationRepository() contract.NotificationRepository
	NotificationTypeRepository() contract.NotificationTypeRepository
}
