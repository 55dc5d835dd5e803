package service

import (
	"bytes"
	"context"
	"io"
	"time"

	"grid-portal-be/internal/dto"
	"grid-portal-be/internal/entity"
	"grid-portal-be/internal/pkg/keylock"
	"grid-portal-be/internal/pkg/logger"
	"grid-portal-be/internal/repository/specification"
	"grid-portal-be/internal/repository/unitofwork"
	"grid-portal-be/pkg/apperr"
	"grid-portal-be/pkg/blob"
)

type FileUpload struct {
	Filename    string
	ContentType string
	Content     []byte
}

type IFileService interface {
	List(ctx context.Context, p entity.Principal, clientName, positionName string) ([]dto.FileResponse, error)
	Upload(ctx context.Context, p entity.Principal, clientName, positionName string, uploads []FileUpload) (*dto.UploadFilesResponse, error)
	Delete(ctx context.Context, p entity.Principal, clientName, positionName, filename string) error
	Stream(ctx context.Context, p entity.Principal, clientName, positionName, filename string) (io.ReadCloser, *entity.CandidateFile, error)
}

type fileService struct {
	uowFactory unitofwork.RepositoryFactory
	blobs      blob.Store
	locks      *keylock.Table
	logger     logger.ILogger
}

func NewFileService(uowFactory unitofwork.RepositoryFactory, blobs blob.Store, locks *keylock.Table, log logger.ILogger) IFileService {
	return &fileService{
		uowFactory: uowFactory,
		blobs:      blobs,
		locks:      locks,
		logger:     log,
	}
}

func (s *fileService) List(ctx context.Context, p entity.Principal, clientName, positionName string) ([]dto.FileResponse, error) {
	if !p.CanAccessClient(clientName) {
		return nil, apperr.Forbidden("no access to this client", nil)
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	files, err := uow.FileRepository().FindAll(ctx,
		specification.ByPosition{ClientName: clientName, PositionName: positionName},
		specification.OrderBy{Field: "filename"},
	)
	if err != nil {
		return nil, apperr.Wrap(err, "could not list files")
	}

	out := make([]dto.FileResponse, 0, len(files))
	for _, f := range files {
		out = append(out, toFileResponse(f))
	}
	return out, nil
}

func toFileResponse(f *entity.CandidateFile) dto.FileResponse {
	return dto.FileResponse{
		ClientName:   f.ClientName,
		PositionName: f.PositionName,
		Filename:     f.Filename,
		ContentType:  f.ContentType,
		Size:         f.Size,
		Decision:     f.Decision,
		UploadedAt:   f.UploadedAt,
	}
}

// Upload stores each file's bytes before its record so no record ever
// points at a blob that is not there yet. A failing file is logged and
// skipped; the rest of the batch still lands.
func (s *fileService) Upload(ctx context.Context, p entity.Principal, clientName, positionName string, uploads []FileUpload) (*dto.UploadFilesResponse, error) {
	if !p.IsAdmin() {
		return nil, apperr.Forbidden("admin only", nil)
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	pos, err := uow.PositionRepository().FindOne(ctx,
		specification.ByClient{ClientName: clientName},
		specification.ByName{Name: positionName},
	)
	if err != nil {
		return nil, apperr.Wrap(err, "could not load position")
	}
	if pos == nil {
		return nil, apperr.NotFound("position not found", nil)
	}

	res := &dto.UploadFilesResponse{Uploaded: []dto.FileResponse{}}
	for _, up := range uploads {
		if saved := s.uploadOne(ctx, uow, clientName, positionName, up); saved != nil {
			res.Uploaded = append(res.Uploaded, toFileResponse(saved))
		}
	}
	return res, nil
}

// uploadOne stores a single file under its key lock so a re-upload never
// interleaves with a decision or note write on the same file. A nil
// return means the file was logged and skipped.
func (s *fileService) uploadOne(ctx context.Context, uow unitofwork.UnitOfWork, clientName, positionName string, up FileUpload) *entity.CandidateFile {
	name := blob.SanitizeName(up.Filename)
	contentType := up.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	release := s.locks.Lock(fileLockKey(clientName, positionName, name))
	defer release()

	key := blob.FileKey(clientName, positionName, name)
	if err := s.blobs.Put(ctx, key, bytes.NewReader(up.Content)); err != nil {
		s.logger.Error("FileService", "upload failed", map[string]interface{}{
			"file":  name,
			"error": err.Error(),
		})
		return nil
	}

	file := &entity.CandidateFile{
		ClientName:   clientName,
		PositionName: positionName,
		Filename:     name,
		ContentType:  contentType,
		Size:         int64(len(up.Content)),
		Decision:     entity.DecisionNeutral,
		UploadedAt:   time.Now(),
	}
	if err := uow.FileRepository().Upsert(ctx, file); err != nil {
		s.logger.Error("FileService", "file record write failed", map[string]interface{}{
			"file":  name,
			"error": err.Error(),
		})
		return nil
	}
	return file
}

// Delete drops the record before the blob, the mirror image of Upload's
// ordering. A missing blob is fine, the delete is idempotent.
func (s *fileService) Delete(ctx context.Context, p entity.Principal, clientName, positionName, filename string) error {
	if !p.IsAdmin() {
		return apperr.Forbidden("admin only", nil)
	}

	release := s.locks.Lock(fileLockKey(clientName, positionName, filename))
	defer release()

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return apperr.Wrap(err, "could not start transaction")
	}

	notes, err := uow.NoteRepository().FindAll(ctx, specification.ByFile{
		ClientName:   clientName,
		PositionName: positionName,
		Filename:     filename,
	})
	if err == nil {
		for _, n := range notes {
			if err = uow.NoteRepository().Delete(ctx, n.Id); err != nil {
				break
			}
		}
	}
	if err == nil {
		err = uow.FileRepository().Delete(ctx, clientName, positionName, filename)
	}
	if err != nil {
		_ = uow.Rollback()
		return apperr.Wrap(err, "could not delete file")
	}
	if err := uow.Commit(); err != nil {
		return apperr.Wrap(err, "could not delete file")
	}

	if err := s.blobs.Delete(ctx, blob.FileKey(clientName, positionName, filename)); err != nil {
		s.logger.Warn("FileService", "blob cleanup failed", map[string]interface{}{
			"file":  filename,
			"error": err.Error(),
		})
	}
	return nil
}

func (s *fileService) Stream(ctx context.Context, p entity.Principal, clientName, positionName, filename string) (io.ReadCloser, *entity.CandidateFile, error) {
	if !p.CanAccessClient(clientName) {
		return nil, nil, apperr.Forbidden("no access to this client", nil)
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	file, err := uow.FileRepository().FindOne(ctx, specification.ByFile{
		ClientName:   clientName,
		PositionName: positionName,
		Filename:     filename,
	})
	if err != nil {
		return nil, nil, apperr.Wrap(err, "could not load file")
	}
	if file == nil {
		return nil, nil, apperr.NotFound("file not found", nil)
	}

	rc, err := s.blobs.Get(ctx, blob.FileKey(clientName, positionName, filename))
	if err != nil {
		return nil, nil, apperr.NotFound("file not found", err)
	}
	return rc, file, nil
}
