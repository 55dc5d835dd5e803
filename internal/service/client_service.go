package service

import (
	"context"
	"fmt"
	"io"
	"time"

	"grid-portal-be/internal/dto"
	"grid-portal-be/internal/entity"
	"grid-portal-be/internal/pkg/logger"
	"grid-portal-be/internal/repository/specification"
	"grid-portal-be/internal/repository/unitofwork"
	"grid-portal-be/pkg/apperr"
	"grid-portal-be/pkg/blob"
	"grid-portal-be/pkg/events"

	"golang.org/x/crypto/bcrypt"
)

type IClientService interface {
	List(ctx context.Context, p entity.Principal) ([]dto.ClientResponse, error)
	Meta(ctx context.Context, name string) (*dto.ClientMetaResponse, error)
	Create(ctx context.Context, p entity.Principal, req dto.CreateClientRequest) (*dto.ClientResponse, error)
	Delete(ctx context.Context, p entity.Principal, name string) error

	UploadLogo(ctx context.Context, p entity.Principal, name string, r io.Reader) error
	RemoveLogo(ctx context.Context, p entity.Principal, name string) error
	Logo(ctx context.Context, name string) (io.ReadCloser, error)

	CreateUser(ctx context.Context, p entity.Principal, req dto.CreateClientUserRequest) (*dto.ClientUserResponse, error)
	ListUsers(ctx context.Context, p entity.Principal, clientName string) ([]dto.ClientUserResponse, error)
	DeleteUser(ctx context.Context, p entity.Principal, clientName, email string) error
}

type clientService struct {
	uowFactory unitofwork.RepositoryFactory
	blobs      blob.Store
	eventSvc   IEventService
	baseURL    string
	logger     logger.ILogger
}

func NewClientService(
	uowFactory unitofwork.RepositoryFactory,
	blobs blob.Store,
	eventSvc IEventService,
	baseURL string,
	log logger.ILogger,
) IClientService {
	return &clientService{
		uowFactory: uowFactory,
		blobs:      blobs,
		eventSvc:   eventSvc,
		baseURL:    baseURL,
		logger:     log,
	}
}

// List returns the clients visible to p: all of them for admins, the
// single owning client for everyone else.
func (s *clientService) List(ctx context.Context, p entity.Principal) ([]dto.ClientResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	var specs []specification.Specification
	if !p.IsAdmin() {
		if p.ClientID == "" {
			return []dto.ClientResponse{}, nil
		}
		specs = append(specs, specification.ByName{Name: p.ClientID})
	}
	specs = append(specs, specification.OrderBy{Field: "name"})

	clients, err := uow.ClientRepository().FindAll(ctx, specs...)
	if err != nil {
		return nil, apperr.Wrap(err, "could not list clients")
	}

	out := make([]dto.ClientResponse, 0, len(clients))
	for _, c := range clients {
		n, err := uow.PositionRepository().Count(ctx, specification.ByClient{ClientName: c.Name})
		if err != nil {
			return nil, apperr.Wrap(err, "could not count positions")
		}
		out = append(out, s.toResponse(c, n))
	}
	return out, nil
}

func (s *clientService) toResponse(c *entity.Client, positions int64) dto.ClientResponse {
	res := dto.ClientResponse{
		Name:      c.Name,
		Positions: int(positions),
		CreatedAt: c.CreatedAt,
	}
	if c.LogoKey != nil {
		res.LogoURL = fmt.Sprintf("%s/logos/%s", s.baseURL, c.Name)
	}
	return res
}

// Meta reports a client's name and logo address without requiring tenant
// membership. An unknown client answers with a null logo rather than an
// error, so the caller cannot probe which clients exist.
func (s *clientService) Meta(ctx context.Context, name string) (*dto.ClientMetaResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	client, err := uow.ClientRepository().FindOne(ctx, specification.ByName{Name: name})
	if err != nil {
		return nil, apperr.Wrap(err, "could not load client")
	}

	res := &dto.ClientMetaResponse{Name: name}
	if client != nil && client.LogoKey != nil {
		logoURL := fmt.Sprintf("%s/logos/%s", s.baseURL, client.Name)
		res.LogoURL = &logoURL
	}
	return res, nil
}

func (s *clientService) Create(ctx context.Context, p entity.Principal, req dto.CreateClientRequest) (*dto.ClientResponse, error) {
	if !p.IsAdmin() {
		return nil, apperr.Forbidden("admin only", nil)
	}

	name := blob.SanitizeName(req.Name)
	uow := s.uowFactory.NewUnitOfWork(ctx)

	existing, err := uow.ClientRepository().FindOne(ctx, specification.ByName{Name: name})
	if err != nil {
		return nil, apperr.Wrap(err, "could not check client")
	}
	if existing != nil {
		return nil, apperr.Conflict("client already exists", nil)
	}

	client := &entity.Client{Name: name, CreatedAt: time.Now()}
	if err := uow.ClientRepository().Create(ctx, client); err != nil {
		return nil, apperr.Wrap(err, "could not create client")
	}

	s.eventSvc.Emit(ctx, events.PortalEvent{
		Kind:   events.KindNewClient,
		Client: name,
		Actor:  events.Actor{Name: p.Name, Email: p.Email},
	})

	res := s.toResponse(client, 0)
	return &res, nil
}

// Delete removes the client and everything under it: positions, file
// records, notes, users, then the blobs. Records go first so a crash
// mid-way leaves only orphaned blobs, never records pointing at nothing.
func (s *clientService) Delete(ctx context.Context, p entity.Principal, name string) error {
	if !p.IsAdmin() {
		return apperr.Forbidden("admin only", nil)
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	client, err := uow.ClientRepository().FindOne(ctx, specification.ByName{Name: name})
	if err != nil {
		return apperr.Wrap(err, "could not load client")
	}
	if client == nil {
		return apperr.NotFound("client not found", nil)
	}

	if err := uow.Begin(ctx); err != nil {
		return apperr.Wrap(err, "could not start transaction")
	}

	steps := []func() error{
		func() error {
			notes, err := uow.NoteRepository().FindAll(ctx, specification.ByClient{ClientName: name})
			if err != nil {
				return err
			}
			for _, n := range notes {
				if err := uow.NoteRepository().Delete(ctx, n.Id); err != nil {
					return err
				}
			}
			return nil
		},
		func() error {
			files, err := uow.FileRepository().FindAll(ctx, specification.ByClient{ClientName: name})
			if err != nil {
				return err
			}
			for _, f := range files {
				if err := uow.FileRepository().Delete(ctx, f.ClientName, f.PositionName, f.Filename); err != nil {
					return err
				}
			}
			return nil
		},
		func() error {
			positions, err := uow.PositionRepository().FindAll(ctx, specification.ByClient{ClientName: name})
			if err != nil {
				return err
			}
			for _, pos := range positions {
				if err := uow.PositionRepository().Delete(ctx, pos.ClientName, pos.Name); err != nil {
					return err
				}
			}
			return nil
		},
		func() error {
			users, err := uow.ClientUserRepository().FindAll(ctx, specification.ByClient{ClientName: name})
			if err != nil {
				return err
			}
			for _, u := range users {
				if err := uow.ClientUserRepository().Delete(ctx, u.ClientName, u.Email); err != nil {
					return err
				}
			}
			return nil
		},
		func() error {
			return uow.ClientRepository().Delete(ctx, name)
		},
	}
	for _, step := range steps {
		if err := step(); err != nil {
			_ = uow.Rollback()
			return apperr.Wrap(err, "could not delete client")
		}
	}
	if err := uow.Commit(); err != nil {
		return apperr.Wrap(err, "could not delete client")
	}

	// Blob cleanup is best effort: the records are gone, leftover bytes
	// are unreachable and only cost disk.
	keys, err := s.blobs.List(ctx, blob.ClientFilePrefix(name))
	if err == nil {
		for _, key := range keys {
			_ = s.blobs.Delete(ctx, key)
		}
	}
	_ = s.blobs.Delete(ctx, blob.LogoKey(name))

	s.logger.Info("ClientService", "client deleted", map[string]interface{}{"client": name})
	return nil
}

func (s *clientService) UploadLogo(ctx context.Context, p entity.Principal, name string, r io.Reader) error {
	if !p.IsAdmin() {
		return apperr.Forbidden("admin only", nil)
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	client, err := uow.ClientRepository().FindOne(ctx, specification.ByName{Name: name})
	if err != nil {
		return apperr.Wrap(err, "could not load client")
	}
	if client == nil {
		return apperr.NotFound("client not found", nil)
	}

	key := blob.LogoKey(name)
	if err := s.blobs.Put(ctx, key, r); err != nil {
		return apperr.Wrap(err, "could not store logo")
	}
	if err := uow.ClientRepository().UpdateLogoKey(ctx, name, &key); err != nil {
		return apperr.Wrap(err, "could not record logo")
	}
	return nil
}

// RemoveLogo clears the stored reference first, then deletes the blob
// best effort; a dangling logo blob is unreachable once the key is gone.
func (s *clientService) RemoveLogo(ctx context.Context, p entity.Principal, name string) error {
	if !p.IsAdmin() {
		return apperr.Forbidden("admin only", nil)
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	client, err := uow.ClientRepository().FindOne(ctx, specification.ByName{Name: name})
	if err != nil {
		return apperr.Wrap(err, "could not load client")
	}
	if client == nil {
		return apperr.NotFound("client not found", nil)
	}

	if err := uow.ClientRepository().UpdateLogoKey(ctx, name, nil); err != nil {
		return apperr.Wrap(err, "could not clear logo")
	}
	if err := s.blobs.Delete(ctx, blob.LogoKey(name)); err != nil {
		s.logger.Warn("ClientService", "logo blob cleanup failed", map[string]interface{}{
			"client": name,
			"error":  err.Error(),
		})
	}
	return nil
}

func (s *clientService) Logo(ctx context.Context, name string) (io.ReadCloser, error) {
	rc, err := s.blobs.Get(ctx, blob.LogoKey(name))
	if err != nil {
		return nil, apperr.NotFound("logo not found", err)
	}
	return rc, nil
}

func (s *clientService) CreateUser(ctx context.Context, p entity.Principal, req dto.CreateClientUserRequest) (*dto.ClientUserResponse, error) {
	if !p.IsAdmin() {
		return nil, apperr.Forbidden("admin only", nil)
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	client, err := uow.ClientRepository().FindOne(ctx, specification.ByName{Name: req.ClientName})
	if err != nil {
		return nil, apperr.Wrap(err, "could not load client")
	}
	if client == nil {
		return nil, apperr.NotFound("client not found", nil)
	}

	existing, err := uow.ClientUserRepository().FindOne(ctx, specification.ByEmail{Email: req.Email})
	if err != nil {
		return nil, apperr.Wrap(err, "could not check user")
	}
	if existing != nil {
		return nil, apperr.Conflict("a user with this email already exists", nil)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperr.Wrap(err, "could not hash password")
	}

	role := req.Role
	if role == "" {
		role = entity.RoleClient
	}
	user := &entity.ClientUser{
		ClientName:   req.ClientName,
		Email:        req.Email,
		Name:         req.Name,
		PasswordHash: string(hash),
		Role:         role,
		CreatedAt:    time.Now(),
	}
	if err := uow.ClientUserRepository().Create(ctx, user); err != nil {
		return nil, apperr.Wrap(err, "could not create user")
	}

	s.eventSvc.Emit(ctx, events.PortalEvent{
		Kind:    events.KindNewUser,
		Client:  req.ClientName,
		Content: fmt.Sprintf("%s <%s>", user.Name, user.Email),
		Actor:   events.Actor{Name: p.Name, Email: p.Email},
	})

	return &dto.ClientUserResponse{
		ClientName: user.ClientName,
		Email:      user.Email,
		Name:       user.Name,
		Role:       user.Role,
		CreatedAt:  user.CreatedAt,
	}, nil
}

func (s *clientService) ListUsers(ctx context.Context, p entity.Principal, clientName string) ([]dto.ClientUserResponse, error) {
	if !p.CanAccessClient(clientName) {
		return nil, apperr.Forbidden("no access to this client", nil)
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	users, err := uow.ClientUserRepository().FindAll(ctx,
		specification.ByClient{ClientName: clientName},
		specification.OrderBy{Field: "email"},
	)
	if err != nil {
		return nil, apperr.Wrap(err, "could not list users")
	}

	out := make([]dto.ClientUserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, dto.ClientUserResponse{
			ClientName: u.ClientName,
			Email:      u.Email,
			Name:       u.Name,
			Role:       u.Role,
			CreatedAt:  u.CreatedAt,
		})
	}
	return out, nil
}

func (s *clientService) DeleteUser(ctx context.Context, p entity.Principal, clientName, email string) error {
	if !p.IsAdmin() {
		return apperr.Forbidden("admin only", nil)
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.ClientUserRepository().Delete(ctx, clientName, email); err != nil {
		return apperr.Wrap(err, "could not delete user")
	}
	return nil
}
