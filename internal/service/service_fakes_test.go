package service

import (
	"bytes"
	"context"
	"io"
	"io/fs"
	"sort"
	"strings"
	"sync"

	"grid-portal-be/internal/entity"
	"grid-portal-be/internal/model"
	"grid-portal-be/internal/pkg/logger"
	"grid-portal-be/internal/repository/contract"
	"grid-portal-be/internal/repository/specification"
	"grid-portal-be/internal/repository/unitofwork"
	"grid-portal-be/pkg/events"

	"github.com/google/uuid"
)

// The fakes below back the service tests with plain in-memory slices.
// Specifications are interpreted by type switch instead of SQL, which is
// enough to exercise every query shape the services use.

type fakeStore struct {
	mu      sync.Mutex
	clients []*entity.Client
	users   []*entity.ClientUser
	posns   []*entity.Position
	files   []*entity.CandidateFile
	notes   []*entity.Note
	notifs  []*model.Notification
	types   []*model.NotificationType
}

type rowMatch struct {
	clientName   string
	positionName string
	filename     string
	name         string
	email        string
	createdAtKey interface{}
}

type querySpec struct {
	filters    []func(rowMatch) bool
	newestAt   bool
	orderField string
	limit      int
}

func parseSpecs(specs []specification.Specification) querySpec {
	q := querySpec{limit: -1}
	for _, s := range specs {
		switch v := s.(type) {
		case specification.ByClient:
			c := v.ClientName
			q.filters = append(q.filters, func(r rowMatch) bool { return r.clientName == c })
		case specification.ByPosition:
			c, p := v.ClientName, v.PositionName
			q.filters = append(q.filters, func(r rowMatch) bool {
				return r.clientName == c && r.positionName == p
			})
		case specification.ByFile:
			c, p, f := v.ClientName, v.PositionName, v.Filename
			q.filters = append(q.filters, func(r rowMatch) bool {
				return r.clientName == c && r.positionName == p && r.filename == f
			})
		case specification.ByName:
			n := v.Name
			q.filters = append(q.filters, func(r rowMatch) bool { return r.name == n })
		case specification.ByEmail:
			e := v.Email
			q.filters = append(q.filters, func(r rowMatch) bool { return r.email == e })
		case specification.NewestFirst:
			q.newestAt = true
		case specification.OrderBy:
			q.orderField = v.Field
		case specification.Pagination:
			q.limit = v.Limit
		case specification.FilterBy:
			field, val := v.Field, v.Value
			q.filters = append(q.filters, func(r rowMatch) bool {
				return field == "created_at" && r.createdAtKey == val
			})
		}
	}
	return q
}

func (q querySpec) matches(r rowMatch) bool {
	for _, f := range q.filters {
		if !f(r) {
			return false
		}
	}
	return true
}

// --- client repository ---

type fakeClientRepo struct{ s *fakeStore }

func (r *fakeClientRepo) Create(_ context.Context, c *entity.Client) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cp := *c
	r.s.clients = append(r.s.clients, &cp)
	return nil
}

func (r *fakeClientRepo) Delete(_ context.Context, name string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := r.s.clients[:0]
	for _, c := range r.s.clients {
		if c.Name != name {
			out = append(out, c)
		}
	}
	r.s.clients = out
	return nil
}

func (r *fakeClientRepo) UpdateLogoKey(_ context.Context, name string, logoKey *string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, c := range r.s.clients {
		if c.Name == name {
			c.LogoKey = logoKey
		}
	}
	return nil
}

func (r *fakeClientRepo) FindOne(_ context.Context, specs ...specification.Specification) (*entity.Client, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	q := parseSpecs(specs)
	for _, c := range r.s.clients {
		if q.matches(rowMatch{clientName: c.Name, name: c.Name}) {
			cp := *c
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeClientRepo) FindAll(_ context.Context, specs ...specification.Specification) ([]*entity.Client, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	q := parseSpecs(specs)
	var out []*entity.Client
	for _, c := range r.s.clients {
		if q.matches(rowMatch{clientName: c.Name, name: c.Name}) {
			cp := *c
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *fakeClientRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	all, _ := r.FindAll(ctx, specs...)
	return int64(len(all)), nil
}

// --- client user repository ---

type fakeClientUserRepo struct{ s *fakeStore }

func (r *fakeClientUserRepo) Create(_ context.Context, u *entity.ClientUser) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cp := *u
	r.s.users = append(r.s.users, &cp)
	return nil
}

func (r *fakeClientUserRepo) Delete(_ context.Context, clientName, email string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := r.s.users[:0]
	for _, u := range r.s.users {
		if !(u.ClientName == clientName && u.Email == email) {
			out = append(out, u)
		}
	}
	r.s.users = out
	return nil
}

func (r *fakeClientUserRepo) FindOne(_ context.Context, specs ...specification.Specification) (*entity.ClientUser, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	q := parseSpecs(specs)
	for _, u := range r.s.users {
		if q.matches(rowMatch{clientName: u.ClientName, email: u.Email}) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeClientUserRepo) FindAll(_ context.Context, specs ...specification.Specification) ([]*entity.ClientUser, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	q := parseSpecs(specs)
	var out []*entity.ClientUser
	for _, u := range r.s.users {
		if q.matches(rowMatch{clientName: u.ClientName, email: u.Email}) {
			cp := *u
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Email < out[j].Email })
	return out, nil
}

func (r *fakeClientUserRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	all, _ := r.FindAll(ctx, specs...)
	return int64(len(all)), nil
}

// --- position repository ---

type fakePositionRepo struct{ s *fakeStore }

func (r *fakePositionRepo) Create(_ context.Context, p *entity.Position) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cp := *p
	r.s.posns = append(r.s.posns, &cp)
	return nil
}

func (r *fakePositionRepo) Save(_ context.Context, p *entity.Position) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.posns {
		if existing.ClientName == p.ClientName && existing.Name == p.Name {
			existing.Details = p.Details
			return nil
		}
	}
	cp := *p
	r.s.posns = append(r.s.posns, &cp)
	return nil
}

func (r *fakePositionRepo) Delete(_ context.Context, clientName, name string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := r.s.posns[:0]
	for _, p := range r.s.posns {
		if !(p.ClientName == clientName && p.Name == name) {
			out = append(out, p)
		}
	}
	r.s.posns = out
	return nil
}

func (r *fakePositionRepo) FindOne(_ context.Context, specs ...specification.Specification) (*entity.Position, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	q := parseSpecs(specs)
	for _, p := range r.s.posns {
		if q.matches(rowMatch{clientName: p.ClientName, positionName: p.Name, name: p.Name}) {
			cp := *p
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakePositionRepo) FindAll(_ context.Context, specs ...specification.Specification) ([]*entity.Position, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	q := parseSpecs(specs)
	var out []*entity.Position
	for _, p := range r.s.posns {
		if q.matches(rowMatch{clientName: p.ClientName, positionName: p.Name, name: p.Name}) {
			cp := *p
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *fakePositionRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	all, _ := r.FindAll(ctx, specs...)
	return int64(len(all)), nil
}

// --- file repository ---

type fakeFileRepo struct{ s *fakeStore }

func (r *fakeFileRepo) Upsert(_ context.Context, f *entity.CandidateFile) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.files {
		if existing.ClientName == f.ClientName && existing.PositionName == f.PositionName && existing.Filename == f.Filename {
			existing.ContentType = f.ContentType
			existing.Size = f.Size
			existing.UploadedAt = f.UploadedAt
			// decision untouched, mirroring the conflict clause
			return nil
		}
	}
	cp := *f
	r.s.files = append(r.s.files, &cp)
	return nil
}

func (r *fakeFileRepo) Create(_ context.Context, f *entity.CandidateFile) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cp := *f
	r.s.files = append(r.s.files, &cp)
	return nil
}

func (r *fakeFileRepo) UpdateDecision(_ context.Context, clientName, positionName, filename, decision string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, f := range r.s.files {
		if f.ClientName == clientName && f.PositionName == positionName && f.Filename == filename {
			f.Decision = decision
		}
	}
	return nil
}

func (r *fakeFileRepo) Delete(_ context.Context, clientName, positionName, filename string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := r.s.files[:0]
	for _, f := range r.s.files {
		if !(f.ClientName == clientName && f.PositionName == positionName && f.Filename == filename) {
			out = append(out, f)
		}
	}
	r.s.files = out
	return nil
}

func (r *fakeFileRepo) FindOne(_ context.Context, specs ...specification.Specification) (*entity.CandidateFile, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	q := parseSpecs(specs)
	for _, f := range r.s.files {
		if q.matches(rowMatch{clientName: f.ClientName, positionName: f.PositionName, filename: f.Filename}) {
			cp := *f
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeFileRepo) FindAll(_ context.Context, specs ...specification.Specification) ([]*entity.CandidateFile, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	q := parseSpecs(specs)
	var out []*entity.CandidateFile
	for _, f := range r.s.files {
		if q.matches(rowMatch{clientName: f.ClientName, positionName: f.PositionName, filename: f.Filename}) {
			cp := *f
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Filename < out[j].Filename })
	return out, nil
}

func (r *fakeFileRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	all, _ := r.FindAll(ctx, specs...)
	return int64(len(all)), nil
}

// --- note repository ---

type fakeNoteRepo struct{ s *fakeStore }

func (r *fakeNoteRepo) Create(_ context.Context, n *entity.Note) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cp := *n
	r.s.notes = append(r.s.notes, &cp)
	return nil
}

func (r *fakeNoteRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := r.s.notes[:0]
	for _, n := range r.s.notes {
		if n.Id != id {
			out = append(out, n)
		}
	}
	r.s.notes = out
	return nil
}

func (r *fakeNoteRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Note, error) {
	all, err := r.FindAll(ctx, specs...)
	if err != nil || len(all) == 0 {
		return nil, err
	}
	return all[0], nil
}

func (r *fakeNoteRepo) FindAll(_ context.Context, specs ...specification.Specification) ([]*entity.Note, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	q := parseSpecs(specs)
	var out []*entity.Note
	for _, n := range r.s.notes {
		if q.matches(rowMatch{
			clientName:   n.ClientName,
			positionName: n.PositionName,
			filename:     n.Filename,
			createdAtKey: n.CreatedAt,
		}) {
			cp := *n
			out = append(out, &cp)
		}
	}
	if q.newestAt {
		sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	}
	return out, nil
}

func (r *fakeNoteRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	all, _ := r.FindAll(ctx, specs...)
	return int64(len(all)), nil
}

// --- notification repositories ---

type fakeNotificationRepo struct{ s *fakeStore }

func (r *fakeNotificationRepo) Create(_ context.Context, n *model.Notification) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cp := *n
	r.s.notifs = append(r.s.notifs, &cp)
	return nil
}

func (r *fakeNotificationRepo) FindAll(_ context.Context, specs ...specification.Specification) ([]*model.Notification, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	q := parseSpecs(specs)
	var out []*model.Notification
	for _, n := range r.s.notifs {
		if q.matches(rowMatch{clientName: n.ClientName}) {
			cp := *n
			out = append(out, &cp)
		}
	}
	if q.newestAt {
		sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	}
	if q.limit >= 0 && len(out) > q.limit {
		out = out[:q.limit]
	}
	return out, nil
}

func (r *fakeNotificationRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	all, _ := r.FindAll(ctx, specs...)
	return int64(len(all)), nil
}

type fakeNotificationTypeRepo struct{ s *fakeStore }

func (r *fakeNotificationTypeRepo) Upsert(_ context.Context, t *model.NotificationType) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.types {
		if existing.Code == t.Code {
			existing.SubjectTemplate = t.SubjectTemplate
			return nil
		}
	}
	cp := *t
	r.s.types = append(r.s.types, &cp)
	return nil
}

func (r *fakeNotificationTypeRepo) SetActive(_ context.Context, code string, active bool) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, t := range r.s.types {
		if t.Code == code {
			t.IsActive = active
		}
	}
	return nil
}

func (r *fakeNotificationTypeRepo) FindByCode(_ context.Context, code string) (*model.NotificationType, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, t := range r.s.types {
		if t.Code == code {
			cp := *t
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeNotificationTypeRepo) FindAll(_ context.Context) ([]*model.NotificationType, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]*model.NotificationType, 0, len(r.s.types))
	for _, t := range r.s.types {
		cp := *t
		out = append(out, &cp)
	}
	return out, nil
}

// --- unit of work ---

type fakeUow struct{ s *fakeStore }

func (u *fakeUow) Begin(context.Context) error { return nil }
func (u *fakeUow) Commit() error               { return nil }
func (u *fakeUow) Rollback() error             { return nil }

func (u *fakeUow) ClientRepository() contract.ClientRepository         { return &fakeClientRepo{u.s} }
func (u *fakeUow) ClientUserRepository() contract.ClientUserRepository { return &fakeClientUserRepo{u.s} }
func (u *fakeUow) PositionRepository() contract.PositionRepository     { return &fakePositionRepo{u.s} }
func (u *fakeUow) FileRepository() contract.FileRepository             { return &fakeFileRepo{u.s} }
func (u *fakeUow) NoteRepository() contract.NoteRepository             { return &fakeNoteRepo{u.s} }
func (u *fakeUow) NotificationRepository() contract.NotificationRepository {
	return &fakeNotificationRepo{u.s}
}
func (u *fakeUow) NotificationTypeRepository() contract.NotificationTypeRepository {
	return &fakeNotificationTypeRepo{u.s}
}

type fakeFactory struct{ s *fakeStore }

func (f *fakeFactory) NewUnitOfWork(context.Context) unitofwork.UnitOfWork {
	return &fakeUow{f.s}
}

func newFakeFactory() (*fakeStore, unitofwork.RepositoryFactory) {
	s := &fakeStore{}
	return s, &fakeFactory{s}
}

// --- blob store ---

type memBlobStore struct {
	mu    sync.Mutex
	blobs map[string][]byte
}

func newMemBlobStore() *memBlobStore {
	return &memBlobStore{blobs: map[string][]byte{}}
}

func (m *memBlobStore) Put(_ context.Context, key string, r io.Reader) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.blobs[key] = data
	return nil
}

func (m *memBlobStore) Get(_ context.Context, key string) (io.ReadCloser, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.blobs[key]
	if !ok {
		return nil, fs.ErrNotExist
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (m *memBlobStore) Exists(_ context.Context, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.blobs[key]
	return ok, nil
}

func (m *memBlobStore) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.blobs, key)
	return nil
}

func (m *memBlobStore) Copy(_ context.Context, src, dst string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.blobs[src]
	if !ok {
		return fs.ErrNotExist
	}
	cp := make([]byte, len(data))
	copy(cp, data)
	m.blobs[dst] = cp
	return nil
}

func (m *memBlobStore) List(_ context.Context, prefix string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []string
	for k := range m.blobs {
		if strings.HasPrefix(k, prefix) {
			out = append(out, k)
		}
	}
	sort.Strings(out)
	return out, nil
}

// --- event and log sinks ---

type capturingEventService struct {
	mu     sync.Mutex
	events []events.PortalEvent
}

func (c *capturingEventService) Emit(_ context.Context, ev events.PortalEvent) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, ev)
}

func (c *capturingEventService) kinds() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, len(c.events))
	for i, ev := range c.events {
		out[i] = ev.Kind
	}
	return out
}

type nopLogger struct{}

func (nopLogger) Debug(string, string, map[string]interface{}) {}
func (nopLogger) Info(string, string, map[string]interface{})  {}
func (nopLogger) Warn(string, string, map[string]interface{})  {}
func (nopLogger) Error(string, string, map[string]interface{}) {}
func (nopLogger) Sync() error                                  { return nil }

var _ logger.ILogger = nopLogger{}
