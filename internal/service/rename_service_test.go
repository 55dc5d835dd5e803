package service

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"grid-portal-be/internal/entity"
	"grid-portal-be/internal/pkg/keylock"
	"grid-portal-be/pkg/apperr"
	"grid-portal-be/pkg/blob"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type renameFixture struct {
	store *fakeStore
	blobs *memBlobStore
	locks *keylock.Table
	svc   IRenameService
}

func newRenameFixture(t *testing.T) renameFixture {
	t.Helper()
	store, factory := newFakeFactory()
	blobs := newMemBlobStore()
	locks := keylock.NewTable()
	svc := NewRenameService(factory, blobs, locks, nopLogger{})
	return renameFixture{store: store, blobs: blobs, locks: locks, svc: svc}
}

func (f renameFixture) seedClient(t *testing.T, name string) {
	t.Helper()
	ctx := context.Background()
	logoKey := blob.LogoKey(name)
	f.store.clients = append(f.store.clients, &entity.Client{
		Name: name, LogoKey: &logoKey, CreatedAt: time.Now(),
	})
	f.store.users = append(f.store.users, &entity.ClientUser{
		ClientName: name, Email: "pat@" + name + ".com", Name: "Pat", Role: entity.RoleClient,
	})
	f.store.posns = append(f.store.posns, &entity.Position{
		ClientName: name, Name: "backend-engineer", CreatedAt: time.Now(),
	})
	f.store.files = append(f.store.files, &entity.CandidateFile{
		ClientName: name, PositionName: "backend-engineer", Filename: "jane-doe.pdf",
		ContentType: "application/pdf", Size: 4, Decision: entity.DecisionYes,
		UploadedAt: time.Now(),
	})
	f.store.notes = append(f.store.notes, &entity.Note{
		Id: uuid.New(), ClientName: name, PositionName: "backend-engineer",
		Filename: "jane-doe.pdf", Text: "hire", AuthorEmail: "pat@" + name + ".com",
		CreatedAt: time.Now(),
	})
	assert.NoError(t, f.blobs.Put(ctx, blob.FileKey(name, "backend-engineer", "jane-doe.pdf"),
		strings.NewReader("%PDF")))
	assert.NoError(t, f.blobs.Put(ctx, logoKey, strings.NewReader("png-bytes")))
}

func TestRenameClientMovesEverything(t *testing.T) {
	f := newRenameFixture(t)
	f.seedClient(t, "acme")
	ctx := context.Background()

	err := f.svc.RenameClient(ctx, acmeAdmin, "acme", "acme-gmbh")
	assert.NoError(t, err)

	// Old identity is fully gone.
	assert.Empty(t, func() []*entity.Client {
		var out []*entity.Client
		for _, c := range f.store.clients {
			if c.Name == "acme" {
				out = append(out, c)
			}
		}
		return out
	}())

	if assert.Len(t, f.store.clients, 1) {
		assert.Equal(t, "acme-gmbh", f.store.clients[0].Name)
		if assert.NotNil(t, f.store.clients[0].LogoKey) {
			assert.Equal(t, blob.LogoKey("acme-gmbh"), *f.store.clients[0].LogoKey)
		}
	}
	if assert.Len(t, f.store.users, 1) {
		assert.Equal(t, "acme-gmbh", f.store.users[0].ClientName)
		assert.Equal(t, "pat@acme.com", f.store.users[0].Email)
	}
	if assert.Len(t, f.store.posns, 1) {
		assert.Equal(t, "acme-gmbh", f.store.posns[0].ClientName)
	}
	if assert.Len(t, f.store.files, 1) {
		assert.Equal(t, "acme-gmbh", f.store.files[0].ClientName)
		// The reviewer verdict survives the migration.
		assert.Equal(t, entity.DecisionYes, f.store.files[0].Decision)
	}
	if assert.Len(t, f.store.notes, 1) {
		assert.Equal(t, "acme-gmbh", f.store.notes[0].ClientName)
		assert.Equal(t, "hire", f.store.notes[0].Text)
	}

	rc, err := f.blobs.Get(ctx, blob.FileKey("acme-gmbh", "backend-engineer", "jane-doe.pdf"))
	assert.NoError(t, err)
	data, _ := io.ReadAll(rc)
	rc.Close()
	assert.Equal(t, "%PDF", string(data))

	gone, err := f.blobs.Exists(ctx, blob.FileKey("acme", "backend-engineer", "jane-doe.pdf"))
	assert.NoError(t, err)
	assert.False(t, gone)

	moved, err := f.blobs.Exists(ctx, blob.LogoKey("acme-gmbh"))
	assert.NoError(t, err)
	assert.True(t, moved)
}

func TestRenameClientRoundTripRestoresIdentity(t *testing.T) {
	f := newRenameFixture(t)
	f.seedClient(t, "acme")
	ctx := context.Background()

	assert.NoError(t, f.svc.RenameClient(ctx, acmeAdmin, "acme", "acme-gmbh"))
	assert.NoError(t, f.svc.RenameClient(ctx, acmeAdmin, "acme-gmbh", "acme"))

	if assert.Len(t, f.store.clients, 1) {
		assert.Equal(t, "acme", f.store.clients[0].Name)
	}
	if assert.Len(t, f.store.files, 1) {
		assert.Equal(t, entity.DecisionYes, f.store.files[0].Decision)
	}
	back, err := f.blobs.Exists(ctx, blob.FileKey("acme", "backend-engineer", "jane-doe.pdf"))
	assert.NoError(t, err)
	assert.True(t, back)
}

func TestRenameClientAdminOnly(t *testing.T) {
	f := newRenameFixture(t)
	f.seedClient(t, "acme")

	err := f.svc.RenameClient(context.Background(), acmeMember, "acme", "acme-gmbh")
	assert.True(t, apperr.IsKind(err, apperr.KindForbidden))
}

func TestRenameClientSameNameIsNoOp(t *testing.T) {
	f := newRenameFixture(t)
	f.seedClient(t, "acme")

	assert.NoError(t, f.svc.RenameClient(context.Background(), acmeAdmin, "acme", "acme"))
	assert.Len(t, f.store.clients, 1)
}

func TestRenameClientMissingSource(t *testing.T) {
	f := newRenameFixture(t)

	err := f.svc.RenameClient(context.Background(), acmeAdmin, "ghost", "phantom")
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
}

func TestRenameClientTargetTaken(t *testing.T) {
	f := newRenameFixture(t)
	f.seedClient(t, "acme")
	f.store.clients = append(f.store.clients, &entity.Client{Name: "globex"})

	err := f.svc.RenameClient(context.Background(), acmeAdmin, "acme", "globex")
	assert.True(t, apperr.IsKind(err, apperr.KindConflict))
}

func TestRenameClientConflictsWithRunningMigration(t *testing.T) {
	f := newRenameFixture(t)
	f.seedClient(t, "acme")

	release, ok := f.locks.TryLock(clientLockKey("acme"))
	assert.True(t, ok)
	defer release()

	err := f.svc.RenameClient(context.Background(), acmeAdmin, "acme", "acme-gmbh")
	assert.True(t, apperr.IsKind(err, apperr.KindConflict))

	// Untouched while the other migration holds the lock.
	assert.Equal(t, "acme", f.store.clients[0].Name)
}

func TestRenamePositionMovesFilesAndNotes(t *testing.T) {
	f := newRenameFixture(t)
	f.seedClient(t, "acme")
	ctx := context.Background()

	err := f.svc.RenamePosition(ctx, acmeAdmin, "acme", "backend-engineer", "platform-engineer")
	assert.NoError(t, err)

	if assert.Len(t, f.store.posns, 1) {
		assert.Equal(t, "platform-engineer", f.store.posns[0].Name)
		assert.Equal(t, "acme", f.store.posns[0].ClientName)
	}
	if assert.Len(t, f.store.files, 1) {
		assert.Equal(t, "platform-engineer", f.store.files[0].PositionName)
		assert.Equal(t, entity.DecisionYes, f.store.files[0].Decision)
	}
	if assert.Len(t, f.store.notes, 1) {
		assert.Equal(t, "platform-engineer", f.store.notes[0].PositionName)
	}

	moved, err := f.blobs.Exists(ctx, blob.FileKey("acme", "platform-engineer", "jane-doe.pdf"))
	assert.NoError(t, err)
	assert.True(t, moved)
	old, err := f.blobs.Exists(ctx, blob.FileKey("acme", "backend-engineer", "jane-doe.pdf"))
	assert.NoError(t, err)
	assert.False(t, old)
}

func TestRenamePositionConflictsWhileLocked(t *testing.T) {
	f := newRenameFixture(t)
	f.seedClient(t, "acme")

	release, ok := f.locks.TryLock(positionLockKey("acme", "platform-engineer"))
	assert.True(t, ok)
	defer release()

	err := f.svc.RenamePosition(context.Background(), acmeAdmin, "acme", "backend-engineer", "platform-engineer")
	assert.True(t, apperr.IsKind(err, apperr.KindConflict))
}
