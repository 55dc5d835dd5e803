package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"grid-portal-be/internal/dto"
	"grid-portal-be/internal/entity"
	"grid-portal-be/internal/pkg/keylock"
	"grid-portal-be/pkg/apperr"
	"grid-portal-be/pkg/events"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func newFeedbackFixture(t *testing.T) (*fakeStore, *capturingEventService, IFeedbackService) {
	t.Helper()
	store, factory := newFakeFactory()
	eventSvc := &capturingEventService{}
	svc := NewFeedbackService(factory, keylock.NewTable(), eventSvc, nopLogger{})
	store.files = append(store.files, &entity.CandidateFile{
		ClientName:   "acme",
		PositionName: "backend-engineer",
		Filename:     "jane-doe.pdf",
		ContentType:  "application/pdf",
		Decision:     entity.DecisionNeutral,
		UploadedAt:   time.Now(),
	})
	return store, eventSvc, svc
}

var acmeAdmin = entity.Principal{Email: "ops@example.com", Name: "Ops", Role: entity.RoleAdmin}
var acmeMember = entity.Principal{Email: "pat@acme.com", Name: "Pat", Role: entity.RoleClient, ClientID: "acme"}

func decisionReq(decision string) dto.SetDecisionRequest {
	return dto.SetDecisionRequest{
		ClientName:   "acme",
		PositionName: "backend-engineer",
		Filename:     "jane-doe.pdf",
		Decision:     decision,
	}
}

func TestSetDecisionTogglesBackToNeutral(t *testing.T) {
	_, eventSvc, svc := newFeedbackFixture(t)
	ctx := context.Background()

	res, err := svc.SetDecision(ctx, acmeMember, decisionReq(entity.DecisionYes))
	assert.NoError(t, err)
	assert.Equal(t, entity.DecisionYes, res.Decision)

	// Requesting the current decision un-picks it.
	res, err = svc.SetDecision(ctx, acmeMember, decisionReq(entity.DecisionYes))
	assert.NoError(t, err)
	assert.Equal(t, entity.DecisionNeutral, res.Decision)

	assert.Equal(t, []string{events.KindStatus, events.KindStatus}, eventSvc.kinds())
}

func TestSetDecisionSwitchesWithoutPassingNeutral(t *testing.T) {
	_, _, svc := newFeedbackFixture(t)
	ctx := context.Background()

	_, err := svc.SetDecision(ctx, acmeMember, decisionReq(entity.DecisionYes))
	assert.NoError(t, err)

	res, err := svc.SetDecision(ctx, acmeMember, decisionReq(entity.DecisionMaybe))
	assert.NoError(t, err)
	assert.Equal(t, entity.DecisionMaybe, res.Decision)
}

func TestSetDecisionRejectsUnknownValue(t *testing.T) {
	_, _, svc := newFeedbackFixture(t)

	_, err := svc.SetDecision(context.Background(), acmeMember, decisionReq("strong-yes"))
	assert.True(t, apperr.IsKind(err, apperr.KindInvalidArgument))
}

func TestSetDecisionMissingFile(t *testing.T) {
	_, _, svc := newFeedbackFixture(t)

	req := decisionReq(entity.DecisionYes)
	req.Filename = "nobody.pdf"
	_, err := svc.SetDecision(context.Background(), acmeMember, req)
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
}

func TestSetDecisionForbiddenForOtherClient(t *testing.T) {
	_, _, svc := newFeedbackFixture(t)

	outsider := entity.Principal{Email: "eve@globex.com", Role: entity.RoleClient, ClientID: "globex"}
	_, err := svc.SetDecision(context.Background(), outsider, decisionReq(entity.DecisionYes))
	assert.True(t, apperr.IsKind(err, apperr.KindForbidden))
}

func TestAddNoteOrdersNewestFirst(t *testing.T) {
	_, eventSvc, svc := newFeedbackFixture(t)
	ctx := context.Background()

	first, err := svc.AddNote(ctx, acmeMember, dto.AddNoteRequest{
		ClientName: "acme", PositionName: "backend-engineer", Filename: "jane-doe.pdf",
		Text: "strong portfolio",
	})
	assert.NoError(t, err)
	second, err := svc.AddNote(ctx, acmeMember, dto.AddNoteRequest{
		ClientName: "acme", PositionName: "backend-engineer", Filename: "jane-doe.pdf",
		Text: "schedule interview",
	})
	assert.NoError(t, err)

	// Creation instants are strictly increasing even when the clock is
	// coarser than two back-to-back inserts.
	assert.True(t, second.CreatedAt.After(first.CreatedAt))

	fb, err := svc.Feedback(ctx, acmeMember, "acme", "backend-engineer", "jane-doe.pdf")
	assert.NoError(t, err)
	if assert.Len(t, fb.Notes, 2) {
		assert.Equal(t, "schedule interview", fb.Notes[0].Text)
		assert.Equal(t, "strong portfolio", fb.Notes[1].Text)
	}
	assert.Equal(t, []string{events.KindNote, events.KindNote}, eventSvc.kinds())
}

func TestAddNoteBumpsAtStoreResolution(t *testing.T) {
	store, _, svc := newFeedbackFixture(t)

	// A newest note dated in the future forces the bump path; the new
	// key must land exactly one microsecond later, the finest step the
	// timestamp column keeps.
	head := time.Now().Add(time.Hour).Truncate(time.Microsecond)
	store.notes = append(store.notes, &entity.Note{
		Id:           uuid.New(),
		ClientName:   "acme",
		PositionName: "backend-engineer",
		Filename:     "jane-doe.pdf",
		Text:         "from the future",
		AuthorEmail:  acmeMember.Email,
		CreatedAt:    head,
	})

	note, err := svc.AddNote(context.Background(), acmeMember, dto.AddNoteRequest{
		ClientName: "acme", PositionName: "backend-engineer", Filename: "jane-doe.pdf",
		Text: "right after",
	})
	assert.NoError(t, err)
	assert.Equal(t, head.Add(time.Microsecond), note.CreatedAt)
}

func TestSetDecisionConcurrentTogglesSerialize(t *testing.T) {
	store, _, svc := newFeedbackFixture(t)
	ctx := context.Background()

	// Two identical toggles racing must land as two transitions in some
	// order: the first picks yes, the second un-picks it. Any lost
	// update would leave the file at yes.
	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.SetDecision(ctx, acmeMember, decisionReq(entity.DecisionYes))
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, entity.DecisionNeutral, store.files[0].Decision)
}

func TestAddNoteRejectsBlankText(t *testing.T) {
	_, _, svc := newFeedbackFixture(t)

	_, err := svc.AddNote(context.Background(), acmeMember, dto.AddNoteRequest{
		ClientName: "acme", PositionName: "backend-engineer", Filename: "jane-doe.pdf",
		Text: "   ",
	})
	assert.True(t, apperr.IsKind(err, apperr.KindInvalidArgument))
}

func TestDeleteNoteOnlyAuthorOrAdmin(t *testing.T) {
	_, _, svc := newFeedbackFixture(t)
	ctx := context.Background()

	note, err := svc.AddNote(ctx, acmeMember, dto.AddNoteRequest{
		ClientName: "acme", PositionName: "backend-engineer", Filename: "jane-doe.pdf",
		Text: "call back monday",
	})
	assert.NoError(t, err)

	colleague := entity.Principal{Email: "sam@acme.com", Role: entity.RoleClient, ClientID: "acme"}
	err = svc.DeleteNote(ctx, colleague, "acme", "backend-engineer", "jane-doe.pdf", note.CreatedAt)
	assert.True(t, apperr.IsKind(err, apperr.KindForbidden))

	err = svc.DeleteNote(ctx, acmeAdmin, "acme", "backend-engineer", "jane-doe.pdf", note.CreatedAt)
	assert.NoError(t, err)

	fb, err := svc.Feedback(ctx, acmeMember, "acme", "backend-engineer", "jane-doe.pdf")
	assert.NoError(t, err)
	assert.Empty(t, fb.Notes)
}

func TestDeleteNoteUnknownTimestampIsNoOp(t *testing.T) {
	_, _, svc := newFeedbackFixture(t)

	err := svc.DeleteNote(context.Background(), acmeMember,
		"acme", "backend-engineer", "jane-doe.pdf", time.Unix(0, 12345))
	assert.NoError(t, err)
}

func TestFeedbackMissingFile(t *testing.T) {
	_, _, svc := newFeedbackFixture(t)

	_, err := svc.Feedback(context.Background(), acmeMember, "acme", "backend-engineer", "ghost.pdf")
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
}
