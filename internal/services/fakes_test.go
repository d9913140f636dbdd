package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/strideworks/stride-backend/internal/llm"
	"github.com/strideworks/stride-backend/internal/logger"
	"github.com/strideworks/stride-backend/internal/realtime"
	"github.com/strideworks/stride-backend/internal/types"
	"gorm.io/gorm"
)

func testLogger(tb testing.TB) *logger.Logger {
	tb.Helper()
	log, err := logger.New("test")
	if err != nil {
		tb.Fatalf("failed to init logger: %v", err)
	}
	return log
}

// memProjectRepo and friends back the services with plain maps so resolution
// and streaming behavior can be exercised without a database.

type memProjectRepo struct {
	projects map[uuid.UUID]*types.Project
}

func newMemProjectRepo() *memProjectRepo {
	return &memProjectRepo{projects: map[uuid.UUID]*types.Project{}}
}

func (r *memProjectRepo) Create(ctx context.Context, tx *gorm.DB, projects []*types.Project) ([]*types.Project, error) {
	for _, p := range projects {
		if p.ID == uuid.Nil {
			p.ID = uuid.New()
		}
		r.projects[p.ID] = p
	}
	return projects, nil
}

func (r *memProjectRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Project, error) {
	return r.projects[id], nil
}

func (r *memProjectRepo) ListByOwner(ctx context.Context, tx *gorm.DB, ownerUserID uuid.UUID) ([]*types.Project, error) {
	var out []*types.Project
	for _, p := range r.projects {
		if ownerUserID == uuid.Nil && p.OwnerUserID == nil {
			out = append(out, p)
		} else if p.OwnerUserID != nil && *p.OwnerUserID == ownerUserID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *memProjectRepo) Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	delete(r.projects, id)
	return nil
}

type memGoalListRepo struct {
	lists map[uuid.UUID]*types.GoalList
}

func newMemGoalListRepo() *memGoalListRepo {
	return &memGoalListRepo{lists: map[uuid.UUID]*types.GoalList{}}
}

func (r *memGoalListRepo) Create(ctx context.Context, tx *gorm.DB, lists []*types.GoalList) ([]*types.GoalList, error) {
	for _, l := range lists {
		if l.ID == uuid.Nil {
			l.ID = uuid.New()
		}
		r.lists[l.ID] = l
	}
	return lists, nil
}

func (r *memGoalListRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.GoalList, error) {
	return r.lists[id], nil
}

func (r *memGoalListRepo) ListByProject(ctx context.Context, tx *gorm.DB, projectID uuid.UUID) ([]*types.GoalList, error) {
	var out []*types.GoalList
	for _, l := range r.lists {
		if l.ProjectID == projectID {
			out = append(out, l)
		}
	}
	return out, nil
}

func (r *memGoalListRepo) Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	delete(r.lists, id)
	return nil
}

type memLabListRepo struct {
	lists map[uuid.UUID]*types.LabList
}

func newMemLabListRepo() *memLabListRepo {
	return &memLabListRepo{lists: map[uuid.UUID]*types.LabList{}}
}

func (r *memLabListRepo) Create(ctx context.Context, tx *gorm.DB, lists []*types.LabList) ([]*types.LabList, error) {
	for _, l := range lists {
		if l.ID == uuid.Nil {
			l.ID = uuid.New()
		}
		r.lists[l.ID] = l
	}
	return lists, nil
}

func (r *memLabListRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.LabList, error) {
	return r.lists[id], nil
}

func (r *memLabListRepo) ListByProject(ctx context.Context, tx *gorm.DB, projectID uuid.UUID) ([]*types.LabList, error) {
	var out []*types.LabList
	for _, l := range r.lists {
		if l.ProjectID == projectID {
			out = append(out, l)
		}
	}
	return out, nil
}

func (r *memLabListRepo) Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	delete(r.lists, id)
	return nil
}

type memDeliverableRepo struct {
	deliverables map[uuid.UUID]*types.Deliverable
}

func newMemDeliverableRepo() *memDeliverableRepo {
	return &memDeliverableRepo{deliverables: map[uuid.UUID]*types.Deliverable{}}
}

func (r *memDeliverableRepo) Create(ctx context.Context, tx *gorm.DB, deliverables []*types.Deliverable) ([]*types.Deliverable, error) {
	for _, d := range deliverables {
		if d.ID == uuid.Nil {
			d.ID = uuid.New()
		}
		r.deliverables[d.ID] = d
	}
	return deliverables, nil
}

func (r *memDeliverableRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Deliverable, error) {
	return r.deliverables[id], nil
}

func (r *memDeliverableRepo) ListByProject(ctx context.Context, tx *gorm.DB, projectID uuid.UUID) ([]*types.Deliverable, error) {
	var out []*types.Deliverable
	for _, d := range r.deliverables {
		if d.ProjectID == projectID {
			out = append(out, d)
		}
	}
	return out, nil
}

func (r *memDeliverableRepo) UpdateStatus(ctx context.Context, tx *gorm.DB, id uuid.UUID, status string) error {
	if d, ok := r.deliverables[id]; ok {
		d.Status = status
	}
	return nil
}

func (r *memDeliverableRepo) Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	delete(r.deliverables, id)
	return nil
}

type memCoreQueryRepo struct {
	byLocation map[types.NodeKind]*types.CoreQuery
}

func newMemCoreQueryRepo() *memCoreQueryRepo {
	return &memCoreQueryRepo{byLocation: map[types.NodeKind]*types.CoreQuery{}}
}

func (r *memCoreQueryRepo) GetByLocation(ctx context.Context, tx *gorm.DB, location types.NodeKind) (*types.CoreQuery, error) {
	return r.byLocation[location], nil
}

func (r *memCoreQueryRepo) ListAll(ctx context.Context, tx *gorm.DB) ([]*types.CoreQuery, error) {
	var out []*types.CoreQuery
	for _, cq := range r.byLocation {
		out = append(out, cq)
	}
	return out, nil
}

func (r *memCoreQueryRepo) Upsert(ctx context.Context, tx *gorm.DB, location types.NodeKind, query string) (*types.CoreQuery, error) {
	cq, ok := r.byLocation[location]
	if !ok {
		cq = &types.CoreQuery{ID: uuid.New(), Location: location}
		r.byLocation[location] = cq
	}
	cq.Query = query
	return cq, nil
}

// memChatRepo assigns seq per thread the way the real repo's insert does, and
// can be told to fail the next append of a given role.
type memChatRepo struct {
	messages      []*types.ChatMessage
	failNextRoles map[string]error
}

func newMemChatRepo() *memChatRepo {
	return &memChatRepo{failNextRoles: map[string]error{}}
}

func (r *memChatRepo) failNextAppend(role string, err error) {
	r.failNextRoles[role] = err
}

func (r *memChatRepo) Append(ctx context.Context, tx *gorm.DB, parentID uuid.UUID, parentType types.NodeKind, role, content string, extractable bool) (*types.ChatMessage, error) {
	if err, ok := r.failNextRoles[role]; ok {
		delete(r.failNextRoles, role)
		return nil, err
	}
	var maxSeq int64
	for _, m := range r.messages {
		if m.ParentID == parentID && m.ParentType == parentType && m.Seq > maxSeq {
			maxSeq = m.Seq
		}
	}
	msg := &types.ChatMessage{
		ID:          uuid.New(),
		ParentID:    parentID,
		ParentType:  parentType,
		Role:        role,
		Content:     content,
		Extractable: extractable,
		Seq:         maxSeq + 1,
		CreatedAt:   time.Now().UTC(),
		UpdatedAt:   time.Now().UTC(),
	}
	r.messages = append(r.messages, msg)
	return msg, nil
}

func (r *memChatRepo) ListOrdered(ctx context.Context, tx *gorm.DB, parentID uuid.UUID, parentType types.NodeKind) ([]*types.ChatMessage, error) {
	var out []*types.ChatMessage
	for _, m := range r.messages {
		if m.ParentID == parentID && m.ParentType == parentType {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *memChatRepo) CountByParent(ctx context.Context, tx *gorm.DB, parentID uuid.UUID, parentType types.NodeKind) (int64, error) {
	msgs, _ := r.ListOrdered(ctx, tx, parentID, parentType)
	return int64(len(msgs)), nil
}

func (r *memChatRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.ChatMessage, error) {
	for _, m := range r.messages {
		if m.ID == id {
			return m, nil
		}
	}
	return nil, nil
}

func (r *memChatRepo) MarkSaved(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	for _, m := range r.messages {
		if m.ID == id {
			m.Saved = true
			return nil
		}
	}
	return nil
}

// scriptedProvider replays a fixed fragment sequence, then returns err.
type scriptedProvider struct {
	fragments []string
	err       error
	calls     int
	received  [][]llm.Message
}

func (p *scriptedProvider) Name() string { return "scripted" }

func (p *scriptedProvider) StreamCompletion(ctx context.Context, messages []llm.Message, onDelta func(string) error) error {
	p.calls++
	p.received = append(p.received, messages)
	for _, f := range p.fragments {
		if err := onDelta(f); err != nil {
			return err
		}
	}
	return p.err
}

// recordingEmitter captures emitted frames; tokenErrAfter simulates a client
// disconnect partway through.
type recordingEmitter struct {
	tokens        []string
	dones         []string
	errs          []string
	tokenErrAfter int
}

var errClientGone = errors.New("client gone")

func (e *recordingEmitter) Token(text string) error {
	if e.tokenErrAfter > 0 && len(e.tokens) >= e.tokenErrAfter {
		return errClientGone
	}
	e.tokens = append(e.tokens, text)
	return nil
}

func (e *recordingEmitter) Done(userMessageID, aiMessageID string) error {
	e.dones = append(e.dones, userMessageID+"|"+aiMessageID)
	return nil
}

func (e *recordingEmitter) Error(message string) error {
	e.errs = append(e.errs, message)
	return nil
}

func (e *recordingEmitter) terminalCount() int { return len(e.dones) + len(e.errs) }

// recordingBus captures published chat lifecycle events.
type recordingBus struct {
	events []realtime.Event
}

func (b *recordingBus) Publish(ctx context.Context, msg realtime.Event) error {
	b.events = append(b.events, msg)
	return nil
}

func (b *recordingBus) StartForwarder(ctx context.Context, onMsg func(m realtime.Event)) error {
	return nil
}

func (b *recordingBus) Close() error { return nil }
