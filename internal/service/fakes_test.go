package service

import (
	"context"
	"sort"
	"sync"

	"github.com/GauravB09/Diligence-Squared-Assignment/internal/model"
)

// fakeRepo is an in-memory SessionRepo
type fakeRepo struct {
	mu       sync.Mutex
	sessions map[string]*model.UserSession
	err      error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{sessions: make(map[string]*model.UserSession)}
}

func (r *fakeRepo) GetByUserID(_ context.Context, userID string) (*model.UserSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	s, ok := r.sessions[userID]
	if !ok {
		return nil, nil
	}
	copied := *s
	return &copied, nil
}

func (r *fakeRepo) UpsertSurveyResult(_ context.Context, session *model.UserSession) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	existing, ok := r.sessions[session.UserID]
	if !ok {
		copied := *session
		r.sessions[session.UserID] = &copied
		return nil
	}
	existing.SurveyStatus = session.SurveyStatus
	existing.Segment = session.Segment
	existing.FormID = session.FormID
	existing.FormToken = session.FormToken
	existing.EventID = session.EventID
	existing.SubmittedAt = session.SubmittedAt
	return nil
}

func (r *fakeRepo) SetConversationID(_ context.Context, userID, conversationID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	if s, ok := r.sessions[userID]; ok {
		s.ConversationID = conversationID
	}
	return nil
}

func (r *fakeRepo) SetTranscript(_ context.Context, userID, transcript string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	if s, ok := r.sessions[userID]; ok {
		s.Transcript = transcript
	}
	return nil
}

func (r *fakeRepo) List(_ context.Context, limit, offset int64) ([]*model.UserSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	out := make([]*model.UserSession, 0, len(r.sessions))
	for _, s := range r.sessions {
		copied := *s
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UserID < out[j].UserID })
	if offset >= int64(len(out)) {
		return nil, nil
	}
	out = out[offset:]
	if limit > 0 && int64(len(out)) > limit {
		out = out[:limit]
	}
	return out, nil
}

// fakeCache is an in-memory SessionCache
type fakeCache struct {
	mu      sync.Mutex
	entries map[string]*model.UserSession
	deletes []string
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: make(map[string]*model.UserSession)}
}

func (c *fakeCache) Set(_ context.Context, session *model.UserSession) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	copied := *session
	c.entries[session.UserID] = &copied
	return nil
}

func (c *fakeCache) Get(_ context.Context, userID string) (*model.UserSession, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	s, ok := c.entries[userID]
	if !ok {
		return nil, nil
	}
	copied := *s
	return &copied, nil
}

func (c *fakeCache) Delete(_ context.Context, userID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, userID)
	c.deletes = append(c.deletes, userID)
	return nil
}

// fakeConversationClient serves canned conversations
type fakeConversationClient struct {
	configured    bool
	conversations map[string]*Conversation
	err           error
}

func (c *fakeConversationClient) GetConversation(_ context.Context, conversationID string) (*Conversation, error) {
	if c.err != nil {
		return nil, c.err
	}
	if conv, ok := c.conversations[conversationID]; ok {
		return conv, nil
	}
	return &Conversation{ConversationID: conversationID}, nil
}

func (c *fakeConversationClient) IsConfigured() bool {
	return c.configured
}

// recordingBroadcaster captures broadcast events
type recordingBroadcaster struct {
	mu     sync.Mutex
	events []broadcastEvent
}

type broadcastEvent struct {
	userID  string
	event   string
	payload interface{}
}

func (b *recordingBroadcaster) BroadcastSessionEvent(userID string, event string, payload interface{}) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, broadcastEvent{userID: userID, event: event, payload: payload})
}

func (b *recordingBroadcaster) eventNames() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	names := make([]string, 0, len(b.events))
	for _, e := range b.events {
		names = append(names, e.event)
	}
	return names
}
