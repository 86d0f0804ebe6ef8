package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GauravB09/Diligence-Squared-Assignment/config"
	"github.com/GauravB09/Diligence-Squared-Assignment/internal/model"
	"github.com/GauravB09/Diligence-Squared-Assignment/internal/segment"
	"github.com/GauravB09/Diligence-Squared-Assignment/internal/service"
)

// stubRepo is a minimal in-memory session store
type stubRepo struct {
	sessions map[string]*model.UserSession
}

func newStubRepo() *stubRepo {
	return &stubRepo{sessions: make(map[string]*model.UserSession)}
}

func (r *stubRepo) GetByUserID(_ context.Context, userID string) (*model.UserSession, error) {
	return r.sessions[userID], nil
}

func (r *stubRepo) UpsertSurveyResult(_ context.Context, session *model.UserSession) error {
	r.sessions[session.UserID] = session
	return nil
}

func (r *stubRepo) SetConversationID(_ context.Context, userID, conversationID string) error {
	if s, ok := r.sessions[userID]; ok {
		s.ConversationID = conversationID
	}
	return nil
}

func (r *stubRepo) SetTranscript(_ context.Context, userID, transcript string) error {
	if s, ok := r.sessions[userID]; ok {
		s.Transcript = transcript
	}
	return nil
}

func (r *stubRepo) List(_ context.Context, limit, offset int64) ([]*model.UserSession, error) {
	out := make([]*model.UserSession, 0, len(r.sessions))
	for _, s := range r.sessions {
		out = append(out, s)
	}
	return out, nil
}

type stubCache struct{}

func (stubCache) Set(context.Context, *model.UserSession) error            { return nil }
func (stubCache) Get(context.Context, string) (*model.UserSession, error) { return nil, nil }
func (stubCache) Delete(context.Context, string) error                    { return nil }

type stubClient struct{}

func (stubClient) GetConversation(_ context.Context, id string) (*service.Conversation, error) {
	return &service.Conversation{ConversationID: id}, nil
}
func (stubClient) IsConfigured() bool { return true }

func testResolver() *segment.Resolver {
	return segment.NewResolver(&model.SurveyConfig{
		Questions: map[string]model.QuestionConfig{
			"owns_car": {PartialTitle: "own a car", Type: model.QuestionTypeChoice},
		},
		Segmentation: model.Segmentation{
			Rules: []model.SegmentRule{
				{
					Conditions: map[string]model.Condition{
						"owns_car": {Operator: model.OperatorIn, Values: []string{"Yes"}},
					},
					Segment: "Customer",
					Status:  "completed",
				},
			},
			DefaultSegment: "Terminated",
			DefaultStatus:  "terminated",
		},
	})
}

func TestWebhookHandler_Receive(t *testing.T) {
	repo := newStubRepo()
	h := NewWebhookHandler(service.NewWebhookService(testResolver(), repo, stubCache{}))

	payload := map[string]interface{}{
		"event_id":   "evt_1",
		"event_type": "form_response",
		"form_response": map[string]interface{}{
			"hidden": map[string]string{"user_id": "user-1"},
			"definition": map[string]interface{}{
				"fields": []map[string]string{{"id": "f1", "title": "Do you currently own a car?"}},
			},
			"answers": []map[string]interface{}{
				{"field": map[string]string{"id": "f1"}, "type": "choice", "choice": map[string]string{"label": "Yes"}},
			},
		},
	}
	body, _ := json.Marshal(payload)

	req := httptest.NewRequest(http.MethodPost, "/webhook", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	h.Receive(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "success", resp["status"])
	assert.Equal(t, "Customer", repo.sessions["user-1"].Segment)
}

func TestWebhookHandler_Receive_BadJSON(t *testing.T) {
	h := NewWebhookHandler(service.NewWebhookService(testResolver(), newStubRepo(), stubCache{}))

	req := httptest.NewRequest(http.MethodPost, "/webhook", bytes.NewReader([]byte("{broken")))
	rec := httptest.NewRecorder()
	h.Receive(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestWebhookHandler_Receive_IgnoredWithoutUserID(t *testing.T) {
	h := NewWebhookHandler(service.NewWebhookService(testResolver(), newStubRepo(), stubCache{}))

	req := httptest.NewRequest(http.MethodPost, "/webhook",
		bytes.NewReader([]byte(`{"event_id":"e","form_response":{}}`)))
	rec := httptest.NewRecorder()
	h.Receive(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, "acknowledged so Typeform does not retry")

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "ignored", resp["status"])
	assert.Equal(t, "invalid_user_id", resp["reason"])
}

func interviewRouter(repo *stubRepo) http.Handler {
	svc := service.NewInterviewService(repo, stubCache{}, stubClient{})
	h := NewInterviewHandler(svc)

	r := mux.NewRouter()
	r.HandleFunc("/api/interview/start", h.Start).Methods("POST")
	r.HandleFunc("/api/interview/session/{userID}", h.GetSession).Methods("GET")
	r.HandleFunc("/api/interview/complete/{userID}", h.Complete).Methods("POST")
	r.HandleFunc("/api/interview/update-id", h.UpdateConversationID).Methods("POST")
	r.HandleFunc("/api/interview/check-completion/{userID}", h.CheckCompletion).Methods("GET")
	return r
}

func TestInterviewHandler_Start(t *testing.T) {
	repo := newStubRepo()
	repo.sessions["user-1"] = &model.UserSession{UserID: "user-1", Segment: "Customer", SurveyStatus: model.StatusCompleted}
	router := interviewRouter(repo)

	req := httptest.NewRequest(http.MethodPost, "/api/interview/start",
		bytes.NewReader([]byte(`{"user_id":"user-1"}`)))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp["conversation_id"])
	assert.Equal(t, "success", resp["status"])
}

func TestInterviewHandler_Start_MissingUserID(t *testing.T) {
	router := interviewRouter(newStubRepo())

	req := httptest.NewRequest(http.MethodPost, "/api/interview/start",
		bytes.NewReader([]byte(`{}`)))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestInterviewHandler_ErrorMapping(t *testing.T) {
	router := interviewRouter(newStubRepo())

	t.Run("unknown session is 404", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/interview/session/nobody", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("complete without conversation is 404", func(t *testing.T) {
		repo := newStubRepo()
		repo.sessions["user-1"] = &model.UserSession{UserID: "user-1"}
		r := interviewRouter(repo)

		req := httptest.NewRequest(http.MethodPost, "/api/interview/complete/user-1", nil)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestInterviewHandler_CheckCompletion(t *testing.T) {
	repo := newStubRepo()
	repo.sessions["user-1"] = &model.UserSession{
		UserID:     "user-1",
		Transcript: "[AGENT]: That concludes our interview.",
	}
	router := interviewRouter(repo)

	req := httptest.NewRequest(http.MethodGet, "/api/interview/check-completion/user-1", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		IsComplete    bool `json:"is_complete"`
		HasTranscript bool `json:"has_transcript"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.IsComplete)
	assert.True(t, resp.HasTranscript)
}

func TestAuthHandler_Login(t *testing.T) {
	authSvc := service.NewAuthService(&config.Config{
		AdminUsername: "admin",
		AdminPassword: "secret",
		JWTSecret:     "test-secret",
	})
	h := NewAuthHandler(authSvc)

	t.Run("valid credentials", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/v1/auth/login",
			bytes.NewReader([]byte(`{"username":"admin","password":"secret"}`)))
		rec := httptest.NewRecorder()
		h.Login(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)

		var resp model.LoginResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.NotEmpty(t, resp.Token)
	})

	t.Run("bad credentials", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/v1/auth/login",
			bytes.NewReader([]byte(`{"username":"admin","password":"nope"}`)))
		rec := httptest.NewRecorder()
		h.Login(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("blank credentials rejected before login", func(t *testing.T) {
		for _, body := range []string{`{}`, `{"username":"admin"}`, `{"password":"secret"}`} {
			req := httptest.NewRequest(http.MethodPost, "/v1/auth/login",
				bytes.NewReader([]byte(body)))
			rec := httptest.NewRecorder()
			h.Login(rec, req)

			assert.Equal(t, http.StatusBadRequest, rec.Code, "body %s", body)
		}
	})
}

func TestSessionHandler_List(t *testing.T) {
	repo := newStubRepo()
	repo.sessions["user-1"] = &model.UserSession{UserID: "user-1", Segment: "Customer"}
	repo.sessions["user-2"] = &model.UserSession{UserID: "user-2", Segment: "Terminated"}

	h := NewSessionHandler(repo)

	req := httptest.NewRequest(http.MethodGet, "/v1/sessions", nil)
	rec := httptest.NewRecorder()
	h.List(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Sessions []model.UserSession `json:"sessions"`
		Count    int                 `json:"count"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.Count)
	assert.Len(t, resp.Sessions, 2)
}
