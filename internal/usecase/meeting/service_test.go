package meeting

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"

	"github.com/summario-team/summario-api/errors"
	"github.com/summario-team/summario-api/internal/domain/entities"
	"github.com/summario-team/summario-api/internal/infrastructure/external/skribby"
	"github.com/summario-team/summario-api/pkg/config"
)

type fakeMeetingRepo struct {
	mu       sync.Mutex
	meetings map[uuid.UUID]*entities.Meeting
}

func newFakeMeetingRepo() *fakeMeetingRepo {
	return &fakeMeetingRepo{meetings: make(map[uuid.UUID]*entities.Meeting)}
}

func (f *fakeMeetingRepo) Create(_ context.Context, m *entities.Meeting) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	copied := *m
	f.meetings[m.ID] = &copied
	return nil
}

func (f *fakeMeetingRepo) FindByID(_ context.Context, id uuid.UUID) (*entities.Meeting, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if m, ok := f.meetings[id]; ok {
		copied := *m
		return &copied, nil
	}
	return nil, nil
}

func (f *fakeMeetingRepo) FindByBotID(_ context.Context, botID string) (*entities.Meeting, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, m := range f.meetings {
		if m.BotID != nil && *m.BotID == botID {
			copied := *m
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakeMeetingRepo) FindByUserID(_ context.Context, userID uuid.UUID, limit, offset int) ([]*entities.Meeting, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*entities.Meeting
	for _, m := range f.meetings {
		if m.UserID == userID {
			copied := *m
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (f *fakeMeetingRepo) Update(_ context.Context, m *entities.Meeting) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	copied := *m
	f.meetings[m.ID] = &copied
	return nil
}

func (f *fakeMeetingRepo) UpdateStatus(_ context.Context, id uuid.UUID, status entities.MeetingStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if m, ok := f.meetings[id]; ok {
		m.Status = status
	}
	return nil
}

func (f *fakeMeetingRepo) UpdateFields(_ context.Context, id uuid.UUID, fields map[string]interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	m, ok := f.meetings[id]
	if !ok {
		return nil
	}
	for key, value := range fields {
		switch key {
		case "status":
			m.Status = value.(entities.MeetingStatus)
		case "error_message":
			msg := value.(string)
			m.ErrorMessage = &msg
		case "raw_transcript":
			m.RawTranscript = value.(datatypes.JSON)
		case "participants":
			m.Participants = value.(datatypes.JSON)
		case "structured_protocol":
			m.StructuredProtocol = value.(datatypes.JSON)
		case "agenda_topics":
			m.AgendaTopics = value.(datatypes.JSON)
		case "access_level":
			m.AccessLevel = value.(entities.AccessLevel)
		}
	}
	return nil
}

func (f *fakeMeetingRepo) get(id uuid.UUID) *entities.Meeting {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.meetings[id]
}

func (f *fakeMeetingRepo) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.meetings)
}

type fakeQueue struct {
	mu       sync.Mutex
	enqueued []uuid.UUID
	full     bool
}

func (q *fakeQueue) Enqueue(id uuid.UUID) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.full {
		return false
	}
	q.enqueued = append(q.enqueued, id)
	return true
}

func (q *fakeQueue) count() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.enqueued)
}

func newTestService(botServerURL string) (Service, *fakeMeetingRepo, *fakeQueue) {
	repo := newFakeMeetingRepo()
	queue := &fakeQueue{}
	cfg := &config.Config{
		Server:  config.ServerConfig{PublicBaseURL: "http://localhost:8080"},
		Skribby: config.SkribbyConfig{APIKey: "test-key", BaseURL: botServerURL, BotName: "Summario Bot"},
	}
	svc := NewService(repo, skribby.NewClient(&cfg.Skribby), queue, cfg, zap.NewNop())
	return svc, repo, queue
}

func appErrorCode(t *testing.T, err error) errors.ErrorCode {
	t.Helper()
	appErr, ok := err.(errors.AppError)
	if !ok {
		t.Fatalf("expected AppError, got %T: %v", err, err)
	}
	return appErr.Code
}

func TestCreate_HappyPath(t *testing.T) {
	var dispatched map[string]interface{}
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&dispatched); err != nil {
			t.Fatalf("invalid dispatch payload: %v", err)
		}
		json.NewEncoder(w).Encode(map[string]string{"id": "bot-77"})
	}))
	defer ts.Close()

	svc, repo, _ := newTestService(ts.URL)
	userID := uuid.New()

	meeting, err := svc.Create(context.Background(), userID, CreateInput{
		MeetingName:     "Weekly sync",
		MeetingURL:      "https://meet.google.com/abc-defg-hij",
		AgendaTopics:    []AgendaItemInput{{Topic: "Roadmap"}},
		StartTimeOption: "now",
		Language:        "en",
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if dispatched["transcription_model"] != "deepgram-v3" {
		t.Fatalf("diarization default should pick deepgram, got %v", dispatched["transcription_model"])
	}
	if dispatched["service"] != "gmeet" {
		t.Fatalf("unexpected service %v", dispatched["service"])
	}
	if dispatched["lang"] != "en-US" {
		t.Fatalf("unexpected lang %v", dispatched["lang"])
	}
	if msg, _ := dispatched["initial_chat_message"].(string); msg == "" {
		t.Fatalf("consent message should be sent by default")
	}
	if _, present := dispatched["scheduled_start_time"]; present {
		t.Fatalf("immediate start must not carry a scheduled time")
	}

	if meeting.Status != entities.StatusInitialized {
		t.Fatalf("unexpected status %s", meeting.Status)
	}
	if meeting.BotID == nil || *meeting.BotID != "bot-77" {
		t.Fatalf("tracking id not stored")
	}
	topics, err := meeting.AgendaItems()
	if err != nil || len(topics) != 1 || topics[0].ID != "0" {
		t.Fatalf("agenda ids should be index-based, got %+v (%v)", topics, err)
	}
	if stored := repo.get(meeting.ID); stored == nil {
		t.Fatalf("meeting not persisted")
	}
}

func TestCreate_Scheduled(t *testing.T) {
	var dispatched map[string]interface{}
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&dispatched)
		json.NewEncoder(w).Encode(map[string]string{"id": "bot-78"})
	}))
	defer ts.Close()

	svc, _, _ := newTestService(ts.URL)
	start := time.Now().Add(2 * time.Hour).UTC().Truncate(time.Second)

	meeting, err := svc.Create(context.Background(), uuid.New(), CreateInput{
		MeetingName:            "Planning",
		MeetingURL:             "https://zoom.us/j/1234",
		AgendaTopics:           []AgendaItemInput{{Topic: "Q4"}},
		StartTimeOption:        "scheduled",
		ScheduledStartDatetime: start.Format(time.RFC3339),
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if meeting.Status != entities.StatusScheduled {
		t.Fatalf("unexpected status %s", meeting.Status)
	}
	if ts, ok := dispatched["scheduled_start_time"].(float64); !ok || int64(ts) != start.Unix() {
		t.Fatalf("unexpected scheduled_start_time %v, want %d", dispatched["scheduled_start_time"], start.Unix())
	}
	if meeting.ScheduledStartAt == nil || !meeting.ScheduledStartAt.Equal(start) {
		t.Fatalf("scheduled start not stored")
	}
}

func TestCreate_ScheduledInPast(t *testing.T) {
	svc, repo, _ := newTestService("http://unused.invalid")

	_, err := svc.Create(context.Background(), uuid.New(), CreateInput{
		MeetingName:            "Too late",
		MeetingURL:             "https://zoom.us/j/1234",
		AgendaTopics:           []AgendaItemInput{{Topic: "Q4"}},
		StartTimeOption:        "scheduled",
		ScheduledStartDatetime: time.Now().Add(-time.Hour).Format(time.RFC3339),
	})
	if appErrorCode(t, err) != errors.ErrorCode_INVALID_ARGUMENT {
		t.Fatalf("expected invalid argument, got %v", err)
	}
	if repo.count() != 0 {
		t.Fatalf("nothing should be persisted")
	}
}

func TestCreate_DispatchFailureLeavesNoOrphan(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(521)
	}))
	defer ts.Close()

	svc, repo, _ := newTestService(ts.URL)
	_, err := svc.Create(context.Background(), uuid.New(), CreateInput{
		MeetingName:     "Sync",
		MeetingURL:      "https://meet.google.com/xyz",
		AgendaTopics:    []AgendaItemInput{{Topic: "Any"}},
		StartTimeOption: "now",
	})
	if appErrorCode(t, err) != errors.ErrorCode_BOT_PLATFORM_UNAVAILABLE {
		t.Fatalf("expected platform-unavailable, got %v", err)
	}
	if repo.count() != 0 {
		t.Fatalf("failed dispatch must not persist a meeting")
	}
}

func TestCreate_AuthFailureClassified(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer ts.Close()

	svc, _, _ := newTestService(ts.URL)
	_, err := svc.Create(context.Background(), uuid.New(), CreateInput{
		MeetingName:     "Sync",
		MeetingURL:      "https://meet.google.com/xyz",
		AgendaTopics:    []AgendaItemInput{{Topic: "Any"}},
		StartTimeOption: "now",
	})
	if appErrorCode(t, err) != errors.ErrorCode_BOT_PLATFORM_AUTH_FAILED {
		t.Fatalf("expected auth-failed, got %v", err)
	}
}

func TestCreate_UnsupportedURLNeverDispatches(t *testing.T) {
	called := false
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer ts.Close()

	svc, _, _ := newTestService(ts.URL)
	_, err := svc.Create(context.Background(), uuid.New(), CreateInput{
		MeetingName:     "Sync",
		MeetingURL:      "https://example.com/call",
		AgendaTopics:    []AgendaItemInput{{Topic: "Any"}},
		StartTimeOption: "now",
	})
	if appErrorCode(t, err) != errors.ErrorCode_UNSUPPORTED_MEETING_URL {
		t.Fatalf("expected unsupported-url, got %v", err)
	}
	if called {
		t.Fatalf("unsupported url must fail before dispatch")
	}
}

func seedMeeting(repo *fakeMeetingRepo, userID uuid.UUID, status entities.MeetingStatus, botID string) *entities.Meeting {
	m := entities.NewMeeting(userID, botID)
	m.MeetingName = "Seeded"
	m.MeetingURL = "https://meet.google.com/seed"
	m.Status = status
	repo.Create(context.Background(), m)
	return m
}

func TestStopBot(t *testing.T) {
	stopCalled := false
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		stopCalled = true
	}))
	defer ts.Close()

	svc, repo, _ := newTestService(ts.URL)
	userID := uuid.New()
	m := seedMeeting(repo, userID, entities.StatusRecording, "bot-1")

	updated, err := svc.StopBot(context.Background(), userID, m.ID)
	if err != nil {
		t.Fatalf("stop failed: %v", err)
	}
	if !stopCalled {
		t.Fatalf("platform stop not called")
	}
	if updated.Status != entities.StatusProcessing {
		t.Fatalf("expected optimistic PROCESSING, got %s", updated.Status)
	}
	if repo.get(m.ID).Status != entities.StatusProcessing {
		t.Fatalf("status not persisted")
	}
}

func TestStopBot_InactiveState(t *testing.T) {
	svc, repo, _ := newTestService("http://unused.invalid")
	userID := uuid.New()
	m := seedMeeting(repo, userID, entities.StatusDone, "bot-1")

	_, err := svc.StopBot(context.Background(), userID, m.ID)
	if appErrorCode(t, err) != errors.ErrorCode_MEETING_INVALID_STATE {
		t.Fatalf("expected invalid state, got %v", err)
	}
}

func TestStopBot_PlatformRejection(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
	}))
	defer ts.Close()

	svc, repo, _ := newTestService(ts.URL)
	userID := uuid.New()
	m := seedMeeting(repo, userID, entities.StatusRecording, "bot-1")

	_, err := svc.StopBot(context.Background(), userID, m.ID)
	if appErrorCode(t, err) != errors.ErrorCode_BOT_STOP_REJECTED {
		t.Fatalf("expected stop-rejected, got %v", err)
	}
	if repo.get(m.ID).Status != entities.StatusRecording {
		t.Fatalf("rejected stop must not advance status")
	}
}

func TestStopBot_NotOwner(t *testing.T) {
	svc, repo, _ := newTestService("http://unused.invalid")
	m := seedMeeting(repo, uuid.New(), entities.StatusRecording, "bot-1")

	_, err := svc.StopBot(context.Background(), uuid.New(), m.ID)
	if appErrorCode(t, err) != errors.ErrorCode_PERMISSION_DENIED {
		t.Fatalf("non-owner mutation should be forbidden, got %v", err)
	}
	if repo.get(m.ID).Status != entities.StatusRecording {
		t.Fatalf("non-owner stop must not touch the row")
	}
}

// Mutations by non-owners are forbidden across the board; reads of an
// existing private meeting stay not-found so the id leaks nothing.
func TestMutations_NotOwnerForbidden(t *testing.T) {
	svc, repo, _ := newTestService("http://unused.invalid")
	m := seedMeeting(repo, uuid.New(), entities.StatusSummarized, "bot-1")
	stranger := uuid.New()

	if _, err := svc.Approve(context.Background(), stranger, m.ID, "minutes"); appErrorCode(t, err) != errors.ErrorCode_PERMISSION_DENIED {
		t.Fatalf("approve by non-owner should be forbidden, got %v", err)
	}
	if _, err := svc.UpdateAgenda(context.Background(), stranger, m.ID, []AgendaItemInput{{Topic: "Hijack"}}); appErrorCode(t, err) != errors.ErrorCode_PERMISSION_DENIED {
		t.Fatalf("agenda update by non-owner should be forbidden, got %v", err)
	}
	if _, err := svc.UpdateAccessLevel(context.Background(), stranger, m.ID, entities.AccessPublic); appErrorCode(t, err) != errors.ErrorCode_PERMISSION_DENIED {
		t.Fatalf("access update by non-owner should be forbidden, got %v", err)
	}

	if _, err := svc.GetMeeting(context.Background(), stranger, m.ID); appErrorCode(t, err) != errors.ErrorCode_MEETING_NOT_FOUND {
		t.Fatalf("private read by non-owner should stay not-found, got %v", err)
	}
}

func TestApprove(t *testing.T) {
	svc, repo, _ := newTestService("http://unused.invalid")
	userID := uuid.New()
	m := seedMeeting(repo, userID, entities.StatusSummarized, "bot-1")

	protocol := entities.StructuredProtocol{
		FinalProtocolOutput: "draft minutes",
		AnalysisAndSources: []entities.TopicAnalysis{
			{Topic: "Roadmap", AgendaID: "0"},
		},
	}
	raw, _ := json.Marshal(protocol)
	m.StructuredProtocol = raw
	repo.Update(context.Background(), m)

	updated, err := svc.Approve(context.Background(), userID, m.ID, "final minutes, as reviewed")
	if err != nil {
		t.Fatalf("approve failed: %v", err)
	}
	if updated.Status != entities.StatusApproved {
		t.Fatalf("unexpected status %s", updated.Status)
	}

	stored, err := repo.get(m.ID).Protocol()
	if err != nil {
		t.Fatalf("stored protocol unreadable: %v", err)
	}
	if stored.FinalProtocolOutput != "final minutes, as reviewed" {
		t.Fatalf("approved content not written: %s", stored.FinalProtocolOutput)
	}
	if len(stored.AnalysisAndSources) != 1 || stored.AnalysisAndSources[0].AgendaID != "0" {
		t.Fatalf("analysis must be preserved, got %+v", stored.AnalysisAndSources)
	}
}

func TestApprove_WithoutProtocol(t *testing.T) {
	svc, repo, _ := newTestService("http://unused.invalid")
	userID := uuid.New()
	m := seedMeeting(repo, userID, entities.StatusDone, "bot-1")

	_, err := svc.Approve(context.Background(), userID, m.ID, "anything")
	if appErrorCode(t, err) != errors.ErrorCode_MEETING_INVALID_STATE {
		t.Fatalf("expected invalid state, got %v", err)
	}
}

func TestUpdateAgenda_IDStability(t *testing.T) {
	svc, repo, _ := newTestService("http://unused.invalid")
	userID := uuid.New()
	m := seedMeeting(repo, userID, entities.StatusDone, "bot-1")

	existingID := "5"
	updated, err := svc.UpdateAgenda(context.Background(), userID, m.ID, []AgendaItemInput{
		{ID: &existingID, Topic: "Kept topic"},
		{Topic: "New topic"},
	})
	if err != nil {
		t.Fatalf("update agenda failed: %v", err)
	}

	topics, err := updated.AgendaItems()
	if err != nil || len(topics) != 2 {
		t.Fatalf("unexpected agenda %+v (%v)", topics, err)
	}
	if topics[0].ID != "5" {
		t.Fatalf("existing id must be kept, got %s", topics[0].ID)
	}
	if topics[1].ID != "1" {
		t.Fatalf("new item must get an index-based id, got %s", topics[1].ID)
	}
}

func TestUpdateAccessLevel(t *testing.T) {
	svc, repo, _ := newTestService("http://unused.invalid")
	userID := uuid.New()
	m := seedMeeting(repo, userID, entities.StatusApproved, "bot-1")

	updated, err := svc.UpdateAccessLevel(context.Background(), userID, m.ID, entities.AccessPublic)
	if err != nil {
		t.Fatalf("update access failed: %v", err)
	}
	if updated.AccessLevel != entities.AccessPublic {
		t.Fatalf("access level not applied")
	}

	// A public meeting becomes readable by anyone
	if _, err := svc.GetMeeting(context.Background(), uuid.New(), m.ID); err != nil {
		t.Fatalf("public meeting should be readable: %v", err)
	}

	if _, err := svc.UpdateAccessLevel(context.Background(), userID, m.ID, entities.AccessLevel("everyone")); err == nil {
		t.Fatalf("invalid access level must be rejected")
	}
}
