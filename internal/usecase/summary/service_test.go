package summary

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"

	"github.com/summario-team/summario-api/errors"
	"github.com/summario-team/summario-api/internal/domain/entities"
	"github.com/summario-team/summario-api/internal/infrastructure/cache"
	"github.com/summario-team/summario-api/pkg/ai"
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

func (f *fakeMeetingRepo) FindByBotID(_ context.Context, _ string) (*entities.Meeting, error) {
	return nil, nil
}

func (f *fakeMeetingRepo) FindByUserID(_ context.Context, _ uuid.UUID, _, _ int) ([]*entities.Meeting, error) {
	return nil, nil
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
		case "structured_protocol":
			m.StructuredProtocol = value.(datatypes.JSON)
		}
	}
	return nil
}

func (f *fakeMeetingRepo) get(id uuid.UUID) *entities.Meeting {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.meetings[id]
}

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[uuid.UUID]*entities.User
	saved struct {
		prompt, template, example string
	}
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uuid.UUID]*entities.User)}
}

func (f *fakeUserRepo) FindByID(_ context.Context, id uuid.UUID) (*entities.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.users[id], nil
}

func (f *fakeUserRepo) FindByEmail(_ context.Context, _ string) (*entities.User, error) {
	return nil, nil
}

func (f *fakeUserRepo) Create(_ context.Context, u *entities.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.users[u.ID] = u
	return nil
}

func (f *fakeUserRepo) Update(_ context.Context, u *entities.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.users[u.ID] = u
	return nil
}

func (f *fakeUserRepo) UpdateAIConfig(_ context.Context, id uuid.UUID, prompt, template, exampleProtocol string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.saved.prompt = prompt
	f.saved.template = template
	f.saved.example = exampleProtocol
	if u, ok := f.users[id]; ok {
		u.AIGeneratedPrompt = &prompt
		u.AIGeneratedTemplate = &template
		u.ExampleProtocol = &exampleProtocol
	}
	return nil
}

func geminiStub(t *testing.T, responseText string, statusCode int, capturePrompt *string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if statusCode >= 400 {
			w.WriteHeader(statusCode)
			return
		}
		if capturePrompt != nil {
			var req struct {
				Contents []struct {
					Parts []struct {
						Text string `json:"text"`
					} `json:"parts"`
				} `json:"contents"`
			}
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				t.Fatalf("invalid gemini request: %v", err)
			}
			if len(req.Contents) > 0 && len(req.Contents[0].Parts) > 0 {
				*capturePrompt = req.Contents[0].Parts[0].Text
			}
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"candidates": []map[string]interface{}{
				{"content": map[string]interface{}{
					"parts": []map[string]string{{"text": responseText}},
				}},
			},
		})
	}
}

func newTestSummaryService(geminiURL string) (Service, *fakeMeetingRepo, *fakeUserRepo) {
	meetings := newFakeMeetingRepo()
	users := newFakeUserRepo()
	aiConfig := cache.NewAIConfigCache(cache.NewMemoryStore(), users, time.Minute, zap.NewNop())
	gemini := ai.NewGeminiClient(&config.GeminiConfig{APIKey: "test-key", BaseURL: geminiURL, Model: "gemini-2.5-flash"})
	svc := NewService(meetings, users, aiConfig, gemini, zap.NewNop())
	return svc, meetings, users
}

func seedConfiguredUser(users *fakeUserRepo) *entities.User {
	user := entities.NewUser("owner@example.com", "Owner")
	prompt := "You are an executive assistant."
	template := "# Minutes of {{MEETING_TITLE}}"
	example := "# Minutes of Q3 Review"
	user.AIGeneratedPrompt = &prompt
	user.AIGeneratedTemplate = &template
	user.ExampleProtocol = &example
	users.Create(context.Background(), user)
	return user
}

func seedDoneMeeting(meetings *fakeMeetingRepo, userID uuid.UUID) *entities.Meeting {
	m := entities.NewMeeting(userID, "bot-1")
	m.MeetingName = "Q3 Review"
	m.MeetingURL = "https://meet.google.com/q3"
	m.Status = entities.StatusDone
	m.EnableDiarization = true
	m.RawTranscript = datatypes.JSON(`[{"start": 0, "end": 4, "speaker": 0, "speaker_name": "Alice", "transcript": "Revenue is up."}]`)
	m.AgendaTopics = datatypes.JSON(`[{"id":"0","topic":"Revenue"}]`)
	meetings.Create(context.Background(), m)
	return m
}

func validProtocolJSON() string {
	return `{"final_protocol_output":"# Minutes of Q3 Review\n\nRevenue is up.","analysis_and_sources":[{"topic":"Revenue","agendaId":"0","analysis":{"reasoning":"Directly stated by Alice.","source_quotes":[{"speaker":"Alice","text":"Revenue is up."}]}}]}`
}

func appErrorCode(t *testing.T, err error) errors.ErrorCode {
	t.Helper()
	appErr, ok := err.(errors.AppError)
	if !ok {
		t.Fatalf("expected AppError, got %T: %v", err, err)
	}
	return appErr.Code
}

func TestGenerate_Success(t *testing.T) {
	var prompt string
	ts := httptest.NewServer(geminiStub(t, validProtocolJSON(), 0, &prompt))
	defer ts.Close()

	svc, meetings, users := newTestSummaryService(ts.URL)
	user := seedConfiguredUser(users)
	m := seedDoneMeeting(meetings, user.ID)

	if err := svc.Generate(context.Background(), m.ID); err != nil {
		t.Fatalf("generate failed: %v", err)
	}

	stored := meetings.get(m.ID)
	if stored.Status != entities.StatusSummarized {
		t.Fatalf("expected SUMMARIZED, got %s", stored.Status)
	}
	protocol, err := stored.Protocol()
	if err != nil || protocol == nil {
		t.Fatalf("protocol unreadable: %v", err)
	}
	if protocol.FinalProtocolOutput == "" || len(protocol.AnalysisAndSources) != 1 {
		t.Fatalf("unexpected protocol %+v", protocol)
	}
	if protocol.AnalysisAndSources[0].AgendaID != "0" {
		t.Fatalf("agenda id lost: %+v", protocol.AnalysisAndSources[0])
	}

	// The prompt embeds user config, formatted transcript and agenda
	for _, want := range []string{
		"You are an executive assistant.",
		"[00:00-00:04] Alice: Revenue is up.",
		`"topic":"Revenue"`,
		"# Minutes of {{MEETING_TITLE}}",
		"final_protocol_output",
	} {
		if !strings.Contains(prompt, want) {
			t.Fatalf("prompt missing %q", want)
		}
	}
}

func TestGenerate_PreconditionsLeaveRowUntouched(t *testing.T) {
	called := false
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer ts.Close()

	svc, meetings, users := newTestSummaryService(ts.URL)
	user := seedConfiguredUser(users)

	m := seedDoneMeeting(meetings, user.ID)
	meetings.UpdateStatus(context.Background(), m.ID, entities.StatusRecording)

	err := svc.Generate(context.Background(), m.ID)
	if appErrorCode(t, err) != errors.ErrorCode_MEETING_INVALID_STATE {
		t.Fatalf("expected invalid state, got %v", err)
	}
	if called {
		t.Fatalf("precondition failure must not reach the AI service")
	}
	if stored := meetings.get(m.ID); stored.Status != entities.StatusRecording {
		t.Fatalf("precondition failure must not mutate the row")
	}
}

func TestGenerate_MissingAIConfig(t *testing.T) {
	ts := httptest.NewServer(geminiStub(t, validProtocolJSON(), 0, nil))
	defer ts.Close()

	svc, meetings, users := newTestSummaryService(ts.URL)
	user := entities.NewUser("bare@example.com", "Bare")
	users.Create(context.Background(), user)
	m := seedDoneMeeting(meetings, user.ID)

	err := svc.Generate(context.Background(), m.ID)
	if appErrorCode(t, err) != errors.ErrorCode_AI_CONFIG_MISSING {
		t.Fatalf("expected config-missing, got %v", err)
	}
	if stored := meetings.get(m.ID); stored.Status != entities.StatusDone {
		t.Fatalf("missing config must not fail the meeting")
	}
}

func TestGenerate_UnparseableResponseFailsMeeting(t *testing.T) {
	ts := httptest.NewServer(geminiStub(t, "Sure! Here is your protocol: ...", 0, nil))
	defer ts.Close()

	svc, meetings, users := newTestSummaryService(ts.URL)
	user := seedConfiguredUser(users)
	m := seedDoneMeeting(meetings, user.ID)

	err := svc.Generate(context.Background(), m.ID)
	if appErrorCode(t, err) != errors.ErrorCode_AI_RESPONSE_INVALID {
		t.Fatalf("expected response-invalid, got %v", err)
	}

	stored := meetings.get(m.ID)
	if stored.Status != entities.StatusFailed {
		t.Fatalf("expected FAILED, got %s", stored.Status)
	}
	// The recorded message carries the parse error, not just a label
	if stored.ErrorMessage == nil || !strings.Contains(*stored.ErrorMessage, "invalid character") {
		t.Fatalf("failure message should carry the parse error, got %v", stored.ErrorMessage)
	}
	if len(stored.StructuredProtocol) != 0 {
		t.Fatalf("protocol must stay untouched on parse failure")
	}
}

func TestGenerate_UpstreamErrorFailsMeeting(t *testing.T) {
	ts := httptest.NewServer(geminiStub(t, "", http.StatusServiceUnavailable, nil))
	defer ts.Close()

	svc, meetings, users := newTestSummaryService(ts.URL)
	user := seedConfiguredUser(users)
	m := seedDoneMeeting(meetings, user.ID)

	err := svc.Generate(context.Background(), m.ID)
	if appErrorCode(t, err) != errors.ErrorCode_AI_GENERATION_FAILED {
		t.Fatalf("expected generation-failed, got %v", err)
	}
	stored := meetings.get(m.ID)
	if stored.Status != entities.StatusFailed {
		t.Fatalf("expected FAILED, got %s", stored.Status)
	}
	if stored.ErrorMessage == nil || !strings.Contains(*stored.ErrorMessage, "status 503") {
		t.Fatalf("failure message should carry the upstream error, got %v", stored.ErrorMessage)
	}
}

func TestGenerateTemplate_PersistsConfig(t *testing.T) {
	response := `{"ai_generated_prompt":"You are a meeting secretary.","ai_generated_template":"# {{MEETING_TITLE}}"}`
	ts := httptest.NewServer(geminiStub(t, response, 0, nil))
	defer ts.Close()

	svc, _, users := newTestSummaryService(ts.URL)
	user := entities.NewUser("new@example.com", "New")
	users.Create(context.Background(), user)

	prompt, template, err := svc.GenerateTemplate(context.Background(), user.ID, "# Example minutes", "keep it short")
	if err != nil {
		t.Fatalf("generate template failed: %v", err)
	}
	if prompt != "You are a meeting secretary." || template != "# {{MEETING_TITLE}}" {
		t.Fatalf("unexpected output %q / %q", prompt, template)
	}
	if users.saved.prompt != prompt || users.saved.template != template || users.saved.example != "# Example minutes" {
		t.Fatalf("config not persisted: %+v", users.saved)
	}
}

func TestGenerateTemplate_RequiresExample(t *testing.T) {
	svc, _, _ := newTestSummaryService("http://unused.invalid")

	_, _, err := svc.GenerateTemplate(context.Background(), uuid.New(), "   ", "")
	if appErrorCode(t, err) != errors.ErrorCode_INVALID_ARGUMENT {
		t.Fatalf("expected invalid argument, got %v", err)
	}
}

func TestApplyEdit(t *testing.T) {
	ts := httptest.NewServer(geminiStub(t, "  # Edited minutes\n", 0, nil))
	defer ts.Close()

	svc, _, _ := newTestSummaryService(ts.URL)
	edited, err := svc.ApplyEdit(context.Background(), "# Minutes", "fix the title")
	if err != nil {
		t.Fatalf("apply edit failed: %v", err)
	}
	if edited != "# Edited minutes" {
		t.Fatalf("unexpected edit result %q", edited)
	}

	if _, err := svc.ApplyEdit(context.Background(), "", "fix"); err == nil {
		t.Fatalf("empty content must be rejected")
	}
}

func TestGetAIConfig(t *testing.T) {
	svc, _, users := newTestSummaryService("http://unused.invalid")
	configured := seedConfiguredUser(users)
	bare := entities.NewUser("bare@example.com", "Bare")
	users.Create(context.Background(), bare)

	view, err := svc.GetAIConfig(context.Background(), configured.ID)
	if err != nil {
		t.Fatalf("get config failed: %v", err)
	}
	if !view.Configured || view.AIGeneratedPrompt != "You are an executive assistant." {
		t.Fatalf("unexpected view %+v", view)
	}

	view, err = svc.GetAIConfig(context.Background(), bare.ID)
	if err != nil {
		t.Fatalf("get config failed for bare user: %v", err)
	}
	if view.Configured || view.AIGeneratedPrompt != "" {
		t.Fatalf("bare user should report unconfigured, got %+v", view)
	}

	_, err = svc.GetAIConfig(context.Background(), uuid.New())
	if appErrorCode(t, err) != errors.ErrorCode_NOT_FOUND {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestUpdateAIConfig(t *testing.T) {
	svc, _, users := newTestSummaryService("http://unused.invalid")
	user := entities.NewUser("manual@example.com", "Manual")
	users.Create(context.Background(), user)

	if err := svc.UpdateAIConfig(context.Background(), user.ID, "Summarize tersely.", "# {{MEETING_TITLE}}", "# Example"); err != nil {
		t.Fatalf("update config failed: %v", err)
	}
	if users.saved.prompt != "Summarize tersely." || users.saved.example != "# Example" {
		t.Fatalf("config not persisted: %+v", users.saved)
	}

	err := svc.UpdateAIConfig(context.Background(), user.ID, "  ", "# T", "")
	if appErrorCode(t, err) != errors.ErrorCode_INVALID_ARGUMENT {
		t.Fatalf("blank prompt must be rejected, got %v", err)
	}
}
