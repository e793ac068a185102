package gemini

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"
	"google.golang.org/genai"
)

type fakeChatCreator struct {
	mu    sync.Mutex
	calls []chatCallRecord
	queue map[string][]fakeChatResponse
}

type chatCallRecord struct {
	model  string
	config *genai.GenerateContentConfig
	chat   *fakeChat
}

type fakeChatResponse struct {
	resp *genai.GenerateContentResponse
	err  error
}

type fakeChat struct {
	mu       sync.Mutex
	response fakeChatResponse
	messages []string
}

func (f *fakeChat) SendMessage(_ context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, part := range parts {
		f.messages = append(f.messages, part.Text)
	}
	return f.response.resp, f.response.err
}

func newFakeChatCreator() *fakeChatCreator {
	return &fakeChatCreator{queue: make(map[string][]fakeChatResponse)}
}

func (f *fakeChatCreator) enqueue(model string, resp *genai.GenerateContentResponse, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queue[model] = append(f.queue[model], fakeChatResponse{resp: resp, err: err})
}

func (f *fakeChatCreator) enqueueText(model, text string) {
	f.enqueue(model, textResponse(text), nil)
}

func (f *fakeChatCreator) Create(_ context.Context, model string, config *genai.GenerateContentConfig, _ []*genai.Content) (chatSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	responses := f.queue[model]
	if len(responses) == 0 {
		return nil, errors.New("unexpected call")
	}
	res := responses[0]
	f.queue[model] = responses[1:]
	chat := &fakeChat{response: res}
	f.calls = append(f.calls, chatCallRecord{model: model, config: config, chat: chat})
	return chat, nil
}

type fakeModels struct {
	err   error
	asked string
}

func (f *fakeModels) Get(_ context.Context, model string, _ *genai.GetModelConfig) (*genai.Model, error) {
	f.asked = model
	if f.err != nil {
		return nil, f.err
	}
	return &genai.Model{Name: model}, nil
}

func textResponse(text string) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: []*genai.Part{{Text: text}}},
		}},
	}
}

type waitRecorder struct {
	delays []time.Duration
}

func (w *waitRecorder) wait(_ context.Context, d time.Duration) error {
	w.delays = append(w.delays, d)
	return nil
}

func newTestGenerator(chats chatCreator, maxRetries int, waiter *waitRecorder) *Generator {
	return &Generator{
		chats:      chats,
		model:      "gemini-pro",
		maxRetries: maxRetries,
		logger:     zap.NewNop(),
		wait:       waiter.wait,
	}
}

func TestGeneratorRetriesOnTemporaryError(t *testing.T) {
	chats := newFakeChatCreator()
	tempErr := genai.APIError{Code: http.StatusInternalServerError, Status: "INTERNAL"}
	chats.enqueue("gemini-pro", nil, tempErr)
	chats.enqueueText("gemini-pro", "retry ok")

	waiter := &waitRecorder{}
	g := newTestGenerator(chats, 2, waiter)

	output, err := g.Generate(context.Background(), "system", "message", Options{})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if output != "retry ok" {
		t.Fatalf("unexpected output: %q", output)
	}

	if len(chats.calls) != 2 {
		t.Fatalf("expected 2 calls, got %d", len(chats.calls))
	}

	if len(waiter.delays) != 1 || waiter.delays[0] != retryBaseDelay {
		t.Fatalf("expected a single base delay, got %v", waiter.delays)
	}

	for _, call := range chats.calls {
		if call.config == nil || call.config.SystemInstruction == nil {
			t.Fatalf("expected system instruction to be set")
		}
		if got := call.config.SystemInstruction.Parts[0].Text; got != "system" {
			t.Fatalf("unexpected system instruction: %q", got)
		}
		if len(call.chat.messages) != 1 || call.chat.messages[0] != "message" {
			t.Fatalf("unexpected chat message: %+v", call.chat.messages)
		}
	}
}

func TestGeneratorStopsAfterRetriesExhausted(t *testing.T) {
	chats := newFakeChatCreator()
	tempErr := genai.APIError{Code: http.StatusServiceUnavailable, Status: "UNAVAILABLE"}
	chats.enqueue("gemini-pro", nil, tempErr)
	chats.enqueue("gemini-pro", nil, tempErr)

	g := newTestGenerator(chats, 2, &waitRecorder{})

	_, err := g.Generate(context.Background(), "sys", "msg", Options{})
	if err == nil {
		t.Fatal("expected error after retries exhausted")
	}

	var apiErr genai.APIError
	if !errors.As(err, &apiErr) || apiErr.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected wrapped api error, got %v", err)
	}

	if len(chats.calls) != 2 {
		t.Fatalf("expected 2 calls, got %d", len(chats.calls))
	}
}

func TestGeneratorDoesNotRetryOnLongQuotaDelay(t *testing.T) {
	chats := newFakeChatCreator()
	quotaErr := genai.APIError{
		Code:    http.StatusTooManyRequests,
		Status:  "RESOURCE_EXHAUSTED",
		Message: "quota exhausted, retry after 60 seconds",
	}
	chats.enqueue("gemini-pro", nil, quotaErr)

	g := newTestGenerator(chats, 3, &waitRecorder{})

	if _, err := g.Generate(context.Background(), "sys", "msg", Options{}); err == nil {
		t.Fatal("expected error when quota delay too long")
	}

	if len(chats.calls) != 1 {
		t.Fatalf("expected single call, got %d", len(chats.calls))
	}
}

func TestGeneratorHonoursShortQuotaDelay(t *testing.T) {
	chats := newFakeChatCreator()
	quotaErr := genai.APIError{
		Code:    http.StatusTooManyRequests,
		Status:  "RESOURCE_EXHAUSTED",
		Details: []map[string]any{{"@type": "type.googleapis.com/google.rpc.RetryInfo", "retryDelay": "7s"}},
	}
	chats.enqueue("gemini-pro", nil, quotaErr)
	chats.enqueueText("gemini-pro", "ok")

	waiter := &waitRecorder{}
	g := newTestGenerator(chats, 3, waiter)

	if _, err := g.Generate(context.Background(), "sys", "msg", Options{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(waiter.delays) != 1 || waiter.delays[0] != 7*time.Second {
		t.Fatalf("expected 7s delay from retry info, got %v", waiter.delays)
	}
}

func TestGeneratorDoesNotRetryClientErrors(t *testing.T) {
	chats := newFakeChatCreator()
	chats.enqueue("gemini-pro", nil, genai.APIError{Code: http.StatusBadRequest, Status: "INVALID_ARGUMENT"})

	g := newTestGenerator(chats, 3, &waitRecorder{})

	if _, err := g.Generate(context.Background(), "sys", "msg", Options{}); err == nil {
		t.Fatal("expected error")
	}
	if len(chats.calls) != 1 {
		t.Fatalf("expected single call, got %d", len(chats.calls))
	}
}

func TestGenerateAppliesOptions(t *testing.T) {
	chats := newFakeChatCreator()
	chats.enqueueText("gemini-pro", `{"ok":true}`)

	g := newTestGenerator(chats, 1, &waitRecorder{})

	if _, err := g.Generate(context.Background(), "", "msg", Options{Temperature: 0.3, MaxOutputTokens: 1200, JSON: true}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cfg := chats.calls[0].config
	if cfg.SystemInstruction != nil {
		t.Fatalf("expected no system instruction for empty system prompt")
	}
	if cfg.Temperature == nil || *cfg.Temperature != 0.3 {
		t.Fatalf("unexpected temperature: %v", cfg.Temperature)
	}
	if cfg.MaxOutputTokens != 1200 {
		t.Fatalf("unexpected max output tokens: %d", cfg.MaxOutputTokens)
	}
	if cfg.ResponseMIMEType != "application/json" {
		t.Fatalf("unexpected response mime type: %q", cfg.ResponseMIMEType)
	}
}

func TestGenerateRejectsEmptyPromptAndResponse(t *testing.T) {
	chats := newFakeChatCreator()
	chats.enqueueText("gemini-pro", "   ")

	g := newTestGenerator(chats, 1, &waitRecorder{})

	if _, err := g.Generate(context.Background(), "sys", "  ", Options{}); err == nil {
		t.Fatal("expected error for empty prompt")
	}
	if _, err := g.Generate(context.Background(), "sys", "msg", Options{}); err == nil {
		t.Fatal("expected error for empty response")
	}

	var nilGenerator *Generator
	if _, err := nilGenerator.Generate(context.Background(), "sys", "msg", Options{}); err == nil {
		t.Fatal("expected error for nil generator")
	}
}

func TestPing(t *testing.T) {
	models := &fakeModels{}
	g := &Generator{models: models, model: "gemini-pro"}

	if err := g.Ping(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if models.asked != "gemini-pro" {
		t.Fatalf("expected model lookup for gemini-pro, got %q", models.asked)
	}

	models.err = errors.New("permission denied")
	if err := g.Ping(context.Background()); err == nil {
		t.Fatal("expected ping error")
	}
}
