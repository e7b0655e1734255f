package gpt

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/hammamikhairi/coffeepad/internal/domain"
	"github.com/hammamikhairi/coffeepad/internal/logger"
	"github.com/hammamikhairi/coffeepad/internal/player"
	"github.com/hammamikhairi/coffeepad/internal/youtube"
)

// chatServer replies to every request with reply wrapped in a
// chat-completions envelope and records the last request body.
func chatServer(t *testing.T, reply string) (*httptest.Server, *payload, *http.Header) {
	t.Helper()
	var last payload
	var hdr http.Header
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(body, &last); err != nil {
			t.Errorf("bad request body: %v", err)
		}
		hdr = r.Header.Clone()
		resp := map[string]any{
			"choices": []any{map[string]any{
				"message": map[string]string{"role": "assistant", "content": reply},
			}},
		}
		json.NewEncoder(w).Encode(resp)
	}))
	t.Cleanup(srv.Close)
	return srv, &last, &hdr
}

func quietLog() *logger.Logger { return logger.New(logger.LevelOff, nil) }

func TestChatSendsBearerAndModel(t *testing.T) {
	srv, last, hdr := chatServer(t, "hello")
	c := NewClient(srv.URL, "sk-test", quietLog(), WithModel("gpt-4o-mini"))

	got, err := c.Chat(context.Background(), []Message{TextMessage(RoleUser, "hi")})
	if err != nil {
		t.Fatalf("Chat: %v", err)
	}
	if got != "hello" {
		t.Errorf("reply = %q", got)
	}
	if hdr.Get("Authorization") != "Bearer sk-test" {
		t.Errorf("auth header = %q", hdr.Get("Authorization"))
	}
	if last.Model != "gpt-4o-mini" || last.ResponseFormat != nil {
		t.Errorf("payload = %+v", last)
	}
}

func TestChatAzureHeaderAndErrors(t *testing.T) {
	srv, _, hdr := chatServer(t, "{}")
	c := NewClient(srv.URL, "az", quietLog(), WithAzureKeyHeader())
	if _, err := c.ChatJSON(context.Background(), nil); err != nil {
		t.Fatal(err)
	}
	if hdr.Get("api-key") != "az" || hdr.Get("Authorization") != "" {
		t.Errorf("headers = %v", *hdr)
	}

	bad := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusUnauthorized)
	}))
	defer bad.Close()
	if _, err := NewClient(bad.URL, "x", quietLog()).Chat(context.Background(), nil); err == nil ||
		!strings.Contains(err.Error(), "401") {
		t.Errorf("expected 401 error, got %v", err)
	}
}

func TestDraftStepsValidatesAgainstCatalog(t *testing.T) {
	reply := "```json\n" + `{"steps":[
		{"type":"pourWater","subOption":"Spiral outward","weight":50,"time":30,"comment":"Bloom"},
		{"type":"wait","time":30,"weight":99},
		{"type":"pourWater","subOption":"Zigzag","weight":100,"time":40},
		{"type":"grind","time":10},
		{"type":"stir","time":5},
		{"type":"removeDripper"}
	]}` + "\n```"
	srv, last, _ := chatServer(t, reply)
	agent := NewAgent(NewClient(srv.URL, "k", quietLog()), quietLog())

	steps, err := agent.DraftSteps(context.Background(), youtube.Video{Title: "V60", Duration: "8:45"})
	if err != nil {
		t.Fatalf("DraftSteps: %v", err)
	}
	if last.ResponseFormat == nil || last.ResponseFormat.Type != "json_object" {
		t.Error("draft should request a JSON reply")
	}

	wantKinds := []domain.StepKind{domain.KindPourWater, domain.KindWait, domain.KindRemoveDripper}
	if len(steps) != len(wantKinds) {
		t.Fatalf("got %d steps, want %d: %+v", len(steps), len(wantKinds), steps)
	}
	for i, k := range wantKinds {
		if steps[i].Kind != k || steps[i].ID == "" {
			t.Errorf("step %d = %+v", i, steps[i])
		}
	}
	if steps[1].Weight != 0 {
		t.Error("wait step should not keep a weight")
	}
	if steps[0].Title != "Pour water" {
		t.Errorf("title = %q", steps[0].Title)
	}
}

func TestDraftStepsEmptyIsError(t *testing.T) {
	srv, _, _ := chatServer(t, `{"steps":[{"type":"grind"}]}`)
	agent := NewAgent(NewClient(srv.URL, "k", quietLog()), quietLog())
	if _, err := agent.DraftSteps(context.Background(), youtube.Video{}); !errors.Is(err, domain.ErrNoSteps) {
		t.Errorf("expected ErrNoSteps, got %v", err)
	}

	srv2, _, _ := chatServer(t, "I can't do that")
	agent = NewAgent(NewClient(srv2.URL, "k", quietLog()), quietLog())
	if _, err := agent.DraftSteps(context.Background(), youtube.Video{}); err == nil {
		t.Error("expected decode error")
	}
}

func TestAskQuestionIncludesPlayback(t *testing.T) {
	srv, last, _ := chatServer(t, "Pour slower.")
	agent := NewAgent(NewClient(srv.URL, "k", quietLog()), quietLog())

	m := &domain.BrewMethod{Title: "Morning", Weight: 15, Grind: "Medium", Temp: 93, Amount: 250,
		Steps: []domain.BrewStep{{Kind: domain.KindPourWater, Title: "Pour water", Weight: 250, Seconds: 90}}}
	snap := &player.Snapshot{State: player.State{StepIndex: 0, StepCount: 1, StepElapsed: 20, TotalElapsed: 20, TotalWeight: 55, Status: player.StatusPlaying}}

	got, err := agent.AskQuestion(context.Background(), "too fast?", m, snap)
	if err != nil || got != "Pour slower." {
		t.Fatalf("AskQuestion = %q, %v", got, err)
	}
	if len(last.Messages) != 4 {
		t.Fatalf("messages = %d, want system+context+ack+question", len(last.Messages))
	}
	ctxBlock := last.Messages[1].Content
	for _, want := range []string{"Morning", "Current step: 1 of 1", "water so far: 55g"} {
		if !strings.Contains(ctxBlock, want) {
			t.Errorf("context missing %q:\n%s", want, ctxBlock)
		}
	}
}

func TestPromptDraftStepsListsCatalog(t *testing.T) {
	p := PromptDraftSteps()
	for _, want := range []string{"pourWater (requires weight, time)", "Small circles", "removeDripper"} {
		if !strings.Contains(p, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}
