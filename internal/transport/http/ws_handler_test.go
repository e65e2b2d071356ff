package http

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"arena-quiz-service/internal/app"
	"arena-quiz-service/internal/domain"
	"arena-quiz-service/internal/infra/memory"
	"github.com/gorilla/websocket"
)

func TestWebSocketStartFlow(t *testing.T) {
	store := memory.NewSessionStore(app.DefaultRules())
	repo := memory.NewQuestionRepository(memory.NewStaticQuestionLoader(sampleBank()), time.Minute)
	service := app.NewGameService(store, repo)
	wsHandler := NewWSHandler(service)

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", wsHandler.ServeWS)
	server := httptest.NewServer(mux)
	defer server.Close()

	u := "ws" + server.URL[len("http"):] + "/ws?sessionId=s1"
	conn, _, err := websocket.DefaultDialer.Dial(u, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	// Expect the session event first, carrying the setup snapshot.
	msgType, payload := readNext(conn, t)
	if msgType != "session" {
		t.Fatalf("expected session, got %s", msgType)
	}
	if payload["phase"] != string(domain.PhaseSetup) {
		t.Fatalf("expected setup phase, got %v", payload["phase"])
	}

	start := map[string]any{
		"type": "start",
		"payload": map[string]any{
			"settings": map[string]any{
				"categories": []string{},
				"difficulty": "all",
			},
		},
	}
	if err := conn.WriteJSON(start); err != nil {
		t.Fatalf("write start: %v", err)
	}

	playing := false
	for i := 0; i < 5 && !playing; i++ {
		typ, payload := readNext(conn, t)
		if typ == "snapshot" && payload["phase"] == string(domain.PhasePlaying) {
			playing = true
		}
	}
	if !playing {
		t.Fatalf("expected a playing snapshot after start")
	}
}

func TestWebSocketStartErrorSurfaced(t *testing.T) {
	store := memory.NewSessionStore(app.DefaultRules())
	repo := memory.NewQuestionRepository(memory.NewStaticQuestionLoader(sampleBank()), time.Minute)
	service := app.NewGameService(store, repo)
	wsHandler := NewWSHandler(service)

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", wsHandler.ServeWS)
	server := httptest.NewServer(mux)
	defer server.Close()

	u := "ws" + server.URL[len("http"):] + "/ws?sessionId=s2"
	conn, _, err := websocket.DefaultDialer.Dial(u, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	readNext(conn, t) // session event

	start := map[string]any{
		"type": "start",
		"payload": map[string]any{
			"settings": map[string]any{
				"categories": []string{"NoSuchCategory"},
				"difficulty": "all",
			},
		},
	}
	if err := conn.WriteJSON(start); err != nil {
		t.Fatalf("write start: %v", err)
	}

	// Skip snapshots still in flight from the subscription.
	for i := 0; i < 5; i++ {
		typ, _ := readNext(conn, t)
		if typ == "snapshot" {
			continue
		}
		if typ != "error" {
			t.Fatalf("expected error event, got %s", typ)
		}
		return
	}
	t.Fatalf("no error event received")
}

func readNext(conn *websocket.Conn, t *testing.T) (string, map[string]any) {
	t.Helper()
	var msg struct {
		Type    string         `json:"type"`
		Payload map[string]any `json:"payload"`
	}
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read: %v", err)
	}
	return msg.Type, msg.Payload
}

func sampleBank() []domain.Question {
	return []domain.Question{
		{
			ID:         "q1",
			Category:   "Greek",
			Difficulty: domain.DifficultyEasy,
			Prompt:     "Who rules Olympus?",
			Answer:     "Zeus",
			Options:    []string{"Zeus", "Hades", "Poseidon", "Apollo"},
		},
		{
			ID:         "q2",
			Category:   "Norse",
			Difficulty: domain.DifficultyMedium,
			Prompt:     "Whose hammer is Mjölnir?",
			Answer:     "Thor",
			Options:    []string{"Thor", "Odin", "Loki", "Tyr"},
		},
	}
}
