package httpapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/lmarchetti/voicesim/internal/catalog"
	"github.com/lmarchetti/voicesim/internal/config"
	"github.com/lmarchetti/voicesim/internal/coordination"
	"github.com/lmarchetti/voicesim/internal/dialogue"
	"github.com/lmarchetti/voicesim/internal/persona"
	"github.com/lmarchetti/voicesim/internal/textgen"
	"github.com/lmarchetti/voicesim/internal/transport"
)

func testServer(t *testing.T) *Server {
	t.Helper()
	cfg := config.Config{
		CoordinationBackend:      "memory",
		TTSProviderName:          "cartesia",
		SessionInactivityTimeout: 2 * time.Minute,
		Temperature:              0.8,
		MaxTokens:                150,
		ContextWindow:            6,
		TurnTimeout:              5 * time.Second,
	}
	sessions := transport.NewLocalService(cfg.SessionInactivityTimeout)
	coordinator := coordination.NewCoordinator(coordination.NewInMemoryStore(), nil, time.Second, time.Hour, 100)
	registry, err := persona.NewRegistry(persona.Defaults())
	if err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}
	orchOpts := dialogue.Options{
		Generator: textgen.NewScriptedGenerator(nil, "zzz qqq"),
	}
	return New(cfg, sessions, coordinator, registry, catalog.Default(), orchOpts, nil)
}

func postJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()
	raw, _ := json.Marshal(body)
	res, err := http.Post(url, "application/json", bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("POST %s: %v", url, err)
	}
	return res
}

func decodeBody(t *testing.T, res *http.Response, out any) {
	t.Helper()
	defer res.Body.Close()
	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

func TestSessionLifecycleAndRoleAssignment(t *testing.T) {
	ts := httptest.NewServer(testServer(t).Router())
	defer ts.Close()

	res := postJSON(t, ts.URL+"/v1/sessions", map[string]any{
		"initiator_persona_id": "angry_billing",
		"max_turns":            4,
	})
	if res.StatusCode != http.StatusCreated {
		t.Fatalf("create status = %d, want %d", res.StatusCode, http.StatusCreated)
	}
	var created transport.Session
	decodeBody(t, res, &created)
	if created.ID == "" {
		t.Fatal("missing session id")
	}
	if !strings.HasPrefix(created.Metadata, "angry_billing:default:4") {
		t.Fatalf("metadata = %q", created.Metadata)
	}

	// Two workers get distinct roles; repeats are idempotent.
	roles := map[coordination.Role]string{}
	for _, worker := range []string{"w1", "w2"} {
		res := postJSON(t, ts.URL+"/v1/sessions/"+created.ID+"/assign", assignRoleRequest{WorkerID: worker})
		if res.StatusCode != http.StatusOK {
			t.Fatalf("assign %s status = %d", worker, res.StatusCode)
		}
		var assigned assignRoleResponse
		decodeBody(t, res, &assigned)
		roles[assigned.Role] = worker
	}
	if len(roles) != 2 {
		t.Fatalf("roles = %v, want two distinct roles", roles)
	}

	// A third worker conflicts.
	res = postJSON(t, ts.URL+"/v1/sessions/"+created.ID+"/assign", assignRoleRequest{WorkerID: "w3"})
	if res.StatusCode != http.StatusConflict {
		t.Fatalf("third worker status = %d, want %d", res.StatusCode, http.StatusConflict)
	}
	res.Body.Close()

	// Participants reflect the dispatched workers.
	pres, err := http.Get(ts.URL + "/v1/sessions/" + created.ID + "/participants")
	if err != nil {
		t.Fatalf("participants: %v", err)
	}
	var plist struct {
		Participants []transport.Participant `json:"participants"`
	}
	decodeBody(t, pres, &plist)
	if len(plist.Participants) != 2 {
		t.Fatalf("participants = %d, want 2", len(plist.Participants))
	}

	res = postJSON(t, ts.URL+"/v1/sessions/"+created.ID+"/end", nil)
	if res.StatusCode != http.StatusOK {
		t.Fatalf("end status = %d", res.StatusCode)
	}
	var ended transport.Session
	decodeBody(t, res, &ended)
	if ended.Status != transport.StatusEnded {
		t.Fatalf("status = %s, want ended", ended.Status)
	}
}

func TestRunConversationEndpoint(t *testing.T) {
	ts := httptest.NewServer(testServer(t).Router())
	defer ts.Close()

	res := postJSON(t, ts.URL+"/v1/conversations", runConversationRequest{
		InitiatorPersonaID: "cooperative_parent",
		ResponderPersonaID: "default",
		MaxTurns:           2,
		MinTurns:           2,
	})
	if res.StatusCode != http.StatusOK {
		t.Fatalf("run status = %d", res.StatusCode)
	}
	var out runConversationResponse
	decodeBody(t, res, &out)
	if out.Conversation == nil || out.Conversation.State != dialogue.StateComplete {
		t.Fatalf("conversation = %+v", out.Conversation)
	}
	if len(out.Conversation.Turns) == 0 {
		t.Fatal("no turns in transcript")
	}

	// The transcript is fetchable afterwards.
	getRes, err := http.Get(ts.URL + "/v1/conversations/" + out.Conversation.ID)
	if err != nil {
		t.Fatalf("get conversation: %v", err)
	}
	if getRes.StatusCode != http.StatusOK {
		t.Fatalf("get status = %d", getRes.StatusCode)
	}
	var fetched runConversationResponse
	decodeBody(t, getRes, &fetched)
	if fetched.Conversation.ID != out.Conversation.ID {
		t.Fatalf("fetched id = %s, want %s", fetched.Conversation.ID, out.Conversation.ID)
	}
}

func TestRunConversationUnknownPersona(t *testing.T) {
	ts := httptest.NewServer(testServer(t).Router())
	defer ts.Close()

	res := postJSON(t, ts.URL+"/v1/conversations", runConversationRequest{
		InitiatorPersonaID: "no_such_persona",
		ResponderPersonaID: "default",
	})
	if res.StatusCode != http.StatusNotFound {
		t.Fatalf("status = %d, want %d", res.StatusCode, http.StatusNotFound)
	}
	res.Body.Close()
}

func TestRunConversationUsesSessionMetadata(t *testing.T) {
	ts := httptest.NewServer(testServer(t).Router())
	defer ts.Close()

	res := postJSON(t, ts.URL+"/v1/sessions", createSessionRequest{Metadata: "confused_elderly:default:2"})
	var sess transport.Session
	decodeBody(t, res, &sess)

	runRes := postJSON(t, ts.URL+"/v1/conversations", runConversationRequest{SessionID: sess.ID})
	if runRes.StatusCode != http.StatusOK {
		t.Fatalf("run status = %d", runRes.StatusCode)
	}
	var out runConversationResponse
	decodeBody(t, runRes, &out)
	if out.Conversation.InitiatorPersonaID != "confused_elderly" {
		t.Fatalf("initiator = %s, want confused_elderly", out.Conversation.InitiatorPersonaID)
	}
	if bound := 2*2 + 1; len(out.Conversation.Turns) > bound {
		t.Fatalf("turns = %d, want <= %d", len(out.Conversation.Turns), bound)
	}
}

func TestSelectVoiceEndpoint(t *testing.T) {
	ts := httptest.NewServer(testServer(t).Router())
	defer ts.Close()

	res := postJSON(t, ts.URL+"/v1/voices/select", selectVoiceRequest{
		Provider:  "cartesia",
		Languages: []string{"hi", "en"},
		Accent:    "india",
		Gender:    "female",
		Role:      "customer",
	})
	if res.StatusCode != http.StatusOK {
		t.Fatalf("select status = %d", res.StatusCode)
	}
	var out selectVoiceResponse
	decodeBody(t, res, &out)
	if !out.Voice.AllowsRole(catalog.RoleCustomer) {
		t.Fatalf("selected voice %s does not allow customer role", out.Voice.ID)
	}

	badRes := postJSON(t, ts.URL+"/v1/voices/select", selectVoiceRequest{Role: "narrator"})
	if badRes.StatusCode != http.StatusBadRequest {
		t.Fatalf("invalid role status = %d", badRes.StatusCode)
	}
	badRes.Body.Close()
}

func TestListVoicesAndPersonas(t *testing.T) {
	ts := httptest.NewServer(testServer(t).Router())
	defer ts.Close()

	res, err := http.Get(ts.URL + "/v1/voices?provider=openai")
	if err != nil {
		t.Fatalf("list voices: %v", err)
	}
	var voices listVoicesResponse
	decodeBody(t, res, &voices)
	if len(voices.Voices) == 0 {
		t.Fatal("no openai voices listed")
	}
	for _, v := range voices.Voices {
		if v.Provider != "openai" {
			t.Fatalf("voice %s has provider %s", v.ID, v.Provider)
		}
	}

	pres, err := http.Get(ts.URL + "/v1/personas")
	if err != nil {
		t.Fatalf("list personas: %v", err)
	}
	var personas struct {
		Customers []string `json:"customers"`
		Support   []string `json:"support"`
	}
	decodeBody(t, pres, &personas)
	if len(personas.Customers) == 0 || len(personas.Support) == 0 {
		t.Fatalf("personas = %+v", personas)
	}
}

func TestHealthEndpoints(t *testing.T) {
	ts := httptest.NewServer(testServer(t).Router())
	defer ts.Close()

	for _, path := range []string{"/healthz", "/readyz"} {
		res, err := http.Get(ts.URL + path)
		if err != nil {
			t.Fatalf("GET %s: %v", path, err)
		}
		if res.StatusCode != http.StatusOK {
			t.Fatalf("GET %s status = %d", path, res.StatusCode)
		}
		res.Body.Close()
	}
}
