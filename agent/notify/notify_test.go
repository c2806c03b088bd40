package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"
)

func mustWebhook(t *testing.T, rawURL string) *Webhook {
	t.Helper()
	w, err := NewWebhook(rawURL, time.Second)
	if err != nil {
		t.Fatalf("NewWebhook() error = %v", err)
	}
	return w
}

func TestWebhookNotifySendsQueryParams(t *testing.T) {
	t.Parallel()

	var gotMethod string
	var gotQuery map[string][]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotQuery = r.URL.Query()
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	hook := mustWebhook(t, srv.URL)
	if err := hook.Notify(context.Background(), "bea_24", "Phone 123456789"); err != nil {
		t.Fatalf("Notify() error = %v", err)
	}

	if gotMethod != http.MethodGet {
		t.Fatalf("hook method = %s, want GET", gotMethod)
	}
	if got := gotQuery["name_age"]; len(got) != 1 || got[0] != "bea_24" {
		t.Fatalf("name_age = %v", got)
	}
	if got := gotQuery["contact"]; len(got) != 1 || got[0] != "Phone 123456789" {
		t.Fatalf("contact = %v", got)
	}
}

func TestWebhookNotifyKeepsExistingQuery(t *testing.T) {
	t.Parallel()

	var gotQuery map[string][]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
	}))
	defer srv.Close()

	hook := mustWebhook(t, srv.URL+"/hook?token=abc")
	if err := hook.Notify(context.Background(), "bea_24", "Instagram insta_nick"); err != nil {
		t.Fatalf("Notify() error = %v", err)
	}

	if got := gotQuery["token"]; len(got) != 1 || got[0] != "abc" {
		t.Fatalf("token = %v, want preserved", got)
	}
	if got := gotQuery["contact"]; len(got) != 1 || got[0] != "Instagram insta_nick" {
		t.Fatalf("contact = %v", got)
	}
}

func TestWebhookNotifyErrorStatus(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	hook := mustWebhook(t, srv.URL)
	err := hook.Notify(context.Background(), "bea_24", "Phone 123")
	if err == nil {
		t.Fatal("Notify() should fail on 500")
	}
	if !strings.Contains(err.Error(), "500") {
		t.Fatalf("Notify() error = %v, want status in message", err)
	}
}

func TestNewWebhookRejectsBadURL(t *testing.T) {
	t.Parallel()

	if _, err := NewWebhook("not a url", time.Second); err == nil {
		t.Fatal("NewWebhook() should reject an unparsable url")
	}
	if _, err := NewWebhook("   ", time.Second); err == nil {
		t.Fatal("NewWebhook() should reject a blank url")
	}
}

func TestPushbulletPushNote(t *testing.T) {
	t.Parallel()

	var gotToken, gotContentType string
	var gotPayload pushNote
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("push method = %s, want POST", r.Method)
		}
		gotToken = r.Header.Get("Access-Token")
		gotContentType = r.Header.Get("Content-Type")
		if err := json.NewDecoder(r.Body).Decode(&gotPayload); err != nil {
			t.Errorf("decode push payload: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	push := &PushbulletClient{apiKey: "secret", pushURL: srv.URL, httpClient: srv.Client()}
	if err := push.PushNote(context.Background(), "I planned date with bea_24", "Phone 123456789"); err != nil {
		t.Fatalf("PushNote() error = %v", err)
	}

	if gotToken != "secret" {
		t.Fatalf("Access-Token = %q", gotToken)
	}
	if gotContentType != "application/json" {
		t.Fatalf("Content-Type = %q", gotContentType)
	}
	if gotPayload.Type != "note" {
		t.Fatalf("push type = %q, want note", gotPayload.Type)
	}
	if gotPayload.Title != "I planned date with bea_24" {
		t.Fatalf("push title = %q", gotPayload.Title)
	}
	if gotPayload.Body != "Phone 123456789" {
		t.Fatalf("push body = %q", gotPayload.Body)
	}
}

func TestPushbulletErrorStatus(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusUnauthorized)
	}))
	defer srv.Close()

	push := &PushbulletClient{apiKey: "bad", pushURL: srv.URL, httpClient: srv.Client()}
	if err := push.PushNote(context.Background(), "title", "body"); err == nil {
		t.Fatal("PushNote() should fail on 401")
	}
}

func TestDispatcherSkipsUnsetChannels(t *testing.T) {
	t.Parallel()

	d, err := NewDispatcher(Config{})
	if err != nil {
		t.Fatalf("NewDispatcher() error = %v", err)
	}
	if d.Enabled() {
		t.Fatal("empty config must leave the dispatcher disabled")
	}
	if err := d.ContactCaptured(context.Background(), "bea_24", "Phone 123"); err != nil {
		t.Fatalf("ContactCaptured() with no channels error = %v", err)
	}
}

func TestDispatcherHitsWebhookThenPush(t *testing.T) {
	t.Parallel()

	var mu sync.Mutex
	var order []string

	hookSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		order = append(order, "hook")
		mu.Unlock()
	}))
	defer hookSrv.Close()

	var gotTitle string
	pushSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var payload pushNote
		_ = json.NewDecoder(r.Body).Decode(&payload)
		mu.Lock()
		order = append(order, "push")
		gotTitle = payload.Title
		mu.Unlock()
	}))
	defer pushSrv.Close()

	d := &Dispatcher{
		webhook: mustWebhook(t, hookSrv.URL),
		push:    &PushbulletClient{apiKey: "key", pushURL: pushSrv.URL, httpClient: pushSrv.Client()},
	}
	if !d.Enabled() {
		t.Fatal("dispatcher with both channels should be enabled")
	}
	if err := d.ContactCaptured(context.Background(), "bea_24", "Facebook Name Surname"); err != nil {
		t.Fatalf("ContactCaptured() error = %v", err)
	}

	if len(order) != 2 || order[0] != "hook" || order[1] != "push" {
		t.Fatalf("delivery order = %v, want hook before push", order)
	}
	if gotTitle != "I planned date with bea_24" {
		t.Fatalf("push title = %q", gotTitle)
	}
}

func TestDispatcherWebhookFailureStopsPush(t *testing.T) {
	t.Parallel()

	hookSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusBadGateway)
	}))
	defer hookSrv.Close()

	var pushed bool
	pushSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		pushed = true
	}))
	defer pushSrv.Close()

	d := &Dispatcher{
		webhook: mustWebhook(t, hookSrv.URL),
		push:    &PushbulletClient{apiKey: "key", pushURL: pushSrv.URL, httpClient: pushSrv.Client()},
	}
	if err := d.ContactCaptured(context.Background(), "bea_24", "Phone 123"); err == nil {
		t.Fatal("ContactCaptured() should surface the hook failure")
	}
	if pushed {
		t.Fatal("push must not fire when the hook fails")
	}
}
