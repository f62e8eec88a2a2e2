package telegram

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"ContentWriter/internal/config"
)

func TestNotifyPostsForm(t *testing.T) {
	t.Parallel()

	var path, chat, text string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		_ = r.ParseForm()
		chat = r.PostForm.Get("chat_id")
		text = r.PostForm.Get("text")
	}))
	defer srv.Close()

	n := NewNotifier(config.TelegramConfig{BotToken: "tok", ChatID: "42"})
	n.apiBase = srv.URL

	if err := n.Notify(context.Background(), "Published: Compost basics"); err != nil {
		t.Fatalf("Notify: %v", err)
	}
	if path != "/bottok/sendMessage" || chat != "42" || text != "Published: Compost basics" {
		t.Fatalf("unexpected request: path=%s chat=%s text=%s", path, chat, text)
	}
}

func TestNotifyRequiresConfig(t *testing.T) {
	t.Parallel()

	n := NewNotifier(config.TelegramConfig{})
	if n.Configured() {
		t.Fatalf("empty config should not be configured")
	}
	if err := n.Notify(context.Background(), "x"); err == nil {
		t.Fatalf("expected error")
	}
}

func TestNotifyReportsHTTPError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	n := NewNotifier(config.TelegramConfig{BotToken: "tok", ChatID: "42"})
	n.apiBase = srv.URL
	if err := n.Notify(context.Background(), "x"); err == nil {
		t.Fatalf("expected error on 403")
	}
}
