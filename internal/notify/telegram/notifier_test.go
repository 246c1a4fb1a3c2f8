package telegram

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNotifySendsFormPayload(t *testing.T) {
	t.Parallel()

	var gotPath, gotChatID, gotText, gotMode string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		require.NoError(t, r.ParseForm())
		gotChatID = r.PostFormValue("chat_id")
		gotText = r.PostFormValue("text")
		gotMode = r.PostFormValue("parse_mode")
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	n := New(Config{Token: "test-token", BaseURL: srv.URL}, zap.NewNop())
	require.True(t, n.Enabled())

	err := n.Notify(context.Background(), "12345", "🚨 **Infra** (score 2)")
	require.NoError(t, err)
	require.Equal(t, "/bottest-token/sendMessage", gotPath)
	require.Equal(t, "12345", gotChatID)
	require.Equal(t, "🚨 **Infra** (score 2)", gotText)
	require.Equal(t, "Markdown", gotMode)
}

func TestNotifyErrorStatus(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"ok":false,"description":"Bad Request: chat not found"}`, http.StatusBadRequest)
	}))
	defer srv.Close()

	n := New(Config{Token: "test-token", BaseURL: srv.URL}, zap.NewNop())
	err := n.Notify(context.Background(), "12345", "hello")
	require.Error(t, err)
	require.Contains(t, err.Error(), "400")
	require.Contains(t, err.Error(), "chat not found")
}

func TestNotifyDisabledWithoutToken(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, _ *http.Request) {
		t.Fatal("disabled notifier must not call the API")
	}))
	defer srv.Close()

	n := New(Config{Token: "", BaseURL: srv.URL}, zap.NewNop())
	require.False(t, n.Enabled())
	require.NoError(t, n.Notify(context.Background(), "12345", "hello"))
}
