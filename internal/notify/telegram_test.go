package notify

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testToken = "test-token"

func newTestClient(serverURL string) *TelegramClient {
	return NewTelegramClient(serverURL, testToken, 200*time.Millisecond)
}

func TestGetChatUsername_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, fmt.Sprintf("/bot%s/getChat", testToken), r.URL.Path)
		assert.Equal(t, "S1", r.URL.Query().Get("chat_id"))

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"ok": true, "result": {"username": "alice"}}`)
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	name, err := client.GetChatUsername(context.Background(), "S1")

	require.NoError(t, err)
	assert.Equal(t, "alice", name)
}

func TestGetChatUsername_NonOKStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprint(w, `{"ok": false}`)
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	_, err := client.GetChatUsername(context.Background(), "S1")

	assert.Error(t, err)
}

func TestGetChatUsername_MalformedBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `not json`)
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	_, err := client.GetChatUsername(context.Background(), "S1")

	assert.Error(t, err)
}

func TestGetChatUsername_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(500 * time.Millisecond)
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	_, err := client.GetChatUsername(context.Background(), "S1")

	assert.Error(t, err)
}

func TestSendMessage_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, fmt.Sprintf("/bot%s/sendMessage", testToken), r.URL.Path)

		require.NoError(t, r.ParseForm())
		assert.Equal(t, "D1", r.PostForm.Get("chat_id"))
		assert.Equal(t, "hello", r.PostForm.Get("text"))

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"ok": true}`)
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	err := client.SendMessage(context.Background(), "D1", "hello")

	assert.NoError(t, err)
}

func TestSendMessage_ProviderRejection(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Transport succeeded, provider said no.
		fmt.Fprint(w, `{"ok": false}`)
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	err := client.SendMessage(context.Background(), "D1", "hello")

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrRejected)
}

func TestSendMessage_NonOKStatusIsTransport(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	err := client.SendMessage(context.Background(), "D1", "hello")

	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrRejected)
}

func TestSendMessage_MalformedBodyIsTransport(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `garbage`)
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	err := client.SendMessage(context.Background(), "D1", "hello")

	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrRejected)
}

func TestSendMessage_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(500 * time.Millisecond)
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	err := client.SendMessage(context.Background(), "D1", "hello")

	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrRejected)
}
