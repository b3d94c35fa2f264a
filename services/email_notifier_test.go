package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResendNotifier_Notify(t *testing.T) {
	var got resendEmailRequest
	var auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Write([]byte(`{"id":"email-1"}`))
	}))
	defer srv.Close()

	notifier := NewResendNotifier(srv.Client(), srv.URL, "key", "alerts@example.com", []string{"owner@example.com"})
	require.NoError(t, notifier.Notify(context.Background(), "500 on PUT /projects/3", "details"))

	assert.Equal(t, "Bearer key", auth)
	assert.Equal(t, "alerts@example.com", got.From)
	assert.Equal(t, []string{"owner@example.com"}, got.To)
	assert.Equal(t, "500 on PUT /projects/3", got.Subject)
	assert.Equal(t, "details", got.Text)
}

func TestResendNotifier_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"message":"invalid from address"}`))
	}))
	defer srv.Close()

	notifier := NewResendNotifier(srv.Client(), srv.URL, "key", "bad", []string{"owner@example.com"})
	err := notifier.Notify(context.Background(), "s", "b")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid from address")
}

func TestNewResendNotifierFromConfig_Disabled(t *testing.T) {
	assert.Nil(t, NewResendNotifierFromConfig(map[string]string{"RESEND_API_KEY": "k"}))
}
