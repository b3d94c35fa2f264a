package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type chanNotifier struct {
	subjects chan string
}

func (n chanNotifier) Notify(_ context.Context, subject, _ string) error {
	n.subjects <- subject
	return nil
}

func TestLogInternalServerErrors_RecoversPanic(t *testing.T) {
	notifier := chanNotifier{subjects: make(chan string, 1)}
	handler := notifyServerErrors(notifier)(LogInternalServerErrors(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	})))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/explode", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "boom")

	select {
	case subject := <-notifier.subjects:
		assert.Equal(t, "500 on GET /explode", subject)
	case <-time.After(2 * time.Second):
		t.Fatal("no notification sent")
	}
}

func TestNotifyServerErrors_IgnoresClientErrors(t *testing.T) {
	notifier := chanNotifier{subjects: make(chan string, 1)}
	handler := notifyServerErrors(notifier)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/missing", nil))
	require.Equal(t, http.StatusNotFound, rec.Code)

	select {
	case subject := <-notifier.subjects:
		t.Fatalf("unexpected notification %q", subject)
	case <-time.After(50 * time.Millisecond):
	}
}
