package errs

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestNewDatabaseError(t *testing.T) {
	cases := []struct {
		name   string
		cause  error
		status int
		is     error
	}{
		{"duplicate key", gorm.ErrDuplicatedKey, http.StatusConflict, ErrAlreadyExists},
		{"postgres unique", errors.New(`ERROR: duplicate key value violates unique constraint "idx_projects_name"`), http.StatusConflict, ErrAlreadyExists},
		{"sqlite unique", errors.New("UNIQUE constraint failed: projects.name"), http.StatusConflict, ErrAlreadyExists},
		{"not found", gorm.ErrRecordNotFound, http.StatusNotFound, ErrNotFound},
		{"connection", errors.New("dial tcp: connection refused"), http.StatusServiceUnavailable, ErrDatabaseConnection},
		{"other", errors.New("syntax error at or near"), http.StatusInternalServerError, ErrDatabaseQuery},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := NewDatabaseError("find", "project", tc.cause)
			assert.Equal(t, tc.status, StatusCode(err))
			assert.ErrorIs(t, err, tc.is)
		})
	}
}

func TestNewDatabaseError_KeepsApiErr(t *testing.T) {
	original := NewNotFound("technology")
	err := NewDatabaseError("update", "project", original)
	assert.Same(t, original, err)
}

func TestMessagesAndPredicates(t *testing.T) {
	notFound := NewNotFound("project")
	assert.Equal(t, "project not found", notFound.Message())
	assert.True(t, IsNotFound(notFound))

	wrapped := fmt.Errorf("update 3: %w", notFound)
	assert.True(t, IsNotFound(wrapped))
	assert.Equal(t, http.StatusNotFound, StatusCode(wrapped))

	conflict := NewConflictError("username taken")
	assert.Equal(t, "username taken", conflict.Error())
	assert.True(t, IsConflict(conflict))
	assert.True(t, IsConflict(NewAlreadyExists("moderator alice")))

	missing := NewMissingRequiredFieldError("name")
	assert.True(t, IsValidationError(missing))
	assert.Equal(t, "name", missing.Field)
	assert.Equal(t, "missing required field: Missing required field: name", missing.Error())

	assert.True(t, IsUnauthenticated(Unauthorized))
	assert.Equal(t, http.StatusInternalServerError, StatusCode(errors.New("plain")))
}

func TestGetFullError(t *testing.T) {
	err := NewInternalErrorWithCause("could not create session", errors.New("disk full"))
	assert.Equal(t, "could not create session -> disk full", err.GetFullError())
}
