package handler

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/forgo/packlist/internal/database"
	"github.com/forgo/packlist/internal/model"
	"github.com/forgo/packlist/internal/service"
	"github.com/stretchr/testify/assert"
)

func TestMapServiceError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		err    error
		status int
		code   model.ErrorCode
	}{
		{"invalid credentials", service.ErrInvalidCredentials, http.StatusUnauthorized, model.ErrCodeLoginFailed},
		{"deleted user", service.ErrUserNotFound, http.StatusUnauthorized, model.ErrCodeUnauthorized},
		{"missing packing list", service.ErrPackListNotFound, http.StatusNotFound, model.ErrCodeNotFound},
		{"wrapped not found", fmt.Errorf("get: %w", service.ErrPackListNotFound), http.StatusNotFound, model.ErrCodeNotFound},
		{"username taken", service.ErrUsernameTaken, http.StatusConflict, model.ErrCodeConflict},
		{"field error", &service.FieldError{Field: "email", Err: service.ErrInvalidEmail}, http.StatusUnprocessableEntity, model.ErrCodeValidation},
		{"query failure", fmt.Errorf("%w: syntax", database.ErrQuery), http.StatusInternalServerError, model.ErrCodeInternal},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, model.ErrCodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			p := MapServiceError(tt.err)
			assert.Equal(t, tt.status, p.Status)
			assert.Equal(t, tt.code, p.Code)
		})
	}
}

func TestMapServiceError_NilIsNil(t *testing.T) {
	t.Parallel()
	assert.Nil(t, MapServiceError(nil))
}

func TestMapServiceError_InternalHidesCause(t *testing.T) {
	t.Parallel()
	p := MapServiceError(errors.New("password=hunter2 leaked"))
	assert.Equal(t, model.GenericFailureDetail, p.Detail)
}
