package models_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"slidecast-backend/internal/models"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "nil", err: nil, want: http.StatusOK},
		{name: "validation", err: fmt.Errorf("%w: bad id", models.ErrValidation), want: http.StatusBadRequest},
		{name: "conflict", err: fmt.Errorf("insert: %w", models.ErrConflict), want: http.StatusConflict},
		{name: "not found", err: models.ErrNotFound, want: http.StatusNotFound},
		{name: "unauthorized", err: fmt.Errorf("%w: expired", models.ErrUnauthorized), want: http.StatusUnauthorized},
		{name: "unknown", err: errors.New("connection reset"), want: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, models.HTTPStatus(tt.err))
		})
	}
}
