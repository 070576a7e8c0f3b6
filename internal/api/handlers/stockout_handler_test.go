package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/andresuchdata/wms-stockout/internal/model"
	"github.com/andresuchdata/wms-stockout/internal/pipeline/snapshot"
	"github.com/andresuchdata/wms-stockout/internal/service"
	"github.com/stretchr/testify/assert"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "unknown master", err: service.ErrUnknownMaster, want: http.StatusNotFound},
		{name: "snapshot not found", err: fmt.Errorf("lookup: %w", service.ErrSnapshotNotFound), want: http.StatusNotFound},
		{name: "no model", err: model.ErrModelNotFound, want: http.StatusConflict},
		{name: "invalid input", err: service.ErrInvalidInput, want: http.StatusBadRequest},
		{name: "invalid periods", err: snapshot.ErrInvalidPeriods, want: http.StatusBadRequest},
		{name: "missing feature", err: fmt.Errorf("row: %w", model.ErrMissingFeature), want: http.StatusUnprocessableEntity},
		{name: "single class", err: model.ErrSingleClass, want: http.StatusUnprocessableEntity},
		{name: "not enough groups", err: model.ErrNotEnoughGroups, want: http.StatusUnprocessableEntity},
		{name: "other", err: errors.New("boom"), want: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, statusFor(tt.err))
		})
	}
}
