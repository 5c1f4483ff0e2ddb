package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	apperrors "staymi/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractLimitOffset(t *testing.T) {
	tests := []struct {
		name       string
		query      string
		wantLimit  int
		wantOffset int64
		wantErr    bool
	}{
		{"defaults", "", 10, 0, false},
		{"explicit", "?limit=25&offset=50", 25, 50, false},
		{"capped", "?limit=1000", 100, 0, false},
		{"negative offset", "?offset=-4", 10, 0, false},
		{"bad limit", "?limit=ten", 0, 0, true},
		{"bad offset", "?offset=x", 0, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/api/v1/hotels"+tt.query, nil)
			limit, offset, err := ExtractLimitOffset(r)
			if tt.wantErr {
				assert.True(t, apperrors.HasCode(err, apperrors.CodeInvalidInput))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantLimit, limit)
			assert.Equal(t, tt.wantOffset, offset)
		})
	}
}

func TestDecodeJSON(t *testing.T) {
	type body struct {
		Name string `json:"name"`
	}

	tests := []struct {
		name    string
		payload string
		wantErr bool
	}{
		{"valid", `{"name":"Sea View"}`, false},
		{"empty", ``, true},
		{"malformed", `{"name":`, true},
		{"unknown field", `{"name":"x","stars":5}`, true},
		{"wrong type", `{"name":5}`, true},
		{"two objects", `{"name":"a"}{"name":"b"}`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.payload))
			var dst body
			err := DecodeJSON(r, &dst)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, "Sea View", dst.Name)
		})
	}
}

func TestWriteError(t *testing.T) {
	t.Run("app error keeps status and details", func(t *testing.T) {
		rec := httptest.NewRecorder()
		err := apperrors.NotFoundWithID("Hotel", "abc")
		require.NoError(t, WriteError(rec, err))

		assert.Equal(t, http.StatusNotFound, rec.Code)
		var resp ErrorResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "Hotel not found", resp.Error)
		assert.Equal(t, apperrors.CodeNotFound, resp.Code)
		assert.Equal(t, "abc", resp.Details["id"])
	})

	t.Run("plain error hides cause", func(t *testing.T) {
		rec := httptest.NewRecorder()
		require.NoError(t, WriteError(rec, errors.New("mongo exploded")))

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.NotContains(t, rec.Body.String(), "mongo exploded")
	})
}

func TestWritePaginated(t *testing.T) {
	rec := httptest.NewRecorder()
	require.NoError(t, WritePaginated(rec, []string{"a", "b"}, 12, 2, 4))

	var resp PaginatedResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, int64(12), resp.TotalCount)
	assert.Equal(t, 2, resp.Limit)
	assert.Equal(t, int64(4), resp.Offset)
}
