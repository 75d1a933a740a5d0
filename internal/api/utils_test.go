package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type decodeTarget struct {
	Names []string `json:"names"`
}

func TestDecodeJSONBody(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{name: "valid", body: `{"names":["Paris"]}`},
		{name: "empty", body: ``, wantErr: "body must not be empty"},
		{name: "unknown field", body: `{"nam":["Paris"]}`, wantErr: `body contains unknown key "nam"`},
		{name: "wrong type", body: `{"names":"Paris"}`, wantErr: `incorrect JSON type for field "names"`},
		{name: "trailing data", body: `{"names":[]}{}`, wantErr: "single JSON value"},
		{name: "truncated", body: `{"names":[`, wantErr: "badly-formed JSON"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))
			var dst decodeTarget
			err := DecodeJSONBody(httptest.NewRecorder(), req, &dst)
			if tt.wantErr == "" {
				require.NoError(t, err)
				assert.Equal(t, []string{"Paris"}, dst.Names)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestErrorResponseEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()
	ErrorResponse(rec, httptest.NewRequest(http.MethodGet, "/", nil), http.StatusBadRequest, "name is required")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "name is required", body["error"])
}

func TestQueryInt(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/?count=7&bad=x", nil)
	assert.Equal(t, 7, QueryInt(req, "count", 4))
	assert.Equal(t, 4, QueryInt(req, "bad", 4))
	assert.Equal(t, 4, QueryInt(req, "missing", 4))
}
