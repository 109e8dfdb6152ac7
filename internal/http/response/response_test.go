package response

import (
	"bytes"
	"encoding/json/v2"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerrors "github.com/listenupapp/readlog-server/internal/errors"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestJSON(t *testing.T) {
	w := httptest.NewRecorder()

	JSON(w, http.StatusOK, []map[string]string{{"id": "1"}}, nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json; charset=utf-8", w.Header().Get("Content-Type"))
	assert.JSONEq(t, `[{"id":"1"}]`, w.Body.String())
}

func TestCreated(t *testing.T) {
	w := httptest.NewRecorder()

	Created(w, map[string]string{"id": "abc"}, discardLogger())

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.JSONEq(t, `{"id":"abc"}`, w.Body.String())
}

func TestNoContent(t *testing.T) {
	w := httptest.NewRecorder()

	NoContent(w)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Body.String())
}

func TestHandleError(t *testing.T) {
	genreErr := &domainerrors.Error{Code: domainerrors.CodeGenreNotFound, Message: "genres not found"}
	var genreDetails domainerrors.FieldErrors
	genreDetails.Add("genres", domainerrors.FieldNotFound, int64(999))
	genreErr = genreErr.WithDetails(genreDetails)

	var validation domainerrors.FieldErrors
	validation.Add("title", domainerrors.FieldEmpty)

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantBody   string
	}{
		{
			name:       "validation",
			err:        validation.Err("validation failed"),
			wantStatus: http.StatusBadRequest,
			wantBody:   `{"message":"validation failed","details":{"title":[{"code":"EMPTY","params":[]}]}}`,
		},
		{
			name:       "missing genre",
			err:        fmt.Errorf("add book: %w", genreErr),
			wantStatus: http.StatusUnprocessableEntity,
			wantBody:   `{"message":"genres not found","details":{"genres":[{"code":"NOT_FOUND","params":[999]}]}}`,
		},
		{
			name:       "invalid body",
			err:        domainerrors.InvalidBody("book must be valid JSON"),
			wantStatus: http.StatusBadRequest,
			wantBody:   `{"code":"INVALID_BODY","message":"book must be valid JSON"}`,
		},
		{
			name:       "not found",
			err:        domainerrors.NotFoundf("book %s not found", "b1"),
			wantStatus: http.StatusNotFound,
			wantBody:   `{"code":"NOT_FOUND","message":"book b1 not found"}`,
		},
		{
			name:       "conflict",
			err:        domainerrors.Conflictf("book %s was modified", "abc"),
			wantStatus: http.StatusConflict,
			wantBody:   `{"code":"CONFLICT","message":"book abc was modified"}`,
		},
		{
			name:       "unsupported media type",
			err:        domainerrors.UnsupportedMediaType("cover must be a JPEG or PNG image"),
			wantStatus: http.StatusUnsupportedMediaType,
			wantBody:   `{"code":"UNSUPPORTED_MEDIA_TYPE","message":"cover must be a JPEG or PNG image"}`,
		},
		{
			name:       "storage keeps message",
			err:        domainerrors.Wrap(errors.New("disk full"), domainerrors.CodeStorage, "failed to save file"),
			wantStatus: http.StatusInternalServerError,
			wantBody:   `{"code":"STORAGE","message":"failed to save file"}`,
		},
		{
			name:       "internal hides message",
			err:        domainerrors.Wrap(errors.New("sqlite: table books is locked"), domainerrors.CodeInternal, "list books"),
			wantStatus: http.StatusInternalServerError,
			wantBody:   `{"code":"INTERNAL","message":"internal server error"}`,
		},
		{
			name:       "unknown error",
			err:        errors.New("boom"),
			wantStatus: http.StatusInternalServerError,
			wantBody:   `{"code":"INTERNAL","message":"internal server error"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()

			HandleError(w, tt.err, discardLogger())

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.JSONEq(t, tt.wantBody, w.Body.String())
		})
	}
}

func TestHandleError_LogsUnknownErrors(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	HandleError(httptest.NewRecorder(), errors.New("connection reset"), logger)

	assert.Contains(t, buf.String(), "connection reset")
}

func TestValidationError_NilDetails(t *testing.T) {
	w := httptest.NewRecorder()

	ValidationError(w, http.StatusBadRequest, "validation failed", nil, nil)

	var body ValidationBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.NotNil(t, body.Details)
	assert.JSONEq(t, `{"message":"validation failed","details":{}}`, w.Body.String())
}
