package api

import (
	"encoding/json/v2"
	"errors"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	domainerrors "github.com/listenupapp/readlog-server/internal/errors"
	"github.com/listenupapp/readlog-server/internal/service"
)

// bookID parses the {id} URL parameter.
func (s *Server) bookID(r *http.Request) (uuid.UUID, error) {
	return s.services.Validator.ValidateID(chi.URLParam(r, "id"))
}

// decodeJSON reads a JSON body of at most MaxUploadSize into dst.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	body := http.MaxBytesReader(w, r.Body, MaxUploadSize)
	if err := json.UnmarshalRead(body, dst); err != nil {
		if tooLarge(err) {
			return bodyTooLarge()
		}
		return domainerrors.Wrap(err, domainerrors.CodeInvalidBody, "request body must be valid JSON")
	}
	return nil
}

// parseMultipart checks the content type and parses a multipart body of
// at most MaxUploadSize.
func parseMultipart(w http.ResponseWriter, r *http.Request) error {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil || mediaType != "multipart/form-data" {
		return domainerrors.UnsupportedMediaType("request must be multipart/form-data")
	}

	r.Body = http.MaxBytesReader(w, r.Body, MaxUploadSize)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		if tooLarge(err) {
			return bodyTooLarge()
		}
		return domainerrors.Wrap(err, domainerrors.CodeInvalidBody, "malformed multipart body")
	}
	return nil
}

// multipartJSON decodes the JSON carried by a multipart field. The value
// may be sent either as a plain form value or as a file part.
func multipartJSON(r *http.Request, field string, dst any) error {
	form := r.MultipartForm

	var raw []byte
	switch {
	case len(form.Value[field]) > 0:
		raw = []byte(form.Value[field][0])
	case len(form.File[field]) > 0:
		data, _, err := readPart(form.File[field][0])
		if err != nil {
			return err
		}
		raw = data
	default:
		return domainerrors.InvalidBody("missing " + field + " part")
	}

	if err := json.Unmarshal(raw, dst); err != nil {
		return domainerrors.Wrap(err, domainerrors.CodeInvalidBody, field+" must be valid JSON")
	}
	return nil
}

// coverUpload returns the uploaded cover, or nil when none was sent.
func coverUpload(r *http.Request) (*service.CoverUpload, error) {
	files := r.MultipartForm.File[fieldCover]
	if len(files) == 0 {
		return nil, nil
	}

	data, name, err := readPart(files[0])
	if err != nil {
		return nil, err
	}
	return &service.CoverUpload{Data: data, FileName: name}, nil
}

func readPart(fh *multipart.FileHeader) ([]byte, string, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, "", domainerrors.Wrap(err, domainerrors.CodeInvalidBody, "unreadable file part")
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, "", domainerrors.Wrap(err, domainerrors.CodeInvalidBody, "unreadable file part")
	}
	return data, fh.Filename, nil
}

// formVersion reads the optional version form value. Missing means zero.
func formVersion(r *http.Request) (int64, error) {
	raw := strings.TrimSpace(r.FormValue(fieldVersion))
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || v < 0 {
		var fe domainerrors.FieldErrors
		fe.Add(fieldVersion, domainerrors.FieldInvalid, raw)
		return 0, fe.Err("invalid version")
	}
	return v, nil
}

func tooLarge(err error) bool {
	var maxErr *http.MaxBytesError
	return errors.As(err, &maxErr) || errors.Is(err, multipart.ErrMessageTooLarge)
}

func bodyTooLarge() error {
	return domainerrors.InvalidBody("request body exceeds 10 MiB")
}
