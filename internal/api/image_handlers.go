package api

import (
	"net/http"
	"path"

	"github.com/go-chi/chi/v5"

	domainerrors "github.com/listenupapp/readlog-server/internal/errors"
	"github.com/listenupapp/readlog-server/internal/http/response"
)

// handleGetImage streams a stored file such as "covers/{uuid}.png".
func (s *Server) handleGetImage(w http.ResponseWriter, r *http.Request) {
	rel := chi.URLParam(r, "*")

	// Exists is false for paths escaping the storage root too.
	if !s.opts.Files.Exists(rel) {
		response.HandleError(w, domainerrors.NotFoundf("file %s not found", rel), s.logger)
		return
	}

	f, err := s.opts.Files.Open(rel)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil || !info.Mode().IsRegular() {
		response.HandleError(w, domainerrors.NotFoundf("file %s not found", rel), s.logger)
		return
	}

	w.Header().Set("Cache-Control", CacheImmutable)
	http.ServeContent(w, r, path.Base(rel), info.ModTime(), f)
}
