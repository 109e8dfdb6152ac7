package api

import (
	"net/http"

	"github.com/listenupapp/readlog-server/internal/api/dto"
	"github.com/listenupapp/readlog-server/internal/http/response"
)

// handleListGenres returns all genres named in the request language.
func (s *Server) handleListGenres(w http.ResponseWriter, r *http.Request) {
	genres, err := s.services.Genre.ListGenres(r.Context())
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, dto.NewGenreDtos(genres), s.logger)
}
