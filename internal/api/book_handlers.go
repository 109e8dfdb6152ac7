package api

import (
	"net/http"

	"github.com/listenupapp/readlog-server/internal/api/dto"
	domainerrors "github.com/listenupapp/readlog-server/internal/errors"
	"github.com/listenupapp/readlog-server/internal/http/response"
)

// handleListBooks returns every book, newest first, or the books matching ?q=.
func (s *Server) handleListBooks(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	books, err := s.services.Book.SearchBooks(ctx, r.URL.Query().Get("q"))
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, dto.NewBookDtos(books, s.opts.ImageBaseURL), s.logger)
}

// handleGetBook returns a single book.
func (s *Server) handleGetBook(w http.ResponseWriter, r *http.Request) {
	id, err := s.bookID(r)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	book, err := s.services.Book.GetBook(r.Context(), id)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, dto.NewBookDto(book, s.opts.ImageBaseURL), s.logger)
}

// handleCreateBook creates a book from a multipart request carrying the
// book JSON and an optional cover file.
func (s *Server) handleCreateBook(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := parseMultipart(w, r); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	defer r.MultipartForm.RemoveAll() //nolint:errcheck // Temp file cleanup

	var req dto.BookCreationDto
	if err := multipartJSON(r, fieldBook, &req); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	payload, err := s.services.Validator.ValidateCreation(req.Input())
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	cover, err := coverUpload(r)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	book, err := s.services.Book.AddBook(ctx, payload, cover)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Created(w, dto.NewBookDto(book, s.opts.ImageBaseURL), s.logger)
}

// handleUpdateBook replaces a book's details.
func (s *Server) handleUpdateBook(w http.ResponseWriter, r *http.Request) {
	id, err := s.bookID(r)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	var req dto.BookUpdateDto
	if err := decodeJSON(w, r, &req); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	payload, err := s.services.Validator.ValidateUpdate(req.Input())
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	book, err := s.services.Book.UpdateBookDetails(r.Context(), id, payload)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, dto.NewBookDto(book, s.opts.ImageBaseURL), s.logger)
}

// handleUpdateCover replaces a book's cover.
func (s *Server) handleUpdateCover(w http.ResponseWriter, r *http.Request) {
	id, err := s.bookID(r)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	if err := parseMultipart(w, r); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	defer r.MultipartForm.RemoveAll() //nolint:errcheck // Temp file cleanup

	version, err := formVersion(r)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	cover, err := coverUpload(r)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	book, err := s.services.Book.UpdateBookCover(r.Context(), id, cover, version)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, dto.NewBookDto(book, s.opts.ImageBaseURL), s.logger)
}

// handleDeleteBook removes a book and its cover.
func (s *Server) handleDeleteBook(w http.ResponseWriter, r *http.Request) {
	id, err := s.bookID(r)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	deleted, err := s.services.Book.DeleteBook(r.Context(), id)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	if !deleted {
		response.HandleError(w, domainerrors.NotFoundf("book %s not found", id), s.logger)
		return
	}

	response.NoContent(w)
}
