package http

import (
	"net/http"
	"strconv"

	"github.com/aussiebroadwan/shelf/internal/shelf/service"
	"github.com/aussiebroadwan/shelf/pkg/httpx"
)

// BookHandler serves /api/books. Every route sits behind
// httpx.RequireIdentity.
type BookHandler struct {
	BookService *service.BookService
}

// HandleSearch handles GET /api/books/search
//
//	@Summary		Search the catalog
//	@Tags			Books
//	@Produce		json
//	@Security		BearerAuth
//	@Param			q		query		string	true	"search terms"
//	@Param			page	query		int		false	"zero based page"	default(0)
//	@Param			size	query		int		false	"page size"			default(10)	maximum(100)
//	@Success		200		{object}	BookSearchResponse
//	@Failure		400		{object}	ErrorResponse
//	@Failure		401		{object}	ErrorResponse
//	@Failure		502		{object}	ErrorResponse	"catalog unavailable"
//	@Router			/api/books/search [get].
func (h *BookHandler) HandleSearch(w http.ResponseWriter, r *http.Request) {
	page, size, ok := pageParams(w, r)
	if !ok {
		return
	}

	res, err := h.BookService.Search(r.Context(), r.URL.Query().Get("q"), page, size)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	books := make([]SimplifiedBook, 0, len(res.Volumes))
	for _, v := range res.Volumes {
		books = append(books, fromVolume(v))
	}
	httpx.WriteJSON(w, http.StatusOK, BookSearchResponse{TotalItems: res.TotalItems, Books: books})
}

// HandleVolume handles GET /api/books/{id}
//
//	@Summary		Catalog volume
//	@Tags			Books
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id	path		string	true	"Google Books volume id"
//	@Success		200	{object}	SimplifiedBook
//	@Failure		401	{object}	ErrorResponse
//	@Failure		404	{object}	ErrorResponse
//	@Failure		502	{object}	ErrorResponse	"catalog unavailable"
//	@Router			/api/books/{id} [get].
func (h *BookHandler) HandleVolume(w http.ResponseWriter, r *http.Request) {
	v, err := h.BookService.Volume(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, fromVolume(v))
}

// HandleAdd handles POST /api/books
//
//	@Summary		Mark a book as read
//	@Tags			Books
//	@Accept			json
//	@Security		BearerAuth
//	@Param			request	body	SimplifiedBook	true	"googleBookId and title are required"
//	@Success		201		"added"
//	@Failure		400		{object}	ErrorResponse
//	@Failure		401		{object}	ErrorResponse
//	@Failure		409		{object}	ErrorResponse	"already on the read list"
//	@Router			/api/books [post].
func (h *BookHandler) HandleAdd(w http.ResponseWriter, r *http.Request) {
	id, _ := httpx.IdentityFromContext(r.Context())

	var req SimplifiedBook
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		httpx.ErrInvalidRequest.WithDescription("invalid JSON in request body").WriteError(w)
		return
	}

	if _, err := h.BookService.Add(r.Context(), id.UserID, req.toVolume()); err != nil {
		writeServiceError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
}

// HandleList handles GET /api/books
//
//	@Summary		Read list
//	@Tags			Books
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{array}		UserBook
//	@Failure		401	{object}	ErrorResponse
//	@Router			/api/books [get].
func (h *BookHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	id, _ := httpx.IdentityFromContext(r.Context())

	books, err := h.BookService.List(r.Context(), id.UserID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, fromBooks(books))
}

// HandlePaged handles GET /api/books/paged
//
//	@Summary		Read list, paged
//	@Tags			Books
//	@Produce		json
//	@Security		BearerAuth
//	@Param			page	query		int	false	"zero based page"	default(0)
//	@Param			size	query		int	false	"page size"			default(10)	maximum(100)
//	@Success		200		{object}	PagedUserBooksResponse
//	@Failure		400		{object}	ErrorResponse
//	@Failure		401		{object}	ErrorResponse
//	@Router			/api/books/paged [get].
func (h *BookHandler) HandlePaged(w http.ResponseWriter, r *http.Request) {
	id, _ := httpx.IdentityFromContext(r.Context())

	page, size, ok := pageParams(w, r)
	if !ok {
		return
	}

	p, err := h.BookService.Page(r.Context(), id.UserID, page, size)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, PagedUserBooksResponse{
		Content:       fromBooks(p.Items),
		TotalElements: p.Total,
	})
}

// HandleHasRead handles GET /api/books/books/read/{googleBookId}
//
//	@Summary		Has the caller read a volume
//	@Tags			Books
//	@Produce		json
//	@Security		BearerAuth
//	@Param			googleBookId	path		string	true	"Google Books volume id"
//	@Success		200				{boolean}	bool
//	@Failure		401				{object}	ErrorResponse
//	@Router			/api/books/books/read/{googleBookId} [get].
func (h *BookHandler) HandleHasRead(w http.ResponseWriter, r *http.Request) {
	id, _ := httpx.IdentityFromContext(r.Context())

	read, err := h.BookService.HasRead(r.Context(), id.UserID, r.PathValue("googleBookId"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, read)
}

// HandleDelete handles DELETE /api/books/{id}
//
//	@Summary		Remove a book from the read list
//	@Tags			Books
//	@Security		BearerAuth
//	@Param			id	path	int	true	"read list entry id"
//	@Success		204	"removed"
//	@Failure		400	{object}	ErrorResponse	"id is not a number"
//	@Failure		401	{object}	ErrorResponse
//	@Failure		403	{object}	ErrorResponse	"belongs to another user"
//	@Failure		404	{object}	ErrorResponse
//	@Router			/api/books/{id} [delete].
func (h *BookHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, _ := httpx.IdentityFromContext(r.Context())

	bookID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		httpx.ErrInvalidRequest.WithDescription("id must be a number").WriteError(w)
		return
	}

	if err := h.BookService.Delete(r.Context(), id.UserID, bookID); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func pageParams(w http.ResponseWriter, r *http.Request) (page, size int, ok bool) {
	page, err := httpx.QueryInt(r, "page", 0)
	if err != nil {
		httpx.ErrInvalidRequest.WithDescription("page must be a number").WriteError(w)
		return 0, 0, false
	}
	size, err = httpx.QueryInt(r, "size", service.DefaultPageSize)
	if err != nil {
		httpx.ErrInvalidRequest.WithDescription("size must be a number").WriteError(w)
		return 0, 0, false
	}
	return page, size, true
}
