package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/maxviazov/bookshelf-paginate/internal/service"
	"github.com/maxviazov/bookshelf-paginate/pkg/paginate"
	"github.com/maxviazov/bookshelf-paginate/pkg/response"
)

type AuthorHandler struct {
	svc   service.AuthorService
	books service.BookService
}

func NewAuthorHandler(svc service.AuthorService, books service.BookService) *AuthorHandler {
	return &AuthorHandler{svc: svc, books: books}
}

func (h *AuthorHandler) Register(r *gin.RouterGroup) {
	g := r.Group("/authors")
	{
		g.POST("", h.create)
		g.GET("", h.list)
		// author_id is shared with the nested books route so gin sees one wildcard name.
		g.GET("/:author_id", h.getByID)
		g.GET("/:author_id/books", h.listBooks)
	}
}

type createAuthorRequest struct {
	Name string `json:"name"`
}

func (h *AuthorHandler) create(c *gin.Context) {
	var req createAuthorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.WriteError(c, service.ErrInvalidInput)
		return
	}
	a, err := h.svc.CreateAuthor(c.Request.Context(), req.Name)
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusCreated, a)
}

func (h *AuthorHandler) getByID(c *gin.Context) {
	id, _ := strconv.ParseInt(c.Param("author_id"), 10, 64)
	a, err := h.svc.GetAuthor(c.Request.Context(), id)
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, a)
}

func (h *AuthorHandler) list(c *gin.Context) {
	res, err := h.svc.ListAuthors(c.Request.Context(), paginate.OptionsFromQuery(c.Request.URL.Query()))
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, res)
}

func (h *AuthorHandler) listBooks(c *gin.Context) {
	id, _ := strconv.ParseInt(c.Param("author_id"), 10, 64)
	res, err := h.books.ListBooksByAuthor(c.Request.Context(), id, paginate.OptionsFromQuery(c.Request.URL.Query()))
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, res)
}
