package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/maxviazov/bookshelf-paginate/internal/service"
	"github.com/maxviazov/bookshelf-paginate/pkg/paginate"
	"github.com/maxviazov/bookshelf-paginate/pkg/response"
)

type BookHandler struct {
	svc service.BookService
}

func NewBookHandler(svc service.BookService) *BookHandler { return &BookHandler{svc: svc} }

func (h *BookHandler) Register(r *gin.RouterGroup) {
	g := r.Group("/books")
	{
		g.POST("", h.create)
		g.GET("", h.list)
		g.GET("/:id", h.getByID)
	}
}

// Price accepts both "12.50" and 12.5.
type createBookRequest struct {
	AuthorID    int64           `json:"author_id"`
	Title       string          `json:"title"`
	Price       decimal.Decimal `json:"price"`
	PublishedAt *time.Time      `json:"published_at"`
}

func (h *BookHandler) create(c *gin.Context) {
	var req createBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.WriteError(c, service.ErrInvalidInput)
		return
	}
	b, err := h.svc.CreateBook(c.Request.Context(), service.NewBook{
		AuthorID:    req.AuthorID,
		Title:       req.Title,
		Price:       req.Price,
		PublishedAt: req.PublishedAt,
	})
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusCreated, b)
}

// getByID accepts the same withRelated/columns keys as the list endpoint.
func (h *BookHandler) getByID(c *gin.Context) {
	id, _ := strconv.ParseInt(c.Param("id"), 10, 64)
	fetch := paginate.OptionsFromQuery(c.Request.URL.Query()).Fetch
	b, err := h.svc.GetBook(c.Request.Context(), id, fetch)
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, b)
}

func (h *BookHandler) list(c *gin.Context) {
	res, err := h.svc.ListBooks(c.Request.Context(), paginate.OptionsFromQuery(c.Request.URL.Query()))
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, res)
}
