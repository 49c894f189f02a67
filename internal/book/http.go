package book

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/nagumeena22/ColabSphere/internal/httputil"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

type Handler struct {
	service  Service
	validate *validator.Validate
	logger   *slog.Logger
}

func NewHandler(service Service, logger *slog.Logger) *Handler {
	return &Handler{
		service:  service,
		validate: validator.New(),
		logger:   logger,
	}
}

// RegisterRoutes mounts reads on public and writes on protected.
func (h *Handler) RegisterRoutes(public, protected gin.IRouter) {
	public.GET("/books", h.GetAllBooks)
	public.GET("/books/search/title", h.SearchByTitle)
	public.GET("/books/:bookId", h.GetBook)

	protected.POST("/books", h.CreateBook)
	protected.PUT("/books/:bookId", h.ReplaceBook)
	protected.PATCH("/books/:bookId", h.PatchBook)
	protected.DELETE("/books/:bookId", h.DeleteBook)
}

func (h *Handler) CreateBook(c *gin.Context) {
	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil || h.validate.Struct(req) != nil {
		httputil.RespondWithError(c, http.StatusBadRequest, "Invalid request")
		return
	}

	created, err := h.service.CreateBook(c.Request.Context(), req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, created)
}

func (h *Handler) GetAllBooks(c *gin.Context) {
	books, err := h.service.GetAllBooks(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, books)
}

func (h *Handler) GetBook(c *gin.Context) {
	bookID, ok := httputil.ParamID(c, "bookId")
	if !ok {
		httputil.RespondWithError(c, http.StatusBadRequest, "Invalid book ID")
		return
	}

	b, err := h.service.GetBook(c.Request.Context(), bookID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, b)
}

func (h *Handler) ReplaceBook(c *gin.Context) {
	bookID, ok := httputil.ParamID(c, "bookId")
	if !ok {
		httputil.RespondWithError(c, http.StatusBadRequest, "Invalid book ID")
		return
	}

	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil || h.validate.Struct(req) != nil {
		httputil.RespondWithError(c, http.StatusBadRequest, "Invalid request")
		return
	}

	b, err := h.service.ReplaceBook(c.Request.Context(), bookID, req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, b)
}

func (h *Handler) PatchBook(c *gin.Context) {
	bookID, ok := httputil.ParamID(c, "bookId")
	if !ok {
		httputil.RespondWithError(c, http.StatusBadRequest, "Invalid book ID")
		return
	}

	var req PatchRequest
	if err := c.ShouldBindJSON(&req); err != nil || h.validate.Struct(req) != nil {
		httputil.RespondWithError(c, http.StatusBadRequest, "Invalid request")
		return
	}

	b, err := h.service.PatchBook(c.Request.Context(), bookID, req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, b)
}

func (h *Handler) DeleteBook(c *gin.Context) {
	bookID, ok := httputil.ParamID(c, "bookId")
	if !ok {
		httputil.RespondWithError(c, http.StatusBadRequest, "Invalid book ID")
		return
	}

	if err := h.service.DeleteBook(c.Request.Context(), bookID); err != nil {
		h.handleServiceError(c, err)
		return
	}

	httputil.RespondWithMessage(c, http.StatusOK, "Book deleted successfully")
}

func (h *Handler) SearchByTitle(c *gin.Context) {
	name := c.Query("name")
	if name == "" {
		httputil.RespondWithError(c, http.StatusBadRequest, "Book name query parameter is required")
		return
	}

	books, err := h.service.SearchByTitle(c.Request.Context(), name)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	if len(books) == 0 {
		httputil.RespondWithError(c, http.StatusNotFound, "No books found")
		return
	}

	c.JSON(http.StatusOK, books)
}

func (h *Handler) handleServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrBookNotFound):
		httputil.RespondWithError(c, http.StatusNotFound, "Book not found")
	case errors.Is(err, ErrBookExists):
		httputil.RespondWithError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrInvalidInput):
		httputil.RespondWithError(c, http.StatusBadRequest, "Invalid input")
	default:
		h.logger.ErrorContext(c.Request.Context(), "book request failed", "error", err)
		httputil.RespondWithError(c, http.StatusInternalServerError, "Internal server error")
	}
}
