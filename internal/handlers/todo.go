package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	dom "github.com/Jaco-Potgieter/todo/internal/domain"
	"github.com/Jaco-Potgieter/todo/internal/dto"
	"github.com/Jaco-Potgieter/todo/internal/service"

	"github.com/gin-gonic/gin"
)

type TodoHandler struct {
	svc *service.TodoService
	log *slog.Logger
}

func NewTodoHandler(svc *service.TodoService, log *slog.Logger) *TodoHandler {
	if log == nil {
		log = slog.Default()
	}
	return &TodoHandler{svc: svc, log: log}
}

// List godoc
// @Summary      List all todos
// @Tags         todos
// @Produce      json
// @Success      200  {array}   dto.TodoResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /todo [get]
func (h *TodoHandler) List(c *gin.Context) {
	list, err := h.svc.GetAllItems(c.Request.Context())
	if err != nil {
		h.fail(c, err, "error fetching all todo items")
		return
	}
	c.JSON(http.StatusOK, dto.TodosToResponses(list))
}

// GetByID godoc
// @Summary      Get a todo by ID
// @Tags         todos
// @Produce      json
// @Param        id   path      int  true  "Todo ID"
// @Success      200  {object}  dto.TodoResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /todo/{id} [get]
func (h *TodoHandler) GetByID(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	t, err := h.svc.GetItemByID(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err, "error fetching todo item", "id", id)
		return
	}
	c.JSON(http.StatusOK, dto.TodoToResponse(t))
}

// Create godoc
// @Summary      Create a todo
// @Tags         todos
// @Accept       json
// @Produce      json
// @Param        body  body      dto.CreateTodoRequest  true  "Todo body"
// @Success      201   {object}  dto.TodoResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      500   {object}  dto.ErrorResponse
// @Router       /todo/createItem [post]
func (h *TodoHandler) Create(c *gin.Context) {
	var req dto.CreateTodoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}
	t, err := req.ToTodo()
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}

	created, err := h.svc.CreateItem(c.Request.Context(), t)
	if err != nil {
		h.fail(c, err, "error creating todo item", "title", t.Title)
		return
	}
	c.JSON(http.StatusCreated, dto.TodoToResponse(created))
}

// Update godoc
// @Summary      Partially update a todo
// @Description  Fields that are absent or null keep their stored value.
// @Tags         todos
// @Accept       json
// @Produce      json
// @Param        id    path      int  true  "Todo ID"
// @Param        body  body      dto.UpdateTodoRequest  true  "Partial update"
// @Success      200   {object}  dto.TodoResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      500   {object}  dto.ErrorResponse
// @Router       /todo/{id} [put]
func (h *TodoHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateTodoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}
	patch, err := req.ToPatch()
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}

	t, err := h.svc.UpdateItem(c.Request.Context(), id, patch)
	if err != nil {
		h.fail(c, err, "error updating todo item", "id", id)
		return
	}
	c.JSON(http.StatusOK, dto.TodoToResponse(t))
}

// Delete godoc
// @Summary      Delete a todo
// @Tags         todos
// @Param        id   path  int  true  "Todo ID"
// @Success      204
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /todo/{id} [delete]
func (h *TodoHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.DeleteItem(c.Request.Context(), id); err != nil {
		h.fail(c, err, "error deleting todo item", "id", id)
		return
	}
	c.Status(http.StatusNoContent)
}

// ListByStatus godoc
// @Summary      List todos with a given status
// @Tags         todos
// @Produce      json
// @Param        status  path      string  true  "Status"  Enums(NEW, IN_PROGRESS, COMPLETED)
// @Success      200     {array}   dto.TodoResponse
// @Failure      400     {object}  dto.ErrorResponse
// @Failure      500     {object}  dto.ErrorResponse
// @Router       /todo/status/{status} [get]
func (h *TodoHandler) ListByStatus(c *gin.Context) {
	status, err := dom.ParseStatus(c.Param("status"))
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}
	list, err := h.svc.GetItemsByStatus(c.Request.Context(), status)
	if err != nil {
		h.fail(c, err, "error fetching todo items by status", "status", status)
		return
	}
	c.JSON(http.StatusOK, dto.TodosToResponses(list))
}

// fail maps a service error to a response. Only ErrNotFound and
// ErrInvalidStatusTransition reach the client; anything else is a 500.
// The service already logs the first two.
func (h *TodoHandler) fail(c *gin.Context, err error, msg string, attrs ...any) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: err.Error()})
	case errors.Is(err, service.ErrInvalidStatusTransition):
		c.JSON(http.StatusConflict, dto.ErrorResponse{Error: err.Error()})
	default:
		attrs = append(attrs, "error", err)
		h.log.ErrorContext(c.Request.Context(), msg, attrs...)
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "internal server error"})
	}
}

func parseID(c *gin.Context, name string) (int64, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid id"})
		return 0, false
	}
	return id, true
}
