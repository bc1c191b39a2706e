package handlers

import (
	"net/http"

	"lashstudio/middleware"
	"lashstudio/models"
	"lashstudio/services/user"
	"lashstudio/utils"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	UserService user.UserService
}

func NewUserHandler(svc user.UserService) *UserHandler {
	return &UserHandler{UserService: svc}
}

// RegisterHandler handles POST /api/users/register for a freshly signed-up Firebase account.
func (h *UserHandler) RegisterHandler(c *gin.Context) {
	uid, email := middleware.IdentityFrom(c)
	var in user.RegisterInput
	if !bindJSON(c, &in) {
		return
	}
	u, err := h.UserService.Register(c.Request.Context(), user.Identity{UID: uid, Email: email}, in)
	if err != nil {
		utils.RespondError(c, getLogger(c), err)
		return
	}
	utils.RespondOK(c, http.StatusCreated, gin.H{"user": u})
}

// CreateHandler handles POST /api/users.
func (h *UserHandler) CreateHandler(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	var in user.CreateInput
	if !bindJSON(c, &in) {
		return
	}
	u, err := h.UserService.Create(c.Request.Context(), p, in)
	if err != nil {
		utils.RespondError(c, getLogger(c), err)
		return
	}
	utils.RespondOK(c, http.StatusCreated, gin.H{"user": u})
}

// ListHandler handles GET /api/users?role=.
func (h *UserHandler) ListHandler(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	users, err := h.UserService.List(c.Request.Context(), p, models.Role(c.Query("role")))
	if err != nil {
		utils.RespondError(c, getLogger(c), err)
		return
	}
	utils.RespondOK(c, http.StatusOK, gin.H{"users": users, "count": len(users)})
}

// GetHandler handles GET /api/users/:id.
func (h *UserHandler) GetHandler(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	u, err := h.UserService.Get(c.Request.Context(), p, c.Param("id"))
	if err != nil {
		utils.RespondError(c, getLogger(c), err)
		return
	}
	utils.RespondOK(c, http.StatusOK, gin.H{"user": u})
}

// UpdateHandler handles PUT /api/users/:id.
func (h *UserHandler) UpdateHandler(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	var in user.UpdateInput
	if !bindJSON(c, &in) {
		return
	}
	u, err := h.UserService.Update(c.Request.Context(), p, c.Param("id"), in)
	if err != nil {
		utils.RespondError(c, getLogger(c), err)
		return
	}
	utils.RespondOK(c, http.StatusOK, gin.H{"user": u})
}
