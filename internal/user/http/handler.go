package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/techclub/recruitment-portal-backend/internal/application"
	"github.com/techclub/recruitment-portal-backend/internal/audit"
	"github.com/techclub/recruitment-portal-backend/internal/auth"
	"github.com/techclub/recruitment-portal-backend/internal/pkg/request"
	"github.com/techclub/recruitment-portal-backend/internal/pkg/response"
	"github.com/techclub/recruitment-portal-backend/internal/user"
)

type UserHandler struct {
	userService user.Service
	appService  application.Service
	jwtManager  *auth.JWTManager
	recorder    audit.Recorder
}

func NewHandler(userService user.Service, appService application.Service, jwtManager *auth.JWTManager, recorder audit.Recorder) *UserHandler {
	return &UserHandler{
		userService: userService,
		appService:  appService,
		jwtManager:  jwtManager,
		recorder:    recorder,
	}
}

// Register handles candidate self-registration. The generated password is
// emailed, never returned in the response.
func (h *UserHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	ctx := c.Request.Context()

	u, err := h.userService.RegisterCandidate(ctx, req.Name, req.Email)
	if err != nil {
		response.Error(c, err)
		return
	}

	h.recorder.Record(ctx, u.ID, audit.ActionUserRegistered, "candidate registered: "+u.Email, c.ClientIP())

	c.JSON(http.StatusCreated, MeResponse{User: NewUserResponse(u)})
}

// Login authenticates a user using email and password.
// On success, it returns a JWT access token and the user profile.
func (h *UserHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	ctx := c.Request.Context()

	u, err := h.userService.Login(ctx, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, user.ErrInvalidCredentials),
			errors.Is(err, user.ErrNotFound),
			errors.Is(err, user.ErrInactiveUser):
			// For security reasons, do not reveal which condition failed
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid email or password"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "login failed"})
		}
		return
	}

	token, err := h.jwtManager.GenerateAccessToken(u.ID, u.Email, u.Role)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "failed to generate token",
		})
		return
	}

	h.recorder.Record(ctx, u.ID, audit.ActionUserLogin, "", c.ClientIP())

	c.JSON(http.StatusOK, LoginResponse{
		AccessToken: token,
		User:        NewUserResponse(u),
	})
}

// Me retrieves the profile of the currently authenticated user, including the
// candidate's application status when one exists.
func (h *UserHandler) Me(c *gin.Context) {
	userID := auth.GetUserID(c)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	ctx := c.Request.Context()

	u, err := h.userService.GetByID(ctx, userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	resp := MeResponse{User: NewUserResponse(u)}

	if u.Role == user.RoleCandidate {
		if app, err := h.appService.GetByUserID(ctx, u.ID); err == nil {
			resp.ApplicationStatus = string(app.Status)
		}
	}

	c.JSON(http.StatusOK, resp)
}

// List returns users, admin only.
func (h *UserHandler) List(c *gin.Context) {
	var req ListUsersRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query", "details": err.Error()})
		return
	}

	filter := user.Filter{
		Role:     req.Role,
		IsActive: req.IsActive,
		Page:     req.Page,
		PageSize: req.PageSize,
	}

	users, total, err := h.userService.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]UserResponse, len(users))
	for i, u := range users {
		items[i] = NewUserResponse(u)
	}

	c.JSON(http.StatusOK, response.NewPageResponse(items, filter.Page, filter.PageSize, total))
}

// UpdateApplicationStatus moves a candidate's application through the review
// pipeline, admin only. Slot selection itself stays with the booking flow.
func (h *UserHandler) UpdateApplicationStatus(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	var body UpdateApplicationStatusRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	if err := h.appService.SetStatus(c.Request.Context(), uri.ID, application.Status(body.Status)); err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"application_status": body.Status})
}
