package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"shift_scheduler_backend/internal/middleware"
	"shift_scheduler_backend/internal/services"
	"shift_scheduler_backend/pkg/utils"
)

// AuthHandler holds the authentication service.
type AuthHandler struct {
	authService services.AuthService
	tokens      *utils.TokenManager
	cookies     middleware.CookieOptions
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(as services.AuthService, tokens *utils.TokenManager, cookies middleware.CookieOptions) *AuthHandler {
	return &AuthHandler{authService: as, tokens: tokens, cookies: cookies}
}

// RegisterUser handles user registration.
func (h *AuthHandler) RegisterUser(c *gin.Context) {
	var req services.RegisterUserRequest
	if err := c.ShouldBind(&req); err != nil {
		respondBindError(c, err, &req, "RegisterUser")
		return
	}

	user, err := h.authService.RegisterUser(c.Request.Context(), principalFrom(c), req)
	if err != nil {
		var verr *services.ValidationError
		switch {
		case errors.As(err, &verr):
			respondValidationError(c, verr)
		case errors.Is(err, services.ErrUsernameExists):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeConflict, "Username already exists.", err.Error()))
		case errors.Is(err, services.ErrRoleNotFound):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeBadRequest, "Specified role not found.", err.Error()))
		default:
			utils.RespondInternalError(c, err, "Failed to register user.")
		}
		return
	}
	c.JSON(http.StatusCreated, user)
}

// LoginUser checks credentials and starts a cookie session. The token is
// returned as well for Bearer clients.
func (h *AuthHandler) LoginUser(c *gin.Context) {
	var req services.LoginRequest
	if err := c.ShouldBind(&req); err != nil {
		respondBindError(c, err, &req, "LoginUser")
		return
	}

	authResp, err := h.authService.LoginUser(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			utils.LogWarn(err, "LoginUser: rejected credentials", map[string]interface{}{"username": req.Username})
			utils.RespondWithError(c, utils.NewAPIError(http.StatusUnauthorized, utils.ErrCodeUnauthorized, "Invalid username or password.", ""))
		} else {
			utils.RespondInternalError(c, err, "Failed to login.")
		}
		return
	}

	middleware.SetSessionCookie(c, authResp.AccessToken, h.tokens.TTL(), h.cookies)
	c.JSON(http.StatusOK, authResp)
}

// LogoutUser ends the cookie session.
func (h *AuthHandler) LogoutUser(c *gin.Context) {
	middleware.ClearSessionCookie(c, h.cookies)
	c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully."})
}

// GetCurrentUser retrieves the profile of the currently authenticated user.
func (h *AuthHandler) GetCurrentUser(c *gin.Context) {
	userID := middleware.CurrentUserID(c)
	user, err := h.authService.GetUserProfile(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			respondNotFound(c, "User profile not found.")
		} else {
			utils.RespondInternalError(c, err, "Failed to retrieve user profile.")
		}
		return
	}
	c.JSON(http.StatusOK, user)
}

// DeleteAccount removes the caller's account and ends the session.
func (h *AuthHandler) DeleteAccount(c *gin.Context) {
	userID := middleware.CurrentUserID(c)
	if err := h.authService.DeleteAccount(c.Request.Context(), userID); err != nil {
		switch {
		case errors.Is(err, services.ErrAccountInUse):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeConflict,
				"The account still has shifts or employee records and cannot be deleted.", err.Error()))
		case errors.Is(err, services.ErrUserNotFound):
			respondNotFound(c, "User not found.")
		default:
			utils.RespondInternalError(c, err, "Failed to delete account.")
		}
		return
	}
	utils.LogInfo("Account deleted", map[string]interface{}{"user_id": userID})
	middleware.ClearSessionCookie(c, h.cookies)
	c.Status(http.StatusNoContent)
}
