package handlers

import (
	"errors"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/codetube-labs/codetube/services/account"
	"github.com/codetube-labs/codetube/services/jwt"
	"github.com/codetube-labs/codetube/services/logging"
	"github.com/codetube-labs/codetube/services/refreshtoken"
	"github.com/codetube-labs/codetube/services/verification"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type AuthHandler struct {
	users         *account.Store
	codes         *verification.Service
	jwtService    *jwt.Service
	refreshTokens *refreshtoken.Service
	logger        *logging.Service
}

func NewAuthHandler(users *account.Store, codes *verification.Service, jwtService *jwt.Service, refreshTokens *refreshtoken.Service, logger *logging.Service) *AuthHandler {
	return &AuthHandler{
		users:         users,
		codes:         codes,
		jwtService:    jwtService,
		refreshTokens: refreshTokens,
		logger:        logger,
	}
}

type sendCodeRequest struct {
	Email string `json:"email"`
}

type verifyRequest struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Code     string `json:"code"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type authResponse struct {
	Token        string           `json:"token"`
	RefreshToken string           `json:"refreshToken"`
	User         account.Response `json:"user"`
}

// issueSession mints the JWT and a refresh token for an authenticated user.
func (h *AuthHandler) issueSession(c echo.Context, user *account.User) error {
	token, err := h.jwtService.GenerateToken(user.ID, user.Email)
	if err != nil {
		h.logger.Error("failed to generate JWT", zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to create session")
	}

	refresh, err := h.refreshTokens.Generate(user.ID)
	if err != nil {
		h.logger.Error("failed to generate refresh token", zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to create session")
	}

	return c.JSON(http.StatusOK, authResponse{
		Token:        token,
		RefreshToken: refresh.Token,
		User:         user.ToResponse(),
	})
}

// SendCode handles POST /api/auth/send-code. It returns 200 whenever a code
// was issued; notification runs in the background and its outcome never
// changes the response.
func (h *AuthHandler) SendCode(c echo.Context) error {
	var req sendCodeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}

	if strings.TrimSpace(req.Email) == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Email is required")
	}

	if _, err := h.codes.Issue(req.Email, verification.PurposeEmailVerification); err != nil {
		h.logger.Error("failed to issue verification code", zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to send verification code")
	}

	return c.JSON(http.StatusOK, map[string]string{
		"message": "Verification code sent",
	})
}

// Verify handles POST /api/auth/verify: consume the code, mark the user
// verified and open a session. The two writes are separate statements; a
// crash in between leaves the code consumed and the user unverified.
func (h *AuthHandler) Verify(c echo.Context) error {
	var req verifyRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}

	if strings.TrimSpace(req.Email) == "" || strings.TrimSpace(req.Code) == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Email and code are required")
	}

	result, err := h.codes.Verify(req.Email, req.Code, verification.PurposeEmailVerification)
	if err != nil {
		h.logger.Error("verification failed", zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to verify code")
	}
	if !result.Success {
		return echo.NewHTTPError(http.StatusBadRequest, result.Message)
	}

	if err := h.users.MarkVerified(req.Email); err != nil {
		if errors.Is(err, account.ErrUserNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "User not found")
		}
		h.logger.Error("failed to mark user verified", zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to verify user")
	}

	user, err := h.users.FindByEmail(req.Email)
	if err != nil {
		if errors.Is(err, account.ErrUserNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "User not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load user")
	}

	return h.issueSession(c, user)
}

// Register handles POST /api/auth/register. The code is optional; with a
// valid code the account starts out verified, without one it starts
// unverified. Hashing happens in the account model's save hook, never here.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}

	req.Name = strings.TrimSpace(req.Name)
	if utf8.RuneCountInString(req.Name) < 2 {
		return echo.NewHTTPError(http.StatusBadRequest, "Name must be at least 2 characters long")
	}
	if len(req.Password) < 6 {
		return echo.NewHTTPError(http.StatusBadRequest, "Password must be at least 6 characters long")
	}
	if strings.TrimSpace(req.Email) == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Email is required")
	}

	codeVerified := false
	if req.Code != "" {
		result, err := h.codes.Verify(req.Email, req.Code, verification.PurposeEmailVerification)
		if err != nil {
			h.logger.Error("verification failed during registration", zap.Error(err))
			return echo.NewHTTPError(http.StatusInternalServerError, "Failed to verify code")
		}
		if !result.Success {
			return echo.NewHTTPError(http.StatusBadRequest, result.Message)
		}
		codeVerified = true
	}

	existing, err := h.users.FindByEmail(req.Email)
	switch {
	case err == nil:
		if existing.HasPassword() {
			return echo.NewHTTPError(http.StatusBadRequest, "Email already registered")
		}

		// Passwordless stub left by an earlier OAuth or partial flow:
		// upgrade it in place instead of erroring.
		existing.Name = req.Name
		existing.Password = req.Password
		if codeVerified {
			existing.IsVerified = true
		}
		if err := h.users.Save(existing); err != nil {
			h.logger.Error("failed to upgrade user", zap.Error(err))
			return echo.NewHTTPError(http.StatusInternalServerError, "Failed to register user")
		}
		return h.issueSession(c, existing)

	case errors.Is(err, account.ErrUserNotFound):
		user := &account.User{
			Name:       req.Name,
			Email:      req.Email,
			Password:   req.Password,
			IsVerified: codeVerified,
		}
		if err := h.users.Create(user); err != nil {
			h.logger.Error("failed to create user", zap.Error(err))
			return echo.NewHTTPError(http.StatusInternalServerError, "Failed to register user")
		}
		return h.issueSession(c, user)

	default:
		h.logger.Error("failed to look up user", zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to register user")
	}
}

// Login handles POST /api/auth/login. Verification status is not checked;
// unverified users can log in.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}

	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Email and password are required")
	}

	user, err := h.users.Authenticate(req.Email, req.Password)
	if err != nil {
		if errors.Is(err, account.ErrInvalidCredentials) {
			return echo.NewHTTPError(http.StatusBadRequest, "Invalid credentials")
		}
		h.logger.Error("authentication failed", zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to log in")
	}

	return h.issueSession(c, user)
}

// Refresh handles POST /api/auth/refresh with single-use token rotation.
func (h *AuthHandler) Refresh(c echo.Context) error {
	var req refreshRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}

	if req.RefreshToken == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Refresh token is required")
	}

	rotated, userID, err := h.refreshTokens.Rotate(req.RefreshToken)
	if err != nil {
		if errors.Is(err, refreshtoken.ErrTokenNotFound) || errors.Is(err, refreshtoken.ErrTokenExpired) {
			return echo.NewHTTPError(http.StatusUnauthorized, "Invalid refresh token")
		}
		h.logger.Error("failed to rotate refresh token", zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to refresh session")
	}

	user, err := h.users.FindByID(userID)
	if err != nil {
		if errors.Is(err, account.ErrUserNotFound) {
			return echo.NewHTTPError(http.StatusUnauthorized, "Invalid refresh token")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to refresh session")
	}

	token, err := h.jwtService.GenerateToken(user.ID, user.Email)
	if err != nil {
		h.logger.Error("failed to generate JWT", zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to refresh session")
	}

	return c.JSON(http.StatusOK, authResponse{
		Token:        token,
		RefreshToken: rotated.Token,
		User:         user.ToResponse(),
	})
}
