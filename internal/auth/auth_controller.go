package auth

import (
	"errors"
	"io"
	"net/http"

	"github.com/DhavalSuthar-24/dugout/internal/common"
	"github.com/DhavalSuthar-24/dugout/internal/user"
	"github.com/DhavalSuthar-24/dugout/pkg/responses"
	"github.com/DhavalSuthar-24/dugout/pkg/validator"
	"github.com/gin-gonic/gin"
)

type AuthController struct {
	svc   *Service
	users user.UserRepository
}

func NewAuthController(svc *Service, users user.UserRepository) *AuthController {
	return &AuthController{svc: svc, users: users}
}

// @Summary      Register a new user
// @Description  Creates a player account and returns a token pair.
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        user  body  RegisterRequest  true  "User registration details"
// @Success      201   {object} AuthResponse
// @Failure      400   {object} responses.ErrorResponse "Validation error"
// @Failure      409   {object} responses.ErrorResponse "Email already registered"
// @Router       /auth/register [post]
func (ac *AuthController) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.ValidationFailed(c, validator.ParseError(err))
		return
	}

	u, err := ac.svc.SignUp(c.Request.Context(), SignUpInput{
		Email:    req.Email,
		Password: req.Password,
		FullName: req.FullName,
		Phone:    req.Phone,
		Role:     common.RolePlayer,
	})
	if errors.Is(err, ErrEmailTaken) {
		responses.SendError(c, http.StatusConflict, err.Error())
		return
	}
	if err != nil {
		responses.SendAppError(c, err)
		return
	}

	resp, err := ac.svc.Issue(c.Request.Context(), u)
	if err != nil {
		responses.InternalServerError(c, err.Error())
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// @Summary      Login user
// @Description  Authenticate with email and password.
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        credentials  body  LoginRequest  true  "Login credentials"
// @Success      200   {object} AuthResponse
// @Failure      400   {object} responses.ErrorResponse "Invalid input"
// @Failure      401   {object} responses.ErrorResponse "Invalid credentials"
// @Router       /auth/login [post]
func (ac *AuthController) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.ValidationFailed(c, validator.ParseError(err))
		return
	}

	resp, err := ac.svc.SignIn(c.Request.Context(), req.Email, req.Password)
	if errors.Is(err, ErrInvalidCredentials) {
		responses.Unauthorized(c, err.Error())
		return
	}
	if err != nil {
		responses.InternalServerError(c, err.Error())
		return
	}
	c.JSON(http.StatusOK, resp)
}

// @Summary      Refresh Access Token
// @Description  Refreshes the access token using a valid refresh token.
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        request body RefreshTokenRequest true "Refresh Token Request"
// @Success      200 {object} map[string]string "Returns a new access token"
// @Failure      401 {object} responses.ErrorResponse "Invalid or expired refresh token"
// @Router       /auth/refresh-token [post]
func (ac *AuthController) RefreshToken(c *gin.Context) {
	var req RefreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.ValidationFailed(c, validator.ParseError(err))
		return
	}

	access, err := ac.svc.Refresh(c.Request.Context(), req.RefreshToken)
	if errors.Is(err, ErrInvalidRefresh) {
		responses.Unauthorized(c, err.Error())
		return
	}
	if err != nil {
		responses.InternalServerError(c, err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"access_token": access})
}

// @Summary      Current session
// @Description  Returns the principal and the stored user record.
// @Tags         Auth
// @Security     ApiKeyAuth
// @Produce      json
// @Success      200 {object} user.UserResponse
// @Failure      401 {object} responses.ErrorResponse
// @Router       /auth/me [get]
func (ac *AuthController) Me(c *gin.Context) {
	p, err := common.PrincipalFromContext(c)
	if err != nil {
		responses.Unauthorized(c, err.Error())
		return
	}
	u, err := ac.users.GetByID(c.Request.Context(), p.UserID)
	if err != nil {
		responses.InternalServerError(c, err.Error())
		return
	}
	if u == nil {
		responses.NotFound(c, "User")
		return
	}
	c.JSON(http.StatusOK, user.FilterUserRecord(u))
}

// @Summary      Logout User
// @Description  Revokes the given refresh token, or every session when invalidate_all_sessions is set.
// @Tags         Auth
// @Security     ApiKeyAuth
// @Accept       json
// @Produce      json
// @Param        request body LogoutRequest false "Logout options"
// @Success      200 {object} map[string]interface{}
// @Failure      401 {object} responses.ErrorResponse
// @Router       /auth/logout [post]
func (ac *AuthController) Logout(c *gin.Context) {
	p, err := common.PrincipalFromContext(c)
	if err != nil {
		responses.Unauthorized(c, err.Error())
		return
	}

	var req LogoutRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		responses.BadRequest(c, "Invalid input: "+err.Error())
		return
	}
	if req.RefreshToken == "" {
		req.RefreshToken, _ = c.Cookie("refresh_token")
	}

	if err := ac.svc.SignOut(c.Request.Context(), p.UserID, req.RefreshToken, req.InvalidateAllSessions); err != nil {
		responses.InternalServerError(c, "Failed to logout: "+err.Error())
		return
	}

	c.SetCookie("refresh_token", "", -1, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{
		"message":                  "Logged out successfully",
		"all_sessions_invalidated": req.InvalidateAllSessions,
	})
}
