package admin

import (
	"errors"
	"net/http"

	"github.com/DhavalSuthar-24/dugout/internal/auth"
	"github.com/DhavalSuthar-24/dugout/internal/common"
	"github.com/DhavalSuthar-24/dugout/internal/user"
	"github.com/DhavalSuthar-24/dugout/pkg/responses"
	"github.com/DhavalSuthar-24/dugout/pkg/utils"
	"github.com/DhavalSuthar-24/dugout/pkg/validator"
	"github.com/gin-gonic/gin"
)

type AdminController struct {
	svc *Service
}

func NewAdminController(svc *Service) *AdminController {
	return &AdminController{svc: svc}
}

// ListUsers godoc
// @Summary List users
// @Description Paginated user table with player profiles and team memberships.
// @Tags Admin
// @Produce json
// @Param role query string false "player, coach or admin"
// @Param q query string false "Search name or email"
// @Param page query int false "Page" default(1)
// @Param limit query int false "Page size" default(20)
// @Success 200 {object} responses.PaginatedResponse{data=[]UserSummary}
// @Failure 403 {object} responses.ErrorResponse "Admins only"
// @Security ApiKeyAuth
// @Router /admin/users [get]
func (ac *AdminController) ListUsers(c *gin.Context) {
	p, err := common.PrincipalFromContext(c)
	if err != nil {
		responses.Unauthorized(c, err.Error())
		return
	}
	page, limit := utils.Pagination(c)
	role := common.Role(c.Query("role"))
	if role != "" && !role.Valid() {
		responses.BadRequest(c, "role must be player, coach or admin")
		return
	}
	users, total, err := ac.svc.ListUsers(c.Request.Context(), p, user.ListFilter{
		Role:   role,
		Search: c.Query("q"),
		Page:   page,
		Limit:  limit,
	})
	if err != nil {
		responses.SendAppError(c, err)
		return
	}
	responses.SendPaginated(c, http.StatusOK, "Users retrieved successfully", users, total, page, limit)
}

// GetUser godoc
// @Summary Get a user
// @Tags Admin
// @Produce json
// @Param user_id path uint true "User ID"
// @Success 200 {object} responses.SuccessResponse{data=UserSummary}
// @Failure 404 {object} responses.ErrorResponse "User not found"
// @Security ApiKeyAuth
// @Router /admin/users/{user_id} [get]
func (ac *AdminController) GetUser(c *gin.Context) {
	p, err := common.PrincipalFromContext(c)
	if err != nil {
		responses.Unauthorized(c, err.Error())
		return
	}
	id, err := utils.ParamID(c, "user_id")
	if err != nil {
		responses.BadRequest(c, err.Error())
		return
	}
	u, err := ac.svc.GetUser(c.Request.Context(), p, id)
	if err != nil {
		responses.SendAppError(c, err)
		return
	}
	responses.SendSuccess(c, http.StatusOK, "User retrieved successfully", u)
}

// CreateUser godoc
// @Summary Create a user
// @Description Creates the account, a player profile for players and an optional team membership in one transaction.
// @Tags Admin
// @Accept json
// @Produce json
// @Param user body CreateUserRequest true "New user"
// @Success 201 {object} responses.SuccessResponse{data=UserSummary}
// @Failure 400 {object} responses.ErrorResponse "Invalid input"
// @Failure 409 {object} responses.ErrorResponse "Email already registered"
// @Security ApiKeyAuth
// @Router /admin/users [post]
func (ac *AdminController) CreateUser(c *gin.Context) {
	p, err := common.PrincipalFromContext(c)
	if err != nil {
		responses.Unauthorized(c, err.Error())
		return
	}
	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.ValidationFailed(c, validator.ParseError(err))
		return
	}
	u, err := ac.svc.CreateUser(c.Request.Context(), p, req)
	if errors.Is(err, auth.ErrEmailTaken) {
		responses.SendError(c, http.StatusConflict, err.Error())
		return
	}
	if err != nil {
		responses.SendAppError(c, err)
		return
	}
	responses.SendSuccess(c, http.StatusCreated, "User created successfully", u)
}

// ChangeRole godoc
// @Summary Change a user's role
// @Tags Admin
// @Accept json
// @Produce json
// @Param user_id path uint true "User ID"
// @Param role body ChangeRoleRequest true "New role"
// @Success 200 {object} responses.SuccessResponse{data=UserSummary}
// @Security ApiKeyAuth
// @Router /admin/users/{user_id}/role [put]
func (ac *AdminController) ChangeRole(c *gin.Context) {
	p, err := common.PrincipalFromContext(c)
	if err != nil {
		responses.Unauthorized(c, err.Error())
		return
	}
	id, err := utils.ParamID(c, "user_id")
	if err != nil {
		responses.BadRequest(c, err.Error())
		return
	}
	var req ChangeRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.ValidationFailed(c, validator.ParseError(err))
		return
	}
	u, err := ac.svc.ChangeRole(c.Request.Context(), p, id, req.Role)
	if err != nil {
		responses.SendAppError(c, err)
		return
	}
	responses.SendSuccess(c, http.StatusOK, "Role updated successfully", u)
}

// SyncTeams godoc
// @Summary Set a user's teams
// @Description Adds, removes and re-roles memberships so they match the list exactly.
// @Tags Admin
// @Accept json
// @Produce json
// @Param user_id path uint true "User ID"
// @Param teams body SyncTeamsRequest true "Teams"
// @Success 200 {object} responses.SuccessResponse{data=UserSummary}
// @Security ApiKeyAuth
// @Router /admin/users/{user_id}/teams [put]
func (ac *AdminController) SyncTeams(c *gin.Context) {
	p, err := common.PrincipalFromContext(c)
	if err != nil {
		responses.Unauthorized(c, err.Error())
		return
	}
	id, err := utils.ParamID(c, "user_id")
	if err != nil {
		responses.BadRequest(c, err.Error())
		return
	}
	var req SyncTeamsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.ValidationFailed(c, validator.ParseError(err))
		return
	}
	u, err := ac.svc.SyncTeams(c.Request.Context(), p, id, req)
	if err != nil {
		responses.SendAppError(c, err)
		return
	}
	responses.SendSuccess(c, http.StatusOK, "Team assignments updated successfully", u)
}

// DeleteUser godoc
// @Summary Delete a user
// @Tags Admin
// @Param user_id path uint true "User ID"
// @Success 200 {object} responses.SuccessResponse
// @Failure 404 {object} responses.ErrorResponse "User not found"
// @Security ApiKeyAuth
// @Router /admin/users/{user_id} [delete]
func (ac *AdminController) DeleteUser(c *gin.Context) {
	p, err := common.PrincipalFromContext(c)
	if err != nil {
		responses.Unauthorized(c, err.Error())
		return
	}
	id, err := utils.ParamID(c, "user_id")
	if err != nil {
		responses.BadRequest(c, err.Error())
		return
	}
	if err := ac.svc.DeleteUser(c.Request.Context(), p, id); err != nil {
		responses.SendAppError(c, err)
		return
	}
	responses.SendSuccess(c, http.StatusOK, "User deleted successfully", nil)
}
