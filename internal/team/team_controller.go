package team

import (
	"net/http"
	"strings"
	"time"

	"github.com/DhavalSuthar-24/dugout/internal/common"
	"github.com/DhavalSuthar-24/dugout/pkg/responses"
	"github.com/DhavalSuthar-24/dugout/pkg/storage"
	"github.com/DhavalSuthar-24/dugout/pkg/utils"
	"github.com/DhavalSuthar-24/dugout/pkg/validator"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const maxPhotoBytes = 5 << 20

// TeamController handles team-related HTTP requests
type TeamController struct {
	repo  TeamRepository
	store storage.ObjectStore
	log   *zap.Logger
}

// NewTeamController creates a new team controller
func NewTeamController(repo TeamRepository, store storage.ObjectStore, log *zap.Logger) *TeamController {
	return &TeamController{repo: repo, store: store, log: log.Named("team")}
}

// --- Team Handlers ---

// GetAllTeams godoc
// @Summary List teams
// @Description Lists every team ordered by name.
// @Tags Teams
// @Produce json
// @Success 200 {object} responses.SuccessResponse{data=[]Team}
// @Failure 500 {object} responses.ErrorResponse "Internal server error"
// @Security ApiKeyAuth
// @Router /teams [get]
func (tc *TeamController) GetAllTeams(c *gin.Context) {
	teams, err := tc.repo.List(c.Request.Context())
	if err != nil {
		responses.InternalServerError(c, "Failed to retrieve teams: "+err.Error())
		return
	}
	responses.SendSuccess(c, http.StatusOK, "Teams retrieved successfully", teams)
}

// GetMyTeams godoc
// @Summary Teams of the current user
// @Tags Teams
// @Produce json
// @Success 200 {object} responses.SuccessResponse{data=[]TeamMember}
// @Security ApiKeyAuth
// @Router /users/me/teams [get]
func (tc *TeamController) GetMyTeams(c *gin.Context) {
	p, err := common.PrincipalFromContext(c)
	if err != nil {
		responses.Unauthorized(c, err.Error())
		return
	}
	memberships, err := tc.repo.MembershipsForUser(c.Request.Context(), p.UserID)
	if err != nil {
		responses.InternalServerError(c, err.Error())
		return
	}
	responses.SendSuccess(c, http.StatusOK, "Memberships retrieved successfully", memberships)
}

// GetTeamByID godoc
// @Summary Get a team
// @Tags Teams
// @Produce json
// @Param team_id path uint true "Team ID"
// @Success 200 {object} responses.SuccessResponse{data=Team}
// @Failure 400 {object} responses.ErrorResponse "Invalid team ID"
// @Failure 404 {object} responses.ErrorResponse "Team not found"
// @Security ApiKeyAuth
// @Router /teams/{team_id} [get]
func (tc *TeamController) GetTeamByID(c *gin.Context) {
	teamID, err := utils.ParamID(c, "team_id")
	if err != nil {
		responses.BadRequest(c, err.Error())
		return
	}
	team, err := tc.repo.GetByID(c.Request.Context(), teamID)
	if err != nil {
		responses.InternalServerError(c, "Failed to retrieve team: "+err.Error())
		return
	}
	if team == nil {
		responses.NotFound(c, "Team")
		return
	}
	responses.SendSuccess(c, http.StatusOK, "Team retrieved successfully", team)
}

// CreateTeam godoc
// @Summary Create a new team
// @Tags Teams
// @Accept json
// @Produce json
// @Param team body CreateTeamRequest true "Team Creation Data"
// @Success 201 {object} responses.SuccessResponse{data=Team} "Team created successfully"
// @Failure 400 {object} responses.ErrorResponse "Invalid input"
// @Failure 403 {object} responses.ErrorResponse "Admins only"
// @Security ApiKeyAuth
// @Router /teams [post]
func (tc *TeamController) CreateTeam(c *gin.Context) {
	var req CreateTeamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.ValidationFailed(c, validator.ParseError(err))
		return
	}
	team := Team{Name: strings.TrimSpace(req.Name), Description: req.Description}
	if err := tc.repo.Create(c.Request.Context(), &team); err != nil {
		responses.SendAppError(c, err)
		return
	}
	tc.log.Info("team created", zap.Uint("team_id", team.ID))
	responses.SendSuccess(c, http.StatusCreated, "Team created successfully", team)
}

// UpdateTeam godoc
// @Summary Update a team
// @Tags Teams
// @Accept json
// @Produce json
// @Param team_id path uint true "Team ID"
// @Param team body UpdateTeamRequest true "Team Update Data"
// @Success 200 {object} responses.SuccessResponse{data=Team} "Team updated successfully"
// @Failure 400 {object} responses.ErrorResponse "Invalid input or team ID"
// @Failure 404 {object} responses.ErrorResponse "Team not found"
// @Security ApiKeyAuth
// @Router /teams/{team_id} [put]
func (tc *TeamController) UpdateTeam(c *gin.Context) {
	teamID, err := utils.ParamID(c, "team_id")
	if err != nil {
		responses.BadRequest(c, err.Error())
		return
	}
	var req UpdateTeamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.ValidationFailed(c, validator.ParseError(err))
		return
	}

	fields := map[string]interface{}{}
	if req.Name != nil {
		fields["name"] = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		fields["description"] = *req.Description
	}
	if req.PhotoURL != nil {
		fields["photo_url"] = *req.PhotoURL
	}
	if len(fields) == 0 {
		responses.BadRequest(c, "Nothing to update")
		return
	}

	if err := tc.repo.Update(c.Request.Context(), teamID, fields); err != nil {
		responses.SendAppError(c, err)
		return
	}
	updated, _ := tc.repo.GetByID(c.Request.Context(), teamID)
	responses.SendSuccess(c, http.StatusOK, "Team updated successfully", updated)
}

// DeleteTeam godoc
// @Summary Delete a team
// @Description Deletes the team, its memberships and its team-scoped events and assignments. Users are kept.
// @Tags Teams
// @Produce json
// @Param team_id path uint true "Team ID"
// @Success 200 {object} responses.SuccessResponse "Team deleted successfully"
// @Failure 404 {object} responses.ErrorResponse "Team not found"
// @Security ApiKeyAuth
// @Router /teams/{team_id} [delete]
func (tc *TeamController) DeleteTeam(c *gin.Context) {
	teamID, err := utils.ParamID(c, "team_id")
	if err != nil {
		responses.BadRequest(c, err.Error())
		return
	}
	if err := tc.repo.Delete(c.Request.Context(), teamID); err != nil {
		responses.SendAppError(c, err)
		return
	}
	tc.log.Info("team deleted", zap.Uint("team_id", teamID))
	responses.SendSuccess(c, http.StatusOK, "Team deleted successfully", nil)
}

// UploadTeamPhoto godoc
// @Summary Upload a team photo
// @Tags Teams
// @Accept multipart/form-data
// @Produce json
// @Param team_id path uint true "Team ID"
// @Param photo formData file true "Image file"
// @Success 200 {object} responses.SuccessResponse{data=Team}
// @Failure 400 {object} responses.ErrorResponse "Not an image"
// @Security ApiKeyAuth
// @Router /teams/{team_id}/photo [post]
func (tc *TeamController) UploadTeamPhoto(c *gin.Context) {
	teamID, err := utils.ParamID(c, "team_id")
	if err != nil {
		responses.BadRequest(c, err.Error())
		return
	}
	fh, err := c.FormFile("photo")
	if err != nil {
		responses.BadRequest(c, "photo file is required")
		return
	}
	if fh.Size > maxPhotoBytes {
		responses.BadRequest(c, "photo must be 5MB or smaller")
		return
	}
	if !strings.HasPrefix(fh.Header.Get("Content-Type"), "image/") {
		responses.BadRequest(c, "Please select an image file")
		return
	}
	f, err := fh.Open()
	if err != nil {
		responses.InternalServerError(c, err.Error())
		return
	}
	defer f.Close()

	key := storage.ObjectKey("team-photos", teamID, fh.Filename, time.Now())
	if err := tc.store.Upload(c.Request.Context(), key, f, true); err != nil {
		responses.InternalServerError(c, "Error uploading photo: "+err.Error())
		return
	}
	if err := tc.repo.Update(c.Request.Context(), teamID, map[string]interface{}{"photo_url": tc.store.PublicURL(key)}); err != nil {
		responses.SendAppError(c, err)
		return
	}
	updated, _ := tc.repo.GetByID(c.Request.Context(), teamID)
	responses.SendSuccess(c, http.StatusOK, "Photo uploaded successfully", updated)
}

// --- Member Handlers ---

// GetTeamMembers godoc
// @Summary Team roster
// @Description Returns the team with its members split into players and coaches.
// @Tags Teams
// @Produce json
// @Param team_id path uint true "Team ID"
// @Success 200 {object} responses.SuccessResponse{data=Roster}
// @Failure 404 {object} responses.ErrorResponse "Team not found"
// @Security ApiKeyAuth
// @Router /teams/{team_id}/members [get]
func (tc *TeamController) GetTeamMembers(c *gin.Context) {
	teamID, err := utils.ParamID(c, "team_id")
	if err != nil {
		responses.BadRequest(c, err.Error())
		return
	}
	ctx := c.Request.Context()
	team, err := tc.repo.GetByID(ctx, teamID)
	if err != nil {
		responses.InternalServerError(c, err.Error())
		return
	}
	if team == nil {
		responses.NotFound(c, "Team")
		return
	}
	members, err := tc.repo.ListMembers(ctx, teamID)
	if err != nil {
		responses.InternalServerError(c, "Failed to retrieve team members: "+err.Error())
		return
	}
	responses.SendSuccess(c, http.StatusOK, "Team members retrieved successfully", SplitRoster(*team, members))
}

// AddTeamMember godoc
// @Summary Add a member to a team
// @Description Adds the user, or updates their role if already a member.
// @Tags Teams
// @Accept json
// @Produce json
// @Param team_id path uint true "Team ID"
// @Param member body AddMemberRequest true "Member"
// @Success 201 {object} responses.SuccessResponse{data=TeamMember}
// @Security ApiKeyAuth
// @Router /teams/{team_id}/members [post]
func (tc *TeamController) AddTeamMember(c *gin.Context) {
	teamID, err := utils.ParamID(c, "team_id")
	if err != nil {
		responses.BadRequest(c, err.Error())
		return
	}
	var req AddMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.ValidationFailed(c, validator.ParseError(err))
		return
	}
	member := TeamMember{TeamID: teamID, UserID: req.UserID, Role: req.Role}
	if err := tc.repo.AddMember(c.Request.Context(), &member); err != nil {
		responses.SendAppError(c, err)
		return
	}
	responses.SendSuccess(c, http.StatusCreated, "Member added successfully", member)
}

// UpdateTeamMemberRole godoc
// @Summary Change a member's team role
// @Tags Teams
// @Accept json
// @Produce json
// @Param team_id path uint true "Team ID"
// @Param user_id path uint true "User ID"
// @Param role body UpdateMemberRoleRequest true "New role"
// @Success 200 {object} responses.SuccessResponse
// @Failure 404 {object} responses.ErrorResponse "Membership not found"
// @Security ApiKeyAuth
// @Router /teams/{team_id}/members/{user_id}/role [put]
func (tc *TeamController) UpdateTeamMemberRole(c *gin.Context) {
	teamID, err := utils.ParamID(c, "team_id")
	if err != nil {
		responses.BadRequest(c, err.Error())
		return
	}
	userID, err := utils.ParamID(c, "user_id")
	if err != nil {
		responses.BadRequest(c, err.Error())
		return
	}
	var req UpdateMemberRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.ValidationFailed(c, validator.ParseError(err))
		return
	}
	if err := tc.repo.UpdateMemberRole(c.Request.Context(), teamID, userID, req.Role); err != nil {
		responses.SendAppError(c, err)
		return
	}
	responses.SendSuccess(c, http.StatusOK, "Member role updated successfully", nil)
}

// RemoveTeamMember godoc
// @Summary Remove a member from a team
// @Tags Teams
// @Produce json
// @Param team_id path uint true "Team ID"
// @Param user_id path uint true "User ID"
// @Success 200 {object} responses.SuccessResponse
// @Failure 404 {object} responses.ErrorResponse "Membership not found"
// @Security ApiKeyAuth
// @Router /teams/{team_id}/members/{user_id} [delete]
func (tc *TeamController) RemoveTeamMember(c *gin.Context) {
	teamID, err := utils.ParamID(c, "team_id")
	if err != nil {
		responses.BadRequest(c, err.Error())
		return
	}
	userID, err := utils.ParamID(c, "user_id")
	if err != nil {
		responses.BadRequest(c, err.Error())
		return
	}
	if err := tc.repo.RemoveMember(c.Request.Context(), teamID, userID); err != nil {
		responses.SendAppError(c, err)
		return
	}
	responses.SendSuccess(c, http.StatusOK, "Member removed successfully", nil)
}
