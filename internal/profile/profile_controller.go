package profile

import (
	"net/http"
	"strings"

	"github.com/DhavalSuthar-24/dugout/internal/common"
	"github.com/DhavalSuthar-24/dugout/pkg/responses"
	"github.com/DhavalSuthar-24/dugout/pkg/utils"
	"github.com/DhavalSuthar-24/dugout/pkg/validator"
	"github.com/gin-gonic/gin"
)

const maxAvatarBytes = 5 << 20

type ProfileController struct {
	svc *Service
}

func NewProfileController(svc *Service) *ProfileController {
	return &ProfileController{svc: svc}
}

// targetUser is the :user_id path param, or the caller on /me routes.
func targetUser(c *gin.Context, p common.Principal) (uint, error) {
	if c.Param("user_id") == "" {
		return p.UserID, nil
	}
	return utils.ParamID(c, "user_id")
}

// GetProfile godoc
// @Summary Get a profile
// @Description User, player attributes, team memberships, training and meal plan assignments (flagged active when they cover today) and contacts.
// @Tags Profile
// @Produce json
// @Param user_id path uint false "User ID (omit for /profile/me)"
// @Success 200 {object} responses.SuccessResponse{data=Profile}
// @Failure 403 {object} responses.ErrorResponse "Not your profile"
// @Failure 404 {object} responses.ErrorResponse "User not found"
// @Security ApiKeyAuth
// @Router /profile/{user_id} [get]
func (pc *ProfileController) GetProfile(c *gin.Context) {
	p, err := common.PrincipalFromContext(c)
	if err != nil {
		responses.Unauthorized(c, err.Error())
		return
	}
	userID, err := targetUser(c, p)
	if err != nil {
		responses.BadRequest(c, err.Error())
		return
	}
	prof, err := pc.svc.GetProfile(c.Request.Context(), p, userID)
	if err != nil {
		responses.SendAppError(c, err)
		return
	}
	responses.SendSuccess(c, http.StatusOK, "Profile retrieved successfully", prof)
}

// UpdateProfile godoc
// @Summary Update a profile
// @Description Writes name, phone, player attributes and contact upserts together. At most three contacts per type.
// @Tags Profile
// @Accept json
// @Produce json
// @Param user_id path uint false "User ID (admins only; omit for /profile/me)"
// @Param profile body UpdateProfileRequest true "Profile"
// @Success 200 {object} responses.SuccessResponse{data=Profile}
// @Failure 400 {object} responses.ErrorResponse "Invalid input"
// @Security ApiKeyAuth
// @Router /profile/{user_id} [put]
func (pc *ProfileController) UpdateProfile(c *gin.Context) {
	p, err := common.PrincipalFromContext(c)
	if err != nil {
		responses.Unauthorized(c, err.Error())
		return
	}
	userID, err := targetUser(c, p)
	if err != nil {
		responses.BadRequest(c, err.Error())
		return
	}
	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.ValidationFailed(c, validator.ParseError(err))
		return
	}
	prof, err := pc.svc.UpdateProfile(c.Request.Context(), p, userID, req)
	if err != nil {
		responses.SendAppError(c, err)
		return
	}
	responses.SendSuccess(c, http.StatusOK, "Profile updated successfully", prof)
}

// DeleteContact godoc
// @Summary Remove one of my contacts
// @Tags Profile
// @Param contact_id path uint true "Contact ID"
// @Success 200 {object} responses.SuccessResponse
// @Failure 404 {object} responses.ErrorResponse "Contact not found"
// @Security ApiKeyAuth
// @Router /profile/me/contacts/{contact_id} [delete]
func (pc *ProfileController) DeleteContact(c *gin.Context) {
	p, err := common.PrincipalFromContext(c)
	if err != nil {
		responses.Unauthorized(c, err.Error())
		return
	}
	id, err := utils.ParamID(c, "contact_id")
	if err != nil {
		responses.BadRequest(c, err.Error())
		return
	}
	if err := pc.svc.DeleteContact(c.Request.Context(), p, id); err != nil {
		responses.SendAppError(c, err)
		return
	}
	responses.SendSuccess(c, http.StatusOK, "Contact removed successfully", nil)
}

// UploadAvatar godoc
// @Summary Upload my avatar
// @Tags Profile
// @Accept multipart/form-data
// @Produce json
// @Param avatar formData file true "Image file"
// @Success 200 {object} responses.SuccessResponse{data=map[string]string}
// @Failure 400 {object} responses.ErrorResponse "Not an image"
// @Security ApiKeyAuth
// @Router /profile/me/avatar [post]
func (pc *ProfileController) UploadAvatar(c *gin.Context) {
	p, err := common.PrincipalFromContext(c)
	if err != nil {
		responses.Unauthorized(c, err.Error())
		return
	}
	fh, err := c.FormFile("avatar")
	if err != nil {
		responses.BadRequest(c, "avatar file is required")
		return
	}
	if fh.Size > maxAvatarBytes {
		responses.BadRequest(c, "avatar must be 5MB or smaller")
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

	url, err := pc.svc.UploadAvatar(c.Request.Context(), p, fh.Filename, f)
	if err != nil {
		responses.SendAppError(c, err)
		return
	}
	responses.SendSuccess(c, http.StatusOK, "Avatar uploaded successfully", gin.H{"avatar_url": url})
}

// Dashboard godoc
// @Summary Player dashboard
// @Description First team, its next three events and the latest stats.
// @Tags Profile
// @Produce json
// @Success 200 {object} responses.SuccessResponse{data=Dashboard}
// @Security ApiKeyAuth
// @Router /dashboard [get]
func (pc *ProfileController) Dashboard(c *gin.Context) {
	p, err := common.PrincipalFromContext(c)
	if err != nil {
		responses.Unauthorized(c, err.Error())
		return
	}
	d, err := pc.svc.Dashboard(c.Request.Context(), p)
	if err != nil {
		responses.SendAppError(c, err)
		return
	}
	responses.SendSuccess(c, http.StatusOK, "Dashboard retrieved successfully", d)
}

// MyTeam godoc
// @Summary My team
// @Description Roster, coaches, next five events and last five announcements for one of my teams.
// @Tags Profile
// @Produce json
// @Param team_id query uint false "Team ID (defaults to my first team)"
// @Success 200 {object} responses.SuccessResponse{data=MyTeam}
// @Failure 403 {object} responses.ErrorResponse "Not a member"
// @Security ApiKeyAuth
// @Router /my-team [get]
func (pc *ProfileController) MyTeam(c *gin.Context) {
	p, err := common.PrincipalFromContext(c)
	if err != nil {
		responses.Unauthorized(c, err.Error())
		return
	}
	teamID, err := utils.QueryID(c, "team_id")
	if err != nil {
		responses.BadRequest(c, err.Error())
		return
	}
	view, err := pc.svc.MyTeam(c.Request.Context(), p, teamID)
	if err != nil {
		responses.SendAppError(c, err)
		return
	}
	responses.SendSuccess(c, http.StatusOK, "Team retrieved successfully", view)
}

// ListStats godoc
// @Summary Performance stats of a player
// @Tags Profile
// @Produce json
// @Param user_id path uint true "Player ID"
// @Success 200 {object} responses.SuccessResponse{data=[]PerformanceStat}
// @Security ApiKeyAuth
// @Router /profile/{user_id}/stats [get]
func (pc *ProfileController) ListStats(c *gin.Context) {
	p, err := common.PrincipalFromContext(c)
	if err != nil {
		responses.Unauthorized(c, err.Error())
		return
	}
	userID, err := targetUser(c, p)
	if err != nil {
		responses.BadRequest(c, err.Error())
		return
	}
	stats, err := pc.svc.ListStats(c.Request.Context(), p, userID)
	if err != nil {
		responses.SendAppError(c, err)
		return
	}
	responses.SendSuccess(c, http.StatusOK, "Stats retrieved successfully", stats)
}

// RecordStat godoc
// @Summary Record performance stats
// @Tags Profile
// @Accept json
// @Produce json
// @Param user_id path uint true "Player ID"
// @Param stats body StatRequest true "Stat sheet"
// @Success 201 {object} responses.SuccessResponse{data=PerformanceStat}
// @Failure 404 {object} responses.ErrorResponse "Player not found"
// @Security ApiKeyAuth
// @Router /profile/{user_id}/stats [post]
func (pc *ProfileController) RecordStat(c *gin.Context) {
	p, err := common.PrincipalFromContext(c)
	if err != nil {
		responses.Unauthorized(c, err.Error())
		return
	}
	userID, err := utils.ParamID(c, "user_id")
	if err != nil {
		responses.BadRequest(c, err.Error())
		return
	}
	var req StatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.ValidationFailed(c, validator.ParseError(err))
		return
	}
	st, err := pc.svc.RecordStat(c.Request.Context(), p, userID, req)
	if err != nil {
		responses.SendAppError(c, err)
		return
	}
	responses.SendSuccess(c, http.StatusCreated, "Stats recorded successfully", st)
}
