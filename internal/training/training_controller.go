package training

import (
	"net/http"
	"strings"

	"github.com/DhavalSuthar-24/dugout/internal/common"
	"github.com/DhavalSuthar-24/dugout/internal/models"
	"github.com/DhavalSuthar-24/dugout/pkg/responses"
	"github.com/DhavalSuthar-24/dugout/pkg/utils"
	"github.com/DhavalSuthar-24/dugout/pkg/validator"
	"github.com/gin-gonic/gin"
)

type TrainingController struct {
	repo TrainingRepository
}

func NewTrainingController(repo TrainingRepository) *TrainingController {
	return &TrainingController{repo: repo}
}

// ListPrograms godoc
// @Summary List training programs
// @Description Programs newest first, each with its days and exercises in order.
// @Tags Training
// @Produce json
// @Success 200 {object} responses.SuccessResponse{data=[]Program}
// @Security ApiKeyAuth
// @Router /training/programs [get]
func (tc *TrainingController) ListPrograms(c *gin.Context) {
	programs, err := tc.repo.ListPrograms(c.Request.Context())
	if err != nil {
		responses.InternalServerError(c, "Failed to retrieve programs: "+err.Error())
		return
	}
	responses.SendSuccess(c, http.StatusOK, "Programs retrieved successfully", programs)
}

// GetProgram godoc
// @Summary Get a training program
// @Tags Training
// @Produce json
// @Param program_id path uint true "Program ID"
// @Success 200 {object} responses.SuccessResponse{data=Program}
// @Failure 404 {object} responses.ErrorResponse "Program not found"
// @Security ApiKeyAuth
// @Router /training/programs/{program_id} [get]
func (tc *TrainingController) GetProgram(c *gin.Context) {
	id, err := utils.ParamID(c, "program_id")
	if err != nil {
		responses.BadRequest(c, err.Error())
		return
	}
	p, err := tc.repo.GetProgram(c.Request.Context(), id)
	if err != nil {
		responses.InternalServerError(c, err.Error())
		return
	}
	if p == nil {
		responses.NotFound(c, "Program")
		return
	}
	responses.SendSuccess(c, http.StatusOK, "Program retrieved successfully", p)
}

// CreateProgram godoc
// @Summary Create a training program
// @Tags Training
// @Accept json
// @Produce json
// @Param program body CreateProgramRequest true "Program"
// @Success 201 {object} responses.SuccessResponse{data=Program}
// @Failure 400 {object} responses.ErrorResponse "Invalid input"
// @Security ApiKeyAuth
// @Router /training/programs [post]
func (tc *TrainingController) CreateProgram(c *gin.Context) {
	p, err := common.PrincipalFromContext(c)
	if err != nil {
		responses.Unauthorized(c, err.Error())
		return
	}
	var req CreateProgramRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.ValidationFailed(c, validator.ParseError(err))
		return
	}
	program := Program{
		Name:          strings.TrimSpace(req.Name),
		Description:   req.Description,
		DurationWeeks: req.DurationWeeks,
		CreatedBy:     p.UserID,
	}
	if err := tc.repo.CreateProgram(c.Request.Context(), &program); err != nil {
		responses.SendAppError(c, err)
		return
	}
	responses.SendSuccess(c, http.StatusCreated, "Program created successfully", program)
}

// UpdateProgram godoc
// @Summary Update a training program
// @Tags Training
// @Accept json
// @Produce json
// @Param program_id path uint true "Program ID"
// @Param program body UpdateProgramRequest true "Fields to change"
// @Success 200 {object} responses.SuccessResponse
// @Failure 404 {object} responses.ErrorResponse "Program not found"
// @Security ApiKeyAuth
// @Router /training/programs/{program_id} [put]
func (tc *TrainingController) UpdateProgram(c *gin.Context) {
	id, err := utils.ParamID(c, "program_id")
	if err != nil {
		responses.BadRequest(c, err.Error())
		return
	}
	var req UpdateProgramRequest
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
	if req.DurationWeeks != nil {
		fields["duration_weeks"] = *req.DurationWeeks
	}
	if len(fields) == 0 {
		responses.BadRequest(c, "Nothing to update")
		return
	}
	if err := tc.repo.UpdateProgram(c.Request.Context(), id, fields); err != nil {
		responses.SendAppError(c, err)
		return
	}
	responses.SendSuccess(c, http.StatusOK, "Program updated successfully", nil)
}

// DeleteProgram godoc
// @Summary Delete a training program
// @Description Removes the program, its days, exercises and assignments.
// @Tags Training
// @Param program_id path uint true "Program ID"
// @Success 200 {object} responses.SuccessResponse
// @Failure 404 {object} responses.ErrorResponse "Program not found"
// @Security ApiKeyAuth
// @Router /training/programs/{program_id} [delete]
func (tc *TrainingController) DeleteProgram(c *gin.Context) {
	id, err := utils.ParamID(c, "program_id")
	if err != nil {
		responses.BadRequest(c, err.Error())
		return
	}
	if err := tc.repo.DeleteProgram(c.Request.Context(), id); err != nil {
		responses.SendAppError(c, err)
		return
	}
	responses.SendSuccess(c, http.StatusOK, "Program deleted successfully", nil)
}

// AddDay godoc
// @Summary Add a day to a program
// @Description The day is numbered one past the program's last day.
// @Tags Training
// @Accept json
// @Produce json
// @Param program_id path uint true "Program ID"
// @Param day body AddDayRequest true "Day"
// @Success 201 {object} responses.SuccessResponse{data=Day}
// @Security ApiKeyAuth
// @Router /training/programs/{program_id}/days [post]
func (tc *TrainingController) AddDay(c *gin.Context) {
	id, err := utils.ParamID(c, "program_id")
	if err != nil {
		responses.BadRequest(c, err.Error())
		return
	}
	var req AddDayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.ValidationFailed(c, validator.ParseError(err))
		return
	}
	day, err := tc.repo.AddDay(c.Request.Context(), id, strings.TrimSpace(req.Title), req.Notes)
	if err != nil {
		responses.SendAppError(c, err)
		return
	}
	responses.SendSuccess(c, http.StatusCreated, "Day added successfully", day)
}

// GetDay godoc
// @Summary Get a training day
// @Tags Training
// @Produce json
// @Param day_id path uint true "Day ID"
// @Success 200 {object} responses.SuccessResponse{data=Day}
// @Security ApiKeyAuth
// @Router /training/days/{day_id} [get]
func (tc *TrainingController) GetDay(c *gin.Context) {
	id, err := utils.ParamID(c, "day_id")
	if err != nil {
		responses.BadRequest(c, err.Error())
		return
	}
	day, err := tc.repo.GetDay(c.Request.Context(), id)
	if err != nil {
		responses.InternalServerError(c, err.Error())
		return
	}
	if day == nil {
		responses.NotFound(c, "Day")
		return
	}
	responses.SendSuccess(c, http.StatusOK, "Day retrieved successfully", day)
}

// DeleteDay godoc
// @Summary Delete a training day
// @Tags Training
// @Param day_id path uint true "Day ID"
// @Success 200 {object} responses.SuccessResponse
// @Security ApiKeyAuth
// @Router /training/days/{day_id} [delete]
func (tc *TrainingController) DeleteDay(c *gin.Context) {
	id, err := utils.ParamID(c, "day_id")
	if err != nil {
		responses.BadRequest(c, err.Error())
		return
	}
	if err := tc.repo.DeleteDay(c.Request.Context(), id); err != nil {
		responses.SendAppError(c, err)
		return
	}
	responses.SendSuccess(c, http.StatusOK, "Day deleted successfully", nil)
}

// AddExercise godoc
// @Summary Add an exercise to a day
// @Tags Training
// @Accept json
// @Produce json
// @Param day_id path uint true "Day ID"
// @Param exercise body AddExerciseRequest true "Exercise"
// @Success 201 {object} responses.SuccessResponse{data=Exercise}
// @Security ApiKeyAuth
// @Router /training/days/{day_id}/exercises [post]
func (tc *TrainingController) AddExercise(c *gin.Context) {
	id, err := utils.ParamID(c, "day_id")
	if err != nil {
		responses.BadRequest(c, err.Error())
		return
	}
	var req AddExerciseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.ValidationFailed(c, validator.ParseError(err))
		return
	}
	ex := Exercise{
		DayID:       id,
		Category:    req.Category,
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		Sets:        req.Sets,
		Reps:        req.Reps,
		Weight:      req.Weight,
		VideoURL:    req.VideoURL,
		ImageURL:    req.ImageURL,
	}
	if err := tc.repo.AddExercise(c.Request.Context(), &ex); err != nil {
		responses.SendAppError(c, err)
		return
	}
	responses.SendSuccess(c, http.StatusCreated, "Exercise added successfully", ex)
}

// DeleteExercise godoc
// @Summary Delete an exercise
// @Tags Training
// @Param exercise_id path uint true "Exercise ID"
// @Success 200 {object} responses.SuccessResponse
// @Security ApiKeyAuth
// @Router /training/exercises/{exercise_id} [delete]
func (tc *TrainingController) DeleteExercise(c *gin.Context) {
	id, err := utils.ParamID(c, "exercise_id")
	if err != nil {
		responses.BadRequest(c, err.Error())
		return
	}
	if err := tc.repo.DeleteExercise(c.Request.Context(), id); err != nil {
		responses.SendAppError(c, err)
		return
	}
	responses.SendSuccess(c, http.StatusOK, "Exercise deleted successfully", nil)
}

// AssignProgram godoc
// @Summary Assign a program to a team or player
// @Tags Training
// @Accept json
// @Produce json
// @Param program_id path uint true "Program ID"
// @Param assignment body AssignRequest true "Target and optional dates"
// @Success 201 {object} responses.SuccessResponse{data=Assignment}
// @Failure 400 {object} responses.ErrorResponse "Invalid scope or dates"
// @Security ApiKeyAuth
// @Router /training/programs/{program_id}/assignments [post]
func (tc *TrainingController) AssignProgram(c *gin.Context) {
	p, err := common.PrincipalFromContext(c)
	if err != nil {
		responses.Unauthorized(c, err.Error())
		return
	}
	id, err := utils.ParamID(c, "program_id")
	if err != nil {
		responses.BadRequest(c, err.Error())
		return
	}
	var req AssignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.ValidationFailed(c, validator.ParseError(err))
		return
	}
	a, err := NewAssignment(id, req, p.UserID)
	if err != nil {
		responses.SendAppError(c, err)
		return
	}
	if err := tc.repo.Assign(c.Request.Context(), a); err != nil {
		responses.SendAppError(c, err)
		return
	}
	responses.SendSuccess(c, http.StatusCreated, "Program assigned successfully", a)
}

// ListAssignments godoc
// @Summary List a program's assignments
// @Tags Training
// @Produce json
// @Param program_id path uint true "Program ID"
// @Success 200 {object} responses.SuccessResponse{data=[]Assignment}
// @Security ApiKeyAuth
// @Router /training/programs/{program_id}/assignments [get]
func (tc *TrainingController) ListAssignments(c *gin.Context) {
	id, err := utils.ParamID(c, "program_id")
	if err != nil {
		responses.BadRequest(c, err.Error())
		return
	}
	out, err := tc.repo.ListAssignments(c.Request.Context(), id)
	if err != nil {
		responses.InternalServerError(c, err.Error())
		return
	}
	responses.SendSuccess(c, http.StatusOK, "Assignments retrieved successfully", out)
}

// DeleteAssignment godoc
// @Summary Remove a program assignment
// @Tags Training
// @Param assignment_id path uint true "Assignment ID"
// @Success 200 {object} responses.SuccessResponse
// @Security ApiKeyAuth
// @Router /training/assignments/{assignment_id} [delete]
func (tc *TrainingController) DeleteAssignment(c *gin.Context) {
	id, err := utils.ParamID(c, "assignment_id")
	if err != nil {
		responses.BadRequest(c, err.Error())
		return
	}
	if err := tc.repo.DeleteAssignment(c.Request.Context(), id); err != nil {
		responses.SendAppError(c, err)
		return
	}
	responses.SendSuccess(c, http.StatusOK, "Assignment removed successfully", nil)
}

// NewAssignment turns an assign request into an unsaved assignment.
func NewAssignment(programID uint, req AssignRequest, assignedBy uint) (*Assignment, error) {
	scope, err := models.ParseScope(req.Scope, req.TargetID)
	if err != nil {
		return nil, common.Invalid("scope", err.Error())
	}
	start, err := models.ParseOptionalDate(req.StartDate)
	if err != nil {
		return nil, common.Invalid("start_date", err.Error())
	}
	end, err := models.ParseOptionalDate(req.EndDate)
	if err != nil {
		return nil, common.Invalid("end_date", err.Error())
	}
	a := &Assignment{ProgramID: programID, StartDate: start, EndDate: end, AssignedBy: assignedBy}
	a.SetScope(scope)
	return a, nil
}
