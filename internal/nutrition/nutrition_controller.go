package nutrition

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

type NutritionController struct {
	repo NutritionRepository
}

func NewNutritionController(repo NutritionRepository) *NutritionController {
	return &NutritionController{repo: repo}
}

// ListMeals godoc
// @Summary List meals
// @Description Meals ordered breakfast, lunch, dinner, snack, then by name.
// @Tags Nutrition
// @Produce json
// @Success 200 {object} responses.SuccessResponse{data=[]Meal}
// @Security ApiKeyAuth
// @Router /nutrition/meals [get]
func (nc *NutritionController) ListMeals(c *gin.Context) {
	meals, err := nc.repo.ListMeals(c.Request.Context())
	if err != nil {
		responses.InternalServerError(c, "Failed to retrieve meals: "+err.Error())
		return
	}
	responses.SendSuccess(c, http.StatusOK, "Meals retrieved successfully", meals)
}

// CreateMeal godoc
// @Summary Create a meal
// @Tags Nutrition
// @Accept json
// @Produce json
// @Param meal body MealRequest true "Meal"
// @Success 201 {object} responses.SuccessResponse{data=Meal}
// @Failure 400 {object} responses.ErrorResponse "Invalid input"
// @Security ApiKeyAuth
// @Router /nutrition/meals [post]
func (nc *NutritionController) CreateMeal(c *gin.Context) {
	p, err := common.PrincipalFromContext(c)
	if err != nil {
		responses.Unauthorized(c, err.Error())
		return
	}
	var req MealRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.ValidationFailed(c, validator.ParseError(err))
		return
	}
	meal := req.toMeal(p.UserID)
	if err := nc.repo.CreateMeal(c.Request.Context(), &meal); err != nil {
		responses.SendAppError(c, err)
		return
	}
	responses.SendSuccess(c, http.StatusCreated, "Meal created successfully", meal)
}

// UpdateMeal godoc
// @Summary Update a meal
// @Tags Nutrition
// @Accept json
// @Produce json
// @Param meal_id path uint true "Meal ID"
// @Param meal body MealRequest true "Meal"
// @Success 200 {object} responses.SuccessResponse
// @Failure 404 {object} responses.ErrorResponse "Meal not found"
// @Security ApiKeyAuth
// @Router /nutrition/meals/{meal_id} [put]
func (nc *NutritionController) UpdateMeal(c *gin.Context) {
	id, err := utils.ParamID(c, "meal_id")
	if err != nil {
		responses.BadRequest(c, err.Error())
		return
	}
	var req MealRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.ValidationFailed(c, validator.ParseError(err))
		return
	}
	if err := nc.repo.UpdateMeal(c.Request.Context(), id, req.Fields()); err != nil {
		responses.SendAppError(c, err)
		return
	}
	responses.SendSuccess(c, http.StatusOK, "Meal updated successfully", nil)
}

// DeleteMeal godoc
// @Summary Delete a meal
// @Tags Nutrition
// @Param meal_id path uint true "Meal ID"
// @Success 200 {object} responses.SuccessResponse
// @Failure 404 {object} responses.ErrorResponse "Meal not found"
// @Security ApiKeyAuth
// @Router /nutrition/meals/{meal_id} [delete]
func (nc *NutritionController) DeleteMeal(c *gin.Context) {
	id, err := utils.ParamID(c, "meal_id")
	if err != nil {
		responses.BadRequest(c, err.Error())
		return
	}
	if err := nc.repo.DeleteMeal(c.Request.Context(), id); err != nil {
		responses.SendAppError(c, err)
		return
	}
	responses.SendSuccess(c, http.StatusOK, "Meal deleted successfully", nil)
}

// ListPlans godoc
// @Summary List meal plans
// @Description Plans newest first with ordered meals, assignments and macro totals.
// @Tags Nutrition
// @Produce json
// @Success 200 {object} responses.SuccessResponse{data=[]MealPlanView}
// @Security ApiKeyAuth
// @Router /nutrition/plans [get]
func (nc *NutritionController) ListPlans(c *gin.Context) {
	plans, err := nc.repo.ListPlans(c.Request.Context())
	if err != nil {
		responses.InternalServerError(c, "Failed to retrieve meal plans: "+err.Error())
		return
	}
	out := make([]MealPlanView, len(plans))
	for i, p := range plans {
		out[i] = MealPlanView{MealPlan: p, Totals: p.Totals()}
	}
	responses.SendSuccess(c, http.StatusOK, "Meal plans retrieved successfully", out)
}

// GetPlan godoc
// @Summary Get a meal plan
// @Tags Nutrition
// @Produce json
// @Param plan_id path uint true "Plan ID"
// @Success 200 {object} responses.SuccessResponse{data=MealPlanView}
// @Failure 404 {object} responses.ErrorResponse "Plan not found"
// @Security ApiKeyAuth
// @Router /nutrition/plans/{plan_id} [get]
func (nc *NutritionController) GetPlan(c *gin.Context) {
	id, err := utils.ParamID(c, "plan_id")
	if err != nil {
		responses.BadRequest(c, err.Error())
		return
	}
	plan, err := nc.repo.GetPlan(c.Request.Context(), id)
	if err != nil {
		responses.InternalServerError(c, err.Error())
		return
	}
	if plan == nil {
		responses.NotFound(c, "Meal plan")
		return
	}
	responses.SendSuccess(c, http.StatusOK, "Meal plan retrieved successfully", MealPlanView{MealPlan: *plan, Totals: plan.Totals()})
}

// CreatePlan godoc
// @Summary Create a meal plan
// @Tags Nutrition
// @Accept json
// @Produce json
// @Param plan body CreatePlanRequest true "Plan with ordered meal ids"
// @Success 201 {object} responses.SuccessResponse{data=MealPlan}
// @Failure 400 {object} responses.ErrorResponse "Invalid input"
// @Security ApiKeyAuth
// @Router /nutrition/plans [post]
func (nc *NutritionController) CreatePlan(c *gin.Context) {
	p, err := common.PrincipalFromContext(c)
	if err != nil {
		responses.Unauthorized(c, err.Error())
		return
	}
	var req CreatePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.ValidationFailed(c, validator.ParseError(err))
		return
	}
	plan := MealPlan{Name: strings.TrimSpace(req.Name), Description: req.Description, CreatedBy: p.UserID}
	if err := nc.repo.CreatePlan(c.Request.Context(), &plan, req.MealIDs); err != nil {
		responses.SendAppError(c, err)
		return
	}
	responses.SendSuccess(c, http.StatusCreated, "Meal plan created successfully", plan)
}

// DeletePlan godoc
// @Summary Delete a meal plan
// @Tags Nutrition
// @Param plan_id path uint true "Plan ID"
// @Success 200 {object} responses.SuccessResponse
// @Security ApiKeyAuth
// @Router /nutrition/plans/{plan_id} [delete]
func (nc *NutritionController) DeletePlan(c *gin.Context) {
	id, err := utils.ParamID(c, "plan_id")
	if err != nil {
		responses.BadRequest(c, err.Error())
		return
	}
	if err := nc.repo.DeletePlan(c.Request.Context(), id); err != nil {
		responses.SendAppError(c, err)
		return
	}
	responses.SendSuccess(c, http.StatusOK, "Meal plan deleted successfully", nil)
}

// AssignPlan godoc
// @Summary Assign a meal plan to a team or player
// @Tags Nutrition
// @Accept json
// @Produce json
// @Param plan_id path uint true "Plan ID"
// @Param assignment body AssignRequest true "Target and optional dates"
// @Success 201 {object} responses.SuccessResponse{data=MealPlanAssignment}
// @Security ApiKeyAuth
// @Router /nutrition/plans/{plan_id}/assignments [post]
func (nc *NutritionController) AssignPlan(c *gin.Context) {
	p, err := common.PrincipalFromContext(c)
	if err != nil {
		responses.Unauthorized(c, err.Error())
		return
	}
	id, err := utils.ParamID(c, "plan_id")
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
	if err := nc.repo.Assign(c.Request.Context(), a); err != nil {
		responses.SendAppError(c, err)
		return
	}
	responses.SendSuccess(c, http.StatusCreated, "Meal plan assigned successfully", a)
}

// DeleteAssignment godoc
// @Summary Remove a meal plan assignment
// @Tags Nutrition
// @Param assignment_id path uint true "Assignment ID"
// @Success 200 {object} responses.SuccessResponse
// @Security ApiKeyAuth
// @Router /nutrition/assignments/{assignment_id} [delete]
func (nc *NutritionController) DeleteAssignment(c *gin.Context) {
	id, err := utils.ParamID(c, "assignment_id")
	if err != nil {
		responses.BadRequest(c, err.Error())
		return
	}
	if err := nc.repo.DeleteAssignment(c.Request.Context(), id); err != nil {
		responses.SendAppError(c, err)
		return
	}
	responses.SendSuccess(c, http.StatusOK, "Assignment removed successfully", nil)
}

func (req MealRequest) toMeal(createdBy uint) Meal {
	return Meal{
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		MealType:    req.MealType,
		Calories:    req.Calories,
		ProteinG:    req.ProteinG,
		CarbsG:      req.CarbsG,
		FatG:        req.FatG,
		CreatedBy:   createdBy,
	}
}

// Fields is the column map for a full meal update. Nil macros are written as
// NULL.
func (req MealRequest) Fields() map[string]interface{} {
	return map[string]interface{}{
		"name":        strings.TrimSpace(req.Name),
		"description": req.Description,
		"meal_type":   req.MealType,
		"calories":    req.Calories,
		"protein_g":   req.ProteinG,
		"carbs_g":     req.CarbsG,
		"fat_g":       req.FatG,
	}
}

// NewAssignment turns an assign request into an unsaved assignment.
func NewAssignment(planID uint, req AssignRequest, assignedBy uint) (*MealPlanAssignment, error) {
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
	a := &MealPlanAssignment{MealPlanID: planID, StartDate: start, EndDate: end, AssignedBy: assignedBy}
	a.SetScope(scope)
	return a, nil
}
