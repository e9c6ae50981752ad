package nutrition

import (
	"time"

	"github.com/DhavalSuthar-24/dugout/internal/models"
	"gorm.io/datatypes"
)

type MealType string

const (
	Breakfast MealType = "breakfast"
	Lunch     MealType = "lunch"
	Dinner    MealType = "dinner"
	Snack     MealType = "snack"
)

func (t MealType) Valid() bool {
	switch t {
	case Breakfast, Lunch, Dinner, Snack:
		return true
	}
	return false
}

// mealTypeOrder sorts meals the way the day runs rather than alphabetically.
const mealTypeOrder = "CASE meal_type WHEN 'breakfast' THEN 0 WHEN 'lunch' THEN 1 WHEN 'dinner' THEN 2 ELSE 3 END"

type Meal struct {
	models.BaseModel
	Name        string   `json:"name" gorm:"not null"`
	Description string   `json:"description"`
	MealType    MealType `json:"meal_type" gorm:"type:varchar(16);not null"`
	Calories    *int     `json:"calories"`
	ProteinG    *float64 `json:"protein_g"`
	CarbsG      *float64 `json:"carbs_g"`
	FatG        *float64 `json:"fat_g"`
	CreatedBy   uint     `json:"created_by" gorm:"index"`
}

type MealPlan struct {
	models.BaseModel
	Name        string               `json:"name" gorm:"not null"`
	Description string               `json:"description"`
	CreatedBy   uint                 `json:"created_by" gorm:"index"`
	Items       []MealPlanItem       `json:"items,omitempty"`
	Assignments []MealPlanAssignment `json:"assignments,omitempty"`
}

type MealPlanItem struct {
	models.BaseModel
	MealPlanID uint  `json:"meal_plan_id" gorm:"not null;index"`
	MealID     uint  `json:"meal_id" gorm:"not null;index"`
	SortOrder  int   `json:"sort_order" gorm:"default:0"`
	Meal       *Meal `json:"meal,omitempty"`
}

// MealPlanAssignment gives a plan to exactly one team or one player.
type MealPlanAssignment struct {
	models.BaseModel
	MealPlanID uint `json:"meal_plan_id" gorm:"not null;index"`
	models.Scoped
	StartDate  *datatypes.Date `json:"start_date"`
	EndDate    *datatypes.Date `json:"end_date"`
	AssignedBy uint            `json:"assigned_by"`
	MealPlan   *MealPlan       `json:"meal_plan,omitempty"`
}

// ActiveOn reports whether day falls inside the assignment's date range. A
// missing bound is open.
func (a MealPlanAssignment) ActiveOn(day datatypes.Date) bool {
	d := time.Time(day)
	if a.StartDate != nil && time.Time(*a.StartDate).After(d) {
		return false
	}
	if a.EndDate != nil && time.Time(*a.EndDate).Before(d) {
		return false
	}
	return true
}

// Macros sums the nutrition facts of a plan's meals. Missing values count as
// zero.
type Macros struct {
	Calories int     `json:"calories"`
	ProteinG float64 `json:"protein_g"`
	CarbsG   float64 `json:"carbs_g"`
	FatG     float64 `json:"fat_g"`
}

func (p MealPlan) Totals() Macros {
	var m Macros
	for _, it := range p.Items {
		if it.Meal == nil {
			continue
		}
		if it.Meal.Calories != nil {
			m.Calories += *it.Meal.Calories
		}
		if it.Meal.ProteinG != nil {
			m.ProteinG += *it.Meal.ProteinG
		}
		if it.Meal.CarbsG != nil {
			m.CarbsG += *it.Meal.CarbsG
		}
		if it.Meal.FatG != nil {
			m.FatG += *it.Meal.FatG
		}
	}
	return m
}

// MealPlanView is a plan with its totals.
type MealPlanView struct {
	MealPlan
	Totals Macros `json:"totals"`
}

// --- DTOs for requests ---

type MealRequest struct {
	Name        string   `json:"name" binding:"required,max=200"`
	Description string   `json:"description"`
	MealType    MealType `json:"meal_type" binding:"required,oneof=breakfast lunch dinner snack"`
	Calories    *int     `json:"calories" binding:"omitempty,gte=0"`
	ProteinG    *float64 `json:"protein_g" binding:"omitempty,gte=0"`
	CarbsG      *float64 `json:"carbs_g" binding:"omitempty,gte=0"`
	FatG        *float64 `json:"fat_g" binding:"omitempty,gte=0"`
}

type CreatePlanRequest struct {
	Name        string `json:"name" binding:"required,max=200"`
	Description string `json:"description"`
	MealIDs     []uint `json:"meal_ids" binding:"required,min=1"`
}

type AssignRequest struct {
	Scope     string  `json:"scope" binding:"required,oneof=team player"`
	TargetID  uint    `json:"target_id" binding:"required"`
	StartDate *string `json:"start_date" binding:"omitempty,isodate"`
	EndDate   *string `json:"end_date" binding:"omitempty,isodate"`
}
