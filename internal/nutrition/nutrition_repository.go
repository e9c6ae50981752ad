package nutrition

import (
	"context"
	"errors"
	"time"

	"github.com/DhavalSuthar-24/dugout/internal/common"
	"gorm.io/gorm"
)

type NutritionRepository interface {
	CreateMeal(ctx context.Context, m *Meal) error
	GetMeal(ctx context.Context, id uint) (*Meal, error)
	ListMeals(ctx context.Context) ([]Meal, error)
	UpdateMeal(ctx context.Context, id uint, fields map[string]interface{}) error
	DeleteMeal(ctx context.Context, id uint) error

	CreatePlan(ctx context.Context, p *MealPlan, mealIDs []uint) error
	GetPlan(ctx context.Context, id uint) (*MealPlan, error)
	ListPlans(ctx context.Context) ([]MealPlan, error)
	DeletePlan(ctx context.Context, id uint) error

	Assign(ctx context.Context, a *MealPlanAssignment) error
	AssignmentsFor(ctx context.Context, playerID uint, teamIDs []uint) ([]MealPlanAssignment, error)
	DeleteAssignment(ctx context.Context, id uint) error

	WithTransaction(ctx context.Context, fn func(NutritionRepository) error) error
}

type nutritionRepository struct {
	db *gorm.DB
}

func NewNutritionRepository(db *gorm.DB) NutritionRepository {
	return &nutritionRepository{db: db}
}

func (r *nutritionRepository) WithTransaction(ctx context.Context, fn func(NutritionRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&nutritionRepository{db: tx})
	})
}

// --- Meals ---

func (r *nutritionRepository) CreateMeal(ctx context.Context, m *Meal) error {
	if m.Name == "" {
		return common.Invalid("name", "is required")
	}
	if !m.MealType.Valid() {
		return common.Invalid("meal_type", "must be breakfast, lunch, dinner or snack")
	}
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *nutritionRepository) GetMeal(ctx context.Context, id uint) (*Meal, error) {
	var m Meal
	if err := r.db.WithContext(ctx).First(&m, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &m, nil
}

// ListMeals orders by meal type through the day, then by name.
func (r *nutritionRepository) ListMeals(ctx context.Context) ([]Meal, error) {
	var meals []Meal
	err := r.db.WithContext(ctx).Order(mealTypeOrder).Order("name asc").Find(&meals).Error
	return meals, err
}

func (r *nutritionRepository) UpdateMeal(ctx context.Context, id uint, fields map[string]interface{}) error {
	if t, ok := fields["meal_type"].(MealType); ok && !t.Valid() {
		return common.Invalid("meal_type", "must be breakfast, lunch, dinner or snack")
	}
	res := r.db.WithContext(ctx).Model(&Meal{}).Where("id = ?", id).Updates(fields)
	return common.RequireRows(res.RowsAffected, res.Error)
}

// DeleteMeal drops the meal from every plan and unlinks calendar entries
// that referenced it.
func (r *nutritionRepository) DeleteMeal(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("meal_id = ?", id).Delete(&MealPlanItem{}).Error; err != nil {
			return err
		}
		if tx.Migrator().HasTable("schedule_events") {
			if err := tx.Exec("UPDATE schedule_events SET meal_id = NULL WHERE meal_id = ?", id).Error; err != nil {
				return err
			}
		}
		res := tx.Delete(&Meal{}, id)
		return common.RequireRows(res.RowsAffected, res.Error)
	})
}

// --- Plans ---

// CreatePlan inserts the plan and its items, ordered as mealIDs, in one
// transaction.
func (r *nutritionRepository) CreatePlan(ctx context.Context, p *MealPlan, mealIDs []uint) error {
	if p.Name == "" {
		return common.Invalid("name", "is required")
	}
	if len(mealIDs) == 0 {
		return common.Invalid("meal_ids", "select at least one meal")
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(p).Error; err != nil {
			return common.Step("insert plan", err)
		}
		items := make([]MealPlanItem, len(mealIDs))
		for i, id := range mealIDs {
			items[i] = MealPlanItem{MealPlanID: p.ID, MealID: id, SortOrder: i}
		}
		if err := tx.Create(&items).Error; err != nil {
			return common.Step("insert plan items", err)
		}
		p.Items = items
		return nil
	})
}

func orderedItems(db *gorm.DB) *gorm.DB {
	return db.Order("sort_order asc")
}

func (r *nutritionRepository) GetPlan(ctx context.Context, id uint) (*MealPlan, error) {
	var p MealPlan
	err := r.db.WithContext(ctx).
		Preload("Items", orderedItems).
		Preload("Items.Meal").
		Preload("Assignments").
		First(&p, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func (r *nutritionRepository) ListPlans(ctx context.Context) ([]MealPlan, error) {
	var plans []MealPlan
	err := r.db.WithContext(ctx).
		Preload("Items", orderedItems).
		Preload("Items.Meal").
		Preload("Assignments").
		Order("created_at desc").
		Find(&plans).Error
	return plans, err
}

func (r *nutritionRepository) DeletePlan(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("meal_plan_id = ?", id).Delete(&MealPlanItem{}).Error; err != nil {
			return err
		}
		if err := tx.Where("meal_plan_id = ?", id).Delete(&MealPlanAssignment{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&MealPlan{}, id)
		return common.RequireRows(res.RowsAffected, res.Error)
	})
}

// --- Assignments ---

func (r *nutritionRepository) Assign(ctx context.Context, a *MealPlanAssignment) error {
	if _, err := a.Scope(); err != nil {
		return common.Invalid("scope", err.Error())
	}
	if a.StartDate != nil && a.EndDate != nil && time.Time(*a.EndDate).Before(time.Time(*a.StartDate)) {
		return common.Invalid("end_date", "must not be before start_date")
	}
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *nutritionRepository) AssignmentsFor(ctx context.Context, playerID uint, teamIDs []uint) ([]MealPlanAssignment, error) {
	var out []MealPlanAssignment
	q := r.db.WithContext(ctx).Preload("MealPlan")
	if len(teamIDs) > 0 {
		q = q.Where("player_id = ? OR team_id IN ?", playerID, teamIDs)
	} else {
		q = q.Where("player_id = ?", playerID)
	}
	err := q.Order("created_at desc").Find(&out).Error
	return out, err
}

func (r *nutritionRepository) DeleteAssignment(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&MealPlanAssignment{}, id)
	return common.RequireRows(res.RowsAffected, res.Error)
}
