package nutrition

import (
	"context"
	"testing"

	"github.com/DhavalSuthar-24/dugout/internal/common"
	"github.com/DhavalSuthar-24/dugout/internal/testdb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupRepo(t *testing.T) (NutritionRepository, *gorm.DB) {
	t.Helper()
	db := testdb.Open(t, &Meal{}, &MealPlan{}, &MealPlanItem{}, &MealPlanAssignment{})
	return NewNutritionRepository(db), db
}

func intPtr(i int) *int { return &i }
func floatPtr(f float64) *float64 { return &f }
func strPtr(s string) *string { return &s }

func TestListMealsOrdersByTypeThenName(t *testing.T) {
	repo, _ := setupRepo(t)
	ctx := context.Background()
	for _, m := range []Meal{
		{Name: "Trail Mix", MealType: Snack},
		{Name: "Steak", MealType: Dinner},
		{Name: "Oatmeal", MealType: Breakfast},
		{Name: "Eggs", MealType: Breakfast},
		{Name: "Wrap", MealType: Lunch},
	} {
		m := m
		require.NoError(t, repo.CreateMeal(ctx, &m))
	}
	assert.Error(t, repo.CreateMeal(ctx, &Meal{Name: "Brunch", MealType: "brunch"}))

	meals, err := repo.ListMeals(ctx)
	require.NoError(t, err)
	var names []string
	for _, m := range meals {
		names = append(names, m.Name)
	}
	assert.Equal(t, []string{"Eggs", "Oatmeal", "Wrap", "Steak", "Trail Mix"}, names)
}

func TestCreatePlanKeepsOrderAndTotals(t *testing.T) {
	repo, _ := setupRepo(t)
	ctx := context.Background()
	oats := &Meal{Name: "Oatmeal", MealType: Breakfast, Calories: intPtr(300), ProteinG: floatPtr(10)}
	chicken := &Meal{Name: "Chicken", MealType: Dinner, Calories: intPtr(600), ProteinG: floatPtr(45.5), FatG: floatPtr(20)}
	require.NoError(t, repo.CreateMeal(ctx, oats))
	require.NoError(t, repo.CreateMeal(ctx, chicken))

	plan := &MealPlan{Name: "Game Day"}
	require.NoError(t, repo.CreatePlan(ctx, plan, []uint{chicken.ID, oats.ID}))

	got, err := repo.GetPlan(ctx, plan.ID)
	require.NoError(t, err)
	require.Len(t, got.Items, 2)
	assert.Equal(t, "Chicken", got.Items[0].Meal.Name)
	assert.Equal(t, "Oatmeal", got.Items[1].Meal.Name)
	assert.Equal(t, Macros{Calories: 900, ProteinG: 55.5, FatG: 20}, got.Totals())

	var ve *common.ValidationError
	assert.ErrorAs(t, repo.CreatePlan(ctx, &MealPlan{Name: "Empty"}, nil), &ve)
}

func TestDeleteMealRemovesPlanItems(t *testing.T) {
	repo, db := setupRepo(t)
	ctx := context.Background()
	require.NoError(t, db.Exec("CREATE TABLE schedule_events (id integer primary key, meal_id integer)").Error)

	meal := &Meal{Name: "Oatmeal", MealType: Breakfast}
	require.NoError(t, repo.CreateMeal(ctx, meal))
	plan := &MealPlan{Name: "Plan"}
	require.NoError(t, repo.CreatePlan(ctx, plan, []uint{meal.ID}))
	require.NoError(t, db.Exec("INSERT INTO schedule_events (meal_id) VALUES (?)", meal.ID).Error)

	require.NoError(t, repo.DeleteMeal(ctx, meal.ID))

	got, err := repo.GetPlan(ctx, plan.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Items)

	var linked int64
	require.NoError(t, db.Table("schedule_events").Where("meal_id IS NOT NULL").Count(&linked).Error)
	assert.Zero(t, linked)

	assert.ErrorIs(t, repo.DeleteMeal(ctx, meal.ID), common.ErrNotFoundOrForbidden)
}

func TestAssignPlan(t *testing.T) {
	repo, _ := setupRepo(t)
	ctx := context.Background()
	meal := &Meal{Name: "Oatmeal", MealType: Breakfast}
	require.NoError(t, repo.CreateMeal(ctx, meal))
	plan := &MealPlan{Name: "Plan"}
	require.NoError(t, repo.CreatePlan(ctx, plan, []uint{meal.ID}))

	a, err := NewAssignment(plan.ID, AssignRequest{Scope: "team", TargetID: 4, StartDate: strPtr("2024-06-01")}, 2)
	require.NoError(t, err)
	require.NoError(t, repo.Assign(ctx, a))

	list, err := repo.AssignmentsFor(ctx, 9, []uint{4})
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.NotNil(t, list[0].MealPlan)
	assert.Equal(t, "Plan", list[0].MealPlan.Name)

	none, err := repo.AssignmentsFor(ctx, 9, nil)
	require.NoError(t, err)
	assert.Empty(t, none)

	require.NoError(t, repo.DeletePlan(ctx, plan.ID))
	list, err = repo.AssignmentsFor(ctx, 9, []uint{4})
	require.NoError(t, err)
	assert.Empty(t, list)
}
