package training

import (
	"context"
	"testing"

	"github.com/DhavalSuthar-24/dugout/internal/common"
	"github.com/DhavalSuthar-24/dugout/internal/models"
	"github.com/DhavalSuthar-24/dugout/internal/testdb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupRepo(t *testing.T) (TrainingRepository, *gorm.DB) {
	t.Helper()
	db := testdb.Open(t, &Program{}, &Day{}, &Exercise{}, &Assignment{})
	return NewTrainingRepository(db), db
}

func strPtr(s string) *string { return &s }

func TestDaysAndExercisesAreNumberedInOrder(t *testing.T) {
	repo, _ := setupRepo(t)
	ctx := context.Background()
	p := &Program{Name: "Off-Season Strength", CreatedBy: 1}
	require.NoError(t, repo.CreateProgram(ctx, p))

	d1, err := repo.AddDay(ctx, p.ID, "Upper Body", "")
	require.NoError(t, err)
	d2, err := repo.AddDay(ctx, p.ID, "", "Light warmup")
	require.NoError(t, err)
	assert.Equal(t, 1, d1.DayNumber)
	assert.Equal(t, 2, d2.DayNumber)
	assert.Equal(t, "Upper Body", d1.Label())
	assert.Equal(t, "Day 2", d2.Label())

	_, err = repo.AddDay(ctx, 999, "", "")
	assert.ErrorIs(t, err, common.ErrNotFound)

	require.NoError(t, repo.AddExercise(ctx, &Exercise{DayID: d1.ID, Category: CategoryConditioning, Name: "Bench"}))
	require.NoError(t, repo.AddExercise(ctx, &Exercise{DayID: d1.ID, Category: CategoryHitting, Name: "Tee work"}))
	assert.Error(t, repo.AddExercise(ctx, &Exercise{DayID: d1.ID, Category: "yoga", Name: "Flow"}))

	got, err := repo.GetProgram(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, got.Days, 2)
	require.Len(t, got.Days[0].Exercises, 2)
	assert.Equal(t, "Bench", got.Days[0].Exercises[0].Name)
	assert.Equal(t, 1, got.Days[0].Exercises[1].SortOrder)

	require.NoError(t, repo.DeleteDay(ctx, d1.ID))
	d3, err := repo.AddDay(ctx, p.ID, "", "")
	require.NoError(t, err)
	assert.Equal(t, 3, d3.DayNumber)
}

func TestAssignmentScopeAndDates(t *testing.T) {
	repo, _ := setupRepo(t)
	ctx := context.Background()
	p := &Program{Name: "Off-Season Strength"}
	require.NoError(t, repo.CreateProgram(ctx, p))

	a, err := NewAssignment(p.ID, AssignRequest{Scope: "player", TargetID: 7, StartDate: strPtr("2024-06-15")}, 1)
	require.NoError(t, err)
	require.NoError(t, repo.Assign(ctx, a))
	assert.Nil(t, a.TeamID)
	require.NotNil(t, a.PlayerID)
	assert.Equal(t, uint(7), *a.PlayerID)
	assert.Equal(t, "2024-06-15", models.FormatDate(*a.StartDate))

	_, err = NewAssignment(p.ID, AssignRequest{Scope: "league", TargetID: 7}, 1)
	var ve *common.ValidationError
	assert.ErrorAs(t, err, &ve)

	bad, err := NewAssignment(p.ID, AssignRequest{Scope: "team", TargetID: 3, StartDate: strPtr("2024-06-15"), EndDate: strPtr("2024-06-01")}, 1)
	require.NoError(t, err)
	assert.ErrorAs(t, repo.Assign(ctx, bad), &ve)

	// Both keys set never reaches the table.
	team, player := uint(3), uint(7)
	both := &Assignment{ProgramID: p.ID}
	both.TeamID, both.PlayerID = &team, &player
	assert.Error(t, repo.Assign(ctx, both))

	teamA, err := NewAssignment(p.ID, AssignRequest{Scope: "team", TargetID: 3}, 1)
	require.NoError(t, err)
	require.NoError(t, repo.Assign(ctx, teamA))

	mine, err := repo.AssignmentsFor(ctx, 7, []uint{3})
	require.NoError(t, err)
	assert.Len(t, mine, 2)
	require.NotNil(t, mine[0].Program)

	justMine, err := repo.AssignmentsFor(ctx, 7, nil)
	require.NoError(t, err)
	assert.Len(t, justMine, 1)
}

func TestAssignmentScopeIsFixedAfterCreate(t *testing.T) {
	repo, db := setupRepo(t)
	ctx := context.Background()
	p := &Program{Name: "Speed"}
	require.NoError(t, repo.CreateProgram(ctx, p))
	a, err := NewAssignment(p.ID, AssignRequest{Scope: "team", TargetID: 3}, 1)
	require.NoError(t, err)
	require.NoError(t, repo.Assign(ctx, a))

	assert.ErrorIs(t, db.Model(a).Update("player_id", 9).Error, models.ErrScopeFixed)
	assert.ErrorIs(t, db.Model(a).Updates(map[string]interface{}{"team_id": 4}).Error, models.ErrScopeFixed)

	end, err := models.ParseDate("2024-08-31")
	require.NoError(t, err)
	require.NoError(t, db.Model(a).Update("end_date", end).Error)

	var got Assignment
	require.NoError(t, db.First(&got, a.ID).Error)
	require.NotNil(t, got.TeamID)
	assert.Equal(t, uint(3), *got.TeamID)
	assert.Nil(t, got.PlayerID)
	require.NotNil(t, got.EndDate)
}

func TestAssignmentActiveOn(t *testing.T) {
	start, _ := models.ParseDate("2024-06-01")
	end, _ := models.ParseDate("2024-06-30")
	a := Assignment{StartDate: &start, EndDate: &end}

	for day, want := range map[string]bool{
		"2024-05-31": false,
		"2024-06-01": true,
		"2024-06-30": true,
		"2024-07-01": false,
	} {
		d, err := models.ParseDate(day)
		require.NoError(t, err)
		assert.Equal(t, want, a.ActiveOn(d), day)
	}

	open := Assignment{StartDate: &start}
	later, _ := models.ParseDate("2030-01-01")
	assert.True(t, open.ActiveOn(later))
}

func TestDeleteProgramCascades(t *testing.T) {
	repo, db := setupRepo(t)
	ctx := context.Background()
	require.NoError(t, db.Exec("CREATE TABLE schedule_events (id integer primary key, training_day_id integer)").Error)

	p := &Program{Name: "Hitting"}
	require.NoError(t, repo.CreateProgram(ctx, p))
	day, err := repo.AddDay(ctx, p.ID, "Tee", "")
	require.NoError(t, err)
	require.NoError(t, repo.AddExercise(ctx, &Exercise{DayID: day.ID, Category: CategoryHitting, Name: "Tee work"}))
	a, err := NewAssignment(p.ID, AssignRequest{Scope: "team", TargetID: 1}, 1)
	require.NoError(t, err)
	require.NoError(t, repo.Assign(ctx, a))
	require.NoError(t, db.Exec("INSERT INTO schedule_events (training_day_id) VALUES (?)", day.ID).Error)

	require.NoError(t, repo.DeleteProgram(ctx, p.ID))

	for _, m := range []interface{}{&Day{}, &Exercise{}, &Assignment{}} {
		var n int64
		require.NoError(t, db.Model(m).Count(&n).Error)
		assert.Zero(t, n)
	}
	var linked int64
	require.NoError(t, db.Table("schedule_events").Where("training_day_id IS NOT NULL").Count(&linked).Error)
	assert.Zero(t, linked)

	assert.ErrorIs(t, repo.DeleteProgram(ctx, p.ID), common.ErrNotFoundOrForbidden)
}
