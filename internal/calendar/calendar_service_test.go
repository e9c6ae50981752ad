package calendar

import (
	"context"
	"testing"
	"time"

	"github.com/DhavalSuthar-24/dugout/internal/common"
	"github.com/DhavalSuthar-24/dugout/internal/models"
	"github.com/DhavalSuthar-24/dugout/internal/nutrition"
	"github.com/DhavalSuthar-24/dugout/internal/realtime"
	"github.com/DhavalSuthar-24/dugout/internal/team"
	"github.com/DhavalSuthar-24/dugout/internal/testdb"
	"github.com/DhavalSuthar-24/dugout/internal/training"
	"github.com/DhavalSuthar-24/dugout/internal/user"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type fixture struct {
	db     *gorm.DB
	svc    *Service
	teams  team.TeamRepository
	broker *realtime.Broker
}

func setup(t *testing.T) *fixture {
	t.Helper()
	db := testdb.Open(t,
		&user.User{}, &user.PlayerProfile{},
		&team.Team{}, &team.TeamMember{},
		&training.Program{}, &training.Day{}, &training.Exercise{}, &training.Assignment{},
		&nutrition.Meal{}, &nutrition.MealPlan{}, &nutrition.MealPlanItem{}, &nutrition.MealPlanAssignment{},
		&ScheduleEvent{},
	)
	broker := realtime.NewBroker(zap.NewNop())
	teams := team.NewTeamRepository(db)
	svc := NewService(Deps{
		Repo:      NewCalendarRepository(db),
		Teams:     teams,
		Users:     user.NewUserRepository(db),
		Training:  training.NewTrainingRepository(db),
		Nutrition: nutrition.NewNutritionRepository(db),
		Publisher: broker,
		Log:       zap.NewNop(),
	})
	return &fixture{db: db, svc: svc, teams: teams, broker: broker}
}

func (f *fixture) user(t *testing.T, name string, role common.Role) common.Principal {
	t.Helper()
	u := &user.User{Email: name + "@example.com", FullName: name, Role: role}
	require.NoError(t, f.db.Create(u).Error)
	return common.Principal{UserID: u.ID, FullName: name, Role: role}
}

func (f *fixture) team(t *testing.T, name string, members ...common.Principal) *team.Team {
	t.Helper()
	ctx := context.Background()
	tm := &team.Team{Name: name}
	require.NoError(t, f.teams.Create(ctx, tm))
	for _, m := range members {
		require.NoError(t, f.teams.AddMember(ctx, &team.TeamMember{TeamID: tm.ID, UserID: m.UserID, Role: team.MemberRoleFor(m.Role)}))
	}
	return tm
}

func date(t *testing.T, s string) *AddEventDraft {
	t.Helper()
	d, err := models.ParseDate(s)
	require.NoError(t, err)
	return &AddEventDraft{Date: d}
}

func draft(t *testing.T, scope models.Scope, day string, kind EventKind, cov Coverage, src Source) *AddEventDraft {
	t.Helper()
	d := date(t, day)
	d.Scope = scope
	require.NoError(t, d.ChooseKind(kind))
	if cov != "" {
		require.NoError(t, d.ChooseCoverage(cov))
	}
	if src != "" {
		require.NoError(t, d.ChooseSource(src))
	}
	return d
}

func TestTeamGameShowsOnTeamCalendarOnly(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	coach := f.user(t, "Coach Carter", common.RoleCoach)
	jane := f.user(t, "Jane Doe", common.RolePlayer)
	u14 := f.team(t, "14U", coach, jane)

	sub := f.broker.Subscribe(jane.UserID, realtime.TableSchedule)
	defer sub.Close()

	home := Home
	d := draft(t, models.TeamScope(u14.ID), "2024-06-01", KindTeamEvent, "", "")
	d.TeamEvent = &TeamEventInput{EventType: EventGame, Opponent: "Hawks", HomeAway: &home, Location: "Field 3"}
	res, err := f.svc.Submit(ctx, coach, d)
	require.NoError(t, err)
	require.NotNil(t, res.Event)
	assert.Nil(t, res.TrainingAssignment)
	require.NotNil(t, res.Event.TeamID)
	assert.Equal(t, u14.ID, *res.Event.TeamID)
	assert.Nil(t, res.Event.PlayerID)

	select {
	case ev := <-sub.C:
		assert.Equal(t, realtime.ActionInsert, ev.Action)
		assert.Equal(t, res.Event.ID, ev.ID)
	case <-time.After(time.Second):
		t.Fatal("no schedule event published")
	}

	view, err := f.svc.Month(ctx, jane, models.TeamScope(u14.ID), 2024, time.June, DefaultBadges)
	require.NoError(t, err)
	cell := view.Cells[6]
	assert.Equal(t, "2024-06-01", cell.Date)
	require.Len(t, cell.Events, 1)
	assert.Equal(t, "vs Hawks", cell.Events[0].DisplayTitle())
	require.NotNil(t, cell.Events[0].HomeAway)
	assert.Equal(t, Home, *cell.Events[0].HomeAway)

	own, err := f.svc.Month(ctx, jane, models.PlayerScope(jane.UserID), 2024, time.June, DefaultBadges)
	require.NoError(t, err)
	for _, c := range own.Cells {
		assert.Empty(t, c.Events, c.Date)
	}

	outsider := f.user(t, "Outsider", common.RolePlayer)
	_, err = f.svc.Month(ctx, outsider, models.TeamScope(u14.ID), 2024, time.June, DefaultBadges)
	assert.ErrorIs(t, err, common.ErrForbidden)
	_, err = f.svc.Month(ctx, outsider, models.PlayerScope(jane.UserID), 2024, time.June, DefaultBadges)
	assert.ErrorIs(t, err, common.ErrForbidden)
	_, err = f.svc.Month(ctx, coach, models.TeamScope(u14.ID), 2024, 13, DefaultBadges)
	var ve *common.ValidationError
	assert.ErrorAs(t, err, &ve)
}

func TestPracticeDropsHomeAway(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	admin := f.user(t, "Admin", common.RoleAdmin)
	u14 := f.team(t, "14U")

	away := Away
	d := draft(t, models.TeamScope(u14.ID), "2024-06-03", KindTeamEvent, "", "")
	d.TeamEvent = &TeamEventInput{EventType: EventPractice, HomeAway: &away}
	res, err := f.svc.Submit(ctx, admin, d)
	require.NoError(t, err)
	assert.Nil(t, res.Event.HomeAway)
}

func TestFullProgramCreatesAssignmentNotEvents(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	coach := f.user(t, "Coach", common.RoleCoach)
	jane := f.user(t, "Jane", common.RolePlayer)
	f.team(t, "14U", coach, jane)

	trainingRepo := training.NewTrainingRepository(f.db)
	prog := &training.Program{Name: "Off-Season Strength", CreatedBy: coach.UserID}
	require.NoError(t, trainingRepo.CreateProgram(ctx, prog))
	_, err := trainingRepo.AddDay(ctx, prog.ID, "Upper Body", "")
	require.NoError(t, err)

	d := draft(t, models.PlayerScope(jane.UserID), "2024-06-10", KindWorkout, Full, "")
	d.ProgramID = prog.ID
	res, err := f.svc.Submit(ctx, coach, d)
	require.NoError(t, err)
	assert.Nil(t, res.Event)
	require.NotNil(t, res.TrainingAssignment)
	require.NotNil(t, res.TrainingAssignment.StartDate)
	assert.Equal(t, "2024-06-10", models.FormatDate(*res.TrainingAssignment.StartDate))
	require.NotNil(t, res.TrainingAssignment.PlayerID)
	assert.Equal(t, jane.UserID, *res.TrainingAssignment.PlayerID)

	var events int64
	require.NoError(t, f.db.Model(&ScheduleEvent{}).Count(&events).Error)
	assert.Zero(t, events)

	d = draft(t, models.PlayerScope(jane.UserID), "2024-06-10", KindWorkout, Full, "")
	d.ProgramID = 999
	_, err = f.svc.Submit(ctx, coach, d)
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestSingleWorkoutFromExistingDay(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	admin := f.user(t, "Admin", common.RoleAdmin)
	jane := f.user(t, "Jane", common.RolePlayer)

	trainingRepo := training.NewTrainingRepository(f.db)
	prog := &training.Program{Name: "Speed", CreatedBy: admin.UserID}
	require.NoError(t, trainingRepo.CreateProgram(ctx, prog))
	day, err := trainingRepo.AddDay(ctx, prog.ID, "", "")
	require.NoError(t, err)
	require.NoError(t, trainingRepo.AddExercise(ctx, &training.Exercise{DayID: day.ID, Category: training.CategoryConditioning, Name: "Sprints"}))

	d := draft(t, models.PlayerScope(jane.UserID), "2024-06-12", KindWorkout, Single, Existing)
	d.ProgramID, d.DayID = prog.ID, day.ID
	res, err := f.svc.Submit(ctx, admin, d)
	require.NoError(t, err)
	assert.Equal(t, "Day 1", res.Event.Title)

	got, err := f.svc.GetEvent(ctx, jane, res.Event.ID)
	require.NoError(t, err)
	require.NotNil(t, got.TrainingDay)
	require.Len(t, got.TrainingDay.Exercises, 1)
	assert.Equal(t, "Sprints", got.TrainingDay.Exercises[0].Name)

	other := &training.Program{Name: "Other", CreatedBy: admin.UserID}
	require.NoError(t, trainingRepo.CreateProgram(ctx, other))
	d = draft(t, models.PlayerScope(jane.UserID), "2024-06-12", KindWorkout, Single, Existing)
	d.ProgramID, d.DayID = other.ID, day.ID
	_, err = f.svc.Submit(ctx, admin, d)
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestNewMealEventIsOneUnit(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	admin := f.user(t, "Admin", common.RoleAdmin)
	jane := f.user(t, "Jane", common.RolePlayer)

	cal := 650
	d := draft(t, models.PlayerScope(jane.UserID), "2024-06-04", KindMeal, Single, CreateNew)
	d.NewMeal = &nutrition.MealRequest{Name: "Chicken & Rice", MealType: nutrition.Lunch, Calories: &cal}
	res, err := f.svc.Submit(ctx, admin, d)
	require.NoError(t, err)
	require.NotNil(t, res.Event.MealID)
	assert.Equal(t, "Chicken & Rice", res.Event.Title)
	assert.Equal(t, EventMeal, res.Event.EventType)

	// Without the events table the meal insert must roll back too.
	require.NoError(t, f.db.Migrator().DropTable(&ScheduleEvent{}))
	d = draft(t, models.PlayerScope(jane.UserID), "2024-06-05", KindMeal, Single, CreateNew)
	d.NewMeal = &nutrition.MealRequest{Name: "Orphan", MealType: nutrition.Dinner}
	_, err = f.svc.Submit(ctx, admin, d)
	var se *common.StepError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "insert event", se.Step)

	var meals int64
	require.NoError(t, f.db.Model(&nutrition.Meal{}).Count(&meals).Error)
	assert.EqualValues(t, 1, meals)
}

func TestEditMealEventSyncsMeal(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	admin := f.user(t, "Admin", common.RoleAdmin)
	jane := f.user(t, "Jane", common.RolePlayer)

	meals := nutrition.NewNutritionRepository(f.db)
	meal := &nutrition.Meal{Name: "Oatmeal", MealType: nutrition.Breakfast, CreatedBy: admin.UserID}
	require.NoError(t, meals.CreateMeal(ctx, meal))

	d := draft(t, models.PlayerScope(jane.UserID), "2024-06-06", KindMeal, Single, Existing)
	d.MealID = meal.ID
	res, err := f.svc.Submit(ctx, admin, d)
	require.NoError(t, err)
	assert.Equal(t, "Oatmeal", res.Event.Title)

	cal := 420
	updated, err := f.svc.UpdateEvent(ctx, admin, res.Event.ID, UpdateEventRequest{
		Title: "ignored",
		Notes: "add berries",
		Meal:  &nutrition.MealRequest{Name: "Overnight Oats", MealType: nutrition.Breakfast, Calories: &cal},
	})
	require.NoError(t, err)
	assert.Equal(t, "Overnight Oats", updated.Title)
	assert.Equal(t, "add berries", updated.Notes)

	stored, err := meals.GetMeal(ctx, meal.ID)
	require.NoError(t, err)
	assert.Equal(t, "Overnight Oats", stored.Name)
	require.NotNil(t, stored.Calories)
	assert.Equal(t, 420, *stored.Calories)

	// Without meal values the title still follows the linked meal.
	at := "07:15"
	plain, err := f.svc.UpdateEvent(ctx, admin, res.Event.ID, UpdateEventRequest{Title: "Pizza", EventTime: &at})
	require.NoError(t, err)
	assert.Equal(t, "Overnight Oats", plain.Title)
	require.NotNil(t, plain.EventTime)
	assert.Equal(t, "07:15", *plain.EventTime)
	stored, err = meals.GetMeal(ctx, meal.ID)
	require.NoError(t, err)
	assert.Equal(t, stored.Name, plain.Title)
}

func TestEditTeamEventTitleIsOpponent(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	coach := f.user(t, "Coach", common.RoleCoach)
	u14 := f.team(t, "14U", coach)

	d := draft(t, models.TeamScope(u14.ID), "2024-06-01", KindTeamEvent, "", "")
	d.TeamEvent = &TeamEventInput{EventType: EventGame, Opponent: "Hawks"}
	res, err := f.svc.Submit(ctx, coach, d)
	require.NoError(t, err)

	at := "18:30"
	got, err := f.svc.UpdateEvent(ctx, coach, res.Event.ID, UpdateEventRequest{Title: "Eagles", EventTime: &at})
	require.NoError(t, err)
	assert.Equal(t, "Eagles", got.Opponent)
	require.NotNil(t, got.EventTime)
	assert.Equal(t, "18:30", *got.EventTime)

	_, err = f.svc.UpdateEvent(ctx, coach, 999, UpdateEventRequest{Title: "x"})
	assert.ErrorIs(t, err, common.ErrNotFoundOrForbidden)
}

func TestDeleteEventRechecksRole(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	coach := f.user(t, "Coach", common.RoleCoach)
	jane := f.user(t, "Jane", common.RolePlayer)
	u14 := f.team(t, "14U", coach, jane)

	d := draft(t, models.TeamScope(u14.ID), "2024-06-01", KindTeamEvent, "", "")
	d.TeamEvent = &TeamEventInput{EventType: EventPractice}
	res, err := f.svc.Submit(ctx, coach, d)
	require.NoError(t, err)

	err = f.svc.DeleteEvent(ctx, jane, res.Event.ID)
	assert.ErrorIs(t, err, common.ErrForbidden)

	// A token minted before a demotion still says coach.
	demoted := f.user(t, "Former Coach", common.RolePlayer)
	demoted.Role = common.RoleCoach
	err = f.svc.DeleteEvent(ctx, demoted, res.Event.ID)
	assert.ErrorIs(t, err, common.ErrForbidden)

	require.NoError(t, f.svc.DeleteEvent(ctx, coach, res.Event.ID))
	err = f.svc.DeleteEvent(ctx, coach, res.Event.ID)
	assert.ErrorIs(t, err, common.ErrNotFoundOrForbidden)
}

func TestDeleteEventRefusesBrokenScope(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	coach := f.user(t, "Coach", common.RoleCoach)
	jane := f.user(t, "Jane", common.RolePlayer)
	u14 := f.team(t, "14U", coach)

	d := draft(t, models.TeamScope(u14.ID), "2024-06-01", KindTeamEvent, "", "")
	d.TeamEvent = &TeamEventInput{EventType: EventPractice}
	res, err := f.svc.Submit(ctx, coach, d)
	require.NoError(t, err)

	// Raw SQL skips the model hooks and leaves both keys set.
	require.NoError(t, f.db.Exec("UPDATE schedule_events SET player_id = ? WHERE id = ?", jane.UserID, res.Event.ID).Error)

	err = f.svc.DeleteEvent(ctx, coach, res.Event.ID)
	assert.ErrorIs(t, err, models.ErrInvalidScope)

	var n int64
	require.NoError(t, f.db.Model(&ScheduleEvent{}).Where("id = ?", res.Event.ID).Count(&n).Error)
	assert.EqualValues(t, 1, n)
}

func TestCoachManagesOnlyTeammates(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	coach := f.user(t, "Coach", common.RoleCoach)
	jane := f.user(t, "Jane Doe", common.RolePlayer)
	amy := f.user(t, "Amy Adams", common.RolePlayer)
	zed := f.user(t, "Zed", common.RolePlayer)
	f.team(t, "14U", coach, jane)
	f.team(t, "16U", coach, amy, jane)
	f.team(t, "Varsity", zed)

	ok, err := f.svc.CanManage(ctx, coach, models.PlayerScope(jane.UserID))
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = f.svc.CanManage(ctx, coach, models.PlayerScope(zed.UserID))
	require.NoError(t, err)
	assert.False(t, ok)
	ok, err = f.svc.CanManage(ctx, jane, models.PlayerScope(jane.UserID))
	require.NoError(t, err)
	assert.False(t, ok)

	d := draft(t, models.PlayerScope(zed.UserID), "2024-06-01", KindWorkout, Single, CreateNew)
	d.Workout = &WorkoutInput{Title: "Long toss"}
	_, err = f.svc.Submit(ctx, coach, d)
	assert.ErrorIs(t, err, common.ErrForbidden)

	players, err := f.svc.PlayerOptions(ctx, coach)
	require.NoError(t, err)
	require.Len(t, players, 2)
	assert.Equal(t, "Amy Adams", players[0].FullName)
	assert.Equal(t, "Jane Doe", players[1].FullName)
	assert.Equal(t, []string{"14U", "16U"}, players[1].Teams)

	admin := f.user(t, "Admin", common.RoleAdmin)
	all, err := f.svc.PlayerOptions(ctx, admin)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	_, err = f.svc.PlayerOptions(ctx, jane)
	assert.ErrorIs(t, err, common.ErrForbidden)
}
