package profile

import (
	"context"
	"strings"
	"testing"

	"github.com/DhavalSuthar-24/dugout/internal/calendar"
	"github.com/DhavalSuthar-24/dugout/internal/common"
	"github.com/DhavalSuthar-24/dugout/internal/messaging"
	"github.com/DhavalSuthar-24/dugout/internal/models"
	"github.com/DhavalSuthar-24/dugout/internal/nutrition"
	"github.com/DhavalSuthar-24/dugout/internal/realtime"
	"github.com/DhavalSuthar-24/dugout/internal/team"
	"github.com/DhavalSuthar-24/dugout/internal/testdb"
	"github.com/DhavalSuthar-24/dugout/internal/training"
	"github.com/DhavalSuthar-24/dugout/internal/user"
	"github.com/DhavalSuthar-24/dugout/pkg/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type fixture struct {
	db        *gorm.DB
	svc       *Service
	calendar  *calendar.Service
	messaging *messaging.Service
	teams     team.TeamRepository
	training  training.TrainingRepository
}

func setup(t *testing.T) *fixture {
	t.Helper()
	db := testdb.Open(t,
		&user.User{}, &user.PlayerProfile{}, &user.UserContact{},
		&team.Team{}, &team.TeamMember{},
		&training.Program{}, &training.Day{}, &training.Exercise{}, &training.Assignment{},
		&nutrition.Meal{}, &nutrition.MealPlan{}, &nutrition.MealPlanItem{}, &nutrition.MealPlanAssignment{},
		&calendar.ScheduleEvent{},
		&messaging.Conversation{}, &messaging.ConversationParticipant{}, &messaging.Message{}, &messaging.MessageRead{},
		&PerformanceStat{},
	)
	log := zap.NewNop()
	broker := realtime.NewBroker(log)
	summaries, err := messaging.NewSummaryReader(db)
	require.NoError(t, err)

	users := user.NewUserRepository(db)
	teams := team.NewTeamRepository(db)
	trainingRepo := training.NewTrainingRepository(db)
	nutritionRepo := nutrition.NewNutritionRepository(db)
	calendarRepo := calendar.NewCalendarRepository(db)

	svc := NewService(Deps{
		Users:         users,
		Teams:         teams,
		Training:      trainingRepo,
		Nutrition:     nutritionRepo,
		Calendar:      calendarRepo,
		Announcements: summaries,
		Stats:         NewStatsRepository(db),
		Store:         storage.NewDiskStore(t.TempDir(), "/public"),
		Log:           log,
	})
	svc.today = func() datatypes.Date {
		d, _ := models.ParseDate("2024-06-15")
		return d
	}
	cal := calendar.NewService(calendar.Deps{
		Repo: calendarRepo, Teams: teams, Users: users, Training: trainingRepo,
		Nutrition: nutritionRepo, Publisher: broker, Log: log,
	})
	msg := messaging.NewService(messaging.NewMessagingRepository(db), summaries, broker, log)
	return &fixture{db: db, svc: svc, calendar: cal, messaging: msg, teams: teams, training: trainingRepo}
}

func (f *fixture) user(t *testing.T, name string, role common.Role) common.Principal {
	t.Helper()
	u := &user.User{Email: strings.ReplaceAll(strings.ToLower(name), " ", ".") + "@example.com", FullName: name, Role: role}
	require.NoError(t, f.db.Create(u).Error)
	if role == common.RolePlayer {
		_, err := user.NewUserRepository(f.db).EnsurePlayerProfile(context.Background(), u.ID)
		require.NoError(t, err)
	}
	return common.Principal{UserID: u.ID, FullName: name, Role: role}
}

func (f *fixture) join(t *testing.T, tm *team.Team, members ...common.Principal) {
	t.Helper()
	for _, m := range members {
		require.NoError(t, f.teams.AddMember(context.Background(), &team.TeamMember{TeamID: tm.ID, UserID: m.UserID, Role: team.MemberRoleFor(m.Role)}))
	}
}

func TestOffSeasonAssignmentShowsOnProfile(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	coach := f.user(t, "Coach Carter", common.RoleCoach)
	jane := f.user(t, "Jane Doe", common.RolePlayer)
	u14 := &team.Team{Name: "14U"}
	require.NoError(t, f.teams.Create(ctx, u14))
	f.join(t, u14, coach, jane)

	prog := &training.Program{Name: "Off-Season", CreatedBy: coach.UserID}
	require.NoError(t, f.training.CreateProgram(ctx, prog))
	for _, title := range []string{"Upper", "Lower", "Conditioning"} {
		_, err := f.training.AddDay(ctx, prog.ID, title, "")
		require.NoError(t, err)
	}

	d, err := calendar.DraftFromRequest(calendar.AddEventRequest{
		Date: "2024-06-01", Scope: "player", TargetID: jane.UserID,
		Kind: calendar.KindWorkout, Coverage: calendar.Full, ProgramID: prog.ID,
	})
	require.NoError(t, err)
	_, err = f.calendar.Submit(ctx, coach, d)
	require.NoError(t, err)

	prof, err := f.svc.GetProfile(ctx, jane, jane.UserID)
	require.NoError(t, err)
	require.Len(t, prof.TrainingAssignments, 1)
	a := prof.TrainingAssignments[0]
	assert.True(t, a.Active)
	require.NotNil(t, a.Program)
	assert.Equal(t, "Off-Season", a.Program.Name)
	assert.Equal(t, "2024-06-01", models.FormatDate(*a.StartDate))
	require.Len(t, prof.Memberships, 1)
	assert.Equal(t, "14U", prof.Memberships[0].Team.Name)
	require.NotNil(t, prof.PlayerProfile)
	assert.Nil(t, prof.User.Profile)

	var events int64
	require.NoError(t, f.db.Model(&calendar.ScheduleEvent{}).Count(&events).Error)
	assert.Zero(t, events)

	// A plan that starts after today is listed but not active.
	later, _ := models.ParseDate("2024-07-01")
	gameDay := &nutrition.MealPlan{Name: "Game Day", CreatedBy: coach.UserID}
	require.NoError(t, f.db.Create(gameDay).Error)
	plan := &nutrition.MealPlanAssignment{MealPlanID: gameDay.ID, StartDate: &later, AssignedBy: coach.UserID}
	plan.SetScope(models.TeamScope(u14.ID))
	require.NoError(t, f.db.Create(plan).Error)
	prof, err = f.svc.GetProfile(ctx, coach, jane.UserID)
	require.NoError(t, err)
	require.Len(t, prof.MealPlanAssignments, 1)
	assert.False(t, prof.MealPlanAssignments[0].Active)

	other := f.user(t, "Other Player", common.RolePlayer)
	_, err = f.svc.GetProfile(ctx, other, jane.UserID)
	assert.ErrorIs(t, err, common.ErrForbidden)
	_, err = f.svc.GetProfile(ctx, coach, 999)
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestUpdateProfileIsAllOrNothing(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	jane := f.user(t, "Jane Doe", common.RolePlayer)
	coach := f.user(t, "Coach", common.RoleCoach)

	jersey := 12
	prof, err := f.svc.UpdateProfile(ctx, jane, jane.UserID, UpdateProfileRequest{
		FullName: "Jane Q. Doe",
		Phone:    "555-0100",
		Player:   &PlayerFields{JerseyNumber: &jersey, Position: "SS", Bats: "R", Throws: "R"},
		Contacts: []ContactRequest{
			{ContactType: user.ContactEmail, Value: "jane.alt@example.com", Label: "school"},
			{ContactType: user.ContactPhone, Value: "555-0199", SortOrder: 1},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "Jane Q. Doe", prof.User.FullName)
	require.NotNil(t, prof.PlayerProfile.JerseyNumber)
	assert.Equal(t, 12, *prof.PlayerProfile.JerseyNumber)
	assert.Equal(t, "SS", prof.PlayerProfile.Position)
	require.Len(t, prof.Contacts, 2)
	assert.Equal(t, user.ContactEmail, prof.Contacts[0].ContactType)

	// Three more emails makes four: nothing from this request may stick.
	_, err = f.svc.UpdateProfile(ctx, jane, jane.UserID, UpdateProfileRequest{
		FullName: "Renamed",
		Contacts: []ContactRequest{
			{ContactType: user.ContactEmail, Value: "a@example.com"},
			{ContactType: user.ContactEmail, Value: "b@example.com"},
			{ContactType: user.ContactEmail, Value: "c@example.com"},
		},
	})
	var ve *common.ValidationError
	require.ErrorAs(t, err, &ve)
	var se *common.StepError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "save contacts", se.Step)

	prof, err = f.svc.GetProfile(ctx, jane, jane.UserID)
	require.NoError(t, err)
	assert.Equal(t, "Jane Q. Doe", prof.User.FullName)
	assert.Len(t, prof.Contacts, 2)

	_, err = f.svc.UpdateProfile(ctx, coach, jane.UserID, UpdateProfileRequest{FullName: "x"})
	assert.ErrorIs(t, err, common.ErrForbidden)
	_, err = f.svc.UpdateProfile(ctx, coach, coach.UserID, UpdateProfileRequest{FullName: "Coach", Player: &PlayerFields{Position: "C"}})
	assert.ErrorAs(t, err, &ve)

	require.NoError(t, f.svc.DeleteContact(ctx, jane, prof.Contacts[0].ID))
	assert.ErrorIs(t, f.svc.DeleteContact(ctx, coach, prof.Contacts[1].ID), common.ErrNotFoundOrForbidden)
}

func TestUploadAvatar(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	jane := f.user(t, "Jane", common.RolePlayer)

	url, err := f.svc.UploadAvatar(ctx, jane, "Me.PNG", strings.NewReader("png bytes"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "/public/avatars/"))
	assert.True(t, strings.HasSuffix(url, ".png"))

	u, err := user.NewUserRepository(f.db).GetByID(ctx, jane.UserID)
	require.NoError(t, err)
	assert.Equal(t, url, u.AvatarURL)
}

func TestDashboardAndMyTeam(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	coach := f.user(t, "Coach Carter", common.RoleCoach)
	jane := f.user(t, "Jane Doe", common.RolePlayer)
	amy := f.user(t, "Amy Adams", common.RolePlayer)
	u14 := &team.Team{Name: "14U"}
	require.NoError(t, f.teams.Create(ctx, u14))
	f.join(t, u14, coach, jane, amy)
	varsity := &team.Team{Name: "Varsity"}
	require.NoError(t, f.teams.Create(ctx, varsity))

	for _, day := range []string{"2024-06-10", "2024-06-16", "2024-06-20", "2024-06-18", "2024-06-25", "2024-06-27", "2024-06-30"} {
		d, err := calendar.DraftFromRequest(calendar.AddEventRequest{
			Date: day, Scope: "team", TargetID: u14.ID, Kind: calendar.KindTeamEvent,
			TeamEvent: &calendar.TeamEventInput{EventType: calendar.EventPractice},
		})
		require.NoError(t, err)
		_, err = f.calendar.Submit(ctx, coach, d)
		require.NoError(t, err)
	}

	_, err := f.messaging.CreateConversation(ctx, coach, messaging.CreateConversationRequest{
		Type: messaging.TeamAnnouncement, Title: "Practice Update", TeamID: &u14.ID, Content: "Practice moves to 6pm",
	})
	require.NoError(t, err)

	// Empty dashboard before any stats.
	dash, err := f.svc.Dashboard(ctx, jane)
	require.NoError(t, err)
	require.NotNil(t, dash.Team)
	assert.Equal(t, "14U", dash.Team.Name)
	require.Len(t, dash.Upcoming, DashboardEvents)
	assert.Equal(t, "2024-06-16", models.FormatDate(dash.Upcoming[0].EventDate))
	assert.Equal(t, "2024-06-18", models.FormatDate(dash.Upcoming[1].EventDate))
	assert.Nil(t, dash.LatestStats)

	ev := 81.5
	_, err = f.svc.RecordStat(ctx, coach, jane.UserID, StatRequest{Date: "2024-06-01", ExitVelocity: &ev})
	require.NoError(t, err)
	ev2 := 84.0
	_, err = f.svc.RecordStat(ctx, coach, jane.UserID, StatRequest{Date: "2024-06-12", ExitVelocity: &ev2})
	require.NoError(t, err)
	_, err = f.svc.RecordStat(ctx, jane, jane.UserID, StatRequest{Date: "2024-06-12"})
	assert.ErrorIs(t, err, common.ErrForbidden)
	_, err = f.svc.RecordStat(ctx, coach, coach.UserID, StatRequest{Date: "2024-06-12"})
	assert.ErrorIs(t, err, common.ErrNotFound)

	dash, err = f.svc.Dashboard(ctx, jane)
	require.NoError(t, err)
	require.NotNil(t, dash.LatestStats)
	assert.Equal(t, 84.0, *dash.LatestStats.ExitVelocity)

	stats, err := f.svc.ListStats(ctx, jane, jane.UserID)
	require.NoError(t, err)
	require.Len(t, stats, 2)
	assert.Equal(t, "2024-06-12", models.FormatDate(stats[0].Date))
	_, err = f.svc.ListStats(ctx, amy, jane.UserID)
	assert.ErrorIs(t, err, common.ErrForbidden)

	view, err := f.svc.MyTeam(ctx, jane, 0)
	require.NoError(t, err)
	assert.Equal(t, "14U", view.Team.Name)
	require.Len(t, view.Players, 2)
	assert.Equal(t, "Amy Adams", view.Players[0].User.FullName)
	require.Len(t, view.Coaches, 1)
	assert.Len(t, view.Upcoming, MyTeamEvents)
	require.Len(t, view.Announcements, 1)
	assert.Equal(t, "Practice Update", *view.Announcements[0].Title)
	assert.Equal(t, "Coach Carter", *view.Announcements[0].AuthorName)

	_, err = f.svc.MyTeam(ctx, jane, varsity.ID)
	assert.ErrorIs(t, err, common.ErrForbidden)
	staffView, err := f.svc.MyTeam(ctx, coach, varsity.ID)
	require.NoError(t, err)
	assert.Empty(t, staffView.Players)

	loner := f.user(t, "Loner", common.RolePlayer)
	empty, err := f.svc.MyTeam(ctx, loner, 0)
	require.NoError(t, err)
	assert.Nil(t, empty.Team)
}
