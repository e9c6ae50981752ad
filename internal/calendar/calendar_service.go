package calendar

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/DhavalSuthar-24/dugout/internal/common"
	"github.com/DhavalSuthar-24/dugout/internal/models"
	"github.com/DhavalSuthar-24/dugout/internal/nutrition"
	"github.com/DhavalSuthar-24/dugout/internal/realtime"
	"github.com/DhavalSuthar-24/dugout/internal/team"
	"github.com/DhavalSuthar-24/dugout/internal/training"
	"github.com/DhavalSuthar-24/dugout/internal/user"
	"go.uber.org/zap"
	"gorm.io/datatypes"
)

// Service owns who may see and change which calendar, and turns submitted
// drafts into events or assignments.
type Service struct {
	repo      CalendarRepository
	teams     team.TeamRepository
	users     user.UserRepository
	training  training.TrainingRepository
	nutrition nutrition.NutritionRepository
	pub       realtime.Publisher
	log       *zap.Logger
}

type Deps struct {
	Repo      CalendarRepository
	Teams     team.TeamRepository
	Users     user.UserRepository
	Training  training.TrainingRepository
	Nutrition nutrition.NutritionRepository
	Publisher realtime.Publisher
	Log       *zap.Logger
}

func NewService(d Deps) *Service {
	return &Service{
		repo:      d.Repo,
		teams:     d.Teams,
		users:     d.Users,
		training:  d.Training,
		nutrition: d.Nutrition,
		pub:       d.Publisher,
		log:       d.Log.Named("calendar"),
	}
}

// CanManage reports whether the caller may change a calendar. Admins manage
// every calendar. Coaches manage team calendars and the calendars of players
// they share a team with. Players manage none.
func (s *Service) CanManage(ctx context.Context, p common.Principal, scope models.Scope) (bool, error) {
	switch p.Role {
	case common.RoleAdmin:
		return true, nil
	case common.RoleCoach:
		if scope.Kind() == models.ScopeTeam {
			return true, nil
		}
		return s.teams.SharesTeam(ctx, p.UserID, scope.ID())
	}
	return false, nil
}

// CanView reports whether the caller may read a calendar. Staff read every
// calendar; players read their own and those of their teams.
func (s *Service) CanView(ctx context.Context, p common.Principal, scope models.Scope) (bool, error) {
	if p.IsStaff() {
		return true, nil
	}
	if scope.Kind() == models.ScopePlayer {
		return scope.ID() == p.UserID, nil
	}
	m, err := s.teams.GetMember(ctx, scope.ID(), p.UserID)
	return m != nil, err
}

func (s *Service) requireView(ctx context.Context, p common.Principal, scope models.Scope) error {
	ok, err := s.CanView(ctx, p, scope)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("cannot view %s calendar: %w", scope, common.ErrForbidden)
	}
	return nil
}

func (s *Service) requireManage(ctx context.Context, p common.Principal, scope models.Scope) error {
	ok, err := s.CanManage(ctx, p, scope)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("cannot manage %s calendar: %w", scope, common.ErrForbidden)
	}
	return nil
}

func (s *Service) ListEvents(ctx context.Context, p common.Principal, scope models.Scope, from, to datatypes.Date) ([]ScheduleEvent, error) {
	if time.Time(to).Before(time.Time(from)) {
		return nil, common.Invalid("to", "must not be before from")
	}
	if err := s.requireView(ctx, p, scope); err != nil {
		return nil, err
	}
	return s.repo.ListEvents(ctx, scope, from, to)
}

// Month builds the 42-cell grid for a calendar, badges capped at maxBadges.
func (s *Service) Month(ctx context.Context, p common.Principal, scope models.Scope, year int, month time.Month, maxBadges int) (*MonthView, error) {
	if month < time.January || month > time.December {
		return nil, common.Invalid("month", "must be 1-12")
	}
	if err := s.requireView(ctx, p, scope); err != nil {
		return nil, err
	}
	cells := MonthGrid(year, month)
	from, to := GridRange(cells)
	events, err := s.repo.ListEvents(ctx, scope, from, to)
	if err != nil {
		return nil, err
	}
	Fill(cells, events, maxBadges)
	return &MonthView{Year: year, Month: month, Cells: cells}, nil
}

func (s *Service) Week(ctx context.Context, p common.Principal, scope models.Scope, day datatypes.Date) (*WeekView, error) {
	if err := s.requireView(ctx, p, scope); err != nil {
		return nil, err
	}
	cells := WeekGrid(day)
	from, to := GridRange(cells)
	events, err := s.repo.ListEvents(ctx, scope, from, to)
	if err != nil {
		return nil, err
	}
	Fill(cells, events, 0)
	return &WeekView{Start: cells[0].Date, Cells: cells}, nil
}

func (s *Service) GetEvent(ctx context.Context, p common.Principal, id uint) (*ScheduleEvent, error) {
	ev, err := s.repo.GetEventDetail(ctx, id)
	if err != nil {
		return nil, err
	}
	if ev == nil {
		return nil, common.ErrNotFound
	}
	scope, err := ev.Scope()
	if err != nil {
		return nil, err
	}
	if err := s.requireView(ctx, p, scope); err != nil {
		return nil, err
	}
	return ev, nil
}

// Submit turns a complete draft into a row. Single entries become one
// ScheduleEvent; full programs and plans become an assignment starting on the
// draft date and add nothing to the calendar.
func (s *Service) Submit(ctx context.Context, p common.Principal, d *AddEventDraft) (*SubmitResult, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}
	if err := s.requireManage(ctx, p, d.Scope); err != nil {
		return nil, err
	}

	var (
		res SubmitResult
		err error
	)
	switch d.Kind() {
	case KindTeamEvent:
		res.Event, err = s.submitTeamEvent(ctx, p, d)
	case KindWorkout:
		if d.Coverage() == Full {
			res.TrainingAssignment, err = s.assignProgram(ctx, p, d)
		} else {
			res.Event, err = s.submitWorkout(ctx, p, d)
		}
	case KindMeal:
		if d.Coverage() == Full {
			res.MealPlanAssignment, err = s.assignPlan(ctx, p, d)
		} else {
			res.Event, err = s.submitMeal(ctx, p, d)
		}
	}
	if err != nil {
		return nil, err
	}

	if res.Event != nil {
		s.log.Info("event scheduled",
			zap.Uint("event_id", res.Event.ID),
			zap.String("scope", d.Scope.String()),
			zap.String("type", string(res.Event.EventType)))
		s.publish(ctx, realtime.ActionInsert, res.Event.ID)
	}
	return &res, nil
}

func (s *Service) newEvent(p common.Principal, d *AddEventDraft, t EventType) *ScheduleEvent {
	ev := &ScheduleEvent{EventType: t, EventDate: d.Date, CreatedBy: p.UserID}
	ev.SetScope(d.Scope)
	return ev
}

func (s *Service) submitTeamEvent(ctx context.Context, p common.Principal, d *AddEventDraft) (*ScheduleEvent, error) {
	in := d.TeamEvent
	ev := s.newEvent(p, d, in.EventType)
	ev.Opponent = strings.TrimSpace(in.Opponent)
	ev.EventTime = emptyToNil(in.EventTime)
	ev.Location = strings.TrimSpace(in.Location)
	ev.Address = strings.TrimSpace(in.Address)
	ev.IsOptional = in.IsOptional
	ev.Title = strings.TrimSpace(in.Title)
	ev.Notes = in.Notes
	if in.EventType == EventGame {
		ev.HomeAway = in.HomeAway
	}
	if err := s.repo.CreateEvent(ctx, ev); err != nil {
		return nil, err
	}
	return ev, nil
}

func (s *Service) submitWorkout(ctx context.Context, p common.Principal, d *AddEventDraft) (*ScheduleEvent, error) {
	ev := s.newEvent(p, d, EventWorkout)
	if d.Source() == Existing {
		day, err := s.training.GetDay(ctx, d.DayID)
		if err != nil {
			return nil, err
		}
		if day == nil || (d.ProgramID != 0 && day.ProgramID != d.ProgramID) {
			return nil, fmt.Errorf("training day %d: %w", d.DayID, common.ErrNotFound)
		}
		ev.Title = day.Label()
		ev.TrainingDayID = &day.ID
	} else {
		ev.Title = strings.TrimSpace(d.Workout.Title)
		ev.Notes = d.Workout.Notes
	}
	if err := s.repo.CreateEvent(ctx, ev); err != nil {
		return nil, err
	}
	return ev, nil
}

func (s *Service) submitMeal(ctx context.Context, p common.Principal, d *AddEventDraft) (*ScheduleEvent, error) {
	ev := s.newEvent(p, d, EventMeal)
	if d.Source() == CreateNew {
		in := d.NewMeal
		meal := &nutrition.Meal{
			Name:        strings.TrimSpace(in.Name),
			Description: in.Description,
			MealType:    in.MealType,
			Calories:    in.Calories,
			ProteinG:    in.ProteinG,
			CarbsG:      in.CarbsG,
			FatG:        in.FatG,
			CreatedBy:   p.UserID,
		}
		if err := s.repo.CreateMealEvent(ctx, meal, ev); err != nil {
			return nil, err
		}
		ev.Meal = meal
		return ev, nil
	}

	meal, err := s.nutrition.GetMeal(ctx, d.MealID)
	if err != nil {
		return nil, err
	}
	if meal == nil {
		return nil, fmt.Errorf("meal %d: %w", d.MealID, common.ErrNotFound)
	}
	ev.Title = meal.Name
	ev.MealID = &meal.ID
	if err := s.repo.CreateEvent(ctx, ev); err != nil {
		return nil, err
	}
	return ev, nil
}

func (s *Service) assignProgram(ctx context.Context, p common.Principal, d *AddEventDraft) (*training.Assignment, error) {
	prog, err := s.training.GetProgram(ctx, d.ProgramID)
	if err != nil {
		return nil, err
	}
	if prog == nil {
		return nil, fmt.Errorf("training program %d: %w", d.ProgramID, common.ErrNotFound)
	}
	start := d.Date
	a := &training.Assignment{ProgramID: prog.ID, StartDate: &start, AssignedBy: p.UserID}
	a.SetScope(d.Scope)
	if err := s.training.Assign(ctx, a); err != nil {
		return nil, err
	}
	s.log.Info("program assigned", zap.Uint("program_id", prog.ID), zap.String("scope", d.Scope.String()))
	return a, nil
}

func (s *Service) assignPlan(ctx context.Context, p common.Principal, d *AddEventDraft) (*nutrition.MealPlanAssignment, error) {
	plan, err := s.nutrition.GetPlan(ctx, d.PlanID)
	if err != nil {
		return nil, err
	}
	if plan == nil {
		return nil, fmt.Errorf("meal plan %d: %w", d.PlanID, common.ErrNotFound)
	}
	start := d.Date
	a := &nutrition.MealPlanAssignment{MealPlanID: plan.ID, StartDate: &start, AssignedBy: p.UserID}
	a.SetScope(d.Scope)
	if err := s.nutrition.Assign(ctx, a); err != nil {
		return nil, err
	}
	s.log.Info("meal plan assigned", zap.Uint("plan_id", plan.ID), zap.String("scope", d.Scope.String()))
	return a, nil
}

// UpdateEvent rewrites title, time, location and notes. A team event's title
// is also its opponent. A meal event with a linked meal updates that meal in
// the same transaction and takes its name as title.
func (s *Service) UpdateEvent(ctx context.Context, p common.Principal, id uint, req UpdateEventRequest) (*ScheduleEvent, error) {
	ev, err := s.repo.GetEvent(ctx, id)
	if err != nil {
		return nil, err
	}
	if ev == nil {
		return nil, common.ErrNotFoundOrForbidden
	}
	scope, err := ev.Scope()
	if err != nil {
		return nil, err
	}
	if err := s.requireManage(ctx, p, scope); err != nil {
		return nil, err
	}

	title := strings.TrimSpace(req.Title)
	fields := map[string]interface{}{
		"title":      title,
		"event_time": emptyToNil(req.EventTime),
		"location":   strings.TrimSpace(req.Location),
		"notes":      req.Notes,
	}
	if scope.Kind() == models.ScopeTeam {
		fields["opponent"] = title
	}

	switch {
	case ev.MealID != nil && req.Meal != nil:
		err = s.repo.UpdateMealEvent(ctx, id, fields, *ev.MealID, req.Meal.Fields())
	case ev.MealID != nil:
		// The title of a linked meal event is always the meal's name.
		meal, merr := s.nutrition.GetMeal(ctx, *ev.MealID)
		if merr != nil {
			return nil, merr
		}
		delete(fields, "title")
		if meal != nil {
			fields["title"] = meal.Name
		}
		err = s.repo.UpdateEvent(ctx, id, fields)
	default:
		err = s.repo.UpdateEvent(ctx, id, fields)
	}
	if err != nil {
		return nil, err
	}
	s.publish(ctx, realtime.ActionUpdate, id)
	return s.repo.GetEvent(ctx, id)
}

// DeleteEvent re-reads the caller's role from the store right before
// deleting. Zero rows deleted is ErrNotFoundOrForbidden.
func (s *Service) DeleteEvent(ctx context.Context, p common.Principal, id uint) error {
	u, err := s.users.GetByID(ctx, p.UserID)
	if err != nil {
		return fmt.Errorf("verify role: %w", err)
	}
	if u == nil || !u.Role.IsStaff() {
		return fmt.Errorf("only coaches and admins can delete events: %w", common.ErrForbidden)
	}
	fresh := p
	fresh.Role = u.Role

	ev, err := s.repo.GetEvent(ctx, id)
	if err != nil {
		return err
	}
	if ev == nil {
		return common.ErrNotFoundOrForbidden
	}
	scope, err := ev.Scope()
	if err != nil {
		return err
	}
	if err := s.requireManage(ctx, fresh, scope); err != nil {
		return err
	}
	if err := s.repo.DeleteEvent(ctx, id); err != nil {
		return err
	}
	s.log.Info("event deleted", zap.Uint("event_id", id), zap.Uint("by", p.UserID))
	s.publish(ctx, realtime.ActionDelete, id)
	return nil
}

// PlayerOptions lists the players whose calendars the caller may open.
func (s *Service) PlayerOptions(ctx context.Context, p common.Principal) ([]PlayerOption, error) {
	switch p.Role {
	case common.RoleAdmin:
		return s.repo.PlayerOptions(ctx, nil)
	case common.RoleCoach:
		return s.repo.PlayerOptions(ctx, &p.UserID)
	}
	return nil, fmt.Errorf("players cannot browse other calendars: %w", common.ErrForbidden)
}

func (s *Service) publish(ctx context.Context, action realtime.Action, id uint) {
	s.pub.Publish(ctx, realtime.Event{Table: realtime.TableSchedule, Action: action, ID: id, At: time.Now().UTC()})
}

func emptyToNil(s *string) *string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}
	v := strings.TrimSpace(*s)
	return &v
}
