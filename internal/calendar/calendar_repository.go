package calendar

import (
	"context"
	"errors"

	"github.com/DhavalSuthar-24/dugout/internal/common"
	"github.com/DhavalSuthar-24/dugout/internal/models"
	"github.com/DhavalSuthar-24/dugout/internal/nutrition"
	"github.com/DhavalSuthar-24/dugout/internal/user"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type CalendarRepository interface {
	CreateEvent(ctx context.Context, ev *ScheduleEvent) error
	CreateMealEvent(ctx context.Context, meal *nutrition.Meal, ev *ScheduleEvent) error
	GetEvent(ctx context.Context, id uint) (*ScheduleEvent, error)
	GetEventDetail(ctx context.Context, id uint) (*ScheduleEvent, error)
	ListEvents(ctx context.Context, scope models.Scope, from, to datatypes.Date) ([]ScheduleEvent, error)
	UpcomingForTeams(ctx context.Context, teamIDs []uint, from datatypes.Date, limit int) ([]ScheduleEvent, error)
	UpdateEvent(ctx context.Context, id uint, fields map[string]interface{}) error
	UpdateMealEvent(ctx context.Context, id uint, fields map[string]interface{}, mealID uint, mealFields map[string]interface{}) error
	DeleteEvent(ctx context.Context, id uint) error

	PlayerOptions(ctx context.Context, coachID *uint) ([]PlayerOption, error)
	WithTransaction(ctx context.Context, fn func(CalendarRepository) error) error
}

type calendarRepository struct {
	db *gorm.DB
}

func NewCalendarRepository(db *gorm.DB) CalendarRepository {
	return &calendarRepository{db: db}
}

func (r *calendarRepository) WithTransaction(ctx context.Context, fn func(CalendarRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&calendarRepository{db: tx})
	})
}

// CreateEvent inserts an event. Rows with both or neither scope key are
// rejected by the Scoped hook before they reach the table.
func (r *calendarRepository) CreateEvent(ctx context.Context, ev *ScheduleEvent) error {
	if !ev.EventType.Valid() {
		return common.Invalid("event_type", "must be game, practice, workout or meal")
	}
	if ev.HomeAway != nil && ev.EventType != EventGame {
		ev.HomeAway = nil
	}
	return r.db.WithContext(ctx).Create(ev).Error
}

// CreateMealEvent adds a new meal to the library and schedules it in one
// transaction.
func (r *calendarRepository) CreateMealEvent(ctx context.Context, meal *nutrition.Meal, ev *ScheduleEvent) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := nutrition.NewNutritionRepository(tx).CreateMeal(ctx, meal); err != nil {
			return common.Step("insert meal", err)
		}
		ev.MealID = &meal.ID
		ev.Title = meal.Name
		if err := tx.Create(ev).Error; err != nil {
			return common.Step("insert event", err)
		}
		return nil
	})
}

func (r *calendarRepository) GetEvent(ctx context.Context, id uint) (*ScheduleEvent, error) {
	var ev ScheduleEvent
	if err := r.db.WithContext(ctx).First(&ev, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &ev, nil
}

// GetEventDetail loads the event with its linked training day (and its
// exercises) or meal.
func (r *calendarRepository) GetEventDetail(ctx context.Context, id uint) (*ScheduleEvent, error) {
	var ev ScheduleEvent
	err := r.db.WithContext(ctx).
		Preload("TrainingDay.Exercises", func(db *gorm.DB) *gorm.DB { return db.Order("sort_order asc") }).
		Preload("Meal").
		First(&ev, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &ev, nil
}

// ListEvents returns the scope's events between from and to inclusive. A
// team calendar never shows player rows and the reverse.
func (r *calendarRepository) ListEvents(ctx context.Context, scope models.Scope, from, to datatypes.Date) ([]ScheduleEvent, error) {
	if scope.IsZero() {
		return nil, models.ErrInvalidScope
	}
	var events []ScheduleEvent
	err := scope.Where(r.db.WithContext(ctx)).
		Where("event_date >= ? AND event_date <= ?", from, to).
		Order("event_date asc").
		Order("event_time asc").
		Order("id asc").
		Find(&events).Error
	return events, err
}

// UpcomingForTeams lists team events on or after from, soonest first.
func (r *calendarRepository) UpcomingForTeams(ctx context.Context, teamIDs []uint, from datatypes.Date, limit int) ([]ScheduleEvent, error) {
	events := []ScheduleEvent{}
	if len(teamIDs) == 0 {
		return events, nil
	}
	err := r.db.WithContext(ctx).
		Where("team_id IN ? AND event_date >= ?", teamIDs, from).
		Order("event_date asc").
		Order("event_time asc").
		Limit(limit).
		Find(&events).Error
	return events, err
}

func (r *calendarRepository) UpdateEvent(ctx context.Context, id uint, fields map[string]interface{}) error {
	res := r.db.WithContext(ctx).Model(&ScheduleEvent{}).Where("id = ?", id).Updates(fields)
	return common.RequireRows(res.RowsAffected, res.Error)
}

// UpdateMealEvent edits the event and its linked meal together, so the
// event title never disagrees with the meal name.
func (r *calendarRepository) UpdateMealEvent(ctx context.Context, id uint, fields map[string]interface{}, mealID uint, mealFields map[string]interface{}) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := nutrition.NewNutritionRepository(tx).UpdateMeal(ctx, mealID, mealFields); err != nil {
			return common.Step("update meal", err)
		}
		if name, ok := mealFields["name"]; ok {
			fields["title"] = name
		}
		res := tx.Model(&ScheduleEvent{}).Where("id = ?", id).Updates(fields)
		return common.Step("update event", common.RequireRows(res.RowsAffected, res.Error))
	})
}

func (r *calendarRepository) DeleteEvent(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&ScheduleEvent{}, id)
	return common.RequireRows(res.RowsAffected, res.Error)
}

// PlayerOptions lists players by name with their team names. With a coach
// id only players sharing a team with that coach are returned.
func (r *calendarRepository) PlayerOptions(ctx context.Context, coachID *uint) ([]PlayerOption, error) {
	db := r.db.WithContext(ctx)
	q := db.Model(&user.User{}).Where("role = ?", common.RolePlayer)
	if coachID != nil {
		q = q.Where("id IN (?)", db.Table("team_members AS b").
			Select("b.user_id").
			Joins("JOIN team_members AS a ON a.team_id = b.team_id").
			Where("a.user_id = ?", *coachID))
	}
	var players []user.User
	if err := q.Select("id", "full_name").Order("full_name asc").Find(&players).Error; err != nil {
		return nil, err
	}

	out := make([]PlayerOption, len(players))
	index := make(map[uint]int, len(players))
	ids := make([]uint, len(players))
	for i, p := range players {
		out[i] = PlayerOption{ID: p.ID, FullName: p.FullName, Teams: []string{}}
		index[p.ID] = i
		ids[i] = p.ID
	}
	if len(ids) == 0 {
		return out, nil
	}

	var rows []struct {
		UserID uint
		Name   string
	}
	err := db.Table("team_members").
		Select("team_members.user_id, teams.name").
		Joins("JOIN teams ON teams.id = team_members.team_id").
		Where("team_members.user_id IN ?", ids).
		Order("teams.name").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		i := index[row.UserID]
		out[i].Teams = append(out[i].Teams, row.Name)
	}
	return out, nil
}
