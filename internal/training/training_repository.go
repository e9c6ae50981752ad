package training

import (
	"context"
	"errors"
	"time"

	"github.com/DhavalSuthar-24/dugout/internal/common"
	"gorm.io/gorm"
)

// TrainingRepository defines the data operations for programs, their days
// and exercises, and program assignments.
type TrainingRepository interface {
	CreateProgram(ctx context.Context, p *Program) error
	GetProgram(ctx context.Context, id uint) (*Program, error)
	ListPrograms(ctx context.Context) ([]Program, error)
	UpdateProgram(ctx context.Context, id uint, fields map[string]interface{}) error
	DeleteProgram(ctx context.Context, id uint) error

	AddDay(ctx context.Context, programID uint, title, notes string) (*Day, error)
	GetDay(ctx context.Context, id uint) (*Day, error)
	ListDays(ctx context.Context, programID uint) ([]Day, error)
	DeleteDay(ctx context.Context, id uint) error

	AddExercise(ctx context.Context, e *Exercise) error
	DeleteExercise(ctx context.Context, id uint) error

	Assign(ctx context.Context, a *Assignment) error
	ListAssignments(ctx context.Context, programID uint) ([]Assignment, error)
	AssignmentsFor(ctx context.Context, playerID uint, teamIDs []uint) ([]Assignment, error)
	DeleteAssignment(ctx context.Context, id uint) error

	WithTransaction(ctx context.Context, fn func(TrainingRepository) error) error
}

type trainingRepository struct {
	db *gorm.DB
}

func NewTrainingRepository(db *gorm.DB) TrainingRepository {
	return &trainingRepository{db: db}
}

func (r *trainingRepository) WithTransaction(ctx context.Context, fn func(TrainingRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&trainingRepository{db: tx})
	})
}

func orderedDays(db *gorm.DB) *gorm.DB {
	return db.Order("day_number asc")
}

func orderedExercises(db *gorm.DB) *gorm.DB {
	return db.Order("sort_order asc, id asc")
}

// --- Programs ---

func (r *trainingRepository) CreateProgram(ctx context.Context, p *Program) error {
	if p.Name == "" {
		return common.Invalid("name", "is required")
	}
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *trainingRepository) GetProgram(ctx context.Context, id uint) (*Program, error) {
	var p Program
	err := r.db.WithContext(ctx).
		Preload("Days", orderedDays).
		Preload("Days.Exercises", orderedExercises).
		First(&p, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func (r *trainingRepository) ListPrograms(ctx context.Context) ([]Program, error) {
	var programs []Program
	err := r.db.WithContext(ctx).
		Preload("Days", orderedDays).
		Preload("Days.Exercises", orderedExercises).
		Order("created_at desc").
		Find(&programs).Error
	return programs, err
}

func (r *trainingRepository) UpdateProgram(ctx context.Context, id uint, fields map[string]interface{}) error {
	res := r.db.WithContext(ctx).Model(&Program{}).Where("id = ?", id).Updates(fields)
	return common.RequireRows(res.RowsAffected, res.Error)
}

// DeleteProgram removes the program with its days, exercises and
// assignments. Calendar workouts that pointed at one of its days keep their
// title and lose the link.
func (r *trainingRepository) DeleteProgram(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dayIDs := tx.Model(&Day{}).Select("id").Where("program_id = ?", id)
		if tx.Migrator().HasTable("schedule_events") {
			if err := tx.Exec("UPDATE schedule_events SET training_day_id = NULL WHERE training_day_id IN (?)", dayIDs).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("day_id IN (?)", dayIDs).Delete(&Exercise{}).Error; err != nil {
			return err
		}
		if err := tx.Where("program_id = ?", id).Delete(&Day{}).Error; err != nil {
			return err
		}
		if err := tx.Where("program_id = ?", id).Delete(&Assignment{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&Program{}, id)
		return common.RequireRows(res.RowsAffected, res.Error)
	})
}

// --- Days ---

// AddDay appends a day numbered one past the current highest.
func (r *trainingRepository) AddDay(ctx context.Context, programID uint, title, notes string) (*Day, error) {
	day := &Day{ProgramID: programID, Title: title, Notes: notes}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var exists int64
		if err := tx.Model(&Program{}).Where("id = ?", programID).Count(&exists).Error; err != nil {
			return err
		}
		if exists == 0 {
			return common.ErrNotFound
		}
		var maxDay int
		if err := tx.Model(&Day{}).Where("program_id = ?", programID).Select("COALESCE(MAX(day_number), 0)").Scan(&maxDay).Error; err != nil {
			return err
		}
		day.DayNumber = maxDay + 1
		return tx.Create(day).Error
	})
	if err != nil {
		return nil, err
	}
	return day, nil
}

func (r *trainingRepository) GetDay(ctx context.Context, id uint) (*Day, error) {
	var d Day
	err := r.db.WithContext(ctx).Preload("Exercises", orderedExercises).Preload("Program").First(&d, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &d, nil
}

func (r *trainingRepository) ListDays(ctx context.Context, programID uint) ([]Day, error) {
	var days []Day
	err := orderedDays(r.db.WithContext(ctx)).Where("program_id = ?", programID).Find(&days).Error
	return days, err
}

func (r *trainingRepository) DeleteDay(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if tx.Migrator().HasTable("schedule_events") {
			if err := tx.Exec("UPDATE schedule_events SET training_day_id = NULL WHERE training_day_id = ?", id).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("day_id = ?", id).Delete(&Exercise{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&Day{}, id)
		return common.RequireRows(res.RowsAffected, res.Error)
	})
}

// --- Exercises ---

// AddExercise appends the exercise after the day's existing ones.
func (r *trainingRepository) AddExercise(ctx context.Context, e *Exercise) error {
	if !e.Category.Valid() {
		return common.Invalid("category", "unknown exercise category")
	}
	if e.Name == "" {
		return common.Invalid("name", "is required")
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var days int64
		if err := tx.Model(&Day{}).Where("id = ?", e.DayID).Count(&days).Error; err != nil {
			return err
		}
		if days == 0 {
			return common.ErrNotFound
		}
		var count int64
		if err := tx.Model(&Exercise{}).Where("day_id = ?", e.DayID).Count(&count).Error; err != nil {
			return err
		}
		e.SortOrder = int(count)
		return tx.Create(e).Error
	})
}

func (r *trainingRepository) DeleteExercise(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&Exercise{}, id)
	return common.RequireRows(res.RowsAffected, res.Error)
}

// --- Assignments ---

func (r *trainingRepository) Assign(ctx context.Context, a *Assignment) error {
	if _, err := a.Scope(); err != nil {
		return common.Invalid("scope", err.Error())
	}
	if a.StartDate != nil && a.EndDate != nil && time.Time(*a.EndDate).Before(time.Time(*a.StartDate)) {
		return common.Invalid("end_date", "must not be before start_date")
	}
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *trainingRepository) ListAssignments(ctx context.Context, programID uint) ([]Assignment, error) {
	var out []Assignment
	err := r.db.WithContext(ctx).
		Where("program_id = ?", programID).
		Order("created_at desc").
		Find(&out).Error
	return out, err
}

// AssignmentsFor returns the player's own assignments and those of the
// given teams, newest first, with the program loaded.
func (r *trainingRepository) AssignmentsFor(ctx context.Context, playerID uint, teamIDs []uint) ([]Assignment, error) {
	var out []Assignment
	q := r.db.WithContext(ctx).Preload("Program")
	if len(teamIDs) > 0 {
		q = q.Where("player_id = ? OR team_id IN ?", playerID, teamIDs)
	} else {
		q = q.Where("player_id = ?", playerID)
	}
	err := q.Order("created_at desc").Find(&out).Error
	return out, err
}

func (r *trainingRepository) DeleteAssignment(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&Assignment{}, id)
	return common.RequireRows(res.RowsAffected, res.Error)
}
