package calendar

import (
	"errors"
	"fmt"
	"strings"

	"github.com/DhavalSuthar-24/dugout/internal/common"
	"github.com/DhavalSuthar-24/dugout/internal/models"
	"github.com/DhavalSuthar-24/dugout/internal/nutrition"
	"gorm.io/datatypes"
)

// EventKind is the first choice in the add-event flow.
type EventKind string

const (
	KindTeamEvent EventKind = "team-event"
	KindWorkout   EventKind = "workout"
	KindMeal      EventKind = "meal"
)

// Coverage picks a single calendar entry or a whole program or plan.
type Coverage string

const (
	Single Coverage = "single"
	Full   Coverage = "full"
)

// Source picks an existing library item or an inline new one.
type Source string

const (
	Existing  Source = "existing"
	CreateNew Source = "create"
)

type DraftStep int

const (
	StepKind DraftStep = iota
	StepCoverage
	StepSource
	StepDetails
)

func (s DraftStep) String() string {
	switch s {
	case StepKind:
		return "kind"
	case StepCoverage:
		return "coverage"
	case StepSource:
		return "source"
	}
	return "details"
}

var ErrWrongStep = errors.New("choice not available at this step")

// AddEventDraft walks kind → coverage → source → details. Each choice is only
// accepted at its own step, and Back undoes the latest choice together with
// every selection made after it, so nothing chosen for one branch can be
// submitted under another.
type AddEventDraft struct {
	Date  datatypes.Date
	Scope models.Scope

	kind     EventKind
	coverage Coverage
	source   Source

	TeamEvent *TeamEventInput
	ProgramID uint
	DayID     uint
	MealID    uint
	PlanID    uint
	Workout   *WorkoutInput
	NewMeal   *nutrition.MealRequest
}

func NewDraft(scope models.Scope, date datatypes.Date) *AddEventDraft {
	return &AddEventDraft{Scope: scope, Date: date}
}

func (d *AddEventDraft) Kind() EventKind    { return d.kind }
func (d *AddEventDraft) Coverage() Coverage { return d.coverage }
func (d *AddEventDraft) Source() Source     { return d.source }

// Step is the next choice the draft is waiting for.
func (d *AddEventDraft) Step() DraftStep {
	switch {
	case d.kind == "":
		return StepKind
	case d.kind == KindTeamEvent:
		return StepDetails
	case d.coverage == "":
		return StepCoverage
	case d.coverage == Full:
		return StepDetails
	case d.source == "":
		return StepSource
	}
	return StepDetails
}

// ChooseKind picks what is being added. Team events belong on team
// calendars; workouts and meals on player calendars.
func (d *AddEventDraft) ChooseKind(k EventKind) error {
	if d.Step() != StepKind {
		return fmt.Errorf("%w: kind already chosen", ErrWrongStep)
	}
	switch k {
	case KindTeamEvent:
		if d.Scope.Kind() != models.ScopeTeam {
			return common.Invalid("kind", "team events go on a team calendar")
		}
	case KindWorkout, KindMeal:
		if d.Scope.Kind() != models.ScopePlayer {
			return common.Invalid("kind", "workouts and meals go on a player calendar")
		}
	default:
		return common.Invalid("kind", fmt.Sprintf("unknown kind %q", k))
	}
	d.kind = k
	return nil
}

func (d *AddEventDraft) ChooseCoverage(c Coverage) error {
	if d.Step() != StepCoverage {
		return fmt.Errorf("%w: coverage is chosen after a workout or meal kind", ErrWrongStep)
	}
	if c != Single && c != Full {
		return common.Invalid("coverage", "must be single or full")
	}
	d.coverage = c
	return nil
}

func (d *AddEventDraft) ChooseSource(s Source) error {
	if d.Step() != StepSource {
		return fmt.Errorf("%w: source is chosen for single entries only", ErrWrongStep)
	}
	if s != Existing && s != CreateNew {
		return common.Invalid("source", "must be existing or create")
	}
	d.source = s
	return nil
}

// Back undoes the latest choice. It reports false when nothing was chosen.
func (d *AddEventDraft) Back() bool {
	switch {
	case d.source != "":
		d.source = ""
		d.clearDetails()
		// The program was picked on the way to a day.
		d.ProgramID = 0
	case d.coverage != "":
		d.coverage = ""
		d.clearDetails()
		d.ProgramID, d.PlanID = 0, 0
	case d.kind != "":
		d.kind = ""
		d.clearDetails()
		d.ProgramID, d.PlanID = 0, 0
		d.TeamEvent = nil
	default:
		return false
	}
	return true
}

func (d *AddEventDraft) clearDetails() {
	d.DayID, d.MealID = 0, 0
	d.Workout = nil
	d.NewMeal = nil
}

// Validate reports whether the draft is complete for the branch it is on.
func (d *AddEventDraft) Validate() error {
	if d.Scope.IsZero() {
		return common.Invalid("scope", models.ErrInvalidScope.Error())
	}
	if d.Step() != StepDetails {
		return common.Invalid(d.Step().String(), "is required")
	}
	switch d.kind {
	case KindTeamEvent:
		if d.TeamEvent == nil {
			return common.Invalid("team_event", "is required")
		}
		if t := d.TeamEvent.EventType; t != EventGame && t != EventPractice {
			return common.Invalid("team_event.event_type", "must be game or practice")
		}
	case KindWorkout:
		switch {
		case d.coverage == Full && d.ProgramID == 0:
			return common.Invalid("program_id", "is required")
		case d.coverage == Single && d.source == Existing && d.DayID == 0:
			return common.Invalid("day_id", "is required")
		case d.coverage == Single && d.source == CreateNew && (d.Workout == nil || strings.TrimSpace(d.Workout.Title) == ""):
			return common.Invalid("workout.title", "is required")
		}
	case KindMeal:
		switch {
		case d.coverage == Full && d.PlanID == 0:
			return common.Invalid("plan_id", "is required")
		case d.coverage == Single && d.source == Existing && d.MealID == 0:
			return common.Invalid("meal_id", "is required")
		case d.coverage == Single && d.source == CreateNew && (d.NewMeal == nil || strings.TrimSpace(d.NewMeal.Name) == ""):
			return common.Invalid("new_meal.name", "is required")
		}
	}
	return nil
}

// DraftFromRequest replays a client's choices through a fresh draft and
// copies across only the selections that belong to the resulting branch.
func DraftFromRequest(req AddEventRequest) (*AddEventDraft, error) {
	scope, err := models.ParseScope(req.Scope, req.TargetID)
	if err != nil {
		return nil, common.Invalid("scope", err.Error())
	}
	date, err := models.ParseDate(req.Date)
	if err != nil {
		return nil, common.Invalid("date", err.Error())
	}

	d := NewDraft(scope, date)
	if err := d.ChooseKind(req.Kind); err != nil {
		return nil, err
	}
	if d.Step() == StepCoverage {
		if req.Coverage == "" {
			return nil, common.Invalid("coverage", "is required")
		}
		if err := d.ChooseCoverage(req.Coverage); err != nil {
			return nil, err
		}
	}
	if d.Step() == StepSource {
		if req.Source == "" {
			return nil, common.Invalid("source", "is required")
		}
		if err := d.ChooseSource(req.Source); err != nil {
			return nil, err
		}
	}

	switch {
	case d.kind == KindTeamEvent:
		d.TeamEvent = req.TeamEvent
	case d.kind == KindWorkout && d.coverage == Full:
		d.ProgramID = req.ProgramID
	case d.kind == KindWorkout && d.source == Existing:
		d.ProgramID, d.DayID = req.ProgramID, req.DayID
	case d.kind == KindWorkout:
		d.Workout = req.Workout
	case d.kind == KindMeal && d.coverage == Full:
		d.PlanID = req.PlanID
	case d.kind == KindMeal && d.source == Existing:
		d.MealID = req.MealID
	default:
		d.NewMeal = req.NewMeal
	}
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return d, nil
}
