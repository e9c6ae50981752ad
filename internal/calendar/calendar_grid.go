package calendar

import (
	"sort"
	"time"

	"github.com/DhavalSuthar-24/dugout/internal/models"
	"gorm.io/datatypes"
)

const (
	// GridCells is six Sunday-first weeks.
	GridCells = 42
	// DefaultBadges is how many events a month cell lists before "+N more".
	DefaultBadges = 3
)

type Cell struct {
	Date    string          `json:"date"`
	Day     int             `json:"day"`
	Weekday int             `json:"weekday"`
	InMonth bool            `json:"in_month"`
	IsToday bool            `json:"is_today"`
	Events  []ScheduleEvent `json:"events"`
	More    int             `json:"more"`
}

type MonthView struct {
	Year  int        `json:"year"`
	Month time.Month `json:"month"`
	Cells []Cell     `json:"cells"`
}

type WeekView struct {
	Start string `json:"start"`
	Cells []Cell `json:"cells"`
}

// MonthGrid returns the 42 dates shown for a month: the 1st sits at the index
// of its weekday, preceded by the tail of the previous month and followed by
// the head of the next.
func MonthGrid(year int, month time.Month) []Cell {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	start := first.AddDate(0, 0, -int(first.Weekday()))
	today := models.FormatDate(models.Today())

	cells := make([]Cell, GridCells)
	for i := range cells {
		d := start.AddDate(0, 0, i)
		cells[i] = Cell{
			Date:    d.Format(models.DateLayout),
			Day:     d.Day(),
			Weekday: int(d.Weekday()),
			InMonth: d.Month() == first.Month(),
			Events:  []ScheduleEvent{},
		}
		cells[i].IsToday = cells[i].Date == today
	}
	return cells
}

// WeekGrid returns Sunday through Saturday of the week containing day.
func WeekGrid(day datatypes.Date) []Cell {
	d := time.Time(day).UTC()
	start := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, -int(d.Weekday()))
	today := models.FormatDate(models.Today())

	cells := make([]Cell, 7)
	for i := range cells {
		c := start.AddDate(0, 0, i)
		cells[i] = Cell{
			Date:    c.Format(models.DateLayout),
			Day:     c.Day(),
			Weekday: i,
			InMonth: true,
			Events:  []ScheduleEvent{},
		}
		cells[i].IsToday = cells[i].Date == today
	}
	return cells
}

// GridRange is the first and last date a set of cells covers.
func GridRange(cells []Cell) (datatypes.Date, datatypes.Date) {
	from, _ := models.ParseDate(cells[0].Date)
	to, _ := models.ParseDate(cells[len(cells)-1].Date)
	return from, to
}

// Fill places events on their cells, ordered by time. With maxBadges > 0 a
// cell keeps that many and counts the rest in More.
func Fill(cells []Cell, events []ScheduleEvent, maxBadges int) {
	byDate := make(map[string][]ScheduleEvent)
	for _, e := range events {
		key := models.FormatDate(e.EventDate)
		byDate[key] = append(byDate[key], e)
	}
	for i := range cells {
		evs := byDate[cells[i].Date]
		sort.SliceStable(evs, func(a, b int) bool {
			return eventClock(evs[a]) < eventClock(evs[b])
		})
		if maxBadges > 0 && len(evs) > maxBadges {
			cells[i].More = len(evs) - maxBadges
			evs = evs[:maxBadges]
		}
		if evs != nil {
			cells[i].Events = evs
		}
	}
}

// Untimed events sort after timed ones.
func eventClock(e ScheduleEvent) string {
	if e.EventTime == nil || *e.EventTime == "" {
		return "99"
	}
	return *e.EventTime
}

// BuildMonth lays events onto the month grid.
func BuildMonth(year int, month time.Month, events []ScheduleEvent, maxBadges int) MonthView {
	cells := MonthGrid(year, month)
	Fill(cells, events, maxBadges)
	return MonthView{Year: year, Month: month, Cells: cells}
}

// BuildWeek lays every event of the week onto its day.
func BuildWeek(day datatypes.Date, events []ScheduleEvent) WeekView {
	cells := WeekGrid(day)
	Fill(cells, events, 0)
	return WeekView{Start: cells[0].Date, Cells: cells}
}
