package calendar

import (
	"testing"
	"time"

	"github.com/DhavalSuthar-24/dugout/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMonthGridAlwaysHas42Cells(t *testing.T) {
	for year := 1999; year <= 2031; year++ {
		for month := time.January; month <= time.December; month++ {
			cells := MonthGrid(year, month)
			require.Len(t, cells, GridCells)

			first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
			idx := int(first.Weekday())
			assert.Equal(t, first.Format(models.DateLayout), cells[idx].Date, "%d-%02d", year, month)
			assert.True(t, cells[idx].InMonth)
			assert.Equal(t, 1, cells[idx].Day)
			assert.Equal(t, 0, cells[0].Weekday)

			inMonth := 0
			for i, c := range cells {
				if c.InMonth {
					inMonth++
				}
				if i < idx {
					assert.False(t, c.InMonth)
				}
			}
			assert.Equal(t, first.AddDate(0, 1, -1).Day(), inMonth)
		}
	}
}

func TestMonthGridPadding(t *testing.T) {
	// June 2024 starts on a Saturday.
	cells := MonthGrid(2024, time.June)
	assert.Equal(t, "2024-05-26", cells[0].Date)
	assert.Equal(t, "2024-06-01", cells[6].Date)
	assert.Equal(t, "2024-07-06", cells[41].Date)
	assert.False(t, cells[41].InMonth)
}

func at(date, clock string) ScheduleEvent {
	d, _ := models.ParseDate(date)
	e := ScheduleEvent{EventType: EventPractice, EventDate: d}
	if clock != "" {
		e.EventTime = &clock
	}
	return e
}

func TestBuildMonthCapsBadges(t *testing.T) {
	events := []ScheduleEvent{
		at("2024-06-10", ""),
		at("2024-06-10", "18:00"),
		at("2024-06-10", "07:30"),
		at("2024-06-10", "12:00"),
		at("2024-06-10", "09:00"),
		at("2024-06-11", "10:00"),
		at("2024-08-01", "10:00"),
	}
	view := BuildMonth(2024, time.June, events, DefaultBadges)

	var tenth, eleventh Cell
	for _, c := range view.Cells {
		switch c.Date {
		case "2024-06-10":
			tenth = c
		case "2024-06-11":
			eleventh = c
		}
	}
	require.Len(t, tenth.Events, 3)
	assert.Equal(t, 2, tenth.More)
	assert.Equal(t, "07:30", *tenth.Events[0].EventTime)
	assert.Equal(t, "12:00", *tenth.Events[2].EventTime)
	assert.Len(t, eleventh.Events, 1)
	assert.Zero(t, eleventh.More)

	total := 0
	for _, c := range view.Cells {
		total += len(c.Events) + c.More
	}
	assert.Equal(t, 6, total)
}

func TestWeekGrid(t *testing.T) {
	wed, err := models.ParseDate("2024-06-05")
	require.NoError(t, err)
	view := BuildWeek(wed, []ScheduleEvent{at("2024-06-02", ""), at("2024-06-09", "")})
	require.Len(t, view.Cells, 7)
	assert.Equal(t, "2024-06-02", view.Start)
	assert.Equal(t, "2024-06-08", view.Cells[6].Date)
	assert.Len(t, view.Cells[0].Events, 1)
	for _, c := range view.Cells[1:] {
		assert.Empty(t, c.Events)
	}
}

func TestDisplayTitle(t *testing.T) {
	assert.Equal(t, "vs Hawks", ScheduleEvent{EventType: EventGame, Opponent: "Hawks"}.DisplayTitle())
	assert.Equal(t, "Leg Day", ScheduleEvent{EventType: EventWorkout, Title: "Leg Day"}.DisplayTitle())
	assert.Equal(t, "practice", ScheduleEvent{EventType: EventPractice}.DisplayTitle())
}
