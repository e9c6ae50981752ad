package calendar

import (
	"testing"

	"github.com/DhavalSuthar-24/dugout/internal/common"
	"github.com/DhavalSuthar-24/dugout/internal/models"
	"github.com/DhavalSuthar-24/dugout/internal/nutrition"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func june1(t *testing.T) *AddEventDraft {
	t.Helper()
	d, err := models.ParseDate("2024-06-01")
	require.NoError(t, err)
	return NewDraft(models.PlayerScope(7), d)
}

func TestDraftWalksForward(t *testing.T) {
	d := june1(t)
	assert.Equal(t, StepKind, d.Step())

	var ve *common.ValidationError
	assert.ErrorAs(t, d.ChooseKind(KindTeamEvent), &ve, "team events need a team calendar")

	require.NoError(t, d.ChooseKind(KindWorkout))
	assert.Equal(t, StepCoverage, d.Step())
	assert.ErrorIs(t, d.ChooseKind(KindMeal), ErrWrongStep)
	assert.ErrorIs(t, d.ChooseSource(Existing), ErrWrongStep)

	require.NoError(t, d.ChooseCoverage(Single))
	assert.Equal(t, StepSource, d.Step())
	require.NoError(t, d.ChooseSource(Existing))
	assert.Equal(t, StepDetails, d.Step())

	assert.ErrorAs(t, d.Validate(), &ve)
	d.ProgramID, d.DayID = 3, 9
	assert.NoError(t, d.Validate())
}

func TestDraftBackClearsDeeperSelections(t *testing.T) {
	d := june1(t)
	require.NoError(t, d.ChooseKind(KindMeal))
	require.NoError(t, d.ChooseCoverage(Single))
	require.NoError(t, d.ChooseSource(Existing))
	d.MealID = 12

	// Undo the source: the meal picked under it goes too.
	require.True(t, d.Back())
	assert.Equal(t, StepSource, d.Step())
	assert.Equal(t, KindMeal, d.Kind())
	assert.Equal(t, Single, d.Coverage())
	assert.Zero(t, d.MealID)

	require.NoError(t, d.ChooseSource(CreateNew))
	d.NewMeal = &nutrition.MealRequest{Name: "Pasta", MealType: nutrition.Dinner}
	require.True(t, d.Back())
	assert.Nil(t, d.NewMeal)

	// Back over the coverage boundary then switch to a full plan.
	require.True(t, d.Back())
	assert.Equal(t, StepCoverage, d.Step())
	require.NoError(t, d.ChooseCoverage(Full))
	d.PlanID = 4
	assert.NoError(t, d.Validate())

	require.True(t, d.Back())
	assert.Zero(t, d.PlanID)
	require.True(t, d.Back())
	assert.Equal(t, StepKind, d.Step())
	assert.False(t, d.Back())
}

func TestDraftFromRequestKeepsOnlyBranchSelections(t *testing.T) {
	d, err := DraftFromRequest(AddEventRequest{
		Date:      "2024-06-01",
		Scope:     "player",
		TargetID:  7,
		Kind:      KindWorkout,
		Coverage:  Full,
		Source:    Existing,
		ProgramID: 2,
		DayID:     5,
		MealID:    9,
	})
	require.NoError(t, err)
	assert.Equal(t, StepDetails, d.Step())
	assert.Equal(t, Source(""), d.Source())
	assert.EqualValues(t, 2, d.ProgramID)
	assert.Zero(t, d.DayID)
	assert.Zero(t, d.MealID)

	var ve *common.ValidationError
	_, err = DraftFromRequest(AddEventRequest{Date: "2024-06-01", Scope: "player", TargetID: 7, Kind: KindMeal})
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "coverage", ve.Field)

	_, err = DraftFromRequest(AddEventRequest{Date: "2024-06-01", Scope: "team", TargetID: 1, Kind: KindTeamEvent})
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "team_event", ve.Field)

	team, err := DraftFromRequest(AddEventRequest{
		Date: "2024-06-01", Scope: "team", TargetID: 1, Kind: KindTeamEvent,
		TeamEvent: &TeamEventInput{EventType: EventGame, Opponent: "Hawks"},
	})
	require.NoError(t, err)
	assert.Equal(t, KindTeamEvent, team.Kind())
}
