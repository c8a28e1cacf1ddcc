package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"tripcraft/internal/models/request_models"
	"tripcraft/internal/models/response_models"
	"tripcraft/pkg/utils"
)

func newTestMutator(llm utils.LLMClientInterface) *ItineraryMutator {
	m := newItineraryMutator(llm, NewFallbackContentLibrary(fixedRand(0)), zap.NewNop(), time.Second)
	m.now = func() time.Time { return time.UnixMilli(1_700_000_000_000) }
	return m
}

func parisItinerary(t *testing.T) response_models.Itinerary {
	t.Helper()
	return newTestGenerator(nil).Generate(context.Background(), parisTrip, request_models.TripPreferences{}, nil)
}

func TestDeleteOnlyActivityOfDayTwo(t *testing.T) {
	itin := parisItinerary(t)
	itin.Days[1].Activities = itin.Days[1].Activities[:1]
	before := itin.Clone()

	got, err := newTestMutator(nil).DeleteActivity(itin, 2, itin.Days[1].Activities[0].ID)
	require.NoError(t, err)

	require.NotNil(t, got.Days[1].Activities)
	assert.Empty(t, got.Days[1].Activities)
	assert.Empty(t, cmp.Diff(before.Days[0], got.Days[0]))
	assert.Empty(t, cmp.Diff(before.Days[2], got.Days[2]))
	assert.Empty(t, cmp.Diff(before, itin), "input must not change")
}

func TestDeleteRenumbersRemainingIDs(t *testing.T) {
	itin := parisItinerary(t)
	got, err := newTestMutator(nil).DeleteActivity(itin, 1, "1-2")
	require.NoError(t, err)

	acts := got.Days[0].Activities
	require.Len(t, acts, len(itin.Days[0].Activities)-1)
	for i, a := range acts {
		assert.Equal(t, "1-"+string(rune('1'+i)), a.ID)
	}
	assert.Equal(t, itin.Days[0].Activities[2].Title, acts[1].Title)
}

func TestDirectEditsReportMissingTargets(t *testing.T) {
	m := newTestMutator(nil)
	itin := parisItinerary(t)

	_, err := m.DeleteActivity(itin, 9, "9-1")
	assert.ErrorIs(t, err, utils.ErrDayNotFound)

	_, err = m.UpdateActivity(itin, 1, "nope", ActivityPatch{})
	assert.ErrorIs(t, err, utils.ErrActivityNotFound)

	_, err = m.SoftDeleteActivity(itin, 0, "1-1")
	assert.ErrorIs(t, err, utils.ErrDayNotFound)

	_, err = m.AddActivity(itin, 1, response_models.Activity{})
	assert.ErrorIs(t, err, utils.ErrInvalidInput)
}

func TestUpdateActivityPatchesOnlyGivenFields(t *testing.T) {
	itin := parisItinerary(t)
	title := "Musée d'Orsay"
	tips := []string{"Go on Thursday evening"}

	got, err := newTestMutator(nil).UpdateActivity(itin, 1, "1-3", ActivityPatch{Title: &title, Tips: &tips})
	require.NoError(t, err)

	updated := got.Days[0].Activities[2]
	orig := itin.Days[0].Activities[2]
	assert.Equal(t, title, updated.Title)
	assert.Equal(t, tips, updated.Tips)
	assert.Equal(t, orig.Time, updated.Time)
	assert.Equal(t, orig.Description, updated.Description)
	assert.NotEqual(t, title, orig.Title)
}

func TestAddActivityIDsStayUnique(t *testing.T) {
	m := newTestMutator(nil)
	itin := parisItinerary(t)

	first, err := m.AddActivity(itin, 2, response_models.Activity{Title: "Picnic in the park", Time: "5:00 PM"})
	require.NoError(t, err)
	second, err := m.AddActivity(first, 2, response_models.Activity{Title: "Night walk", Time: "9:00 PM"})
	require.NoError(t, err)

	acts := second.Days[1].Activities
	require.Len(t, acts, len(itin.Days[1].Activities)+2)
	assert.Equal(t, "2-1700000000000", acts[len(acts)-2].ID)
	assert.Equal(t, "2-1700000000001", acts[len(acts)-1].ID)
	assert.NotEmpty(t, acts[len(acts)-1].ImageURL)
	assert.Equal(t, "walking", acts[len(acts)-1].TransportMode)
}

func TestAddActivityToEmptyDay(t *testing.T) {
	itin := parisItinerary(t)
	itin.Days[0].Activities = []response_models.Activity{}

	got, err := newTestMutator(nil).AddActivity(itin, 1, response_models.Activity{Title: "Coffee"})
	require.NoError(t, err)
	assert.Len(t, got.Days[0].Activities, 1)
}

func TestSoftDeleteToggles(t *testing.T) {
	m := newTestMutator(nil)
	itin := parisItinerary(t)

	once, err := m.SoftDeleteActivity(itin, 3, "3-1")
	require.NoError(t, err)
	assert.True(t, once.Days[2].Activities[0].Deleted)
	assert.Len(t, once.Days[2].Activities, len(itin.Days[2].Activities))
	assert.False(t, itin.Days[2].Activities[0].Deleted)

	twice, err := m.SoftDeleteActivity(once, 3, "3-1")
	require.NoError(t, err)
	assert.False(t, twice.Days[2].Activities[0].Deleted)
}

func TestApplyFreeTextUpdateNeverCorrupts(t *testing.T) {
	tests := []struct {
		name string
		llm  utils.LLMClientInterface
	}{
		{"no model", nil},
		{"model error", &fakeLLM{err: errors.New("boom")}},
		{"quota", &fakeLLM{err: utils.ErrModelQuotaExceeded}},
		{"prose", &fakeLLM{reply: "Day 1\n9:00 AM - Something new"}},
		{"missing field", &fakeLLM{reply: `{"days": [{"day": 1}]}`}},
		{"wrong type", &fakeLLM{reply: `{"itinerary": {"day": 1}}`}},
		{"empty array", &fakeLLM{reply: `{"itinerary": []}`}},
		{"truncated", &fakeLLM{reply: `{"itinerary": [{"day": 1, "activities": [`}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			itin := parisItinerary(t)
			before := itin.Clone()

			got, applied := newTestMutator(tt.llm).ApplyFreeTextUpdate(context.Background(), itin, "make day 2 more relaxed")

			assert.False(t, applied)
			assert.Empty(t, cmp.Diff(before, got))
			assert.Empty(t, cmp.Diff(before, itin))
		})
	}
}

func TestApplyFreeTextUpdateReplacesWholeItinerary(t *testing.T) {
	llm := &fakeLLM{reply: `{"itinerary":[
		{"day": 5, "activities": [{"time": "10:00 AM", "title": "Late start at the Louvre Museum"}]},
		{"day": 9, "activities": []}
	]}`}
	itin := parisItinerary(t)

	got, applied := newTestMutator(llm).ApplyFreeTextUpdate(context.Background(), itin, "shorten the trip to two days")

	require.True(t, applied)
	require.Len(t, got.Days, 2)
	assert.Equal(t, 1, got.Days[0].Day)
	assert.Equal(t, "2025-06-01", got.Days[0].Date)
	assert.Equal(t, 2, got.Days[1].Day)
	assert.Equal(t, "2025-06-02", got.Days[1].Date)
	assert.Equal(t, "1-1", got.Days[0].Activities[0].ID)
	assert.Equal(t, "Paris, France", got.Days[0].Activities[0].Location)
	assert.Empty(t, got.Days[1].Activities)
	assert.NotEmpty(t, got.Days[1].Meals.Dinner.Name)

	require.Len(t, llm.requests, 1)
	assert.Contains(t, llm.requests[0].UserPrompt, "shorten the trip to two days")
	assert.Contains(t, llm.requests[0].UserPrompt, `"itinerary"`)
}

func TestRegenerateDayFallsBackToAlternative(t *testing.T) {
	itin := parisItinerary(t)
	before := itin.Clone()

	got, err := newTestMutator(&fakeLLM{err: errors.New("offline")}).RegenerateDay(context.Background(), itin, 2, parisTrip, request_models.TripPreferences{})
	require.NoError(t, err)

	assert.Empty(t, cmp.Diff(before.Days[0], got.Days[0]))
	assert.Empty(t, cmp.Diff(before.Days[2], got.Days[2]))
	assert.Equal(t, before.Days[1].Date, got.Days[1].Date)
	assert.Equal(t, 2, got.Days[1].Day)

	oldTitles := map[string]bool{}
	for _, a := range before.Days[1].Activities {
		oldTitles[a.Title] = true
	}
	require.NotEmpty(t, got.Days[1].Activities)
	for _, a := range got.Days[1].Activities {
		assert.False(t, oldTitles[a.Title], a.Title)
	}
	assert.Empty(t, cmp.Diff(before, itin))
}

func TestRegenerateDayTwiceStillChanges(t *testing.T) {
	m := newTestMutator(nil)
	itin := parisItinerary(t)

	once, err := m.RegenerateDay(context.Background(), itin, 1, parisTrip, request_models.TripPreferences{})
	require.NoError(t, err)
	twice, err := m.RegenerateDay(context.Background(), once, 1, parisTrip, request_models.TripPreferences{})
	require.NoError(t, err)

	assert.NotEqual(t, once.Days[0].Activities[0].Title, twice.Days[0].Activities[0].Title)
}

func TestRegenerateDayUsesModel(t *testing.T) {
	llm := &fakeLLM{reply: `{"itinerary":[{"day":2,"date":"2025-06-02","activities":[
		{"time":"9:00 AM","title":"Versailles day trip","location":"Versailles"}],
		"meals":{"dinner":{"name":"Ore","cuisine":"French","location":"Versailles","priceRange":"$$$","specialties":["Seasonal menu"]}}}]}`}
	itin := parisItinerary(t)

	got, err := newTestMutator(llm).RegenerateDay(context.Background(), itin, 2, parisTrip, request_models.TripPreferences{})
	require.NoError(t, err)

	day := got.Days[1]
	require.Len(t, day.Activities, 1)
	assert.Equal(t, "Versailles day trip", day.Activities[0].Title)
	assert.Equal(t, "2-1", day.Activities[0].ID)
	assert.Equal(t, "Ore", day.Meals.Dinner.Name)
	assert.NotEmpty(t, day.Meals.Breakfast.Name)
	assert.Contains(t, llm.requests[0].UserPrompt, "day 2 (2025-06-02)")
}

func TestRegenerateUnknownDay(t *testing.T) {
	itin := parisItinerary(t)
	got, err := newTestMutator(nil).RegenerateDay(context.Background(), itin, 7, parisTrip, request_models.TripPreferences{})
	assert.ErrorIs(t, err, utils.ErrDayNotFound)
	assert.Empty(t, cmp.Diff(itin, got))
}
