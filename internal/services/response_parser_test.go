package services

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const wellFormedReply = `{
  "itinerary": [
    {
      "day": 1,
      "date": "2025-06-01",
      "activities": [
        {
          "id": "1-1",
          "time": "9:00 AM",
          "title": "Louvre Museum",
          "description": "See the Mona Lisa early",
          "location": "Rue de Rivoli",
          "duration": "3 hours",
          "travelTime": "20 minutes",
          "transportMode": "metro",
          "funFact": "It was a royal palace",
          "tips": ["Book ahead", "Use the Carrousel entrance", "Skip Mondays"],
          "budgetRange": "$20-30 per person"
        }
      ],
      "meals": {
        "breakfast": {"name": "Café de Flore", "cuisine": "French", "location": "Saint-Germain", "priceRange": "$$", "specialties": ["Croissant"]},
        "lunch": {"name": "L'As du Fallafel", "cuisine": "Middle Eastern", "location": "Le Marais", "priceRange": "$", "specialties": ["Falafel"]},
        "dinner": {"name": "Bouillon Chartier", "cuisine": "French", "location": "Grands Boulevards", "priceRange": "$", "specialties": ["Escargots"]}
      },
      "travelTips": ["Buy a Navigo pass"]
    }
  ]
}`

func TestParseStrictRoundTrip(t *testing.T) {
	tests := []struct {
		name   string
		raw    string
		source ParseSource
	}{
		{"bare", wellFormedReply, SourceJSON},
		{"fenced", "```json\n" + wellFormedReply + "\n```", SourceJSON},
		{"plain fence", "```\n" + wellFormedReply + "\n```", SourceJSON},
		{"embedded in prose", "Sure! Here is your plan:\n" + wellFormedReply + "\nHave a great trip.", SourceEmbeddedJSON},
	}

	var want map[string]json.RawMessage
	require.NoError(t, json.Unmarshal([]byte(wellFormedReply), &want))

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Parse(tt.raw)
			require.NotNil(t, got)
			assert.Equal(t, tt.source, got.Source)
			assert.True(t, got.Usable())

			encoded, err := json.Marshal(got.Itinerary)
			require.NoError(t, err)
			assert.JSONEq(t, string(want["itinerary"]), string(encoded))
		})
	}
}

func TestParseStrictRejectsMissingItinerary(t *testing.T) {
	for _, raw := range []string{
		`{"days": []}`,
		`{"itinerary": "soon"}`,
		`{"itinerary": null}`,
		`not json at all`,
		``,
	} {
		_, ok := ParseStrict(raw)
		assert.False(t, ok, raw)
	}
}

func TestParseProseDegradation(t *testing.T) {
	raw := `Here's a lovely trip!

### Day 1: Arrival
- **9:00 AM - Louvre Museum** - see the Mona Lisa before the crowds
- 1:00 PM: Seine river walk
**Lunch:** Le Comptoir du Relais (French)
Dinner at Bouillon Chartier

### Day 2
* 10:00 — Montmartre
* 2:30 PM | Musée d'Orsay`

	got := Parse(raw)
	require.NotNil(t, got)
	assert.Equal(t, SourceHeuristic, got.Source)
	require.Len(t, got.Itinerary, 2)

	day1 := got.Itinerary[0]
	assert.Equal(t, 1, day1.Day)
	require.Len(t, day1.Activities, 2)
	assert.Equal(t, "9:00 AM", day1.Activities[0].Time)
	assert.Equal(t, "Louvre Museum", day1.Activities[0].Title)
	assert.Equal(t, "see the Mona Lisa before the crowds", day1.Activities[0].Description)
	assert.Equal(t, "1:00 PM", day1.Activities[1].Time)
	assert.Equal(t, "Seine river walk", day1.Activities[1].Title)
	assert.False(t, day1.Synthesized)

	require.NotNil(t, day1.Meals.Lunch)
	assert.Equal(t, "Le Comptoir du Relais", day1.Meals.Lunch.Name)
	require.NotNil(t, day1.Meals.Dinner)
	assert.Equal(t, "Bouillon Chartier", day1.Meals.Dinner.Name)
	assert.Nil(t, day1.Meals.Breakfast)

	day2 := got.Itinerary[1]
	assert.Equal(t, 2, day2.Day)
	require.Len(t, day2.Activities, 2)
	assert.Equal(t, "10:00", day2.Activities[0].Time)
	assert.Equal(t, "Montmartre", day2.Activities[0].Title)
	assert.Equal(t, "Musée d'Orsay", day2.Activities[1].Title)
}

func TestParseMealLineEarliestKeywordWins(t *testing.T) {
	got := Parse("Day 1\n9:00 AM - Walk\nDinner: Chez Paul (a light lunch is fine too)\nLunch: Bistro Vivienne\nLunch: Ignored Second")
	day := got.Itinerary[0]
	require.NotNil(t, day.Meals.Dinner)
	assert.Equal(t, "Chez Paul", day.Meals.Dinner.Name)
	require.NotNil(t, day.Meals.Lunch)
	assert.Equal(t, "Bistro Vivienne", day.Meals.Lunch.Name)
}

func TestParseNeverReturnsEmpty(t *testing.T) {
	for _, raw := range []string{"", "   ", "just some thoughts with no times", "{ broken json", "```"} {
		got := Parse(raw)
		require.NotNil(t, got, raw)
		require.Len(t, got.Itinerary, 1, raw)
		assert.Len(t, got.Itinerary[0].Activities, 1)
		assert.True(t, got.Itinerary[0].Synthesized)
		assert.Equal(t, "Destination exploration", got.Itinerary[0].Activities[0].Title)
		assert.False(t, got.Usable())
	}
}

func TestParseDayWithoutTimesGetsPlaceholder(t *testing.T) {
	got := Parse("Day 1\n9:00 AM - Museum\nDay 2\nRelax all day\nBreakfast: Hotel buffet")
	require.Len(t, got.Itinerary, 2)
	assert.False(t, got.Itinerary[0].Synthesized)
	assert.True(t, got.Itinerary[1].Synthesized)
	assert.Equal(t, "2-1", got.Itinerary[1].Activities[0].ID)
	assert.True(t, got.Usable())
}

func TestParseToleratesFieldTypeDeviations(t *testing.T) {
	raw := `{"itinerary":[{"day":"1","activities":[
		{"time":"9:00 AM","title":"Louvre Museum","tips":"Book ahead","duration":3},
		"not an activity"
	],"meals":{"lunch":{"name":"Ore","specialties":"Duck"},"dinner":"Chez Janou"},"travelTips":"Carry cash"}]}`

	got := Parse(raw)
	require.NotNil(t, got)
	assert.Equal(t, SourceJSON, got.Source)
	assert.True(t, got.Usable())
	require.Len(t, got.Itinerary, 1)

	day := got.Itinerary[0]
	assert.Equal(t, 1, day.Day)
	assert.Equal(t, []string{"Carry cash"}, day.TravelTips)
	require.Len(t, day.Activities, 1)
	assert.Equal(t, "Louvre Museum", day.Activities[0].Title)
	assert.Equal(t, []string{"Book ahead"}, day.Activities[0].Tips)
	assert.Equal(t, "3", day.Activities[0].Duration)

	assert.Nil(t, day.Meals.Breakfast)
	require.NotNil(t, day.Meals.Lunch)
	assert.Equal(t, "Ore", day.Meals.Lunch.Name)
	assert.Equal(t, []string{"Duck"}, day.Meals.Lunch.Specialties)
	require.NotNil(t, day.Meals.Dinner)
	assert.Equal(t, "Chez Janou", day.Meals.Dinner.Name)
}

func TestParseDayNumberForms(t *testing.T) {
	got := Parse(`{"itinerary":[{"day":2},{"day":"Day 3"},{"day":4.0},{"day":true}]}`)
	require.Len(t, got.Itinerary, 4)
	assert.Equal(t, 2, got.Itinerary[0].Day)
	assert.Equal(t, 3, got.Itinerary[1].Day)
	assert.Equal(t, 4, got.Itinerary[2].Day)
	assert.Equal(t, 0, got.Itinerary[3].Day)
}

func TestParseValidJSONIsNeverScannedAsProse(t *testing.T) {
	got := Parse(`{"plan": "Lunch at noon", "notes": ["9:00 AM - Museum"]}`)
	assert.Equal(t, SourceJSON, got.Source)
	require.Len(t, got.Itinerary, 1)
	assert.True(t, got.Itinerary[0].Synthesized)
	assert.True(t, got.Itinerary[0].Meals.empty())
	assert.False(t, got.Usable())

	got = Parse("Quick notes {\"lunch\": \"skip\"}\nDay 1\n9:00 AM - Museum")
	assert.Equal(t, SourceHeuristic, got.Source)
	require.Len(t, got.Itinerary, 1)
	assert.Equal(t, "Museum", got.Itinerary[0].Activities[0].Title)
	assert.Nil(t, got.Itinerary[0].Meals.Lunch)
}
