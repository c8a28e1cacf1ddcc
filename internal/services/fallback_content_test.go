package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tripcraft/internal/models/request_models"
)

type fixedRand int

func (f fixedRand) IntN(n int) int { return int(f) % n }

func TestFallbackLibraryIsTotal(t *testing.T) {
	lib := NewFallbackContentLibrary(fixedRand(0))

	pairs := []struct{ title, location string }{
		{"", ""},
		{"   ", "   "},
		{"Louvre Museum", "Paris, France"},
		{"Something unheard of", "Nowhere"},
		{"", "Tokyo"},
		{"Sunset Cruise", ""},
		{"🙂🙂", "🗺"},
	}

	for _, p := range pairs {
		t.Run(p.title+"|"+p.location, func(t *testing.T) {
			img := lib.ImageFor(p.title, p.location)
			assert.True(t, strings.HasPrefix(img, "https://"), img)
			assert.NotEmpty(t, lib.FunFactFor(p.title, p.location))
			tips := lib.TipsFor(p.title)
			require.NotEmpty(t, tips)
			for _, tip := range tips {
				assert.NotEmpty(t, tip)
			}
			assert.NotEmpty(t, lib.BudgetRangeFor(p.title))
			assert.NotEmpty(t, lib.DescriptionFor(p.title, p.location))
		})
	}
}

func TestImageForCategoryBeatsCity(t *testing.T) {
	lib := NewFallbackContentLibrary(nil)
	paris, ok := cityFor("Paris, France")
	require.True(t, ok)

	museum := lib.ImageFor("Louvre Museum", "Paris, France")
	assert.NotEqual(t, paris.image, museum)
	assert.Equal(t, contentCategories[0].image, museum)

	assert.Equal(t, paris.image, lib.ImageFor("A stroll with friends", "Paris, France"))
	assert.Equal(t, defaultImageURL, lib.ImageFor("A stroll with friends", "Atlantis"))
}

func TestCategoryOrderFirstMatchWins(t *testing.T) {
	// "market" is checked before "food".
	c, ok := categoryFor("Street food market")
	require.True(t, ok)
	assert.Equal(t, "market", c.name)

	_, ok = categoryFor("")
	assert.False(t, ok)
}

func TestKeywordsMatchWholeWords(t *testing.T) {
	categories := []struct {
		title string
		want  string // empty means no category
	}{
		{"Start of the walking tour", "cultural"},
		{"Heart of the old quarter", ""},
		{"Parking near the station", ""},
		{"Art Deco stroll", "museum"},
		{"Botanical Gardens", "park"},
		{"Baroque churches", "temple"},
		{"Bayside parade", ""},
		{"Museum-hopping afternoon", "museum"},
	}
	for _, tt := range categories {
		t.Run(tt.title, func(t *testing.T) {
			c, ok := categoryFor(tt.title)
			assert.Equal(t, tt.want != "", ok)
			assert.Equal(t, tt.want, c.name)
		})
	}

	_, ok := cityFor("Bucharest, Romania")
	assert.False(t, ok)
	rome, ok := cityFor("Roma, Italia")
	require.True(t, ok)
	assert.Contains(t, rome.keywords, "rome")
	_, ok = cityFor("Parisian suburbs")
	assert.False(t, ok)
	nyc, ok := cityFor("New York City")
	require.True(t, ok)
	assert.Contains(t, nyc.keywords, "nyc")
}

func TestFunFactUsesRandomSource(t *testing.T) {
	museum := contentCategories[0]
	require.Greater(t, len(museum.funFacts), 1)

	assert.Equal(t, museum.funFacts[0], NewFallbackContentLibrary(fixedRand(0)).FunFactFor("Museum", ""))
	assert.Equal(t, museum.funFacts[1], NewFallbackContentLibrary(fixedRand(1)).FunFactFor("Museum", ""))
}

func TestMealForAlwaysNamesAPlace(t *testing.T) {
	lib := NewFallbackContentLibrary(nil)
	prefs := request_models.TripPreferences{Cuisines: []string{"Thai"}, Dietary: []string{"Vegan"}}

	for _, slot := range []MealSlot{Breakfast, Lunch, Dinner} {
		for _, dest := range []string{"Paris, France", "", "Reykjavik"} {
			m := lib.MealFor(slot, dest, 3, prefs)
			assert.NotEmpty(t, m.Name, "%s %q", slot, dest)
			assert.NotEmpty(t, m.PriceRange)
			assert.Contains(t, m.Specialties, "Vegan options available")
		}
	}

	generic := lib.MealFor(Lunch, "Reykjavik, Iceland", 0, prefs)
	assert.Equal(t, "Reykjavik Bistro", generic.Name)
	assert.Equal(t, "Thai", generic.Cuisine)
}

func TestTravelTipsFollowParty(t *testing.T) {
	lib := NewFallbackContentLibrary(nil)
	tips := lib.TravelTipsFor(request_models.TripParameters{
		Destination:  "Rome, Italy",
		Budget:       request_models.BudgetEconomy,
		WithChildren: true,
		WithElderly:  true,
	})
	assert.Len(t, tips, 4)
	assert.Contains(t, tips[0], "Rome")
}
