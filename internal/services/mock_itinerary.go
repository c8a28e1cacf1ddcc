package services

import (
	"fmt"
	"strconv"
	"strings"

	"tripcraft/internal/models/request_models"
	"tripcraft/internal/models/response_models"
	"tripcraft/pkg/utils"
)

type mockSlot struct {
	time     string
	title    string
	duration string
}

// Each set of the primary plan covers a cultural center, a market, a museum and a sunset
// viewpoint. Titles use %s for the city.
var primaryDaySets = [][]mockSlot{
	{
		{"9:00 AM", "%s Cultural Center", "2 hours"},
		{"11:30 AM", "Central Market Food Walk", "1.5 hours"},
		{"2:00 PM", "%s History Museum", "2.5 hours"},
		{"6:30 PM", "Sunset Viewpoint over %s", "1.5 hours"},
	},
	{
		{"9:30 AM", "Heritage Cultural Center Tour", "2 hours"},
		{"12:00 PM", "Local Artisan Market", "1.5 hours"},
		{"2:30 PM", "%s Art Museum", "2.5 hours"},
		{"7:00 PM", "Sunset Observation Deck", "1.5 hours"},
	},
	{
		{"9:00 AM", "Old Quarter Cultural Walk", "2 hours"},
		{"11:30 AM", "Farmers Market Tasting", "1.5 hours"},
		{"2:00 PM", "Science and Design Museum", "2 hours"},
		{"6:45 PM", "Sunset from the Hilltop Viewpoint", "1.5 hours"},
	},
}

var adventureSlots = []mockSlot{
	{"4:30 PM", "Guided Bike Adventure around %s", "2 hours"},
	{"4:30 PM", "Kayak Adventure on the Waterfront", "2 hours"},
	{"4:30 PM", "Hiking Adventure to a Scenic Trail", "2.5 hours"},
}

// Alternative sets never share a title with the primary sets.
var alternativeDaySets = [][]mockSlot{
	{
		{"9:00 AM", "Alternative experience: Old Town Walking Tour", "2 hours"},
		{"11:30 AM", "Botanical Garden Picnic", "1.5 hours"},
		{"1:30 PM", "Street Food Tasting Trail", "2 hours"},
		{"4:00 PM", "Hidden Gallery Hop", "2 hours"},
		{"7:00 PM", "Rooftop Skyline Evening", "2 hours"},
	},
	{
		{"9:30 AM", "Alternative experience: Cooking Class with a Local Chef", "3 hours"},
		{"1:00 PM", "Riverside Park Stroll", "1.5 hours"},
		{"3:00 PM", "Flea Market Treasure Hunt", "1.5 hours"},
		{"5:00 PM", "Historic Palace Grounds", "1.5 hours"},
		{"7:30 PM", "Panorama Terrace at Dusk", "1.5 hours"},
	},
	{
		{"8:30 AM", "Alternative experience: Sunrise Lookout Walk", "1.5 hours"},
		{"10:30 AM", "Cathedral Quarter Visit", "1.5 hours"},
		{"12:30 PM", "Neighbourhood Cafe Crawl", "2 hours"},
		{"3:00 PM", "Photography Exhibit Afternoon", "2 hours"},
		{"6:00 PM", "Seaside Promenade and Bay Views", "2 hours"},
	},
}

// MockItineraryBuilder synthesizes plans from the fallback library only. It performs no I/O.
type MockItineraryBuilder struct {
	library *FallbackContentLibrary
}

func NewMockItineraryBuilder(library *FallbackContentLibrary) *MockItineraryBuilder {
	return &MockItineraryBuilder{library: library}
}

// Itinerary covers exactly params.DayCount() days.
func (b *MockItineraryBuilder) Itinerary(params request_models.TripParameters, prefs request_models.TripPreferences) response_models.Itinerary {
	dayCount := params.DayCount()
	start := params.Start()
	out := response_models.Itinerary{Days: make([]response_models.DayPlan, 0, dayCount)}
	for day := 1; day <= dayCount; day++ {
		out.Days = append(out.Days, b.Day(params, prefs, day, utils.DateForDay(start, day)))
	}
	return out
}

func (b *MockItineraryBuilder) Day(params request_models.TripParameters, prefs request_models.TripPreferences, day int, date string) response_models.DayPlan {
	slots := append([]mockSlot(nil), primaryDaySets[positiveMod(day-1, len(primaryDaySets))]...)
	if prefs.HasStyle("adventure") {
		slots = insertBeforeLast(slots, adventureSlots[positiveMod(day-1, len(adventureSlots))])
	}
	return b.buildDay(params, prefs, day, date, slots, day-1)
}

// AlternativeDay returns a day whose titles differ from every title of original.
func (b *MockItineraryBuilder) AlternativeDay(params request_models.TripParameters, prefs request_models.TripPreferences, original response_models.DayPlan) response_models.DayPlan {
	city := params.City()
	used := make(map[string]bool, len(original.Activities))
	for _, a := range original.Activities {
		used[a.Title] = true
	}

	offset := original.Day
	chosen := alternativeDaySets[positiveMod(offset, len(alternativeDaySets))]
	for i := 0; i < len(alternativeDaySets); i++ {
		candidate := alternativeDaySets[positiveMod(offset+i, len(alternativeDaySets))]
		if !overlaps(candidate, city, used) {
			chosen = candidate
			break
		}
	}
	return b.buildDay(params, prefs, original.Day, original.Date, chosen, original.Day+1)
}

func (b *MockItineraryBuilder) buildDay(params request_models.TripParameters, prefs request_models.TripPreferences, day int, date string, slots []mockSlot, mealVariant int) response_models.DayPlan {
	city := params.City()
	transport := "walking"
	if params.WithElderly {
		transport = "taxi"
	}

	plan := response_models.DayPlan{
		Day:        day,
		Date:       date,
		Activities: make([]response_models.Activity, 0, len(slots)),
		TravelTips: b.library.TravelTipsFor(params),
	}
	for i, s := range slots {
		title := slotTitle(s, city)
		plan.Activities = append(plan.Activities, response_models.Activity{
			ID:            strconv.Itoa(day) + "-" + strconv.Itoa(i+1),
			Time:          s.time,
			Title:         title,
			Description:   b.library.DescriptionFor(title, params.Destination),
			Location:      params.Destination,
			Duration:      s.duration,
			TravelTime:    "15 minutes",
			TransportMode: transport,
			FunFact:       b.library.FunFactFor(title, params.Destination),
			Tips:          b.library.TipsFor(title),
			BudgetRange:   b.library.BudgetRangeFor(title),
			ImageURL:      b.library.ImageFor(title, params.Destination),
		})
	}
	plan.Meals = b.Meals(params.Destination, mealVariant, prefs)
	return plan
}

func (b *MockItineraryBuilder) Meals(destination string, variant int, prefs request_models.TripPreferences) response_models.MealPlan {
	return response_models.MealPlan{
		Breakfast: b.library.MealFor(Breakfast, destination, variant, prefs),
		Lunch:     b.library.MealFor(Lunch, destination, variant, prefs),
		Dinner:    b.library.MealFor(Dinner, destination, variant, prefs),
	}
}

func slotTitle(s mockSlot, city string) string {
	if strings.Contains(s.title, "%s") {
		return fmt.Sprintf(s.title, city)
	}
	return s.title
}

func overlaps(slots []mockSlot, city string, used map[string]bool) bool {
	for _, s := range slots {
		if used[slotTitle(s, city)] {
			return true
		}
	}
	return false
}

func insertBeforeLast(slots []mockSlot, extra mockSlot) []mockSlot {
	if len(slots) == 0 {
		return []mockSlot{extra}
	}
	last := slots[len(slots)-1]
	return append(append(slots[:len(slots)-1:len(slots)-1], extra), last)
}
