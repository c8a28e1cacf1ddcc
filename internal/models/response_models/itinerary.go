package response_models

type MealSuggestion struct {
	Name        string   `json:"name"`
	Cuisine     string   `json:"cuisine"`
	Location    string   `json:"location"`
	PriceRange  string   `json:"priceRange"`
	Specialties []string `json:"specialties"`
}

// MealPlan always carries all three slots.
type MealPlan struct {
	Breakfast MealSuggestion `json:"breakfast"`
	Lunch     MealSuggestion `json:"lunch"`
	Dinner    MealSuggestion `json:"dinner"`
}

type Activity struct {
	ID                string   `json:"id"`
	Time              string   `json:"time"`
	Title             string   `json:"title"`
	Description       string   `json:"description"`
	Location          string   `json:"location"`
	Duration          string   `json:"duration"`
	TravelTime        string   `json:"travelTime,omitempty"`
	TransportMode     string   `json:"transportMode,omitempty"`
	FunFact           string   `json:"funFact,omitempty"`
	Tips              []string `json:"tips,omitempty"`
	BudgetRange       string   `json:"budgetRange,omitempty"`
	NearbyRestaurants []string `json:"nearbyRestaurants,omitempty"`
	Transportation    string   `json:"transportation,omitempty"`
	ImageURL          string   `json:"imageUrl,omitempty"`
	Deleted           bool     `json:"deleted,omitempty"`
}

type DayPlan struct {
	Day        int        `json:"day"`
	Date       string     `json:"date"`
	Activities []Activity `json:"activities"`
	Meals      MealPlan   `json:"meals"`
	TravelTips []string   `json:"travelTips,omitempty"`
}

type Itinerary struct {
	Days []DayPlan `json:"itinerary"`
}

// Clone deep-copies the itinerary so edits never reach the caller's value.
func (it Itinerary) Clone() Itinerary {
	if it.Days == nil {
		return Itinerary{}
	}
	out := Itinerary{Days: make([]DayPlan, len(it.Days))}
	for i, d := range it.Days {
		out.Days[i] = d.Clone()
	}
	return out
}

// Day returns the index of the given day number, or -1.
func (it Itinerary) Day(dayNumber int) int {
	for i, d := range it.Days {
		if d.Day == dayNumber {
			return i
		}
	}
	return -1
}

func (d DayPlan) Clone() DayPlan {
	out := d
	if d.Activities != nil {
		out.Activities = make([]Activity, len(d.Activities))
		for i, a := range d.Activities {
			out.Activities[i] = a.Clone()
		}
	}
	out.Meals = MealPlan{
		Breakfast: d.Meals.Breakfast.Clone(),
		Lunch:     d.Meals.Lunch.Clone(),
		Dinner:    d.Meals.Dinner.Clone(),
	}
	out.TravelTips = cloneStrings(d.TravelTips)
	return out
}

func (a Activity) Clone() Activity {
	out := a
	out.Tips = cloneStrings(a.Tips)
	out.NearbyRestaurants = cloneStrings(a.NearbyRestaurants)
	return out
}

func (m MealSuggestion) Clone() MealSuggestion {
	out := m
	out.Specialties = cloneStrings(m.Specialties)
	return out
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}
