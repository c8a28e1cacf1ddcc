package services

import (
	"fmt"
	"math/rand/v2"
	"strings"
	"unicode"

	"tripcraft/internal/models/request_models"
	"tripcraft/internal/models/response_models"
)

// RandomSource picks among cosmetic variants. It is the only nondeterminism in the
// fallback path.
type RandomSource interface {
	IntN(n int) int
}

type globalRand struct{}

func (globalRand) IntN(n int) int { return rand.IntN(n) }

const (
	defaultImageURL    = "https://images.unsplash.com/photo-1488646953014-85cb44e25828?w=800&q=80"
	defaultBudgetRange = "$20-50 per person"
)

var (
	defaultFunFacts = []string{
		"Every destination has hidden corners that most visitors walk straight past.",
		"Locals are usually the best source of tips the guidebooks never mention.",
		"Travelling slowly tends to produce the most memorable experiences.",
	}
	defaultTips = []string{
		"Check opening hours before you go",
		"Carry a refillable water bottle",
		"Keep some local cash for small vendors",
	}
)

type contentCategory struct {
	name        string
	keywords    []string
	image       string
	funFacts    []string
	tips        []string
	budget      string
	description string
}

// Order matters: the first category whose keyword appears in the title wins.
var contentCategories = []contentCategory{
	{
		name:     "museum",
		keywords: []string{"museum", "gallery", "exhibit", "exhibition", "art"},
		image:    "https://images.unsplash.com/photo-1566127444979-b3d2b654e3d7?w=800&q=80",
		funFacts: []string{
			"Many major museums offer free entry on the first Sunday of the month.",
			"The average visitor spends less than 30 seconds in front of a painting.",
			"Some museum collections are so large that only a small share is ever on display.",
		},
		tips:        []string{"Book timed-entry tickets online", "Start with the highlights map", "Audio guides are worth the small fee"},
		budget:      "$15-30 per person",
		description: "Browse the collections and learn about the history and art of %s.",
	},
	{
		name:     "market",
		keywords: []string{"market", "bazaar", "souk", "shopping", "flea"},
		image:    "https://images.unsplash.com/photo-1533900298318-6b8da08a523e?w=800&q=80",
		funFacts: []string{
			"Open-air markets are among the oldest forms of commerce still in daily use.",
			"Vendors often give a small discount to early-morning customers for good luck.",
		},
		tips:        []string{"Go early for the freshest produce", "Bring small bills", "Haggle politely where it is customary"},
		budget:      "$10-40 per person",
		description: "Wander the stalls of %s, sample street snacks and pick up local crafts.",
	},
	{
		name:     "food",
		keywords: []string{"food", "restaurant", "cafe", "café", "culinary", "cooking", "dining", "breakfast", "lunch", "dinner", "tasting", "street food"},
		image:    "https://images.unsplash.com/photo-1414235077428-338989a2e8c0?w=800&q=80",
		funFacts: []string{
			"Regional dishes often tell the story of trade routes that crossed the area.",
			"Many classic recipes were born out of making the most of leftover ingredients.",
		},
		tips:        []string{"Reserve popular tables in advance", "Ask for the daily special", "Try at least one dish you cannot pronounce"},
		budget:      "$25-60 per person",
		description: "Taste the signature flavours of %s with a relaxed local meal.",
	},
	{
		name:     "park",
		keywords: []string{"park", "garden", "botanical", "nature", "picnic", "forest"},
		image:    "https://images.unsplash.com/photo-1519331379826-f10be5486c6f?w=800&q=80",
		funFacts: []string{
			"City parks can be several degrees cooler than surrounding streets in summer.",
			"Many botanical gardens began as medicinal herb collections.",
		},
		tips:        []string{"Pack a light picnic", "Wear comfortable walking shoes", "Check for seasonal blooms"},
		budget:      "Free - $10 per person",
		description: "Slow down among the green spaces of %s and enjoy the fresh air.",
	},
	{
		name:     "temple",
		keywords: []string{"temple", "church", "cathedral", "shrine", "mosque", "monastery", "basilica", "pagoda"},
		image:    "https://images.unsplash.com/photo-1545569341-9eb8b30979d9?w=800&q=80",
		funFacts: []string{
			"Some sacred buildings took more than a century to complete.",
			"Architectural details often encode the local calendar or cosmology.",
		},
		tips:        []string{"Dress modestly and cover shoulders", "Keep your voice low", "Check visiting hours around services"},
		budget:      "Free - $15 per person",
		description: "Visit one of the spiritual landmarks of %s and admire its architecture.",
	},
	{
		name:     "viewpoint",
		keywords: []string{"viewpoint", "sunset", "sunrise", "observation", "lookout", "rooftop", "skyline", "panorama"},
		image:    "https://images.unsplash.com/photo-1495567720989-cebdbdd97913?w=800&q=80",
		funFacts: []string{
			"Golden hour light lasts roughly an hour after sunrise and before sunset.",
			"On clear days some city viewpoints let you see more than 50 kilometres away.",
		},
		tips:        []string{"Arrive 30 minutes before sunset", "Bring a light jacket", "Charge your camera battery"},
		budget:      "Free - $25 per person",
		description: "Watch the light change over %s from a panoramic viewpoint.",
	},
	{
		name:     "beach",
		keywords: []string{"beach", "coast", "island", "bay", "snorkel", "seaside"},
		image:    "https://images.unsplash.com/photo-1507525428034-b723cf961d3e?w=800&q=80",
		funFacts: []string{
			"Sand colour depends on the rocks and shells it was ground from.",
			"Tides are driven mostly by the moon, with a smaller push from the sun.",
		},
		tips:        []string{"Reapply reef-safe sunscreen", "Check tide times", "Keep valuables out of sight"},
		budget:      "Free - $30 per person",
		description: "Relax by the water and enjoy the coastline around %s.",
	},
	{
		name:     "adventure",
		keywords: []string{"adventure", "hike", "hiking", "trek", "kayak", "kayaking", "climb", "climbing", "zipline", "rafting", "excursion", "bike", "cycling"},
		image:    "https://images.unsplash.com/photo-1551632811-561732d1e306?w=800&q=80",
		funFacts: []string{
			"Guided outdoor tours often fund local conservation projects.",
			"Morning is usually the calmest time for water sports.",
		},
		tips:        []string{"Wear sturdy shoes", "Bring water and snacks", "Book with a licensed operator"},
		budget:      "$40-120 per person",
		description: "Get active with an outdoor adventure near %s.",
	},
	{
		name:     "cultural",
		keywords: []string{"cultural", "culture", "heritage", "historic", "history", "old town", "walking tour", "palace", "castle", "monument"},
		image:    "https://images.unsplash.com/photo-1467269204594-9661b134dd2b?w=800&q=80",
		funFacts: []string{
			"Historic quarters often keep their medieval street plan even after rebuilding.",
			"Local cultural centres frequently host free performances on weekends.",
		},
		tips:        []string{"Join a free walking tour", "Look for guided English tours", "Check for weekend events"},
		budget:      "$10-25 per person",
		description: "Discover the heritage and traditions of %s.",
	},
}

type cityContent struct {
	keywords []string
	image    string
	funFacts []string
	meals    [3][]mealTemplate
}

type mealTemplate struct {
	name        string
	cuisine     string
	area        string
	price       string
	specialties []string
}

var cityContents = []cityContent{
	{
		keywords: []string{"paris"},
		image:    "https://images.unsplash.com/photo-1502602898657-3e91760cbb34?w=800&q=80",
		funFacts: []string{
			"The Eiffel Tower was meant to be dismantled after 20 years.",
			"Paris has more than 450 public parks and gardens.",
		},
		meals: [3][]mealTemplate{
			{{"Café de Flore", "French", "Saint-Germain-des-Prés", "$$", []string{"Croissants", "Café crème"}},
				{"Du Pain et des Idées", "Bakery", "Canal Saint-Martin", "$", []string{"Escargot pastry", "Pain des amis"}}},
			{{"Le Comptoir du Relais", "French Bistro", "Odéon", "$$", []string{"Duck confit", "Croque monsieur"}},
				{"L'As du Fallafel", "Middle Eastern", "Le Marais", "$", []string{"Falafel pita", "Shawarma"}}},
			{{"Le Jules Verne", "Fine Dining", "Eiffel Tower", "$$$$", []string{"Tasting menu", "Soufflé"}},
				{"Bouillon Chartier", "Traditional French", "Grands Boulevards", "$", []string{"Steak frites", "Escargots"}}},
		},
	},
	{
		keywords: []string{"tokyo"},
		image:    "https://images.unsplash.com/photo-1540959733332-eab4deabeeaf?w=800&q=80",
		funFacts: []string{
			"Shibuya Crossing can see more than 2,500 people cross at once.",
			"Tokyo has more Michelin-starred restaurants than any other city.",
		},
		meals: [3][]mealTemplate{
			{{"Tsukiji Outer Market Stalls", "Japanese", "Tsukiji", "$", []string{"Tamagoyaki", "Fresh sushi"}}},
			{{"Ichiran Ramen", "Ramen", "Shibuya", "$", []string{"Tonkotsu ramen"}}},
			{{"Gonpachi", "Izakaya", "Nishi-Azabu", "$$$", []string{"Yakitori", "Soba"}}},
		},
	},
	{
		keywords: []string{"london"},
		image:    "https://images.unsplash.com/photo-1513635269975-59663e0ac1ad?w=800&q=80",
		funFacts: []string{
			"The London Underground is the oldest metro system in the world.",
			"Big Ben is the name of the bell, not the tower.",
		},
		meals: [3][]mealTemplate{
			{{"The Breakfast Club", "British", "Soho", "$$", []string{"Full English", "Pancakes"}}},
			{{"Borough Market Kitchen", "Street Food", "Southwark", "$", []string{"Scotch eggs", "Raclette"}}},
			{{"Dishoom", "Indian", "Covent Garden", "$$", []string{"Black daal", "Bacon naan roll"}}},
		},
	},
	{
		keywords: []string{"new york", "nyc", "manhattan"},
		image:    "https://images.unsplash.com/photo-1496442226666-8d4d0e62e6e9?w=800&q=80",
		funFacts: []string{
			"Central Park is larger than the principality of Monaco.",
			"More than 800 languages are spoken in New York City.",
		},
		meals: [3][]mealTemplate{
			{{"Russ & Daughters", "Jewish Deli", "Lower East Side", "$$", []string{"Bagel and lox"}}},
			{{"Katz's Delicatessen", "Deli", "Lower East Side", "$$", []string{"Pastrami on rye"}}},
			{{"Joe's Pizza", "Pizza", "Greenwich Village", "$", []string{"Classic slice"}}},
		},
	},
	{
		keywords: []string{"rome", "roma"},
		image:    "https://images.unsplash.com/photo-1552832230-c0197dd311b5?w=800&q=80",
		funFacts: []string{
			"Around 3,000 euros are thrown into the Trevi Fountain every day.",
			"Rome has more than 900 churches.",
		},
		meals: [3][]mealTemplate{
			{{"Roscioli Caffè", "Italian", "Campo de' Fiori", "$", []string{"Maritozzo", "Espresso"}}},
			{{"Pizzarium", "Pizza al taglio", "Prati", "$", []string{"Supplì", "Potato pizza"}}},
			{{"Da Enzo al 29", "Roman", "Trastevere", "$$", []string{"Cacio e pepe", "Carbonara"}}},
		},
	},
	{
		keywords: []string{"bali", "ubud"},
		image:    "https://images.unsplash.com/photo-1537996194471-e657df975ab4?w=800&q=80",
		funFacts: []string{
			"Bali has around 20,000 temples.",
			"Balinese rice terraces are irrigated by a cooperative system called subak.",
		},
		meals: [3][]mealTemplate{
			{{"Clear Café", "Healthy", "Ubud", "$", []string{"Smoothie bowls"}}},
			{{"Warung Babi Guling Ibu Oka", "Balinese", "Ubud", "$", []string{"Babi guling"}}},
			{{"Locavore", "Modern Indonesian", "Ubud", "$$$$", []string{"Tasting menu"}}},
		},
	},
	{
		keywords: []string{"barcelona"},
		image:    "https://images.unsplash.com/photo-1583422409516-2895a77efded?w=800&q=80",
		funFacts: []string{
			"The Sagrada Família has been under construction since 1882.",
			"Barcelona's beaches were created for the 1992 Olympics.",
		},
		meals: [3][]mealTemplate{
			{{"Granja M. Viader", "Catalan", "El Raval", "$", []string{"Cacaolat", "Ensaïmada"}}},
			{{"La Boqueria Stalls", "Tapas", "La Rambla", "$$", []string{"Jamón", "Fresh seafood"}}},
			{{"Cervecería Catalana", "Tapas", "Eixample", "$$", []string{"Patatas bravas", "Montaditos"}}},
		},
	},
	{
		keywords: []string{"dubai"},
		image:    "https://images.unsplash.com/photo-1512453979798-5ea266f8880c?w=800&q=80",
		funFacts: []string{
			"The Burj Khalifa is so tall you can watch the sunset twice in one day.",
			"Dubai's police fleet includes supercars.",
		},
		meals: [3][]mealTemplate{
			{{"Arabian Tea House", "Emirati", "Al Fahidi", "$$", []string{"Balaleet", "Karak tea"}}},
			{{"Ravi Restaurant", "Pakistani", "Satwa", "$", []string{"Chicken karahi"}}},
			{{"Al Hadheerah", "Arabic", "Bab Al Shams", "$$$$", []string{"Mixed grill", "Live show"}}},
		},
	},
}

var genericMeals = [3]mealTemplate{
	{"%s Morning Café", "Local", "City Center", "$", []string{"Fresh pastries", "Local coffee"}},
	{"%s Bistro", "Local", "Old Town", "$$", []string{"Daily special", "Seasonal salad"}},
	{"%s Kitchen & Bar", "Regional", "Downtown", "$$$", []string{"Chef's tasting plate", "Regional wine"}},
}

// MealSlot identifies one of the three daily meals.
type MealSlot int

const (
	Breakfast MealSlot = iota
	Lunch
	Dinner
)

func (s MealSlot) String() string {
	switch s {
	case Breakfast:
		return "breakfast"
	case Lunch:
		return "lunch"
	default:
		return "dinner"
	}
}

// FallbackContentLibrary maps titles and destinations onto canned content. Every lookup is
// total: empty or unknown input lands on a universal default.
type FallbackContentLibrary struct {
	rnd RandomSource
}

func NewFallbackContentLibrary(rnd RandomSource) *FallbackContentLibrary {
	if rnd == nil {
		rnd = globalRand{}
	}
	return &FallbackContentLibrary{rnd: rnd}
}

func (l *FallbackContentLibrary) ImageFor(title, location string) string {
	if c, ok := categoryFor(title); ok {
		return c.image
	}
	if c, ok := cityFor(location); ok {
		return c.image
	}
	return defaultImageURL
}

func (l *FallbackContentLibrary) FunFactFor(title, destination string) string {
	if c, ok := categoryFor(title); ok {
		return l.pick(c.funFacts)
	}
	if c, ok := cityFor(destination); ok {
		return l.pick(c.funFacts)
	}
	return l.pick(defaultFunFacts)
}

func (l *FallbackContentLibrary) TipsFor(title string) []string {
	if c, ok := categoryFor(title); ok {
		return append([]string(nil), c.tips...)
	}
	return append([]string(nil), defaultTips...)
}

func (l *FallbackContentLibrary) BudgetRangeFor(title string) string {
	if c, ok := categoryFor(title); ok {
		return c.budget
	}
	return defaultBudgetRange
}

func (l *FallbackContentLibrary) DescriptionFor(title, destination string) string {
	city := request_models.CityOf(destination)
	if c, ok := categoryFor(title); ok {
		return fmt.Sprintf(c.description, city)
	}
	return fmt.Sprintf("Enjoy %s and soak up the atmosphere of %s.", strings.TrimSpace(title), city)
}

// MealFor returns a deterministic suggestion for a slot; variant rotates the pick so
// consecutive days do not repeat the same place when the city has several.
func (l *FallbackContentLibrary) MealFor(slot MealSlot, destination string, variant int, prefs request_models.TripPreferences) response_models.MealSuggestion {
	var tmpl mealTemplate
	if c, ok := cityFor(destination); ok && len(c.meals[slot]) > 0 {
		options := c.meals[slot]
		tmpl = options[positiveMod(variant, len(options))]
	} else {
		tmpl = genericMeals[slot]
		tmpl.name = fmt.Sprintf(tmpl.name, request_models.CityOf(destination))
	}

	meal := response_models.MealSuggestion{
		Name:        tmpl.name,
		Cuisine:     tmpl.cuisine,
		Location:    tmpl.area,
		PriceRange:  tmpl.price,
		Specialties: append([]string(nil), tmpl.specialties...),
	}
	if slot != Breakfast && len(prefs.Cuisines) > 0 && tmpl.cuisine == "Local" {
		meal.Cuisine = prefs.Cuisines[positiveMod(variant, len(prefs.Cuisines))]
	}
	for _, d := range prefs.Dietary {
		meal.Specialties = append(meal.Specialties, d+" options available")
	}
	return meal
}

// TravelTipsFor builds the per-day tips from the party composition and budget.
func (l *FallbackContentLibrary) TravelTipsFor(params request_models.TripParameters) []string {
	tips := []string{fmt.Sprintf("Pick up a transit day pass to get around %s", params.City())}
	if params.WithChildren {
		tips = append(tips, "Plan a mid-afternoon break for the kids")
	}
	if params.WithElderly {
		tips = append(tips, "Prefer step-free routes and book taxis for longer hops")
	}
	switch params.Budget {
	case request_models.BudgetEconomy:
		tips = append(tips, "Look for free museum days and lunch set menus")
	case request_models.BudgetLuxury:
		tips = append(tips, "Ask your hotel concierge for priority reservations")
	}
	return tips
}

func (l *FallbackContentLibrary) pick(options []string) string {
	if len(options) == 0 {
		return defaultFunFacts[0]
	}
	if len(options) == 1 {
		return options[0]
	}
	return options[positiveMod(l.rnd.IntN(len(options)), len(options))]
}

func categoryFor(title string) (contentCategory, bool) {
	words := wordsOf(title)
	if words == "" {
		return contentCategory{}, false
	}
	for _, c := range contentCategories {
		if mentionsAny(words, c.keywords) {
			return c, true
		}
	}
	return contentCategory{}, false
}

func cityFor(location string) (cityContent, bool) {
	words := wordsOf(location)
	if words == "" {
		return cityContent{}, false
	}
	for _, c := range cityContents {
		if mentionsAny(words, c.keywords) {
			return c, true
		}
	}
	return cityContent{}, false
}

// wordsOf lowercases s into single-space separated words with a space at each end, so a
// keyword only ever matches whole words.
func wordsOf(s string) string {
	fields := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	if len(fields) == 0 {
		return ""
	}
	return " " + strings.Join(fields, " ") + " "
}

// mentionsAny also accepts a plain plural, so "gardens" finds "garden".
func mentionsAny(words string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(words, " "+k+" ") || strings.Contains(words, " "+k+"s ") || strings.Contains(words, " "+k+"es ") {
			return true
		}
	}
	return false
}

func positiveMod(a, n int) int {
	if n <= 0 {
		return 0
	}
	m := a % n
	if m < 0 {
		m += n
	}
	return m
}
