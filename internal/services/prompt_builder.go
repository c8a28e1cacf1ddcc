package services

import (
	"encoding/json"
	"fmt"
	"strings"

	"tripcraft/internal/models/request_models"
	"tripcraft/internal/models/response_models"
	"tripcraft/pkg/utils"
)

const itinerarySchema = `{
  "itinerary": [
    {
      "day": 1,
      "date": "YYYY-MM-DD",
      "activities": [
        {
          "time": "9:00 AM",
          "title": "Activity name",
          "description": "What to do and why it is worth it",
          "location": "Specific place or address",
          "duration": "2 hours",
          "travelTime": "15 minutes",
          "transportMode": "walking",
          "funFact": "One interesting fact",
          "tips": ["tip 1", "tip 2", "tip 3"],
          "budgetRange": "$20-40 per person"
        }
      ],
      "meals": {
        "breakfast": {"name": "", "cuisine": "", "location": "", "priceRange": "$$", "specialties": [""]},
        "lunch": {"name": "", "cuisine": "", "location": "", "priceRange": "$$", "specialties": [""]},
        "dinner": {"name": "", "cuisine": "", "location": "", "priceRange": "$$", "specialties": [""]}
      },
      "travelTips": ["tip"]
    }
  ]
}`

func systemPrompt() string {
	var prompt strings.Builder
	prompt.WriteString("You are an expert travel planner who writes realistic, well-paced itineraries.\n")
	prompt.WriteString("Always answer with a single JSON object and nothing else, matching this shape:\n")
	prompt.WriteString(itinerarySchema)
	prompt.WriteString("\n\nRules:\n")
	prompt.WriteString("1. Every day has 4 to 5 activities in chronological order.\n")
	prompt.WriteString("2. Every activity has exactly 3 tips and one fun fact.\n")
	prompt.WriteString("3. Every day has breakfast, lunch and dinner with real restaurant names.\n")
	prompt.WriteString("4. Price ranges use $ to $$$$.\n")
	return prompt.String()
}

func buildTripPrompt(params request_models.TripParameters, prefs request_models.TripPreferences, history []response_models.TripMemory) string {
	dayCount := params.DayCount()
	start := params.Start()

	var prompt strings.Builder
	prompt.WriteString(fmt.Sprintf("Create a %d-day itinerary for %s.\n", dayCount, params.Destination))
	prompt.WriteString(fmt.Sprintf("Dates: %s to %s.\n", utils.DateForDay(start, 1), utils.DateForDay(start, dayCount)))
	writeTripDetails(&prompt, params, prefs)

	if len(history) > 0 {
		prompt.WriteString("\nPast trips of this traveller:\n")
		for _, m := range history {
			prompt.WriteString(historyLine(m))
			prompt.WriteString("\n")
		}
		prompt.WriteString("Lean towards what they rated highly and avoid repeating experiences they disliked.\n")
	}

	prompt.WriteString(fmt.Sprintf("\nReturn exactly %d days numbered 1 to %d.\n", dayCount, dayCount))
	return prompt.String()
}

func buildDayPrompt(params request_models.TripParameters, prefs request_models.TripPreferences, original response_models.DayPlan) string {
	var prompt strings.Builder
	prompt.WriteString(fmt.Sprintf("Create an alternative plan for day %d (%s) of a trip to %s.\n", original.Day, original.Date, params.Destination))
	writeTripDetails(&prompt, params, prefs)

	if len(original.Activities) > 0 {
		prompt.WriteString("\nThe traveller wants something different from the current plan:\n")
		for _, a := range original.Activities {
			prompt.WriteString(fmt.Sprintf("- %s %s\n", a.Time, a.Title))
		}
	}
	prompt.WriteString(fmt.Sprintf("\nReturn an itinerary array holding exactly one day with \"day\": %d and \"date\": %q.\n", original.Day, original.Date))
	return prompt.String()
}

func buildUpdatePrompt(itin response_models.Itinerary, instruction string) (string, error) {
	current, err := json.MarshalIndent(itin, "", "  ")
	if err != nil {
		return "", err
	}

	var prompt strings.Builder
	prompt.WriteString("Here is the current itinerary:\n")
	prompt.Write(current)
	prompt.WriteString("\n\nApply this change requested by the traveller:\n")
	prompt.WriteString(strings.TrimSpace(instruction))
	prompt.WriteString("\n\nReturn the complete updated itinerary in the same JSON shape, keeping every day.\n")
	return prompt.String(), nil
}

func writeTripDetails(prompt *strings.Builder, params request_models.TripParameters, prefs request_models.TripPreferences) {
	if params.Budget != "" {
		prompt.WriteString(fmt.Sprintf("Budget: %s.\n", params.Budget))
	}
	if params.TravelGroup != "" {
		prompt.WriteString(fmt.Sprintf("Travelling as: %s.\n", params.TravelGroup))
	}
	if params.WithChildren {
		prompt.WriteString("The group includes children; keep activities family friendly.\n")
	}
	if params.WithElderly {
		prompt.WriteString("The group includes elderly travellers; limit walking and stairs.\n")
	}
	if len(prefs.TripStyles) > 0 {
		prompt.WriteString(fmt.Sprintf("Trip styles: %s.\n", strings.Join(prefs.TripStyles, ", ")))
	}
	if len(prefs.Cuisines) > 0 {
		prompt.WriteString(fmt.Sprintf("Favourite cuisines: %s.\n", strings.Join(prefs.Cuisines, ", ")))
	}
	if len(prefs.Dietary) > 0 {
		prompt.WriteString(fmt.Sprintf("Dietary requirements: %s.\n", strings.Join(prefs.Dietary, ", ")))
	}
}

// historyLine renders "destination: preferences, rating X/5, feedback".
func historyLine(m response_models.TripMemory) string {
	var tags []string
	tags = append(tags, m.Preferences.TripStyles...)
	tags = append(tags, m.Preferences.Cuisines...)
	tags = append(tags, m.Preferences.Dietary...)
	prefs := "no stated preferences"
	if len(tags) > 0 {
		prefs = strings.Join(tags, ", ")
	}
	line := fmt.Sprintf("%s: %s, rating %d/5", m.Destination, prefs, m.Rating)
	if fb := strings.TrimSpace(m.Feedback); fb != "" {
		line += ", " + fb
	}
	return line
}
