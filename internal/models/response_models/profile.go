package response_models

import (
	"tripcraft/internal/models/request_models"
)

// TripMemory is a saved, rated trip.
type TripMemory struct {
	ID          string                         `json:"id"`
	Destination string                         `json:"destination"`
	Preferences request_models.TripPreferences `json:"preferences"`
	Feedback    string                         `json:"feedback"`
	Rating      int                            `json:"rating"`
	CreatedAt   int64                          `json:"createdAt"`
}

// ProfileInsights is recomputed from scratch whenever the history or preferences change.
type ProfileInsights struct {
	TotalTrips      int      `json:"totalTrips"`
	FavoriteRegion  string   `json:"favoriteRegion"`
	AverageRating   float64  `json:"averageRating"`
	CommonTripTypes []string `json:"commonTripTypes"`
}

type UserProfile struct {
	ID            string                         `json:"id"`
	Preferences   request_models.TripPreferences `json:"preferences"`
	TravelHistory []TripMemory                   `json:"travelHistory"`
	Insights      ProfileInsights                `json:"insights"`
}
