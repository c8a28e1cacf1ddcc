package request_models

import (
	"strings"
	"time"

	"tripcraft/pkg/utils"
)

type BudgetTier string

const (
	BudgetEconomy BudgetTier = "Economy"
	BudgetPremium BudgetTier = "Premium"
	BudgetLuxury  BudgetTier = "Luxury"
)

type TravelGroup string

const (
	GroupSolo    TravelGroup = "Solo"
	GroupCouple  TravelGroup = "Couple"
	GroupFamily  TravelGroup = "Family"
	GroupFriends TravelGroup = "Friends"
)

// TripParameters is what the user filled in on the trip form.
type TripParameters struct {
	Destination  string      `json:"destination"`
	StartDate    string      `json:"startDate"`
	EndDate      string      `json:"endDate"`
	Budget       BudgetTier  `json:"budget" binding:"omitempty,oneof=Economy Premium Luxury"`
	TravelGroup  TravelGroup `json:"travelGroup" binding:"omitempty,oneof=Solo Couple Family Friends"`
	WithChildren bool        `json:"withChildren"`
	WithElderly  bool        `json:"withElderly"`
}

// RequestedDays is the inclusive span the dates ask for, before any clamping.
func (p TripParameters) RequestedDays() int {
	return utils.DayCount(p.StartDate, p.EndDate)
}

// DayCount is never below 1 nor above utils.MaxTripDays.
func (p TripParameters) DayCount() int {
	n := p.RequestedDays()
	if n < 1 {
		return 1
	}
	if n > utils.MaxTripDays {
		return utils.MaxTripDays
	}
	return n
}

// Start falls back to today when the start date cannot be read.
func (p TripParameters) Start() time.Time {
	if t, ok := utils.ParseISODate(p.StartDate); ok {
		return t
	}
	return utils.TodayUTC()
}

// City is the leading part of the destination ("Paris" for "Paris, France").
func (p TripParameters) City() string {
	return CityOf(p.Destination)
}

func CityOf(destination string) string {
	city := strings.TrimSpace(strings.Split(destination, ",")[0])
	if city == "" {
		return "the city"
	}
	return city
}

// TripPreferences holds three tag sets. Order carries no meaning.
type TripPreferences struct {
	TripStyles []string `json:"tripStyles"`
	Cuisines   []string `json:"cuisines"`
	Dietary    []string `json:"dietary"`
}

// HasStyle reports a case-insensitive match of a trip-style tag containing keyword.
func (p TripPreferences) HasStyle(keyword string) bool {
	keyword = strings.ToLower(keyword)
	for _, s := range p.TripStyles {
		if strings.Contains(strings.ToLower(s), keyword) {
			return true
		}
	}
	return false
}

func (p TripPreferences) Clone() TripPreferences {
	return TripPreferences{
		TripStyles: append([]string(nil), p.TripStyles...),
		Cuisines:   append([]string(nil), p.Cuisines...),
		Dietary:    append([]string(nil), p.Dietary...),
	}
}

// ToggleTag adds tag when absent and removes it when present.
func ToggleTag(set []string, tag string) []string {
	out := make([]string, 0, len(set)+1)
	found := false
	for _, s := range set {
		if strings.EqualFold(s, tag) {
			found = true
			continue
		}
		out = append(out, s)
	}
	if !found {
		out = append(out, tag)
	}
	return out
}
