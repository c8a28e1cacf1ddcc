package services

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"tripcraft/internal/models/request_models"
	"tripcraft/internal/models/response_models"
	"tripcraft/pkg/utils"
)

// ActivityPatch carries the fields to overwrite; nil means keep.
type ActivityPatch struct {
	Time          *string   `json:"time"`
	Title         *string   `json:"title"`
	Description   *string   `json:"description"`
	Location      *string   `json:"location"`
	Duration      *string   `json:"duration"`
	TravelTime    *string   `json:"travelTime"`
	TransportMode *string   `json:"transportMode"`
	FunFact       *string   `json:"funFact"`
	Tips          *[]string `json:"tips"`
	BudgetRange   *string   `json:"budgetRange"`
}

type ItineraryMutatorInterface interface {
	RegenerateDay(ctx context.Context, itin response_models.Itinerary, dayNumber int, params request_models.TripParameters, prefs request_models.TripPreferences) (response_models.Itinerary, error)
	ApplyFreeTextUpdate(ctx context.Context, itin response_models.Itinerary, instruction string) (response_models.Itinerary, bool)
	DeleteActivity(itin response_models.Itinerary, dayNumber int, activityID string) (response_models.Itinerary, error)
	UpdateActivity(itin response_models.Itinerary, dayNumber int, activityID string, patch ActivityPatch) (response_models.Itinerary, error)
	AddActivity(itin response_models.Itinerary, dayNumber int, activity response_models.Activity) (response_models.Itinerary, error)
	SoftDeleteActivity(itin response_models.Itinerary, dayNumber int, activityID string) (response_models.Itinerary, error)
}

// ItineraryMutator never touches the Itinerary it is given; every operation works on a clone.
type ItineraryMutator struct {
	llm       utils.LLMClientInterface
	mock      *MockItineraryBuilder
	validator *Validator
	library   *FallbackContentLibrary
	logger    *zap.Logger
	timeout   time.Duration
	now       func() time.Time
}

func NewItineraryMutator(
	llm utils.LLMClientInterface,
	library *FallbackContentLibrary,
	logger *zap.Logger,
	timeout time.Duration,
) ItineraryMutatorInterface {
	return newItineraryMutator(llm, library, logger, timeout)
}

func newItineraryMutator(llm utils.LLMClientInterface, library *FallbackContentLibrary, logger *zap.Logger, timeout time.Duration) *ItineraryMutator {
	if logger == nil {
		logger = zap.NewNop()
	}
	mock := NewMockItineraryBuilder(library)
	return &ItineraryMutator{
		llm:       llm,
		mock:      mock,
		validator: NewValidator(library, mock),
		library:   library,
		logger:    logger,
		timeout:   timeout,
		now:       time.Now,
	}
}

// RegenerateDay swaps the activities and meals of one day. When the model is unavailable or
// its reply is unusable, a local alternative day is used so the day always changes.
func (m *ItineraryMutator) RegenerateDay(ctx context.Context, itin response_models.Itinerary, dayNumber int, params request_models.TripParameters, prefs request_models.TripPreferences) (response_models.Itinerary, error) {
	idx := itin.Day(dayNumber)
	if idx == -1 {
		return itin.Clone(), fmt.Errorf("day %d: %w", dayNumber, utils.ErrDayNotFound)
	}

	out := itin.Clone()
	original := out.Days[idx]

	replacement, ok := m.regenerateWithModel(ctx, original, params, prefs)
	if !ok {
		replacement = m.mock.AlternativeDay(params, prefs, original)
	}

	out.Days[idx].Activities = replacement.Activities
	out.Days[idx].Meals = replacement.Meals
	if len(replacement.TravelTips) > 0 {
		out.Days[idx].TravelTips = replacement.TravelTips
	}
	return out, nil
}

func (m *ItineraryMutator) regenerateWithModel(ctx context.Context, original response_models.DayPlan, params request_models.TripParameters, prefs request_models.TripPreferences) (response_models.DayPlan, bool) {
	if m.llm == nil {
		return response_models.DayPlan{}, false
	}
	reply, err := invokeModel(ctx, m.llm, utils.LLMRequest{
		SystemPrompt:    systemPrompt(),
		UserPrompt:      buildDayPrompt(params, prefs, original),
		Temperature:     0.9,
		MaxOutputTokens: 4096,
		JSONOnly:        true,
	}, m.timeout, m.logger)
	if err != nil {
		return response_models.DayPlan{}, false
	}

	parsed := Parse(reply.Text)
	if !parsed.Usable() {
		m.logger.Warn("regenerated day reply unusable", zap.Int("day", original.Day))
		return response_models.DayPlan{}, false
	}
	pd := parsed.Itinerary[0]
	for _, candidate := range parsed.Itinerary {
		if candidate.Day == original.Day {
			pd = candidate
			break
		}
	}
	return m.validator.ValidateDay(pd, original, params, prefs), true
}

// ApplyFreeTextUpdate is all or nothing: applied is false and the result deep-equals itin
// whenever the model fails or its reply lacks an itinerary array.
func (m *ItineraryMutator) ApplyFreeTextUpdate(ctx context.Context, itin response_models.Itinerary, instruction string) (response_models.Itinerary, bool) {
	if m.llm == nil || strings.TrimSpace(instruction) == "" {
		return itin.Clone(), false
	}

	userPrompt, err := buildUpdatePrompt(itin, instruction)
	if err != nil {
		m.logger.Error("failed to encode itinerary for update", zap.Error(err))
		return itin.Clone(), false
	}

	reply, err := invokeModel(ctx, m.llm, utils.LLMRequest{
		SystemPrompt:    systemPrompt(),
		UserPrompt:      userPrompt,
		Temperature:     0.4,
		MaxOutputTokens: 8192,
		JSONOnly:        true,
	}, m.timeout, m.logger)
	if err != nil {
		return itin.Clone(), false
	}

	parsed, ok := ParseStrict(reply.Text)
	if !ok || len(parsed.Itinerary) == 0 {
		m.logger.Warn("update reply rejected", zap.String("reason", "no itinerary array"))
		return itin.Clone(), false
	}

	start := utils.TodayUTC()
	if len(itin.Days) > 0 {
		if t, ok := utils.ParseISODate(itin.Days[0].Date); ok {
			start = t
		}
	}
	return m.validator.ValidateReplacement(parsed, start, destinationOf(itin)).Itinerary(), true
}

// DeleteActivity removes one activity. Remaining ids are rebuilt from their positions; an
// empty day is valid.
func (m *ItineraryMutator) DeleteActivity(itin response_models.Itinerary, dayNumber int, activityID string) (response_models.Itinerary, error) {
	out, idx, pos, err := locate(itin, dayNumber, activityID)
	if err != nil {
		return itin.Clone(), err
	}
	day := &out.Days[idx]
	day.Activities = append(day.Activities[:pos], day.Activities[pos+1:]...)
	for i := range day.Activities {
		day.Activities[i].ID = strconv.Itoa(day.Day) + "-" + strconv.Itoa(i+1)
	}
	return out, nil
}

func (m *ItineraryMutator) UpdateActivity(itin response_models.Itinerary, dayNumber int, activityID string, patch ActivityPatch) (response_models.Itinerary, error) {
	out, idx, pos, err := locate(itin, dayNumber, activityID)
	if err != nil {
		return itin.Clone(), err
	}
	a := &out.Days[idx].Activities[pos]
	setIf(&a.Time, patch.Time)
	setIf(&a.Title, patch.Title)
	setIf(&a.Description, patch.Description)
	setIf(&a.Location, patch.Location)
	setIf(&a.Duration, patch.Duration)
	setIf(&a.TravelTime, patch.TravelTime)
	setIf(&a.TransportMode, patch.TransportMode)
	setIf(&a.FunFact, patch.FunFact)
	setIf(&a.BudgetRange, patch.BudgetRange)
	if patch.Tips != nil {
		a.Tips = append([]string(nil), (*patch.Tips)...)
	}
	return out, nil
}

// AddActivity appends to the day. The new id is "{day}-{unix millis}", bumped until unique.
func (m *ItineraryMutator) AddActivity(itin response_models.Itinerary, dayNumber int, activity response_models.Activity) (response_models.Itinerary, error) {
	idx := itin.Day(dayNumber)
	if idx == -1 {
		return itin.Clone(), fmt.Errorf("day %d: %w", dayNumber, utils.ErrDayNotFound)
	}
	if strings.TrimSpace(activity.Title) == "" {
		return itin.Clone(), fmt.Errorf("activity title is required: %w", utils.ErrInvalidInput)
	}

	out := itin.Clone()
	day := &out.Days[idx]
	taken := make(map[string]bool, len(day.Activities))
	for _, a := range day.Activities {
		taken[a.ID] = true
	}
	stamp := m.now().UnixMilli()
	id := strconv.Itoa(day.Day) + "-" + strconv.FormatInt(stamp, 10)
	for taken[id] {
		stamp++
		id = strconv.Itoa(day.Day) + "-" + strconv.FormatInt(stamp, 10)
	}

	added := activity.Clone()
	added.ID = id
	added.Deleted = false
	if added.Description == "" {
		added.Description = added.Title
	}
	if added.TravelTime == "" {
		added.TravelTime = defaultTravelTime
	}
	if added.TransportMode == "" {
		added.TransportMode = defaultTransportMode
	}
	if added.ImageURL == "" {
		added.ImageURL = m.library.ImageFor(added.Title, added.Location)
	}
	day.Activities = append(day.Activities, added)
	return out, nil
}

// SoftDeleteActivity toggles the Deleted flag, keeping the activity in place.
func (m *ItineraryMutator) SoftDeleteActivity(itin response_models.Itinerary, dayNumber int, activityID string) (response_models.Itinerary, error) {
	out, idx, pos, err := locate(itin, dayNumber, activityID)
	if err != nil {
		return itin.Clone(), err
	}
	a := &out.Days[idx].Activities[pos]
	a.Deleted = !a.Deleted
	return out, nil
}

func locate(itin response_models.Itinerary, dayNumber int, activityID string) (response_models.Itinerary, int, int, error) {
	idx := itin.Day(dayNumber)
	if idx == -1 {
		return response_models.Itinerary{}, -1, -1, fmt.Errorf("day %d: %w", dayNumber, utils.ErrDayNotFound)
	}
	for pos, a := range itin.Days[idx].Activities {
		if a.ID == activityID {
			return itin.Clone(), idx, pos, nil
		}
	}
	return response_models.Itinerary{}, -1, -1, fmt.Errorf("activity %q on day %d: %w", activityID, dayNumber, utils.ErrActivityNotFound)
}

func setIf(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

func destinationOf(itin response_models.Itinerary) string {
	for _, d := range itin.Days {
		for _, a := range d.Activities {
			if strings.TrimSpace(a.Location) != "" {
				return a.Location
			}
		}
	}
	return ""
}
