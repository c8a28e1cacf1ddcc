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

const (
	defaultTravelTime    = "15 minutes"
	defaultTransportMode = "walking"
)

type ItineraryServiceInterface interface {
	Generate(ctx context.Context, params request_models.TripParameters, prefs request_models.TripPreferences, history []response_models.TripMemory) response_models.Itinerary
}

// ValidatedItinerary can only be built by Validate, so holding one means every day number,
// date, meal slot and activity id has been checked.
type ValidatedItinerary struct {
	days []response_models.DayPlan
}

func (v ValidatedItinerary) Itinerary() response_models.Itinerary {
	return response_models.Itinerary{Days: v.days}.Clone()
}

type ItineraryService struct {
	llm       utils.LLMClientInterface
	mock      *MockItineraryBuilder
	validator *Validator
	logger    *zap.Logger
	timeout   time.Duration
}

func NewItineraryService(
	llm utils.LLMClientInterface,
	library *FallbackContentLibrary,
	logger *zap.Logger,
	timeout time.Duration,
) ItineraryServiceInterface {
	return newItineraryService(llm, library, logger, timeout)
}

func newItineraryService(llm utils.LLMClientInterface, library *FallbackContentLibrary, logger *zap.Logger, timeout time.Duration) *ItineraryService {
	if logger == nil {
		logger = zap.NewNop()
	}
	mock := NewMockItineraryBuilder(library)
	return &ItineraryService{
		llm:       llm,
		mock:      mock,
		validator: NewValidator(library, mock),
		logger:    logger,
		timeout:   timeout,
	}
}

// Generate always returns exactly params.DayCount() days. Any backend or parse failure ends
// in the locally synthesized plan.
func (s *ItineraryService) Generate(ctx context.Context, params request_models.TripParameters, prefs request_models.TripPreferences, history []response_models.TripMemory) response_models.Itinerary {
	if s.llm == nil {
		s.logger.Info("no language model configured, using fallback itinerary",
			zap.String("destination", params.Destination),
			zap.Int("days", params.DayCount()))
		return s.mock.Itinerary(params, prefs)
	}

	reply, err := s.callModel(ctx, utils.LLMRequest{
		SystemPrompt:    systemPrompt(),
		UserPrompt:      buildTripPrompt(params, prefs, history),
		Temperature:     0.7,
		MaxOutputTokens: 8192,
		JSONOnly:        true,
	})
	if err != nil {
		return s.fallback(params, prefs, "model call failed")
	}

	parsed := Parse(reply.Text)
	if !parsed.Usable() {
		return s.fallback(params, prefs, "model reply had no itinerary")
	}

	s.logger.Info("itinerary generated",
		zap.String("provider", reply.Provider),
		zap.String("parse_source", parsed.Source.String()),
		zap.Int("parsed_days", len(parsed.Itinerary)),
		zap.Int("days", params.DayCount()))
	return s.validator.Validate(parsed, params, prefs).Itinerary()
}

func (s *ItineraryService) fallback(params request_models.TripParameters, prefs request_models.TripPreferences, reason string) response_models.Itinerary {
	s.logger.Warn("falling back to local itinerary",
		zap.String("reason", reason),
		zap.String("destination", params.Destination))
	return s.mock.Itinerary(params, prefs)
}

// callModel bounds the call by the configured timeout and logs the outcome. A 429 is kept
// apart from other failures since it proves the credential works.
func (s *ItineraryService) callModel(ctx context.Context, req utils.LLMRequest) (utils.RawModelReply, error) {
	return invokeModel(ctx, s.llm, req, s.timeout, s.logger)
}

func invokeModel(ctx context.Context, llm utils.LLMClientInterface, req utils.LLMRequest, timeout time.Duration, logger *zap.Logger) (utils.RawModelReply, error) {
	if llm == nil {
		return utils.RawModelReply{}, utils.ErrModelUnavailable
	}
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	reply, err := llm.GenerateText(ctx, req)
	if err != nil {
		if utils.IsQuotaError(err) {
			logger.Warn("language model quota exceeded: credential is valid but over quota",
				zap.String("provider", llm.Provider()),
				zap.String("outcome", "quota"),
				zap.Error(err))
		} else {
			logger.Error("language model call failed",
				zap.String("provider", llm.Provider()),
				zap.String("outcome", "error"),
				zap.Error(err))
		}
		return utils.RawModelReply{}, err
	}
	if strings.TrimSpace(reply.Text) == "" {
		logger.Warn("language model returned empty text",
			zap.String("provider", llm.Provider()),
			zap.String("outcome", "empty"))
		return utils.RawModelReply{}, utils.ErrEmptyModelReply
	}

	logger.Debug("language model call succeeded",
		zap.String("provider", reply.Provider),
		zap.String("model", reply.Model),
		zap.Duration("latency", reply.Latency),
		zap.String("outcome", "ok"))
	return reply, nil
}

// Validator converts parsed model output into a ValidatedItinerary.
type Validator struct {
	library *FallbackContentLibrary
	mock    *MockItineraryBuilder
}

func NewValidator(library *FallbackContentLibrary, mock *MockItineraryBuilder) *Validator {
	return &Validator{library: library, mock: mock}
}

// Validate reconciles a parse to exactly params.DayCount() days: missing days come from the
// local plan, extra days are dropped, and day numbers and dates follow params.
func (v *Validator) Validate(parsed *ParsedItinerary, params request_models.TripParameters, prefs request_models.TripPreferences) ValidatedItinerary {
	dayCount := params.DayCount()
	start := params.Start()

	var source []ParsedDay
	if parsed != nil {
		source = parsed.Itinerary
	}

	days := make([]response_models.DayPlan, 0, dayCount)
	for i := 0; i < dayCount; i++ {
		dayNumber := i + 1
		date := utils.DateForDay(start, dayNumber)
		if i >= len(source) {
			days = append(days, v.mock.Day(params, prefs, dayNumber, date))
			continue
		}
		days = append(days, v.day(source[i], dayNumber, date, params.Destination, prefs, func() []response_models.Activity {
			return v.mock.Day(params, prefs, dayNumber, date).Activities
		}))
	}
	return ValidatedItinerary{days: days}
}

// ValidateReplacement accepts a full replacement itinerary of any length. Days are renumbered
// from 1 and dated from start.
func (v *Validator) ValidateReplacement(parsed *ParsedItinerary, start time.Time, destination string) ValidatedItinerary {
	days := make([]response_models.DayPlan, 0, len(parsed.Itinerary))
	for i, pd := range parsed.Itinerary {
		days = append(days, v.day(pd, i+1, utils.DateForDay(start, i+1), destination, request_models.TripPreferences{}, nil))
	}
	return ValidatedItinerary{days: days}
}

// ValidateDay checks a single regenerated day in place of original.
func (v *Validator) ValidateDay(pd ParsedDay, original response_models.DayPlan, params request_models.TripParameters, prefs request_models.TripPreferences) response_models.DayPlan {
	return v.day(pd, original.Day, original.Date, params.Destination, prefs, func() []response_models.Activity {
		return v.mock.AlternativeDay(params, prefs, original).Activities
	})
}

// day normalizes one parsed day. emptyFill supplies activities when the model sent none;
// nil leaves the day empty.
func (v *Validator) day(pd ParsedDay, dayNumber int, date, destination string, prefs request_models.TripPreferences, emptyFill func() []response_models.Activity) response_models.DayPlan {
	plan := response_models.DayPlan{
		Day:        dayNumber,
		Date:       date,
		TravelTips: append([]string(nil), pd.TravelTips...),
	}

	activities := pd.Activities
	if len(activities) == 0 && emptyFill != nil {
		activities = emptyFill()
	}
	plan.Activities = make([]response_models.Activity, 0, len(activities))
	for pos, a := range activities {
		plan.Activities = append(plan.Activities, v.activity(a.Clone(), dayNumber, pos, destination))
	}

	plan.Meals = response_models.MealPlan{
		Breakfast: v.meal(pd.Meals.Breakfast, Breakfast, destination, dayNumber-1, prefs),
		Lunch:     v.meal(pd.Meals.Lunch, Lunch, destination, dayNumber-1, prefs),
		Dinner:    v.meal(pd.Meals.Dinner, Dinner, destination, dayNumber-1, prefs),
	}
	return plan
}

func (v *Validator) activity(a response_models.Activity, dayNumber, pos int, destination string) response_models.Activity {
	a.ID = strconv.Itoa(dayNumber) + "-" + strconv.Itoa(pos+1)
	if strings.TrimSpace(a.Title) == "" {
		a.Title = fmt.Sprintf("Explore %s", request_models.CityOf(destination))
	}
	if a.TravelTime == "" {
		a.TravelTime = defaultTravelTime
	}
	if a.TransportMode == "" {
		a.TransportMode = defaultTransportMode
	}
	if strings.TrimSpace(a.Location) == "" {
		a.Location = destination
	}
	if a.Description == "" {
		a.Description = v.library.DescriptionFor(a.Title, destination)
	}
	if a.FunFact == "" {
		a.FunFact = v.library.FunFactFor(a.Title, destination)
	}
	if len(a.Tips) == 0 {
		a.Tips = v.library.TipsFor(a.Title)
	}
	if a.BudgetRange == "" {
		a.BudgetRange = v.library.BudgetRangeFor(a.Title)
	}
	return a
}

func (v *Validator) meal(m *response_models.MealSuggestion, slot MealSlot, destination string, variant int, prefs request_models.TripPreferences) response_models.MealSuggestion {
	if m == nil || strings.TrimSpace(m.Name) == "" {
		return v.library.MealFor(slot, destination, variant, prefs)
	}
	return m.Clone()
}
