package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"tripcraft/internal/models/request_models"
	"tripcraft/internal/models/response_models"
	"tripcraft/internal/repositories"
	"tripcraft/pkg/utils"
)

const profileKey = "user_profile"

type MemoryServiceInterface interface {
	LoadProfile(ctx context.Context) (response_models.UserProfile, error)
	SaveTrip(ctx context.Context, destination string, prefs request_models.TripPreferences, feedback string, rating int) (response_models.TripMemory, error)
	UpdateFeedback(ctx context.Context, memoryID, feedback string, rating int) (response_models.UserProfile, error)
	UpdatePreferences(ctx context.Context, prefs request_models.TripPreferences) (response_models.UserProfile, error)
	ClearHistory(ctx context.Context) (response_models.UserProfile, error)
	ResetProfile(ctx context.Context) error
	History(ctx context.Context) ([]response_models.TripMemory, error)
	Export(ctx context.Context) ([]byte, error)
	Import(ctx context.Context, blob []byte) bool
}

// MemoryService keeps the single user profile. Each write reloads, edits and stores the
// whole record under one lock.
type MemoryService struct {
	repo   repositories.ProfileRepository
	logger *zap.Logger
	mu     sync.Mutex
	now    func() time.Time
}

func NewMemoryService(repo repositories.ProfileRepository, logger *zap.Logger) MemoryServiceInterface {
	return newMemoryService(repo, logger)
}

func newMemoryService(repo repositories.ProfileRepository, logger *zap.Logger) *MemoryService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MemoryService{repo: repo, logger: logger, now: time.Now}
}

// LoadProfile creates and stores a profile with a fresh id on first use.
func (s *MemoryService) LoadProfile(ctx context.Context) (response_models.UserProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(ctx)
}

func (s *MemoryService) SaveTrip(ctx context.Context, destination string, prefs request_models.TripPreferences, feedback string, rating int) (response_models.TripMemory, error) {
	if err := validateRating(rating); err != nil {
		return response_models.TripMemory{}, err
	}
	if strings.TrimSpace(destination) == "" {
		return response_models.TripMemory{}, fmt.Errorf("destination is required: %w", utils.ErrInvalidInput)
	}

	memory := response_models.TripMemory{
		ID:          uuid.NewString(),
		Destination: strings.TrimSpace(destination),
		Preferences: prefs.Clone(),
		Feedback:    strings.TrimSpace(feedback),
		Rating:      rating,
		CreatedAt:   s.now().UnixMilli(),
	}

	_, err := s.mutate(ctx, func(p *response_models.UserProfile) error {
		p.TravelHistory = append(p.TravelHistory, memory)
		return nil
	})
	if err != nil {
		return response_models.TripMemory{}, err
	}
	return memory, nil
}

func (s *MemoryService) UpdateFeedback(ctx context.Context, memoryID, feedback string, rating int) (response_models.UserProfile, error) {
	if err := validateRating(rating); err != nil {
		return response_models.UserProfile{}, err
	}
	return s.mutate(ctx, func(p *response_models.UserProfile) error {
		for i := range p.TravelHistory {
			if p.TravelHistory[i].ID == memoryID {
				p.TravelHistory[i].Feedback = strings.TrimSpace(feedback)
				p.TravelHistory[i].Rating = rating
				return nil
			}
		}
		return fmt.Errorf("trip memory %s: %w", memoryID, utils.ErrTripMemoryNotFound)
	})
}

func (s *MemoryService) UpdatePreferences(ctx context.Context, prefs request_models.TripPreferences) (response_models.UserProfile, error) {
	return s.mutate(ctx, func(p *response_models.UserProfile) error {
		p.Preferences = prefs.Clone()
		return nil
	})
}

func (s *MemoryService) ClearHistory(ctx context.Context) (response_models.UserProfile, error) {
	return s.mutate(ctx, func(p *response_models.UserProfile) error {
		p.TravelHistory = []response_models.TripMemory{}
		return nil
	})
}

// ResetProfile removes the stored record, readable or not. The next load starts a profile
// with a fresh id.
func (s *MemoryService) ResetProfile(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.repo.Delete(ctx, profileKey); err != nil {
		s.logger.Error("profile reset failed", zap.Error(err))
		return fmt.Errorf("reset profile: %w", utils.ErrDatabaseError)
	}
	s.logger.Info("user profile reset")
	return nil
}

func (s *MemoryService) History(ctx context.Context) ([]response_models.TripMemory, error) {
	profile, err := s.LoadProfile(ctx)
	if err != nil {
		return nil, err
	}
	return profile.TravelHistory, nil
}

func (s *MemoryService) Export(ctx context.Context) ([]byte, error) {
	profile, err := s.LoadProfile(ctx)
	if err != nil {
		return nil, err
	}
	return json.MarshalIndent(profile, "", "  ")
}

// Import replaces the stored profile. It reports false, storing nothing, unless blob has an
// id string, a preferences object, a travelHistory array and an insights object.
func (s *MemoryService) Import(ctx context.Context, blob []byte) bool {
	profile, ok := decodeProfile(blob)
	if !ok {
		s.logger.Warn("profile import rejected")
		return false
	}
	profile.Insights = computeInsights(profile)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.store(ctx, profile); err != nil {
		s.logger.Error("profile import failed", zap.Error(err))
		return false
	}
	return true
}

func decodeProfile(blob []byte) (response_models.UserProfile, bool) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(blob, &fields); err != nil {
		return response_models.UserProfile{}, false
	}
	var id string
	if err := json.Unmarshal(fields["id"], &id); err != nil || fields["id"] == nil || strings.TrimSpace(id) == "" {
		return response_models.UserProfile{}, false
	}
	if !jsonKind(fields["preferences"], '{') || !jsonKind(fields["travelHistory"], '[') || !jsonKind(fields["insights"], '{') {
		return response_models.UserProfile{}, false
	}

	var profile response_models.UserProfile
	if err := json.Unmarshal(blob, &profile); err != nil {
		return response_models.UserProfile{}, false
	}
	for _, m := range profile.TravelHistory {
		if m.ID == "" || validateRating(m.Rating) != nil {
			return response_models.UserProfile{}, false
		}
	}
	return profile, true
}

func jsonKind(raw json.RawMessage, open byte) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) > 0 && raw[0] == open
}

func (s *MemoryService) mutate(ctx context.Context, edit func(*response_models.UserProfile) error) (response_models.UserProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	profile, err := s.load(ctx)
	if err != nil {
		return response_models.UserProfile{}, err
	}
	if err := edit(&profile); err != nil {
		return response_models.UserProfile{}, err
	}
	profile.Insights = computeInsights(profile)
	if err := s.store(ctx, profile); err != nil {
		return response_models.UserProfile{}, err
	}
	return profile, nil
}

func (s *MemoryService) load(ctx context.Context) (response_models.UserProfile, error) {
	blob, err := s.repo.Get(ctx, profileKey)
	if err != nil {
		s.logger.Error("profile load failed", zap.Error(err))
		return response_models.UserProfile{}, fmt.Errorf("load profile: %w", utils.ErrDatabaseError)
	}
	if blob != nil {
		var profile response_models.UserProfile
		if err := json.Unmarshal(blob, &profile); err != nil || profile.ID == "" {
			// the record stays as it is until an import or a reset replaces it
			s.logger.Error("stored profile unreadable", zap.Error(err), zap.Int("bytes", len(blob)))
			return response_models.UserProfile{}, fmt.Errorf("decode stored profile: %w", utils.ErrDatabaseError)
		}
		if profile.TravelHistory == nil {
			profile.TravelHistory = []response_models.TripMemory{}
		}
		return profile, nil
	}

	profile := response_models.UserProfile{
		ID:            uuid.NewString(),
		TravelHistory: []response_models.TripMemory{},
	}
	profile.Insights = computeInsights(profile)
	if err := s.store(ctx, profile); err != nil {
		return response_models.UserProfile{}, err
	}
	s.logger.Info("created user profile", zap.String("profile_id", profile.ID))
	return profile, nil
}

func (s *MemoryService) store(ctx context.Context, profile response_models.UserProfile) error {
	blob, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("encode profile: %w", err)
	}
	if err := s.repo.Put(ctx, profileKey, blob); err != nil {
		s.logger.Error("profile save failed", zap.Error(err))
		return fmt.Errorf("save profile: %w", utils.ErrDatabaseError)
	}
	return nil
}

func validateRating(rating int) error {
	if rating < 1 || rating > 5 {
		return fmt.Errorf("rating %d outside 1-5: %w", rating, utils.ErrInvalidRating)
	}
	return nil
}

// computeInsights derives every insight from scratch. Ties go to whichever value was seen
// first. Trip styles count once per saved trip plus once for the current preferences.
func computeInsights(p response_models.UserProfile) response_models.ProfileInsights {
	insights := response_models.ProfileInsights{
		TotalTrips:      len(p.TravelHistory),
		CommonTripTypes: []string{},
	}

	regions := newTally()
	styles := newTally()
	sum := 0
	for _, m := range p.TravelHistory {
		regions.add(regionOf(m.Destination))
		for _, s := range m.Preferences.TripStyles {
			styles.add(s)
		}
		sum += m.Rating
	}
	for _, s := range p.Preferences.TripStyles {
		styles.add(s)
	}

	if top := regions.top(1); len(top) > 0 {
		insights.FavoriteRegion = top[0]
	}
	if len(p.TravelHistory) > 0 {
		avg := float64(sum) / float64(len(p.TravelHistory))
		insights.AverageRating = math.Round(avg*10) / 10
	}
	insights.CommonTripTypes = append(insights.CommonTripTypes, styles.top(3)...)
	return insights
}

// regionOf is the last comma-separated part of a destination ("Paris, France" is France).
func regionOf(destination string) string {
	parts := strings.Split(destination, ",")
	return strings.TrimSpace(parts[len(parts)-1])
}

type tally struct {
	order  []string
	counts map[string]int
}

func newTally() *tally { return &tally{counts: map[string]int{}} }

func (t *tally) add(v string) {
	v = strings.TrimSpace(v)
	if v == "" {
		return
	}
	if _, ok := t.counts[v]; !ok {
		t.order = append(t.order, v)
	}
	t.counts[v]++
}

func (t *tally) top(n int) []string {
	ranked := append([]string(nil), t.order...)
	sort.SliceStable(ranked, func(i, j int) bool {
		return t.counts[ranked[i]] > t.counts[ranked[j]]
	})
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}
