package services

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"

	"tripcraft/internal/models/response_models"
	"tripcraft/pkg/utils"
)

type ParseSource int

const (
	SourceJSON ParseSource = iota
	SourceEmbeddedJSON
	SourceHeuristic
)

func (s ParseSource) String() string {
	switch s {
	case SourceJSON:
		return "json"
	case SourceEmbeddedJSON:
		return "embedded_json"
	default:
		return "heuristic"
	}
}

// ParsedMeals keeps meal slots optional; the generator fills whatever is nil.
type ParsedMeals struct {
	Breakfast *response_models.MealSuggestion `json:"breakfast,omitempty"`
	Lunch     *response_models.MealSuggestion `json:"lunch,omitempty"`
	Dinner    *response_models.MealSuggestion `json:"dinner,omitempty"`
}

func (m *ParsedMeals) slot(s MealSlot) **response_models.MealSuggestion {
	switch s {
	case Breakfast:
		return &m.Breakfast
	case Lunch:
		return &m.Lunch
	default:
		return &m.Dinner
	}
}

func (m ParsedMeals) empty() bool {
	return m.Breakfast == nil && m.Lunch == nil && m.Dinner == nil
}

type ParsedDay struct {
	Day        int                        `json:"day"`
	Date       string                     `json:"date"`
	Activities []response_models.Activity `json:"activities"`
	Meals      ParsedMeals                `json:"meals"`
	TravelTips []string                   `json:"travelTips,omitempty"`
	// Synthesized marks a day whose only activity is the exploration placeholder.
	Synthesized bool `json:"-"`
}

// ParsedItinerary is the loose output of the parser. Ids, defaults, dates and meals may all
// be missing; Validate turns it into an Itinerary.
type ParsedItinerary struct {
	Itinerary []ParsedDay `json:"itinerary"`
	Source    ParseSource `json:"-"`
}

// Usable reports whether the parse found anything worth keeping. A result made only of
// placeholder days carries no model content.
func (p *ParsedItinerary) Usable() bool {
	if p == nil || len(p.Itinerary) == 0 {
		return false
	}
	for _, d := range p.Itinerary {
		if !d.Synthesized || !d.Meals.empty() {
			return true
		}
	}
	return false
}

var (
	dayMarkerAnchored = regexp.MustCompile(`(?im)^[ \t]*day[ \t]*(\d+)\b`)
	dayMarkerLoose    = regexp.MustCompile(`(?i)\bday[ \t]*(\d+)\b`)

	timePattern     = `(?:\d{1,2}(?::\d{2})?[ \t]*(?:[AaPp]\.?[Mm]\.?)|\d{1,2}:\d{2})`
	activityLine    = regexp.MustCompile(`^[ \t]*(` + timePattern + `(?:[ \t]*[-–—][ \t]*` + timePattern + `)?)(?:[ \t]*[-–—:|][ \t]*|[ \t]+)(.+)$`)
	titleSeparators = []string{" - ", " – ", " — ", ": "}

	mealKeywords = []struct {
		slot    MealSlot
		keyword string
	}{
		{Breakfast, "breakfast"},
		{Lunch, "lunch"},
		{Dinner, "dinner"},
	}
	mealNameLead = regexp.MustCompile(`^(?:[ \t]*(?:[-–—:|]|at\b|@))+[ \t]*`)
)

// Parse never fails: it tries strict JSON first, then degrades to scanning prose. Valid JSON
// without an itinerary is never scanned as prose; it yields a single placeholder day.
func Parse(raw string) *ParsedItinerary {
	if p, ok := ParseStrict(raw); ok {
		return p
	}
	text := utils.StripCodeFences(raw)
	if json.Valid([]byte(text)) {
		return placeholderItinerary(SourceJSON)
	}
	if obj, ok := utils.ExtractJSONObject(text); ok && json.Valid([]byte(obj)) {
		text = strings.Replace(text, obj, "", 1)
	}
	return parseHeuristic(text)
}

// ParseStrict accepts only a JSON object carrying an itinerary array, either as the whole
// reply or embedded in prose.
func ParseStrict(raw string) (*ParsedItinerary, bool) {
	text := utils.StripCodeFences(raw)
	if text == "" {
		return nil, false
	}
	if days, ok := decodeItinerary(text); ok {
		return &ParsedItinerary{Itinerary: days, Source: SourceJSON}, true
	}
	if obj, ok := utils.ExtractJSONObject(text); ok {
		if days, ok := decodeItinerary(obj); ok {
			return &ParsedItinerary{Itinerary: days, Source: SourceEmbeddedJSON}, true
		}
	}
	return nil, false
}

// decodeItinerary reads the itinerary array field by field, so one mistyped value (a
// string where a list belongs, a quoted day number) costs only that value.
func decodeItinerary(text string) ([]ParsedDay, bool) {
	var envelope jsonFields
	if err := json.Unmarshal([]byte(text), &envelope); err != nil {
		return nil, false
	}
	var entries []json.RawMessage
	if err := json.Unmarshal(envelope["itinerary"], &entries); err != nil || entries == nil {
		return nil, false
	}
	days := make([]ParsedDay, 0, len(entries))
	for _, entry := range entries {
		if fields, ok := objectOf(entry); ok {
			days = append(days, decodeDay(fields))
		}
	}
	return days, true
}

func decodeDay(f jsonFields) ParsedDay {
	day := ParsedDay{
		Day:        f.number("day"),
		Date:       f.str("date"),
		TravelTips: f.strs("travelTips"),
	}
	if list, ok := f.list("activities"); ok {
		day.Activities = make([]response_models.Activity, 0, len(list))
		for _, raw := range list {
			if a, ok := objectOf(raw); ok {
				day.Activities = append(day.Activities, decodeActivity(a))
			}
		}
	}
	meals, _ := objectOf(f["meals"])
	day.Meals = ParsedMeals{
		Breakfast: decodeMeal(meals["breakfast"]),
		Lunch:     decodeMeal(meals["lunch"]),
		Dinner:    decodeMeal(meals["dinner"]),
	}
	return day
}

func decodeActivity(f jsonFields) response_models.Activity {
	return response_models.Activity{
		ID:                f.str("id"),
		Time:              f.str("time"),
		Title:             f.str("title"),
		Description:       f.str("description"),
		Location:          f.str("location"),
		Duration:          f.str("duration"),
		TravelTime:        f.str("travelTime"),
		TransportMode:     f.str("transportMode"),
		FunFact:           f.str("funFact"),
		Tips:              f.strs("tips"),
		BudgetRange:       f.str("budgetRange"),
		NearbyRestaurants: f.strs("nearbyRestaurants"),
		Transportation:    f.str("transportation"),
		ImageURL:          f.str("imageUrl"),
		Deleted:           f.flag("deleted"),
	}
}

// decodeMeal accepts a full suggestion object or a bare restaurant name.
func decodeMeal(raw json.RawMessage) *response_models.MealSuggestion {
	if f, ok := objectOf(raw); ok {
		return &response_models.MealSuggestion{
			Name:        f.str("name"),
			Cuisine:     f.str("cuisine"),
			Location:    f.str("location"),
			PriceRange:  f.str("priceRange"),
			Specialties: f.strs("specialties"),
		}
	}
	if name := strings.TrimSpace(scalarString(raw)); name != "" {
		return &response_models.MealSuggestion{Name: name}
	}
	return nil
}

func placeholderItinerary(source ParseSource) *ParsedItinerary {
	return &ParsedItinerary{
		Source: source,
		Itinerary: []ParsedDay{{
			Day:         1,
			Activities:  []response_models.Activity{explorationActivity(1)},
			Synthesized: true,
		}},
	}
}

type jsonFields map[string]json.RawMessage

var firstNumber = regexp.MustCompile(`\d+`)

func objectOf(raw json.RawMessage) (jsonFields, bool) {
	var f jsonFields
	if len(raw) == 0 || json.Unmarshal(raw, &f) != nil || f == nil {
		return nil, false
	}
	return f, true
}

func (f jsonFields) str(key string) string {
	return scalarString(f[key])
}

// strs takes a list of scalars or a single string.
func (f jsonFields) strs(key string) []string {
	raw, ok := f[key]
	if !ok {
		return nil
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		if s := strings.TrimSpace(scalarString(raw)); s != "" {
			return []string{s}
		}
		return nil
	}
	if items == nil {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s := scalarString(item); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// number reads 2, 2.0, "2" and "Day 2" alike; anything else is 0.
func (f jsonFields) number(key string) int {
	raw, ok := f[key]
	if !ok {
		return 0
	}
	var n float64
	if err := json.Unmarshal(raw, &n); err == nil {
		return int(n)
	}
	if m := firstNumber.FindString(scalarString(raw)); m != "" {
		v, _ := strconv.Atoi(m)
		return v
	}
	return 0
}

func (f jsonFields) flag(key string) bool {
	var b bool
	if err := json.Unmarshal(f[key], &b); err == nil {
		return b
	}
	v, _ := strconv.ParseBool(strings.TrimSpace(scalarString(f[key])))
	return v
}

func (f jsonFields) list(key string) ([]json.RawMessage, bool) {
	var items []json.RawMessage
	if err := json.Unmarshal(f[key], &items); err != nil || items == nil {
		return nil, false
	}
	return items, true
}

// scalarString renders a JSON string, number or bool as text. Objects, arrays and null give "".
func scalarString(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String()
	}
	var b bool
	if err := json.Unmarshal(raw, &b); err == nil {
		return strconv.FormatBool(b)
	}
	return ""
}

type dayChunk struct {
	number int
	body   string
}

func parseHeuristic(raw string) *ParsedItinerary {
	text := utils.StripMarkdown(utils.StripCodeFences(raw))

	out := &ParsedItinerary{Source: SourceHeuristic}
	for i, chunk := range splitDays(text) {
		day := ParsedDay{Day: chunk.number}
		if day.Day <= 0 {
			day.Day = i + 1
		}
		day.Activities = scanActivities(chunk.body, day.Day)
		day.Meals = scanMeals(chunk.body)
		if len(day.Activities) == 0 {
			day.Activities = []response_models.Activity{explorationActivity(day.Day)}
			day.Synthesized = true
		}
		out.Itinerary = append(out.Itinerary, day)
	}
	return out
}

func splitDays(text string) []dayChunk {
	locs := dayMarkerAnchored.FindAllStringSubmatchIndex(text, -1)
	if len(locs) == 0 {
		locs = dayMarkerLoose.FindAllStringSubmatchIndex(text, -1)
	}
	if len(locs) == 0 {
		return []dayChunk{{number: 1, body: text}}
	}

	chunks := make([]dayChunk, 0, len(locs))
	for i, loc := range locs {
		end := len(text)
		if i+1 < len(locs) {
			end = locs[i+1][0]
		}
		n, _ := strconv.Atoi(text[loc[2]:loc[3]])
		chunks = append(chunks, dayChunk{number: n, body: text[loc[1]:end]})
	}
	return chunks
}

func scanActivities(body string, day int) []response_models.Activity {
	var acts []response_models.Activity
	for _, line := range strings.Split(body, "\n") {
		m := activityLine.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		text := strings.TrimSpace(m[2])
		if text == "" {
			continue
		}
		title, desc := splitTitle(text)
		acts = append(acts, response_models.Activity{
			ID:          strconv.Itoa(day) + "-" + strconv.Itoa(len(acts)+1),
			Time:        strings.TrimSpace(m[1]),
			Title:       title,
			Description: desc,
		})
	}
	return acts
}

func splitTitle(text string) (string, string) {
	best := -1
	sepLen := 0
	for _, sep := range titleSeparators {
		if i := strings.Index(text, sep); i > 0 && (best == -1 || i < best) {
			best, sepLen = i, len(sep)
		}
	}
	if best == -1 {
		return text, text
	}
	title := strings.TrimSpace(text[:best])
	desc := strings.TrimSpace(text[best+sepLen:])
	if desc == "" {
		desc = title
	}
	return title, desc
}

func scanMeals(body string) ParsedMeals {
	var meals ParsedMeals
	for _, line := range strings.Split(body, "\n") {
		lower := strings.ToLower(line)
		found, at, end := MealSlot(-1), -1, 0
		for _, mk := range mealKeywords {
			if idx := strings.Index(lower, mk.keyword); idx != -1 && (at == -1 || idx < at) {
				found, at, end = mk.slot, idx, idx+len(mk.keyword)
			}
		}
		if at == -1 {
			continue
		}
		if end > len(line) {
			end = len(line)
		}
		slot := meals.slot(found)
		if *slot == nil {
			if name := mealName(line[end:]); name != "" {
				*slot = &response_models.MealSuggestion{Name: name}
			}
		}
	}
	return meals
}

func mealName(rest string) string {
	rest = mealNameLead.ReplaceAllString(rest, "")
	if i := strings.IndexAny(rest, "(\n"); i >= 0 {
		rest = rest[:i]
	}
	for _, sep := range titleSeparators {
		if i := strings.Index(rest, sep); i > 0 {
			rest = rest[:i]
		}
	}
	return strings.Trim(strings.TrimSpace(rest), ".,;")
}

func explorationActivity(day int) response_models.Activity {
	return response_models.Activity{
		ID:          strconv.Itoa(day) + "-1",
		Time:        "10:00 AM",
		Title:       "Destination exploration",
		Description: "Explore the neighbourhood at your own pace and discover local highlights.",
		Duration:    "3 hours",
	}
}
