package recommend

import (
	"testing"
	"time"

	"go-dental-analyzer/pkg/models"
)

func julyClock() func() time.Time {
	return func() time.Time {
		return time.Date(2025, time.July, 15, 10, 0, 0, 0, time.UTC)
	}
}

func TestGenerate_CavityTable(t *testing.T) {
	engine := NewEngine()

	recs := engine.Generate(
		[]models.Condition{models.ConditionCavity},
		models.SeverityHigh,
		models.ColorAnalysis{DominantColor: models.ColorWhite, Healthiness: 0.9},
		nil,
	)

	if !hasTitle(recs, "Schedule Dental Appointment") {
		t.Errorf("Expected the cavity appointment entry, got %v", titles(recs))
	}
	if !hasTitle(recs, "Improve Oral Hygiene") {
		t.Errorf("Expected the cavity hygiene entry, got %v", titles(recs))
	}
	if !hasTitle(recs, "Seek Prompt Professional Care") {
		t.Errorf("Expected the high-severity entry, got %v", titles(recs))
	}
}

func TestGenerate_SortedByPriority(t *testing.T) {
	engine := NewEngine()

	recs := engine.Generate(
		[]models.Condition{models.ConditionCavity, models.ConditionDiscoloration, models.ConditionMisaligned},
		models.SeverityHigh,
		models.ColorAnalysis{DominantColor: models.ColorBrown, Healthiness: 0.3},
		nil,
	)

	for i := 1; i < len(recs); i++ {
		if recs[i-1].Priority > recs[i].Priority {
			t.Fatalf("Expected non-decreasing priority, got %s before %s",
				recs[i-1].Priority, recs[i].Priority)
		}
	}
}

func TestGenerate_ColorRuleFiresBelowHalf(t *testing.T) {
	engine := NewEngine()

	recs := engine.Generate(
		[]models.Condition{models.ConditionHealthy},
		models.SeverityNone,
		models.ColorAnalysis{DominantColor: models.ColorDarkYellow, Healthiness: 0.45},
		nil,
	)
	if !hasTitle(recs, colorRecommendation.Title) {
		t.Errorf("Expected the color hygiene entry below 0.5 healthiness, got %v", titles(recs))
	}

	recs = engine.Generate(
		[]models.Condition{models.ConditionHealthy},
		models.SeverityNone,
		models.ColorAnalysis{DominantColor: models.ColorOffWhite, Healthiness: 0.85},
		nil,
	)
	if hasTitle(recs, colorRecommendation.Title) {
		t.Errorf("Expected no color entry at 0.85 healthiness, got %v", titles(recs))
	}
}

func TestGenerate_DeduplicatesKeepingFirst(t *testing.T) {
	engine := NewEngine()

	// Cavity's second entry and the color rule produce different
	// "Improve Oral Hygiene" values; only true value-equal duplicates
	// collapse, so generate the same condition twice instead.
	recs := engine.Generate(
		[]models.Condition{models.ConditionCavity, models.ConditionCavity},
		models.SeverityHigh,
		models.ColorAnalysis{DominantColor: models.ColorWhite, Healthiness: 0.9},
		nil,
	)

	count := 0
	for _, r := range recs {
		if r.Title == "Schedule Dental Appointment" {
			count++
		}
	}
	if count != 1 {
		t.Errorf("Expected duplicate condition entries collapsed to one, got %d", count)
	}
}

func TestGenerate_DedupIsIdempotent(t *testing.T) {
	engine := NewEngine()

	args := func() []models.Recommendation {
		return engine.Generate(
			[]models.Condition{models.ConditionGingivitis, models.ConditionPlaque},
			models.SeverityMedium,
			models.ColorAnalysis{DominantColor: models.ColorYellow, Healthiness: 0.55},
			nil,
		)
	}

	first := args()
	second := args()
	if len(first) != len(second) {
		t.Fatalf("Expected deterministic output, got %d then %d entries", len(first), len(second))
	}
	for i := range first {
		if !first[i].Equal(second[i]) {
			t.Errorf("Expected identical output at index %d", i)
		}
	}
}

func TestGenerate_NoUserContextNoPersonalization(t *testing.T) {
	engine := NewEngine()

	recs := engine.Generate(
		nil,
		models.SeverityNone,
		models.ColorAnalysis{DominantColor: models.ColorWhite, Healthiness: 0.9},
		nil,
	)

	if len(recs) != 0 {
		t.Errorf("Expected empty output with no conditions and no context, got %v", titles(recs))
	}
}

func TestGenerate_AgeBracket(t *testing.T) {
	engine := NewEngineWithClock(julyClock())

	recs := engine.Generate(
		[]models.Condition{models.ConditionHealthy},
		models.SeverityNone,
		models.ColorAnalysis{DominantColor: models.ColorWhite, Healthiness: 0.9},
		&models.UserContext{Age: 8},
	)

	if !hasTitle(recs, "Children's Dental Care") {
		t.Errorf("Expected the children's bracket for age 8, got %v", titles(recs))
	}
	if hasTitle(recs, "Teen Dental Care") {
		t.Error("Expected exactly one age bracket to fire")
	}
}

func TestGenerate_SeasonalEntryFollowsClock(t *testing.T) {
	engine := NewEngineWithClock(julyClock())

	recs := engine.Generate(
		[]models.Condition{models.ConditionHealthy},
		models.SeverityNone,
		models.ColorAnalysis{DominantColor: models.ColorWhite, Healthiness: 0.9},
		&models.UserContext{Age: 30},
	)

	if !hasTitle(recs, "Summer Dental Care") {
		t.Errorf("Expected the summer entry in July, got %v", titles(recs))
	}

	winter := NewEngineWithClock(func() time.Time {
		return time.Date(2025, time.January, 5, 10, 0, 0, 0, time.UTC)
	})
	recs = winter.Generate(
		[]models.Condition{models.ConditionHealthy},
		models.SeverityNone,
		models.ColorAnalysis{DominantColor: models.ColorWhite, Healthiness: 0.9},
		&models.UserContext{Age: 30},
	)
	if !hasTitle(recs, "Winter Dental Care") {
		t.Errorf("Expected the winter entry in January, got %v", titles(recs))
	}
}

func TestGenerate_GeneralEntriesAlwaysPresentWithContext(t *testing.T) {
	engine := NewEngineWithClock(julyClock())

	recs := engine.Generate(
		[]models.Condition{models.ConditionHealthy},
		models.SeverityNone,
		models.ColorAnalysis{DominantColor: models.ColorWhite, Healthiness: 0.9},
		&models.UserContext{Age: 30},
	)

	if !hasTitle(recs, "Diet and Dental Health") {
		t.Errorf("Expected the diet entry with user context, got %v", titles(recs))
	}
	if !hasTitle(recs, "Be Prepared for Emergencies") {
		t.Errorf("Expected the emergency-prep entry with user context, got %v", titles(recs))
	}
}

func TestGenerate_NaturalProductsPreference(t *testing.T) {
	engine := NewEngineWithClock(julyClock())

	recs := engine.Generate(
		[]models.Condition{models.ConditionHealthy},
		models.SeverityNone,
		models.ColorAnalysis{DominantColor: models.ColorWhite, Healthiness: 0.9},
		&models.UserContext{Age: 30, PrefersNaturalProducts: true},
	)
	if !hasTitle(recs, "Natural Care Options") {
		t.Errorf("Expected the natural-products entry, got %v", titles(recs))
	}
}

func TestFromHistory_RecurringCondition(t *testing.T) {
	history := []models.AnalysisResult{
		{Conditions: []models.Condition{models.ConditionGingivitis}},
		{Conditions: []models.Condition{models.ConditionGingivitis, models.ConditionPlaque}},
		{Conditions: []models.Condition{models.ConditionPlaque}},
	}

	recs := fromHistory(history)

	if !hasTitle(recs, "Recurring Gingivitis Detected") {
		t.Errorf("Expected a recurring gingivitis entry, got %v", titles(recs))
	}
	if !hasTitle(recs, "Recurring Plaque Buildup Detected") {
		t.Errorf("Expected a recurring plaque entry, got %v", titles(recs))
	}
}

func TestFromHistory_WindowIsLastThree(t *testing.T) {
	// Gingivitis appears twice, but only once inside the trailing window.
	history := []models.AnalysisResult{
		{Conditions: []models.Condition{models.ConditionGingivitis}},
		{Conditions: []models.Condition{models.ConditionHealthy}},
		{Conditions: []models.Condition{models.ConditionHealthy}},
		{Conditions: []models.Condition{models.ConditionGingivitis}},
	}

	recs := fromHistory(history)

	if hasTitle(recs, "Recurring Gingivitis Detected") {
		t.Errorf("Expected results outside the three-scan window ignored, got %v", titles(recs))
	}
}

func TestFromHistory_HealthyNeverRecurs(t *testing.T) {
	history := []models.AnalysisResult{
		{Conditions: []models.Condition{models.ConditionHealthy}},
		{Conditions: []models.Condition{models.ConditionHealthy}},
	}

	for _, rec := range fromHistory(history) {
		if rec.Title == "Recurring Healthy Detected" {
			t.Error("Healthy must not trigger a recurrence entry")
		}
	}
}

func TestFromHistory_ScoreImprovementPraise(t *testing.T) {
	history := []models.AnalysisResult{
		{Conditions: []models.Condition{models.ConditionCavity}},
		{Conditions: []models.Condition{models.ConditionPlaque}},
	}

	recs := fromHistory(history)

	if !hasTitle(recs, "Keep Up the Good Work") {
		t.Errorf("Expected praise for a rising score, got %v", titles(recs))
	}
}

func TestFromHistory_NoPraiseForDecline(t *testing.T) {
	history := []models.AnalysisResult{
		{Conditions: []models.Condition{models.ConditionHealthy}},
		{Conditions: []models.Condition{models.ConditionCavity}},
	}

	if hasTitle(fromHistory(history), "Keep Up the Good Work") {
		t.Error("Expected no praise when the latest score dropped")
	}
}

func TestSeasonOf(t *testing.T) {
	cases := []struct {
		month time.Month
		want  season
	}{
		{time.December, seasonWinter},
		{time.February, seasonWinter},
		{time.April, seasonSpring},
		{time.August, seasonSummer},
		{time.October, seasonAutumn},
	}
	for _, tc := range cases {
		if got := seasonOf(tc.month); got != tc.want {
			t.Errorf("Expected %s for %s, got %s", tc.want, tc.month, got)
		}
	}
}

func hasTitle(recs []models.Recommendation, title string) bool {
	for _, r := range recs {
		if r.Title == title {
			return true
		}
	}
	return false
}

func titles(recs []models.Recommendation) []string {
	out := make([]string, 0, len(recs))
	for _, r := range recs {
		out = append(out, r.Title)
	}
	return out
}
