package recommend

import (
	"fmt"
	"sort"
	"time"

	"go-dental-analyzer/pkg/models"
)

// Engine generates the deduplicated, priority-ordered recommendation list
// for an analysis. Generation is deterministic: identical inputs (and
// clock month, for the seasonal entry) yield identical lists.
type Engine struct {
	now func() time.Time
}

// NewEngine creates an engine using the wall clock for seasonal entries.
func NewEngine() *Engine {
	return &Engine{now: time.Now}
}

// NewEngineWithClock creates an engine with a fixed clock, for tests.
func NewEngineWithClock(now func() time.Time) *Engine {
	return &Engine{now: now}
}

// Generate merges the condition, severity, color and personalization
// sources in that order, deduplicates by full value equality keeping the
// first-seen instance, and stable-sorts ascending by priority rank so
// relative insertion order survives within a tier.
func (e *Engine) Generate(
	conditions []models.Condition,
	severity models.SeverityLevel,
	color models.ColorAnalysis,
	user *models.UserContext,
) []models.Recommendation {
	candidates := make([]models.Recommendation, 0, 16)

	for _, c := range conditions {
		candidates = append(candidates, conditionRecommendations[c]...)
	}

	if rec, ok := severityRecommendations[severity]; ok {
		candidates = append(candidates, rec)
	}

	if color.Healthiness < 0.5 {
		candidates = append(candidates, colorRecommendation)
	}

	if user != nil {
		candidates = append(candidates, e.personalized(user)...)
	}

	deduped := dedupe(candidates)
	sort.SliceStable(deduped, func(i, j int) bool {
		return deduped[i].Priority < deduped[j].Priority
	})
	return deduped
}

// personalized emits the age, history, trend, seasonal and general-health
// entries, in that order.
func (e *Engine) personalized(user *models.UserContext) []models.Recommendation {
	out := make([]models.Recommendation, 0, 8)

	for _, bracket := range ageBrackets {
		if user.Age >= bracket.min && user.Age <= bracket.max {
			out = append(out, bracket.recommendation)
			break
		}
	}

	out = append(out, fromHistory(user.RecentHistory)...)

	if rec, ok := trendRecommendations[user.HealthTrend]; ok {
		out = append(out, rec)
	}

	out = append(out, seasonRecommendations[seasonOf(e.now().Month())])

	if user.PrefersNaturalProducts {
		out = append(out, naturalProductsRecommendation)
	}

	out = append(out, generalHealthRecommendations...)
	return out
}

// fromHistory inspects the trailing window of the last three results. A
// condition recurring in at least two of them earns an urgent entry; a
// score rise between the two latest results earns positive reinforcement.
// Both can fire together even when they point in different directions;
// the shared dedup/sort layer orders whatever comes out.
func fromHistory(history []models.AnalysisResult) []models.Recommendation {
	if len(history) == 0 {
		return nil
	}

	window := history
	if len(window) > 3 {
		window = window[len(window)-3:]
	}

	counts := make(map[models.Condition]int)
	for _, result := range window {
		for _, c := range result.Conditions {
			counts[c]++
		}
	}

	var out []models.Recommendation
	for _, c := range models.AllConditions {
		if c == models.ConditionHealthy {
			continue
		}
		if counts[c] >= 2 {
			out = append(out, models.Recommendation{
				Title:       fmt.Sprintf("Recurring %s Detected", c.DisplayName()),
				Description: fmt.Sprintf("%s has appeared in multiple recent scans. A professional should investigate the underlying cause.", c.DisplayName()),
				Priority:    models.PriorityUrgent,
				Category:    models.CategoryProfessional,
				ActionItems: []string{
					"Bring your scan history to the appointment",
				},
			})
		}
	}

	if len(history) >= 2 {
		latest := history[len(history)-1]
		previous := history[len(history)-2]
		if latest.OverallHealthScore() > previous.OverallHealthScore() {
			out = append(out, models.Recommendation{
				Title:       "Keep Up the Good Work",
				Description: "Your latest scan scored higher than the one before it. Your routine is paying off.",
				Priority:    models.PriorityGeneral,
				Category:    models.CategoryLifestyle,
				ActionItems: []string{
					"Stick with your current care routine",
				},
			})
		}
	}
	return out
}

// dedupe collapses value-equal recommendations to the first-seen instance.
// It is a no-op on an already-deduplicated list.
func dedupe(recommendations []models.Recommendation) []models.Recommendation {
	out := make([]models.Recommendation, 0, len(recommendations))
	for _, candidate := range recommendations {
		seen := false
		for _, kept := range out {
			if kept.Equal(candidate) {
				seen = true
				break
			}
		}
		if !seen {
			out = append(out, candidate)
		}
	}
	return out
}
