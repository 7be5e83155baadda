package recommend

import (
	"time"

	"go-dental-analyzer/pkg/models"
)

// conditionRecommendations is the fixed per-condition table. Entries are
// appended in slice order, which the stable sort preserves within a
// priority tier.
var conditionRecommendations = map[models.Condition][]models.Recommendation{
	models.ConditionCavity: {
		{
			Title:       "Schedule Dental Appointment",
			Description: "Signs consistent with a cavity were detected. A dentist should examine the tooth before the decay spreads.",
			Priority:    models.PriorityImmediate,
			Category:    models.CategoryProfessional,
			ActionItems: []string{
				"Book a dental exam within the next week",
				"Avoid sugary foods and drinks until seen",
				"Use a fluoride toothpaste twice daily",
			},
		},
		{
			Title:       "Improve Oral Hygiene",
			Description: "Consistent brushing and flossing slows decay and protects the surrounding teeth.",
			Priority:    models.PriorityUrgent,
			Category:    models.CategoryHomeCare,
			ActionItems: []string{
				"Brush for two minutes, twice a day",
				"Floss between all teeth daily",
			},
		},
	},
	models.ConditionGingivitis: {
		{
			Title:       "Address Gum Inflammation",
			Description: "Inflamed gums respond well to early treatment. A dental cleaning removes the irritants below the gum line.",
			Priority:    models.PriorityUrgent,
			Category:    models.CategoryProfessional,
			ActionItems: []string{
				"Schedule a professional cleaning",
				"Mention bleeding or tender gums to your dentist",
			},
		},
		{
			Title:       "Gentle Gum Care Routine",
			Description: "A soft-bristled brush and daily flossing reduce gum inflammation at home.",
			Priority:    models.PriorityImportant,
			Category:    models.CategoryHomeCare,
			ActionItems: []string{
				"Switch to a soft-bristled toothbrush",
				"Rinse with an antiseptic mouthwash once daily",
			},
		},
	},
	models.ConditionDiscoloration: {
		{
			Title:       "Consider Whitening Options",
			Description: "Surface staining can usually be lifted with whitening products or a professional treatment.",
			Priority:    models.PriorityImportant,
			Category:    models.CategoryProducts,
			ActionItems: []string{
				"Try a whitening toothpaste for two to four weeks",
				"Ask your dentist about in-office whitening",
			},
		},
		{
			Title:       "Reduce Staining Habits",
			Description: "Coffee, tea, red wine and tobacco are the most common causes of staining.",
			Priority:    models.PriorityGeneral,
			Category:    models.CategoryLifestyle,
			ActionItems: []string{
				"Rinse with water after staining drinks",
				"Cut back on tobacco use",
			},
		},
	},
	models.ConditionPlaque: {
		{
			Title:       "Strengthen Brushing Technique",
			Description: "Visible plaque means brushing is missing spots. Small circular strokes along the gum line work best.",
			Priority:    models.PriorityImportant,
			Category:    models.CategoryHomeCare,
			ActionItems: []string{
				"Brush at a 45-degree angle to the gums",
				"Don't skip the inner tooth surfaces",
			},
		},
		{
			Title:       "Use Antiplaque Products",
			Description: "An antiplaque rinse or tartar-control toothpaste helps keep buildup from hardening.",
			Priority:    models.PriorityGeneral,
			Category:    models.CategoryProducts,
			ActionItems: []string{
				"Add an antiplaque mouthwash to your routine",
			},
		},
	},
	models.ConditionTartar: {
		{
			Title:       "Professional Cleaning Needed",
			Description: "Hardened tartar cannot be removed by brushing; it needs to be scaled off by a hygienist.",
			Priority:    models.PriorityUrgent,
			Category:    models.CategoryProfessional,
			ActionItems: []string{
				"Book a scaling and polishing appointment",
				"Keep up daily flossing to slow new buildup",
			},
		},
	},
	models.ConditionDeadTooth: {
		{
			Title:       "Urgent Dental Evaluation",
			Description: "A darkened tooth can indicate the nerve inside has died. Prompt treatment prevents infection from spreading.",
			Priority:    models.PriorityImmediate,
			Category:    models.CategoryEmergency,
			ActionItems: []string{
				"See a dentist within a few days",
				"Seek immediate care if pain or swelling develops",
			},
		},
	},
	models.ConditionRootCanal: {
		{
			Title:       "Endodontic Consultation",
			Description: "The findings suggest the tooth's root may be affected. An endodontist can confirm whether a root canal is needed.",
			Priority:    models.PriorityImmediate,
			Category:    models.CategoryProfessional,
			ActionItems: []string{
				"Request an endodontic referral",
				"Avoid chewing on the affected side",
			},
		},
	},
	models.ConditionChipped: {
		{
			Title:       "Repair Chipped Tooth",
			Description: "A chipped tooth is vulnerable to further cracking and decay. Bonding or a crown restores the surface.",
			Priority:    models.PriorityUrgent,
			Category:    models.CategoryProfessional,
			ActionItems: []string{
				"Have the chip assessed before it grows",
				"Avoid biting hard foods with that tooth",
			},
		},
	},
	models.ConditionMisaligned: {
		{
			Title:       "Orthodontic Consultation",
			Description: "Alignment issues are cosmetic for many people, but crowded teeth are harder to keep clean.",
			Priority:    models.PriorityGeneral,
			Category:    models.CategoryProfessional,
			ActionItems: []string{
				"Discuss aligner or braces options at your next checkup",
			},
		},
	},
	models.ConditionHealthy: {
		{
			Title:       "Maintain Your Routine",
			Description: "No issues were detected. Your current care routine is working; keep it up.",
			Priority:    models.PriorityGeneral,
			Category:    models.CategoryHomeCare,
			ActionItems: []string{
				"Continue brushing twice daily",
				"Keep regular six-month checkups",
			},
		},
	},
}

// severityRecommendations contributes one entry per aggregate tier.
// The none tier deliberately contributes nothing.
var severityRecommendations = map[models.SeverityLevel]models.Recommendation{
	models.SeverityHigh: {
		Title:       "Seek Prompt Professional Care",
		Description: "At least one serious finding was detected. Do not wait for your next routine checkup.",
		Priority:    models.PriorityImmediate,
		Category:    models.CategoryEmergency,
		ActionItems: []string{
			"Contact a dental office today",
		},
	},
	models.SeverityMedium: {
		Title:       "Book a Dental Checkup",
		Description: "The findings warrant a professional look within the next few weeks.",
		Priority:    models.PriorityUrgent,
		Category:    models.CategoryProfessional,
		ActionItems: []string{
			"Schedule an appointment within a month",
		},
	},
	models.SeverityLow: {
		Title:       "Monitor Your Dental Health",
		Description: "Minor findings were detected. Watch for changes and mention them at your next visit.",
		Priority:    models.PriorityImportant,
		Category:    models.CategoryHomeCare,
		ActionItems: []string{
			"Re-scan in two weeks to track changes",
		},
	},
}

// colorRecommendation fires when the computed healthiness drops below 0.5.
var colorRecommendation = models.Recommendation{
	Title:       "Improve Oral Hygiene",
	Description: "Overall tooth color suggests buildup or staining. A more thorough routine will help.",
	Priority:    models.PriorityImportant,
	Category:    models.CategoryHomeCare,
	ActionItems: []string{
		"Brush for a full two minutes",
		"Add daily flossing and a mouthwash",
	},
}

type ageBracket struct {
	min, max       int
	recommendation models.Recommendation
}

var ageBrackets = []ageBracket{
	{0, 12, models.Recommendation{
		Title:       "Children's Dental Care",
		Description: "Growing teeth need fluoride and supervised brushing.",
		Priority:    models.PriorityGeneral,
		Category:    models.CategoryHomeCare,
		ActionItems: []string{
			"Supervise brushing until age eight",
			"Ask about fluoride varnish at checkups",
		},
	}},
	{13, 19, models.Recommendation{
		Title:       "Teen Dental Care",
		Description: "Braces, sports and snacking all raise risk during the teenage years.",
		Priority:    models.PriorityGeneral,
		Category:    models.CategoryHomeCare,
		ActionItems: []string{
			"Wear a mouthguard for contact sports",
			"Limit sugary drinks between meals",
		},
	}},
	{20, 39, models.Recommendation{
		Title:       "Adult Preventive Care",
		Description: "Prevention is cheapest now: consistent habits avoid most problems later.",
		Priority:    models.PriorityGeneral,
		Category:    models.CategoryLifestyle,
		ActionItems: []string{
			"Keep six-month cleanings on the calendar",
		},
	}},
	{40, 59, models.Recommendation{
		Title:       "Midlife Dental Care",
		Description: "Gum recession and old fillings deserve closer attention from this age on.",
		Priority:    models.PriorityGeneral,
		Category:    models.CategoryProfessional,
		ActionItems: []string{
			"Ask your dentist to check aging restorations",
			"Watch for signs of gum recession",
		},
	}},
	{60, 200, models.Recommendation{
		Title:       "Senior Dental Care",
		Description: "Dry mouth from medication and root decay become more common with age.",
		Priority:    models.PriorityGeneral,
		Category:    models.CategoryProfessional,
		ActionItems: []string{
			"Mention any medications causing dry mouth",
			"Consider a high-fluoride toothpaste",
		},
	}},
}

var trendRecommendations = map[models.HealthTrend]models.Recommendation{
	models.TrendImproving: {
		Title:       "Your Dental Health Is Improving",
		Description: "Recent scans show steady improvement. Whatever you changed is working.",
		Priority:    models.PriorityGeneral,
		Category:    models.CategoryLifestyle,
		ActionItems: []string{
			"Keep your current routine unchanged",
		},
	},
	models.TrendStable: {
		Title:       "Holding Steady",
		Description: "Recent scans show a stable picture. Consistency is the goal now.",
		Priority:    models.PriorityGeneral,
		Category:    models.CategoryLifestyle,
		ActionItems: []string{
			"Maintain your routine and regular checkups",
		},
	},
	models.TrendDeclining: {
		Title:       "Reverse the Recent Decline",
		Description: "Recent scans show a downward trend. A small routine change now avoids bigger treatment later.",
		Priority:    models.PriorityImportant,
		Category:    models.CategoryHomeCare,
		ActionItems: []string{
			"Add one extra daily cleaning step",
			"Consider moving your next checkup earlier",
		},
	},
}

type season string

const (
	seasonWinter season = "winter"
	seasonSpring season = "spring"
	seasonSummer season = "summer"
	seasonAutumn season = "autumn"
)

func seasonOf(month time.Month) season {
	switch month {
	case time.December, time.January, time.February:
		return seasonWinter
	case time.March, time.April, time.May:
		return seasonSpring
	case time.June, time.July, time.August:
		return seasonSummer
	default:
		return seasonAutumn
	}
}

var seasonRecommendations = map[season]models.Recommendation{
	seasonWinter: {
		Title:       "Winter Dental Care",
		Description: "Cold air can aggravate sensitive teeth, and holiday sweets raise decay risk.",
		Priority:    models.PriorityGeneral,
		Category:    models.CategoryLifestyle,
		ActionItems: []string{
			"Breathe through your nose in cold air if teeth are sensitive",
			"Go easy on holiday sweets",
		},
	},
	seasonSpring: {
		Title:       "Spring Dental Refresh",
		Description: "A good season to replace your toothbrush and book the first cleaning of the year.",
		Priority:    models.PriorityGeneral,
		Category:    models.CategoryLifestyle,
		ActionItems: []string{
			"Replace your toothbrush or brush head",
			"Book a spring cleaning appointment",
		},
	},
	seasonSummer: {
		Title:       "Summer Dental Care",
		Description: "Stay hydrated; sports drinks and ice chewing are hard on enamel.",
		Priority:    models.PriorityGeneral,
		Category:    models.CategoryLifestyle,
		ActionItems: []string{
			"Drink water instead of sports drinks",
			"Don't chew ice",
		},
	},
	seasonAutumn: {
		Title:       "Autumn Dental Checkup",
		Description: "A checkup before the holiday season catches problems while they are small.",
		Priority:    models.PriorityGeneral,
		Category:    models.CategoryLifestyle,
		ActionItems: []string{
			"Schedule a checkup before the holidays",
		},
	},
}

var naturalProductsRecommendation = models.Recommendation{
	Title:       "Natural Care Options",
	Description: "Several effective products fit a natural-products preference.",
	Priority:    models.PriorityGeneral,
	Category:    models.CategoryProducts,
	ActionItems: []string{
		"Look for fluoride toothpastes with plant-based ingredients",
		"Oil pulling can supplement, but not replace, brushing",
	},
}

// generalHealthRecommendations are always appended when user context is
// supplied, regardless of findings.
var generalHealthRecommendations = []models.Recommendation{
	{
		Title:       "Diet and Dental Health",
		Description: "What you eat shows up in your scans: sugar feeds decay, while crunchy vegetables and dairy protect enamel.",
		Priority:    models.PriorityGeneral,
		Category:    models.CategoryLifestyle,
		ActionItems: []string{
			"Limit sugar to mealtimes",
			"Finish meals with water or cheese rather than sweets",
		},
	},
	{
		Title:       "Be Prepared for Emergencies",
		Description: "Knowing what to do in the first hour after a dental injury can save a tooth.",
		Priority:    models.PriorityGeneral,
		Category:    models.CategoryEmergency,
		ActionItems: []string{
			"Save your dentist's emergency number",
			"If a tooth is knocked out, keep it moist and seek care immediately",
		},
	},
}
