package models

// Condition is a named dental finding produced by the detection stage.
type Condition string

const (
	ConditionCavity        Condition = "cavity"
	ConditionGingivitis    Condition = "gingivitis"
	ConditionDiscoloration Condition = "discoloration"
	ConditionPlaque        Condition = "plaque"
	ConditionTartar        Condition = "tartar"
	ConditionDeadTooth     Condition = "dead_tooth"
	ConditionRootCanal     Condition = "root_canal"
	ConditionChipped       Condition = "chipped"
	ConditionMisaligned    Condition = "misaligned"
	ConditionHealthy       Condition = "healthy"
)

// AllConditions lists every condition in canonical order. Detection results
// are emitted in this order so callers see deterministic output.
var AllConditions = []Condition{
	ConditionCavity,
	ConditionGingivitis,
	ConditionDiscoloration,
	ConditionPlaque,
	ConditionTartar,
	ConditionDeadTooth,
	ConditionRootCanal,
	ConditionChipped,
	ConditionMisaligned,
	ConditionHealthy,
}

// SeverityLevel is the ordered severity scale shared by individual
// conditions and aggregate results.
type SeverityLevel int

const (
	SeverityNone SeverityLevel = iota
	SeverityLow
	SeverityMedium
	SeverityHigh
)

func (s SeverityLevel) String() string {
	switch s {
	case SeverityLow:
		return "low"
	case SeverityMedium:
		return "medium"
	case SeverityHigh:
		return "high"
	default:
		return "none"
	}
}

// MarshalText makes severity serialize as its name rather than an int.
func (s SeverityLevel) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *SeverityLevel) UnmarshalText(text []byte) error {
	switch string(text) {
	case "low":
		*s = SeverityLow
	case "medium":
		*s = SeverityMedium
	case "high":
		*s = SeverityHigh
	default:
		*s = SeverityNone
	}
	return nil
}

var conditionSeverity = map[Condition]SeverityLevel{
	ConditionCavity:        SeverityHigh,
	ConditionDeadTooth:     SeverityHigh,
	ConditionRootCanal:     SeverityHigh,
	ConditionGingivitis:    SeverityMedium,
	ConditionTartar:        SeverityMedium,
	ConditionChipped:       SeverityMedium,
	ConditionDiscoloration: SeverityLow,
	ConditionPlaque:        SeverityLow,
	ConditionMisaligned:    SeverityLow,
	ConditionHealthy:       SeverityNone,
}

// Severity returns the fixed severity tier for a condition.
func (c Condition) Severity() SeverityLevel {
	return conditionSeverity[c]
}

var severityPenalty = map[SeverityLevel]int{
	SeverityNone:   0,
	SeverityLow:    10,
	SeverityMedium: 25,
	SeverityHigh:   50,
}

// Penalty returns the health-score penalty carried by a condition's tier.
func (c Condition) Penalty() int {
	return severityPenalty[c.Severity()]
}

// DisplayName returns a human-readable name for UI surfaces.
func (c Condition) DisplayName() string {
	switch c {
	case ConditionCavity:
		return "Cavity"
	case ConditionGingivitis:
		return "Gingivitis"
	case ConditionDiscoloration:
		return "Discoloration"
	case ConditionPlaque:
		return "Plaque Buildup"
	case ConditionTartar:
		return "Tartar Buildup"
	case ConditionDeadTooth:
		return "Dead Tooth"
	case ConditionRootCanal:
		return "Root Canal Indication"
	case ConditionChipped:
		return "Chipped Tooth"
	case ConditionMisaligned:
		return "Misalignment"
	case ConditionHealthy:
		return "Healthy"
	default:
		return string(c)
	}
}

// DominantColor classifies the overall tooth color of an image.
type DominantColor string

const (
	ColorWhite       DominantColor = "white"
	ColorOffWhite    DominantColor = "off-white"
	ColorLightYellow DominantColor = "light-yellow"
	ColorYellow      DominantColor = "yellow"
	ColorDarkYellow  DominantColor = "dark-yellow"
	ColorBrown       DominantColor = "brown"
	ColorBlack       DominantColor = "black"
	ColorUnknown     DominantColor = "unknown"
)

var colorHealthinessBaseline = map[DominantColor]float64{
	ColorWhite:       0.95,
	ColorOffWhite:    0.85,
	ColorLightYellow: 0.70,
	ColorYellow:      0.55,
	ColorDarkYellow:  0.40,
	ColorBrown:       0.25,
	ColorBlack:       0.10,
	ColorUnknown:     0.50,
}

// HealthinessBaseline returns the fixed display baseline for a color value,
// independent of the healthiness computed for a specific image.
func (d DominantColor) HealthinessBaseline() float64 {
	if v, ok := colorHealthinessBaseline[d]; ok {
		return v
	}
	return colorHealthinessBaseline[ColorUnknown]
}

// ColorAnalysis is the color signal extracted from an enhanced image.
type ColorAnalysis struct {
	DominantColor DominantColor `json:"dominant_color"`
	Healthiness   float64       `json:"healthiness"`
}
