package profile

import (
	"sort"
	"strconv"
	"strings"
)

// FallbackContext is returned when a profile has neither summary text nor
// any recorded biometrics, and is substituted by callers when no profile
// exists at all.
const FallbackContext = "No profile summary available."

// statsPrefix introduces the biometrics paragraph.
const statsPrefix = "Fitness stats: "

// ContextText renders a profile into the deterministic context string fed to
// the coach prompt. The trimmed summary text forms the first paragraph; a
// second paragraph lists only the biometric fields that are recorded, each
// rendered as "Label: value unit" and joined by ". ".
func ContextText(p Profile) string {
	summary := strings.TrimSpace(p.summaryText)
	stats := statsText(p.biometrics)

	switch {
	case summary != "" && stats != "":
		return summary + "\n\n" + stats
	case summary != "":
		return summary
	case stats != "":
		return stats
	default:
		return FallbackContext
	}
}

func statsText(b Biometrics) string {
	var entries []string

	if b.Age != nil {
		entries = append(entries, "Age: "+strconv.Itoa(*b.Age))
	}
	if b.HeightCm != nil {
		entries = append(entries, "Height: "+formatNumber(*b.HeightCm)+" cm")
	}
	if b.WeightKg != nil {
		entries = append(entries, "Weight: "+formatNumber(*b.WeightKg)+" kg")
	}
	if b.Sex != nil {
		entries = append(entries, "Sex: "+*b.Sex)
	}
	if b.BodyFatPct != nil {
		entries = append(entries, "Body fat: "+formatNumber(*b.BodyFatPct)+" %")
	}
	if b.VO2Max != nil {
		entries = append(entries, "VO2max: "+formatNumber(*b.VO2Max)+" ml/kg/min")
	}

	lifts := make([]string, 0, len(b.OneRepMaxKg))
	for lift := range b.OneRepMaxKg {
		lifts = append(lifts, lift)
	}
	sort.Strings(lifts)
	for _, lift := range lifts {
		entries = append(entries, lift+" 1RM: "+formatNumber(b.OneRepMaxKg[lift])+" kg")
	}

	if b.WorkoutsPerWeek != nil {
		entries = append(entries, "Workouts/week: "+strconv.Itoa(*b.WorkoutsPerWeek))
	}

	if len(entries) == 0 {
		return ""
	}
	return statsPrefix + strings.Join(entries, ". ")
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
