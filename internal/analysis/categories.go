// Package analysis implements the keyword scoring pipeline: expansion
// post-processing, the filter funnel, trend aggregation, competition
// analysis, opportunity scoring and performance prediction.
package analysis

// CategoryProfile collects every per-category knob in one place: the anchor
// keyword used for comparable trend batches, the view multiplier, the
// subscriber-conversion adjustment and optional upload-time overrides.
type CategoryProfile struct {
	Name                 string
	AnchorKeyword        string
	ViewMultiplier       float64
	SubscriberAdjustment float64
	UploadTimeOverrides  map[string][]string
}

// defaultProfile applies to any category without an explicit profile.
var defaultProfile = CategoryProfile{
	Name:                 "default",
	AnchorKeyword:        "유튜브",
	ViewMultiplier:       1.5,
	SubscriberAdjustment: 1.0,
}

var categoryProfiles = map[string]CategoryProfile{
	"Gaming": {
		Name:                 "Gaming",
		AnchorKeyword:        "게임",
		ViewMultiplier:       2.5,
		SubscriberAdjustment: 0.8,
		UploadTimeOverrides: map[string][]string{
			"friday":   {"20:00", "22:00"},
			"saturday": {"15:00", "20:00", "22:00"},
			"sunday":   {"15:00", "20:00"},
		},
	},
	"Entertainment": {
		Name:                 "Entertainment",
		AnchorKeyword:        "유튜브",
		ViewMultiplier:       2.0,
		SubscriberAdjustment: 0.9,
	},
	"Education": {
		Name:                 "Education",
		AnchorKeyword:        "공부",
		ViewMultiplier:       1.8,
		SubscriberAdjustment: 1.5,
		UploadTimeOverrides: map[string][]string{
			"monday":    {"18:00", "20:00"},
			"tuesday":   {"18:00", "20:00"},
			"wednesday": {"18:00", "20:00"},
		},
	},
	"Science & Technology": {
		Name:                 "Science & Technology",
		AnchorKeyword:        "스마트폰",
		ViewMultiplier:       1.5,
		SubscriberAdjustment: 1.0,
	},
	"Music": {
		Name:                 "Music",
		AnchorKeyword:        "음악",
		ViewMultiplier:       2.2,
		SubscriberAdjustment: 1.0,
	},
	"How-to & Style": {
		Name:                 "How-to & Style",
		AnchorKeyword:        "화장품",
		ViewMultiplier:       1.6,
		SubscriberAdjustment: 1.3,
	},
	"News & Politics": {
		Name:                 "News & Politics",
		AnchorKeyword:        "유튜브",
		ViewMultiplier:       1.3,
		SubscriberAdjustment: 1.0,
	},
	"Sports": {
		Name:                 "Sports",
		AnchorKeyword:        "유튜브",
		ViewMultiplier:       1.7,
		SubscriberAdjustment: 1.0,
	},
	"Food": {
		Name:                 "Food",
		AnchorKeyword:        "요리",
		ViewMultiplier:       1.5,
		SubscriberAdjustment: 1.0,
	},
	"Vlog": {
		Name:                 "Vlog",
		AnchorKeyword:        "일상",
		ViewMultiplier:       1.5,
		SubscriberAdjustment: 1.0,
	},
}

// ProfileFor resolves the profile for a category name, falling back to the
// default profile for unknown or empty categories.
func ProfileFor(category string) CategoryProfile {
	if p, ok := categoryProfiles[category]; ok {
		return p
	}
	return defaultProfile
}

// baseUploadTimes is the weekday prime-time table. Profiles override
// individual days.
var baseUploadTimes = map[string][]string{
	"monday":    {"19:00", "21:00"},
	"tuesday":   {"19:00", "21:00"},
	"wednesday": {"19:00", "21:00"},
	"thursday":  {"19:00", "21:00"},
	"friday":    {"18:00", "20:00", "22:00"},
	"saturday":  {"14:00", "16:00", "20:00"},
	"sunday":    {"14:00", "16:00", "20:00"},
}

// UploadTimesFor merges the base table with the category overrides.
func UploadTimesFor(category string) map[string][]string {
	profile := ProfileFor(category)
	out := make(map[string][]string, len(baseUploadTimes))
	for day, times := range baseUploadTimes {
		out[day] = times
	}
	for day, times := range profile.UploadTimeOverrides {
		out[day] = times
	}
	return out
}
