package presentation

import (
	"fmt"
	"strconv"

	"github.com/okian/medalboard/internal/domain/model"
)

// rankPageSize is the page size the API uses for ranked lists.
const rankPageSize = 100

const notAvailable = "N/A"

// ConfidencePercent renders a 0..1 confidence score with one decimal,
// e.g. 0.8234 -> "82.3%". The score is not validated.
func ConfidencePercent(score float64) string {
	return fmt.Sprintf("%.1f%%", score*100)
}

// MedalLabel translates a medal type to its display label.
func MedalLabel(t model.MedalType) string {
	switch t {
	case model.Gold:
		return "Or"
	case model.Silver:
		return "Argent"
	case model.Bronze:
		return "Bronze"
	default:
		return string(t)
	}
}

// MedalClass is the badge CSS class of a medal type.
func MedalClass(t model.MedalType) string {
	switch t {
	case model.Gold:
		return "medal-gold"
	case model.Silver:
		return "medal-silver"
	case model.Bronze:
		return "medal-bronze"
	default:
		return "medal-other"
	}
}

// SeasonLabel translates a game season.
func SeasonLabel(s model.Season) string {
	switch s {
	case model.Summer:
		return "Été"
	case model.Winter:
		return "Hiver"
	default:
		return string(s)
	}
}

func SeasonClass(s model.Season) string {
	if s == model.Winter {
		return "season-winter"
	}
	return "season-summer"
}

// Rank is the 1-based rank of row index on page.
func Rank(page, index int) int {
	if page < 1 {
		page = 1
	}
	return (page-1)*rankPageSize + index + 1
}

// OrNA renders optional values, falling back to "N/A" for nil, empty or zero.
func OrNA(v any) string {
	switch x := v.(type) {
	case nil:
		return notAvailable
	case *int:
		if x == nil || *x == 0 {
			return notAvailable
		}
		return strconv.Itoa(*x)
	case int:
		if x == 0 {
			return notAvailable
		}
		return strconv.Itoa(x)
	case *string:
		if x == nil || *x == "" {
			return notAvailable
		}
		return *x
	case string:
		if x == "" {
			return notAvailable
		}
		return x
	default:
		return fmt.Sprint(v)
	}
}
