// Package model contains the read-only projections served by the medals API.
//
// Values are created by decoding API responses and are never mutated or
// aggregated locally: counts such as Country.Total are displayed as received.
package model

// MedalType is the medal metal as reported by the API.
type MedalType string

const (
	Gold   MedalType = "GOLD"
	Silver MedalType = "SILVER"
	Bronze MedalType = "BRONZE"
)

// Season of an Olympic game.
type Season string

const (
	Summer Season = "Summer"
	Winter Season = "Winter"
)

// MaxNestedMedals caps the nested medal lists shown on detail screens.
const MaxNestedMedals = 50

// Country with its all-time medal totals.
type Country struct {
	ID     int    `json:"id"`
	Name   string `json:"country_name"`
	Code   string `json:"country_code"`
	Code3  string `json:"country_3_letter_code"`
	Gold   int    `json:"total_gold_medals"`
	Silver int    `json:"total_silver_medals"`
	Bronze int    `json:"total_bronze_medals"`
	Total  int    `json:"total_medals"`

	// Present on the detail endpoint only.
	MedalsByDiscipline []DisciplineCount `json:"medals_by_discipline,omitempty"`
	Medals             []Medal           `json:"medals,omitempty"`
}

// RecentMedals returns at most MaxNestedMedals nested medals.
func (c *Country) RecentMedals() []Medal {
	return capMedals(c.Medals)
}

// DisciplineCount is one row of a country's per-discipline breakdown.
type DisciplineCount struct {
	Discipline string `json:"discipline_title"`
	Count      int    `json:"count"`
}

// Game is one edition of the Olympic games.
type Game struct {
	ID        int    `json:"id"`
	Slug      string `json:"game_slug"`
	Name      string `json:"game_name"`
	Year      int    `json:"game_year"`
	Season    Season `json:"game_season"`
	Location  string `json:"game_location"`
	StartDate string `json:"game_start_date"`
	EndDate   string `json:"game_end_date"`

	Medals []Medal `json:"medals,omitempty"`
}

// RecentMedals returns at most MaxNestedMedals nested medals.
func (g *Game) RecentMedals() []Medal {
	return capMedals(g.Medals)
}

// GameTopCountry is a ranked aggregate row of /games/{id}/top_countries/.
type GameTopCountry struct {
	CountryID   int    `json:"country__id"`
	CountryName string `json:"country__country_name"`
	MedalCount  int    `json:"medal_count"`
}

type Athlete struct {
	ID             int     `json:"id"`
	FullName       string  `json:"athlete_full_name"`
	URL            string  `json:"athlete_url"`
	BirthYear      *int    `json:"athlete_year_birth"`
	Participations int     `json:"games_participations"`
	FirstGame      *string `json:"first_game"`
}

// Medal is a single awarded medal with denormalized names.
type Medal struct {
	ID               int       `json:"id"`
	Discipline       string    `json:"discipline_title"`
	GameSlug         string    `json:"slug_game"`
	Event            string    `json:"event_title"`
	EventGender      string    `json:"event_gender"`
	Type             MedalType `json:"medal_type"`
	ParticipantType  string    `json:"participant_type"`
	ParticipantTitle *string   `json:"participant_title"`
	CountryID        int       `json:"country"`
	CountryName      string    `json:"country_name"`
	AthleteID        *int      `json:"athlete"`
	AthleteName      string    `json:"athlete_name"`
	GameID           *int      `json:"game"`
	GameName         string    `json:"game_name"`
}

// Participant is the athlete name, or the team title for team events.
func (m Medal) Participant() string {
	if m.AthleteName != "" {
		return m.AthleteName
	}
	if m.ParticipantTitle != nil {
		return *m.ParticipantTitle
	}
	return ""
}

// GameLabel is the game name, or its slug when the game is not linked.
func (m Medal) GameLabel() string {
	if m.GameName != "" {
		return m.GameName
	}
	return m.GameSlug
}

// Prediction is a precomputed medal forecast for one country.
type Prediction struct {
	ID            int     `json:"id"`
	CountryID     int     `json:"country"`
	CountryName   string  `json:"country_name"`
	PredictedGame string  `json:"predicted_game"`
	Gold          int     `json:"predicted_gold"`
	Silver        int     `json:"predicted_silver"`
	Bronze        int     `json:"predicted_bronze"`
	Total         int     `json:"predicted_total"`
	Confidence    float64 `json:"confidence_score"`
	CreatedAt     string  `json:"created_at"`
}

// StatsOverview is the aggregate returned by /stats/overview/.
type StatsOverview struct {
	TotalGames     int `json:"total_games"`
	TotalCountries int `json:"total_countries"`
	TotalAthletes  int `json:"total_athletes"`
	TotalMedals    int `json:"total_medals"`
	GoldMedals     int `json:"gold_medals"`
	SilverMedals   int `json:"silver_medals"`
	BronzeMedals   int `json:"bronze_medals"`
}

func capMedals(ms []Medal) []Medal {
	if len(ms) > MaxNestedMedals {
		return ms[:MaxNestedMedals]
	}
	return ms
}
