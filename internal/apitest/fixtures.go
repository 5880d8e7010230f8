package apitest

import (
	"encoding/json"

	"github.com/okian/medalboard/internal/domain/model"
)

// Identifiers used by DefaultFixtures.
const (
	FranceID       = 1
	MissingCountry = 99
	ParisGameID    = 42
	AthleteID      = 7
)

// Countries are the rows of /countries/?page=1, followed by one row on page 2.
func Countries() []model.Country {
	return []model.Country{
		{ID: FranceID, Name: "France", Code: "FR", Code3: "FRA", Gold: 250, Silver: 280, Bronze: 310, Total: 840},
		{ID: 2, Name: "United States", Code: "US", Code3: "USA", Gold: 1100, Silver: 880, Bronze: 780, Total: 2760},
		{ID: 3, Name: "China", Code: "CN", Code3: "CHN", Gold: 300, Silver: 230, Bronze: 200, Total: 730},
	}
}

func secondCountryPage() []model.Country {
	return []model.Country{
		{ID: 4, Name: "Japan", Code: "JP", Code3: "JPN", Gold: 180, Silver: 170, Bronze: 200, Total: 550},
	}
}

// Games are the rows of /games/?page=1, newest first.
func Games() []model.Game {
	return []model.Game{
		{ID: ParisGameID, Slug: "paris-2024", Name: "Paris 2024", Year: 2024, Season: model.Summer, Location: "France", StartDate: "2024-07-26", EndDate: "2024-08-11"},
		{ID: 41, Slug: "beijing-2022", Name: "Beijing 2022", Year: 2022, Season: model.Winter, Location: "China", StartDate: "2022-02-04", EndDate: "2022-02-20"},
		{ID: 40, Slug: "tokyo-2020", Name: "Tokyo 2020", Year: 2020, Season: model.Summer, Location: "Japan", StartDate: "2021-07-23", EndDate: "2021-08-08"},
		{ID: 39, Slug: "pyeongchang-2018", Name: "PyeongChang 2018", Year: 2018, Season: model.Winter, Location: "South Korea", StartDate: "2018-02-09", EndDate: "2018-02-25"},
		{ID: 38, Slug: "rio-2016", Name: "Rio 2016", Year: 2016, Season: model.Summer, Location: "Brazil", StartDate: "2016-08-05", EndDate: "2016-08-21"},
		{ID: 37, Slug: "sochi-2014", Name: "Sochi 2014", Year: 2014, Season: model.Winter, Location: "Russia", StartDate: "2014-02-07", EndDate: "2014-02-23"},
	}
}

// Medals are the rows of /medals/?page=1.
func Medals() []model.Medal {
	game := ParisGameID
	athlete := AthleteID
	relay := "France"
	return []model.Medal{
		{ID: 1, Discipline: "Swimming", GameSlug: "paris-2024", Event: "200m Breaststroke", EventGender: "Men", Type: model.Gold,
			ParticipantType: "Athlete", CountryID: FranceID, CountryName: "France", AthleteID: &athlete, AthleteName: "Léon Marchand", GameID: &game, GameName: "Paris 2024"},
		{ID: 2, Discipline: "Judo", GameSlug: "paris-2024", Event: "Mixed Team", EventGender: "Mixed", Type: model.Gold,
			ParticipantType: "GameTeam", ParticipantTitle: &relay, CountryID: FranceID, CountryName: "France", GameID: &game, GameName: "Paris 2024"},
		{ID: 3, Discipline: "Athletics", GameSlug: "paris-2024", Event: "100m", EventGender: "Men", Type: model.Silver,
			ParticipantType: "Athlete", CountryID: 2, CountryName: "United States", AthleteName: "Kenneth Bednarek", GameID: &game, GameName: "Paris 2024"},
	}
}

// DefaultFixtures returns the canned body of every path the dashboard reads,
// keyed by path relative to Prefix.
func DefaultFixtures() map[string]string {
	france := Countries()[0]
	france.MedalsByDiscipline = []model.DisciplineCount{
		{Discipline: "Fencing", Count: 123},
		{Discipline: "Cycling Track", Count: 95},
	}
	france.Medals = Medals()[:2]

	paris := Games()[0]
	paris.Medals = Medals()

	birth := 2002
	first := "Tokyo 2020"
	athletes := []model.Athlete{
		{ID: AthleteID, FullName: "Léon Marchand", URL: "https://olympics.com/en/athletes/leon-marchand", BirthYear: &birth, Participations: 2, FirstGame: &first},
		{ID: 8, FullName: "Teddy Riner", Participations: 5},
	}

	predictions := []model.Prediction{
		{ID: 1, CountryID: 2, CountryName: "United States", PredictedGame: "Los Angeles 2028", Gold: 44, Silver: 40, Bronze: 42, Total: 126, Confidence: 0.85, CreatedAt: "2024-09-01T10:00:00Z"},
		{ID: 2, CountryID: FranceID, CountryName: "France", PredictedGame: "Los Angeles 2028", Gold: 14, Silver: 20, Bronze: 22, Total: 56, Confidence: 0.6234, CreatedAt: "2024-09-01T10:00:00Z"},
	}

	next := "http://testserver/api/countries/?page=2"
	prev := "http://testserver/api/countries/?page=1"

	return map[string]string{
		"/countries/?page=1": encode(model.Page[model.Country]{Results: Countries(), Next: &next, Count: 4}),
		"/countries/?page=2": encode(model.Page[model.Country]{Results: secondCountryPage(), Previous: &prev, Count: 4}),
		"/countries/top/":    encode(Countries()),
		"/countries/1/":      encode(france),
		"/countries/99/":     "null",

		"/games/?page=1":            encode(model.Page[model.Game]{Results: Games(), Count: len(Games())}),
		"/games/42/":                encode(paris),
		"/games/42/top_countries/":  encode([]model.GameTopCountry{{CountryID: 2, CountryName: "United States", MedalCount: 126}, {CountryID: FranceID, CountryName: "France", MedalCount: 64}}),
		"/athletes/?page=1":         encode(model.Page[model.Athlete]{Results: athletes, Count: len(athletes)}),
		"/athletes/7/":              encode(athletes[0]),
		"/medals/?page=1":           encode(Medals()),
		"/medals/?country=1&page=1": encode(model.Page[model.Medal]{Results: Medals()[:2], Count: 2}),
		"/predictions/?page=1":      encode(model.Page[model.Prediction]{Results: predictions, Count: len(predictions)}),
		"/stats/overview/":          encode(model.StatsOverview{TotalGames: 53, TotalCountries: 154, TotalAthletes: 75904, TotalMedals: 21697, GoldMedals: 7172, SilverMedals: 7154, BronzeMedals: 7371}),
	}
}

func encode(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return string(b)
}
