package screens

import (
	"context"
	"net/url"
	"strconv"
	"strings"

	"github.com/okian/medalboard/internal/domain/model"
	"github.com/okian/medalboard/internal/presentation"
	"github.com/okian/medalboard/internal/viewstate"
)

// recentGamesLimit is the number of games listed on the home screen.
const recentGamesLimit = 5

// HomeData is the compound payload of the home screen.
type HomeData struct {
	Stats        *model.StatsOverview
	TopCountries []model.Country
	RecentGames  []model.Game
}

// GameView is a game with its medal ranking.
type GameView struct {
	Game         *model.Game
	TopCountries []model.GameTopCountry
}

// Home loads the overview, the top countries and the first games page
// together; any failure fails the whole screen.
func (f *Factory) Home() Screen {
	fetch := func(ctx context.Context, _ int) (viewstate.Result[HomeData], error) {
		stats, top, games, err := viewstate.Join3(ctx,
			f.set.Stats.Overview,
			f.set.Countries.Top,
			func(ctx context.Context) (model.Page[model.Game], error) { return f.set.Games.List(ctx, 1) },
		)
		if err != nil {
			return viewstate.Result[HomeData]{}, err
		}
		recent := games.Results
		if len(recent) > recentGamesLimit {
			recent = recent[:recentGamesLimit]
		}
		return viewstate.Result[HomeData]{Data: HomeData{Stats: stats, TopCountries: top, RecentGames: recent}}, nil
	}
	return newScreen(f, "/", Meta{Title: "Accueil", Template: presentation.TemplateHome, Nav: "home"}, 1, fetch,
		viewstate.WithName("home"),
		viewstate.WithLoadingMessage("Chargement du tableau de bord..."),
		viewstate.WithFallbackMessage("Erreur lors du chargement des données"),
	)
}

func (f *Factory) Countries(page int) Screen {
	return newScreen(f, "/countries", Meta{Title: "Pays", Template: presentation.TemplateCountries, Nav: "countries"}, page,
		pageFetch(f.set.Countries.List),
		viewstate.WithName("countries"),
		viewstate.WithPagination(),
		viewstate.WithLoadingMessage("Chargement des pays..."),
		viewstate.WithFallbackMessage("Erreur lors du chargement des pays"),
	)
}

func (f *Factory) Country(id string) Screen {
	return newScreen(f, "/countries/"+url.PathEscape(id), Meta{Title: "Pays", Template: presentation.TemplateCountry, Nav: "countries"}, 1,
		itemFetch(f.set.Countries.Get, id),
		viewstate.WithName("country"),
		viewstate.WithLoadingMessage("Chargement des détails du pays..."),
		viewstate.WithFallbackMessage("Erreur lors du chargement du pays"),
		viewstate.WithNotFound(func(c *model.Country) bool { return c == nil }, "Pays non trouvé"),
	)
}

func (f *Factory) Games(page int) Screen {
	return newScreen(f, "/games", Meta{Title: "Jeux Olympiques", Template: presentation.TemplateGames, Nav: "games"}, page,
		pageFetch(f.set.Games.List),
		viewstate.WithName("games"),
		viewstate.WithPagination(),
		viewstate.WithLoadingMessage("Chargement des jeux olympiques..."),
		viewstate.WithFallbackMessage("Erreur lors du chargement des jeux olympiques"),
	)
}

// Game loads the game and its top countries concurrently; the screen only
// becomes ready when both succeed.
func (f *Factory) Game(id string) Screen {
	fetch := func(ctx context.Context, _ int) (viewstate.Result[GameView], error) {
		game, top, err := viewstate.Join2(ctx,
			func(ctx context.Context) (*model.Game, error) { return f.set.Games.Get(ctx, id) },
			func(ctx context.Context) ([]model.GameTopCountry, error) { return f.set.Games.TopCountries(ctx, id) },
		)
		if err != nil {
			return viewstate.Result[GameView]{}, err
		}
		return viewstate.Result[GameView]{Data: GameView{Game: game, TopCountries: top}}, nil
	}
	return newScreen(f, "/games/"+url.PathEscape(id), Meta{Title: "Jeu olympique", Template: presentation.TemplateGame, Nav: "games"}, 1, fetch,
		viewstate.WithName("game"),
		viewstate.WithLoadingMessage("Chargement des détails du jeu..."),
		viewstate.WithFallbackMessage("Erreur lors du chargement du jeu olympique"),
		viewstate.WithNotFound(func(v GameView) bool { return v.Game == nil }, "Jeu olympique non trouvé"),
	)
}

func (f *Factory) Athletes(page int) Screen {
	return newScreen(f, "/athletes", Meta{Title: "Athlètes", Template: presentation.TemplateAthletes, Nav: "athletes"}, page,
		pageFetch(f.set.Athletes.List),
		viewstate.WithName("athletes"),
		viewstate.WithPagination(),
		viewstate.WithLoadingMessage("Chargement des athlètes..."),
		viewstate.WithFallbackMessage("Erreur lors du chargement des athlètes"),
	)
}

func (f *Factory) Athlete(id string) Screen {
	return newScreen(f, "/athletes/"+url.PathEscape(id), Meta{Title: "Athlète", Template: presentation.TemplateAthlete, Nav: "athletes"}, 1,
		itemFetch(f.set.Athletes.Get, id),
		viewstate.WithName("athlete"),
		viewstate.WithLoadingMessage("Chargement de l'athlète..."),
		viewstate.WithFallbackMessage("Erreur lors du chargement de l'athlète"),
		viewstate.WithNotFound(func(a *model.Athlete) bool { return a == nil }, "Athlète non trouvé"),
	)
}

func (f *Factory) Predictions(page int) Screen {
	return newScreen(f, "/predictions", Meta{Title: "Prédictions", Template: presentation.TemplatePredictions, Nav: "predictions"}, page,
		pageFetch(f.set.Predictions.List),
		viewstate.WithName("predictions"),
		viewstate.WithPagination(),
		viewstate.WithLoadingMessage("Chargement des prédictions..."),
		viewstate.WithFallbackMessage("Erreur lors du chargement des prédictions"),
	)
}

// MedalFilter narrows the medals list. Empty fields are not sent.
type MedalFilter struct {
	Country    string
	Game       string
	Discipline string
	Type       string
}

// ParseMedalFilter reads the supported filters from a query string.
func ParseMedalFilter(q url.Values) MedalFilter {
	return MedalFilter{
		Country:    strings.TrimSpace(q.Get("country")),
		Game:       strings.TrimSpace(q.Get("game")),
		Discipline: strings.TrimSpace(q.Get("discipline")),
		Type:       strings.ToUpper(strings.TrimSpace(q.Get("type"))),
	}
}

// Params returns the non-empty filters keyed by query parameter.
func (m MedalFilter) Params() map[string]string {
	params := make(map[string]string, 4)
	for k, v := range map[string]string{
		"country":    m.Country,
		"game":       m.Game,
		"discipline": m.Discipline,
		"type":       m.Type,
	} {
		if v != "" {
			params[k] = v
		}
	}
	return params
}

// Query is the canonical encoded form of the filters, keys sorted.
func (m MedalFilter) Query() string {
	q := url.Values{}
	for k, v := range m.Params() {
		q.Set(k, v)
	}
	return q.Encode()
}

// Medals lists medals matching filter.
func (f *Factory) Medals(filter MedalFilter, page int) Screen {
	key := "/medals"
	if q := filter.Query(); q != "" {
		key += "?" + q
	}
	fetch := func(ctx context.Context, target int) (viewstate.Result[[]model.Medal], error) {
		params := filter.Params()
		params["page"] = strconv.Itoa(target)
		p, err := f.set.Medals.List(ctx, params)
		if err != nil {
			return viewstate.Result[[]model.Medal]{}, err
		}
		return viewstate.Result[[]model.Medal]{Data: p.Results, HasNext: p.HasNext()}, nil
	}
	return newScreen(f, key, Meta{Title: "Médailles", Template: presentation.TemplateMedals, Nav: "medals"}, page, fetch,
		viewstate.WithName("medals"),
		viewstate.WithPagination(),
		viewstate.WithLoadingMessage("Chargement des médailles..."),
		viewstate.WithFallbackMessage("Erreur lors du chargement des médailles"),
	)
}

func pageFetch[T any](list func(ctx context.Context, page int) (model.Page[T], error)) viewstate.FetchFunc[[]T] {
	return func(ctx context.Context, target int) (viewstate.Result[[]T], error) {
		p, err := list(ctx, target)
		if err != nil {
			return viewstate.Result[[]T]{}, err
		}
		return viewstate.Result[[]T]{Data: p.Results, HasNext: p.HasNext()}, nil
	}
}

func itemFetch[T any](get func(ctx context.Context, id string) (*T, error), id string) viewstate.FetchFunc[*T] {
	return func(ctx context.Context, _ int) (viewstate.Result[*T], error) {
		v, err := get(ctx, id)
		if err != nil {
			return viewstate.Result[*T]{}, err
		}
		return viewstate.Result[*T]{Data: v}, nil
	}
}
