// Package resources exposes one thin service per API entity. Each operation
// issues exactly one request through a Getter and returns the decoded
// payload; errors are returned unchanged.
package resources

import (
	"context"
	"net/url"
	"strconv"

	"github.com/okian/medalboard/internal/domain/model"
)

// Getter decodes the JSON body of GET path into v. *apiclient.Client
// satisfies it.
type Getter interface {
	GetJSON(ctx context.Context, path string, v any) error
}

// Set bundles the resource services over a single Getter.
type Set struct {
	Countries   *Countries
	Games       *Games
	Athletes    *Athletes
	Medals      *Medals
	Predictions *Predictions
	Stats       *Stats
}

// New builds every service on top of api.
func New(api Getter) *Set {
	return &Set{
		Countries:   &Countries{api: api},
		Games:       &Games{api: api},
		Athletes:    &Athletes{api: api},
		Medals:      &Medals{api: api},
		Predictions: &Predictions{api: api},
		Stats:       &Stats{api: api},
	}
}

// pagePath returns collection?page=N with pages below 1 clamped to 1.
func pagePath(collection string, page int) string {
	if page < 1 {
		page = 1
	}
	return collection + "?page=" + strconv.Itoa(page)
}

// itemPath returns collection + escaped id + "/".
func itemPath(collection, id string) string {
	return collection + url.PathEscape(id) + "/"
}

func list[T any](ctx context.Context, api Getter, path string) (model.Page[T], error) {
	var page model.Page[T]
	if err := api.GetJSON(ctx, path, &page); err != nil {
		return model.Page[T]{}, err
	}
	return page, nil
}

// item returns nil without error when the API answers with an empty body or null.
func item[T any](ctx context.Context, api Getter, path string) (*T, error) {
	var v *T
	if err := api.GetJSON(ctx, path, &v); err != nil {
		return nil, err
	}
	return v, nil
}

func rows[T any](ctx context.Context, api Getter, path string) ([]T, error) {
	var v []T
	if err := api.GetJSON(ctx, path, &v); err != nil {
		return nil, err
	}
	return v, nil
}

// Countries serves /countries/.
type Countries struct{ api Getter }

// List returns one page of countries.
func (s *Countries) List(ctx context.Context, page int) (model.Page[model.Country], error) {
	return list[model.Country](ctx, s.api, pagePath("/countries/", page))
}

// Get returns one country, or nil when absent.
func (s *Countries) Get(ctx context.Context, id string) (*model.Country, error) {
	return item[model.Country](ctx, s.api, itemPath("/countries/", id))
}

// Top returns the unpaginated top countries by total medals.
func (s *Countries) Top(ctx context.Context) ([]model.Country, error) {
	return rows[model.Country](ctx, s.api, "/countries/top/")
}

// Games serves /games/.
type Games struct{ api Getter }

// List returns one page of games.
func (s *Games) List(ctx context.Context, page int) (model.Page[model.Game], error) {
	return list[model.Game](ctx, s.api, pagePath("/games/", page))
}

// Get returns one game, or nil when absent.
func (s *Games) Get(ctx context.Context, id string) (*model.Game, error) {
	return item[model.Game](ctx, s.api, itemPath("/games/", id))
}

// TopCountries returns the medal ranking of one game.
func (s *Games) TopCountries(ctx context.Context, id string) ([]model.GameTopCountry, error) {
	return rows[model.GameTopCountry](ctx, s.api, itemPath("/games/", id)+"top_countries/")
}

// Athletes serves /athletes/.
type Athletes struct{ api Getter }

// List returns one page of athletes.
func (s *Athletes) List(ctx context.Context, page int) (model.Page[model.Athlete], error) {
	return list[model.Athlete](ctx, s.api, pagePath("/athletes/", page))
}

// Get returns one athlete, or nil when absent.
func (s *Athletes) Get(ctx context.Context, id string) (*model.Athlete, error) {
	return item[model.Athlete](ctx, s.api, itemPath("/athletes/", id))
}

// Medals serves /medals/ with free-form filters.
type Medals struct{ api Getter }

// List passes params through as the query string, keys sorted. The endpoint
// may answer with an envelope or a bare array; both decode into a Page.
func (s *Medals) List(ctx context.Context, params map[string]string) (model.Page[model.Medal], error) {
	path := "/medals/"
	if len(params) > 0 {
		q := url.Values{}
		for k, v := range params {
			q.Set(k, v)
		}
		path += "?" + q.Encode()
	}
	return list[model.Medal](ctx, s.api, path)
}

// Predictions serves /predictions/.
type Predictions struct{ api Getter }

// List returns one page of medal predictions.
func (s *Predictions) List(ctx context.Context, page int) (model.Page[model.Prediction], error) {
	return list[model.Prediction](ctx, s.api, pagePath("/predictions/", page))
}

// Stats serves /stats/.
type Stats struct{ api Getter }

// Overview returns the global totals.
func (s *Stats) Overview(ctx context.Context) (*model.StatsOverview, error) {
	var v model.StatsOverview
	if err := s.api.GetJSON(ctx, "/stats/overview/", &v); err != nil {
		return nil, err
	}
	return &v, nil
}
