package spoonacularapi

import (
	"net/url"

	"github.com/go-faster/errors"
	"github.com/ogen-go/ogen/conv"
	"github.com/ogen-go/ogen/uri"
)

// Pagination defaults applied by callers that receive no explicit value.
const (
	DefaultNumber = 10
	DefaultOffset = 0
)

// Query parameter names understood by complexSearch.
const (
	paramQuery              = "query"
	paramCuisine            = "cuisine"
	paramDiet               = "diet"
	paramIntolerances       = "intolerances"
	paramIncludeIngredients = "includeIngredients"
	paramExcludeIngredients = "excludeIngredients"
	paramType               = "type"
	paramMaxReadyTime       = "maxReadyTime"
	paramMinServings        = "minServings"
	paramMaxServings        = "maxServings"
	paramMaxCalories        = "maxCalories"
	paramMinProtein         = "minProtein"
	paramMaxFat             = "maxFat"
	paramNumber             = "number"
	paramOffset             = "offset"
	paramAPIKey             = "apiKey"
)

// SearchRequest holds the filters for one complexSearch call.
//
// A nil field is absent and is left out of the query string. String fields
// are also absent when empty. List-valued filters (cuisine, diet, ...) are
// expected to be comma-joined already. Number and Offset are always sent and
// are not range-checked here.
type SearchRequest struct {
	Query              *string
	Cuisine            *string
	Diet               *string
	Intolerances       *string
	IncludeIngredients *string
	ExcludeIngredients *string
	Type               *string

	MaxReadyTime *int
	MinServings  *int
	MaxServings  *int
	MaxCalories  *int
	MinProtein   *int
	MaxFat       *int

	Number int
	Offset int

	// APIKey is forwarded when non-empty. The remote service enforces it.
	APIKey string
}

// NewSearchRequest returns a request with default pagination and no filters.
func NewSearchRequest() SearchRequest {
	return SearchRequest{Number: DefaultNumber, Offset: DefaultOffset}
}

// String returns a pointer to s, for filling optional fields.
func String(s string) *string { return &s }

// Int returns a pointer to n, for filling optional fields.
func Int(n int) *int { return &n }

type queryParam struct {
	name   string
	encode func(e uri.Encoder) error
}

func stringParam(name string, v *string) queryParam {
	return queryParam{name: name, encode: func(e uri.Encoder) error {
		if v == nil || *v == "" {
			return nil
		}
		return e.EncodeValue(conv.StringToString(*v))
	}}
}

func intParam(name string, v *int) queryParam {
	return queryParam{name: name, encode: func(e uri.Encoder) error {
		if v == nil {
			return nil
		}
		return e.EncodeValue(conv.IntToString(*v))
	}}
}

func (r SearchRequest) params() []queryParam {
	apiKey := r.APIKey
	return []queryParam{
		intParam(paramNumber, &r.Number),
		intParam(paramOffset, &r.Offset),
		stringParam(paramQuery, r.Query),
		stringParam(paramCuisine, r.Cuisine),
		stringParam(paramDiet, r.Diet),
		stringParam(paramIntolerances, r.Intolerances),
		stringParam(paramIncludeIngredients, r.IncludeIngredients),
		stringParam(paramExcludeIngredients, r.ExcludeIngredients),
		stringParam(paramType, r.Type),
		intParam(paramMaxReadyTime, r.MaxReadyTime),
		intParam(paramMinServings, r.MinServings),
		intParam(paramMaxServings, r.MaxServings),
		intParam(paramMaxCalories, r.MaxCalories),
		intParam(paramMinProtein, r.MinProtein),
		intParam(paramMaxFat, r.MaxFat),
		stringParam(paramAPIKey, &apiKey),
	}
}

// BuildQuery assembles the outbound query parameters. Values are taken
// verbatim; percent-encoding happens when the result is encoded.
func BuildQuery(r SearchRequest) (url.Values, error) {
	q := uri.NewQueryEncoder()
	for _, p := range r.params() {
		cfg := uri.QueryParameterEncodingConfig{
			Name:    p.name,
			Style:   uri.QueryStyleForm,
			Explode: true,
		}
		if err := q.EncodeParam(cfg, p.encode); err != nil {
			return nil, errors.Wrapf(err, "encode %q", p.name)
		}
	}
	values := q.Values()
	for k, v := range values {
		if len(v) == 0 {
			delete(values, k)
		}
	}
	return values, nil
}
