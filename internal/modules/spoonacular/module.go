package spoonacular

import (
	"context"
	"fmt"

	"recipesearch/server/internal/modules"
	"recipesearch/server/pkg/spoonacularapi"
)

const spoonacularVersion = "v1"

// Searcher performs a recipe search. Implemented by *spoonacularapi.Client.
type Searcher interface {
	Search(ctx context.Context, req spoonacularapi.SearchRequest) spoonacularapi.SearchResult
}

// SpoonacularModule implements the Module interface for the Spoonacular API
type SpoonacularModule struct {
	client        Searcher
	defaultAPIKey string
}

// New creates the module. defaultAPIKey is used when a call omits api_key.
func New(client Searcher, defaultAPIKey string) *SpoonacularModule {
	return &SpoonacularModule{client: client, defaultAPIKey: defaultAPIKey}
}

var moduleDescriptions = modules.LocalizedText{
	"en-US": "Spoonacular API - Recipe search with cuisine, diet, nutrition and time filters",
	"ja-JP": "Spoonacular API - 料理ジャンル、食事制限、栄養、調理時間で絞り込めるレシピ検索",
}

func (m *SpoonacularModule) Name() string                        { return "spoonacular" }
func (m *SpoonacularModule) Descriptions() modules.LocalizedText { return moduleDescriptions }
func (m *SpoonacularModule) Description() string {
	return moduleDescriptions["en-US"]
}
func (m *SpoonacularModule) APIVersion() string { return spoonacularVersion }
func (m *SpoonacularModule) Tools() []modules.Tool {
	return toolDefinitions
}

func (m *SpoonacularModule) ExecuteTool(ctx context.Context, name string, params map[string]any) (string, error) {
	switch name {
	case "search_recipes":
		return m.searchRecipes(ctx, params)
	default:
		return "", fmt.Errorf("unknown tool: %s", name)
	}
}

// =============================================================================
// Tool Definitions
// =============================================================================

func bound(v float64) *float64 { return &v }

var toolDefinitions = []modules.Tool{
	{
		ID:   "spoonacular:search_recipes",
		Name: "search_recipes",
		Descriptions: modules.LocalizedText{
			"en-US": "Search through thousands of recipes using advanced filtering and ranking. Returns {success, offset, number, totalResults, results} or {success: false, error, message}.",
			"ja-JP": "高度な絞り込みとランキングで数千件のレシピを検索します。{success, offset, number, totalResults, results} または {success: false, error, message} を返します。",
		},
		Annotations: modules.AnnotateExternalSearch,
		InputSchema: modules.InputSchema{
			Type: "object",
			Properties: map[string]modules.Property{
				"query":              {Type: "string", Description: "The (natural language) recipe search query"},
				"cuisine":            {Type: "string", Description: "The cuisine(s) of the recipes (comma separated)"},
				"diet":               {Type: "string", Description: "The diet(s) for which the recipes must be suitable"},
				"intolerances":       {Type: "string", Description: "A comma-separated list of intolerances"},
				"includeIngredients": {Type: "string", Description: "Comma-separated list of ingredients that should be used"},
				"excludeIngredients": {Type: "string", Description: "Comma-separated list of ingredients to exclude"},
				"type":               {Type: "string", Description: "The type of recipe (e.g., main course, dessert)"},
				"maxReadyTime":       {Type: "integer", Description: "Maximum time in minutes to prepare and cook"},
				"minServings":        {Type: "integer", Description: "Minimum amount of servings"},
				"maxServings":        {Type: "integer", Description: "Maximum amount of servings"},
				"maxCalories":        {Type: "integer", Description: "Maximum calories per serving"},
				"minProtein":         {Type: "integer", Description: "Minimum protein in grams per serving"},
				"maxFat":             {Type: "integer", Description: "Maximum fat in grams per serving"},
				"number": {
					Type:        "integer",
					Description: "Number of expected results (1-100, default 10)",
					Default:     spoonacularapi.DefaultNumber,
					Minimum:     bound(1),
					Maximum:     bound(100),
				},
				"offset": {
					Type:        "integer",
					Description: "Number of results to skip (0-900, default 0)",
					Default:     spoonacularapi.DefaultOffset,
					Minimum:     bound(0),
					Maximum:     bound(900),
				},
				"api_key": {Type: "string", Description: "Spoonacular API key (defaults to the server's configured key)"},
			},
		},
	},
}

// =============================================================================
// Handlers
// =============================================================================

// searchRequest maps tool arguments onto a SearchRequest without altering values.
func (m *SpoonacularModule) searchRequest(params map[string]any) spoonacularapi.SearchRequest {
	apiKey := m.defaultAPIKey
	if v, ok := params["api_key"].(string); ok {
		apiKey = v
	}

	return spoonacularapi.SearchRequest{
		Query:              modules.OptString(params, "query"),
		Cuisine:            modules.OptString(params, "cuisine"),
		Diet:               modules.OptString(params, "diet"),
		Intolerances:       modules.OptString(params, "intolerances"),
		IncludeIngredients: modules.OptString(params, "includeIngredients"),
		ExcludeIngredients: modules.OptString(params, "excludeIngredients"),
		Type:               modules.OptString(params, "type"),
		MaxReadyTime:       modules.OptInt(params, "maxReadyTime"),
		MinServings:        modules.OptInt(params, "minServings"),
		MaxServings:        modules.OptInt(params, "maxServings"),
		MaxCalories:        modules.OptInt(params, "maxCalories"),
		MinProtein:         modules.OptInt(params, "minProtein"),
		MaxFat:             modules.OptInt(params, "maxFat"),
		Number:             modules.IntOr(params, "number", spoonacularapi.DefaultNumber),
		Offset:             modules.IntOr(params, "offset", spoonacularapi.DefaultOffset),
		APIKey:             apiKey,
	}
}

func (m *SpoonacularModule) searchRecipes(ctx context.Context, params map[string]any) (string, error) {
	result := m.client.Search(ctx, m.searchRequest(params))
	return modules.ToJSON(result)
}
