package modules

import (
	"testing"
)

func TestValidateParams_RequiredFields(t *testing.T) {
	schema := InputSchema{
		Type: "object",
		Properties: map[string]Property{
			"query":   {Type: "string", Description: "Recipe search query"},
			"api_key": {Type: "string", Description: "Spoonacular API key"},
		},
		Required: []string{"query", "api_key"},
	}

	tests := []struct {
		name    string
		params  map[string]any
		wantErr bool
		errMsg  string
	}{
		{
			name:    "all required present",
			params:  map[string]any{"query": "pasta", "api_key": "k"},
			wantErr: false,
		},
		{
			name:    "missing one required",
			params:  map[string]any{"query": "pasta"},
			wantErr: true,
			errMsg:  "missing required parameter(s): api_key",
		},
		{
			name:    "missing all required",
			params:  map[string]any{},
			wantErr: true,
			errMsg:  "missing required parameter(s): query, api_key",
		},
		{
			name:    "nil params",
			params:  nil,
			wantErr: true,
			errMsg:  "missing required parameter(s): query, api_key",
		},
		{
			name:    "empty string for required field",
			params:  map[string]any{"query": "", "api_key": "k"},
			wantErr: true,
			errMsg:  "missing required parameter(s): query",
		},
		{
			name:    "nil value for required field",
			params:  map[string]any{"query": nil, "api_key": "k"},
			wantErr: true,
			errMsg:  "missing required parameter(s): query",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ValidateParams(schema, tt.params)
			if tt.wantErr {
				if err == nil {
					t.Errorf("expected error, got nil")
				} else if err.Error() != tt.errMsg {
					t.Errorf("expected error %q, got %q", tt.errMsg, err.Error())
				}
			} else {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
			}
		})
	}
}

func TestValidateParams_TypeCheck(t *testing.T) {
	schema := InputSchema{
		Type: "object",
		Properties: map[string]Property{
			"name":     {Type: "string"},
			"count":    {Type: "number"},
			"enabled":  {Type: "boolean"},
			"tags":     {Type: "array"},
			"metadata": {Type: "object"},
		},
	}

	tests := []struct {
		name    string
		params  map[string]any
		wantErr bool
		errMsg  string
	}{
		{
			name:    "all correct types",
			params:  map[string]any{"name": "test", "count": float64(5), "enabled": true, "tags": []interface{}{"a"}, "metadata": map[string]interface{}{"k": "v"}},
			wantErr: false,
		},
		{
			name:    "string where number expected",
			params:  map[string]any{"count": "five"},
			wantErr: true,
			errMsg:  `parameter "count": expected number, got string`,
		},
		{
			name:    "number where string expected",
			params:  map[string]any{"name": float64(42)},
			wantErr: true,
			errMsg:  `parameter "name": expected string, got float64`,
		},
		{
			name:    "string where boolean expected",
			params:  map[string]any{"enabled": "true"},
			wantErr: true,
			errMsg:  `parameter "enabled": expected boolean, got string`,
		},
		{
			name:    "string where array expected",
			params:  map[string]any{"tags": "not-array"},
			wantErr: true,
			errMsg:  `parameter "tags": expected array, got string`,
		},
		{
			name:    "string where object expected",
			params:  map[string]any{"metadata": "not-object"},
			wantErr: true,
			errMsg:  `parameter "metadata": expected object, got string`,
		},
		{
			name:    "extra params not in schema pass through",
			params:  map[string]any{"unknown_field": "whatever"},
			wantErr: false,
		},
		{
			name:    "nil value skips type check",
			params:  map[string]any{"name": nil},
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ValidateParams(schema, tt.params)
			if tt.wantErr {
				if err == nil {
					t.Errorf("expected error, got nil")
				} else if err.Error() != tt.errMsg {
					t.Errorf("expected error %q, got %q", tt.errMsg, err.Error())
				}
			} else {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
			}
		})
	}
}

func TestValidateParams_NoRequiredNoProperties(t *testing.T) {
	// Schema with no required and no properties (e.g., a ping tool)
	schema := InputSchema{
		Type:       "object",
		Properties: map[string]Property{},
	}

	result, err := ValidateParams(schema, map[string]any{})
	if err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if result == nil {
		t.Errorf("expected non-nil result")
	}
}

func TestValidateParams_IntegerType(t *testing.T) {
	schema := InputSchema{
		Type: "object",
		Properties: map[string]Property{
			"page": {Type: "integer"},
		},
	}

	// float64 is accepted for "integer" (JSON numbers are always float64)
	_, err := ValidateParams(schema, map[string]any{"page": float64(3)})
	if err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	// string is rejected for "integer"
	_, err = ValidateParams(schema, map[string]any{"page": "three"})
	if err == nil {
		t.Errorf("expected error for string as integer")
	}

	// fractional numbers are rejected for "integer"
	_, err = ValidateParams(schema, map[string]any{"page": float64(2.5)})
	if err == nil {
		t.Errorf("expected error for 2.5 as integer")
	} else if err.Error() != `parameter "page": expected integer, got 2.5` {
		t.Errorf("unexpected error message: %q", err.Error())
	}

	// out-of-range values are not checked here
	_, err = ValidateParams(schema, map[string]any{"page": float64(-900)})
	if err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	// values a float64 cannot carry exactly are rejected
	for _, v := range []float64{1e20, -1e20, 9007199254740993, 1 << 53} {
		if _, err := ValidateParams(schema, map[string]any{"page": v}); err == nil {
			t.Errorf("expected error for %v as integer", v)
		}
	}
	if _, err := ValidateParams(schema, map[string]any{"page": float64(1<<53 - 1)}); err != nil {
		t.Errorf("unexpected error for 2^53-1: %v", err)
	}
}

func TestFindTool(t *testing.T) {
	tools := []Tool{
		{Name: "search_recipes", ID: "spoonacular:search_recipes"},
		{Name: "get_recipe", ID: "spoonacular:get_recipe"},
	}

	tool, found := findTool(tools, "get_recipe")
	if !found {
		t.Fatal("expected to find get_recipe")
	}
	if tool.ID != "spoonacular:get_recipe" {
		t.Errorf("expected ID spoonacular:get_recipe, got %s", tool.ID)
	}

	_, found = findTool(tools, "nonexistent")
	if found {
		t.Error("expected not to find nonexistent tool")
	}
}
