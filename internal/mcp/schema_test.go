package mcp

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestTraverseInputSchema_Enums(t *testing.T) {
	schema, err := traverseInputSchema()
	if err != nil {
		t.Fatalf("traverseInputSchema: %v", err)
	}

	tests := []struct {
		property string
		want     []any
	}{
		{property: "start_type", want: []any{"property", "entity", "company", "principal"}},
		{property: "direction", want: []any{"up", "down", "both"}},
	}

	for _, tc := range tests {
		prop, ok := schema.Properties[tc.property]
		if !ok {
			t.Fatalf("schema has no %q property", tc.property)
		}
		if !reflect.DeepEqual(prop.Enum, tc.want) {
			t.Errorf("%s enum = %v, want %v", tc.property, prop.Enum, tc.want)
		}
	}

	if prop := schema.Properties["start_id"]; prop == nil || prop.Enum != nil {
		t.Errorf("start_id should be present without enum: %+v", prop)
	}

	body, err := json.Marshal(schema)
	if err != nil {
		t.Fatalf("marshal schema: %v", err)
	}

	var decoded struct {
		Properties map[string]struct {
			Enum []string `json:"enum"`
		} `json:"properties"`
	}
	if err := json.Unmarshal(body, &decoded); err != nil {
		t.Fatalf("unmarshal schema: %v", err)
	}
	if got := decoded.Properties["direction"].Enum; len(got) != 3 {
		t.Errorf("published direction enum = %v", got)
	}
}
