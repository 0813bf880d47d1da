package server

import (
	"testing"
)

func TestGetToolDefinitions(t *testing.T) {
	tools := GetToolDefinitions()

	expectedTools := []string{
		"grid_load",
		"grid_sample",
		"grid_measure_distance",
		"storms_detect",
		"grid_render",
	}

	toolMap := make(map[string]Tool)
	for _, tool := range tools {
		if _, dup := toolMap[tool.Name]; dup {
			t.Errorf("duplicate tool %s", tool.Name)
		}
		toolMap[tool.Name] = tool
	}

	for _, name := range expectedTools {
		if _, ok := toolMap[name]; !ok {
			t.Errorf("Expected tool %s not found", name)
		}
	}
	if len(tools) != len(expectedTools) {
		t.Errorf("got %d tools, want %d", len(tools), len(expectedTools))
	}
}

func TestToolDefinitions_Structure(t *testing.T) {
	for _, tool := range GetToolDefinitions() {
		t.Run(tool.Name, func(t *testing.T) {
			if tool.Description == "" {
				t.Error("Tool description is empty")
			}
			if tool.InputSchema["type"] != "object" {
				t.Errorf("InputSchema type: got %v, want 'object'", tool.InputSchema["type"])
			}

			props, ok := tool.InputSchema["properties"].(map[string]interface{})
			if !ok {
				t.Fatal("InputSchema missing 'properties' field")
			}

			// Every required parameter must be declared.
			required, ok := tool.InputSchema["required"].([]string)
			if !ok {
				t.Fatal("'required' should be a string slice")
			}
			for _, r := range required {
				if _, ok := props[r]; !ok {
					t.Errorf("required parameter %q has no property", r)
				}
			}
		})
	}
}

func TestToolDefinitions_Required(t *testing.T) {
	want := map[string][]string{
		"grid_load":             {"path"},
		"grid_sample":           {"path", "lon", "lat"},
		"grid_measure_distance": {"lon1", "lat1", "lon2", "lat2"},
		"storms_detect":         {"path", "polarity"},
		"grid_render":           {"path"},
	}

	for _, tool := range GetToolDefinitions() {
		t.Run(tool.Name, func(t *testing.T) {
			required := tool.InputSchema["required"].([]string)
			if len(required) != len(want[tool.Name]) {
				t.Fatalf("required: got %v, want %v", required, want[tool.Name])
			}
			for i, r := range want[tool.Name] {
				if required[i] != r {
					t.Errorf("required[%d]: got %s, want %s", i, required[i], r)
				}
			}
		})
	}
}

func TestToolDefinitions_PolarityEnum(t *testing.T) {
	for _, tool := range GetToolDefinitions() {
		props := tool.InputSchema["properties"].(map[string]interface{})
		p, ok := props["polarity"].(map[string]interface{})
		if !ok {
			continue
		}
		enum, ok := p["enum"].([]string)
		if !ok || len(enum) != 2 || enum[0] != "cyclonic" || enum[1] != "anticyclonic" {
			t.Errorf("%s polarity enum: got %v", tool.Name, p["enum"])
		}
	}
}
