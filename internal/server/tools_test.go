package server

import (
	"testing"

	"github.com/ironsheep/imspect/internal/imaging"
)

func TestGetToolDefinitions(t *testing.T) {
	tools := GetToolDefinitions()

	expectedTools := []string{
		"session_list",
		"session_sweep",
		"entry_info",
		"entry_pixels",
		"entry_sample",
		"entry_set_threshold",
		"entry_conversions",
		"entry_convert",
		"entry_extract_channel",
		"entry_remove",
		"entry_export",
	}

	toolMap := make(map[string]Tool)
	for _, tool := range tools {
		if _, dup := toolMap[tool.Name]; dup {
			t.Errorf("Tool %s defined twice", tool.Name)
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

func TestToolDefinitions_Dispatched(t *testing.T) {
	s := newTestServer(t)
	for _, tool := range GetToolDefinitions() {
		t.Run(tool.Name, func(t *testing.T) {
			_, err := s.executeTool(tool.Name, nil)
			if err != nil && err.Error() == "unknown tool: "+tool.Name {
				t.Error("tool is listed but not dispatched")
			}
		})
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
			if _, ok := tool.InputSchema["properties"].(map[string]interface{}); !ok {
				t.Error("InputSchema properties should be a map")
			}
		})
	}
}

func TestToolDefinitions_RequiredID(t *testing.T) {
	for _, tool := range GetToolDefinitions() {
		if tool.Name == "session_list" || tool.Name == "session_sweep" {
			continue
		}
		t.Run(tool.Name, func(t *testing.T) {
			required, ok := tool.InputSchema["required"].([]string)
			if !ok {
				t.Fatal("'required' should be a string slice")
			}
			props := tool.InputSchema["properties"].(map[string]interface{})

			hasID := false
			for _, r := range required {
				if r == "id" {
					hasID = true
				}
				if _, ok := props[r]; !ok {
					t.Errorf("required parameter %q has no property", r)
				}
			}
			if !hasID {
				t.Error("Tool should require 'id' parameter")
			}
		})
	}
}

func TestToolDefinitions_ConversionEnum(t *testing.T) {
	var convert Tool
	for _, tool := range GetToolDefinitions() {
		if tool.Name == "entry_convert" {
			convert = tool
		}
	}
	if convert.Name == "" {
		t.Fatal("entry_convert tool not found")
	}

	props := convert.InputSchema["properties"].(map[string]interface{})
	prop := props["conversion"].(map[string]interface{})
	enum, ok := prop["enum"].([]string)
	if !ok {
		t.Fatal("conversion enum should be a string slice")
	}

	if len(enum) != len(imaging.Conversions) {
		t.Fatalf("enum has %d values, want %d", len(enum), len(imaging.Conversions))
	}
	for i, c := range imaging.Conversions {
		if enum[i] != string(c) {
			t.Errorf("enum[%d]: got %s, want %s", i, enum[i], c)
		}
	}
}

func TestToolDefinitions_ThresholdEnum(t *testing.T) {
	var tool Tool
	for _, tt := range GetToolDefinitions() {
		if tt.Name == "entry_set_threshold" {
			tool = tt
		}
	}
	props := tool.InputSchema["properties"].(map[string]interface{})
	enum := props["kind"].(map[string]interface{})["enum"].([]string)

	for _, name := range enum {
		if _, err := imaging.ParseThresholdKind(name); err != nil {
			t.Errorf("enum value %q not accepted: %v", name, err)
		}
	}
}
