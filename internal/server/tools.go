package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

// idProperty is the schema shared by every tool addressing a single entry.
var idProperty = map[string]interface{}{
	"type":        "integer",
	"description": "Entry id as returned by session_list. Ids of removed entries are reused.",
	"minimum":     0,
}

func entrySchema(extra map[string]interface{}, required ...string) map[string]interface{} {
	props := map[string]interface{}{"id": idProperty}
	for k, v := range extra {
		props[k] = v
	}
	return map[string]interface{}{
		"type":       "object",
		"properties": props,
		"required":   append([]string{"id"}, required...),
	}
}

var emptySchema = map[string]interface{}{
	"type":       "object",
	"properties": map[string]interface{}{},
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		// Session
		{
			Name:        "session_list",
			Description: "List the entries of the session in display order with their dimensions, channel count and view state.",
			InputSchema: emptySchema,
		},
		{
			Name:        "session_sweep",
			Description: "Delete every entry flagged by entry_remove and return the removed ids. Flagged entries are also swept automatically before each request.",
			InputSchema: emptySchema,
		},

		// Entry queries
		{
			Name:        "entry_info",
			Description: "Get the dimensions, channel count, threshold settings and origin of one entry.",
			InputSchema: entrySchema(nil),
		},
		{
			Name:        "entry_pixels",
			Description: "Return the displayed image of an entry as base64-encoded PNG, with the threshold applied to one-channel images. Clears the entry's pending redraw flag.",
			InputSchema: entrySchema(nil),
		},
		{
			Name:        "entry_sample",
			Description: "Get the raw sample values of one pixel of an entry, one value per channel.",
			InputSchema: entrySchema(map[string]interface{}{
				"x": map[string]interface{}{
					"type":        "integer",
					"description": "X coordinate (0-based, from left)",
				},
				"y": map[string]interface{}{
					"type":        "integer",
					"description": "Y coordinate (0-based, from top)",
				},
			}, "x", "y"),
		},

		// Threshold
		{
			Name:        "entry_set_threshold",
			Description: "Set the threshold of a one-channel entry. 'binary' maps samples >= cutoff to 255, 'binary_inverted' maps them to 0, 'none' disables thresholding.",
			InputSchema: entrySchema(map[string]interface{}{
				"kind": map[string]interface{}{
					"type":        "string",
					"enum":        []string{"none", "binary", "binary_inverted"},
					"description": "Threshold mode",
				},
				"cutoff": map[string]interface{}{
					"type":        "integer",
					"minimum":     0,
					"maximum":     255,
					"description": "Cutoff sample value. Default 0",
				},
			}, "kind"),
		},

		// Conversions
		{
			Name:        "entry_conversions",
			Description: "List the color conversions available for an entry's channel count.",
			InputSchema: entrySchema(nil),
		},
		{
			Name:        "entry_convert",
			Description: "Apply a color conversion to an entry and append the result as a new entry. Returns converted=false, without adding an entry, when the conversion does not apply to the entry's channel count.",
			InputSchema: entrySchema(map[string]interface{}{
				"conversion": map[string]interface{}{
					"type":        "string",
					"enum":        []string{"gray_to_rgb", "bgr_to_rgb", "rgb_to_gray", "rgb_to_hsv"},
					"description": "Conversion to apply",
				},
			}, "conversion"),
		},
		{
			Name:        "entry_extract_channel",
			Description: "Copy one channel of a three-channel entry into a new one-channel entry.",
			InputSchema: entrySchema(map[string]interface{}{
				"channel": map[string]interface{}{
					"type":        "integer",
					"minimum":     0,
					"maximum":     2,
					"description": "Channel index",
				},
			}, "channel"),
		},

		// Lifecycle
		{
			Name:        "entry_remove",
			Description: "Flag an entry for removal. The entry disappears at the next sweep; flagging an unknown id is a no-op.",
			InputSchema: entrySchema(nil),
		},
		{
			Name:        "entry_export",
			Description: "Write the displayed image of an entry to a PNG file.",
			InputSchema: entrySchema(map[string]interface{}{
				"path": map[string]interface{}{
					"type":        "string",
					"description": "Absolute path of the PNG file to write",
				},
			}, "path"),
		},
	}
}

// handleToolsList returns the list of available tools
func (s *Server) handleToolsList(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"tools": GetToolDefinitions(),
		},
	}
}
