package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

// regionSchema describes the optional lon/lat box accepted by several tools.
var regionSchema = map[string]interface{}{
	"type": "object",
	"properties": map[string]interface{}{
		"lon_min": map[string]interface{}{"type": "number"},
		"lon_max": map[string]interface{}{"type": "number"},
		"lat_min": map[string]interface{}{"type": "number"},
		"lat_max": map[string]interface{}{"type": "number"},
	},
	"required":    []string{"lon_min", "lon_max", "lat_min", "lat_max"},
	"description": "Optional inclusive longitude/latitude box. If omitted, the whole grid is used.",
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		// Grid Information
		{
			Name:        "grid_load",
			Description: "Load a gridded field (JSON grid file, optionally backed by a grayscale raster) and return its shape, coordinate ranges, value range, and whether it is global.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the JSON grid file",
					},
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "grid_sample",
			Description: "Get the value of the grid cell nearest to a longitude/latitude point.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the JSON grid file",
					},
					"lon": map[string]interface{}{
						"type":        "number",
						"description": "Longitude in the grid's convention",
					},
					"lat": map[string]interface{}{
						"type":        "number",
						"description": "Latitude in degrees north",
					},
				},
				"required": []string{"path", "lon", "lat"},
			},
		},
		{
			Name:        "grid_measure_distance",
			Description: "Measure the great-circle distance and initial bearing between two longitude/latitude points.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"lon1": map[string]interface{}{"type": "number", "description": "First point longitude"},
					"lat1": map[string]interface{}{"type": "number", "description": "First point latitude"},
					"lon2": map[string]interface{}{"type": "number", "description": "Second point longitude"},
					"lat2": map[string]interface{}{"type": "number", "description": "Second point latitude"},
				},
				"required": []string{"lon1", "lat1", "lon2", "lat2"},
			},
		},

		// Storm Detection
		{
			Name:        "storms_detect",
			Description: "Detect closed low (cyclonic) or high (anticyclonic) pressure systems with a 200-level threshold sweep. Returns centroid longitude/latitude, the extremum value, and the amplitude above the surrounding boundary for each system.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the JSON grid file",
					},
					"polarity": map[string]interface{}{
						"type":        "string",
						"enum":        []string{"cyclonic", "anticyclonic"},
						"description": "cyclonic finds minima, anticyclonic finds maxima",
					},
					"min_pixels": map[string]interface{}{
						"type":        "integer",
						"description": "Minimum region size in grid cells (default 9)",
						"default":     9,
					},
					"periodic": map[string]interface{}{
						"type":        "boolean",
						"description": "Wrap around the 0/360 longitude seam. Defaults to true for global grids when no region is given. Requires longitudes in [0, 360).",
					},
					"region": regionSchema,
				},
				"required": []string{"path", "polarity"},
			},
		},

		// Rendering
		{
			Name:        "grid_render",
			Description: "Render the grid as a colormapped north-up PNG (base64). Optionally runs storm detection and marks each system with a cross.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the JSON grid file",
					},
					"scale": map[string]interface{}{
						"type":        "integer",
						"description": "Output pixels per grid cell (default 4)",
					},
					"graticule": map[string]interface{}{
						"type":        "number",
						"description": "Spacing of longitude/latitude lines in degrees. 0 disables them. Spacings that would draw more lines than the grid has rows plus columns are rejected.",
						"default":     0,
					},
					"polarity": map[string]interface{}{
						"type":        "string",
						"enum":        []string{"cyclonic", "anticyclonic"},
						"description": "If set, detect systems of this polarity and mark them",
					},
					"min_pixels": map[string]interface{}{
						"type":        "integer",
						"description": "Minimum region size for marked systems (default 9)",
					},
					"periodic": map[string]interface{}{
						"type":        "boolean",
						"description": "Wrap around the 0/360 seam when detecting",
					},
					"region": regionSchema,
					"low_color": map[string]interface{}{
						"type":        "string",
						"description": "Hex colour for the minimum value (default #2c7bb6)",
					},
					"mid_color": map[string]interface{}{
						"type":        "string",
						"description": "Hex colour for the midpoint (default #ffffbf)",
					},
					"high_color": map[string]interface{}{
						"type":        "string",
						"description": "Hex colour for the maximum value (default #d7191c)",
					},
				},
				"required": []string{"path"},
			},
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
