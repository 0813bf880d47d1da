package server

import (
	"encoding/json"
	"fmt"
	"log"

	"github.com/ironsheep/storm-tools-mcp/internal/grid"
	"github.com/ironsheep/storm-tools-mcp/internal/storms"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "grid_load", "storms_detect").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Tool execution errors return a JSON-RPC error response with code -32000.
func (s *Server) handleToolsCall(req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	result, err := s.executeTool(params.Name, params.Arguments)
	if err != nil {
		if s.cfg.Debug() {
			log.Printf("tool %s failed: %v", params.Name, err)
		}
		return s.errorResponse(req.ID, -32000, "Tool execution failed", err.Error())
	}

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"content": []map[string]interface{}{
				{
					"type": "text",
					"text": mustMarshalJSON(result),
				},
			},
		},
	}
}

// executeTool dispatches tool execution to the appropriate handler function.
//
// Each tool handler:
//  1. Unmarshals arguments from JSON
//  2. Applies default values for optional parameters
//  3. Loads grids from cache as needed
//  4. Calls the appropriate grid/storms function
//  5. Returns the result or error
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	switch name {
	// Grid Information
	case "grid_load":
		return s.handleGridLoad(args)
	case "grid_sample":
		return s.handleGridSample(args)
	case "grid_measure_distance":
		return s.handleGridMeasureDistance(args)

	// Storm Detection
	case "storms_detect":
		return s.handleStormsDetect(args)

	// Rendering
	case "grid_render":
		return s.handleGridRender(args)

	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// errorResponse creates a JSON-RPC error response with the given details.
func (s *Server) errorResponse(id interface{}, code int, message, data string) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error: &MCPError{
			Code:    code,
			Message: message,
			Data:    data,
		},
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON. A marshal error
// yields an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// === Grid Information Handlers ===

type gridLoadArgs struct {
	Path string `json:"path"`
}

func (s *Server) handleGridLoad(args json.RawMessage) (interface{}, error) {
	var a gridLoadArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	g, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	return grid.Describe(g), nil
}

type gridSampleArgs struct {
	Path string  `json:"path"`
	Lon  float64 `json:"lon"`
	Lat  float64 `json:"lat"`
}

func (s *Server) handleGridSample(args json.RawMessage) (interface{}, error) {
	var a gridSampleArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	g, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	return grid.Sample(g, a.Lon, a.Lat)
}

type gridMeasureDistanceArgs struct {
	Lon1 float64 `json:"lon1"`
	Lat1 float64 `json:"lat1"`
	Lon2 float64 `json:"lon2"`
	Lat2 float64 `json:"lat2"`
}

func (s *Server) handleGridMeasureDistance(args json.RawMessage) (interface{}, error) {
	var a gridMeasureDistanceArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	return grid.MeasureDistance(a.Lon1, a.Lat1, a.Lon2, a.Lat2)
}

// === Storm Detection Handlers ===

// detectArgs are the detection settings shared by storms_detect and
// grid_render. Pointer fields distinguish "unset" from zero values.
type detectArgs struct {
	Polarity  string    `json:"polarity"`
	MinPixels *int      `json:"min_pixels"`
	Periodic  *bool     `json:"periodic"`
	Region    *grid.Box `json:"region"`
}

type stormsDetectArgs struct {
	Path string `json:"path"`
	detectArgs
}

// StormsDetectResult is the storms_detect tool output.
type StormsDetectResult struct {
	Source    string    `json:"source"`
	Polarity  string    `json:"polarity"`
	MinPixels int       `json:"min_pixels"`
	Periodic  bool      `json:"periodic"`
	Region    *grid.Box `json:"region,omitempty"`

	// Count is the number of detected systems.
	Count  int            `json:"count"`
	Storms []storms.Storm `json:"storms"`

	Levels  int     `json:"levels"`
	Spacing float64 `json:"spacing"`
}

func (s *Server) handleStormsDetect(args json.RawMessage) (interface{}, error) {
	var a stormsDetectArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	g, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}

	_, params, res, err := s.detect(g, a.detectArgs)
	if err != nil {
		return nil, err
	}

	return &StormsDetectResult{
		Source:    a.Path,
		Polarity:  params.Polarity.String(),
		MinPixels: params.MinPixels,
		Periodic:  params.Periodic,
		Region:    a.Region,
		Count:     len(res.Storms),
		Storms:    res.Storms,
		Levels:    res.Levels,
		Spacing:   res.Spacing,
	}, nil
}

// detect subsets g when a region is given, resolves defaults, and runs the
// detector. It returns the grid that was searched so callers can render it.
//
// Periodic mode defaults to on for global grids searched without a region.
func (s *Server) detect(g *grid.Grid, a detectArgs) (*grid.Grid, storms.Params, *storms.Result, error) {
	params := storms.Params{MinPixels: s.cfg.MinPixels}

	polarity, err := storms.ParsePolarity(a.Polarity)
	if err != nil {
		return nil, params, nil, err
	}
	params.Polarity = polarity

	if a.MinPixels != nil {
		params.MinPixels = *a.MinPixels
	}

	target := g
	if a.Region != nil {
		target, err = grid.Subset(g, *a.Region)
		if err != nil {
			return nil, params, nil, err
		}
	}

	if a.Periodic != nil {
		params.Periodic = *a.Periodic
	} else {
		params.Periodic = a.Region == nil && grid.Describe(target).Global
	}

	res, err := storms.Detect(target.Values, target.Lon, target.Lat, params)
	if err != nil {
		return nil, params, nil, err
	}

	if s.cfg.Debug() {
		log.Printf("%s: %d %s systems (min_pixels=%d, periodic=%v, spacing=%.4g)",
			g.Source, len(res.Storms), polarity, params.MinPixels, params.Periodic, res.Spacing)
	}

	return target, params, res, nil
}

// === Rendering Handlers ===

type gridRenderArgs struct {
	Path      string  `json:"path"`
	Scale     int     `json:"scale"`
	Graticule float64 `json:"graticule"`
	LowColor  string  `json:"low_color"`
	MidColor  string  `json:"mid_color"`
	HighColor string  `json:"high_color"`
	detectArgs
}

func (s *Server) handleGridRender(args json.RawMessage) (interface{}, error) {
	var a gridRenderArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Scale == 0 {
		a.Scale = s.cfg.RenderScale
	}
	g, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}

	target := g
	var found *storms.Result
	switch {
	case a.Polarity != "":
		target, _, found, err = s.detect(g, a.detectArgs)
		if err != nil {
			return nil, err
		}
	case a.Region != nil:
		target, err = grid.Subset(g, *a.Region)
		if err != nil {
			return nil, err
		}
	}

	return grid.Render(target, found, grid.RenderOptions{
		Scale:     a.Scale,
		Graticule: a.Graticule,
		LowColor:  a.LowColor,
		MidColor:  a.MidColor,
		HighColor: a.HighColor,
	})
}
