// Package server implements the MCP (Model Context Protocol) server for storm
// detection tools.
//
// This package provides a JSON-RPC 2.0 server that exposes gridded-field
// analysis through the MCP protocol, so that MCP clients can load pressure or
// height fields, locate closed lows and highs, and render the result.
//
// # Protocol
//
// The server communicates over stdio using JSON-RPC 2.0:
//   - Input: JSON-RPC requests on stdin (one per line)
//   - Output: JSON-RPC responses on stdout
//
// Supported MCP methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// # Available Tools
//
// Grid Information:
//   - grid_load: Load a grid and describe its shape and ranges
//   - grid_sample: Value of the cell nearest a lon/lat point
//   - grid_measure_distance: Great-circle distance and bearing
//
// Storm Detection:
//   - storms_detect: Closed lows (cyclonic) or highs (anticyclonic)
//
// Rendering:
//   - grid_render: Colormapped PNG with optional storm markers
//
// # Grid Caching
//
// Grids are cached by path and reused across tool calls. Detection always runs
// on a copy, so erasing accepted interiors never leaks into the cache.
//
// # Configuration
//
// [ConfigFromEnv] reads STORM_MCP_LOG_LEVEL, STORM_MCP_MIN_PIXELS and
// STORM_MCP_RENDER_SCALE. With STORM_MCP_LOG_LEVEL=debug every request and
// every detection run is logged to stderr.
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with:
//   - code: -32000 (tool execution failure) or standard JSON-RPC codes
//   - message: Human-readable error description
//   - data: The Go error string
//
// # Usage
//
//	cfg, err := server.ConfigFromEnv()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := server.New(cfg).Run(); err != nil {
//	    log.Fatal(err)
//	}
package server
