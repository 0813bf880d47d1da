// Package grid loads, inspects, and renders gridded scalar fields for the MCP
// server.
//
// A Grid is a 2D field on a regular or irregular longitude/latitude mesh,
// typically mean sea level pressure. The package provides the collaborators
// the storm detector leaves out: reading grids from disk, caching them,
// cutting sub-regions, point sampling, distance measurement, and rendering
// colormapped previews with storm markers.
//
// # Coordinate System
//
// Values are indexed [row][col] where rows follow latitude and columns follow
// longitude. Both axes are strictly increasing, so row 0 is the southernmost
// row. Rendered images are flipped to the usual north-up orientation.
//
// # File Formats
//
// Grids are described by a JSON file. The values are either inline:
//
//	{"name": "msl", "units": "hPa",
//	 "lon": [0, 2.5, ...], "lat": [-90, -87.5, ...],
//	 "values": [[1012.3, null, ...], ...]}
//
// or come from a grayscale raster next to the JSON file:
//
//	{"lon_start": 0, "lon_step": 2.5, "lat_start": -90, "lat_step": 2.5,
//	 "image": "msl.png", "value_min": 950, "value_max": 1050}
//
// Raster pixels are read at 16-bit precision and scaled linearly into
// [value_min, value_max]. Fully transparent pixels are missing cells; partial
// alpha is ignored when reading the level. Rasters are assumed north-up unless
// "north_up" is false.
//
// Missing cells are null in JSON and NaN in memory.
//
// # Thread Safety
//
// GridCache is safe for concurrent use. Grids returned from the cache are
// shared and must be treated as read-only; Subset and the storm detector copy
// before modifying anything.
package grid
