// Package storms detects closed pressure systems in a gridded scalar field.
//
// The detector is an adaptation of the eddy-detection method of Chelton et
// al. (Prog. Oceanogr., 2011, App. B.2). Instead of tracking features over
// time, it performs a single spatial pass that looks for closed-contour
// regions satisfying size, extremum, and amplitude criteria.
//
// # Algorithm Overview
//
//  1. Padding: For global grids, the field is extended by 20° of longitude
//     taken from the opposite edge so systems on the 0/360° seam stay whole
//  2. Threshold Sweep: 200 evenly spaced levels between the field minimum and
//     maximum, ascending for cyclones and descending for anticyclones
//  3. Labeling: At each level, cells below (cyclonic) or above (anticyclonic)
//     the level are grouped into 4-connected regions
//  4. Acceptance: A region must be large enough, have a non-empty interior
//     after one erosion pass, hold a strict extremum in that interior, and
//     stand out from its boundary by at least one level spacing
//  5. Erasure: The interior of an accepted region is marked undefined so
//     looser levels cannot rediscover the same core
//
// # Polarity
//
// Cyclonic detection looks for local minima (low pressure). Anticyclonic
// detection looks for local maxima (high pressure).
//
// # Coordinate System
//
// Fields are indexed (row, col) where rows follow latitude and columns follow
// longitude. Both axes must be strictly increasing. Centroids are mapped to
// coordinates by linear interpolation over the axis index range.
//
// # Undefined Cells
//
// A Field carries a validity mask next to its values. Undefined cells never
// join a region and are excluded from every reduction. NaN values supplied to
// NewField are treated as undefined.
//
// # Concurrency
//
// Detection is synchronous and allocates its own working buffer, so concurrent
// calls on different inputs are safe. A Field passed to DetectField is mutated
// and must not be shared while detection runs.
package storms
