// Package tasks runs multi-step playlist operations with non-blocking progress reporting.
//
// # Core Operations
//
// [ChartEngine] combines the chart feed, the title/artist resolver and the playlist API:
//
//  1. [ChartEngine.Import] : Chart → playlist
//     - Fetches the top N chart entries
//     - Resolves each entry to a Spotify track by title and artist
//     - Creates the destination playlist when no ID is given
//     - Adds every matched URI in one call and reports unmatched entries
//
//  2. [ChartEngine.Diff] : Compare a playlist against the chart
//     - Matches by normalized "title|artist" key
//     - Reports chart entries already present and those missing
//
//  3. [ChartEngine.BulkExport] : Export many playlists to disk
//     - A bounded worker pool fetches and writes each playlist
//     - Writes a manifest summarizing successes and failures
//
// # Progress Reporting
//
// All operations accept an optional progress channel. The [ProgressUpdate] struct carries the phase,
// step counters, a message, and optional data. Sends use select with default so a slow or absent
// reader never blocks the operation.
package tasks
