// Package services implements the catalog operations shared by the HTTP server, the CLI and the TUI.
//
// # Catalog Interface
//
// Transports depend on the [Catalog] interface so they can be exercised against a test double.
// [CatalogService] implements it on top of a [repositories.SongRepository].
//
// # Queries
//
// [CatalogService.ListPage] slices the table in insertion order. A page that starts past the end
// of the table is not an error: it yields an [OutOfBounds] description carrying the row count and
// the last valid page for the requested limit. [CatalogService.FindByTitle] matches titles
// case-insensitively and exactly.
//
// # Ratings
//
// [CatalogService.UpdateRating] validates in a fixed order (type, then range, then id) so callers
// can classify failures, applies the rating to every row with the id, and saves the table before
// returning. Applied changes are appended to the rating history when one is configured.
//
// # Error Handling
//
// Operations return wrapped sentinel errors from the shared package:
//   - [shared.ErrParameterNotInteger], [shared.ErrParameterNotPositive] : bad page or limit
//   - [shared.ErrInvalidInput] : rating missing or not an integer
//   - [shared.ErrInvalidRange] : rating outside 0-5
//   - [shared.ErrNotFound] : no matching title, id or rows
//   - [shared.ErrPersistence] : the table could not be saved
//   - [shared.ErrHistoryDisabled] : history requested without a database
package services
