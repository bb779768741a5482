// Package core provides the business logic for the master data import service.
//
// The package holds all domain logic independent of HTTP or storage details.
// Web handlers and tests drive it through [Service].
//
// # Import Pipeline
//
// An uploaded workbook becomes an import session in four pure steps:
//
//  1. [ReadWorkbook] decodes the first sheet into a grid of strings
//  2. [LocateHeader] picks the row in the first 20 that names the most fields
//  3. [MapColumns] binds every field to a column, failing with the full list
//     of missing names
//  4. [ExtractRows] coerces each data row, skipping blank rows and rows
//     without a serial number
//
// Failures are returned as *[ImportError] with a kind, a message and optional
// details. No session is created for a failed parse.
//
// # Review and Sync
//
// Each [ImportSession] keeps its rows with validation errors and a sync
// status (idle, pending, success, error). Edits merge a [RowPatch] and
// revalidate only that row. [Service.SyncSession] sends valid rows in
// batches with bounded concurrency; a batch failure marks only its own rows.
//
// # Testing and Reports
//
// Synced rows are evaluated against the newest rig reading with [Evaluate]
// and stored as tested results. [WriteTestedReport] and [WriteFailedRows]
// render xlsx downloads.
//
// # Error Handling
//
// Technical errors are mapped to user-facing messages with codes by
// [MapError]. See error_messages.go for the code table.
package core
