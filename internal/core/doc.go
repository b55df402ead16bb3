// Package core provides the import service behind the HTTP server.
//
// It owns everything between a transport and the database: admission control, the
// per-import timeout, turning parser and store failures into user-facing errors, and
// background retention. Web handlers and tests use it without modification.
//
// # Import Flow
//
//  1. Client calls [Service.Import] with an [ImportRequest] wrapping an io.Reader
//  2. The [ImportLimiter] admits the import or fails with [ErrTooManyImports]
//  3. The reader is parsed column by column; each column's type is decided once
//     from a sample value and reused for every row
//  4. Columns and readings are stored in one transaction
//
// Files are parsed in a single pass. Memory grows with the raw cell text, so
// IMPORT_MAX_FILE_SIZE bounds the worst case.
//
// # Error Handling
//
// Technical errors are mapped to user-friendly messages using [MapError].
// Each error category has a unique code for support reference:
//
//   - IMP001-IMP006: Import errors (not found, busy, time column, cancelled, timeout)
//   - FILE001-FILE005: File errors (size, parse, empty, missing, no rows)
//   - DB001-DB004: Database errors (connection, timeout, deadlock)
//   - REQ001, RATE001: Request errors
//
// # Retention
//
// [Service.StartRetentionScheduler] deletes imports older than IMPORT_RETENTION.
// It is off by default.
package core
