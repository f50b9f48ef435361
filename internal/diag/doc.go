// Package diag collects recoverable anomalies raised during an import.
//
// Library code never writes to stdout or stderr directly. Each stage records
// an Entry on the Collector it was handed; the caller decides how to render
// the accumulated list once the run completes. Entries are mirrored to the
// collector's slog logger as they arrive so log files carry the same record.
package diag
