// Package importer walks a curriculum content tree and turns track and
// mission directories into validated records.
//
// Each track directory is rendered and saved before its missions. Missions
// are built in two passes: the first loads every mission directory and
// registers it as a graph node, the second resolves the raw prerequisite
// names typed in config.ini into canonical mission IDs, dropping unknown
// and circular requirements with a diagnostic. Recoverable anomalies never
// abort a run; only repository failures, an unreadable root, or context
// cancellation do.
package importer
