package diag

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"curriculum/internal/logging"
)

// Severity classifies a diagnostic.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Entry is a single diagnostic. Subject names the file, directory, or
// identifier the message is about.
type Entry struct {
	Severity Severity
	Subject  string
	Message  string
}

// String renders the entry as a single human-readable line.
func (e Entry) String() string {
	if strings.TrimSpace(e.Subject) == "" {
		return fmt.Sprintf("%s: %s", e.Severity, e.Message)
	}
	return fmt.Sprintf("%s: %s: %s", e.Severity, e.Subject, e.Message)
}

// Collector accumulates entries. The zero value is ready to use and discards
// log mirroring.
type Collector struct {
	mu      sync.Mutex
	entries []Entry
	logger  *slog.Logger
}

// NewCollector returns a collector that mirrors entries to logger.
func NewCollector(logger *slog.Logger) *Collector {
	return &Collector{logger: logging.NewComponentLogger(logger, "diagnostics")}
}

// Add records an entry.
func (c *Collector) Add(ctx context.Context, severity Severity, subject, message string) {
	entry := Entry{Severity: severity, Subject: subject, Message: message}

	c.mu.Lock()
	c.entries = append(c.entries, entry)
	logger := c.logger
	c.mu.Unlock()

	if logger == nil {
		return
	}
	logger = logging.WithContext(ctx, logger)
	attrs := logging.Args(logging.String(logging.FieldSubject, subject))
	switch severity {
	case SeverityError:
		logger.Error(message, attrs...)
	case SeverityWarning:
		logger.Warn(message, attrs...)
	default:
		logger.Info(message, attrs...)
	}
}

// Errorf records an error entry.
func (c *Collector) Errorf(ctx context.Context, subject, format string, args ...any) {
	c.Add(ctx, SeverityError, subject, fmt.Sprintf(format, args...))
}

// Warnf records a warning entry.
func (c *Collector) Warnf(ctx context.Context, subject, format string, args ...any) {
	c.Add(ctx, SeverityWarning, subject, fmt.Sprintf(format, args...))
}

// Entries returns a copy of the recorded entries in arrival order.
func (c *Collector) Entries() []Entry {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Entry, len(c.entries))
	copy(out, c.entries)
	return out
}

// Count returns the number of entries with the given severity.
func (c *Collector) Count(severity Severity) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, e := range c.entries {
		if e.Severity == severity {
			n++
		}
	}
	return n
}

// HasErrors reports whether any error entry was recorded.
func (c *Collector) HasErrors() bool {
	return c.Count(SeverityError) > 0
}
