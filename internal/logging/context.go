package logging

import (
	"context"
	"log/slog"
)

const (
	// FieldComponent is the standardized structured logging key for component names.
	FieldComponent = "component"
	// FieldRunID is the standardized structured logging key for import run identifiers.
	FieldRunID = "run_id"
	// FieldTrack is the standardized structured logging key for track identifiers.
	FieldTrack = "track"
	// FieldMission is the standardized structured logging key for mission identifiers.
	FieldMission = "mission"
	// FieldSubject names the file or directory a diagnostic refers to.
	FieldSubject = "subject"
)

type contextKey int

const (
	runIDKey contextKey = iota
	trackKey
	missionKey
)

// WithRunID tags ctx with the import run identifier.
func WithRunID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, runIDKey, id)
}

// WithTrack tags ctx with the track being imported.
func WithTrack(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, trackKey, id)
}

// WithMission tags ctx with the mission being imported.
func WithMission(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, missionKey, id)
}

// RunIDFromContext returns the run identifier stored on ctx.
func RunIDFromContext(ctx context.Context) (string, bool) {
	return stringFromContext(ctx, runIDKey)
}

func stringFromContext(ctx context.Context, key contextKey) (string, bool) {
	if ctx == nil {
		return "", false
	}
	value, ok := ctx.Value(key).(string)
	if !ok || value == "" {
		return "", false
	}
	return value, true
}

// ContextFields extracts standardized slog attributes from the provided context.
func ContextFields(ctx context.Context) []slog.Attr {
	if ctx == nil {
		return nil
	}
	fields := make([]slog.Attr, 0, 3)
	if id, ok := stringFromContext(ctx, runIDKey); ok {
		fields = append(fields, slog.String(FieldRunID, id))
	}
	if track, ok := stringFromContext(ctx, trackKey); ok {
		fields = append(fields, slog.String(FieldTrack, track))
	}
	if mission, ok := stringFromContext(ctx, missionKey); ok {
		fields = append(fields, slog.String(FieldMission, mission))
	}
	return fields
}

// WithContext returns a logger augmented with structured fields derived from the supplied context.
func WithContext(ctx context.Context, logger *slog.Logger) *slog.Logger {
	if logger == nil {
		logger = NewNop()
	}
	fields := ContextFields(ctx)
	if len(fields) == 0 {
		return logger
	}
	return logger.With(attrsToArgs(fields)...)
}
