package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"curriculum/internal/curriculum"
	"curriculum/internal/logging"
)

const trackColumns = "id, title, description_html, default_languages_json, default_reward, source_path"

const missionColumns = "id, track_id, title, description_html, source_path, parents_json, solve_reward, languages_json, stars_json, test_suite_json"

// SaveTrack validates and upserts a track.
func (s *Store) SaveTrack(ctx context.Context, track *curriculum.Track) error {
	if track == nil {
		return errors.New("track is nil")
	}
	if err := validateTrack(track); err != nil {
		return fmt.Errorf("track %q: %w", track.ID, err)
	}
	languages, err := encodeJSON(track.DefaultLanguages)
	if err != nil {
		return fmt.Errorf("encode languages: %w", err)
	}
	runID, _ := logging.RunIDFromContext(ctx)
	now := time.Now().UTC().Format(time.RFC3339Nano)

	err = s.execWithRetry(ctx,
		`INSERT INTO tracks (
            id, title, description_html, default_languages_json, default_reward,
            source_path, run_id, created_at, updated_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
        ON CONFLICT(id) DO UPDATE SET
            title = excluded.title,
            description_html = excluded.description_html,
            default_languages_json = excluded.default_languages_json,
            default_reward = excluded.default_reward,
            source_path = excluded.source_path,
            run_id = excluded.run_id,
            updated_at = excluded.updated_at`,
		track.ID,
		track.Title,
		track.DescriptionHTML,
		languages,
		track.DefaultReward,
		nullableString(track.Path),
		nullableString(runID),
		now,
		now,
	)
	if err != nil {
		return fmt.Errorf("save track %q: %w", track.ID, err)
	}
	return nil
}

// SaveMission validates and upserts a mission. Its track must already be saved.
func (s *Store) SaveMission(ctx context.Context, mission *curriculum.Mission) error {
	if mission == nil {
		return errors.New("mission is nil")
	}
	if err := validateMission(mission); err != nil {
		return fmt.Errorf("mission %q: %w", mission.ID, err)
	}
	parents, err := encodeJSON(mission.Parents)
	if err != nil {
		return fmt.Errorf("encode parents: %w", err)
	}
	languages, err := encodeJSON(mission.Languages)
	if err != nil {
		return fmt.Errorf("encode languages: %w", err)
	}
	stars, err := encodeJSON(mission.Stars)
	if err != nil {
		return fmt.Errorf("encode stars: %w", err)
	}
	tests, err := encodeJSON(mission.TestSuite)
	if err != nil {
		return fmt.Errorf("encode test suite: %w", err)
	}
	runID, _ := logging.RunIDFromContext(ctx)
	now := time.Now().UTC().Format(time.RFC3339Nano)

	err = s.execWithRetry(ctx,
		`INSERT INTO missions (
            id, track_id, title, description_html, source_path, parents_json,
            solve_reward, languages_json, stars_json, test_suite_json,
            run_id, created_at, updated_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
        ON CONFLICT(id) DO UPDATE SET
            track_id = excluded.track_id,
            title = excluded.title,
            description_html = excluded.description_html,
            source_path = excluded.source_path,
            parents_json = excluded.parents_json,
            solve_reward = excluded.solve_reward,
            languages_json = excluded.languages_json,
            stars_json = excluded.stars_json,
            test_suite_json = excluded.test_suite_json,
            run_id = excluded.run_id,
            updated_at = excluded.updated_at`,
		mission.ID,
		mission.Track,
		mission.Title,
		mission.DescriptionHTML,
		nullableString(mission.Path),
		parents,
		mission.SolveReward,
		languages,
		stars,
		tests,
		nullableString(runID),
		now,
		now,
	)
	if err != nil {
		return fmt.Errorf("save mission %q: %w", mission.ID, err)
	}
	return nil
}

// GetTrack fetches a track by ID. It returns nil when no track matches.
func (s *Store) GetTrack(ctx context.Context, id string) (*curriculum.Track, error) {
	row := s.db.QueryRowContext(ensureContext(ctx), `SELECT `+trackColumns+` FROM tracks WHERE id = ?`, id)
	track, err := scanTrack(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get track: %w", err)
	}
	return track, nil
}

// ListTracks returns all tracks ordered by source directory.
func (s *Store) ListTracks(ctx context.Context) ([]*curriculum.Track, error) {
	rows, err := s.db.QueryContext(ensureContext(ctx), `SELECT `+trackColumns+` FROM tracks ORDER BY source_path, id`)
	if err != nil {
		return nil, fmt.Errorf("list tracks: %w", err)
	}
	defer rows.Close()

	var tracks []*curriculum.Track
	for rows.Next() {
		track, err := scanTrack(rows)
		if err != nil {
			return nil, fmt.Errorf("scan track: %w", err)
		}
		tracks = append(tracks, track)
	}
	return tracks, rows.Err()
}

// GetMission fetches a mission by ID. It returns nil when no mission matches.
func (s *Store) GetMission(ctx context.Context, id string) (*curriculum.Mission, error) {
	row := s.db.QueryRowContext(ensureContext(ctx), `SELECT `+missionColumns+` FROM missions WHERE id = ?`, id)
	mission, err := scanMission(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get mission: %w", err)
	}
	return mission, nil
}

// ListMissions returns the missions of a track ordered by source directory.
func (s *Store) ListMissions(ctx context.Context, trackID string) ([]*curriculum.Mission, error) {
	rows, err := s.db.QueryContext(ensureContext(ctx),
		`SELECT `+missionColumns+` FROM missions WHERE track_id = ? ORDER BY source_path, id`, trackID)
	if err != nil {
		return nil, fmt.Errorf("list missions: %w", err)
	}
	defer rows.Close()

	var missions []*curriculum.Mission
	for rows.Next() {
		mission, err := scanMission(rows)
		if err != nil {
			return nil, fmt.Errorf("scan mission: %w", err)
		}
		missions = append(missions, mission)
	}
	return missions, rows.Err()
}

func scanTrack(scanner interface{ Scan(dest ...any) error }) (*curriculum.Track, error) {
	var (
		track      curriculum.Track
		languages  sql.NullString
		sourcePath sql.NullString
	)
	if err := scanner.Scan(
		&track.ID,
		&track.Title,
		&track.DescriptionHTML,
		&languages,
		&track.DefaultReward,
		&sourcePath,
	); err != nil {
		return nil, err
	}
	var err error
	if track.DefaultLanguages, err = decodeJSON[string](languages, "default_languages_json"); err != nil {
		return nil, err
	}
	track.Path = sourcePath.String
	return &track, nil
}

func scanMission(scanner interface{ Scan(dest ...any) error }) (*curriculum.Mission, error) {
	var (
		mission    curriculum.Mission
		sourcePath sql.NullString
		parents    sql.NullString
		languages  sql.NullString
		stars      sql.NullString
		tests      sql.NullString
	)
	if err := scanner.Scan(
		&mission.ID,
		&mission.Track,
		&mission.Title,
		&mission.DescriptionHTML,
		&sourcePath,
		&parents,
		&mission.SolveReward,
		&languages,
		&stars,
		&tests,
	); err != nil {
		return nil, err
	}
	mission.Path = sourcePath.String

	var err error
	if mission.Parents, err = decodeJSON[string](parents, "parents_json"); err != nil {
		return nil, err
	}
	if mission.Languages, err = decodeJSON[string](languages, "languages_json"); err != nil {
		return nil, err
	}
	if mission.Stars, err = decodeJSON[curriculum.Star](stars, "stars_json"); err != nil {
		return nil, err
	}
	if mission.TestSuite, err = decodeJSON[curriculum.TestCase](tests, "test_suite_json"); err != nil {
		return nil, err
	}
	return &mission, nil
}
