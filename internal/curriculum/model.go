package curriculum

import "context"

// StarKind names the metric a star goal measures.
type StarKind string

const (
	// StarTime rewards solutions under a runtime goal.
	StarTime StarKind = "time"
	// StarSize rewards solutions under a code size goal.
	StarSize StarKind = "size"
)

// IDSeparator joins a track ID and a mission slug.
const IDSeparator = ":"

// Track is a named curriculum unit owning an ordered set of missions.
type Track struct {
	ID               string   `json:"id" yaml:"id"`
	Title            string   `json:"title" yaml:"title"`
	DescriptionHTML  string   `json:"description_html" yaml:"description_html"`
	DefaultLanguages []string `json:"default_languages" yaml:"default_languages"`
	DefaultReward    int      `json:"default_reward" yaml:"default_reward"`
	Path             string   `json:"path" yaml:"path"`
}

// Mission is a single exercise within a track. Parents holds canonical
// mission IDs once the import has resolved prerequisites.
type Mission struct {
	ID              string     `json:"id" yaml:"id"`
	Track           string     `json:"track" yaml:"track"`
	Title           string     `json:"title" yaml:"title"`
	DescriptionHTML string     `json:"description_html" yaml:"description_html"`
	Path            string     `json:"path" yaml:"path"`
	Parents         []string   `json:"parents" yaml:"parents"`
	SolveReward     int        `json:"solve_reward" yaml:"solve_reward"`
	Languages       []string   `json:"languages" yaml:"languages"`
	Stars           []Star     `json:"stars" yaml:"stars,omitempty"`
	TestSuite       []TestCase `json:"test_suite" yaml:"test_suite,omitempty"`
}

// Star is an optional scoring goal attached to a mission.
type Star struct {
	Kind   StarKind `json:"kind" yaml:"kind"`
	Label  string   `json:"label" yaml:"label"`
	Weight int      `json:"weight" yaml:"weight"`
	Goal   int      `json:"goal" yaml:"goal"`
}

// TestCase pairs an input block with its expected output.
type TestCase struct {
	Input  string `json:"input" yaml:"input"`
	Output string `json:"output" yaml:"output"`
}

// MissionID builds the canonical mission identifier from a track ID and a
// mission slug.
func MissionID(trackID, missionSlug string) string {
	return trackID + IDSeparator + missionSlug
}

// Repository persists imported tracks and missions. Saves are upserts keyed
// by ID so re-running an import is idempotent.
type Repository interface {
	SaveTrack(ctx context.Context, track *Track) error
	SaveMission(ctx context.Context, mission *Mission) error
}
