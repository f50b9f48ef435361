package importer

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"curriculum/internal/curriculum"
	"curriculum/internal/graph"
	"curriculum/internal/inifile"
	"curriculum/internal/logging"
	"curriculum/internal/slug"
	"curriculum/internal/testsuite"
)

// candidate is a mission whose prerequisites are still raw directory names.
type candidate struct {
	mission  *curriculum.Mission
	requires []string
	subject  string
}

// importMissions builds every mission of track, resolves prerequisites
// against the track graph, and saves the missions in directory order.
func (r *run) importMissions(ctx context.Context, track *curriculum.Track) error {
	entries, err := os.ReadDir(track.Path)
	if err != nil {
		r.diags.Errorf(ctx, r.subject(track.Path), "read track directory: %v", err)
		return nil
	}

	var (
		candidates []*candidate
		byDir      = make(map[string]*candidate)
		owners     = make(map[string]string)
		deps       = graph.New()
	)
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("import canceled: %w", err)
		}
		if !entry.IsDir() {
			continue
		}
		c, ok := r.loadMission(ctx, track, filepath.Join(track.Path, entry.Name()), owners)
		if !ok {
			continue
		}
		if _, err := deps.AddNode(c.mission.ID); err != nil {
			r.diags.Errorf(ctx, c.subject, "add mission to graph: %v", err)
			continue
		}
		candidates = append(candidates, c)
		byDir[entry.Name()] = c
	}

	for _, c := range candidates {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("import canceled: %w", err)
		}
		mission := c.mission
		mctx := logging.WithMission(ctx, mission.ID)
		mission.Parents = r.resolve(mctx, deps, c, byDir)

		if err := r.importer.repo.SaveMission(mctx, mission); err != nil {
			return fmt.Errorf("save mission %s: %w", c.subject, err)
		}
		r.result.Missions = append(r.result.Missions, mission)
		r.summarize(mctx, mission)
	}
	return nil
}

// resolve turns the raw requirement names of c into canonical parent IDs,
// adding an edge for each one that keeps the graph acyclic.
func (r *run) resolve(ctx context.Context, deps *graph.Graph, c *candidate, byDir map[string]*candidate) []string {
	parents := make([]string, 0, len(c.requires))
	for _, name := range c.requires {
		parent, ok := byDir[name]
		if !ok {
			r.diags.Errorf(ctx, c.subject, "unknown requirement %q", name)
			continue
		}
		if deps.HasEdge(parent.mission.ID, c.mission.ID) {
			continue
		}
		if err := deps.AddEdge(parent.mission.ID, c.mission.ID); err != nil {
			if errors.Is(err, graph.ErrCycle) {
				r.diags.Errorf(ctx, c.subject, "circular requirement %q: %v", name, err)
			} else {
				r.diags.Errorf(ctx, c.subject, "requirement %q: %v", name, err)
			}
			continue
		}
		parents = append(parents, parent.mission.ID)
	}
	return parents
}

// loadMission builds the mission in dir with raw prerequisites. owners maps
// claimed mission IDs to their directories; a mission whose ID is already
// claimed is reported and skipped.
func (r *run) loadMission(ctx context.Context, track *curriculum.Track, dir string, owners map[string]string) (*candidate, bool) {
	doc, ok := r.loadDocument(ctx, dir, MissionDescription, MissionConfig)
	if !ok {
		return nil, false
	}

	title := r.title(ctx, doc)
	id := curriculum.MissionID(track.ID, slug.Normalize(title))
	if owner, taken := owners[id]; taken {
		r.diags.Errorf(ctx, doc.subject, "duplicate mission id %q (also used by %s), skipping", id, owner)
		return nil, false
	}
	owners[id] = doc.subject
	ctx = logging.WithMission(ctx, id)

	languages, ok := r.languages(doc)
	if !ok {
		languages = append([]string{}, track.DefaultLanguages...)
	}
	mission := &curriculum.Mission{
		ID:          id,
		Track:       track.ID,
		Title:       title,
		Path:        dir,
		SolveReward: r.reward(ctx, doc, track.DefaultReward),
		Languages:   languages,
		Stars:       r.stars(ctx, doc),
	}
	mission.DescriptionHTML = r.describe(ctx, doc)
	mission.TestSuite = r.tests(ctx, doc)

	return &candidate{
		mission:  mission,
		requires: doc.values.List(inifile.KeyRequires),
		subject:  doc.subject,
	}, true
}

// stars attaches a time and a size goal when the config sets them.
func (r *run) stars(ctx context.Context, doc *document) []curriculum.Star {
	weight := r.importer.cfg.Import.StarWeight
	goals := []struct {
		key   string
		kind  curriculum.StarKind
		label string
	}{
		{inifile.KeyTimeGoal, curriculum.StarTime, TimeStarLabel},
		{inifile.KeySizeGoal, curriculum.StarSize, SizeStarLabel},
	}
	var stars []curriculum.Star
	for _, g := range goals {
		goal, ok := r.intValue(ctx, doc, g.key, 0)
		if !ok || goal == 0 {
			continue
		}
		stars = append(stars, curriculum.Star{Kind: g.kind, Label: g.label, Weight: weight, Goal: goal})
	}
	return stars
}

// tests parses tests.txt when present.
func (r *run) tests(ctx context.Context, doc *document) []curriculum.TestCase {
	path := filepath.Join(doc.dir, MissionTests)
	cases, err := testsuite.ParseFile(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			r.diags.Errorf(ctx, doc.subject, "%v", err)
		}
		return nil
	}
	return cases
}

// summarize records the one-line success summary for a saved mission.
func (r *run) summarize(ctx context.Context, mission *curriculum.Mission) {
	line := Summary(mission)
	r.result.Summaries = append(r.result.Summaries, line)
	if r.importer.out != nil {
		fmt.Fprintln(r.importer.out, line)
	}
	logging.WithContext(ctx, r.importer.logger).Info(
		"mission saved",
		logging.Int("tests", len(mission.TestSuite)),
		logging.Strings("parents", mission.Parents),
		logging.Int("stars", len(mission.Stars)),
	)
}

// Summary formats the success line printed for a mission.
func Summary(mission *curriculum.Mission) string {
	return fmt.Sprintf("%s: %d tests, languages: %s", mission.ID, len(mission.TestSuite), strings.Join(mission.Languages, ", "))
}
