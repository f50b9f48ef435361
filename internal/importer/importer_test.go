package importer_test

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/gofrs/flock"

	"curriculum/internal/config"
	"curriculum/internal/curriculum"
	"curriculum/internal/diag"
	"curriculum/internal/importer"
	"curriculum/internal/resources"
	"curriculum/internal/testsupport"
)

func runImport(t *testing.T, cfg *config.Config, opts ...importer.Option) (*importer.Result, *curriculum.MemoryRepository) {
	t.Helper()
	repo := &curriculum.MemoryRepository{}
	result, err := importer.New(cfg, repo, opts...).Run(context.Background(), cfg.Paths.ContentDir)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	return result, repo
}

func findDiagnostics(result *importer.Result, severity diag.Severity, substr string) []diag.Entry {
	var out []diag.Entry
	for _, e := range result.Diagnostics {
		if e.Severity == severity && strings.Contains(e.Message, substr) {
			out = append(out, e)
		}
	}
	return out
}

func TestImportBuildsTracksAndMissions(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithContentTree(map[string]string{
		"01-basics/track.md":          "Learn the *basics*.\n",
		"01-basics/track.ini":         "title = Basics\nlanguages = go, python\nreward = 20\n",
		"01-basics/hello/mission.md":  "Print a greeting.\n",
		"01-basics/hello/config.ini":  "title = Hello, World!\n",
		"01-basics/hello/tests.txt":   "===\nAda\n---\nHello, Ada\n===\nBob\n---\nHello, Bob\n",
		"01-basics/loops/mission.md":  "Count.\n",
		"01-basics/loops/config.ini":  "title = Loops\nreq = hello\nreward = 30\n",
		"01-basics/notes.txt":         "not a mission",
		"01-basics/drafts/readme.txt": "no mission.md here",
	}))

	var out bytes.Buffer
	result, repo := runImport(t, cfg, importer.WithOutput(&out))

	if n := len(result.Diagnostics); n != 0 {
		t.Fatalf("expected no diagnostics, got %v", result.Diagnostics)
	}
	track := repo.Track("Basics")
	if track == nil {
		t.Fatal("expected Basics track")
	}
	if track.DefaultReward != 20 || !reflect.DeepEqual(track.DefaultLanguages, []string{"go", "python"}) {
		t.Fatalf("unexpected track %#v", track)
	}
	if !strings.Contains(track.DescriptionHTML, "<em>basics</em>") {
		t.Fatalf("unexpected description %q", track.DescriptionHTML)
	}

	hello := repo.Mission("Basics:Hello_World_")
	if hello == nil {
		t.Fatalf("expected hello mission, got %v", repo.Missions())
	}
	if hello.Track != "Basics" || hello.SolveReward != 20 || len(hello.TestSuite) != 2 {
		t.Fatalf("unexpected hello mission %#v", hello)
	}
	if hello.TestSuite[1] != (curriculum.TestCase{Input: "Bob\n", Output: "Hello, Bob\n"}) {
		t.Fatalf("unexpected test case %#v", hello.TestSuite[1])
	}

	loops := repo.Mission("Basics:Loops")
	if loops == nil {
		t.Fatal("expected loops mission")
	}
	if !reflect.DeepEqual(loops.Parents, []string{"Basics:Hello_World_"}) || loops.SolveReward != 30 {
		t.Fatalf("unexpected loops mission %#v", loops)
	}

	wantSummaries := []string{
		"Basics:Hello_World_: 2 tests, languages: go, python",
		"Basics:Loops: 0 tests, languages: go, python",
	}
	if !reflect.DeepEqual(result.Summaries, wantSummaries) {
		t.Fatalf("summaries = %v", result.Summaries)
	}
	if out.String() != strings.Join(wantSummaries, "\n")+"\n" {
		t.Fatalf("unexpected output %q", out.String())
	}
}

func TestThreeCycleRejectsOnlyClosingEdge(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithContentTree(map[string]string{
		"t/track.md":     "Track.\n",
		"t/track.ini":    "title = T\n",
		"t/a/mission.md": "A.\n",
		"t/a/config.ini": "title = A\nreq = c\n",
		"t/b/mission.md": "B.\n",
		"t/b/config.ini": "title = B\nreq = a\n",
		"t/c/mission.md": "C.\n",
		"t/c/config.ini": "title = C\nreq = b\n",
	}))

	result, repo := runImport(t, cfg)

	want := map[string][]string{
		"T:A": {"T:C"},
		"T:B": {"T:A"},
		"T:C": {},
	}
	for id, parents := range want {
		m := repo.Mission(id)
		if m == nil {
			t.Fatalf("mission %s not persisted", id)
		}
		if !reflect.DeepEqual(m.Parents, parents) {
			t.Fatalf("%s parents = %v, want %v", id, m.Parents, parents)
		}
	}
	circular := findDiagnostics(result, diag.SeverityError, "circular requirement")
	if len(circular) != 1 || circular[0].Subject != "t/c" {
		t.Fatalf("expected one circular diagnostic for t/c, got %v", result.Diagnostics)
	}
}

func TestSelfRequirementIsCircular(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithContentTree(map[string]string{
		"t/track.md":     "Track.\n",
		"t/track.ini":    "title = T\n",
		"t/a/mission.md": "A.\n",
		"t/a/config.ini": "title = A\nreq = a, a\n",
	}))

	result, repo := runImport(t, cfg)
	if m := repo.Mission("T:A"); m == nil || len(m.Parents) != 0 {
		t.Fatalf("unexpected mission %#v", m)
	}
	if n := len(findDiagnostics(result, diag.SeverityError, "circular requirement")); n != 2 {
		t.Fatalf("expected two circular diagnostics, got %v", result.Diagnostics)
	}
}

func TestUnknownRequirementIsDroppedButMissionPersisted(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithContentTree(map[string]string{
		"t/track.md":     "Track.\n",
		"t/track.ini":    "title = T\n",
		"t/a/mission.md": "A.\n",
		"t/a/config.ini": "title = A\n",
		"t/b/mission.md": "B.\n",
		"t/b/config.ini": "title = B\nreq = ghost, a, a\n",
	}))

	result, repo := runImport(t, cfg)
	b := repo.Mission("T:B")
	if b == nil {
		t.Fatal("expected mission B to be persisted")
	}
	if !reflect.DeepEqual(b.Parents, []string{"T:A"}) {
		t.Fatalf("parents = %v", b.Parents)
	}
	unknown := findDiagnostics(result, diag.SeverityError, "unknown requirement")
	if len(unknown) != 1 || !strings.Contains(unknown[0].Message, `"ghost"`) {
		t.Fatalf("unexpected diagnostics %v", result.Diagnostics)
	}
}

func TestParentsAreCanonicalIDsOfSameTrack(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithContentTree(map[string]string{
		"one/track.md":         "One.\n",
		"one/track.ini":        "title = One\n",
		"one/intro/mission.md": "Intro.\n",
		"one/intro/config.ini": "title = Intro\n",
		"two/track.md":         "Two.\n",
		"two/track.ini":        "title = Two\n",
		"two/next/mission.md":  "Next.\n",
		"two/next/config.ini":  "title = Next\nreq = intro\n",
	}))

	result, repo := runImport(t, cfg)
	for _, m := range repo.Missions() {
		for _, parent := range m.Parents {
			if !strings.HasPrefix(parent, m.Track+curriculum.IDSeparator) {
				t.Fatalf("%s has foreign parent %s", m.ID, parent)
			}
		}
	}
	if n := len(findDiagnostics(result, diag.SeverityError, "unknown requirement")); n != 1 {
		t.Fatalf("expected cross-track requirement to be unknown, got %v", result.Diagnostics)
	}
}

func TestLanguageInheritance(t *testing.T) {
	cfg := testsupport.NewConfig(t,
		testsupport.WithDefaultLanguages("c"),
		testsupport.WithContentTree(map[string]string{
			"t/track.md":     "Track.\n",
			"t/track.ini":    "title = T\nlanguages = python, go, python,\n",
			"t/a/mission.md": "A.\n",
			"t/a/config.ini": "title = A\n",
			"t/b/mission.md": "B.\n",
			"t/b/config.ini": "title = B\nlanguages = rust, go\n",
			"u/track.md":     "U.\n",
			"u/track.ini":    "title = U\n",
			"u/x/mission.md": "X.\n",
			"u/x/config.ini": "title = X\n",
		}))

	_, repo := runImport(t, cfg)
	cases := map[string][]string{
		"T:A": {"python", "go"},
		"T:B": {"rust", "go"},
		"U:X": {"c"},
	}
	for id, want := range cases {
		m := repo.Mission(id)
		if m == nil {
			t.Fatalf("missing %s", id)
		}
		if !reflect.DeepEqual(m.Languages, want) {
			t.Fatalf("%s languages = %v, want %v", id, m.Languages, want)
		}
	}
}

func TestResourcesAreRewrittenOnce(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithContentTree(map[string]string{
		"t/track.md":     "![logo](logo.png) [site](https://example.com)\n",
		"t/track.ini":    "title = T\n",
		"t/logo.png":     "PNGDATA",
		"t/a/mission.md": "![same](../logo.png) ![copy](copy.png) ![gone](missing.png)\n",
		"t/a/config.ini": "title = A\n",
		"t/a/copy.png":   "PNGDATA",
	}))

	result, repo := runImport(t, cfg)

	entries, err := os.ReadDir(cfg.Paths.ResourceDir)
	if err != nil {
		t.Fatalf("read store: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected a single stored file, got %d", len(entries))
	}
	url := cfg.Paths.ResourceURL + "/" + entries[0].Name()

	track := repo.Track("T")
	if !strings.Contains(track.DescriptionHTML, url) {
		t.Fatalf("track description not rewritten: %q", track.DescriptionHTML)
	}
	if !strings.Contains(track.DescriptionHTML, `href="https://example.com"`) {
		t.Fatalf("remote link changed: %q", track.DescriptionHTML)
	}
	mission := repo.Mission("T:A")
	if strings.Count(mission.DescriptionHTML, url) != 2 {
		t.Fatalf("expected both copies rewritten: %q", mission.DescriptionHTML)
	}
	if !strings.Contains(mission.DescriptionHTML, `src="missing.png"`) {
		t.Fatalf("missing reference should be kept: %q", mission.DescriptionHTML)
	}
	if n := len(findDiagnostics(result, diag.SeverityError, "missing resource")); n != 1 {
		t.Fatalf("expected one missing resource diagnostic, got %v", result.Diagnostics)
	}
	if result.Resources.Stored != 1 || result.Resources.Rewritten != 3 || result.Resources.Missing != 1 {
		t.Fatalf("unexpected stats %#v", result.Resources)
	}
}

func TestDryRunStoreWritesNoResources(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithContentTree(map[string]string{
		"t/track.md":  "![logo](logo.png)\n",
		"t/track.ini": "title = T\n",
		"t/logo.png":  "PNGDATA",
	}))

	store := resources.NewStore(cfg.Paths.ResourceDir, cfg.Paths.ResourceURL, resources.WithDryRun())
	_, repo := runImport(t, cfg, importer.WithStore(store))

	if _, err := os.Stat(cfg.Paths.ResourceDir); !os.IsNotExist(err) {
		t.Fatalf("expected no store directory, got %v", err)
	}
	if !strings.Contains(repo.Track("T").DescriptionHTML, cfg.Paths.ResourceURL+"/") {
		t.Fatal("expected dry run to still rewrite references")
	}
}

func TestFallbacksAndWarnings(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithDefaultReward(7), testsupport.WithContentTree(map[string]string{
		"02_for-loops/track.md":         "Loops.\n",
		"02_for-loops/first/mission.md": "   \n",
		"02_for-loops/first/config.ini": "reward = ten\nstar.time.goal = 500\nstar.size_goal = -3\n",
		"no-track/readme.md":            "skipped silently",
	}))

	result, repo := runImport(t, cfg)

	track := repo.Track("02_For_Loops")
	if track == nil {
		t.Fatalf("expected fallback track id, got %v", repo.Tracks())
	}
	if track.DefaultReward != 7 {
		t.Fatalf("expected config default reward, got %d", track.DefaultReward)
	}
	mission := repo.Mission("02_For_Loops:First")
	if mission == nil {
		t.Fatalf("expected fallback mission id, got %v", repo.Missions())
	}
	if mission.SolveReward != 7 || mission.DescriptionHTML != "" {
		t.Fatalf("unexpected mission %#v", mission)
	}
	wantStars := []curriculum.Star{{Kind: curriculum.StarTime, Label: importer.TimeStarLabel, Weight: 1, Goal: 500}}
	if !reflect.DeepEqual(mission.Stars, wantStars) {
		t.Fatalf("stars = %#v", mission.Stars)
	}

	checks := []struct {
		substr string
		count  int
	}{
		{"missing title", 2},
		{"empty description", 1},
		{"invalid integer for reward", 1},
		{"negative star.size_goal", 1},
	}
	for _, check := range checks {
		if n := len(findDiagnostics(result, diag.SeverityWarning, check.substr)); n != check.count {
			t.Errorf("%q: got %d warnings, want %d (%v)", check.substr, n, check.count, result.Diagnostics)
		}
	}
	if result.Errors() != 0 {
		t.Fatalf("expected no errors, got %v", result.Diagnostics)
	}
}

func TestDuplicateIDsAreReportedAndSkipped(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithContentTree(map[string]string{
		"t/track.md":      "Track.\n",
		"t/track.ini":     "title = T\n",
		"t/a/mission.md":  "A.\n",
		"t/a/config.ini":  "title = Same\n",
		"t/b/mission.md":  "B.\n",
		"t/b/config.ini":  "title = Same!\n",
		"t/b2/mission.md": "B.\n",
		"t/b2/config.ini": "title = Same\n",
		"t/c/mission.md":  "C.\n",
		"t/c/config.ini":  "title = C\nreq = b2\n",
		"u/track.md":      "Dup track.\n",
		"u/track.ini":     "title = T\n",
	}))

	result, repo := runImport(t, cfg)

	if len(repo.Tracks()) != 1 {
		t.Fatalf("expected the duplicate track to be skipped, got %v", repo.Tracks())
	}
	if repo.Mission("T:Same") == nil || repo.Mission("T:Same_") == nil {
		t.Fatalf("expected distinct slugs to survive, got %v", repo.Missions())
	}
	if len(repo.Missions()) != 3 {
		t.Fatalf("expected three missions, got %d", len(repo.Missions()))
	}
	dups := findDiagnostics(result, diag.SeverityError, "duplicate mission id")
	if len(dups) != 1 || dups[0].Subject != "t/b2" || !strings.Contains(dups[0].Message, "t/a") {
		t.Fatalf("unexpected duplicate diagnostics %v", result.Diagnostics)
	}
	if n := len(findDiagnostics(result, diag.SeverityError, "duplicate track id")); n != 1 {
		t.Fatalf("expected duplicate track diagnostic, got %v", result.Diagnostics)
	}
	if n := len(findDiagnostics(result, diag.SeverityError, `unknown requirement "b2"`)); n != 1 {
		t.Fatalf("expected requirement on skipped mission to be unknown, got %v", result.Diagnostics)
	}
}

func TestFrontMatterOverridesConfig(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithContentTree(map[string]string{
		"t/track.md":     "Track.\n",
		"t/track.ini":    "title = T\n",
		"t/a/mission.md": "---\ntitle: Front Title\nlanguages: [go]\nreward: 0\n---\nBody.\n",
		"t/a/config.ini": "title = Ini Title\nlanguages = python\nreward = 50\n",
	}))

	_, repo := runImport(t, cfg)
	m := repo.Mission("T:Front_Title")
	if m == nil {
		t.Fatalf("expected front matter title, got %v", repo.Missions())
	}
	if m.SolveReward != 0 || !reflect.DeepEqual(m.Languages, []string{"go"}) {
		t.Fatalf("unexpected mission %#v", m)
	}
	if strings.Contains(m.DescriptionHTML, "title:") {
		t.Fatalf("front matter leaked into description: %q", m.DescriptionHTML)
	}
}

func TestFrontMatterLikeMarkdownIsRendered(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithContentTree(map[string]string{
		"t/track.md":     "Track.\n",
		"t/track.ini":    "title = T\n",
		"t/a/mission.md": "---\nNote: read the rules first\n---\n\nWrite a loop.\n",
		"t/a/config.ini": "title = A\n",
		"t/b/mission.md": "---\ntitle: B\nauthor: someone\n---\nBody.\n",
		"t/b/config.ini": "title = B\n",
	}))

	result, repo := runImport(t, cfg)

	a := repo.Mission("T:A")
	if a == nil {
		t.Fatalf("expected mission A, got %v", repo.Missions())
	}
	for _, want := range []string{"Note: read the rules first", "Write a loop."} {
		if !strings.Contains(a.DescriptionHTML, want) {
			t.Fatalf("expected %q in description, got %q", want, a.DescriptionHTML)
		}
	}
	if n := len(findDiagnostics(result, diag.SeverityWarning, "front matter")); n != 1 {
		t.Fatalf("expected one front matter warning for the unknown key, got %v", result.Diagnostics)
	}
	if b := repo.Mission("T:B"); b == nil || !strings.Contains(b.DescriptionHTML, "author: someone") {
		t.Fatalf("expected rejected front matter rendered as body, got %v", b)
	}
}

func TestTitlesKeepCommentCharacters(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithContentTree(map[string]string{
		"t/track.md":     "Track.\n",
		"t/track.ini":    "title = T\n",
		"t/a/mission.md": "A.\n",
		"t/a/config.ini": "title = Lesson #1\n",
		"t/b/mission.md": "B.\n",
		"t/b/config.ini": "title = Lesson #2\nreq = a\n",
	}))

	result, repo := runImport(t, cfg)

	if len(result.Diagnostics) != 0 {
		t.Fatalf("unexpected diagnostics %v", result.Diagnostics)
	}
	first := repo.Mission("T:Lesson_1")
	second := repo.Mission("T:Lesson_2")
	if first == nil || second == nil {
		t.Fatalf("expected both lessons, got %v", repo.Missions())
	}
	if first.Title != "Lesson #1" || !reflect.DeepEqual(second.Parents, []string{"T:Lesson_1"}) {
		t.Fatalf("unexpected missions %#v %#v", first, second)
	}
}

func TestResourcesOutsideContentRootAreRejected(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithContentTree(map[string]string{
		"t/track.md":     "Track.\n",
		"t/track.ini":    "title = T\n",
		"t/a/mission.md": "![x](../../../secret.txt)\n",
		"t/a/config.ini": "title = A\n",
	}))
	testsupport.WriteTree(t, testsupport.BaseDir(cfg), map[string]string{"secret.txt": "TOP SECRET"})

	result, repo := runImport(t, cfg)

	if n := len(findDiagnostics(result, diag.SeverityError, "outside the content root")); n != 1 {
		t.Fatalf("expected one rejection, got %v", result.Diagnostics)
	}
	if m := repo.Mission("T:A"); m == nil || !strings.Contains(m.DescriptionHTML, `src="../../../secret.txt"`) {
		t.Fatalf("expected reference left unrewritten, got %v", m)
	}
	if result.Resources.Rejected != 1 || result.Resources.Stored != 0 {
		t.Fatalf("unexpected stats %#v", result.Resources)
	}
	if _, err := os.Stat(cfg.Paths.ResourceDir); !os.IsNotExist(err) {
		t.Fatalf("expected nothing stored, got %v", err)
	}
}

func TestRunHonoursCancellation(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithContentTree(map[string]string{
		"t/track.md": "Track.\n",
	}))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := importer.New(cfg, &curriculum.MemoryRepository{}).Run(ctx, cfg.Paths.ContentDir)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestRunRejectsConcurrentImport(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithContentTree(map[string]string{}))
	lockPath := cfg.LockPath()

	held := flock.New(lockPath)
	if err := held.Lock(); err != nil {
		t.Fatalf("lock: %v", err)
	}
	defer held.Unlock()

	_, err := importer.New(cfg, &curriculum.MemoryRepository{}, importer.WithLock(lockPath)).Run(context.Background(), "")
	if !errors.Is(err, importer.ErrLocked) {
		t.Fatalf("expected ErrLocked, got %v", err)
	}
}

func TestRunFailsOnMissingRoot(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	_, err := importer.New(cfg, &curriculum.MemoryRepository{}).Run(context.Background(), filepath.Join(testsupport.BaseDir(cfg), "nope"))
	if err == nil {
		t.Fatal("expected error for missing root")
	}
}
