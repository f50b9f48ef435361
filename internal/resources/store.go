package resources

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"
	"sync"

	"github.com/gofrs/flock"

	"curriculum/internal/diag"
	"curriculum/internal/fileutil"
	"curriculum/internal/logging"
	"curriculum/internal/markdown"
)

// DefaultPublicURL is the URL prefix used when none is configured.
const DefaultPublicURL = "/static/resources"

// ErrNotRegular is returned by Put when the path is not a regular file.
var ErrNotRegular = errors.New("not a regular file")

var schemePattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9+.-]*:`)

// Stats summarizes store activity for one import run.
type Stats struct {
	Stored    int // distinct store names produced
	Copied    int // copies written (identical content is rewritten in place)
	Rewritten int // references replaced with a store URL
	Untouched int // remote, absolute, or fragment references left alone
	Missing   int // local references whose file does not exist
	Rejected  int // local references resolving outside the content root
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used for store activity.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		s.logger = logging.NewComponentLogger(logger, "resources")
	}
}

// WithDryRun computes names and URLs without touching the filesystem.
func WithDryRun() Option {
	return func(s *Store) {
		s.dryRun = true
	}
}

// WithLockPath guards creation of the store root with an advisory lock on
// path. The lock file belongs in a state directory, not the served tree.
func WithLockPath(path string) Option {
	return func(s *Store) {
		s.lockPath = path
	}
}

// Store copies referenced files into a content-addressed directory.
type Store struct {
	root      string
	publicURL string
	lockPath  string
	dryRun    bool
	logger    *slog.Logger

	mu      sync.Mutex
	ensured bool
	names   map[string]struct{}
	stats   Stats
}

// NewStore returns a store rooted at root whose files are served under
// publicURL. An empty publicURL selects DefaultPublicURL.
func NewStore(root, publicURL string, opts ...Option) *Store {
	publicURL = strings.TrimSpace(publicURL)
	if publicURL == "" {
		publicURL = DefaultPublicURL
	}
	if len(publicURL) > 1 {
		publicURL = strings.TrimRight(publicURL, "/")
	}
	s := &Store{
		root:      root,
		publicURL: publicURL,
		logger:    logging.NewNop(),
		names:     make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Root returns the store directory.
func (s *Store) Root() string {
	return s.root
}

// URL returns the public URL for a store name.
func (s *Store) URL(name string) string {
	return path.Join(s.publicURL, name)
}

// Stats returns a snapshot of the counters accumulated so far.
func (s *Store) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stats
}

// Put hashes the file at src and copies it into the store, overwriting any
// existing copy. It returns the store name.
func (s *Store) Put(src string) (string, error) {
	info, err := os.Stat(src)
	if err != nil {
		return "", err
	}
	if !info.Mode().IsRegular() {
		return "", fmt.Errorf("%s: %w", src, ErrNotRegular)
	}

	sum, _, err := fileutil.HashFile(src)
	if err != nil {
		return "", err
	}
	name := sum + filepath.Ext(src)

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.dryRun {
		if err := s.ensureRootLocked(); err != nil {
			return "", err
		}
		if err := fileutil.CopyFileVerified(src, filepath.Join(s.root, name)); err != nil {
			return "", fmt.Errorf("store %s: %w", src, err)
		}
		s.stats.Copied++
	}
	if _, ok := s.names[name]; !ok {
		s.names[name] = struct{}{}
		s.stats.Stored++
		s.logger.Debug("resource stored", logging.String("source", src), logging.String("name", name))
	}
	return name, nil
}

// ensureRootLocked creates the store root, under the advisory lock when one
// is configured, so concurrent importers racing on a fresh store agree on its
// creation.
func (s *Store) ensureRootLocked() error {
	if s.ensured {
		return nil
	}
	if s.lockPath != "" {
		if err := os.MkdirAll(filepath.Dir(s.lockPath), 0o755); err != nil {
			return fmt.Errorf("create lock directory: %w", err)
		}
		lock := flock.New(s.lockPath)
		if err := lock.Lock(); err != nil {
			return fmt.Errorf("lock store: %w", err)
		}
		defer func() {
			_ = lock.Unlock()
		}()
	}
	if err := os.MkdirAll(s.root, 0o755); err != nil {
		return fmt.Errorf("create store: %w", err)
	}
	s.ensured = true
	return nil
}

// Rewriter returns a RewriteFunc resolving local references against baseDir.
// References that resolve outside contentRoot, directly or through a symlink,
// are never stored. Rejected and missing files are reported to diags as
// errors against subject and left unrewritten. Store I/O failures are
// reported the same way.
func (s *Store) Rewriter(ctx context.Context, contentRoot, baseDir, subject string, diags *diag.Collector) markdown.RewriteFunc {
	return func(ref string) (string, bool) {
		if !IsLocal(ref) {
			s.count(func(st *Stats) { st.Untouched++ })
			return "", false
		}

		target := filepath.Join(baseDir, filepath.FromSlash(LookupPath(ref)))
		if !within(contentRoot, target) {
			s.count(func(st *Stats) { st.Rejected++ })
			diags.Errorf(ctx, subject, "resource %q is outside the content root", ref)
			return "", false
		}
		name, err := s.Put(target)
		switch {
		case err == nil:
			s.count(func(st *Stats) { st.Rewritten++ })
			return s.URL(name), true
		case errors.Is(err, fs.ErrNotExist), errors.Is(err, ErrNotRegular):
			s.count(func(st *Stats) { st.Missing++ })
			diags.Errorf(ctx, subject, "missing resource %q", ref)
		default:
			s.count(func(st *Stats) { st.Missing++ })
			diags.Errorf(ctx, subject, "store resource %q: %v", ref, err)
		}
		return "", false
	}
}

// within reports whether target stays inside root, both lexically and after
// resolving symlinks. Targets that do not exist are judged lexically.
func within(root, target string) bool {
	if !isSubpath(root, target) {
		return false
	}
	resolved, err := filepath.EvalSymlinks(target)
	if err != nil {
		return true
	}
	resolvedRoot, err := filepath.EvalSymlinks(root)
	if err != nil {
		return false
	}
	return isSubpath(resolvedRoot, resolved)
}

func isSubpath(root, target string) bool {
	rel, err := filepath.Rel(root, target)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

func (s *Store) count(fn func(*Stats)) {
	s.mu.Lock()
	fn(&s.stats)
	s.mu.Unlock()
}

// IsLocal reports whether ref names a file relative to its document: no
// scheme, no host, not root-relative, and not a bare fragment.
func IsLocal(ref string) bool {
	ref = strings.TrimSpace(ref)
	if ref == "" || strings.HasPrefix(ref, "#") || strings.HasPrefix(ref, "/") || strings.HasPrefix(ref, `\`) {
		return false
	}
	if u, err := url.Parse(ref); err == nil {
		return u.Scheme == "" && u.Host == ""
	}
	return !schemePattern.MatchString(ref)
}

// LookupPath strips the query and fragment from ref and unescapes it.
func LookupPath(ref string) string {
	ref = strings.TrimSpace(ref)
	if i := strings.IndexAny(ref, "?#"); i >= 0 {
		ref = ref[:i]
	}
	if unescaped, err := url.PathUnescape(ref); err == nil {
		return unescaped
	}
	return ref
}
