package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"figvault/internal/application"
	"figvault/internal/domain"
	"figvault/internal/ports"
)

// ImportOptions is the configuration surface of one import run. Values
// come from flags or the environment; parsing happens elsewhere.
type ImportOptions struct {
	SourceRoot string
	Strategy   domain.Strategy

	// Output strategy parameters.
	SampleText string
	Width      int
	Charmap    string
	Timeout    time.Duration

	Recursive  bool
	Containers bool

	// PreserveStructure keeps each accepted file's source-relative
	// subpath under the destination root; otherwise files land flat.
	PreserveStructure bool

	// Subfolder optionally routes all accepted files into one
	// subdirectory of the destination root.
	Subfolder string
}

// ImportResult summarizes a completed run.
type ImportResult struct {
	Indexed    int // destination entries found by the initial scan
	Candidates int
	Copied     int
	Renamed    int
	Skipped    int
	Errors     int
}

// ImportCommand drives one import run: scan the destination into an
// index, discover candidates, fingerprint them, resolve names against
// the live index and copy accepted files. Fingerprinting fans out
// across workers; name resolution and index mutation stay on the
// command's goroutine, so every acceptance is visible to the next
// candidate. One command owns one index: concurrent runs against the
// same destination require external exclusion (e.g. a lock file).
type ImportCommand struct {
	source ports.Discovery
	vault  ports.Vault
	engine *application.FingerprintEngine
	sink   ports.EventSink
	cache  ports.DigestCache // optional
	logger *zap.SugaredLogger
	Opts   ImportOptions
}

// NewImportCommand creates a new ImportCommand. cache may be nil.
func NewImportCommand(
	source ports.Discovery,
	vault ports.Vault,
	engine *application.FingerprintEngine,
	sink ports.EventSink,
	cache ports.DigestCache,
	logger *zap.SugaredLogger,
	opts ImportOptions,
) *ImportCommand {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &ImportCommand{
		source: source,
		vault:  vault,
		engine: engine,
		sink:   sink,
		cache:  cache,
		logger: logger,
		Opts:   opts,
	}
}

// Validate checks the run configuration before any filesystem change.
func (c *ImportCommand) Validate() error {
	if c.Opts.SourceRoot == "" {
		return &application.ValidationError{Field: "source", Message: "source root is required"}
	}
	info, err := os.Stat(c.Opts.SourceRoot)
	if err != nil || !info.IsDir() {
		return &application.ValidationError{
			Field:   "source",
			Message: fmt.Sprintf("not a readable directory: %s", c.Opts.SourceRoot),
		}
	}
	src, err := filepath.Abs(c.Opts.SourceRoot)
	if err != nil {
		return &application.ValidationError{Field: "source", Message: err.Error()}
	}
	if src == c.vault.Root() {
		return &application.ValidationError{
			Field:   "destination",
			Message: "source and destination must be different directories",
		}
	}
	if c.Opts.Strategy == domain.StrategyOutput && c.Opts.SampleText == "" {
		return &application.ValidationError{
			Field:   "text",
			Message: "output strategy needs a sample text",
		}
	}
	return nil
}

// Execute runs the import. It returns an error only for fatal
// conditions (bad configuration, unwritable destination, unscannable
// index); per-file failures become events and count toward
// Result.Errors.
func (c *ImportCommand) Execute(ctx context.Context) (*ImportResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	if err := c.vault.EnsureRoot(); err != nil {
		return nil, fmt.Errorf("destination not writable: %w", err)
	}

	index, err := c.buildIndex(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", application.ErrIndexScan, err)
	}

	candidates, err := c.discoverCandidates()
	if err != nil {
		return nil, err
	}

	result := &ImportResult{
		Indexed:    index.Len(),
		Candidates: len(candidates),
	}
	c.logger.Infof("found %d existing fonts in destination, %d candidates", result.Indexed, result.Candidates)

	fingerprints := c.fingerprintAll(ctx, candidates)

	for i, entry := range candidates {
		if ctx.Err() != nil {
			return result, ctx.Err()
		}
		c.importOne(entry, fingerprints[i], index, result)
	}

	c.logger.Infof("summary: copied=%d renamed=%d skipped_duplicates=%d errors=%d",
		result.Copied, result.Renamed, result.Skipped, result.Errors)
	return result, nil
}

// buildIndex scans the destination tree and fingerprints every entry
// under the run's strategy, so duplicate lookup works from the first
// candidate on.
func (c *ImportCommand) buildIndex(ctx context.Context) (*domain.DestinationIndex, error) {
	files, err := c.vault.Scan()
	if err != nil {
		return nil, err
	}

	index := domain.NewDestinationIndex()
	for _, f := range files {
		name := filepath.Base(f.RelPath)
		rawStem, ext := domain.SplitName(name)
		stem, version := domain.SplitVersion(rawStem)

		entry := &domain.DestinationEntry{
			RelPath: f.RelPath,
			Stem:    stem,
			Ext:     ext,
			Version: version,
		}

		fp, err := c.fingerprintExisting(ctx, f)
		if err != nil {
			// Non-fatal: the entry keeps its version slot but cannot
			// match digest lookups.
			c.logger.Warnf("cannot fingerprint existing file %s: %v", f.RelPath, err)
		} else {
			entry.Fingerprint = fp
			entry.HasFingerprint = true
		}
		index.Record(entry)
	}
	return index, nil
}

func (c *ImportCommand) fingerprintExisting(ctx context.Context, f domain.VaultFile) (domain.Fingerprint, error) {
	if c.Opts.Strategy == domain.StrategyContent {
		if c.cache != nil {
			if digest, ok := c.cache.Get(f.RelPath, f.Size, f.Mtime); ok {
				return domain.Fingerprint{Strategy: domain.StrategyContent, Digest: digest}, nil
			}
		}
		data, err := c.vault.ReadFile(f.RelPath)
		if err != nil {
			return domain.Fingerprint{}, err
		}
		fp := domain.ContentFingerprint(data)
		if c.cache != nil {
			if err := c.cache.Put(f.RelPath, f.Size, f.Mtime, fp.Digest); err != nil {
				c.logger.Debugf("digest cache put %s: %v", f.RelPath, err)
			}
		}
		return fp, nil
	}

	kind, ok := domain.KindForExtension(filepath.Ext(f.RelPath))
	if !ok {
		return domain.Fingerprint{}, application.ErrUnsupportedFormat
	}
	abs := filepath.Join(c.vault.Root(), filepath.FromSlash(f.RelPath))
	entry := domain.FontEntry{Path: abs, Kind: kind}
	return c.engine.Fingerprint(ctx, entry, nil, domain.StrategyOutput)
}

func (c *ImportCommand) discoverCandidates() ([]domain.FontEntry, error) {
	opts := ports.ScanOptions{
		Root:       c.Opts.SourceRoot,
		Recursive:  c.Opts.Recursive,
		Containers: c.Opts.Containers,
	}
	if c.Opts.Recursive {
		// Self-reference guard: a destination nested under the source
		// must not feed its own prior output back in as input.
		opts.ExcludePrefixes = []string{c.vault.Root()}
	}
	entries, err := c.source.Scan(opts)
	if err != nil {
		return nil, fmt.Errorf("scan source: %w", err)
	}
	return entries, nil
}

// candidateResult is the fan-out stage's output for one candidate.
type candidateResult struct {
	raw     []byte
	fp      domain.Fingerprint
	readErr error
	fpErr   error
}

// fingerprintAll reads and fingerprints candidates in parallel.
// Fingerprinting is pure per file; all index access stays serialized in
// the caller.
func (c *ImportCommand) fingerprintAll(ctx context.Context, candidates []domain.FontEntry) []candidateResult {
	results := make([]candidateResult, len(candidates))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, entry := range candidates {
		g.Go(func() error {
			raw, err := c.source.Read(entry)
			if err != nil {
				results[i] = candidateResult{readErr: err}
				return nil
			}
			fp, err := c.engine.Fingerprint(ctx, entry, raw, c.Opts.Strategy)
			results[i] = candidateResult{raw: raw, fp: fp, fpErr: err}
			return nil
		})
	}
	// Workers report per-file failures through results, never as group
	// errors.
	_ = g.Wait()
	return results
}

// importOne resolves and applies one candidate, mutating the index
// before returning so the next candidate sees this acceptance. Exactly
// one event is emitted.
func (c *ImportCommand) importOne(entry domain.FontEntry, r candidateResult, index *domain.DestinationIndex, result *ImportResult) {
	event := domain.ImportEvent{
		Time:   time.Now(),
		Source: entry.DisplayPath(),
		Method: c.Opts.Strategy,
	}

	switch {
	case r.readErr != nil:
		event.Outcome = domain.OutcomeErrorIO
		event.Reason = r.readErr.Error()
		result.Errors++
		c.logger.Warnf("ERROR: cannot read %s: %v", entry.DisplayPath(), r.readErr)

	case r.fpErr != nil:
		event.Outcome = domain.OutcomeErrorFingerprint
		if errors.Is(r.fpErr, application.ErrUnsupportedFormat) {
			event.Reason = "UnsupportedFormat"
		} else if errors.Is(r.fpErr, application.ErrRenderFailed) {
			event.Reason = "RenderFailed"
		} else {
			event.Reason = r.fpErr.Error()
		}
		result.Errors++
		c.logger.Warnf("ERROR: cannot fingerprint %s: %v", entry.DisplayPath(), r.fpErr)

	default:
		c.applyCandidate(entry, r, index, result, &event)
	}

	if err := c.sink.Emit(event); err != nil {
		c.logger.Warnf("audit sink: %v", err)
	}
}

func (c *ImportCommand) applyCandidate(entry domain.FontEntry, r candidateResult, index *domain.DestinationIndex, result *ImportResult, event *domain.ImportEvent) {
	event.Digest = r.fp.Digest.Hex()

	name := c.candidateName(entry)
	rawStem, ext := domain.SplitName(name)
	// Fold any version suffix the candidate already carries, so source
	// files named "slant_v02.flf" share the "slant" version sequence
	// instead of colliding with it later.
	stem, _ := domain.SplitVersion(rawStem)

	event.NameConflict = index.Seen(stem, ext)

	res := index.Resolve(stem, ext, r.fp)
	if res.Skip {
		event.Outcome = domain.OutcomeSkippedDuplicate
		event.ContentDuplicate = true
		event.Reason = fmt.Sprintf("duplicate of %s", res.DuplicateOf.RelPath)
		result.Skipped++
		c.logger.Infof("SKIP (dup): %s", entry.DisplayPath())
		return
	}

	relPath := c.destRelPath(entry, res.Name)
	// The resolver guarantees a free name for everything the index has
	// seen; re-check against disk so nothing is ever overwritten even if
	// an unindexed file squats on the path.
	for version := res.Version; c.vault.Exists(relPath); {
		version++
		res.Version = version
		res.Name = domain.VersionedName(stem, ext, version)
		relPath = c.destRelPath(entry, res.Name)
	}

	if err := c.vault.WriteFileAtomic(relPath, r.raw); err != nil {
		event.Outcome = domain.OutcomeErrorIO
		event.Reason = err.Error()
		result.Errors++
		c.logger.Warnf("ERROR: cannot copy %s -> %s: %v", entry.DisplayPath(), relPath, err)
		return
	}

	index.Record(&domain.DestinationEntry{
		RelPath:        relPath,
		Stem:           stem,
		Ext:            ext,
		Version:        res.Version,
		Fingerprint:    r.fp,
		HasFingerprint: true,
	})

	event.Dest = filepath.Join(c.vault.Root(), filepath.FromSlash(relPath))
	if res.Renamed() {
		event.Outcome = domain.OutcomeCopiedRenamed
		result.Renamed++
		c.logger.Infof("RENAME+COPY: %s -> %s", entry.DisplayPath(), res.Name)
	} else {
		event.Outcome = domain.OutcomeCopied
		result.Copied++
		c.logger.Infof("COPY: %s -> %s", entry.DisplayPath(), res.Name)
	}
}

// candidateName returns the file name a candidate should be imported
// under: the inner name for container entries, the base name otherwise.
func (c *ImportCommand) candidateName(entry domain.FontEntry) string {
	if entry.IsVirtual() {
		return filepath.Base(entry.InnerName)
	}
	return filepath.Base(entry.Path)
}

// destRelPath builds the destination-relative path for an accepted
// candidate: optional routing subfolder, then the source-relative
// directory when structure preservation is on, then the resolved name.
func (c *ImportCommand) destRelPath(entry domain.FontEntry, name string) string {
	dir := ""
	if c.Opts.PreserveStructure {
		srcPath := entry.Path
		if entry.IsVirtual() {
			srcPath = entry.SourcePath
		}
		if rel, err := filepath.Rel(c.Opts.SourceRoot, srcPath); err == nil && !strings.HasPrefix(rel, "..") {
			dir = filepath.Dir(rel)
			if dir == "." {
				dir = ""
			}
		}
	}
	return filepath.ToSlash(filepath.Join(c.Opts.Subfolder, dir, name))
}
