// Package cities resolves free-text city names to airport codes through a
// two-tier cache: an immutable preloaded table checked first, then a
// mutable cache of entries discovered through a remote lookup. The two
// tiers stay separate so the preload table's provenance is never mixed
// with runtime discoveries.
package cities

import (
	"context"
	"sort"
	"strings"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/avoronov/skyfare/pkg/logger"
)

// Source tags where a resolution came from.
type Source string

const (
	SourcePreloaded  Source = "preloaded"
	SourceDiscovered Source = "discovered"
)

// Entry is one city-to-airport mapping.
type Entry struct {
	City        string `json:"city"`
	AirportCode string `json:"airport_code"`
	Source      Source `json:"source"`
}

// Match is a remote lookup result.
type Match struct {
	City        string
	Country     string
	AirportCode string
}

// RemoteLookup is the fallback collaborator: it returns the best match for
// a normalized city name, or nil when nothing matches.
type RemoteLookup interface {
	Lookup(ctx context.Context, name string) (*Match, error)
}

// Store persists discovered entries across restarts. Implementations may
// be nil-safe absent; the resolver works without one.
type Store interface {
	LoadDiscovered(ctx context.Context) ([]Entry, error)
	SaveDiscovered(ctx context.Context, entry Entry) error
}

// Resolver maps city names to airport codes.
type Resolver struct {
	preload map[string]string // immutable after construction

	mu         sync.RWMutex
	discovered map[string]string

	group  singleflight.Group
	remote RemoteLookup
	store  Store
	logger *logger.Logger
}

// NewResolver creates a resolver over the built-in preload table. remote
// and store may be nil; without a remote the resolver only answers from
// its tables.
func NewResolver(ctx context.Context, remote RemoteLookup, store Store, log *logger.Logger) (*Resolver, error) {
	r := &Resolver{
		preload:    preloadTable(),
		discovered: make(map[string]string),
		remote:     remote,
		store:      store,
		logger:     log.Named("cities"),
	}

	if store != nil {
		entries, err := store.LoadDiscovered(ctx)
		if err != nil {
			return nil, err
		}
		for _, e := range entries {
			r.discovered[Normalize(e.City)] = e.AirportCode
		}
		r.logger.Info("Loaded discovered city entries",
			logger.Int("count", len(entries)))
	}

	return r, nil
}

// Normalize case-folds, trims, and collapses whitespace in a city name.
func Normalize(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), " ")
}

// Resolve maps a free-text city name to a 3-letter airport code.
//
// Resolution order: exact preload, exact discovered, fuzzy over both, then
// the remote fallback. Concurrent resolutions of the same normalized name
// share one in-flight remote call.
func (r *Resolver) Resolve(ctx context.Context, name string) (string, error) {
	norm := Normalize(name)
	if norm == "" {
		return "", &UnknownCityError{City: name}
	}

	if code, ok := r.preload[norm]; ok {
		return code, nil
	}

	r.mu.RLock()
	code, ok := r.discovered[norm]
	r.mu.RUnlock()
	if ok {
		return code, nil
	}

	if code, err, ok := r.fuzzyMatch(norm); ok {
		return code, err
	}

	return r.resolveRemote(ctx, name, norm)
}

// Lookup reports how a name resolves without ever going remote. Used by
// the resolution probe endpoint.
func (r *Resolver) Lookup(name string) (Entry, bool) {
	norm := Normalize(name)
	if code, ok := r.preload[norm]; ok {
		return Entry{City: norm, AirportCode: code, Source: SourcePreloaded}, true
	}
	r.mu.RLock()
	code, ok := r.discovered[norm]
	r.mu.RUnlock()
	if ok {
		return Entry{City: norm, AirportCode: code, Source: SourceDiscovered}, true
	}
	return Entry{}, false
}

// fuzzyCandidate scores one table entry against the query. Lower is
// better; containment and small edit distances compete on equal terms via
// the length gap they leave.
type fuzzyCandidate struct {
	city  string
	code  string
	score int
}

const maxEditDistance = 2

// fuzzyMatch scans both tables for near matches. The third return is false
// when there was no candidate at all; an AmbiguousCityError is returned
// when several equally good candidates disagree on the airport.
func (r *Resolver) fuzzyMatch(norm string) (string, error, bool) {
	var candidates []fuzzyCandidate

	collect := func(city, code string) {
		if score, ok := fuzzyScore(norm, city); ok {
			candidates = append(candidates, fuzzyCandidate{city: city, code: code, score: score})
		}
	}

	for city, code := range r.preload {
		collect(city, code)
	}
	r.mu.RLock()
	for city, code := range r.discovered {
		collect(city, code)
	}
	r.mu.RUnlock()

	if len(candidates) == 0 {
		return "", nil, false
	}

	sort.Slice(candidates, func(i, j int) bool { return candidates[i].score < candidates[j].score })

	best := candidates[0]
	conflicting := map[string]bool{best.code: true}
	for _, c := range candidates[1:] {
		if c.score != best.score {
			break
		}
		conflicting[c.code] = true
	}
	if len(conflicting) > 1 {
		codes := make([]string, 0, len(conflicting))
		for code := range conflicting {
			codes = append(codes, code)
		}
		sort.Strings(codes)
		return "", &AmbiguousCityError{City: norm, Candidates: codes}, true
	}

	r.logger.Debug("Fuzzy city match",
		logger.String("query", norm),
		logger.String("matched", best.city),
		logger.String("code", best.code))
	return best.code, nil, true
}

// fuzzyScore rates how well a table entry matches the query. Containment
// (either direction) scores by the leftover length; otherwise a bounded
// edit distance applies.
func fuzzyScore(query, city string) (int, bool) {
	if strings.Contains(city, query) {
		return len(city) - len(query), true
	}
	if strings.Contains(query, city) {
		return len(query) - len(city), true
	}
	if d := editDistance(query, city); d <= maxEditDistance {
		return d, true
	}
	return 0, false
}

func editDistance(a, b string) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, min(curr[j-1]+1, prev[j-1]+cost))
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// resolveRemote performs the coalesced fallback lookup and caches the
// outcome. Remote failure and no-result both surface as UnknownCityError.
func (r *Resolver) resolveRemote(ctx context.Context, name, norm string) (string, error) {
	if r.remote == nil {
		return "", &UnknownCityError{City: name}
	}

	v, err, shared := r.group.Do(norm, func() (interface{}, error) {
		match, err := r.remote.Lookup(ctx, norm)
		if err != nil {
			return nil, err
		}
		if match == nil || match.AirportCode == "" {
			return nil, nil
		}
		return match, nil
	})
	if err != nil {
		r.logger.Warn("Remote city lookup failed",
			logger.String("city", norm),
			logger.Error(err))
		return "", &UnknownCityError{City: name, Err: err}
	}
	if v == nil {
		return "", &UnknownCityError{City: name}
	}

	match := v.(*Match)
	r.insertDiscovered(ctx, norm, match.AirportCode, shared)
	return match.AirportCode, nil
}

// insertDiscovered records a fallback result. Insertion is idempotent:
// coalesced callers all observe the same match, so either writer wins, and
// only the first actually persists.
func (r *Resolver) insertDiscovered(ctx context.Context, norm, code string, shared bool) {
	r.mu.Lock()
	_, existed := r.discovered[norm]
	r.discovered[norm] = code
	r.mu.Unlock()

	if existed || r.store == nil {
		return
	}
	entry := Entry{City: norm, AirportCode: code, Source: SourceDiscovered}
	if err := r.store.SaveDiscovered(ctx, entry); err != nil {
		r.logger.Warn("Failed to persist discovered city",
			logger.String("city", norm),
			logger.Error(err))
	}
	r.logger.Info("Discovered city mapping",
		logger.String("city", norm),
		logger.String("code", code),
		logger.Bool("coalesced", shared))
}

// PreloadSize reports the size of the immutable table.
func (r *Resolver) PreloadSize() int {
	return len(r.preload)
}

// DiscoveredSize reports the current size of the discovered cache.
func (r *Resolver) DiscoveredSize() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.discovered)
}
