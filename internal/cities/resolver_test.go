package cities

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avoronov/skyfare/pkg/logger"
)

type fakeRemote struct {
	mu      sync.Mutex
	calls   int
	match   *Match
	err     error
	release chan struct{} // when set, Lookup blocks until closed
}

func (f *fakeRemote) Lookup(ctx context.Context, name string) (*Match, error) {
	f.mu.Lock()
	f.calls++
	release := f.release
	f.mu.Unlock()

	if release != nil {
		select {
		case <-release:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return f.match, f.err
}

func (f *fakeRemote) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type fakeStore struct {
	mu      sync.Mutex
	entries []Entry
	saved   []Entry
	loadErr error
	saveErr error
}

func (f *fakeStore) LoadDiscovered(ctx context.Context) ([]Entry, error) {
	return f.entries, f.loadErr
}

func (f *fakeStore) SaveDiscovered(ctx context.Context, entry Entry) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.saved = append(f.saved, entry)
	return f.saveErr
}

func newTestResolver(t *testing.T, remote RemoteLookup, store Store) *Resolver {
	t.Helper()
	r, err := NewResolver(context.Background(), remote, store, logger.Nop())
	require.NoError(t, err)
	return r
}

func TestResolvePreloadedNormalization(t *testing.T) {
	r := newTestResolver(t, nil, nil)

	for _, name := range []string{"london", "London", " LONDON ", "LoNdOn"} {
		code, err := r.Resolve(context.Background(), name)
		require.NoError(t, err, name)
		assert.Equal(t, "LHR", code, name)
	}

	code, err := r.Resolve(context.Background(), "New   York  City")
	require.NoError(t, err)
	assert.Equal(t, "JFK", code)
}

func TestResolveEmptyName(t *testing.T) {
	r := newTestResolver(t, nil, nil)

	_, err := r.Resolve(context.Background(), "   ")
	var unknown *UnknownCityError
	require.ErrorAs(t, err, &unknown)
}

func TestResolveFuzzyTypo(t *testing.T) {
	r := newTestResolver(t, nil, nil)

	// One edit away from "tokyo"; no remote configured, so the fuzzy
	// match is the only way this can succeed.
	code, err := r.Resolve(context.Background(), "tokio")
	require.NoError(t, err)
	assert.Equal(t, "NRT", code)
}

func TestResolveAmbiguous(t *testing.T) {
	store := &fakeStore{entries: []Entry{
		{City: "zzzville east", AirportCode: "ZEA", Source: SourceDiscovered},
		{City: "zzzville west", AirportCode: "ZWE", Source: SourceDiscovered},
	}}
	r := newTestResolver(t, nil, store)

	_, err := r.Resolve(context.Background(), "zzzville")
	var ambiguous *AmbiguousCityError
	require.ErrorAs(t, err, &ambiguous)
	assert.Equal(t, []string{"ZEA", "ZWE"}, ambiguous.Candidates)
}

func TestResolveUnknownWithoutRemote(t *testing.T) {
	r := newTestResolver(t, nil, nil)

	_, err := r.Resolve(context.Background(), "qqqqqqqqville")
	var unknown *UnknownCityError
	require.ErrorAs(t, err, &unknown)
	assert.Contains(t, err.Error(), "qqqqqqqqville")
}

func TestResolveRemoteFallbackCachesResult(t *testing.T) {
	remote := &fakeRemote{match: &Match{City: "Faketown", Country: "US", AirportCode: "FKT"}}
	store := &fakeStore{}
	r := newTestResolver(t, remote, store)

	code, err := r.Resolve(context.Background(), "Faketownburgh")
	require.NoError(t, err)
	assert.Equal(t, "FKT", code)
	assert.Equal(t, 1, remote.callCount())

	// Second resolve answers from the discovered cache.
	code, err = r.Resolve(context.Background(), "faketownburgh")
	require.NoError(t, err)
	assert.Equal(t, "FKT", code)
	assert.Equal(t, 1, remote.callCount())

	require.Len(t, store.saved, 1)
	assert.Equal(t, Entry{City: "faketownburgh", AirportCode: "FKT", Source: SourceDiscovered}, store.saved[0])
	assert.Equal(t, 1, r.DiscoveredSize())
}

func TestResolveRemoteFailure(t *testing.T) {
	remote := &fakeRemote{err: errors.New("connection refused")}
	r := newTestResolver(t, remote, nil)

	_, err := r.Resolve(context.Background(), "faketownburgh")
	var unknown *UnknownCityError
	require.ErrorAs(t, err, &unknown)
	assert.ErrorContains(t, err, "connection refused")
}

func TestResolveRemoteNoResult(t *testing.T) {
	remote := &fakeRemote{match: nil}
	r := newTestResolver(t, remote, nil)

	_, err := r.Resolve(context.Background(), "faketownburgh")
	var unknown *UnknownCityError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, 1, remote.callCount())
}

func TestResolveCoalescesConcurrentLookups(t *testing.T) {
	release := make(chan struct{})
	remote := &fakeRemote{
		match:   &Match{City: "Faketown", AirportCode: "FKT"},
		release: release,
	}
	r := newTestResolver(t, remote, nil)

	const n = 8
	var wg sync.WaitGroup
	codes := make([]string, n)
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			codes[i], errs[i] = r.Resolve(context.Background(), "faketownburgh")
		}()
	}

	// Let all goroutines pile onto the in-flight lookup before it
	// completes.
	time.Sleep(100 * time.Millisecond)
	close(release)
	wg.Wait()

	for i := 0; i < n; i++ {
		require.NoError(t, errs[i])
		assert.Equal(t, "FKT", codes[i])
	}
	assert.Equal(t, 1, remote.callCount())
}

func TestLookupProbe(t *testing.T) {
	remote := &fakeRemote{match: &Match{City: "Faketown", AirportCode: "FKT"}}
	r := newTestResolver(t, remote, nil)

	entry, ok := r.Lookup("London")
	require.True(t, ok)
	assert.Equal(t, SourcePreloaded, entry.Source)
	assert.Equal(t, "LHR", entry.AirportCode)

	_, ok = r.Lookup("faketownburgh")
	assert.False(t, ok)

	_, err := r.Resolve(context.Background(), "faketownburgh")
	require.NoError(t, err)

	entry, ok = r.Lookup("faketownburgh")
	require.True(t, ok)
	assert.Equal(t, SourceDiscovered, entry.Source)
	assert.Equal(t, "FKT", entry.AirportCode)
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "new york city", Normalize("  New   YORK\tCity "))
	assert.Equal(t, "", Normalize("   "))
}

func TestNewResolverLoadsStore(t *testing.T) {
	store := &fakeStore{entries: []Entry{
		{City: "Faketownburgh", AirportCode: "FKT", Source: SourceDiscovered},
	}}
	r := newTestResolver(t, nil, store)
	assert.Equal(t, 1, r.DiscoveredSize())

	code, err := r.Resolve(context.Background(), "faketownburgh")
	require.NoError(t, err)
	assert.Equal(t, "FKT", code)
}

func TestNewResolverStoreFailure(t *testing.T) {
	store := &fakeStore{loadErr: errors.New("disk gone")}
	_, err := NewResolver(context.Background(), nil, store, logger.Nop())
	assert.Error(t, err)
}

func TestEditDistance(t *testing.T) {
	assert.Equal(t, 0, editDistance("tokyo", "tokyo"))
	assert.Equal(t, 1, editDistance("tokyo", "tokio"))
	assert.Equal(t, 2, editDistance("osaka", "osk"))
	assert.Equal(t, 5, editDistance("", "tokyo"))
}
