package cities

import (
	"fmt"
	"strings"
)

// UnknownCityError means a name matched nothing in either table and the
// remote fallback produced no result (or failed; the cause is kept for
// diagnostics).
type UnknownCityError struct {
	City string
	Err  error
}

func (e *UnknownCityError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("unknown city %q: %v", e.City, e.Err)
	}
	return fmt.Sprintf("unknown city %q", e.City)
}

func (e *UnknownCityError) Unwrap() error {
	return e.Err
}

// AmbiguousCityError means fuzzy matching found several equally good
// candidates resolving to different airports. Picking one silently would
// route the search to the wrong place, so the caller must disambiguate.
type AmbiguousCityError struct {
	City       string
	Candidates []string
}

func (e *AmbiguousCityError) Error() string {
	return fmt.Sprintf("ambiguous city %q: candidates %s", e.City, strings.Join(e.Candidates, ", "))
}
