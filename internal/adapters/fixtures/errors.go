package fixtures

import (
	"errors"
	"fmt"
	"strings"

	"github.com/wtstats/wtstats/internal/domain/rivalry"
	"github.com/wtstats/wtstats/pkg/metrics"
)

// Sentinel kinds. Every typed error below matches exactly one of them
// through errors.Is.
var (
	ErrFetch         = errors.New("fetch failed")
	ErrNetwork       = errors.New("network error")
	ErrMalformedData = errors.New("malformed data")
	ErrNoHistory     = errors.New("no comparison data found")
	ErrInvalidPair   = errors.New("invalid owner pair")
	ErrInvalidOrigin = errors.New("invalid data origin")
)

// FetchError is a non-OK response other than a head-to-head 404.
type FetchError struct {
	Path       string
	StatusCode int
	Body       string
}

func (e *FetchError) Error() string {
	body := strings.TrimSpace(e.Body)
	if body == "" {
		return fmt.Sprintf("fetch %s: status %d", e.Path, e.StatusCode)
	}
	return fmt.Sprintf("fetch %s: status %d: %s", e.Path, e.StatusCode, body)
}

func (e *FetchError) Is(target error) bool { return target == ErrFetch }

// NetworkError means the request never produced a response.
type NetworkError struct {
	Path string
	Err  error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("fetch %s: %v", e.Path, e.Err)
}

func (e *NetworkError) Is(target error) bool { return target == ErrNetwork }
func (e *NetworkError) Unwrap() error        { return e.Err }

// MalformedDataError means the payload was not JSON, lacked required
// top-level keys, or failed validation.
type MalformedDataError struct {
	Path    string
	Missing []string
	Err     error
}

func (e *MalformedDataError) Error() string {
	if len(e.Missing) > 0 {
		return fmt.Sprintf("malformed data at %s: missing keys %s", e.Path, strings.Join(e.Missing, ", "))
	}
	return fmt.Sprintf("malformed data at %s: %v", e.Path, e.Err)
}

func (e *MalformedDataError) Is(target error) bool { return target == ErrMalformedData }
func (e *MalformedDataError) Unwrap() error        { return e.Err }

// NoHistoryError is the empty state of a head-to-head lookup: the two
// owners never played each other.
type NoHistoryError struct {
	Owner1, Owner2 int
}

func (e *NoHistoryError) Error() string {
	return fmt.Sprintf("no comparison data found for owners %d and %d", e.Owner1, e.Owner2)
}

func (e *NoHistoryError) Is(target error) bool { return target == ErrNoHistory }

// Outcome maps an error from this package to its metrics outcome label.
func Outcome(err error) string {
	switch {
	case err == nil:
		return metrics.OutcomeOK
	case errors.Is(err, ErrNoHistory):
		return metrics.OutcomeNoHistory
	case errors.Is(err, rivalry.ErrDataIntegrity):
		return metrics.OutcomeIntegrity
	case errors.Is(err, ErrMalformedData):
		return metrics.OutcomeMalformed
	case errors.Is(err, ErrNetwork):
		return metrics.OutcomeNetwork
	default:
		return metrics.OutcomeFetch
	}
}
