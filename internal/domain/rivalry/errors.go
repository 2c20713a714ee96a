package rivalry

import (
	"errors"
	"fmt"
)

// ErrDataIntegrity is the sentinel kind of DataIntegrityError.
var ErrDataIntegrity = errors.New("data integrity error")

// DataIntegrityError reports a head-to-head record whose owners do not
// match the pair that was requested.
type DataIntegrityError struct {
	Requested []int
	Found     [2]int
}

func (e *DataIntegrityError) Error() string {
	return fmt.Sprintf("head-to-head record holds owners %d and %d, requested %v", e.Found[0], e.Found[1], e.Requested)
}

// Is matches ErrDataIntegrity.
func (e *DataIntegrityError) Is(target error) bool { return target == ErrDataIntegrity }
