package observer

import (
	"errors"
	"math"
)

// Subject and registry errors
var (
	ErrDuplicateAttach  = errors.New("observer already attached to subject")
	ErrNotFound         = errors.New("observer not attached to subject")
	ErrStaleHandle      = errors.New("stale observer handle")
	ErrSubjectDestroyed = errors.New("subject is destroyed")
)

// InvalidID is returned by Subject.ID for observers that are not attached.
const InvalidID uint32 = math.MaxUint32
