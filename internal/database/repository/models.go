package repository

import (
	"time"

	"github.com/jask/sublimepicker/internal/parcel"
)

// SavedState is one picker_state row, decoded.
type SavedState struct {
	InstanceID string
	State      parcel.State
	UpdatedAt  time.Time
}
