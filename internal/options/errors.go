package options

import "errors"

// Reason identifies which validation check failed.
type Reason int

const (
	ReasonNoPickers Reason = iota + 1
	ReasonPickerNotEnabled
	ReasonBoundsInverted
)

func (r Reason) String() string {
	switch r {
	case ReasonNoPickers:
		return "no pickers enabled"
	case ReasonPickerNotEnabled:
		return "picker to show is not enabled"
	case ReasonBoundsInverted:
		return "minimum date is after maximum date"
	default:
		return "invalid configuration"
	}
}

// ErrConfiguration matches every *ConfigError through errors.Is.
var ErrConfiguration = errors.New("invalid picker configuration")

// ConfigError is returned by Validate. It is never retried: the caller has to
// fix the Options and initialize again.
type ConfigError struct {
	Reason Reason
	Detail string
}

func (e *ConfigError) Error() string {
	if e.Detail == "" {
		return "configuration: " + e.Reason.String()
	}
	return "configuration: " + e.Reason.String() + ": " + e.Detail
}

func (e *ConfigError) Is(target error) bool {
	return target == ErrConfiguration
}
