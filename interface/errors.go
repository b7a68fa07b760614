package iface

import (
	"errors"
	"fmt"
)

var (
	ErrFrameDataUnavailable = errors.New("frame width/height unavailable")
	ErrDetectionDataMissing = errors.New("detection bbox missing or invalid")
	ErrTrackIDAnomaly       = errors.New("detection track id count is not one")
)

// ConfigError is returned for invalid startup configuration. It is always fatal.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("configuration error: %s: %s", e.Field, e.Reason)
}

func IsConfigError(err error) bool {
	var ce *ConfigError
	return errors.As(err, &ce)
}
