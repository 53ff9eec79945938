package config

import (
	"fmt"
	"strings"
)

// ModelFormat forces model layout when not FormatAuto.
// Auto detection by trailing bytes is the only reliable way, forcing is for debugging.
type ModelFormat int

const (
	FormatAuto ModelFormat = iota
	FormatOld
	FormatNew
)

var modelFormat ModelFormat

func GetModelFormat() ModelFormat {
	return modelFormat
}

func SetModelFormat(f ModelFormat) {
	modelFormat = f
}

func (f ModelFormat) String() string {
	switch f {
	case FormatOld:
		return "old"
	case FormatNew:
		return "new"
	default:
		return "auto"
	}
}

// ParseModelFormat accepts names printed by ModelFormat.String, case insensitive
func ParseModelFormat(s string) (ModelFormat, error) {
	switch strings.ToLower(s) {
	case "", "auto":
		return FormatAuto, nil
	case "old":
		return FormatOld, nil
	case "new":
		return FormatNew, nil
	}
	return FormatAuto, fmt.Errorf("Unknown model format %q, use auto, old or new", s)
}

var logsDir string

// GetLogsDir returns directory for verbose per-resource decode logs, empty disables them
func GetLogsDir() string {
	return logsDir
}

func SetLogsDir(dir string) {
	logsDir = dir
}
