package rate

import (
    "fmt"
    "strings"
)

// MissingColumnsError reports a sheet that lacks columns the builder
// needs. Structural: table construction cannot proceed.
type MissingColumnsError struct {
    Sheet   string
    Missing []string
}

func (e *MissingColumnsError) Error() string {
    return fmt.Sprintf("sheet %q is missing expected columns: %s", e.Sheet, strings.Join(e.Missing, ", "))
}

// EmptySheetError reports a sheet with zero usable rows. Structural:
// a table built from it would be partial, so the build fails instead.
type EmptySheetError struct {
    Sheet string
}

func (e *EmptySheetError) Error() string {
    return fmt.Sprintf("sheet %q has no usable rate rows", e.Sheet)
}
