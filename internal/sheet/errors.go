package sheet

import (
	"fmt"
	"strings"
)

// ConfigurationError means a description or the slicing
// configuration can't be processed as given.
type ConfigurationError struct {
	DescriptionID string
	Field         string
	Reason        string
}

func (e *ConfigurationError) Error() string {
	var sb strings.Builder
	sb.WriteString("configuration error")

	if e.DescriptionID != "" {
		fmt.Fprintf(&sb, " in %q", e.DescriptionID)
	}

	if e.Field != "" {
		fmt.Fprintf(&sb, ": field %s", e.Field)
	}

	fmt.Fprintf(&sb, ": %s", e.Reason)

	return sb.String()
}

// RoleCardinalityError is returned when a description has
// the wrong number of materials for a role.
type RoleCardinalityError struct {
	DescriptionID string
	Role          Role
	Count         int
	// Expected is a human readable bound, e.g. "exactly 1".
	Expected string
	Files    []string
}

func (e *RoleCardinalityError) Error() string {
	return fmt.Sprintf("there should be %s %s material; found %d for data file %q (%s)",
		e.Expected, e.Role, e.Count, e.DescriptionID, strings.Join(e.Files, ", "))
}

// AmbiguityError is returned when several descriptions
// reference the same image.
type AmbiguityError struct {
	ImageFile      string
	DescriptionIDs []string
}

func (e *AmbiguityError) Error() string {
	return fmt.Sprintf("found %d data files referencing image %q: %s",
		len(e.DescriptionIDs), e.ImageFile, strings.Join(e.DescriptionIDs, ", "))
}

// OutOfRangeError is returned when a frame index
// goes beyond what the sheet provides.
type OutOfRangeError struct {
	DescriptionID string
	What          string
	Index         int
	Limit         int
}

func (e *OutOfRangeError) Error() string {
	return fmt.Sprintf("%s in %q references index %d, but only %d are available",
		e.What, e.DescriptionID, e.Index, e.Limit)
}
