// Package resolve decides which sheet description owns
// an image and which images of a description get sliced.
package resolve

import (
	"fmt"

	"github.com/alacrity-engine/sheet-slicer/internal/sheet"
)

// Matches reports whether the description references the image,
// either as its image file or as one of its materials.
func Matches(desc *sheet.Description, imageFile string) bool {
	if desc.ImageFile != "" && desc.ImageFile == imageFile {
		return true
	}

	for _, material := range desc.Materials {
		if material.File == imageFile {
			return true
		}
	}

	return false
}

// ResolveForImage returns the only description referencing the image.
// It returns nil if no description does, and an AmbiguityError if
// several do.
func ResolveForImage(descs []*sheet.Description, imageFile string) (*sheet.Description, error) {
	var matching []*sheet.Description

	for _, desc := range descs {
		if Matches(desc, imageFile) {
			matching = append(matching, desc)
		}
	}

	switch len(matching) {
	case 0:
		return nil, nil

	case 1:
		return matching[0], nil

	default:
		ids := make([]string, 0, len(matching))

		for _, desc := range matching {
			ids = append(ids, desc.ID)
		}

		return nil, &sheet.AmbiguityError{
			ImageFile:      imageFile,
			DescriptionIDs: ids,
		}
	}
}

// ValidateMaterialRoles checks there is exactly one primary material
// (none is fine if the description names an image file), and at most
// one mask and one normal map. Materials with unrecognized roles are
// returned so they can be reported.
func ValidateMaterialRoles(desc *sheet.Description) ([]sheet.MaterialRef, error) {
	files := func(materials []sheet.MaterialRef) []string {
		result := make([]string, 0, len(materials))

		for _, material := range materials {
			result = append(result, material.File)
		}

		return result
	}

	primaries := desc.MaterialsWithRole(sheet.RolePrimary)

	fallback := len(primaries) == 0 && desc.ImageFile != ""

	if len(primaries) != 1 && !fallback {
		return nil, &sheet.RoleCardinalityError{
			DescriptionID: desc.ID,
			Role:          sheet.RolePrimary,
			Count:         len(primaries),
			Expected:      "exactly 1",
			Files:         files(primaries),
		}
	}

	for _, role := range []sheet.Role{sheet.RoleMask, sheet.RoleNormal} {
		materials := desc.MaterialsWithRole(role)

		if len(materials) > 1 {
			return nil, &sheet.RoleCardinalityError{
				DescriptionID: desc.ID,
				Role:          role,
				Count:         len(materials),
				Expected:      "at most 1",
				Files:         files(materials),
			}
		}
	}

	return desc.MaterialsWithRole(sheet.RoleUnrecognized), nil
}

// MainImage returns the file of the description's primary texture,
// relative to the description. The image file takes precedence over
// the primary material.
func MainImage(desc *sheet.Description) (string, error) {
	if desc.ImageFile != "" {
		return desc.ImageFile, nil
	}

	primaries := desc.MaterialsWithRole(sheet.RolePrimary)

	if len(primaries) != 1 {
		return "", &sheet.ConfigurationError{
			DescriptionID: desc.ID,
			Field:         "imageFile",
			Reason: fmt.Sprintf("no definitive main texture: no image file and %d primary materials",
				len(primaries)),
		}
	}

	return primaries[0].File, nil
}
