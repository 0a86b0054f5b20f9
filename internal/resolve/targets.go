package resolve

import (
	"github.com/alacrity-engine/sheet-slicer/internal/sheet"
)

// TargetOptions select which material textures are sliced
// besides the primary one.
type TargetOptions struct {
	SliceSecondary    bool
	SliceUnidentified bool
}

// Target is one texture of a description to slice.
type Target struct {
	File string
	Role sheet.Role
}

// Targets lists the textures of the description to slice: the image
// file first, then materials in definition order. Every file appears
// once.
func Targets(desc *sheet.Description, opts TargetOptions) []Target {
	var targets []Target
	seen := map[string]bool{}

	add := func(file string, role sheet.Role) {
		if file == "" || seen[file] {
			return
		}

		seen[file] = true
		targets = append(targets, Target{File: file, Role: role})
	}

	add(desc.ImageFile, sheet.RolePrimary)

	for _, material := range desc.Materials {
		if material.IsSecondary() && !opts.SliceSecondary {
			continue
		}

		if material.IsUnidentified() && !opts.SliceUnidentified {
			continue
		}

		add(material.File, material.Role())
	}

	return targets
}

// SecondaryTexture pairs a mask or normal map
// with the primary texture under a shader slot name.
type SecondaryTexture struct {
	Name string `json:"name"`
	File string `json:"file"`
}

// Shader slot names of secondary textures.
const (
	MaskTextureName   = "_MaskTex"
	NormalTextureName = "_NormalMap"
)

// SecondaryTextures returns the secondary textures of the description,
// mask first. Files are relative to the description.
func SecondaryTextures(desc *sheet.Description) []SecondaryTexture {
	var textures []SecondaryTexture

	slots := []struct {
		role sheet.Role
		name string
	}{
		{sheet.RoleMask, MaskTextureName},
		{sheet.RoleNormal, NormalTextureName},
	}

	for _, slot := range slots {
		materials := desc.MaterialsWithRole(slot.role)

		if len(materials) > 0 {
			textures = append(textures, SecondaryTexture{
				Name: slot.name,
				File: materials[0].File,
			})
		}
	}

	return textures
}

// SecondaryChanged compares two pairings positionally.
func SecondaryChanged(previous, next []SecondaryTexture) bool {
	if len(previous) != len(next) {
		return true
	}

	for i := range next {
		if previous[i] != next[i] {
			return true
		}
	}

	return false
}
