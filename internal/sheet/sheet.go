package sheet

import (
	"path/filepath"
)

// Extension is the file extension of sprite sheet descriptions.
const Extension = ".ssdata"

// Description is a parsed sprite sheet description.
// It is identified by the path it was read from.
type Description struct {
	ID string `json:"-"`

	BaseName  string `json:"baseObjectName"`
	ImageFile string `json:"imageFile"`

	FrameWidth  int `json:"spriteWidth"`
	FrameHeight int `json:"spriteHeight"`

	PaddingWidth  int `json:"paddingWidth"`
	PaddingHeight int `json:"paddingHeight"`

	NumColumns int `json:"numColumns"`
	NumRows    int `json:"numRows"`

	Animations []AnimationDef `json:"animations"`
	Materials  []MaterialRef  `json:"materialData"`
	Stills     []StillDef     `json:"stills"`
}

// MaterialRef references one texture of the sheet.
// File is relative to the description's directory.
type MaterialRef struct {
	Name string `json:"name"`
	File string `json:"file"`
	Raw  string `json:"role"`
}

// Role returns the parsed role of the material.
func (m MaterialRef) Role() Role {
	return ParseRole(m.Raw)
}

// IsSecondary reports whether the material is
// a mask or a normal map.
func (m MaterialRef) IsSecondary() bool {
	role := m.Role()
	return role == RoleMask || role == RoleNormal
}

// IsUnidentified reports whether the material role is unknown.
func (m MaterialRef) IsUnidentified() bool {
	return m.Role() == RoleUnrecognized
}

// AnimationDef is one animation captured in the sheet.
type AnimationDef struct {
	Name       string  `json:"name"`
	StartFrame int     `json:"startFrame"`
	NumFrames  int     `json:"numFrames"`
	FrameRate  int     `json:"frameRate"`
	FrameSkip  int     `json:"frameSkip"`
	Rotation   float64 `json:"rotation"`
}

// StillDef is a single non-animated frame.
type StillDef struct {
	Frame    int     `json:"frame"`
	Rotation float64 `json:"rotation"`
}

// NumFrames returns the number of cells in the sheet grid.
func (d *Description) NumFrames() int {
	return d.NumColumns * d.NumRows
}

// Dir returns the directory the description lives in.
func (d *Description) Dir() string {
	return filepath.Dir(d.ID)
}

// Path resolves a file referenced by the description
// relative to its directory.
func (d *Description) Path(file string) string {
	return filepath.Join(d.Dir(), file)
}

// MaterialsWithRole returns all the materials having the role.
func (d *Description) MaterialsWithRole(role Role) []MaterialRef {
	var materials []MaterialRef

	for _, material := range d.Materials {
		if material.Role() == role {
			materials = append(materials, material)
		}
	}

	return materials
}

// CountAnimations returns how many animations are named name.
func (d *Description) CountAnimations(name string) int {
	count := 0

	for _, animation := range d.Animations {
		if animation.Name == name {
			count++
		}
	}

	return count
}
