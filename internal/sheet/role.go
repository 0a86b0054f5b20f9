package sheet

// Role is the purpose of a material texture
// within a sprite sheet.
type Role int

const (
	// RolePrimary is the main (albedo) texture.
	RolePrimary Role = iota
	// RoleMask is a secondary mask texture.
	RoleMask
	// RoleNormal is a secondary normal map.
	RoleNormal
	// RoleUnrecognized is any role string the slicer doesn't know.
	RoleUnrecognized
)

// ParseRole maps a raw role string from a description
// onto a Role. Unknown strings are never an error here.
func ParseRole(raw string) Role {
	switch raw {
	case "albedo":
		return RolePrimary
	case "mask_unity":
		return RoleMask
	case "normal_unity":
		return RoleNormal
	default:
		return RoleUnrecognized
	}
}

func (r Role) String() string {
	switch r {
	case RolePrimary:
		return "primary"
	case RoleMask:
		return "mask"
	case RoleNormal:
		return "normal"
	default:
		return "unrecognized"
	}
}
