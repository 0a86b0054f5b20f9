package sheet

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Decode parses a JSON description. The id
// is normally the path the data was read from.
func Decode(id string, data []byte) (*Description, error) {
	desc := &Description{}
	err := json.Unmarshal(data, desc)

	if err != nil {
		return nil, &ConfigurationError{
			DescriptionID: id,
			Reason:        fmt.Sprintf("malformed description: %v", err),
		}
	}

	desc.ID = id

	return desc, nil
}

// Load reads and decodes the description at path.
func Load(path string) (*Description, error) {
	path = filepath.Clean(path)
	data, err := os.ReadFile(path)

	if err != nil {
		return nil, err
	}

	return Decode(path, data)
}

// Validate checks the description is consistent enough
// for frame geometry to be derived from it.
func (d *Description) Validate() error {
	invalid := func(field, reason string) error {
		return &ConfigurationError{
			DescriptionID: d.ID,
			Field:         field,
			Reason:        reason,
		}
	}

	switch {
	case d.NumColumns <= 0:
		return invalid("numColumns", "must be positive")
	case d.NumRows <= 0:
		return invalid("numRows", "must be positive")
	case d.FrameWidth <= 0:
		return invalid("spriteWidth", "must be positive")
	case d.FrameHeight <= 0:
		return invalid("spriteHeight", "must be positive")
	case d.PaddingWidth < 0:
		return invalid("paddingWidth", "must not be negative")
	case d.PaddingHeight < 0:
		return invalid("paddingHeight", "must not be negative")
	}

	for i, animation := range d.Animations {
		field := fmt.Sprintf("animations[%d]", i)

		switch {
		case animation.StartFrame < 0:
			return invalid(field+".startFrame", "must not be negative")
		case animation.NumFrames <= 0:
			return invalid(field+".numFrames", "must be positive")
		case animation.FrameRate <= 0:
			return invalid(field+".frameRate", "must be positive")
		case animation.FrameSkip < 0:
			return invalid(field+".frameSkip", "must not be negative")
		}

		last := animation.StartFrame + animation.NumFrames - 1

		if last >= d.NumFrames() {
			return &OutOfRangeError{
				DescriptionID: d.ID,
				What:          fmt.Sprintf("animation %q", animation.Name),
				Index:         last,
				Limit:         d.NumFrames(),
			}
		}
	}

	if len(d.Stills) > d.NumFrames() {
		return &OutOfRangeError{
			DescriptionID: d.ID,
			What:          "stills",
			Index:         len(d.Stills) - 1,
			Limit:         d.NumFrames(),
		}
	}

	for i, still := range d.Stills {
		if still.Frame < 0 || still.Frame >= d.NumFrames() {
			return &OutOfRangeError{
				DescriptionID: d.ID,
				What:          fmt.Sprintf("stills[%d]", i),
				Index:         still.Frame,
				Limit:         d.NumFrames(),
			}
		}
	}

	return nil
}
