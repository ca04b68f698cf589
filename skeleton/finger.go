package skeleton

import (
	"fmt"
	"strings"
)

// Finger groups bones into chains. Wrist and Palm are single-bone chains.
type Finger int

const (
	FingerWrist Finger = iota
	Thumb
	Index
	Middle
	Ring
	Little
	FingerPalm
)

var fingerNames = map[Finger]string{
	FingerWrist: "Wrist",
	Thumb:       "Thumb",
	Index:       "Index",
	Middle:      "Middle",
	Ring:        "Ring",
	Little:      "Little",
	FingerPalm:  "Palm",
}

// Fingers lists every finger in declaration order
var Fingers = []Finger{FingerWrist, Thumb, Index, Middle, Ring, Little, FingerPalm}

func (f Finger) String() string {
	if name, ok := fingerNames[f]; ok {
		return name
	}
	return fmt.Sprintf("Finger(%d)", int(f))
}

// ParseFinger reads the leading token of a bone name ("Index" in "Index_Distal_L")
func ParseFinger(boneName string) (Finger, error) {
	token, _, _ := strings.Cut(boneName, "_")

	switch strings.ToLower(token) {
	case "wrist":
		return FingerWrist, nil
	case "thumb":
		return Thumb, nil
	case "index":
		return Index, nil
	case "middle":
		return Middle, nil
	case "ring":
		return Ring, nil
	case "little", "pinky":
		return Little, nil
	case "palm":
		return FingerPalm, nil
	}

	return 0, fmt.Errorf("%w: %q", ErrUnknownFinger, boneName)
}
