// Package skeleton holds the tracked hand skeleton: bone identifiers, the
// finger topology derived from bone names, and pose sources.
package skeleton

import (
	"fmt"
	"strings"
)

// BoneId indexes a bone, following the OpenXR hand joint order with the wrist at 0
type BoneId int

const (
	Wrist BoneId = iota
	ThumbMetacarpal
	ThumbProximal
	ThumbDistal
	ThumbTip
	IndexMetacarpal
	IndexProximal
	IndexIntermediate
	IndexDistal
	IndexTip
	MiddleMetacarpal
	MiddleProximal
	MiddleIntermediate
	MiddleDistal
	MiddleTip
	RingMetacarpal
	RingProximal
	RingIntermediate
	RingDistal
	RingTip
	LittleMetacarpal
	LittleProximal
	LittleIntermediate
	LittleDistal
	LittleTip
	Palm

	BoneCount = int(Palm) + 1
)

// NoParent marks the root bone in a parent table
const NoParent = -1

var jointNames = [BoneCount]string{
	"Wrist",
	"Thumb_Metacarpal", "Thumb_Proximal", "Thumb_Distal", "Thumb_Tip",
	"Index_Metacarpal", "Index_Proximal", "Index_Intermediate", "Index_Distal", "Index_Tip",
	"Middle_Metacarpal", "Middle_Proximal", "Middle_Intermediate", "Middle_Distal", "Middle_Tip",
	"Ring_Metacarpal", "Ring_Proximal", "Ring_Intermediate", "Ring_Distal", "Ring_Tip",
	"Little_Metacarpal", "Little_Proximal", "Little_Intermediate", "Little_Distal", "Little_Tip",
	"Palm",
}

// IsTip reports the distal helper bones. They carry a name but no collider.
func (b BoneId) IsTip() bool {
	switch b {
	case ThumbTip, IndexTip, MiddleTip, RingTip, LittleTip:
		return true
	}
	return false
}

func (b BoneId) Valid() bool {
	return b >= 0 && int(b) < BoneCount
}

func (b BoneId) String() string {
	if !b.Valid() {
		return fmt.Sprintf("BoneId(%d)", int(b))
	}
	return jointNames[b]
}

// Side is the tracked hand
type Side int

const (
	Left Side = iota
	Right
)

func (s Side) String() string {
	if s == Right {
		return "right"
	}
	return "left"
}

func (s Side) suffix() string {
	if s == Right {
		return "R"
	}
	return "L"
}

func (s Side) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Side) UnmarshalText(text []byte) error {
	switch strings.ToLower(string(text)) {
	case "left", "l":
		*s = Left
	case "right", "r":
		*s = Right
	default:
		return fmt.Errorf("unknown hand side %q", text)
	}
	return nil
}

// BoneName returns the skeleton name of a bone, e.g. "Index_Distal_L"
func BoneName(bone BoneId, side Side) string {
	return bone.String() + "_" + side.suffix()
}

// DefaultBoneNames returns the names of a full hand skeleton in BoneId order
func DefaultBoneNames(side Side) []string {
	names := make([]string, BoneCount)
	for i := range names {
		names[i] = BoneName(BoneId(i), side)
	}
	return names
}

// DefaultParents returns the parent table of a full hand skeleton:
// metacarpals and palm hang from the wrist, every other joint from the previous one.
func DefaultParents() []int {
	parents := make([]int, BoneCount)
	parents[Wrist] = NoParent
	parents[Palm] = int(Wrist)
	for i := 1; i < int(Palm); i++ {
		switch BoneId(i) {
		case ThumbMetacarpal, IndexMetacarpal, MiddleMetacarpal, RingMetacarpal, LittleMetacarpal:
			parents[i] = int(Wrist)
		default:
			parents[i] = i - 1
		}
	}
	return parents
}
