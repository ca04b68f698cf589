package skeleton

import "fmt"

// Topology maps fingers to their bone chains and back. It is built once from
// the skeleton bone names and never modified afterwards.
type Topology struct {
	names          []string
	boneFromFinger map[Finger][]BoneId
	fingerFromBone map[BoneId]Finger
}

// NewTopology parses the bone names of a hand skeleton, in BoneId order.
// Every name must start with a finger token, and the wrist must sit at index 0.
func NewTopology(names []string) (*Topology, error) {
	if len(names) != BoneCount {
		return nil, fmt.Errorf("%w: skeleton has %d bones, want %d", ErrMissingBone, len(names), BoneCount)
	}

	t := &Topology{
		names:          append([]string(nil), names...),
		boneFromFinger: make(map[Finger][]BoneId, len(Fingers)),
		fingerFromBone: make(map[BoneId]Finger, len(names)),
	}

	for i, name := range names {
		finger, err := ParseFinger(name)
		if err != nil {
			return nil, fmt.Errorf("bone %d: %w", i, err)
		}

		bone := BoneId(i)
		t.fingerFromBone[bone] = finger
		// names are in BoneId order, so chains come out proximal to distal
		t.boneFromFinger[finger] = append(t.boneFromFinger[finger], bone)
	}

	if t.fingerFromBone[Wrist] != FingerWrist {
		return nil, fmt.Errorf("%w: bone 0 is %q, want the wrist", ErrMissingBone, names[0])
	}
	if len(t.boneFromFinger[FingerWrist]) != 1 {
		return nil, fmt.Errorf("%w: %d wrist bones, want exactly one", ErrInvalidSkeleton, len(t.boneFromFinger[FingerWrist]))
	}
	for _, finger := range Fingers {
		if len(t.boneFromFinger[finger]) == 0 {
			return nil, fmt.Errorf("%w: no bone for %s", ErrMissingBone, finger)
		}
	}

	return t, nil
}

// Chain returns the bones of a finger, proximal first. The slice must not be modified.
func (t *Topology) Chain(finger Finger) []BoneId {
	return t.boneFromFinger[finger]
}

// Finger returns the finger owning a bone
func (t *Topology) Finger(bone BoneId) (Finger, bool) {
	finger, ok := t.fingerFromBone[bone]
	return finger, ok
}

func (t *Topology) Name(bone BoneId) string {
	if !bone.Valid() {
		return ""
	}
	return t.names[bone]
}

func (t *Topology) BoneCount() int {
	return len(t.names)
}

// PhysicalBones returns the bones that get a collider: everything but the
// wrist, the palm and the tip helpers, in ascending order.
func (t *Topology) PhysicalBones() []BoneId {
	bones := make([]BoneId, 0, len(t.names))
	for i := range t.names {
		bone := BoneId(i)
		finger := t.fingerFromBone[bone]
		if finger == FingerWrist || finger == FingerPalm || bone.IsTip() {
			continue
		}
		bones = append(bones, bone)
	}
	return bones
}
