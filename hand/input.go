package hand

import (
	"fmt"
	"slices"
)

// Button is a controller button from the fixed input vocabulary
type Button uint8

const (
	ButtonGrip Button = iota
	ButtonBY
	ButtonAX
	ButtonTrigger
)

var buttonNames = map[Button]string{
	ButtonGrip:    "grip_click",
	ButtonBY:      "by_button",
	ButtonAX:      "ax_button",
	ButtonTrigger: "trigger_click",
}

func (b Button) String() string {
	if name, ok := buttonNames[b]; ok {
		return name
	}
	return fmt.Sprintf("Button(%d)", int(b))
}

func ParseButton(name string) (Button, error) {
	for button, buttonName := range buttonNames {
		if buttonName == name {
			return button, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownButton, name)
}

// poses recognized as a grip, and as an open hand
var (
	gripPoses = []string{"half_grip", "full_grip", "thumb_up", "point"}
	openPoses = []string{"open", "rest"}
)

// HandleButton feeds a button event. Only the configured grab buttons act on the
// hand; other known buttons are accepted and ignored.
func (h *Hand) HandleButton(name string, pressed bool) error {
	button, err := ParseButton(name)
	if err != nil {
		return err
	}
	if !slices.Contains(h.grabButtons, button) {
		return nil
	}

	h.logger.Debug("grab button", "button", name, "pressed", pressed)
	h.setGrabbing(pressed)
	h.events.flush()

	return nil
}

// HandlePose feeds a pose recognition event. Grip poses assert grabbing,
// open poses clear it, any other label is ignored.
func (h *Hand) HandlePose(next, previous string) {
	switch {
	case slices.Contains(gripPoses, next):
		h.logger.Debug("grab pose", "pose", next, "previous", previous)
		h.setGrabbing(true)
	case slices.Contains(openPoses, next):
		h.logger.Debug("open pose", "pose", next, "previous", previous)
		h.setGrabbing(false)
	default:
		return
	}
	h.events.flush()
}
