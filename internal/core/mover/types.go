package mover

import (
	"fmt"
	"strings"
	"time"
)

type Direction string

const (
	DirectionRight    Direction = "right"
	DirectionLeft     Direction = "left"
	DirectionUp       Direction = "up"
	DirectionDown     Direction = "down"
	DirectionCircular Direction = "circular"
)

func ParseDirection(value string) (Direction, error) {
	switch Direction(strings.ToLower(strings.TrimSpace(value))) {
	case DirectionRight:
		return DirectionRight, nil
	case DirectionLeft:
		return DirectionLeft, nil
	case DirectionUp:
		return DirectionUp, nil
	case DirectionDown:
		return DirectionDown, nil
	case DirectionCircular:
		return DirectionCircular, nil
	default:
		return "", fmt.Errorf("invalid direction %q (expected right|left|up|down|circular)", value)
	}
}

func Directions() []string {
	return []string{
		string(DirectionRight),
		string(DirectionLeft),
		string(DirectionUp),
		string(DirectionDown),
		string(DirectionCircular),
	}
}

type Button string

const (
	ButtonLeft  Button = "left"
	ButtonRight Button = "right"
)

// Geometry is a target window's on-screen rectangle as reported by the
// window system at query time.
type Geometry struct {
	Left   int
	Top    int
	Width  int
	Height int
}

type Config struct {
	Direction     Direction
	Distance      int
	ClickInterval time.Duration
	MoveInterval  time.Duration
	Target        TargetWindow
}

// Pointer injects cursor state into the operating system's input subsystem.
type Pointer interface {
	Position() (x, y int, err error)
	Move(x, y int) error
	Click(button Button) error
}

// TargetWindow reports the live geometry of the window the cursor is
// constrained to. Nil target means unconstrained movement.
type TargetWindow interface {
	Geometry() (Geometry, error)
}

type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// Status is a point-in-time snapshot of the driver loop, published to the
// single-slot updates mailbox on every state change and click pair.
type Status struct {
	Running   bool
	Clicks    uint64
	LastClick time.Time
	Err       string
}
