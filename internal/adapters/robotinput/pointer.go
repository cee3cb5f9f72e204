package robotinput

import (
	"fmt"

	"github.com/go-vgo/robotgo"

	"idlemouse/internal/core/mover"
)

// Pointer injects cursor position and button events through robotgo.
type Pointer struct{}

func (Pointer) Position() (int, int, error) {
	var x, y int
	err := guard("query cursor position", func() {
		x, y = robotgo.Location()
	})
	return x, y, err
}

func (Pointer) Move(x, y int) error {
	return guard("move cursor", func() {
		robotgo.Move(x, y)
	})
}

func (Pointer) Click(button mover.Button) error {
	return guard("click "+string(button), func() {
		robotgo.Click(string(button), false)
	})
}

// guard converts panics from robotgo's C layer into errors so a failing
// injection call never takes down the caller.
func guard(op string, fn func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%s: %v", op, r)
		}
	}()
	fn()
	return nil
}
