package robotinput

import (
	"fmt"
	"time"

	"github.com/go-vgo/robotgo"
	hook "github.com/robotn/gohook"
)

// PickWindow waits for the next physical mouse click and returns the
// enumerated window under it, so users can select a target by clicking on it
// instead of hunting through a list.
func PickWindow(timeout time.Duration) (Window, error) {
	windows, err := List()
	if err != nil {
		return Window{}, err
	}

	x, y, err := nextClickPosition(timeout)
	if err != nil {
		return Window{}, err
	}

	window, ok := windowAt(windows, x, y)
	if !ok {
		return Window{}, fmt.Errorf("no window at click position (%d, %d)", x, y)
	}
	return window, nil
}

func nextClickPosition(timeout time.Duration) (int, int, error) {
	type point struct {
		x, y int
	}
	clickCh := make(chan point, 1)
	stopCh := make(chan struct{})

	go func() {
		events := hook.Start()
		defer hook.End()
		for {
			select {
			case event := <-events:
				if event.Kind != hook.MouseDown {
					continue
				}
				x, y := robotgo.Location()
				select {
				case clickCh <- point{x: x, y: y}:
				default:
				}
				return
			case <-stopCh:
				return
			}
		}
	}()

	var timeoutCh <-chan time.Time
	if timeout > 0 {
		timeoutCh = time.After(timeout)
	}

	select {
	case p := <-clickCh:
		close(stopCh)
		return p.x, p.y, nil
	case <-timeoutCh:
		close(stopCh)
		return 0, 0, fmt.Errorf("no click within %s", timeout)
	}
}
