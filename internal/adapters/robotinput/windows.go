package robotinput

import (
	"fmt"
	"sort"
	"strings"

	"github.com/go-vgo/robotgo"

	"idlemouse/internal/core/mover"
)

// Window is one enumerated on-screen window.
type Window struct {
	Title    string
	PID      int
	Geometry mover.Geometry
}

func (w Window) Label() string {
	return fmt.Sprintf("%s (%dx%d)", w.Title, w.Geometry.Width, w.Geometry.Height)
}

// Target resolves geometry at query time so a moving or resizing window is
// tracked between bounds refreshes.
func (w Window) Target() *Target {
	return &Target{pid: w.PID}
}

type Target struct {
	pid int
}

func (t *Target) Geometry() (mover.Geometry, error) {
	var x, y, width, height int
	if err := guard("query window geometry", func() {
		x, y, width, height = robotgo.GetBounds(t.pid)
	}); err != nil {
		return mover.Geometry{}, err
	}
	if width <= 0 || height <= 0 {
		return mover.Geometry{}, fmt.Errorf("window of pid %d reports no geometry", t.pid)
	}
	return mover.Geometry{Left: x, Top: y, Width: width, Height: height}, nil
}

// List enumerates windows that currently report a non-empty rectangle.
func List() ([]Window, error) {
	processes, err := robotgo.Process()
	if err != nil {
		return nil, fmt.Errorf("list processes: %w", err)
	}

	windows := make([]Window, 0, len(processes))
	for _, proc := range processes {
		var x, y, width, height int
		if err := guard("query window geometry", func() {
			x, y, width, height = robotgo.GetBounds(proc.Pid)
		}); err != nil {
			continue
		}
		if width <= 0 || height <= 0 {
			continue
		}

		title := proc.Name
		_ = guard("query window title", func() {
			if t := strings.TrimSpace(robotgo.GetTitle(proc.Pid)); t != "" {
				title = t
			}
		})

		windows = append(windows, Window{
			Title:    title,
			PID:      proc.Pid,
			Geometry: mover.Geometry{Left: x, Top: y, Width: width, Height: height},
		})
	}

	sort.Slice(windows, func(i, j int) bool {
		return strings.ToLower(windows[i].Title) < strings.ToLower(windows[j].Title)
	})
	return windows, nil
}

// FindByTitle returns the first window whose title contains substr,
// case-insensitively.
func FindByTitle(substr string) (Window, error) {
	windows, err := List()
	if err != nil {
		return Window{}, err
	}
	for _, window := range windows {
		if matchTitle(window.Title, substr) {
			return window, nil
		}
	}
	return Window{}, fmt.Errorf("no window matching %q among %d windows", substr, len(windows))
}

func matchTitle(title, substr string) bool {
	if strings.TrimSpace(substr) == "" {
		return false
	}
	return strings.Contains(strings.ToLower(title), strings.ToLower(strings.TrimSpace(substr)))
}

// windowAt picks the window containing the point; with overlapping windows
// the smallest rectangle wins, which approximates the topmost one.
func windowAt(windows []Window, x, y int) (Window, bool) {
	best := -1
	bestArea := 0
	for i, window := range windows {
		g := window.Geometry
		if x < g.Left || x >= g.Left+g.Width || y < g.Top || y >= g.Top+g.Height {
			continue
		}
		area := g.Width * g.Height
		if best == -1 || area < bestArea {
			best = i
			bestArea = area
		}
	}
	if best == -1 {
		return Window{}, false
	}
	return windows[best], true
}
