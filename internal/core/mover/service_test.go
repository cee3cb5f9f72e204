package mover

import (
	"errors"
	"sync"
	"testing"
	"time"
)

type fakePointer struct {
	mu       sync.Mutex
	x, y     int
	posErr   error
	moveErr  error
	clickErr error
	panicOn  string
	moves    [][2]int
	clicks   []Button
}

func (f *fakePointer) Position() (int, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.posErr != nil {
		return 0, 0, f.posErr
	}
	return f.x, f.y, nil
}

func (f *fakePointer) Move(x, y int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.panicOn == "move" {
		panic("injected move panic")
	}
	if f.moveErr != nil {
		return f.moveErr
	}
	f.x, f.y = x, y
	f.moves = append(f.moves, [2]int{x, y})
	return nil
}

func (f *fakePointer) Click(button Button) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.clickErr != nil {
		return f.clickErr
	}
	f.clicks = append(f.clicks, button)
	return nil
}

func (f *fakePointer) moveSnapshot() [][2]int {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([][2]int, len(f.moves))
	copy(out, f.moves)
	return out
}

func (f *fakePointer) clickSnapshot() []Button {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]Button, len(f.clicks))
	copy(out, f.clicks)
	return out
}

type fakeTarget struct {
	mu       sync.Mutex
	geometry Geometry
	err      error
	calls    int
}

func (f *fakeTarget) Geometry() (Geometry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return Geometry{}, f.err
	}
	return f.geometry, nil
}

func (f *fakeTarget) set(geometry Geometry, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.geometry = geometry
	f.err = err
}

type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

func newTestService(t *testing.T, cfg Config) *Service {
	t.Helper()
	service, err := NewService(cfg, &fakePointer{}, noopLogger{})
	if err != nil {
		t.Fatalf("NewService() error = %v", err)
	}
	service.pause = func(time.Duration) {}
	return service
}

func TestNewServiceRejectsInvalidConfig(t *testing.T) {
	pointer := &fakePointer{}
	cases := []Config{
		{Direction: "diagonal", Distance: 5, ClickInterval: time.Second, MoveInterval: time.Second},
		{Direction: DirectionRight, Distance: 0, ClickInterval: time.Second, MoveInterval: time.Second},
		{Direction: DirectionRight, Distance: 5, ClickInterval: 0, MoveInterval: time.Second},
		{Direction: DirectionRight, Distance: 5, ClickInterval: time.Second, MoveInterval: -time.Second},
	}
	for i, cfg := range cases {
		if _, err := NewService(cfg, pointer, noopLogger{}); err == nil {
			t.Fatalf("case %d: expected error for config %+v", i, cfg)
		}
	}
	if _, err := NewService(testConfig(DirectionRight), nil, noopLogger{}); err == nil {
		t.Fatalf("expected error for nil pointer")
	}
}

func TestMoveRightUnboundedAdvancesCursor(t *testing.T) {
	service := newTestService(t, testConfig(DirectionRight))
	pointer := service.pointer.(*fakePointer)
	pointer.x, pointer.y = 100, 100

	base := time.Now()
	service.now = func() time.Time { return base }
	service.lastClick = base // suppress clicks for this scenario

	for i := 0; i < 10; i++ {
		service.step()
	}

	moves := pointer.moveSnapshot()
	if len(moves) != 10 {
		t.Fatalf("expected 10 moves, got %d", len(moves))
	}
	for i, move := range moves {
		wantX := 100 + 5*(i+1)
		if move[0] != wantX || move[1] != 100 {
			t.Fatalf("move %d = (%d, %d), want (%d, 100)", i, move[0], move[1], wantX)
		}
	}
	if clicks := pointer.clickSnapshot(); len(clicks) != 0 {
		t.Fatalf("expected no clicks, got %d", len(clicks))
	}
}

func TestBoundedReflectionAtRightEdge(t *testing.T) {
	cfg := testConfig(DirectionRight)
	cfg.Distance = 10
	service := newTestService(t, cfg)
	service.vx, service.vy = linearVector(cfg.Direction, cfg.Distance)

	bounds := Bounds{Left: 0, Top: 0, Right: 100, Bottom: 100}
	service.bounds = &bounds
	service.x, service.y = 95, 50

	base := time.Now()
	service.now = func() time.Time { return base }
	service.lastClick = base

	service.step()
	if service.x != 85 || service.y != 50 {
		t.Fatalf("position after reflection = (%d, %d), want (85, 50)", service.x, service.y)
	}
	if service.vx != -10 {
		t.Fatalf("vx after reflection = %d, want -10", service.vx)
	}

	// The negated vector persists until the opposite edge reverses it.
	for want := 75; want >= 5; want -= 10 {
		service.step()
		if service.x != want {
			t.Fatalf("x = %d, want %d", service.x, want)
		}
	}
	service.step()
	if service.x != 15 || service.vx != 10 {
		t.Fatalf("after left-edge bounce x = %d vx = %d, want 15 and 10", service.x, service.vx)
	}
}

func TestBoundedCircularStaysInsideBounds(t *testing.T) {
	service := newTestService(t, testConfig(DirectionCircular))

	bounds := Bounds{Left: 0, Top: 0, Right: 60, Bottom: 60}
	service.bounds = &bounds
	service.x, service.y = bounds.Center()

	base := time.Now()
	service.now = func() time.Time { return base }
	service.lastClick = base

	for i := 0; i < 100; i++ {
		service.step()
		if !bounds.Contains(service.x, service.y) {
			t.Fatalf("step %d: position (%d, %d) escaped bounds %+v", i, service.x, service.y, bounds)
		}
	}
}

func TestClickCadence(t *testing.T) {
	service := newTestService(t, testConfig(DirectionRight))
	pointer := service.pointer.(*fakePointer)

	base := time.Now()
	current := base
	service.now = func() time.Time { return current }
	service.lastClick = base

	// 50 ticks at 100ms move interval = 5s of loop time with a 2s click
	// interval: clicks land at t=2s and t=4s.
	for i := 0; i < 50; i++ {
		service.step()
		current = current.Add(100 * time.Millisecond)
	}

	if service.clicks != 2 {
		t.Fatalf("click pairs = %d, want 2", service.clicks)
	}
	clicks := pointer.clickSnapshot()
	if len(clicks) != 4 {
		t.Fatalf("click events = %d, want 4", len(clicks))
	}
	for i := 0; i < len(clicks); i += 2 {
		if clicks[i] != ButtonLeft || clicks[i+1] != ButtonRight {
			t.Fatalf("click pair %d = (%s, %s), want (left, right)", i/2, clicks[i], clicks[i+1])
		}
	}
}

func TestClickTimestampAdvancesOnFailure(t *testing.T) {
	service := newTestService(t, testConfig(DirectionRight))
	pointer := service.pointer.(*fakePointer)
	pointer.clickErr = errors.New("injection denied")

	base := time.Now()
	service.now = func() time.Time { return base.Add(3 * time.Second) }
	service.lastClick = base

	service.step()

	if service.clicks != 1 {
		t.Fatalf("click pairs = %d, want 1 despite failure", service.clicks)
	}
	if !service.lastClick.Equal(base.Add(3 * time.Second)) {
		t.Fatalf("lastClick not advanced after failed click")
	}
}

func TestInjectionErrorsKeepLoopRunning(t *testing.T) {
	service := newTestService(t, testConfig(DirectionRight))
	pointer := service.pointer.(*fakePointer)
	pointer.posErr = errors.New("permission denied")

	base := time.Now()
	service.now = func() time.Time { return base }
	service.lastClick = base

	for i := 0; i < 5; i++ {
		service.step()
	}
	// No moves recorded, no panic: the loop shrugs and waits for the next tick.
	if moves := pointer.moveSnapshot(); len(moves) != 0 {
		t.Fatalf("expected no moves, got %d", len(moves))
	}
}

func TestStopLatency(t *testing.T) {
	cfg := testConfig(DirectionRight)
	cfg.MoveInterval = 10 * time.Millisecond
	service := newTestService(t, cfg)

	service.Start()
	time.Sleep(30 * time.Millisecond)
	service.Stop()

	select {
	case <-service.Done():
	case <-time.After(200 * time.Millisecond):
		t.Fatalf("loop did not exit within one iteration of Stop()")
	}
	if service.IsRunning() {
		t.Fatalf("IsRunning() = true after Done")
	}
	service.Stop() // idempotent
}

func TestRunHaltsWhenInitialGeometryFails(t *testing.T) {
	cfg := testConfig(DirectionRight)
	target := &fakeTarget{err: errors.New("window gone")}
	cfg.Target = target
	service := newTestService(t, cfg)

	service.Run()

	select {
	case status := <-service.Updates():
		if status.Running {
			t.Fatalf("expected stopped status")
		}
		if status.Err == "" {
			t.Fatalf("expected error text in status")
		}
	default:
		t.Fatalf("expected a final status update")
	}
}

func TestBoundsRefreshTracksWindowAndKeepsLastOnError(t *testing.T) {
	cfg := testConfig(DirectionRight)
	target := &fakeTarget{geometry: Geometry{Left: 0, Top: 0, Width: 120, Height: 120}}
	cfg.Target = target
	service := newTestService(t, cfg)

	base := time.Now()
	current := base
	service.now = func() time.Time { return current }
	service.lastClick = base
	service.lastRefresh = base

	bounds := boundsFromGeometry(target.geometry)
	service.bounds = &bounds
	service.x, service.y = bounds.Center()

	// Window moves; next due refresh picks up the new rectangle and clamps
	// the tracked position into it.
	target.set(Geometry{Left: 500, Top: 500, Width: 120, Height: 120}, nil)
	current = current.Add(1100 * time.Millisecond)
	service.step()

	moved := boundsFromGeometry(Geometry{Left: 500, Top: 500, Width: 120, Height: 120})
	if *service.bounds != moved {
		t.Fatalf("bounds = %+v, want %+v", *service.bounds, moved)
	}
	if !moved.Contains(service.x, service.y) {
		t.Fatalf("position (%d, %d) not clamped into refreshed bounds", service.x, service.y)
	}

	// Lookup failure keeps the last known bounds.
	target.set(Geometry{}, errors.New("lookup failed"))
	current = current.Add(1100 * time.Millisecond)
	service.step()
	if *service.bounds != moved {
		t.Fatalf("bounds changed after failed refresh: %+v", *service.bounds)
	}
}

func TestPanicInLoopBodyHaltsWithStatus(t *testing.T) {
	service := newTestService(t, testConfig(DirectionRight))
	pointer := service.pointer.(*fakePointer)
	pointer.panicOn = "move"

	service.Run()

	select {
	case status := <-service.Updates():
		if status.Err == "" {
			t.Fatalf("expected error text after panic, got %+v", status)
		}
		if status.Running {
			t.Fatalf("expected stopped status after panic")
		}
	default:
		t.Fatalf("expected a final status update")
	}
	if service.IsRunning() {
		t.Fatalf("IsRunning() = true after panic")
	}
}

func TestUpdatesMailboxKeepsLatest(t *testing.T) {
	service := newTestService(t, testConfig(DirectionRight))

	service.publish(Status{Clicks: 1})
	service.publish(Status{Clicks: 2})
	service.publish(Status{Clicks: 3})

	select {
	case status := <-service.Updates():
		if status.Clicks != 3 {
			t.Fatalf("mailbox delivered stale status %+v", status)
		}
	default:
		t.Fatalf("expected a pending status")
	}
}
