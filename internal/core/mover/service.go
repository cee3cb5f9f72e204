package mover

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"
)

const (
	// interClickDelay separates the left and right click of one pair.
	interClickDelay = 100 * time.Millisecond
	// boundsRefreshEvery re-reads target geometry to track a moving window.
	boundsRefreshEvery = time.Second
)

// Service drives the motion/click loop. One background goroutine owns all
// loop state; the UI observes it through IsRunning, Updates and Done.
type Service struct {
	cfg     Config
	pointer Pointer
	logger  Logger

	running  atomic.Bool
	stopCh   chan struct{}
	stopOnce sync.Once
	doneCh   chan struct{}
	updates  chan Status

	now   func() time.Time
	pause func(time.Duration)

	// Loop state below is touched only by the Run goroutine (and by tests
	// driving step directly).
	bounds      *Bounds
	x, y        int
	vx, vy      int
	angle       int
	clicks      uint64
	lastClick   time.Time
	lastRefresh time.Time
	errText     string
}

func NewService(cfg Config, pointer Pointer, logger Logger) (*Service, error) {
	if pointer == nil {
		return nil, fmt.Errorf("pointer is nil")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is nil")
	}
	if _, err := ParseDirection(string(cfg.Direction)); err != nil {
		return nil, err
	}
	if cfg.Distance <= 0 {
		return nil, fmt.Errorf("move distance must be > 0")
	}
	if cfg.ClickInterval <= 0 {
		return nil, fmt.Errorf("click interval must be > 0")
	}
	if cfg.MoveInterval <= 0 {
		return nil, fmt.Errorf("move interval must be > 0")
	}

	s := &Service{
		cfg:     cfg,
		pointer: pointer,
		logger:  logger,
		stopCh:  make(chan struct{}),
		doneCh:  make(chan struct{}),
		updates: make(chan Status, 1),
		now:     time.Now,
		pause:   time.Sleep,
	}
	s.vx, s.vy = linearVector(cfg.Direction, cfg.Distance)
	return s, nil
}

func (s *Service) Start() {
	go s.Run()
}

// Run executes the loop until Stop. Injection failures are logged and the
// loop continues; a panic escaping the loop body halts the loop and lands in
// the final Status instead of the hosting process.
func (s *Service) Run() {
	s.running.Store(true)
	defer func() {
		if r := recover(); r != nil {
			s.errText = fmt.Sprint(r)
			s.logger.Error("Driver loop halted", "err", r)
		}
		s.running.Store(false)
		s.publish(s.status())
		close(s.doneCh)
	}()

	if s.cfg.Target != nil {
		geometry, err := s.cfg.Target.Geometry()
		if err != nil {
			s.errText = err.Error()
			s.logger.Error("Target window geometry unavailable", "err", err)
			return
		}
		bounds := boundsFromGeometry(geometry)
		s.bounds = &bounds
		s.x, s.y = bounds.Center()
		s.lastRefresh = s.now()
	}

	s.logger.Info("Driver started",
		"direction", s.cfg.Direction,
		"distance", s.cfg.Distance,
		"click_interval", s.cfg.ClickInterval,
		"move_interval", s.cfg.MoveInterval,
		"bounded", s.bounds != nil,
	)
	s.publish(s.status())

	for {
		if s.stopped() {
			s.logger.Info("Driver stopped")
			return
		}
		s.step()
		if !s.sleepWithStop(s.cfg.MoveInterval) {
			s.logger.Info("Driver stopped")
			return
		}
	}
}

// Stop requests loop termination; it takes effect at the next iteration
// boundary.
func (s *Service) Stop() {
	s.stopOnce.Do(func() {
		close(s.stopCh)
	})
}

func (s *Service) IsRunning() bool {
	return s.running.Load()
}

func (s *Service) Done() <-chan struct{} {
	return s.doneCh
}

// Updates is a single-slot mailbox; a slow reader only ever sees the most
// recent Status.
func (s *Service) Updates() <-chan Status {
	return s.updates
}

// step runs exactly one iteration: refresh bounds if due, move, click if due.
func (s *Service) step() {
	now := s.now()
	s.refreshBounds(now)
	s.moveOnce()
	if now.Sub(s.lastClick) >= s.cfg.ClickInterval {
		s.clickPair()
		// Timestamp and count advance regardless of injection success.
		s.lastClick = now
		s.clicks++
		s.publish(s.status())
	}
}

func (s *Service) moveOnce() {
	if s.bounds == nil {
		dx, dy := s.directionVector()
		x, y, err := s.pointer.Position()
		if err != nil {
			s.logger.Warn("Cursor position unavailable", "err", err)
			return
		}
		if err := s.pointer.Move(x+dx, y+dy); err != nil {
			s.logger.Warn("Cursor move failed", "err", err)
		}
		return
	}

	bounds := *s.bounds
	dx, dy := s.directionVector()
	if next := s.x + dx; next < bounds.Left || next > bounds.Right {
		dx = -dx
	}
	if next := s.y + dy; next < bounds.Top || next > bounds.Bottom {
		dy = -dy
	}
	if s.cfg.Direction != DirectionCircular {
		// Reflection sticks for linear motion: the cursor bounces between
		// the two walls until the opposite edge reverses it again.
		s.vx, s.vy = dx, dy
	}
	s.x, s.y = bounds.Clamp(s.x+dx, s.y+dy)
	if err := s.pointer.Move(s.x, s.y); err != nil {
		s.logger.Warn("Cursor move failed", "err", err)
	}
}

func (s *Service) clickPair() {
	if err := s.pointer.Click(ButtonLeft); err != nil {
		s.logger.Warn("Left click failed", "err", err)
	}
	s.pause(interClickDelay)
	if err := s.pointer.Click(ButtonRight); err != nil {
		s.logger.Warn("Right click failed", "err", err)
	}
}

func (s *Service) refreshBounds(now time.Time) {
	if s.cfg.Target == nil {
		return
	}
	if now.Sub(s.lastRefresh) < boundsRefreshEvery {
		return
	}
	s.lastRefresh = now

	geometry, err := s.cfg.Target.Geometry()
	if err != nil {
		s.logger.Warn("Bounds refresh failed; keeping previous bounds", "err", err)
		return
	}
	bounds := boundsFromGeometry(geometry)
	s.bounds = &bounds
	s.x, s.y = bounds.Clamp(s.x, s.y)
}

func (s *Service) status() Status {
	return Status{
		Running:   s.running.Load(),
		Clicks:    s.clicks,
		LastClick: s.lastClick,
		Err:       s.errText,
	}
}

func (s *Service) publish(status Status) {
	for {
		select {
		case s.updates <- status:
			return
		default:
		}
		select {
		case <-s.updates:
		default:
		}
	}
}

func (s *Service) stopped() bool {
	select {
	case <-s.stopCh:
		return true
	default:
		return false
	}
}

func (s *Service) sleepWithStop(duration time.Duration) bool {
	timer := time.NewTimer(duration)
	defer timer.Stop()
	select {
	case <-s.stopCh:
		return false
	case <-timer.C:
		return true
	}
}
