package mover

import (
	"math"
	"testing"
	"time"
)

func TestLinearVectorsAreConstant(t *testing.T) {
	cases := []struct {
		direction Direction
		wantX     int
		wantY     int
	}{
		{DirectionRight, 5, 0},
		{DirectionLeft, -5, 0},
		{DirectionUp, 0, -5},
		{DirectionDown, 0, 5},
	}

	for _, tc := range cases {
		service := newTestService(t, testConfig(tc.direction))
		for i := 0; i < 3; i++ {
			x, y := service.directionVector()
			if x != tc.wantX || y != tc.wantY {
				t.Fatalf("directionVector(%s) call %d = (%d, %d), want (%d, %d)",
					tc.direction, i, x, y, tc.wantX, tc.wantY)
			}
		}
	}
}

func TestCircularVectorFullRevolution(t *testing.T) {
	service := newTestService(t, testConfig(DirectionCircular))

	for i := 0; i < 360/circularStepDegrees; i++ {
		x, y := service.directionVector()
		radius := math.Hypot(float64(x), float64(y))
		if math.Abs(radius-circularRadius) > 1 {
			t.Fatalf("call %d: point (%d, %d) has radius %.2f, want ~%d", i, x, y, radius, circularRadius)
		}
	}

	if service.angle != 0 {
		t.Fatalf("phase angle after full revolution = %d, want 0", service.angle)
	}
}

func TestCircularRadiusShrinksToQuarterOfBoundedWidth(t *testing.T) {
	service := newTestService(t, testConfig(DirectionCircular))
	bounds := Bounds{Left: 0, Top: 0, Right: 80, Bottom: 80}
	service.bounds = &bounds

	x, y := service.directionVector()
	if x != 20 || y != 0 {
		t.Fatalf("directionVector() at angle 0 with width 80 = (%d, %d), want (20, 0)", x, y)
	}
}

func TestParseDirection(t *testing.T) {
	if _, err := ParseDirection("diagonal"); err == nil {
		t.Fatalf("expected error for unknown direction")
	}
	direction, err := ParseDirection("  Circular ")
	if err != nil {
		t.Fatalf("ParseDirection() error = %v", err)
	}
	if direction != DirectionCircular {
		t.Fatalf("ParseDirection() = %s, want %s", direction, DirectionCircular)
	}
}

func testConfig(direction Direction) Config {
	return Config{
		Direction:     direction,
		Distance:      5,
		ClickInterval: 2 * time.Second,
		MoveInterval:  100 * time.Millisecond,
	}
}
