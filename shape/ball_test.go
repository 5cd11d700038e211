package shape

import (
	"testing"

	"github.com/tangentspace/collide/math32"
)

func TestBallAABBIsCenteredOnPose(t *testing.T) {
	b := NewBall(2)
	pose := Identity()
	pose.Position.Set(1, 2, 3)

	box := b.AABB(&pose)
	if box.Min.X != -1 || box.Max.X != 3 {
		t.Fatalf("expected X range [-1, 3], got [%v, %v]", box.Min.X, box.Max.X)
	}
	if box.Min.Y != 0 || box.Max.Y != 4 {
		t.Fatalf("expected Y range [0, 4], got [%v, %v]", box.Min.Y, box.Max.Y)
	}
}

func TestBallContainsPoint(t *testing.T) {
	b := NewBall(1)
	pose := Identity()

	inside := math32.NewVector3(0.5, 0, 0)
	outside := math32.NewVector3(2, 0, 0)

	if !b.ContainsPoint(&pose, inside) {
		t.Fatal("expected point inside the ball to be contained")
	}
	if b.ContainsPoint(&pose, outside) {
		t.Fatal("expected point outside the ball to not be contained")
	}
}

func TestBallToiAndNormalWithRay(t *testing.T) {
	b := NewBall(1)
	pose := Identity()

	origin := math32.NewVector3(-5, 0, 0)
	dir := math32.NewVector3(1, 0, 0)
	ray := math32.NewRay(origin, dir)

	hit, ok := b.ToiAndNormalWithRay(&pose, ray, 100)
	if !ok {
		t.Fatal("expected ray along the X axis to hit the ball")
	}
	if math32.Abs(hit.TOI-4) > 1e-4 {
		t.Fatalf("expected TOI close to 4, got %v", hit.TOI)
	}

	_, ok = b.ToiAndNormalWithRay(&pose, ray, 1)
	if ok {
		t.Fatal("expected a maxToi shorter than the real hit distance to miss")
	}
}
