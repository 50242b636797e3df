package catnet

import (
	"errors"
	"math"
	"testing"
)

func TestFacade(t *testing.T) {
	n := NewNetwork()
	n.DenseLayer().Bias().Set(0, 0, CatClass, 50)

	images := []*Volume{
		NewVolume(32, 32, 3, 0),
		NewVolume(32, 32, 3, 255),
	}
	scores, err := ClassifyCats(n, images)
	if err != nil {
		t.Fatalf("ClassifyCats: %v", err)
	}
	for i, s := range scores {
		if math.Abs(s-1) > 1e-12 {
			t.Errorf("image %d: p(cat) = %f, want 1", i, s)
		}
	}

	cfg := DefaultConfig()
	cfg.TargetClass = 0
	others, err := Classify(n, images, cfg)
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}
	if others[0] > 1e-12 {
		t.Errorf("p(airplane) = %g, want ~0", others[0])
	}

	_, err = ClassifyCats(n, []*Volume{NewVolume(28, 28, 1, 0)})
	if !errors.Is(err, ErrInputShape) {
		t.Errorf("err = %v, want ErrInputShape", err)
	}
}

func TestFacadeLoadMissing(t *testing.T) {
	if _, err := LoadNetwork(t.TempDir()); err == nil {
		t.Error("LoadNetwork on an empty directory succeeded")
	}
}
