package systems

import (
	"math"
	"math/rand"
	"testing"

	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/pthm-cable/minhoca/components"
	"github.com/pthm-cable/minhoca/config"
)

func TestTimerPeriods(t *testing.T) {
	tests := []struct {
		name     string
		interval float64
		steps    []float64
		want     []int
	}{
		{"accumulates", 2, []float64{0.5, 0.5, 0.5, 0.5}, []int{0, 0, 0, 1}},
		{"multiple per step", 1, []float64{3.5, 0.5}, []int{3, 1}},
		{"zero delta", 1, []float64{0, 0}, []int{0, 0}},
		{"disabled", 0, []float64{10}, []int{0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			timer := Timer{Interval: tt.interval}
			for i, dt := range tt.steps {
				if got := timer.Tick(dt); got != tt.want[i] {
					t.Errorf("step %d: Tick(%v) = %d, want %d", i, dt, got, tt.want[i])
				}
			}
		})
	}
}

func TestTimerFixedStepBoundary(t *testing.T) {
	for _, dt := range []float64{1.0 / 60, 1.0 / 30, 0.1} {
		timer := Timer{Interval: 2}
		steps := int(math.Round(2 / dt))
		for i := 1; i <= 2*steps; i++ {
			got := timer.Tick(dt)
			want := 0
			if i%steps == 0 {
				want = 1
			}
			if got != want {
				t.Fatalf("dt %v step %d: Tick = %d, want %d", dt, i, got, want)
			}
		}
	}
}

// checkUniformDisk fails the test if the samples are not uniform over the disk,
// using chi-square tests over equal-area rings and equal-angle sectors.
func checkUniformDisk(t *testing.T, pts []r2.Vec, radius float64) {
	t.Helper()
	const rings, sectors = 10, 8
	ringObs := make([]float64, rings)
	sectorObs := make([]float64, sectors)
	for _, p := range pts {
		d := r2.Norm(p)
		if d > radius {
			t.Fatalf("sample %v outside radius %v", p, radius)
		}
		// Ring k spans radius*sqrt(k/rings) to radius*sqrt((k+1)/rings)
		ring := int(d * d / (radius * radius) * rings)
		if ring == rings {
			ring--
		}
		ringObs[ring]++
		theta := math.Atan2(p.Y, p.X) + math.Pi
		sector := int(theta / (2 * math.Pi) * sectors)
		if sector == sectors {
			sector--
		}
		sectorObs[sector]++
	}

	check := func(name string, obs []float64) {
		exp := make([]float64, len(obs))
		for i := range exp {
			exp[i] = float64(len(pts)) / float64(len(obs))
		}
		chi := stat.ChiSquare(obs, exp)
		p := 1 - distuv.ChiSquared{K: float64(len(obs) - 1)}.CDF(chi)
		if p < 0.001 {
			t.Errorf("%s not uniform: chi2=%v p=%v obs=%v", name, chi, p, obs)
		}
	}
	check("rings", ringObs)
	check("sectors", sectorObs)
}

func TestRejectionSamplerUniformDisk(t *testing.T) {
	const n = 10000
	rng := rand.New(rand.NewSource(1))
	area := PlayArea{Shape: ShapeCircle, Radius: 100}
	s := &RejectionSampler{}

	pts := make([]r2.Vec, n)
	for i := range pts {
		pts[i] = s.Sample(rng, area)
	}
	checkUniformDisk(t, pts, 100)

	// Expected 4/pi draws per sample
	perSample := float64(s.Draws) / n
	if perSample < 1.2 || perSample > 1.35 {
		t.Errorf("draws per sample = %v, want about %v", perSample, 4/math.Pi)
	}
}

func TestPolarSamplerUniformDisk(t *testing.T) {
	const n = 10000
	rng := rand.New(rand.NewSource(2))
	area := PlayArea{Shape: ShapeCircle, Radius: 100}

	pts := make([]r2.Vec, n)
	for i := range pts {
		pts[i] = PolarSampler{}.Sample(rng, area)
	}
	checkUniformDisk(t, pts, 100)
}

func TestSamplersStayInBox(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	area := PlayArea{Shape: ShapeBox, HalfExtents: r2.Vec{X: 50, Y: 10}}
	samplers := map[string]Sampler{
		"rejection": &RejectionSampler{},
		"polar":     PolarSampler{},
	}
	for name, s := range samplers {
		for i := 0; i < 1000; i++ {
			if p := s.Sample(rng, area); !area.Contains(p) {
				t.Fatalf("%s: sample %v outside box", name, p)
			}
		}
	}
}

func newTestSpawner(w *ecs.World, interval float64, max int) *FoodSpawner {
	cfg := config.FoodConfig{Interval: interval, Radius: 10, Amount: 1, Max: max}
	area := PlayArea{Shape: ShapeCircle, Radius: 100}
	return NewFoodSpawner(w, cfg, area, &RejectionSampler{}, rand.New(rand.NewSource(4)))
}

func TestFoodSpawnerInterval(t *testing.T) {
	w := ecs.NewWorld()
	s := newTestSpawner(w, 2, 0)

	total := 0
	for i := 1; i <= 241; i++ {
		n := len(s.Update(1.0/60, total))
		total += n
		switch i {
		case 119:
			if total != 0 {
				t.Fatalf("spawned %d foods before the first period ended", total)
			}
		case 120, 240:
			if n != 1 {
				t.Errorf("tick %d spawned %d foods, want 1 on the period boundary", i, n)
			}
		}
	}
	// 241 ticks cover two full periods and one tick of the third
	if total != 2 {
		t.Errorf("spawned %d foods in 241 ticks, want 2", total)
	}

	filter := ecs.NewFilter2[components.Collider, components.Food](w)
	query := filter.Query()
	count := 0
	for query.Next() {
		col, food := query.Get()
		if col.Layer != components.LayerFood || col.Radius != 10 || food.Amount != 1 {
			t.Errorf("bad food entity: %+v %+v", col, food)
		}
		count++
	}
	if count != total {
		t.Errorf("world holds %d foods, want %d", count, total)
	}
}

func TestFoodSpawnerLargeDelta(t *testing.T) {
	w := ecs.NewWorld()
	s := newTestSpawner(w, 1, 0)

	spawned := s.Update(5.5, 0)
	if len(spawned) != 5 {
		t.Fatalf("spawned %d, want 5", len(spawned))
	}
	for _, sp := range spawned {
		if !w.Alive(sp.Entity) {
			t.Error("spawned entity not alive")
		}
		if r2.Norm(sp.Pos) > 100 {
			t.Errorf("spawned outside area: %v", sp.Pos)
		}
	}
}

func TestFoodSpawnerReset(t *testing.T) {
	w := ecs.NewWorld()
	sampler := &RejectionSampler{}
	cfg := config.FoodConfig{Interval: 1, Radius: 10, Amount: 1}
	s := NewFoodSpawner(w, cfg, PlayArea{Shape: ShapeCircle, Radius: 100}, sampler, rand.New(rand.NewSource(4)))

	if got := len(s.Update(3.5, 0)); got != 3 {
		t.Fatalf("spawned %d, want 3", got)
	}
	if sampler.Draws < 3 {
		t.Fatalf("draws = %d after 3 samples", sampler.Draws)
	}

	s.Reset()
	if sampler.Draws != 0 {
		t.Errorf("draws = %d after reset, want 0", sampler.Draws)
	}
	// the half period left over before the reset is gone
	if got := len(s.Update(0.5, 0)); got != 0 {
		t.Errorf("spawned %d half a period after reset, want 0", got)
	}
}

func TestFoodSpawnerCap(t *testing.T) {
	w := ecs.NewWorld()
	s := newTestSpawner(w, 1, 3)

	if got := len(s.Update(10, 1)); got != 2 {
		t.Errorf("spawned %d with 1 outstanding and max 3, want 2", got)
	}
	if got := len(s.Update(1, 3)); got != 0 {
		t.Errorf("spawned %d at the cap, want 0", got)
	}
}
