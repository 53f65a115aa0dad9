package scoring_test

import (
	"testing"

	"github.com/dorifit/dorifit/pkg/scoring"
)

func TestLevelScore_Curves(t *testing.T) {
	for rarity := 1; rarity <= 4; rarity++ {
		max := scoring.MaxLevel(rarity)
		if max == 0 {
			t.Fatalf("rarity %d: no curve", rarity)
		}
		if got := scoring.LevelScore(1, rarity); got != 0 {
			t.Errorf("rarity %d: LevelScore(1) = %v, want 0", rarity, got)
		}
		if got := scoring.LevelScore(max, rarity); got != 1 {
			t.Errorf("rarity %d: LevelScore(%d) = %v, want 1", rarity, max, got)
		}
		prev := -1.0
		for level := 1; level <= max; level++ {
			got := scoring.LevelScore(level, rarity)
			if got < prev {
				t.Errorf("rarity %d: curve decreases at level %d (%v < %v)", rarity, level, got, prev)
			}
			prev = got
		}
	}
}

func TestLevelScore_MaxLevels(t *testing.T) {
	want := map[int]int{1: 20, 2: 30, 3: 50, 4: 60}
	for rarity, max := range want {
		if got := scoring.MaxLevel(rarity); got != max {
			t.Errorf("MaxLevel(%d) = %d, want %d", rarity, got, max)
		}
	}
	if got := scoring.MaxLevel(7); got != 0 {
		t.Errorf("MaxLevel(7) = %d, want 0", got)
	}
}

func TestLevelScore_OutOfRange(t *testing.T) {
	tests := []struct {
		name          string
		level, rarity int
		want          float64
	}{
		{"level zero", 0, 4, 0},
		{"negative level", -3, 2, 0},
		{"past max clamps", 80, 4, 1},
		{"unknown rarity", 10, 5, 1},
		{"rarity zero", 10, 0, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := scoring.LevelScore(tt.level, tt.rarity); got != tt.want {
				t.Errorf("LevelScore(%d, %d) = %v, want %v", tt.level, tt.rarity, got, tt.want)
			}
		})
	}
}
