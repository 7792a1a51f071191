package portal

import (
	"testing"

	"github.com/holdline-games/warden/config"
)

func testConfig() config.PortalConfig {
	return config.PortalConfig{
		InitialHealth:       100,
		SafetyRadius:        5,
		RadiusGrowthPerWave: 2,
	}
}

func TestNewPortalStartsAtFullHealthAndAlive(t *testing.T) {
	p := New(100, 100, 2, 2, testConfig())
	if p.HP() != 100 || p.MaxHP() != 100 {
		t.Fatalf("expected hp=maxHp=100, got hp=%d maxHp=%d", p.HP(), p.MaxHP())
	}
	if !p.Alive() || !p.Active() {
		t.Fatal("expected a freshly constructed portal to be alive and active")
	}
}

func TestDamageClampsAtZeroAndReportsDestroyed(t *testing.T) {
	p := New(0, 0, 2, 2, testConfig())
	if destroyed := p.Damage(40); destroyed {
		t.Fatal("expected partial damage to not destroy the portal")
	}
	if p.HP() != 60 {
		t.Fatalf("expected hp=60 after 40 damage, got %d", p.HP())
	}
	destroyed := p.Damage(1000)
	if !destroyed {
		t.Fatal("expected lethal damage to report destroyed")
	}
	if p.HP() != 0 {
		t.Fatalf("expected hp clamped at 0, got %d", p.HP())
	}
	if p.Alive() || p.Active() {
		t.Fatal("expected a destroyed portal to be neither alive nor active")
	}
}

func TestDamageOnDeadPortalIsNoop(t *testing.T) {
	p := New(0, 0, 2, 2, testConfig())
	p.Damage(100)
	destroyed := p.Damage(10)
	if !destroyed {
		t.Fatal("expected Damage on an already-dead portal to keep reporting destroyed")
	}
	if p.HP() != 0 {
		t.Fatalf("expected hp to remain 0, got %d", p.HP())
	}
}

func TestGrowRadiusAccumulates(t *testing.T) {
	p := New(0, 0, 2, 2, testConfig())
	if p.SafetyRadius() != 5 {
		t.Fatalf("expected initial radius 5, got %v", p.SafetyRadius())
	}
	p.GrowRadius()
	p.GrowRadius()
	if got := p.SafetyRadius(); got != 9 {
		t.Fatalf("expected radius 9 after two wave growths, got %v", got)
	}
}

func TestContainsHonorsCircularSafetyRegion(t *testing.T) {
	p := New(100, 100, 2, 2, testConfig())
	cases := []struct {
		col, row int
		want     bool
	}{
		{100, 100, true},
		{103, 100, true},  // distance 3, radius 5
		{100, 104, true},  // distance 4
		{106, 100, false}, // distance 6, outside radius 5
		{100, 110, false},
	}
	for _, c := range cases {
		if got := p.Contains(c.col, c.row); got != c.want {
			t.Errorf("Contains(%d,%d) = %v, want %v", c.col, c.row, got, c.want)
		}
	}
}

func TestDestroyedPortalStopsProtectingItsRegion(t *testing.T) {
	p := New(100, 100, 2, 2, testConfig())
	p.Damage(1000)
	if p.Active() {
		t.Fatal("expected a destroyed portal to report Active() == false regardless of Contains")
	}
}

func TestAABBAndWorldCenterDeriveFromCellUnits(t *testing.T) {
	p := New(10, 5, 3, 2, testConfig())
	minCol, minRow, maxCol, maxRow := p.AABB()
	if minCol != 7 || maxCol != 13 || minRow != 3 || maxRow != 7 {
		t.Fatalf("unexpected AABB: min=(%v,%v) max=(%v,%v)", minCol, minRow, maxCol, maxRow)
	}
	x, y := p.WorldCenter(16, 16)
	if x != 160 || y != 80 {
		t.Fatalf("expected world center (160,80), got (%v,%v)", x, y)
	}
}
