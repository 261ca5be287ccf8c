package economy

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// LevelSpec is one row of the progression table.
type LevelSpec struct {
	Level            int
	XPRequired       int64
	IncomeMultiplier decimal.Decimal
	SpeedMultiplier  decimal.Decimal
	Bonus            string
}

// DefaultLevels returns the ten reference levels.
func DefaultLevels() []LevelSpec {
	rows := []struct {
		xp     int64
		income string
		speed  string
		bonus  string
	}{
		{0, "1.0", "1.0", "none"},
		{100, "1.2", "1.1", "upgrades"},
		{300, "1.5", "1.2", "discount_5"},
		{600, "1.8", "1.3", "storage"},
		{1000, "2.2", "1.5", "automation_1"},
		{1500, "2.7", "1.7", "discount_10"},
		{2200, "3.3", "2.0", "automation_2"},
		{3000, "4.0", "2.3", "vip"},
		{4000, "5.0", "2.7", "franchise"},
		{5500, "6.5", "3.0", "corporation"},
	}

	levels := make([]LevelSpec, 0, len(rows))
	for i, r := range rows {
		levels = append(levels, LevelSpec{
			Level:            i + 1,
			XPRequired:       r.xp,
			IncomeMultiplier: decimal.RequireFromString(r.income),
			SpeedMultiplier:  decimal.RequireFromString(r.speed),
			Bonus:            r.bonus,
		})
	}

	return levels
}

// LevelTable maps accumulated xp to a level.
type LevelTable struct {
	levels []LevelSpec
}

// NewLevelTable checks that levels are numbered from 1 and that xp thresholds
// and multipliers strictly increase.
func NewLevelTable(levels []LevelSpec) (*LevelTable, error) {
	if len(levels) == 0 {
		return nil, fmt.Errorf("level table is empty")
	}
	if levels[0].XPRequired != 0 {
		return nil, fmt.Errorf("level 1 must require 0 xp")
	}

	for i, l := range levels {
		if l.Level != i+1 {
			return nil, fmt.Errorf("level %d found at position %d", l.Level, i+1)
		}
		if i == 0 {
			continue
		}
		prev := levels[i-1]
		if l.XPRequired <= prev.XPRequired {
			return nil, fmt.Errorf("level %d xp threshold does not increase", l.Level)
		}
		if !l.IncomeMultiplier.GreaterThan(prev.IncomeMultiplier) {
			return nil, fmt.Errorf("level %d income multiplier does not increase", l.Level)
		}
	}

	return &LevelTable{levels: append([]LevelSpec(nil), levels...)}, nil
}

// MaxLevel returns the highest level in the table.
func (t *LevelTable) MaxLevel() int { return len(t.levels) }

// Levels returns a copy of all rows.
func (t *LevelTable) Levels() []LevelSpec { return append([]LevelSpec(nil), t.levels...) }

// LevelFor returns the highest level whose threshold is at most xp.
func (t *LevelTable) LevelFor(xp int64) int {
	level := 1
	for _, l := range t.levels {
		if l.XPRequired > xp {
			break
		}
		level = l.Level
	}

	return level
}

// Spec returns the row for level, clamped into the table range.
func (t *LevelTable) Spec(level int) LevelSpec {
	level = min(max(level, 1), len(t.levels))
	return t.levels[level-1]
}
