// Package scheduler implements the leveled spaced-repetition policy:
// level transitions on review outcomes and the startup reconciliation of
// stale recommend dates.
package scheduler

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Levels range from 0 (newest) to 3 (most mastered).
const (
	MinLevel = 0
	MaxLevel = 3
)

// Transition is the result of one review outcome at one level: the
// level to move to and the days until the next study session.
type Transition struct {
	Level        int `yaml:"level"`
	IntervalDays int `yaml:"interval_days"`
}

// Policy maps each level to its transition on a correct or incorrect
// answer. The table is explicit rather than hard-coded arithmetic so a
// deck can tune it without a rebuild.
type Policy struct {
	Success [MaxLevel + 1]Transition `yaml:"success"`
	Failure [MaxLevel + 1]Transition `yaml:"failure"`
}

// DefaultPolicy returns the built-in transition table: a correct answer
// advances one level with a growing interval, an incorrect answer
// resets to level 0 with a one-day interval.
func DefaultPolicy() Policy {
	return Policy{
		Success: [MaxLevel + 1]Transition{
			{Level: 1, IntervalDays: 2},
			{Level: 2, IntervalDays: 3},
			{Level: 3, IntervalDays: 4},
			{Level: 3, IntervalDays: 4},
		},
		Failure: [MaxLevel + 1]Transition{
			{Level: 0, IntervalDays: 1},
			{Level: 0, IntervalDays: 1},
			{Level: 0, IntervalDays: 1},
			{Level: 0, IntervalDays: 1},
		},
	}
}

// LoadPolicy reads a transition table from a YAML file. An empty path
// returns the default policy.
func LoadPolicy(path string) (Policy, error) {
	if path == "" {
		return DefaultPolicy(), nil
	}

	file, err := os.Open(path)
	if err != nil {
		return Policy{}, fmt.Errorf("os.Open(%s) > %w", path, err)
	}
	defer func() {
		_ = file.Close()
	}()

	var policy Policy
	if err := yaml.NewDecoder(file).Decode(&policy); err != nil {
		return Policy{}, fmt.Errorf("yaml.NewDecoder().Decode() > %w", err)
	}
	if err := policy.Validate(); err != nil {
		return Policy{}, fmt.Errorf("invalid policy in %s: %w", path, err)
	}
	return policy, nil
}

// Validate checks that every transition stays within the level bounds
// and schedules at least one day ahead.
func (p Policy) Validate() error {
	check := func(kind string, transitions [MaxLevel + 1]Transition) error {
		for level, t := range transitions {
			if t.Level < MinLevel || t.Level > MaxLevel {
				return fmt.Errorf("%s transition for level %d moves to out-of-range level %d", kind, level, t.Level)
			}
			if t.IntervalDays < 1 {
				return fmt.Errorf("%s transition for level %d has interval %d, want >= 1", kind, level, t.IntervalDays)
			}
		}
		return nil
	}

	if err := check("success", p.Success); err != nil {
		return err
	}
	return check("failure", p.Failure)
}

func clampLevel(level int) int {
	if level < MinLevel {
		return MinLevel
	}
	if level > MaxLevel {
		return MaxLevel
	}
	return level
}
