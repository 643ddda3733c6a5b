package game

import (
	"sort"

	"github.com/user/lifequest/internal/types"
)

// applyDailyPenalty runs the missed-habit check once per calendar day. A habit
// counts as missed unless it was last completed yesterday or today. Re-running
// it on the same day returns a report with Applied=false and changes nothing.
func applyDailyPenalty(c *types.Character, today types.Date) types.DailyReport {
	report := types.DailyReport{
		Date:   today,
		Health: c.Vitals.Health,
	}
	if c.LastLoginDate == today {
		report.Critical = c.Vitals.Health <= CriticalHealth
		return report
	}

	yesterday := today.AddDays(-1)
	for name, habit := range c.Habits {
		last := habit.LastCompletedDate
		if last != yesterday && last != today {
			report.Missed = append(report.Missed, name)
		}
	}
	sort.Strings(report.Missed)

	if len(report.Missed) > 0 {
		report.Damage = MissedHabitPenalty * len(report.Missed)
		c.Vitals.Health -= report.Damage
		if c.Vitals.Health < HealthFloor {
			c.Vitals.Health = HealthFloor
		}
	}

	c.LastLoginDate = today
	report.Applied = true
	report.Health = c.Vitals.Health
	report.Critical = c.Vitals.Health <= CriticalHealth
	return report
}
