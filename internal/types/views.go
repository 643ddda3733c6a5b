package types

import "time"

// Outcome describes what one command changed.
type Outcome struct {
	Description    string         `json:"description"`
	XPChanges      map[string]int `json:"xp_changes,omitempty"`
	CurrencyChange int            `json:"currency_change"`
	HealthChange   int            `json:"health_change,omitempty"`
	LevelUp        *LevelUp       `json:"level_up,omitempty"`
	HistoryEntry   string         `json:"history_entry,omitempty"`
}

// LevelUp is reported when a reward crossed a 100-xp boundary.
type LevelUp struct {
	Attribute     string `json:"attribute"`
	NewLevel      int    `json:"new_level"`
	CurrencyBonus int    `json:"currency_bonus"`
	HealthRestore bool   `json:"health_restore"`
}

// DailyReport is the result of the once-per-day missed habit check.
type DailyReport struct {
	Date     Date     `json:"date"`
	Applied  bool     `json:"applied"`
	Missed   []string `json:"missed,omitempty"`
	Damage   int      `json:"damage"`
	Health   int      `json:"health"`
	Critical bool     `json:"critical"`
}

// SessionStart is what a new session learns on entry.
type SessionStart struct {
	Actor Actor       `json:"actor"`
	Daily DailyReport `json:"daily"`
}

// AttributeStatus is the level view of one attribute.
type AttributeStatus struct {
	Name     string  `json:"name"`
	XP       int     `json:"xp"`
	Level    int     `json:"level"`
	Progress float64 `json:"progress"`
}

// CharacterStatus is the dashboard view of a character.
type CharacterStatus struct {
	CharacterID    string            `json:"character_id"`
	DisplayName    string            `json:"display_name"`
	Rank           string            `json:"rank"`
	TotalXP        int               `json:"total_xp"`
	PlayerLevel    int               `json:"player_level"`
	Progress       float64           `json:"progress"`
	Health         int               `json:"health"`
	MaxHealth      int               `json:"max_health"`
	Currency       int               `json:"currency"`
	Critical       bool              `json:"critical"`
	InventoryCount int               `json:"inventory_count"`
	Attributes     []AttributeStatus `json:"attributes"`
}

// LeaderboardEntry is one row of the family leaderboard.
type LeaderboardEntry struct {
	CharacterID string `json:"character_id"`
	Rank        string `json:"rank"`
	Currency    int    `json:"currency"`
	TotalXP     int    `json:"total_xp"`
}

// HabitStatus is one habit as shown on the quest board.
type HabitStatus struct {
	Name            string `json:"name"`
	RewardAttribute string `json:"reward_attribute"`
	DoneToday       bool   `json:"done_today"`
}

// TaskStanding classifies a task against today.
type TaskStanding string

const (
	TaskLate      TaskStanding = "late"
	TaskDueToday  TaskStanding = "due-today"
	TaskUpcoming  TaskStanding = "upcoming"
	TaskCompleted TaskStanding = "completed"
)

// TaskStatus is one task as shown on the quest board.
type TaskStatus struct {
	Index          int          `json:"index"`
	Task           Task         `json:"task"`
	Standing       TaskStanding `json:"standing"`
	CurrencyReward int          `json:"currency_reward"`
}

// ShopListing is one purchasable item.
type ShopListing struct {
	Item       string `json:"item"`
	Price      int    `json:"price"`
	Affordable bool   `json:"affordable"`
	Shortfall  int    `json:"shortfall"`
}

// SkillView is one skill with its place in the tree.
type SkillView struct {
	Category string `json:"category"`
	Name     string `json:"name"`
	Skill    Skill  `json:"skill"`
}

// WorkoutState is the state of the workout state machine.
type WorkoutState string

const (
	WorkoutIdle       WorkoutState = "idle"
	WorkoutInProgress WorkoutState = "in-progress"
	WorkoutCleared    WorkoutState = "cleared"
)

// PreviousLog is the last weight/notes recorded for an exercise.
type PreviousLog struct {
	Weight string `json:"weight"`
	Notes  string `json:"notes"`
}

// ExerciseView is the exercise currently being performed.
type ExerciseView struct {
	Exercise    Exercise      `json:"exercise"`
	PlannedSets int           `json:"planned_sets"`
	Duration    time.Duration `json:"duration,omitempty"`
	Previous    *PreviousLog  `json:"previous,omitempty"`
}

// WorkoutView is the gym screen: queue when idle, current step otherwise.
type WorkoutView struct {
	State     WorkoutState  `json:"state"`
	QueueDays []string      `json:"queue_days,omitempty"`
	DayName   string        `json:"day_name,omitempty"`
	Step      int           `json:"step"`
	Total     int           `json:"total"`
	Progress  float64       `json:"progress"`
	Current   *ExerciseView `json:"current,omitempty"`
}

// ImportResult summarizes a successful plan import.
type ImportResult struct {
	Days    []string `json:"days"`
	Message string   `json:"message"`
}

// PlateLoad is the per-side plate breakdown for a target bar weight.
type PlateLoad struct {
	Target    float64   `json:"target"`
	PerSide   float64   `json:"per_side"`
	Plates    []float64 `json:"plates"`
	Remainder float64   `json:"remainder"`
	BarOnly   bool      `json:"bar_only"`
}
