package types

import (
	"encoding/json"
	"strings"
)

// Attribute names. Each one is an independent experience pool.
const (
	Strength  = "Strength"
	Intellect = "Intellect"
	Vitality  = "Vitality"
	Agility   = "Agility"
	Sense     = "Sense"
	Spirit    = "Spirit"
)

// Attributes lists the six experience pools in display order.
var Attributes = []string{Strength, Intellect, Vitality, Agility, Sense, Spirit}

// IsAttribute reports whether name is one of the six attributes.
func IsAttribute(name string) bool {
	for _, a := range Attributes {
		if a == name {
			return true
		}
	}
	return false
}

// Document maps character id to character state. It is the whole saved file.
type Document map[string]*Character

// Character is the root aggregate persisted per family member.
type Character struct {
	Experience     map[string]int               `json:"experience"`
	Vitals         Vitals                       `json:"vitals"`
	Habits         map[string]*Habit            `json:"habits"`
	Tasks          []Task                       `json:"tasks"`
	Shop           map[string]int               `json:"shop"`
	Inventory      []string                     `json:"inventory"`
	Skills         map[string]map[string]*Skill `json:"skills"`
	History        []string                     `json:"history"`
	WorkoutQueue   map[string][]Exercise        `json:"workoutQueue"`
	ActiveWorkout  *WorkoutSession              `json:"activeWorkout"`
	WorkoutHistory []WorkoutSession             `json:"workoutHistory"`
	WeightLog      WeightLog                    `json:"weightLog"`
	LastLoginDate  Date                         `json:"lastLoginDate"`
}

// TotalXP sums experience over the six attributes. Other keys are ignored.
func (c *Character) TotalXP() int {
	total := 0
	for _, attr := range Attributes {
		total += c.Experience[attr]
	}
	return total
}

// Vitals holds health and spendable currency.
type Vitals struct {
	Health    int `json:"health"`
	MaxHealth int `json:"maxHealth"`
	Currency  int `json:"currency"`
}

// Habit is a recurring quest completable once per day.
type Habit struct {
	RewardAttribute   string `json:"rewardAttribute"`
	LastCompletedDate Date   `json:"lastCompletedDate"`
}

// Task is a one-time quest with a due date.
type Task struct {
	Name            string `json:"name"`
	RewardAttribute string `json:"rewardAttribute"`
	DueDate         Date   `json:"dueDate"`
	Completed       bool   `json:"completed"`
}

// SkillStatus is the mastery state of a skill.
type SkillStatus string

const (
	SkillInProgress SkillStatus = "in-progress"
	SkillMastered   SkillStatus = "mastered"
)

// Skill is one entry of the skill tree.
type Skill struct {
	Status          SkillStatus `json:"status"`
	RewardAttribute string      `json:"rewardAttribute"`
	RewardXP        int         `json:"rewardXp"`
}

// Older saves stored a skill either as a bare status string or as an object
// keyed "attr"/"xp". Both collapse into the one record shape here.
const (
	legacySkillAttribute = Intellect
	legacySkillXP        = 50
)

func (s *Skill) UnmarshalJSON(data []byte) error {
	var status string
	if err := json.Unmarshal(data, &status); err == nil {
		*s = Skill{
			Status:          NormalizeSkillStatus(status),
			RewardAttribute: legacySkillAttribute,
			RewardXP:        legacySkillXP,
		}
		return nil
	}

	var raw struct {
		Status          string `json:"status"`
		RewardAttribute string `json:"rewardAttribute"`
		RewardXP        *int   `json:"rewardXp"`
		Attr            string `json:"attr"`
		XP              *int   `json:"xp"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	skill := Skill{
		Status:          NormalizeSkillStatus(raw.Status),
		RewardAttribute: raw.RewardAttribute,
		RewardXP:        legacySkillXP,
	}
	if skill.RewardAttribute == "" {
		skill.RewardAttribute = raw.Attr
	}
	if skill.RewardAttribute == "" {
		skill.RewardAttribute = legacySkillAttribute
	}
	switch {
	case raw.RewardXP != nil:
		skill.RewardXP = *raw.RewardXP
	case raw.XP != nil:
		skill.RewardXP = *raw.XP
	}
	*s = skill
	return nil
}

// NormalizeSkillStatus maps any stored spelling onto the two valid states.
func NormalizeSkillStatus(status string) SkillStatus {
	if strings.EqualFold(strings.TrimSpace(status), string(SkillMastered)) {
		return SkillMastered
	}
	return SkillInProgress
}

// Exercise is one line of a workout plan, plus what the user logged for it.
type Exercise struct {
	Name          string `json:"name"`
	Sets          string `json:"sets"`
	Reps          string `json:"reps"`
	TrainerNote   string `json:"trainerNote"`
	UserWeight    string `json:"userWeight"`
	UserNotes     string `json:"userNotes"`
	SetsCompleted int    `json:"setsCompleted"`
}

// WorkoutSession is one attempt at a queued plan day.
type WorkoutSession struct {
	ID          string     `json:"id"`
	Date        Date       `json:"date"`
	DayName     string     `json:"dayName"`
	Exercises   []Exercise `json:"exercises"`
	CurrentStep int        `json:"currentStep"`
}

// Cleared reports whether every exercise has been submitted.
func (w *WorkoutSession) Cleared() bool {
	return w.CurrentStep >= len(w.Exercises)
}

// WeightLog keeps parallel date and body-weight samples.
type WeightLog struct {
	Dates   []Date    `json:"dates"`
	Weights []float64 `json:"weights"`
}

// Actor is the acting session: which character is playing and whether it
// may edit other characters.
type Actor struct {
	CharacterID string `json:"character_id"`
	Admin       bool   `json:"admin"`
}
