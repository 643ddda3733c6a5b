package game

import (
	"encoding/json"
	"strconv"

	"github.com/user/lifequest/internal/types"
)

// Defaults the first version of the save file used for records missing a reward.
const (
	legacyRewardAttribute = types.Intellect
	legacySkillXP         = 50
)

// decodeCharacter parses a stored character in either the current layout or
// the first version's layout (xp/attributes/one_time_tasks keys).
func decodeCharacter(data json.RawMessage) (*types.Character, error) {
	var keys map[string]json.RawMessage
	if err := json.Unmarshal(data, &keys); err != nil {
		return nil, err
	}

	if isLegacy(keys) {
		var legacy legacyCharacter
		if err := json.Unmarshal(data, &legacy); err != nil {
			return nil, err
		}
		return legacy.convert(), nil
	}

	var character types.Character
	if err := json.Unmarshal(data, &character); err != nil {
		return nil, err
	}
	return &character, nil
}

func isLegacy(keys map[string]json.RawMessage) bool {
	if _, ok := keys["experience"]; ok {
		return false
	}
	for _, k := range []string{"xp", "attributes", "one_time_tasks", "completed_history", "last_login"} {
		if _, ok := keys[k]; ok {
			return true
		}
	}
	return false
}

// looseString accepts strings, numbers and null. Plan cells were written
// by a spreadsheet parser and may be any of them.
type looseString string

func (s *looseString) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*s = ""
		return nil
	}
	var str string
	if err := json.Unmarshal(data, &str); err == nil {
		*s = looseString(str)
		return nil
	}
	var num float64
	if err := json.Unmarshal(data, &num); err != nil {
		return err
	}
	*s = looseString(strconv.FormatFloat(num, 'f', -1, 64))
	return nil
}

type legacyCharacter struct {
	XP         map[string]int `json:"xp"`
	Attributes struct {
		HP    *int `json:"HP"`
		MaxHP *int `json:"Max_HP"`
		Gold  int  `json:"Gold"`
	} `json:"attributes"`
	Habits           map[string][]*string               `json:"habits"`
	Shop             map[string]float64                 `json:"shop"`
	OneTimeTasks     []legacyTask                       `json:"one_time_tasks"`
	CompletedHistory []string                           `json:"completed_history"`
	Skills           map[string]map[string]*types.Skill `json:"skills"`
	WorkoutQueue     map[string][]legacyExercise        `json:"workout_queue"`
	ActiveWorkout    *legacyWorkout                     `json:"active_workout"`
	WorkoutHistory   []legacyWorkout                    `json:"workout_history"`
	Inventory        []string                           `json:"inventory"`
	WeightLog        struct {
		Dates   []types.Date `json:"dates"`
		Weights []float64    `json:"weights"`
	} `json:"weight_log"`
	LastLogin types.Date `json:"last_login"`
}

type legacyTask struct {
	Name    string     `json:"name"`
	Stat    string     `json:"stat"`
	Done    bool       `json:"done"`
	DueDate types.Date `json:"due_date"`
}

type legacyExercise struct {
	Name          looseString `json:"name"`
	Sets          looseString `json:"sets"`
	Reps          looseString `json:"reps"`
	TrainerNote   looseString `json:"trainer_note"`
	MyWeight      looseString `json:"my_weight"`
	MyNotes       looseString `json:"my_notes"`
	SetsCompleted int         `json:"sets_completed"`
}

type legacyWorkout struct {
	Date        types.Date       `json:"date"`
	DayName     string           `json:"day_name"`
	Exercises   []legacyExercise `json:"exercises"`
	CurrentStep int              `json:"current_step"`
}

func (l *legacyCharacter) convert() *types.Character {
	c := &types.Character{
		Experience:    l.XP,
		Skills:        l.Skills,
		History:       l.CompletedHistory,
		Inventory:     l.Inventory,
		LastLoginDate: l.LastLogin,
	}

	if l.Attributes.MaxHP != nil {
		c.Vitals.MaxHealth = *l.Attributes.MaxHP
	}
	if l.Attributes.HP != nil {
		c.Vitals.Health = *l.Attributes.HP
	}
	c.Vitals.Currency = l.Attributes.Gold

	if l.Habits != nil {
		c.Habits = make(map[string]*types.Habit, len(l.Habits))
		for name, pair := range l.Habits {
			habit := &types.Habit{RewardAttribute: legacyRewardAttribute}
			if len(pair) > 0 && pair[0] != nil {
				habit.RewardAttribute = *pair[0]
			}
			if len(pair) > 1 && pair[1] != nil {
				habit.LastCompletedDate = types.Date(*pair[1])
			}
			c.Habits[name] = habit
		}
	}

	if l.Shop != nil {
		c.Shop = make(map[string]int, len(l.Shop))
		for item, price := range l.Shop {
			c.Shop[item] = int(price)
		}
	}

	if l.OneTimeTasks != nil {
		c.Tasks = make([]types.Task, 0, len(l.OneTimeTasks))
		for _, t := range l.OneTimeTasks {
			c.Tasks = append(c.Tasks, types.Task{
				Name:            t.Name,
				RewardAttribute: t.Stat,
				DueDate:         t.DueDate,
				Completed:       t.Done,
			})
		}
	}

	if l.WorkoutQueue != nil {
		c.WorkoutQueue = make(map[string][]types.Exercise, len(l.WorkoutQueue))
		for day, exercises := range l.WorkoutQueue {
			c.WorkoutQueue[day] = convertExercises(exercises)
		}
	}

	if l.ActiveWorkout != nil {
		session := l.ActiveWorkout.convert()
		c.ActiveWorkout = &session
	}

	if l.WorkoutHistory != nil {
		c.WorkoutHistory = make([]types.WorkoutSession, 0, len(l.WorkoutHistory))
		for _, w := range l.WorkoutHistory {
			c.WorkoutHistory = append(c.WorkoutHistory, w.convert())
		}
	}

	c.WeightLog = types.WeightLog{Dates: l.WeightLog.Dates, Weights: l.WeightLog.Weights}

	return c
}

func (w legacyWorkout) convert() types.WorkoutSession {
	return types.WorkoutSession{
		Date:        w.Date,
		DayName:     w.DayName,
		Exercises:   convertExercises(w.Exercises),
		CurrentStep: w.CurrentStep,
	}
}

func convertExercises(in []legacyExercise) []types.Exercise {
	out := make([]types.Exercise, 0, len(in))
	for _, e := range in {
		out = append(out, types.Exercise{
			Name:          string(e.Name),
			Sets:          string(e.Sets),
			Reps:          string(e.Reps),
			TrainerNote:   string(e.TrainerNote),
			UserWeight:    string(e.MyWeight),
			UserNotes:     string(e.MyNotes),
			SetsCompleted: e.SetsCompleted,
		})
	}
	return out
}
