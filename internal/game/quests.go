package game

import (
	"fmt"
	"sort"

	apperrors "github.com/user/lifequest/internal/errors"
	"github.com/user/lifequest/internal/types"
)

func completeHabit(c *types.Character, name string, today types.Date) (*types.Outcome, error) {
	habit, ok := c.Habits[name]
	if !ok {
		return nil, apperrors.NewNotFound("habit", name)
	}
	if habit.LastCompletedDate == today {
		return nil, apperrors.ErrHabitDoneToday.WithReason("%s already completed today", name)
	}

	habit.LastCompletedDate = today
	c.Vitals.Currency += HabitCurrencyReward
	entry := fmt.Sprintf("%s - %s (+%d GP)", today, name, HabitCurrencyReward)
	c.History = append(c.History, entry)
	levelUp := grantXP(c, habit.RewardAttribute, HabitXPReward)

	return &types.Outcome{
		Description:    fmt.Sprintf("Completed %s", name),
		XPChanges:      map[string]int{habit.RewardAttribute: HabitXPReward},
		CurrencyChange: HabitCurrencyReward,
		LevelUp:        levelUp,
		HistoryEntry:   entry,
	}, nil
}

// taskStanding classifies a task against today. A task without a due date
// is treated as due today.
func taskStanding(task types.Task, today types.Date) types.TaskStanding {
	switch {
	case task.Completed:
		return types.TaskCompleted
	case task.DueDate.IsZero() || task.DueDate == today:
		return types.TaskDueToday
	case task.DueDate.Before(today):
		return types.TaskLate
	default:
		return types.TaskUpcoming
	}
}

// taskCurrencyReward is the currency a task pays if completed today.
func taskCurrencyReward(task types.Task, today types.Date) int {
	if taskStanding(task, today) == types.TaskLate {
		return TaskLateCurrency
	}
	return TaskOnTimeCurrency
}

func completeTask(c *types.Character, index int, today types.Date) (*types.Outcome, error) {
	if index < 0 || index >= len(c.Tasks) {
		return nil, apperrors.NewNotFound("task", fmt.Sprintf("#%d", index))
	}
	task := &c.Tasks[index]
	if task.Completed {
		return nil, apperrors.ErrTaskAlreadyCompleted.WithReason("%s already completed", task.Name)
	}

	late := taskStanding(*task, today) == types.TaskLate
	reward, tag := TaskOnTimeCurrency, "ON TIME"
	if late {
		reward, tag = TaskLateCurrency, "LATE"
	}

	task.Completed = true
	c.Vitals.Currency += reward
	entry := fmt.Sprintf("%s - Task: %s (%s) (+%d GP)", today, task.Name, tag, reward)
	c.History = append(c.History, entry)
	levelUp := grantXP(c, task.RewardAttribute, TaskXPReward)

	return &types.Outcome{
		Description:    fmt.Sprintf("Completed task %s (%s)", task.Name, tag),
		XPChanges:      map[string]int{task.RewardAttribute: TaskXPReward},
		CurrencyChange: reward,
		LevelUp:        levelUp,
		HistoryEntry:   entry,
	}, nil
}

func habitBoard(c *types.Character, today types.Date) []types.HabitStatus {
	board := make([]types.HabitStatus, 0, len(c.Habits))
	for name, habit := range c.Habits {
		board = append(board, types.HabitStatus{
			Name:            name,
			RewardAttribute: habit.RewardAttribute,
			DoneToday:       habit.LastCompletedDate == today,
		})
	}
	sort.Slice(board, func(i, j int) bool { return board[i].Name < board[j].Name })
	return board
}

func taskBoard(c *types.Character, today types.Date) []types.TaskStatus {
	board := make([]types.TaskStatus, 0, len(c.Tasks))
	for i, task := range c.Tasks {
		status := types.TaskStatus{
			Index:    i,
			Task:     task,
			Standing: taskStanding(task, today),
		}
		if !task.Completed {
			status.CurrencyReward = taskCurrencyReward(task, today)
		}
		board = append(board, status)
	}
	return board
}
