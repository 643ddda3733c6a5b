package game

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/user/lifequest/config"
	apperrors "github.com/user/lifequest/internal/errors"
	"github.com/user/lifequest/internal/types"
)

var dadActor = types.Actor{CharacterID: "dad", Admin: true}

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) advance(days int) { c.now = c.now.AddDate(0, 0, days) }

func (c *fakeClock) today() types.Date { return types.DateOf(c.now) }

func newTestManager(t *testing.T) (*GameManager, *fakeClock, config.Config) {
	t.Helper()

	cfg := config.DefaultConfig()
	cfg.Storage.Path = filepath.Join(t.TempDir(), "save_data.json")

	gm, err := OpenGameManager(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { gm.Close() })

	clock := &fakeClock{now: time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)}
	gm.SetClock(clock.Now)
	return gm, clock, cfg
}

func TestBeginSessionResolvesAdminCapability(t *testing.T) {
	gm, _, _ := newTestManager(t)
	ctx := context.Background()

	start, err := gm.BeginSession(ctx, "dad")
	require.NoError(t, err)
	assert.Equal(t, types.Actor{CharacterID: "dad", Admin: true}, start.Actor)
	assert.False(t, start.Daily.Applied, "a new character has already logged in today")

	start, err = gm.BeginSession(ctx, "son")
	require.NoError(t, err)
	assert.False(t, start.Actor.Admin)

	_, err = gm.BeginSession(ctx, "grandma")
	assert.True(t, apperrors.IsNotFound(err))
}

func TestCompleteHabitOncePerDay(t *testing.T) {
	gm, clock, _ := newTestManager(t)
	ctx := context.Background()

	outcome, err := gm.CompleteHabit(ctx, "dad", "Paleo Diet")
	require.NoError(t, err)
	assert.Equal(t, HabitCurrencyReward, outcome.CurrencyChange)
	assert.Equal(t, map[string]int{types.Vitality: HabitXPReward}, outcome.XPChanges)
	assert.Equal(t, "2024-03-10 - Paleo Diet (+5 GP)", outcome.HistoryEntry)

	_, err = gm.CompleteHabit(ctx, "dad", "Paleo Diet")
	assert.ErrorIs(t, err, apperrors.ErrHabitDoneToday)

	status, err := gm.GetStatus(ctx, "dad")
	require.NoError(t, err)
	assert.Equal(t, 5, status.Currency)
	assert.Equal(t, 15, status.TotalXP)

	habits, err := gm.GetHabits(ctx, "dad")
	require.NoError(t, err)
	for _, h := range habits {
		assert.Equal(t, h.Name == "Paleo Diet", h.DoneToday, h.Name)
	}

	clock.advance(1)
	_, err = gm.CompleteHabit(ctx, "dad", "Paleo Diet")
	require.NoError(t, err)

	_, err = gm.CompleteHabit(ctx, "dad", "Skydiving")
	assert.True(t, apperrors.IsNotFound(err))
}

func TestCompleteTaskRewardTiers(t *testing.T) {
	gm, clock, _ := newTestManager(t)
	ctx := context.Background()
	today := clock.today()

	_, err := gm.AssignTask(ctx, dadActor, "son", "Mow Lawn", types.Strength, today.AddDays(-1))
	require.NoError(t, err)
	_, err = gm.AssignTask(ctx, dadActor, "son", "Clean Garage", types.Spirit, today)
	require.NoError(t, err)
	_, err = gm.AssignTask(ctx, dadActor, "son", "Science Project", types.Intellect, today.AddDays(3))
	require.NoError(t, err)

	board, err := gm.GetTasks(ctx, "son")
	require.NoError(t, err)
	require.Len(t, board, 3)
	assert.Equal(t, types.TaskLate, board[0].Standing)
	assert.Equal(t, TaskLateCurrency, board[0].CurrencyReward)
	assert.Equal(t, types.TaskDueToday, board[1].Standing)
	assert.Equal(t, types.TaskUpcoming, board[2].Standing)
	assert.Equal(t, TaskOnTimeCurrency, board[2].CurrencyReward)

	late, err := gm.CompleteTask(ctx, "son", 0)
	require.NoError(t, err)
	assert.Equal(t, 10, late.CurrencyChange)
	assert.Equal(t, map[string]int{types.Strength: 40}, late.XPChanges)
	assert.Contains(t, late.HistoryEntry, "(LATE)")

	onTime, err := gm.CompleteTask(ctx, "son", 1)
	require.NoError(t, err)
	assert.Equal(t, 25, onTime.CurrencyChange)
	assert.Contains(t, onTime.HistoryEntry, "(ON TIME)")

	early, err := gm.CompleteTask(ctx, "son", 2)
	require.NoError(t, err)
	assert.Equal(t, 25, early.CurrencyChange)

	_, err = gm.CompleteTask(ctx, "son", 0)
	assert.ErrorIs(t, err, apperrors.ErrTaskAlreadyCompleted)

	_, err = gm.CompleteTask(ctx, "son", 7)
	assert.True(t, apperrors.IsNotFound(err))

	status, err := gm.GetStatus(ctx, "son")
	require.NoError(t, err)
	assert.Equal(t, 60, status.Currency)
	assert.Equal(t, 120, status.TotalXP)

	board, err = gm.GetTasks(ctx, "son")
	require.NoError(t, err)
	for _, task := range board {
		assert.Equal(t, types.TaskCompleted, task.Standing)
		assert.Zero(t, task.CurrencyReward)
	}
}

func TestDailyCycleAppliesMissedHabitDamage(t *testing.T) {
	gm, clock, _ := newTestManager(t)
	ctx := context.Background()

	// Leave dad with three habits
	require.NoError(t, gm.RemoveHabit(ctx, dadActor, "dad", "Gallon Water"))
	_, err := gm.CompleteHabit(ctx, "dad", "Paleo Diet")
	require.NoError(t, err)

	clock.advance(1)
	report, err := gm.RunDailyCycle(ctx, "dad")
	require.NoError(t, err)
	assert.True(t, report.Applied)
	assert.Equal(t, []string{"Iron Prayer (Gym)", "Legacy Time"}, report.Missed)
	assert.Equal(t, 20, report.Damage)
	assert.Equal(t, 80, report.Health)
	assert.False(t, report.Critical)

	again, err := gm.RunDailyCycle(ctx, "dad")
	require.NoError(t, err)
	assert.False(t, again.Applied)
	assert.Equal(t, 80, again.Health)

	status, err := gm.GetStatus(ctx, "dad")
	require.NoError(t, err)
	assert.Equal(t, 80, status.Health)
}

func TestDailyCycleHealthFloor(t *testing.T) {
	gm, clock, _ := newTestManager(t)
	ctx := context.Background()

	var report *types.DailyReport
	for day := 0; day < 5; day++ {
		clock.advance(1)
		var err error
		report, err = gm.RunDailyCycle(ctx, "mom")
		require.NoError(t, err)
		assert.GreaterOrEqual(t, report.Health, HealthFloor)
	}
	assert.Equal(t, HealthFloor, report.Health)
	assert.True(t, report.Critical)

	status, err := gm.GetStatus(ctx, "mom")
	require.NoError(t, err)
	assert.Equal(t, 1, status.Health)
	assert.True(t, status.Critical)
}

func TestDailyCycleSkipsManyDaysAsOne(t *testing.T) {
	gm, clock, _ := newTestManager(t)
	ctx := context.Background()

	_, err := gm.BeginSession(ctx, "daughter")
	require.NoError(t, err)

	clock.advance(10)
	report, err := gm.RunDailyCycle(ctx, "daughter")
	require.NoError(t, err)
	assert.Equal(t, 4*MissedHabitPenalty, report.Damage)
}

func TestDailyCycleRunsBeforeFirstCommand(t *testing.T) {
	gm, clock, _ := newTestManager(t)
	ctx := context.Background()

	_, err := gm.BeginSession(ctx, "dad")
	require.NoError(t, err)

	// Two days away, then a habit before any new session
	clock.advance(2)
	_, err = gm.CompleteHabit(ctx, "dad", "Paleo Diet")
	require.NoError(t, err)

	start, err := gm.BeginSession(ctx, "dad")
	require.NoError(t, err)
	assert.False(t, start.Daily.Applied, "the command already ran today's cycle")
	assert.Equal(t, 100-4*MissedHabitPenalty, start.Daily.Health)

	status, err := gm.GetStatus(ctx, "dad")
	require.NoError(t, err)
	assert.Equal(t, 60, status.Health)
}

func TestDailyCycleRunsBeforeQueries(t *testing.T) {
	gm, clock, _ := newTestManager(t)
	ctx := context.Background()

	_, err := gm.BeginSession(ctx, "mom")
	require.NoError(t, err)

	clock.advance(1)
	status, err := gm.GetStatus(ctx, "mom")
	require.NoError(t, err)
	assert.Equal(t, 60, status.Health)

	report, err := gm.RunDailyCycle(ctx, "mom")
	require.NoError(t, err)
	assert.False(t, report.Applied)
	assert.Equal(t, 60, report.Health)
}

func TestDailyCycleKeptWhenCommandFails(t *testing.T) {
	gm, clock, _ := newTestManager(t)
	ctx := context.Background()

	_, err := gm.BeginSession(ctx, "son")
	require.NoError(t, err)

	clock.advance(1)
	_, err = gm.CompleteHabit(ctx, "son", "Skydiving")
	assert.True(t, apperrors.IsNotFound(err))

	report, err := gm.RunDailyCycle(ctx, "son")
	require.NoError(t, err)
	assert.False(t, report.Applied)
	assert.Equal(t, 60, report.Health)
}

func TestPurchaseAndRedeem(t *testing.T) {
	gm, clock, _ := newTestManager(t)
	ctx := context.Background()

	_, err := gm.Purchase(ctx, "dad", "1hr Nap")
	assert.ErrorIs(t, err, apperrors.ErrInsufficientCurrency)

	// Ten habit completions across days buy a nap
	habits := []string{"Paleo Diet", "Legacy Time", "Gallon Water", "Iron Prayer (Gym)"}
	for i := 0; i < 3; i++ {
		for _, h := range habits {
			_, err := gm.CompleteHabit(ctx, "dad", h)
			require.NoError(t, err)
		}
		clock.advance(1)
	}

	status, err := gm.GetStatus(ctx, "dad")
	require.NoError(t, err)
	require.Equal(t, 60, status.Currency)

	shop, err := gm.GetShop(ctx, "dad")
	require.NoError(t, err)
	for _, listing := range shop {
		if listing.Item == "1hr Nap" {
			assert.True(t, listing.Affordable)
		}
		if listing.Item == "1hr Gaming" {
			assert.False(t, listing.Affordable)
			assert.Equal(t, 40, listing.Shortfall)
		}
	}

	outcome, err := gm.Purchase(ctx, "dad", "1hr Nap")
	require.NoError(t, err)
	assert.Equal(t, -50, outcome.CurrencyChange)

	_, err = gm.Purchase(ctx, "dad", "Yacht")
	assert.True(t, apperrors.IsNotFound(err))

	inventory, err := gm.GetInventory(ctx, "dad")
	require.NoError(t, err)
	assert.Equal(t, []string{"1hr Nap"}, inventory)

	_, err = gm.Redeem(ctx, "dad", 0)
	require.NoError(t, err)
	inventory, err = gm.GetInventory(ctx, "dad")
	require.NoError(t, err)
	assert.Empty(t, inventory)

	status, err = gm.GetStatus(ctx, "dad")
	require.NoError(t, err)
	assert.Equal(t, 10, status.Currency, "redeeming never refunds")

	_, err = gm.Redeem(ctx, "dad", 0)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestMasterSkill(t *testing.T) {
	gm, _, _ := newTestManager(t)
	ctx := context.Background()

	outcome, err := gm.MasterSkill(ctx, "son", "Artificer (Mechanics)", "Change Flat Tire")
	require.NoError(t, err)
	assert.Equal(t, map[string]int{types.Strength: 100}, outcome.XPChanges)
	require.NotNil(t, outcome.LevelUp)
	assert.Equal(t, 2, outcome.LevelUp.NewLevel)

	_, err = gm.MasterSkill(ctx, "son", "Artificer (Mechanics)", "Change Flat Tire")
	assert.ErrorIs(t, err, apperrors.ErrSkillAlreadyMastered)

	_, err = gm.MasterSkill(ctx, "son", "Wizardry", "Fireball")
	assert.True(t, apperrors.IsNotFound(err))

	status, err := gm.GetStatus(ctx, "son")
	require.NoError(t, err)
	assert.Equal(t, LevelUpCurrencyBonus, status.Currency)

	skills, err := gm.GetSkills(ctx, "son")
	require.NoError(t, err)
	for _, s := range skills {
		want := types.SkillInProgress
		if s.Name == "Change Flat Tire" {
			want = types.SkillMastered
		}
		assert.Equal(t, want, s.Skill.Status, s.Name)
	}
}

func TestAdminCommandsRequireCapability(t *testing.T) {
	gm, _, _ := newTestManager(t)
	ctx := context.Background()
	son := types.Actor{CharacterID: "son"}

	_, err := gm.AssignTask(ctx, son, "dad", "Do Taxes", types.Intellect, "")
	assert.ErrorIs(t, err, apperrors.ErrNotPermitted)
	assert.ErrorIs(t, gm.AddShopItem(ctx, son, "son", "Pony", 10), apperrors.ErrNotPermitted)
	assert.ErrorIs(t, gm.RemoveShopItem(ctx, son, "son", "Ice Cream"), apperrors.ErrNotPermitted)
	assert.ErrorIs(t, gm.AddHabit(ctx, son, "son", "Nap", types.Vitality), apperrors.ErrNotPermitted)
	assert.ErrorIs(t, gm.RemoveHabit(ctx, son, "son", "War Drums (Band)"), apperrors.ErrNotPermitted)
	assert.ErrorIs(t, gm.AddSkill(ctx, son, "son", "Chef", "Omelette", types.Sense, 50), apperrors.ErrNotPermitted)

	tasks, err := gm.GetTasks(ctx, "dad")
	require.NoError(t, err)
	assert.Empty(t, tasks)
}

func TestAdminEditsTargetCharacter(t *testing.T) {
	gm, clock, _ := newTestManager(t)
	ctx := context.Background()
	mom := types.Actor{CharacterID: "mom", Admin: true}

	task, err := gm.AssignTask(ctx, mom, "daughter", "Fold Laundry", types.Agility, "")
	require.NoError(t, err)
	assert.Equal(t, clock.today(), task.DueDate, "no due date means today")

	_, err = gm.AssignTask(ctx, mom, "daughter", "  ", types.Agility, "")
	assert.True(t, apperrors.IsValidation(err))
	_, err = gm.AssignTask(ctx, mom, "daughter", "Fold Laundry", "Charisma", "")
	assert.True(t, apperrors.IsValidation(err))

	require.NoError(t, gm.AddShopItem(ctx, mom, "daughter", "Concert Ticket", 800))
	assert.True(t, apperrors.IsValidation(gm.AddShopItem(ctx, mom, "daughter", "Free Stuff", 0)))
	require.NoError(t, gm.RemoveShopItem(ctx, mom, "daughter", "Makeup Item"))
	assert.True(t, apperrors.IsNotFound(gm.RemoveShopItem(ctx, mom, "daughter", "Makeup Item")))

	require.NoError(t, gm.AddHabit(ctx, mom, "daughter", "Walk Dog", types.Vitality))
	require.NoError(t, gm.RemoveHabit(ctx, mom, "daughter", "Bardic Training (Band)"))
	assert.True(t, apperrors.IsNotFound(gm.RemoveHabit(ctx, mom, "daughter", "Bardic Training (Band)")))

	require.NoError(t, gm.AddSkill(ctx, mom, "daughter", "Chef (Cooking)", "Omelette", types.Sense, 60))

	shop, err := gm.GetShop(ctx, "daughter")
	require.NoError(t, err)
	items := make([]string, 0, len(shop))
	for _, l := range shop {
		items = append(items, l.Item)
	}
	assert.Equal(t, []string{"+1 Hr Phone", "Concert Ticket", "Curfew +1hr", "Gas Money ($10)"}, items)

	habits, err := gm.GetHabits(ctx, "daughter")
	require.NoError(t, err)
	names := make([]string, 0, len(habits))
	for _, h := range habits {
		names = append(names, h.Name)
	}
	assert.Equal(t, []string{"Arcane Focus (HW On Time)", "Battle Ready (Sports)", "Swift Cleanse (Dishes)", "Walk Dog"}, names)

	outcome, err := gm.MasterSkill(ctx, "daughter", "Chef (Cooking)", "Omelette")
	require.NoError(t, err)
	assert.Equal(t, map[string]int{types.Sense: 60}, outcome.XPChanges)

	// The admin's own document is untouched
	momShop, err := gm.GetShop(ctx, "mom")
	require.NoError(t, err)
	assert.Len(t, momShop, 4)
}

const testPlan = `Day,Exercise,Sets,Reps,Notes
Push,Bench Press,3,8,Pause at bottom
Push,Plank,2,45 sec,
Pull,Deadlift,3-4,5,Belt on top set
`

func TestWorkoutClaimFlow(t *testing.T) {
	gm, _, _ := newTestManager(t)
	ctx := context.Background()

	result, err := gm.ImportWorkoutPlan(ctx, "dad", testPlan)
	require.NoError(t, err)
	assert.Equal(t, []string{"Pull", "Push"}, result.Days)
	assert.Equal(t, "Loaded 2 days of missions!", result.Message)

	view, err := gm.StartWorkout(ctx, "dad", "Push")
	require.NoError(t, err)
	assert.Equal(t, types.WorkoutInProgress, view.State)
	assert.Equal(t, 2, view.Total)
	require.NotNil(t, view.Current)
	assert.Equal(t, "Bench Press", view.Current.Exercise.Name)
	assert.Equal(t, 3, view.Current.PlannedSets)

	_, err = gm.StartWorkout(ctx, "dad", "Pull")
	assert.ErrorIs(t, err, apperrors.ErrWorkoutInProgress)
	_, err = gm.ImportWorkoutPlan(ctx, "dad", testPlan)
	assert.ErrorIs(t, err, apperrors.ErrWorkoutInProgress)
	_, err = gm.ClaimWorkout(ctx, "dad")
	assert.ErrorIs(t, err, apperrors.ErrWorkoutNotCleared)

	for i := 0; i < 3; i++ {
		view, err = gm.CompleteSet(ctx, "dad")
		require.NoError(t, err)
	}
	assert.Equal(t, 3, view.Current.Exercise.SetsCompleted)
	_, err = gm.CompleteSet(ctx, "dad")
	assert.ErrorIs(t, err, apperrors.ErrAllSetsDone)

	view, err = gm.SubmitExercise(ctx, "dad", "185", "felt strong")
	require.NoError(t, err)
	assert.Equal(t, 1, view.Step)
	assert.Equal(t, "Plank", view.Current.Exercise.Name)
	assert.Equal(t, 45*time.Second, view.Current.Duration)

	view, err = gm.SubmitExercise(ctx, "dad", "", "")
	require.NoError(t, err)
	assert.Equal(t, types.WorkoutCleared, view.State)
	assert.Equal(t, 1.0, view.Progress)

	_, err = gm.CompleteSet(ctx, "dad")
	assert.ErrorIs(t, err, apperrors.ErrWorkoutCleared)
	_, err = gm.AbortWorkout(ctx, "dad")
	assert.ErrorIs(t, err, apperrors.ErrWorkoutCleared, "a cleared workout can only be claimed")

	outcome, err := gm.ClaimWorkout(ctx, "dad")
	require.NoError(t, err)
	assert.Equal(t, WorkoutCurrencyReward, outcome.CurrencyChange)
	assert.Equal(t, map[string]int{types.Strength: 150, types.Agility: 50}, outcome.XPChanges)
	require.NotNil(t, outcome.LevelUp)
	assert.Equal(t, types.Strength, outcome.LevelUp.Attribute)

	view, err = gm.GetWorkout(ctx, "dad")
	require.NoError(t, err)
	assert.Equal(t, types.WorkoutIdle, view.State)
	assert.Equal(t, []string{"Pull"}, view.QueueDays)

	status, err := gm.GetStatus(ctx, "dad")
	require.NoError(t, err)
	assert.Equal(t, WorkoutCurrencyReward+LevelUpCurrencyBonus, status.Currency)

	doc, err := gm.storage.LoadAll(ctx, "2024-03-10")
	require.NoError(t, err)
	require.Len(t, doc["dad"].WorkoutHistory, 1)
	assert.Equal(t, "Push", doc["dad"].WorkoutHistory[0].DayName)
	assert.Equal(t, "185", doc["dad"].WorkoutHistory[0].Exercises[0].UserWeight)
}

func TestWorkoutAbortRecordsNothing(t *testing.T) {
	gm, _, _ := newTestManager(t)
	ctx := context.Background()

	_, err := gm.AbortWorkout(ctx, "mom")
	assert.ErrorIs(t, err, apperrors.ErrNoActiveWorkout)

	_, err = gm.ImportWorkoutPlan(ctx, "mom", testPlan)
	require.NoError(t, err)
	_, err = gm.StartWorkout(ctx, "mom", "Pull")
	require.NoError(t, err)
	_, err = gm.SubmitExercise(ctx, "mom", "135", "")
	require.NoError(t, err)

	view, err := gm.AbortWorkout(ctx, "mom")
	require.NoError(t, err)
	assert.Equal(t, types.WorkoutIdle, view.State)
	assert.Equal(t, []string{"Pull", "Push"}, view.QueueDays)

	history, err := gm.GetHistory(ctx, "mom")
	require.NoError(t, err)
	assert.Empty(t, history)

	doc, err := gm.storage.LoadAll(ctx, "2024-03-10")
	require.NoError(t, err)
	assert.Empty(t, doc["mom"].WorkoutHistory)
	assert.Equal(t, 0, doc["mom"].Vitals.Currency)
}

func TestImportFailureKeepsExistingPlan(t *testing.T) {
	gm, _, _ := newTestManager(t)
	ctx := context.Background()

	_, err := gm.ImportWorkoutPlan(ctx, "son", testPlan)
	require.NoError(t, err)

	_, err = gm.ImportWorkoutPlan(ctx, "son", "Day,Exercise,Sets\nLegs,Squat,5\n")
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
	assert.Contains(t, err.Error(), "reps")

	view, err := gm.GetWorkout(ctx, "son")
	require.NoError(t, err)
	assert.Equal(t, []string{"Pull", "Push"}, view.QueueDays)
}

func TestWorkoutViewShowsPreviousLog(t *testing.T) {
	gm, clock, _ := newTestManager(t)
	ctx := context.Background()

	_, err := gm.ImportWorkoutPlan(ctx, "dad", testPlan)
	require.NoError(t, err)
	_, err = gm.StartWorkout(ctx, "dad", "Push")
	require.NoError(t, err)
	_, err = gm.SubmitExercise(ctx, "dad", "185", "easy")
	require.NoError(t, err)
	_, err = gm.SubmitExercise(ctx, "dad", "", "")
	require.NoError(t, err)
	_, err = gm.ClaimWorkout(ctx, "dad")
	require.NoError(t, err)

	clock.advance(7)
	_, err = gm.ImportWorkoutPlan(ctx, "dad", "day,exercise,sets,reps\nPush,  bench press ,3,8\n")
	require.NoError(t, err)
	view, err := gm.StartWorkout(ctx, "dad", "Push")
	require.NoError(t, err)
	require.NotNil(t, view.Current.Previous)
	assert.Equal(t, types.PreviousLog{Weight: "185", Notes: "easy"}, *view.Current.Previous)
}

func TestLogWeightAndHistory(t *testing.T) {
	gm, clock, _ := newTestManager(t)
	ctx := context.Background()

	_, err := gm.LogWeight(ctx, "dad", 0)
	assert.True(t, apperrors.IsValidation(err))

	log, err := gm.LogWeight(ctx, "dad", 201.5)
	require.NoError(t, err)
	assert.Equal(t, []types.Date{clock.today()}, log.Dates)
	assert.Equal(t, []float64{201.5}, log.Weights)

	_, err = gm.CompleteHabit(ctx, "dad", "Paleo Diet")
	require.NoError(t, err)
	_, err = gm.CompleteHabit(ctx, "dad", "Legacy Time")
	require.NoError(t, err)

	history, err := gm.GetHistory(ctx, "dad")
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Contains(t, history[0], "Legacy Time")
	assert.Contains(t, history[1], "Paleo Diet")
}

func TestLeaderboardOrdersByTotalXP(t *testing.T) {
	gm, _, _ := newTestManager(t)
	ctx := context.Background()

	_, err := gm.CompleteHabit(ctx, "mom", "Self Healing")
	require.NoError(t, err)
	_, err = gm.MasterSkill(ctx, "son", "Guardian (Safety)", "Self Defense Basics")
	require.NoError(t, err)
	_, err = gm.GetStatus(ctx, "dad")
	require.NoError(t, err)

	entries, err := gm.GetLeaderboard(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 2, "only stored characters are ranked")
	assert.Equal(t, "son", entries[0].CharacterID)
	assert.Equal(t, 100, entries[0].TotalXP)
	assert.Equal(t, "E-Rank", entries[0].Rank)
	assert.Equal(t, "mom", entries[1].CharacterID)
}

func TestStatePersistsAcrossManagers(t *testing.T) {
	gm, _, cfg := newTestManager(t)
	ctx := context.Background()

	_, err := gm.CompleteHabit(ctx, "daughter", "Swift Cleanse (Dishes)")
	require.NoError(t, err)

	reopened, err := OpenGameManager(cfg)
	require.NoError(t, err)
	defer reopened.Close()
	reopened.SetClock(gm.now)

	status, err := reopened.GetStatus(ctx, "daughter")
	require.NoError(t, err)
	assert.Equal(t, 5, status.Currency)
	assert.Equal(t, "Daughter (Caster)", status.DisplayName)
}

func TestStorageFailureIsSurfaced(t *testing.T) {
	cfg := config.DefaultConfig()
	dir := t.TempDir()
	cfg.Storage.Path = filepath.Join(dir, "save_data.json")
	require.NoError(t, os.WriteFile(cfg.Storage.Path, []byte("{not json"), 0644))

	gm, err := OpenGameManager(cfg)
	require.NoError(t, err)
	defer gm.Close()

	_, err = gm.CompleteHabit(context.Background(), "dad", "Paleo Diet")
	require.Error(t, err)
	assert.False(t, apperrors.IsPolicy(err))
	assert.False(t, apperrors.IsNotFound(err))
	assert.Contains(t, err.Error(), "failed to load character state")

	data, err := os.ReadFile(cfg.Storage.Path)
	require.NoError(t, err)
	assert.Equal(t, "{not json", string(data), "nothing was written")
}

func TestUnknownCharacter(t *testing.T) {
	gm, _, _ := newTestManager(t)
	_, err := gm.GetStatus(context.Background(), "uncle")
	assert.True(t, apperrors.IsNotFound(err))
	assert.Equal(t, []string{"dad", "mom", "daughter", "son"}, gm.Roster())
}
