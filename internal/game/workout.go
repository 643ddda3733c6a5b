package game

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	apperrors "github.com/user/lifequest/internal/errors"
	"github.com/user/lifequest/internal/types"
	"golang.org/x/text/cases"
)

// BarWeight is the weight of the empty barbell
const BarWeight = 45.0

// DefaultPlannedSets is used when a plan's set count cannot be parsed
const DefaultPlannedSets = 3

// plateSizes is the home gym's plate rack, heaviest first, with the number
// of plates of each size. Plates are loaded in pairs, one per side.
var plateSizes = []struct {
	Size  float64
	Count int
}{
	{45, 2},
	{35, 2},
	{25, 2},
	{15, 2},
	{10, 4},
	{5, 2},
	{2.5, 2},
}

var requiredColumns = []string{"day", "exercise", "sets", "reps"}

var timedReps = regexp.MustCompile(`^(\d+)\s*(s|sec|secs|second|seconds|m|min|mins|minute|minutes)$`)

// foldName normalizes a name for case-insensitive comparison
func foldName(s string) string {
	return cases.Fold().String(strings.TrimSpace(s))
}

// ParseWorkoutCSV reads a weekly plan. The header must name the day,
// exercise, sets and reps columns in any order and case; a notes column is
// optional. Rows are grouped by day in file order.
func ParseWorkoutCSV(input string) (map[string][]types.Exercise, error) {
	reader := csv.NewReader(strings.NewReader(input))
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, apperrors.NewValidation("csv", "CSV is empty")
	}
	if err != nil {
		return nil, apperrors.NewValidation("csv", "CSV Error: %v", err)
	}

	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[foldName(name)] = i
	}
	for _, required := range requiredColumns {
		if _, ok := columns[required]; !ok {
			return nil, apperrors.NewValidation("csv", "CSV must have columns: Day, Exercise, Sets, Reps (missing %s)", required)
		}
	}
	notesColumn, hasNotes := columns["notes"]

	plan := make(map[string][]types.Exercise)
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, apperrors.NewValidation("csv", "CSV Error: %v", err)
		}

		line, _ := reader.FieldPos(0)
		day := strings.TrimSpace(record[columns["day"]])
		name := strings.TrimSpace(record[columns["exercise"]])
		if day == "" || name == "" {
			return nil, apperrors.NewValidation("csv", "line %d: day and exercise are required", line)
		}

		exercise := types.Exercise{
			Name: name,
			Sets: strings.TrimSpace(record[columns["sets"]]),
			Reps: strings.TrimSpace(record[columns["reps"]]),
		}
		if hasNotes {
			exercise.TrainerNote = strings.TrimSpace(record[notesColumn])
		}
		plan[day] = append(plan[day], exercise)
	}

	if len(plan) == 0 {
		return nil, apperrors.NewValidation("csv", "CSV has no exercises")
	}
	return plan, nil
}

// PlannedSets returns the number of sets a plan asks for. Ranges like "3-4"
// use the lower bound.
func PlannedSets(sets string) int {
	first, _, _ := strings.Cut(sets, "-")
	n, err := strconv.Atoi(strings.TrimSpace(first))
	if err != nil || n < 0 {
		return DefaultPlannedSets
	}
	return n
}

// ExerciseDuration returns the hold time of a timed exercise ("30s",
// "45 sec", "2 min"), or zero for rep counts.
func ExerciseDuration(reps string) time.Duration {
	m := timedReps.FindStringSubmatch(strings.ToLower(strings.TrimSpace(reps)))
	if m == nil {
		return 0
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0
	}
	if strings.HasPrefix(m[2], "m") {
		return time.Duration(n) * time.Minute
	}
	return time.Duration(n) * time.Second
}

// ParsePlateTarget parses a user-entered bar weight
func ParsePlateTarget(input string) (float64, error) {
	target, err := strconv.ParseFloat(strings.TrimSpace(input), 64)
	if err != nil || math.IsNaN(target) || math.IsInf(target, 0) {
		return 0, apperrors.NewValidation("target", "enter a valid number")
	}
	return target, nil
}

// CalculatePlates loads each side greedily from the plate rack. Weight that
// the rack cannot represent is returned as Remainder.
func CalculatePlates(target float64) (*types.PlateLoad, error) {
	if math.IsNaN(target) || math.IsInf(target, 0) {
		return nil, apperrors.NewValidation("target", "enter a valid number")
	}
	if target < BarWeight {
		return nil, apperrors.NewValidation("target", "weight must be >= %g (bar)", BarWeight)
	}

	perSide := (target - BarWeight) / 2
	load := &types.PlateLoad{
		Target:  target,
		PerSide: perSide,
		Plates:  []float64{},
	}

	remaining := perSide
	for _, plate := range plateSizes {
		pairs := plate.Count / 2
		for remaining >= plate.Size && pairs > 0 {
			load.Plates = append(load.Plates, plate.Size)
			remaining -= plate.Size
			pairs--
		}
	}

	load.Remainder = remaining
	load.BarOnly = len(load.Plates) == 0 && remaining == 0
	return load, nil
}

// previousLog finds the latest logged weight or notes for an exercise,
// newest session first. Entries where both were left blank are skipped.
func previousLog(history []types.WorkoutSession, exercise string) (*types.PreviousLog, bool) {
	want := foldName(exercise)
	for i := len(history) - 1; i >= 0; i-- {
		for _, ex := range history[i].Exercises {
			if foldName(ex.Name) != want {
				continue
			}
			if ex.UserWeight == "" && ex.UserNotes == "" {
				continue
			}
			return &types.PreviousLog{Weight: ex.UserWeight, Notes: ex.UserNotes}, true
		}
	}
	return nil, false
}

func importWorkoutPlan(c *types.Character, input string) (*types.ImportResult, error) {
	if c.ActiveWorkout != nil {
		return nil, apperrors.ErrWorkoutInProgress
	}

	plan, err := ParseWorkoutCSV(input)
	if err != nil {
		return nil, err
	}

	c.WorkoutQueue = plan
	days := queueDays(c)
	return &types.ImportResult{
		Days:    days,
		Message: fmt.Sprintf("Loaded %d days of missions!", len(days)),
	}, nil
}

func startWorkout(c *types.Character, day string, today types.Date) (*types.WorkoutSession, error) {
	if c.ActiveWorkout != nil {
		return nil, apperrors.ErrWorkoutInProgress
	}
	exercises, ok := c.WorkoutQueue[day]
	if !ok {
		return nil, apperrors.NewNotFound("workout day", day)
	}

	session := &types.WorkoutSession{
		ID:        uuid.New().String(),
		Date:      today,
		DayName:   day,
		Exercises: append([]types.Exercise(nil), exercises...),
	}
	c.ActiveWorkout = session
	return session, nil
}

// currentExercise returns the exercise the active session is on
func currentExercise(c *types.Character) (*types.Exercise, error) {
	w := c.ActiveWorkout
	if w == nil {
		return nil, apperrors.ErrNoActiveWorkout
	}
	if w.Cleared() {
		return nil, apperrors.ErrWorkoutCleared
	}
	return &w.Exercises[w.CurrentStep], nil
}

func completeSet(c *types.Character) (*types.Exercise, error) {
	ex, err := currentExercise(c)
	if err != nil {
		return nil, err
	}
	if ex.SetsCompleted >= PlannedSets(ex.Sets) {
		return nil, apperrors.ErrAllSetsDone.WithReason("all %d sets of %s done", PlannedSets(ex.Sets), ex.Name)
	}
	ex.SetsCompleted++
	return ex, nil
}

func submitExercise(c *types.Character, weight, notes string) error {
	ex, err := currentExercise(c)
	if err != nil {
		return err
	}
	ex.UserWeight = strings.TrimSpace(weight)
	ex.UserNotes = strings.TrimSpace(notes)
	c.ActiveWorkout.CurrentStep++
	return nil
}

func claimWorkout(c *types.Character, today types.Date) (*types.Outcome, error) {
	w := c.ActiveWorkout
	if w == nil {
		return nil, apperrors.ErrNoActiveWorkout
	}
	if !w.Cleared() {
		return nil, apperrors.ErrWorkoutNotCleared.WithReason("%d of %d exercises left", len(w.Exercises)-w.CurrentStep, len(w.Exercises))
	}

	c.Experience[types.Agility] += WorkoutAgilityReward
	c.Vitals.Currency += WorkoutCurrencyReward
	entry := fmt.Sprintf("%s - Cleared Dungeon (+%d XP | +%d GP)", today, WorkoutStrengthReward+WorkoutAgilityReward, WorkoutCurrencyReward)
	c.History = append(c.History, entry)
	c.WorkoutHistory = append(c.WorkoutHistory, *w)
	delete(c.WorkoutQueue, w.DayName)
	c.ActiveWorkout = nil
	levelUp := grantXP(c, types.Strength, WorkoutStrengthReward)

	return &types.Outcome{
		Description: fmt.Sprintf("Cleared %s", w.DayName),
		XPChanges: map[string]int{
			types.Strength: WorkoutStrengthReward,
			types.Agility:  WorkoutAgilityReward,
		},
		CurrencyChange: WorkoutCurrencyReward,
		LevelUp:        levelUp,
		HistoryEntry:   entry,
	}, nil
}

// abortWorkout drops an in-progress session. Nothing is rewarded or
// recorded. A cleared session can only be claimed.
func abortWorkout(c *types.Character) error {
	if c.ActiveWorkout == nil {
		return apperrors.ErrNoActiveWorkout
	}
	if c.ActiveWorkout.Cleared() {
		return apperrors.ErrWorkoutCleared
	}
	c.ActiveWorkout = nil
	return nil
}

func queueDays(c *types.Character) []string {
	days := make([]string, 0, len(c.WorkoutQueue))
	for day := range c.WorkoutQueue {
		days = append(days, day)
	}
	sort.Strings(days)
	return days
}

func workoutView(c *types.Character) *types.WorkoutView {
	w := c.ActiveWorkout
	if w == nil {
		return &types.WorkoutView{
			State:     types.WorkoutIdle,
			QueueDays: queueDays(c),
		}
	}

	view := &types.WorkoutView{
		State:   types.WorkoutInProgress,
		DayName: w.DayName,
		Step:    w.CurrentStep,
		Total:   len(w.Exercises),
	}
	if view.Total > 0 {
		view.Progress = float64(min(view.Step, view.Total)) / float64(view.Total)
	}
	if w.Cleared() {
		view.State = types.WorkoutCleared
		view.Progress = 1
		return view
	}

	ex := w.Exercises[w.CurrentStep]
	view.Current = &types.ExerciseView{
		Exercise:    ex,
		PlannedSets: PlannedSets(ex.Sets),
		Duration:    ExerciseDuration(ex.Reps),
	}
	if prev, ok := previousLog(c.WorkoutHistory, ex.Name); ok {
		view.Current.Previous = prev
	}
	return view
}

func logWeight(c *types.Character, weight float64, today types.Date) error {
	if weight <= 0 {
		return apperrors.NewValidation("weight", "weight must be positive")
	}
	c.WeightLog.Dates = append(c.WeightLog.Dates, today)
	c.WeightLog.Weights = append(c.WeightLog.Weights, weight)
	return nil
}
