package game

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/user/lifequest/config"
	apperrors "github.com/user/lifequest/internal/errors"
	"github.com/user/lifequest/internal/interfaces"
	"github.com/user/lifequest/internal/types"
	"go.uber.org/zap"
)

// GameManager runs every guild command as load, mutate, save of one
// character document
type GameManager struct {
	stateLock sync.Mutex
	storage   *CharacterStorage
	config    config.Config
	Logger    *zap.Logger
	now       func() time.Time
}

// Ensure GameManager satisfies the interfaces.GuildManager interface
var _ interfaces.GuildManager = (*GameManager)(nil)

// NewGameManager creates a new game manager
func NewGameManager(cfg config.Config, storage *CharacterStorage) *GameManager {
	return &GameManager{
		storage: storage,
		config:  cfg,
		Logger:  zap.NewNop(), // Will be set by the server
		now:     time.Now,
	}
}

// OpenGameManager opens the configured store and templates
func OpenGameManager(cfg config.Config) (*GameManager, error) {
	templates, err := LoadTemplates(cfg.Game.TemplatesPath)
	if err != nil {
		return nil, err
	}
	if cfg.Game.DefaultRole != "" {
		if _, ok := templates.Roles[cfg.Game.DefaultRole]; !ok {
			return nil, fmt.Errorf("default role %q has no template", cfg.Game.DefaultRole)
		}
		templates.DefaultRole = cfg.Game.DefaultRole
	}

	store, err := OpenStateStore(cfg.Storage)
	if err != nil {
		return nil, err
	}

	return NewGameManager(cfg, NewCharacterStorage(store, templates, cfg.Game.StartingHealth)), nil
}

// SetLogger sets the logger
func (gm *GameManager) SetLogger(logger *zap.Logger) {
	gm.Logger = logger
}

// SetClock replaces the wall clock, used to simulate day changes
func (gm *GameManager) SetClock(now func() time.Time) {
	gm.stateLock.Lock()
	defer gm.stateLock.Unlock()
	gm.now = now
}

// Close closes the underlying store
func (gm *GameManager) Close() error {
	return gm.storage.Close()
}

func (gm *GameManager) today() types.Date {
	return types.DateOf(gm.now())
}

// Roster returns the configured character ids
func (gm *GameManager) Roster() []string {
	return slices.Clone(gm.config.Game.Roster)
}

func (gm *GameManager) checkRoster(characterID string) error {
	if !slices.Contains(gm.config.Game.Roster, characterID) {
		return apperrors.NewNotFound("character", characterID)
	}
	return nil
}

// load returns a character with today's daily cycle applied. A cycle that
// ran is saved at once, whatever the caller does next. Callers hold stateLock.
func (gm *GameManager) load(ctx context.Context, characterID string) (*types.Character, types.Date, types.DailyReport, error) {
	if err := gm.checkRoster(characterID); err != nil {
		return nil, "", types.DailyReport{}, err
	}

	today := gm.today()
	character, err := gm.storage.GetOrInit(ctx, characterID, today)
	if err != nil {
		gm.Logger.Error("Failed to load character state", zap.String("character_id", characterID), zap.Error(err))
		return nil, "", types.DailyReport{}, fmt.Errorf("failed to load character state: %w", err)
	}

	report := applyDailyPenalty(character, today)
	if report.Applied {
		if err := gm.save(ctx, characterID, character); err != nil {
			return nil, "", types.DailyReport{}, err
		}
		gm.logDaily(characterID, report)
	}
	return character, today, report, nil
}

func (gm *GameManager) save(ctx context.Context, characterID string, character *types.Character) error {
	if err := gm.storage.Save(ctx, characterID, character); err != nil {
		gm.Logger.Error("Failed to save character state", zap.String("character_id", characterID), zap.Error(err))
		return fmt.Errorf("failed to save character state: %w", err)
	}
	return nil
}

// mutate loads a character, applies fn and saves the full document. Nothing
// fn changed is saved when fn fails.
func (gm *GameManager) mutate(ctx context.Context, characterID string, fn func(c *types.Character, today types.Date) error) error {
	gm.stateLock.Lock()
	defer gm.stateLock.Unlock()

	character, today, _, err := gm.load(ctx, characterID)
	if err != nil {
		return err
	}

	if err := fn(character, today); err != nil {
		return err
	}

	// Save state
	return gm.save(ctx, characterID, character)
}

// view loads a character for a read-only query
func (gm *GameManager) view(ctx context.Context, characterID string, fn func(c *types.Character, today types.Date)) error {
	gm.stateLock.Lock()
	defer gm.stateLock.Unlock()

	character, today, _, err := gm.load(ctx, characterID)
	if err != nil {
		return err
	}

	fn(character, today)
	return nil
}

// admin runs an admin command against targetID on behalf of actor
func (gm *GameManager) admin(ctx context.Context, actor types.Actor, targetID string, fn func(c *types.Character, today types.Date) error) error {
	if err := requireAdmin(actor); err != nil {
		gm.Logger.Warn("Rejected admin command",
			zap.String("actor", actor.CharacterID),
			zap.String("target", targetID))
		return err
	}
	return gm.mutate(ctx, targetID, fn)
}

// BeginSession resolves the acting session and runs the daily cycle
func (gm *GameManager) BeginSession(ctx context.Context, characterID string) (*types.SessionStart, error) {
	report, err := gm.RunDailyCycle(ctx, characterID)
	if err != nil {
		return nil, err
	}

	return &types.SessionStart{
		Actor: types.Actor{
			CharacterID: characterID,
			Admin:       gm.config.IsAdmin(characterID),
		},
		Daily: *report,
	}, nil
}

// RunDailyCycle applies missed-habit damage once per calendar day
func (gm *GameManager) RunDailyCycle(ctx context.Context, characterID string) (*types.DailyReport, error) {
	gm.stateLock.Lock()
	defer gm.stateLock.Unlock()

	character, _, report, err := gm.load(ctx, characterID)
	if err != nil {
		return nil, err
	}
	// First sessions store the new character even when no cycle ran
	if !report.Applied {
		if err := gm.save(ctx, characterID, character); err != nil {
			return nil, err
		}
	}
	return &report, nil
}

func (gm *GameManager) logDaily(characterID string, report types.DailyReport) {
	gm.Logger.Info("Daily cycle applied",
		zap.String("character_id", characterID),
		zap.String("date", report.Date.String()),
		zap.Int("missed", len(report.Missed)),
		zap.Int("damage", report.Damage),
		zap.Int("health", report.Health))
	if report.Critical {
		gm.Logger.Warn("Character in critical state", zap.String("character_id", characterID), zap.Int("health", report.Health))
	}
}

// GetStatus returns the dashboard of a character
func (gm *GameManager) GetStatus(ctx context.Context, characterID string) (*types.CharacterStatus, error) {
	var status *types.CharacterStatus
	err := gm.view(ctx, characterID, func(c *types.Character, _ types.Date) {
		status = characterStatus(characterID, gm.storage.Templates().DisplayName(characterID), c)
	})
	return status, err
}

// GetHistory returns the event log, newest first
func (gm *GameManager) GetHistory(ctx context.Context, characterID string) ([]string, error) {
	var history []string
	err := gm.view(ctx, characterID, func(c *types.Character, _ types.Date) {
		history = slices.Clone(c.History)
		slices.Reverse(history)
	})
	return history, err
}

// GetLeaderboard ranks every stored character by total experience
func (gm *GameManager) GetLeaderboard(ctx context.Context) ([]types.LeaderboardEntry, error) {
	gm.stateLock.Lock()
	defer gm.stateLock.Unlock()

	doc, err := gm.storage.LoadAll(ctx, gm.today())
	if err != nil {
		return nil, fmt.Errorf("failed to load game state: %w", err)
	}

	entries := make([]types.LeaderboardEntry, 0, len(doc))
	for id, c := range doc {
		total := c.TotalXP()
		entries = append(entries, types.LeaderboardEntry{
			CharacterID: id,
			Rank:        RankOf(total),
			Currency:    c.Vitals.Currency,
			TotalXP:     total,
		})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].TotalXP != entries[j].TotalXP {
			return entries[i].TotalXP > entries[j].TotalXP
		}
		return entries[i].CharacterID < entries[j].CharacterID
	})
	return entries, nil
}

// LogWeight records today's body weight
func (gm *GameManager) LogWeight(ctx context.Context, characterID string, weight float64) (*types.WeightLog, error) {
	var log types.WeightLog
	err := gm.mutate(ctx, characterID, func(c *types.Character, today types.Date) error {
		if err := logWeight(c, weight, today); err != nil {
			return err
		}
		log = c.WeightLog
		return nil
	})
	if err != nil {
		return nil, err
	}

	gm.Logger.Info("Weight logged", zap.String("character_id", characterID), zap.Float64("weight", weight))
	return &log, nil
}

// GetHabits returns the habit board
func (gm *GameManager) GetHabits(ctx context.Context, characterID string) ([]types.HabitStatus, error) {
	var board []types.HabitStatus
	err := gm.view(ctx, characterID, func(c *types.Character, today types.Date) {
		board = habitBoard(c, today)
	})
	return board, err
}

// CompleteHabit completes a habit for today
func (gm *GameManager) CompleteHabit(ctx context.Context, characterID, habit string) (*types.Outcome, error) {
	var outcome *types.Outcome
	err := gm.mutate(ctx, characterID, func(c *types.Character, today types.Date) error {
		var err error
		outcome, err = completeHabit(c, habit, today)
		return err
	})
	if err != nil {
		return nil, err
	}

	gm.logOutcome(characterID, "Habit completed", outcome)
	return outcome, nil
}

// GetTasks returns the task board
func (gm *GameManager) GetTasks(ctx context.Context, characterID string) ([]types.TaskStatus, error) {
	var board []types.TaskStatus
	err := gm.view(ctx, characterID, func(c *types.Character, today types.Date) {
		board = taskBoard(c, today)
	})
	return board, err
}

// CompleteTask completes the task at index
func (gm *GameManager) CompleteTask(ctx context.Context, characterID string, index int) (*types.Outcome, error) {
	var outcome *types.Outcome
	err := gm.mutate(ctx, characterID, func(c *types.Character, today types.Date) error {
		var err error
		outcome, err = completeTask(c, index, today)
		return err
	})
	if err != nil {
		return nil, err
	}

	gm.logOutcome(characterID, "Task completed", outcome)
	return outcome, nil
}

// GetShop returns the shop listing
func (gm *GameManager) GetShop(ctx context.Context, characterID string) ([]types.ShopListing, error) {
	var listing []types.ShopListing
	err := gm.view(ctx, characterID, func(c *types.Character, _ types.Date) {
		listing = shopListing(c)
	})
	return listing, err
}

// Purchase buys an item from the character's shop
func (gm *GameManager) Purchase(ctx context.Context, characterID, item string) (*types.Outcome, error) {
	var outcome *types.Outcome
	err := gm.mutate(ctx, characterID, func(c *types.Character, today types.Date) error {
		var err error
		outcome, err = purchase(c, item, today)
		return err
	})
	if err != nil {
		return nil, err
	}

	gm.logOutcome(characterID, "Item purchased", outcome)
	return outcome, nil
}

// GetInventory returns the purchased items
func (gm *GameManager) GetInventory(ctx context.Context, characterID string) ([]string, error) {
	var inventory []string
	err := gm.view(ctx, characterID, func(c *types.Character, _ types.Date) {
		inventory = slices.Clone(c.Inventory)
	})
	return inventory, err
}

// Redeem uses up the inventory item at index
func (gm *GameManager) Redeem(ctx context.Context, characterID string, index int) (*types.Outcome, error) {
	var outcome *types.Outcome
	err := gm.mutate(ctx, characterID, func(c *types.Character, today types.Date) error {
		var err error
		outcome, err = redeem(c, index, today)
		return err
	})
	if err != nil {
		return nil, err
	}

	gm.logOutcome(characterID, "Item redeemed", outcome)
	return outcome, nil
}

// GetSkills returns the skill tree
func (gm *GameManager) GetSkills(ctx context.Context, characterID string) ([]types.SkillView, error) {
	var views []types.SkillView
	err := gm.view(ctx, characterID, func(c *types.Character, _ types.Date) {
		views = skillTree(c)
	})
	return views, err
}

// MasterSkill masters a skill
func (gm *GameManager) MasterSkill(ctx context.Context, characterID, category, skill string) (*types.Outcome, error) {
	var outcome *types.Outcome
	err := gm.mutate(ctx, characterID, func(c *types.Character, today types.Date) error {
		var err error
		outcome, err = masterSkill(c, category, skill, today)
		return err
	})
	if err != nil {
		return nil, err
	}

	gm.logOutcome(characterID, "Skill mastered", outcome)
	return outcome, nil
}

// GetWorkout returns the gym view
func (gm *GameManager) GetWorkout(ctx context.Context, characterID string) (*types.WorkoutView, error) {
	var view *types.WorkoutView
	err := gm.view(ctx, characterID, func(c *types.Character, _ types.Date) {
		view = workoutView(c)
	})
	return view, err
}

// ImportWorkoutPlan replaces the workout queue with a CSV plan
func (gm *GameManager) ImportWorkoutPlan(ctx context.Context, characterID, csv string) (*types.ImportResult, error) {
	var result *types.ImportResult
	err := gm.mutate(ctx, characterID, func(c *types.Character, _ types.Date) error {
		var err error
		result, err = importWorkoutPlan(c, csv)
		return err
	})
	if err != nil {
		gm.Logger.Info("Workout plan rejected", zap.String("character_id", characterID), zap.Error(err))
		return nil, err
	}

	gm.Logger.Info("Workout plan imported", zap.String("character_id", characterID), zap.Strings("days", result.Days))
	return result, nil
}

// StartWorkout starts the queued day
func (gm *GameManager) StartWorkout(ctx context.Context, characterID, day string) (*types.WorkoutView, error) {
	return gm.workoutStep(ctx, characterID, "Workout started", func(c *types.Character, today types.Date) error {
		_, err := startWorkout(c, day, today)
		return err
	})
}

// CompleteSet marks one more set of the current exercise as done
func (gm *GameManager) CompleteSet(ctx context.Context, characterID string) (*types.WorkoutView, error) {
	return gm.workoutStep(ctx, characterID, "Set completed", func(c *types.Character, _ types.Date) error {
		_, err := completeSet(c)
		return err
	})
}

// SubmitExercise logs weight and notes and moves to the next exercise
func (gm *GameManager) SubmitExercise(ctx context.Context, characterID, weight, notes string) (*types.WorkoutView, error) {
	return gm.workoutStep(ctx, characterID, "Exercise submitted", func(c *types.Character, _ types.Date) error {
		return submitExercise(c, weight, notes)
	})
}

// AbortWorkout discards the active workout
func (gm *GameManager) AbortWorkout(ctx context.Context, characterID string) (*types.WorkoutView, error) {
	return gm.workoutStep(ctx, characterID, "Workout aborted", func(c *types.Character, _ types.Date) error {
		return abortWorkout(c)
	})
}

func (gm *GameManager) workoutStep(ctx context.Context, characterID, message string, fn func(c *types.Character, today types.Date) error) (*types.WorkoutView, error) {
	var view *types.WorkoutView
	err := gm.mutate(ctx, characterID, func(c *types.Character, today types.Date) error {
		if err := fn(c, today); err != nil {
			return err
		}
		view = workoutView(c)
		return nil
	})
	if err != nil {
		return nil, err
	}

	gm.Logger.Info(message,
		zap.String("character_id", characterID),
		zap.String("state", string(view.State)),
		zap.Int("step", view.Step),
		zap.Int("total", view.Total))
	return view, nil
}

// ClaimWorkout grants the rewards of a cleared workout
func (gm *GameManager) ClaimWorkout(ctx context.Context, characterID string) (*types.Outcome, error) {
	var outcome *types.Outcome
	err := gm.mutate(ctx, characterID, func(c *types.Character, today types.Date) error {
		var err error
		outcome, err = claimWorkout(c, today)
		return err
	})
	if err != nil {
		return nil, err
	}

	gm.logOutcome(characterID, "Workout claimed", outcome)
	return outcome, nil
}

// AssignTask appends a task to another character's board
func (gm *GameManager) AssignTask(ctx context.Context, actor types.Actor, targetID, name, attribute string, due types.Date) (*types.Task, error) {
	var task types.Task
	err := gm.admin(ctx, actor, targetID, func(c *types.Character, today types.Date) error {
		if due.IsZero() {
			due = today
		}
		assigned, err := assignTask(c, name, attribute, due)
		if err != nil {
			return err
		}
		task = *assigned
		return nil
	})
	if err != nil {
		return nil, err
	}

	gm.Logger.Info("Task assigned",
		zap.String("actor", actor.CharacterID),
		zap.String("target", targetID),
		zap.String("task", task.Name),
		zap.String("due_date", task.DueDate.String()))
	return &task, nil
}

// AddShopItem stocks an item in another character's shop
func (gm *GameManager) AddShopItem(ctx context.Context, actor types.Actor, targetID, item string, price int) error {
	err := gm.admin(ctx, actor, targetID, func(c *types.Character, _ types.Date) error {
		return addShopItem(c, item, price)
	})
	if err == nil {
		gm.logAdmin(actor, targetID, "Shop item added", item)
	}
	return err
}

// RemoveShopItem removes an item from another character's shop
func (gm *GameManager) RemoveShopItem(ctx context.Context, actor types.Actor, targetID, item string) error {
	err := gm.admin(ctx, actor, targetID, func(c *types.Character, _ types.Date) error {
		return removeShopItem(c, item)
	})
	if err == nil {
		gm.logAdmin(actor, targetID, "Shop item removed", item)
	}
	return err
}

// AddHabit creates a habit for another character
func (gm *GameManager) AddHabit(ctx context.Context, actor types.Actor, targetID, name, attribute string) error {
	err := gm.admin(ctx, actor, targetID, func(c *types.Character, _ types.Date) error {
		return addHabit(c, name, attribute)
	})
	if err == nil {
		gm.logAdmin(actor, targetID, "Habit added", name)
	}
	return err
}

// RemoveHabit deletes a habit of another character
func (gm *GameManager) RemoveHabit(ctx context.Context, actor types.Actor, targetID, name string) error {
	err := gm.admin(ctx, actor, targetID, func(c *types.Character, _ types.Date) error {
		return removeHabit(c, name)
	})
	if err == nil {
		gm.logAdmin(actor, targetID, "Habit removed", name)
	}
	return err
}

// AddSkill adds a skill to a character's tree
func (gm *GameManager) AddSkill(ctx context.Context, actor types.Actor, targetID, category, name, attribute string, xp int) error {
	err := gm.admin(ctx, actor, targetID, func(c *types.Character, _ types.Date) error {
		return addSkill(c, category, name, attribute, xp)
	})
	if err == nil {
		gm.logAdmin(actor, targetID, "Skill added", category+"/"+name)
	}
	return err
}

func (gm *GameManager) logOutcome(characterID, message string, outcome *types.Outcome) {
	fields := []zap.Field{
		zap.String("character_id", characterID),
		zap.String("description", outcome.Description),
		zap.Int("currency_change", outcome.CurrencyChange),
	}
	if outcome.LevelUp != nil {
		fields = append(fields,
			zap.String("level_up", outcome.LevelUp.Attribute),
			zap.Int("new_level", outcome.LevelUp.NewLevel))
	}
	gm.Logger.Info(message, fields...)
}

func (gm *GameManager) logAdmin(actor types.Actor, targetID, message, subject string) {
	gm.Logger.Info(message,
		zap.String("actor", actor.CharacterID),
		zap.String("target", targetID),
		zap.String("subject", subject))
}
