package interfaces

import (
	"context"

	"github.com/user/lifequest/internal/types"
)

// GuildManager defines the commands and queries of the family guild.
// Every call names the character it acts on; admin commands also take
// the acting session.
type GuildManager interface {
	Roster() []string
	BeginSession(ctx context.Context, characterID string) (*types.SessionStart, error)
	RunDailyCycle(ctx context.Context, characterID string) (*types.DailyReport, error)

	GetStatus(ctx context.Context, characterID string) (*types.CharacterStatus, error)
	GetHistory(ctx context.Context, characterID string) ([]string, error)
	GetLeaderboard(ctx context.Context) ([]types.LeaderboardEntry, error)
	LogWeight(ctx context.Context, characterID string, weight float64) (*types.WeightLog, error)

	GetHabits(ctx context.Context, characterID string) ([]types.HabitStatus, error)
	CompleteHabit(ctx context.Context, characterID, habit string) (*types.Outcome, error)
	GetTasks(ctx context.Context, characterID string) ([]types.TaskStatus, error)
	CompleteTask(ctx context.Context, characterID string, index int) (*types.Outcome, error)

	GetShop(ctx context.Context, characterID string) ([]types.ShopListing, error)
	Purchase(ctx context.Context, characterID, item string) (*types.Outcome, error)
	GetInventory(ctx context.Context, characterID string) ([]string, error)
	Redeem(ctx context.Context, characterID string, index int) (*types.Outcome, error)

	GetSkills(ctx context.Context, characterID string) ([]types.SkillView, error)
	MasterSkill(ctx context.Context, characterID, category, skill string) (*types.Outcome, error)

	GetWorkout(ctx context.Context, characterID string) (*types.WorkoutView, error)
	ImportWorkoutPlan(ctx context.Context, characterID, csv string) (*types.ImportResult, error)
	StartWorkout(ctx context.Context, characterID, day string) (*types.WorkoutView, error)
	CompleteSet(ctx context.Context, characterID string) (*types.WorkoutView, error)
	SubmitExercise(ctx context.Context, characterID, weight, notes string) (*types.WorkoutView, error)
	ClaimWorkout(ctx context.Context, characterID string) (*types.Outcome, error)
	AbortWorkout(ctx context.Context, characterID string) (*types.WorkoutView, error)

	AssignTask(ctx context.Context, actor types.Actor, targetID, name, attribute string, due types.Date) (*types.Task, error)
	AddShopItem(ctx context.Context, actor types.Actor, targetID, item string, price int) error
	RemoveShopItem(ctx context.Context, actor types.Actor, targetID, item string) error
	AddHabit(ctx context.Context, actor types.Actor, targetID, name, attribute string) error
	RemoveHabit(ctx context.Context, actor types.Actor, targetID, name string) error
	AddSkill(ctx context.Context, actor types.Actor, targetID, category, name, attribute string, xp int) error
}
