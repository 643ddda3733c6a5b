package web

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/user/lifequest/internal/interfaces"
	"github.com/user/lifequest/internal/types"
)

// Mock GuildManager for testing
type MockGuildManager struct {
	mock.Mock
}

var _ interfaces.GuildManager = (*MockGuildManager)(nil)

func (m *MockGuildManager) Roster() []string {
	args := m.Called()
	return args.Get(0).([]string)
}

func (m *MockGuildManager) BeginSession(ctx context.Context, characterID string) (*types.SessionStart, error) {
	args := m.Called(ctx, characterID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.SessionStart), args.Error(1)
}

func (m *MockGuildManager) RunDailyCycle(ctx context.Context, characterID string) (*types.DailyReport, error) {
	args := m.Called(ctx, characterID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.DailyReport), args.Error(1)
}

func (m *MockGuildManager) GetStatus(ctx context.Context, characterID string) (*types.CharacterStatus, error) {
	args := m.Called(ctx, characterID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.CharacterStatus), args.Error(1)
}

func (m *MockGuildManager) GetHistory(ctx context.Context, characterID string) ([]string, error) {
	args := m.Called(ctx, characterID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockGuildManager) GetLeaderboard(ctx context.Context) ([]types.LeaderboardEntry, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.LeaderboardEntry), args.Error(1)
}

func (m *MockGuildManager) LogWeight(ctx context.Context, characterID string, weight float64) (*types.WeightLog, error) {
	args := m.Called(ctx, characterID, weight)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.WeightLog), args.Error(1)
}

func (m *MockGuildManager) GetHabits(ctx context.Context, characterID string) ([]types.HabitStatus, error) {
	args := m.Called(ctx, characterID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.HabitStatus), args.Error(1)
}

func (m *MockGuildManager) CompleteHabit(ctx context.Context, characterID, habit string) (*types.Outcome, error) {
	args := m.Called(ctx, characterID, habit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Outcome), args.Error(1)
}

func (m *MockGuildManager) GetTasks(ctx context.Context, characterID string) ([]types.TaskStatus, error) {
	args := m.Called(ctx, characterID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.TaskStatus), args.Error(1)
}

func (m *MockGuildManager) CompleteTask(ctx context.Context, characterID string, index int) (*types.Outcome, error) {
	args := m.Called(ctx, characterID, index)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Outcome), args.Error(1)
}

func (m *MockGuildManager) GetShop(ctx context.Context, characterID string) ([]types.ShopListing, error) {
	args := m.Called(ctx, characterID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.ShopListing), args.Error(1)
}

func (m *MockGuildManager) Purchase(ctx context.Context, characterID, item string) (*types.Outcome, error) {
	args := m.Called(ctx, characterID, item)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Outcome), args.Error(1)
}

func (m *MockGuildManager) GetInventory(ctx context.Context, characterID string) ([]string, error) {
	args := m.Called(ctx, characterID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockGuildManager) Redeem(ctx context.Context, characterID string, index int) (*types.Outcome, error) {
	args := m.Called(ctx, characterID, index)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Outcome), args.Error(1)
}

func (m *MockGuildManager) GetSkills(ctx context.Context, characterID string) ([]types.SkillView, error) {
	args := m.Called(ctx, characterID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.SkillView), args.Error(1)
}

func (m *MockGuildManager) MasterSkill(ctx context.Context, characterID, category, skill string) (*types.Outcome, error) {
	args := m.Called(ctx, characterID, category, skill)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Outcome), args.Error(1)
}

func (m *MockGuildManager) GetWorkout(ctx context.Context, characterID string) (*types.WorkoutView, error) {
	args := m.Called(ctx, characterID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.WorkoutView), args.Error(1)
}

func (m *MockGuildManager) ImportWorkoutPlan(ctx context.Context, characterID, csv string) (*types.ImportResult, error) {
	args := m.Called(ctx, characterID, csv)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.ImportResult), args.Error(1)
}

func (m *MockGuildManager) StartWorkout(ctx context.Context, characterID, day string) (*types.WorkoutView, error) {
	args := m.Called(ctx, characterID, day)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.WorkoutView), args.Error(1)
}

func (m *MockGuildManager) CompleteSet(ctx context.Context, characterID string) (*types.WorkoutView, error) {
	args := m.Called(ctx, characterID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.WorkoutView), args.Error(1)
}

func (m *MockGuildManager) SubmitExercise(ctx context.Context, characterID, weight, notes string) (*types.WorkoutView, error) {
	args := m.Called(ctx, characterID, weight, notes)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.WorkoutView), args.Error(1)
}

func (m *MockGuildManager) ClaimWorkout(ctx context.Context, characterID string) (*types.Outcome, error) {
	args := m.Called(ctx, characterID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Outcome), args.Error(1)
}

func (m *MockGuildManager) AbortWorkout(ctx context.Context, characterID string) (*types.WorkoutView, error) {
	args := m.Called(ctx, characterID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.WorkoutView), args.Error(1)
}

func (m *MockGuildManager) AssignTask(ctx context.Context, actor types.Actor, targetID, name, attribute string, due types.Date) (*types.Task, error) {
	args := m.Called(ctx, actor, targetID, name, attribute, due)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Task), args.Error(1)
}

func (m *MockGuildManager) AddShopItem(ctx context.Context, actor types.Actor, targetID, item string, price int) error {
	args := m.Called(ctx, actor, targetID, item, price)
	return args.Error(0)
}

func (m *MockGuildManager) RemoveShopItem(ctx context.Context, actor types.Actor, targetID, item string) error {
	args := m.Called(ctx, actor, targetID, item)
	return args.Error(0)
}

func (m *MockGuildManager) AddHabit(ctx context.Context, actor types.Actor, targetID, name, attribute string) error {
	args := m.Called(ctx, actor, targetID, name, attribute)
	return args.Error(0)
}

func (m *MockGuildManager) RemoveHabit(ctx context.Context, actor types.Actor, targetID, name string) error {
	args := m.Called(ctx, actor, targetID, name)
	return args.Error(0)
}

func (m *MockGuildManager) AddSkill(ctx context.Context, actor types.Actor, targetID, category, name, attribute string, xp int) error {
	args := m.Called(ctx, actor, targetID, category, name, attribute, xp)
	return args.Error(0)
}
