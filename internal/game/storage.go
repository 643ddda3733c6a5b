package game

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/user/lifequest/config"
	"github.com/user/lifequest/internal/types"
)

// StateStore persists raw per-character documents
type StateStore interface {
	LoadAll(ctx context.Context) (map[string]json.RawMessage, error)
	Load(ctx context.Context, id string) (json.RawMessage, bool, error)
	Save(ctx context.Context, id string, doc json.RawMessage) error
	Close() error
}

// OpenStateStore opens the backend selected by cfg
func OpenStateStore(cfg config.StorageConfig) (StateStore, error) {
	switch cfg.Driver {
	case "json", "":
		return NewGameStateStorage(cfg.Path), nil
	case "sqlite":
		return OpenSQLiteStore(cfg.Path)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}

// GameStateStorage keeps every character in one JSON file. Each save is a
// full read-modify-write of the file; two processes saving different
// characters at once can clobber each other.
type GameStateStorage struct {
	savePath  string
	stateLock sync.RWMutex
}

var _ StateStore = (*GameStateStorage)(nil)

// NewGameStateStorage creates a new JSON file store
func NewGameStateStorage(savePath string) *GameStateStorage {
	return &GameStateStorage{
		savePath: savePath,
	}
}

// LoadAll reads the whole save file. A missing file is an empty document.
func (gss *GameStateStorage) LoadAll(ctx context.Context) (map[string]json.RawMessage, error) {
	gss.stateLock.RLock()
	defer gss.stateLock.RUnlock()

	return gss.read()
}

// Load reads one character's document
func (gss *GameStateStorage) Load(ctx context.Context, id string) (json.RawMessage, bool, error) {
	all, err := gss.LoadAll(ctx)
	if err != nil {
		return nil, false, err
	}
	doc, ok := all[id]
	return doc, ok, nil
}

// Save overwrites one character inside the file and rewrites the file atomically
func (gss *GameStateStorage) Save(ctx context.Context, id string, doc json.RawMessage) error {
	gss.stateLock.Lock()
	defer gss.stateLock.Unlock()

	all, err := gss.read()
	if err != nil {
		return err
	}
	all[id] = doc

	// Create directory if it doesn't exist
	dir := filepath.Dir(gss.savePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	// Marshal state to JSON
	data, err := json.MarshalIndent(all, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal game state: %w", err)
	}

	// Write next to the target and rename so readers never see a partial file
	tmp, err := os.CreateTemp(dir, ".save-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write game state: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write game state: %w", err)
	}
	if err := os.Rename(tmp.Name(), gss.savePath); err != nil {
		return fmt.Errorf("failed to replace game state: %w", err)
	}

	return nil
}

// Close is a no-op for the file store
func (gss *GameStateStorage) Close() error {
	return nil
}

func (gss *GameStateStorage) read() (map[string]json.RawMessage, error) {
	// Check if file exists
	data, err := os.ReadFile(gss.savePath)
	if os.IsNotExist(err) {
		return make(map[string]json.RawMessage), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read game state file: %w", err)
	}

	all := make(map[string]json.RawMessage)
	if len(data) == 0 {
		return all, nil
	}
	if err := json.Unmarshal(data, &all); err != nil {
		return nil, fmt.Errorf("failed to parse game state: %w", err)
	}
	if all == nil {
		all = make(map[string]json.RawMessage)
	}

	return all, nil
}

// CharacterStorage decodes, migrates and seeds character documents on top of a StateStore
type CharacterStorage struct {
	store          StateStore
	templates      *Templates
	startingHealth int
}

// NewCharacterStorage creates a character storage
func NewCharacterStorage(store StateStore, templates *Templates, startingHealth int) *CharacterStorage {
	return &CharacterStorage{
		store:          store,
		templates:      templates,
		startingHealth: startingHealth,
	}
}

// Templates returns the role templates used to seed characters
func (cs *CharacterStorage) Templates() *Templates {
	return cs.templates
}

// LoadAll returns every stored character, migrated to the current layout
func (cs *CharacterStorage) LoadAll(ctx context.Context, today types.Date) (types.Document, error) {
	raw, err := cs.store.LoadAll(ctx)
	if err != nil {
		return nil, err
	}

	doc := make(types.Document, len(raw))
	for id, data := range raw {
		character, err := decodeCharacter(data)
		if err != nil {
			return nil, fmt.Errorf("failed to parse character %s: %w", id, err)
		}
		cs.migrate(character, id, today)
		doc[id] = character
	}
	return doc, nil
}

// GetOrInit returns the stored character or a fresh one seeded from its role template
func (cs *CharacterStorage) GetOrInit(ctx context.Context, id string, today types.Date) (*types.Character, error) {
	data, ok, err := cs.store.Load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !ok {
		return cs.templates.NewCharacter(id, cs.startingHealth, today), nil
	}

	character, err := decodeCharacter(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse character %s: %w", id, err)
	}
	cs.migrate(character, id, today)
	return character, nil
}

// Save persists the full character document
func (cs *CharacterStorage) Save(ctx context.Context, id string, character *types.Character) error {
	data, err := json.Marshal(character)
	if err != nil {
		return fmt.Errorf("failed to marshal character %s: %w", id, err)
	}
	return cs.store.Save(ctx, id, data)
}

// Close closes the underlying store
func (cs *CharacterStorage) Close() error {
	return cs.store.Close()
}

// migrate backfills fields missing from documents written by older versions.
// It only fills what is absent, so running it twice changes nothing.
func (cs *CharacterStorage) migrate(c *types.Character, role string, today types.Date) {
	tmpl := cs.templates.For(role)

	if c.Experience == nil {
		c.Experience = make(map[string]int, len(types.Attributes))
	}
	for _, attr := range types.Attributes {
		if _, ok := c.Experience[attr]; !ok {
			c.Experience[attr] = 0
		}
	}

	if c.Vitals.MaxHealth <= 0 {
		c.Vitals.MaxHealth = cs.startingHealth
		if c.Vitals.Health <= 0 {
			c.Vitals.Health = c.Vitals.MaxHealth
		}
	}
	if c.Vitals.Health < HealthFloor {
		c.Vitals.Health = HealthFloor
	}
	if c.Vitals.Health > c.Vitals.MaxHealth {
		c.Vitals.Health = c.Vitals.MaxHealth
	}
	if c.Vitals.Currency < 0 {
		c.Vitals.Currency = 0
	}

	if c.Habits == nil {
		c.Habits = tmpl.habits()
	}
	for name, habit := range c.Habits {
		if habit == nil {
			c.Habits[name] = &types.Habit{RewardAttribute: legacyRewardAttribute}
			continue
		}
		habit.RewardAttribute = rewardAttribute(habit.RewardAttribute)
	}

	if c.Shop == nil {
		c.Shop = tmpl.shop()
	}

	if c.Skills == nil {
		c.Skills = cs.templates.skills()
	}
	for category, entries := range c.Skills {
		if entries == nil {
			c.Skills[category] = make(map[string]*types.Skill)
			continue
		}
		for name, skill := range entries {
			if skill == nil {
				entries[name] = &types.Skill{
					Status:          types.SkillInProgress,
					RewardAttribute: legacyRewardAttribute,
					RewardXP:        legacySkillXP,
				}
				continue
			}
			skill.RewardAttribute = rewardAttribute(skill.RewardAttribute)
		}
	}

	if c.Tasks == nil {
		c.Tasks = []types.Task{}
	}
	for i := range c.Tasks {
		c.Tasks[i].RewardAttribute = rewardAttribute(c.Tasks[i].RewardAttribute)
	}
	if c.Inventory == nil {
		c.Inventory = []string{}
	}
	if c.History == nil {
		c.History = []string{}
	}
	if c.WorkoutQueue == nil {
		c.WorkoutQueue = map[string][]types.Exercise{}
	}
	if c.WorkoutHistory == nil {
		c.WorkoutHistory = []types.WorkoutSession{}
	}
	if c.WeightLog.Dates == nil {
		c.WeightLog.Dates = []types.Date{}
	}
	if c.WeightLog.Weights == nil {
		c.WeightLog.Weights = []float64{}
	}

	if c.LastLoginDate.IsZero() {
		c.LastLoginDate = today
	}
}

// rewardAttribute maps a stored reward onto one of the six pools so grants
// never open a pool of their own.
func rewardAttribute(attr string) string {
	if types.IsAttribute(attr) {
		return attr
	}
	return legacyRewardAttribute
}
