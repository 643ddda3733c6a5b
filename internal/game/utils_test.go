package game

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/user/lifequest/internal/types"
)

func TestDefaultTemplatesAreValid(t *testing.T) {
	templates := DefaultTemplates()
	require.NoError(t, templates.validate())
	assert.Len(t, templates.Roles, 4)
	for role, tmpl := range templates.Roles {
		assert.NotEmpty(t, tmpl.DisplayName, role)
		assert.Len(t, tmpl.Shop, 4, role)
		assert.Len(t, tmpl.Habits, 4, role)
	}
}

const customTemplates = `
default_role: parent
roles:
  parent:
    display_name: Parent (Warden)
    shop:
      Coffee: 20
    habits:
      Walk: Agility
  kid:
    shop:
      Sticker: 5
    habits:
      Read: Intellect
skills:
  Chef:
    Omelette:
      attribute: Sense
      xp: 60
`

func TestLoadTemplatesFromYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "templates.yaml")
	require.NoError(t, os.WriteFile(path, []byte(customTemplates), 0644))

	templates, err := LoadTemplates(path)
	require.NoError(t, err)
	assert.Equal(t, "parent", templates.DefaultRole)
	assert.Equal(t, SkillTemplate{Attribute: types.Sense, XP: 60}, templates.Skills["Chef"]["Omelette"])

	assert.Equal(t, "Parent (Warden)", templates.DisplayName("parent"))
	assert.Equal(t, "kid", templates.DisplayName("kid"), "blank display names fall back to the id")
	assert.Equal(t, "uncle", templates.DisplayName("uncle"))

	assert.Equal(t, map[string]int{"Coffee": 20}, templates.For("uncle").Shop)

	kid := templates.NewCharacter("kid", 80, "2024-03-10")
	assert.Equal(t, types.Vitals{Health: 80, MaxHealth: 80}, kid.Vitals)
	assert.Equal(t, types.Intellect, kid.Habits["Read"].RewardAttribute)
	assert.Equal(t, 60, kid.Skills["Chef"]["Omelette"].RewardXP)
}

func TestLoadTemplatesFromYAMLErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadTemplatesFromYAML(filepath.Join(dir, "missing.yaml"))
	assert.ErrorContains(t, err, "failed to read templates file")

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("roles: [unterminated"), 0644))
	_, err = LoadTemplatesFromYAML(bad)
	assert.ErrorContains(t, err, "failed to parse templates YAML")

	unknownAttr := filepath.Join(dir, "attr.yaml")
	require.NoError(t, os.WriteFile(unknownAttr, []byte("default_role: a\nroles:\n  a:\n    habits:\n      Sing: Charisma\n"), 0644))
	_, err = LoadTemplatesFromYAML(unknownAttr)
	assert.ErrorContains(t, err, `unknown attribute "Charisma"`)

	noDefault := filepath.Join(dir, "default.yaml")
	require.NoError(t, os.WriteFile(noDefault, []byte("default_role: ghost\nroles:\n  a: {}\n"), 0644))
	_, err = LoadTemplatesFromYAML(noDefault)
	assert.ErrorContains(t, err, `default role "ghost"`)
}

func TestLoadTemplatesDefaultsWithoutPath(t *testing.T) {
	templates, err := LoadTemplates("")
	require.NoError(t, err)
	assert.Equal(t, DefaultTemplates(), templates)
}

func TestNewCharacterCopiesTemplate(t *testing.T) {
	templates := DefaultTemplates()

	first := templates.NewCharacter("son", 100, "2024-03-10")
	first.Shop["Ice Cream"] = 1
	first.Habits["Training Arc (Gym)"].LastCompletedDate = "2024-03-10"
	first.Skills["Guardian (Safety)"]["Situational Awareness"].Status = types.SkillMastered

	second := templates.NewCharacter("son", 100, "2024-03-10")
	assert.Equal(t, 100, second.Shop["Ice Cream"])
	assert.True(t, second.Habits["Training Arc (Gym)"].LastCompletedDate.IsZero())
	assert.Equal(t, types.SkillInProgress, second.Skills["Guardian (Safety)"]["Situational Awareness"].Status)
	assert.Equal(t, 100, templates.Roles["son"].Shop["Ice Cream"])
}
