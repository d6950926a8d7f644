package buildconfig

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAddEntry_AppendsSources(t *testing.T) {
	t.Parallel()

	cfg := New("root")
	cfg.AddEntry("/js/app.js", "src/app.js")
	cfg.AddEntry("/js/app.js", "src/bootstrap.js")

	assert.Equal(t, []string{"src/app.js", "src/bootstrap.js"}, cfg.Entries["/js/app.js"])
}

func TestAddRule_KeepsContributionOrder(t *testing.T) {
	t.Parallel()

	cfg := New("root")
	cfg.AddRule(Rule{Name: "babel", Test: `\.m?jsx?$`})
	cfg.AddRule(Rule{Name: "sass", Test: `\.scss$`})

	assert.Equal(t, "babel", cfg.Rules[0].Name)
	assert.Equal(t, "sass", cfg.Rules[1].Name)
}

func TestMerge_OverwritesOnConflict(t *testing.T) {
	t.Parallel()

	cfg := New("root")
	cfg.Merge(map[string]any{"mode": "development", "watch": false})
	cfg.Merge(map[string]any{"mode": "production"})

	assert.Equal(t, "production", cfg.Options["mode"])
	assert.Equal(t, false, cfg.Options["watch"])
}

func TestMerge_NilIsNoop(t *testing.T) {
	t.Parallel()

	cfg := New("root")
	cfg.Merge(nil)
	assert.Empty(t, cfg.Options)
}
