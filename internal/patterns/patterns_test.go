package patterns

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLineGrammar_UniqueIDs(t *testing.T) {
	seen := make(map[string]bool)
	for _, s := range LineGrammar {
		assert.False(t, seen[s.ID], "duplicate shape %s", s.ID)
		seen[s.ID] = true
		if s.NoPrice {
			assert.Zero(t, s.Total, s.ID)
			assert.Zero(t, s.Unit, s.ID)
		}
	}
}

func TestCorrectionGroups_Order(t *testing.T) {
	var names []string
	for _, g := range CorrectionGroups {
		names = append(names, g.Name)
		require.NotEmpty(t, g.Rules, g.Name)
	}
	assert.Equal(t, []string{GroupWord, GroupVolume, GroupPrice, GroupStore, GroupProduct}, names)
}

func TestBroadRules(t *testing.T) {
	broad := BroadRules()

	assert.Len(t, broad[GroupVolume], 5)
	assert.Len(t, broad[GroupPrice], 3)
	assert.Len(t, broad[GroupProduct], 1)
	assert.Empty(t, broad[GroupWord])
	for _, rules := range broad {
		for _, r := range rules {
			assert.True(t, r.Broad)
		}
	}
}

func TestStoreCategory(t *testing.T) {
	tests := []struct {
		name   string
		want   string
		wantOK bool
	}{
		{"MERCURY DRUG", "pharmacy", true},
		{"SM HYPERMARKET", "hypermarket", true},
		{"7-ELEVEN", "convenience", true},
		{"mercury drug", "", false},
		{"JOLLY FOODS STORE", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := StoreCategory(tt.name)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestProductCategory(t *testing.T) {
	got, ok := ProductCategory("Bear Brand Fortified")
	assert.True(t, ok)
	assert.Equal(t, "baby", got)

	got, ok = ProductCategory("NESTLE MILO 200g")
	assert.True(t, ok)
	assert.Equal(t, "beverages", got)

	_, ok = ProductCategory("WIDGET")
	assert.False(t, ok)
}

func TestStoreGroups_StayOnOneLine(t *testing.T) {
	for _, g := range StoreGroups {
		for _, p := range g.Patterns {
			if m := p.Expr.FindString("SM\nHYPERMARKET"); m != "" {
				assert.NotContains(t, m, "\n", "%s: %s", g.Name, p.Expr)
			}
		}
	}
}
