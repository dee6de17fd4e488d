package matching

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foxxcyber/receipt-rewards/internal/models"
)

func storeCatalog() []models.Store {
	return []models.Store{
		{ID: 1, Name: "Mercury Drug", NormalizedName: "mercury drug", Keywords: []string{"mercury", "drug", "pharmacy"}, Status: models.EntityStatusActive},
		{ID: 2, Name: "SM Hypermarket", NormalizedName: "sm hypermarket", Keywords: []string{"sm", "hypermarket"}, Status: models.EntityStatusActive},
		{ID: 3, Name: "Puregold", NormalizedName: "puregold", Keywords: []string{"puregold"}, Status: models.EntityStatusActive},
	}
}

func productCatalog() []models.Product {
	return []models.Product{
		{ID: 10, Name: "Bear Brand Fortified 2400g", NormalizedName: "bear brand fortified 2400g", Keywords: []string{"bear brand", "fortified", "milk"}, Points: 20},
		{ID: 11, Name: "Nescafe Gold 2g", NormalizedName: "nescafe gold 2g", Keywords: []string{"nescafe", "coffee"}, Points: 2},
		{ID: 12, Name: "Nido 3+ Pre-School 2.4kg", NormalizedName: "nido 3 preschool 24kg", Keywords: []string{"nido", "milk"}, Points: 30},
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		score float64
		want  Tier
	}{
		{0, TierExcellent},
		{0.10, TierExcellent},
		{0.15, TierGood},
		{0.20, TierGood},
		{0.30, TierFair},
		{0.40, TierPoor},
		{0.41, TierLow},
		{1, TierLow},
	}

	for _, tt := range tests {
		got := Classify(tt.score)
		assert.Equal(t, tt.want, got, "score %.2f", tt.score)
	}

	assert.False(t, Classify(0.41).Accepted())
	assert.True(t, Classify(0.40).Accepted())
	assert.True(t, TierGood.AutoAccept())
	assert.False(t, TierFair.AutoAccept())
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		fn   func(string) string
		in   string
		want string
	}{
		{"store branch collapses", NormalizeStoreName, "Mercury Drug - Lucban Branch", "mercury drug"},
		{"store punctuation and spacing", NormalizeStoreName, "  SM   Hypermarket!! ", "sm hypermarket"},
		{"store accents fold", NormalizeStoreName, "Señor Store", "senor store"},
		{"product decimals drop", NormalizeProductName, "NIDO 2.4kg", "nido 24kg"},
		{"product shorthand expands", NormalizeProductName, "BBRAND MLK 1.2kg", "bear brand milk 12kg"},
		{"symbols only", NormalizeProductName, "@@ --", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.fn(tt.in))
		})
	}
}

func TestStoreResolver_Resolve(t *testing.T) {
	r := StoreResolver()
	catalog := storeCatalog()

	t.Run("branch name resolves to chain", func(t *testing.T) {
		m := r.Resolve("MERCURY DRUG LUCBAN", catalog)
		require.NotNil(t, m)
		assert.Equal(t, 1, m.Entity.ID)
		assert.Zero(t, m.Score)
		assert.Equal(t, TierExcellent, m.Tier)
	})

	t.Run("single character misread", func(t *testing.T) {
		m := r.Resolve("PUREG0LD", catalog)
		require.NotNil(t, m)
		assert.Equal(t, 3, m.Entity.ID)
		assert.True(t, m.Tier.AutoAccept())
	})

	t.Run("partial name lands in poor tier", func(t *testing.T) {
		m := r.Resolve("mercury", catalog)
		require.NotNil(t, m)
		assert.Equal(t, 1, m.Entity.ID)
		assert.InDelta(t, 0.375, m.Score, 0.001)
		assert.Equal(t, TierPoor, m.Tier)
	})

	t.Run("unrelated store is no match", func(t *testing.T) {
		assert.Nil(t, r.Resolve("JOLLY FOODS STORE", catalog))
	})

	t.Run("empty catalog", func(t *testing.T) {
		assert.Nil(t, r.Resolve("MERCURY DRUG", nil))
	})

	t.Run("candidate without letters or digits", func(t *testing.T) {
		assert.Nil(t, r.Resolve("***", catalog))
	})
}

func TestResolver_Deterministic(t *testing.T) {
	r := ProductResolver()
	catalog := productCatalog()

	first := r.Resolve("BEAR BRAND FORT2400g", catalog)
	second := r.Resolve("BEAR BRAND FORT2400g", catalog)

	require.NotNil(t, first)
	require.NotNil(t, second)
	assert.Equal(t, first.Entity.ID, second.Entity.ID)
	assert.Equal(t, first.Score, second.Score)
	assert.Equal(t, 10, first.Entity.ID)
	assert.InDelta(t, 0.241, first.Score, 0.001)
	assert.Equal(t, TierFair, first.Tier)
}

func TestResolver_TiesKeepCatalogOrder(t *testing.T) {
	r := StoreResolver()
	catalog := []models.Store{
		{ID: 7, Name: "Savemore", NormalizedName: "savemore"},
		{ID: 8, Name: "Savemore", NormalizedName: "savemore"},
	}

	m := r.Resolve("SAVEMORE", catalog)
	require.NotNil(t, m)
	assert.Equal(t, 7, m.Entity.ID)

	ranked := r.Suggest("SAVEMORE", catalog, 0)
	require.Len(t, ranked, 2)
	assert.Equal(t, []int{7, 8}, []int{ranked[0].Entity.ID, ranked[1].Entity.ID})
}

func TestResolver_FallbackOnSearchError(t *testing.T) {
	r := StoreResolver()
	candidate := strings.Repeat("x", MaxCandidateLength) + " mercury"

	_, err := r.Search(candidate, storeCatalog())
	require.ErrorIs(t, err, ErrCandidateTooLong)

	m := r.Resolve(candidate, storeCatalog())
	require.NotNil(t, m)
	assert.True(t, m.Fallback)
	assert.Equal(t, 1, m.Entity.ID)
	assert.Equal(t, FallbackScore, m.Score)
	assert.Equal(t, TierLow, m.Tier)
	assert.False(t, m.Tier.Accepted())
}

func TestResolver_FallbackIgnoresShortWords(t *testing.T) {
	r := StoreResolver()

	assert.Nil(t, r.Fallback("sm", storeCatalog()))
	m := r.Fallback("hypermarket branch", storeCatalog())
	require.NotNil(t, m)
	assert.Equal(t, 2, m.Entity.ID)
}

func TestResolver_Suggest(t *testing.T) {
	r := StoreResolver()

	got := r.Suggest("mercury", storeCatalog(), 2)
	require.Len(t, got, 2)
	assert.Equal(t, 1, got[0].Entity.ID)
	assert.LessOrEqual(t, got[0].Score, got[1].Score)

	assert.Empty(t, r.Suggest("", storeCatalog(), 5))
}

func TestResolver_NearNamesDoNotTie(t *testing.T) {
	t.Run("stores", func(t *testing.T) {
		catalog := []models.Store{
			{ID: 1, Name: "SM Hypermarket", NormalizedName: "sm hypermarket"},
			{ID: 2, Name: "SM Supermarket", NormalizedName: "sm supermarket"},
		}

		m := StoreResolver().Resolve("SM SUPERMARKET", catalog)
		require.NotNil(t, m)
		assert.Equal(t, 2, m.Entity.ID)
		assert.Zero(t, m.Score)

		ranked := StoreResolver().Suggest("SM SUPERMARKET", catalog, 0)
		require.Len(t, ranked, 2)
		assert.Equal(t, 1, ranked[1].Entity.ID)
		assert.Greater(t, ranked[1].Score, 0.0)
	})

	t.Run("near miss alone is not perfect", func(t *testing.T) {
		m := StoreResolver().Resolve("SM SUPERMARKET", storeCatalog())
		require.NotNil(t, m)
		assert.Equal(t, 2, m.Entity.ID)
		assert.Greater(t, m.Score, 0.0)
	})

	t.Run("product sizes", func(t *testing.T) {
		catalog := []models.Product{
			{ID: 1, Name: "Coca-Cola 1000ml", NormalizedName: "cocacola 1000ml"},
			{ID: 2, Name: "Coca-Cola 1500ml", NormalizedName: "cocacola 1500ml"},
		}

		m := ProductResolver().Resolve("COCA-COLA 1500ML", catalog)
		require.NotNil(t, m)
		assert.Equal(t, 2, m.Entity.ID)
		assert.Zero(t, m.Score)

		other := ProductResolver().Suggest("COCA-COLA 1500ML", catalog, 0)
		require.Len(t, other, 2)
		assert.Greater(t, other[1].Score, 0.0)
	})
}
