package vendors

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keystonenotary/dispatch-backend/pkg/db/models"
	"github.com/keystonenotary/dispatch-backend/pkg/enums"
)

func paOrder() *models.SigningOrder {
	return &models.SigningOrder{PropertyState: "PA"}
}

func vendor(state string, status enums.VendorStatus, score int, fundingRate float64) models.Vendor {
	return models.Vendor{
		ID:                     uuid.New(),
		Name:                   "Vendor " + uuid.NewString()[:4],
		PrimaryCommissionState: state,
		Status:                 status,
		EliteScore:             score,
		FirstPassFundingRate:   fundingRate,
	}
}

func TestRankCandidatesFiltersEligibility(t *testing.T) {
	snapshot := []models.Vendor{
		vendor("PA", enums.VendorStatusActive, 80, 90),
		vendor("PA", enums.VendorStatusSuspended, 99, 99),
		vendor("PA", enums.VendorStatusPending, 99, 99),
		vendor("NJ", enums.VendorStatusActive, 99, 99),
	}

	ranked := RankCandidates(paOrder(), snapshot)

	require.Len(t, ranked, 1)
	assert.Equal(t, 80, ranked[0].EliteScore)
}

func TestRankCandidatesOrdering(t *testing.T) {
	low := vendor("PA", enums.VendorStatusActive, 70, 95)
	high := vendor("PA", enums.VendorStatusActive, 92, 50)
	midBetterFunding := vendor("PA", enums.VendorStatusActive, 85, 88)
	midWorseFunding := vendor("PA", enums.VendorStatusActive, 85, 70)

	ranked := RankCandidates(paOrder(), []models.Vendor{low, midWorseFunding, high, midBetterFunding})

	require.Len(t, ranked, 4)
	assert.Equal(t, high.ID, ranked[0].ID)
	assert.Equal(t, midBetterFunding.ID, ranked[1].ID)
	assert.Equal(t, midWorseFunding.ID, ranked[2].ID)
	assert.Equal(t, low.ID, ranked[3].ID)
}

func TestRankCandidatesFullTieBreaksOnID(t *testing.T) {
	a := vendor("PA", enums.VendorStatusActive, 85, 88)
	b := vendor("PA", enums.VendorStatusActive, 85, 88)

	first := RankCandidates(paOrder(), []models.Vendor{a, b})
	second := RankCandidates(paOrder(), []models.Vendor{b, a})

	require.Len(t, first, 2)
	assert.Equal(t, first[0].ID, second[0].ID)
	assert.True(t, first[0].ID.String() < first[1].ID.String())
}

func TestRankCandidatesEmptyIsValid(t *testing.T) {
	ranked := RankCandidates(paOrder(), nil)
	assert.Empty(t, ranked)

	ranked = RankCandidates(paOrder(), []models.Vendor{vendor("NY", enums.VendorStatusActive, 90, 90)})
	assert.Empty(t, ranked)
}

func TestRankCandidatesNormalizesState(t *testing.T) {
	order := &models.SigningOrder{PropertyState: "pa"}
	snapshot := []models.Vendor{vendor(" PA ", enums.VendorStatusActive, 75, 80)}

	ranked := RankCandidates(order, snapshot)
	assert.Len(t, ranked, 1)
}

func TestTierForScoreBoundaries(t *testing.T) {
	assert.Equal(t, enums.VendorTierElite, enums.TierForScore(90))
	assert.Equal(t, enums.VendorTierGold, enums.TierForScore(89))
	assert.Equal(t, enums.VendorTierGold, enums.TierForScore(80))
	assert.Equal(t, enums.VendorTierSilver, enums.TierForScore(79))
	assert.Equal(t, enums.VendorTierSilver, enums.TierForScore(70))
	assert.Equal(t, enums.VendorTierBronze, enums.TierForScore(69))
	assert.Equal(t, enums.VendorTierBronze, enums.TierForScore(0))
}
