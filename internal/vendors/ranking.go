package vendors

import (
	"sort"
	"strings"

	"github.com/keystonenotary/dispatch-backend/pkg/db/models"
	"github.com/keystonenotary/dispatch-backend/pkg/enums"
)

// RankCandidates filters and orders a vendor snapshot for an order. Pure:
// it never touches storage, so it can run on any consistent snapshot without
// blocking concurrent assignment on other orders.
//
// Eligibility: active vendors commissioned in the order's property state.
// Ranking: elite score descending, first-pass funding rate descending, then
// vendor id ascending so the result is total and reproducible. An empty
// result is a valid outcome, not an error.
func RankCandidates(order *models.SigningOrder, snapshot []models.Vendor) []models.Vendor {
	if order == nil {
		return nil
	}

	state := strings.ToUpper(strings.TrimSpace(order.PropertyState))
	candidates := make([]models.Vendor, 0, len(snapshot))
	for _, vendor := range snapshot {
		if vendor.Status != enums.VendorStatusActive {
			continue
		}
		if strings.ToUpper(strings.TrimSpace(vendor.PrimaryCommissionState)) != state {
			continue
		}
		candidates = append(candidates, vendor)
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if a.EliteScore != b.EliteScore {
			return a.EliteScore > b.EliteScore
		}
		if a.FirstPassFundingRate != b.FirstPassFundingRate {
			return a.FirstPassFundingRate > b.FirstPassFundingRate
		}
		return a.ID.String() < b.ID.String()
	})

	return candidates
}
