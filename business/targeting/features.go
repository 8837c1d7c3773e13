package targeting

import "smartCampaign/domain"

// Number of behavioural features the campaign model was trained on. The
// order is fixed and must match the training pipeline.
const featureDim = 5

type FeatureVector [featureDim]float64

const (
	featOffersOpened = iota
	featOffersClicked
	featPurchases
	featLastOpenDays
	featTotalVisits
)

// neverSeenRecency signals "no prior activity" to the model. The training
// data encodes unseen users with a large recency so the model biases away
// from sending.
const neverSeenRecency = 999

// Extract maps an activity record to the model's feature vector. A nil
// record stands for a user with no tracked activity and is substituted with
// the never-seen defaults rather than treated as an error.
func Extract(activity *domain.UserActivity) FeatureVector {
	if activity == nil {
		return FeatureVector{
			featOffersOpened:  0,
			featOffersClicked: 0,
			featPurchases:     0,
			featLastOpenDays:  neverSeenRecency,
			featTotalVisits:   1,
		}
	}

	return FeatureVector{
		featOffersOpened:  float64(activity.OffersOpened),
		featOffersClicked: float64(activity.OffersClicked),
		featPurchases:     float64(activity.Purchases),
		featLastOpenDays:  float64(activity.LastOpenDays),
		featTotalVisits:   float64(activity.TotalVisits),
	}
}
