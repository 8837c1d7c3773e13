package targeting

import (
	"context"
	"fmt"
)

// numSegments matches the fixed segment enumeration the model predicts
// (Engaged, Frequent Visitor, Loyal, New).
const numSegments = 4

// Prediction is the model output for one feature vector: a binary send
// propensity flag and the predicted behavioural segment.
type Prediction struct {
	Send    int `json:"send"`
	Segment int `json:"segment"`
}

// Classifier is the contract for the externally trained campaign model. The
// engine never looks inside it; tests inject a deterministic stub.
type Classifier interface {
	Predict(ctx context.Context, features FeatureVector) (Prediction, error)
}

// ValidatePrediction rejects model output outside the trained label space.
// A malformed prediction is handled like an unreachable classifier: the
// affected user is skipped, the launch continues.
func ValidatePrediction(p Prediction) error {
	if p.Send != 0 && p.Send != 1 {
		return fmt.Errorf("malformed prediction: send flag %d not in {0,1}", p.Send)
	}

	if p.Segment < 0 || p.Segment >= numSegments {
		return fmt.Errorf("malformed prediction: segment %d out of range [0,%d)", p.Segment, numSegments)
	}

	return nil
}
