package targeting

// Eligible is the launch decision rule: a hard segment match, with a
// returning-visitor override so engaged repeat visitors still receive
// campaigns when the model's send flag is negative.
func Eligible(pred Prediction, campaignSegment, totalVisits int) bool {
	if pred.Segment != campaignSegment {
		return false
	}

	return pred.Send == 1 || totalVisits >= 2
}
