package adenv

const (
	// SpendThreshold is the ad spend above which a selected keyword scores +1
	SpendThreshold = 5000.0
	// CTRThreshold is the paid CTR above which an unselected keyword scores +1
	CTRThreshold = 0.15
)

// Reward scores an action against the block it was taken on.
// idx == len(block) means no keyword was selected and scores 0. Otherwise every
// position contributes +1 or -1: the selected position on ad spend, every other
// position on paid CTR.
func Reward(action OneHot, block Block, idx int) float64 {
	if idx == len(block) {
		return 0
	}
	reward := 0.0
	for i, record := range block {
		if action[i] {
			if record.AdSpend > SpendThreshold {
				reward += 1
			} else {
				reward -= 1
			}
			continue
		}
		if record.PaidCTR > CTRThreshold {
			reward += 1
		} else {
			reward -= 1
		}
	}
	return reward
}
