package feedclient

// AutoplayThreshold is the viewport-visible fraction a clip must exceed
// to start playing.
const AutoplayThreshold = 0.6

// ChooseAutoplay picks the single clip to play given each item's
// visible fraction. At most one id is returned; ok=false means pause
// everything. Ties on fraction resolve to the higher id so the choice
// is deterministic.
func ChooseAutoplay(visible map[int64]float64) (int64, bool) {
	var (
		bestID   int64
		bestFrac float64
		found    bool
	)
	for id, frac := range visible {
		if frac <= AutoplayThreshold {
			continue
		}
		if !found || frac > bestFrac || (frac == bestFrac && id > bestID) {
			found = true
			bestID = id
			bestFrac = frac
		}
	}
	return bestID, found
}
