package rules

/*
ApplyConwayRules reports whether a cell is alive in the next generation.

	live, neighbors < 2     -> dead (underpopulation)
	live, neighbors 2 or 3  -> live
	live, neighbors > 3     -> dead (overpopulation)
	dead, neighbors == 3    -> live (reproduction)
*/
func ApplyConwayRules(neighbors int, alive bool) bool {
	switch {
	case neighbors == 3:
		return true
	case neighbors == 2:
		return alive
	default:
		return false
	}
}
