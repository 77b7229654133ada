package league

// DefaultOf returns the league flagged as default, else the first one.
func DefaultOf(leagues []League) (League, bool) {
	if len(leagues) == 0 {
		return League{}, false
	}
	for _, l := range leagues {
		if l.IsDefault {
			return l, true
		}
	}
	return leagues[0], true
}
