package audits

// Reconcile classifies a session's entries against the assets it expected.
//
// missing is expected minus scanned and extra is scanned minus expected, both
// by asset identity. moved is independent of the other two: every entry whose
// found location differs from the asset's recorded location. Output order
// follows the input order.
func Reconcile(expected []AssetRef, entries []Entry) Variance {
	v := Variance{
		Missing:  make([]AssetRef, 0),
		Extra:    make([]AssetRef, 0),
		Moved:    make([]Entry, 0),
		Expected: len(expected),
	}

	expectedIDs := make(map[int64]struct{}, len(expected))
	for _, a := range expected {
		expectedIDs[a.ID] = struct{}{}
	}

	scannedIDs := make(map[int64]struct{}, len(entries))
	for _, e := range entries {
		if _, dup := scannedIDs[e.Asset.ID]; dup {
			continue
		}
		scannedIDs[e.Asset.ID] = struct{}{}

		if _, ok := expectedIDs[e.Asset.ID]; !ok {
			v.Extra = append(v.Extra, e.Asset)
		}
		if isMoved(e) {
			v.Moved = append(v.Moved, e)
		}
	}
	v.Scanned = len(scannedIDs)

	for _, a := range expected {
		if _, ok := scannedIDs[a.ID]; !ok {
			v.Missing = append(v.Missing, a)
		}
	}
	return v
}

// An entry without a found location carries no movement signal.
func isMoved(e Entry) bool {
	if e.FoundLocationID == nil {
		return false
	}
	return e.Asset.LocationID == nil || *e.Asset.LocationID != *e.FoundLocationID
}
