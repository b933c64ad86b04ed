package structural

// MatchSiblings pairs two ordered sibling sets by identity key. It is O(n)
// in list size: a hash map indexes the new side by (name, kind, signature),
// and each old entry claims the first unclaimed new entry with its key.
//
// When duplicate keys exist (overloads whose signature text did not
// change), first-available-wins in source order. That resolution is
// order-dependent and not guaranteed optimal; downstream consumers depend
// on the current ordering, so it is preserved as-is.
//
// Unnamed nodes never match by identity and always surface as a
// removal/addition pair.
func MatchSiblings(old, new []NodeInfo) MatchResult {
	byKey := make(map[identityKey][]int, len(new))
	for i, info := range new {
		if info.Name == "" {
			continue
		}
		k := info.key()
		byKey[k] = append(byKey[k], i)
	}

	claimed := make([]bool, len(new))
	var result MatchResult

	for _, oldInfo := range old {
		matched := false
		if oldInfo.Name != "" {
			for _, idx := range byKey[oldInfo.key()] {
				if claimed[idx] {
					continue
				}
				claimed[idx] = true
				result.Matched = append(result.Matched, MatchedPair{Old: oldInfo, New: new[idx]})
				matched = true
				break
			}
		}
		if !matched {
			result.UnmatchedOld = append(result.UnmatchedOld, oldInfo)
		}
	}

	for i, newInfo := range new {
		if !claimed[i] {
			result.UnmatchedNew = append(result.UnmatchedNew, newInfo)
		}
	}

	return result
}
