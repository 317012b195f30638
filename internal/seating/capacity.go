package seating

// capacityTiers are the table sizes a party is rounded up to.
var capacityTiers = []int{2, 4, 6, 8, 10}

// NormalizeCapacity rounds a party size up to the next seating tier.
// Parties larger than the biggest tier keep their size.
func NormalizeCapacity(partySize int) int {
	for _, tier := range capacityTiers {
		if partySize <= tier {
			return tier
		}
	}
	return partySize
}
