package utils

// UniqueStrings removes duplicate values from a slice of strings, keeping first occurrence order.
func UniqueStrings(slice []string) []string {
	keys := make(map[string]bool)
	list := []string{}
	for _, entry := range slice {
		if _, value := keys[entry]; !value {
			keys[entry] = true
			list = append(list, entry)
		}
	}
	return list
}

// ContainsString reports whether s is present in slice.
func ContainsString(slice []string, s string) bool {
	for _, entry := range slice {
		if entry == s {
			return true
		}
	}
	return false
}
