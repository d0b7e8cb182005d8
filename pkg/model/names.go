package model

import "strconv"

// UniqueName returns base when it is free, otherwise base_2, base_3 and so on
// until taken reports false.
func UniqueName(base string, taken func(string) bool) string {
	if taken == nil || !taken(base) {
		return base
	}
	for n := 2; ; n++ {
		candidate := base + "_" + strconv.Itoa(n)
		if !taken(candidate) {
			return candidate
		}
	}
}
