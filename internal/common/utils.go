package common

// FirstN returns at most the first n items of s. A non-positive n yields an empty slice.
func FirstN[T any](s []T, n int) []T {
	if n <= 0 {
		return s[:0:0]
	}
	if len(s) <= n {
		return s
	}
	return s[:n]
}
