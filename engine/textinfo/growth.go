package textinfo

// Allocation policy thresholds.
const (
	powerOfTwoLimit = 1024
	linearStep      = 256
	maxSlack        = 256
)

// Capacity returns the allocation size for n elements: the next power of
// two up to 1024, above that the next multiple of 256.
func Capacity(n int) int {
	if n <= 0 {
		return 0
	}
	c := 1
	for c < n {
		if c < powerOfTwoLimit {
			c <<= 1
		} else {
			c += linearStep
		}
	}
	return c
}

// Reserve makes buf hold at least n elements, growing by the allocation
// policy. If shrink is set, buffers with more than 256 elements of slack
// are reallocated to the policy size. Contents up to n are preserved.
func Reserve[T any](buf []T, n int, shrink bool) []T {
	switch {
	case n > len(buf):
		b := make([]T, Capacity(n))
		copy(b, buf)
		return b
	case shrink && len(buf)-n > maxSlack:
		b := make([]T, Capacity(n))
		copy(b, buf[:n])
		return b
	}
	return buf
}
