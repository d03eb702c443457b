package status

// SlidingRate estimates throughput over the last N finished edges.
type SlidingRate struct {
	rate       float64
	lastUpdate int
	size       int
	times      []int64
}

// NewSlidingRate returns an estimator averaging over a window of n samples.
// The window is normally the build's parallelism.
func NewSlidingRate(n int) *SlidingRate {
	if n < 1 {
		n = 1
	}
	return &SlidingRate{rate: -1, lastUpdate: -1, size: n, times: make([]int64, 0, n)}
}

// Rate returns edges per second, or -1 while no estimate exists.
func (r *SlidingRate) Rate() float64 {
	return r.rate
}

// UpdateRate records a sample at timeMillis. Repeated calls with the same
// hint (the finished-edge count) are ignored so that formatting a status
// line twice does not skew the window.
func (r *SlidingRate) UpdateRate(hint int, timeMillis int64) {
	if hint == r.lastUpdate {
		return
	}
	r.lastUpdate = hint

	if len(r.times) == r.size {
		copy(r.times, r.times[1:])
		r.times = r.times[:len(r.times)-1]
	}
	r.times = append(r.times, timeMillis)
	first, last := r.times[0], r.times[len(r.times)-1]
	if last != first {
		r.rate = float64(len(r.times)) / (float64(last-first) / 1e3)
	}
}
