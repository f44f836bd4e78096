package logger

import (
	"strconv"
	"strings"
	"sync/atomic"
)

type ratio struct{ num, den uint64 }

// ratioSampler passes the first num events of every den. A zero ratio passes everything.
type ratioSampler struct {
	r atomic.Pointer[ratio]
	n atomic.Uint64
}

func newRatioSampler(num, den int) *ratioSampler {
	s := &ratioSampler{}
	s.Set(num, den)
	return s
}

// Set replaces the ratio and restarts the window.
func (s *ratioSampler) Set(num, den int) {
	r := &ratio{}
	if num > 0 && den > 0 {
		r.num, r.den = uint64(min(num, den)), uint64(den)
	}
	s.r.Store(r)
	s.n.Store(0)
}

// Allow reports whether the next event passes.
func (s *ratioSampler) Allow() bool {
	r := s.r.Load()
	if r == nil || r.den == 0 {
		return true
	}
	return (s.n.Add(1)-1)%r.den < r.num
}

// parseRatioSpec accepts "num/den" or "N" (meaning 1/N). "0" disables sampling,
// reported as 0/0 with ok set; unparsable specs report ok false.
func parseRatioSpec(spec string) (num, den int, ok bool) {
	spec = strings.TrimSpace(spec)
	if a, b, found := strings.Cut(spec, "/"); found {
		n, err1 := strconv.Atoi(strings.TrimSpace(a))
		d, err2 := strconv.Atoi(strings.TrimSpace(b))
		if err1 != nil || err2 != nil || n < 0 || d < 0 {
			return 0, 0, false
		}
		if n == 0 || d == 0 {
			return 0, 0, true
		}
		return n, d, true
	}
	v, err := strconv.Atoi(spec)
	switch {
	case err != nil:
		return 0, 0, false
	case v <= 0:
		return 0, 0, true
	}
	return 1, v, true
}
