package frame

// Rect is one recorded FillRect call.
type Rect struct {
	X, Y, W, H int16
	Filled     bool
}

// Recorder is a Sink that keeps the instruction stream instead of pixels.
type Recorder struct {
	Clears  int
	Flushes int
	Rects   []Rect

	// Err is returned from Flush when set.
	Err error
}

func (r *Recorder) Clear() {
	r.Clears++
	r.Rects = r.Rects[:0]
}

func (r *Recorder) FillRect(x, y, w, h int16, filled bool) {
	r.Rects = append(r.Rects, Rect{X: x, Y: y, W: w, H: h, Filled: filled})
}

func (r *Recorder) Flush() error {
	r.Flushes++
	return r.Err
}

// Outlines counts recorded unfilled rectangles.
func (r *Recorder) Outlines() int {
	n := 0
	for _, rc := range r.Rects {
		if !rc.Filled {
			n++
		}
	}
	return n
}

// Squares counts recorded filled rectangles of the given size.
func (r *Recorder) Squares(size int16) int {
	n := 0
	for _, rc := range r.Rects {
		if rc.Filled && rc.W == size && rc.H == size {
			n++
		}
	}
	return n
}
