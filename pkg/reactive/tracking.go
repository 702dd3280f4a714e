package reactive

import (
	"runtime"
	"sync"
)

// trackingStack holds the evaluation frames of one goroutine.
// A nil frame means "reading, but not tracking".
type trackingStack struct {
	frames []Subscriber
}

// stacks stores per-goroutine tracking stacks.
var stacks sync.Map

// goroutineID returns a unique identifier for the current goroutine,
// parsed from the header of runtime.Stack ("goroutine <id> ...").
func goroutineID() uint64 {
	var buf [64]byte
	n := runtime.Stack(buf[:], false)

	var id uint64
	for i := len("goroutine "); i < n; i++ {
		if buf[i] == ' ' {
			break
		}
		id = id*10 + uint64(buf[i]-'0')
	}
	return id
}

func push(s Subscriber) uint64 {
	gid := goroutineID()
	st, _ := stacks.LoadOrStore(gid, &trackingStack{})
	ts := st.(*trackingStack)
	ts.frames = append(ts.frames, s)
	return gid
}

func pop(gid uint64) {
	st, ok := stacks.Load(gid)
	if !ok {
		return
	}
	ts := st.(*trackingStack)
	ts.frames = ts.frames[:len(ts.frames)-1]
	if len(ts.frames) == 0 {
		stacks.Delete(gid)
	}
}

// Active returns the subscriber on top of the calling goroutine's stack,
// or nil when nothing is being tracked.
func Active() Subscriber {
	st, ok := stacks.Load(goroutineID())
	if !ok {
		return nil
	}
	ts := st.(*trackingStack)
	if len(ts.frames) == 0 {
		return nil
	}
	return ts.frames[len(ts.frames)-1]
}

// Depth returns how many frames are on the calling goroutine's stack.
func Depth() int {
	st, ok := stacks.Load(goroutineID())
	if !ok {
		return 0
	}
	return len(st.(*trackingStack).frames)
}

// Track runs fn with s as the active subscriber. Every cell read inside fn
// registers s, unless a nested Track or Untracked frame shadows it.
// The frame is popped even if fn panics.
func Track(s Subscriber, fn func()) {
	gid := push(s)
	defer pop(gid)
	fn()
}

// Untracked runs fn with no active subscriber.
func Untracked(fn func()) {
	Track(nil, fn)
}
