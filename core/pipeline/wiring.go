package pipeline

import (
	"fmt"
	"os"
)

// inherit marks a stage end that keeps the shell's own stream.
const inherit = -1

// wiring names the pipe, by index, each end of a stage connects to.
type wiring struct {
	in  int // pipe whose read end becomes stdin, or inherit
	out int // pipe whose write end becomes stdout, or inherit
}

// stageWiring computes the stdio wiring for stage k of an n-stage pipeline.
// Pipe i carries stage i's stdout to stage i+1's stdin, so only the first
// stage reads the shell's stdin and only the last writes the shell's stdout.
// A single-stage pipeline inherits both ends untouched.
func stageWiring(n, k int) wiring {
	w := wiring{in: inherit, out: inherit}
	if k > 0 {
		w.in = k - 1
	}
	if k < n-1 {
		w.out = k
	}
	return w
}

// pipeSet owns the parent's references to the kernel pipes between stages.
// Every end is closed exactly once in the parent; a second close means the
// descriptor bookkeeping is broken and the run must abort.
type pipeSet struct {
	pairs  []pipePair
	closed bool
}

type pipePair struct {
	r, w *os.File
}

func newPipeSet(count int) (*pipeSet, error) {
	ps := &pipeSet{}
	for i := 0; i < count; i++ {
		r, w, err := os.Pipe()
		if err != nil {
			_ = ps.closeAll()
			return nil, fmt.Errorf("%w: %v", ErrPipe, err)
		}
		ps.pairs = append(ps.pairs, pipePair{r: r, w: w})
	}
	return ps, nil
}

func (ps *pipeSet) readEnd(i int) *os.File  { return ps.pairs[i].r }
func (ps *pipeSet) writeEnd(i int) *os.File { return ps.pairs[i].w }

// closeAll releases every parent-held pipe end. After this only stages still
// running keep any pipe open, which is what lets downstream readers reach
// EOF.
func (ps *pipeSet) closeAll() error {
	if ps.closed {
		return fmt.Errorf("%w: pipe ends closed twice", ErrClose)
	}
	ps.closed = true
	for _, pair := range ps.pairs {
		if err := pair.r.Close(); err != nil {
			return fmt.Errorf("%w: %v", ErrClose, err)
		}
		if err := pair.w.Close(); err != nil {
			return fmt.Errorf("%w: %v", ErrClose, err)
		}
	}
	return nil
}
