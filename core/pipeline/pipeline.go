// Package pipeline runs a list of commands as child processes connected
// stdout to stdin by kernel pipes and reports the last command's exit status.
package pipeline

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/exec"
	"syscall"
)

// Stage is one command of a pipeline: the program name followed by its
// arguments.
type Stage []string

// Pipeline is an ordered list of stages. Stage i's stdout feeds stage i+1's
// stdin.
type Pipeline []Stage

// Stdio holds the streams the endpoints of a pipeline inherit from the
// shell: the first stage's stdin, the last stage's stdout, and everyone's
// stderr.
type Stdio struct {
	In  io.Reader
	Out io.Writer
	Err io.Writer
}

// ExecFailStatus is the status of a stage whose program never ran, matching
// the convention used by sh for a missing command.
const ExecFailStatus = 127

// ErrEmptyStage reports a pipeline carrying a stage with no arguments, such
// as the ones "| cmd", "cmd |" and "a || b" produce.
var ErrEmptyStage = errors.New("empty command in pipeline")

// Fatal primitive failures. Anything wrapped in one of these means the host
// is out of resources or the descriptor bookkeeping is broken; the shell
// must not keep running.
var (
	ErrPipe  = errors.New("Pipe Error")
	ErrFork  = errors.New("Fork Error")
	ErrClose = errors.New("Close Error")
	ErrWait  = errors.New("Wait Error")
)

// Validate rejects pipelines the executor refuses to spawn. It is also used
// by the tokens debug command.
func Validate(p Pipeline) error {
	for _, stage := range p {
		if len(stage) == 0 {
			return ErrEmptyStage
		}
	}
	return nil
}

// Run executes the pipeline and returns the exit status of the last stage.
//
// Per-pipeline failures (empty stage, program not found) are reported on
// stdio.Err and folded into the status; the returned error is non-nil only
// for fatal primitive failures. In every case all children that were started
// have been reaped and all parent-held pipe ends closed by the time Run
// returns.
func Run(p Pipeline, stdio Stdio) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	if err := Validate(p); err != nil {
		fmt.Fprintf(stdio.Err, "jsh error: %v\n", err)
		return ExecFailStatus, nil
	}

	n := len(p)

	// Every pipe exists before anything is spawned so stage wiring never
	// depends on spawn order.
	pipes, err := newPipeSet(n - 1)
	if err != nil {
		return 0, err
	}

	cmds := make([]*exec.Cmd, n)
	started := make([]bool, n)
	for k, stage := range p {
		cmd := exec.Command(stage[0], stage[1:]...)
		w := stageWiring(n, k)
		if w.in == inherit {
			cmd.Stdin = stdio.In
		} else {
			cmd.Stdin = pipes.readEnd(w.in)
		}
		if w.out == inherit {
			cmd.Stdout = stdio.Out
		} else {
			cmd.Stdout = pipes.writeEnd(w.out)
		}
		cmd.Stderr = stdio.Err
		cmds[k] = cmd

		if err := cmd.Start(); err != nil {
			if !recoverableStartError(err) {
				// The spawn primitive itself failed. Close the pipes so the
				// children already running see EOF, then reap them.
				_ = pipes.closeAll()
				reapStarted(cmds, started)
				return 0, fmt.Errorf("%w: %v", ErrFork, err)
			}
			// The moral equivalent of exec failing in the child: report it
			// and let the rest of the pipeline run against EOF.
			fmt.Fprintf(stdio.Err, "jsh error: Command not found: %s\n", stage[0])
			continue
		}
		started[k] = true
	}

	// Parent descriptor hygiene. The children hold their own duplicates;
	// without this close the terminal stage never observes EOF.
	if err := pipes.closeAll(); err != nil {
		reapStarted(cmds, started)
		return 0, err
	}

	// Reap everything, keeping only the last stage's status.
	status := ExecFailStatus
	for k := 0; k < n; k++ {
		if !started[k] {
			continue
		}
		err := cmds[k].Wait()
		var exitErr *exec.ExitError
		if err != nil && !errors.As(err, &exitErr) {
			return 0, fmt.Errorf("%w: %v", ErrWait, err)
		}
		if k == n-1 {
			status = waitStatus(cmds[k].ProcessState)
		}
	}
	return status, nil
}

// recoverableStartError reports whether a Start failure is the moral
// equivalent of exec failing in the child (missing or unrunnable program)
// rather than the spawn primitive itself failing.
func recoverableStartError(err error) bool {
	return errors.Is(err, exec.ErrNotFound) ||
		errors.Is(err, fs.ErrNotExist) ||
		errors.Is(err, fs.ErrPermission)
}

// waitStatus maps a reaped child to the shell's notion of its exit status:
// the low 8 bits on a normal exit, 128+signal for a signal death.
func waitStatus(state *os.ProcessState) int {
	if ws, ok := state.Sys().(syscall.WaitStatus); ok {
		if ws.Signaled() {
			return 128 + int(ws.Signal())
		}
		return ws.ExitStatus()
	}
	return state.ExitCode()
}

// reapStarted waits on every child that made it past Start so the fatal
// error paths leave no zombies behind.
func reapStarted(cmds []*exec.Cmd, started []bool) {
	for k, cmd := range cmds {
		if started[k] {
			_ = cmd.Wait()
		}
	}
}
