// Package shell implements the interactive jsh loop: prompt, tokenise,
// dispatch builtins or run the pipeline, report the status.
package shell

import (
	"fmt"
	"io"
	"log"

	"github.com/abiosoft/readline"
	"github.com/mattn/go-isatty"
	"josephlewis.net/jsh/core/pipeline"
)

// Prompt is written before every line of input.
const Prompt = "jsh$ "

type Shell struct {
	Readline *readline.Instance

	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer

	lastRet int

	// Set to true to quit the shell.
	Quit bool
}

// NewShell builds a shell that reads from stdin and reports on stdout and
// stderr.
func NewShell(stdin io.Reader, stdout, stderr io.Writer) (*Shell, error) {
	cfg := &readline.Config{
		Prompt: Prompt,
		Stdin:  readline.NewCancelableStdin(stdin),
		Stdout: stdout,
		Stderr: stderr,
		FuncIsTerminal: func() bool {
			fd, ok := stdin.(interface{ Fd() uintptr })
			return ok && isatty.IsTerminal(fd.Fd())
		},
	}
	if err := cfg.Init(); err != nil {
		return nil, err
	}

	rl, err := readline.NewEx(cfg)
	if err != nil {
		return nil, err
	}

	return &Shell{
		Readline: rl,
		stdin:    stdin,
		stdout:   stdout,
		stderr:   stderr,
	}, nil
}

// LastStatus returns the status of the most recent pipeline or builtin.
func (s *Shell) LastStatus() int {
	return s.lastRet
}

// RunInteractive prompts and dispatches until exit or end of input. The
// return value is the shell's process exit code.
func (s *Shell) RunInteractive() int {
	for !s.Quit {
		line, err := s.Readline.Readline()
		switch {
		case err == io.EOF:
			return 0 // Input closed, quit cleanly.

		case err == readline.ErrInterrupt:
			// Interrupt clears line.
			continue

		case err != nil:
			log.Printf("Error readline: %v", err)
			return 1

		case len(line) == 0:
			continue // empty line

		default:
			if err := s.RunCommand(line); err != nil {
				fmt.Fprintf(s.stderr, "jsh error: %v\n", err)
				return 1
			}
		}
	}
	return 0
}

// RunCommand tokenises and dispatches a single line. A non-nil error is
// fatal to the shell; per-pipeline failures are reported on stderr and in
// the status line instead.
func (s *Shell) RunCommand(line string) error {
	p := Parse(line)
	if len(p) == 0 {
		return nil
	}

	// exit matches on the first word of the first stage alone; anything
	// after it, including later stages, is ignored.
	if first := p[0]; len(first) > 0 && first[0] == "exit" {
		s.lastRet = AllBuiltins["exit"].Main(s, first)
		return nil
	}

	// Other builtins only run as a whole single-stage pipeline; inside a
	// pipe they fall through to exec like any program.
	if len(p) == 1 {
		if builtin, ok := AllBuiltins[p[0][0]]; ok {
			s.lastRet = builtin.Main(s, p[0])
			return nil
		}
	}

	status, err := pipeline.Run(p, pipeline.Stdio{In: s.stdin, Out: s.stdout, Err: s.stderr})
	if err != nil {
		return err
	}
	s.lastRet = status
	fmt.Fprintf(s.stdout, "jsh status: %d\n", status)
	return nil
}
