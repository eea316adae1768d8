package shell

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pborman/getopt/v2"
)

// AllBuiltins holds a list of all registered shell builtins.
var AllBuiltins = make(map[string]ShellBuiltin)

type ShellBuiltin interface {
	Main(s *Shell, args []string) int
}

type ShellBuiltinFunc func(s *Shell, args []string) int

func (f ShellBuiltinFunc) Main(s *Shell, args []string) int {
	return f(s, args)
}

var _ ShellBuiltin = (ShellBuiltinFunc)(nil)

// Exit quits the shell.
func Exit(s *Shell, args []string) int {
	s.Quit = true
	return 0
}

// Help lists the commands the shell implements itself.
func Help(s *Shell, args []string) int {
	opts := getopt.New()
	helpOpt := opts.BoolLong("help", 'h', "show help and exit")

	w := s.stdout
	if err := opts.Getopt(args, nil); err != nil || *helpOpt {
		fmt.Fprintln(w, "usage: help")
		fmt.Fprintln(w, "List the commands the shell itself implements.")
		return 0
	}

	var builtins []string
	for k := range AllBuiltins {
		builtins = append(builtins, k)
	}
	sort.Strings(builtins)

	fmt.Fprintln(w, "jsh, a pipeline shell")
	fmt.Fprintln(w, "Anything not listed below runs as a program; connect programs with '|'.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Builtins:")
	fmt.Fprintln(w, strings.Join(builtins, "\n"))
	return 0
}

func init() {
	AllBuiltins["exit"] = ShellBuiltinFunc(Exit)
	AllBuiltins["help"] = ShellBuiltinFunc(Help)
}
