package shell

import (
	"strings"

	"josephlewis.net/jsh/core/pipeline"
)

// Parse tokenises one line of input into a pipeline.
//
// The grammar is deliberately tiny: an argument is a maximal run of bytes
// that are neither a space (0x20) nor '|', and stages are separated by '|'.
// Tabs are ordinary argument bytes, there are no quotes and no escapes, so
// parsing never fails: degenerate input produces either an empty pipeline or
// an empty stage for the executor to reject.
func Parse(line string) pipeline.Pipeline {
	line = strings.TrimSuffix(line, "\n")

	segments := strings.Split(line, "|")
	p := make(pipeline.Pipeline, 0, len(segments))
	for _, segment := range segments {
		p = append(p, splitArgs(segment))
	}

	// A lone stage with no arguments is a blank line: nothing to do.
	if len(p) == 1 && len(p[0]) == 0 {
		return nil
	}
	return p
}

// Join renders a pipeline back into canonical form: arguments separated by
// single spaces, stages separated by " | ". Parse(Join(p)) reproduces p for
// any pipeline without empty stages.
func Join(p pipeline.Pipeline) string {
	stages := make([]string, 0, len(p))
	for _, stage := range p {
		stages = append(stages, strings.Join(stage, " "))
	}
	return strings.Join(stages, " | ")
}

func splitArgs(segment string) pipeline.Stage {
	var stage pipeline.Stage
	for _, field := range strings.Split(segment, " ") {
		if field != "" {
			stage = append(stage, field)
		}
	}
	return stage
}
