package shell

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"josephlewis.net/jsh/core/pipeline"
)

func TestParse(t *testing.T) {
	cases := []struct {
		name     string
		line     string
		expected pipeline.Pipeline
	}{
		{"blank", "", nil},
		{"spaces only", "   ", nil},
		{"newline only", "\n", nil},
		{"single word", "ls\n", pipeline.Pipeline{{"ls"}}},
		{"arguments", "echo hello world", pipeline.Pipeline{{"echo", "hello", "world"}}},
		{"surplus spaces", "  echo   hello  ", pipeline.Pipeline{{"echo", "hello"}}},
		{"tab stays inside an argument", "echo a\tb", pipeline.Pipeline{{"echo", "a\tb"}}},
		{"two stages", "echo hello | cat", pipeline.Pipeline{{"echo", "hello"}, {"cat"}}},
		{"tight pipe", "a|b", pipeline.Pipeline{{"a"}, {"b"}}},
		{"three stages", "a 1 | b 2 | c 3", pipeline.Pipeline{{"a", "1"}, {"b", "2"}, {"c", "3"}}},
		{"leading pipe yields empty stage", "| cat", pipeline.Pipeline{nil, {"cat"}}},
		{"trailing pipe yields empty stage", "cat |", pipeline.Pipeline{{"cat"}, nil}},
		{"consecutive pipes yield empty stage", "a || b", pipeline.Pipeline{{"a"}, nil, {"b"}}},
		{"pipe only", "|", pipeline.Pipeline{nil, nil}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, Parse(tc.line))
		})
	}
}

func TestParseJoinRoundTrip(t *testing.T) {
	// Joining stages with " | " and arguments with " " then re-tokenising
	// reproduces the pipeline shape.
	lines := []string{
		"echo hello",
		"echo hello | cat",
		"printf x | grep x | wc -l",
		"a 1 2 | b | c 3",
	}

	for _, line := range lines {
		t.Run(line, func(t *testing.T) {
			p := Parse(line)
			assert.Equal(t, p, Parse(Join(p)))
			assert.Equal(t, line, Join(p))
		})
	}
}
