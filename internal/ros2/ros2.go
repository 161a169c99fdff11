package ros2

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// DefaultTool is the ros2 executable looked up on PATH.
const DefaultTool = "ros2"

// DomainIDEnv isolates DDS traffic between ROS 2 instances.
const DomainIDEnv = "ROS_DOMAIN_ID"

// CommandError is returned when a ros2 invocation exits unsuccessfully.
// Output holds whatever the tool wrote to stderr (or stdout if stderr was
// empty), verbatim.
type CommandError struct {
	Args   []string
	Output string
	Err    error
}

func (e *CommandError) Error() string {
	msg := fmt.Sprintf("%s: %v", strings.Join(e.Args, " "), e.Err)
	if out := strings.TrimSpace(e.Output); out != "" {
		msg += "\n" + out
	}
	return msg
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// Runner invokes the ros2 command-line tool.
type Runner struct {
	Tool string
}

// NewRunner returns a Runner for tool, falling back to DefaultTool.
func NewRunner(tool string) Runner {
	if tool == "" {
		tool = DefaultTool
	}
	return Runner{Tool: tool}
}

func (r Runner) tool() string {
	if r.Tool == "" {
		return DefaultTool
	}
	return r.Tool
}

// Run executes the tool with args and returns its stdout.
func (r Runner) Run(ctx context.Context, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, r.tool(), args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		out := stderr.String()
		if strings.TrimSpace(out) == "" {
			out = stdout.String()
		}
		return stdout.String(), &CommandError{
			Args:   append([]string{r.tool()}, args...),
			Output: out,
			Err:    err,
		}
	}
	return stdout.String(), nil
}

// Info runs `ros2 bag info <path>` and returns the human-readable report.
func (r Runner) Info(ctx context.Context, bagPath string) (string, error) {
	return r.Run(ctx, InfoArgs(bagPath)...)
}

// PlayCommand builds an unstarted `ros2 bag play` command restricted to
// topics. It is not bound to a context: playback only ends when the process
// exits or is stopped.
func (r Runner) PlayCommand(bagPath string, topics []string) *exec.Cmd {
	return exec.Command(r.tool(), PlayArgs(bagPath, topics)...)
}

// InfoArgs returns the arguments for `bag info`.
func InfoArgs(bagPath string) []string {
	return []string{"bag", "info", bagPath}
}

// PlayArgs returns the arguments for `bag play` with an explicit topic
// allow-list.
func PlayArgs(bagPath string, topics []string) []string {
	args := []string{"bag", "play", bagPath, "--topics"}
	return append(args, topics...)
}

// CommandLine renders tool and args as a copy-pasteable shell command.
func (r Runner) CommandLine(args []string) string {
	parts := make([]string, 0, len(args)+1)
	parts = append(parts, shellQuote(r.tool()))
	for _, a := range args {
		parts = append(parts, shellQuote(a))
	}
	return strings.Join(parts, " ")
}

// shellQuote single-quotes s when it contains characters the shell would
// interpret.
func shellQuote(s string) string {
	if s == "" {
		return "''"
	}
	if !strings.ContainsAny(s, " \t\n'\"\\$`!*?[](){};&|<>#~") {
		return s
	}
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
