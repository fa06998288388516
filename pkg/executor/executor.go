// Package executor implements the gateway's process executor (component
// C4): spawning provider/utility binaries as direct children (never a
// shell), wiring multi-stage pipelines through OS pipes, and bounding every
// child by a shared deadline and output cap.
package executor

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"os/exec"
	"strings"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/kishhcodes/cloudgate/pkg/pipeline"
	gwerrors "github.com/kishhcodes/cloudgate/pkg/shared/errors"
)

// Run spawns stages as a pipeline of direct child processes and returns the
// combined Result. It never invokes a shell: argv is exactly each stage's
// already-tokenized words.
func Run(ctx context.Context, stages []pipeline.Stage, opts Options) (Result, error) {
	opts = opts.WithDefaults()
	if len(stages) == 0 {
		return Result{}, gwerrors.New(gwerrors.KindValidation, "no stages to execute")
	}

	start := time.Now()
	ctx, cancel := context.WithTimeout(ctx, opts.MaxWallClock)
	defer cancel()

	cmds := make([]*exec.Cmd, len(stages))
	for i, stage := range stages {
		cmd := exec.CommandContext(ctx, stage.Tokens[0], stage.Tokens[1:]...)
		cmd.Cancel = terminateSignal(cmd)
		cmd.WaitDelay = TerminateGrace
		cmds[i] = cmd
	}
	cmds[0].Env = buildEnv(opts.Env)

	stderrBuf := newCappedBuffer(opts.MaxOutputBytes)
	for _, cmd := range cmds {
		cmd.Stderr = stderrBuf
	}

	stdoutBuf := newCappedBuffer(opts.MaxOutputBytes)
	cmds[len(cmds)-1].Stdout = stdoutBuf

	pipes := make([]pipeEnds, len(cmds)-1)
	for i := range pipes {
		r, w, err := os.Pipe()
		if err != nil {
			return Result{}, gwerrors.Wrap(gwerrors.KindExecution, "create pipeline pipe", err)
		}
		pipes[i] = pipeEnds{r: r, w: w}
		cmds[i].Stdout = w
		cmds[i+1].Stdin = r
	}

	for _, cmd := range cmds {
		if err := cmd.Start(); err != nil {
			closeAll(pipes)
			return Result{}, gwerrors.Wrap(gwerrors.KindExecution, "start child process", err)
		}
	}
	closeAll(pipes)

	var g errgroup.Group
	for _, cmd := range cmds {
		cmd := cmd
		g.Go(func() error {
			return cmd.Wait()
		})
	}
	waitErr := g.Wait()

	elapsed := time.Since(start)
	result := Result{Elapsed: elapsed}

	if ctx.Err() != nil {
		result.Status = Error
		result.ErrorKind = gwerrors.KindTimeout
		result.Output = "command timed out after " + elapsed.Round(time.Millisecond).String()
		result.Truncated = stdoutBuf.Truncated()
		return result, nil
	}

	stderrText := stderrBuf.String()
	if kind, ok := matchAuthError(stderrText, opts.AuthErrorPatterns); ok {
		result.Status = Error
		result.ErrorKind = kind
		result.Output = "authentication error: " + firstLine(stderrText)
		result.Truncated = stdoutBuf.Truncated() || stderrBuf.Truncated()
		return result, nil
	}

	last := cmds[len(cmds)-1]
	exitCode := 0
	if last.ProcessState != nil {
		exitCode = last.ProcessState.ExitCode()
	}
	result.ExitCode = exitCode
	result.Truncated = stdoutBuf.Truncated() || stderrBuf.Truncated()
	result.Output = stdoutBuf.String()

	if waitErr != nil || exitCode != 0 {
		result.Status = Error
		result.ErrorKind = gwerrors.KindExecution
		if result.Output == "" {
			result.Output = firstLine(stderrText)
		}
		return result, nil
	}

	result.Status = Success
	result.ErrorKind = gwerrors.KindNone
	if parsed, ok := parseJSON(result.Output); ok {
		result.Structured = parsed
	}
	return result, nil
}

func terminateSignal(cmd *exec.Cmd) func() error {
	return func() error {
		return cmd.Process.Signal(syscall.SIGTERM)
	}
}

type pipeEnds struct{ r, w *os.File }

func closeAll(pipes []pipeEnds) {
	for _, p := range pipes {
		_ = p.r.Close()
		_ = p.w.Close()
	}
}

func buildEnv(overlay map[string]string) []string {
	env := os.Environ()
	for k, v := range overlay {
		env = append(env, k+"="+v)
	}
	return env
}

func matchAuthError(stderrText string, patterns []string) (gwerrors.Kind, bool) {
	lower := strings.ToLower(stderrText)
	for _, p := range patterns {
		if strings.Contains(lower, strings.ToLower(p)) {
			return gwerrors.KindAuth, true
		}
	}
	return gwerrors.KindNone, false
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return strings.TrimSpace(s[:i])
	}
	return strings.TrimSpace(s)
}

func parseJSON(output string) (any, bool) {
	trimmed := strings.TrimSpace(output)
	if trimmed == "" {
		return nil, false
	}
	if !bytes.HasPrefix([]byte(trimmed), []byte("{")) && !bytes.HasPrefix([]byte(trimmed), []byte("[")) {
		return nil, false
	}
	var v any
	if err := json.Unmarshal([]byte(trimmed), &v); err != nil {
		return nil, false
	}
	return v, true
}
