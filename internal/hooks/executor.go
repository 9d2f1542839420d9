package hooks

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/alfredjeanlab/eventlog/internal/model"
)

// Default and max timeout for hook commands.
const (
	DefaultTimeout = 30 * time.Second
	MaxTimeout     = 300 * time.Second
)

// Result holds the output of running a single hook command.
type Result struct {
	Output string
	Err    error
}

// Execute runs command via "sh -c" in cwd with the given timeout, inheriting
// the process environment overlaid with env.
func Execute(ctx context.Context, command string, timeout time.Duration, cwd string, env map[string]string) Result {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if timeout > MaxTimeout {
		timeout = MaxTimeout
	}

	hookCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(hookCtx, "sh", "-c", command) //nolint:gosec // commands come from event type configuration
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	cmd.WaitDelay = time.Second

	if cwd != "" {
		if info, err := os.Stat(cwd); err == nil && info.IsDir() {
			cmd.Dir = cwd
		}
	}

	cmd.Env = os.Environ()
	for k, v := range env {
		cmd.Env = append(cmd.Env, k+"="+v)
	}

	err := cmd.Run()
	output := strings.TrimSpace(stdout.String())
	if output == "" {
		output = strings.TrimSpace(stderr.String())
	}
	if err != nil && errors.Is(hookCtx.Err(), context.DeadlineExceeded) {
		err = fmt.Errorf("timed out after %s: %w", timeout, err)
	}

	return Result{Output: output, Err: err}
}

// RecordEnv returns the environment describing rec to a hook command.
func RecordEnv(eventType string, rec *model.Record) map[string]string {
	env := map[string]string{
		"EVENTLOG_TYPE": eventType,
		"EVENTLOG_ID":   strconv.FormatInt(rec.ID, 10),
		"EVENTLOG_URL":  rec.URL,
		"EVENTLOG_DATA": string(rec.Data),
	}
	if rec.Ref != nil {
		env["EVENTLOG_REF"] = strconv.FormatInt(*rec.Ref, 10)
	}
	if rec.CreatedBy != nil {
		env["EVENTLOG_CREATED_BY"] = strconv.FormatInt(*rec.CreatedBy, 10)
	}
	return env
}

// CommandHandler runs the shell command in the "command" argument.
// Optional arguments are "timeout" in seconds and "dir".
type CommandHandler struct{}

func (CommandHandler) Handle(ctx context.Context, eventType string, rec *model.Record) error {
	command := Arg(ctx, "command", "")
	if command == "" {
		return errors.New("command: missing \"command\" argument")
	}

	var timeout time.Duration
	if s := Arg(ctx, "timeout", ""); s != "" {
		secs, err := strconv.Atoi(s)
		if err != nil {
			return fmt.Errorf("command: bad timeout %q: %w", s, err)
		}
		timeout = time.Duration(secs) * time.Second
	}

	res := Execute(ctx, command, timeout, Arg(ctx, "dir", ""), RecordEnv(eventType, rec))
	if res.Err != nil {
		if res.Output != "" {
			return fmt.Errorf("command: %w: %s", res.Err, res.Output)
		}
		return fmt.Errorf("command: %w", res.Err)
	}
	return nil
}
