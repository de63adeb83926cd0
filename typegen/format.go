package typegen

import (
	"context"
	"os/exec"
	"strings"

	"github.com/kballard/go-shellquote"

	"github.com/teranos/schemagen/errors"
	"github.com/teranos/schemagen/logger"
)

// Format runs command (shell-quoted, e.g. "npx prettier --write") with files
// appended as arguments.
func Format(ctx context.Context, command string, files []string) error {
	args, err := shellquote.Split(command)
	if err != nil {
		return errors.WithHint(
			errors.ConfigErrorf("invalid format command %q: %v", command, err),
			"generate.format_command is split like a shell command line; check its quoting",
		)
	}
	if len(args) == 0 {
		return nil
	}

	cmd := exec.CommandContext(ctx, args[0], append(args[1:], files...)...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		err = errors.Wrapf(err, "format command %s failed", args[0])
		if text := strings.TrimSpace(string(output)); text != "" {
			err = errors.WithDetail(err, text)
		}
		return err
	}

	logger.Debugw("formatted artifacts",
		logger.FieldCount, len(files),
		"command", shellquote.Join(args...),
	)
	return nil
}
