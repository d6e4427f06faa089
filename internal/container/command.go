// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package container

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// WaitDelay bounds how long a cancelled command may keep its output pipes
// open through descendants that outlived the kill.
const WaitDelay = 2 * time.Second

// CommandContext returns a command that, when ctx is done, is killed along
// with every process it started. Converters such as soffice fork helpers
// that inherit stderr; killing only the direct child would leave Wait
// blocked on them.
func CommandContext(ctx context.Context, name string, args ...string) *exec.Cmd {
	cmd := exec.CommandContext(ctx, name, args...)
	killGroupOnCancel(cmd)
	cmd.WaitDelay = WaitDelay
	return cmd
}

// RunCaptured runs cmd built by CommandContext and folds stderr into the
// returned error.
func RunCaptured(ctx context.Context, name string, args ...string) error {
	var stderr bytes.Buffer
	cmd := CommandContext(ctx, name, args...)
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return fmt.Errorf("%s: %w: %s", name, err, msg)
		}
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}
