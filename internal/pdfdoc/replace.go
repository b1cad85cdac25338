package pdfdoc

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"

	"pdfoutline/internal/editor"
)

// Replace moves replacement over original. The original is first renamed to
// <original>.bak; unless keepBackup is set the backup is then handed to
// trashCmd, or removed when trashCmd is empty. A failing trash command leaves
// the backup in place. It returns the backup path if one remains.
func Replace(ctx context.Context, original, replacement string, keepBackup bool, trashCmd string, log *slog.Logger) (string, error) {
	if log == nil {
		log = slog.Default()
	}
	bak := original + ".bak"
	if err := os.Rename(original, bak); err != nil {
		return "", fmt.Errorf("pdfdoc: backup original: %w", err)
	}
	if err := os.Rename(replacement, original); err != nil {
		if rerr := os.Rename(bak, original); rerr != nil {
			log.Error("restoring original failed", "backup", bak, "err", rerr)
		}
		return "", fmt.Errorf("pdfdoc: replace original: %w", err)
	}
	if keepBackup {
		return bak, nil
	}

	args := editor.SplitShellWords(trashCmd)
	if len(args) == 0 {
		if err := os.Remove(bak); err != nil {
			log.Warn("removing backup failed", "backup", bak, "err", err)
			return bak, nil
		}
		return "", nil
	}
	cmd := exec.CommandContext(ctx, args[0], append(args[1:], bak)...)
	if out, err := cmd.CombinedOutput(); err != nil {
		log.Warn("trash command failed, keeping backup", "cmd", trashCmd, "backup", bak, "err", err, "output", string(out))
		return bak, nil
	}
	return "", nil
}

// Preview opens path in the viewer without waiting for it. An empty viewer
// command does nothing.
func Preview(viewerCmd, path string, log *slog.Logger) error {
	args := editor.SplitShellWords(viewerCmd)
	if len(args) == 0 {
		return nil
	}
	if log == nil {
		log = slog.Default()
	}
	cmd := exec.Command(args[0], append(args[1:], path)...)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("pdfdoc: start viewer: %w", err)
	}
	log.Debug("viewer started", "cmd", viewerCmd, "pid", cmd.Process.Pid, "path", path)
	go func() { _ = cmd.Wait() }()
	return nil
}
