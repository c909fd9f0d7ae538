package harness

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
	"github.com/pmezard/go-difflib/difflib"
)

// ErrBlessMismatch is returned when rendered output differs from the
// blessed output.
var ErrBlessMismatch = errors.New("output does not match blessed output")

// Blessed compares the rendered file at output with the blessed file at
// reference. With update set, output is copied over reference instead.
// lockDir holds the lock that serializes updates.
func Blessed(ctx context.Context, output, reference, lockDir string, update bool) error {
	got, err := os.ReadFile(output)
	if err != nil {
		return fmt.Errorf("read output: %w", err)
	}

	if update {
		if err := os.MkdirAll(lockDir, 0755); err != nil {
			return fmt.Errorf("create lock dir: %w", err)
		}
		lock := flock.New(filepath.Join(lockDir, ".bless"+lockName))
		locked, err := lock.TryLockContext(ctx, lockRetry)
		if err != nil {
			return fmt.Errorf("acquire bless lock: %w", err)
		}
		if !locked {
			return fmt.Errorf("acquire bless lock: %s is busy", lockDir)
		}
		defer lock.Unlock()

		if err := os.WriteFile(reference, got, 0644); err != nil {
			return fmt.Errorf("bless %s: %w", reference, err)
		}
		return nil
	}

	want, err := os.ReadFile(reference)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s does not exist; rerun with --bless", ErrBlessMismatch, reference)
		}
		return fmt.Errorf("read blessed output: %w", err)
	}
	if bytes.Equal(got, want) {
		return nil
	}
	return fmt.Errorf("%w: %s\n%s", ErrBlessMismatch, reference, unifiedDiff(reference, output, want, got))
}

func unifiedDiff(fromFile, toFile string, a, b []byte) string {
	diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(string(a)),
		B:        difflib.SplitLines(string(b)),
		FromFile: fromFile,
		ToFile:   toFile,
		Context:  3,
	})
	if err != nil {
		return err.Error()
	}
	return diff
}
