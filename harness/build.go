package harness

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"hash"
	"io"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/gofrs/flock"
)

const (
	hashSuffix = ".hash"
	lockName   = ".lock"
	lockRetry  = 50 * time.Millisecond
)

// Compiler builds rendered C with an external C compiler.
type Compiler struct {
	CC     string
	CFlags []string
	Log    *log.Logger // debug output; nil discards
}

func (cc Compiler) logger() *log.Logger {
	if cc.Log == nil {
		return log.New(io.Discard, "", 0)
	}
	return cc.Log
}

// args returns the compiler arguments building src into out.
func (cc Compiler) args(src, out string, lib bool) []string {
	args := append([]string(nil), cc.CFlags...)
	if lib {
		args = append(args, "-c")
	}
	return append(args, src, "-o", out)
}

// metadataHash hashes the compiler settings and platform that affect a build.
func (cc Compiler) metadataHash(h hash.Hash, lib bool) {
	h.Write([]byte(cc.CC))
	for _, flag := range cc.CFlags {
		h.Write([]byte(flag))
	}
	if lib {
		h.Write([]byte("-c"))
	}
	h.Write([]byte(runtime.GOOS))
	h.Write([]byte(runtime.GOARCH))
}

func (cc Compiler) buildHash(src []byte, lib bool) string {
	h := sha256.New()
	cc.metadataHash(h, lib)
	h.Write(src)
	return hex.EncodeToString(h.Sum(nil))
}

// Build compiles the C file src into out, linking an executable unless lib is
// set. A build whose source and settings match the previous one is reused and
// reported as cached. A file lock on out's directory serializes concurrent
// builds.
func (cc Compiler) Build(ctx context.Context, src, out string, lib bool) (cached bool, err error) {
	outDir := filepath.Dir(out)
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return false, fmt.Errorf("create build dir: %w", err)
	}

	lock := flock.New(filepath.Join(outDir, lockName))
	locked, err := lock.TryLockContext(ctx, lockRetry)
	if err != nil {
		return false, fmt.Errorf("acquire build lock: %w", err)
	}
	if !locked {
		return false, fmt.Errorf("acquire build lock: %s is busy", outDir)
	}
	defer lock.Unlock()

	data, err := os.ReadFile(src)
	if err != nil {
		return false, fmt.Errorf("read %s: %w", src, err)
	}
	sum := cc.buildHash(data, lib)
	hashFile := out + hashSuffix

	// The stored hash is the completion marker of the last build.
	if stored, err := os.ReadFile(hashFile); err == nil && string(stored) == sum {
		if _, err := os.Stat(out); err == nil {
			cc.logger().Printf("using cached build %s", out)
			return true, nil
		}
	}
	os.Remove(hashFile)

	args := cc.args(src, out, lib)
	cc.logger().Printf("running %s %s", cc.CC, strings.Join(args, " "))
	if output, err := exec.CommandContext(ctx, cc.CC, args...).CombinedOutput(); err != nil {
		return false, fmt.Errorf("compile %s: %v\n%s", src, err, output)
	}
	if err := os.WriteFile(hashFile, []byte(sum), 0644); err != nil {
		return false, fmt.Errorf("write hash file: %w", err)
	}
	return false, nil
}
