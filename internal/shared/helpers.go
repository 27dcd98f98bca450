// Package shared provides common utility functions used across
// multiple packages in the vx codebase.
package shared

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"runtime"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
)

// ExecutableFileName appends the platform executable suffix to a bare
// command name (.exe on Windows).
func ExecutableFileName(name string) string {
	if runtime.GOOS == "windows" && !strings.HasSuffix(name, ".exe") {
		return name + ".exe"
	}
	return name
}

// IsExactVersion reports whether a constraint is a plain version pin
// rather than a range expression.
func IsExactVersion(constraint string) bool {
	if constraint == "" {
		return false
	}
	return !strings.ContainsAny(constraint, "<>=^~*!, ")
}

// Sha256Hex returns the lowercase hex sha256 of data.
func Sha256Hex(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// FileSha256Hex hashes a file's content.
func FileSha256Hex(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return Sha256Hex(data), nil
}

// HTTPStatusError builds a coded error for a non-2xx HTTP response,
// keeping a truncated body excerpt for diagnostics.
func HTTPStatusError(op string, status int, body []byte) error {
	excerpt := strings.TrimSpace(string(body))
	if len(excerpt) > 256 {
		excerpt = excerpt[:256]
	}
	code := errbuilder.CodeInternal
	if status == 404 {
		code = errbuilder.CodeNotFound
	}
	return errbuilder.New().
		WithCode(code).
		WithMsg(fmt.Sprintf("%s returned status %d: %s", op, status, excerpt))
}
