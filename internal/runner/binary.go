package runner

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
)

// EnvBinary overrides the encoder location.
const EnvBinary = "WEBPSEQ_IMG2WEBP"

var (
	execLookPath = exec.LookPath
	executable   = os.Executable
)

// BinaryName is the encoder's executable name on this platform.
func BinaryName() string {
	if runtime.GOOS == "windows" {
		return "img2webp.exe"
	}
	return "img2webp"
}

// ResolveBinary locates img2webp: an explicit path, then $WEBPSEQ_IMG2WEBP,
// then a webp-tools directory shipped next to the executable, then PATH.
func ResolveBinary(explicit string) (string, error) {
	if bin := strings.TrimSpace(explicit); bin != "" {
		return lookup(bin)
	}
	if bin := strings.TrimSpace(os.Getenv(EnvBinary)); bin != "" {
		return lookup(bin)
	}

	name := BinaryName()
	if exe, err := executable(); err == nil {
		dir := filepath.Dir(exe)
		for _, candidate := range []string{
			filepath.Join(dir, "webp-tools", name),
			filepath.Join(dir, "..", "webp-tools", name),
		} {
			if st, err := os.Stat(candidate); err == nil && !st.IsDir() {
				return candidate, nil
			}
		}
	}
	return lookup(name)
}

func lookup(bin string) (string, error) {
	resolved, err := execLookPath(bin)
	if err != nil {
		return "", fmt.Errorf("img2webp not found (%s): %w; %s", bin, err, installHint(runtime.GOOS))
	}
	return resolved, nil
}

func installHint(goos string) string {
	switch goos {
	case "darwin":
		return "install with: brew install webp, or pass --img2webp"
	case "windows":
		return "install libwebp and add its bin folder to PATH, or pass --img2webp"
	default:
		return "install the webp package (e.g. sudo apt-get install webp), or pass --img2webp"
	}
}
