package blockdev

import (
	"runtime"
	"strings"
)

// normalizeVolumePath turns a bare Windows drive spec ("C:", "c:\") into
// the raw volume form \\.\C: that raw-device opens expect. Every other
// path, and every path on other platforms, passes through untouched.
func normalizeVolumePath(path string) string {
	if runtime.GOOS != "windows" {
		return path
	}

	p := strings.ReplaceAll(strings.TrimSpace(path), "/", `\`)
	if strings.HasPrefix(strings.ToUpper(p), `\\.\`) {
		return strings.ToUpper(p)
	}

	bare := strings.TrimSuffix(p, `\`)
	if len(bare) == 2 && bare[1] == ':' && isDriveLetter(bare[0]) {
		return `\\.\` + strings.ToUpper(bare[:1]) + ":"
	}
	return path
}

func isDriveLetter(c byte) bool {
	return ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z')
}
