package santa

import (
	"os/exec"
	"runtime"
)

// DetectPlatform returns the compile-time base OS/arch. Distro detection is
// intentionally left empty on non-Linux platforms and best-effort on
// Linux (populated by the caller from /etc/os-release if it cares; this
// package does not parse it itself, to avoid a filesystem dependency in
// the common case where no override keys on distro).
func DetectPlatform() Platform {
	return Platform{OS: runtime.GOOS, Arch: runtime.GOARCH}
}

// AvailableSources probes PATH for each source's ShellCommand and returns
// the subset of sources whose binary was found. Nothing is cached here;
// each call probes PATH again.
func AvailableSources(sources map[string]Source) map[string]bool {
	out := make(map[string]bool, len(sources))
	for name, src := range sources {
		if src.ShellCommand == "" {
			out[name] = false
			continue
		}
		_, err := exec.LookPath(src.ShellCommand)
		out[name] = err == nil
	}
	return out
}
