//go:build !windows

package focus

// Terminal always reports false off Windows, so notifications are always shown.
func Terminal() bool {
	return false
}
