// Package focus reports whether the terminal running chatwrap has focus.
package focus

// maxAncestorDepth bounds the walk up the process tree.
const maxAncestorDepth = 20

// ancestorsOf walks up the process tree from pid, returning every ancestor
// PID nearest first. Stops on a cycle, a missing parent or maxAncestorDepth.
func ancestorsOf(pid uint32, parentOf map[uint32]uint32) []uint32 {
	var ancestors []uint32
	seen := map[uint32]bool{pid: true}
	current := pid

	for i := 0; i < maxAncestorDepth; i++ {
		parent, ok := parentOf[current]
		if !ok || parent == 0 || seen[parent] {
			break
		}
		ancestors = append(ancestors, parent)
		seen[parent] = true
		current = parent
	}
	return ancestors
}

// ownsWindow reports whether windowPID is pid or one of its ancestors.
func ownsWindow(windowPID, pid uint32, parentOf map[uint32]uint32) bool {
	if windowPID == 0 {
		return false
	}
	if windowPID == pid {
		return true
	}
	for _, a := range ancestorsOf(pid, parentOf) {
		if a == windowPID {
			return true
		}
	}
	return false
}
