package ecs150

// OpenMaxCount is the number of slots in the open-file table. The
// descriptor value handed back by Open is the slot index, so descriptors
// always fall in [0, OpenMaxCount).
const OpenMaxCount = 32

// descriptor is one slot of the open-file table, binding a filename to a
// byte offset. Slots live only in memory; nothing here is persisted.
type descriptor struct {
	used   bool
	name   string
	offset int64
}

type descriptorTable [OpenMaxCount]descriptor

// claim takes the lowest-index free slot for name and returns its index,
// or -1 if the table is full.
func (t *descriptorTable) claim(name string) int {
	for i := range t {
		if !t[i].used {
			t[i] = descriptor{used: true, name: name}
			return i
		}
	}
	return -1
}

func (t *descriptorTable) release(fd int) {
	t[fd] = descriptor{}
}

// isOpen reports whether any slot is bound to name.
func (t *descriptorTable) isOpen(name string) bool {
	for i := range t {
		if t[i].used && t[i].name == name {
			return true
		}
	}
	return false
}

// openCount returns the number of slots in use.
func (t *descriptorTable) openCount() int {
	count := 0
	for i := range t {
		if t[i].used {
			count++
		}
	}
	return count
}
