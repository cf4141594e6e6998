package spine

import "github.com/cespare/xxhash/v2"

// newObjectID derives a stable 64-bit identifier for an object from its
// owning class name and its own name. Unlike the teacher's
// datalog.Identity (a full SHA1 digest, needed there for content
// addressing across a distributed store), objects here only need to be
// stable dictionary keys within one process, so a single xxhash64 pass
// is enough and avoids pulling in crypto/sha1 for no benefit.
func newObjectID(className, name string) uint64 {
	d := xxhash.New()
	_, _ = d.WriteString(className)
	_, _ = d.WriteString("\x00")
	_, _ = d.WriteString(name)
	return d.Sum64()
}
