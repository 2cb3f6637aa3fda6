package shm

import (
	"fmt"
	"sort"
	"strconv"

	cmap "github.com/orcaman/concurrent-map/v2"
)

// Process-local registry of attached segments, keyed by System V key. It is
// observability plumbing only: byte access never consults it, and it holds
// no cross-process state.
var attached = cmap.New[*Segment]()

func registerSegment(s *Segment) {
	attached.Set(strconv.Itoa(s.key), s)
}

func unregisterSegment(key int) {
	attached.Remove(strconv.Itoa(key))
}

// AttachedKeys returns the keys of all segments this process currently has
// attached, in ascending order.
func AttachedKeys() []int {
	keys := make([]int, 0, attached.Count())
	for k := range attached.IterBuffered() {
		n, err := strconv.Atoi(k.Key)
		if err != nil {
			continue
		}
		keys = append(keys, n)
	}
	sort.Ints(keys)
	return keys
}

// DebugSegmentDetail prints the state of an attached segment.
func DebugSegmentDetail(key int) {
	s, ok := attached.Get(strconv.Itoa(key))
	if !ok {
		fmt.Printf("key:%#010x not attached\n", key)
		return
	}
	fmt.Printf("key:%#010x id:%d size:%d mode:%s\n", s.Key(), s.id, s.Size(), s.mode)
}
