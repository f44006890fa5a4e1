//go:build amd64

package rank

import "unsafe"

func less(a, b Key) bool {
	left := *(*uint64)(unsafe.Pointer(&a.Points[0]))
	right := *(*uint64)(unsafe.Pointer(&b.Points[0]))
	return left < right
}
