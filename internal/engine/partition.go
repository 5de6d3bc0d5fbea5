package engine

import "fmt"

// ByteRange is an inclusive span of bytes, matching HTTP Range semantics.
type ByteRange struct {
	Start int64
	End   int64
}

func (r ByteRange) Len() int64 {
	return r.End - r.Start + 1
}

// Header renders the Range request header value.
func (r ByteRange) Header() string {
	return fmt.Sprintf("bytes=%d-%d", r.Start, r.End)
}

func (r ByteRange) String() string {
	return fmt.Sprintf("[%d,%d]", r.Start, r.End)
}

// Partition splits [0, size) into chunkSize pieces in ascending order, the last one clamped to
// size-1. A chunkSize of zero (or one covering the whole size) yields a single range.
func Partition(size, chunkSize int64) []ByteRange {
	if size <= 0 {
		return nil
	}
	if chunkSize <= 0 || chunkSize >= size {
		return []ByteRange{{Start: 0, End: size - 1}}
	}
	ranges := make([]ByteRange, 0, (size+chunkSize-1)/chunkSize)
	for start := int64(0); start < size; start += chunkSize {
		ranges = append(ranges, ByteRange{Start: start, End: min(start+chunkSize, size) - 1})
	}
	return ranges
}
