package helpers

import (
	"runtime"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/ianaindex"
)

const (
	minBufferSize = 512
	baseBufferKiB = 4
	maxBufferSize = 1024 * 1024
)

// BufferSize picks a read/write buffer size for a file of the given size.
// Small files get a buffer of their own size, large ones scale with the
// number of usable CPUs up to 1MB.
func BufferSize(fileSize int64) int {
	base := baseBufferKiB * 1024
	if fileSize < int64(base) {
		if fileSize < minBufferSize {
			return minBufferSize
		}
		return int(fileSize)
	}

	scaled := base * runtime.GOMAXPROCS(0)
	if scaled > maxBufferSize {
		return maxBufferSize
	}
	return scaled
}

// Encoding resolves an IANA encoding name. The empty name maps to the
// identity encoding.
func Encoding(name string) (encoding.Encoding, error) {
	if name == "" {
		return encoding.Nop, nil
	}
	enc, err := ianaindex.IANA.Encoding(name)
	if err != nil {
		return nil, err
	}
	if enc == nil {
		return encoding.Nop, nil
	}
	return enc, nil
}
