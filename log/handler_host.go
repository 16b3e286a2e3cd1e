//go:build !wasip1

package log

import "os"

// defaultSink writes encoded records to stderr outside WASM.
func defaultSink(data []byte) {
	_, _ = os.Stderr.Write(append(data, '\n'))
}
