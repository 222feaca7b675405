package probe

import (
	"bytes"
	"io"

	"github.com/klauspost/compress/zstd"
)

var zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}

type Blob struct {
	Offset int
	Data   []byte
	// Err is set when the frame ended early or was followed by garbage.
	Err error
}

// Blobs decodes every zstd frame embedded in b. Magic matches that decode to
// nothing are skipped.
func Blobs(b []byte) []Blob {
	ret := []Blob{}
	for _, at := range Find(b, zstdMagic) {
		dc, err := zstd.NewReader(bytes.NewReader(b[at:]), zstd.WithDecoderConcurrency(1))
		if err != nil {
			continue
		}
		data, err := io.ReadAll(dc)
		dc.Close()
		if len(data) == 0 {
			continue
		}
		ret = append(ret, Blob{Offset: at, Data: data, Err: err})
	}
	return ret
}
