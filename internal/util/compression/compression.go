// Package compression provides the codecs stored draft collections may be wrapped in.
package compression

import "fmt"

type Codec interface {
	Compress(data []byte) ([]byte, error)
	Decompress(data []byte) ([]byte, error)
}

// ByName returns the codec for a store.compression setting. "none" and ""
// return a nil codec.
func ByName(name string) (Codec, error) {
	switch name {
	case "", "none":
		return nil, nil
	case "gzip":
		return GzipCompressor{}, nil
	case "zstd":
		return ZstdCompressor{}, nil
	default:
		return nil, fmt.Errorf("unknown compression %q", name)
	}
}
