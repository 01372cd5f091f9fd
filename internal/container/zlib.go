package container

import "encoding/binary"

// demuxZlib strips RFC 1950's 2-byte CMF/FLG header and 4-byte trailing
// Adler-32 checksum off a zlib stream, leaving the raw DEFLATE payload.
// zlib carries no uncompressed-size field.
func demuxZlib(data []byte) (*Stream, error) {
	if len(data) < 6 {
		return nil, ErrTruncated
	}
	flg := data[1]
	pos := 2
	if flg&0x20 != 0 { // FDICT: a 4-byte preset dictionary id follows
		pos += 4
	}
	if len(data) < pos+4 {
		return nil, ErrTruncated
	}
	adler := binary.BigEndian.Uint32(data[len(data)-4:])

	return &Stream{
		Kind:    KindZlib,
		Deflate: data[pos : len(data)-4],
		Header:  data[:pos],
		Trailer: data[len(data)-4:],
		Adler32: adler,
	}, nil
}
