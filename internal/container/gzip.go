package container

import "encoding/binary"

// gzip member header flags (RFC 1952 §2.3.1).
const (
	gzipFlagText = 1 << iota
	gzipFlagHCRC
	gzipFlagExtra
	gzipFlagName
	gzipFlagComment
)

func demuxGzip(data []byte) (*Stream, error) {
	if len(data) < 18 {
		return nil, ErrTruncated
	}
	flags := data[3]
	pos := 10

	if flags&gzipFlagExtra != 0 {
		if pos+2 > len(data) {
			return nil, ErrTruncated
		}
		xlen := int(binary.LittleEndian.Uint16(data[pos:]))
		pos += 2 + xlen
	}
	if flags&gzipFlagName != 0 {
		pos = skipCString(data, pos)
	}
	if flags&gzipFlagComment != 0 {
		pos = skipCString(data, pos)
	}
	if flags&gzipFlagHCRC != 0 {
		pos += 2
	}
	if pos > len(data) {
		return nil, ErrTruncated
	}

	if len(data) < pos+8 {
		return nil, ErrTruncated
	}
	trailer := data[len(data)-8:]
	crc32 := binary.LittleEndian.Uint32(trailer[0:4])
	isize := binary.LittleEndian.Uint32(trailer[4:8])

	return &Stream{
		Kind:             KindGzip,
		Deflate:          data[pos : len(data)-8],
		Header:           data[:pos],
		Trailer:          trailer,
		UncompressedSize: isize,
		CRC32:            crc32,
	}, nil
}

func skipCString(data []byte, pos int) int {
	for pos < len(data) && data[pos] != 0 {
		pos++
	}
	return pos + 1
}
