package container

import (
	"encoding/binary"
	"fmt"
)

// Local file header layout per PKZIP's APPNOTE, grounded on
// original_source/src/zip_structs.rs's ZipLocalFileHeader (zip64 and the
// streamed data-descriptor variant are both out of scope here).
const (
	zipLocalFileHeaderSignature = 0x04034b50
	zipLocalFileHeaderSize      = 30
	zipMethodDeflate            = 8
	zipFlagHasDataDescriptor    = 0x0008
)

// ErrZipDataDescriptor is returned for a zip entry whose sizes/CRC are
// deferred to a trailing data descriptor record instead of the local file
// header: resolving that requires scanning forward past the compressed
// data, which this minimal demultiplexer doesn't do.
var ErrZipDataDescriptor = fmt.Errorf("container: zip streamed (data-descriptor) entries are not supported")

// ErrZipUnsupportedMethod is returned for a zip entry whose compression
// method is not DEFLATE (method 8).
var ErrZipUnsupportedMethod = fmt.Errorf("container: zip entry is not DEFLATE-compressed")

func demuxZip(data []byte) (*Stream, error) {
	if len(data) < zipLocalFileHeaderSize {
		return nil, ErrTruncated
	}
	generalFlags := binary.LittleEndian.Uint16(data[6:8])
	method := binary.LittleEndian.Uint16(data[8:10])
	crc32 := binary.LittleEndian.Uint32(data[14:18])
	compressedSize := binary.LittleEndian.Uint32(data[18:22])
	uncompressedSize := binary.LittleEndian.Uint32(data[22:26])
	nameLen := int(binary.LittleEndian.Uint16(data[26:28]))
	extraLen := int(binary.LittleEndian.Uint16(data[28:30]))

	if generalFlags&zipFlagHasDataDescriptor != 0 {
		return nil, ErrZipDataDescriptor
	}
	if method != zipMethodDeflate {
		return nil, ErrZipUnsupportedMethod
	}

	dataStart := zipLocalFileHeaderSize + nameLen + extraLen
	dataEnd := dataStart + int(compressedSize)
	if dataEnd > len(data) {
		return nil, ErrTruncated
	}

	return &Stream{
		Kind:             KindZip,
		Deflate:          data[dataStart:dataEnd],
		Header:           data[:dataStart],
		Trailer:          data[dataEnd:],
		UncompressedSize: uncompressedSize,
		CRC32:            crc32,
	}, nil
}
