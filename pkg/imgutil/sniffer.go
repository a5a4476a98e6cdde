package imgutil

import (
	"bytes"
	"errors"
	"io"
)

// Kind identifies an input frame format img2webp can read.
type Kind int

const (
	KindUnknown Kind = iota
	KindJPEG
	KindPNG
	KindTIFF
	KindWebP
	KindGIF
)

func (k Kind) String() string {
	switch k {
	case KindJPEG:
		return "jpeg"
	case KindPNG:
		return "png"
	case KindTIFF:
		return "tiff"
	case KindWebP:
		return "webp"
	case KindGIF:
		return "gif"
	default:
		return "unknown"
	}
}

// HasExif reports whether frames of this kind can carry an EXIF block
// the inspector reads.
func (k Kind) HasExif() bool {
	return k == KindJPEG || k == KindTIFF || k == KindPNG || k == KindWebP
}

// HeaderSize is the number of leading bytes DetectHeader looks at.
const HeaderSize = 12

// minHeader is the shortest prefix that can still hold a signature.
const minHeader = 6

var (
	pngSig    = []byte{0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a}
	jpegSig   = []byte{0xff, 0xd8, 0xff}
	tiffSigLE = []byte{0x49, 0x49, 0x2a, 0x00}
	tiffSigBE = []byte{0x4d, 0x4d, 0x00, 0x2a}
	gif87Sig  = []byte("GIF87a")
	gif89Sig  = []byte("GIF89a")
	riffSig   = []byte("RIFF")
	webpSig   = []byte("WEBP")
)

// DetectHeader inspects the first bytes of a file for known signatures.
func DetectHeader(header []byte) (Kind, error) {
	if len(header) < minHeader {
		return KindUnknown, errors.New("header too short")
	}

	switch {
	case bytes.HasPrefix(header, jpegSig):
		return KindJPEG, nil
	case bytes.HasPrefix(header, pngSig):
		return KindPNG, nil
	case bytes.HasPrefix(header, tiffSigLE), bytes.HasPrefix(header, tiffSigBE):
		return KindTIFF, nil
	case bytes.HasPrefix(header, gif87Sig), bytes.HasPrefix(header, gif89Sig):
		return KindGIF, nil
	case len(header) >= HeaderSize && bytes.HasPrefix(header, riffSig) && bytes.Equal(header[8:12], webpSig):
		return KindWebP, nil
	}

	return KindUnknown, nil
}

// SniffReader reads up to HeaderSize bytes from r and determines its type.
// Files shorter than HeaderSize are still matched on what was read.
func SniffReader(r io.Reader) (Kind, error) {
	header := make([]byte, HeaderSize)
	n, err := io.ReadFull(r, header)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) {
		return KindUnknown, err
	}

	return DetectHeader(header[:n])
}
