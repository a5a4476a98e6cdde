package frames

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"time"
)

var pngSignature = []byte{0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a}

var errNoPNGTime = errors.New("png has no tIME chunk")

// readPNGTime returns the tIME chunk's modification time, which is the
// only timestamp a plain PNG frame carries.
func readPNGTime(rs io.ReadSeeker) (time.Time, error) {
	if _, err := rs.Seek(0, io.SeekStart); err != nil {
		return time.Time{}, err
	}

	br := bufio.NewReader(rs)

	sig := make([]byte, 8)
	if _, err := io.ReadFull(br, sig); err != nil {
		return time.Time{}, err
	}
	if !bytes.Equal(sig, pngSignature) {
		return time.Time{}, errors.New("invalid PNG signature")
	}

	head := make([]byte, 8)
	for {
		if _, err := io.ReadFull(br, head); err != nil {
			if err == io.EOF {
				return time.Time{}, errNoPNGTime
			}
			return time.Time{}, err
		}
		length := binary.BigEndian.Uint32(head[:4])
		chunkName := string(head[4:8])

		switch chunkName {
		case "tIME":
			if length != 7 {
				return time.Time{}, errors.New("malformed tIME chunk")
			}
			data := make([]byte, 7)
			if _, err := io.ReadFull(br, data); err != nil {
				return time.Time{}, err
			}
			year := int(binary.BigEndian.Uint16(data[:2]))
			return time.Date(year, time.Month(data[2]), int(data[3]),
				int(data[4]), int(data[5]), int(data[6]), 0, time.UTC), nil
		case "IEND":
			return time.Time{}, errNoPNGTime
		default:
			if _, err := io.CopyN(io.Discard, br, int64(length)+4); err != nil {
				return time.Time{}, err
			}
		}
	}
}
