package capture

import (
	"errors"
	"fmt"

	"gocv.io/x/gocv"
)

// EncodeJPEG encodes a frame as JPEG and returns a copy of the bytes that
// outlives the native buffer.
func EncodeJPEG(frame *gocv.Mat) ([]byte, error) {
	if frame == nil || frame.Empty() {
		return nil, errors.New("encode frame: empty frame")
	}

	buf, err := gocv.IMEncode(gocv.JPEGFileExt, *frame)
	if err != nil {
		return nil, fmt.Errorf("encode frame: %w", err)
	}
	defer buf.Close()

	data := buf.GetBytes()
	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}
