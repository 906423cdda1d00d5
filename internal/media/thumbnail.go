package media

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"
	"io"

	"github.com/nfnt/resize"
)

// ThumbnailMaxEdge bounds the longer edge of generated thumbnails.
const ThumbnailMaxEdge = 400

// Thumbnail decodes a JPEG or PNG from r and returns a JPEG thumbnail whose
// longer edge is at most maxEdge pixels. Formats the image package cannot
// decode (videos, RAW files) return an error; callers skip the thumbnail in
// that case rather than failing the upload.
func Thumbnail(r io.Reader, maxEdge uint) ([]byte, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	bounds := img.Bounds()
	var thumb image.Image
	if bounds.Dx() >= bounds.Dy() {
		thumb = resize.Resize(maxEdge, 0, img, resize.Lanczos3)
	} else {
		thumb = resize.Resize(0, maxEdge, img, resize.Lanczos3)
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, thumb, &jpeg.Options{Quality: 80}); err != nil {
		return nil, fmt.Errorf("encode thumbnail: %w", err)
	}
	return buf.Bytes(), nil
}
