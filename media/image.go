package media

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"

	"github.com/nfnt/resize"
	"github.com/wailsapp/mimetype"
)

// compressImage re-encodes the image as JPEG, downscaling it to the
// specified maximum width. It returns the compressed image bytes or an
// error if the process fails.
func compressImage(imgContent []byte, maxWidth uint) ([]byte, error) {
	mType := mimetype.Detect(imgContent)
	if mType == nil {
		return nil, fmt.Errorf("unknown image type")
	}

	var img image.Image
	var err error
	switch mType.String() {
	case "image/jpeg":
		img, err = jpeg.Decode(bytes.NewReader(imgContent))
	case "image/png":
		img, err = png.Decode(bytes.NewReader(imgContent))
	default:
		return nil, fmt.Errorf("unsupported image type: %s", mType.String())
	}
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	width := uint(img.Bounds().Dx())
	if width > maxWidth {
		width = maxWidth
	}
	resized := resize.Resize(width, 0, img, resize.Lanczos3)

	var compressed bytes.Buffer
	err = jpeg.Encode(&compressed, resized, &jpeg.Options{Quality: 85})
	if err != nil {
		return nil, fmt.Errorf("failed to encode compressed image: %w", err)
	}

	return compressed.Bytes(), nil
}
