package storage

import (
	"bytes"
	"errors"
	"net/http"
	"path"

	"github.com/disintegration/imaging"
)

// ThumbnailWidth is the width of generated logo thumbnails.
const ThumbnailWidth = 200

var ErrUnsupportedImage = errors.New("only JPEG and PNG images are supported")

// DetectImageType sniffs data and returns its content type and extension.
func DetectImageType(data []byte) (contentType, ext string, err error) {
	switch ct := http.DetectContentType(data); ct {
	case "image/jpeg":
		return ct, ".jpg", nil
	case "image/png":
		return ct, ".png", nil
	default:
		return "", "", ErrUnsupportedImage
	}
}

// Thumbnail decodes an image and returns a JPEG scaled to width, keeping
// the aspect ratio. Images narrower than width are not enlarged.
func Thumbnail(data []byte, width int) ([]byte, error) {
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, err
	}
	if img.Bounds().Dx() > width {
		img = imaging.Resize(img, width, 0, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(85)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ThumbnailKey places the thumbnail next to the original under thumbnails/.
func ThumbnailKey(objectKey string) string {
	dir := path.Dir(objectKey)
	base := path.Base(objectKey)
	ext := path.Ext(base)
	return path.Join(dir, "thumbnails", base[:len(base)-len(ext)]+".jpg")
}
