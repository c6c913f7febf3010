package dhash

import (
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp"
)

const DefaultSide = 8

var (
	// ErrDecode marks content that claims a supported format but is malformed.
	ErrDecode = errors.New("decode error")
	// ErrUnsupported marks content that is not a supported image at all.
	ErrUnsupported = errors.New("unsupported format")
	// ErrUnreadable marks files that could not be opened or read.
	ErrUnreadable = errors.New("unreadable")
)

type Options struct {
	Side       int
	AutoOrient bool
}

func (o Options) side() int {
	if o.Side <= 0 {
		return DefaultSide
	}
	return o.Side
}

// File decodes the image at path and returns its difference hash.
func File(path string, opts Options) (Bits, error) {
	img, err := decodeFile(path, opts.AutoOrient)
	if err != nil {
		return Bits{}, err
	}
	return Image(img, opts.side())
}

// Digest is File followed by Hex.
func Digest(path string, opts Options) (string, error) {
	bits, err := File(path, opts)
	if err != nil {
		return "", err
	}
	return bits.Hex(), nil
}

// Image computes the side*side difference hash of img. Each row of the
// grayscale, resized image yields side bits; the last column is compared
// against the first column of the same row.
func Image(img image.Image, side int) (Bits, error) {
	if side < 1 {
		return Bits{}, fmt.Errorf("side must be >= 1, got %d", side)
	}
	if img.Bounds().Empty() {
		return Bits{}, fmt.Errorf("%w: empty image", ErrDecode)
	}

	small := imaging.Resize(imaging.Grayscale(img), side, side, imaging.Linear)

	bits := NewBits(side * side)
	for row := 0; row < side; row++ {
		line := small.Pix[row*small.Stride:]
		for col := 0; col < side; col++ {
			left := line[col*4]
			right := line[((col+1)%side)*4]
			bits.Push(left < right)
		}
	}
	return bits, nil
}

func decodeFile(path string, autoOrient bool) (image.Image, error) {
	f, err := os.Open(path) // #nosec G304
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadable, err)
	}
	defer func() {
		_ = f.Close()
	}()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadable, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: %s is a directory", ErrUnreadable, path)
	}

	img, err := imaging.Decode(f, imaging.AutoOrientation(autoOrient))
	if err == nil {
		return img, nil
	}

	var pathErr *os.PathError
	switch {
	case errors.As(err, &pathErr):
		return nil, fmt.Errorf("%w: %v", ErrUnreadable, err)
	case errors.Is(err, image.ErrFormat) && !HasImageExt(path):
		return nil, fmt.Errorf("%w: %v", ErrUnsupported, err)
	default:
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
}

// HasImageExt reports whether the file name carries the extension of a
// format this package can decode.
func HasImageExt(path string) bool {
	if _, err := imaging.FormatFromFilename(path); err == nil {
		return true
	}
	return strings.EqualFold(filepath.Ext(path), ".webp")
}
