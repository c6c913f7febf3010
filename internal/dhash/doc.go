// Package dhash computes difference hashes ("dhash") of images.
//
// An image is converted to grayscale, resized to side x side pixels with a
// triangle filter, and every pixel is compared with its right-hand
// neighbour (the last column wraps to the first). The resulting side*side
// bits are encoded as a fixed-length lowercase hex digest.
//
// Grayscale conversion uses imaging's Rec.601 luma weights. Digests are
// stable for this package but are not expected to match tools that convert
// with Rec.709 weights.
//
// The decoder is chosen from the file content, not its extension: a PNG
// named x.dat is hashed. Content that no decoder recognizes is
// ErrUnsupported, unless the extension names an image format, in which case
// the file is treated as a broken image and reported as ErrDecode. A
// truncated image is ErrDecode whatever its name. Open and read failures
// are ErrUnreadable.
package dhash
