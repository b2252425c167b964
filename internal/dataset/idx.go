package dataset

import (
	"bufio"
	"compress/gzip"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
)

// IDX magic numbers.
const (
	imagesMagic = 2051 // 0x00000803
	labelsMagic = 2049 // 0x00000801
)

// images is a decoded IDX image file: count images of rows*cols bytes each,
// stored back to back.
type images struct {
	count      int
	rows, cols int
	pixels     []byte
}

// openIDX opens path, falling back to path+".gz". Gzipped files are
// decompressed transparently.
func openIDX(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		f, err = os.Open(path + ".gz")
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", path, err)
		}
		zr, err := gzip.NewReader(f)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("gzip %s.gz: %w", path, err)
		}
		return &gzipFile{Reader: zr, f: f}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	return f, nil
}

type gzipFile struct {
	*gzip.Reader
	f *os.File
}

func (g *gzipFile) Close() error {
	return errors.Join(g.Reader.Close(), g.f.Close())
}

// readImages decodes an IDX3 image stream, keeping at most limit images
// (limit <= 0 keeps all).
//
//	magic number: 0x00000803 (2051)
//	number of images: 4 bytes
//	number of rows: 4 bytes
//	number of cols: 4 bytes
//	pixel data: unsigned bytes (0-255)
func readImages(r io.Reader, limit int) (*images, error) {
	br := bufio.NewReader(r)

	var header [4]uint32
	if err := binary.Read(br, binary.BigEndian, &header); err != nil {
		return nil, fmt.Errorf("read image header: %w", err)
	}
	if header[0] != imagesMagic {
		return nil, fmt.Errorf("invalid magic number: got %d, want %d", header[0], imagesMagic)
	}

	img := &images{count: int(header[1]), rows: int(header[2]), cols: int(header[3])}
	if limit > 0 && limit < img.count {
		img.count = limit
	}
	img.pixels = make([]byte, img.count*img.rows*img.cols)
	if _, err := io.ReadFull(br, img.pixels); err != nil {
		return nil, fmt.Errorf("read %d images: %w", img.count, err)
	}
	return img, nil
}

// readLabels decodes an IDX1 label stream, keeping at most limit labels.
//
//	magic number: 0x00000801 (2049)
//	number of labels: 4 bytes
//	label data: unsigned bytes
func readLabels(r io.Reader, limit int) ([]byte, error) {
	br := bufio.NewReader(r)

	var header [2]uint32
	if err := binary.Read(br, binary.BigEndian, &header); err != nil {
		return nil, fmt.Errorf("read label header: %w", err)
	}
	if header[0] != labelsMagic {
		return nil, fmt.Errorf("invalid magic number: got %d, want %d", header[0], labelsMagic)
	}

	n := int(header[1])
	if limit > 0 && limit < n {
		n = limit
	}
	labels := make([]byte, n)
	if _, err := io.ReadFull(br, labels); err != nil {
		return nil, fmt.Errorf("read %d labels: %w", n, err)
	}
	return labels, nil
}
