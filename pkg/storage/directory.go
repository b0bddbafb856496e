package storage

import (
	"bytes"
	"encoding/binary"
	"io"

	"github.com/cockroachdb/pebble"
	"github.com/cockroachdb/pebble/vfs"
	"github.com/dsnet/compress/bzip2"
)

// Directory is a key-value store for preprocessing artifacts. Backed by
// pebble, either purely in memory or persisted under a directory on disk.
// Values are bzip2-compressed blobs.
type Directory struct {
	db *pebble.DB
}

// NewRAMDirectory opens a directory that lives entirely in memory.
func NewRAMDirectory() (*Directory, error) {
	db, err := pebble.Open("", &pebble.Options{FS: vfs.NewMem()})
	if err != nil {
		return nil, err
	}
	return &Directory{db: db}, nil
}

// NewDiskDirectory opens (or creates) a directory persisted under path.
func NewDiskDirectory(path string) (*Directory, error) {
	db, err := pebble.Open(path, &pebble.Options{})
	if err != nil {
		return nil, err
	}
	return &Directory{db: db}, nil
}

func (d *Directory) Close() error {
	return d.db.Close()
}

// Has reports whether key exists in the directory.
func (d *Directory) Has(key string) (bool, error) {
	_, closer, err := d.db.Get([]byte(key))
	if err == pebble.ErrNotFound {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	closer.Close()
	return true, nil
}

// PutString stores a utf-8 string under key.
func (d *Directory) PutString(key, val string) error {
	return d.putBlob(key, []byte(val))
}

// GetString loads the string stored under key.
func (d *Directory) GetString(key string) (string, error) {
	bb, err := d.getBlob(key)
	if err != nil {
		return "", err
	}
	return string(bb), nil
}

// PutUint32Array stores a uint32 slice under key.
func (d *Directory) PutUint32Array(key string, vals []uint32) error {
	bb := make([]byte, 4+4*len(vals))
	binary.LittleEndian.PutUint32(bb[0:4], uint32(len(vals)))
	for i, v := range vals {
		binary.LittleEndian.PutUint32(bb[4+4*i:], v)
	}
	return d.putBlob(key, bb)
}

// GetUint32Array loads the uint32 slice stored under key.
func (d *Directory) GetUint32Array(key string) ([]uint32, error) {
	bb, err := d.getBlob(key)
	if err != nil {
		return nil, err
	}
	if len(bb) < 4 {
		return nil, io.ErrUnexpectedEOF
	}
	n := int(binary.LittleEndian.Uint32(bb[0:4]))
	if len(bb) < 4+4*n {
		return nil, io.ErrUnexpectedEOF
	}
	vals := make([]uint32, n)
	for i := range vals {
		vals[i] = binary.LittleEndian.Uint32(bb[4+4*i:])
	}
	return vals, nil
}

func (d *Directory) putBlob(key string, bb []byte) error {
	var buf bytes.Buffer
	bz, err := bzip2.NewWriter(&buf, &bzip2.WriterConfig{})
	if err != nil {
		return err
	}
	if _, err := bz.Write(bb); err != nil {
		bz.Close()
		return err
	}
	if err := bz.Close(); err != nil {
		return err
	}
	return d.db.Set([]byte(key), buf.Bytes(), pebble.Sync)
}

func (d *Directory) getBlob(key string) ([]byte, error) {
	compressed, closer, err := d.db.Get([]byte(key))
	if err != nil {
		return nil, err
	}
	defer closer.Close()

	bz, err := bzip2.NewReader(bytes.NewReader(compressed), nil)
	if err != nil {
		return nil, err
	}
	defer bz.Close()

	return io.ReadAll(bz)
}

// ErrNotFound is returned by Get* when a key is missing.
var ErrNotFound = pebble.ErrNotFound
