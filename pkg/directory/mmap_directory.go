package directory

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/exp/mmap"
)

// MMapDirectory is a memory-mapped Directory backed by a single file on
// disk: a fixed header area followed by the growable body. Reads go through
// a golang.org/x/exp/mmap.ReaderAt exactly as the teacher's SSTable reader
// does; writes go through a plain *os.File kept open alongside it, and the
// mmap handle is reopened after every Flush so subsequent reads observe the
// committed bytes — the same open/sync/reopen discipline the teacher's WAL
// file rotator uses, applied here to a random-access region instead of an
// append-only log.
type MMapDirectory struct {
	name string
	path string

	file   *os.File
	reader *mmap.ReaderAt

	headerBytes int
	capacity    int64
	segmentSize int
}

// NewMMapDirectory creates an unconfigured MMapDirectory rooted at path.
func NewMMapDirectory(name, path string) *MMapDirectory {
	return &MMapDirectory{name: name, path: path, segmentSize: defaultSegmentSize}
}

func (d *MMapDirectory) Name() string { return d.name }

func (d *MMapDirectory) Create(headerBytes, initialBodyBytes int) error {
	if err := os.MkdirAll(filepath.Dir(d.path), 0755); err != nil {
		return fmt.Errorf("mmap directory %s: %w", d.name, err)
	}
	f, err := os.OpenFile(d.path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return fmt.Errorf("mmap directory %s: create: %w", d.name, err)
	}
	d.file = f
	d.headerBytes = headerBytes
	if err := d.growFile(int64(headerBytes) + int64(roundUp(initialBodyBytes, d.segmentSize))); err != nil {
		return err
	}
	d.capacity = int64(initialBodyBytes)
	return d.reopenReader()
}

func (d *MMapDirectory) LoadExisting(headerBytes int) (bool, error) {
	info, err := os.Stat(d.path)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("mmap directory %s: stat: %w", d.name, err)
	}
	f, err := os.OpenFile(d.path, os.O_RDWR, 0644)
	if err != nil {
		return false, fmt.Errorf("mmap directory %s: open: %w", d.name, err)
	}
	d.file = f
	d.headerBytes = headerBytes
	d.capacity = info.Size() - int64(headerBytes)
	if d.capacity < 0 {
		d.capacity = 0
	}
	if err := d.reopenReader(); err != nil {
		return false, err
	}
	return true, nil
}

func (d *MMapDirectory) reopenReader() error {
	if d.reader != nil {
		d.reader.Close()
		d.reader = nil
	}
	r, err := mmap.Open(d.path)
	if err != nil {
		return fmt.Errorf("mmap directory %s: mmap open: %w", d.name, err)
	}
	d.reader = r
	return nil
}

func (d *MMapDirectory) growFile(totalBytes int64) error {
	if err := d.file.Truncate(totalBytes); err != nil {
		return fmt.Errorf("mmap directory %s: truncate: %w", d.name, err)
	}
	return nil
}

// Flush syncs the file and remaps it so the reader observes committed
// writes immediately afterward.
func (d *MMapDirectory) Flush() error {
	if d.file == nil {
		return nil
	}
	if err := d.file.Sync(); err != nil {
		return fmt.Errorf("mmap directory %s: sync: %w", d.name, err)
	}
	return d.reopenReader()
}

func (d *MMapDirectory) Close() error {
	var firstErr error
	if d.reader != nil {
		if err := d.reader.Close(); err != nil {
			firstErr = err
		}
		d.reader = nil
	}
	if d.file != nil {
		if err := d.file.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		d.file = nil
	}
	return firstErr
}

func (d *MMapDirectory) Capacity() int64 { return d.capacity }

func (d *MMapDirectory) IncCapacity(newBytes int64) (bool, error) {
	if newBytes <= d.capacity {
		return false, nil
	}
	needed := int64(d.headerBytes) + int64(roundUp(int(newBytes), d.segmentSize))
	if info, err := d.file.Stat(); err == nil && info.Size() < needed {
		if err := d.growFile(needed); err != nil {
			return false, err
		}
	}
	d.capacity = newBytes
	return true, nil
}

func (d *MMapDirectory) TrimTo(bytes int64) error {
	d.capacity = bytes
	return d.file.Truncate(int64(d.headerBytes) + bytes)
}

func (d *MMapDirectory) GetInt(offset int64) int32 {
	buf := make([]byte, 4)
	d.mustReadAt(buf, int64(d.headerBytes)+offset)
	return int32(ByteOrder.Uint32(buf))
}

func (d *MMapDirectory) SetInt(offset int64, value int32) {
	buf := make([]byte, 4)
	ByteOrder.PutUint32(buf, uint32(value))
	d.mustWriteAt(buf, int64(d.headerBytes)+offset)
}

func (d *MMapDirectory) GetBytes(offset int64, buf []byte) {
	d.mustReadAt(buf, int64(d.headerBytes)+offset)
}

func (d *MMapDirectory) SetBytes(offset int64, buf []byte) {
	d.mustWriteAt(buf, int64(d.headerBytes)+offset)
}

func (d *MMapDirectory) GetHeader(slotOffset int) int32 {
	buf := make([]byte, 4)
	d.mustReadAt(buf, int64(slotOffset))
	return int32(ByteOrder.Uint32(buf))
}

func (d *MMapDirectory) SetHeader(slotOffset int, value int32) {
	buf := make([]byte, 4)
	ByteOrder.PutUint32(buf, uint32(value))
	d.mustWriteAt(buf, int64(slotOffset))
}

func (d *MMapDirectory) SetSegmentSize(bytes int) {
	if bytes > 0 {
		d.segmentSize = bytes
	}
}

// mustReadAt reads through the mmap reader when available (post-Flush,
// post-reopen state); it falls back to the file handle for bytes written
// since the last Flush, mirroring the "reads may lag writes until Sync" rule
// every mmap-backed store in the teacher's lsm package documents.
func (d *MMapDirectory) mustReadAt(buf []byte, absOffset int64) {
	if d.reader != nil {
		if _, err := d.reader.ReadAt(buf, absOffset); err == nil {
			return
		}
	}
	d.file.ReadAt(buf, absOffset)
}

func (d *MMapDirectory) mustWriteAt(buf []byte, absOffset int64) {
	d.file.WriteAt(buf, absOffset)
}

func (d *MMapDirectory) CopyTo(other Directory) error {
	if _, err := other.IncCapacity(d.capacity); err != nil {
		return err
	}
	headerBuf := make([]byte, d.headerBytes)
	d.mustReadAt(headerBuf, 0)
	r := bytes.NewReader(headerBuf)
	for i := 0; i < d.headerBytes; i += 4 {
		var v int32
		binary.Read(r, ByteOrder, &v)
		other.SetHeader(i, v)
	}
	body := make([]byte, d.capacity)
	d.GetBytes(0, body)
	other.SetBytes(0, body)
	return nil
}
