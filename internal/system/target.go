package system

import (
	"io"
	"os"

	"github.com/cockroachdb/errors"

	"wipecore/internal/wipe"
)

// Target открытая для записи цель затирания: обычный файл или устройство.
// Реализует wipe.Target и wipe.Syncer.
type Target struct {
	File *os.File
	Path string
	Size int64
	Kind wipe.TargetKind
}

// OpenTarget открывает path на чтение и запись и определяет его длину
func OpenTarget(path string) (*Target, error) {
	if isDevicePath(path) {
		return openDevice(path)
	}

	fi, err := os.Stat(path)
	if err != nil {
		return nil, errors.Wrapf(err, "could not read metadata for '%s'", path)
	}

	switch {
	case fi.Mode().IsRegular():
		return openRegular(path, fi)
	case fi.Mode()&os.ModeDevice != 0:
		return openDevice(path)
	default:
		return nil, errors.Wrapf(ErrNotRegular, "'%s'", path)
	}
}

func openRegular(path string, fi os.FileInfo) (*Target, error) {
	if fi.Size() == 0 {
		return nil, errors.Wrapf(ErrEmptyTarget, "'%s'", path)
	}

	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return nil, errors.Wrapf(err, "could not open '%s' for writing", path)
	}

	return &Target{
		File: f,
		Path: path,
		Size: fi.Size(),
		Kind: wipe.TargetFile,
	}, nil
}

// sizeBySeek: запасной способ узнать длину устройства
func sizeBySeek(f *os.File) (int64, error) {
	end, err := f.Seek(0, io.SeekEnd)
	if err != nil {
		return 0, errors.Wrap(err, "seek to end")
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return 0, errors.Wrap(err, "seek to start")
	}
	return end, nil
}

func (t *Target) Write(p []byte) (int, error) {
	return t.File.Write(p)
}

func (t *Target) Seek(offset int64, whence int) (int64, error) {
	return t.File.Seek(offset, whence)
}

func (t *Target) Read(p []byte) (int, error) {
	return t.File.Read(p)
}

func (t *Target) Sync() error {
	return t.File.Sync()
}

func (t *Target) Close() error {
	if t.File == nil {
		return nil
	}
	return t.File.Close()
}
