// util/files.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package util

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zstd"
	"github.com/vmihailenco/msgpack/v5"
)

var ErrUnknownFileFormat = errors.New("unknown file format; expected .json or .msgpack, optionally with .zst")

// FileFormat identifies how a data file is encoded on disk.
type FileFormat struct {
	MsgPack    bool // JSON otherwise
	Compressed bool // zstd
}

// FormatForPath determines the file's encoding from its extension:
// "airports.json", "fleet.msgpack", and "history.json.zst" are all
// valid.
func FormatForPath(path string) (FileFormat, error) {
	var f FileFormat
	ext := strings.ToLower(filepath.Ext(path))
	if ext == ".zst" {
		f.Compressed = true
		path = strings.TrimSuffix(path, filepath.Ext(path))
		ext = strings.ToLower(filepath.Ext(path))
	}

	switch ext {
	case ".json":
	case ".msgpack":
		f.MsgPack = true
	default:
		return FileFormat{}, fmt.Errorf("%s: %w", path, ErrUnknownFileFormat)
	}
	return f, nil
}

// ReadDataFile returns the contents of the given file, transparently
// decompressing it if it is zstd compressed.
func ReadDataFile(path string) ([]byte, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	if strings.ToLower(filepath.Ext(path)) != ".zst" {
		return b, nil
	}

	zr, err := zstd.NewReader(bytes.NewReader(b), zstd.WithDecoderConcurrency(0))
	if err != nil {
		return nil, err
	}
	defer zr.Close()

	if b, err = io.ReadAll(zr); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return b, nil
}

// DecodeDataFile reads the file at path and decodes it into out using the
// encoding given by its extension. JSON files are first type-checked
// against T so that misspelled keys are reported through e; errors are
// also returned.
func DecodeDataFile[T any](path string, out *T, e *ErrorLogger) error {
	format, err := FormatForPath(path)
	if err != nil {
		return err
	}

	b, err := ReadDataFile(path)
	if err != nil {
		return err
	}

	if format.MsgPack {
		if err := msgpack.Unmarshal(b, out); err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		return nil
	}

	if e != nil {
		e.Push(filepath.Base(path))
		CheckJSON[T](b, e)
		e.Pop()
		if e.HaveErrors() {
			return e.Err()
		}
	}
	if err := UnmarshalJSON(b, out); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

// EncodeDataFile writes obj to path using the encoding given by its
// extension. The file is written to a temporary first and then renamed
// so that readers never see a partial file.
func EncodeDataFile(path string, obj any) error {
	format, err := FormatForPath(path)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	f, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp*")
	if err != nil {
		return err
	}
	defer os.Remove(f.Name())

	err = func() error {
		var w io.Writer = f
		var zw *zstd.Encoder
		if format.Compressed {
			if zw, err = zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedBestCompression)); err != nil {
				return err
			}
			w = zw
		}

		if format.MsgPack {
			err = msgpack.NewEncoder(w).Encode(obj)
		} else {
			enc := json.NewEncoder(w)
			enc.SetIndent("", "    ")
			err = enc.Encode(obj)
		}
		if err != nil {
			return err
		}

		if zw != nil {
			return zw.Close()
		}
		return nil
	}()
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	return os.Rename(f.Name(), path)
}
