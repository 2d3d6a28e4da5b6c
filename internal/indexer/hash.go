// Package indexer walks a root folder, detects which .docx files changed
// since the last pass, re-parses only those, and replaces their metadata
// rows in a single transaction for the whole pass. Grounded on
// original_source/packages/core/src/commands.rs's index_root.
package indexer

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"io"
	"os"
)

// hashWindowBytes bounds how much of a large file fastFileHash reads: the
// first and last hashWindowBytes, rather than the whole file. Ported from
// fast_file_hash's WINDOW_BYTES; the hash algorithm itself is substituted
// (sha256 in place of blake3, which has no equivalent anywhere in the
// dependency pack - see DESIGN.md).
const hashWindowBytes = 64 * 1024

// fastFileHash hashes a file's length, its first hashWindowBytes, and (for
// files larger than the window) its last hashWindowBytes, so a
// multi-gigabyte file's change detection still costs two bounded reads
// instead of a full scan.
func fastFileHash(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return "", err
	}
	fileLen := info.Size()

	h := sha256.New()
	var lenBytes [8]byte
	binary.LittleEndian.PutUint64(lenBytes[:], uint64(fileLen))
	h.Write(lenBytes[:])

	buf := make([]byte, hashWindowBytes)
	front, err := io.ReadFull(f, buf)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return "", err
	}
	h.Write(buf[:front])

	if fileLen > hashWindowBytes {
		start := fileLen - hashWindowBytes
		if _, err := f.Seek(start, io.SeekStart); err != nil {
			return "", err
		}
		tail := make([]byte, hashWindowBytes)
		n, err := io.ReadFull(f, tail)
		if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
			return "", err
		}
		h.Write(tail[:n])
	}

	return hex.EncodeToString(h.Sum(nil)), nil
}
