package services

import "bytes"

// bytesReader wraps a byte slice in a bytes.Reader for use with excelize.OpenReader.
func bytesReader(b []byte) *bytes.Reader {
	return bytes.NewReader(b)
}

// memFile adapts a byte slice to the multipart.File interface so upload
// parsing can be tested without a real HTTP request.
type memFile struct {
	*bytes.Reader
}

func (memFile) Close() error { return nil }

func newMemFile(b []byte) memFile {
	return memFile{bytes.NewReader(b)}
}
