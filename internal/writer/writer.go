package writer

import (
	"io"
	"os"

	"github.com/JuneAsz/genfiles/internal/errs"
)

// CreateFile creates path, truncating any existing file.
func CreateFile(path string) (*os.File, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, errs.IO("create", path, err)
	}
	return f, nil
}

// WriteToFile writes all of content to f in a single call. It does not sync;
// durability is whatever Close provides.
func WriteToFile(f *os.File, content string) error {
	n, err := f.WriteString(content)
	if err == nil && n != len(content) {
		err = io.ErrShortWrite
	}
	if err != nil {
		return errs.IO("write", f.Name(), err)
	}
	return nil
}
