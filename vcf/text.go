// Copyright (c) Facebook, Inc. and its affiliates. All Rights Reserved

package vcf

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/vertgenlab/gonomics/fileio"
)

// readBufferSize fits typical VCF rows of a few thousand samples
const readBufferSize = 1 << 16

// OpenText opens a plain or .gz text file.
func OpenText(path string) (er *fileio.EasyReader, err error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("cannot open file %s: %w", path, err)
	}
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("cannot open file %s: %v", path, p)
		}
	}()
	return fileio.EasyOpen(path), nil
}

// TextReader reads lines from r.  The result must not be closed.
func TextReader(r io.Reader) *fileio.EasyReader {
	return &fileio.EasyReader{BuffReader: bufio.NewReaderSize(r, readBufferSize)}
}

// CreateText creates path for writing, gzip compressed if it ends in .gz.
// "stdout" writes to standard output.
func CreateText(path string) (ew *fileio.EasyWriter, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("cannot create file %s: %v", path, p)
		}
	}()
	return fileio.EasyCreate(path), nil
}

// NextLine returns the next line without its terminator, or done at the
// end of input.  Read failures, including a last line lacking its newline,
// are returned as errors.
func NextLine(er *fileio.EasyReader) (line string, done bool, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("read failed: %v", p)
		}
	}()
	line, done = fileio.EasyNextLine(er)
	return strings.TrimSuffix(line, "\r"), done, nil
}

// EachLine calls fn with every line of er that is neither blank nor a #
// comment, along with its 1-based line number.
func EachLine(er *fileio.EasyReader, fn func(n int, line string) error) error {
	for n := 1; ; n++ {
		line, done, err := NextLine(er)
		if err != nil {
			return fmt.Errorf("line %d: %w", n, err)
		}
		if done {
			return nil
		}
		if line == "" || line[0] == '#' {
			continue
		}
		if err := fn(n, line); err != nil {
			return err
		}
	}
}
