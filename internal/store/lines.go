package store

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/obudget/obudget/internal/cipher"
)

const (
	delimiter    = string(cipher.FieldDelimiter)
	maxLineBytes = 1 << 20
)

// lineReader yields decoded lines of an encoded file.
type lineReader struct {
	sc   *bufio.Scanner
	key  int
	line int
	text string
	err  error
}

func newLineReader(r io.Reader, key int) *lineReader {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	return &lineReader{sc: sc, key: key}
}

// Next advances to the next line. It returns false at EOF or on error.
func (lr *lineReader) Next() bool {
	if !lr.sc.Scan() {
		if err := lr.sc.Err(); err != nil {
			lr.err = fmt.Errorf("reading line %d: %w", lr.line+1, err)
		}
		return false
	}
	lr.line++

	text, err := cipher.Decode(lr.sc.Text(), lr.key)
	if err != nil {
		lr.err = malformed(lr.line, "line", err)
		return false
	}
	lr.text = text
	return true
}

// Fields splits the current line on the field delimiter.
func (lr *lineReader) Fields() []string {
	return strings.Split(lr.text, delimiter)
}

func (lr *lineReader) Blank() bool { return lr.text == "" }

func (lr *lineReader) Line() int { return lr.line }

func (lr *lineReader) Err() error { return lr.err }

// encodeLine joins fields, encodes them and appends the line terminator.
// Fields may not contain reserved characters.
func encodeLine(fields []string, key int) (string, error) {
	for i, f := range fields {
		if strings.ContainsAny(f, "\r\n*") {
			return "", fmt.Errorf("field %d %q contains a reserved character", i, f)
		}
	}
	enc, err := cipher.Encode(strings.Join(fields, delimiter), key)
	if err != nil {
		return "", err
	}
	return enc + "\n", nil
}
