package source

import (
	"bufio"
	"io"
	"strings"
)

// TextExtractor handles plain text files. Line endings are normalized to
// \n; otherwise the text passes through untouched so marker offsets stay
// faithful to the upload.
type TextExtractor struct{}

func (e *TextExtractor) Extract(r io.Reader, filename string) (string, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var sb strings.Builder
	for scanner.Scan() {
		sb.WriteString(strings.TrimRight(scanner.Text(), "\r"))
		sb.WriteByte('\n')
	}
	if err := scanner.Err(); err != nil {
		return "", err
	}
	return sb.String(), nil
}
