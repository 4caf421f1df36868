package pipeline

import (
	"io"
	"strconv"
	"strings"
)

func hex(v int) string {
	return strconv.FormatInt(int64(v), 16)
}

func itoa(v int) string {
	return strconv.Itoa(v)
}

func stringsReader(s string) io.Reader {
	return strings.NewReader(s)
}
