package parser

import (
	"io"
	"mime"
	"strings"

	"golang.org/x/net/html/charset"
)

// NewUTF8Reader wraps body so that it yields UTF-8, converting from the charset
// declared in contentType when there is one.
//
// JSON is UTF-8 unless the server says otherwise, so the content is never sniffed:
// a missing or unparsable Content-Type, or a UTF-8 charset, returns body unchanged.
func NewUTF8Reader(body io.Reader, contentType string) (io.Reader, error) {
	if contentType == "" {
		return body, nil
	}
	_, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		return body, nil
	}
	label := strings.ToLower(strings.TrimSpace(params["charset"]))
	if label == "" || label == "utf-8" || label == "utf8" {
		return body, nil
	}
	return charset.NewReaderLabel(label, body)
}
