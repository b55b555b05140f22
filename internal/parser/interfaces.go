package parser

import "io"

// Parser defines a generic interface for decoding a catalog payload into display objects
type Parser[T any] interface {
	Parse(body io.Reader) ([]T, error)
}
