// Package document holds the format-neutral layout rendered by the pdf and
// spreadsheet providers.
package document

import "time"

type Field struct {
	Label string
	Value string
}

type Table struct {
	Title   string
	Headers []string
	Rows    [][]string
}

type Document struct {
	Title       string
	Subtitle    string
	GeneratedAt time.Time
	Summary     []Field
	Tables      []Table
}
