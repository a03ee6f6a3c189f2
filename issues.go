package chef

import (
	"fmt"
)

// UnsupportedFileFormat creates an error with a descriptive text and returns it.
func UnsupportedFileFormat(path string) error {
	return fmt.Errorf(`file '%s' is not in a supported format (yaml, json or toml)`, path)
}

// UnsupportedFormatName creates an error with a descriptive text and returns it.
func UnsupportedFormatName(format string) error {
	return fmt.Errorf(`'%s' is not a supported format (yaml, json or toml)`, format)
}

// UnknownRendering creates an error with a descriptive text and returns it.
func UnknownRendering(renderAs string) error {
	return fmt.Errorf(`unknown rendering '%s'`, renderAs)
}

// NoDocuments creates an error with a descriptive text and returns it.
func NoDocuments() error {
	return fmt.Errorf(`at least one document is required`)
}
