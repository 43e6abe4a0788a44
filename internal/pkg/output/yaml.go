package output

import (
	"io"

	"gopkg.in/yaml.v3"
)

// YAMLWriter форматирует Result в YAML.
type YAMLWriter struct{}

// NewYAMLWriter создаёт новый YAMLWriter.
func NewYAMLWriter() *YAMLWriter {
	return &YAMLWriter{}
}

// Write сериализует result в YAML и записывает в w.
func (y *YAMLWriter) Write(w io.Writer, result *Result) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(result); err != nil {
		return err
	}
	return encoder.Close()
}
