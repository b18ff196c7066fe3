package output

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
)

const (
	savedMessageFormat      = "Todo list saved to: %s\n"
	errorCreateParentFormat = "creating directory %s: %w"
	errorWriteOutputFormat  = "writing %s: %w"
)

// WriteToFile stores content at destinationPath, creating missing parent directories.
// The file always ends with a newline.
func WriteToFile(content string, destinationPath string) error {
	parentDirectory := filepath.Dir(destinationPath)
	if mkdirError := os.MkdirAll(parentDirectory, 0o755); mkdirError != nil {
		return fmt.Errorf(errorCreateParentFormat, parentDirectory, mkdirError)
	}
	if !strings.HasSuffix(content, lineSeparator) {
		content += lineSeparator
	}
	if writeError := os.WriteFile(destinationPath, []byte(content), 0o644); writeError != nil {
		return fmt.Errorf(errorWriteOutputFormat, destinationPath, writeError)
	}
	return nil
}

// ReportSaved prints the save confirmation, highlighted when colorEnabled is set.
func ReportSaved(writer io.Writer, destinationPath string, colorEnabled bool) {
	highlighter := color.New(color.FgGreen)
	if colorEnabled {
		highlighter.EnableColor()
	} else {
		highlighter.DisableColor()
	}
	highlighter.Fprintf(writer, savedMessageFormat, destinationPath)
}
