package gitrepo

import (
	"os"
	"path/filepath"
	"strings"
)

const (
	descriptionFileNameConstant        = "description"
	descriptionFilePermissionsConstant = 0o644
	descriptionTrailingNewlineConstant = "\n"
)

// Description reads the repository description file from the metadata
// directory. A missing file reads as an empty description.
func (repository *Repository) Description() (string, error) {
	descriptionContents, readError := os.ReadFile(filepath.Join(repository.GitDirectory(), descriptionFileNameConstant))
	if readError != nil {
		if os.IsNotExist(readError) {
			return "", nil
		}
		return "", readError
	}
	return strings.TrimRight(string(descriptionContents), descriptionTrailingNewlineConstant), nil
}

// SetDescription writes the repository description file, terminating the
// stored text with a single newline.
func (repository *Repository) SetDescription(descriptionText string) error {
	descriptionPath := filepath.Join(repository.GitDirectory(), descriptionFileNameConstant)
	normalizedText := strings.TrimRight(descriptionText, descriptionTrailingNewlineConstant) + descriptionTrailingNewlineConstant
	return os.WriteFile(descriptionPath, []byte(normalizedText), descriptionFilePermissionsConstant)
}
