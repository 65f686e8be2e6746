package gitrepo

import "strings"

const (
	emptySelectorReasonConstant      = "no file identifiers supplied"
	blankIdentifierReasonConstant    = "file identifier is blank"
	unspecifiedShapeReasonConstant   = "selector shape not specified"
	selectorShapeSingleConstant      = selectorShape("single")
	selectorShapeCollectionConstant  = selectorShape("collection")
	selectorShapeUnspecifiedConstant = selectorShape("")
)

type selectorShape string

// FileSelector is a tagged variant naming either a single file or an ordered
// collection of files for staging operations. The zero value carries no shape
// and is rejected at the operation boundary rather than silently ignored.
type FileSelector struct {
	shape       selectorShape
	identifiers []string
}

// SingleFile builds a selector naming exactly one file.
func SingleFile(fileIdentifier string) FileSelector {
	return FileSelector{shape: selectorShapeSingleConstant, identifiers: []string{fileIdentifier}}
}

// FileList builds a selector naming an ordered collection of files.
func FileList(fileIdentifiers ...string) FileSelector {
	duplicatedIdentifiers := append([]string{}, fileIdentifiers...)
	return FileSelector{shape: selectorShapeCollectionConstant, identifiers: duplicatedIdentifiers}
}

// Paths validates the selector shape and returns the ordered file identifiers.
func (selector FileSelector) Paths() ([]string, error) {
	switch selector.shape {
	case selectorShapeSingleConstant, selectorShapeCollectionConstant:
	default:
		return nil, InvalidSelectorError{Reason: unspecifiedShapeReasonConstant}
	}

	if len(selector.identifiers) == 0 {
		return nil, InvalidSelectorError{Reason: emptySelectorReasonConstant}
	}

	validatedIdentifiers := make([]string, 0, len(selector.identifiers))
	for _, fileIdentifier := range selector.identifiers {
		if len(strings.TrimSpace(fileIdentifier)) == 0 {
			return nil, InvalidSelectorError{Reason: blankIdentifierReasonConstant}
		}
		validatedIdentifiers = append(validatedIdentifiers, fileIdentifier)
	}
	return validatedIdentifiers, nil
}
