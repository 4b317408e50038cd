package importer

import (
	"regexp"
	"strconv"
)

var numericIdentifier = regexp.MustCompile(`^\d+$`)

// Identity is the classified result of a row's two leading columns. A nil
// ID means neither column could be read as a client number; the validator
// rejects such rows.
type Identity struct {
	ID   *int64
	Name string
}

// ClassifyRow disambiguates the identifier column from the name column.
// A purely numeric first cell is the client number and the second cell the
// name. A non-numeric first cell with an empty second cell is treated as
// the name, tolerating files where the identifier column was omitted or
// the columns shifted by one. This is a heuristic, not a schema: a file
// violating both assumptions produces a nil identifier.
func ClassifyRow(col0, col1 any) Identity {
	first := CoerceText(col0)
	second := CoerceText(col1)

	if numericIdentifier.MatchString(first) {
		id, err := strconv.ParseInt(first, 10, 64)
		if err == nil {
			return Identity{ID: &id, Name: second}
		}
	}

	if second == "" {
		return Identity{Name: first}
	}
	return Identity{Name: second}
}
