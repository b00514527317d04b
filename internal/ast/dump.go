package ast

import (
	"regexp"

	"github.com/sanity-io/litter"
)

var dumpOptions = litter.Options{
	StripPackageNames: true,
	HidePrivateFields: true,
	FieldExclusions:   regexp.MustCompile(`^StartToken$`),
}

// Dump renders a tree without token positions.
func Dump(node AstNode) string {
	return dumpOptions.Sdump(node)
}
