package diag

import "fmt"

type Code uint16

const (
	UnknownCode Code = 0

	// input files and configuration
	IOReadFailed    Code = 1001
	IODecodeFailed  Code = 1002
	IOWriteFailed   Code = 1003
	IOCacheFailed   Code = 1004
	PrjBadManifest  Code = 1101
	PrjVersionClash Code = 1102

	// scope checks
	SemDuplicateDecl  Code = 2001
	SemUnresolvedName Code = 2002
	SemAssignToVal    Code = 2003
	SemInvalidTarget  Code = 2004

	// folding and lowering
	FoldArithmetic    Code = 3001
	LowUnresolvedName Code = 3101
	LowUnimplemented  Code = 3102
	IRInvalid         Code = 3201
)

var codeDescription = map[Code]string{
	UnknownCode:       "unknown error",
	IOReadFailed:      "cannot read input",
	IODecodeFailed:    "malformed AST file",
	IOWriteFailed:     "cannot write output",
	IOCacheFailed:     "unusable cache entry",
	PrjBadManifest:    "invalid lowc.toml",
	PrjVersionClash:   "tool version does not satisfy project requirement",
	SemDuplicateDecl:  "duplicate declaration",
	SemUnresolvedName: "unresolved identifier",
	SemAssignToVal:    "assignment to val",
	SemInvalidTarget:  "invalid assignment target",
	FoldArithmetic:    "constant arithmetic error",
	LowUnresolvedName: "identifier has no storage",
	LowUnimplemented:  "unimplemented feature",
	IRInvalid:         "invalid IR",
}

// ID renders the stable short form, e.g. SEM2001.
func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 1100:
		return fmt.Sprintf("IO%04d", ic)
	case ic >= 1100 && ic < 2000:
		return fmt.Sprintf("PRJ%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("SEM%04d", ic)
	case ic >= 3000 && ic < 3100:
		return fmt.Sprintf("FLD%04d", ic)
	case ic >= 3100 && ic < 3200:
		return fmt.Sprintf("LOW%04d", ic)
	case ic >= 3200 && ic < 3300:
		return fmt.Sprintf("IR%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	if desc, ok := codeDescription[c]; ok {
		return desc
	}
	return codeDescription[UnknownCode]
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
