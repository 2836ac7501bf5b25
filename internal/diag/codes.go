package diag

import (
	"fmt"
)

type Code uint16

const (
	UnknownCode Code = 0

	// Синтаксические: грамматика + канонизация
	SynInfo             Code = 2000
	SynTagNotClosed     Code = 2001
	SynInvalidAttribute Code = 2002
	SynUnclosedComment  Code = 2003
	SynUnexpectedInput  Code = 2004
	SynMalformedTag     Code = 2005

	// Семантические
	SemaInfo               Code = 3000
	SemaInvalidRoot        Code = 3001
	SemaUnknownTag         Code = 3002
	SemaMissingAttribute   Code = 3003
	SemaInvalidValue       Code = 3004
	SemaDuplicateID        Code = 3005
	SemaUnresolvedMaterial Code = 3006
	SemaUnknownAttribute   Code = 3007

	// I/O
	IOLoadFileError Code = 4001
	IOCacheError    Code = 4002

	// Observability
	ObsInfo    Code = 6000
	ObsTimings Code = 6001
)

var codeDescription = map[Code]string{
	UnknownCode:            "Unknown error",
	SynInfo:                "Syntax information",
	SynTagNotClosed:        "Tag is not closed",
	SynInvalidAttribute:    "Invalid attribute",
	SynUnclosedComment:     "Unterminated comment",
	SynUnexpectedInput:     "Unexpected input",
	SynMalformedTag:        "Malformed tag",
	SemaInfo:               "Semantic information",
	SemaInvalidRoot:        "Invalid document root",
	SemaUnknownTag:         "Unknown tag",
	SemaMissingAttribute:   "Missing required attribute",
	SemaInvalidValue:       "Invalid attribute value",
	SemaDuplicateID:        "Duplicated id",
	SemaUnresolvedMaterial: "Unresolved material reference",
	SemaUnknownAttribute:   "Unknown attribute",
	IOLoadFileError:        "I/O load file error",
	IOCacheError:           "Cache error",
	ObsInfo:                "Observability information",
	ObsTimings:             "Pipeline timings",
}

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("SYN%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("SEM%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("IO%04d", ic)
	case ic >= 6000 && ic < 7000:
		return fmt.Sprintf("OBS%04d", ic)
	}
	return "E0000"
}

// IsSyntax reports whether c belongs to the grammar/canonicalizer range.
func (c Code) IsSyntax() bool {
	return c >= 2000 && c < 3000
}

// IsSemantic reports whether c was produced by the validator.
func (c Code) IsSemantic() bool {
	return c >= 3000 && c < 4000
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[UnknownCode]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
