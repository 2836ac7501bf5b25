package grammar

// Kind classifies raw parse-tree tokens.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindDocument
	KindTag
	KindName
	KindClosingName
	KindAttribute
	KindString
	KindComment
	KindSelfClose
	KindBody
	// KindSyntaxError is a synthetic token left where a committed rule failed.
	KindSyntaxError
)

var kindNames = [...]string{
	KindInvalid:     "Invalid",
	KindDocument:    "Document",
	KindTag:         "Tag",
	KindName:        "Name",
	KindClosingName: "ClosingName",
	KindAttribute:   "Attribute",
	KindString:      "String",
	KindComment:     "Comment",
	KindSelfClose:   "SelfClose",
	KindBody:        "Body",
	KindSyntaxError: "SyntaxError",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "Kind(?)"
}
