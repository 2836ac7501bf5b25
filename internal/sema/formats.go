package sema

import (
	"regexp"
	"strings"
)

// Format names a value-format rule. Rules are keyed by attribute name and
// apply to any tag whose schema declares the attribute.
type Format uint8

const (
	FormatNone Format = iota
	FormatVector3
	FormatNumberOrVector3
	FormatNumber
	FormatBoolean
	FormatColor
	FormatBillboard
	FormatAlignment
)

var attrFormats = map[string]Format{
	"position":        FormatVector3,
	"rotation":        FormatVector3,
	"look-at":         FormatVector3,
	"scale":           FormatNumberOrVector3,
	"visible":         FormatBoolean,
	"billboard":       FormatBillboard,
	"color":           FormatColor,
	"outline-color":   FormatColor,
	"shadow-color":    FormatColor,
	"with-collisions": FormatBoolean,
	"open-ended":      FormatBoolean,
	"text-wrapping":   FormatBoolean,
	"resize-to-fit":   FormatBoolean,
	"loop":            FormatBoolean,
	"play":            FormatBoolean,
	"h-align":         FormatAlignment,
	"v-align":         FormatAlignment,
	"segments":        FormatNumber,
	"arc":             FormatNumber,
	"uvs":             FormatNumber,
	"radius":          FormatNumber,
	"radius-top":      FormatNumber,
	"radius-bottom":   FormatNumber,
	"segments-radial": FormatNumber,
	"segments-height": FormatNumber,
	"outline-width":   FormatNumber,
	"font-size":       FormatNumber,
	"opacity":         FormatNumber,
	"width":           FormatNumber,
	"height":          FormatNumber,
	"line-count":      FormatNumber,
	"shadow-blur":     FormatNumber,
	"shadow-offset-x": FormatNumber,
	"shadow-offset-y": FormatNumber,
	"z-index":         FormatNumber,
	"padding-top":     FormatNumber,
	"padding-right":   FormatNumber,
	"padding-bottom":  FormatNumber,
	"padding-left":    FormatNumber,
	"volume":          FormatNumber,
	"max-length":      FormatNumber,
}

// FormatOf returns the value-format rule for an attribute name.
func FormatOf(name string) Format {
	return attrFormats[name]
}

var (
	hexColor    = regexp.MustCompile(`(?i)^#(?:[0-9a-f]{3}){1,2}$`)
	booleanWord = regexp.MustCompile(`true|false`)
	alignWord   = regexp.MustCompile(`top|right|bottom|left`)
)

// Check returns "" when value satisfies f, otherwise the reason used in the
// "Invalid attribute KEY. REASON." message.
func (f Format) Check(value string) string {
	switch f {
	case FormatVector3:
		if !isVector3(value) {
			return "Must be Vector3Component type"
		}
	case FormatNumberOrVector3:
		if !isVector3(value) && !isNumber(value) {
			return "Must be as number or a Vector3Component type"
		}
	case FormatNumber:
		if !isNumber(value) {
			return "Must be a number"
		}
	case FormatBoolean:
		if !booleanWord.MatchString(value) {
			return "Must be boolean value"
		}
	case FormatColor:
		if !hexColor.MatchString(value) {
			return "Must be hex number color type"
		}
	case FormatBillboard:
		if len(value) != 1 || value[0] < '0' || value[0] > '7' {
			return "Must be number between 0 and 7"
		}
	case FormatAlignment:
		if !alignWord.MatchString(value) {
			return "Must be `top`, `right`, `bottom` or `left`"
		}
	}
	return ""
}

func isVector3(value string) bool {
	fields := strings.Fields(value)
	if len(fields) != 3 {
		return false
	}
	for _, f := range fields {
		if !integerPrefix(f) {
			return false
		}
	}
	return true
}

func isNumber(value string) bool {
	fields := strings.Fields(value)
	return len(fields) == 1 && integerPrefix(fields[0])
}

// integerPrefix accepts a token that starts with an optional sign followed by
// a decimal digit: "12", "-3", "1.5" and "10px" parse, "px" and "-" do not.
func integerPrefix(tok string) bool {
	if tok != "" && (tok[0] == '+' || tok[0] == '-') {
		tok = tok[1:]
	}
	return tok != "" && tok[0] >= '0' && tok[0] <= '9'
}
