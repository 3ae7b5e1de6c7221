package diag

import "fmt"

// Category is the error taxonomy a Code belongs to.
type Category uint8

const (
	CategoryUnknown Category = iota
	CategorySyntax
	CategoryDirective
	CategoryMerge
	CategoryReference
	CategoryClassification
	CategoryAdvisory
)

func (c Category) String() string {
	switch c {
	case CategorySyntax:
		return "SyntaxError"
	case CategoryDirective:
		return "DirectiveError"
	case CategoryMerge:
		return "MergeConflict"
	case CategoryReference:
		return "ReferenceError"
	case CategoryClassification:
		return "ClassificationError"
	case CategoryAdvisory:
		return "Advisory"
	}
	return "Unknown"
}

// Code identifies a specific diagnostic. The thousands digit selects the
// category.
type Code uint16

const (
	UnknownCode Code = 0

	// Syntax.
	SynLexical                Code = 1001
	SynUnexpectedToken        Code = 1002
	SynUnexpectedEOF          Code = 1003
	SynUnsupportedDefinition  Code = 1004
	SynDuplicateArgument      Code = 1005
	SynDuplicateInterfaceName Code = 1006

	// Directives.
	DirUnknown         Code = 2001
	DirMisplaced       Code = 2002
	DirRepeated        Code = 2003
	DirUnknownArgument Code = 2004
	DirMissingArgument Code = 2005
	DirInvalidArgument Code = 2006

	// Merging of partial declarations.
	MergeDuplicateType        Code = 3001
	MergeNoBase               Code = 3002
	MergeKindMismatch         Code = 3003
	MergeEnumExtension        Code = 3004
	MergeDuplicateField       Code = 3005
	MergeDuplicateValue       Code = 3006
	MergeDescription          Code = 3007
	MergeDuplicateInterface   Code = 3008
	MergeDuplicateServerValue Code = 3009
	MergeNameCollision        Code = 3010

	// References.
	RefUndefinedType         Code = 4001
	RefNotInterface          Code = 4002
	RefInvalidArgumentType   Code = 4003
	RefMissingInterfaceField Code = 4004
	RefNoGraphQLType         Code = 4005

	// Classification.
	ClsUnresolvedGraphQLOnly   Code = 5001
	ClsResolveWithoutResolvers Code = 5002
	ClsInterfaceFieldMismatch  Code = 5003
	ClsDuplicateFunction       Code = 5004

	// Advisories.
	AdvDeadType            Code = 6001
	AdvNoServerType        Code = 6002
	AdvMissingResolverFile Code = 6003
	AdvEmptyBinding        Code = 6004
)

// Category returns the taxonomy of the code.
func (c Code) Category() Category {
	switch c / 1000 {
	case 1:
		return CategorySyntax
	case 2:
		return CategoryDirective
	case 3:
		return CategoryMerge
	case 4:
		return CategoryReference
	case 5:
		return CategoryClassification
	case 6:
		return CategoryAdvisory
	}
	return CategoryUnknown
}

// String formats the code as GQL followed by four digits.
func (c Code) String() string {
	return fmt.Sprintf("GQL%04d", uint16(c))
}
