package expr

// BinaryOp is the operator of a Binary node.
type BinaryOp int

const (
	OpAnd BinaryOp = iota
	OpOr
	OpEq
	OpNe
	OpLt
	OpLe
	OpGt
	OpGe
	OpAdd
	OpSub
	OpMul
	OpDiv
	OpMod

	// The operators below are part of the expression language but have no
	// legacy SQL rendering.
	OpXor
	OpCoalesce
	OpPower
	OpBitAnd
	OpBitOr
	OpShiftLeft
	OpShiftRight
)

var binaryOpNames = [...]string{
	OpAnd:        "And",
	OpOr:         "Or",
	OpEq:         "Equal",
	OpNe:         "NotEqual",
	OpLt:         "LessThan",
	OpLe:         "LessThanOrEqual",
	OpGt:         "GreaterThan",
	OpGe:         "GreaterThanOrEqual",
	OpAdd:        "Add",
	OpSub:        "Subtract",
	OpMul:        "Multiply",
	OpDiv:        "Divide",
	OpMod:        "Modulo",
	OpXor:        "ExclusiveOr",
	OpCoalesce:   "Coalesce",
	OpPower:      "Power",
	OpBitAnd:     "BitwiseAnd",
	OpBitOr:      "BitwiseOr",
	OpShiftLeft:  "LeftShift",
	OpShiftRight: "RightShift",
}

func (op BinaryOp) String() string {
	if op >= 0 && int(op) < len(binaryOpNames) {
		return binaryOpNames[op]
	}
	return "BinaryOp(?)"
}

// UnaryOp is the operator of a Unary node.
type UnaryOp int

const (
	OpConvert UnaryOp = iota
	OpNot
	OpNegate
	OpBitNot
)

func (op UnaryOp) String() string {
	switch op {
	case OpConvert:
		return "Convert"
	case OpNot:
		return "Not"
	case OpNegate:
		return "Negate"
	case OpBitNot:
		return "BitwiseNot"
	default:
		return "UnaryOp(?)"
	}
}

// Kind is a primitive type category, used as a cast target.
type Kind int

const (
	KindInvalid Kind = iota
	KindBool
	KindInt8
	KindInt16
	KindInt32
	KindInt64
	KindUint8
	KindUint16
	KindUint32
	KindUint64
	KindFloat32
	KindFloat64
	KindDecimal
	KindString
	KindChar
	KindTime
	KindBytes
	KindRecord
)

var kindNames = [...]string{
	KindInvalid: "invalid",
	KindBool:    "bool",
	KindInt8:    "int8",
	KindInt16:   "int16",
	KindInt32:   "int32",
	KindInt64:   "int64",
	KindUint8:   "uint8",
	KindUint16:  "uint16",
	KindUint32:  "uint32",
	KindUint64:  "uint64",
	KindFloat32: "float32",
	KindFloat64: "float64",
	KindDecimal: "decimal",
	KindString:  "string",
	KindChar:    "char",
	KindTime:    "time",
	KindBytes:   "bytes",
	KindRecord:  "record",
}

func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "kind(?)"
}

// ParseKind maps a kind name ("int64", "string", ...) back to its Kind.
func ParseKind(name string) (Kind, bool) {
	for k, n := range kindNames {
		if n == name && Kind(k) != KindInvalid {
			return Kind(k), true
		}
	}
	return KindInvalid, false
}
