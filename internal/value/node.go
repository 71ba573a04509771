package value

// NodeKind tags the literal shape an Interval was parsed from, so toString
// can re-derive the original notation instead of always falling back to a
// canonical rational printout: spec 3.3, 4.2.1, 4.4.
type NodeKind int

const (
	NoNode NodeKind = iota
	IntegerLiteral
	FractionLiteral
	DecimalLiteral
	NedjiLiteral
	CentsLiteral
	MonzoLiteral
	FJS
	AbsoluteFJS
	HertzLiteral
	SecondLiteral
	RadicalLiteral
	SquareSuperparticular
	StepLiteral
	AspiringFJS
	AspiringAbsoluteFJS
	TrueLiteral
	FalseLiteral
	CentLiteral
	ValLiteral
	WartsLiteral
	SparseOffsetLiteral
)

// Node carries the literal-shape metadata needed to reprint an Interval in
// its original notation. Only the fields relevant to Kind are populated;
// this mirrors the AST's own literal node shapes (internal/ast) but lives on
// the Value side so evaluation never needs to consult the AST after the
// fact.
type Node struct {
	Kind NodeKind

	// FractionLiteral / RadicalLiteral
	Numerator, Denominator int64

	// NedjiLiteral: numerator\divisions<equaveNum/equaveDen>
	NedjiNumerator, NedjiDivisions            int64
	NedjiEquaveNumerator, NedjiEquaveDenom     int64
	NedjiHasEquave                             bool

	// DecimalLiteral
	DecimalText string
	DecimalReal bool // "r" flavor: precise-real, not "e" fractional-cents style

	// CentsLiteral / CentLiteral
	CentsText string
	CentsReal bool

	// MonzoLiteral / ValLiteral
	VectorText string
	BasisText  string

	// FJS / AbsoluteFJS / AspiringFJS / AspiringAbsoluteFJS
	Nominal      byte // 'A'..'G' for absolute forms
	Octave       int
	Accidentals  string // sequence of raw accidental glyphs, in source order
	Ups, Lifts   int
	SuperscriptCommas []FJSComma
	SubscriptCommas   []FJSComma

	// HertzLiteral / SecondLiteral
	UnitScale float64 // e.g. 1e3 for "kHz"/"ms" style prefixes
	UnitName  string

	// StepLiteral
	StepDivisions int64 // "7\" has no explicit divisor; context fills it

	// SquareSuperparticular: "S9" == (9/8)/(10/9) squared-superparticular shorthand
	SquareIndex int64

	// WartsLiteral / SparseOffsetLiteral
	Edo        int
	WartText   string
	SparseText string
}

// FJSComma names one prime/flavor pair inflecting an FJS interval, with its
// exponent (how many times the comma is applied).
type FJSComma struct {
	Prime  int64
	Count  int64
	Flavor string
}
