package parser

import "scenepatch/internal/catalog"

// PositionSource records where an object's position was read from.
type PositionSource int

const (
	PosNone PositionSource = iota
	PosChainedMove
	PosSeparateMove
	PosVariable
)

func (ps PositionSource) String() string {
	switch ps {
	case PosChainedMove:
		return "chained-move"
	case PosSeparateMove:
		return "separate-move"
	case PosVariable:
		return "variable"
	default:
		return "none"
	}
}

// CallSpan records the byte extent of one .method(...) call in the source
// text. Dot is the index of the '.' introducing the call; Open and Close
// bound the argument parentheses.
type CallSpan struct {
	Method  string
	Chained bool
	Dot     int
	Open    int
	Close   int
}

// Object is the recovered model of one declared scene object. All spans
// index into the Scene's Source and are valid only for that exact text.
type Object struct {
	Name     string
	Type     string
	Category catalog.Category

	// Args is the constructor argument text, Source[ArgStart:ArgEnd].
	Args     string
	ArgStart int
	ArgEnd   int

	// NameStart is the index of the declaring name; ChainEnd is just past
	// the last chained call of the constructor statement.
	NameStart int
	ChainEnd  int

	TextLike       bool
	GroupLike      bool
	Scalable       bool
	AbsoluteCoords bool

	Children         []string
	Descendants      []string
	Parent           string
	ChildrenAbsolute bool

	Position       [3]float64
	PositionSource PositionSource
	PosVar         string
	PosVarPrivate  bool

	Scale float64

	Width          float64
	OrigWidth      float64
	Height         float64
	OrigHeight     float64
	SideLength     float64
	OrigSideLength float64
	Radius         float64
	OrigRadius     float64

	FontSize     float64
	OrigFontSize float64
	Color        string
	OrigColor    string

	// Position-governing call spans, used by the mutator's strategy chain.
	ChainedPos    *CallSpan
	SeparatePos   *CallSpan
	ChainedScale  *CallSpan
	SeparateScale *CallSpan

	Modified map[string]bool
}

// MarkModified flags one mutable property as dirty.
func (o *Object) MarkModified(prop string) {
	if o.Modified == nil {
		o.Modified = make(map[string]bool)
	}
	o.Modified[prop] = true
}

// PositionVar is a separately declared literal coordinate later passed
// into a move-to call.
type PositionVar struct {
	Name     string
	Value    [3]float64
	Resolved bool

	// RefCount counts objects referencing the variable through a move-to.
	RefCount int

	// ArrayForm distinguishes p = np.array([...]) from a bare list.
	ArrayForm bool

	// AssignStart/AssignEnd bound the bracketed literal (including the
	// brackets) inside the variable's own assignment.
	AssignStart int
	AssignEnd   int
	LineStart   int
	LineEnd     int

	Private bool
}

// Animation is one top-level animation-invoking statement.
type Animation struct {
	Index int
	Line  int

	// Args is the argument text of the call; Start/End bound the whole
	// statement from its line start through the closing parenthesis.
	Args     string
	Start    int
	End      int
	ArgOpen  int
	ArgClose int

	Kind     string
	Targets  []string
	Expanded []string

	// Preview is whitespace-collapsed and length-capped, display only.
	Preview string
}

// Scene is the full extraction result over one immutable text snapshot.
type Scene struct {
	Source     string
	Objects    []*Object
	ByName     map[string]*Object
	Vars       map[string]*PositionVar
	Animations []*Animation
}

// Lookup returns the object with the given name, or nil.
func (s *Scene) Lookup(name string) *Object {
	return s.ByName[name]
}

// ClearModified resets every object's modified flags, called after a
// successful write-back.
func (s *Scene) ClearModified() {
	for _, o := range s.Objects {
		o.Modified = nil
	}
}
