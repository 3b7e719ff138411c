package reader

// Kind distinguishes the three shapes a reader Item can take.
type Kind int

const (
	// KindStatement is a logical statement line: continuation-joined,
	// comment-stripped, with any leading numeric label and construct-name
	// prefix already extracted.
	KindStatement Kind = iota

	// KindComment is a standalone comment line, surfaced only when the
	// reader was constructed with PreserveComments.
	KindComment

	// KindEOF marks end of stream. Item.Text is empty for KindEOF.
	KindEOF
)

// Item is one unit the reader yields: a statement, a comment, or
// end-of-stream.
type Item struct {
	Kind Kind

	// Text is the logical (continuation-joined, comment-stripped) line for
	// KindStatement, or the comment text (including the leading "!") for
	// KindComment.
	Text string

	// Label is the numeric label extracted from the start of a statement
	// (R313), or "" if none was present.
	Label string

	// ConstructName is the `name:` construct-name prefix extracted from the
	// start of a statement, or "" if none was present.
	ConstructName string

	// File is the originating file name, or "" for in-memory input.
	File string

	// Line is the 1-based physical line number of the first physical line
	// that contributed to this logical item. Error reporting always uses
	// this, never a joined logical line number.
	Line int

	// FirstPhysicalLine is the untouched first physical line of text this
	// item was built from, used to render syntax-error fragments.
	FirstPhysicalLine string
}

// EOF is the end-of-stream sentinel item.
var EOF = Item{Kind: KindEOF}
