package puzzle

import (
	"fmt"
)

/*

Errors

Errors describe problems creating sessions or servicing requests.
They carry a coded scope/attribute/condition so clients can localize
their own messaging, and render a plain English message on demand.

Player edits are deliberately not in this taxonomy: an edit that
targets a fixed cell or an out-of-range index is an expected input
race and is silently ignored by the session, and a wrong entry is
data (the cell's conflict flag), not an error.

*/

// An Error describes a problem with a session or a requested
// operation.  It tells the client "this thing failed to meet this
// condition" with supplemental details about both.
type Error struct {
	Scope     ErrorScope     `json:"scope"`
	Attribute ErrorAttribute `json:"attribute,omitempty"`
	Condition ErrorCondition `json:"condition,omitempty"`
	Values    ErrorData      `json:"values,omitempty"`
	Message   string         `json:"message,omitempty"` // custom message
}

// An ErrorScope explains what type of thing the error refers to: a
// client request, an argument, the generation pipeline, the session
// state, or the implementation itself.
type ErrorScope int

// Constants for the various error scopes.
const (
	UnknownScope ErrorScope = iota
	RequestScope
	ArgumentScope
	GenerationScope
	SessionScope
	InternalScope
	MaxScope
)

// An ErrorAttribute names the attribute that has a problem.
type ErrorAttribute int

// Constants for the various attribute codes.
const (
	UnknownAttribute ErrorAttribute = iota
	DecodeAttribute
	EncodeAttribute
	URLAttribute
	LocationAttribute
	IndexAttribute
	ValueAttribute
	SeedAttribute
	DifficultyAttribute
	MaxAttribute
)

// The ErrorCondition is the predicate that the scope or attribute
// failed to satisfy.
type ErrorCondition int

// Constants for the various error conditions.
const (
	UnknownCondition ErrorCondition = iota
	GeneralCondition
	TooLargeCondition
	TooSmallCondition
	UnknownDifficultyCondition
	ExhaustedSearchCondition
	NotCompleteCondition
	MaxCondition
)

// The ErrorData provides details about the thing that failed to
// meet the predicate, such as the offending value and the limit it
// broke.  Every item must be JSON-serializable so it can be
// returned to web clients; there is no way to make the compiler
// check that, so implementors have to do the right thing.
type ErrorData []interface{}

// Error returns an error string for an Error.  If the Error has a
// pre-canned message it is used; otherwise an appropriate (English,
// non-localized) message is produced from the codes.
func (e Error) Error() string {
	es := e.Message
	if len(es) > 0 {
		return es
	}
	values := e.Values
	nextVal := func() interface{} {
		if len(values) == 0 {
			return "<unknown>"
		}
		val := values[0]
		values = values[1:]
		return val
	}
	switch e.Scope {
	case RequestScope:
		es = "Invalid request: "
	case ArgumentScope:
		es = "Invalid argument: "
	case GenerationScope:
		es = "Generation failure: "
	case SessionScope:
		es = "Invalid session operation: "
	case InternalScope:
		es = "Internal logic error: "
	default:
		es = "Unknown error: "
	}
	switch e.Attribute {
	case UnknownAttribute:
		// no attribute detail
	case DecodeAttribute:
		es += "JSON decode error: "
	case EncodeAttribute:
		es += "JSON encode error: "
	case URLAttribute:
		es += "Resource path: "
	case LocationAttribute:
		es += fmt.Sprintf("In puzzle.%v: ", nextVal())
	case IndexAttribute:
		es += "Index: "
	case ValueAttribute:
		es += "Value: "
	case SeedAttribute:
		es += "Seed: "
	case DifficultyAttribute:
		es += "Difficulty: "
	default:
		es += "<unknown attribute>: "
	}
	switch e.Condition {
	case GeneralCondition:
		es += fmt.Sprint(nextVal())
	case TooLargeCondition:
		es += fmt.Sprintf("%v must be at most %v", nextVal(), nextVal())
	case TooSmallCondition:
		es += fmt.Sprintf("%v must be at least %v", nextVal(), nextVal())
	case UnknownDifficultyCondition:
		val := nextVal()
		if name, ok := val.(string); ok {
			es += fmt.Sprintf("%q is not a known difficulty", name)
		} else {
			es += fmt.Sprintf("%v is not a known difficulty", val)
		}
	case ExhaustedSearchCondition:
		es += fmt.Sprintf("Backtracking exhausted after %v attempts", nextVal())
	case NotCompleteCondition:
		es += "Session is not complete"
	default:
		es += fmt.Sprintf("Supplemental data is %v", values)
	}
	return es
}

// rangeError returns an Error describing an out-of-range argument.
func rangeError(attr ErrorAttribute, val, min, max int) Error {
	err := Error{
		Scope:     ArgumentScope,
		Attribute: attr,
		Condition: TooLargeCondition,
		Values:    ErrorData{val, max},
	}
	if val < min {
		err.Condition = TooSmallCondition
		err.Values[1] = min
	}
	return err
}

// generationError returns the Error reported when every generation
// attempt exhausted its backtracking search.
func generationError(attempts int) Error {
	return Error{
		Scope:     GenerationScope,
		Condition: ExhaustedSearchCondition,
		Values:    ErrorData{attempts},
	}
}
