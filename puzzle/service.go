package puzzle

import (
	"encoding/json"
	"fmt"
	"net/http"
)

/*

RESTful wrappers

These handlers give the session operations a JSON web form, so
servers can route straight to them.  Each handler both answers the
HTTP client and returns the interesting result (or error) to its
golang caller, which is the one holding the session table.

*/

// A NewGameRequest is the POST body for creating a session.
// Difficulty is optional (empty means medium); Seed is optional and
// pins generation for replay or testing.
type NewGameRequest struct {
	Difficulty string `json:"difficulty,omitempty"`
	Seed       *int64 `json:"seed,omitempty"`
}

// An Update is the response to an edit: whether the edit was
// applied (ignored edits are reported, not errored) and the
// resulting board snapshot.
type Update struct {
	Applied bool  `json:"applied"`
	Board   Board `json:"board"`
}

// NewHandler is a POST handler that reads a JSON-encoded
// NewGameRequest from the request body and generates a session for
// it.  The new session's Board is sent as a 200 response, and the
// session itself is returned to the golang caller.  Decode and
// generation failures are sent as 400/500 responses and returned as
// errors.
func NewHandler(w http.ResponseWriter, r *http.Request, opts ...Option) (*Session, error) {
	var req NewGameRequest
	if r.Body != nil && r.ContentLength != 0 {
		if e := json.NewDecoder(r.Body).Decode(&req); e != nil {
			return nil, writeError(requestDecodingError, ErrorData{e.Error()}, w, r)
		}
	}
	d, e := ParseDifficulty(req.Difficulty)
	if e != nil {
		err := e.(Error)
		err.Message = err.Error()
		return nil, writeJSON(err, http.StatusBadRequest, w, r)
	}
	if req.Seed != nil {
		opts = append(opts, WithSeed(*req.Seed))
	}
	s, e := NewSession(d, opts...)
	if e != nil {
		err, ok := e.(Error)
		if !ok {
			return nil, writeError(errorFormatError, ErrorData{"NewHandler", e.Error()}, w, r)
		}
		err.Message = err.Error()
		return nil, writeJSON(err, http.StatusInternalServerError, w, r)
	}
	return s, writeJSON(s.Board(), http.StatusOK, w, r)
}

// StateHandler responds with the session's Board snapshot.
func (s *Session) StateHandler(w http.ResponseWriter, r *http.Request) error {
	if s == nil {
		return writeError(noSessionError, ErrorData{r.URL.Path, "No session"}, w, r)
	}
	return writeJSON(s.Board(), http.StatusOK, w, r)
}

// AssignHandler is a POST handler that applies a posted Choice to
// the session: a nonzero value sets the cell, a zero value clears
// it.  The poster and the caller both get the Update (or the
// decode error).  An out-of-range index or value is a 400 range
// Error; an in-range edit the session ignores (a fixed cell, a
// finished game) is still a 200, with the Update saying Applied
// false.
func (s *Session) AssignHandler(w http.ResponseWriter, r *http.Request) (*Update, error) {
	if s == nil {
		return nil, writeError(noSessionError, ErrorData{r.URL.Path, "No session"}, w, r)
	}
	var choice Choice
	if e := json.NewDecoder(r.Body).Decode(&choice); e != nil {
		return nil, writeError(requestDecodingError, ErrorData{e.Error()}, w, r)
	}
	if !inBounds(choice.Index) {
		err := rangeError(IndexAttribute, choice.Index, 0, CellCount-1)
		err.Message = err.Error()
		return nil, writeJSON(err, http.StatusBadRequest, w, r)
	}
	if choice.Value < 0 || choice.Value > SideLength {
		err := rangeError(ValueAttribute, choice.Value, 0, SideLength)
		err.Message = err.Error()
		return nil, writeJSON(err, http.StatusBadRequest, w, r)
	}
	var applied bool
	if choice.Value == 0 {
		applied = s.ClearCell(choice.Index)
	} else {
		applied = s.SetCell(choice.Index, choice.Value)
	}
	update := &Update{Applied: applied, Board: s.Board()}
	return update, writeJSON(update, http.StatusOK, w, r)
}

// ScoreHandler responds with the session's ScoreEvent once the
// session is complete, and with a 409 Error before that.
func (s *Session) ScoreHandler(w http.ResponseWriter, r *http.Request) error {
	if s == nil {
		return writeError(noSessionError, ErrorData{r.URL.Path, "No session"}, w, r)
	}
	score, ok := s.Score()
	if !ok {
		err := Error{Scope: SessionScope, Condition: NotCompleteCondition}
		err.Message = err.Error()
		return writeJSON(err, http.StatusConflict, w, r)
	}
	return writeJSON(ScoreEvent{Score: score, Order: HigherIsBetter}, http.StatusOK, w, r)
}

/*

Utilities

*/

type handlerError int

const (
	requestDecodingError handlerError = iota
	responseEncodingError
	noSessionError
	errorFormatError
)

// writeError sends back a server error of the given type, sort of
// like http.Error, but it sends the JSON form of an appropriate
// Error.
func writeError(et handlerError, ed ErrorData, w http.ResponseWriter, r *http.Request) error {
	var err Error
	var status int
	switch et {
	case requestDecodingError:
		status = http.StatusBadRequest
		err = Error{
			Scope:     RequestScope,
			Attribute: DecodeAttribute,
			Condition: GeneralCondition,
			Values:    ed,
		}
	case responseEncodingError:
		status = http.StatusInternalServerError
		err = Error{
			Scope:     InternalScope,
			Attribute: EncodeAttribute,
			Condition: GeneralCondition,
			Values:    ed,
		}
	case noSessionError:
		status = http.StatusNotFound
		err = Error{
			Scope:     RequestScope,
			Attribute: URLAttribute,
			Condition: GeneralCondition,
			Values:    ed,
		}
	default:
		status = http.StatusInternalServerError
		err = Error{
			Scope:     InternalScope,
			Attribute: LocationAttribute,
			Condition: GeneralCondition,
			Values:    ed,
		}
	}
	err.Message = err.Error()
	return writeJSON(err, status, w, r)
}

// writeJSON encodes and sends the client response.  It returns an
// appropriate error for the handler to pass to its caller: an
// encoding Error if serialization failed, the sent Error when the
// response was itself an Error, and nil otherwise.
func writeJSON(obj interface{}, status int, w http.ResponseWriter, r *http.Request) error {
	err, isErr := obj.(Error)
	bytes, e := json.Marshal(obj)
	if e != nil {
		if isErr && err.Scope == InternalScope && err.Attribute == EncodeAttribute {
			// We just failed to encode an encoding error, which
			// means the JSON encoder itself is broken; pseudo-encode
			// the message by hand.
			status = http.StatusInternalServerError
			bytes = []byte(fmt.Sprintf("%q", err.Error()))
		} else {
			return writeError(responseEncodingError, ErrorData{e.Error()}, w, r)
		}
	}
	w.Header().Add("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(bytes)
	if isErr {
		return err
	}
	return nil
}
