package model

// ErrorCode is the closed taxonomy of structural findings.
type ErrorCode string

const (
	MissingTerminationCallback    ErrorCode = "MISSING-TERMINATION-CALLBACK"
	DuplicateMarker               ErrorCode = "DUPLICATE-MARKER"
	ConflictingMarkers            ErrorCode = "CONFLICTING-MARKERS"
	WrongPlainSignature           ErrorCode = "WRONG-PLAIN-SIGNATURE"
	MissingComplementaryAttribute ErrorCode = "MISSING-COMPLEMENTARY-ATTRIBUTE"
	IncompleteAsyncHandling       ErrorCode = "INCOMPLETE-ASYNC-HANDLING"
)

// AllCodes lists the codes in check order.
var AllCodes = []ErrorCode{
	MissingTerminationCallback,
	DuplicateMarker,
	ConflictingMarkers,
	WrongPlainSignature,
	MissingComplementaryAttribute,
	IncompleteAsyncHandling,
}

type Finding struct {
	ID      string     `json:"id,omitempty"`
	Code    ErrorCode  `json:"code"`
	Class   TypeRef    `json:"class"`
	Method  string     `json:"method,omitempty"`
	Kind    MarkerKind `json:"kind,omitempty"`
	Message string     `json:"message"`
}

// Less orders findings by class, then code, then method, then message.
func (f Finding) Less(o Finding) bool {
	if f.Class != o.Class {
		return f.Class < o.Class
	}
	if f.Code != o.Code {
		return f.Code < o.Code
	}
	if f.Method != o.Method {
		return f.Method < o.Method
	}
	return f.Message < o.Message
}
