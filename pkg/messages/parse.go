package messages

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

type ParseErrorKind int

const (
	// ParseMalformed means the frame is not a JSON object with a string type tag.
	ParseMalformed ParseErrorKind = iota
	// ParseUnknownType means the type tag is not part of the client catalog.
	ParseUnknownType
	// ParseInvalid means a known message is missing or has bad fields.
	ParseInvalid
)

func (k ParseErrorKind) String() string {
	switch k {
	case ParseMalformed:
		return "malformed"
	case ParseUnknownType:
		return "unknown type"
	case ParseInvalid:
		return "invalid"
	default:
		return "unknown"
	}
}

// ParseError is returned by Parse for every rejected frame.
type ParseError struct {
	Kind ParseErrorKind
	Type Type
	Err  error
}

func (e *ParseError) Error() string {
	if e.Type != "" {
		return fmt.Sprintf("%s message %s: %v", e.Kind, e.Type, e.Err)
	}
	return fmt.Sprintf("%s message: %v", e.Kind, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Code maps the parse failure onto the error code reported to clients.
func (e *ParseError) Code() ErrorCode {
	if e.Kind == ParseUnknownType {
		return ErrorUnknownType
	}
	return ErrorInvalidData
}

func errMissingField(name string) error {
	return fmt.Errorf("missing field %q", name)
}

func errInvalidField(name string) error {
	return fmt.Errorf("invalid field %q", name)
}

type validator interface {
	Validate() error
}

// clientMessages is the closed set of frames accepted from clients.
var clientMessages = map[Type]func() Message{
	TypePing:          func() Message { return &Ping{} },
	TypeConnectPlayer: func() Message { return &ConnectPlayer{} },
	TypeInput:         func() Message { return &Input{} },
	TypeBounce:        func() Message { return &Bounce{} },
	TypeEndGame:       func() Message { return &EndGame{} },
	TypeCreateParty:   func() Message { return &CreateParty{} },
	TypeJoinParty:     func() Message { return &JoinParty{} },
	TypeLeaveParty:    func() Message { return &LeaveParty{} },
	TypeEnqueue:       func() Message { return &Enqueue{} },
	TypeDequeue:       func() Message { return &Dequeue{} },
}

// aliases accepts the camel case spellings used by older clients.
var aliases = map[Type]Type{
	"bounce":  TypeBounce,
	"endGame": TypeEndGame,
}

// ClientTypes returns every type Parse accepts.
func ClientTypes() []Type {
	out := make([]Type, 0, len(clientMessages))
	for t := range clientMessages {
		out = append(out, t)
	}
	return out
}

// Parse decodes a client frame into its typed message.
func Parse(b []byte) (Message, error) {
	var tag struct {
		Type *string `json:"type"`
	}
	if err := json.Unmarshal(b, &tag); err != nil {
		return nil, &ParseError{Kind: ParseMalformed, Err: err}
	}
	if tag.Type == nil || *tag.Type == "" {
		return nil, &ParseError{Kind: ParseMalformed, Err: errMissingField("type")}
	}

	t := Type(*tag.Type)
	if alias, ok := aliases[t]; ok {
		t = alias
	}
	newMessage, ok := clientMessages[t]
	if !ok {
		return nil, &ParseError{Kind: ParseUnknownType, Type: t, Err: fmt.Errorf("no such message")}
	}

	msg := newMessage()
	if err := json.Unmarshal(b, msg); err != nil {
		return nil, &ParseError{Kind: ParseMalformed, Type: t, Err: err}
	}
	setType(msg, t)
	if v, ok := msg.(validator); ok {
		if err := v.Validate(); err != nil {
			return nil, &ParseError{Kind: ParseInvalid, Type: t, Err: err}
		}
	}
	return msg, nil
}

// setType rewrites an aliased tag to its canonical form.
func setType(msg Message, t Type) {
	switch m := msg.(type) {
	case *Bounce:
		m.Type = t
	case *EndGame:
		m.Type = t
	}
}

// Encode serializes an outbound message.
func Encode(msg Message) ([]byte, error) {
	b, err := json.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s message: %v", msg.MessageType(), err)
	}
	return b, nil
}

// PlayerID accepts both JSON strings and numbers, since player ids are
// numeric in some clients and opaque strings in others.
type PlayerID string

func (id *PlayerID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*id = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = PlayerID(strings.TrimSpace(s))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("player id must be a string or a number")
	}
	*id = PlayerID(n.String())
	return nil
}

func (id PlayerID) String() string {
	return string(id)
}
