package bridge

import (
	"encoding/json"
	"fmt"
)

// Inbound message types, sent by a surface.
const (
	TypeNavigate             = "navigate"
	TypeUpdateCaptionLocally = "updateCaptionLocally"
	TypeSaveCaption          = "saveCaption"
	TypeRefresh              = "refresh"
	TypeCountTokens          = "countTokens"
)

// Outbound message types, sent to a surface.
const (
	TypeUpdatePair = "updatePair"
	TypeTokenCount = "tokenCount"
	TypePairList   = "pairList"
	TypeNotice     = "notice"
)

// Navigation directions carried by navigate messages.
const (
	Forward  = "forward"
	Backward = "backward"
)

// Notice levels.
const (
	LevelInfo    = "info"
	LevelWarning = "warning"
	LevelError   = "error"
)

// Inbound is a message from a surface. Only the fields relevant to Type are
// populated.
type Inbound struct {
	Type      string `json:"type"`
	Direction string `json:"direction,omitempty"`
	Step      int    `json:"step"`
	Text      string `json:"text,omitempty"`
}

// DefaultStep is the navigate step used when a message omits it.
const DefaultStep = 1

// DecodeInbound parses a JSON inbound message. A navigate message without a
// step moves by DefaultStep; an explicit step, including 0, is kept as sent.
func DecodeInbound(data []byte) (Inbound, error) {
	var wire struct {
		Type      string `json:"type"`
		Direction string `json:"direction"`
		Step      *int   `json:"step"`
		Text      string `json:"text"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return Inbound{}, fmt.Errorf("decode inbound message: %w", err)
	}
	if wire.Type == "" {
		return Inbound{}, fmt.Errorf("decode inbound message: missing type")
	}
	in := Inbound{Type: wire.Type, Direction: wire.Direction, Text: wire.Text}
	switch {
	case wire.Step != nil:
		in.Step = *wire.Step
	case wire.Type == TypeNavigate:
		in.Step = DefaultStep
	}
	return in, nil
}

// Outbound is a message for a surface.
type Outbound interface {
	MessageType() string
}

// PairView is the copy of a pair handed to surfaces. ImagePath holds whatever
// the bridge rewriter produced for the surface.
type PairView struct {
	ImagePath   string `json:"imagePath"`
	CaptionPath string `json:"captionPath"`
	BaseName    string `json:"baseName"`
	Caption     string `json:"caption"`
	Dirty       bool   `json:"isDirty"`
	ImageSize   int64  `json:"imageSize"`
}

// UpdatePair carries the current pair. Pair is nil when the list is empty.
type UpdatePair struct {
	Pair  *PairView `json:"pair"`
	Index int       `json:"index"`
	Total int       `json:"total"`
}

// TokenCount carries the token count of the text a surface asked about.
type TokenCount struct {
	Count int `json:"count"`
}

// PairList carries the base names of every pair, in display order.
type PairList struct {
	Names []string `json:"names"`
}

// Notice is a user-facing message.
type Notice struct {
	Level string `json:"level"`
	Text  string `json:"text"`
}

func (UpdatePair) MessageType() string { return TypeUpdatePair }
func (TokenCount) MessageType() string { return TypeTokenCount }
func (PairList) MessageType() string   { return TypePairList }
func (Notice) MessageType() string     { return TypeNotice }

func (m UpdatePair) MarshalJSON() ([]byte, error) {
	type plain UpdatePair
	return json.Marshal(struct {
		Type string `json:"type"`
		plain
	}{TypeUpdatePair, plain(m)})
}

func (m TokenCount) MarshalJSON() ([]byte, error) {
	type plain TokenCount
	return json.Marshal(struct {
		Type string `json:"type"`
		plain
	}{TypeTokenCount, plain(m)})
}

func (m PairList) MarshalJSON() ([]byte, error) {
	type plain PairList
	if m.Names == nil {
		m.Names = []string{}
	}
	return json.Marshal(struct {
		Type string `json:"type"`
		plain
	}{TypePairList, plain(m)})
}

func (m Notice) MarshalJSON() ([]byte, error) {
	type plain Notice
	return json.Marshal(struct {
		Type string `json:"type"`
		plain
	}{TypeNotice, plain(m)})
}
