package domain

import "fmt"

// MessageKind enumerates every replicated method. Each phase handler owns a
// dispatch table keyed by kind.
type MessageKind uint8

const (
	MessageBegin MessageKind = iota + 1
	MessageResponse
	MessageResult
	MessageReady
)

func (k MessageKind) String() string {
	switch k {
	case MessageBegin:
		return "begin"
	case MessageResponse:
		return "response"
	case MessageResult:
		return "result"
	case MessageReady:
		return "ready"
	default:
		return fmt.Sprintf("message(%d)", uint8(k))
	}
}

// NoAnswer is the answer index sent when input did not resolve to an answer.
const NoAnswer = -1

// Message is one replicated call. It is delivered to every peer, the sender
// included, in the order the sender issued it. Epoch is the sender's phase
// epoch at send time.
type Message struct {
	SessionID   string
	Epoch       uint64
	Sender      PeerID
	Kind        MessageKind
	Half        Half
	AnswerIndex int
	Complete    bool
}

func BeginMessage() Message {
	return Message{Kind: MessageBegin}
}

func ResponseMessage(h Half, answerIndex int) Message {
	return Message{Kind: MessageResponse, Half: h, AnswerIndex: answerIndex}
}

func ResultMessage(h Half, complete bool) Message {
	return Message{Kind: MessageResult, Half: h, Complete: complete}
}

func ReadyMessage(h Half) Message {
	return Message{Kind: MessageReady, Half: h}
}
