package domain

import "fmt"

// Half is one side of the two-party session.
type Half uint8

const (
	HalfLeft Half = iota
	HalfRight
)

func (h Half) String() string {
	switch h {
	case HalfLeft:
		return "left"
	case HalfRight:
		return "right"
	default:
		return fmt.Sprintf("half(%d)", uint8(h))
	}
}

func (h Half) Valid() bool {
	return h == HalfLeft || h == HalfRight
}

func (h Half) Other() Half {
	if h == HalfLeft {
		return HalfRight
	}
	return HalfLeft
}

type PeerID string

// Entity names something a single peer may be authoritative for.
type Entity string

const (
	EntitySession    Entity = "session"
	EntityLeftPanel  Entity = "panel.left"
	EntityRightPanel Entity = "panel.right"
)

// EntityFor returns the panel entity that owns input for half.
func EntityFor(h Half) Entity {
	if h == HalfLeft {
		return EntityLeftPanel
	}
	return EntityRightPanel
}
