package demo

import (
	"github.com/zeusync/worldcore/internal/core/messages"
)

var (
	ActivateType = messages.TypeIDOf("demo.MsgActivate")
	IntruderType = messages.TypeIDOf("demo.MsgIntruder")
)

// MsgActivate asks a door to toggle.
type MsgActivate struct {
	messages.EventHeader
	Source string
}

func (*MsgActivate) TypeID() messages.TypeID   { return ActivateType }
func (m *MsgActivate) Clone() messages.Message { c := *m; return &c }

// MsgIntruder reports movement in a zone. Nobody in the hierarchy handles it;
// it ends up at the global alarm.
type MsgIntruder struct {
	messages.EventHeader
	Zone string
}

func (*MsgIntruder) TypeID() messages.TypeID   { return IntruderType }
func (m *MsgIntruder) Clone() messages.Message { c := *m; return &c }

// RegisterMessages adds the demo message types to types. Intruder reports are
// debug-routed so a missing alarm shows up in the logs.
func RegisterMessages(types *messages.TypeRegistry) error {
	if _, err := types.Register("demo.MsgActivate", &MsgActivate{}); err != nil {
		return err
	}
	if _, err := types.Register("demo.MsgIntruder", &MsgIntruder{}, messages.WithDebugRouting()); err != nil {
		return err
	}
	return nil
}
