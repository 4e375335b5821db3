package dispatch

import "github.com/wydcore/gameserver/internal/protocol"

// Dispatch reuses the protocol package's taxonomy: an opcode the table has
// never seen is the same ErrUnknownOpcode a malformed frame would report,
// and an opcode valid in some other state is ErrWrongState.
var (
	ErrUnknownOpcode = protocol.ErrUnknownOpcode
	ErrWrongState    = protocol.ErrWrongState
)
