package protocol

import (
	"errors"
	"fmt"

	"github.com/VestaKK/rpcbridge/internal/profile"
)

// ErrProtocolViolation is returned internally when a peer's packet framing
// is wrong — most commonly a missing or incorrect MsgEnd terminator. It
// never reaches a caller of HandleConnection: endOrViolation turns it into
// a PQT_INVALID reply and the connection stays open for the next message.
var ErrProtocolViolation = errors.New("protocol: malformed packet")

// RemoteError reports an application-level failure signalled by the peer's
// RtnError reply: a bitmask of profile.ErrorFlag values describing what
// went wrong with the call (unknown procedure, invalid handle, data out of
// range, or a connection that skipped CONNECT). rpcclient.Client.Call also
// returns one, without sending anything, when a payload fails validation
// against the server's negotiated profile.
type RemoteError struct {
	Flags profile.ErrorFlag
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("protocol: remote returned error flags 0x%02x", uint8(e.Flags))
}

// Has reports whether flag is set in the error mask.
func (e *RemoteError) Has(flag profile.ErrorFlag) bool {
	return e.Flags.Has(flag)
}
