package protocol

import (
	"io"

	"github.com/VestaKK/rpcbridge/internal/payload"
	"github.com/VestaKK/rpcbridge/internal/profile"
	"github.com/VestaKK/rpcbridge/internal/wire"
)

// Connect runs the client side of the CONNECT exchange, advertising this
// implementation's integer and size widths and recording the server's
// negotiated profile. Returns *RemoteError if the server replies with an
// error mask.
func Connect(rw io.ReadWriter) (profile.Profile, error) {
	if err := wire.WriteByte(rw, MsgConnect); err != nil {
		return profile.Profile{}, err
	}
	if err := wire.WriteByte(rw, profile.LocalIntBytes); err != nil {
		return profile.Profile{}, err
	}
	if err := wire.WriteByte(rw, profile.LocalSizeBytes); err != nil {
		return profile.Profile{}, err
	}
	if err := wire.WriteByte(rw, MsgEnd); err != nil {
		return profile.Profile{}, err
	}

	tag, err := wire.ReadByte(rw)
	if err != nil {
		return profile.Profile{}, err
	}
	if tag == RtnError {
		return profile.Profile{}, readRemoteError(rw)
	}

	intBytes, err := wire.ReadByte(rw)
	if err != nil {
		return profile.Profile{}, err
	}
	sizeBytes, err := wire.ReadByte(rw)
	if err != nil {
		return profile.Profile{}, err
	}
	if err := readEnd(rw); err != nil {
		return profile.Profile{}, err
	}

	return profile.FromWidths(intBytes, sizeBytes), nil
}

// Find runs the client side of FUNC_FIND, returning the digest the server
// assigned to name.
func Find(rw io.ReadWriter, name string) (uint64, error) {
	if err := wire.WriteByte(rw, MsgFuncFind); err != nil {
		return 0, err
	}
	if err := wire.WriteUint16(rw, uint16(len(name))); err != nil {
		return 0, err
	}
	if err := wire.WriteAll(rw, []byte(name)); err != nil {
		return 0, err
	}
	if err := wire.WriteByte(rw, MsgEnd); err != nil {
		return 0, err
	}

	tag, err := wire.ReadByte(rw)
	if err != nil {
		return 0, err
	}
	if tag == RtnError {
		return 0, readRemoteError(rw)
	}

	digest, err := wire.ReadUint64(rw)
	if err != nil {
		return 0, err
	}
	if err := readEnd(rw); err != nil {
		return 0, err
	}
	return digest, nil
}

// Call runs the client side of FUNC_CALL against the handle returned by a
// prior Find, sending in and returning the handler's reply payload.
func Call(rw io.ReadWriter, digest uint64, in *payload.Payload) (*payload.Payload, error) {
	if err := wire.WriteByte(rw, MsgFuncCall); err != nil {
		return nil, err
	}
	if err := payload.Encode(rw, in); err != nil {
		return nil, err
	}
	if err := wire.WriteUint64(rw, digest); err != nil {
		return nil, err
	}
	if err := wire.WriteByte(rw, MsgEnd); err != nil {
		return nil, err
	}

	tag, err := wire.ReadByte(rw)
	if err != nil {
		return nil, err
	}
	if tag == RtnError {
		return nil, readRemoteError(rw)
	}

	out, err := payload.Decode(rw)
	if err != nil {
		return nil, err
	}
	if err := readEnd(rw); err != nil {
		return nil, err
	}
	return out, nil
}

// Disconnect sends the one-way DISCONNECT message. The server sends no
// reply; the caller closes the connection immediately after.
func Disconnect(rw io.Writer) error {
	return wire.WriteByte(rw, MsgDisconnect)
}

func readRemoteError(rw io.ReadWriter) error {
	flagByte, err := wire.ReadByte(rw)
	if err != nil {
		return err
	}
	if err := readEnd(rw); err != nil {
		return err
	}
	return &RemoteError{Flags: profile.ErrorFlag(flagByte)}
}
