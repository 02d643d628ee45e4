package protocol

// Message tags identify the kind of request or reply framing a message.
// Values match the reference implementation's byte constants exactly —
// they are part of the wire contract, not an implementation detail.
const (
	MsgConnect    byte = 0xCC
	MsgFuncFind   byte = 0xFF
	MsgFuncCall   byte = 0xFC
	MsgDisconnect byte = 0xDC
	MsgEnd        byte = 0xED
	RtnSuccess    byte = 0x55
	RtnError      byte = 0xEE
)
