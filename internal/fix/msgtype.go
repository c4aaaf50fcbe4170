package fix

import "github.com/danmuck/fixdecode/internal/dictionary"

// UnknownMessageType is the summary used when tag 35 is absent or its value
// has no label.
const UnknownMessageType = "Unknown Message Type"

// wellKnownMsgTypes get their label folded into the tag 35 display name.
var wellKnownMsgTypes = map[string]string{
	"A": "Logon",
	"0": "Heartbeat",
	"1": "Test Request",
	"2": "Resend Request",
	"3": "Reject",
	"4": "Sequence Reset",
	"5": "Logout",
	"6": "Indication of Interest",
	"7": "Advertisement",
	"8": "Execution Report",
	"9": "Order Cancel Reject",
	"D": "New Order - Single",
	"G": "Order Cancel/Replace Request",
	"H": "Order Status Request",
	"F": "Order Cancel Request",
}

// WellKnownMsgType returns the short label for common MsgType codes.
func WellKnownMsgType(code string) (string, bool) {
	label, ok := wellKnownMsgTypes[code]
	return label, ok
}

// MessageTypeOf labels the message by its first tag 35 using the value
// table's MsgType enumeration.
func MessageTypeOf(pairs []Pair, values dictionary.ValueTable) string {
	for _, p := range pairs {
		if p.Tag != TagMsgType {
			continue
		}
		if label, ok := values.Label(TagMsgType, p.Value); ok {
			return label
		}
		return UnknownMessageType
	}
	return UnknownMessageType
}
