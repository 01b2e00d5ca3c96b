package realtime

import (
	"encoding/json"
	"errors"
	"fmt"
)

// errUnknownFrame marks a frame that matched no known event shape. The
// reader drops such frames so the stream survives forward-incompatible
// event kinds from the server.
var errUnknownFrame = errors.New("unknown frame shape")

func encodeInput(ev InputEvent) ([]byte, error) {
	return json.Marshal(ev)
}

// decodeReceived parses one inbound text frame by its type tag. Item
// events additionally require item and response identifiers; a tagged
// frame missing them is treated as unknown.
func decodeReceived(data []byte) (ReceivedEvent, error) {
	var probe struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, fmt.Errorf("%w: %v", errUnknownFrame, err)
	}

	switch probe.Type {
	case typeSessionCreated:
		var ev SessionCreated
		if err := json.Unmarshal(data, &ev); err != nil {
			return nil, fmt.Errorf("%w: %v", errUnknownFrame, err)
		}
		return ev, nil
	case typeSessionUpdated:
		var ev SessionUpdated
		if err := json.Unmarshal(data, &ev); err != nil {
			return nil, fmt.Errorf("%w: %v", errUnknownFrame, err)
		}
		return ev, nil
	case typeAudioDelta:
		var ev AudioDelta
		if err := json.Unmarshal(data, &ev); err != nil {
			return nil, fmt.Errorf("%w: %v", errUnknownFrame, err)
		}
		if ev.ItemID == "" || ev.ResponseID == "" {
			return nil, fmt.Errorf("%w: audio delta without item context", errUnknownFrame)
		}
		return ev, nil
	case typeAudioDone:
		var ev AudioDone
		if err := json.Unmarshal(data, &ev); err != nil {
			return nil, fmt.Errorf("%w: %v", errUnknownFrame, err)
		}
		if ev.ItemID == "" || ev.ResponseID == "" {
			return nil, fmt.Errorf("%w: audio done without item context", errUnknownFrame)
		}
		return ev, nil
	default:
		return nil, fmt.Errorf("%w: type %q", errUnknownFrame, probe.Type)
	}
}
