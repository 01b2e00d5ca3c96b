package realtime

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestInputEvent_WireShapes(t *testing.T) {
	tests := []struct {
		name string
		ev   InputEvent
		want map[string]any
	}{
		{
			name: "commit",
			ev:   CommitAudio(),
			want: map[string]any{"type": "input_audio_buffer.commit"},
		},
		{
			name: "clear",
			ev:   ClearAudio(),
			want: map[string]any{"type": "input_audio_buffer.clear"},
		},
		{
			name: "append",
			ev:   AppendAudio("AAAA"),
			want: map[string]any{"type": "input_audio_buffer.append", "audio": "AAAA"},
		},
		{
			name: "commit with id",
			ev:   CommitAudio().WithID("evt_1"),
			want: map[string]any{"type": "input_audio_buffer.commit", "event_id": "evt_1"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := encodeInput(tt.ev)
			if err != nil {
				t.Fatalf("encode error: %v", err)
			}
			var got map[string]any
			if err := json.Unmarshal(data, &got); err != nil {
				t.Fatalf("unmarshal error: %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestUpdateSession_OmitsUnsetFields(t *testing.T) {
	cfg := SessionConfig{
		Voice:            "sage",
		InputAudioFormat: AudioEncodingPCM16,
	}

	data, err := encodeInput(UpdateSession(cfg))
	if err != nil {
		t.Fatalf("encode error: %v", err)
	}

	var got map[string]any
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("unmarshal error: %v", err)
	}

	session, ok := got["session"].(map[string]any)
	if !ok {
		t.Fatalf("missing session object in %v", got)
	}
	if len(session) != 2 {
		t.Errorf("expected exactly voice and input_audio_format, got %v", session)
	}
	if session["voice"] != "sage" {
		t.Errorf("expected voice sage, got %v", session["voice"])
	}
	if session["input_audio_format"] != "pcm16" {
		t.Errorf("expected pcm16, got %v", session["input_audio_format"])
	}
}

func TestSessionConfig_SparseRoundTrip(t *testing.T) {
	in := SessionConfig{
		Voice:            "sage",
		InputAudioFormat: AudioEncodingPCM16,
	}

	data, err := json.Marshal(in)
	if err != nil {
		t.Fatalf("marshal error: %v", err)
	}

	var out SessionConfig
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("unmarshal error: %v", err)
	}

	if !reflect.DeepEqual(in, out) {
		t.Errorf("round trip mismatch: in %+v, out %+v", in, out)
	}
	if out.Modalities != nil || out.TurnDetection != nil || out.Temperature != nil || out.Speed != nil {
		t.Errorf("unset fields should stay absent, got %+v", out)
	}
}

func TestDecodeReceived_SessionEvents(t *testing.T) {
	frame := []byte(`{"type":"session.created","event_id":"evt_9","session":{"voice":"ash"}}`)

	ev, err := decodeReceived(frame)
	if err != nil {
		t.Fatalf("decode error: %v", err)
	}
	created, ok := ev.(SessionCreated)
	if !ok {
		t.Fatalf("expected SessionCreated, got %T", ev)
	}
	if created.EventID != "evt_9" {
		t.Errorf("expected evt_9, got %s", created.EventID)
	}
	if created.Session.Voice != "ash" {
		t.Errorf("expected voice ash, got %s", created.Session.Voice)
	}
}

func TestDecodeReceived_ItemEvents(t *testing.T) {
	frame := []byte(`{"type":"response.audio.delta","item_id":"item_1","response_id":"resp_1","output_index":0,"content_index":2,"delta":"AQID"}`)

	ev, err := decodeReceived(frame)
	if err != nil {
		t.Fatalf("decode error: %v", err)
	}
	delta, ok := ev.(AudioDelta)
	if !ok {
		t.Fatalf("expected AudioDelta, got %T", ev)
	}
	if delta.ItemID != "item_1" || delta.ResponseID != "resp_1" {
		t.Errorf("item context mismatch: %+v", delta.ItemRef)
	}
	if delta.ContentIndex != 2 {
		t.Errorf("expected content_index 2, got %d", delta.ContentIndex)
	}
	if delta.Delta != "AQID" {
		t.Errorf("expected delta AQID, got %s", delta.Delta)
	}
}

func TestDecodeReceived_UnknownFrames(t *testing.T) {
	frames := [][]byte{
		[]byte(`not json at all`),
		[]byte(`{"type":"response.text.delta","delta":"hi"}`),
		[]byte(`{"type":"response.audio.delta","delta":"AQID"}`),
		[]byte(`{}`),
	}

	for _, frame := range frames {
		if _, err := decodeReceived(frame); err == nil {
			t.Errorf("frame %s should not decode", frame)
		}
	}
}

func TestSessionUpdated_DecodeEncodeIdempotent(t *testing.T) {
	frame := []byte(`{"type":"session.updated","event_id":"evt_2","session":{"voice":"sage","modalities":["text","audio"]}}`)

	first, err := decodeReceived(frame)
	if err != nil {
		t.Fatalf("decode error: %v", err)
	}

	reencoded, err := json.Marshal(first)
	if err != nil {
		t.Fatalf("encode error: %v", err)
	}

	second, err := decodeReceived(reencoded)
	if err != nil {
		t.Fatalf("second decode error: %v", err)
	}

	if !reflect.DeepEqual(first, second) {
		t.Errorf("decode/encode/decode not idempotent: %+v vs %+v", first, second)
	}
}

func TestAudioDone_DecodeEncodeIdempotent(t *testing.T) {
	frame := []byte(`{"type":"response.audio.done","item_id":"item_3","response_id":"resp_3","output_index":1,"content_index":0}`)

	first, err := decodeReceived(frame)
	if err != nil {
		t.Fatalf("decode error: %v", err)
	}

	reencoded, err := json.Marshal(first)
	if err != nil {
		t.Fatalf("encode error: %v", err)
	}

	second, err := decodeReceived(reencoded)
	if err != nil {
		t.Fatalf("second decode error: %v", err)
	}

	if !reflect.DeepEqual(first, second) {
		t.Errorf("decode/encode/decode not idempotent: %+v vs %+v", first, second)
	}
}

func TestServerVAD_Defaults(t *testing.T) {
	td := ServerVAD()
	if td.Type != "server_vad" {
		t.Errorf("expected server_vad, got %s", td.Type)
	}
	if td.Threshold == nil || *td.Threshold != 0.5 {
		t.Error("expected threshold 0.5")
	}
	if td.PrefixPaddingMs == nil || *td.PrefixPaddingMs != 300 {
		t.Error("expected prefix padding 300ms")
	}
	if td.SilenceDurationMs == nil || *td.SilenceDurationMs != 500 {
		t.Error("expected silence duration 500ms")
	}
	if td.CreateResponse == nil || !*td.CreateResponse {
		t.Error("expected create_response true")
	}
}
