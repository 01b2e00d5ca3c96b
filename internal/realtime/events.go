package realtime

import "encoding/json"

// GPT4oRealtimePreview is the default realtime model.
const GPT4oRealtimePreview = "gpt-4o-realtime-preview-2025-06-03"

type Modality string

const (
	ModalityText  Modality = "text"
	ModalityAudio Modality = "audio"
)

type AudioEncoding string

const AudioEncodingPCM16 AudioEncoding = "pcm16"

// TurnDetection configures server-side voice activity detection. When
// set on the session, the server decides turn boundaries and no commit
// events need to be sent.
type TurnDetection struct {
	Type              string   `json:"type,omitempty"`
	Threshold         *float64 `json:"threshold,omitempty"`
	PrefixPaddingMs   *int     `json:"prefix_padding_ms,omitempty"`
	SilenceDurationMs *int     `json:"silence_duration_ms,omitempty"`
	CreateResponse    *bool    `json:"create_response,omitempty"`
}

// ServerVAD returns a server_vad turn detection config with the
// endpoint's documented defaults.
func ServerVAD() *TurnDetection {
	threshold := 0.5
	prefixPadding := 300
	silenceDuration := 500
	createResponse := true
	return &TurnDetection{
		Type:              "server_vad",
		Threshold:         &threshold,
		PrefixPaddingMs:   &prefixPadding,
		SilenceDurationMs: &silenceDuration,
		CreateResponse:    &createResponse,
	}
}

type InputAudioTranscription struct {
	Model string `json:"model,omitempty"`
}

type ToolDefinition struct {
	Type        string         `json:"type,omitempty"`
	Name        string         `json:"name,omitempty"`
	Description string         `json:"description,omitempty"`
	Parameters  map[string]any `json:"parameters,omitempty"`
}

// SessionConfig is the negotiated conversation configuration. Every
// field is optional; fields left unset are omitted from the wire frame
// and remain unchanged server-side on update.
type SessionConfig struct {
	Modalities              []Modality               `json:"modalities,omitempty"`
	Instructions            string                   `json:"instructions,omitempty"`
	Voice                   string                   `json:"voice,omitempty"`
	TurnDetection           *TurnDetection           `json:"turn_detection,omitempty"`
	InputAudioFormat        AudioEncoding            `json:"input_audio_format,omitempty"`
	OutputAudioFormat       AudioEncoding            `json:"output_audio_format,omitempty"`
	InputAudioTranscription *InputAudioTranscription `json:"input_audio_transcription,omitempty"`
	Tools                   []ToolDefinition         `json:"tools,omitempty"`
	Temperature             *float64                 `json:"temperature,omitempty"`
	Speed                   *float64                 `json:"speed,omitempty"`
}

const (
	typeCommitAudio    = "input_audio_buffer.commit"
	typeClearAudio     = "input_audio_buffer.clear"
	typeAppendAudio    = "input_audio_buffer.append"
	typeUpdateSession  = "session.update"
	typeSessionCreated = "session.created"
	typeSessionUpdated = "session.updated"
	typeAudioDelta     = "response.audio.delta"
	typeAudioDone      = "response.audio.done"
)

// InputEvent is a caller-issued event. The Type discriminator selects
// the wire shape; Audio and Session are populated only for the append
// and update variants.
type InputEvent struct {
	EventID string         `json:"event_id,omitempty"`
	Type    string         `json:"type"`
	Audio   string         `json:"audio,omitempty"`
	Session *SessionConfig `json:"session,omitempty"`
}

// CommitAudio commits the input audio buffer, creating a user message
// item. The server errors if the buffer is empty.
func CommitAudio() InputEvent {
	return InputEvent{Type: typeCommitAudio}
}

// ClearAudio clears all bytes from the input audio buffer.
func ClearAudio() InputEvent {
	return InputEvent{Type: typeClearAudio}
}

// AppendAudio appends base64-encoded PCM16 bytes to the input buffer.
func AppendAudio(b64 string) InputEvent {
	return InputEvent{Type: typeAppendAudio, Audio: b64}
}

// UpdateSession updates session configuration. Only fields set on cfg
// are changed; everything else is left as-is server-side.
func UpdateSession(cfg SessionConfig) InputEvent {
	return InputEvent{Type: typeUpdateSession, Session: &cfg}
}

// WithID attaches a correlation identifier to the event.
func (e InputEvent) WithID(id string) InputEvent {
	e.EventID = id
	return e
}

// ReceivedEvent is a typed event decoded from the wire: one of
// SessionCreated, SessionUpdated, AudioDelta, or AudioDone.
type ReceivedEvent interface {
	receivedEvent()
}

type SessionCreated struct {
	EventID string        `json:"event_id,omitempty"`
	Session SessionConfig `json:"session"`
}

type SessionUpdated struct {
	EventID string        `json:"event_id,omitempty"`
	Session SessionConfig `json:"session"`
}

// ItemRef locates an event within a response item.
type ItemRef struct {
	EventID      string `json:"event_id,omitempty"`
	ItemID       string `json:"item_id"`
	ResponseID   string `json:"response_id"`
	OutputIndex  int    `json:"output_index"`
	ContentIndex int    `json:"content_index"`
}

// AudioDelta carries one base64-encoded chunk of output PCM16 audio.
type AudioDelta struct {
	ItemRef
	Delta string `json:"delta"`
}

// AudioDone marks the end of audio output for an item.
type AudioDone struct {
	ItemRef
}

func (SessionCreated) receivedEvent() {}
func (SessionUpdated) receivedEvent() {}
func (AudioDelta) receivedEvent()     {}
func (AudioDone) receivedEvent()      {}

func (e SessionCreated) MarshalJSON() ([]byte, error) {
	type alias SessionCreated
	return json.Marshal(struct {
		Type string `json:"type"`
		alias
	}{Type: typeSessionCreated, alias: alias(e)})
}

func (e SessionUpdated) MarshalJSON() ([]byte, error) {
	type alias SessionUpdated
	return json.Marshal(struct {
		Type string `json:"type"`
		alias
	}{Type: typeSessionUpdated, alias: alias(e)})
}

func (e AudioDelta) MarshalJSON() ([]byte, error) {
	type alias AudioDelta
	return json.Marshal(struct {
		Type string `json:"type"`
		alias
	}{Type: typeAudioDelta, alias: alias(e)})
}

func (e AudioDone) MarshalJSON() ([]byte, error) {
	type alias AudioDone
	return json.Marshal(struct {
		Type string `json:"type"`
		alias
	}{Type: typeAudioDone, alias: alias(e)})
}
