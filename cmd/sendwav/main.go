package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/eleven-am/voice-client/internal/audio"
	"github.com/eleven-am/voice-client/internal/realtime"
)

// sendwav streams a WAV file through a realtime session and writes the
// model's spoken reply to another WAV file.
func main() {
	var (
		inPath  = flag.String("in", "input.wav", "input WAV file to stream")
		outPath = flag.String("out", "reply.wav", "where to write the reply audio")
		model   = flag.String("model", realtime.GPT4oRealtimePreview, "realtime model")
		voice   = flag.String("voice", "sage", "reply voice")
	)
	flag.Parse()

	log := slog.New(slog.NewTextHandler(os.Stderr, nil))

	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		log.Error("OPENAI_API_KEY is not set")
		os.Exit(1)
	}

	samples, rate, channels, err := audio.ReadWAVFloat32(*inPath)
	if err != nil {
		log.Error("failed to read input", "path", *inPath, "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	client := realtime.NewClient(realtime.ClientConfig{APIKey: apiKey, Log: log})
	session, err := client.Connect(ctx, *model)
	if err != nil {
		log.Error("connect failed", "error", err)
		os.Exit(1)
	}
	defer session.Close()

	var (
		readyOnce sync.Once
		ready     = make(chan struct{})
		turnDone  = make(chan struct{}, 1)
	)
	player := audio.NewPlayer(audio.PlayerConfig{
		OnTurnEnd: func(realtime.ItemRef) {
			select {
			case turnDone <- struct{}{}:
			default:
			}
		},
		OnEvent: func(ev realtime.ReceivedEvent) {
			// audio appends are rejected until the update below is
			// acknowledged, so the stream waits for session.updated
			if _, ok := ev.(realtime.SessionUpdated); ok {
				readyOnce.Do(func() { close(ready) })
			}
		},
		Log: log,
	})
	go player.Run(session.Events())

	err = session.Send(ctx, realtime.UpdateSession(realtime.SessionConfig{
		Modalities:        []realtime.Modality{realtime.ModalityAudio, realtime.ModalityText},
		Voice:             *voice,
		InputAudioFormat:  realtime.AudioEncodingPCM16,
		OutputAudioFormat: realtime.AudioEncodingPCM16,
		TurnDetection:     realtime.ServerVAD(),
	}))
	if err != nil {
		log.Error("session update failed", "error", err)
		os.Exit(1)
	}

	select {
	case <-ready:
	case <-ctx.Done():
		log.Error("timed out waiting for session.updated")
		os.Exit(1)
	}

	pipeline, err := audio.NewCapturePipeline(session, audio.CaptureConfig{
		SourceRate:     rate,
		SourceChannels: channels,
		Log:            log,
	})
	if err != nil {
		log.Error("capture pipeline setup failed", "error", err)
		os.Exit(1)
	}
	pipeline.Start(ctx)

	// feed 100ms frames at half real-time so the handoff never fills
	frameLen := rate / 10 * channels
	frameGap := 50 * time.Millisecond
	for off := 0; off < len(samples); off += frameLen {
		end := off + frameLen
		if end > len(samples) {
			end = len(samples)
		}
		pipeline.OnFrame(samples[off:end])
		time.Sleep(frameGap)
	}
	if err := pipeline.Commit(ctx); err != nil {
		log.Error("commit failed", "error", err)
		os.Exit(1)
	}
	pipeline.Stop()
	if n := pipeline.Dropped(); n > 0 {
		log.Warn("input chunks dropped", "count", n)
	}

	select {
	case <-turnDone:
	case <-session.Done():
		if err := session.Err(); err != nil {
			log.Error("session failed", "error", err)
			os.Exit(1)
		}
	case <-ctx.Done():
		log.Error("timed out waiting for reply")
		os.Exit(1)
	}

	var reply []int16
	for player.Buffer().Len() > 0 {
		reply = append(reply, player.PullSample())
	}
	if err := audio.WriteWAVPCM16(*outPath, reply, audio.DefaultTargetRate); err != nil {
		log.Error("failed to write reply", "path", *outPath, "error", err)
		os.Exit(1)
	}

	log.Info("reply written", "path", *outPath, "samples", len(reply))
}
