package main

import (
	"context"
	"fmt"
	"sync"
	"time"

	sensingrpc "engagemon/internal/modules/sensing/adapter/out/rpc"

	"github.com/hashicorp/go-plugin"
)

// The reference sensor cycles through fixed readings so hosts can be tested
// without a microphone or an OCR engine.
var (
	emotions = []struct {
		label      string
		confidence float64
	}{
		{"neutral", 0.82}, {"happy", 0.77}, {"calm", 0.69}, {"sad", 0.58}, {"surprised", 0.73},
	}
	screens = []struct {
		context    string
		sentiment  string
		confidence float64
	}{
		{"programming", "Positive", 0.91}, {"reading", "Neutral", 0.84}, {"social media", "Negative", 0.66}, {"writing", "Positive", 0.79},
	}
)

type server struct {
	mu    sync.Mutex
	ticks map[string]int
}

func (s *server) Describe(_ context.Context, _ *sensingrpc.Empty) (*sensingrpc.Metadata, error) {
	return &sensingrpc.Metadata{
		Name:    "reference",
		Version: "1.0.0",
		Kinds:   []string{"audio", "screen"},
	}, nil
}

func (s *server) Sample(_ context.Context, in *sensingrpc.SampleRequest) (*sensingrpc.SampleResponse, error) {
	s.mu.Lock()
	n := s.ticks[in.Kind]
	s.ticks[in.Kind] = n + 1
	s.mu.Unlock()

	now := time.Now().UnixMilli()
	switch in.Kind {
	case "audio":
		e := emotions[n%len(emotions)]
		return &sensingrpc.SampleResponse{Label: e.label, Confidence: e.confidence, CapturedAtMS: now}, nil
	case "screen":
		r := screens[n%len(screens)]
		return &sensingrpc.SampleResponse{Label: r.context, Sentiment: r.sentiment, Confidence: r.confidence, CapturedAtMS: now}, nil
	default:
		return nil, fmt.Errorf("unknown sensor kind: %s", in.Kind)
	}
}

func main() {
	plugin.Serve(&plugin.ServeConfig{
		HandshakeConfig: sensingrpc.HandshakeConfig,
		Plugins:         sensingrpc.PluginMap(&server{ticks: map[string]int{}}),
		GRPCServer:      plugin.DefaultGRPCServer,
	})
}
