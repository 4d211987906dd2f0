package out

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofrs/flock"
	hclog "github.com/hashicorp/go-hclog"
	"github.com/hashicorp/go-plugin"

	sensingrpc "engagemon/internal/modules/sensing/adapter/out/rpc"
	"engagemon/internal/modules/sensing/domain"
	sensingout "engagemon/internal/modules/sensing/port/out"
	apperrors "engagemon/internal/platform/errors"
)

const (
	defaultStartTimeout  = 3 * time.Second
	defaultSampleTimeout = 5 * time.Second
)

// PluginOptions locates the sensor plugin binary for one kind.
type PluginOptions struct {
	Binary string
	SHA256 string
	// LockDir holds one lock file per kind so two monitors never share a device.
	LockDir       string
	StartTimeout  time.Duration
	SampleTimeout time.Duration
	Logger        hclog.Logger
}

// PluginSource samples a long-lived sensor plugin process over gRPC.
type PluginSource struct {
	kind          domain.Kind
	client        *plugin.Client
	sensor        sensingrpc.SensorClient
	lock          *flock.Flock
	sampleTimeout time.Duration
}

// NewPluginSource starts the plugin and verifies it can serve kind. Every
// failure before the first sample is reported as ErrSourceUnavailable.
func NewPluginSource(ctx context.Context, kind domain.Kind, opts PluginOptions) (sensingout.Source, error) {
	if err := kind.Validate(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(opts.Binary) == "" {
		return nil, fmt.Errorf("%w: no %s sensor plugin configured", apperrors.ErrSourceUnavailable, kind)
	}
	if info, err := os.Stat(opts.Binary); err != nil || info.IsDir() {
		return nil, fmt.Errorf("%w: %s sensor binary not found: %s", apperrors.ErrSourceUnavailable, kind, opts.Binary)
	}
	if opts.SHA256 != "" {
		if err := checksumMatches(opts.Binary, opts.SHA256); err != nil {
			return nil, fmt.Errorf("%w: %s sensor: %v", apperrors.ErrSourceUnavailable, kind, err)
		}
	}

	var lock *flock.Flock
	if opts.LockDir != "" {
		if err := os.MkdirAll(opts.LockDir, 0o755); err != nil {
			return nil, fmt.Errorf("create lock dir: %w", err)
		}
		lock = flock.New(filepath.Join(opts.LockDir, string(kind)+".lock"))
		locked, err := lock.TryLock()
		if err != nil {
			return nil, fmt.Errorf("%w: lock %s sensor: %v", apperrors.ErrSourceUnavailable, kind, err)
		}
		if !locked {
			return nil, fmt.Errorf("%w: %s sensor is in use by another process", apperrors.ErrSourceUnavailable, kind)
		}
	}

	src, err := startPlugin(ctx, kind, opts)
	if err != nil {
		if lock != nil {
			_ = lock.Unlock()
		}
		return nil, err
	}
	src.lock = lock
	return src, nil
}

func startPlugin(ctx context.Context, kind domain.Kind, opts PluginOptions) (*PluginSource, error) {
	logger := opts.Logger
	if logger == nil {
		logger = hclog.New(&hclog.LoggerOptions{Output: io.Discard, Level: hclog.NoLevel})
	}
	startTimeout := opts.StartTimeout
	if startTimeout <= 0 {
		startTimeout = defaultStartTimeout
	}
	sampleTimeout := opts.SampleTimeout
	if sampleTimeout <= 0 {
		sampleTimeout = defaultSampleTimeout
	}

	client := plugin.NewClient(&plugin.ClientConfig{
		HandshakeConfig:  sensingrpc.HandshakeConfig,
		AllowedProtocols: []plugin.Protocol{plugin.ProtocolGRPC},
		Plugins:          sensingrpc.PluginMap(nil),
		Cmd:              exec.Command(opts.Binary),
		Managed:          true,
		StartTimeout:     startTimeout,
		Logger:           logger,
	})

	rpcClient, err := client.Client()
	if err != nil {
		client.Kill()
		return nil, fmt.Errorf("%w: start %s sensor: %v", apperrors.ErrSourceUnavailable, kind, err)
	}
	raw, err := rpcClient.Dispense(sensingrpc.PluginMapKey)
	if err != nil {
		client.Kill()
		return nil, fmt.Errorf("%w: dispense %s sensor: %v", apperrors.ErrSourceUnavailable, kind, err)
	}
	sensor, ok := raw.(sensingrpc.SensorClient)
	if !ok {
		client.Kill()
		return nil, fmt.Errorf("%w: %s sensor rpc client type mismatch", apperrors.ErrSourceUnavailable, kind)
	}

	callCtx, cancel := callContext(ctx, sampleTimeout)
	defer cancel()
	meta, err := sensor.Describe(callCtx)
	if err != nil {
		client.Kill()
		return nil, fmt.Errorf("%w: describe %s sensor: %v", apperrors.ErrSourceUnavailable, kind, err)
	}
	if !advertises(meta, kind) {
		client.Kill()
		return nil, fmt.Errorf("%w: plugin %s does not provide %s samples", apperrors.ErrSourceUnavailable, meta.Name, kind)
	}

	return &PluginSource{kind: kind, client: client, sensor: sensor, sampleTimeout: sampleTimeout}, nil
}

func (p *PluginSource) Kind() domain.Kind { return p.kind }

func (p *PluginSource) Sample(ctx context.Context) (domain.Sample, error) {
	if p.client.Exited() {
		return domain.Sample{}, fmt.Errorf("%w: %s sensor process exited", apperrors.ErrSourceUnavailable, p.kind)
	}
	callCtx, cancel := callContext(ctx, p.sampleTimeout)
	defer cancel()
	resp, err := p.sensor.Sample(callCtx, &sensingrpc.SampleRequest{Kind: string(p.kind)})
	if err != nil {
		if callCtx.Err() == context.DeadlineExceeded {
			return domain.Sample{}, fmt.Errorf("%s sensor timed out", p.kind)
		}
		return domain.Sample{}, fmt.Errorf("sample %s sensor: %w", p.kind, err)
	}
	sample := domain.Sample{
		Timestamp:  time.UnixMilli(resp.CapturedAtMS).UTC(),
		Source:     p.kind,
		Label:      resp.Label,
		Confidence: resp.Confidence,
		Sentiment:  resp.Sentiment,
	}
	if resp.CapturedAtMS == 0 {
		sample.Timestamp = time.Now().UTC()
	}
	if err := sample.Validate(); err != nil {
		return domain.Sample{}, fmt.Errorf("%s sensor returned bad sample: %w", p.kind, err)
	}
	return sample, nil
}

func (p *PluginSource) Close() error {
	p.client.Kill()
	if p.lock != nil {
		if err := p.lock.Unlock(); err != nil {
			return fmt.Errorf("unlock %s sensor: %w", p.kind, err)
		}
	}
	return nil
}

func advertises(meta *sensingrpc.Metadata, kind domain.Kind) bool {
	if meta == nil {
		return false
	}
	for _, k := range meta.Kinds {
		if domain.Kind(k) == kind {
			return true
		}
	}
	return false
}

func checksumMatches(path, expected string) error {
	payload, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read plugin binary: %w", err)
	}
	sum := sha256.Sum256(payload)
	if hex.EncodeToString(sum[:]) != strings.ToLower(expected) {
		return fmt.Errorf("plugin checksum mismatch")
	}
	return nil
}

func callContext(parent context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := parent.Deadline(); ok {
		return context.WithCancel(parent)
	}
	return context.WithTimeout(parent, timeout)
}

// Factory adapts NewPluginSource to the sensing port, one binary per kind.
func Factory(byKind map[domain.Kind]PluginOptions) sensingout.Factory {
	return func(ctx context.Context, kind domain.Kind) (sensingout.Source, error) {
		opts, ok := byKind[kind]
		if !ok {
			return nil, fmt.Errorf("%w: no %s sensor plugin configured", apperrors.ErrSourceUnavailable, kind)
		}
		return NewPluginSource(ctx, kind, opts)
	}
}
