package rpc

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hashicorp/go-plugin"
	"google.golang.org/grpc"
	"google.golang.org/grpc/encoding"
)

const (
	PluginMapKey   = "sensor"
	serviceName    = "engagemon.sensor.v1.Sensor"
	jsonCodecName  = "json"
	methodDescribe = "/" + serviceName + "/Describe"
	methodSample   = "/" + serviceName + "/Sample"
)

var HandshakeConfig = plugin.HandshakeConfig{
	ProtocolVersion:  1,
	MagicCookieKey:   "ENGAGEMON_SENSOR",
	MagicCookieValue: "engagemon",
}

type jsonCodec struct{}

func (jsonCodec) Marshal(v any) ([]byte, error) {
	return json.Marshal(v)
}

func (jsonCodec) Unmarshal(data []byte, v any) error {
	return json.Unmarshal(data, v)
}

func (jsonCodec) Name() string {
	return jsonCodecName
}

func init() {
	encoding.RegisterCodec(jsonCodec{})
}

type Empty struct{}

// Metadata advertises which sensor kinds a plugin can serve.
type Metadata struct {
	Name    string   `json:"name"`
	Version string   `json:"version"`
	Kinds   []string `json:"kinds"`
}

type SampleRequest struct {
	Kind string `json:"kind"`
}

type SampleResponse struct {
	Label        string  `json:"label"`
	Confidence   float64 `json:"confidence"`
	Sentiment    string  `json:"sentiment,omitempty"`
	CapturedAtMS int64   `json:"captured_at_ms"`
}

type SensorServer interface {
	Describe(ctx context.Context, in *Empty) (*Metadata, error)
	Sample(ctx context.Context, in *SampleRequest) (*SampleResponse, error)
}

type SensorClient interface {
	Describe(ctx context.Context) (*Metadata, error)
	Sample(ctx context.Context, in *SampleRequest) (*SampleResponse, error)
}

type sensorClient struct {
	conn *grpc.ClientConn
}

func NewSensorClient(conn *grpc.ClientConn) SensorClient {
	return &sensorClient{conn: conn}
}

func (c *sensorClient) Describe(ctx context.Context) (*Metadata, error) {
	out := &Metadata{}
	if err := c.conn.Invoke(ctx, methodDescribe, &Empty{}, out, grpc.CallContentSubtype(jsonCodecName)); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *sensorClient) Sample(ctx context.Context, in *SampleRequest) (*SampleResponse, error) {
	out := &SampleResponse{}
	if err := c.conn.Invoke(ctx, methodSample, in, out, grpc.CallContentSubtype(jsonCodecName)); err != nil {
		return nil, err
	}
	return out, nil
}

func RegisterSensorServer(server grpc.ServiceRegistrar, impl SensorServer) {
	server.RegisterService(&grpc.ServiceDesc{
		ServiceName: serviceName,
		HandlerType: (*SensorServer)(nil),
		Methods: []grpc.MethodDesc{
			{
				MethodName: "Describe",
				Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
					in := &Empty{}
					if err := dec(in); err != nil {
						return nil, err
					}
					if interceptor == nil {
						return impl.Describe(ctx, in)
					}
					info := &grpc.UnaryServerInfo{Server: srv, FullMethod: methodDescribe}
					handler := func(ctx context.Context, req any) (any, error) {
						empty, ok := req.(*Empty)
						if !ok {
							return nil, fmt.Errorf("invalid request type")
						}
						return impl.Describe(ctx, empty)
					}
					return interceptor(ctx, in, info, handler)
				},
			},
			{
				MethodName: "Sample",
				Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
					in := &SampleRequest{}
					if err := dec(in); err != nil {
						return nil, err
					}
					if interceptor == nil {
						return impl.Sample(ctx, in)
					}
					info := &grpc.UnaryServerInfo{Server: srv, FullMethod: methodSample}
					handler := func(ctx context.Context, req any) (any, error) {
						inReq, ok := req.(*SampleRequest)
						if !ok {
							return nil, fmt.Errorf("invalid request type")
						}
						return impl.Sample(ctx, inReq)
					}
					return interceptor(ctx, in, info, handler)
				},
			},
		},
		Streams:  []grpc.StreamDesc{},
		Metadata: "schemas/sensor-rpc-v1.proto",
	}, impl)
}

type GRPCPlugin struct {
	plugin.NetRPCUnsupportedPlugin
	Impl SensorServer
}

func (p *GRPCPlugin) GRPCServer(_ *plugin.GRPCBroker, server *grpc.Server) error {
	RegisterSensorServer(server, p.Impl)
	return nil
}

func (p *GRPCPlugin) GRPCClient(_ context.Context, _ *plugin.GRPCBroker, conn *grpc.ClientConn) (any, error) {
	return NewSensorClient(conn), nil
}

func PluginMap(impl SensorServer) map[string]plugin.Plugin {
	return map[string]plugin.Plugin{
		PluginMapKey: &GRPCPlugin{Impl: impl},
	}
}
