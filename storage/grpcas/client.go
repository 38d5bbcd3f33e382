package grpcas

import (
	"context"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/weftnet/weft/content"
	"github.com/weftnet/weft/storage"
)

// Client implements storage.ContentAddressableStorage over the CAS gRPC
// service. The remote store keeps the local CAS contract: addresses are
// verified against returned bytes on every fetch.
type Client struct {
	cc     *grpc.ClientConn
	client CASClient

	// Timeout applies per RPC when non-zero.
	Timeout time.Duration
}

var _ storage.ContentAddressableStorage = (*Client)(nil)

type DialOptions struct {
	// Timeout applies per RPC when non-zero.
	Timeout time.Duration

	// MaxMsgBytes sets both send/recv max sizes when non-zero.
	MaxMsgBytes int
}

func Dial(target string, opts DialOptions) (*Client, error) {
	dialOpts := []grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	}
	if opts.MaxMsgBytes > 0 {
		dialOpts = append(dialOpts,
			grpc.WithDefaultCallOptions(
				grpc.MaxCallRecvMsgSize(opts.MaxMsgBytes),
				grpc.MaxCallSendMsgSize(opts.MaxMsgBytes),
			),
		)
	}

	cc, err := grpc.NewClient(target, dialOpts...)
	if err != nil {
		return nil, err
	}
	return &Client{cc: cc, client: NewCASClient(cc), Timeout: opts.Timeout}, nil
}

func (c *Client) Close() error {
	if c == nil || c.cc == nil {
		return nil
	}
	return c.cc.Close()
}

func (c *Client) Add(ac content.Addressable) error {
	b, err := ac.Content()
	if err != nil {
		return err
	}
	expected := ac.Address()
	if !expected.Defined() {
		return storage.ErrInvalidAddress
	}

	ctx, cancel := c.ctx()
	defer cancel()

	reply, err := c.client.Add(ctx, wrapperspb.Bytes(b))
	if err != nil {
		return mapRPC(err)
	}
	if reply.GetValue() != expected.String() {
		return storage.ErrMismatch
	}
	return nil
}

func (c *Client) Contains(addr content.Address) bool {
	if !addr.Defined() {
		return false
	}
	ctx, cancel := c.ctx()
	defer cancel()

	reply, err := c.client.Contains(ctx, wrapperspb.String(addr.String()))
	if err != nil {
		return false
	}
	return reply.GetValue()
}

func (c *Client) Fetch(addr content.Address) ([]byte, error) {
	if !addr.Defined() {
		return nil, storage.ErrInvalidAddress
	}
	ctx, cancel := c.ctx()
	defer cancel()

	reply, err := c.client.Fetch(ctx, wrapperspb.String(addr.String()))
	if err != nil {
		return nil, mapRPC(err)
	}
	b := reply.GetValue()
	got, err := content.AddressOf(b)
	if err != nil {
		return nil, err
	}
	if got != addr {
		return nil, storage.ErrMismatch
	}
	return b, nil
}

func (c *Client) ctx() (context.Context, context.CancelFunc) {
	if c.Timeout <= 0 {
		return context.WithCancel(context.Background())
	}
	return context.WithTimeout(context.Background(), c.Timeout)
}
