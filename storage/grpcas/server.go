package grpcas

import (
	"context"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/weftnet/weft/content"
	"github.com/weftnet/weft/storage"
)

// Server exposes a ContentAddressableStorage over the CAS gRPC service.
type Server struct {
	UnimplementedCASServer
	CAS storage.ContentAddressableStorage
}

func (s *Server) Add(ctx context.Context, in *wrapperspb.BytesValue) (*wrapperspb.StringValue, error) {
	_ = ctx
	if s == nil || s.CAS == nil {
		return nil, status.Error(codes.FailedPrecondition, "missing CAS")
	}
	raw := content.Raw(in.GetValue())
	addr := raw.Address()
	if !addr.Defined() {
		return nil, status.Error(codes.Internal, "address derivation failed")
	}
	if err := s.CAS.Add(raw); err != nil {
		return nil, mapErr(err)
	}
	return wrapperspb.String(addr.String()), nil
}

func (s *Server) Contains(ctx context.Context, in *wrapperspb.StringValue) (*wrapperspb.BoolValue, error) {
	_ = ctx
	if s == nil || s.CAS == nil {
		return nil, status.Error(codes.FailedPrecondition, "missing CAS")
	}
	addr := content.Address(in.GetValue())
	if !addr.Defined() {
		return nil, status.Error(codes.InvalidArgument, storage.ErrInvalidAddress.Error())
	}
	return wrapperspb.Bool(s.CAS.Contains(addr)), nil
}

func (s *Server) Fetch(ctx context.Context, in *wrapperspb.StringValue) (*wrapperspb.BytesValue, error) {
	_ = ctx
	if s == nil || s.CAS == nil {
		return nil, status.Error(codes.FailedPrecondition, "missing CAS")
	}
	addr := content.Address(in.GetValue())
	if !addr.Defined() {
		return nil, status.Error(codes.InvalidArgument, storage.ErrInvalidAddress.Error())
	}
	b, err := s.CAS.Fetch(addr)
	if err != nil {
		return nil, mapErr(err)
	}
	got, err := content.AddressOf(b)
	if err != nil {
		return nil, status.Error(codes.Internal, "address derivation failed")
	}
	if got != addr {
		return nil, status.Error(codes.DataLoss, storage.ErrMismatch.Error())
	}
	return wrapperspb.Bytes(b), nil
}

func mapErr(err error) error {
	if err == nil {
		return nil
	}
	switch {
	case storage.IsNotFound(err):
		return status.Error(codes.NotFound, err.Error())
	case err == storage.ErrInvalidAddress:
		return status.Error(codes.InvalidArgument, err.Error())
	case err == storage.ErrMismatch, err == storage.ErrImmutable:
		return status.Error(codes.DataLoss, err.Error())
	default:
		return status.Error(codes.Internal, err.Error())
	}
}
