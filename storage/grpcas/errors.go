package grpcas

import (
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/weftnet/weft/storage"
)

func mapRPC(err error) error {
	if err == nil {
		return nil
	}
	st, ok := status.FromError(err)
	if !ok {
		return err
	}

	switch st.Code() {
	case codes.NotFound:
		return storage.ErrNotFound
	case codes.InvalidArgument:
		// Server uses InvalidArgument for malformed/undefined addresses.
		return storage.ErrInvalidAddress
	case codes.DataLoss:
		// Server uses DataLoss when bytes do not match the requested address.
		return storage.ErrMismatch
	default:
		// Best-effort: if the server sent a known storage error message, preserve it.
		switch st.Message() {
		case storage.ErrNotFound.Error():
			return storage.ErrNotFound
		case storage.ErrInvalidAddress.Error():
			return storage.ErrInvalidAddress
		case storage.ErrMismatch.Error():
			return storage.ErrMismatch
		default:
			return err
		}
	}
}
