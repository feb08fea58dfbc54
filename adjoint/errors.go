package adjoint

import "errors"

var (
	ErrInvalidArgument = errors.New("invalid argument")
	ErrLeafCount       = errors.New("leaf count does not match structure")
	ErrUnsupportedKind = errors.New("unsupported medium kind")
)
