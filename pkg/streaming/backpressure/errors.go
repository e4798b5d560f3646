package backpressure

import (
	"fmt"

	cferrors "github.com/vnykmshr/chunkflow/pkg/common/errors"
)

const (
	operatorName = "backpressure"

	opSource  = "source"
	opHandler = "handler"
)

func sourceFailure(err error) error {
	return cferrors.NewOperationError(operatorName, opSource, err)
}

func handlerFailure(err error, gen uint64, size int) error {
	return cferrors.NewOperationError(operatorName, opHandler, err).
		WithContext(fmt.Sprintf("chunk #%d with %d values", gen, size))
}

// IsSourceFailure reports whether err was raised because the upstream source
// stream failed.
func IsSourceFailure(err error) bool {
	return cferrors.IsOperation(err, operatorName, opSource)
}

// IsHandlerFailure reports whether err was raised by the handler, either
// because it panicked, returned a nil stream, or its result stream failed.
func IsHandlerFailure(err error) bool {
	return cferrors.IsOperation(err, operatorName, opHandler)
}

// failureKind labels err for metrics.
func failureKind(err error) string {
	switch {
	case IsSourceFailure(err):
		return opSource
	case IsHandlerFailure(err):
		return opHandler
	default:
		return "internal"
	}
}
