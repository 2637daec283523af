package internal

import (
	"context"
	"log"
	"strings"
	"time"

	"connectrpc.com/connect"
)

// NewLoggingInterceptor logs every unary call with its outcome and duration.
func NewLoggingInterceptor() connect.UnaryInterceptorFunc {
	interceptor := func(next connect.UnaryFunc) connect.UnaryFunc {
		return connect.UnaryFunc(func(
			ctx context.Context,
			req connect.AnyRequest,
		) (connect.AnyResponse, error) {
			urlBits := strings.Split(req.Spec().Procedure, "/")
			rpcinvoked := urlBits[len(urlBits)-1]

			start := time.Now()
			res, err := next(ctx, req)
			if err != nil {
				log.Printf("rpc %s failed after %s: %v\n", rpcinvoked, time.Since(start), err)
				return nil, err
			}

			log.Printf("rpc %s served in %s\n", rpcinvoked, time.Since(start))
			return res, nil
		})
	}
	return connect.UnaryInterceptorFunc(interceptor)
}
