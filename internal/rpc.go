package internal

import (
	"context"
	"net/http"

	"connectrpc.com/connect"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

const FindPersonsProcedure = "/phonebook.v1.PhonebookService/FindPersons"

// NewFindPersonsHandler exposes FindPersons as a Connect unary procedure. The
// request is the keyword, the response a list of {id, name, number} structs.
func NewFindPersonsHandler(pb *Phonebook, interceptors ...connect.Interceptor) (string, http.Handler) {
	return FindPersonsProcedure, connect.NewUnaryHandler(
		FindPersonsProcedure,
		func(
			ctx context.Context,
			req *connect.Request[wrapperspb.StringValue],
		) (*connect.Response[structpb.ListValue], error) {
			persons, err := pb.FindPersons(ctx, req.Msg.GetValue())
			if err != nil {
				return nil, connect.NewError(connect.CodeInternal, err)
			}

			list, err := personsToList(persons)
			if err != nil {
				return nil, connect.NewError(connect.CodeInternal, err)
			}
			return connect.NewResponse(list), nil
		},
		connect.WithInterceptors(interceptors...),
	)
}

func personsToList(persons []Person) (*structpb.ListValue, error) {
	items := make([]any, 0, len(persons))
	for _, p := range persons {
		items = append(items, map[string]any{
			"id":     p.ID,
			"name":   p.Name,
			"number": p.Number,
		})
	}
	return structpb.NewList(items)
}
