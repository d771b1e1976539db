// Package repository exposes the Scanova REST endpoints as typed calls.
package repository

import (
	"context"
	"net/http"

	"github.com/noah-isme/scanova-console/internal/apiclient"
)

// API is the subset of apiclient.Client the repositories rely on.
type API interface {
	Request(ctx context.Context, path string, opts apiclient.RequestOptions) (*apiclient.Payload, error)
	Do(ctx context.Context, method, path string, opts apiclient.RequestOptions, out interface{}) error
}

func list[T any](ctx context.Context, api API, path, route string, query apiclient.Params) ([]T, error) {
	payload, err := api.Request(ctx, path, apiclient.RequestOptions{Method: http.MethodGet, Query: query, Route: route})
	if err != nil {
		return nil, err
	}
	return apiclient.DecodeList[T](payload), nil
}
