// Package testutil provides test doubles and lifecycle helpers for code built
// on typedhttp.
//
// The centrepiece is APIServer, a gin-backed fake JSON API that records every
// request it receives:
//
//	api := testutil.StartAPIServer(t, "users-api")
//	api.HandleJSON(http.MethodGet, "/users/1", http.StatusOK, map[string]any{"id": "1"})
//
//	adapter, _ := httpclient.New(httpclient.Config{BaseURL: api.URL()})
//	client := rest.New(adapter)
//
// Test doubles implement TestComponent, which extends component.Component
// with Reset, Snapshot and Restore so state can be rolled back between
// subtests. Manager groups several of them behind a component.Registry.
package testutil
