// Package rest is the typed request layer over httpclient. Every call
// returns a task.Task that, when run, sends the request, strips null leaves
// from the JSON payload and decodes it with a caller-supplied codec.Decoder.
// Failures are always errors.AppError values:
//
//   - transport failures go through the client's ErrorReader
//     (DefaultErrorReader maps statuses to API errors and cancellation to
//     Cancelled)
//   - payloads the decoder rejects become Internal errors naming the
//     method, URL and decoder, and are logged with the raw body
//
// Usage:
//
//	adapter, _ := httpclient.New(httpclient.Config{BaseURL: "https://api.example.com"})
//	client := rest.New(adapter)
//
//	getUser := rest.Get(client, "/users/42", codec.JSON[User]("User"))
//	user, err := task.Run(ctx, getUser)
//
// Because Go methods cannot take type parameters, the request functions are
// package-level generics taking the client as their first argument.
package rest
