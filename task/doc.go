// Package task provides deferred computations that resolve to a typed value
// or an application error.
//
// A Task does nothing until it is run. Running it twice performs the work
// twice; results are never cached.
//
//	load := rest.Get(client, "/users/42", codec.JSON[User]("User"))
//	user, err := task.Run(ctx, load)
//
// Helpers compose tasks without running them:
//
//   - Sequence and Sequence3 run tasks concurrently and join the results.
//   - Chain runs a second task built from the first one's value.
//   - Map and MapError transform outcomes.
//   - Finally attaches cleanup that runs on both paths.
//
// ToFuture and OnComplete bridge tasks to consumers that expect a future or
// callbacks.
package task
