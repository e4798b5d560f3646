// Package streamtest provides helpers for testing code built on package
// stream.
//
// ManualStream lets a test decide exactly when a stream emits, fails or
// completes. Recorder captures everything a subscription delivers.
//
//	src := streamtest.NewManualStream[int](t)
//	rec := streamtest.NewRecorder[int]()
//	sub := src.Subscribe(ctx, rec)
//	src.Next(1)
//	src.Complete()
//	<-sub.Done()
package streamtest
