package stream

import (
	"context"

	"github.com/corvanis/streamkit/stream/dispatch"
)

// RetryOnSync attaches a decision to every Error a Promise's chain
// produces: if decide returns true, the error is cancelled (suppressed
// downstream) and the Promise retries; if false, the error passes on
// unchanged (§4.5 "retryOn(sync)").
func RetryOnSync[T any](p *Promise[T], decide func(error) bool) *Node[T] {
	return attach(p.Node(), "retryOn", FlavorHot, func(_ *T, ev Event[T]) Signal[T] {
		switch ev.Kind {
		case EventNext:
			return Push(ev.Value)
		case EventErr:
			if decide(ev.Err) {
				p.Retry()
				return Cancel[T]()
			}
			return SigErr[T](ev.Err)
		default:
			if ev.Reason.Kind == ErrorReason && decide(ev.Reason.Err) {
				p.Retry()
				return Cancel[T]()
			}
			return TerminateWith[T](nil, ev.Reason)
		}
	})
}

// RetryOnAsync is RetryOnSync's asynchronous counterpart: decide invokes
// its callback once the caller has reached a verdict (e.g. after
// consulting a remote policy), instead of returning synchronously (§4.5
// "retryOn(async)"). Each error calls decide and is held back until
// respond runs. This node does not track pending decisions itself; a
// Promise delivers nothing after an error until it is retried.
func RetryOnAsync[T any](p *Promise[T], decide func(err error, respond func(retry bool))) *Node[T] {
	var child *Node[T]
	child = attach(p.Node(), "retryOnAsync", FlavorHot, func(_ *T, ev Event[T]) Signal[T] {
		switch ev.Kind {
		case EventNext:
			return Push(ev.Value)
		case EventErr:
			decide(ev.Err, func(retry bool) {
				if retry {
					p.Retry()
				} else {
					child.ingest(ErrEvent[T](ev.Err))
				}
			})
			return Cancel[T]()
		default:
			if ev.Reason.Kind == ErrorReason {
				decide(ev.Reason.Err, func(retry bool) {
					if retry {
						p.Retry()
					} else {
						child.ingest(Terminate[T](ev.Reason))
					}
				})
				return Cancel[T]()
			}
			return TerminateWith[T](nil, ev.Reason)
		}
	})
	return child
}

// RetrySync invokes task up to limit+1 times -- the original attempt
// plus up to limit retries -- waiting for after's policy between
// attempts, until it succeeds or the budget is exhausted, in which case
// the returned Future fails wrapping the final attempt's real cause (§4.4
// retry(limit, delay), §8 scenario 3 "terminate(Error(E))"). Pass
// dispatch.After(runner, delay, queue) as after to retry on a delay, or
// dispatch.Inline() to retry immediately (mainly for tests).
func RetrySync[T any](task func() Result[T], limit int, after dispatch.Dispatcher) *Future[T] {
	return NewFuture[T]("retry", func(complete func(Result[T])) {
		var attempt func(remaining int)
		attempt = func(remaining int) {
			r := task()
			if r.IsOk() {
				complete(r)
				return
			}
			if remaining <= 0 {
				complete(Err[T](&EventError{Message: "retry exhausted", Cause: r.Error()}))
				return
			}
			after.Execute(func() { attempt(remaining - 1) })
		}
		attempt(limit)
	})
}

// RetryAsync retries an asynchronous task that itself returns a Future
// per attempt, instead of blocking the caller.
func RetryAsync[T any](task func(ctx context.Context) *Future[T], limit int, after dispatch.Dispatcher) *Future[T] {
	return NewFuture[T]("retryAsync", func(complete func(Result[T])) {
		ctx := context.Background()
		var attempt func(remaining int)
		attempt = func(remaining int) {
			fut := task(ctx)
			attach(fut.Node(), "retryAsync.attempt", FlavorHot, func(_ *T, ev Event[T]) Signal[T] {
				switch ev.Kind {
				case EventNext:
					complete(Ok(ev.Value))
				case EventErr:
					// Future preprocess normally upgrades Error to Terminate;
					// handled defensively in case a caller's Future skips that.
				case EventTerminate:
					if ev.Reason.Kind != ErrorReason {
						return NoOp[T]()
					}
					if remaining <= 0 {
						complete(Err[T](&EventError{Message: "retry exhausted", Cause: ev.Reason.Err}))
						return NoOp[T]()
					}
					after.Execute(func() { attempt(remaining - 1) })
				}
				return NoOp[T]()
			})
		}
		attempt(limit)
	})
}
