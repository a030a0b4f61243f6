package stream

// On attaches a side-effecting observer invoked for every Next value;
// every event passes through unchanged.
func On[T any](parent *Node[T], fn func(T)) *Node[T] {
	return attach(parent, "on", parent.Flavor(), func(_ *T, ev Event[T]) Signal[T] {
		if ev.Kind == EventNext {
			fn(ev.Value)
		}
		return Identity(nil, ev)
	})
}

// OnError attaches an observer invoked for every non-terminating Error.
func OnError[T any](parent *Node[T], fn func(error)) *Node[T] {
	return attach(parent, "onError", parent.Flavor(), func(_ *T, ev Event[T]) Signal[T] {
		if ev.Kind == EventErr {
			fn(ev.Err)
		}
		return Identity(nil, ev)
	})
}

// OnTerminate attaches an observer invoked once, when the stream
// terminates, with the terminal reason.
func OnTerminate[T any](parent *Node[T], fn func(Reason)) *Node[T] {
	return attach(parent, "onTerminate", parent.Flavor(), func(_ *T, ev Event[T]) Signal[T] {
		if ev.Kind == EventTerminate {
			fn(ev.Reason)
		}
		return Identity(nil, ev)
	})
}

// OnTransition attaches an observer invoked with both the previous and
// current value on every Next after the node's first.
func OnTransition[T any](parent *Node[T], fn func(prior, current T)) *Node[T] {
	return attach(parent, "onTransition", parent.Flavor(), func(prior *T, ev Event[T]) Signal[T] {
		if ev.Kind == EventNext && prior != nil {
			fn(*prior, ev.Value)
		}
		return Identity(nil, ev)
	})
}
