// Package engine drives a long-lived agent worker process over a
// bidirectional, line-delimited JSON protocol and publishes a unified event
// stream to a caller-supplied sink.
//
// One Session owns one worker invocation: its process handle, its input
// stream, and two background readers (primary output, diagnostic output) —
// the only places the engine blocks on I/O. Outbound commands share a single
// exclusively-held input stream, so they reach the worker in send order;
// inbound lines are normalized by the protocol package and delivered to the
// EventSink in source order.
//
//	sink := engine.SinkFunc(func(ev protocol.Event) {
//	    fmt.Printf("%s: %s\n", ev.Type, ev.Content)
//	})
//
//	session := engine.NewSession(
//	    engine.WithWorkingDir("/path/to/project"),
//	    engine.WithModel(engine.ModelSonnet),
//	    engine.WithSink(sink),
//	)
//	if err := session.Start(ctx); err != nil {
//	    log.Fatal(err)
//	}
//	defer session.Close()
//
//	if err := session.SendMessage("fix the failing test"); err != nil {
//	    log.Fatal(err)
//	}
//
// The engine does not implement agent reasoning, does not decide tool-use
// permissions (that is the out-of-band permission broker's job, reached only
// through the skip-permissions flag), and does not guarantee delivery across
// a worker crash — recovery is the caller's responsibility, typically by
// starting a new session resumed from Registry history.
package engine
