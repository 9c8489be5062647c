// Package interview runs the voice interview turn loop.
//
// A Session is created per WebSocket handshake and owned by a single
// goroutine; the Orchestrator drives it through a strict cycle of states:
// await an audio frame and an optional typed supplement, transcribe, complete
// against the full transcript, classify the reply into narration and an
// optional problem/solution payload, respond with synthesized audio and
// routed text, then compact the transcript when it grows too long.
//
// Problem and solution payloads emitted by the model are replaced with
// curated entries drawn from the bank queue sampled at session start; an
// exhausted queue falls back to the model's own text. Structured payloads are
// delivered to the session's "code" sub-channel when a viewer is connected.
//
// Whatever ends the session, the transcript minus its system entry is
// archived exactly once and the session is removed from the registry before
// Run returns.
//
//	sess := interview.NewSession(userID, prompt,
//		interview.WithModel(completion.ModelGPT4o),
//	)
//	if err := reg.Register(sess.Identity(), conn); err != nil {
//		return err
//	}
//	err := orch.Run(ctx, sess, conn)
package interview
