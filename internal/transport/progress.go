package transport

import (
	"context"

	"connectrpc.com/connect"

	"github.com/hsn0918/docindex/internal/indexer"
)

// streamSink adapts a connect server stream into an indexer.EventSink,
// so one StreamIndexProgress call both drives an indexing pass and streams
// its index-progress events, in place of the original's callback pointer.
type streamSink struct {
	stream  *connect.ServerStream[IndexProgressEvent]
	sendErr error
}

func (s *streamSink) OnIndexProgress(p indexer.Progress) {
	if s.sendErr != nil {
		return
	}
	s.sendErr = s.stream.Send(&IndexProgressEvent{
		RootPath:    p.RootPath,
		Phase:       p.Phase,
		Discovered:  p.Discovered,
		Changed:     p.Changed,
		Processed:   p.Processed,
		Updated:     p.Updated,
		Skipped:     p.Skipped,
		Removed:     p.Removed,
		ElapsedMs:   p.ElapsedMs,
		CurrentFile: p.CurrentFile,
	})
}

// StreamIndexProgress runs one indexing pass over root_path, streaming each
// index-progress event as it's emitted instead of waiting for the final
// Stats return value. Grounded on SPEC_FULL.md §6's StreamIndexProgress
// design note.
func (s *Service) StreamIndexProgress(ctx context.Context, req *connect.Request[StreamIndexProgressRequest], stream *connect.ServerStream[IndexProgressEvent]) error {
	sink := &streamSink{stream: stream}
	_, err := s.Indexer.Run(ctx, req.Msg.RootPath, sink)
	if err != nil {
		return connect.NewError(connect.CodeInternal, err)
	}
	if sink.sendErr != nil {
		return connect.NewError(connect.CodeUnavailable, sink.sendErr)
	}
	return nil
}
