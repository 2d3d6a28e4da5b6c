package transport

import (
	"context"

	"connectrpc.com/connect"
)

const defaultSearchLimit = 20

// SearchIndexHybrid dispatches a query through lexical and (unless disabled)
// semantic search, fusing both with reciprocal-rank fusion. The default,
// full-featured search endpoint.
func (s *Service) SearchIndexHybrid(ctx context.Context, req *connect.Request[SearchIndexRequest]) (*connect.Response[SearchIndexResponse], error) {
	limit := req.Msg.Limit
	if limit <= 0 {
		limit = defaultSearchLimit
	}
	semanticEnabled := true
	if req.Msg.SemanticEnabled != nil {
		semanticEnabled = *req.Msg.SemanticEnabled
	}
	hits, err := s.Engine.SearchHybrid(ctx, req.Msg.Query, req.Msg.RootPath, limit, req.Msg.FileNameOnly, semanticEnabled)
	if err != nil {
		return nil, connect.NewError(connect.CodeInternal, err)
	}
	return connect.NewResponse(&SearchIndexResponse{Hits: hitsToView(hits)}), nil
}

// SearchIndex is the lexical-only search endpoint, recovered from
// commands.rs's search_index (callable in the original even though its
// C-FFI dispatch table only wired the hybrid variant).
func (s *Service) SearchIndex(ctx context.Context, req *connect.Request[SearchIndexRequest]) (*connect.Response[SearchIndexResponse], error) {
	limit := req.Msg.Limit
	if limit <= 0 {
		limit = defaultSearchLimit
	}
	hits, err := s.Engine.SearchLexical(ctx, req.Msg.Query, req.Msg.RootPath, limit, req.Msg.FileNameOnly)
	if err != nil {
		return nil, connect.NewError(connect.CodeInternal, err)
	}
	return connect.NewResponse(&SearchIndexResponse{Hits: hitsToView(hits)}), nil
}

// SearchIndexSemantic is the semantic-only search endpoint, recovered from
// commands.rs's search_index_semantic.
func (s *Service) SearchIndexSemantic(ctx context.Context, req *connect.Request[SearchIndexRequest]) (*connect.Response[SearchIndexResponse], error) {
	limit := req.Msg.Limit
	if limit <= 0 {
		limit = defaultSearchLimit
	}
	hits, err := s.Engine.SearchSemantic(ctx, req.Msg.Query, req.Msg.RootPath, limit)
	if err != nil {
		return nil, connect.NewError(connect.CodeInternal, err)
	}
	return connect.NewResponse(&SearchIndexResponse{Hits: hitsToView(hits)}), nil
}
