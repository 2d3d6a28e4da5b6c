package transport

import (
	"net/http"

	"connectrpc.com/connect"
)

// Procedure paths, one per spec.md §6 command, all under one logical
// service namespace the way a generated ragv1connect service would group
// them — except there is nothing generated here (see DESIGN.md).
const (
	procAddRoot                  = "/docindex.v1/AddRoot"
	procRemoveRoot                = "/docindex.v1/RemoveRoot"
	procListRoots                 = "/docindex.v1/ListRoots"
	procIndexRoot                 = "/docindex.v1/IndexRoot"
	procGetIndexSnapshot          = "/docindex.v1/GetIndexSnapshot"
	procGetFilePreview            = "/docindex.v1/GetFilePreview"
	procGetHeadingPreviewHTML     = "/docindex.v1/GetHeadingPreviewHTML"
	procListCaptureTargets        = "/docindex.v1/ListCaptureTargets"
	procGetCaptureTargetPreview   = "/docindex.v1/GetCaptureTargetPreview"
	procAddCaptureHeading         = "/docindex.v1/AddCaptureHeading"
	procDeleteCaptureHeading      = "/docindex.v1/DeleteCaptureHeading"
	procMoveCaptureHeading        = "/docindex.v1/MoveCaptureHeading"
	procInsertCapture             = "/docindex.v1/InsertCapture"
	procSearchIndexHybrid         = "/docindex.v1/SearchIndexHybrid"
	procSearchIndex               = "/docindex.v1/SearchIndex"
	procSearchIndexSemantic       = "/docindex.v1/SearchIndexSemantic"
	procBenchmarkRootPerformance  = "/docindex.v1/BenchmarkRootPerformance"
	procStreamIndexProgress       = "/docindex.v1/StreamIndexProgress"
)

// NewMux registers every command handler in spec.md §6 against svc, using
// the sonic codec and the Validatable interceptor, mirroring the shape of
// modules.go's NewHTTPHandler (options slice, mux.Handle per path) without
// a generated service to register in one call.
func NewMux(svc *Service, interceptors ...connect.Interceptor) *http.ServeMux {
	opts := []connect.HandlerOption{
		connect.WithCodec(sonicCodec{}),
	}
	if len(interceptors) > 0 {
		opts = append(opts, connect.WithInterceptors(interceptors...))
	}

	mux := http.NewServeMux()

	mux.Handle(procAddRoot, connect.NewUnaryHandler(procAddRoot, svc.AddRoot, opts...))
	mux.Handle(procRemoveRoot, connect.NewUnaryHandler(procRemoveRoot, svc.RemoveRoot, opts...))
	mux.Handle(procListRoots, connect.NewUnaryHandler(procListRoots, svc.ListRoots, opts...))
	mux.Handle(procIndexRoot, connect.NewUnaryHandler(procIndexRoot, svc.IndexRoot, opts...))
	mux.Handle(procGetIndexSnapshot, connect.NewUnaryHandler(procGetIndexSnapshot, svc.GetIndexSnapshot, opts...))
	mux.Handle(procGetFilePreview, connect.NewUnaryHandler(procGetFilePreview, svc.GetFilePreview, opts...))
	mux.Handle(procGetHeadingPreviewHTML, connect.NewUnaryHandler(procGetHeadingPreviewHTML, svc.GetHeadingPreviewHTML, opts...))
	mux.Handle(procListCaptureTargets, connect.NewUnaryHandler(procListCaptureTargets, svc.ListCaptureTargets, opts...))
	mux.Handle(procGetCaptureTargetPreview, connect.NewUnaryHandler(procGetCaptureTargetPreview, svc.GetCaptureTargetPreview, opts...))
	mux.Handle(procAddCaptureHeading, connect.NewUnaryHandler(procAddCaptureHeading, svc.AddCaptureHeading, opts...))
	mux.Handle(procDeleteCaptureHeading, connect.NewUnaryHandler(procDeleteCaptureHeading, svc.DeleteCaptureHeading, opts...))
	mux.Handle(procMoveCaptureHeading, connect.NewUnaryHandler(procMoveCaptureHeading, svc.MoveCaptureHeading, opts...))
	mux.Handle(procInsertCapture, connect.NewUnaryHandler(procInsertCapture, svc.InsertCapture, opts...))
	mux.Handle(procSearchIndexHybrid, connect.NewUnaryHandler(procSearchIndexHybrid, svc.SearchIndexHybrid, opts...))
	mux.Handle(procSearchIndex, connect.NewUnaryHandler(procSearchIndex, svc.SearchIndex, opts...))
	mux.Handle(procSearchIndexSemantic, connect.NewUnaryHandler(procSearchIndexSemantic, svc.SearchIndexSemantic, opts...))
	mux.Handle(procBenchmarkRootPerformance, connect.NewUnaryHandler(procBenchmarkRootPerformance, svc.BenchmarkRootPerformance, opts...))
	mux.Handle(procStreamIndexProgress, connect.NewServerStreamHandler(procStreamIndexProgress, svc.StreamIndexProgress, opts...))

	return mux
}
