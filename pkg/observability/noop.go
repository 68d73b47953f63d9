package observability

import (
	"context"
	"time"
)

// The Noop types ignore every event. Embed one to implement only the
// methods you care about.
type (
	NoopPipelineHooks struct{}
	NoopCacheHooks    struct{}
	NoopHTTPHooks     struct{}
	NoopPlotHooks     struct{}
)

func (NoopPipelineHooks) OnDrawStart(context.Context, string)                                       {}
func (NoopPipelineHooks) OnDrawComplete(context.Context, string, int, time.Duration, error)         {}
func (NoopPipelineHooks) OnComposeStart(context.Context, string, int)                               {}
func (NoopPipelineHooks) OnComposeComplete(context.Context, string, int, int, time.Duration, error) {}
func (NoopPipelineHooks) OnRenderStart(context.Context, string)                                     {}
func (NoopPipelineHooks) OnRenderComplete(context.Context, string, int, time.Duration, error)       {}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

func (NoopHTTPHooks) OnRequest(context.Context, string, string, string)                      {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, string, int, time.Duration) {}
func (NoopHTTPHooks) OnError(context.Context, string, string, string, error)                 {}

func (NoopPlotHooks) OnCommand(context.Context, string, time.Duration, error)      {}
func (NoopPlotHooks) OnPlotStart(context.Context, string, int)                     {}
func (NoopPlotHooks) OnPlotComplete(context.Context, string, time.Duration, error) {}
