package observability

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	p := NoopPipelineHooks{}
	p.OnDrawStart(ctx, "bouwkamp")
	p.OnDrawComplete(ctx, "bouwkamp", 17, time.Second, nil)
	p.OnComposeStart(ctx, "bouwkamp", 17)
	p.OnComposeComplete(ctx, "bouwkamp", 6, 17, time.Second, nil)
	p.OnRenderStart(ctx, "svg")
	p.OnRenderComplete(ctx, "svg", 4096, time.Second, nil)

	c := NoopCacheHooks{}
	c.OnCacheHit(ctx, "document")
	c.OnCacheMiss(ctx, "artifact")
	c.OnCacheSet(ctx, "artifact", 1024)

	h := NoopHTTPHooks{}
	h.OnRequest(ctx, "POST", "localhost:8000", "/plotter")
	h.OnResponse(ctx, "POST", "localhost:8000", "/plotter", 200, time.Second)
	h.OnError(ctx, "POST", "localhost:8000", "/plotter", nil)

	pl := NoopPlotHooks{}
	pl.OnCommand(ctx, "home", time.Second, nil)
	pl.OnPlotStart(ctx, "job", 1)
	pl.OnPlotComplete(ctx, "job", time.Minute, errors.New("stopped"))
}

func TestGlobalHooksRegistry(t *testing.T) {
	Reset()

	if _, ok := Pipeline().(NoopPipelineHooks); !ok {
		t.Error("Pipeline() should return NoopPipelineHooks by default")
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("Cache() should return NoopCacheHooks by default")
	}
	if _, ok := HTTP().(NoopHTTPHooks); !ok {
		t.Error("HTTP() should return NoopHTTPHooks by default")
	}
	if _, ok := Plot().(NoopPlotHooks); !ok {
		t.Error("Plot() should return NoopPlotHooks by default")
	}

	customPipeline := &testPipelineHooks{}
	SetPipelineHooks(customPipeline)
	if Pipeline() != customPipeline {
		t.Error("SetPipelineHooks should set custom hooks")
	}

	customCache := &testCacheHooks{}
	SetCacheHooks(customCache)
	if Cache() != customCache {
		t.Error("SetCacheHooks should set custom hooks")
	}

	customHTTP := &testHTTPHooks{}
	SetHTTPHooks(customHTTP)
	if HTTP() != customHTTP {
		t.Error("SetHTTPHooks should set custom hooks")
	}

	customPlot := &testPlotHooks{}
	SetPlotHooks(customPlot)
	if Plot() != customPlot {
		t.Error("SetPlotHooks should set custom hooks")
	}

	Reset()
	if _, ok := Pipeline().(NoopPipelineHooks); !ok {
		t.Error("Reset() should restore NoopPipelineHooks")
	}
	if _, ok := Plot().(NoopPlotHooks); !ok {
		t.Error("Reset() should restore NoopPlotHooks")
	}
}

func TestSetNilHooksIsIgnored(t *testing.T) {
	Reset()
	defer Reset()

	custom := &testPipelineHooks{}
	SetPipelineHooks(custom)
	SetPipelineHooks(nil)

	if Pipeline() != custom {
		t.Error("SetPipelineHooks(nil) should be ignored")
	}
}

func TestPlotHooksReceiveEvents(t *testing.T) {
	Reset()
	defer Reset()

	rec := &testPlotHooks{}
	SetPlotHooks(rec)
	Plot().OnPlotStart(context.Background(), "a", 2)
	Plot().OnPlotComplete(context.Background(), "a", time.Second, nil)

	rec.mu.Lock()
	defer rec.mu.Unlock()
	if len(rec.events) != 2 || rec.events[0] != "start:a" || rec.events[1] != "complete:a" {
		t.Errorf("events = %v, want [start:a complete:a]", rec.events)
	}
}

type testPipelineHooks struct{ NoopPipelineHooks }
type testCacheHooks struct{ NoopCacheHooks }
type testHTTPHooks struct{ NoopHTTPHooks }

type testPlotHooks struct {
	NoopPlotHooks
	mu     sync.Mutex
	events []string
}

func (h *testPlotHooks) OnPlotStart(_ context.Context, id string, _ int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.events = append(h.events, "start:"+id)
}

func (h *testPlotHooks) OnPlotComplete(_ context.Context, id string, _ time.Duration, _ error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.events = append(h.events, "complete:"+id)
}
