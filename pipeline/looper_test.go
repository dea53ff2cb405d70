package pipeline

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"golang.org/x/xerrors"

	"github.com/optimosight/vto-go/model"
	"github.com/optimosight/vto-go/palette"
	"github.com/optimosight/vto-go/region"
	"github.com/optimosight/vto-go/service/status"
	"gocv.io/x/gocv"
)

// stubLandmark lets tests script per-call behavior and watches for
// overlapping Detect calls.
type stubLandmark struct {
	mu       sync.Mutex
	calls    int
	failOn   map[int]bool
	faces    []model.Face
	delay    time.Duration
	inFlight int32
	maxSeen  int32
}

func (s *stubLandmark) Ready() bool { return true }

func (s *stubLandmark) Detect(canxCtx context.Context, _ gocv.Mat) ([]model.Face, error) {
	n := atomic.AddInt32(&s.inFlight, 1)
	defer atomic.AddInt32(&s.inFlight, -1)
	for {
		max := atomic.LoadInt32(&s.maxSeen)
		if n <= max || atomic.CompareAndSwapInt32(&s.maxSeen, max, n) {
			break
		}
	}

	if s.delay > 0 {
		time.Sleep(s.delay)
	}

	s.mu.Lock()
	s.calls++
	call := s.calls
	s.mu.Unlock()

	if s.failOn[call] {
		return nil, xerrors.New("scripted detection failure")
	}
	return s.faces, nil
}

func (s *stubLandmark) Close() error { return nil }

func (s *stubLandmark) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

type stubStatus struct {
	mu    sync.Mutex
	kinds map[string]int
}

func newStubStatus() *stubStatus {
	return &stubStatus{kinds: map[string]int{}}
}

func (s *stubStatus) Notify(kind string, _ string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.kinds[kind]++
}

func (s *stubStatus) count(kind string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.kinds[kind]
}

// testCfg satisfies config.IService with values tuned for fast test ticks.
type testCfg struct{}

func (testCfg) GetRunTimeEnv() string              { return "dev" }
func (testCfg) GetModeMaxShutdownTime() int        { return 1 }
func (testCfg) GetAPIPort() int                    { return 0 }
func (testCfg) GetDatabasePath() string            { return "" }
func (testCfg) GetSnapshotsFolder() string         { return "" }
func (testCfg) GetFramerType() string              { return "synthetic" }
func (testCfg) GetCameraDeviceID() int             { return 0 }
func (testCfg) GetCameraURL() string               { return "" }
func (testCfg) GetDisplayFPS() int                 { return 200 }
func (testCfg) GetDetectionTimeout() int           { return 100 }
func (testCfg) GetWidgetRegion() string            { return "lips" }
func (testCfg) GetFaceMeshModelPath() string       { return "" }
func (testCfg) GetFaceMeshScoreThreshold() float32 { return 0.5 }
func (testCfg) GetMaxUploadDimension() int         { return 1280 }
func (testCfg) GetGuestAPIKey() string             { return "" }
func (testCfg) GetSuperAdminAPIKey() string        { return "" }
func (testCfg) GetGuestUsageLimit() int            { return 0 }
func (testCfg) GetGuestResetPeriodHours() int      { return 24 }
func (testCfg) GetAnalyticsWebhookURL() string     { return "" }

func startLoop(t *testing.T, stub *stubLandmark, sink *stubStatus, pal *palette.State) (context.CancelFunc, chan error) {
	t.Helper()

	canxCtx, canxFn := context.WithCancel(context.Background())

	svcs := ServicesFactory{
		CfgSvc:      testCfg{},
		LandmarkSvc: stub,
		StatusSvc:   sink,
		Palette:     pal,
	}

	frames := make(chan FrameData, 1)
	img := gocv.NewMatWithSize(48, 64, gocv.MatTypeCV8UC3)
	frames <- FrameData{Mat: img, Timestamp: time.Now()}

	errorStream := make(chan interface{}, 256)
	statsStream := make(chan interface{}, 16)

	reg, err := region.Lookup("lips")
	if err != nil {
		t.Fatalf("Lookup(lips) failed: %v", err)
	}

	done := make(chan error, 1)
	stopped := make(chan struct{})
	go func() {
		done <- RunLoop(canxCtx, svcs, frames, reg, nil, errorStream, statsStream)
		close(stopped)
	}()

	t.Cleanup(func() {
		canxFn()
		select {
		case <-stopped:
		case <-time.After(2 * time.Second):
			t.Error("loop did not stop after cancellation")
		}
	})

	return canxFn, done
}

func waitForCalls(t *testing.T, stub *stubLandmark, n int) {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if stub.callCount() >= n {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("loop performed %d detections; want at least %d", stub.callCount(), n)
}

// A failing detection on one tick must never halt the loop.
func TestLoopSurvivesDetectionFailure(t *testing.T) {
	stub := &stubLandmark{failOn: map[int]bool{2: true}}
	sink := newStubStatus()

	startLoop(t, stub, sink, palette.NewState())

	waitForCalls(t, stub, 5)

	if sink.count(status.KindError) == 0 {
		t.Error("detection failure was not reported to the status sink")
	}
}

func TestLoopNoFaceNoticeOnlyWithColor(t *testing.T) {
	t.Run("color applied", func(t *testing.T) {
		stub := &stubLandmark{} // zero faces every tick
		sink := newStubStatus()
		pal := palette.NewState()
		pal.Apply(palette.RGB{R: 233, G: 30, B: 99})

		canxFn, done := startLoop(t, stub, sink, pal)

		waitForCalls(t, stub, 4)
		canxFn()
		<-done

		// Exactly one notice per zero-face tick.
		if got, want := sink.count(status.KindNoFace), stub.callCount(); got != want {
			t.Errorf("no-face notices = %d; want %d (one per tick)", got, want)
		}
	})

	t.Run("no color applied", func(t *testing.T) {
		stub := &stubLandmark{}
		sink := newStubStatus()

		canxFn, done := startLoop(t, stub, sink, palette.NewState())

		waitForCalls(t, stub, 4)
		canxFn()
		<-done

		if got := sink.count(status.KindNoFace); got != 0 {
			t.Errorf("no-face notices without a color = %d; want 0", got)
		}
	})
}

// Detections must never overlap: the loop awaits each result before the
// next tick's detection starts.
func TestLoopSequentialDetections(t *testing.T) {
	stub := &stubLandmark{delay: 20 * time.Millisecond} // longer than the tick interval
	sink := newStubStatus()

	startLoop(t, stub, sink, palette.NewState())

	waitForCalls(t, stub, 5)

	if max := atomic.LoadInt32(&stub.maxSeen); max > 1 {
		t.Errorf("detections in flight peaked at %d; want 1", max)
	}
}

func TestLoopStopsOnCancellation(t *testing.T) {
	stub := &stubLandmark{}
	sink := newStubStatus()

	canxFn, done := startLoop(t, stub, sink, palette.NewState())

	waitForCalls(t, stub, 2)
	canxFn()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("RunLoop returned %v on cancellation", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("RunLoop did not return after cancellation")
	}
}
