package e2e

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"gocv.io/x/gocv"

	"github.com/ayusman/fingercount/internal/app"
	"github.com/ayusman/fingercount/internal/capture"
	"github.com/ayusman/fingercount/internal/config"
	"github.com/ayusman/fingercount/internal/detector"
	"github.com/ayusman/fingercount/internal/fixtures"
	"github.com/ayusman/fingercount/internal/server"
)

// scriptedCamera hands out exactly the frames the test queues.
type scriptedCamera struct {
	frames chan *gocv.Mat
	open   bool
}

func (c *scriptedCamera) Open() error  { c.open = true; return nil }
func (c *scriptedCamera) Close() error { c.open = false; return nil }
func (c *scriptedCamera) SetFPS(int)   {}
func (c *scriptedCamera) FPS() int     { return capture.DefaultFPS }
func (c *scriptedCamera) IsOpen() bool { return c.open }

func (c *scriptedCamera) ReadFrame() (*gocv.Mat, error) {
	select {
	case m := <-c.frames:
		return m, nil
	case <-time.After(5 * time.Millisecond):
		return nil, capture.ErrEmptyFrame
	}
}

func TestE2E_CountsMirroredOverHTTP(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping e2e test")
	}

	replies := map[uint8]string{0: "none", 10: "three_up", 20: "two_hands"}
	det := detector.NewMockDetector()
	det.SetFunc(func(frame *gocv.Mat) ([]detector.Hand, error) {
		return fixtures.LoadHands(replies[fixtures.Brightness(frame)])
	})

	cfg := config.Default()
	cfg.Camera.LockDir = t.TempDir()
	cfg.Camera.MaxConsecutiveFailures = 1_000_000
	cfg.Camera.RetryDelayMs = 1
	cfg.Pipeline.FrameWaitMs = 5
	cfg.Display.Enabled = false

	hub := server.NewHub()
	cam := &scriptedCamera{frames: make(chan *gocv.Mat, 4)}
	ctl := app.New(app.Options{Config: &cfg, Camera: cam, Detector: det, Presenter: hub})

	ts := httptest.NewServer(server.New(server.Config{
		Hub:   hub,
		State: func() string { return ctl.State().String() },
	}))
	defer ts.Close()

	updates, unsubscribe := hub.Subscribe()
	defer unsubscribe()

	if err := ctl.Start(context.Background()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	client := ts.Client()
	for i, want := range []int{0, 3, 7} {
		cam.frames <- fixtures.SolidFrame(float64(i * 10))

		select {
		case <-updates:
		case <-time.After(2 * time.Second):
			t.Fatalf("frame %d was never presented", i)
		}

		snap := getCount(t, client, ts.URL)
		if snap.Total != want {
			t.Errorf("frame %d: total = %d, want %d", i, snap.Total, want)
		}
		if snap.Seq != uint64(i+1) {
			t.Errorf("frame %d: seq = %d, want %d", i, snap.Seq, i+1)
		}
	}

	if got := getHealth(t, client, ts.URL); got != "running" {
		t.Errorf("pipeline state = %q, want running", got)
	}

	if err := ctl.Stop(); err != nil {
		t.Fatalf("Stop() error = %v", err)
	}
	if cam.IsOpen() {
		t.Error("camera should be released after Stop")
	}
	if _, ok := <-updates; ok {
		t.Error("hub should be closed with the pipeline")
	}
	if got := getHealth(t, client, ts.URL); got != "stopped" {
		t.Errorf("pipeline state = %q, want stopped", got)
	}
}

func getCount(t *testing.T, client *http.Client, base string) server.Snapshot {
	t.Helper()
	resp, err := client.Get(base + "/api/count")
	if err != nil {
		t.Fatalf("GET /api/count: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("GET /api/count status = %d", resp.StatusCode)
	}
	var snap server.Snapshot
	if err := json.NewDecoder(resp.Body).Decode(&snap); err != nil {
		t.Fatalf("decode count: %v", err)
	}
	return snap
}

func getHealth(t *testing.T, client *http.Client, base string) string {
	t.Helper()
	resp, err := client.Get(base + "/api/health")
	if err != nil {
		t.Fatalf("GET /api/health: %v", err)
	}
	defer resp.Body.Close()
	var body map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode health: %v", err)
	}
	state, _ := body["pipeline"].(string)
	return state
}
