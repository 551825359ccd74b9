package live

import (
	"errors"
	"testing"
	"time"

	"dnipets-backend/internal/platform/logger"
)

type fakeUpstream struct {
	audio   [][]byte
	images  [][]byte
	closed  int
	sendErr error
}

func (f *fakeUpstream) SendAudio(pcm []byte) error {
	f.audio = append(f.audio, pcm)
	return f.sendErr
}

func (f *fakeUpstream) SendImage(jpeg []byte) error {
	f.images = append(f.images, jpeg)
	return f.sendErr
}

func (f *fakeUpstream) Close() error {
	f.closed++
	return nil
}

func newTestSession() (*Session, *[]Event, *time.Time) {
	var events []Event
	clock := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	s := NewSession(func(ev Event) { events = append(events, ev) }, logger.Nop())
	s.now = func() time.Time { return clock }
	s.sched.now = s.now
	return s, &events, &clock
}

func TestSessionLifecycle(t *testing.T) {
	s, events, _ := newTestSession()
	up := &fakeUpstream{}

	s.Connecting()
	s.BindUpstream(up)
	s.HandleOpen()

	if s.State() != StateConnected {
		t.Fatalf("state = %q", s.State())
	}

	s.SendAudio([]byte{1, 2})
	if len(up.audio) != 1 {
		t.Fatalf("audio reenviado = %d", len(up.audio))
	}

	s.Stop()
	s.Stop() // idempotente

	if up.closed != 1 {
		t.Fatalf("upstream cerrado %d veces", up.closed)
	}
	if s.State() != StateDisconnected {
		t.Fatalf("state tras Stop = %q", s.State())
	}

	// connecting, connected, disconnected
	var statuses []State
	for _, ev := range *events {
		if ev.Type == "status" {
			statuses = append(statuses, ev.Status)
		}
	}
	want := []State{StateConnecting, StateConnected, StateDisconnected}
	if len(statuses) != len(want) {
		t.Fatalf("statuses = %v", statuses)
	}
	for i := range want {
		if statuses[i] != want[i] {
			t.Fatalf("statuses = %v, quiero %v", statuses, want)
		}
	}
}

func TestSessionSchedulesAudioChunks(t *testing.T) {
	s, events, _ := newTestSession()
	s.BindUpstream(&fakeUpstream{})
	s.HandleOpen()

	oneSecond := make([]byte, 2*OutputSampleRate) // 1s de PCM16 a 24kHz
	s.HandleAudio(oneSecond)
	s.HandleAudio(oneSecond)

	var audio []Event
	for _, ev := range *events {
		if ev.Type == "audio" {
			audio = append(audio, ev)
		}
	}
	if len(audio) != 2 {
		t.Fatalf("eventos de audio = %d", len(audio))
	}
	if audio[0].StartIn != 0 {
		t.Fatalf("primer chunk debe sonar ya: %v", audio[0].StartIn)
	}
	if audio[1].StartIn != time.Second {
		t.Fatalf("segundo chunk debe encolarse a +1s: %v", audio[1].StartIn)
	}
}

func TestSessionDropsFastFrames(t *testing.T) {
	s, _, clock := newTestSession()
	up := &fakeUpstream{}
	s.BindUpstream(up)
	s.HandleOpen()

	s.SendImage([]byte{1})
	s.SendImage([]byte{2}) // mismo instante: se descarta
	*clock = clock.Add(FrameInterval)
	s.SendImage([]byte{3})

	if len(up.images) != 2 {
		t.Fatalf("frames reenviados = %d, quiero 2", len(up.images))
	}
}

func TestSessionIgnoresLateCallbacksAfterStop(t *testing.T) {
	s, events, _ := newTestSession()
	up := &fakeUpstream{}
	s.BindUpstream(up)
	s.HandleOpen()
	s.Stop()

	before := len(*events)
	s.HandleAudio([]byte{1, 2})
	s.HandleOpen()
	s.HandleClose(nil)
	s.SendAudio([]byte{3, 4})

	if len(*events) != before {
		t.Fatalf("callbacks tardíos no deben emitir: %d nuevos", len(*events)-before)
	}
	if len(up.audio) != 0 {
		t.Fatal("audio post-Stop no debe reenviarse")
	}
}

func TestSessionBindAfterStopClosesUpstream(t *testing.T) {
	s, _, _ := newTestSession()
	s.Stop()

	up := &fakeUpstream{}
	s.BindUpstream(up)
	if up.closed != 1 {
		t.Fatal("bind post-Stop debe cerrar el upstream en el acto")
	}
}

func TestSessionReportsUnexpectedClose(t *testing.T) {
	s, events, _ := newTestSession()
	s.BindUpstream(&fakeUpstream{})
	s.HandleOpen()

	s.HandleClose(errors.New("connection reset"))

	var gotError bool
	for _, ev := range *events {
		if ev.Type == "error" {
			gotError = true
		}
	}
	if !gotError {
		t.Fatal("caída del upstream debe reportarse como error")
	}
	if s.State() != StateDisconnected {
		t.Fatalf("state = %q", s.State())
	}
}
