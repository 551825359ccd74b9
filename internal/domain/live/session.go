package live

import (
	"sync"
	"time"

	"dnipets-backend/internal/platform/logger"
	"dnipets-backend/internal/ports/genai"
)

type State string

const (
	StateDisconnected State = "disconnected"
	StateConnecting   State = "connecting"
	StateConnected    State = "connected"
)

// Event es lo que la sesión emite hacia el cliente websocket.
type Event struct {
	Type string // "status" | "audio" | "error"

	Status State

	// Audio es PCM16 de salida (24 kHz); StartIn es cuánto falta para
	// su instante de reproducción programado.
	Audio   []byte
	StartIn time.Duration

	Message string
}

// Session coordina una conversación de voz: estado de conexión,
// scheduling de playback y rate limit de frames de cámara. Todos los
// métodos son seguros para llamar desde goroutines distintas (el read
// loop del upstream y el del cliente corren en paralelo).
type Session struct {
	mu sync.Mutex

	state    State
	stopped  bool
	upstream genai.LiveSession

	sched     *Scheduler
	lastFrame time.Time

	emit func(Event)
	log  logger.Logger
	now  func() time.Time
}

func NewSession(emit func(Event), log logger.Logger) *Session {
	return &Session{
		state: StateDisconnected,
		sched: NewScheduler(),
		emit:  emit,
		log:   log.With(map[string]any{"module": "live"}),
		now:   time.Now,
	}
}

// Connecting marca la sesión en conexión y lo anuncia al cliente.
func (s *Session) Connecting() {
	s.mu.Lock()
	s.state = StateConnecting
	s.sched.Reset()
	s.mu.Unlock()

	s.emit(Event{Type: "status", Status: StateConnecting})
}

// BindUpstream asocia la sesión remota ya marcada. Si Stop llegó
// durante el dial, la cierra en el acto.
func (s *Session) BindUpstream(up genai.LiveSession) {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		_ = up.Close()
		return
	}
	s.upstream = up
	s.mu.Unlock()
}

// HandleOpen: el upstream completó el setup.
func (s *Session) HandleOpen() {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return
	}
	s.state = StateConnected
	s.mu.Unlock()

	s.emit(Event{Type: "status", Status: StateConnected})
}

// HandleAudio programa el chunk recibido y lo reenvía con su offset de
// reproducción.
func (s *Session) HandleAudio(pcm []byte) {
	if len(pcm) == 0 {
		return
	}

	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return
	}
	start := s.sched.Schedule(PCMDuration(len(pcm), OutputSampleRate))
	startIn := start.Sub(s.now())
	s.mu.Unlock()

	if startIn < 0 {
		startIn = 0
	}
	s.emit(Event{Type: "audio", Audio: pcm, StartIn: startIn})
}

// HandleClose: el upstream se cayó o cerró. Un cierre posterior a Stop
// es el teardown normal y no se reporta.
func (s *Session) HandleClose(err error) {
	s.mu.Lock()
	wasStopped := s.stopped
	s.state = StateDisconnected
	s.upstream = nil
	s.mu.Unlock()

	if wasStopped {
		return
	}
	if err != nil {
		s.log.Warn("live upstream closed", map[string]any{"error": err.Error()})
		s.emit(Event{Type: "error", Message: "voice session lost"})
	}
	s.emit(Event{Type: "status", Status: StateDisconnected})
}

// SendAudio reenvía audio del micrófono al upstream. Fuera de
// connected se descarta en silencio.
func (s *Session) SendAudio(pcm []byte) {
	s.mu.Lock()
	up := s.upstream
	ok := s.state == StateConnected && !s.stopped
	s.mu.Unlock()

	if !ok || up == nil {
		return
	}
	if err := up.SendAudio(pcm); err != nil {
		s.log.Warn("send audio failed", map[string]any{"error": err.Error()})
	}
}

// SendImage reenvía un frame de cámara, descartando los que lleguen a
// más de un frame por FrameInterval.
func (s *Session) SendImage(jpeg []byte) {
	s.mu.Lock()
	up := s.upstream
	ok := s.state == StateConnected && !s.stopped
	if ok {
		now := s.now()
		if !s.lastFrame.IsZero() && now.Sub(s.lastFrame) < FrameInterval {
			ok = false
		} else {
			s.lastFrame = now
		}
	}
	s.mu.Unlock()

	if !ok || up == nil {
		return
	}
	if err := up.SendImage(jpeg); err != nil {
		s.log.Warn("send frame failed", map[string]any{"error": err.Error()})
	}
}

// Stop termina la sesión. Idempotente; el estado queda disconnected
// antes de tocar el upstream, así cualquier callback tardío se ignora.
func (s *Session) Stop() {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return
	}
	s.stopped = true
	s.state = StateDisconnected
	up := s.upstream
	s.upstream = nil
	s.mu.Unlock()

	if up != nil {
		_ = up.Close()
	}
	s.emit(Event{Type: "status", Status: StateDisconnected})
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}
