package live

import "time"

// Scheduler asigna a cada chunk de audio de salida un instante de
// reproducción sin huecos ni solapes: el próximo chunk arranca donde
// terminó el anterior, o "ahora" si el cursor quedó en el pasado.
type Scheduler struct {
	now    func() time.Time
	cursor time.Time
}

func NewScheduler() *Scheduler {
	return &Scheduler{now: time.Now}
}

// Schedule reserva d de reproducción y devuelve el instante de inicio.
func (s *Scheduler) Schedule(d time.Duration) time.Time {
	start := s.now()
	if s.cursor.After(start) {
		start = s.cursor
	}
	s.cursor = start.Add(d)
	return start
}

// Reset vuelve el cursor al presente (al reconectar una sesión).
func (s *Scheduler) Reset() {
	s.cursor = time.Time{}
}
