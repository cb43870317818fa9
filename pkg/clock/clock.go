package clock

import "time"

// Clock abstrae "el ahora" en la zona horaria del despliegue, para que los
// timestamps de carga no dependan del TZ del host y los tests puedan fijarlo.
type Clock interface {
	Now() time.Time
	Today() time.Time
}

// ZoneClock reloj real anclado a una zona horaria.
type ZoneClock struct {
	loc *time.Location
}

// New crea un reloj para el nombre de zona IANA dado (ej.
// "America/Argentina/Buenos_Aires"). Si la zona no existe cae a UTC.
func New(zone string) *ZoneClock {
	loc, err := time.LoadLocation(zone)
	if err != nil {
		loc = time.UTC
	}
	return &ZoneClock{loc: loc}
}

// Now devuelve el instante actual en la zona configurada.
func (c *ZoneClock) Now() time.Time {
	return time.Now().In(c.loc)
}

// Today devuelve la fecha actual (medianoche) en la zona configurada.
func (c *ZoneClock) Today() time.Time {
	now := c.Now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, c.loc)
}

// Fixed reloj congelado para tests.
type Fixed struct {
	T time.Time
}

func (f Fixed) Now() time.Time { return f.T }

func (f Fixed) Today() time.Time {
	return time.Date(f.T.Year(), f.T.Month(), f.T.Day(), 0, 0, 0, 0, f.T.Location())
}
