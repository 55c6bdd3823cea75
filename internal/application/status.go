package application

// Status enumerates the reservation lifecycle states. The integer values are
// the wire representation and must stay stable.
type Status int

const (
	// StatusPendente is the initial state assigned at creation.
	StatusPendente Status = 1
	// StatusEmReserva marks an accepted, active reservation.
	StatusEmReserva Status = 2
	// StatusRecusado marks a refused reservation. Terminal.
	StatusRecusado Status = 3
	// StatusFinalizado marks a returned or completed reservation. Terminal.
	StatusFinalizado Status = 4
	// StatusCancelado marks a cancelled reservation. Terminal.
	StatusCancelado Status = 5
)

// Valid reports whether the status is one of the enumerated lifecycle states.
func (s Status) Valid() bool {
	return s >= StatusPendente && s <= StatusCancelado
}

// Terminal reports whether no further transition is expected from the status.
func (s Status) Terminal() bool {
	switch s {
	case StatusRecusado, StatusFinalizado, StatusCancelado:
		return true
	}
	return false
}

// Label returns the display label used by the original system.
func (s Status) Label() string {
	switch s {
	case StatusPendente:
		return "PENDENTE"
	case StatusEmReserva:
		return "EM RESERVA"
	case StatusRecusado:
		return "RECUSADO"
	case StatusFinalizado:
		return "FINALIZADO"
	case StatusCancelado:
		return "CANCELADO"
	}
	return ""
}
