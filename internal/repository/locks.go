package repository

// Advisory lock classes for pg_advisory_xact_lock(classid, objid). The two-key
// form keeps vehicle and passenger lock spaces from colliding.
const (
	lockClassVehicle   = 1
	lockClassPassenger = 2
)

const lockQuery = `SELECT pg_advisory_xact_lock($1, $2)`
