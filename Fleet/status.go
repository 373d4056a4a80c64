package Fleet

import (
	"LongDrive/Models"

	"github.com/looplab/fsm"
)

// Events on the vehicle status machine. Each fleet operation maps to exactly
// one event; SetVehicleStatus uses the maintenance events.
const (
	EventCheckout      = "checkout"
	EventReturnKey     = "return_key"
	EventStartTrip     = "start_trip"
	EventEndTrip       = "end_trip"
	EventSendToService = "send_to_service"
	EventMarkBroken    = "mark_broken"
	EventRestore       = "restore"
)

// statusEvents is the full transition graph for the vehicle status column.
// A vehicle leaves "available" through exactly one workflow at a time and
// maintenance states are only reachable from the yard, never mid-trip or
// with keys out.
var statusEvents = fsm.Events{
	{Name: EventCheckout, Src: []string{Models.StatusAvailable}, Dst: Models.StatusCheckedOut},
	{Name: EventReturnKey, Src: []string{Models.StatusCheckedOut}, Dst: Models.StatusAvailable},
	{Name: EventStartTrip, Src: []string{Models.StatusAvailable}, Dst: Models.StatusInTrip},
	{Name: EventEndTrip, Src: []string{Models.StatusInTrip}, Dst: Models.StatusAvailable},
	{Name: EventSendToService, Src: []string{Models.StatusAvailable, Models.StatusBroken}, Dst: Models.StatusService},
	{Name: EventMarkBroken, Src: []string{Models.StatusAvailable, Models.StatusService}, Dst: Models.StatusBroken},
	{Name: EventRestore, Src: []string{Models.StatusService, Models.StatusBroken}, Dst: Models.StatusAvailable},
}

func newStatusMachine(current string) *fsm.FSM {
	return fsm.NewFSM(current, statusEvents, fsm.Callbacks{})
}

// CanTransition reports whether a vehicle in status from may move to status
// to through any event of the graph. Same-status "transitions" are allowed;
// they cover updates that touch odometer/fuel without changing status.
func CanTransition(from, to string) bool {
	if from == to {
		return true
	}
	m := newStatusMachine(from)
	for _, e := range statusEvents {
		if e.Dst != to {
			continue
		}
		if m.Can(e.Name) {
			return true
		}
	}
	return false
}
