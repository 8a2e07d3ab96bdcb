// Package gatt is the protocol bridge between the transport layer's
// attribute read/write/notify surface and the lock controller.
package gatt

// Service and characteristic UUIDs advertised by the simulated
// peripheral. The identifiers are opaque to the core; each maps to
// exactly one role in the attribute catalog.
const (
	KurbServiceUUID = "f7340001-2a5b-4e6d-8f3c-1b9d6e4a7c20"

	LockStateCharUUID   = "f7340002-2a5b-4e6d-8f3c-1b9d6e4a7c20" // Read, Notify
	LockCommandCharUUID = "f7340003-2a5b-4e6d-8f3c-1b9d6e4a7c20" // Write
	ScheduleCharUUID    = "f7340004-2a5b-4e6d-8f3c-1b9d6e4a7c20" // Read, Write
	TimeSyncCharUUID    = "f7340005-2a5b-4e6d-8f3c-1b9d6e4a7c20" // Write
	BatteryCharUUID     = "f7340006-2a5b-4e6d-8f3c-1b9d6e4a7c20" // Read
	NextUnlockCharUUID  = "f7340007-2a5b-4e6d-8f3c-1b9d6e4a7c20" // Read
	EventCharUUID       = "f7340008-2a5b-4e6d-8f3c-1b9d6e4a7c20" // Notify
)

// Lock command opcodes accepted on the lock-command characteristic.
const (
	OpUnlock      byte = 0x02
	OpForceUnlock byte = 0x10
	OpReset       byte = 0x20
)

// The next-unlock estimate is computed by a surrounding scheduler, not
// by this device; the characteristic reads as a fixed placeholder.
var nextUnlockPlaceholder = []byte{0x00, 0x00, 0x00, 0x00}
