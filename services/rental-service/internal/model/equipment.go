package model

import "time"

type EquipmentStatus string

const (
	EquipmentAvailable   EquipmentStatus = "available"
	EquipmentReserved    EquipmentStatus = "reserved"
	EquipmentMaintenance EquipmentStatus = "maintenance"
)

func (s EquipmentStatus) Valid() bool {
	switch s {
	case EquipmentAvailable, EquipmentReserved, EquipmentMaintenance:
		return true
	}
	return false
}

// Quantity is the aggregate unit breakdown of an equipment line.
// Total = Available + Reserved + Maintenance is expected but not enforced
// here; the forms that edit it are responsible for keeping it consistent.
type Quantity struct {
	Total       int `json:"total"`
	Available   int `json:"available"`
	Reserved    int `json:"reserved"`
	Maintenance int `json:"maintenance"`
}

// Equipment is an inventory line item (a rentable model line), not a
// physical unit. Availability is tracked per line, never per serial number.
type Equipment struct {
	ID              string          `json:"id"`
	Code            string          `json:"code"`
	Model           string          `json:"model"` // CT50, CT80, CT90
	Name            string          `json:"name"`
	Status          EquipmentStatus `json:"status"`
	AirflowM3h      int             `json:"airflow_m3h"`
	MotorW          int             `json:"motor_w"`
	NoiseDb         int             `json:"noise_db"`
	TankL           int             `json:"tank_l"`
	Quantity        Quantity        `json:"quantity"`
	LastMaintenance *time.Time      `json:"last_maintenance,omitempty"`
	Notes           string          `json:"notes,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
}
