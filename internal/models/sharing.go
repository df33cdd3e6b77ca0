package models

import "time"

// QRCode is a QR-based sharing record for one service credential. Data is
// the opaque payload encoded into the QR image by the caller.
type QRCode struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	Service   string    `json:"service"`
	Username  string    `json:"username"`
	Data      string    `json:"qr_code_data"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SharedPassword records a secure-link share of a service credential with a
// recipient.
type SharedPassword struct {
	ID          int64     `json:"id"`
	UserID      int64     `json:"user_id"`
	Service     string    `json:"service"`
	Recipient   string    `json:"recipient"`
	SharedDate  time.Time `json:"shared_date"`
	ShareStatus string    `json:"share_status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ConnectedDevice is a device registered against an account.
type ConnectedDevice struct {
	ID         int64     `json:"id"`
	UserID     int64     `json:"user_id"`
	DeviceName string    `json:"device_name"`
	DeviceType string    `json:"device_type"`
	Status     string    `json:"status"`
	LastSeen   time.Time `json:"last_seen"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// AccessLog records one authentication event.
type AccessLog struct {
	ID         int64     `json:"id"`
	UserID     int64     `json:"user_id"`
	DeviceName string    `json:"device_name"`
	IPAddress  string    `json:"ip_address"`
	Location   string    `json:"location"`
	AccessTime time.Time `json:"access_time"`
}
