package models

// PingRequest is the body of POST /{device}/ping. The server stamps the ping
// time itself; the device only proves who it is.
type PingRequest struct {
	Password string `json:"password"`
}

// PressRequest is the body of POST /{device}/data.
type PressRequest struct {
	Password string `json:"password"`

	// PressTimestamp is the press time in epoch seconds as recorded by the
	// device. A pointer so that an absent field is distinguishable from 0.
	PressTimestamp *int64 `json:"pressTimestamp"`
}

// Ack acknowledges an accepted write.
type Ack struct {
	Message string `json:"message"`
}

// DeviceStatus is the JSON presence snapshot of one device.
type DeviceStatus struct {
	Device     string `json:"device"`
	Presses    int    `json:"presses"`
	Online     bool   `json:"online"`
	LastPress  *int64 `json:"lastPress,omitempty"`
	LastActive *int64 `json:"lastActive,omitempty"`
	Ping       *int64 `json:"ping,omitempty"`
}
