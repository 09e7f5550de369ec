package users

import "time"

// SomeKeyWord is a keyword attached to a result.
type SomeKeyWord struct {
	Name string `json:"name"`
}

// SomeReturnValue is returned by Hello.
type SomeReturnValue struct {
	MyValue  int           `json:"myValue"`
	Response string        `json:"response"`
	SomeList []string      `json:"someList"`
	Keys     []SomeKeyWord `json:"keys"`
}

// CreateDevice is the payload of CreateDevice.
type CreateDevice struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
}

// CreateUser is the payload of CreateUser.
type CreateUser struct {
	Name    string `json:"name" validate:"required"`
	Address string `json:"address"`
	Age     int    `json:"age"`
}

// TestUser is a user as returned by the API.
type TestUser struct {
	Name      string    `json:"name"`
	Devices   []*Device `json:"devices"`
	Manager   *TestUser `json:"manager,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	password  string
	Internal  string `json:"-"`
}

// Device belongs to a user.
type Device struct {
	ID    int       `json:"id"`
	Name  string    `json:"name"`
	Owner *TestUser `json:"owner,omitempty"`
}

// NotFound is answered when a user does not exist.
type NotFound struct {
	Message string `json:"message"`
}

// DeviceID identifies a device.
type DeviceID int64
