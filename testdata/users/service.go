package users

import "context"

// UserService serves users.
// @service
type UserService struct{}

// Hello greets the caller.
// @alias hello
// @tag users
func (s *UserService) Hello(name string) SomeReturnValue {
	return SomeReturnValue{Response: "hello " + name}
}

// GetUser returns one user.
// @alias users
// @tag users
// @id the user id
// @error 404 NotFound
func (s *UserService) GetUser(ctx context.Context, id int) (*TestUser, error) {
	return &TestUser{}, nil
}

// ListUsers pages through users.
// @alias users
// @query limit
// @optional cursor
func (s *UserService) ListUsers(ctx context.Context, limit int, cursor string) ([]TestUser, error) {
	return nil, nil
}

// CreateUser registers a user.
// @alias users
// @tag users
// @tagdescription Everything about users
func (s *UserService) CreateUser(ctx context.Context, body CreateUser) (*TestUser, error) {
	return &TestUser{Name: body.Name}, nil
}

// AddDevice attaches a device to a user.
// @alias users/devices
// @method put
func (s *UserService) AddDevice(ctx context.Context, id int, device CreateDevice) (Device, error) {
	return Device{}, nil
}

// RemoveDevice detaches a device.
// @alias users/devices
// @method delete
func (s *UserService) RemoveDevice(id int, deviceID DeviceID) error {
	return nil
}

// Upload stores an avatar.
// @alias avatar
// @method post
// @upload file
// @uploadmeta meta
// @uploadmetadesc JSON metadata of the avatar
// @custom
func (s *UserService) Upload(ctx context.Context) error {
	return nil
}

// Legacy is kept for old clients.
// @nogenerate
func (s *UserService) Legacy() {}

func (s *UserService) audit(msg string) {}
