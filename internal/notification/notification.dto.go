package notification

import "errors"

type RegisterDeviceRequest struct {
	Token    string `json:"token" validate:"required"`
	Platform string `json:"platform" validate:"required,oneof=ios android web"`
}

func (r *RegisterDeviceRequest) Validate() error {
	if r.Token == "" {
		return errors.New("token is required")
	}
	switch r.Platform {
	case "ios", "android", "web":
		return nil
	default:
		return errors.New("platform must be one of ios, android, web")
	}
}
