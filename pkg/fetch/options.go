package fetch

import "time"

type Option func(o *options)

type options struct {
	connectTimeout time.Duration
	userAgent      string
}

// ConnectTimeout limits the time of connection establishment and waiting for the server response.
func ConnectTimeout(timeout time.Duration) Option {
	return func(o *options) {
		if timeout > 0 {
			o.connectTimeout = timeout
		}
	}
}

func UserAgent(userAgent string) Option {
	return func(o *options) {
		if userAgent != "" {
			o.userAgent = userAgent
		}
	}
}
