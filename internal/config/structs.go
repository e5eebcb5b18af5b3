package config

import (
	"time"

	"github.com/usermgmt-go/usermgmt/internal/logger"
)

// Session settings.
type Session struct {
	ExpiryTime time.Duration
}

// Config overall data structure.
type Config struct {
	DevMode   bool // enable dev mode for development
	DB        DB
	Log       logger.Log
	Title     string
	Webserver Webserver
	Session   Session
}

// Webserver implement webserver settings.
type Webserver struct {
	BrowseStatic   bool          // enable static file browsing (for development purposes only)
	DisableRecover bool          // disable recover middleware
	Port           int           // listening port for the webserver
	ShutDownTime   int           // wait time for shutdown in seconds
	URL            string        // base url for the webserver
	AllowOrigins   string        // comma separated CORS origins
	ReadTimeout    time.Duration // fiber read timeout
	WriteTimeout   time.Duration // fiber write timeout
}
