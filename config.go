package servagri

import "time"

// SiteConfig holds all configuration for the content engine.
type SiteConfig struct {
	Name string // Site name (default "Serv'Agri")

	Addr         string // Listen address (default ":3000")
	DatabasePath string // SQLite path (default "data/site.db")

	CORSAllowOrigin string // Allow-origin for /api responses (default "*")

	MirrorDir      string // Directory for the admin mirror cache (default "data/mirror")
	MirrorMaxBytes int    // Serialized-size ceiling per collection (default 5 MiB)
	MirrorKeep     int    // Items retained by a prune (default 10)

	WriteLimit       int           // Mutating API requests allowed per window per IP (default 30)
	WriteLimitWindow time.Duration // Rate-limit window (default 1min)
}

func (c *SiteConfig) setDefaults() {
	if c.Name == "" {
		c.Name = "Serv'Agri"
	}
	if c.Addr == "" {
		c.Addr = ":3000"
	}
	if c.DatabasePath == "" {
		c.DatabasePath = "data/site.db"
	}
	if c.CORSAllowOrigin == "" {
		c.CORSAllowOrigin = "*"
	}
	if c.MirrorDir == "" {
		c.MirrorDir = "data/mirror"
	}
	if c.MirrorMaxBytes == 0 {
		c.MirrorMaxBytes = DefaultMirrorMaxBytes
	}
	if c.MirrorKeep == 0 {
		c.MirrorKeep = 10
	}
	if c.WriteLimit == 0 {
		c.WriteLimit = 30
	}
	if c.WriteLimitWindow == 0 {
		c.WriteLimitWindow = time.Minute
	}
}

// Option configures additional App behavior.
type Option func(*App)

// WithCustomRoutes registers additional routes on the Echo instance.
// The callback receives the App before the server starts.
func WithCustomRoutes(fn func(*App)) Option {
	return func(a *App) {
		a.customRoutes = append(a.customRoutes, fn)
	}
}

// WithStaticDir sets the directory for the marketing site's static build
// (default "public").
func WithStaticDir(dir string) Option {
	return func(a *App) {
		a.staticDir = dir
	}
}
