package servagri

// Admin bundles the admin-side stack: one API client, one mirror cache,
// and a form controller per entity type, all built from SiteConfig.
type Admin struct {
	Client   *Client
	Mirror   *Mirror
	News     *NewsController
	Projects *ProjectController
}

// NewAdmin wires the admin dashboard's building blocks from configuration:
// the mirror lives under cfg.MirrorDir with cfg.MirrorMaxBytes as its
// ceiling, and both controllers prune it to cfg.MirrorKeep at session
// start. baseURL points at the content API; confirm gates destructive
// actions and may be nil.
func NewAdmin(cfg SiteConfig, baseURL string, confirm ConfirmFunc) *Admin {
	cfg.setDefaults()
	client := NewClient(baseURL, nil)
	mirror := NewMirror(NewFileStorage(cfg.MirrorDir), cfg.MirrorMaxBytes)
	return &Admin{
		Client:   client,
		Mirror:   mirror,
		News:     NewNewsController(client, mirror, cfg.MirrorKeep, confirm),
		Projects: NewProjectController(client, mirror, cfg.MirrorKeep, confirm),
	}
}
