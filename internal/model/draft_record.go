package model

// DraftRecord is the persisted form of a custom load.
// Only selections are stored; derived numbers are recomputed on load.
type DraftRecord struct {
	Name           string            `json:"name"`
	Label          string            `json:"label"`
	Designation    string            `json:"designation"`
	IsLocked       bool              `json:"is_locked"`
	PowderLoad     int               `json:"powder_load"`
	AmmoTemplate   string            `json:"ammo_template"`
	BulletTemplate string            `json:"bullet_template"`
	Gunpowder      string            `json:"gunpowder,omitempty"`
	Parts          map[string]string `json:"parts"` // part name → material name
}
