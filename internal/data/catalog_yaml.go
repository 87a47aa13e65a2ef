package data

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/udisondev/customloads/internal/model"
)

// YAML shapes of catalog files. A file may contain any subset of the sections.

type catalogFile struct {
	Items          []itemYAML       `yaml:"items"`
	AmmoCategories []categoryYAML   `yaml:"ammo_categories"`
	Projectiles    []projectileYAML `yaml:"projectiles"`
	Ammo           []ammoYAML       `yaml:"ammo"`
	AmmoSets       []ammoSetYAML    `yaml:"ammo_sets"`
	Recipes        []recipeYAML     `yaml:"recipes"`
	Guns           []gunYAML        `yaml:"guns"`
	Materials      []materialYAML   `yaml:"materials"`
	Gunpowder      []gunpowderYAML  `yaml:"gunpowder"`
}

type itemYAML struct {
	Name        string `yaml:"name"`
	Label       string `yaml:"label"`
	SmallVolume bool   `yaml:"small_volume"`
}

type categoryYAML struct {
	Name        string `yaml:"name"`
	Label       string `yaml:"label"`
	LabelShort  string `yaml:"label_short"`
	Description string `yaml:"description"`
}

type secondaryDamageYAML struct {
	Type   string   `yaml:"type"`
	Amount int      `yaml:"amount"`
	Chance *float64 `yaml:"chance"`
}

type projectileYAML struct {
	Name            string                `yaml:"name"`
	Label           string                `yaml:"label"`
	DamageType      string                `yaml:"damage_type"`
	Damage          int                   `yaml:"damage"`
	Speed           float64               `yaml:"speed"`
	APSharp         float64               `yaml:"ap_sharp"`
	APBlunt         float64               `yaml:"ap_blunt"`
	PelletCount     int                   `yaml:"pellet_count"`
	SecondaryDamage []secondaryDamageYAML `yaml:"secondary_damage"`
}

type ammoYAML struct {
	Name        string  `yaml:"name"`
	Label       string  `yaml:"label"`
	Description string  `yaml:"description"`
	AmmoClass   string  `yaml:"ammo_class"`
	Mass        float64 `yaml:"mass"`
	MenuHidden  bool    `yaml:"menu_hidden"`
	Tradeable   *bool   `yaml:"tradeable"`
}

type ammoLinkYAML struct {
	Ammo       string `yaml:"ammo"`
	Projectile string `yaml:"projectile"`
}

type ammoSetYAML struct {
	Name      string         `yaml:"name"`
	Label     string         `yaml:"label"`
	IsMortar  bool           `yaml:"is_mortar"`
	AmmoTypes []ammoLinkYAML `yaml:"ammo_types"`
}

type ingredientYAML struct {
	Count   int      `yaml:"count"`
	Allowed []string `yaml:"allowed"`
}

type productYAML struct {
	Thing string `yaml:"thing"`
	Count int    `yaml:"count"`
}

type recipeYAML struct {
	Name        string           `yaml:"name"`
	Label       string           `yaml:"label"`
	Description string           `yaml:"description"`
	JobString   string           `yaml:"job_string"`
	WorkAmount  float64          `yaml:"work_amount"`
	Ingredients []ingredientYAML `yaml:"ingredients"`
	Products    []productYAML    `yaml:"products"`
	RecipeUsers []string         `yaml:"recipe_users"`
}

type gunYAML struct {
	Name    string             `yaml:"name"`
	Label   string             `yaml:"label"`
	AmmoSet string             `yaml:"ammo_set"`
	Stats   map[string]float64 `yaml:"stats"`
}

type partModYAML struct {
	Parts            partMask              `yaml:"parts"`
	Disables         partMask              `yaml:"disables"`
	Desc             string                `yaml:"desc"`
	OverrideTexture  string                `yaml:"override_texture"`
	Stats            map[string]string     `yaml:"stats"`
	SecondaryDamages []secondaryDamageYAML `yaml:"secondary_damages"`
}

type materialYAML struct {
	Name          string        `yaml:"name"`
	Label         string        `yaml:"label"`
	Material      string        `yaml:"material"`
	ExtraDesc     string        `yaml:"extra_desc"`
	CostPerBullet *float64      `yaml:"cost_per_bullet"`
	Tint          string        `yaml:"tint"`
	Mods          []partModYAML `yaml:"mods"`
}

type gunpowderStageYAML struct {
	Powder           int                   `yaml:"powder"`
	Desc             string                `yaml:"desc"`
	Stats            map[string]string     `yaml:"stats"`
	SecondaryDamages []secondaryDamageYAML `yaml:"secondary_damages"`
}

type gunpowderYAML struct {
	Name          string               `yaml:"name"`
	Material      string               `yaml:"material"`
	CostPerBullet *float64             `yaml:"cost_per_bullet"`
	Stages        []gunpowderStageYAML `yaml:"stages"`
}

// partMask decodes a list of part names ("core", "tip") into a BulletPart mask.
type partMask model.BulletPart

func (m *partMask) UnmarshalYAML(node *yaml.Node) error {
	var names []string
	if err := node.Decode(&names); err != nil {
		return fmt.Errorf("line %d: bullet parts must be a list: %w", node.Line, err)
	}
	mask, err := model.ParseBulletParts(names)
	if err != nil {
		return fmt.Errorf("line %d: %w", node.Line, err)
	}
	*m = partMask(mask)
	return nil
}
