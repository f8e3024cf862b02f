package config

var defaultConfig = Config{
	Outputs: []Output{
		{Name: "headless-1", Width: 1920, Height: 1080, Scale: 1},
	},
}

type Config struct {
	Outputs []Output `json:"outputs" yaml:"outputs"`
}

// Output describes one logical display. Locations are not configured, the
// output map lays outputs out side by side in declaration order and the
// first one is primary.
type Output struct {
	UUID   string  `json:"uuid" yaml:"uuid"`
	Name   string  `json:"name" yaml:"name"`
	Width  int     `json:"width" yaml:"width"`
	Height int     `json:"height" yaml:"height"`
	Scale  float64 `json:"scale" yaml:"scale"`
}
