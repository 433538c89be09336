package config

// Presets are ready-made driving setups selectable by name.
var Presets = map[string]*Config{
	"local": {
		Dt: DefaultDt, Duration: 900,
		Train: TrainConfig{Cars: 3, MaxAccel: 1.0, MaxBrake: 1.5, DwellTime: 15},
	},
	"express": {
		Dt: DefaultDt, Duration: 600,
		Train: TrainConfig{Cars: 6, MaxAccel: 0.7, MaxBrake: 1.2, DwellTime: 25},
	},
	"shunt": {
		Dt: DefaultDt, Duration: 1200,
		Train: TrainConfig{Cars: 1, MaxAccel: 1.4, MaxBrake: 2.0, DwellTime: 5},
	},
}

func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	return cfg
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	return names
}
