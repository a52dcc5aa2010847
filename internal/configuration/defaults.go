package configuration

// baseline returns the default scalar settings, without any presets.
func baseline() Presets {
	return Presets{
		AreEnabled:                  false,
		RandomOrder:                 true,
		SpecificPermissionsRequired: false,
		LoopCount:                   5,
		TimeBetweenMin:              55,
		TimeBetweenMax:              82,
		InitialDelay:                32,
		InitialPreset:               []string{"!ignore", "!ignored2"},
	}
}

// Defaults returns the default preset configuration, including a few example presets.
func Defaults() Presets {
	p := baseline()
	p.Order = []string{"myZonePreset2", "myRoomPreset1", "myRoomPreset2"}
	p.PerZone = Table[Zone]{
		{
			Name: "myZonePreset1",
			Entries: []Entry[Zone]{
				{Target: Entrance, Modifier: Blackout, Duration: 45},
				{Target: Surface, Modifier: Color, Duration: -1, Params: []float64{255, 100, 255, 255}},
				{Target: LightContainment, Modifier: Intensity, Duration: -1, Params: []float64{0.5}},
			},
		},
		{
			Name: "myZonePreset2",
			Entries: []Entry[Zone]{
				{Target: HeavyContainment, Modifier: Blackout, Duration: 15},
				{Target: Surface, Modifier: Color, Duration: -1, Params: []float64{255, 100, 255, 255}},
				{Target: LightContainment, Modifier: Intensity, Duration: -1, Params: []float64{0.5}},
			},
		},
	}
	p.PerRoom = Table[Room]{
		{
			Name: "myRoomPreset1",
			Entries: []Entry[Room]{
				{Target: "EzCafeteria", Modifier: Blackout, Duration: 45},
				{Target: "Hcz049", Modifier: Color, Duration: -1, Params: []float64{255, 100, 255, 255}},
				{Target: "HczEzCheckpointA", Modifier: Intensity, Duration: -1, Params: []float64{0.5}},
				{Target: "HczEzCheckpointB", Modifier: Intensity, Duration: -1, Params: []float64{0.5}},
			},
		},
		{
			Name: "myRoomPreset2",
			Entries: []Entry[Room]{
				{Target: "Hcz096", Modifier: Blackout, Duration: 45},
				{Target: "HczCurve", Modifier: Color, Duration: -1, Params: []float64{255, 100, 255, 255}},
				{Target: "HczEzCheckpointA", Modifier: Intensity, Duration: -1, Params: []float64{0.5}},
				{Target: "HczEzCheckpointB", Modifier: Intensity, Duration: -1, Params: []float64{0.5}},
			},
		},
	}
	return p
}
