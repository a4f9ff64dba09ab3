package model

import "time"

// CutSettings holds derivation and machine configuration.
type CutSettings struct {
	// Derivation settings
	KerfWidth float64 `json:"kerf_width"` // Blade width in mm
	Mode      Mode    `json:"mode"`       // Default derivation mode

	// Machine / GCode settings
	FeedRate     float64 `json:"feed_rate"`     // Cutting feed rate mm/min
	PlungeRate   float64 `json:"plunge_rate"`   // Plunge feed rate mm/min
	SpindleSpeed int     `json:"spindle_speed"` // RPM
	SafeZ        float64 `json:"safe_z"`        // Safe retract height mm
	CutDepth     float64 `json:"cut_depth"`     // Total material thickness mm
	PassDepth    float64 `json:"pass_depth"`    // Depth per pass mm
	Overrun      float64 `json:"overrun"`       // Extra travel past each end of a cut mm

	// GCode post-processor profile
	GCodeProfile string `json:"gcode_profile"`
}

func DefaultSettings() CutSettings {
	return CutSettings{
		KerfWidth:    3.2,
		Mode:         ModeLengthFirst,
		FeedRate:     3000.0,
		PlungeRate:   600.0,
		SpindleSpeed: 18000,
		SafeZ:        5.0,
		CutDepth:     18.0,
		PassDepth:    18.0,
		Overrun:      0,
		GCodeProfile: "Generic",
	}
}

// PlaybackSettings controls the cut animation.
type PlaybackSettings struct {
	Speed         float64       `json:"speed"`          // Saw travel in mm per second
	MinDuration   time.Duration `json:"min_duration"`   // Used when a cut has no length
	Pause         time.Duration `json:"pause"`          // Gap between consecutive cuts
	FrameInterval time.Duration `json:"frame_interval"` // Wall-clock frame period
}

func DefaultPlaybackSettings() PlaybackSettings {
	return PlaybackSettings{
		Speed:         800,
		MinDuration:   250 * time.Millisecond,
		Pause:         150 * time.Millisecond,
		FrameInterval: time.Second / 60,
	}
}

// GCodeProfile defines a post-processor configuration for different controllers.
type GCodeProfile struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Units       string `json:"units"` // "mm" or "inches"

	StartCode    []string `json:"start_code"`
	SpindleStart string   `json:"spindle_start"` // e.g. "M3 S%d"
	SpindleStop  string   `json:"spindle_stop"`

	RapidMove string `json:"rapid_move"`
	FeedMove  string `json:"feed_move"`

	EndCode []string `json:"end_code"`

	CommentPrefix string `json:"comment_prefix"`
	CommentSuffix string `json:"comment_suffix"`

	DecimalPlaces int `json:"decimal_places"`

	IsBuiltIn bool `json:"is_built_in"`
}

// GCodeProfiles are the built-in controller profiles.
var GCodeProfiles = []GCodeProfile{
	{
		Name:          "Grbl",
		Description:   "Standard Grbl configuration (Arduino CNC shields)",
		Units:         "mm",
		StartCode:     []string{"G90", "G21", "G17"},
		SpindleStart:  "M3 S%d",
		SpindleStop:   "M5",
		RapidMove:     "G0",
		FeedMove:      "G1",
		EndCode:       []string{"G0 Z[SafeZ]", "G0 X0 Y0", "M2"},
		CommentPrefix: ";",
		DecimalPlaces: 3,
		IsBuiltIn:     true,
	},
	{
		Name:          "Mach3",
		Description:   "Mach3 CNC control software",
		Units:         "mm",
		StartCode:     []string{"G90", "G21", "G17", "G94"},
		SpindleStart:  "M3 S%d",
		SpindleStop:   "M5",
		RapidMove:     "G0",
		FeedMove:      "G1",
		EndCode:       []string{"G0 Z[SafeZ]", "G28 X0 Y0", "M30"},
		CommentPrefix: "(",
		CommentSuffix: ")",
		DecimalPlaces: 4,
		IsBuiltIn:     true,
	},
	{
		Name:          "LinuxCNC",
		Description:   "LinuxCNC (formerly EMC2)",
		Units:         "mm",
		StartCode:     []string{"G90", "G21", "G17", "G94"},
		SpindleStart:  "M3 S%d",
		SpindleStop:   "M5",
		RapidMove:     "G0",
		FeedMove:      "G1",
		EndCode:       []string{"G0 Z[SafeZ]", "G0 X0 Y0", "M2"},
		CommentPrefix: ";",
		DecimalPlaces: 4,
		IsBuiltIn:     true,
	},
	{
		Name:          "Generic",
		Description:   "Generic standard GCode",
		Units:         "mm",
		StartCode:     []string{"G90", "G21"},
		SpindleStart:  "M3 S%d",
		SpindleStop:   "M5",
		RapidMove:     "G0",
		FeedMove:      "G1",
		EndCode:       []string{"G0 Z[SafeZ]", "G0 X0 Y0", "M2"},
		CommentPrefix: ";",
		DecimalPlaces: 3,
		IsBuiltIn:     true,
	},
}

// GetProfile returns a GCode profile by name, or the Generic profile if not found.
func GetProfile(name string) GCodeProfile {
	for _, p := range GCodeProfiles {
		if p.Name == name {
			return p
		}
	}
	return GCodeProfiles[len(GCodeProfiles)-1]
}

// GetProfileNames returns a list of all available profile names.
func GetProfileNames() []string {
	var names []string
	for _, p := range GCodeProfiles {
		names = append(names, p.Name)
	}
	return names
}
