package model

import "time"

// AppConfig holds application-wide preferences and default settings.
type AppConfig struct {
	// Defaults applied to new jobs
	DefaultKerfWidth    float64 `json:"default_kerf_width"`
	DefaultMode         Mode    `json:"default_mode"`
	DefaultSheetWidth   float64 `json:"default_sheet_width"`
	DefaultSheetHeight  float64 `json:"default_sheet_height"`
	DefaultFeedRate     float64 `json:"default_feed_rate"`
	DefaultPlungeRate   float64 `json:"default_plunge_rate"`
	DefaultSpindleSpeed int     `json:"default_spindle_speed"`
	DefaultSafeZ        float64 `json:"default_safe_z"`
	DefaultCutDepth     float64 `json:"default_cut_depth"`
	DefaultPassDepth    float64 `json:"default_pass_depth"`
	DefaultGCodeProfile string  `json:"default_gcode_profile"`

	// Playback preferences
	PlaybackSpeed    float64 `json:"playback_speed"`     // mm per second
	MinCutDurationMs int     `json:"min_cut_duration_ms"` // fallback for zero-length cuts
	CutPauseMs       int     `json:"cut_pause_ms"`
	FrameRate        int     `json:"frame_rate"` // frames per second

	RecentJobs []string `json:"recent_jobs"`
}

// DefaultAppConfig returns an AppConfig populated with defaults matching
// DefaultSettings() and DefaultPlaybackSettings().
func DefaultAppConfig() AppConfig {
	defaults := DefaultSettings()
	pb := DefaultPlaybackSettings()
	return AppConfig{
		DefaultKerfWidth:    defaults.KerfWidth,
		DefaultMode:         defaults.Mode,
		DefaultSheetWidth:   2440,
		DefaultSheetHeight:  1220,
		DefaultFeedRate:     defaults.FeedRate,
		DefaultPlungeRate:   defaults.PlungeRate,
		DefaultSpindleSpeed: defaults.SpindleSpeed,
		DefaultSafeZ:        defaults.SafeZ,
		DefaultCutDepth:     defaults.CutDepth,
		DefaultPassDepth:    defaults.PassDepth,
		DefaultGCodeProfile: defaults.GCodeProfile,
		PlaybackSpeed:       pb.Speed,
		MinCutDurationMs:    int(pb.MinDuration / time.Millisecond),
		CutPauseMs:          int(pb.Pause / time.Millisecond),
		FrameRate:           60,
		RecentJobs:          []string{},
	}
}

// ApplyToSettings copies the default values from AppConfig into a CutSettings struct.
func (c AppConfig) ApplyToSettings(s *CutSettings) {
	s.KerfWidth = c.DefaultKerfWidth
	if c.DefaultMode != "" {
		s.Mode = c.DefaultMode
	}
	s.FeedRate = c.DefaultFeedRate
	s.PlungeRate = c.DefaultPlungeRate
	s.SpindleSpeed = c.DefaultSpindleSpeed
	s.SafeZ = c.DefaultSafeZ
	s.CutDepth = c.DefaultCutDepth
	s.PassDepth = c.DefaultPassDepth
	s.GCodeProfile = c.DefaultGCodeProfile
}

// Playback converts the stored preferences into PlaybackSettings.
// Zero or negative values fall back to the defaults.
func (c AppConfig) Playback() PlaybackSettings {
	pb := DefaultPlaybackSettings()
	if c.PlaybackSpeed > 0 {
		pb.Speed = c.PlaybackSpeed
	}
	if c.MinCutDurationMs > 0 {
		pb.MinDuration = time.Duration(c.MinCutDurationMs) * time.Millisecond
	}
	if c.CutPauseMs >= 0 {
		pb.Pause = time.Duration(c.CutPauseMs) * time.Millisecond
	}
	if c.FrameRate > 0 {
		pb.FrameInterval = time.Second / time.Duration(c.FrameRate)
	}
	return pb
}

// MaxRecentJobs bounds the recent job list.
const MaxRecentJobs = 10

// AddRecentJob moves path to the front of the recent job list.
func (c *AppConfig) AddRecentJob(path string) {
	jobs := []string{path}
	for _, j := range c.RecentJobs {
		if j != path && len(jobs) < MaxRecentJobs {
			jobs = append(jobs, j)
		}
	}
	c.RecentJobs = jobs
}
