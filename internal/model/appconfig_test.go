package model

import (
	"testing"
	"time"
)

func TestDefaultAppConfigMatchesDefaultSettings(t *testing.T) {
	cfg := DefaultAppConfig()
	defaults := DefaultSettings()

	if cfg.DefaultKerfWidth != defaults.KerfWidth {
		t.Errorf("KerfWidth mismatch: config=%f settings=%f", cfg.DefaultKerfWidth, defaults.KerfWidth)
	}
	if cfg.DefaultMode != defaults.Mode {
		t.Errorf("Mode mismatch: config=%s settings=%s", cfg.DefaultMode, defaults.Mode)
	}
	if cfg.DefaultFeedRate != defaults.FeedRate {
		t.Errorf("FeedRate mismatch: config=%f settings=%f", cfg.DefaultFeedRate, defaults.FeedRate)
	}
	if cfg.DefaultGCodeProfile != defaults.GCodeProfile {
		t.Errorf("GCodeProfile mismatch: config=%s settings=%s", cfg.DefaultGCodeProfile, defaults.GCodeProfile)
	}
	if cfg.RecentJobs == nil {
		t.Error("RecentJobs should not be nil")
	}
}

func TestApplyToSettings(t *testing.T) {
	cfg := DefaultAppConfig()
	cfg.DefaultKerfWidth = 5.0
	cfg.DefaultFeedRate = 2000.0
	cfg.DefaultMode = ModeWidthFirst
	cfg.DefaultGCodeProfile = "Grbl"

	s := DefaultSettings()
	cfg.ApplyToSettings(&s)

	if s.KerfWidth != 5.0 {
		t.Errorf("expected KerfWidth=5.0, got %f", s.KerfWidth)
	}
	if s.FeedRate != 2000.0 {
		t.Errorf("expected FeedRate=2000.0, got %f", s.FeedRate)
	}
	if s.Mode != ModeWidthFirst {
		t.Errorf("expected Mode=width-first, got %s", s.Mode)
	}
	if s.GCodeProfile != "Grbl" {
		t.Errorf("expected GCodeProfile=Grbl, got %s", s.GCodeProfile)
	}
}

func TestPlaybackFromConfig(t *testing.T) {
	cfg := DefaultAppConfig()
	cfg.PlaybackSpeed = 250
	cfg.MinCutDurationMs = 40
	cfg.CutPauseMs = 0
	cfg.FrameRate = 30

	pb := cfg.Playback()
	if pb.Speed != 250 {
		t.Errorf("expected speed 250, got %f", pb.Speed)
	}
	if pb.MinDuration != 40*time.Millisecond {
		t.Errorf("expected min duration 40ms, got %v", pb.MinDuration)
	}
	if pb.Pause != 0 {
		t.Errorf("expected no pause, got %v", pb.Pause)
	}
	if pb.FrameInterval != time.Second/30 {
		t.Errorf("expected 30fps frame interval, got %v", pb.FrameInterval)
	}
}

func TestPlaybackFallsBackToDefaults(t *testing.T) {
	cfg := AppConfig{CutPauseMs: -1}
	pb := cfg.Playback()
	def := DefaultPlaybackSettings()
	if pb != def {
		t.Errorf("expected defaults %+v, got %+v", def, pb)
	}
}
