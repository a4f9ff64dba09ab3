package project

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"

	"github.com/tidwall/jsonc"

	"github.com/piwi3910/SawPlan/internal/model"
)

// DefaultProfilesPath returns the default file path for custom G-code profiles.
func DefaultProfilesPath() string {
	return filepath.Join(DefaultConfigDir(), "profiles.json")
}

// SaveCustomProfiles saves custom profiles to a JSON file.
func SaveCustomProfiles(path string, profiles []model.GCodeProfile) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(profiles, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// LoadCustomProfiles loads custom profiles from a JSON file.
// Returns an empty slice if the file does not exist.
func LoadCustomProfiles(path string) ([]model.GCodeProfile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []model.GCodeProfile{}, nil
		}
		return nil, err
	}

	var profiles []model.GCodeProfile
	if err := json.Unmarshal(jsonc.ToJSON(data), &profiles); err != nil {
		return nil, err
	}

	// Ensure loaded profiles are not marked as built-in
	for i := range profiles {
		profiles[i].IsBuiltIn = false
	}
	return profiles, nil
}

// ImportProfile reads a single shared profile from a JSON file.
func ImportProfile(path string) (model.GCodeProfile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.GCodeProfile{}, err
	}

	var profile model.GCodeProfile
	if err := json.Unmarshal(jsonc.ToJSON(data), &profile); err != nil {
		return model.GCodeProfile{}, err
	}

	profile.IsBuiltIn = false
	if profile.Name == "" {
		return model.GCodeProfile{}, errors.New("imported profile has no name")
	}
	return profile, nil
}

// ExportProfile writes a single profile to a JSON file for sharing.
func ExportProfile(path string, profile model.GCodeProfile) error {
	profile.IsBuiltIn = false
	data, err := json.MarshalIndent(profile, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ResolveProfile looks name up among the custom profiles first, then the
// built-in ones. Unknown names resolve to the Generic profile.
func ResolveProfile(name string, custom []model.GCodeProfile) model.GCodeProfile {
	for _, p := range custom {
		if p.Name == name {
			return p
		}
	}
	return model.GetProfile(name)
}
