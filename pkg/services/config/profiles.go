package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/ini.v1"
)

const profileFile = ".iaccostcfg"

// Profile is a named set of estimation defaults.
type Profile struct {
	Name     string
	Region   string
	Currency string
}

type Registry interface {
	GetProfiles(ctx context.Context) ([]string, error)
	GetProfile(ctx context.Context, name string) (*Profile, error)
}

type cfgRegistry struct {
	cfg *ini.File
}

// DefaultProfilePath is ~/.iaccostcfg.
func DefaultProfilePath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}
	return filepath.Join(home, profileFile), nil
}

func NewRegistry(path string) (Registry, error) {
	cfg, err := ini.Load(path)
	if err != nil {
		return nil, err
	}
	return &cfgRegistry{cfg: cfg}, nil
}

func (cr *cfgRegistry) GetProfiles(_ context.Context) ([]string, error) {
	var profiles []string
	for _, section := range cr.cfg.Sections() {
		if len(section.Keys()) > 0 {
			profiles = append(profiles, section.Name())
		}
	}
	return profiles, nil
}

func (cr *cfgRegistry) GetProfile(_ context.Context, name string) (*Profile, error) {
	section, err := cr.cfg.GetSection(name)
	if err != nil {
		return nil, fmt.Errorf("profile %s not found", name)
	}

	return &Profile{
		Name:     section.Name(),
		Region:   section.Key("region").String(),
		Currency: section.Key("currency").String(),
	}, nil
}
