package haloc

import (
	"errors"
	"testing"
)

func TestDefaultConfigValid(t *testing.T) {
	if err := DefaultConfig().validate(); err != nil {
		t.Fatalf("DefaultConfig() failed validation: %v", err)
	}
}

func TestConfigValidateRejectsOutOfRange(t *testing.T) {
	tests := []struct {
		name string
		mut  func(c *Config)
	}{
		{"num_proj<=0", func(c *Config) { c.NumProj = 0 }},
		{"desc_thresh=0", func(c *Config) { c.DescThresh = 0 }},
		{"desc_thresh>1", func(c *Config) { c.DescThresh = 1.5 }},
		{"epipolar_thresh<=0", func(c *Config) { c.EpipolarThresh = -1 }},
		{"max_reproj_err<=0", func(c *Config) { c.MaxReprojErr = 0 }},
		{"min_neighbour<0", func(c *Config) { c.MinNeighbour = -1 }},
		{"n_candidates<=0", func(c *Config) { c.NCandidates = 0 }},
		{"min_matches<=0", func(c *Config) { c.MinMatches = 0 }},
		{"min_inliers<=0", func(c *Config) { c.MinInliers = 0 }},
		{"unknown backend", func(c *Config) { c.Store = "bogus" }},
		{"object backend missing dir", func(c *Config) { c.Store = BackendObject }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mut(&cfg)
			err := cfg.validate()
			if err == nil {
				t.Fatalf("expected validation error")
			}
			if !errors.Is(err, ErrConfigInvalid) {
				t.Fatalf("error %v does not wrap ErrConfigInvalid", err)
			}
		})
	}
}
