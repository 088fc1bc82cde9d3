package config

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/mbellec/bocage/internal/common"
	"github.com/mbellec/bocage/internal/service"
)

// Backend names the store implementation the CLI talks to.
type Backend string

const (
	// BackendSQLite keeps all data in a local database file.
	BackendSQLite Backend = "sqlite"
	// BackendSupabase talks to a hosted PostgREST API.
	BackendSupabase Backend = "supabase"
)

// Settings is the resolved application configuration.
type Settings struct {
	Backend      Backend
	DatabasePath string
	SupabaseURL  string
	SupabaseKey  string
	SessionPath  string
	ActorEmail   string
	Limits       service.StoreLimits
	RecruitGoal  int
}

// Load resolves settings from Viper (config file or BOCAGE_ env vars) and
// applies defaults. It follows this precedence:
// 1. Viper configuration (from config file or BOCAGE_ env vars)
// 2. Default values
func Load() (*Settings, error) {
	s := &Settings{
		Backend:      BackendSQLite,
		DatabasePath: "~/.local/share/bocage/bocage.db",
		SessionPath:  "~/.config/bocage/session.json",
		Limits:       service.DefaultLimits(),
		RecruitGoal:  40,
	}

	if v := viper.GetString("backend"); v != "" {
		s.Backend = Backend(v)
	}
	if v := viper.GetString("database.path"); v != "" {
		s.DatabasePath = v
	}
	if v := viper.GetString("supabase.url"); v != "" {
		s.SupabaseURL = v
	}
	if v := viper.GetString("supabase.anon_key"); v != "" {
		s.SupabaseKey = v
	}
	if v := viper.GetString("supabase.session_path"); v != "" {
		s.SessionPath = v
	}
	if v := viper.GetString("actor.email"); v != "" {
		s.ActorEmail = v
	}
	if v := viper.GetInt("limits.prospects"); v > 0 {
		s.Limits.Prospects = v
	}
	if v := viper.GetInt("limits.interactions"); v > 0 {
		s.Limits.Interactions = v
	}
	if v := viper.GetInt("campaign.recruit_goal"); v > 0 {
		s.RecruitGoal = v
	}

	s.DatabasePath = ExpandPath(s.DatabasePath)
	s.SessionPath = ExpandPath(s.SessionPath)

	if err := s.validate(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Settings) validate() error {
	switch s.Backend {
	case BackendSQLite:
		if s.DatabasePath == "" {
			return fmt.Errorf("%w: database.path is required for the sqlite backend", common.ErrMissingConfig)
		}
	case BackendSupabase:
		if s.SupabaseURL == "" {
			return fmt.Errorf("%w: supabase.url is required for the supabase backend", common.ErrMissingConfig)
		}
		if s.SupabaseKey == "" {
			return fmt.Errorf("%w: supabase.anon_key is required for the supabase backend", common.ErrMissingConfig)
		}
	default:
		return fmt.Errorf("%w: unknown backend %q", common.ErrInvalidConfig, s.Backend)
	}
	return nil
}
