package cliconfig

import "os"

// ApplyEnvConfig applies configuration from COOPWATCH_* environment
// variables. Flags that were set explicitly (changed) win.
func ApplyEnvConfig(cfg *Config, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("origin", os.Getenv("COOPWATCH_ORIGIN"), &cfg.Origin)
	s.setString("status-path", os.Getenv("COOPWATCH_STATUS_PATH"), &cfg.StatusPath)
	s.setString("log-level", os.Getenv("COOPWATCH_LOG_LEVEL"), &cfg.LogLevel)
	s.setString("log-file", os.Getenv("COOPWATCH_LOG_FILE"), &cfg.LogFile)

	if err := s.setDuration("reconnect-initial", os.Getenv("COOPWATCH_RECONNECT_INITIAL"), &cfg.ReconnectInitial); err != nil {
		return err
	}
	if err := s.setDuration("reconnect-max", os.Getenv("COOPWATCH_RECONNECT_MAX"), &cfg.ReconnectMax); err != nil {
		return err
	}
	if err := s.setDuration("handshake-timeout", os.Getenv("COOPWATCH_HANDSHAKE_TIMEOUT"), &cfg.HandshakeTimeout); err != nil {
		return err
	}
	if err := s.setDuration("command-timeout", os.Getenv("COOPWATCH_COMMAND_TIMEOUT"), &cfg.CommandTimeout); err != nil {
		return err
	}

	if err := s.setBoolFromString("reconnect", os.Getenv("COOPWATCH_RECONNECT"), &cfg.Reconnect); err != nil {
		return err
	}
	return s.setBoolFromString("plain", os.Getenv("COOPWATCH_PLAIN"), &cfg.Plain)
}
