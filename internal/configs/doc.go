// Package configs manages user configuration for Fractured.
//
// Configuration is stored as TOML in the OS user config directory:
//
//	<UserConfigDir>/fractured/config.toml
//
// # User Configuration
//
// The config file stores:
//   - A stable install UUID, auto-generated on first use. It tags audit
//     log entries so multiple machines writing to a synced data directory
//     stay distinguishable. It is not a secret and never leaves the host.
//   - Default share policy (shares_total, shares_threshold) applied when
//     a command does not pass --shares.
//   - Default output directory for stego images. Empty means "alongside
//     each carrier image".
//
// # Settings
//
// Global path settings are initialized at startup in UserFracturedSettings:
//   - UserConfigsPath: directory holding config.toml
//   - UserDataPath: directory holding the audit log
//
// Paths follow the OS conventions (os.UserConfigDir, XDG_DATA_HOME with a
// ~/.local/share fallback). Tests swap UserFracturedSettings to point at
// temp directories.
package configs
