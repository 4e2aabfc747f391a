package constants

// ConfigDirName is the name of the configuration directory in the user's home directory.
const ConfigDirName = "." + ProjectName

// ConfigFileName is the name of the global configuration file.
const ConfigFileName = "config.yaml"

// EnvPrefix is the prefix of every environment variable read by the configuration loader.
const EnvPrefix = "VPNFORGE"

// DefaultLedgerFile is the ledger path used when none is configured.
// It matches the file name produced by earlier tooling so existing state keeps working.
const DefaultLedgerFile = "resources.json"

// ConfigDirPath returns the full path to the global configuration directory.
func ConfigDirPath(homeDir string) string {
	return homeDir + "/" + ConfigDirName
}

// ConfigFilePath returns the full path to the global configuration file.
func ConfigFilePath(homeDir string) string {
	return ConfigDirPath(homeDir) + "/" + ConfigFileName
}

// ConfigDirPermissions is the file system permissions for config directory (0750).
const ConfigDirPermissions = 0o750

// ConfigFilePermissions is the file system permissions for config file (0600).
const ConfigFilePermissions = 0o600

// LedgerFilePermissions is the file system permissions for the ledger file (0600).
const LedgerFilePermissions = 0o600

// PrivateKeyFilePermissions is the file system permissions for key pair material (0600).
const PrivateKeyFilePermissions = 0o600
