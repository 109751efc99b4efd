package audit

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/fracturedkey/fractured/internal/configs"
)

// Entry represents a single audit log entry.
type Entry struct {
	Timestamp   string `json:"ts"`             // RFC3339 with microseconds.
	InstallUUID string `json:"uuid,omitempty"` // UUID of this installation.
	Operation   string `json:"op"`             // Operation name.
	Outcome     string `json:"outcome"`        // succeeded or failed.

	// Optional fields depending on operation.
	Error           string   `json:"error,omitempty"`            // Sentinel text for failed operations.
	SharesTotal     int      `json:"shares_total,omitempty"`     // For encrypt.
	SharesThreshold int      `json:"shares_threshold,omitempty"` // For encrypt.
	SharesEmbedded  int      `json:"shares_embedded,omitempty"`  // For encrypt.
	SharesUsed      int      `json:"shares_used,omitempty"`      // For decrypt.
	Images          []string `json:"images,omitempty"`           // Carrier or share image paths.
	File            string   `json:"file,omitempty"`             // For manual decrypt and no-sharing output.
}

// Log appends an entry to the audit log.
// If logging fails, the operation proceeds anyway. Protecting or
// recovering a password should never fail because its record could not
// be written.
func Log(entry Entry) {
	// Set timestamp if not already set.
	if entry.Timestamp == "" {
		entry.Timestamp = time.Now().UTC().Format("2006-01-02T15:04:05.000000Z")
	}

	logPath := LogPath()
	if logPath == "" {
		return
	}

	if err := os.MkdirAll(filepath.Dir(logPath), 0700); err != nil {
		return
	}

	// Open file for appending (create if doesn't exist).
	f, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
	if err != nil {
		return
	}
	defer f.Close()

	data, err := json.Marshal(entry)
	if err != nil {
		return
	}

	// Write entry with newline.
	_, _ = f.Write(append(data, '\n'))
}

// LogWithInstall is a convenience function that populates the install
// UUID from the user config.
func LogWithInstall(op string) Entry {
	entry := Entry{Operation: op}

	userConfig, err := configs.LoadUserConfig()
	if err != nil {
		return entry
	}

	entry.InstallUUID = userConfig.Install.UUID
	return entry
}

// LogPath returns the path to the audit log file.
// Returns empty string if the user data directory is not known.
func LogPath() string {
	dataPath := configs.UserFracturedSettings.UserDataPath
	if dataPath == "" {
		return ""
	}
	return filepath.Join(dataPath, "audit.jsonl")
}

// ReadEntries reads all entries from the audit log.
// Returns an empty slice if the log doesn't exist.
func ReadEntries() ([]Entry, error) {
	logPath := LogPath()
	if logPath == "" {
		return nil, nil
	}

	data, err := os.ReadFile(logPath)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return ParseEntries(data)
}

// ParseEntries parses JSON Lines data into audit entries.
// Malformed lines are silently skipped.
func ParseEntries(data []byte) ([]Entry, error) {
	if len(data) == 0 {
		return nil, nil
	}

	var entries []Entry
	start := 0

	for i := 0; i <= len(data); i++ {
		if i == len(data) || data[i] == '\n' {
			line := data[start:i]
			start = i + 1

			if len(line) == 0 {
				continue
			}

			var entry Entry
			if err := json.Unmarshal(line, &entry); err != nil {
				// Skip malformed entries.
				continue
			}
			entries = append(entries, entry)
		}
	}

	return entries, nil
}
