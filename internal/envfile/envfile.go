// Where: deliriumctl/internal/envfile/envfile.go
// What: Ordered .env record with dotenv-compatible parsing.
// Why: Deployment settings live in a user-edited file, so writes must keep
//      the user's ordering and comments intact.
package envfile

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/joho/godotenv"
)

// DefaultName is the record file name inside the install directory.
const DefaultName = ".env"

var keyLine = regexp.MustCompile(`^\s*(?:export\s+)?([A-Za-z_][A-Za-z0-9_]*)\s*=`)

// Record is an ordered key=value environment file. Comment and blank lines
// are preserved verbatim across a Load/Save round trip.
type Record struct {
	path   string
	lines  []string
	values map[string]string
}

// Load reads the record at path. A missing file yields an empty record bound
// to the same path so the first Save creates it.
func Load(path string) (*Record, error) {
	rec := &Record{path: path, values: map[string]string{}}

	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return rec, nil
		}
		return nil, fmt.Errorf("read env file %s: %w", path, err)
	}

	content := string(raw)
	parsed, err := godotenv.Parse(strings.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("parse env file %s: %w", path, err)
	}
	rec.values = parsed
	rec.lines = splitLines(content)
	return rec, nil
}

// Path returns the file path the record is bound to.
func (r *Record) Path() string {
	return r.path
}

// Get returns the value for key, or the empty string when absent.
func (r *Record) Get(key string) string {
	return r.values[key]
}

// Has reports whether key is present with a non-blank value.
func (r *Record) Has(key string) bool {
	return strings.TrimSpace(r.values[key]) != ""
}

// Set updates key in place when it already has a line, otherwise appends it.
// A hand-edited file may carry the same key twice; the last occurrence wins
// on parse, so that is the line rewritten here.
func (r *Record) Set(key, value string) {
	r.values[key] = value
	rendered := key + "=" + quoteIfNeeded(value)
	last := -1
	for i, line := range r.lines {
		if m := keyLine.FindStringSubmatch(line); m != nil && m[1] == key {
			last = i
		}
	}
	if last >= 0 {
		r.lines[last] = rendered
		return
	}
	r.lines = append(r.lines, rendered)
}

// Keys returns the record keys in file order.
func (r *Record) Keys() []string {
	var keys []string
	for _, line := range r.lines {
		if m := keyLine.FindStringSubmatch(line); m != nil {
			keys = append(keys, m[1])
		}
	}
	return keys
}

// Save writes the record back to its path. The file holds the secret pepper,
// so it is created owner-readable only.
func (r *Record) Save() error {
	content := strings.Join(r.lines, "\n")
	if content != "" {
		content += "\n"
	}
	if err := os.WriteFile(r.path, []byte(content), 0o600); err != nil {
		return fmt.Errorf("write env file %s: %w", r.path, err)
	}
	return nil
}

// Apply exports the record into the process environment for child processes.
// Variables already present in the environment win over file values.
func (r *Record) Apply() error {
	for key, value := range r.values {
		if _, exists := os.LookupEnv(key); exists {
			continue
		}
		if err := os.Setenv(key, value); err != nil {
			return fmt.Errorf("set %s: %w", key, err)
		}
	}
	return nil
}

func splitLines(content string) []string {
	trimmed := strings.TrimRight(content, "\n")
	if trimmed == "" {
		return nil
	}
	return strings.Split(strings.ReplaceAll(trimmed, "\r\n", "\n"), "\n")
}

func quoteIfNeeded(value string) string {
	if value == "" {
		return value
	}
	if strings.ContainsAny(value, " \t#\"'") {
		escaped := strings.ReplaceAll(value, `"`, `\"`)
		return `"` + escaped + `"`
	}
	return value
}
