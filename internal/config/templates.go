package config

import (
	"fmt"
	"os"
	"strings"
)

func Template(kind string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case "server":
		return serverTemplate, nil
	case "cli":
		return cliTemplate, nil
	default:
		return "", fmt.Errorf("unknown config kind: %s", kind)
	}
}

func WriteTemplate(path, kind string, overwrite bool) error {
	template, err := Template(kind)
	if err != nil {
		return err
	}
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config already exists: %s", path)
		}
	}
	return os.WriteFile(path, []byte(template), 0o600)
}

const serverTemplate = `name = "fixdecode"
addr = ":8044"
cors_origins = ["http://localhost:5173"]
trusted_proxies = ["127.0.0.1", "::1"]
max_body_bytes = 1048576

[tls]
enabled = false
cert_file = ""
key_file = ""

[decode]
# auto | pipe | soh
delimiter = "auto"
# empty: keep "tag" with an empty value; skip: drop the segment
malformed_segments = "empty"
# QuickFIX XML dictionaries replacing the embedded dictionary of their version
quickfix_specs = []
`

const cliTemplate = `# auto | pipe | soh
delimiter = "auto"
# table | plain | json
format = "table"
color = true
malformed_segments = "empty"
quickfix_specs = []
`
