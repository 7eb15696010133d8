// Command preflight verifies a checkout is ready to deploy and fills in the
// pieces a fresh clone is missing. It checks that the expected project files
// and directories exist, creates the data directories, and writes a .env with
// a freshly generated SESSION_SECRET when none exists yet.
//
// Exit status is non-zero if any required file is missing, so it slots into
// deploy scripts as a gate:
//
//	go run ./cmd/preflight && go run ./cmd/server
package main

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
)

// requiredPaths must exist in the checkout for the server to come up.
var requiredPaths = []string{
	"go.mod",
	"cmd/server/main.go",
	"web/templates/base.html",
	"web/templates/index.html",
	"web/templates/login.html",
	"web/templates/register.html",
	"web/static/js/clickstream.js",
}

// dataDirs are created if absent; the server would create them too, but
// making them here surfaces permission problems before deploy.
var dataDirs = []string{
	"data",
	"data/uploads",
}

func main() {
	ok := true

	for _, path := range requiredPaths {
		if _, err := os.Stat(path); err != nil {
			fmt.Printf("✗ missing: %s\n", path)
			ok = false
			continue
		}
		fmt.Printf("✓ %s\n", path)
	}

	for _, dir := range dataDirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			fmt.Printf("✗ cannot create %s: %v\n", dir, err)
			ok = false
			continue
		}
		fmt.Printf("✓ %s/\n", dir)
	}

	if err := ensureEnvFile(".env"); err != nil {
		fmt.Printf("✗ .env: %v\n", err)
		ok = false
	}

	if !ok {
		fmt.Println("\nPreflight failed — fix the items above before deploying.")
		os.Exit(1)
	}
	fmt.Println("\nPreflight passed.")
}

// ensureEnvFile writes a starter .env with a random session secret. An
// existing file is left untouched so a deployed secret is never rotated by
// accident.
func ensureEnvFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		fmt.Printf("✓ %s (existing, left unchanged)\n", path)
		return nil
	}

	secret := make([]byte, 32)
	if _, err := rand.Read(secret); err != nil {
		return fmt.Errorf("generating session secret: %w", err)
	}

	content := fmt.Sprintf(`PORT=8080
DB_PATH=data/edulearn.db
UPLOAD_DIR=data/uploads
TEMPLATE_DIR=web/templates
STATIC_DIR=web/static
SESSION_SECRET=%s
`, hex.EncodeToString(secret))

	// 0600: the file holds the cookie signing key.
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		return err
	}
	fmt.Printf("✓ %s (generated with a new SESSION_SECRET)\n", path)
	return nil
}
