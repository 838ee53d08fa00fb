package migrate_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/znforge/pos-backend/pkg/migrate"
)

func TestInitMigrationContainsConstraints(t *testing.T) {
	matches, err := filepath.Glob(filepath.Join("migrations", "*_init.sql"))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no init migration file found")
	}

	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	content := string(data)

	checks := []string{
		"CREATE TABLE businesses",
		"CREATE TABLE transactions",
		"CONSTRAINT uq_transactions_business_number UNIQUE (business_id, transaction_number)",
		"CONSTRAINT uq_users_business_username UNIQUE (business_id, username)",
		"CHECK (stock >= 0)",
		"CHECK (quantity > 0)",
		"total_spent numeric(10,2) NOT NULL DEFAULT 0.00",
		"DROP TABLE IF EXISTS transaction_items",
	}

	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestMigrationsDirectoryValid(t *testing.T) {
	if err := migrate.ValidateDir("migrations"); err != nil {
		t.Fatalf("validate migrations dir: %v", err)
	}
}
