package backups

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/julianstephens/retcal/internal/backup"
	"github.com/julianstephens/retcal/internal/cli"
	"github.com/julianstephens/retcal/internal/models"
	"github.com/julianstephens/retcal/internal/storage"
	"github.com/julianstephens/retcal/internal/storage/postgres"
	"github.com/julianstephens/retcal/internal/storage/sqlite"
)

func setupTestDB(t *testing.T) *cli.Context {
	t.Helper()
	store := sqlite.NewStore(filepath.Join(t.TempDir(), "test.db"))
	if err := store.Init(); err != nil {
		t.Fatalf("failed to init store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return &cli.Context{Store: store}
}

func TestBackupCreateAndList(t *testing.T) {
	ctx := setupTestDB(t)

	if err := (&BackupListCmd{}).Run(ctx); err != nil {
		t.Fatalf("backup list on empty dir failed: %v", err)
	}
	if err := (&BackupCreateCmd{}).Run(ctx); err != nil {
		t.Fatalf("backup create failed: %v", err)
	}
	if err := (&BackupListCmd{}).Run(ctx); err != nil {
		t.Fatalf("backup list failed: %v", err)
	}

	backups, err := backup.NewManager(ctx.Store.GetConfigPath()).ListBackups()
	if err != nil {
		t.Fatal(err)
	}
	if len(backups) != 1 {
		t.Errorf("got %d backups, want 1", len(backups))
	}
}

func TestBackupRestoreByName(t *testing.T) {
	path := filepath.Join(t.TempDir(), "retcal.json")
	store := storage.NewJSONStore(path)
	if err := store.Init(); err != nil {
		t.Fatal(err)
	}
	ctx := &cli.Context{Store: store}

	g, err := ctx.Goals()
	if err != nil {
		t.Fatal(err)
	}
	if _, err := g.AddGroup("Review", models.Today(), models.Intervals{1}); err != nil {
		t.Fatal(err)
	}

	mgr := backup.NewManager(path)
	backupPath, err := mgr.CreateBackup()
	if err != nil {
		t.Fatal(err)
	}
	if err := g.Clear(); err != nil {
		t.Fatal(err)
	}

	original := cli.Stdin
	t.Cleanup(func() { cli.Stdin = original })
	cli.Stdin = strings.NewReader("y\n")

	if err := (&BackupRestoreCmd{BackupFile: filepath.Base(backupPath)}).Run(ctx); err != nil {
		t.Fatalf("backup restore failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "Review") {
		t.Errorf("restored store does not contain the goal: %s", data)
	}
}

func TestBackupRestoreMissingFile(t *testing.T) {
	ctx := setupTestDB(t)
	if err := (&BackupRestoreCmd{BackupFile: "nope.db", Yes: true}).Run(ctx); err == nil {
		t.Error("restore of a missing backup should fail")
	}
}

func TestBackupsRejectPostgres(t *testing.T) {
	ctx := &cli.Context{Store: postgres.New("postgres://retcal@localhost/retcal")}
	if err := (&BackupCreateCmd{}).Run(ctx); err == nil {
		t.Error("backup create should fail for PostgreSQL")
	}
}
