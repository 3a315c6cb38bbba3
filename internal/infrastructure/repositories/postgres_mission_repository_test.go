package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"reflect"
	"testing"
	"time"

	"drone-survey-system/internal/domain"
	_ "github.com/lib/pq"
)

// newTestPostgres відкриває базу з DATABASE_URL в окремій тимчасовій схемі
func newTestPostgres(t *testing.T) *PostgresMissionRepository {
	t.Helper()

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		t.Skip("DATABASE_URL is not set")
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	// search_path діє в межах з'єднання
	db.SetMaxOpenConns(1)

	ctx := context.Background()
	schema := fmt.Sprintf("mission_repo_test_%d", time.Now().UnixNano())
	if _, err := db.ExecContext(ctx, "CREATE SCHEMA "+schema); err != nil {
		db.Close()
		t.Fatalf("CREATE SCHEMA failed: %v", err)
	}
	t.Cleanup(func() {
		db.ExecContext(context.Background(), "DROP SCHEMA "+schema+" CASCADE")
		db.Close()
	})
	if _, err := db.ExecContext(ctx, "SET search_path TO "+schema); err != nil {
		t.Fatalf("SET search_path failed: %v", err)
	}

	repo := NewPostgresMissionRepository(db)
	if err := repo.InitializeSchema(ctx); err != nil {
		t.Fatalf("InitializeSchema failed: %v", err)
	}
	return repo
}

func findAllIDs(t *testing.T, repo *PostgresMissionRepository) []string {
	t.Helper()

	missions, err := repo.FindAll(context.Background())
	if err != nil {
		t.Fatalf("FindAll failed: %v", err)
	}
	ids := make([]string, 0, len(missions))
	for _, m := range missions {
		ids = append(ids, m.ID)
	}
	return ids
}

func TestPostgresMissionRepositoryKeepsPositions(t *testing.T) {
	repo := newTestPostgres(t)
	ctx := context.Background()

	a := storeMission("a", domain.MissionStatusPending)
	b := storeMission("b", domain.MissionStatusInProgress)
	c := storeMission("c", domain.MissionStatusCompleted)
	end := time.Date(2024, 2, 13, 11, 30, 0, 0, time.UTC)
	c.EndTime = &end
	c.FlightConfig = nil

	if err := repo.SaveAll(ctx, []domain.Mission{c, a, b}); err != nil {
		t.Fatalf("SaveAll failed: %v", err)
	}
	if got, want := findAllIDs(t, repo), []string{"c", "a", "b"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("order after SaveAll = %v, want %v", got, want)
	}

	gotC, err := repo.FindByID(ctx, "c")
	if err != nil {
		t.Fatalf("FindByID failed: %v", err)
	}
	if gotC.FlightConfig != nil {
		t.Errorf("flightConfig = %+v, want nil", gotC.FlightConfig)
	}
	if gotC.EndTime == nil || !gotC.EndTime.Equal(end) {
		t.Errorf("endTime = %v, want %v", gotC.EndTime, end)
	}
	if gotC.Status != domain.MissionStatusCompleted {
		t.Errorf("status = %q, want completed", gotC.Status)
	}

	gotA, err := repo.FindByID(ctx, "a")
	if err != nil {
		t.Fatalf("FindByID failed: %v", err)
	}
	if gotA.EndTime != nil {
		t.Errorf("endTime = %v, want nil", gotA.EndTime)
	}
	if gotA.FlightConfig == nil || !reflect.DeepEqual(gotA.FlightConfig.DataCollection, a.FlightConfig.DataCollection) {
		t.Errorf("dataCollection = %+v, want %+v", gotA.FlightConfig, a.FlightConfig.DataCollection)
	}

	// Нова місія додається в кінець, наявна зберігає позицію
	d := storeMission("d", domain.MissionStatusFailed)
	if err := repo.Save(ctx, &d); err != nil {
		t.Fatalf("Save new failed: %v", err)
	}
	a.Name = "Renamed"
	if err := repo.Save(ctx, &a); err != nil {
		t.Fatalf("Save existing failed: %v", err)
	}
	if got, want := findAllIDs(t, repo), []string{"c", "a", "b", "d"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("order after Save = %v, want %v", got, want)
	}
	if gotA, err := repo.FindByID(ctx, "a"); err != nil || gotA.Name != "Renamed" {
		t.Errorf("FindByID(a) = %+v, %v; want renamed", gotA, err)
	}

	// SaveAll видаляє місії, яких немає у колекції
	if err := repo.SaveAll(ctx, []domain.Mission{d, b}); err != nil {
		t.Fatalf("SaveAll subset failed: %v", err)
	}
	if got, want := findAllIDs(t, repo), []string{"d", "b"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("order after subset SaveAll = %v, want %v", got, want)
	}
	if _, err := repo.FindByID(ctx, "c"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("FindByID(c) error = %v, want ErrNotFound", err)
	}

	if err := repo.SaveAll(ctx, nil); err != nil {
		t.Fatalf("SaveAll empty failed: %v", err)
	}
	if got := findAllIDs(t, repo); len(got) != 0 {
		t.Errorf("missions after empty SaveAll = %v, want none", got)
	}
}
