package database

import (
	"database/sql"
	_ "embed"
	"time"

	"sqldrill/internal/platform/config"

	_ "github.com/duckdb/duckdb-go/v2" // DuckDB driver (embedded engine)
	_ "github.com/jackc/pgx/v5/stdlib" // PostgreSQL driver
	"github.com/sirupsen/logrus"
)

//go:embed dataset.sql
var datasetSQL string

var DB *sql.DB

// Connect opens the dataset engine selected by configuration and loads the
// bundled practice dataset into it. The default is an in-memory DuckDB
// instance, so the binary is self-contained; "postgres" points the same
// schema at an external server instead.
func Connect() {
	var err error
	switch config.AppConfig.DatasetEngine {
	case "postgres":
		DB, err = sql.Open("pgx", config.AppConfig.DBConnStr)
	default:
		DB, err = sql.Open("duckdb", "")
	}
	if err != nil {
		logrus.Fatalf("Error opening dataset engine: %v", err)
	}

	DB.SetMaxOpenConns(25)
	DB.SetMaxIdleConns(25)
	DB.SetConnMaxLifetime(5 * time.Minute)

	if err = DB.Ping(); err != nil {
		logrus.Fatalf("Error connecting to dataset engine: %v", err)
	}

	if _, err = DB.Exec(datasetSQL); err != nil {
		logrus.Fatalf("Error loading practice dataset: %v", err)
	}

	logrus.WithField("engine", config.AppConfig.DatasetEngine).Info("Dataset engine ready")
}

func Close() {
	if DB != nil {
		DB.Close()
		logrus.Info("Dataset engine connection closed")
	}
}
