package sqlxrepos

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/Djaner15/EduPlatform/core/quiz"
)

const (
	statisticsQuery = `
SELECT
	(SELECT COUNT(*) FROM users) AS total_users,
	(SELECT COUNT(*) FROM tests) AS total_tests,
	(SELECT COUNT(*) FROM test_results) AS total_results,
	COALESCE((SELECT AVG(CAST(score AS DOUBLE PRECISION)) FROM test_results), 0) AS average_score`

	allResultsQuery = `
SELECT r.id, r.test_id, r.user_id, r.score, r.completed_at, u.username, t.title AS test_title
FROM test_results r
JOIN users u ON u.id = r.user_id
JOIN tests t ON t.id = r.test_id
ORDER BY r.completed_at DESC, r.id DESC`
)

type reportRepository struct {
	db *sqlx.DB
}

var _ quiz.Reporter = (*reportRepository)(nil)

// NewReportRepository wraps an open connection pool.
// driverName selects the bind variable style: "pgx" for postgres, "sqlite3" for sqlite.
func NewReportRepository(db *sql.DB, driverName string) quiz.Reporter {
	return &reportRepository{db: sqlx.NewDb(db, driverName)}
}

// DriverName returns the sqlx driver name matching a database engine.
func DriverName(engine string) string {
	if engine == "sqlite" {
		return "sqlite3"
	}
	return "pgx"
}

func (repo *reportRepository) Statistics(ctx context.Context) (quiz.Statistics, error) {
	var stats quiz.Statistics
	if err := repo.db.GetContext(ctx, &stats, repo.db.Rebind(statisticsQuery)); err != nil {
		return quiz.Statistics{}, errors.Wrap(err, "querying statistics")
	}
	return stats, nil
}

func (repo *reportRepository) QueryAllResults(ctx context.Context) ([]quiz.ResultDetail, error) {
	results := make([]quiz.ResultDetail, 0)
	if err := repo.db.SelectContext(ctx, &results, repo.db.Rebind(allResultsQuery)); err != nil {
		return nil, errors.Wrap(err, "querying results")
	}
	for i := range results {
		results[i].CompletedAt = results[i].CompletedAt.UTC()
	}
	return results, nil
}
