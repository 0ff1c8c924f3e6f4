// Package history 분석 결과의 MySQL 영속화와 보관 정책을 담당합니다.
//
// 이력 저장은 선택 기능으로, 설정(history.enabled)으로 활성화된 경우에만
// 동작합니다. API 핸들러는 Recorder를 통해 비동기로 이력을 적재하므로
// 저장 실패가 분석 요청의 성공 여부에 영향을 주지 않습니다.
package history

import (
	"context"
	"database/sql"
	"time"

	apperrors "github.com/darkkaiser/typhoon-safety-server/internal/pkg/errors"
	applog "github.com/darkkaiser/typhoon-safety-server/pkg/log"
	_ "github.com/go-sql-driver/mysql"
)

// storeComponent 저장소 로깅용 컴포넌트 이름
const storeComponent = "history.store"

// MySQL 커넥션 풀 설정값
const (
	maxOpenConns    = 25
	maxIdleConns    = 25
	connMaxLifetime = 5 * time.Minute
)

// Entry analysis_history 테이블의 한 행에 해당하는 분석 이력 레코드입니다.
type Entry struct {
	RequestID    string
	Filename     string
	RiskLevel    string
	TotalHazards int
	Confidence   float64
	ResultJSON   string
	DurationMS   int64
}

// Store 분석 이력을 MySQL에 보관하는 저장소입니다.
type Store struct {
	db *sql.DB
}

// NewStore 주어진 DSN으로 MySQL에 접속하여 저장소를 생성하고 스키마를 초기화합니다.
//
// DSN에 parseTime 옵션이 없으면 created_at 조회 시 시간 변환이 실패하므로,
// 설정 예시는 "user:pass@tcp(host:3306)/typhoon?parseTime=true" 형식을 권장합니다.
func NewStore(dsn string) (*Store, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.InvalidInput, "MySQL 접속 정보(DSN)가 올바르지 않습니다")
	}

	db.SetMaxOpenConns(maxOpenConns)
	db.SetMaxIdleConns(maxIdleConns)
	db.SetConnMaxLifetime(connMaxLifetime)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, apperrors.Wrap(err, apperrors.Unavailable, "MySQL 서버에 연결할 수 없습니다")
	}

	store := &Store{db: db}
	if err := store.initSchema(); err != nil {
		_ = db.Close()
		return nil, err
	}

	applog.WithComponent(storeComponent).Info("분석 이력 저장소 초기화 완료")

	return store, nil
}

// initSchema 분석 이력 테이블이 없으면 생성합니다.
func (s *Store) initSchema() error {
	query := `
	CREATE TABLE IF NOT EXISTS analysis_history(
		id BIGINT NOT NULL AUTO_INCREMENT,
		request_id VARCHAR(64) NOT NULL,
		filename VARCHAR(255) NOT NULL,
		risk_level VARCHAR(16) NOT NULL,
		total_hazards INT NOT NULL DEFAULT 0,
		confidence DOUBLE NOT NULL DEFAULT 0,
		result_json JSON,
		duration_ms BIGINT NOT NULL DEFAULT 0,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (id),
		INDEX risk_level_index (risk_level),
		INDEX created_at_index (created_at)
	)`

	if _, err := s.db.Exec(query); err != nil {
		return apperrors.Wrap(err, apperrors.System, "analysis_history 테이블 생성에 실패했습니다")
	}
	return nil
}

// Insert 분석 이력 한 건을 저장합니다.
func (s *Store) Insert(ctx context.Context, entry *Entry) error {
	if entry == nil {
		return apperrors.New(apperrors.InvalidInput, "저장할 이력 레코드가 없습니다")
	}

	query := `
	INSERT INTO analysis_history
		(request_id, filename, risk_level, total_hazards, confidence, result_json, duration_ms)
	VALUES (?, ?, ?, ?, ?, ?, ?)`

	_, err := s.db.ExecContext(ctx, query,
		entry.RequestID,
		entry.Filename,
		entry.RiskLevel,
		entry.TotalHazards,
		entry.Confidence,
		entry.ResultJSON,
		entry.DurationMS,
	)
	if err != nil {
		return apperrors.Wrap(err, apperrors.System, "분석 이력 저장에 실패했습니다")
	}
	return nil
}

// DeleteOlderThan 보관 일수를 초과한 이력을 삭제하고 삭제된 행 수를 반환합니다.
func (s *Store) DeleteOlderThan(ctx context.Context, retentionDays int) (int64, error) {
	if retentionDays < 1 {
		return 0, apperrors.New(apperrors.InvalidInput, "보관 일수는 1 이상이어야 합니다")
	}

	query := `DELETE FROM analysis_history WHERE created_at < NOW() - INTERVAL ? DAY`

	res, err := s.db.ExecContext(ctx, query, retentionDays)
	if err != nil {
		return 0, apperrors.Wrap(err, apperrors.System, "만료된 분석 이력 삭제에 실패했습니다")
	}

	deleted, err := res.RowsAffected()
	if err != nil {
		return 0, apperrors.Wrap(err, apperrors.System, "삭제된 이력 수를 확인할 수 없습니다")
	}
	return deleted, nil
}

// Health MySQL 연결 상태를 확인합니다.
func (s *Store) Health() error {
	if err := s.db.Ping(); err != nil {
		return apperrors.Wrap(err, apperrors.Unavailable, "MySQL 서버에 연결할 수 없습니다")
	}
	return nil
}

// Close 데이터베이스 연결을 닫습니다.
func (s *Store) Close() error {
	return s.db.Close()
}
