// Package scheduler 분석 이력 보관 정책에 따라 만료된 레코드를 Cron 스케줄에 맞춰
// 주기적으로 정리하는 서비스를 제공합니다.
package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/darkkaiser/typhoon-safety-server/internal/config"
	"github.com/darkkaiser/typhoon-safety-server/pkg/cronx"
	applog "github.com/darkkaiser/typhoon-safety-server/pkg/log"
	"github.com/robfig/cron/v3"
)

// component Scheduler 서비스의 로깅용 컴포넌트 이름
const component = "scheduler.service"

// cleanupTimeout 이력 정리 작업 한 번의 최대 허용 시간
const cleanupTimeout = 5 * time.Minute

// HistoryCleaner 만료된 분석 이력을 삭제하는 인터페이스입니다.
// history.Store가 이를 구현합니다.
type HistoryCleaner interface {
	DeleteOlderThan(ctx context.Context, retentionDays int) (int64, error)
}

// Scheduler 설정된 Cron 스케줄(history.cleanup_schedule)에 맞춰 이력 정리
// 작업을 자동으로 실행하는 서비스입니다.
type Scheduler struct {
	historyConfig config.HistoryConfig

	cron *cron.Cron

	// cleaner 만료된 이력의 삭제를 담당하는 인터페이스입니다.
	cleaner HistoryCleaner

	running   bool
	runningMu sync.Mutex
}

// NewService 새로운 Scheduler 서비스 인스턴스를 생성합니다.
func NewService(historyConfig config.HistoryConfig, cleaner HistoryCleaner) *Scheduler {
	if cleaner == nil {
		panic("HistoryCleaner는 필수입니다")
	}

	return &Scheduler{
		historyConfig: historyConfig,

		cleaner: cleaner,
	}
}

// Start 스케줄러를 시작하고 이력 정리 작업을 Cron 엔진에 등록합니다.
func (s *Scheduler) Start(serviceStopCtx context.Context, serviceStopWG *sync.WaitGroup) error {
	s.runningMu.Lock()
	defer s.runningMu.Unlock()

	applog.WithComponent(component).Info("Scheduler 서비스 시작중...")

	if s.cleaner == nil {
		serviceStopWG.Done()
		return ErrHistoryCleanerNotInitialized
	}

	if s.running {
		serviceStopWG.Done()
		applog.WithComponent(component).Warn("Scheduler 서비스가 이미 시작됨!!!")
		return nil
	}

	// Cron 엔진 초기화
	// - StandardParser: 초 단위 스케줄링 지원 (6개 필드: 초 분 시 일 월 요일)
	// - Recover: Panic 발생 시 복구하여 다음 실행에 영향을 주지 않음
	// - SkipIfStillRunning: 이전 실행이 끝나지 않았으면 다음 실행을 건너뜀
	s.cron = cron.New(
		cron.WithParser(cronx.StandardParser()),
		cron.WithLogger(cron.VerbosePrintfLogger(applog.StandardLogger())),
		cron.WithChain(
			cron.Recover(cron.VerbosePrintfLogger(applog.StandardLogger())),
			cron.SkipIfStillRunning(cron.VerbosePrintfLogger(applog.StandardLogger())),
		),
	)

	timeSpec := s.historyConfig.CleanupSchedule
	if _, err := s.cron.AddFunc(timeSpec, s.runCleanup); err != nil {
		serviceStopWG.Done()
		s.cron = nil
		return NewErrInvalidCronSpec(timeSpec, err)
	}

	s.cron.Start()
	s.running = true

	applog.WithComponentAndFields(component, applog.Fields{
		"cleanup_schedule": timeSpec,
		"retention_days":   s.historyConfig.RetentionDays,
	}).Info("Scheduler 서비스 시작됨")

	// 종료 신호 대기
	go func() {
		defer serviceStopWG.Done()

		<-serviceStopCtx.Done()

		s.Stop()
	}()

	return nil
}

// Stop 실행 중인 스케줄러를 안전하게 중지합니다.
// 실행 중인 정리 작업이 있으면 완료될 때까지 대기합니다.
func (s *Scheduler) Stop() {
	s.runningMu.Lock()
	defer s.runningMu.Unlock()

	if !s.running {
		return
	}

	applog.WithComponent(component).Info("Scheduler 서비스 중지중...")

	if s.cron != nil {
		ctx := s.cron.Stop()
		<-ctx.Done()
	}

	s.cron = nil
	s.running = false

	applog.WithComponent(component).Info("Scheduler 서비스 중지됨")
}

// runCleanup 보관 일수를 초과한 분석 이력을 삭제합니다.
//
// 정리 작업의 생명주기는 서비스 종료 시그널과 분리되어 있습니다. Graceful
// Shutdown 시 cron.Stop()이 실행 중인 작업의 완료를 대기하므로, 삭제 도중
// 컨텍스트 취소로 인한 강제 중단을 방지합니다.
func (s *Scheduler) runCleanup() {
	ctx, cancel := context.WithTimeout(context.Background(), cleanupTimeout)
	defer cancel()

	started := time.Now()

	deleted, err := s.cleaner.DeleteOlderThan(ctx, s.historyConfig.RetentionDays)
	if err != nil {
		applog.WithComponentAndFields(component, applog.Fields{
			"error":          err,
			"retention_days": s.historyConfig.RetentionDays,
		}).Error("이력 정리 실패: 만료된 분석 이력 삭제 중 오류가 발생했습니다")
		return
	}

	applog.WithComponentAndFields(component, applog.Fields{
		"deleted":        deleted,
		"retention_days": s.historyConfig.RetentionDays,
		"duration_ms":    time.Since(started).Milliseconds(),
	}).Info("이력 정리 완료: 만료된 분석 이력을 삭제했습니다")
}
