package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	_ "github.com/darkkaiser/typhoon-safety-server/docs"
	"github.com/darkkaiser/typhoon-safety-server/internal/analysis"
	"github.com/darkkaiser/typhoon-safety-server/internal/config"
	"github.com/darkkaiser/typhoon-safety-server/internal/pkg/version"
	"github.com/darkkaiser/typhoon-safety-server/internal/service/api/constants"
	"github.com/darkkaiser/typhoon-safety-server/internal/service/api/handler/analyze"
	"github.com/darkkaiser/typhoon-safety-server/internal/service/api/handler/system"
	"github.com/darkkaiser/typhoon-safety-server/internal/service/api/metrics"
	"github.com/darkkaiser/typhoon-safety-server/internal/service/history"
	"github.com/darkkaiser/typhoon-safety-server/internal/service/notification"
	applog "github.com/darkkaiser/typhoon-safety-server/pkg/log"
	"github.com/labstack/echo/v4"
)

const (
	// shutdownTimeout Graceful Shutdown 시 최대 대기 시간 (5초)
	shutdownTimeout = 5 * time.Second

	// requestTimeoutMargin 모델 호출 타임아웃에 더하는 여유 시간입니다.
	// HTTP 요청 타임아웃이 모델 호출 타임아웃보다 짧으면 분석이 완료되기 전에
	// 요청이 중단되므로, 항상 모델 호출 타임아웃에 이 여유 시간을 더해 사용합니다.
	requestTimeoutMargin = 30 * time.Second
)

// Service 태풍 안전 분석 API 서버의 생명주기를 관리하는 서비스입니다.
//
// 이 서비스는 다음과 같은 역할을 수행합니다:
//   - Echo 기반 HTTP/HTTPS 서버 시작 및 종료
//   - 미들웨어 체인 설정 (PanicRecovery, RequestID, HTTPLogger, RateLimiting, BodyLimit, CORS, Secure)
//   - API 엔드포인트 라우팅 설정 (이미지 분석, 상태 확인, 버전 정보, 메트릭 등)
//   - Prometheus 메트릭 등록 및 노출
//   - Swagger UI 제공
//   - 커스텀 HTTP 에러 핸들러 설정
//   - 서비스 상태 관리 (시작/중지)
//   - Graceful Shutdown 지원 (5초 타임아웃)
//   - 서버 에러 처리 및 알림 전송 (예상치 못한 에러 발생 시)
//
// 서비스는 고루틴으로 실행되며, context를 통해 종료 신호를 받습니다.
// Start() 메서드로 시작하고, context 취소로 종료됩니다.
type Service struct {
	appConfig *config.AppConfig

	analyzer analysis.ImageAnalyzer

	historyStore    *history.Store        // 이력 기능 비활성화 시 nil
	historyRecorder *history.Recorder     // 이력 기능 비활성화 시 nil
	alertService    *notification.Service // 알림 기능 비활성화 시 nil

	buildInfo version.Info

	running   bool
	runningMu sync.Mutex
}

// NewService Service 인스턴스를 생성합니다.
//
// historyStore, historyRecorder, alertService는 해당 기능이 설정에서
// 비활성화된 경우 nil을 허용합니다.
func NewService(
	appConfig *config.AppConfig,
	analyzer analysis.ImageAnalyzer,
	historyStore *history.Store,
	historyRecorder *history.Recorder,
	alertService *notification.Service,
	buildInfo version.Info,
) *Service {
	if appConfig == nil {
		panic(constants.PanicMsgAppConfigRequired)
	}
	if analyzer == nil {
		panic(constants.PanicMsgImageAnalyzerRequired)
	}

	return &Service{
		appConfig: appConfig,

		analyzer: analyzer,

		historyStore:    historyStore,
		historyRecorder: historyRecorder,
		alertService:    alertService,

		buildInfo: buildInfo,

		running:   false,
		runningMu: sync.Mutex{},
	}
}

// Start API 서비스를 시작합니다.
//
// 서비스는 별도의 고루틴에서 실행되며, 다음 작업을 수행합니다:
//  1. 서비스 상태 검증 (중복 실행 방지)
//  2. Echo 서버 설정 (Handler, 미들웨어, 라우트, 메트릭)
//  3. HTTP/HTTPS 서버 시작 (별도 고루틴)
//  4. Shutdown 신호 대기
//  5. Graceful Shutdown 처리 (5초 타임아웃)
//  6. 서버 에러 처리 및 알림 전송 (예상치 못한 에러 발생 시)
//  7. 서비스 상태 정리 (running 플래그 초기화)
//
// Parameters:
//   - serviceStopCtx: 서비스 종료 신호를 받기 위한 Context
//   - serviceStopWG: 서비스 종료 완료를 알리기 위한 WaitGroup
//
// Note: 이 함수는 즉시 반환되며, 실제 서버는 고루틴에서 실행됩니다.
func (s *Service) Start(serviceStopCtx context.Context, serviceStopWG *sync.WaitGroup) error {
	s.runningMu.Lock()
	defer s.runningMu.Unlock()

	applog.WithComponent(constants.ComponentService).Info(constants.LogMsgServiceStarting)

	if s.running {
		defer serviceStopWG.Done()
		applog.WithComponent(constants.ComponentService).Warn(constants.LogMsgServiceAlreadyStarted)
		return nil
	}

	s.running = true

	go s.runServiceLoop(serviceStopCtx, serviceStopWG)

	applog.WithComponent(constants.ComponentService).Info(constants.LogMsgServiceStarted)

	return nil
}

// runServiceLoop 서비스의 메인 실행 루프입니다.
// 서버 설정, HTTP 서버 시작, Shutdown 대기를 순차적으로 수행합니다.
func (s *Service) runServiceLoop(serviceStopCtx context.Context, serviceStopWG *sync.WaitGroup) {
	defer serviceStopWG.Done()

	// 서버 설정
	e := s.setupServer()

	// HTTP 서버 시작
	httpServerDone := make(chan struct{})
	go s.startHTTPServer(e, httpServerDone)

	// Shutdown 대기
	s.waitForShutdown(serviceStopCtx, e, httpServerDone)
}

// setupServer Echo 서버 인스턴스를 생성하고 모든 설정을 완료합니다.
//
// 다음 순서로 서버를 구성합니다:
//  1. Prometheus 메트릭 등록 (Register는 멱등)
//  2. Handler 생성 (System 핸들러, Analyze 핸들러)
//  3. Echo 서버 생성 (미들웨어 체인, CORS 설정 포함)
//  4. 라우트 등록
func (s *Service) setupServer() *echo.Echo {
	// 1. Prometheus 메트릭 등록
	metrics.Register()

	// 2. Handler 생성
	// 비활성화된 기능의 의존성은 인터페이스에 nil 포인터가 담기지 않도록
	// nil 인터페이스 그대로 전달합니다.
	var storeChecker system.HealthChecker
	if s.historyStore != nil {
		storeChecker = s.historyStore
	}
	systemHandler := system.NewHandler(asHealthChecker(s.analyzer), storeChecker, s.buildInfo)

	var recorder analyze.HistoryRecorder
	if s.historyRecorder != nil {
		recorder = s.historyRecorder
	}
	var alerter analyze.AnalysisAlerter
	if s.alertService != nil {
		alerter = s.alertService
	}
	analyzeHandler := analyze.NewHandler(s.analyzer, recorder, alerter)

	// 3. Echo 서버 생성 (미들웨어 체인 포함)
	e := NewHTTPServer(HTTPServerConfig{
		Debug:              s.appConfig.Debug,
		AllowOrigins:       s.appConfig.Server.CORS.AllowOrigins,
		RequestTimeout:     s.appConfig.Gemini.RequestTimeoutDuration() + requestTimeoutMargin,
		RateLimitPerSecond: s.appConfig.Server.RateLimit.RequestsPerSecond,
		RateLimitBurst:     s.appConfig.Server.RateLimit.Burst,
		MaxUploadSizeMB:    s.appConfig.Server.MaxUploadSizeMB,
	})

	// 4. 라우트 등록
	RegisterRoutes(e, systemHandler, analyzeHandler)

	return e
}

// startHTTPServer HTTP/HTTPS 서버를 시작합니다.
//
// 설정에 따라 TLS 활성화 여부를 결정하며, 서버가 종료되면 done 채널을 닫아
// 대기 중인 고루틴에 신호를 보냅니다.
//
// Note: 이 함수는 블로킹되며, 서버가 종료될 때까지 반환되지 않습니다.
func (s *Service) startHTTPServer(e *echo.Echo, done chan struct{}) {
	defer close(done)

	port := s.appConfig.Server.ListenPort
	applog.WithComponentAndFields(constants.ComponentService, applog.Fields{
		"port": port,
	}).Debug(constants.LogMsgServiceHTTPServerStarting)

	var err error
	if s.appConfig.Server.TLSServer {
		err = e.StartTLS(
			fmt.Sprintf(":%d", port),
			s.appConfig.Server.TLSCertFile,
			s.appConfig.Server.TLSKeyFile,
		)
	} else {
		err = e.Start(fmt.Sprintf(":%d", port))
	}

	s.handleServerError(err)
}

// handleServerError HTTP 서버 시작 중 발생한 에러를 처리합니다.
//
// 에러 처리 방식:
//   - nil: 처리하지 않음 (정상 종료)
//   - http.ErrServerClosed: Info 레벨 로깅 (Graceful Shutdown)
//   - 그 외: Error 레벨 로깅 + 텔레그램 알림 전송 (예상치 못한 에러)
func (s *Service) handleServerError(err error) {
	// nil: 정상 종료, 처리 불필요
	if err == nil {
		return
	}

	// http.ErrServerClosed: Graceful Shutdown 완료
	if errors.Is(err, http.ErrServerClosed) {
		applog.WithComponent(constants.ComponentService).Info(constants.LogMsgServiceHTTPServerStopped)
		return
	}

	// 예상치 못한 에러: 로깅 및 알림 전송
	message := constants.LogMsgServiceHTTPServerFatalError
	applog.WithComponentAndFields(constants.ComponentService, applog.Fields{
		"port":  s.appConfig.Server.ListenPort,
		"error": err,
	}).Error(message)

	if s.alertService != nil {
		s.alertService.AlertServerError(message, err)
	}
}

// waitForShutdown 종료 신호를 대기하고 Graceful Shutdown을 수행합니다.
//
// 종료 처리 순서:
//  1. 종료 신호 대기 (정상 종료 또는 서버 조기 종료)
//  2. Echo 서버 Shutdown 호출 (5초 타임아웃)
//  3. HTTP 서버 완전 종료 대기
//  4. 서비스 상태 정리 (running 플래그 초기화)
//
// Note: 이 함수는 서비스가 완전히 종료될 때까지 블로킹됩니다.
func (s *Service) waitForShutdown(serviceStopCtx context.Context, e *echo.Echo, httpServerDone chan struct{}) {
	select {
	case <-serviceStopCtx.Done():
		// 정상적인 종료 신호 수신
		applog.WithComponent(constants.ComponentService).Info(constants.LogMsgServiceStopping)
	case <-httpServerDone:
		// HTTP 서버가 예기치 않게 종료됨 (포트 바인딩 실패, 패닉 등)
		// 이미 종료되었으므로 Shutdown 호출 없이 상태만 정리
		applog.WithComponent(constants.ComponentService).Error(constants.LogMsgServiceUnexpectedExit)

		s.cleanup()

		return
	}

	// Graceful Shutdown 시작 (5초 타임아웃)
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		applog.WithComponentAndFields(constants.ComponentService, applog.Fields{
			"error": err,
		}).Error(constants.LogMsgServiceHTTPServerShutdownError)
	}

	<-httpServerDone

	s.cleanup()
}

// cleanup 서비스 종료 후 상태를 정리합니다.
func (s *Service) cleanup() {
	s.runningMu.Lock()
	s.running = false
	// 주의: analyzer 등 의존성 객체는 의도적으로 nil로 설정하지 않음
	// - 종료 중에도 다른 고루틴(처리 중인 요청 등)이 접근 가능
	// - nil 설정 시 동시 접근으로 인한 panic 위험
	// - 메모리는 GC가 Service 객체 해제 시 자동 정리
	s.runningMu.Unlock()

	applog.WithComponent(constants.ComponentService).Info(constants.LogMsgServiceStopped)
}

// asHealthChecker v가 자체 상태 점검을 지원하면 그 구현을 그대로 사용하고,
// 지원하지 않으면 항상 정상으로 판정하는 HealthChecker를 반환합니다.
func asHealthChecker(v any) system.HealthChecker {
	if checker, ok := v.(system.HealthChecker); ok {
		return checker
	}
	return healthCheckerFunc(func() error { return nil })
}

// healthCheckerFunc 함수를 HealthChecker 인터페이스로 사용하기 위한 어댑터
type healthCheckerFunc func() error

func (f healthCheckerFunc) Health() error {
	return f()
}
