// Package system 시스템 엔드포인트 핸들러를 제공합니다.
//
// 서비스 상태 확인, 헬스체크, 버전 정보 등 시스템 수준의 API를 처리합니다.
package system

import (
	"net/http"
	"runtime"
	"time"

	"github.com/darkkaiser/typhoon-safety-server/internal/pkg/version"
	"github.com/darkkaiser/typhoon-safety-server/internal/service/api/constants"
	"github.com/darkkaiser/typhoon-safety-server/internal/service/api/model/system"
	applog "github.com/darkkaiser/typhoon-safety-server/pkg/log"
	"github.com/labstack/echo/v4"
)

// HealthChecker 외부 의존성의 상태를 점검합니다.
type HealthChecker interface {
	Health() error
}

// Handler 시스템 엔드포인트 핸들러 (상태 확인, 헬스체크, 버전 정보)
type Handler struct {
	analysisEngine HealthChecker
	historyStore   HealthChecker // 이력 기능 비활성화 시 nil

	buildInfo version.Info

	serverStartTime time.Time
}

// NewHandler Handler 인스턴스를 생성합니다.
//
// historyStore는 분석 이력 기능이 비활성화된 경우 nil을 허용하며,
// 이 경우 헬스체크 응답에서 제외됩니다.
func NewHandler(analysisEngine HealthChecker, historyStore HealthChecker, buildInfo version.Info) *Handler {
	if analysisEngine == nil {
		panic(constants.PanicMsgHealthCheckerRequired)
	}

	return &Handler{
		analysisEngine: analysisEngine,
		historyStore:   historyStore,

		buildInfo: buildInfo,

		serverStartTime: time.Now(),
	}
}

// StatusHandler godoc
// @Summary 서비스 상태 확인
// @Description 서버가 요청을 처리할 수 있는 상태인지 확인하는 가장 단순한 엔드포인트입니다.
// @Description 의존성 점검 없이 고정된 상태 메시지를 반환합니다.
// @Tags System
// @Produce json
// @Success 200 {object} system.StatusResponse "서비스 상태"
// @Router / [get]
func (h *Handler) StatusHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, system.StatusResponse{
		Status:  "ok",
		Message: constants.MsgAPIOperational,
	})
}

// HealthCheckHandler godoc
// @Summary 서버 헬스체크
// @Description 서버와 외부 의존성의 상태를 확인합니다.
// @Description 모니터링 시스템에서 사용됩니다.
// @Description
// @Description 응답 필드:
// @Description - status: 전체 서버 상태 (healthy, unhealthy)
// @Description - uptime: 서버 가동 시간(초)
// @Description - dependencies: 외부 의존성별 상태 (analysis_engine, history_store)
// @Tags System
// @Produce json
// @Success 200 {object} system.HealthResponse "헬스체크 결과"
// @Router /health [get]
func (h *Handler) HealthCheckHandler(c echo.Context) error {
	applog.WithComponentAndFields(constants.ComponentHandler, applog.Fields{
		"endpoint":  "/health",
		"method":    c.Request().Method,
		"remote_ip": c.RealIP(),
	}).Debug(constants.LogMsgHealthCheck)

	uptime := int64(time.Since(h.serverStartTime).Seconds())

	// 외부 의존성 상태 수집
	deps := make(map[string]system.DependencyStatus)

	// 이미지 분석 엔진 상태 확인
	deps[constants.DependencyAnalysisEngine] = checkDependency(h.analysisEngine)

	// 분석 이력 저장소는 활성화된 경우에만 점검 대상에 포함
	if h.historyStore != nil {
		deps[constants.DependencyHistoryStore] = checkDependency(h.historyStore)
	}

	// 하나라도 unhealthy면 전체 상태를 unhealthy로 설정
	serverStatus := constants.HealthStatusHealthy
	for _, dep := range deps {
		if dep.Status != constants.HealthStatusHealthy {
			serverStatus = constants.HealthStatusUnhealthy
			break
		}
	}

	return c.JSON(http.StatusOK, system.HealthResponse{
		Status:       serverStatus,
		Uptime:       uptime,
		Dependencies: deps,
	})
}

// checkDependency 의존성 하나의 상태를 점검하고 응답 지연시간을 함께 기록합니다.
func checkDependency(checker HealthChecker) system.DependencyStatus {
	if checker == nil {
		return system.DependencyStatus{
			Status:  constants.HealthStatusUnhealthy,
			Message: constants.MsgDepStatusNotInitialized,
		}
	}

	started := time.Now()
	err := checker.Health()
	latency := time.Since(started).Milliseconds()

	if err != nil {
		return system.DependencyStatus{
			Status:    constants.HealthStatusUnhealthy,
			LatencyMs: latency,
			Message:   err.Error(),
		}
	}

	return system.DependencyStatus{
		Status:    constants.HealthStatusHealthy,
		LatencyMs: latency,
		Message:   constants.MsgDepStatusHealthy,
	}
}

// VersionHandler godoc
// @Summary 서버 버전 정보
// @Description 서버의 애플리케이션 버전, 빌드 날짜, 빌드 번호, Go 버전을 반환합니다.
// @Description 디버깅 및 배포 버전 확인에 사용됩니다.
// @Tags System
// @Produce json
// @Success 200 {object} system.VersionResponse "버전 정보"
// @Router /version [get]
func (h *Handler) VersionHandler(c echo.Context) error {
	applog.WithComponentAndFields(constants.ComponentHandler, applog.Fields{
		"endpoint":  "/version",
		"method":    c.Request().Method,
		"remote_ip": c.RealIP(),
	}).Debug(constants.LogMsgVersionInfo)

	return c.JSON(http.StatusOK, system.VersionResponse{
		Version:     h.buildInfo.Version,
		BuildDate:   h.buildInfo.BuildDate,
		BuildNumber: h.buildInfo.BuildNumber,
		GoVersion:   runtime.Version(),
	})
}
