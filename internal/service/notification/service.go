// Package notification 분석 결과가 경고 기준을 충족할 때 텔레그램으로
// 알림 메시지를 발송하는 서비스를 제공합니다.
//
// 알림 요청은 내부 큐에 비동기로 적재되며, 전담 Sender 고루틴이 순차적으로
// 텔레그램 API로 전송합니다. 큐가 가득 찬 경우 요청은 유실되며(로그 기록),
// 호출 측(API 핸들러)은 절대 블로킹되지 않습니다.
package notification

import (
	"context"
	"sync"
	"time"

	"github.com/darkkaiser/typhoon-safety-server/internal/analysis/result"
	"github.com/darkkaiser/typhoon-safety-server/internal/config"
	apperrors "github.com/darkkaiser/typhoon-safety-server/internal/pkg/errors"
	applog "github.com/darkkaiser/typhoon-safety-server/pkg/log"
	"golang.org/x/time/rate"
)

// component Notification 서비스 로깅용 컴포넌트 이름
const component = "notification.service"

const (
	// alertQueueSize 발송 대기 큐의 버퍼 크기입니다.
	// Rate Limit(1 TPS)와 종료 대기 시간(60s)을 고려하여, 종료 시 유실 없이
	// 모두 처리할 수 있는 크기로 설정합니다.
	alertQueueSize = 30

	// drainTimeout 서비스 종료 시 큐에 남은 알림을 처리하기 위해 대기하는 최대 시간입니다.
	// 타임아웃이 경과하면 남은 알림은 손실될 수 있습니다.
	drainTimeout = 60 * time.Second
)

// Service 위험 등급이 기준 이상인 분석 결과를 텔레그램으로 통보하는 알림 서비스입니다.
type Service struct {
	appConfig *config.AppConfig

	client client
	chatID int64

	// alertC 발송 대기중인 알림 메시지를 버퍼링하는 내부 큐
	alertC chan string

	// rateLimiter 텔레그램 API 호출 속도를 제어합니다 (채팅방당 초당 1회 권장).
	rateLimiter *rate.Limiter

	// retryDelay API 호출 실패 시 재시도 전에 대기하는 시간
	retryDelay time.Duration

	running   bool
	runningMu sync.Mutex
}

// NewService Notification 서비스 객체를 생성합니다.
func NewService(appConfig *config.AppConfig) *Service {
	if appConfig == nil {
		panic("AppConfig는 필수입니다")
	}

	return &Service{
		appConfig: appConfig,

		chatID: appConfig.Alerts.ChatID,

		alertC: make(chan string, alertQueueSize),

		rateLimiter: rate.NewLimiter(rate.Limit(telegramRateLimit), telegramRateBurst),
		retryDelay:  telegramRetryDelay,

		running:   false,
		runningMu: sync.Mutex{},
	}
}

// Start 알림 서비스를 시작하여 Sender 고루틴을 활성화합니다.
func (s *Service) Start(serviceStopCtx context.Context, serviceStopWG *sync.WaitGroup) error {
	s.runningMu.Lock()
	defer s.runningMu.Unlock()

	applog.WithComponent(component).Info("Notification 서비스 시작중...")

	if s.running {
		defer serviceStopWG.Done()
		applog.WithComponent(component).Warn("Notification 서비스가 이미 시작됨!!!")
		return nil
	}

	if s.client == nil {
		c, err := newTelegramClient(s.appConfig.Alerts.BotToken, s.appConfig.Debug)
		if err != nil {
			defer serviceStopWG.Done()
			return apperrors.Wrap(err, apperrors.InvalidInput, "텔레그램 봇 API 클라이언트 초기화에 실패했습니다. BotToken이 올바른지 확인해주세요.")
		}
		s.client = c
	}

	go s.sendAlerts(serviceStopCtx, serviceStopWG)

	s.running = true

	applog.WithComponent(component).Info("Notification 서비스 시작됨")

	return nil
}

// AlertAnalysis 분석 결과의 위험 등급이 알림 기준(min_risk_level) 이상이면
// 경고 알림을 발송 큐에 등록합니다.
//
// 반환값은 발송 요청이 큐에 등록되었는지 여부이며, 실제 전송 성공 여부는 아닙니다.
func (s *Service) AlertAnalysis(res *result.AnalysisResult, filename string) bool {
	if res == nil || !s.appConfig.Alerts.ShouldAlert(res.OverallRiskLevel) {
		return false
	}

	return s.enqueue(buildAnalysisAlert(res, filename))
}

// AlertAnalysisFailure 이미지 분석이 실패했을 때 관리자 주의를 위한 장애 알림을
// 발송 큐에 등록합니다.
//
// 반환값은 발송 요청이 큐에 등록되었는지 여부이며, 실제 전송 성공 여부는 아닙니다.
func (s *Service) AlertAnalysisFailure(filename string, err error) bool {
	if !s.appConfig.Alerts.Enabled {
		return false
	}

	return s.enqueue(buildFailureAlert(filename, err))
}

// AlertServerError HTTP 서버 구동 중 발생한 치명적인 오류를 관리자에게 통보하는
// 알림을 발송 큐에 등록합니다.
//
// 반환값은 발송 요청이 큐에 등록되었는지 여부이며, 실제 전송 성공 여부는 아닙니다.
func (s *Service) AlertServerError(message string, err error) bool {
	if !s.appConfig.Alerts.Enabled {
		return false
	}

	return s.enqueue(buildServerErrorAlert(message, err))
}

// enqueue 알림 메시지를 발송 큐에 비차단 방식으로 등록합니다.
// 큐가 가득 찬 경우 메시지를 버리고 로그를 남깁니다.
func (s *Service) enqueue(message string) bool {
	s.runningMu.Lock()
	running := s.running
	s.runningMu.Unlock()

	if !running {
		applog.WithComponent(component).Warn("Notification 서비스가 중지된 상태여서 알림을 전송할 수 없습니다")
		return false
	}

	select {
	case s.alertC <- message:
		return true
	default:
		applog.WithComponentAndFields(component, applog.Fields{
			"queue_size": alertQueueSize,
		}).Warn("알림 발송 큐가 가득 차 메시지를 폐기합니다")
		return false
	}
}

// sendAlerts 발송 큐로부터 알림 메시지를 수신하여 텔레그램으로 전송하는 Sender 루프입니다.
// 서비스 종료 시그널을 받으면 큐에 남은 메시지를 최대한 처리(Drain)한 후 종료합니다.
func (s *Service) sendAlerts(serviceStopCtx context.Context, serviceStopWG *sync.WaitGroup) {
	defer serviceStopWG.Done()

	for {
		select {
		case message := <-s.alertC:
			s.sendMessage(serviceStopCtx, message)

		case <-serviceStopCtx.Done():
			applog.WithComponent(component).Info("Notification 서비스 중지중...")

			s.drainRemainingAlerts()

			s.runningMu.Lock()
			s.running = false
			s.runningMu.Unlock()

			applog.WithComponent(component).Info("Notification 서비스 중지됨")

			return
		}
	}
}

// drainRemainingAlerts 종료 시그널 수신 후 큐에 남은 알림을 최대한 발송합니다.
// serviceStopCtx는 이미 취소된 상태이므로 별도의 시간 제한 컨텍스트를 사용합니다.
func (s *Service) drainRemainingAlerts() {
	drainCtx, cancel := context.WithTimeout(context.Background(), drainTimeout)
	defer cancel()

	for {
		select {
		case message := <-s.alertC:
			if drainCtx.Err() != nil {
				applog.WithComponentAndFields(component, applog.Fields{
					"timeout":             drainTimeout,
					"remaining_in_buffer": len(s.alertC),
				}).Warn("잔여 알림 폐기: 종료 대기 시간(Drain Timeout) 초과")
				return
			}

			s.sendMessage(drainCtx, message)

		default:
			return
		}
	}
}
