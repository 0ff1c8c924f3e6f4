package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/darkkaiser/typhoon-safety-server/internal/analysis"
	"github.com/darkkaiser/typhoon-safety-server/internal/config"
	"github.com/darkkaiser/typhoon-safety-server/internal/pkg/version"
	"github.com/darkkaiser/typhoon-safety-server/internal/service"
	"github.com/darkkaiser/typhoon-safety-server/internal/service/api"
	"github.com/darkkaiser/typhoon-safety-server/internal/service/history"
	"github.com/darkkaiser/typhoon-safety-server/internal/service/notification"
	"github.com/darkkaiser/typhoon-safety-server/internal/service/scheduler"
	applog "github.com/darkkaiser/typhoon-safety-server/pkg/log"
	"github.com/darkkaiser/typhoon-safety-server/pkg/strutil"
	log "github.com/sirupsen/logrus"
)

// @title 태풍 안전 분석 API
// @version 1.0.0
// @description 주거지 주변 사진을 분석하여 태풍 대비 위험요소를 탐지하는 REST API입니다.
// @description
// @description 업로드된 이미지는 Google Gemini 비전 모델로 전달되며, 네 가지 카테고리(강풍에 날아갈 수 있는 물체, 구조적 취약점, 높은 곳의 낙하 위험 물체, 나무 관련 위험)로 분류된 위험요소와 긴급 조치사항을 JSON으로 반환합니다.
// @description
// @description ## 주요 기능
// @description - 이미지 기반 태풍 위험요소 분석 (jpg, jpeg, png, bmp 지원)
// @description - 종합 위험 등급 산정 (low, medium, high, critical)
// @description - 위험요소별 권장 조치사항 제공
// @description - 분석 이력 저장 및 보존 기간 관리 (선택 기능)
// @description - 치명적 위험 감지 시 텔레그램 알림 (선택 기능)

// @termsOfService http://swagger.io/terms/

// @contact.name DarkKaiser
// @contact.url https://github.com/DarkKaiser
// @contact.email darkkaiser@gmail.com

// @license.name MIT
// @license.url https://github.com/DarkKaiser/typhoon-safety-server/blob/master/LICENSE

// @host typhoon.darkkaiser.com:8443
// @BasePath /

const (
	banner = `
 _____                _                             ____           __        _
|_   _| _   _  _ __  | |__    ___    ___   _ __    / ___|   __ _  / _|  ___ | |_  _   _
  | |  | | | || '_ \ | '_ \  / _ \  / _ \ | '_ \   \___ \  / _' || |_  / _ \| __|| | | |
  | |  | |_| || |_) || | | || (_) || (_) || | | |   ___) || (_| ||  _||  __/| |_ | |_| |
  |_|   \__, || .__/ |_| |_| \___/  \___/ |_| |_|  |____/  \__,_||_|   \___| \__| \__, |
        |___/ |_|                                                                 |___/
                                                                                  %s
                                                                 developed by DarkKaiser
-----------------------------------------------------------------------------------------
`
)

func main() {
	// 1. 실행 인자 처리
	configFile := flag.String("config", config.DefaultFilename, "환경설정 파일 경로")
	flag.Parse()

	// 2. 환경설정 로드 (로그 설정에 필요하므로 가장 먼저 수행한다)
	appConfig, err := config.LoadWithFile(*configFile)
	if err != nil {
		// 로거 초기화 전이므로 표준 에러에 출력
		fmt.Fprintf(os.Stderr, "[FATAL] 환경설정 로드 실패: %v\n", err)
		os.Exit(1)
	}

	// 3. 로그 시스템 초기화
	var logOpts applog.Options
	if appConfig.Debug {
		logOpts = applog.NewDevelopmentOptions(config.AppName)
	} else {
		logOpts = applog.NewProductionOptions(config.AppName)
	}

	appLogCloser, err := applog.Setup(logOpts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "[FATAL] 로그 시스템 초기화 실패. 서버 구동을 중단합니다. (Cause: %v)\n", err)
		os.Exit(1)
	}
	defer appLogCloser.Close()

	// 4. 로그 레벨 최종 확정
	applog.SetDebugMode(appConfig.Debug)

	buildInfo := version.Get()

	// 아스키아트 출력(https://ko.rakko.tools/tools/68/, 폰트:standard)
	fmt.Printf(banner, buildInfo.Version)

	// 빌드 정보 출력
	applog.WithComponentAndFields("main", log.Fields{
		"version": buildInfo.String(),
		"env":     map[bool]string{true: "development", false: "production"}[appConfig.Debug],
	}).Info("서버 초기화 시작")

	// 권장 설정 미준수 항목 경고 출력
	for _, warning := range appConfig.VerifyRecommendations() {
		applog.WithComponent("main").Warn(warning)
	}

	// API 키는 마스킹하여 일부만 기록한다.
	applog.WithComponentAndFields("main", log.Fields{
		"gemini_model":   appConfig.Gemini.Model,
		"gemini_api_key": strutil.MaskSensitiveData(appConfig.Gemini.APIKey),
	}).Debug("환경설정 로드 완료")

	// 서비스를 생성하고 초기화한다.
	analyzer := analysis.NewAnalyzer(appConfig)

	var services []service.Service

	// 분석 이력 저장소 (선택 기능: history.enabled)
	var historyStore *history.Store
	var historyRecorder *history.Recorder
	if appConfig.History.Enabled {
		historyStore, err = history.NewStore(appConfig.History.DSN)
		if err != nil {
			applog.WithComponentAndFields("main", log.Fields{
				"error": err,
			}).Error("분석 이력 저장소 초기화 실패")

			log.Fatal("분석 이력 저장소 초기화 실패로 프로그램을 종료합니다")
		}
		defer historyStore.Close()

		historyRecorder = history.NewRecorder(historyStore)
		services = append(services, historyRecorder)
		services = append(services, scheduler.NewService(appConfig.History, historyStore))
	}

	// 위험 알림 발송 (선택 기능: alerts.enabled)
	var alertService *notification.Service
	if appConfig.Alerts.Enabled {
		alertService = notification.NewService(appConfig)
		services = append(services, alertService)
	}

	apiService := api.NewService(appConfig, analyzer, historyStore, historyRecorder, alertService, buildInfo)
	services = append(services, apiService)

	// Set up cancellation context and waitgroup
	serviceStopCtx, cancel := context.WithCancel(context.Background())
	serviceStopWG := &sync.WaitGroup{}

	// 서비스를 시작한다.
	for _, s := range services {
		serviceStopWG.Add(1)
		if err := s.Start(serviceStopCtx, serviceStopWG); err != nil {
			applog.WithComponentAndFields("main", log.Fields{
				"error": err,
			}).Error("서비스 초기화 실패")

			cancel() // 다른 서비스들도 종료
			serviceStopWG.Wait()

			log.Fatal("서비스 초기화 실패로 프로그램을 종료합니다")
		}
	}

	// Handle sigterm and await termC signal
	termC := make(chan os.Signal, 1)
	signal.Notify(termC, syscall.SIGINT, syscall.SIGTERM)

	applog.WithComponent("main").Info("서버 가동 완료")

	<-termC // Blocks here until interrupted

	// Handle shutdown
	applog.WithComponent("main").Info("Shutdown signal received")
	cancel()             // Signal cancellation to context.Context
	serviceStopWG.Wait() // Block here until are workers are done
}
