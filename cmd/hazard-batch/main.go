// hazard-batch 디렉토리 안의 이미지들을 일괄 분석하는 디버그용 CLI입니다.
//
// 지정된 디렉토리의 지원 이미지(jpg, jpeg, png, bmp)를 순서대로 분석하여
// 이미지별 결과 JSON 파일을 저장하고, 전체 요약을 표 형태로 출력합니다.
// 하나라도 분석에 실패하면 종료 코드 1을 반환합니다.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"text/tabwriter"

	"github.com/darkkaiser/typhoon-safety-server/internal/analysis"
	"github.com/darkkaiser/typhoon-safety-server/internal/config"
	"github.com/darkkaiser/typhoon-safety-server/internal/pkg/validation"
	applog "github.com/darkkaiser/typhoon-safety-server/pkg/log"
	log "github.com/sirupsen/logrus"
)

// appName 배치 CLI의 로그 파일 식별자
const appName = "hazard-batch"

func main() {
	os.Exit(run())
}

// run 배치 분석 전체 과정을 수행하고 프로세스 종료 코드를 반환합니다.
// os.Exit는 defer를 건너뛰므로 리소스 정리는 이 함수 안에서 마칩니다.
func run() int {
	// 1. 실행 인자 처리
	imageDir := flag.String("dir", "", "분석할 이미지 디렉토리 경로 (필수)")
	configFile := flag.String("config", config.DefaultFilename, "환경설정 파일 경로")
	outDir := flag.String("out", "", "결과 JSON 파일을 저장할 디렉토리 (기본값: 이미지 디렉토리)")
	flag.Parse()

	if *imageDir == "" {
		fmt.Fprintln(os.Stderr, "[ERROR] 분석할 이미지 디렉토리(-dir)를 지정하세요")
		flag.Usage()
		return 1
	}

	// 2. 환경설정 로드
	appConfig, err := config.LoadWithFile(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "[FATAL] 환경설정 로드 실패: %v\n", err)
		return 1
	}

	// 3. 로그 시스템 초기화 (배치 도구이므로 콘솔 출력 중심의 개발 프로파일 사용)
	appLogCloser, err := applog.Setup(applog.NewDevelopmentOptions(appName))
	if err != nil {
		fmt.Fprintf(os.Stderr, "[FATAL] 로그 시스템 초기화 실패: %v\n", err)
		return 1
	}
	defer appLogCloser.Close()

	applog.SetDebugMode(appConfig.Debug)

	// 4. 입출력 디렉토리 검증
	if err := validation.ValidateDirExists(*imageDir); err != nil {
		applog.WithComponentAndFields(appName, log.Fields{
			"dir": *imageDir,
		}).Error(err.Error())
		return 1
	}

	resultDir := *outDir
	if resultDir == "" {
		resultDir = *imageDir
	}
	if err := os.MkdirAll(resultDir, 0755); err != nil {
		applog.WithComponentAndFields(appName, log.Fields{
			"dir":   resultDir,
			"error": err,
		}).Error("결과 저장 디렉토리를 생성할 수 없습니다")
		return 1
	}

	// 5. 일괄 분석 수행 (Ctrl+C로 중단 가능)
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	analyzer := analysis.NewAnalyzer(appConfig)

	results, err := analyzer.AnalyzeDir(ctx, *imageDir)
	if err != nil {
		applog.WithComponentAndFields(appName, log.Fields{
			"dir":   *imageDir,
			"error": err,
		}).Error("이미지 디렉토리 분석에 실패했습니다")
		return 1
	}

	if len(results) == 0 {
		fmt.Printf("분석할 이미지가 없습니다: %s (지원 형식: jpg, jpeg, png, bmp)\n", *imageDir)
		return 0
	}

	// 6. 이미지별 결과 JSON 파일 저장 및 요약 출력
	failed := writeResults(results, resultDir)
	printSummary(results, resultDir, failed)

	if failed > 0 {
		return 1
	}
	return 0
}

// writeResults 이미지별 분석 결과를 JSON 파일로 저장하고 실패한 이미지 수를 반환합니다.
// 분석에 실패한 이미지는 에러 내용을 담은 결과 파일을 대신 기록합니다.
func writeResults(results []analysis.FileResult, resultDir string) int {
	failed := 0

	for _, r := range results {
		succeeded := r.Err == nil

		var payload any
		if r.Err != nil {
			payload = analysis.NewErrorResult(r.Err, r.ImagePath)
		} else {
			payload = r.Result
		}

		data, err := json.MarshalIndent(payload, "", "  ")
		if err != nil {
			succeeded = false
			applog.WithComponentAndFields(appName, log.Fields{
				"image": r.ImagePath,
				"error": err,
			}).Error("분석 결과 직렬화에 실패했습니다")
		} else {
			resultPath := filepath.Join(resultDir, analysis.ResultFilename(r.ImagePath))
			if err := os.WriteFile(resultPath, data, 0644); err != nil {
				succeeded = false
				applog.WithComponentAndFields(appName, log.Fields{
					"image": r.ImagePath,
					"path":  resultPath,
					"error": err,
				}).Error("분석 결과 파일 저장에 실패했습니다")
			}
		}

		if !succeeded {
			failed++
		}
	}

	return failed
}

// printSummary 일괄 분석 결과를 표 형태로 출력합니다.
func printSummary(results []analysis.FileResult, resultDir string, failed int) {
	fmt.Println()
	fmt.Println("==========================================================================")
	fmt.Println(" 태풍 위험요소 일괄 분석 결과")
	fmt.Println("==========================================================================")

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 3, ' ', 0)
	fmt.Fprintln(w, " 이미지\t상태\t위험등급\t위험요소\t결과 파일")

	for _, r := range results {
		name := filepath.Base(r.ImagePath)
		if r.Err != nil {
			fmt.Fprintf(w, " %s\t실패\t-\t-\t%s\n", name, analysis.ResultFilename(r.ImagePath))
			continue
		}
		fmt.Fprintf(w, " %s\t성공\t%s\t%d건\t%s\n",
			name,
			r.Result.OverallRiskLevel,
			r.Result.RiskSummary.TotalHazards,
			analysis.ResultFilename(r.ImagePath),
		)
	}
	w.Flush()

	fmt.Println("--------------------------------------------------------------------------")
	fmt.Printf(" 총 %d개 이미지 분석: 성공 %d개, 실패 %d개 (결과 저장: %s)\n",
		len(results), len(results)-failed, failed, resultDir)
	fmt.Println("==========================================================================")
}
