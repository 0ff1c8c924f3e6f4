// Package metrics 이미지 분석 API의 Prometheus 메트릭을 정의합니다.
//
// 메트릭은 전역 기본 레지스트리에 등록되며, /metrics 엔드포인트를 통해
// 노출됩니다. Register는 여러 번 호출해도 안전합니다.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// 분석 결과(outcome) 라벨 값입니다.
const (
	OutcomeSuccess      = "success"       // 분석 성공 (파싱 실패로 인한 대체 결과 포함)
	OutcomeInvalidInput = "invalid_input" // 클라이언트 요청 오류 (파일 누락, 형식 오류 등)
	OutcomeFailure      = "failure"       // 전처리 또는 모델 호출 실패
)

var (
	once sync.Once

	// AnalyzeRequestsTotal 분석 요청 처리 건수 (outcome 라벨로 구분)
	AnalyzeRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "typhoon",
		Subsystem: "api",
		Name:      "analyze_requests_total",
		Help:      "이미지 분석 요청의 총 처리 건수 (outcome: success/invalid_input/failure)",
	}, []string{"outcome"})

	// AnalyzeDurationSeconds 분석 요청의 전체 처리 시간 (전처리 + 모델 호출 + 파싱)
	AnalyzeDurationSeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "typhoon",
		Subsystem: "api",
		Name:      "analyze_duration_seconds",
		Help:      "이미지 분석 요청의 전체 처리 시간(초)",
		// 모델 호출이 수 초 단위이므로 카디널리티를 낮게 유지하는 거친 버킷을 사용한다.
		Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 20, 30, 60, 120},
	}, []string{"outcome"})

	// UploadSizeBytes 업로드된 이미지 파일의 크기 분포
	UploadSizeBytes = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "typhoon",
		Subsystem: "api",
		Name:      "analyze_upload_size_bytes",
		Help:      "분석 요청으로 업로드된 이미지 파일의 크기(바이트)",
		// 1KB ~ 16MB 구간을 4배수로 커버한다.
		Buckets: prometheus.ExponentialBuckets(1024, 4, 8),
	})
)

// Register 분석 API 메트릭을 기본 Prometheus 레지스트리에 등록합니다.
// 여러 번 호출해도 안전합니다.
func Register() {
	once.Do(func() {
		prometheus.MustRegister(
			AnalyzeRequestsTotal,
			AnalyzeDurationSeconds,
			UploadSizeBytes,
		)
	})
}
