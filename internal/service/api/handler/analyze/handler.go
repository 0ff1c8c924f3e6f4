// Package analyze 이미지 분석 엔드포인트 핸들러를 제공합니다.
//
// 업로드된 이미지를 검증한 후 분석 파이프라인에 전달하고, 분석 결과를
// JSON으로 응답합니다. 이력 저장과 알림 발송은 비동기로 위임되므로
// 응답 시간에 영향을 주지 않습니다.
package analyze

import (
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/darkkaiser/typhoon-safety-server/internal/analysis"
	"github.com/darkkaiser/typhoon-safety-server/internal/analysis/result"
	apperrors "github.com/darkkaiser/typhoon-safety-server/internal/pkg/errors"
	"github.com/darkkaiser/typhoon-safety-server/internal/service/api/constants"
	"github.com/darkkaiser/typhoon-safety-server/internal/service/api/httputil"
	"github.com/darkkaiser/typhoon-safety-server/internal/service/api/metrics"
	"github.com/darkkaiser/typhoon-safety-server/internal/service/history"
	applog "github.com/darkkaiser/typhoon-safety-server/pkg/log"
	"github.com/labstack/echo/v4"
)

// HistoryRecorder 분석 이력을 비동기 저장 큐에 등록합니다.
type HistoryRecorder interface {
	Record(entry *history.Entry) bool
}

// AnalysisAlerter 분석 결과 경고와 분석 장애 알림을 비동기로 발송합니다.
type AnalysisAlerter interface {
	AlertAnalysis(res *result.AnalysisResult, filename string) bool
	AlertAnalysisFailure(filename string, err error) bool
}

// Handler 이미지 분석 엔드포인트 핸들러
type Handler struct {
	analyzer analysis.ImageAnalyzer

	recorder HistoryRecorder // 이력 기능 비활성화 시 nil
	alerter  AnalysisAlerter // 알림 기능 비활성화 시 nil
}

// NewHandler Handler 인스턴스를 생성합니다.
//
// recorder와 alerter는 해당 기능이 비활성화된 경우 nil을 허용합니다.
func NewHandler(analyzer analysis.ImageAnalyzer, recorder HistoryRecorder, alerter AnalysisAlerter) *Handler {
	if analyzer == nil {
		panic(constants.PanicMsgImageAnalyzerRequired)
	}

	return &Handler{
		analyzer: analyzer,

		recorder: recorder,
		alerter:  alerter,
	}
}

// AnalyzeHandler godoc
// @Summary 태풍 위험요소 이미지 분석
// @Description 업로드된 주거지 주변 이미지에서 태풍 대비 위험요소를 분석합니다.
// @Description
// @Description 위험요소는 네 가지 카테고리로 분류됩니다:
// @Description - flying_objects: 강풍에 날아갈 수 있는 물건
// @Description - structural_damage: 구조적 취약점
// @Description - elevated_objects: 높은 곳에서 낙하할 수 있는 물건
// @Description - tree_hazards: 나무 관련 위험요소
// @Tags Analysis
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "분석할 이미지 파일 (jpg, jpeg, png, bmp)"
// @Success 200 {object} result.AnalysisResult "분석 결과"
// @Failure 400 {object} response.ErrorResponse "잘못된 요청 (파일 누락, 미지원 형식, 빈 파일)"
// @Failure 413 {object} response.ErrorResponse "요청 본문 크기 초과"
// @Failure 429 {object} response.ErrorResponse "요청 속도 제한 초과"
// @Failure 500 {object} response.ErrorResponse "이미지 분석 실패"
// @Router /analyze [post]
func (h *Handler) AnalyzeHandler(c echo.Context) error {
	fileHeader, err := c.FormFile(constants.FormFieldFile)
	if err != nil {
		metrics.AnalyzeRequestsTotal.WithLabelValues(metrics.OutcomeInvalidInput).Inc()
		return httputil.NewBadRequestError(constants.ErrMsgFileFieldRequired)
	}

	if !analysis.IsSupportedImage(fileHeader.Filename) {
		metrics.AnalyzeRequestsTotal.WithLabelValues(metrics.OutcomeInvalidInput).Inc()
		return httputil.NewBadRequestError(constants.ErrMsgUnsupportedFileType)
	}

	data, err := readUploadedFile(fileHeader)
	if err != nil {
		metrics.AnalyzeRequestsTotal.WithLabelValues(metrics.OutcomeInvalidInput).Inc()
		return httputil.NewBadRequestError(constants.ErrMsgFileReadFailed)
	}

	if len(data) == 0 {
		metrics.AnalyzeRequestsTotal.WithLabelValues(metrics.OutcomeInvalidInput).Inc()
		return httputil.NewBadRequestError(constants.ErrMsgEmptyFile)
	}

	metrics.UploadSizeBytes.Observe(float64(len(data)))

	requestID := c.Response().Header().Get(echo.HeaderXRequestID)

	applog.WithComponentAndFields(constants.ComponentHandler, applog.Fields{
		"request_id": requestID,
		"filename":   fileHeader.Filename,
		"size_bytes": len(data),
	}).Info("이미지 분석 요청 수신")

	started := time.Now()
	res, err := h.analyzer.Analyze(c.Request().Context(), data)
	elapsed := time.Since(started)

	if err != nil {
		return h.handleAnalysisError(requestID, fileHeader.Filename, err, elapsed)
	}

	metrics.AnalyzeRequestsTotal.WithLabelValues(metrics.OutcomeSuccess).Inc()
	metrics.AnalyzeDurationSeconds.WithLabelValues(metrics.OutcomeSuccess).Observe(elapsed.Seconds())

	applog.WithComponentAndFields(constants.ComponentHandler, applog.Fields{
		"request_id":    requestID,
		"filename":      fileHeader.Filename,
		"risk_level":    res.OverallRiskLevel,
		"total_hazards": res.RiskSummary.TotalHazards,
		"duration_ms":   elapsed.Milliseconds(),
	}).Info("이미지 분석 완료")

	h.recordHistory(requestID, fileHeader.Filename, res, elapsed)

	if h.alerter != nil {
		h.alerter.AlertAnalysis(res, fileHeader.Filename)
	}

	return c.JSON(http.StatusOK, res)
}

// handleAnalysisError 분석 파이프라인 오류를 HTTP 응답으로 변환합니다.
//
// 입력 오류(InvalidInput)는 400으로, 그 외 모든 오류(모델 호출 실패,
// 전처리 실패 등)는 내부 상세를 감춘 500으로 응답합니다.
func (h *Handler) handleAnalysisError(requestID string, filename string, err error, elapsed time.Duration) error {
	applog.WithComponentAndFields(constants.ComponentHandler, applog.Fields{
		"error":       err,
		"request_id":  requestID,
		"filename":    filename,
		"duration_ms": elapsed.Milliseconds(),
	}).Error("이미지 분석 실패")

	if apperrors.Is(err, apperrors.InvalidInput) {
		metrics.AnalyzeRequestsTotal.WithLabelValues(metrics.OutcomeInvalidInput).Inc()

		message := constants.ErrMsgBadRequest
		var appErr *apperrors.AppError
		if apperrors.As(err, &appErr) {
			message = appErr.Message()
		}
		return httputil.NewBadRequestError(message)
	}

	metrics.AnalyzeRequestsTotal.WithLabelValues(metrics.OutcomeFailure).Inc()
	metrics.AnalyzeDurationSeconds.WithLabelValues(metrics.OutcomeFailure).Observe(elapsed.Seconds())

	if h.alerter != nil {
		h.alerter.AlertAnalysisFailure(filename, err)
	}

	return httputil.NewInternalServerError(constants.ErrMsgAnalysisFailed)
}

// recordHistory 분석 이력을 비동기 저장 큐에 등록합니다.
// 이력 기능이 비활성화된 경우 아무 작업도 하지 않습니다.
func (h *Handler) recordHistory(requestID string, filename string, res *result.AnalysisResult, elapsed time.Duration) {
	if h.recorder == nil {
		return
	}

	resultJSON, err := json.Marshal(res)
	if err != nil {
		applog.WithComponentAndFields(constants.ComponentHandler, applog.Fields{
			"error":      err,
			"request_id": requestID,
		}).Warn("분석 결과 직렬화에 실패하여 이력을 저장하지 않습니다")
		return
	}

	h.recorder.Record(&history.Entry{
		RequestID:    requestID,
		Filename:     filename,
		RiskLevel:    res.OverallRiskLevel,
		TotalHazards: res.RiskSummary.TotalHazards,
		Confidence:   res.ConfidenceScore,
		ResultJSON:   string(resultJSON),
		DurationMS:   elapsed.Milliseconds(),
	})
}

// readUploadedFile 멀티파트 파일을 열어 전체 내용을 읽습니다.
func readUploadedFile(fileHeader *multipart.FileHeader) ([]byte, error) {
	src, err := fileHeader.Open()
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = src.Close()
	}()

	return io.ReadAll(src)
}
